package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/muesli/reflow/wordwrap"

	"github.com/tessro/botshell/internal/daemon"
)

// OutputView shows recent backend output in a scrollable pane.
type OutputView struct {
	lines    []daemon.OutputLine
	width    int
	height   int
	viewport viewport.Model
	ready    bool
}

// NewOutputView creates a new output view component.
func NewOutputView() OutputView {
	return OutputView{}
}

// SetSize updates the component dimensions.
func (v *OutputView) SetSize(width, height int) {
	v.width = width
	v.height = height

	// Account for border (2 chars top/bottom, 2 chars left/right)
	contentWidth := max(width-2, 1)
	contentHeight := max(height-2, 1)

	if !v.ready {
		v.viewport = viewport.New(contentWidth, contentHeight)
		v.ready = true
	} else {
		v.viewport.Width = contentWidth
		v.viewport.Height = contentHeight
	}

	v.updateContent()
}

// SetLines replaces the displayed output. The view keeps following the end
// if it was already at the bottom.
func (v *OutputView) SetLines(lines []daemon.OutputLine) {
	follow := !v.ready || v.viewport.AtBottom()
	v.lines = lines
	v.updateContent()
	if follow && v.ready {
		v.viewport.GotoBottom()
	}
}

// Len returns the number of output lines held.
func (v *OutputView) Len() int {
	return len(v.lines)
}

// ScrollUp scrolls the viewport up.
func (v *OutputView) ScrollUp(n int) {
	v.viewport.LineUp(n)
}

// ScrollDown scrolls the viewport down.
func (v *OutputView) ScrollDown(n int) {
	v.viewport.LineDown(n)
}

// PageUp scrolls up one page.
func (v *OutputView) PageUp() {
	v.viewport.ViewUp()
}

// PageDown scrolls down one page.
func (v *OutputView) PageDown() {
	v.viewport.ViewDown()
}

// GotoBottom jumps to the newest output.
func (v *OutputView) GotoBottom() {
	v.viewport.GotoBottom()
}

func (v *OutputView) updateContent() {
	if !v.ready {
		return
	}
	v.viewport.SetContent(renderLines(v.lines, v.viewport.Width))
}

// renderLines formats output lines as "15:04:05 text", wrapping long
// lines to width.
func renderLines(lines []daemon.OutputLine, width int) string {
	var sb strings.Builder
	for i, l := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		stamp := l.Time.Local().Format("15:04:05")
		textWidth := max(width-len(stamp)-1, 10)

		style := outputStdoutStyle
		if l.Stream == "stderr" {
			style = outputStderrStyle
		}

		wrapped := wordwrap.String(l.Text, textWidth)
		indent := strings.Repeat(" ", len(stamp)+1)
		for j, part := range strings.Split(wrapped, "\n") {
			if j == 0 {
				sb.WriteString(outputTimeStyle.Render(stamp) + " " + style.Render(part))
				continue
			}
			sb.WriteString("\n" + indent + style.Render(part))
		}
	}
	return sb.String()
}

// View renders the output pane.
func (v OutputView) View() string {
	style := outputBorderStyle.Width(max(v.width-2, 1)).Height(max(v.height-2, 1))
	if len(v.lines) == 0 {
		return style.Render(outputEmptyStyle.Render("No backend output yet."))
	}
	return style.Render(v.viewport.View())
}
