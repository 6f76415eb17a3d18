package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// HelpBar displays keyboard shortcuts, the last result or an error at the
// bottom of the panel.
type HelpBar struct {
	width int
	keys  KeyBindings

	notice   string
	errorMsg string
}

// NewHelpBar creates a new help bar component.
func NewHelpBar() HelpBar {
	return HelpBar{
		keys: DefaultKeyBindings(),
	}
}

// SetWidth updates the help bar width.
func (h *HelpBar) SetWidth(width int) {
	h.width = width
}

// SetNotice shows msg next to the shortcuts.
func (h *HelpBar) SetNotice(msg string) {
	h.notice = msg
}

// SetError sets the error message to display.
func (h *HelpBar) SetError(msg string) {
	h.errorMsg = msg
}

// ClearError clears the error message.
func (h *HelpBar) ClearError() {
	h.errorMsg = ""
}

// View renders the help bar.
func (h HelpBar) View() string {
	if h.errorMsg != "" {
		return errorBarStyle.Width(h.width).Render("Error: " + h.errorMsg)
	}

	helpText := formatHelp([]key.Binding{
		h.keys.Start, h.keys.Stop, h.keys.Check, h.keys.Down, h.keys.Bottom, h.keys.Quit,
	})
	if h.notice == "" {
		return statusStyle.Width(h.width).Render(helpText)
	}
	return noticeStyle.Render(h.notice) + statusStyle.Render(helpText)
}

// formatHelp formats a list of key bindings as help text.
func formatHelp(bindings []key.Binding) string {
	var parts []string
	for _, b := range bindings {
		help := b.Help()
		parts = append(parts, help.Key+": "+help.Desc)
	}
	return strings.Join(parts, "  ")
}
