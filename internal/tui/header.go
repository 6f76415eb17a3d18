package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/botshell/internal/daemon"
)

// Header displays branding, the backend state badge and host details.
type Header struct {
	width int

	running   bool
	busy      bool
	status    *daemon.StatusResponse
	connState connectionState

	// now is stubbed in tests.
	now func() time.Time
}

// NewHeader creates a new header component.
func NewHeader() Header {
	return Header{now: time.Now}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetRunning updates the backend state badge.
func (h *Header) SetRunning(running bool) {
	h.running = running
}

// SetConnectionState updates the host connection indicator. While not
// connected the backend state is unknown, so the running badge is dropped.
func (h *Header) SetConnectionState(state connectionState) {
	h.connState = state
	if state != connectionConnected {
		h.running = false
	}
}

// SetBusy marks a start or stop request as in flight.
func (h *Header) SetBusy(busy bool) {
	h.busy = busy
}

// SetStatus updates the host and backend details.
func (h *Header) SetStatus(status *daemon.StatusResponse) {
	h.status = status
	if status != nil {
		h.running = status.Backend.State == "running"
	}
}

// Running reports the state shown by the badge.
func (h Header) Running() bool {
	return h.running
}

// View renders the header.
func (h Header) View() string {
	brand := headerBrandStyle.Render("botshell")

	var badge string
	switch {
	case h.connState == connectionDisconnected:
		badge = badgeDisconnectedStyle.Render("disconnected")
	case h.connState == connectionReconnecting:
		badge = badgeReconnectingStyle.Render("reconnecting...")
	case h.busy:
		badge = badgeBusyStyle.Render("working")
	case h.running:
		badge = badgeRunningStyle.Render("running")
	default:
		badge = badgeAbsentStyle.Render("stopped")
	}

	var statsParts []string
	if h.status != nil && h.connState == connectionConnected {
		b := h.status.Backend
		if h.running && b.PID != 0 {
			statsParts = append(statsParts, fmt.Sprintf("pid %d", b.PID))
		}
		if h.running && !b.StartedAt.IsZero() {
			statsParts = append(statsParts, "up "+formatDuration(h.now().Sub(b.StartedAt)))
		}
		if !h.running && b.LastExit != nil {
			statsParts = append(statsParts, fmt.Sprintf("last exit %d", b.LastExit.Code))
		}
		if h.status.Host.Mode != "" {
			statsParts = append(statsParts, h.status.Host.Mode)
		}
	}

	var stats string
	if len(statsParts) > 0 {
		stats = headerStatsStyle.Render(strings.Join(statsParts, "  •  "))
	}

	brandWidth := lipgloss.Width(brand)
	badgeWidth := lipgloss.Width(badge)
	statsWidth := lipgloss.Width(stats)
	spacerWidth := h.width - brandWidth - badgeWidth - statsWidth
	if spacerWidth < 0 {
		spacerWidth = 0
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	content := lipgloss.JoinHorizontal(lipgloss.Top, brand, badge, spacer, stats)
	return headerContainerStyle.Width(h.width).Render(content)
}

// formatDuration formats a duration compactly (e.g. "45s", "12m", "3h5m").
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
