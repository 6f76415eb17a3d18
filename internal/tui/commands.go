package tui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// pollInterval is how often the panel checks the backend on its own.
const pollInterval = 2 * time.Second

// pollCmd schedules the next periodic check.
func pollCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

// clearErrorCmd returns a command that clears the error after a delay.
func clearErrorCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(t time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}

// setError sets an error to display and returns a command to clear it after a timeout.
func (m *Model) setError(err error) tea.Cmd {
	m.err = err
	m.helpBar.SetError(err.Error())
	return clearErrorCmd()
}

// attemptReconnect redials the host after the current backoff delay.
func (m Model) attemptReconnect() tea.Cmd {
	delay := m.reconnectDelay
	client := m.client
	return func() tea.Msg {
		if client == nil {
			return nil
		}
		time.Sleep(delay)
		if !client.IsConnected() {
			if err := client.Connect(); err != nil {
				return reconnectMsg{Success: false, Err: err}
			}
		}
		return reconnectMsg{Success: true}
	}
}

// startBackend asks the host to start the backend.
func (m Model) startBackend() tea.Cmd {
	return func() tea.Msg {
		if m.client == nil {
			return nil
		}
		resp, err := m.client.Start()
		if err != nil {
			slog.Error("tui.startBackend: start failed", "error", err)
		}
		return resultMsg{Op: "start", Resp: resp, Err: err}
	}
}

// stopBackend asks the host to stop the backend.
func (m Model) stopBackend() tea.Cmd {
	return func() tea.Msg {
		if m.client == nil {
			return nil
		}
		resp, err := m.client.Stop()
		if err != nil {
			slog.Error("tui.stopBackend: stop failed", "error", err)
		}
		return resultMsg{Op: "stop", Resp: resp, Err: err}
	}
}

// checkBackend probes backend liveness.
func (m Model) checkBackend(manual bool) tea.Cmd {
	return func() tea.Msg {
		if m.client == nil {
			return nil
		}
		running, err := m.client.Check()
		return checkMsg{Running: running, Manual: manual, Err: err}
	}
}

// fetchStatus retrieves the host and backend snapshot.
func (m Model) fetchStatus() tea.Cmd {
	return func() tea.Msg {
		if m.client == nil {
			return nil
		}
		status, err := m.client.Status()
		return statusMsg{Status: status, Err: err}
	}
}

// fetchOutput retrieves recent backend output.
func (m Model) fetchOutput() tea.Cmd {
	return func() tea.Msg {
		if m.client == nil {
			return nil
		}
		resp, err := m.client.Output(outputLimit)
		if err != nil {
			return outputMsg{Err: err}
		}
		return outputMsg{Lines: resp.Lines}
	}
}
