package tui

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/botshell/internal/daemon"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Start):
			if !m.busy && m.connState == connectionConnected {
				m.setBusy(true)
				cmds = append(cmds, m.startBackend())
			}
		case key.Matches(msg, m.keys.Stop):
			if !m.busy && m.connState == connectionConnected {
				m.setBusy(true)
				cmds = append(cmds, m.stopBackend())
			}
		case key.Matches(msg, m.keys.Check):
			switch m.connState {
			case connectionConnected:
				cmds = append(cmds, m.checkBackend(true))
			case connectionDisconnected:
				// Manual reconnection after automatic attempts gave up.
				slog.Debug("manual reconnection triggered")
				m.connState = connectionReconnecting
				m.header.SetConnectionState(m.connState)
				m.reconnectCount = 0
				m.reconnectDelay = m.reconnectBase
				cmds = append(cmds, m.attemptReconnect())
			}
		case key.Matches(msg, m.keys.Up):
			m.output.ScrollUp(1)
		case key.Matches(msg, m.keys.Down):
			m.output.ScrollDown(1)
		case key.Matches(msg, m.keys.PageUp):
			m.output.PageUp()
		case key.Matches(msg, m.keys.PageDown):
			m.output.PageDown()
		case key.Matches(msg, m.keys.Bottom):
			m.output.GotoBottom()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateLayout()

	case resultMsg:
		m.setBusy(false)
		if msg.Err != nil {
			cmds = append(cmds, m.setError(fmt.Errorf("%s: %w", msg.Op, msg.Err)))
			if m.isConnectionLost(msg.Err) {
				cmds = append(cmds, m.connectionLost(msg.Err))
			}
			break
		}
		if msg.Resp != nil {
			m.helpBar.SetNotice(msg.Resp.Message)
		}
		cmds = append(cmds, m.fetchStatus(), m.fetchOutput())

	case checkMsg:
		if msg.Err != nil {
			slog.Debug("tui: backend check failed", "error", msg.Err)
			if m.isConnectionLost(msg.Err) {
				cmds = append(cmds, m.connectionLost(msg.Err))
				break
			}
			if msg.Manual {
				cmds = append(cmds, m.setError(fmt.Errorf("check: %w", msg.Err)))
			}
			break
		}
		changed := msg.Running != m.header.Running()
		m.header.SetRunning(msg.Running)
		if msg.Manual {
			if msg.Running {
				m.helpBar.SetNotice("Backend server running")
			} else {
				m.helpBar.SetNotice("Backend server not running")
			}
		}
		if changed || msg.Manual {
			cmds = append(cmds, m.fetchStatus())
		}

	case statusMsg:
		if msg.Err != nil {
			slog.Debug("tui: status failed", "error", msg.Err)
			if m.isConnectionLost(msg.Err) {
				cmds = append(cmds, m.connectionLost(msg.Err))
			}
			break
		}
		m.header.SetStatus(msg.Status)

	case outputMsg:
		if msg.Err != nil {
			slog.Debug("tui: output failed", "error", msg.Err)
			if m.isConnectionLost(msg.Err) {
				cmds = append(cmds, m.connectionLost(msg.Err))
			}
			break
		}
		m.output.SetLines(msg.Lines)

	case pollMsg:
		if m.connState == connectionConnected {
			cmds = append(cmds, m.checkBackend(false), m.fetchOutput())
		}
		cmds = append(cmds, pollCmd())

	case reconnectMsg:
		if msg.Success {
			slog.Debug("reconnection successful", "attempts", m.reconnectCount+1)
			m.connState = connectionConnected
			m.reconnectCount = 0
			m.reconnectDelay = m.reconnectBase
			m.header.SetConnectionState(m.connState)
			m.err = nil
			m.helpBar.ClearError()
			m.helpBar.SetNotice("Reconnected to host")
			cmds = append(cmds, m.fetchStatus(), m.fetchOutput(), m.checkBackend(false))
			break
		}
		slog.Debug("reconnection failed", "err", msg.Err, "attempt", m.reconnectCount+1)
		m.reconnectCount++
		// Exponential backoff: 500ms, 1s, 2s, 4s, 8s (capped)
		m.reconnectDelay = min(m.reconnectDelay*2, maxReconnectDelay)
		if m.reconnectCount < m.maxReconnects {
			cmds = append(cmds, m.attemptReconnect())
		} else {
			m.connState = connectionDisconnected
			m.header.SetConnectionState(m.connState)
			cmds = append(cmds, m.setError(fmt.Errorf("connection lost after %d attempts (press 'r' to reconnect)", m.reconnectCount)))
		}

	case clearErrorMsg:
		m.err = nil
		m.helpBar.ClearError()
	}

	return m, tea.Batch(cmds...)
}

// isConnectionLost reports whether err came from a dropped host connection
// rather than a failure the host reported.
func (m Model) isConnectionLost(err error) bool {
	if err == nil || m.client == nil {
		return false
	}
	return errors.Is(err, daemon.ErrNotConnected) || !m.client.IsConnected()
}

// connectionLost marks the connection as gone and starts reconnecting.
// Only the first failure of a burst starts the backoff.
func (m *Model) connectionLost(err error) tea.Cmd {
	if m.connState != connectionConnected {
		return nil
	}
	slog.Warn("tui: host connection lost", "error", err)
	m.connState = connectionReconnecting
	m.header.SetConnectionState(m.connState)
	m.reconnectCount = 0
	m.reconnectDelay = m.reconnectBase
	return m.attemptReconnect()
}

func (m *Model) setBusy(busy bool) {
	m.busy = busy
	m.header.SetBusy(busy)
}
