// Package tui provides the Bubbletea-based status panel for botshell.
//
// The panel stands in for the desktop window: it shows the backend state and
// recent output and lets the user start, stop and check the backend. Quitting
// the panel closes the window only; the host and backend keep running.
package tui

import (
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/botshell/internal/daemon"
)

// outputLimit is how many recent backend lines the panel requests.
const outputLimit = 500

const (
	// reconnectDelay is the wait before the first reconnection attempt.
	reconnectDelay = 500 * time.Millisecond
	// maxReconnectDelay caps the exponential backoff.
	maxReconnectDelay = 8 * time.Second
	// maxReconnects is how many attempts are made before giving up.
	maxReconnects = 10
)

// connectionState is the state of the panel's host connection.
type connectionState int

const (
	// connectionConnected means requests reach the host.
	connectionConnected connectionState = iota
	// connectionDisconnected means reconnection gave up; 'r' retries.
	connectionDisconnected
	// connectionReconnecting means a reconnection attempt is in progress.
	connectionReconnecting
)

// Model is the main Bubbletea model for the botshell panel.
type Model struct {
	// Window dimensions
	width  int
	height int

	// UI state
	ready bool
	err   error
	busy  bool // a start or stop request is in flight

	// Components
	header  Header
	output  OutputView
	helpBar HelpBar

	// Host client for IPC
	client daemon.BackendClient

	// Connection tracking
	connState      connectionState
	reconnectBase  time.Duration // first backoff step
	reconnectDelay time.Duration
	reconnectCount int
	maxReconnects  int

	// Key bindings
	keys KeyBindings
}

// New creates a new panel model.
func New() Model {
	return Model{
		header:  NewHeader(),
		output:  NewOutputView(),
		helpBar: NewHelpBar(),
		keys:    DefaultKeyBindings(),

		reconnectBase:  reconnectDelay,
		reconnectDelay: reconnectDelay,
		maxReconnects:  maxReconnects,
	}
}

// NewWithClient creates a panel model backed by a connected host client.
func NewWithClient(client daemon.BackendClient) Model {
	m := New()
	m.client = client
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	slog.Debug("tui.Init: starting", "has_client", m.client != nil)
	if m.client == nil {
		return nil
	}
	return tea.Batch(
		m.fetchStatus(),
		m.fetchOutput(),
		m.checkBackend(false),
		pollCmd(),
	)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return fmt.Sprintf("%s\n%s\n%s", m.header.View(), m.output.View(), m.helpBar.View())
}

// updateLayout sizes components to the window.
func (m *Model) updateLayout() {
	m.header.SetWidth(m.width)
	m.helpBar.SetWidth(m.width)

	// Header and help bar take one line each.
	outputHeight := m.height - 2
	if outputHeight < 3 {
		outputHeight = 3
	}
	m.output.SetSize(m.width, outputHeight)
}

// RunWithClient starts the panel with a pre-connected host client.
func RunWithClient(client daemon.BackendClient) error {
	slog.Debug("tui.RunWithClient: starting")
	p := tea.NewProgram(
		NewWithClient(client),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	slog.Debug("tui.RunWithClient: program exited", "error", err)
	return err
}
