package tui

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/botshell/internal/daemon"
)

// mockClient is an in-memory daemon.BackendClient.
type mockClient struct {
	mu       sync.Mutex
	running  bool
	starts   int
	stops    int
	startErr error
	lines    []daemon.OutputLine

	// down makes every request fail like a dropped connection; connectErr
	// makes Connect fail while the host is unreachable.
	down       bool
	connectErr error
	connects   int
}

func (c *mockClient) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connects++
	if c.connectErr != nil {
		return c.connectErr
	}
	c.down = false
	return nil
}

func (c *mockClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.down
}

// setDown simulates the host going away (down) or coming back.
func (c *mockClient) setDown(down bool, connectErr error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.down = down
	c.connectErr = connectErr
}

func (c *mockClient) Start() (*daemon.ResultResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.down {
		return nil, daemon.ErrNotConnected
	}
	c.starts++
	if c.startErr != nil {
		return nil, c.startErr
	}
	if c.running {
		return &daemon.ResultResponse{Result: "already running", Message: "Backend server already running"}, nil
	}
	c.running = true
	return &daemon.ResultResponse{Result: "started", Message: "Backend server started"}, nil
}

func (c *mockClient) Stop() (*daemon.ResultResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.down {
		return nil, daemon.ErrNotConnected
	}
	c.stops++
	if !c.running {
		return &daemon.ResultResponse{Result: "not running", Message: "Backend server not running"}, nil
	}
	c.running = false
	return &daemon.ResultResponse{Result: "stopped", Message: "Backend server stopped"}, nil
}

func (c *mockClient) Check() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.down {
		return false, daemon.ErrNotConnected
	}
	return c.running, nil
}

func (c *mockClient) Status() (*daemon.StatusResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.down {
		return nil, daemon.ErrNotConnected
	}
	state := "absent"
	if c.running {
		state = "running"
	}
	return &daemon.StatusResponse{
		Host:    daemon.HostStatus{Mode: "development"},
		Backend: daemon.BackendStatus{State: state, PID: 77, Command: "python3 app.py"},
	}, nil
}

func (c *mockClient) Output(limit int) (*daemon.OutputResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.down {
		return nil, daemon.ErrNotConnected
	}
	return &daemon.OutputResponse{Lines: append([]daemon.OutputLine(nil), c.lines...)}, nil
}

func (c *mockClient) Close() error { return nil }

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes cmd and feeds resulting messages back into m, following
// batches, until no command is left. Tick commands are skipped.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatal("command loop did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := runWithTimeout(c)
		switch msg := msg.(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			next, nextCmd := m.Update(msg)
			m = next.(Model)
			queue = append(queue, nextCmd)
		}
	}
	return m
}

// runWithTimeout runs c, treating commands that block (tea.Tick) as empty.
func runWithTimeout(c tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}

func sizedModel(t *testing.T, client daemon.BackendClient) Model {
	t.Helper()
	m := NewWithClient(client)
	m.reconnectBase = time.Millisecond
	m.reconnectDelay = time.Millisecond
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func TestModel_ViewBeforeReady(t *testing.T) {
	if got := New().View(); got != "Loading..." {
		t.Errorf("View() = %q, want Loading...", got)
	}
}

func TestModel_InitWithoutClient(t *testing.T) {
	if cmd := New().Init(); cmd != nil {
		t.Error("Init() without client should return nil")
	}
}

func TestModel_StartStop(t *testing.T) {
	client := &mockClient{}
	m := sizedModel(t, client)

	next, cmd := m.Update(keyMsg("s"))
	m = next.(Model)
	if !m.busy {
		t.Error("model should be busy while start is in flight")
	}

	// A second start while busy is ignored.
	next, dup := m.Update(keyMsg("s"))
	m = next.(Model)
	if dup != nil {
		if msg := runWithTimeout(dup); msg != nil {
			if _, ok := msg.(resultMsg); ok {
				t.Error("second start dispatched while busy")
			}
		}
	}

	m = run(t, m, cmd)
	if m.busy {
		t.Error("model still busy after start result")
	}
	if !m.header.Running() {
		t.Error("header should show running after start")
	}
	if !strings.Contains(m.View(), "Backend server started") {
		t.Errorf("view missing start notice:\n%s", m.View())
	}

	next, cmd = m.Update(keyMsg("x"))
	m = run(t, next.(Model), cmd)
	if m.header.Running() {
		t.Error("header should show stopped after stop")
	}
	if !strings.Contains(m.View(), "Backend server stopped") {
		t.Errorf("view missing stop notice:\n%s", m.View())
	}

	client.mu.Lock()
	defer client.mu.Unlock()
	if client.starts != 1 || client.stops != 1 {
		t.Errorf("starts=%d stops=%d, want 1 and 1", client.starts, client.stops)
	}
}

func TestModel_StartError(t *testing.T) {
	client := &mockClient{startErr: errors.New("failed to start backend server")}
	m := sizedModel(t, client)

	next, cmd := m.Update(keyMsg("s"))
	m = run(t, next.(Model), cmd)

	if m.err == nil {
		t.Fatal("expected error to be recorded")
	}
	if !strings.Contains(m.View(), "Error: start: failed to start backend server") {
		t.Errorf("view missing error:\n%s", m.View())
	}

	next, _ = m.Update(clearErrorMsg{})
	m = next.(Model)
	if m.err != nil || strings.Contains(m.View(), "Error:") {
		t.Error("error not cleared")
	}
}

func TestModel_ManualCheck(t *testing.T) {
	client := &mockClient{running: true}
	m := sizedModel(t, client)

	next, cmd := m.Update(keyMsg("r"))
	m = run(t, next.(Model), cmd)

	if !m.header.Running() {
		t.Error("header should show running")
	}
	if !strings.Contains(m.View(), "Backend server running") {
		t.Errorf("view missing check notice:\n%s", m.View())
	}
}

func TestModel_PollDetectsExternalExit(t *testing.T) {
	client := &mockClient{running: true}
	m := sizedModel(t, client)
	m = run(t, m, m.Init())
	if !m.header.Running() {
		t.Fatal("expected running after init")
	}

	// Backend dies outside the panel's control.
	client.mu.Lock()
	client.running = false
	client.mu.Unlock()

	next, cmd := m.Update(pollMsg(time.Now()))
	m = run(t, next.(Model), cmd)

	if m.header.Running() {
		t.Error("poll should notice the backend exited")
	}
	if strings.Contains(m.View(), "Backend server not running") {
		t.Error("periodic check should not show a notice")
	}
}

func TestModel_OutputShown(t *testing.T) {
	client := &mockClient{lines: []daemon.OutputLine{
		{Time: time.Now(), Stream: "stdout", Text: "Uvicorn running on http://127.0.0.1:8000"},
		{Time: time.Now(), Stream: "stderr", Text: "deprecation warning"},
	}}
	m := sizedModel(t, client)
	m = run(t, m, m.fetchOutput())

	if m.output.Len() != 2 {
		t.Fatalf("output lines = %d, want 2", m.output.Len())
	}
	view := m.View()
	if !strings.Contains(view, "Uvicorn running") || !strings.Contains(view, "deprecation warning") {
		t.Errorf("view missing output:\n%s", view)
	}
}

func TestModel_Quit(t *testing.T) {
	m := sizedModel(t, &mockClient{})
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit key should produce tea.QuitMsg")
	}
}

func TestModel_LostConnectionClearsRunningBadge(t *testing.T) {
	client := &mockClient{running: true}
	m := sizedModel(t, client)
	m.maxReconnects = 3
	m = run(t, m, m.Init())
	if !m.header.Running() {
		t.Fatal("expected running after init")
	}

	// Host goes away and stays away.
	client.setDown(true, errors.New("dial host: connection refused"))

	for range 5 {
		next, cmd := m.Update(pollMsg(time.Now()))
		m = run(t, next.(Model), cmd)
	}

	if m.header.Running() {
		t.Error("header still shows running after the host went away")
	}
	if m.connState != connectionDisconnected {
		t.Errorf("connState = %v, want disconnected", m.connState)
	}
	if m.err == nil {
		t.Error("expected an error after reconnection gave up")
	}
	view := m.View()
	if !strings.Contains(view, "disconnected") {
		t.Errorf("view missing disconnected badge:\n%s", view)
	}
	if !strings.Contains(view, "connection lost after 3 attempts") {
		t.Errorf("view missing give-up error:\n%s", view)
	}

	client.mu.Lock()
	connects := client.connects
	client.mu.Unlock()
	if connects != 3 {
		t.Errorf("Connect() called %d times, want 3", connects)
	}

	// Start is refused while disconnected.
	next, _ := m.Update(keyMsg("s"))
	m = next.(Model)
	if m.busy {
		t.Error("start dispatched while disconnected")
	}
}

func TestModel_ReconnectsAfterHostRestart(t *testing.T) {
	client := &mockClient{running: true}
	m := sizedModel(t, client)
	m = run(t, m, m.Init())

	// The host restarts: the old connection is dead but dialing works.
	client.setDown(true, nil)

	next, cmd := m.Update(pollMsg(time.Now()))
	m = run(t, next.(Model), cmd)

	if m.connState != connectionConnected {
		t.Fatalf("connState = %v, want connected", m.connState)
	}
	if !m.header.Running() {
		t.Error("header should show running again after reconnecting")
	}
	if !strings.Contains(m.View(), "Reconnected to host") {
		t.Errorf("view missing reconnect notice:\n%s", m.View())
	}
}

func TestModel_ManualReconnect(t *testing.T) {
	client := &mockClient{}
	m := sizedModel(t, client)
	m.maxReconnects = 1

	client.setDown(true, errors.New("dial host: no such file or directory"))
	next, cmd := m.Update(checkMsg{Err: daemon.ErrNotConnected})
	m = run(t, next.(Model), cmd)
	if m.connState != connectionDisconnected {
		t.Fatalf("connState = %v, want disconnected", m.connState)
	}

	// Host is back; 'r' retries.
	client.setDown(true, nil)
	client.mu.Lock()
	client.running = true
	client.mu.Unlock()

	next, cmd = m.Update(keyMsg("r"))
	m = next.(Model)
	if m.connState != connectionReconnecting {
		t.Errorf("connState after r = %v, want reconnecting", m.connState)
	}
	m = run(t, m, cmd)

	if m.connState != connectionConnected {
		t.Fatalf("connState = %v, want connected", m.connState)
	}
	if !m.header.Running() {
		t.Error("header should show running after manual reconnect")
	}
}

func TestModel_ServerErrorKeepsConnection(t *testing.T) {
	client := &mockClient{startErr: daemon.NewServerError("start", "failed to start backend server")}
	m := sizedModel(t, client)

	next, cmd := m.Update(keyMsg("s"))
	m = run(t, next.(Model), cmd)

	if m.connState != connectionConnected {
		t.Errorf("connState = %v, want connected after a host-reported failure", m.connState)
	}
}
