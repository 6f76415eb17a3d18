package shell

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tessro/botshell/internal/daemon"
	"github.com/tessro/botshell/internal/supervisor"
)

// fakeBackend records calls and mimics the supervisor's slot semantics.
type fakeBackend struct {
	mu       sync.Mutex
	running  bool
	starts   int
	stops    int
	checks   int
	startErr error
	stopErr  error
	checkErr error
	lines    []supervisor.Line
}

func (f *fakeBackend) Start() (supervisor.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	if f.startErr != nil {
		return "", f.startErr
	}
	if f.running {
		return supervisor.ResultAlreadyRunning, nil
	}
	f.running = true
	return supervisor.ResultStarted, nil
}

func (f *fakeBackend) Stop() (supervisor.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	if f.stopErr != nil {
		return "", f.stopErr
	}
	if !f.running {
		return supervisor.ResultNotRunning, nil
	}
	f.running = false
	return supervisor.ResultStopped, nil
}

func (f *fakeBackend) Check() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks++
	if f.checkErr != nil {
		return false, f.checkErr
	}
	return f.running, nil
}

func (f *fakeBackend) Status() (supervisor.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := supervisor.Snapshot{State: supervisor.StateAbsent, Command: "python3 app.py"}
	if f.running {
		snap.State = supervisor.StateRunning
		snap.Pid = 4242
		snap.StartedAt = time.Unix(1700000000, 0)
	}
	return snap, nil
}

func (f *fakeBackend) Output(limit int) []supervisor.Line {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit <= 0 || limit >= len(f.lines) {
		return append([]supervisor.Line(nil), f.lines...)
	}
	return append([]supervisor.Line(nil), f.lines[len(f.lines)-limit:]...)
}

func (f *fakeBackend) counts() (starts, stops, checks int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts, f.stops, f.checks
}

// fakeWindow records visibility calls in order.
type fakeWindow struct {
	mu    sync.Mutex
	calls []string
}

func (w *fakeWindow) Show()  { w.record("show") }
func (w *fakeWindow) Hide()  { w.record("hide") }
func (w *fakeWindow) Focus() { w.record("focus") }

func (w *fakeWindow) record(c string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, c)
}

func (w *fakeWindow) Calls() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.calls...)
}

func newTestShell(backend Controller, mode supervisor.Mode, stopOnExit bool) *Shell {
	return New(Config{Backend: backend, Mode: mode, StopOnExit: stopOnExit})
}

func TestHandleReady(t *testing.T) {
	tests := []struct {
		name       string
		mode       supervisor.Mode
		wantStarts int
		wantResult supervisor.Result
	}{
		{"development starts backend", supervisor.ModeDevelopment, 1, supervisor.ResultStarted},
		{"production leaves backend absent", supervisor.ModeProduction, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{}
			s := newTestShell(backend, tt.mode, true)

			var got []Event
			s.OnSignal(func(e Event) { got = append(got, e) })

			s.HandleReady(context.Background())

			starts, _, _ := backend.counts()
			if starts != tt.wantStarts {
				t.Errorf("starts = %d, want %d", starts, tt.wantStarts)
			}
			if len(got) != 1 {
				t.Fatalf("events = %d, want 1", len(got))
			}
			if got[0].Signal != SignalReady {
				t.Errorf("Signal = %q, want %q", got[0].Signal, SignalReady)
			}
			if got[0].Result != tt.wantResult {
				t.Errorf("Result = %q, want %q", got[0].Result, tt.wantResult)
			}
		})
	}
}

func TestHandleReady_StartFailureIsReportedNotFatal(t *testing.T) {
	spawnErr := &supervisor.OpError{Op: "start", Err: supervisor.ErrSpawn}
	backend := &fakeBackend{startErr: spawnErr}
	s := newTestShell(backend, supervisor.ModeDevelopment, true)

	var got Event
	s.OnSignal(func(e Event) { got = e })

	s.HandleReady(context.Background())

	if !errors.Is(got.Err, supervisor.ErrSpawn) {
		t.Errorf("event Err = %v, want ErrSpawn", got.Err)
	}

	// The host keeps working; a later start attempt goes through.
	backend.mu.Lock()
	backend.startErr = nil
	backend.mu.Unlock()
	resp := s.Handle(context.Background(), &daemon.Request{Type: daemon.MsgStart})
	if !resp.Success {
		t.Errorf("start after failed auto-start: %s", resp.Error)
	}
}

func TestHandleReady_CanceledContext(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestShell(backend, supervisor.ModeDevelopment, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.HandleReady(ctx)

	if starts, _, _ := backend.counts(); starts != 0 {
		t.Errorf("starts = %d, want 0 after cancellation", starts)
	}
}

func TestHandleCloseRequested(t *testing.T) {
	backend := &fakeBackend{running: true}
	s := newTestShell(backend, supervisor.ModeDevelopment, true)
	w := &fakeWindow{}

	if !s.HandleCloseRequested(w) {
		t.Error("HandleCloseRequested() = false, want close prevented")
	}
	if calls := w.Calls(); len(calls) != 1 || calls[0] != "hide" {
		t.Errorf("window calls = %v, want [hide]", calls)
	}

	starts, stops, checks := backend.counts()
	if starts+stops+checks != 0 {
		t.Errorf("backend touched on close: starts=%d stops=%d checks=%d", starts, stops, checks)
	}
	if running, _ := backend.Check(); !running {
		t.Error("backend should keep running after close request")
	}
}

func TestHandleCloseRequested_NilWindow(t *testing.T) {
	s := newTestShell(&fakeBackend{}, supervisor.ModeProduction, true)
	if !s.HandleCloseRequested(nil) {
		t.Error("HandleCloseRequested(nil) = false, want true")
	}
}

func TestHandleTrayClick(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestShell(backend, supervisor.ModeDevelopment, true)
	w := &fakeWindow{}

	s.HandleTrayClick(w)

	calls := w.Calls()
	if len(calls) != 2 || calls[0] != "show" || calls[1] != "focus" {
		t.Errorf("window calls = %v, want [show focus]", calls)
	}
	starts, stops, checks := backend.counts()
	if starts+stops+checks != 0 {
		t.Error("tray click must not touch the backend")
	}

	// No window is tolerated.
	s.HandleTrayClick(nil)
}

func TestHandleExit(t *testing.T) {
	tests := []struct {
		name       string
		stopOnExit bool
		running    bool
		wantStops  int
		wantResult supervisor.Result
	}{
		{"stops running backend", true, true, 1, supervisor.ResultStopped},
		{"absent backend reports not running", true, false, 1, supervisor.ResultNotRunning},
		{"disabled leaves backend", false, true, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{running: tt.running}
			s := newTestShell(backend, supervisor.ModeDevelopment, tt.stopOnExit)

			var events []Event
			s.OnSignal(func(e Event) { events = append(events, e) })

			s.HandleExit()
			s.HandleExit()

			if _, stops, _ := backend.counts(); stops != tt.wantStops {
				t.Errorf("stops = %d, want %d", stops, tt.wantStops)
			}
			if len(events) != 1 {
				t.Fatalf("events = %d, want 1", len(events))
			}
			if events[0].Signal != SignalExit || events[0].Result != tt.wantResult {
				t.Errorf("event = %+v, want exit/%q", events[0], tt.wantResult)
			}
		})
	}
}

func TestOnSignal_Remove(t *testing.T) {
	s := newTestShell(&fakeBackend{}, supervisor.ModeProduction, true)

	var n int
	remove := s.OnSignal(func(Event) { n++ })
	s.HandleTrayClick(nil)
	remove()
	s.HandleTrayClick(nil)

	if n != 1 {
		t.Errorf("handler calls = %d, want 1", n)
	}
}

func TestShutdown(t *testing.T) {
	s := newTestShell(&fakeBackend{}, supervisor.ModeProduction, true)

	select {
	case <-s.Done():
		t.Fatal("Done() closed before Shutdown()")
	default:
	}

	s.Shutdown()
	s.Shutdown()

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("Done() not closed after Shutdown()")
	}
}
