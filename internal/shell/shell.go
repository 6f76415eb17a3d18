// Package shell connects host lifecycle signals and IPC requests to the
// backend supervisor.
//
// The host raises four signals: application ready, window close requested,
// tray primary click and application exit. Only ready (in development
// builds) and exit (when configured) touch the backend; close and tray
// clicks only change window visibility.
package shell

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tessro/botshell/internal/event"
	"github.com/tessro/botshell/internal/supervisor"
)

// Controller is the subset of *supervisor.Supervisor the shell drives.
type Controller interface {
	Start() (supervisor.Result, error)
	Stop() (supervisor.Result, error)
	Check() (bool, error)
	Status() (supervisor.Snapshot, error)
	Output(limit int) []supervisor.Line
}

// Window is the host's main window. Implementations must be safe to call
// from any goroutine.
type Window interface {
	Show()
	Hide()
	Focus()
}

// Signal names a host lifecycle signal.
type Signal string

const (
	SignalReady          Signal = "ready"
	SignalCloseRequested Signal = "close-requested"
	SignalTrayClick      Signal = "tray-click"
	SignalExit           Signal = "exit"
)

// Event is emitted after a signal has been handled. Result and Err are set
// when handling the signal called into the backend.
type Event struct {
	Signal Signal
	At     time.Time
	Result supervisor.Result
	Err    error
}

// Config configures a Shell.
type Config struct {
	Backend Controller
	Mode    supervisor.Mode

	// StopOnExit stops the backend when the application exits.
	StopOnExit bool

	Logger *slog.Logger
}

// Shell handles host lifecycle signals and serves IPC requests.
// It implements daemon.Handler.
type Shell struct {
	backend    Controller
	mode       supervisor.Mode
	stopOnExit bool
	log        *slog.Logger
	startedAt  time.Time

	events event.Emitter[Event]

	exitOnce   sync.Once
	shutdownCh chan struct{}
	shutdownMu sync.Mutex
}

// New creates a Shell.
func New(cfg Config) *Shell {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Shell{
		backend:    cfg.Backend,
		mode:       cfg.Mode,
		stopOnExit: cfg.StopOnExit,
		log:        log.With("component", "shell"),
		startedAt:  time.Now(),
		shutdownCh: make(chan struct{}),
	}
}

// Mode returns the build mode the shell was configured with.
func (s *Shell) Mode() supervisor.Mode {
	return s.mode
}

// StartedAt returns when the shell was created.
func (s *Shell) StartedAt() time.Time {
	return s.startedAt
}

// OnSignal registers fn to run after each handled signal.
func (s *Shell) OnSignal(fn func(Event)) (remove func()) {
	return s.events.OnEvent(fn)
}

func (s *Shell) emit(sig Signal, res supervisor.Result, err error) {
	s.events.Emit(Event{Signal: sig, At: time.Now(), Result: res, Err: err})
}

// HandleReady runs once the application has finished initializing. In
// development builds it starts the backend; the outcome is logged and the
// host keeps running either way.
func (s *Shell) HandleReady(ctx context.Context) {
	if s.mode != supervisor.ModeDevelopment {
		s.log.Debug("application ready, backend left absent", "mode", s.mode)
		s.emit(SignalReady, "", nil)
		return
	}
	if err := ctx.Err(); err != nil {
		s.log.Warn("application ready after cancellation, skipping backend start", "error", err)
		s.emit(SignalReady, "", err)
		return
	}

	res, err := s.backend.Start()
	if err != nil {
		s.log.Error("auto-start backend failed", "error", err)
	} else {
		s.log.Info(res.Message(), "mode", s.mode)
	}
	s.emit(SignalReady, res, err)
}

// HandleCloseRequested hides w instead of closing it and reports that the
// close must be prevented. The backend is left untouched.
func (s *Shell) HandleCloseRequested(w Window) (preventClose bool) {
	if w != nil {
		w.Hide()
	}
	s.log.Debug("window close requested, hiding")
	s.emit(SignalCloseRequested, "", nil)
	return true
}

// HandleTrayClick shows and focuses w.
func (s *Shell) HandleTrayClick(w Window) {
	if w != nil {
		w.Show()
		w.Focus()
	}
	s.emit(SignalTrayClick, "", nil)
}

// HandleExit runs when the application is really exiting. It stops the
// backend when configured to. Only the first call has any effect.
func (s *Shell) HandleExit() {
	s.exitOnce.Do(func() {
		if !s.stopOnExit {
			s.log.Info("application exiting, backend left running")
			s.emit(SignalExit, "", nil)
			return
		}

		res, err := s.backend.Stop()
		if err != nil {
			s.log.Error("stop backend on exit failed", "error", err)
		} else {
			s.log.Info(res.Message(), "reason", "exit")
		}
		s.emit(SignalExit, res, err)
	})
}

// Shutdown requests host shutdown. It is safe to call more than once.
func (s *Shell) Shutdown() {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()

	select {
	case <-s.shutdownCh:
	default:
		close(s.shutdownCh)
	}
}

// Done returns a channel closed when shutdown has been requested.
func (s *Shell) Done() <-chan struct{} {
	return s.shutdownCh
}
