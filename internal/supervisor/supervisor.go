package supervisor

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Config configures a Supervisor.
type Config struct {
	// Command is the backend command line, usually from Invocation.Command.
	Command Command

	// Launcher spawns the backend. If nil, an ExecLauncher writing to
	// Output is used.
	Launcher Launcher

	// StopSignal is sent by Stop. If nil, the process is killed outright.
	StopSignal os.Signal

	// Output retains captured backend output. If nil, a buffer of
	// DefaultOutputLines is created.
	Output *OutputBuffer

	// Logger receives transition logs. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Supervisor owns the single backend process slot.
type Supervisor struct {
	command    Command
	launcher   Launcher
	stopSignal os.Signal
	output     *OutputBuffer
	log        *slog.Logger

	mu sync.Mutex
	// +checklocks:mu
	proc Process
	// +checklocks:mu
	startedAt time.Time
	// +checklocks:mu
	lastExit *ExitStatus
	// +checklocks:mu
	poisoned bool
}

// New creates a Supervisor in the absent state.
func New(cfg Config) *Supervisor {
	base := cfg.Logger
	if base == nil {
		base = slog.Default()
	}
	log := base.With("component", "supervisor")

	output := cfg.Output
	if output == nil {
		output = NewOutputBuffer(DefaultOutputLines)
	}

	launcher := cfg.Launcher
	if launcher == nil {
		launcher = &ExecLauncher{Output: output, Logger: base.With("component", "backend")}
	}

	stopSignal := cfg.StopSignal
	if stopSignal == nil {
		stopSignal = os.Kill
	}

	return &Supervisor{
		command:    cfg.Command,
		launcher:   launcher,
		stopSignal: stopSignal,
		output:     output,
		log:        log,
	}
}

// Command returns the backend command line this supervisor launches.
func (s *Supervisor) Command() Command {
	return s.command
}

// locked runs fn with the lock held. Panics inside fn are recovered and
// poison the supervisor; errors from fn are wrapped in an OpError.
func (s *Supervisor) locked(op string, fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.poisoned {
		return &OpError{Op: op, Err: ErrLockPoisoned}
	}

	defer func() {
		if r := recover(); r != nil {
			s.poisoned = true
			s.log.Error("panic while holding supervisor lock", "op", op, "panic", r)
			err = &OpError{Op: op, Err: fmt.Errorf("%w: %v", ErrLockPoisoned, r)}
		}
	}()

	if err := fn(); err != nil {
		return &OpError{Op: op, Err: err}
	}
	return nil
}

// Start launches the backend unless one is already running.
// A second Start while running reports ResultAlreadyRunning and spawns
// nothing.
func (s *Supervisor) Start() (Result, error) {
	var res Result
	err := s.locked("start", func() error {
		if s.proc != nil {
			res = ResultAlreadyRunning
			return nil
		}

		proc, err := s.launcher.Launch(s.command)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSpawn, err)
		}

		s.proc = proc
		s.startedAt = time.Now()
		s.log.Info("backend started", "pid", proc.Pid(), "cmd", s.command.String())
		res = ResultStarted
		return nil
	})
	if err != nil {
		return "", err
	}
	return res, nil
}

// Stop sends the stop signal to the running backend and clears the slot.
// It does not wait for the process to exit. If the signal cannot be
// delivered the handle is kept and an error wrapping ErrKill is returned.
func (s *Supervisor) Stop() (Result, error) {
	var res Result
	err := s.locked("stop", func() error {
		if s.proc == nil {
			res = ResultNotRunning
			return nil
		}

		pid := s.proc.Pid()
		if err := s.proc.Signal(s.stopSignal); err != nil {
			if !errors.Is(err, os.ErrProcessDone) {
				return fmt.Errorf("%w: %w", ErrKill, err)
			}
			// The exit status may not be collected yet; record what is known.
			_, state, _ := s.proc.TryWait()
			exit := s.recordExit(state)
			s.log.Debug("backend already exited before stop", "pid", pid, "code", exit.Code)
		}

		s.proc = nil
		s.startedAt = time.Time{}
		s.log.Info("backend stopped", "pid", pid, "signal", s.stopSignal)
		res = ResultStopped
		return nil
	})
	if err != nil {
		return "", err
	}
	return res, nil
}

// Check reports whether the backend is running. It never blocks on the
// child. If the child has exited, Check reaps it, clears the slot and
// reports false.
func (s *Supervisor) Check() (bool, error) {
	var running bool
	err := s.locked("check", func() error {
		if s.proc == nil {
			return nil
		}

		exited, state, err := s.proc.TryWait()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPoll, err)
		}
		if !exited {
			running = true
			return nil
		}

		exit := s.recordExit(state)
		s.proc = nil
		s.startedAt = time.Time{}
		s.log.Info("backend exited on its own", "pid", exit.Pid, "code", exit.Code)
		return nil
	})
	if err != nil {
		return false, err
	}
	return running, nil
}

// recordExit stores the exit of the current process as lastExit. A nil
// state records code -1.
//
// +checklocks:s.mu
func (s *Supervisor) recordExit(state *os.ProcessState) *ExitStatus {
	exit := &ExitStatus{Pid: s.proc.Pid(), Code: -1, ReapedAt: time.Now()}
	if state != nil {
		exit.Code = state.ExitCode()
		exit.Desc = state.String()
	}
	s.lastExit = exit
	return exit
}

// Status returns a snapshot of the slot without polling the child.
func (s *Supervisor) Status() (Snapshot, error) {
	var snap Snapshot
	err := s.locked("status", func() error {
		snap = Snapshot{
			State:   StateAbsent,
			Command: s.command.String(),
		}
		if s.lastExit != nil {
			exit := *s.lastExit
			snap.LastExit = &exit
		}
		if s.proc != nil {
			snap.State = StateRunning
			snap.Pid = s.proc.Pid()
			snap.StartedAt = s.startedAt
		}
		return nil
	})
	return snap, err
}

// Output returns up to limit recent lines of backend output, oldest first.
func (s *Supervisor) Output(limit int) []Line {
	return s.output.Lines(limit)
}
