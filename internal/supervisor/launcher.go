package supervisor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/tessro/botshell/internal/logging"
)

// Process is a handle to a spawned backend process.
type Process interface {
	// Pid returns the OS process id.
	Pid() int

	// Signal requests termination. It returns os.ErrProcessDone if the
	// process has already exited.
	Signal(sig os.Signal) error

	// TryWait reports whether the process has exited, without blocking.
	// When exited is true, state carries the reaped exit status.
	TryWait() (exited bool, state *os.ProcessState, err error)
}

// Launcher spawns backend processes.
type Launcher interface {
	Launch(cmd Command) (Process, error)
}

// ExecLauncher starts processes with os/exec. Output written by the child is
// logged and, when Output is set, retained for Supervisor.Output.
type ExecLauncher struct {
	Output *OutputBuffer
	Logger *slog.Logger
}

// Launch starts cmd and returns its handle. A single goroutine waits on the
// child so the exit status is reaped exactly once; TryWait only observes it.
func (l *ExecLauncher) Launch(c Command) (Process, error) {
	log := l.Logger
	if log == nil {
		log = slog.Default()
	}

	cmd := exec.Command(c.Path, c.Args...) //nolint:gosec // command comes from build mode and local config
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	configureSysProcAttr(cmd)

	// Plain pipes instead of cmd.StdoutPipe: the child's write ends are
	// *os.File, so cmd.Wait does not wait on copy goroutines and returns
	// as soon as the backend exits.
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		stdoutR.Close()
		stdoutW.Close()
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	log.Debug("starting backend", "cmd", c.String(), "dir", cmd.Dir)
	startErr := cmd.Start()
	stdoutW.Close()
	stderrW.Close()
	if startErr != nil {
		stdoutR.Close()
		stderrR.Close()
		return nil, startErr
	}

	p := &execProcess{
		cmd:  cmd,
		done: make(chan struct{}),
	}
	pid := cmd.Process.Pid

	go l.capture(log, pid, "stdout", stdoutR)
	go l.capture(log, pid, "stderr", stderrR)
	go func() {
		defer logging.LogPanic("backend-wait", nil)
		p.waitErr = cmd.Wait()
		close(p.done)
		log.Debug("backend exited", "pid", pid, "state", cmd.ProcessState)
	}()

	return p, nil
}

// capture reads r line by line until the child and any descendants close
// their end of the pipe.
func (l *ExecLauncher) capture(log *slog.Logger, pid int, stream string, r io.ReadCloser) {
	defer logging.LogPanic("backend-"+stream, nil)
	defer r.Close()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		text := scanner.Text()
		if stream == "stderr" {
			log.Warn("backend.stderr", "pid", pid, "line", text)
		} else {
			log.Info("backend.stdout", "pid", pid, "line", text)
		}
		if l.Output != nil {
			l.Output.Add(Line{Time: time.Now(), Pid: pid, Stream: stream, Text: text})
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, os.ErrClosed) {
		log.Debug("backend output read failed", "pid", pid, "stream", stream, "error", err)
	}
}

// execProcess is the handle returned by ExecLauncher.
type execProcess struct {
	cmd *exec.Cmd

	// done is closed once cmd.Wait has returned; waitErr is written before
	// the close and read only after it.
	done    chan struct{}
	waitErr error
}

func (p *execProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *execProcess) Signal(sig os.Signal) error {
	select {
	case <-p.done:
		return os.ErrProcessDone
	default:
	}
	return signalProcess(p.cmd.Process, sig)
}

func (p *execProcess) TryWait() (bool, *os.ProcessState, error) {
	select {
	case <-p.done:
	default:
		return false, nil, nil
	}

	// A non-zero exit is still a clean reap. Anything else means the wait
	// itself went wrong.
	var exitErr *exec.ExitError
	if p.waitErr != nil && !errors.As(p.waitErr, &exitErr) {
		return false, nil, p.waitErr
	}
	return true, p.cmd.ProcessState, nil
}
