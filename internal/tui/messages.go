package tui

import (
	"time"

	"github.com/tessro/botshell/internal/daemon"
)

// resultMsg is the outcome of a start or stop request.
type resultMsg struct {
	Op   string
	Resp *daemon.ResultResponse
	Err  error
}

// checkMsg is the outcome of a liveness probe. Manual is set when the user
// asked for it, so the result is shown.
type checkMsg struct {
	Running bool
	Manual  bool
	Err     error
}

// statusMsg contains a fresh host and backend snapshot.
type statusMsg struct {
	Status *daemon.StatusResponse
	Err    error
}

// outputMsg contains recent backend output.
type outputMsg struct {
	Lines []daemon.OutputLine
	Err   error
}

// reconnectMsg is the outcome of a reconnection attempt.
type reconnectMsg struct {
	Success bool
	Err     error
}

// pollMsg drives the periodic backend check.
type pollMsg time.Time

// clearErrorMsg is sent to clear the error display after a timeout.
type clearErrorMsg struct{}
