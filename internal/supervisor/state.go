package supervisor

import "time"

// State is the state of the supervised slot.
type State string

const (
	StateAbsent  State = "absent"
	StateRunning State = "running"
)

// Result reports which branch a Start or Stop call took.
type Result string

const (
	ResultStarted        Result = "started"
	ResultAlreadyRunning Result = "already running"
	ResultStopped        Result = "stopped"
	ResultNotRunning     Result = "not running"
)

// Message returns the caller-facing sentence for r.
func (r Result) Message() string {
	return "Backend server " + string(r)
}

// ExitStatus records how a reaped backend process ended.
type ExitStatus struct {
	Pid      int       `json:"pid"`
	Code     int       `json:"code"`
	Desc     string    `json:"desc,omitempty"`
	ReapedAt time.Time `json:"reaped_at"`
}

// Snapshot is a point-in-time view of the supervisor.
type Snapshot struct {
	State     State       `json:"state"`
	Pid       int         `json:"pid,omitempty"`
	StartedAt time.Time   `json:"started_at,omitzero"`
	Command   string      `json:"command"`
	LastExit  *ExitStatus `json:"last_exit,omitempty"`
}
