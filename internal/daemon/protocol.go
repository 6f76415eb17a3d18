// Package daemon provides the botshell host server and IPC protocol.
package daemon

import "time"

// MessageType identifies the type of IPC message.
type MessageType string

const (
	// Host management
	MsgPing     MessageType = "ping"
	MsgShutdown MessageType = "shutdown"

	// Backend control
	MsgStart  MessageType = "start"  // Start the backend server
	MsgStop   MessageType = "stop"   // Stop the backend server
	MsgCheck  MessageType = "check"  // Liveness probe
	MsgStatus MessageType = "status" // Host and backend snapshot
	MsgOutput MessageType = "output" // Recent backend output lines
)

// Request is the envelope for all IPC requests.
type Request struct {
	Type    MessageType `json:"type"`
	ID      string      `json:"id,omitempty"`      // Optional request ID for correlation
	Payload any         `json:"payload,omitempty"` // Type-specific payload
}

// Response is the envelope for all IPC responses.
type Response struct {
	Type    MessageType `json:"type"`
	ID      string      `json:"id,omitempty"` // Correlates with request ID
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
	Payload any         `json:"payload,omitempty"` // Type-specific payload
}

// PingResponse is the payload for ping responses.
type PingResponse struct {
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	StartedAt time.Time `json:"started_at"`
}

// ResultResponse is the payload for start and stop responses.
type ResultResponse struct {
	Result  string `json:"result"`  // started, already running, stopped, not running
	Message string `json:"message"` // Caller-facing sentence
}

// CheckResponse is the payload for check responses.
type CheckResponse struct {
	Running bool `json:"running"`
}

// StatusResponse is the payload for status responses.
type StatusResponse struct {
	Host    HostStatus    `json:"host" yaml:"host"`
	Backend BackendStatus `json:"backend" yaml:"backend"`
}

// HostStatus contains host health info.
type HostStatus struct {
	PID       int       `json:"pid" yaml:"pid"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	Version   string    `json:"version" yaml:"version"`
	Mode      string    `json:"mode" yaml:"mode"`
}

// BackendStatus contains the supervised backend's state.
type BackendStatus struct {
	State     string      `json:"state" yaml:"state"` // absent, running
	PID       int         `json:"pid,omitempty" yaml:"pid,omitempty"`
	StartedAt time.Time   `json:"started_at,omitzero" yaml:"started_at,omitempty"`
	Command   string      `json:"command" yaml:"command"`
	LastExit  *ExitStatus `json:"last_exit,omitempty" yaml:"last_exit,omitempty"`
}

// ExitStatus describes the last reaped backend process.
type ExitStatus struct {
	PID      int       `json:"pid" yaml:"pid"`
	Code     int       `json:"code" yaml:"code"`
	Desc     string    `json:"desc,omitempty" yaml:"desc,omitempty"`
	ReapedAt time.Time `json:"reaped_at" yaml:"reaped_at"`
}

// OutputRequest is the payload for output requests.
type OutputRequest struct {
	Limit int `json:"limit,omitempty"` // 0 means everything retained
}

// OutputResponse is the payload for output responses.
type OutputResponse struct {
	Lines []OutputLine `json:"lines"`
}

// OutputLine is one captured line of backend output.
type OutputLine struct {
	Time   time.Time `json:"time"`
	PID    int       `json:"pid"`
	Stream string    `json:"stream"` // stdout, stderr
	Text   string    `json:"text"`
}
