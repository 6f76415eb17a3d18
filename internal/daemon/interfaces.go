package daemon

// BackendClient is what UI components need from the host.
// This interface enables unit testing of the TUI without a real host.
type BackendClient interface {
	Connect() error
	IsConnected() bool
	Start() (*ResultResponse, error)
	Stop() (*ResultResponse, error)
	Check() (bool, error)
	Status() (*StatusResponse, error)
	Output(limit int) (*OutputResponse, error)
	Close() error
}

// Compile-time assertions to verify Client implements all interfaces.
var (
	_ BackendClient = (*Client)(nil)
)
