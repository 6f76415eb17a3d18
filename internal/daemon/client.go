package daemon

import (
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tessro/botshell/internal/id"
)

// Client connects to the botshell host over Unix socket.
type Client struct {
	socketPath string

	mu sync.Mutex
	// +checklocks:mu
	conn net.Conn
	// +checklocks:mu
	encoder *json.Encoder
	// +checklocks:mu
	decoder *json.Decoder

	// ioMu serializes request/response cycles on the single connection.
	// Must be acquired AFTER mu if both are needed.
	ioMu sync.Mutex

	// session prefixes request IDs so host logs can tell clients apart.
	session string
	reqID   atomic.Uint64
}

// NewClient creates a new host client.
func NewClient(socketPath string) *Client {
	if socketPath == "" {
		socketPath = DefaultSocketPath()
	}
	return &Client{
		socketPath: socketPath,
		session:    id.Generate(),
	}
}

// ConnectTimeout is the default timeout for connecting to the host.
const ConnectTimeout = 5 * time.Second

// RequestTimeout is the default timeout for request/response operations.
const RequestTimeout = 30 * time.Second

// Connect establishes a connection to the host.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil // Already connected
	}

	conn, err := net.DialTimeout("unix", c.socketPath, ConnectTimeout)
	if err != nil {
		return fmt.Errorf("dial host: %w", err)
	}

	c.conn = conn
	c.encoder = json.NewEncoder(conn)
	c.decoder = json.NewDecoder(conn)
	return nil
}

// Close closes the connection to the host.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	err := c.conn.Close()
	c.conn = nil
	c.encoder = nil
	c.decoder = nil
	return err
}

// IsConnected returns true if the client is connected.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// SocketPath returns the socket path this client connects to.
func (c *Client) SocketPath() string {
	return c.socketPath
}

// nextID generates the next request ID.
func (c *Client) nextID() string {
	return fmt.Sprintf("%s-%d", c.session, c.reqID.Add(1))
}

// decodePayload decodes the response payload into the given type.
// If payload is nil, returns a pointer to the zero value of T.
func decodePayload[T any](payload any) (*T, error) {
	var result T
	if payload == nil {
		return &result, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	return &result, nil
}

// Send sends a request and waits for the response.
// On connection errors, the connection is closed so that IsConnected() returns false.
func (c *Client) Send(req *Request) (*Response, error) {
	c.mu.Lock()
	if c.conn == nil {
		c.mu.Unlock()
		return nil, ErrNotConnected
	}
	conn := c.conn
	encoder := c.encoder
	decoder := c.decoder
	c.mu.Unlock()

	if req.ID == "" {
		req.ID = c.nextID()
	}

	c.ioMu.Lock()
	defer c.ioMu.Unlock()

	if err := conn.SetDeadline(time.Now().Add(RequestTimeout)); err != nil {
		c.closeConn()
		return nil, fmt.Errorf("set deadline: %w", err)
	}
	defer func() { _ = conn.SetDeadline(time.Time{}) }()

	if err := encoder.Encode(req); err != nil {
		c.closeConn()
		return nil, fmt.Errorf("encode request: %w", err)
	}

	var resp Response
	if err := decoder.Decode(&resp); err != nil {
		c.closeConn()
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, fmt.Errorf("%w: %w", ErrRequestTimeout, err)
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &resp, nil
}

// closeConn closes the connection and clears connection state.
// Caller must NOT hold c.mu.
func (c *Client) closeConn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
		c.encoder = nil
		c.decoder = nil
	}
}

// call sends a request of type t and decodes a successful response payload.
func call[T any](c *Client, t MessageType, payload any) (*T, error) {
	resp, err := c.Send(&Request{Type: t, Payload: payload})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, NewServerError(string(t), resp.Error)
	}
	return decodePayload[T](resp.Payload)
}

// Ping checks host connectivity.
func (c *Client) Ping() (*PingResponse, error) {
	return call[PingResponse](c, MsgPing, nil)
}

// Shutdown asks the host to exit.
func (c *Client) Shutdown() error {
	_, err := call[struct{}](c, MsgShutdown, nil)
	return err
}

// Start asks the host to start the backend.
func (c *Client) Start() (*ResultResponse, error) {
	return call[ResultResponse](c, MsgStart, nil)
}

// Stop asks the host to stop the backend.
func (c *Client) Stop() (*ResultResponse, error) {
	return call[ResultResponse](c, MsgStop, nil)
}

// Check probes backend liveness.
func (c *Client) Check() (bool, error) {
	resp, err := call[CheckResponse](c, MsgCheck, nil)
	if err != nil {
		return false, err
	}
	return resp.Running, nil
}

// Status gets the host and backend status.
func (c *Client) Status() (*StatusResponse, error) {
	return call[StatusResponse](c, MsgStatus, nil)
}

// Output fetches up to limit recent backend output lines.
func (c *Client) Output(limit int) (*OutputResponse, error) {
	return call[OutputResponse](c, MsgOutput, OutputRequest{Limit: limit})
}
