package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tessro/botshell/internal/logging"
	"github.com/tessro/botshell/internal/paths"
)

// probeTimeout bounds the dial used to detect a live socket before Start
// replaces it.
const probeTimeout = 500 * time.Millisecond

// DefaultSocketPath returns the default Unix socket path.
func DefaultSocketPath() string {
	return paths.SocketPath()
}

// Handler answers one host request. ctx is cancelled when the server stops.
type Handler interface {
	Handle(ctx context.Context, req *Request) *Response
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req *Request) *Response

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, req *Request) *Response {
	return f(ctx, req)
}

// Server accepts host clients on a Unix socket and passes each decoded
// request to its Handler. Requests on one connection are answered in order.
type Server struct {
	socketPath string
	handler    Handler
	log        *slog.Logger

	// ctx is handed to every request and cancelled by Stop.
	ctx    context.Context
	cancel context.CancelFunc

	mu sync.Mutex
	// +checklocks:mu
	listener net.Listener
	// +checklocks:mu
	conns map[net.Conn]struct{}
	// +checklocks:mu
	started bool
	// +checklocks:mu
	stopped bool

	wg sync.WaitGroup
}

// NewServer creates a server for socketPath. An empty path uses
// DefaultSocketPath.
func NewServer(socketPath string, handler Handler) *Server {
	if socketPath == "" {
		socketPath = DefaultSocketPath()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		socketPath: socketPath,
		handler:    handler,
		log:        slog.With("component", "ipc"),
		ctx:        ctx,
		cancel:     cancel,
		conns:      make(map[net.Conn]struct{}),
	}
}

// SocketPath returns the socket path this server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start binds the socket and begins accepting clients. A leftover socket
// file from a crashed host is replaced; one that still answers is not.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrServerStarted
	}

	listener, err := listenUnix(s.socketPath)
	if err != nil {
		return err
	}

	s.listener = listener
	s.started = true
	s.log.Info("ipc server listening", "socket", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop(listener)
	return nil
}

// listenUnix creates an owner-only Unix listener at path.
func listenUnix(path string) (net.Listener, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create socket directory: %w", err)
	}

	if conn, err := net.DialTimeout("unix", path, probeTimeout); err == nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %s", ErrSocketInUse, path)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}
	if err := os.Chmod(path, 0600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("set socket permissions: %w", err)
	}
	return listener, nil
}

func (s *Server) acceptLoop(listener net.Listener) {
	defer s.wg.Done()
	defer logging.LogPanic("ipc-accept", nil)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || s.ctx.Err() != nil {
				return
			}
			s.log.Error("accept failed", "error", err)
			continue
		}

		if !s.track(conn) {
			conn.Close()
			return
		}
		s.wg.Add(1)
		go s.serveConn(conn)
	}
}

// track registers conn, refusing it once Stop has begun.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	s.conns[conn] = struct{}{}
	s.log.Debug("client connected", "connections", len(s.conns))
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
	s.log.Debug("client disconnected", "connections", len(s.conns))
}

// serveConn answers newline-delimited JSON requests until the client hangs
// up or sends something undecodable.
func (s *Server) serveConn(conn net.Conn) {
	defer s.wg.Done()
	defer s.untrack(conn)
	defer conn.Close()
	defer logging.LogPanic("ipc-conn", nil)

	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)

	for {
		var req Request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return
			}
			s.log.Warn("malformed request", "error", err)
			_ = enc.Encode(&Response{Error: fmt.Sprintf("decode request: %v", err)})
			return
		}

		resp := s.dispatch(&req)
		if err := enc.Encode(resp); err != nil {
			s.log.Debug("write response failed", "type", req.Type, "id", req.ID, "error", err)
			return
		}
	}
}

// dispatch runs the handler and fills in correlation fields it left empty.
func (s *Server) dispatch(req *Request) *Response {
	start := time.Now()
	resp := s.handler.Handle(s.ctx, req)
	if resp == nil {
		resp = &Response{Error: "handler returned nil response"}
	}
	if resp.Type == "" {
		resp.Type = req.Type
	}
	if resp.ID == "" {
		resp.ID = req.ID
	}

	log := s.log.With("type", req.Type, "id", req.ID, "elapsed", time.Since(start))
	if resp.Success {
		log.Debug("request handled")
	} else {
		log.Warn("request failed", "error", resp.Error)
	}
	return resp
}

// Stop closes the listener and every client connection, waits for their
// goroutines and removes the socket file. It is safe to call more than once.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.cancel()
	listener := s.listener
	for conn := range s.conns {
		conn.Close()
	}
	active := len(s.conns)
	s.mu.Unlock()

	s.log.Info("ipc server stopping", "active_connections", active)
	listener.Close()
	s.wg.Wait()

	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		s.log.Debug("remove socket failed", "error", err)
	}
	return nil
}

// Addr returns the listener address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
