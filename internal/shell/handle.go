package shell

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tessro/botshell/internal/daemon"
	"github.com/tessro/botshell/internal/supervisor"
	"github.com/tessro/botshell/internal/version"
)

// Handle processes IPC requests and returns responses.
// Implements daemon.Handler.
func (s *Shell) Handle(ctx context.Context, req *daemon.Request) *daemon.Response {
	slog.Debug("shell handling request", "type", req.Type)
	switch req.Type {
	// Host management
	case daemon.MsgPing:
		return s.handlePing(ctx, req)
	case daemon.MsgShutdown:
		return s.handleShutdown(ctx, req)

	// Backend control
	case daemon.MsgStart:
		return s.handleStart(ctx, req)
	case daemon.MsgStop:
		return s.handleStop(ctx, req)
	case daemon.MsgCheck:
		return s.handleCheck(ctx, req)
	case daemon.MsgStatus:
		return s.handleStatus(ctx, req)
	case daemon.MsgOutput:
		return s.handleOutput(ctx, req)

	default:
		return errorResponse(req, fmt.Sprintf("unknown message type: %s", req.Type))
	}
}

func (s *Shell) handlePing(_ context.Context, req *daemon.Request) *daemon.Response {
	return successResponse(req, daemon.PingResponse{
		Version:   version.Version,
		Uptime:    time.Since(s.startedAt).Round(time.Second).String(),
		StartedAt: s.startedAt,
	})
}

func (s *Shell) handleShutdown(_ context.Context, req *daemon.Request) *daemon.Response {
	s.log.Info("shutdown requested over IPC")
	s.Shutdown()
	return successResponse(req, nil)
}

func (s *Shell) handleStart(_ context.Context, req *daemon.Request) *daemon.Response {
	res, err := s.backend.Start()
	if err != nil {
		return errorResponse(req, err.Error())
	}
	return successResponse(req, resultResponse(res))
}

func (s *Shell) handleStop(_ context.Context, req *daemon.Request) *daemon.Response {
	res, err := s.backend.Stop()
	if err != nil {
		return errorResponse(req, err.Error())
	}
	return successResponse(req, resultResponse(res))
}

func (s *Shell) handleCheck(_ context.Context, req *daemon.Request) *daemon.Response {
	running, err := s.backend.Check()
	if err != nil {
		return errorResponse(req, err.Error())
	}
	return successResponse(req, daemon.CheckResponse{Running: running})
}

func (s *Shell) handleStatus(_ context.Context, req *daemon.Request) *daemon.Response {
	snap, err := s.backend.Status()
	if err != nil {
		return errorResponse(req, err.Error())
	}

	backend := daemon.BackendStatus{
		State:     string(snap.State),
		PID:       snap.Pid,
		StartedAt: snap.StartedAt,
		Command:   snap.Command,
	}
	if snap.LastExit != nil {
		backend.LastExit = &daemon.ExitStatus{
			PID:      snap.LastExit.Pid,
			Code:     snap.LastExit.Code,
			Desc:     snap.LastExit.Desc,
			ReapedAt: snap.LastExit.ReapedAt,
		}
	}

	return successResponse(req, daemon.StatusResponse{
		Host: daemon.HostStatus{
			PID:       os.Getpid(),
			StartedAt: s.startedAt,
			Version:   version.Version,
			Mode:      string(s.mode),
		},
		Backend: backend,
	})
}

func (s *Shell) handleOutput(_ context.Context, req *daemon.Request) *daemon.Response {
	var outReq daemon.OutputRequest
	if err := unmarshalPayload(req.Payload, &outReq); err != nil {
		return errorResponse(req, fmt.Sprintf("invalid payload: %v", err))
	}
	if outReq.Limit < 0 {
		return errorResponse(req, "limit must not be negative")
	}

	lines := s.backend.Output(outReq.Limit)
	out := make([]daemon.OutputLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, daemon.OutputLine{
			Time:   l.Time,
			PID:    l.Pid,
			Stream: l.Stream,
			Text:   l.Text,
		})
	}
	return successResponse(req, daemon.OutputResponse{Lines: out})
}

func resultResponse(res supervisor.Result) daemon.ResultResponse {
	return daemon.ResultResponse{Result: string(res), Message: res.Message()}
}

// successResponse creates a successful response.
func successResponse(req *daemon.Request, payload any) *daemon.Response {
	return &daemon.Response{
		Type:    req.Type,
		ID:      req.ID,
		Success: true,
		Payload: payload,
	}
}

// errorResponse creates an error response.
func errorResponse(req *daemon.Request, msg string) *daemon.Response {
	return &daemon.Response{
		Type:    req.Type,
		ID:      req.ID,
		Success: false,
		Error:   msg,
	}
}

// unmarshalPayload converts an any payload to a specific type.
func unmarshalPayload(payload any, dst any) error {
	if payload == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
