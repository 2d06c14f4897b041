package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"cryptoedge-mcp/internal/handler"
)

const serverName = "cryptoedge-mcp"

// Server drives the line-delimited JSON-RPC loop over in/out, dispatching
// tools/call requests to h and logging a structured audit line per request
// to audit.
type Server struct {
	h      *handler.Handler
	in     io.Reader
	out    io.Writer
	audit  zerolog.Logger
	scan   *bufio.Scanner
}

func NewServer(h *handler.Handler, in io.Reader, out io.Writer, audit zerolog.Logger) *Server {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	return &Server{h: h, in: in, out: out, audit: audit, scan: scanner}
}

// Run reads one JSON-RPC message per line until ctx is cancelled or stdin
// closes. It never returns an error for a malformed single line; a parse
// failure is logged and answered with a protocol-level parse-error response
// that carries no id.
func (s *Server) Run(ctx context.Context) error {
	for s.scan.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := s.scan.Bytes()
		if len(line) == 0 {
			continue
		}
		s.handleLine(ctx, append([]byte(nil), line...))
	}
	return s.scan.Err()
}

func (s *Server) handleLine(ctx context.Context, line []byte) {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		s.audit.Warn().Err(err).Msg("malformed request line")
		s.writeResponse(newErrorResponse(nil, codeParseError, "invalid JSON"))
		return
	}

	resp, logFields := s.dispatch(ctx, &req)
	s.audit.Info().
		Str("method", req.Method).
		Bool("notification", req.isNotification()).
		Fields(logFields).
		Msg("rpc")

	if req.isNotification() {
		return
	}
	s.writeResponse(resp)
}

func (s *Server) dispatch(ctx context.Context, req *request) (response, map[string]interface{}) {
	switch req.Method {
	case "initialize":
		return newResponse(req.ID, initializeResult{
			ProtocolVersion: protocolVersion,
			ServerInfo:      serverInfo{Name: serverName, Version: "1.0.0"},
			Capabilities:    map[string]interface{}{"tools": map[string]interface{}{}},
		}), nil

	case "notifications/initialized":
		return response{}, nil

	case "tools/list":
		return newResponse(req.ID, toolsListResult{Tools: toolCatalog}), nil

	case "tools/call":
		var params toolCallParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return newErrorResponse(req.ID, codeInvalidParams, fmt.Sprintf("invalid params: %v", err)), map[string]interface{}{"error": err.Error()}
		}
		result := s.h.Call(ctx, params.Name, params.Arguments)
		fields := map[string]interface{}{"tool": params.Name}
		if errMsg, ok := result["error"]; ok {
			fields["tool_error"] = errMsg
		}
		return newResponse(req.ID, wrapToolResult(result)), fields

	default:
		return newErrorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("method %q not found", req.Method)), nil
	}
}

func (s *Server) writeResponse(resp response) {
	raw, err := json.Marshal(resp)
	if err != nil {
		s.audit.Error().Err(err).Msg("encode response")
		return
	}
	raw = append(raw, '\n')
	if _, err := s.out.Write(raw); err != nil {
		s.audit.Error().Err(err).Msg("write response")
	}
}
