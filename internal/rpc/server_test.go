package rpc

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"cryptoedge-mcp/internal/handler"
	"cryptoedge-mcp/internal/model"
	"cryptoedge-mcp/internal/provider"
	"cryptoedge-mcp/internal/recorder"
)

// stubSource is a minimal provider.Source used only to construct a Handler
// for the transport tests below; none of the dispatched requests reach it.
type stubSource struct{}

func (stubSource) Name() string { return "stub" }
func (stubSource) Resolve(ctx context.Context, symbol string) (string, error) { return symbol, nil }
func (stubSource) FetchTicker(ctx context.Context, id string) (model.PriceSnapshot, error) {
	return model.PriceSnapshot{}, nil
}
func (stubSource) FetchOHLCV(ctx context.Context, id string, tf model.Timeframe, periods int) ([]model.Candle, error) {
	return nil, nil
}

func newTestServer(t *testing.T, input string) (*Server, *bytes.Buffer) {
	t.Helper()
	h := handler.New(provider.New(stubSource{}, stubSource{}), recorder.NewNoopRecorder())
	out := &bytes.Buffer{}
	s := NewServer(h, strings.NewReader(input), out, zerolog.Nop())
	return s, out
}

func readLines(t *testing.T, out *bytes.Buffer) []response {
	t.Helper()
	var lines []response
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		var r response
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			t.Fatalf("response line is not valid JSON: %v (%q)", err, scanner.Text())
		}
		lines = append(lines, r)
	}
	return lines
}

func TestInitializeReturnsProtocolVersion(t *testing.T) {
	s, out := newTestServer(t, `{"jsonrpc":"2.0","id":1,"method":"initialize"}`+"\n")
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	lines := readLines(t, out)
	if len(lines) != 1 {
		t.Fatalf("got %d response lines, want 1", len(lines))
	}
	raw, _ := json.Marshal(lines[0].Result)
	var result initializeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.ProtocolVersion != protocolVersion {
		t.Errorf("ProtocolVersion = %q, want %q", result.ProtocolVersion, protocolVersion)
	}
}

func TestToolsListReturnsTheFullCatalog(t *testing.T) {
	s, out := newTestServer(t, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`+"\n")
	_ = s.Run(context.Background())
	lines := readLines(t, out)
	raw, _ := json.Marshal(lines[0].Result)
	var result toolsListResult
	_ = json.Unmarshal(raw, &result)
	if len(result.Tools) != len(toolCatalog) {
		t.Errorf("tools/list returned %d tools, want %d", len(result.Tools), len(toolCatalog))
	}
}

func TestUnknownMethodIsMethodNotFound(t *testing.T) {
	s, out := newTestServer(t, `{"jsonrpc":"2.0","id":1,"method":"bogus"}`+"\n")
	_ = s.Run(context.Background())
	lines := readLines(t, out)
	if lines[0].Error == nil || lines[0].Error.Code != codeMethodNotFound {
		t.Fatalf("expected a method-not-found error, got %+v", lines[0].Error)
	}
}

func TestMalformedJSONIsParseError(t *testing.T) {
	s, out := newTestServer(t, `not json`+"\n")
	_ = s.Run(context.Background())
	lines := readLines(t, out)
	if lines[0].Error == nil || lines[0].Error.Code != codeParseError {
		t.Fatalf("expected a parse error, got %+v", lines[0].Error)
	}
}

func TestNotificationProducesNoResponse(t *testing.T) {
	s, out := newTestServer(t, `{"jsonrpc":"2.0","method":"notifications/initialized"}`+"\n")
	_ = s.Run(context.Background())
	if out.Len() != 0 {
		t.Errorf("a notification must produce no response line, got %q", out.String())
	}
}

func TestToolsCallUnknownToolReturnsErrorBodyNotProtocolError(t *testing.T) {
	s, out := newTestServer(t, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"not_a_real_tool","arguments":{}}}`+"\n")
	_ = s.Run(context.Background())
	lines := readLines(t, out)
	if lines[0].Error != nil {
		t.Fatalf("a failed tool call must not be a protocol-level error, got %+v", lines[0].Error)
	}
	raw, _ := json.Marshal(lines[0].Result)
	var result toolCallResult
	_ = json.Unmarshal(raw, &result)
	if len(result.Content) != 1 || !strings.Contains(result.Content[0].Text, "error") {
		t.Errorf("expected the wrapped tool result to carry an error body, got %+v", result)
	}
}

func TestToolsCallInvalidParamsIsInvalidParamsError(t *testing.T) {
	s, out := newTestServer(t, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":"not-an-object"}`+"\n")
	_ = s.Run(context.Background())
	lines := readLines(t, out)
	if lines[0].Error == nil || lines[0].Error.Code != codeInvalidParams {
		t.Fatalf("expected an invalid-params error, got %+v", lines[0].Error)
	}
}
