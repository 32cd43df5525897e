package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/mirotools/miro-mcp/pkg/types"
)

const protocolVersion = "2024-11-05"

// StdioServer serves MCP over newline-delimited JSON-RPC: one request
// per input line, one response per output line. Requests are processed
// strictly in order, a call runs to completion before the next line is
// read.
type StdioServer struct {
	name     string
	version  string
	registry *Registry
	logger   *zap.Logger
}

func NewStdioServer(name, version string, registry *Registry, logger *zap.Logger) *StdioServer {
	return &StdioServer{
		name:     name,
		version:  version,
		registry: registry,
		logger:   logger,
	}
}

// Run processes requests until the input stream ends or ctx is
// cancelled. A single failing request never terminates the loop.
func (s *StdioServer) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	const maxLine = 10 * 1024 * 1024
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	enc := json.NewEncoder(w)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		resp := s.handleLine(ctx, line)
		if resp == nil {
			continue
		}
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}
	return scanner.Err()
}

// handleLine parses and dispatches one request. The recover is the
// outermost safety boundary: whatever goes wrong below becomes a
// -32603 response instead of a dead process.
func (s *StdioServer) handleLine(ctx context.Context, line string) (resp *types.JSONRPCResponse) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic while processing request", zap.Any("panic", r))
			resp = errorResponse(nil, types.ErrCodeInternal, fmt.Sprintf("Internal error: %v", r))
		}
	}()

	var req types.JSONRPCRequest
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		// Malformed input is always reported, even though it carries
		// no usable id.
		return errorResponse(nil, types.ErrCodeParseError, fmt.Sprintf("Parse error: %v", err))
	}
	return s.processRequest(ctx, &req)
}

func (s *StdioServer) processRequest(ctx context.Context, req *types.JSONRPCRequest) *types.JSONRPCResponse {
	var result interface{}
	switch req.Method {
	case "initialize":
		result = types.InitializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities: map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			ServerInfo: types.ServerInfo{Name: s.name, Version: s.version},
		}
	case "notifications/initialized":
		return nil
	case "tools/list":
		result = types.ListToolsResult{Tools: s.registry.List()}
	case "tools/call":
		result = s.handleToolsCall(ctx, req.Params)
	default:
		// Notifications never get a response, not even for unknown
		// methods.
		if req.ID == nil {
			return nil
		}
		return errorResponse(req.ID, types.ErrCodeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}

	if req.ID == nil {
		return nil
	}
	return &types.JSONRPCResponse{JSONRPC: "2.0", ID: req.ID, Result: result}
}

// handleToolsCall routes a call to its tool. Unknown names and handler
// failures are tool-level errors carried as isError content; they are
// never surfaced as protocol errors.
func (s *StdioServer) handleToolsCall(ctx context.Context, params interface{}) types.CallToolResult {
	p, _ := params.(map[string]interface{})
	name, _ := p["name"].(string)
	args, _ := p["arguments"].(map[string]interface{})
	if args == nil {
		args = map[string]interface{}{}
	}

	tool, ok := s.registry.Get(name)
	if !ok {
		s.logger.Warn("unknown tool requested", zap.String("tool", name))
		return errorContent(fmt.Sprintf("Unknown tool: %s", name))
	}

	s.logger.Debug("calling tool", zap.String("tool", name))
	result, err := s.executeTool(ctx, tool, args)
	if err != nil {
		s.logger.Error("tool execution failed", zap.String("tool", name), zap.Error(err))
		return errorContent(fmt.Sprintf("Error executing tool %s: %v", name, err))
	}

	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errorContent(fmt.Sprintf("Error executing tool %s: %v", name, err))
	}
	return types.CallToolResult{
		Content: []types.Content{{Type: "text", Text: string(text)}},
	}
}

// executeTool converts a handler panic into an error so a misbehaving
// tool cannot take down the request loop.
func (s *StdioServer) executeTool(ctx context.Context, tool Tool, args map[string]interface{}) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return tool.Execute(ctx, args)
}

func errorContent(msg string) types.CallToolResult {
	return types.CallToolResult{
		Content: []types.Content{{Type: "text", Text: msg}},
		IsError: true,
	}
}

func errorResponse(id interface{}, code int, message string) *types.JSONRPCResponse {
	return &types.JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &types.RPCError{Code: code, Message: message},
	}
}
