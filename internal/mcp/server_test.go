package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mirotools/miro-mcp/pkg/types"
)

func newTestServer(tools ...Tool) *StdioServer {
	r := NewRegistry()
	for _, tool := range tools {
		r.Register(tool)
	}
	return NewStdioServer("miro-mcp-server", "1.0.0", r, zap.NewNop())
}

// run feeds the given lines to the server and decodes every response
// line it writes.
func run(t *testing.T, s *StdioServer, lines ...string) []map[string]interface{} {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	require.NoError(t, s.Run(context.Background(), in, &out))

	var responses []map[string]interface{}
	dec := json.NewDecoder(&out)
	for dec.More() {
		var resp map[string]interface{}
		require.NoError(t, dec.Decode(&resp))
		responses = append(responses, resp)
	}
	return responses
}

func result(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	t.Helper()
	r, ok := resp["result"].(map[string]interface{})
	require.True(t, ok, "response has no result object: %v", resp)
	return r
}

func TestInitialize(t *testing.T) {
	s := newTestServer()
	responses := run(t, s, `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)

	require.Len(t, responses, 1)
	r := result(t, responses[0])
	assert.Equal(t, "2024-11-05", r["protocolVersion"])
	assert.Contains(t, r["capabilities"], "tools")
	info := r["serverInfo"].(map[string]interface{})
	assert.Equal(t, "miro-mcp-server", info["name"])
	assert.Equal(t, "1.0.0", info["version"])
}

func TestToolsList_Order(t *testing.T) {
	s := newTestServer(
		&stubTool{name: "zeta", params: []types.Param{
			{Name: "a", Spec: types.Schema{Type: "string"}},
			{Name: "b", Optional: true, Spec: types.Schema{Type: "number"}},
		}},
		&stubTool{name: "alpha"},
	)
	responses := run(t, s, `{"jsonrpc":"2.0","id":5,"method":"tools/list"}`)

	require.Len(t, responses, 1)
	tools := result(t, responses[0])["tools"].([]interface{})
	require.Len(t, tools, 2)
	first := tools[0].(map[string]interface{})
	assert.Equal(t, "zeta", first["name"])
	assert.Equal(t, "alpha", tools[1].(map[string]interface{})["name"])

	schema := first["inputSchema"].(map[string]interface{})
	assert.Equal(t, []interface{}{"a"}, schema["required"])
}

func TestParseError(t *testing.T) {
	s := newTestServer()
	responses := run(t, s, `{this is not json`)

	require.Len(t, responses, 1)
	rpcErr := responses[0]["error"].(map[string]interface{})
	assert.Equal(t, float64(types.ErrCodeParseError), rpcErr["code"])
	assert.Contains(t, rpcErr["message"], "Parse error")
	// Present and null, malformed input is always reported.
	id, present := responses[0]["id"]
	assert.True(t, present)
	assert.Nil(t, id)
}

func TestUnknownMethod(t *testing.T) {
	s := newTestServer()
	responses := run(t, s,
		`{"jsonrpc":"2.0","id":7,"method":"resources/list"}`,
		`{"jsonrpc":"2.0","method":"resources/list"}`,
	)

	// Only the request carrying an id receives a response.
	require.Len(t, responses, 1)
	rpcErr := responses[0]["error"].(map[string]interface{})
	assert.Equal(t, float64(types.ErrCodeMethodNotFound), rpcErr["code"])
	assert.Contains(t, rpcErr["message"], "resources/list")
	assert.Equal(t, float64(7), responses[0]["id"])
}

func TestNotificationsDropped(t *testing.T) {
	s := newTestServer()
	responses := run(t, s,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","method":"initialize"}`,
	)
	assert.Empty(t, responses)
}

func TestBlankLinesSkipped(t *testing.T) {
	s := newTestServer()
	responses := run(t, s,
		``,
		`   `,
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
	)
	require.Len(t, responses, 1)
}

func TestUnknownTool(t *testing.T) {
	s := newTestServer(&stubTool{name: "get_board"})
	responses := run(t, s,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"frobnicate","arguments":{}}}`,
	)

	require.Len(t, responses, 1)
	r := result(t, responses[0])
	assert.Equal(t, true, r["isError"])
	content := r["content"].([]interface{})
	text := content[0].(map[string]interface{})["text"].(string)
	assert.Contains(t, text, "frobnicate")
}

func TestToolCallSuccess(t *testing.T) {
	s := newTestServer(&stubTool{
		name: "get_board",
		execute: func(_ context.Context, args map[string]interface{}) (interface{}, error) {
			return map[string]interface{}{"success": true, "board": args["board_id"]}, nil
		},
	})
	responses := run(t, s,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"get_board","arguments":{"board_id":"b1"}}}`,
	)

	require.Len(t, responses, 1)
	r := result(t, responses[0])
	assert.Nil(t, r["isError"])
	content := r["content"].([]interface{})
	block := content[0].(map[string]interface{})
	assert.Equal(t, "text", block["type"])

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(block["text"].(string)), &payload))
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "b1", payload["board"])
}

func TestToolCallError(t *testing.T) {
	s := newTestServer(&stubTool{
		name: "exchange_auth_code",
		execute: func(context.Context, map[string]interface{}) (interface{}, error) {
			return nil, errors.New("vendor rejected the code")
		},
	})
	responses := run(t, s,
		`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"exchange_auth_code","arguments":{}}}`,
	)

	require.Len(t, responses, 1)
	r := result(t, responses[0])
	assert.Equal(t, true, r["isError"])
	text := r["content"].([]interface{})[0].(map[string]interface{})["text"].(string)
	assert.Contains(t, text, "Error executing tool exchange_auth_code")
	assert.Contains(t, text, "vendor rejected the code")
}

func TestToolPanicDoesNotKillLoop(t *testing.T) {
	s := newTestServer(&stubTool{
		name: "create_shape",
		execute: func(context.Context, map[string]interface{}) (interface{}, error) {
			panic("boom")
		},
	})
	responses := run(t, s,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"create_shape","arguments":{}}}`,
		`{"jsonrpc":"2.0","id":2,"method":"initialize"}`,
	)

	// Both requests produce well-formed responses.
	require.Len(t, responses, 2)
	r := result(t, responses[0])
	assert.Equal(t, true, r["isError"])
	text := r["content"].([]interface{})[0].(map[string]interface{})["text"].(string)
	assert.Contains(t, text, "boom")
	assert.Equal(t, float64(2), responses[1]["id"])
}
