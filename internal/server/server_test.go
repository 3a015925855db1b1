package server

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"businessmath-mcp/internal/args"
	"businessmath-mcp/internal/dispatch"
	"businessmath-mcp/internal/registry"
	"businessmath-mcp/internal/tool"
)

func testHandler(t *testing.T) *Handler {
	t.Helper()
	reg := registry.New()
	add := tool.New(tool.Definition{
		Name:        "add",
		Description: "Add two numbers",
		Params: []tool.Param{
			{Name: "a", Type: tool.TypeNumber, Required: true},
			{Name: "b", Type: tool.TypeNumber, Required: true},
		},
	}, func(_ context.Context, d *args.Decoder) (string, error) {
		a, err := d.RequireFloat("a")
		if err != nil {
			return "", err
		}
		b, err := d.RequireFloat("b")
		if err != nil {
			return "", err
		}
		return tool.FormatNumber(a + b), nil
	})
	require.NoError(t, reg.Register(add))
	require.NoError(t, reg.Register(tool.New(tool.Definition{Name: "noop", Description: "does nothing"},
		func(_ context.Context, _ *args.Decoder) (string, error) { return "ok", nil })))
	reg.Freeze()

	disp := dispatch.New(reg, nil, zerolog.Nop())
	return NewHandler(reg, disp, DefaultConfig(), zerolog.Nop())
}

type frame struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func roundTrip(t *testing.T, h *Handler, request string) *frame {
	t.Helper()
	raw := h.HandleFrame(context.Background(), []byte(request))
	if raw == nil {
		return nil
	}
	var f frame
	require.NoError(t, json.Unmarshal(raw, &f))
	assert.Equal(t, "2.0", f.JSONRPC)
	return &f
}

func TestInitialize(t *testing.T) {
	h := testHandler(t)
	f := roundTrip(t, h, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","clientInfo":{"name":"tester","version":"0.1"}}}`)

	require.NotNil(t, f)
	require.Nil(t, f.Error)

	var result InitializeResult
	require.NoError(t, json.Unmarshal(f.Result, &result))
	assert.Equal(t, ProtocolVersion, result.ProtocolVersion)
	assert.Equal(t, "businessmath-mcp", result.ServerInfo.Name)
}

func TestInitializedNotification_NoResponse(t *testing.T) {
	h := testHandler(t)
	raw := h.HandleFrame(context.Background(), []byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	assert.Nil(t, raw)
}

func TestPing(t *testing.T) {
	h := testHandler(t)
	f := roundTrip(t, h, `{"jsonrpc":"2.0","id":2,"method":"ping"}`)
	require.NotNil(t, f)
	assert.Nil(t, f.Error)
}

func TestToolsList(t *testing.T) {
	h := testHandler(t)
	f := roundTrip(t, h, `{"jsonrpc":"2.0","id":3,"method":"tools/list"}`)
	require.NotNil(t, f)
	require.Nil(t, f.Error)

	var result ToolsListResult
	require.NoError(t, json.Unmarshal(f.Result, &result))
	require.Len(t, result.Tools, 2)
	assert.Equal(t, "add", result.Tools[0].Name)
	assert.Equal(t, "noop", result.Tools[1].Name)
	assert.Equal(t, "object", result.Tools[0].InputSchema["type"])
}

func callResult(t *testing.T, f *frame) (texts []string, isError bool) {
	t.Helper()
	var result struct {
		Content []tool.Content `json:"content"`
		IsError bool           `json:"isError"`
	}
	require.NoError(t, json.Unmarshal(f.Result, &result))
	for _, c := range result.Content {
		texts = append(texts, c.Text)
	}
	return texts, result.IsError
}

func TestToolsCall_Add(t *testing.T) {
	h := testHandler(t)
	f := roundTrip(t, h, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"add","arguments":{"a":2,"b":3}}}`)
	require.NotNil(t, f)
	require.Nil(t, f.Error)

	texts, isError := callResult(t, f)
	assert.False(t, isError)
	assert.Equal(t, []string{"5"}, texts)
}

func TestToolsCall_MissingArgument(t *testing.T) {
	h := testHandler(t)
	f := roundTrip(t, h, `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"add","arguments":{"a":2}}}`)
	require.NotNil(t, f)
	require.Nil(t, f.Error, "decode failures are envelopes, not protocol errors")

	texts, isError := callResult(t, f)
	assert.True(t, isError)
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], `"b"`)
}

func TestToolsCall_UnknownTool(t *testing.T) {
	h := testHandler(t)
	f := roundTrip(t, h, `{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"subtract","arguments":{}}}`)
	require.NotNil(t, f)
	require.Nil(t, f.Error)

	texts, isError := callResult(t, f)
	assert.True(t, isError)
	assert.Contains(t, texts[0], "tool not found")
}

func TestToolsCall_NoArguments(t *testing.T) {
	h := testHandler(t)
	f := roundTrip(t, h, `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"noop"}}`)
	require.NotNil(t, f)
	require.Nil(t, f.Error)

	texts, isError := callResult(t, f)
	assert.False(t, isError)
	assert.Equal(t, []string{"ok"}, texts)
}

func TestToolsCall_BadArguments(t *testing.T) {
	h := testHandler(t)
	f := roundTrip(t, h, `{"jsonrpc":"2.0","id":8,"method":"tools/call","params":{"name":"add","arguments":[1,2]}}`)
	require.NotNil(t, f)
	require.NotNil(t, f.Error)
	assert.Equal(t, -32602, f.Error.Code)
}

func TestUnknownMethod(t *testing.T) {
	h := testHandler(t)
	f := roundTrip(t, h, `{"jsonrpc":"2.0","id":9,"method":"tools/destroy"}`)
	require.NotNil(t, f)
	require.NotNil(t, f.Error)
	assert.Equal(t, -32601, f.Error.Code)
	assert.Contains(t, f.Error.Message, "tools/destroy")
}

func TestMalformedFrame(t *testing.T) {
	h := testHandler(t)
	f := roundTrip(t, h, `{"jsonrpc":`)
	require.NotNil(t, f)
	require.NotNil(t, f.Error)
	assert.Equal(t, -32700, f.Error.Code)
}

func TestDescribe(t *testing.T) {
	h := testHandler(t)
	meta := h.Describe()
	assert.Equal(t, "businessmath-mcp", meta.Name)
	assert.Equal(t, ProtocolVersion, meta.ProtocolVersion)
	assert.Equal(t, 2, meta.ToolCount)
}

func TestEmptyCatalogs(t *testing.T) {
	h := testHandler(t)

	f := roundTrip(t, h, `{"jsonrpc":"2.0","id":10,"method":"resources/list"}`)
	require.NotNil(t, f)
	assert.Nil(t, f.Error)

	f = roundTrip(t, h, `{"jsonrpc":"2.0","id":11,"method":"prompts/list"}`)
	require.NotNil(t, f)
	assert.Nil(t, f.Error)
}
