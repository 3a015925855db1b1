package jsonrpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	req, perr := ParseRequest([]byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	require.Nil(t, perr)
	assert.Equal(t, "tools/list", req.Method)
	assert.Equal(t, float64(1), req.ID)
	assert.False(t, req.IsNotification())
}

func TestParseRequest_Notification(t *testing.T) {
	req, perr := ParseRequest([]byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	require.Nil(t, perr)
	assert.True(t, req.IsNotification())
}

func TestParseRequest_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code ErrorCode
	}{
		{"malformed json", `{not json`, ParseError},
		{"wrong version", `{"jsonrpc":"1.0","id":1,"method":"x"}`, InvalidRequest},
		{"missing version", `{"id":1,"method":"x"}`, InvalidRequest},
		{"missing method", `{"jsonrpc":"2.0","id":1}`, InvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, perr := ParseRequest([]byte(tt.data))
			require.NotNil(t, perr)
			assert.Equal(t, tt.code, perr.Code)
		})
	}
}

func TestResponseRoundTrip(t *testing.T) {
	resp := NewResponse(7, map[string]string{"ok": "yes"})
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"jsonrpc":"2.0"`)
	assert.Contains(t, string(data), `"id":7`)
	assert.NotContains(t, string(data), "error")
}

func TestErrorResponse(t *testing.T) {
	resp := NewErrorResponse("abc", MethodNotFound, "Method not found: nope")
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"code":-32601`)
	assert.Contains(t, string(data), `"id":"abc"`)

	assert.Contains(t, resp.Error.Error(), "-32601")
}
