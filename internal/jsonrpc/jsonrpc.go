package jsonrpc

import (
	"encoding/json"
	"fmt"
)

const Version = "2.0"

// Request is an inbound JSON-RPC 2.0 call. A request without an ID is a
// notification and gets no response.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request carries no ID.
func (r *Request) IsNotification() bool {
	return r.ID == nil
}

// Response is an outbound JSON-RPC 2.0 reply. Exactly one of Result and
// Error is set.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id,omitempty"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

type ErrorCode int

const (
	ParseError     ErrorCode = -32700
	InvalidRequest ErrorCode = -32600
	MethodNotFound ErrorCode = -32601
	InvalidParams  ErrorCode = -32602
	InternalError  ErrorCode = -32603
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Data    any       `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("JSON-RPC error %d: %s", e.Code, e.Message)
}

// NewResponse builds a success response for the given request id.
func NewResponse(id, result any) *Response {
	return &Response{JSONRPC: Version, ID: id, Result: result}
}

// NewErrorResponse builds an error response for the given request id.
func NewErrorResponse(id any, code ErrorCode, message string) *Response {
	return &Response{
		JSONRPC: Version,
		ID:      id,
		Error:   &Error{Code: code, Message: message},
	}
}

// ParseRequest decodes one inbound frame. Malformed JSON maps to
// ParseError; a missing method or wrong version maps to InvalidRequest.
// The returned *Error carries the code the caller should respond with.
func ParseRequest(data []byte) (*Request, *Error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, &Error{Code: ParseError, Message: "Parse error"}
	}
	if req.JSONRPC != Version {
		return nil, &Error{Code: InvalidRequest, Message: "Invalid JSON-RPC version"}
	}
	if req.Method == "" {
		return nil, &Error{Code: InvalidRequest, Message: "Missing method"}
	}
	return &req, nil
}
