package tool

import (
	"context"
	"strconv"

	"businessmath-mcp/internal/args"
)

// ParamType is the declared JSON type of a tool parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeInteger ParamType = "integer"
	TypeBoolean ParamType = "boolean"
	TypeArray   ParamType = "array"
	TypeObject  ParamType = "object"
)

// Param declares one named tool parameter.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Enum        []string  // allowed values for string parameters
	Items       ParamType // element type for array parameters
}

// Definition is the immutable descriptor of a tool: its name, a human
// description, and the ordered parameter schema. Definitions are created
// at registration time and never mutated afterwards.
type Definition struct {
	Name        string
	Description string
	Params      []Param
}

// InputSchema renders the definition as an MCP inputSchema JSON object.
func (d Definition) InputSchema() map[string]any {
	props := make(map[string]any, len(d.Params))
	var required []string
	for _, p := range d.Params {
		prop := map[string]any{"type": string(p.Type)}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		if p.Type == TypeArray && p.Items != "" {
			prop["items"] = map[string]any{"type": string(p.Items)}
		}
		props[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Validate checks an argument map against the declared schema: required
// fields must be present, present fields must match their declared type,
// and enum-constrained strings must be in the allowed set. Null values
// count as absent. Extra fields not in the schema pass through untouched;
// handlers simply never read them.
func (d Definition) Validate(m *args.Map) error {
	for _, p := range d.Params {
		v, ok := m.Get(p.Name)
		if !ok || v.IsNull() {
			if p.Required {
				return args.NewMissingArgumentError(p.Name)
			}
			continue
		}
		if err := checkType(p, v); err != nil {
			return err
		}
	}
	return nil
}

func checkType(p Param, v args.Value) error {
	switch p.Type {
	case TypeString:
		s, ok := v.AsString()
		if !ok {
			return args.NewWrongTypeError(p.Name, "string", v.Kind())
		}
		if len(p.Enum) > 0 && !contains(p.Enum, s) {
			return args.NewInvalidEnumError(p.Name, s, p.Enum)
		}
	case TypeNumber:
		if _, ok := v.AsFloat(); !ok {
			return args.NewWrongTypeError(p.Name, "number", v.Kind())
		}
	case TypeInteger:
		if _, ok := v.AsInt(); !ok {
			return args.NewWrongTypeError(p.Name, "integer", v.Kind())
		}
	case TypeBoolean:
		if _, ok := v.AsBool(); !ok {
			return args.NewWrongTypeError(p.Name, "boolean", v.Kind())
		}
	case TypeArray:
		list, ok := v.AsList()
		if !ok {
			return args.NewWrongTypeError(p.Name, "array", v.Kind())
		}
		if p.Items != "" {
			for i, el := range list {
				if err := checkElement(p, i, el); err != nil {
					return err
				}
			}
		}
	case TypeObject:
		if _, ok := v.AsMap(); !ok {
			return args.NewWrongTypeError(p.Name, "object", v.Kind())
		}
	}
	return nil
}

func checkElement(p Param, index int, el args.Value) error {
	switch p.Items {
	case TypeString:
		if _, ok := el.AsString(); !ok {
			return args.NewWrongElementTypeError(p.Name, index, "string", el.Kind())
		}
	case TypeNumber:
		if _, ok := el.AsFloat(); !ok {
			return args.NewWrongElementTypeError(p.Name, index, "number", el.Kind())
		}
	case TypeInteger:
		if _, ok := el.AsInt(); !ok {
			return args.NewWrongElementTypeError(p.Name, index, "integer", el.Kind())
		}
	case TypeBoolean:
		if _, ok := el.AsBool(); !ok {
			return args.NewWrongElementTypeError(p.Name, index, "boolean", el.Kind())
		}
	}
	return nil
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// FormatNumber renders a float the way results are written to content
// blocks: shortest representation that round-trips, no trailing zeros,
// so integral values print without a decimal point.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Content is one block of a call result. This server only produces text.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is the uniform response envelope for a tool call. Success and
// error share the shape; only IsError and the content differ.
type Result struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// TextResult wraps a single text block in a success envelope.
func TextResult(text string) Result {
	return Result{Content: []Content{{Type: "text", Text: text}}}
}

// ErrorResult wraps an error message in an error envelope.
func ErrorResult(msg string) Result {
	return Result{Content: []Content{{Type: "text", Text: msg}}, IsError: true}
}

// Handler is the contract every registered tool implements. Handlers must
// be stateless: no retained fields describing prior calls, so the
// dispatcher can invoke them concurrently without locking.
type Handler interface {
	Definition() Definition
	Call(ctx context.Context, d *args.Decoder) (Result, error)
}

type handlerFunc struct {
	def Definition
	fn  func(ctx context.Context, d *args.Decoder) (string, error)
}

// New builds a Handler from a definition and a function producing text
// output. This keeps each tool a definition plus a closure instead of a
// per-tool struct type.
func New(def Definition, fn func(ctx context.Context, d *args.Decoder) (string, error)) Handler {
	return &handlerFunc{def: def, fn: fn}
}

func (h *handlerFunc) Definition() Definition { return h.def }

func (h *handlerFunc) Call(ctx context.Context, d *args.Decoder) (Result, error) {
	text, err := h.fn(ctx, d)
	if err != nil {
		return Result{}, err
	}
	return TextResult(text), nil
}
