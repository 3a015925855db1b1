package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"businessmath-mcp/internal/args"
	"businessmath-mcp/internal/dispatch"
	"businessmath-mcp/internal/jsonrpc"
	"businessmath-mcp/internal/registry"
)

// ProtocolVersion is the MCP protocol revision this server speaks.
const ProtocolVersion = "2024-11-05"

// Handler routes MCP protocol methods to the registry and dispatcher.
// Both transports feed it one frame at a time, so transport choice cannot
// change dispatch semantics.
type Handler struct {
	registry   *registry.Registry
	dispatcher *dispatch.Dispatcher
	cfg        Config
	logger     zerolog.Logger
}

// NewHandler wires the protocol layer over a frozen registry.
func NewHandler(reg *registry.Registry, disp *dispatch.Dispatcher, cfg Config, logger zerolog.Logger) *Handler {
	return &Handler{
		registry:   reg,
		dispatcher: disp,
		cfg:        cfg,
		logger:     logger.With().Str("component", "server").Logger(),
	}
}

// HandleFrame processes one raw JSON-RPC frame and returns the serialized
// response frame, or nil for notifications.
func (h *Handler) HandleFrame(ctx context.Context, data []byte) []byte {
	req, perr := jsonrpc.ParseRequest(data)
	if perr != nil {
		h.logger.Debug().Int("code", int(perr.Code)).Msg("Rejected malformed frame")
		return marshalResponse(&jsonrpc.Response{JSONRPC: jsonrpc.Version, Error: perr}, h.logger)
	}

	resp := h.handleRequest(ctx, req)
	if resp == nil {
		return nil
	}
	return marshalResponse(resp, h.logger)
}

func marshalResponse(resp *jsonrpc.Response, logger zerolog.Logger) []byte {
	data, err := json.Marshal(resp)
	if err != nil {
		// Result types here are all plain structs and maps; this is
		// unreachable in practice but must not crash the serving loop.
		logger.Error().Err(err).Msg("Failed to marshal response")
		fallback := jsonrpc.NewErrorResponse(resp.ID, jsonrpc.InternalError, "Internal error")
		data, _ = json.Marshal(fallback)
	}
	return data
}

func (h *Handler) handleRequest(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	h.logger.Debug().Str("method", req.Method).Any("id", req.ID).Msg("Handling request")

	switch req.Method {
	case "initialize":
		return h.handleInitialize(req)
	case "notifications/initialized":
		return nil
	case "ping":
		return jsonrpc.NewResponse(req.ID, struct{}{})
	case "tools/list":
		return h.handleToolsList(req)
	case "tools/call":
		return h.handleToolsCall(ctx, req)
	case "resources/list":
		return jsonrpc.NewResponse(req.ID, ResourcesListResult{Resources: []any{}})
	case "prompts/list":
		return jsonrpc.NewResponse(req.ID, PromptsListResult{Prompts: []any{}})
	default:
		if req.IsNotification() {
			return nil
		}
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.MethodNotFound,
			fmt.Sprintf("Method not found: %s", req.Method))
	}
}

// --- Initialize ---

type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
}

type Capabilities struct {
	Tools map[string]any `json:"tools,omitempty"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (h *Handler) handleInitialize(req *jsonrpc.Request) *jsonrpc.Response {
	var params struct {
		ProtocolVersion string `json:"protocolVersion"`
		ClientInfo      struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"clientInfo"`
	}
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return jsonrpc.NewErrorResponse(req.ID, jsonrpc.InvalidParams, "Invalid initialize params")
		}
	}

	h.logger.Info().
		Str("client", params.ClientInfo.Name).
		Str("client_version", params.ClientInfo.Version).
		Msg("Client initialized")

	return jsonrpc.NewResponse(req.ID, InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities: Capabilities{
			Tools: map[string]any{"listChanged": false},
		},
		ServerInfo: ServerInfo{Name: h.cfg.Name, Version: h.cfg.Version},
	})
}

// --- Tools ---

type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type ToolsListResult struct {
	Tools []ToolInfo `json:"tools"`
}

type ResourcesListResult struct {
	Resources []any `json:"resources"`
}

type PromptsListResult struct {
	Prompts []any `json:"prompts"`
}

func (h *Handler) handleToolsList(req *jsonrpc.Request) *jsonrpc.Response {
	defs := h.registry.List()
	infos := make([]ToolInfo, 0, len(defs))
	for _, def := range defs {
		infos = append(infos, ToolInfo{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema(),
		})
	}
	return jsonrpc.NewResponse(req.ID, ToolsListResult{Tools: infos})
}

func (h *Handler) handleToolsCall(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	var params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.InvalidParams, "Invalid tools/call params")
	}
	if params.Name == "" {
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.InvalidParams, "Missing tool name")
	}

	rawArgs, err := args.FromJSONObject(params.Arguments)
	if err != nil {
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.InvalidParams,
			fmt.Sprintf("Invalid tool arguments: %v", err))
	}

	result := h.dispatcher.Execute(ctx, params.Name, rawArgs)
	return jsonrpc.NewResponse(req.ID, result)
}

// Metadata describes the server on GET /mcp.
type Metadata struct {
	Name            string `json:"name"`
	Version         string `json:"version"`
	ProtocolVersion string `json:"protocolVersion"`
	ToolCount       int    `json:"toolCount"`
}

// Describe returns the server metadata document.
func (h *Handler) Describe() Metadata {
	return Metadata{
		Name:            h.cfg.Name,
		Version:         h.cfg.Version,
		ProtocolVersion: ProtocolVersion,
		ToolCount:       h.registry.Len(),
	}
}
