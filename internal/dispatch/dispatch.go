package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"businessmath-mcp/internal/args"
	"businessmath-mcp/internal/registry"
	"businessmath-mcp/internal/telemetry"
	"businessmath-mcp/internal/tool"
)

// Execution status labels for telemetry
const (
	statusSuccess     = "success"
	statusError       = "error"
	statusNotFound    = "not_found"
	statusInvalidArgs = "invalid_args"
)

// Dispatcher resolves a tool call against the registry, validates the
// argument bag, invokes the handler, and folds every failure mode into
// the uniform result envelope. No error leaves Execute as a Go error:
// the transport always gets a complete result.
//
// Execute is safe for concurrent use. The registry is read-only once
// serving starts and handlers are stateless, so no synchronization is
// needed here.
type Dispatcher struct {
	registry *registry.Registry
	metrics  *telemetry.Metrics // may be nil (stdio transport)
	logger   zerolog.Logger
}

// New creates a dispatcher over a populated registry. metrics may be nil.
func New(reg *registry.Registry, metrics *telemetry.Metrics, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: reg,
		metrics:  metrics,
		logger:   logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Execute runs one tool call to completion.
func (d *Dispatcher) Execute(ctx context.Context, name string, rawArgs *args.Map) tool.Result {
	start := time.Now()

	h, err := d.registry.Lookup(name)
	if err != nil {
		d.logger.Debug().Str("tool", name).Msg("Tool not found")
		d.record(name, statusNotFound, start)
		return tool.ErrorResult(err.Error())
	}

	if err := h.Definition().Validate(rawArgs); err != nil {
		d.logger.Debug().Str("tool", name).Err(err).Msg("Argument validation failed")
		d.record(name, statusInvalidArgs, start)
		return tool.ErrorResult(err.Error())
	}

	res := d.invoke(ctx, name, h, args.NewDecoder(rawArgs))
	if res.IsError {
		d.record(name, statusError, start)
	} else {
		d.record(name, statusSuccess, start)
	}
	return res
}

// invoke runs the handler inside a protected call. Handler domain errors
// and recovered panics both become error envelopes.
func (d *Dispatcher) invoke(ctx context.Context, name string, h tool.Handler, dec *args.Decoder) (res tool.Result) {
	defer func() {
		if p := recover(); p != nil {
			d.logger.Error().Str("tool", name).Any("panic", p).Msg("Recovered panic in tool handler")
			res = tool.ErrorResult(fmt.Sprintf("internal error in tool %q: %v", name, p))
		}
	}()

	res, err := h.Call(ctx, dec)
	if err != nil {
		return tool.ErrorResult(err.Error())
	}
	return res
}

func (d *Dispatcher) record(name, status string, start time.Time) {
	if d.metrics != nil {
		d.metrics.RecordToolExecution(name, status, time.Since(start))
	}
}
