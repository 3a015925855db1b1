// Package tools assembles the full tool catalog.
package tools

import (
	"businessmath-mcp/internal/registry"
	"businessmath-mcp/internal/tools/arith"
	"businessmath-mcp/internal/tools/finance"
	"businessmath-mcp/internal/tools/montecarlo"
	"businessmath-mcp/internal/tools/prob"
	"businessmath-mcp/internal/tools/stats"
)

// RegisterAll registers every catalog area. The first failure (a duplicate
// name is a build defect) is returned immediately so startup can abort.
func RegisterAll(reg *registry.Registry) error {
	for _, register := range []func(*registry.Registry) error{
		arith.Register,
		stats.Register,
		finance.Register,
		prob.Register,
		montecarlo.Register,
	} {
		if err := register(reg); err != nil {
			return err
		}
	}
	return nil
}
