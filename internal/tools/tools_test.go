package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"businessmath-mcp/internal/registry"
)

func TestRegisterAll(t *testing.T) {
	reg := registry.New()
	require.NoError(t, RegisterAll(reg))
	reg.Freeze()

	// catalog must be free of duplicates and non-empty
	defs := reg.List()
	require.NotEmpty(t, defs)
	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		assert.False(t, seen[def.Name], "duplicate tool %q", def.Name)
		assert.NotEmpty(t, def.Description, "tool %q has no description", def.Name)
		seen[def.Name] = true
	}

	// spot-check one tool per area
	for _, name := range []string{"add", "mean", "npv", "normal_cdf", "monte_carlo_simulate"} {
		_, err := reg.Lookup(name)
		assert.NoError(t, err, "expected %q in catalog", name)
	}
}

func TestRegisterAll_FailsOnSecondCall(t *testing.T) {
	reg := registry.New()
	require.NoError(t, RegisterAll(reg))

	err := RegisterAll(reg)
	require.Error(t, err)
	assert.ErrorIs(t, err, registry.ErrDuplicateTool)
}
