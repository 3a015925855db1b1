package montecarlo

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"businessmath-mcp/internal/args"
	"businessmath-mcp/internal/dispatch"
	"businessmath-mcp/internal/registry"
	"businessmath-mcp/internal/tool"
)

func call(t *testing.T, argsJSON string) tool.Result {
	t.Helper()
	reg := registry.New()
	require.NoError(t, Register(reg))
	reg.Freeze()
	d := dispatch.New(reg, nil, zerolog.Nop())
	m, err := args.FromJSONObject([]byte(argsJSON))
	require.NoError(t, err)
	return d.Execute(context.Background(), "monte_carlo_simulate", m)
}

var summaryField = regexp.MustCompile(`(\w+)=([-0-9.]+)`)

func summary(t *testing.T, res tool.Result) map[string]float64 {
	t.Helper()
	require.False(t, res.IsError, "unexpected error: %v", res.Content)
	require.Len(t, res.Content, 1)
	out := make(map[string]float64)
	for _, m := range summaryField.FindAllStringSubmatch(res.Content[0].Text, -1) {
		v, err := strconv.ParseFloat(m[2], 64)
		require.NoError(t, err)
		out[m[1]] = v
	}
	return out
}

func TestSimulate_Normal(t *testing.T) {
	s := summary(t, call(t, `{"distribution":"normal","iterations":50000,"seed":7,"mean":10,"std_dev":2}`))
	assert.Equal(t, 50000.0, s["iterations"])
	assert.InDelta(t, 10.0, s["mean"], 0.05)
	assert.InDelta(t, 2.0, s["std_dev"], 0.05)
	assert.Less(t, s["p5"], s["p95"])
}

func TestSimulate_Uniform(t *testing.T) {
	s := summary(t, call(t, `{"distribution":"uniform","iterations":50000,"seed":3,"min":0,"max":10}`))
	assert.InDelta(t, 5.0, s["mean"], 0.1)
	assert.GreaterOrEqual(t, s["min"], 0.0)
	assert.LessOrEqual(t, s["max"], 10.0)
}

func TestSimulate_Triangular(t *testing.T) {
	// mean of triangular(0, 12, 3) is (0+12+3)/3 = 5
	s := summary(t, call(t, `{"distribution":"triangular","iterations":50000,"seed":5,"min":0,"max":12,"mode":3}`))
	assert.InDelta(t, 5.0, s["mean"], 0.1)
	assert.GreaterOrEqual(t, s["min"], 0.0)
	assert.LessOrEqual(t, s["max"], 12.0)
}

func TestSimulate_Exponential(t *testing.T) {
	s := summary(t, call(t, `{"distribution":"exponential","iterations":50000,"seed":11,"rate":0.5}`))
	assert.InDelta(t, 2.0, s["mean"], 0.1)
	assert.GreaterOrEqual(t, s["min"], 0.0)
}

func TestSimulate_Lognormal(t *testing.T) {
	// E[X] = exp(mu + sigma^2/2) = exp(0.125) for mu=0, sigma=0.5
	s := summary(t, call(t, `{"distribution":"lognormal","iterations":50000,"seed":13,"mean":0,"std_dev":0.5}`))
	assert.InDelta(t, 1.1331, s["mean"], 0.05)
	assert.Greater(t, s["min"], 0.0)
}

func TestSimulate_SeedIsDeterministic(t *testing.T) {
	argsJSON := `{"distribution":"normal","iterations":1000,"seed":42,"mean":0,"std_dev":1}`
	first := call(t, argsJSON)
	second := call(t, argsJSON)
	require.False(t, first.IsError)
	assert.Equal(t, first.Content[0].Text, second.Content[0].Text)
}

func TestSimulate_UnknownDistribution(t *testing.T) {
	res := call(t, `{"distribution":"cauchy","iterations":100}`)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, `"distribution"`)
	assert.Contains(t, res.Content[0].Text, "one of")
}

func TestSimulate_MissingDistributionParam(t *testing.T) {
	res := call(t, `{"distribution":"normal","iterations":100}`)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, `"mean"`)
}

func TestSimulate_IterationBounds(t *testing.T) {
	for _, n := range []int{0, maxIterations + 1} {
		res := call(t, fmt.Sprintf(`{"distribution":"normal","iterations":%d,"mean":0,"std_dev":1}`, n))
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].Text, "iterations must be between")
	}
}

func TestSimulate_BadBounds(t *testing.T) {
	res := call(t, `{"distribution":"uniform","iterations":100,"min":5,"max":5}`)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "max must be greater than min")

	res = call(t, `{"distribution":"triangular","iterations":100,"min":0,"max":10,"mode":11}`)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "mode must be between")
}
