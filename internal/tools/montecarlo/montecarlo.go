// Package montecarlo provides the Monte Carlo simulation tool.
package montecarlo

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"businessmath-mcp/internal/args"
	"businessmath-mcp/internal/registry"
	"businessmath-mcp/internal/tool"
)

const maxIterations = 1_000_000

// Distribution names accepted by the simulate tool.
var distributions = []string{"normal", "uniform", "triangular", "exponential", "lognormal"}

// Register adds the Monte Carlo tools to the registry.
func Register(reg *registry.Registry) error {
	return reg.Register(simulateTool())
}

func simulateTool() tool.Handler {
	return tool.New(tool.Definition{
		Name:        "monte_carlo_simulate",
		Description: "Draw samples from a distribution and summarize them (mean, std_dev, min, max, p5, p95)",
		Params: []tool.Param{
			{Name: "distribution", Type: tool.TypeString, Description: "Distribution to sample", Required: true, Enum: distributions},
			{Name: "iterations", Type: tool.TypeInteger, Description: "Number of samples to draw", Required: true},
			{Name: "seed", Type: tool.TypeInteger, Description: "RNG seed for reproducible runs, default 1"},
			{Name: "mean", Type: tool.TypeNumber, Description: "Mean (normal) or log-space mean (lognormal)"},
			{Name: "std_dev", Type: tool.TypeNumber, Description: "Standard deviation (normal) or log-space std dev (lognormal)"},
			{Name: "min", Type: tool.TypeNumber, Description: "Lower bound (uniform, triangular)"},
			{Name: "max", Type: tool.TypeNumber, Description: "Upper bound (uniform, triangular)"},
			{Name: "mode", Type: tool.TypeNumber, Description: "Most likely value (triangular)"},
			{Name: "rate", Type: tool.TypeNumber, Description: "Rate parameter (exponential)"},
		},
	}, simulate)
}

func simulate(_ context.Context, d *args.Decoder) (string, error) {
	dist, err := d.RequireString("distribution")
	if err != nil {
		return "", err
	}
	iterations, err := d.RequireInt("iterations")
	if err != nil {
		return "", err
	}
	seed, err := d.OptionalInt("seed", 1)
	if err != nil {
		return "", err
	}
	if iterations < 1 || iterations > maxIterations {
		return "", fmt.Errorf("iterations must be between 1 and %d", maxIterations)
	}

	sample, err := sampler(dist, d)
	if err != nil {
		return "", err
	}

	rng := rand.New(rand.NewSource(seed))
	samples := make([]float64, iterations)
	for i := range samples {
		samples[i] = sample(rng)
	}

	return summarize(samples), nil
}

// sampler builds the draw function for the named distribution, reading
// its parameters from the decoder. Missing parameters surface as the
// decoder's missing-argument error naming the field.
func sampler(dist string, d *args.Decoder) (func(*rand.Rand) float64, error) {
	switch dist {
	case "normal":
		mean, err := d.RequireFloat("mean")
		if err != nil {
			return nil, err
		}
		sd, err := d.RequireFloat("std_dev")
		if err != nil {
			return nil, err
		}
		if sd <= 0 {
			return nil, fmt.Errorf("std_dev must be positive")
		}
		return func(r *rand.Rand) float64 { return mean + sd*r.NormFloat64() }, nil

	case "uniform":
		lo, hi, err := bounds(d)
		if err != nil {
			return nil, err
		}
		return func(r *rand.Rand) float64 { return lo + r.Float64()*(hi-lo) }, nil

	case "triangular":
		lo, hi, err := bounds(d)
		if err != nil {
			return nil, err
		}
		mode, err := d.RequireFloat("mode")
		if err != nil {
			return nil, err
		}
		if mode < lo || mode > hi {
			return nil, fmt.Errorf("mode must be between min and max")
		}
		fc := (mode - lo) / (hi - lo)
		return func(r *rand.Rand) float64 {
			u := r.Float64()
			if u < fc {
				return lo + math.Sqrt(u*(hi-lo)*(mode-lo))
			}
			return hi - math.Sqrt((1-u)*(hi-lo)*(hi-mode))
		}, nil

	case "exponential":
		rate, err := d.RequireFloat("rate")
		if err != nil {
			return nil, err
		}
		if rate <= 0 {
			return nil, fmt.Errorf("rate must be positive")
		}
		return func(r *rand.Rand) float64 { return r.ExpFloat64() / rate }, nil

	case "lognormal":
		mean, err := d.RequireFloat("mean")
		if err != nil {
			return nil, err
		}
		sd, err := d.RequireFloat("std_dev")
		if err != nil {
			return nil, err
		}
		if sd <= 0 {
			return nil, fmt.Errorf("std_dev must be positive")
		}
		return func(r *rand.Rand) float64 { return math.Exp(mean + sd*r.NormFloat64()) }, nil

	default:
		// Unreachable when called through the dispatcher: the enum
		// constraint rejects unknown names during validation.
		return nil, fmt.Errorf("unknown distribution %q", dist)
	}
}

func bounds(d *args.Decoder) (float64, float64, error) {
	lo, err := d.RequireFloat("min")
	if err != nil {
		return 0, 0, err
	}
	hi, err := d.RequireFloat("max")
	if err != nil {
		return 0, 0, err
	}
	if hi <= lo {
		return 0, 0, fmt.Errorf("max must be greater than min")
	}
	return lo, hi, nil
}

func summarize(samples []float64) string {
	n := float64(len(samples))
	var sum float64
	lo, hi := samples[0], samples[0]
	for _, s := range samples {
		sum += s
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	mean := sum / n

	var ss float64
	for _, s := range samples {
		ss += (s - mean) * (s - mean)
	}
	sd := 0.0
	if len(samples) > 1 {
		sd = math.Sqrt(ss / (n - 1))
	}

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	return fmt.Sprintf("iterations=%d mean=%.6f std_dev=%.6f min=%.6f max=%.6f p5=%.6f p95=%.6f",
		len(samples), mean, sd, lo, hi, quantile(sorted, 0.05), quantile(sorted, 0.95))
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := q * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
