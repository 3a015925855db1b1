// Package stats provides descriptive statistics tools.
package stats

import (
	"context"
	"fmt"
	"math"
	"sort"

	"businessmath-mcp/internal/args"
	"businessmath-mcp/internal/registry"
	"businessmath-mcp/internal/tool"
)

// Register adds the statistics tools to the registry.
func Register(reg *registry.Registry) error {
	for _, h := range handlers() {
		if err := reg.Register(h); err != nil {
			return err
		}
	}
	return nil
}

func valuesParam() tool.Param {
	return tool.Param{
		Name:        "values",
		Type:        tool.TypeArray,
		Items:       tool.TypeNumber,
		Description: "Data points",
		Required:    true,
	}
}

func modeParam() tool.Param {
	return tool.Param{
		Name:        "mode",
		Type:        tool.TypeString,
		Description: "Sample or population statistic",
		Enum:        []string{"sample", "population"},
	}
}

func handlers() []tool.Handler {
	return []tool.Handler{
		tool.New(tool.Definition{
			Name:        "mean",
			Description: "Arithmetic mean of a list of numbers",
			Params:      []tool.Param{valuesParam()},
		}, func(_ context.Context, d *args.Decoder) (string, error) {
			xs, err := d.RequireFloatSlice("values")
			if err != nil {
				return "", err
			}
			if len(xs) == 0 {
				return "", fmt.Errorf("values must not be empty")
			}
			return tool.FormatNumber(mean(xs)), nil
		}),

		tool.New(tool.Definition{
			Name:        "median",
			Description: "Median of a list of numbers",
			Params:      []tool.Param{valuesParam()},
		}, func(_ context.Context, d *args.Decoder) (string, error) {
			xs, err := d.RequireFloatSlice("values")
			if err != nil {
				return "", err
			}
			if len(xs) == 0 {
				return "", fmt.Errorf("values must not be empty")
			}
			return tool.FormatNumber(median(xs)), nil
		}),

		tool.New(tool.Definition{
			Name:        "variance",
			Description: "Variance of a list of numbers",
			Params:      []tool.Param{valuesParam(), modeParam()},
		}, func(_ context.Context, d *args.Decoder) (string, error) {
			v, err := dispersion(d)
			if err != nil {
				return "", err
			}
			return tool.FormatNumber(v), nil
		}),

		tool.New(tool.Definition{
			Name:        "std_dev",
			Description: "Standard deviation of a list of numbers",
			Params:      []tool.Param{valuesParam(), modeParam()},
		}, func(_ context.Context, d *args.Decoder) (string, error) {
			v, err := dispersion(d)
			if err != nil {
				return "", err
			}
			return tool.FormatNumber(math.Sqrt(v)), nil
		}),

		tool.New(tool.Definition{
			Name:        "percentile",
			Description: "Interpolated percentile of a list of numbers",
			Params: []tool.Param{
				valuesParam(),
				{Name: "p", Type: tool.TypeNumber, Description: "Percentile rank, 0 to 100", Required: true},
			},
		}, func(_ context.Context, d *args.Decoder) (string, error) {
			xs, err := d.RequireFloatSlice("values")
			if err != nil {
				return "", err
			}
			p, err := d.RequireFloat("p")
			if err != nil {
				return "", err
			}
			if len(xs) == 0 {
				return "", fmt.Errorf("values must not be empty")
			}
			if p < 0 || p > 100 {
				return "", fmt.Errorf("p must be between 0 and 100")
			}
			return tool.FormatNumber(percentile(xs, p)), nil
		}),

		tool.New(tool.Definition{
			Name:        "correlation",
			Description: "Pearson correlation coefficient of two equal-length series",
			Params: []tool.Param{
				{Name: "x", Type: tool.TypeArray, Items: tool.TypeNumber, Description: "First series", Required: true},
				{Name: "y", Type: tool.TypeArray, Items: tool.TypeNumber, Description: "Second series", Required: true},
			},
		}, func(_ context.Context, d *args.Decoder) (string, error) {
			x, err := d.RequireFloatSlice("x")
			if err != nil {
				return "", err
			}
			y, err := d.RequireFloatSlice("y")
			if err != nil {
				return "", err
			}
			if len(x) != len(y) {
				return "", fmt.Errorf("x and y must have the same length, got %d and %d", len(x), len(y))
			}
			if len(x) < 2 {
				return "", fmt.Errorf("correlation requires at least 2 data points")
			}
			r, err := correlation(x, y)
			if err != nil {
				return "", err
			}
			return tool.FormatNumber(r), nil
		}),
	}
}

// dispersion reads the shared values/mode arguments and returns the variance.
func dispersion(d *args.Decoder) (float64, error) {
	xs, err := d.RequireFloatSlice("values")
	if err != nil {
		return 0, err
	}
	mode, err := d.OptionalString("mode", "sample")
	if err != nil {
		return 0, err
	}
	n := len(xs)
	if mode == "sample" && n < 2 {
		return 0, fmt.Errorf("sample variance requires at least 2 data points")
	}
	if n == 0 {
		return 0, fmt.Errorf("values must not be empty")
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	if mode == "sample" {
		return ss / float64(n-1), nil
	}
	return ss / float64(n), nil
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func median(xs []float64) float64 {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// percentile uses linear interpolation between closest ranks.
func percentile(xs []float64, p float64) float64 {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func correlation(x, y []float64) (float64, error) {
	mx, my := mean(x), mean(y)
	var sxy, sxx, syy float64
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, fmt.Errorf("correlation is undefined for a constant series")
	}
	return sxy / math.Sqrt(sxx*syy), nil
}
