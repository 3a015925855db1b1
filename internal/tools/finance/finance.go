// Package finance provides time-value-of-money tools.
package finance

import (
	"context"
	"fmt"
	"math"

	"businessmath-mcp/internal/args"
	"businessmath-mcp/internal/registry"
	"businessmath-mcp/internal/tool"
)

const (
	maxPeriods       = 100
	irrMaxIterations = 200
	irrTolerance     = 1e-9
)

// Register adds the finance tools to the registry.
func Register(reg *registry.Registry) error {
	for _, h := range handlers() {
		if err := reg.Register(h); err != nil {
			return err
		}
	}
	return nil
}

func handlers() []tool.Handler {
	return []tool.Handler{
		tool.New(tool.Definition{
			Name:        "compound_interest",
			Description: "Future value of a principal under compound interest",
			Params: []tool.Param{
				{Name: "principal", Type: tool.TypeNumber, Description: "Initial amount", Required: true},
				{Name: "rate", Type: tool.TypeNumber, Description: "Interest rate per period, e.g. 0.05", Required: true},
				{Name: "periods", Type: tool.TypeInteger, Description: "Number of periods", Required: true},
				{Name: "compounds_per_period", Type: tool.TypeInteger, Description: "Compounding frequency within a period, default 1"},
			},
		}, func(_ context.Context, d *args.Decoder) (string, error) {
			principal, err := d.RequireFloat("principal")
			if err != nil {
				return "", err
			}
			rate, err := d.RequireFloat("rate")
			if err != nil {
				return "", err
			}
			periods, err := d.RequireInt("periods")
			if err != nil {
				return "", err
			}
			m, err := d.OptionalInt("compounds_per_period", 1)
			if err != nil {
				return "", err
			}
			if periods < 1 || periods > maxPeriods {
				return "", fmt.Errorf("periods must be between 1 and %d", maxPeriods)
			}
			if m < 1 {
				return "", fmt.Errorf("compounds_per_period must be at least 1")
			}
			fv := principal * math.Pow(1+rate/float64(m), float64(m*periods))
			return tool.FormatNumber(fv), nil
		}),

		tool.New(tool.Definition{
			Name:        "present_value",
			Description: "Present value of a future amount discounted at a constant rate",
			Params: []tool.Param{
				{Name: "future_value", Type: tool.TypeNumber, Description: "Amount received after the last period", Required: true},
				{Name: "rate", Type: tool.TypeNumber, Description: "Discount rate per period", Required: true},
				{Name: "periods", Type: tool.TypeInteger, Description: "Number of periods", Required: true},
			},
		}, func(_ context.Context, d *args.Decoder) (string, error) {
			fv, err := d.RequireFloat("future_value")
			if err != nil {
				return "", err
			}
			rate, periods, err := ratePeriods(d)
			if err != nil {
				return "", err
			}
			return tool.FormatNumber(fv / math.Pow(1+rate, float64(periods))), nil
		}),

		tool.New(tool.Definition{
			Name:        "future_value",
			Description: "Future value of a present amount growing at a constant rate",
			Params: []tool.Param{
				{Name: "present_value", Type: tool.TypeNumber, Description: "Amount invested now", Required: true},
				{Name: "rate", Type: tool.TypeNumber, Description: "Growth rate per period", Required: true},
				{Name: "periods", Type: tool.TypeInteger, Description: "Number of periods", Required: true},
			},
		}, func(_ context.Context, d *args.Decoder) (string, error) {
			pv, err := d.RequireFloat("present_value")
			if err != nil {
				return "", err
			}
			rate, periods, err := ratePeriods(d)
			if err != nil {
				return "", err
			}
			return tool.FormatNumber(pv * math.Pow(1+rate, float64(periods))), nil
		}),

		tool.New(tool.Definition{
			Name:        "npv",
			Description: "Net present value of a series of cash flows; the first flow is at time zero",
			Params: []tool.Param{
				{Name: "rate", Type: tool.TypeNumber, Description: "Discount rate per period", Required: true},
				{Name: "cash_flows", Type: tool.TypeArray, Items: tool.TypeNumber, Description: "Cash flows starting at period 0", Required: true},
			},
		}, func(_ context.Context, d *args.Decoder) (string, error) {
			rate, err := d.RequireFloat("rate")
			if err != nil {
				return "", err
			}
			flows, err := d.RequireFloatSlice("cash_flows")
			if err != nil {
				return "", err
			}
			if len(flows) == 0 {
				return "", fmt.Errorf("cash_flows must not be empty")
			}
			if rate <= -1 {
				return "", fmt.Errorf("rate must be greater than -1")
			}
			return tool.FormatNumber(npv(rate, flows)), nil
		}),

		tool.New(tool.Definition{
			Name:        "irr",
			Description: "Internal rate of return of a series of cash flows",
			Params: []tool.Param{
				{Name: "cash_flows", Type: tool.TypeArray, Items: tool.TypeNumber, Description: "Cash flows starting at period 0", Required: true},
			},
		}, func(_ context.Context, d *args.Decoder) (string, error) {
			flows, err := d.RequireFloatSlice("cash_flows")
			if err != nil {
				return "", err
			}
			if len(flows) < 2 {
				return "", fmt.Errorf("irr requires at least 2 cash flows")
			}
			r, err := irr(flows)
			if err != nil {
				return "", err
			}
			return tool.FormatNumber(r), nil
		}),

		tool.New(tool.Definition{
			Name:        "payment",
			Description: "Level payment that amortizes a loan over a fixed number of periods",
			Params: []tool.Param{
				{Name: "principal", Type: tool.TypeNumber, Description: "Loan amount", Required: true},
				{Name: "rate", Type: tool.TypeNumber, Description: "Interest rate per period", Required: true},
				{Name: "periods", Type: tool.TypeInteger, Description: "Number of payments", Required: true},
			},
		}, func(_ context.Context, d *args.Decoder) (string, error) {
			principal, err := d.RequireFloat("principal")
			if err != nil {
				return "", err
			}
			rate, periods, err := ratePeriods(d)
			if err != nil {
				return "", err
			}
			if rate == 0 {
				return tool.FormatNumber(principal / float64(periods)), nil
			}
			f := math.Pow(1+rate, float64(periods))
			return tool.FormatNumber(principal * rate * f / (f - 1)), nil
		}),
	}
}

// ratePeriods reads the rate/periods pair shared by the TVM tools and
// applies the common bounds.
func ratePeriods(d *args.Decoder) (float64, int64, error) {
	rate, err := d.RequireFloat("rate")
	if err != nil {
		return 0, 0, err
	}
	periods, err := d.RequireInt("periods")
	if err != nil {
		return 0, 0, err
	}
	if periods < 1 || periods > maxPeriods {
		return 0, 0, fmt.Errorf("periods must be between 1 and %d", maxPeriods)
	}
	if rate <= -1 {
		return 0, 0, fmt.Errorf("rate must be greater than -1")
	}
	return rate, periods, nil
}

func npv(rate float64, flows []float64) float64 {
	var sum float64
	for i, cf := range flows {
		sum += cf / math.Pow(1+rate, float64(i))
	}
	return sum
}

// irr finds the root of the NPV function by bisection. The cash flows
// must change sign at least once for a root to exist in (-1, +10].
func irr(flows []float64) (float64, error) {
	sawPositive, sawNegative := false, false
	for _, cf := range flows {
		if cf > 0 {
			sawPositive = true
		}
		if cf < 0 {
			sawNegative = true
		}
	}
	if !sawPositive || !sawNegative {
		return 0, fmt.Errorf("irr requires both positive and negative cash flows")
	}

	lo, hi := -0.9999, 10.0
	fLo := npv(lo, flows)
	fHi := npv(hi, flows)
	if fLo*fHi > 0 {
		return 0, fmt.Errorf("irr did not bracket a root in (-1, 10]")
	}

	for i := 0; i < irrMaxIterations; i++ {
		mid := (lo + hi) / 2
		fMid := npv(mid, flows)
		if math.Abs(fMid) < irrTolerance || (hi-lo)/2 < irrTolerance {
			return mid, nil
		}
		if fLo*fMid < 0 {
			hi = mid
		} else {
			lo = mid
			fLo = fMid
		}
	}
	return 0, fmt.Errorf("irr did not converge after %d iterations", irrMaxIterations)
}
