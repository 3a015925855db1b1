// Package arith provides the basic arithmetic tools.
package arith

import (
	"context"
	"fmt"

	"businessmath-mcp/internal/args"
	"businessmath-mcp/internal/registry"
	"businessmath-mcp/internal/tool"
)

// Register adds the arithmetic tools to the registry.
func Register(reg *registry.Registry) error {
	for _, h := range handlers() {
		if err := reg.Register(h); err != nil {
			return err
		}
	}
	return nil
}

func twoNumbers(name, description, aDesc, bDesc string, op func(a, b float64) (float64, error)) tool.Handler {
	return tool.New(tool.Definition{
		Name:        name,
		Description: description,
		Params: []tool.Param{
			{Name: "a", Type: tool.TypeNumber, Description: aDesc, Required: true},
			{Name: "b", Type: tool.TypeNumber, Description: bDesc, Required: true},
		},
	}, func(_ context.Context, d *args.Decoder) (string, error) {
		a, err := d.RequireFloat("a")
		if err != nil {
			return "", err
		}
		b, err := d.RequireFloat("b")
		if err != nil {
			return "", err
		}
		v, err := op(a, b)
		if err != nil {
			return "", err
		}
		return tool.FormatNumber(v), nil
	})
}

func handlers() []tool.Handler {
	return []tool.Handler{
		twoNumbers("add", "Add two numbers", "First addend", "Second addend",
			func(a, b float64) (float64, error) { return a + b, nil }),
		twoNumbers("subtract", "Subtract b from a", "Minuend", "Subtrahend",
			func(a, b float64) (float64, error) { return a - b, nil }),
		twoNumbers("multiply", "Multiply two numbers", "First factor", "Second factor",
			func(a, b float64) (float64, error) { return a * b, nil }),
		twoNumbers("divide", "Divide a by b", "Dividend", "Divisor",
			func(a, b float64) (float64, error) {
				if b == 0 {
					return 0, fmt.Errorf("division by zero")
				}
				return a / b, nil
			}),
	}
}
