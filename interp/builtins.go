package interp

import (
	"io"
	"math"
	"strings"

	"github.com/pontaoski/redstone/errors"
)

// NewGlobalScope returns a root scope holding the native functions. print
// writes to out.
func NewGlobalScope(out io.Writer) *Scope {
	scope := NewScope(nil)

	funcs := []func(io.Writer) *NativeFunction{
		addPrint,
		addUnaryMath("abs", math.Abs),
		addUnaryMath("square", func(n float64) float64 { return n * n }),
		addUnaryMath("cube", func(n float64) float64 { return n * n * n }),
		addUnaryMath("negate", func(n float64) float64 { return -n }),
		addFold("max", math.Max),
		addFold("min", math.Min),
	}
	for _, mk := range funcs {
		fn := mk(out)
		if err := scope.Declare(fn.Name, fn, true); err != nil {
			panic(err)
		}
	}

	return scope
}

func addPrint(out io.Writer) *NativeFunction {
	return &NativeFunction{
		Name: "print",
		Fn: func(args []Value, _ *Scope) (Value, error) {
			parts := make([]string, 0, len(args))
			for _, a := range args {
				parts = append(parts, Format(a))
			}
			if _, err := io.WriteString(out, strings.Join(parts, " ")+"\n"); err != nil {
				return nil, err
			}
			return Void{}, nil
		},
	}
}

func numberArgs(name string, args []Value) ([]float64, error) {
	nums := make([]float64, 0, len(args))
	for i, a := range args {
		n, ok := a.(Number)
		if !ok {
			return nil, errors.NewRuntimeError(errors.TypeMismatch, "%s expects numbers, argument %d is a %s", name, i+1, TypeName(a))
		}
		nums = append(nums, float64(n))
	}
	return nums, nil
}

func addUnaryMath(name string, op func(float64) float64) func(io.Writer) *NativeFunction {
	return func(io.Writer) *NativeFunction {
		return &NativeFunction{
			Name: name,
			Fn: func(args []Value, _ *Scope) (Value, error) {
				if len(args) != 1 {
					return nil, errors.NewRuntimeError(errors.ArityShortfall, "%s expects 1 argument, got %d", name, len(args))
				}
				nums, err := numberArgs(name, args)
				if err != nil {
					return nil, err
				}
				return Number(op(nums[0])), nil
			},
		}
	}
}

func addFold(name string, op func(a, b float64) float64) func(io.Writer) *NativeFunction {
	return func(io.Writer) *NativeFunction {
		return &NativeFunction{
			Name: name,
			Fn: func(args []Value, _ *Scope) (Value, error) {
				if len(args) == 0 {
					return nil, errors.NewRuntimeError(errors.ArityShortfall, "%s expects at least 1 argument", name)
				}
				nums, err := numberArgs(name, args)
				if err != nil {
					return nil, err
				}
				acc := nums[0]
				for _, n := range nums[1:] {
					acc = op(acc, n)
				}
				return Number(acc), nil
			},
		}
	}
}
