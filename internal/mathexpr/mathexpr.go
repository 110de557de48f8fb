// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

// Package mathexpr evaluates mathematical expressions in a sandboxed
// environment.
//
// Expressions are compiled and run with the expr language against an
// environment of mathematical constants and functions only. There is no
// access to variables, I/O, or program state, and expression length and
// evaluation time are bounded.
package mathexpr

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var (
	// ErrEmptyExpression is returned when the expression is empty.
	ErrEmptyExpression = errors.New("expr is required")

	// ErrExpressionTooLong is returned when the expression exceeds the
	// configured maximum length.
	ErrExpressionTooLong = errors.New("expr is too long")

	// ErrInvalidExpression is returned when the expression fails to compile
	// or evaluate.
	ErrInvalidExpression = errors.New("invalid expression")

	// ErrInvalidPrecision is returned when precision is zero or negative.
	ErrInvalidPrecision = errors.New("precision must be a positive integer")

	// ErrTimeout is returned when evaluation exceeds the configured timeout.
	ErrTimeout = errors.New("evaluation timed out")
)

// Result holds a formatted evaluation result.
type Result struct {
	Expression string
	Result     string
	Precision  *int
}

// Service compiles and evaluates expressions within configured limits.
type Service struct {
	maxLength int
	timeout   time.Duration
	env       map[string]any
}

// NewService creates an expression evaluator. maxLength bounds expression
// size; timeout bounds a single evaluation.
func NewService(maxLength int, timeout time.Duration) *Service {
	return &Service{
		maxLength: maxLength,
		timeout:   timeout,
		env:       buildEnv(),
	}
}

// Evaluate compiles and runs expression, formatting the result with the
// given number of significant digits. A nil precision formats with the
// shortest round-trip representation.
func (s *Service) Evaluate(ctx context.Context, expression string, precision *int) (*Result, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	if len(expression) > s.maxLength {
		return nil, ErrExpressionTooLong
	}
	if precision != nil && *precision <= 0 {
		return nil, ErrInvalidPrecision
	}

	program, err := expr.Compile(expression, expr.Env(s.env))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}

	value, err := s.runWithTimeout(ctx, program)
	if err != nil {
		return nil, err
	}

	formatted, err := formatValue(value, precision)
	if err != nil {
		return nil, err
	}

	return &Result{
		Expression: expression,
		Result:     formatted,
		Precision:  precision,
	}, nil
}

// runWithTimeout evaluates the program in its own goroutine and abandons
// it when the deadline passes. The expr language has no unbounded loops,
// so an abandoned evaluation always finishes shortly after.
func (s *Service) runWithTimeout(ctx context.Context, program *vm.Program) (any, error) {
	type outcome struct {
		value any
		err   error
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ch := make(chan outcome, 1)
	go func() {
		value, err := expr.Run(program, s.env)
		if err != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidExpression, err)
		}
		ch <- outcome{value, err}
	}()

	select {
	case out := <-ch:
		return out.value, out.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ctx.Err()
	}
}

// formatValue renders an evaluation result as a string. Numbers honor the
// significant-digit precision; lists format element-wise.
func formatValue(value any, precision *int) (string, error) {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		digits := -1
		if precision != nil {
			digits = *precision
		}
		return strconv.FormatFloat(v, 'g', digits, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case string:
		return v, nil
	case []any:
		out := "["
		for i, item := range v {
			if i > 0 {
				out += ", "
			}
			s, err := formatValue(item, precision)
			if err != nil {
				return "", err
			}
			out += s
		}
		return out + "]", nil
	case []float64:
		items := make([]any, len(v))
		for i, f := range v {
			items[i] = f
		}
		return formatValue(items, precision)
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

// buildEnv constructs the evaluation environment: constants plus pure
// numeric functions. Everything in here must be side-effect free.
func buildEnv() map[string]any {
	return map[string]any{
		"pi":  math.Pi,
		"e":   math.E,
		"tau": 2 * math.Pi,
		"inf": math.Inf(1),
		"nan": math.NaN(),

		"sqrt":  math.Sqrt,
		"cbrt":  math.Cbrt,
		"exp":   math.Exp,
		"log":   math.Log,
		"log10": math.Log10,
		"log2":  math.Log2,
		"pow":   math.Pow,
		"hypot": math.Hypot,
		"fmod":  math.Mod,

		"sin":   math.Sin,
		"cos":   math.Cos,
		"tan":   math.Tan,
		"asin":  math.Asin,
		"acos":  math.Acos,
		"atan":  math.Atan,
		"atan2": math.Atan2,
		"sinh":  math.Sinh,
		"cosh":  math.Cosh,
		"tanh":  math.Tanh,
		"asinh": math.Asinh,
		"acosh": math.Acosh,
		"atanh": math.Atanh,

		"floor": math.Floor,
		"ceil":  math.Ceil,
		"trunc": math.Trunc,
		"round": math.Round,

		"degrees": func(rad float64) float64 { return rad * 180 / math.Pi },
		"radians": func(deg float64) float64 { return deg * math.Pi / 180 },

		"gamma":  math.Gamma,
		"lgamma": func(x float64) float64 { v, _ := math.Lgamma(x); return v },
		"erf":    math.Erf,
		"erfc":   math.Erfc,

		"isnan":    math.IsNaN,
		"isinf":    func(x float64) bool { return math.IsInf(x, 0) },
		"isfinite": func(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) },

		"sign": func(x float64) float64 {
			switch {
			case x > 0:
				return 1
			case x < 0:
				return -1
			default:
				return 0
			}
		},
		"clamp": func(x, lo, hi float64) float64 {
			return math.Max(lo, math.Min(hi, x))
		},

		"factorial": factorial,
		"gcd":       gcd,
		"lcm":       lcm,

		"sum":      func(xs ...float64) float64 { return sumOf(xs) },
		"prod":     prod,
		"mean":     mean,
		"median":   median,
		"stdev":    stdev,
		"variance": variance,
	}
}

func sumOf(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}

func prod(xs ...float64) float64 {
	total := 1.0
	for _, x := range xs {
		total *= x
	}
	return total
}

func mean(xs ...float64) (float64, error) {
	if len(xs) == 0 {
		return 0, fmt.Errorf("%w: mean requires at least one value", ErrInvalidExpression)
	}
	return sumOf(xs) / float64(len(xs)), nil
}

func median(xs ...float64) (float64, error) {
	if len(xs) == 0 {
		return 0, fmt.Errorf("%w: median requires at least one value", ErrInvalidExpression)
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2, nil
	}
	return sorted[mid], nil
}

func variance(xs ...float64) (float64, error) {
	if len(xs) < 2 {
		return 0, fmt.Errorf("%w: variance requires at least two values", ErrInvalidExpression)
	}
	m, _ := mean(xs...)
	total := 0.0
	for _, x := range xs {
		d := x - m
		total += d * d
	}
	return total / float64(len(xs)-1), nil
}

func stdev(xs ...float64) (float64, error) {
	v, err := variance(xs...)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(v), nil
}

func factorial(n int) (int64, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: factorial requires a non-negative integer", ErrInvalidExpression)
	}
	if n > 20 {
		return 0, fmt.Errorf("%w: factorial overflows beyond 20", ErrInvalidExpression)
	}
	result := int64(1)
	for i := int64(2); i <= int64(n); i++ {
		result *= i
	}
	return result, nil
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	g := gcd(a, b)
	result := a / g * b
	if result < 0 {
		return -result
	}
	return result
}
