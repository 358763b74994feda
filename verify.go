package computor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
)

// ============================================================
// Root verification
// ============================================================

// Check is the value of the reduced polynomial at one real root.
type Check struct {
	Root     float64 `json:"root"`
	Residual float64 `json:"residual"`
	OK       bool    `json:"ok"`
}

// Expression renders p as an arithmetic expression in v that govaluate can
// evaluate, e.g. "(4) * X ** 2 + (-3) * X + (1)".
func Expression(p Poly, v rune) string {
	if len(p) == 0 {
		return "0"
	}
	parts := make([]string, 0, len(p))
	for _, exp := range p.Exponents() {
		c := "(" + strconv.FormatFloat(p[exp], 'f', -1, 64) + ")"
		switch exp {
		case 0:
			parts = append(parts, c)
		case 1:
			parts = append(parts, fmt.Sprintf("%s * %c", c, v))
		default:
			parts = append(parts, fmt.Sprintf("%s * %c ** %d", c, v, exp))
		}
	}
	return strings.Join(parts, " + ")
}

// Residual evaluates p at x.
func Residual(p Poly, v rune, x float64) (float64, error) {
	expr, err := govaluate.NewEvaluableExpression(Expression(p, v))
	if err != nil {
		return 0, fmt.Errorf("compile %q: %w", Expression(p, v), err)
	}
	out, err := expr.Evaluate(map[string]interface{}{string(v): x})
	if err != nil {
		return 0, fmt.Errorf("evaluate at %v: %w", x, err)
	}
	f, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("evaluate at %v: result is %T, not a number", x, out)
	}
	return f, nil
}

// Verify substitutes every real root of sol back into p. A root passes when
// the residual is within 1e-6 relative to the largest coefficient. Complex
// roots are skipped.
func Verify(p Poly, sol Solution, v rune) ([]Check, error) {
	scale := 1.0
	for _, c := range p {
		scale = math.Max(scale, math.Abs(c))
	}
	var checks []Check
	for _, r := range sol.Roots {
		if !r.IsReal() {
			continue
		}
		res, err := Residual(p, v, r.Re)
		if err != nil {
			return nil, err
		}
		checks = append(checks, Check{Root: r.Re, Residual: res, OK: math.Abs(res) <= 1e-6*scale})
	}
	return checks, nil
}
