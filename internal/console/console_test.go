package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	computor "github.com/njchilds90/computor"
)

func solve(t *testing.T, p computor.Poly) computor.Solution {
	t.Helper()
	sol, err := computor.Solve(p, p.Degree())
	require.NoError(t, err)
	return sol
}

func TestPrinter_ReducedAndDegree(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, Options{})
	p.Reduced("4 * X + 4 = 0")
	p.Degree(1)
	assert.Equal(t, "Reduced equation: 4 * X + 4 = 0\nPolynomial degree: 1\n", buf.String())
}

func TestPrinter_Color(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, Options{Color: true}).Degree(2)
	assert.Contains(t, buf.String(), green)
	assert.Contains(t, buf.String(), reset)

	buf.Reset()
	New(&buf, Options{}).Degree(2)
	assert.NotContains(t, buf.String(), "\033[")
}

func TestPrinter_Solutions(t *testing.T) {
	cases := []struct {
		name string
		poly computor.Poly
		want string
	}{
		{"none", computor.Poly{0: 3}, "No solution.\n"},
		{"all", computor.Poly{}, "All real numbers are solutions.\n"},
		{"linear", computor.Poly{1: 4, 0: 4}, "The solution is:\n-1.0\n"},
		{"double", computor.Poly{2: 1, 1: -2, 0: 1}, "One real solution:\n1.0\n"},
		{"two", computor.Poly{2: 1, 0: -4}, "Discriminant is strictly positive, the two solutions are:\n2.0\n-2.0\n"},
		{"complex", computor.Poly{2: 1, 0: 1}, "Discriminant is strictly negative, Two complex solutions:\n0.0 + 1.0i\n0.0 - 1.0i\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			New(&buf, Options{}).Solution(solve(t, tc.poly))
			assert.Equal(t, tc.want, buf.String())
		})
	}
}

func TestPrinter_FractionAndDecimal(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, Options{Number: computor.NumberFormat{Fraction: true, Decimal: true}})
	p.Solution(solve(t, computor.Poly{1: 3, 0: -1}))
	assert.Equal(t, "The solution is:\n1/3 (0.333333)\n", buf.String())
}

func TestPrinter_Trace(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, Options{})
	r := &computor.Reducer{Trace: p.Trace}
	r.Reduce(computor.Poly{1: 1}, computor.Poly{0: 2})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "[Reducer] Left side terms: 1 * X", lines[0])
	assert.Equal(t, "[Reducer] Equation before reduction: (1 * X) - (2) = 0", lines[2])
	assert.Equal(t, "[Reducer] After removing zeros: 1 * X - 2", lines[4])
}

func TestPrinter_Discriminant(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, Options{})
	p.Discriminant(solve(t, computor.Poly{2: 1, 0: -4}))
	assert.Equal(t, "[Solver] Discriminant: Δ = b² - 4ac = 0.0² - 4*1.0*-4.0 = 16.0\n", buf.String())

	buf.Reset()
	p.Discriminant(solve(t, computor.Poly{1: 1}))
	assert.Empty(t, buf.String())
}

func TestPrinter_Verification(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, Options{}).Verification([]computor.Check{{Root: 2, Residual: 0, OK: true}})
	assert.Equal(t, "[Verify] f(2.0) = 0.0 ok\n", buf.String())
}

func TestPrinter_Error(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, Options{})
	p.Error(&computor.DegreeError{Degree: 3})
	assert.True(t, strings.HasPrefix(buf.String(), "Error: "))

	buf.Reset()
	_, err := computor.Solve(computor.Poly{2: 1e200, 1: 1e200, 0: 1e200}, 2)
	p.Error(err)
	assert.True(t, strings.HasPrefix(buf.String(), "Error: coefficients too large"))

	buf.Reset()
	p.Error(errors.New("boom"))
	assert.Equal(t, "An unexpected error occurred: boom\n", buf.String())
}
