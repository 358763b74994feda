package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_NoArgs(t *testing.T) {
	code, out, errOut := runCLI(t)
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Usage: computor")
}

func TestRun_Linear(t *testing.T) {
	code, out, _ := runCLI(t, "5 * X^0 + 4 * X^1 = 1 * X^0")
	assert.Equal(t, 0, code)
	assert.Equal(t, "Reduced equation: 4 * X + 4 = 0\nPolynomial degree: 1\nThe solution is:\n-1.0\n", out)
}

func TestRun_Quadratic(t *testing.T) {
	code, out, _ := runCLI(t, "X^2 - 4 = 0")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Discriminant is strictly positive, the two solutions are:\n2.0\n-2.0\n")
}

func TestRun_FlagsAfterEquation(t *testing.T) {
	code, out, _ := runCLI(t, "3 * X = 1", "-f")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "The solution is:\n1/3\n")
}

func TestRun_FractionAndDecimal(t *testing.T) {
	code, out, _ := runCLI(t, "-fraction", "-d", "3 * X = 1")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "1/3 (0.333333)")
}

func TestRun_DoubleDash(t *testing.T) {
	code, out, _ := runCLI(t, "--", "-2 * X = 4")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "-2.0")
}

func TestRun_LeadingMinus(t *testing.T) {
	code, out, errOut := runCLI(t, "-X^2 + 4 = 0")
	assert.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Reduced equation: -1 * X^2 + 4 = 0\n")
	assert.Contains(t, out, "Discriminant is strictly positive, the two solutions are:\n-2.0\n2.0\n")

	code, out, _ = runCLI(t, "-f", "-2X=4")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "The solution is:\n-2\n")

	code, out, _ = runCLI(t, "-5 * X = 10", "-v")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "[Reducer] Left side terms: -5 * X")
}

func TestRun_Verbose(t *testing.T) {
	code, out, errOut := runCLI(t, "-v", "X^2 - 4 = 0")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "[Reducer] Left side terms: 1 * X^2 - 4")
	assert.Contains(t, out, "[Solver] Discriminant:")
	assert.Contains(t, out, "[Verify] f(2.0) = 0.0 ok")
	assert.Contains(t, errOut, "level=DEBUG")
}

func TestRun_DegreeTooHigh(t *testing.T) {
	code, out, _ := runCLI(t, "X^3 = 0")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Reduced equation: 1 * X^3 = 0\nPolynomial degree: 3\n")
	assert.Contains(t, out, "Error: the polynomial degree is strictly greater than 2 (3), I can't solve")
	assert.NotContains(t, out, "solution")
}

func TestRun_ParseError(t *testing.T) {
	code, out, _ := runCLI(t, "2 * X^ = 1")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Error: left side: invalid term")
	assert.NotContains(t, out, "Reduced equation")
}

func TestRun_MissingEquals(t *testing.T) {
	code, out, _ := runCLI(t, "2 * X")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Error:")
}

func TestRun_UnknownFlag(t *testing.T) {
	code, _, errOut := runCLI(t, "-nope", "X = 1")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "flag provided but not defined")
}

func TestRun_Graph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curve.svg")
	code, out, _ := runCLI(t, "-g", "-out", path, "X^2 - 1 = 0")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Graph written to "+path)
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestRun_GraphSkippedForLinear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curve.png")
	code, _, _ := runCLI(t, "-graph", "-out", path, "X = 1")
	assert.Equal(t, 0, code)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRun_ConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "computor.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("variable: y\nfraction: true\n"), 0o600))

	code, out, _ := runCLI(t, "-config", cfg, "3 * y = 1")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Reduced equation: 3 * y - 1 = 0")
	assert.Contains(t, out, "1/3\n")

	code, out, _ = runCLI(t, "-config", cfg, "-fraction=false", "3 * y = 1")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "0.333333\n")
}

func TestRun_BadConfig(t *testing.T) {
	code, _, errOut := runCLI(t, "-config", filepath.Join(t.TempDir(), "missing.yaml"), "X = 1")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "config:")
}
