// Package console prints computor results for a terminal, with ANSI colors
// when the output is a TTY.
package console

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	computor "github.com/njchilds90/computor"
)

const (
	reset   = "\033[0m"
	bold    = "\033[1m"
	red     = "\033[91m"
	green   = "\033[92m"
	blue    = "\033[94m"
	magenta = "\033[95m"
)

var traceLabels = map[string]string{
	computor.StepLeft:       "[Reducer] Left side terms:",
	computor.StepRight:      "[Reducer] Right side terms:",
	computor.StepBefore:     "[Reducer] Equation before reduction:",
	computor.StepSubtracted: "[Reducer] After subtraction:",
	computor.StepPruned:     "[Reducer] After removing zeros:",
}

type Options struct {
	Color  bool
	Number computor.NumberFormat
}

// Printer writes the user-facing report of one equation.
type Printer struct {
	w     io.Writer
	color bool
	nf    computor.NumberFormat
}

func New(w io.Writer, opts Options) *Printer {
	return &Printer{w: w, color: opts.Color, nf: opts.Number}
}

// ForFile prints to f. Colors stay on only when f is a terminal; on Windows
// the escape sequences are translated by go-colorable.
func ForFile(f *os.File, opts Options) *Printer {
	tty := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	opts.Color = opts.Color && tty
	if !opts.Color {
		return New(f, opts)
	}
	return New(colorable.NewColorable(f), opts)
}

func (p *Printer) paint(code, s string) string {
	if !p.color {
		return s
	}
	return code + s + reset
}

func (p *Printer) println(a ...interface{}) { fmt.Fprintln(p.w, a...) }

func (p *Printer) Reduced(canonical string) {
	p.println(p.paint(green, "Reduced equation:"), p.paint(bold, canonical))
}

func (p *Printer) Degree(n int) {
	p.println(p.paint(green, "Polynomial degree:"), p.paint(bold, fmt.Sprint(n)))
}

// Trace prints one intermediate reduction step.
func (p *Printer) Trace(step, text string) {
	label, ok := traceLabels[step]
	if !ok {
		label = "[Reducer] " + step + ":"
	}
	p.println(p.paint(magenta, label), text)
}

// Discriminant prints Δ = b² - 4ac with the actual coefficients.
func (p *Printer) Discriminant(sol computor.Solution) {
	if sol.Degree != 2 {
		return
	}
	f := computor.FormatDecimal
	p.println(p.paint(magenta, fmt.Sprintf("[Solver] Discriminant: Δ = b² - 4ac = %s² - 4*%s*%s = %s",
		f(sol.B), f(sol.A), f(sol.C), f(sol.Discriminant))))
}

func (p *Printer) Solution(sol computor.Solution) {
	var header string
	switch sol.Kind {
	case computor.NoSolution:
		p.println(p.paint(green, "No solution."))
		return
	case computor.AllReals:
		p.println(p.paint(green, "All real numbers are solutions."))
		return
	case computor.OneRoot:
		header = "The solution is:"
		if sol.Degree == 2 {
			header = "One real solution:"
		}
	case computor.TwoRealRoots:
		header = "Discriminant is strictly positive, the two solutions are:"
	case computor.TwoComplexRoots:
		header = "Discriminant is strictly negative, Two complex solutions:"
	}
	p.println(p.paint(green, header))
	for _, s := range sol.Format(p.nf) {
		p.println(p.paint(bold, s))
	}
}

func (p *Printer) Verification(checks []computor.Check) {
	for _, c := range checks {
		status := "ok"
		if !c.OK {
			status = "MISMATCH"
		}
		p.println(p.paint(magenta, "[Verify]"), fmt.Sprintf("f(%s) = %s %s",
			computor.FormatDecimal(c.Root), computor.FormatDecimal(c.Residual), status))
	}
}

func (p *Printer) GraphWritten(path string) {
	p.println(p.paint(blue, "Graph written to"), path)
}

// Error reports err. Input errors are printed as such; anything else is
// reported as unexpected.
func (p *Printer) Error(err error) {
	if isInputError(err) {
		p.println(p.paint(red, "Error: "+err.Error()))
		return
	}
	p.println(p.paint(red, "An unexpected error occurred: "+err.Error()))
}

func isInputError(err error) bool {
	var (
		pe *computor.ParseError
		de *computor.DegreeError
		me *computor.DomainError
	)
	switch {
	case errors.As(err, &pe), errors.As(err, &de), errors.As(err, &me):
		return true
	}
	for _, target := range []error{computor.ErrMissingEquals, computor.ErrInvalidVariable, computor.ErrOverflow} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
