// cmd/computor/main.go: polynomial equation solver, degree <= 2
//
// Usage:
//   go run ./cmd/computor [flags] "5 * X^0 + 4 * X^1 = 1 * X^0"
//
// Flags may appear before or after the equation. An equation may start with
// a minus sign; "--" still ends flag parsing.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"gonum.org/v1/plot/vg"

	computor "github.com/njchilds90/computor"
	"github.com/njchilds90/computor/graph"
	"github.com/njchilds90/computor/internal/config"
	"github.com/njchilds90/computor/internal/console"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type cliFlags struct {
	fraction, decimal, verbose, graph, noColor bool
	config, out                                string
}

func newFlagSet(stderr io.Writer, f *cliFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("computor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&f.fraction, "fraction", false, "Display results as irreducible fractions")
	fs.BoolVar(&f.fraction, "f", false, "Shorthand for -fraction")
	fs.BoolVar(&f.decimal, "decimal", false, "Display results as decimals (default)")
	fs.BoolVar(&f.decimal, "d", false, "Shorthand for -decimal")
	fs.BoolVar(&f.verbose, "verbose", false, "Show reduction steps, the discriminant and root checks")
	fs.BoolVar(&f.verbose, "v", false, "Shorthand for -verbose")
	fs.BoolVar(&f.graph, "graph", false, "Write the graph of a degree 2 polynomial")
	fs.BoolVar(&f.graph, "g", false, "Shorthand for -graph")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable ANSI colors")
	fs.StringVar(&f.config, "config", "", "YAML config `file`")
	fs.StringVar(&f.out, "out", "", "Graph output `path` (.png, .svg, .pdf or .html)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "computor: polynomial equation solver, degree <= 2")
		fmt.Fprintln(stderr, "\nUsage: computor [flags] \"a * X^b + ... = c * X^d + ...\"")
		fs.PrintDefaults()
		fmt.Fprintln(stderr, "\nExample: computor -v \"5 * X^0 + 4 * X^1 = 1 * X^0\"")
	}
	return fs
}

// parseArgs accepts flags on both sides of the equation. Remaining
// positional arguments are joined with spaces. An argument that starts with
// a minus sign but is not a flag, like "-X^2 + 4 = 0", is positional.
func parseArgs(fs *flag.FlagSet, args []string) (string, map[string]bool, error) {
	var words []string
	for len(args) > 0 {
		if isEquationArg(fs, args[0]) {
			words = append(words, args[0])
			args = args[1:]
			continue
		}
		n := flagSpan(fs, args)
		if err := fs.Parse(args[:n]); err != nil {
			return "", nil, err
		}
		rest := fs.Args()
		// Parse stops at "--" and consumes it; everything after is positional.
		if n > len(rest) && args[n-len(rest)-1] == "--" {
			words = append(words, rest...)
			break
		}
		next := make([]string, 0, len(rest)+len(args)-n)
		if len(rest) > 0 {
			words = append(words, rest[0])
			next = append(next, rest[1:]...)
		}
		args = append(next, args[n:]...)
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return strings.Join(words, " "), set, nil
}

// flagSpan returns how many leading arguments flag.Parse may see: it stops
// before the first equation that starts with a minus sign.
func flagSpan(fs *flag.FlagSet, args []string) int {
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--" || a == "-" || !strings.HasPrefix(a, "-"):
			return len(args)
		case isEquationArg(fs, a):
			return i
		}
		name := strings.TrimLeft(a, "-")
		if strings.Contains(name, "=") {
			continue
		}
		if f := fs.Lookup(name); f != nil && !isBoolFlag(f) {
			i++ // value
		}
	}
	return len(args)
}

// isEquationArg reports whether a looks like a flag but is equation text:
// it contains whitespace, or names no flag and holds more than letters.
func isEquationArg(fs *flag.FlagSet, a string) bool {
	if len(a) < 2 || a[0] != '-' || a == "--" {
		return false
	}
	if strings.IndexFunc(a, unicode.IsSpace) >= 0 {
		return true
	}
	name := strings.TrimLeft(a, "-")
	if k := strings.IndexByte(name, '='); k >= 0 && fs.Lookup(name[:k]) != nil {
		return false
	}
	if fs.Lookup(name) != nil {
		return false
	}
	return strings.IndexFunc(name, func(r rune) bool { return !unicode.IsLetter(r) && r != '-' }) >= 0
}

func isBoolFlag(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

func loadConfig(f cliFlags, set map[string]bool) (config.Config, error) {
	cfg := config.Default()
	if f.config != "" {
		var err error
		if cfg, err = config.Load(f.config); err != nil {
			return cfg, err
		}
	}
	if set["fraction"] || set["f"] {
		cfg.Fraction = f.fraction
	}
	if set["decimal"] || set["d"] {
		cfg.Decimal = f.decimal
	}
	if set["verbose"] || set["v"] {
		cfg.Verbose = f.verbose
	}
	if set["graph"] || set["g"] {
		cfg.Graph.Enabled = f.graph
	}
	if set["no-color"] {
		cfg.Color = !f.noColor
	}
	if f.out != "" {
		cfg.Graph.Out = f.out
	}
	return cfg, nil
}

// newPrinter only colors terminals.
func newPrinter(w io.Writer, opts console.Options) *console.Printer {
	if f, ok := w.(*os.File); ok {
		return console.ForFile(f, opts)
	}
	opts.Color = false
	return console.New(w, opts)
}

func run(args []string, stdout, stderr io.Writer) (code int) {
	var f cliFlags
	fs := newFlagSet(stderr, &f)
	if len(args) == 0 {
		fs.Usage()
		return 1
	}
	equation, set, err := parseArgs(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if equation == "" {
		fs.Usage()
		return 1
	}

	cfg, err := loadConfig(f, set)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	out := newPrinter(stdout, console.Options{Color: cfg.Color, Number: cfg.NumberFormat()})

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic", "recovered", r)
			out.Error(fmt.Errorf("%v", r))
			code = 1
		}
	}()

	opts := computor.Options{Variable: cfg.VariableRune()}
	if cfg.Verbose {
		opts.Trace = func(step, text string) {
			out.Trace(step, text)
			logger.Debug("reduce", "step", step, "text", text)
		}
	}

	res, err := computor.SolveEquation(equation, opts)
	if res != nil {
		out.Reduced(res.Canonical)
		out.Degree(res.Degree)
	}
	if err != nil {
		logger.Debug("solve failed", "equation", equation, "error", err)
		out.Error(err)
		return 1
	}

	sol := res.Solution
	if cfg.Verbose {
		out.Discriminant(sol)
	}
	out.Solution(sol)

	if cfg.Verbose {
		checks, err := computor.Verify(res.Reduced, sol, opts.Variable)
		if err != nil {
			logger.Warn("verification failed", "error", err)
		} else {
			out.Verification(checks)
		}
	}

	if cfg.Graph.Enabled && sol.Degree == 2 {
		err := graph.Save(graph.FromSolution(sol), cfg.Domain(), graph.Options{
			Path:   cfg.Graph.Out,
			Width:  vg.Length(cfg.Graph.Width) * vg.Inch,
			Height: vg.Length(cfg.Graph.Height) * vg.Inch,
		})
		if err != nil {
			out.Error(err)
			return 1
		}
		out.GraphWritten(cfg.Graph.Out)
	} else if cfg.Graph.Enabled {
		logger.Debug("graph skipped", "degree", sol.Degree)
	}
	return 0
}
