// Package computor parses, reduces and solves polynomial equations of degree
// at most two.
//
// Pipeline:
//   - ParseSide turns one side of an equation into a Poly (exponent -> coefficient)
//   - Reduce subtracts the right side from the left and renders the canonical form
//   - Solve derives the real or complex solutions of the reduced Poly
//
// SolveEquation runs the whole pipeline on a "left = right" string.
package computor

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// ============================================================
// Errors
// ============================================================

// ErrMissingEquals is returned by SolveEquation when the input has no '='.
var ErrMissingEquals = errors.New("computor: equation has no '=' sign")

// ErrInvalidVariable is returned for a variable that is not a single letter.
var ErrInvalidVariable = errors.New("variable must be a single letter")

// ErrOverflow is returned when the discriminant of a quadratic does not fit
// in a float64.
var ErrOverflow = errors.New("coefficients too large: discriminant overflows")

// ValidVariable reports whether r can name the unknown of an equation.
func ValidVariable(r rune) error {
	if !unicode.IsLetter(r) {
		return fmt.Errorf("%w, got %q", ErrInvalidVariable, r)
	}
	return nil
}

// ParseError reports every problem found while scanning one or both sides of
// an equation.
type ParseError struct {
	Messages []string
}

func (e *ParseError) Error() string { return strings.Join(e.Messages, "\n") }

// DegreeError is returned when the reduced polynomial is of degree > 2.
type DegreeError struct {
	Degree int
}

func (e *DegreeError) Error() string {
	return fmt.Sprintf("the polynomial degree is strictly greater than 2 (%d), I can't solve", e.Degree)
}

// DomainError is returned by Sqrt for negative or NaN input.
type DomainError struct {
	Value float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("cannot compute square root of %v", e.Value)
}

// ============================================================
// Poly: sparse exponent -> coefficient mapping
// ============================================================

const (
	// Epsilon is the magnitude at or below which a reduced coefficient is zero.
	Epsilon = 1e-9

	// DefaultVariable is the unknown's symbol unless configured otherwise.
	DefaultVariable = 'X'
)

// Poly maps exponents to coefficients. A missing exponent has coefficient 0.
type Poly map[int]float64

func (p Poly) Coeff(exp int) float64 { return p[exp] }
func (p Poly) String() string        { return FormatTerms(p, DefaultVariable) }

// Degree is the highest exponent present, or 0 for the empty Poly.
func (p Poly) Degree() int {
	deg := 0
	for exp := range p {
		if exp > deg {
			deg = exp
		}
	}
	return deg
}

func (p Poly) Clone() Poly {
	out := make(Poly, len(p))
	for exp, c := range p {
		out[exp] = c
	}
	return out
}

// Exponents returns the exponents present, highest first.
func (p Poly) Exponents() []int {
	exps := make([]int, 0, len(p))
	for exp := range p {
		exps = append(exps, exp)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(exps)))
	return exps
}

// Equal reports whether p and other agree on every exponent within tol.
func (p Poly) Equal(other Poly, tol float64) bool {
	for exp, c := range p {
		if math.Abs(c-other[exp]) > tol {
			return false
		}
	}
	for exp, c := range other {
		if math.Abs(c-p[exp]) > tol {
			return false
		}
	}
	return true
}

// ============================================================
// Term scanner
// ============================================================

// TermKind is the shape a scanned term had in the source text.
type TermKind int

const (
	ExplicitCoefficient TermKind = iota // 3 * X^2, 3X
	ImplicitVariable                    // X^2, -X
	Constant                            // 42, -3.5
)

func (k TermKind) String() string {
	switch k {
	case ExplicitCoefficient:
		return "explicit_coefficient"
	case ImplicitVariable:
		return "implicit_variable"
	case Constant:
		return "constant"
	}
	return "unknown"
}

// Term is one signed monomial as it appeared in the input.
type Term struct {
	Kind  TermKind
	Exp   int
	Coeff float64
	Text  string
}

// Parser scans equation sides written in a single variable.
type Parser struct {
	Variable rune
}

func NewParser(variable rune) *Parser { return &Parser{Variable: variable} }

func (p *Parser) variable() rune {
	if p == nil || p.Variable == 0 {
		return DefaultVariable
	}
	return p.Variable
}

// ParseSide parses one side of an equation written in X.
func ParseSide(side string) (Poly, error) { return NewParser(DefaultVariable).Parse(side) }

// ScanTerms returns the terms of one side written in X, before combination.
func ScanTerms(side string) ([]Term, error) { return NewParser(DefaultVariable).Scan(side) }

// Parse scans side and sums the coefficients of like terms.
func (p *Parser) Parse(side string) (Poly, error) {
	terms, err := p.Scan(side)
	if err != nil {
		return nil, err
	}
	out := Poly{}
	for _, t := range terms {
		out[t.Exp] += t.Coeff
	}
	return out, nil
}

// Scan splits side into terms. Every malformed term and the concatenation of
// all unconsumed text are reported together in one *ParseError.
func (p *Parser) Scan(side string) ([]Term, error) {
	if err := ValidVariable(p.variable()); err != nil {
		return nil, err
	}
	s := &scanner{src: []rune(normalize(side, p.variable())), v: p.variable(), first: true}
	var (
		terms    []Term
		messages []string
		leftover strings.Builder
	)
	for s.pos < len(s.src) {
		t, ok, bad := s.next()
		switch {
		case bad != "":
			messages = append(messages, fmt.Sprintf("invalid term: '%s'", bad))
		case ok:
			terms = append(terms, t)
		default:
			leftover.WriteRune(s.src[s.pos])
			s.pos++
		}
	}
	if leftover.Len() > 0 {
		messages = append(messages, fmt.Sprintf("invalid syntax near: '%s'", leftover.String()))
	}
	if len(messages) > 0 {
		return nil, &ParseError{Messages: messages}
	}
	return terms, nil
}

// normalize drops whitespace and writes the implicit product "2X" as "2*X".
func normalize(side string, v rune) string {
	var b strings.Builder
	var prev rune
	for _, r := range side {
		if unicode.IsSpace(r) {
			continue
		}
		if r == v && isDigit(prev) {
			b.WriteRune('*')
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

type scanner struct {
	src   []rune
	pos   int
	v     rune
	first bool
}

func (s *scanner) peek() rune {
	if s.pos < len(s.src) {
		return s.src[s.pos]
	}
	return 0
}

// next scans one term at the current position. When no term starts there it
// returns ok=false and leaves pos untouched. A term that starts well but is
// malformed is consumed and its text returned as bad.
func (s *scanner) next() (t Term, ok bool, bad string) {
	start := s.pos
	sign := 1.0
	switch s.peek() {
	case '+':
		s.pos++
	case '-':
		sign = -1
		s.pos++
	default:
		// Only the first term of a side may omit its sign.
		if !s.first {
			return Term{}, false, ""
		}
	}

	if num := s.number(); num != "" {
		value, err := strconv.ParseFloat(num, 64)
		afterNum := s.pos
		if s.peek() == '*' {
			s.pos++
		}
		if s.peek() != s.v {
			s.pos = afterNum
			if err != nil {
				return s.reject(start)
			}
			return s.accept(start, Term{Kind: Constant, Exp: 0, Coeff: sign * value})
		}
		s.pos++
		exp, expOK := s.exponent()
		if !expOK || err != nil {
			return s.reject(start)
		}
		return s.accept(start, Term{Kind: ExplicitCoefficient, Exp: exp, Coeff: sign * value})
	}

	if s.peek() == s.v {
		s.pos++
		exp, expOK := s.exponent()
		if !expOK {
			return s.reject(start)
		}
		return s.accept(start, Term{Kind: ImplicitVariable, Exp: exp, Coeff: sign})
	}

	s.pos = start
	return Term{}, false, ""
}

func (s *scanner) accept(start int, t Term) (Term, bool, string) {
	s.first = false
	t.Text = string(s.src[start:s.pos])
	return t, true, ""
}

func (s *scanner) reject(start int) (Term, bool, string) {
	s.first = false
	return Term{}, false, string(s.src[start:s.pos])
}

// number consumes 123, 123.45, 123. or .45 and returns its text.
func (s *scanner) number() string {
	start := s.pos
	intPart := s.digits()
	if s.peek() == '.' {
		s.pos++
		frac := s.digits()
		if intPart == "" && frac == "" {
			s.pos = start
			return ""
		}
	}
	return string(s.src[start:s.pos])
}

func (s *scanner) digits() string {
	start := s.pos
	for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
		s.pos++
	}
	return string(s.src[start:s.pos])
}

// exponent consumes an optional "^<integer>". A caret without digits is not
// a valid exponent.
func (s *scanner) exponent() (int, bool) {
	if s.peek() != '^' {
		return 1, true
	}
	s.pos++
	d := s.digits()
	if d == "" {
		return 0, false
	}
	n, err := strconv.Atoi(d)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ============================================================
// Reducer
// ============================================================

// Reduction steps reported to a Trace.
const (
	StepLeft       = "left"
	StepRight      = "right"
	StepBefore     = "before"
	StepSubtracted = "subtracted"
	StepPruned     = "pruned"
)

// Trace receives intermediate renders of a reduction.
type Trace func(step, text string)

// Reducer merges two sides into one canonical Poly.
type Reducer struct {
	Variable rune
	Trace    Trace
}

// Reduce computes left - right in X and its canonical rendering.
func Reduce(left, right Poly) (Poly, string) { return (&Reducer{}).Reduce(left, right) }

// Reduce never mutates its inputs. Coefficients with magnitude <= Epsilon are
// dropped from the result.
func (r *Reducer) Reduce(left, right Poly) (Poly, string) {
	v := DefaultVariable
	if r.Variable != 0 {
		v = r.Variable
	}
	emit := func(step, text string) {
		if r.Trace != nil {
			r.Trace(step, text)
		}
	}

	ls, rs := FormatTerms(left, v), FormatTerms(right, v)
	emit(StepLeft, ls)
	emit(StepRight, rs)
	emit(StepBefore, fmt.Sprintf("(%s) - (%s) = 0", ls, rs))

	acc := left.Clone()
	for exp, c := range right {
		acc[exp] -= c
	}
	emit(StepSubtracted, FormatTerms(acc, v))

	reduced := make(Poly, len(acc))
	for exp, c := range acc {
		if math.Abs(c) > Epsilon {
			reduced[exp] = c
		}
	}
	emit(StepPruned, FormatTerms(reduced, v))

	return reduced, FormatEquation(reduced, v)
}

// Canonical renders p as "<terms> = 0" in X.
func Canonical(p Poly) string { return FormatEquation(p, DefaultVariable) }

// FormatEquation renders p as "<terms> = 0", or "0 = 0" when p is empty.
func FormatEquation(p Poly, v rune) string {
	if len(p) == 0 {
		return "0 = 0"
	}
	return FormatTerms(p, v) + " = 0"
}

// FormatTerms renders p highest exponent first. The leading term carries its
// sign inline; later terms are joined with "+ " or "- ".
func FormatTerms(p Poly, v rune) string {
	if len(p) == 0 {
		return "0"
	}
	parts := make([]string, 0, len(p))
	for i, exp := range p.Exponents() {
		c := p[exp]
		body := termBody(math.Abs(c), exp, v)
		switch {
		case i == 0 && c < 0:
			parts = append(parts, "-"+body)
		case i == 0:
			parts = append(parts, body)
		case c < 0:
			parts = append(parts, "- "+body)
		default:
			parts = append(parts, "+ "+body)
		}
	}
	return strings.Join(parts, " ")
}

func termBody(c float64, exp int, v rune) string {
	coeff := formatCoeff(c)
	switch exp {
	case 0:
		return coeff
	case 1:
		return fmt.Sprintf("%s * %c", coeff, v)
	}
	return fmt.Sprintf("%s * %c^%d", coeff, v, exp)
}

// formatCoeff drops the fractional part of integral values and rounds the
// rest to 6 decimals.
func formatCoeff(c float64) string {
	if c == 0 {
		return "0"
	}
	if c == math.Trunc(c) {
		return strconv.FormatFloat(c, 'f', 0, 64)
	}
	return strconv.FormatFloat(round6(c), 'f', -1, 64)
}

func round6(x float64) float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) || math.Abs(x) >= 1e15 {
		return x
	}
	return math.Round(x*1e6) / 1e6
}

// ============================================================
// Solver
// ============================================================

// Kind classifies a solution set.
type Kind int

const (
	NoSolution Kind = iota
	AllReals
	OneRoot
	TwoRealRoots
	TwoComplexRoots
)

func (k Kind) String() string {
	switch k {
	case NoSolution:
		return "no_solution"
	case AllReals:
		return "all_reals"
	case OneRoot:
		return "one_root"
	case TwoRealRoots:
		return "two_real_roots"
	case TwoComplexRoots:
		return "two_complex_roots"
	}
	return "unknown"
}

// Root is a solution; Im is zero for real roots.
type Root struct {
	Re, Im float64
}

func (r Root) IsReal() bool { return r.Im == 0 }

// Format renders r as "re" or "re + im i" / "re - im i".
func (r Root) Format(nf NumberFormat) string {
	if r.IsReal() {
		return nf.Format(r.Re)
	}
	op := "+"
	if r.Im < 0 {
		op = "-"
	}
	return fmt.Sprintf("%s %s %si", nf.Format(r.Re), op, nf.Format(math.Abs(r.Im)))
}

// Solution is the structured outcome of Solve. Degree is the degree the
// solver actually used, A, B and C are the coefficients of X^2, X and 1.
type Solution struct {
	Kind         Kind
	Degree       int
	A, B, C      float64
	Discriminant float64
	Roots        []Root
}

// Format renders every root with nf.
func (s Solution) Format(nf NumberFormat) []string {
	out := make([]string, len(s.Roots))
	for i, r := range s.Roots {
		out[i] = r.Format(nf)
	}
	return out
}

// Solve computes the solutions of p = 0 for degree 0, 1 or 2.
func Solve(p Poly, degree int) (Solution, error) {
	a, b, c := p.Coeff(2), p.Coeff(1), p.Coeff(0)
	switch {
	case degree >= 2 && a != 0:
		return solveQuadratic(a, b, c)
	case degree >= 1 && b != 0:
		return Solution{Kind: OneRoot, Degree: 1, B: b, C: c, Roots: []Root{{Re: -c / b}}}, nil
	}
	if c != 0 {
		return Solution{Kind: NoSolution, C: c}, nil
	}
	return Solution{Kind: AllReals}, nil
}

func solveQuadratic(a, b, c float64) (Solution, error) {
	sol := Solution{Degree: 2, A: a, B: b, C: c, Discriminant: b*b - 4*a*c}
	delta := sol.Discriminant
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return Solution{}, fmt.Errorf("%w: a=%g b=%g c=%g", ErrOverflow, a, b, c)
	}
	switch {
	case delta > 0:
		sq, err := Sqrt(delta)
		if err != nil {
			return Solution{}, err
		}
		sol.Kind = TwoRealRoots
		sol.Roots = []Root{{Re: (-b + sq) / (2 * a)}, {Re: (-b - sq) / (2 * a)}}
	case delta == 0:
		sol.Kind = OneRoot
		sol.Roots = []Root{{Re: -b / (2 * a)}}
	default:
		sq, err := Sqrt(math.Abs(delta))
		if err != nil {
			return Solution{}, err
		}
		re, im := -b/(2*a), sq/math.Abs(2*a)
		sol.Kind = TwoComplexRoots
		sol.Roots = []Root{{Re: re, Im: im}, {Re: re, Im: -im}}
	}
	return sol, nil
}

// ============================================================
// Square root
// ============================================================

const (
	sqrtTolerance = 1e-10
	sqrtMaxIter   = 1000
)

// Sqrt computes the square root of x with the Babylonian method, starting
// from x/2 and stopping once two successive estimates differ by less than
// 1e-10.
func Sqrt(x float64) (float64, error) {
	switch {
	case math.IsNaN(x) || x < 0:
		return 0, &DomainError{Value: x}
	case x == 0:
		return 0, nil
	case math.IsInf(x, 1):
		return x, nil
	}
	approx := x / 2
	if approx == 0 {
		approx = x
	}
	for i := 0; i < sqrtMaxIter; i++ {
		next := (approx + x/approx) / 2
		if math.Abs(next-approx) < sqrtTolerance {
			return next, nil
		}
		approx = next
	}
	// Large inputs can alternate between two neighbouring floats forever.
	return approx, nil
}

// ============================================================
// Number formatting
// ============================================================

// MaxDenominator bounds the denominators produced by FormatFraction.
const MaxDenominator = 1_000_000

// NumberFormat selects how solver values are displayed. With neither flag
// set values are shown as decimals.
type NumberFormat struct {
	Fraction bool
	Decimal  bool
}

// Format renders x as a fraction, a decimal, or "fraction (decimal)".
func (nf NumberFormat) Format(x float64) string {
	switch {
	case nf.Fraction && nf.Decimal:
		return fmt.Sprintf("%s (%s)", FormatFraction(x), FormatDecimal(x))
	case nf.Fraction:
		return FormatFraction(x)
	}
	return FormatDecimal(x)
}

// FormatDecimal rounds x to 6 decimals and always shows a fractional part.
func FormatDecimal(x float64) string {
	r := round6(x)
	if r == 0 {
		r = 0 // -0 prints as 0.0
	}
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if math.IsInf(r, 0) || math.IsNaN(r) || strings.ContainsRune(s, '.') {
		return s
	}
	return s + ".0"
}

// FormatFraction renders the closest fraction to x whose denominator does
// not exceed MaxDenominator, in lowest terms ("1/3", "-2").
func FormatFraction(x float64) string {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return FormatDecimal(x)
	}
	return LimitDenominator(new(big.Rat).SetFloat64(x), MaxDenominator).RatString()
}

// LimitDenominator returns the closest rational to r with denominator at most
// max, walking the continued fraction expansion of r. A max below 1 is
// treated as 1.
func LimitDenominator(r *big.Rat, max int64) *big.Rat {
	if max < 1 {
		max = 1
	}
	maxDen := big.NewInt(max)
	if r.Denom().Cmp(maxDen) <= 0 {
		return new(big.Rat).Set(r)
	}
	p0, q0, p1, q1 := big.NewInt(0), big.NewInt(1), big.NewInt(1), big.NewInt(0)
	n, d := new(big.Int).Set(r.Num()), new(big.Int).Set(r.Denom())
	for {
		a := new(big.Int).Div(n, d)
		q2 := new(big.Int).Add(q0, new(big.Int).Mul(a, q1))
		if q2.Cmp(maxDen) > 0 {
			break
		}
		p0, q0, p1, q1 = p1, q1, new(big.Int).Add(p0, new(big.Int).Mul(a, p1)), q2
		n, d = d, new(big.Int).Sub(n, new(big.Int).Mul(a, d))
	}
	k := new(big.Int).Div(new(big.Int).Sub(maxDen, q0), q1)
	bound1 := new(big.Rat).SetFrac(
		new(big.Int).Add(p0, new(big.Int).Mul(k, p1)),
		new(big.Int).Add(q0, new(big.Int).Mul(k, q1)),
	)
	bound2 := new(big.Rat).SetFrac(p1, q1)
	dist1 := new(big.Rat).Abs(new(big.Rat).Sub(bound1, r))
	dist2 := new(big.Rat).Abs(new(big.Rat).Sub(bound2, r))
	if dist2.Cmp(dist1) <= 0 {
		return bound2
	}
	return bound1
}

// ============================================================
// Pipeline
// ============================================================

// Options configures SolveEquation.
type Options struct {
	Variable rune
	Trace    Trace
}

// Result holds every stage of a solved equation.
type Result struct {
	Left, Right Poly
	Reduced     Poly
	Canonical   string
	Degree      int
	Solution    Solution
}

// SolveEquation parses "left = right", reduces it and solves it. When the
// reduced degree exceeds 2 the returned Result carries the reduced form and
// degree alongside a *DegreeError, and nothing is solved.
func SolveEquation(equation string, opts Options) (*Result, error) {
	lhs, rhs, ok := strings.Cut(equation, "=")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingEquals, equation)
	}

	parser := NewParser(opts.Variable)
	if err := ValidVariable(parser.variable()); err != nil {
		return nil, err
	}
	left, lerr := parser.Parse(lhs)
	right, rerr := parser.Parse(rhs)
	if lerr != nil || rerr != nil {
		return nil, mergeParseErrors(lerr, rerr)
	}

	reducer := &Reducer{Variable: parser.variable(), Trace: opts.Trace}
	reduced, canonical := reducer.Reduce(left, right)
	res := &Result{Left: left, Right: right, Reduced: reduced, Canonical: canonical, Degree: reduced.Degree()}
	if res.Degree > 2 {
		return res, &DegreeError{Degree: res.Degree}
	}

	sol, err := Solve(reduced, res.Degree)
	if err != nil {
		return res, err
	}
	res.Solution = sol
	return res, nil
}

func mergeParseErrors(left, right error) error {
	merged := &ParseError{}
	for _, side := range []struct {
		name string
		err  error
	}{{"left side", left}, {"right side", right}} {
		if side.err == nil {
			continue
		}
		var pe *ParseError
		if !errors.As(side.err, &pe) {
			return side.err
		}
		for _, m := range pe.Messages {
			merged.Messages = append(merged.Messages, side.name+": "+m)
		}
	}
	return merged
}
