package computor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrUnknownTool is reported for tool names HandleToolCall does not serve.
var ErrUnknownTool = errors.New("unknown tool")

// ============================================================
// JSON forms
// ============================================================

func (s Solution) toJSON(nf NumberFormat) map[string]interface{} {
	roots := make([]map[string]interface{}, len(s.Roots))
	for i, r := range s.Roots {
		roots[i] = map[string]interface{}{"re": zeroSign(r.Re), "im": zeroSign(r.Im), "string": r.Format(nf)}
	}
	out := map[string]interface{}{
		"kind":   s.Kind.String(),
		"degree": s.Degree,
		"roots":  roots,
	}
	if s.Degree == 2 {
		out["discriminant"] = s.Discriminant
	}
	return out
}

func zeroSign(x float64) float64 {
	if x == 0 {
		return 0
	}
	return x
}

// Describe is a one-line summary of sol, as printed by the CLI.
func Describe(sol Solution, nf NumberFormat) string {
	switch sol.Kind {
	case NoSolution:
		return "no solution"
	case AllReals:
		return "all real numbers are solutions"
	}
	return strings.Join(sol.Format(nf), ", ")
}

// ============================================================
// MCP Tool Interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func HandleToolCall(req ToolRequest) ToolResponse {
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	getNumber := func(key string) (float64, error) {
		v, ok := req.Params[key]
		if !ok {
			return 0, fmt.Errorf("missing param: %s", key)
		}
		f, ok := v.(float64)
		if !ok {
			return 0, fmt.Errorf("param %s must be a number", key)
		}
		return f, nil
	}
	getBool := func(key string) bool {
		b, _ := req.Params[key].(bool)
		return b
	}
	getVariable := func() (rune, error) {
		v, ok := req.Params["var"]
		if !ok {
			return DefaultVariable, nil
		}
		s, ok := v.(string)
		if !ok || utf8.RuneCountInString(s) != 1 {
			return 0, fmt.Errorf("param var: %w", ErrInvalidVariable)
		}
		r, _ := utf8.DecodeRuneInString(s)
		if err := ValidVariable(r); err != nil {
			return 0, fmt.Errorf("param var: %w", err)
		}
		return r, nil
	}
	numberFormat := func() NumberFormat {
		f := getBool("fraction")
		return NumberFormat{Fraction: f, Decimal: getBool("decimal") || !f}
	}
	fail := func(err error) ToolResponse { return ToolResponse{Error: err.Error()} }

	switch req.Tool {
	case "parse":
		side, err := getString("side")
		if err != nil {
			return fail(err)
		}
		v, err := getVariable()
		if err != nil {
			return fail(err)
		}
		p, err := NewParser(v).Parse(side)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: p, String: FormatTerms(p, v)}

	case "reduce":
		lhs, err := getString("left")
		if err != nil {
			return fail(err)
		}
		rhs, err := getString("right")
		if err != nil {
			return fail(err)
		}
		v, err := getVariable()
		if err != nil {
			return fail(err)
		}
		res, err := SolveEquation(lhs+"="+rhs, Options{Variable: v})
		var de *DegreeError
		if err != nil && !errors.As(err, &de) {
			return fail(err)
		}
		return ToolResponse{
			Result: map[string]interface{}{"terms": res.Reduced, "degree": res.Degree},
			String: res.Canonical,
		}

	case "solve":
		eq, err := getString("equation")
		if err != nil {
			return fail(err)
		}
		v, err := getVariable()
		if err != nil {
			return fail(err)
		}
		res, err := SolveEquation(eq, Options{Variable: v})
		if err != nil {
			return fail(err)
		}
		nf := numberFormat()
		out := res.Solution.toJSON(nf)
		out["reduced"] = res.Canonical
		if checks, err := Verify(res.Reduced, res.Solution, v); err == nil && len(checks) > 0 {
			out["checks"] = checks
		}
		return ToolResponse{Result: out, String: Describe(res.Solution, nf)}

	case "sqrt":
		x, err := getNumber("x")
		if err != nil {
			return fail(err)
		}
		r, err := Sqrt(x)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: r, String: FormatDecimal(r)}

	case "format":
		x, err := getNumber("x")
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: x, String: numberFormat().Format(x)}

	case "mcp_spec":
		return ToolResponse{Result: MCPToolSpec(), String: "MCP tool specification"}
	}

	return fail(fmt.Errorf("%w: %s", ErrUnknownTool, req.Tool))
}

func MCPToolSpec() string {
	tools := []map[string]interface{}{
		ts("parse", "Parse one side of an equation into exponent -> coefficient terms", []string{"side"}, map[string]string{"side": "string", "var": "string"}),
		ts("reduce", "Reduce left = right to its canonical form '... = 0'", []string{"left", "right"}, map[string]string{"left": "string", "right": "string", "var": "string"}),
		ts("solve", "Solve a polynomial equation of degree <= 2. Optional: fraction, decimal (bool)", []string{"equation"}, map[string]string{"equation": "string", "var": "string", "fraction": "boolean", "decimal": "boolean"}),
		ts("sqrt", "Square root by Newton-Raphson iteration", []string{"x"}, map[string]string{"x": "number"}),
		ts("format", "Format a number as decimal and/or irreducible fraction", []string{"x"}, map[string]string{"x": "number", "fraction": "boolean", "decimal": "boolean"}),
		ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
