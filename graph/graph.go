// Package graph draws the curve f(x) = ax² + bx + c of a quadratic equation.
//
// Images (PNG, SVG, PDF, ...) are rendered with gonum/plot; an interactive
// HTML page is rendered with go-echarts.
package graph

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	computor "github.com/njchilds90/computor"
)

const title = "Polynomial Graph"

var (
	curveColor = color.RGBA{B: 255, A: 255}
	axisColor  = color.Gray{Y: 128}
)

// Curve holds the coefficients of f(x) = ax² + bx + c.
type Curve struct {
	A, B, C float64
}

// FromSolution takes the coefficients of a degree-2 solution.
func FromSolution(sol computor.Solution) Curve {
	return Curve{A: sol.A, B: sol.B, C: sol.C}
}

func (c Curve) Eval(x float64) float64 { return c.A*x*x + c.B*x + c.C }

// Label renders the curve like "f(x) = 1.0x² + -2.0x + 1.0".
func (c Curve) Label() string {
	return fmt.Sprintf("f(x) = %sx² + %sx + %s", num(c.A), num(c.B), num(c.C))
}

func num(x float64) string { return computor.FormatDecimal(x) }

// Domain is the sampled x range.
type Domain struct {
	Min, Max, Step float64
}

// DefaultDomain samples -5..5 every 0.01.
func DefaultDomain() Domain { return Domain{Min: -5, Max: 5, Step: 0.01} }

func (d Domain) Validate() error {
	switch {
	case math.IsNaN(d.Min) || math.IsNaN(d.Max) || math.IsNaN(d.Step):
		return errors.New("graph: domain contains NaN")
	case d.Min >= d.Max:
		return fmt.Errorf("graph: domain min %v must be below max %v", d.Min, d.Max)
	case d.Step <= 0:
		return fmt.Errorf("graph: step %v must be positive", d.Step)
	}
	return nil
}

// Sample evaluates c at Min, Min+Step, ..., up to and including Max. Points
// are computed from their index so rounding does not accumulate.
func Sample(c Curve, d Domain) (plotter.XYs, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	n := int(math.Round((d.Max-d.Min)/d.Step)) + 1
	pts := make(plotter.XYs, n)
	for i := range pts {
		x := d.Min + float64(i)*d.Step
		if i == n-1 {
			x = math.Min(x, d.Max)
		}
		pts[i].X, pts[i].Y = x, c.Eval(x)
	}
	return pts, nil
}

// New builds the plot: grid, gray axes through the origin and the curve.
func New(c Curve, d Domain) (*plot.Plot, error) {
	pts, err := Sample(c, d)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "f(x)"
	p.Add(plotter.NewGrid())

	yMin, yMax := 0.0, 0.0
	for _, pt := range pts {
		yMin, yMax = math.Min(yMin, pt.Y), math.Max(yMax, pt.Y)
	}
	xAxis, err := plotter.NewLine(plotter.XYs{{X: d.Min, Y: 0}, {X: d.Max, Y: 0}})
	if err != nil {
		return nil, err
	}
	yAxis, err := plotter.NewLine(plotter.XYs{{X: 0, Y: yMin}, {X: 0, Y: yMax}})
	if err != nil {
		return nil, err
	}
	for _, axis := range []*plotter.Line{xAxis, yAxis} {
		axis.Color = axisColor
		axis.Width = vg.Points(1)
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.Color = curveColor
	line.Width = vg.Points(1.5)

	p.Add(xAxis, yAxis, line)
	p.Legend.Add(c.Label(), line)
	p.Legend.Top = true
	return p, nil
}

// Options controls where and how large a graph is written.
type Options struct {
	Path          string
	Width, Height vg.Length
}

// Save writes the graph to out.Path. The file extension picks the format:
// ".html" renders an echarts page, anything else goes through gonum/plot.
func Save(c Curve, d Domain, out Options) error {
	if out.Path == "" {
		return errors.New("graph: output path is empty")
	}
	if strings.EqualFold(filepath.Ext(out.Path), ".html") {
		return saveHTML(c, d, out.Path)
	}
	p, err := New(c, d)
	if err != nil {
		return err
	}
	w, h := out.Width, out.Height
	if w <= 0 {
		w = 8 * vg.Inch
	}
	if h <= 0 {
		h = 5 * vg.Inch
	}
	if err := p.Save(w, h, out.Path); err != nil {
		return fmt.Errorf("graph: save %s: %w", out.Path, err)
	}
	return nil
}

// RenderHTML writes an interactive echarts line chart of the curve.
func RenderHTML(w io.Writer, c Curve, d Domain) error {
	pts, err := Sample(c, d)
	if err != nil {
		return err
	}
	xs := make([]string, len(pts))
	ys := make([]opts.LineData, len(pts))
	for i, pt := range pts {
		xs[i] = computor.FormatDecimal(pt.X)
		ys[i] = opts.LineData{Value: pt.Y}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Theme:     types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: c.Label(),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:        "x",
			SplitNumber: 10,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:  "f(x)",
			Scale: opts.Bool(true),
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
	)
	line.SetXAxis(xs).AddSeries(c.Label(), ys)
	return line.Render(w)
}

func saveHTML(c Curve, d Domain, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return RenderHTML(f, c, d)
}
