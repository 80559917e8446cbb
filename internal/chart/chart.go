// Package chart draws plot specs to image files with gonum/plot.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/varsum/internal/dataset"
	"github.com/KaramelBytes/varsum/internal/dispatch"
)

// ErrUnsupported is returned for chart kinds with no static rendering.
var ErrUnsupported = errors.New("chart kind cannot be drawn")

// Options sets the output size in inches.
type Options struct {
	WidthIn  float64
	HeightIn float64
	// Grid colors the grid lines; empty disables the grid.
	Grid string
}

func (o Options) size() (vg.Length, vg.Length) {
	w, h := o.WidthIn, o.HeightIn
	if w <= 0 {
		w = 8
	}
	if h <= 0 {
		h = 5
	}
	return vg.Length(w) * vg.Inch, vg.Length(h) * vg.Inch
}

// Build lays out spec as a gonum plot.
func Build(spec *dispatch.PlotSpec, opt Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = spec.Title
	if c, err := parseHex(spec.Background); err == nil {
		p.BackgroundColor = c
	}
	if opt.Grid != "" {
		if c, err := parseHex(opt.Grid); err == nil {
			g := plotter.NewGrid()
			g.Vertical.Color, g.Horizontal.Color = c, c
			p.Add(g)
		}
	}
	b := &builder{p: p, spec: spec}
	var err error
	switch spec.Kind {
	case dispatch.ChartHistogram:
		err = b.histogram()
	case dispatch.ChartBox:
		err = b.box()
	case dispatch.ChartBar:
		err = b.bar()
	case dispatch.ChartScatter:
		err = b.scatter()
	case dispatch.ChartLine:
		err = b.line()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, spec.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%s chart: %w", spec.Kind, err)
	}
	return p, nil
}

// Save renders spec to path; the extension picks the image format.
func Save(spec *dispatch.PlotSpec, path string, opt Options) error {
	p, err := Build(spec, opt)
	if err != nil {
		return err
	}
	w, h := opt.size()
	return p.Save(w, h, path)
}

// WritePNG renders spec as PNG to out.
func WritePNG(out io.Writer, spec *dispatch.PlotSpec, opt Options) error {
	p, err := Build(spec, opt)
	if err != nil {
		return err
	}
	w, h := opt.size()
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(out)
	return err
}

type builder struct {
	p    *plot.Plot
	spec *dispatch.PlotSpec
}

func (b *builder) column(name string) (*dataset.Column, error) {
	return b.spec.Data.Column(name)
}

func (b *builder) label(name string) string {
	if l, ok := b.spec.Labels[name]; ok {
		return l
	}
	return name
}

func (b *builder) color(i int) color.Color {
	if len(b.spec.Colors) == 0 {
		return color.Gray{Y: 80}
	}
	c, err := parseHex(b.spec.Colors[i%len(b.spec.Colors)])
	if err != nil {
		return color.Gray{Y: 80}
	}
	return c
}

// timeAxis switches an axis to date ticks when the column holds datetimes.
func timeAxis(ax *plot.Axis, c *dataset.Column) {
	if c.Kind() == dataset.KindDatetime {
		ax.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	}
}

// number reads cell i as a float; datetimes become Unix seconds.
func number(c *dataset.Column, i int) (float64, bool) {
	v := c.Value(i)
	if !v.Valid {
		return 0, false
	}
	switch c.Kind() {
	case dataset.KindInt, dataset.KindFloat:
		return v.Num, true
	case dataset.KindDatetime:
		return float64(v.Time.Unix()), true
	default:
		return 0, false
	}
}

func numbers(c *dataset.Column) plotter.Values {
	var out plotter.Values
	for i := 0; i < c.Len(); i++ {
		if x, ok := number(c, i); ok {
			out = append(out, x)
		}
	}
	return out
}

func (b *builder) histogram() error {
	c, err := b.column(b.spec.X)
	if err != nil {
		return err
	}
	vals := numbers(c)
	if len(vals) == 0 {
		return dataset.DataState(dataset.ErrAllMissing, c.Name(), "nothing to plot")
	}
	bins := int(math.Ceil(math.Log2(float64(len(vals))))) + 1
	h, err := plotter.NewHist(vals, bins)
	if err != nil {
		return err
	}
	h.FillColor = b.color(0)
	b.p.Add(h)
	b.p.X.Label.Text = b.label(c.Name())
	b.p.Y.Label.Text = "Count"
	timeAxis(&b.p.X, c)
	return nil
}

func (b *builder) box() error {
	c, err := b.column(b.spec.Y)
	if err != nil {
		return err
	}
	vals := numbers(c)
	if len(vals) == 0 {
		return dataset.DataState(dataset.ErrAllMissing, c.Name(), "nothing to plot")
	}
	bp, err := plotter.NewBoxPlot(vg.Points(40), 0, vals)
	if err != nil {
		return err
	}
	bp.FillColor = b.color(0)
	b.p.Add(bp)
	b.p.NominalX(b.label(c.Name()))
	return nil
}

// bar draws one series per value of the color (or facet) column, side by
// side, over the category axis.
func (b *builder) bar() error {
	horizontal := b.spec.Orientation == dispatch.Horizontal
	catName, valName := b.spec.X, b.spec.Y
	if horizontal {
		catName, valName = b.spec.Y, b.spec.X
	}
	cat, err := b.column(catName)
	if err != nil {
		return err
	}
	val, err := b.column(valName)
	if err != nil {
		return err
	}
	groupName := b.spec.Color
	if groupName == "" {
		groupName = b.spec.Facet
	}
	var grp *dataset.Column
	if groupName != "" && groupName != catName {
		if grp, err = b.column(groupName); err != nil {
			return err
		}
	}

	var cats, groups []string
	catIdx, grpIdx := map[string]int{}, map[string]int{}
	cells := map[[2]int]float64{}
	for i := 0; i < cat.Len(); i++ {
		y, ok := number(val, i)
		if !ok || cat.IsMissing(i) {
			continue
		}
		ck := cat.Format(i)
		if _, ok := catIdx[ck]; !ok {
			catIdx[ck] = len(cats)
			cats = append(cats, ck)
		}
		gk := ""
		if grp != nil {
			gk = grp.Format(i)
		}
		if _, ok := grpIdx[gk]; !ok {
			grpIdx[gk] = len(groups)
			groups = append(groups, gk)
		}
		cells[[2]int{catIdx[ck], grpIdx[gk]}] += y
	}
	if len(cats) == 0 {
		return dataset.DataState(dataset.ErrNoRows, catName, "nothing to plot")
	}

	width := vg.Points(60) / vg.Length(len(groups))
	for g, name := range groups {
		vals := make(plotter.Values, len(cats))
		for ci := range cats {
			vals[ci] = cells[[2]int{ci, g}]
		}
		bc, err := plotter.NewBarChart(vals, width)
		if err != nil {
			return err
		}
		bc.Horizontal = horizontal
		bc.Color = b.color(g)
		bc.LineStyle.Width = 0
		bc.Offset = width * vg.Length(float64(g)-float64(len(groups)-1)/2)
		b.p.Add(bc)
		if grp != nil {
			b.p.Legend.Add(name, bc)
		}
	}
	if horizontal {
		b.p.NominalY(cats...)
		b.p.X.Label.Text = b.label(valName)
	} else {
		b.p.NominalX(cats...)
		b.p.Y.Label.Text = b.label(valName)
	}
	return nil
}

func (b *builder) xy(group *dataset.Column) (map[string]plotter.XYs, []string, error) {
	x, err := b.column(b.spec.X)
	if err != nil {
		return nil, nil, err
	}
	y, err := b.column(b.spec.Y)
	if err != nil {
		return nil, nil, err
	}
	series := map[string]plotter.XYs{}
	var order []string
	for i := 0; i < x.Len(); i++ {
		xv, okx := number(x, i)
		yv, oky := number(y, i)
		if !okx || !oky {
			continue
		}
		k := ""
		if group != nil {
			if group.IsMissing(i) {
				continue
			}
			k = group.Format(i)
		}
		if _, ok := series[k]; !ok {
			order = append(order, k)
		}
		series[k] = append(series[k], plotter.XY{X: xv, Y: yv})
	}
	b.p.X.Label.Text = b.label(x.Name())
	b.p.Y.Label.Text = b.label(y.Name())
	timeAxis(&b.p.X, x)
	return series, order, nil
}

func (b *builder) scatter() error {
	var grp *dataset.Column
	if b.spec.Color != "" {
		c, err := b.column(b.spec.Color)
		if err != nil {
			return err
		}
		grp = c
	}
	if grp != nil && dataset.Classify(grp) == dataset.Numeric {
		return b.gradientScatter(grp)
	}
	series, order, err := b.xy(grp)
	if err != nil {
		return err
	}
	for i, k := range order {
		s, err := plotter.NewScatter(series[k])
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = b.color(i)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		b.p.Add(s)
		if grp != nil {
			b.p.Legend.Add(k, s)
		}
	}
	return nil
}

// gradientScatter colors each point by where its value of c falls between
// the column's minimum and maximum, stepping through the palette.
func (b *builder) gradientScatter(c *dataset.Column) error {
	x, err := b.column(b.spec.X)
	if err != nil {
		return err
	}
	y, err := b.column(b.spec.Y)
	if err != nil {
		return err
	}
	var pts plotter.XYs
	var shades []float64
	for i := 0; i < x.Len(); i++ {
		xv, okx := number(x, i)
		yv, oky := number(y, i)
		cv, okc := number(c, i)
		if okx && oky && okc {
			pts = append(pts, plotter.XY{X: xv, Y: yv})
			shades = append(shades, cv)
		}
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range shades {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	steps := len(b.spec.Colors)
	s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		gs := s.GlyphStyle
		gs.Shape = draw.CircleGlyph{}
		idx := 0
		if hi > lo && steps > 1 {
			idx = int((shades[i] - lo) / (hi - lo) * float64(steps-1))
		}
		gs.Color = b.color(idx)
		return gs
	}
	b.p.Add(s)
	b.p.X.Label.Text = b.label(x.Name())
	b.p.Y.Label.Text = b.label(y.Name())
	return nil
}

func (b *builder) line() error {
	var grp *dataset.Column
	if b.spec.Color != "" {
		c, err := b.column(b.spec.Color)
		if err != nil {
			return err
		}
		grp = c
	}
	series, order, err := b.xy(grp)
	if err != nil {
		return err
	}
	for i, k := range order {
		l, err := plotter.NewLine(series[k])
		if err != nil {
			return err
		}
		l.Color = b.color(i)
		l.Width = vg.Points(2)
		b.p.Add(l)
		if grp != nil {
			b.p.Legend.Add(k, l)
		}
	}
	return nil
}

// parseHex reads "#RRGGBB" or "RRGGBB".
func parseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 255}, nil
}
