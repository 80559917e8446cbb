package dispatch

import (
	"fmt"

	"github.com/KaramelBytes/varsum/internal/aggregate"
	"github.com/KaramelBytes/varsum/internal/dataset"
	"github.com/KaramelBytes/varsum/internal/lump"
)

// Readability thresholds for category axes.
const (
	maxVerticalSingle = 6
	maxVerticalPair   = 8
	maxPieSlices      = 5
	maxFacetVertical  = 5
)

// request is one resolution in flight: the selected (and possibly filtered)
// data, the selection bound to semantic roles and the effective options.
type request struct {
	ds  *dataset.Dataset
	b   binding
	opt Options
}

type runner func(q *request) (*Result, error)

var runners = map[Strategy]runner{
	StrategyDistribution:     (*request).distribution,
	StrategyFrequency:        (*request).frequency,
	StrategyDateCount:        (*request).dateCount,
	StrategyScatter:          (*request).scatter,
	StrategyCrossTab:         (*request).crossTab,
	StrategyGroupedBar:       (*request).groupedBar,
	StrategyTimeLine:         (*request).timeLine,
	StrategyScatter3:         (*request).scatter3,
	StrategyMultiLevelBar:    (*request).multiLevelBar,
	StrategyFacetedAggregate: (*request).facetedAggregate,
	StrategyColoredScatter:   (*request).coloredScatter,
	StrategyGroupedTimeLine:  (*request).groupedTimeLine,
}

func (q *request) wantsTable() bool { return q.opt.Output == OutputTable }

func tableResult(t *dataset.Dataset) *Result {
	return &Result{Kind: ResultTable, Table: t}
}

// plot builds a spec over data with the theme applied and every column
// captioned.
func (q *request) plot(kind ChartKind, title string, data *dataset.Dataset, colors ...string) *PlotSpec {
	return &PlotSpec{
		Kind:        kind,
		Title:       title,
		Data:        data,
		Orientation: Vertical,
		Labels:      labelsFor(data.Names(), nil),
		Colors:      colors,
		Background:  q.opt.Theme.Background,
		Height:      q.opt.Theme.Height,
	}
}

func plotResult(p *PlotSpec) *Result {
	return &Result{Kind: ResultPlot, Plot: p}
}

func distinctOf(ds *dataset.Dataset, name string) int {
	c, err := ds.Column(name)
	if err != nil {
		return 0
	}
	return c.Distinct()
}

// topAscending keeps the first n rows of a table already sorted best-first
// and re-sorts them ascending by column so horizontal bars read top-down.
func topAscending(t *dataset.Dataset, n int, column string) (*dataset.Dataset, error) {
	return aggregate.SortBy(aggregate.Head(t, n), column, false)
}

// summaryTable groups by keys and reports every aggregation kind of value;
// the requested kind only picks the plotted column.
func (q *request) summaryTable(keys []string, value string) (*Result, error) {
	t, err := aggregate.GroupSummary(q.ds, keys, value, aggregate.AllKinds())
	if err != nil {
		return nil, err
	}
	return tableResult(t), nil
}

func (q *request) distribution() (*Result, error) {
	n := q.b.num[0]
	if q.wantsTable() {
		t, err := aggregate.Describe(q.ds, []string{n})
		if err != nil {
			return nil, err
		}
		return tableResult(t), nil
	}
	p := q.plot(ChartHistogram, "Distribution Of "+Label(n), q.ds, q.opt.Theme.Bar)
	switch q.opt.Plot {
	case PlotBox:
		p.Kind, p.Y = ChartBox, n
	case PlotViolin:
		p.Kind, p.Y = ChartViolin, n
	default:
		p.X = n
	}
	return plotResult(p), nil
}

func (q *request) frequency() (*Result, error) {
	c := q.b.chr[0]
	counts, err := aggregate.CategoryCounts(q.ds, []string{c})
	if err != nil {
		return nil, err
	}
	if q.wantsTable() {
		return tableResult(counts), nil
	}
	title := "Number Of Records In Each " + Label(c)
	if q.opt.Plot == PlotPie {
		p := q.plot(ChartPie, title, counts, q.opt.Theme.Groups...)
		p.X, p.Y, p.Hole = c, "count", 0.35
		return plotResult(p), nil
	}
	if counts.NumRows() <= maxVerticalSingle {
		p := q.plot(ChartBar, title, counts, q.opt.Theme.Bar)
		p.X, p.Y = c, "count"
		return plotResult(p), nil
	}
	top, err := topAscending(counts, q.opt.TopN, "count")
	if err != nil {
		return nil, err
	}
	p := q.plot(ChartBar, fmt.Sprintf("Top %d Unique %s Values", top.NumRows(), Label(c)), top, q.opt.Theme.Bar)
	p.X, p.Y, p.Orientation = "count", c, Horizontal
	return plotResult(p), nil
}

func (q *request) dateCount() (*Result, error) {
	d := q.b.dt[0]
	if q.wantsTable() {
		t, err := aggregate.ValueCounts(q.ds, d)
		if err != nil {
			return nil, err
		}
		return tableResult(t), nil
	}
	p := q.plot(ChartHistogram, "Number Of Records In Each "+Label(d), q.ds, q.opt.Theme.Bar)
	p.X = d
	return plotResult(p), nil
}

func (q *request) scatter() (*Result, error) {
	x, y := q.b.num[0], q.b.num[1]
	if q.wantsTable() {
		t, err := aggregate.Describe(q.ds, q.b.num)
		if err != nil {
			return nil, err
		}
		return tableResult(t), nil
	}
	p := q.plot(ChartScatter, fmt.Sprintf("Relationship Between %s & %s", Label(x), Label(y)), q.ds, q.opt.Theme.Point)
	p.X, p.Y = x, y
	return plotResult(p), nil
}

func (q *request) crossTab() (*Result, error) {
	counts, err := aggregate.CategoryCounts(q.ds, q.b.chr)
	if err != nil {
		return nil, err
	}
	if q.wantsTable() {
		return tableResult(counts), nil
	}
	names := counts.Names()
	lead, second := names[0], names[1]
	title := fmt.Sprintf("Number Of Records In Each %s By %s", Label(lead), Label(second))
	switch n := distinctOf(q.ds, lead); {
	case n > maxVerticalPair:
		top, err := topAscending(counts, q.opt.TopN, "count")
		if err != nil {
			return nil, err
		}
		p := q.plot(ChartBar, title, top, q.opt.Theme.Groups...)
		p.X, p.Y, p.Facet, p.Orientation = "count", lead, second, Horizontal
		return plotResult(p), nil
	case n <= maxFacetVertical:
		p := q.plot(ChartBar, title, counts, q.opt.Theme.Groups...)
		p.X, p.Y, p.Facet = lead, "count", second
		return plotResult(p), nil
	default:
		p := q.plot(ChartBar, title, counts, q.opt.Theme.Groups...)
		p.X, p.Y, p.Facet, p.Orientation = "count", lead, second, Horizontal
		return plotResult(p), nil
	}
}

func (q *request) groupedBar() (*Result, error) {
	c, n := q.b.chr[0], q.b.num[0]
	if q.wantsTable() {
		return q.summaryTable([]string{c}, n)
	}
	agg := q.opt.Aggregation
	t, err := aggregate.GroupSummary(q.ds, []string{c}, n, []aggregate.Kind{agg})
	if err != nil {
		return nil, err
	}
	col := agg.String()
	sorted, err := aggregate.SortBy(t, col, true)
	if err != nil {
		return nil, err
	}
	caption := agg.Label() + " " + Label(n)
	if sorted.NumRows() > maxVerticalPair {
		top, err := topAscending(sorted, q.opt.TopN, col)
		if err != nil {
			return nil, err
		}
		p := q.plot(ChartBar, fmt.Sprintf("Top %d %s By %s", top.NumRows(), Label(c), caption), top, q.opt.Theme.Accent)
		p.X, p.Y, p.Orientation = col, c, Horizontal
		p.Labels[col] = caption
		return plotResult(p), nil
	}
	p := q.plot(ChartBar, fmt.Sprintf("%s By %s", caption, Label(c)), sorted, q.opt.Theme.Accent)
	p.X, p.Y = c, col
	p.Labels[col] = caption
	return plotResult(p), nil
}

func (q *request) timeLine() (*Result, error) {
	d, n := q.b.dt[0], q.b.num[0]
	if q.wantsTable() {
		return q.summaryTable([]string{d}, n)
	}
	agg := q.opt.Aggregation
	t, err := aggregate.GroupSummary(q.ds, []string{d}, n, []aggregate.Kind{agg})
	if err != nil {
		return nil, err
	}
	caption := agg.Label() + " " + Label(n)
	p := q.plot(ChartLine, fmt.Sprintf("%s By %s", caption, Label(d)), t, q.opt.Theme.Accent)
	p.X, p.Y = d, agg.String()
	p.Labels[agg.String()] = caption
	return plotResult(p), nil
}

func (q *request) scatter3() (*Result, error) {
	x, y, z := q.b.num[0], q.b.num[1], q.b.num[2]
	if q.wantsTable() {
		t, err := aggregate.Describe(q.ds, q.b.num)
		if err != nil {
			return nil, err
		}
		return tableResult(t), nil
	}
	title := fmt.Sprintf("Relationship Between %s, %s & %s", Label(x), Label(y), Label(z))
	if q.opt.Plot == Plot3D {
		p := q.plot(ChartScatter3D, title, q.ds, q.opt.Theme.Point)
		p.X, p.Y, p.Z = x, y, z
		return plotResult(p), nil
	}
	p := q.plot(ChartScatter, title, q.ds, q.opt.Theme.Groups...)
	p.X, p.Y, p.Color = x, y, z
	return plotResult(p), nil
}

func (q *request) multiLevelBar() (*Result, error) {
	counts, err := aggregate.CategoryCounts(q.ds, q.b.chr)
	if err != nil {
		return nil, err
	}
	if q.wantsTable() {
		return tableResult(counts), nil
	}
	names := counts.Names()
	s0, s1, s2 := names[0], names[1], names[2]
	title := fmt.Sprintf("Number Of Records In Each %s By %s & %s", Label(s0), Label(s1), Label(s2))
	switch n := distinctOf(q.ds, s0); {
	case n > maxVerticalPair:
		top, err := topAscending(counts, q.opt.TopN, "count")
		if err != nil {
			return nil, err
		}
		p := q.plot(ChartBar, title, top, q.opt.Theme.Groups...)
		p.X, p.Y, p.Facet, p.Color, p.Orientation = "count", s0, s2, s1, Horizontal
		return plotResult(p), nil
	case n <= maxFacetVertical:
		p := q.plot(ChartBar, title, counts, q.opt.Theme.Groups...)
		p.X, p.Y, p.Facet, p.Color = s0, "count", s1, s2
		return plotResult(p), nil
	default:
		p := q.plot(ChartBar, title, counts, q.opt.Theme.Groups...)
		p.X, p.Y, p.Facet, p.Color, p.Orientation = "count", s0, s1, s2, Horizontal
		return plotResult(p), nil
	}
}

// orderedCharacters returns the character roles by descending distinct count.
func (q *request) orderedCharacters(ds *dataset.Dataset, names []string) []string {
	cols := make([]*dataset.Column, 0, len(names))
	for _, n := range names {
		if c, err := ds.Column(n); err == nil {
			cols = append(cols, c)
		}
	}
	out := make([]string, 0, len(cols))
	for _, c := range aggregate.ByDistinctDesc(cols) {
		out = append(out, c.Name())
	}
	return out
}

func (q *request) facetedAggregate() (*Result, error) {
	n := q.b.num[0]
	if q.wantsTable() {
		return q.summaryTable(q.orderedCharacters(q.ds, q.b.chr), n)
	}
	agg := q.opt.Aggregation
	ds := q.ds
	lumped := make([]string, 0, 2)
	captions := map[string]string{}
	for _, c := range q.b.chr {
		res, err := lump.Lump(ds, c, q.opt.LumpN, q.opt.OtherLabel)
		if err != nil {
			return nil, err
		}
		ds = res.Dataset
		lumped = append(lumped, res.Column)
		captions[res.Column] = Label(c)
	}
	keys := q.orderedCharacters(ds, lumped)
	t, err := aggregate.GroupSummary(ds, keys, n, []aggregate.Kind{agg})
	if err != nil {
		return nil, err
	}
	caption := agg.Label() + " " + Label(n)
	captions[agg.String()] = caption
	title := fmt.Sprintf("%s By %s & %s", caption, captions[keys[0]], captions[keys[1]])
	p := q.plot(ChartBar, title, t, q.opt.Theme.Groups...)
	for k, v := range captions {
		p.Labels[k] = v
	}
	p.Color, p.Facet = keys[1], keys[1]
	if distinctOf(ds, keys[0]) <= maxVerticalSingle {
		p.X, p.Y = keys[0], agg.String()
	} else {
		p.X, p.Y, p.Orientation = agg.String(), keys[0], Horizontal
	}
	return plotResult(p), nil
}

func (q *request) coloredScatter() (*Result, error) {
	x, y, c := q.b.num[0], q.b.num[1], q.b.chr[0]
	if q.wantsTable() {
		t, err := aggregate.GroupSummaryMulti(q.ds, []string{c}, q.b.num, []aggregate.Kind{aggregate.Mean})
		if err != nil {
			return nil, err
		}
		return tableResult(t), nil
	}
	res, err := lump.Lump(q.ds, c, q.opt.LumpN, q.opt.OtherLabel)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Relationship Between %s & %s By %s", Label(x), Label(y), Label(c))
	p := q.plot(ChartScatter, title, res.Dataset, q.opt.Theme.Groups...)
	p.X, p.Y, p.Color = x, y, res.Column
	p.Labels[res.Column] = Label(c)
	return plotResult(p), nil
}

func (q *request) groupedTimeLine() (*Result, error) {
	d, n, c := q.b.dt[0], q.b.num[0], q.b.chr[0]
	if q.wantsTable() {
		return q.summaryTable([]string{d, c}, n)
	}
	agg := q.opt.Aggregation
	t, err := aggregate.GroupSummary(q.ds, []string{d, c}, n, []aggregate.Kind{agg})
	if err != nil {
		return nil, err
	}
	caption := agg.Label() + " " + Label(n)
	title := fmt.Sprintf("%s By %s For Each %s", caption, Label(d), Label(c))
	p := q.plot(ChartLine, title, t, q.opt.Theme.Groups...)
	p.X, p.Y, p.Color = d, agg.String(), c
	p.Labels[agg.String()] = caption
	return plotResult(p), nil
}
