package dispatch

import (
	"strings"

	"github.com/KaramelBytes/varsum/internal/aggregate"
	"github.com/KaramelBytes/varsum/internal/dataset"
	"github.com/KaramelBytes/varsum/internal/lump"
	"github.com/KaramelBytes/varsum/internal/outlier"
)

// PlotKind is the plot subtype a caller may request. PlotDefault lets the
// strategy pick.
type PlotKind int

const (
	PlotDefault PlotKind = iota
	PlotHistogram
	PlotBox
	PlotViolin
	PlotBar
	PlotPie
	Plot2D
	Plot3D
)

var plotTokens = map[PlotKind]string{
	PlotDefault:   "",
	PlotHistogram: "hist",
	PlotBox:       "box",
	PlotViolin:    "vio",
	PlotBar:       "bar",
	PlotPie:       "pie",
	Plot2D:        "2d",
	Plot3D:        "3d",
}

func (k PlotKind) String() string {
	if k == PlotDefault {
		return "default"
	}
	return plotTokens[k]
}

// ParsePlotKind decodes a plot subtype token; "" selects the default.
func ParsePlotKind(s string) (PlotKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return PlotDefault, nil
	case "hist", "histogram":
		return PlotHistogram, nil
	case "box":
		return PlotBox, nil
	case "vio", "violin":
		return PlotViolin, nil
	case "bar":
		return PlotBar, nil
	case "pie":
		return PlotPie, nil
	case "2d":
		return Plot2D, nil
	case "3d":
		return Plot3D, nil
	default:
		return 0, dataset.Invalid("plot kind", s, "unknown plot kind %q (use hist|box|vio|bar|pie|2d|3d)", s)
	}
}

// Output selects between a summary table and a plot specification.
type Output int

const (
	OutputTable Output = iota
	OutputPlot
)

func (o Output) String() string {
	if o == OutputPlot {
		return "plot"
	}
	return "table"
}

// ParseOutput decodes an output token; "" selects a table.
func ParseOutput(s string) (Output, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return OutputTable, nil
	case "plot", "chart":
		return OutputPlot, nil
	default:
		return 0, dataset.Invalid("output", s, "unknown output %q (use table|plot)", s)
	}
}

// DefaultTopN is the number of categories kept when a bar chart is truncated.
const DefaultTopN = 10

// Options tunes a resolution. Zero values select the defaults.
type Options struct {
	Plot        PlotKind
	Aggregation aggregate.Kind
	Outlier     *outlier.Spec
	LumpN       int
	OtherLabel  string
	TopN        int
	Output      Output
	Theme       Theme
}

// RawOptions carries options as tokens, the way they arrive from flags or
// a config file.
type RawOptions struct {
	Plot        string
	Aggregation string
	Outlier     string
	Output      string
	LumpN       int
	OtherLabel  string
	TopN        int
}

// Decode validates every token and returns typed Options.
func (r RawOptions) Decode(theme Theme) (Options, error) {
	opt := Options{LumpN: r.LumpN, OtherLabel: r.OtherLabel, TopN: r.TopN, Theme: theme}
	var err error
	if opt.Plot, err = ParsePlotKind(r.Plot); err != nil {
		return Options{}, err
	}
	if opt.Output, err = ParseOutput(r.Output); err != nil {
		return Options{}, err
	}
	if strings.TrimSpace(r.Aggregation) != "" {
		if opt.Aggregation, err = aggregate.ParseKind(r.Aggregation); err != nil {
			return Options{}, err
		}
	}
	if tok := strings.TrimSpace(r.Outlier); tok != "" && !strings.EqualFold(tok, "none") {
		spec, err := outlier.ParseSpec(tok)
		if err != nil {
			return Options{}, err
		}
		opt.Outlier = &spec
	}
	return opt, opt.validate()
}

func (o Options) validate() error {
	if o.LumpN < 0 {
		return dataset.Invalid("lump_n", "", "lump threshold must not be negative, got %d", o.LumpN)
	}
	if o.TopN < 0 {
		return dataset.Invalid("top_n", "", "top-N must not be negative, got %d", o.TopN)
	}
	if o.Aggregation != 0 && o.Aggregation.String() == "" {
		return dataset.Invalid("aggregation", "", "unknown aggregation kind %d", int(o.Aggregation))
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.Aggregation == 0 {
		o.Aggregation = aggregate.Mean
	}
	if o.LumpN == 0 {
		o.LumpN = lump.DefaultKeepN
	}
	if o.OtherLabel == "" {
		o.OtherLabel = lump.DefaultOtherLabel
	}
	if o.TopN == 0 {
		o.TopN = DefaultTopN
	}
	o.Theme = o.Theme.withDefaults()
	return o
}
