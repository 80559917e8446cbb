// Package dispatch picks and runs the analysis that fits a selection of one
// to three columns, based on how many columns of each semantic type were
// selected and in which order.
package dispatch

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/KaramelBytes/varsum/internal/dataset"
	"github.com/KaramelBytes/varsum/internal/outlier"
)

// MaxSelection is the largest number of columns a request may name.
const MaxSelection = 3

// Resolver resolves selections. It holds no per-request state and is safe
// for concurrent use.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver returns a Resolver logging to logger; nil discards.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{logger: logger}
}

// Resolve runs the strategy for sel against ds with a discarding logger.
func Resolve(ds *dataset.Dataset, sel []string, opt Options) (*Result, error) {
	return NewResolver(nil).Resolve(ds, sel, opt)
}

// Resolve returns a table, a plot spec or an empty result for sel. Only
// malformed options, unknown columns and illegal plot requests are errors;
// unsupported selections produce ResultEmpty with a Reason.
func (r *Resolver) Resolve(ds *dataset.Dataset, sel []string, opt Options) (*Result, error) {
	id := uuid.NewString()
	log := r.logger.With("request_id", id)

	if err := opt.validate(); err != nil {
		return nil, err
	}
	opt = opt.withDefaults()

	if res := checkSelection(sel); res != nil {
		res.ID = id
		log.Debug("empty selection", "reason", res.Reason)
		return res, nil
	}
	types, err := dataset.ClassifyMany(ds, sel)
	if err != nil {
		return nil, err
	}
	b, sig := bind(sel, types)
	rl := table[sig]
	if rl == nil || rl.strategy == StrategyNone {
		log.Debug("unsupported combination", "signature", sig)
		return &Result{ID: id, Reason: fmt.Sprintf("unsupported combination of variable types (%s)", describeSignature(sig))}, nil
	}

	data, err := ds.Select(sel...)
	if err != nil {
		return nil, err
	}
	if opt.Output == OutputPlot && opt.Plot != PlotDefault {
		if err := checkPlot(rl, data, b, opt.Plot); err != nil {
			return nil, err
		}
	}
	if opt.Outlier != nil && len(b.num) > 0 {
		before := data.NumRows()
		if data, err = outlier.FilterAll(data, b.num, *opt.Outlier); err != nil {
			return nil, err
		}
		log.Debug("outliers removed", "spec", opt.Outlier.String(), "rows_before", before, "rows_after", data.NumRows())
	}
	if data.NumRows() == 0 {
		return &Result{ID: id, Strategy: rl.strategy, Reason: "no rows left to analyse"}, nil
	}

	q := &request{ds: data, b: b, opt: opt}
	res, err := runners[rl.strategy](q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rl.strategy, err)
	}
	res.ID = id
	res.Strategy = rl.strategy
	log.Info("resolved", "strategy", rl.strategy.String(), "signature", sig, "result", res.Kind.String(), "rows", data.NumRows())
	return res, nil
}

// checkSelection returns an empty result when sel cannot be resolved on
// its shape alone.
func checkSelection(sel []string) *Result {
	switch {
	case len(sel) == 0:
		return &Result{Reason: "no variables selected"}
	case len(sel) > MaxSelection:
		return &Result{Reason: fmt.Sprintf("select at most %d variables, got %d", MaxSelection, len(sel))}
	}
	if n := detectDuplicates(sel); n != nil {
		return &Result{Notice: n, Reason: n.String()}
	}
	return nil
}

// legalPlots lists the plot subtypes a rule accepts for the given data.
func legalPlots(rl *rule, ds *dataset.Dataset, b binding) []PlotKind {
	out := make([]PlotKind, 0, len(rl.plots))
	for _, k := range rl.plots {
		if k == PlotPie && distinctOf(ds, b.chr[0]) > maxPieSlices {
			continue
		}
		out = append(out, k)
	}
	return out
}

func checkPlot(rl *rule, ds *dataset.Dataset, b binding, want PlotKind) error {
	if slices.Contains(legalPlots(rl, ds, b), want) {
		return nil
	}
	if want == PlotPie && rl.strategy == StrategyFrequency {
		n := distinctOf(ds, b.chr[0])
		return dataset.Invalid("plot kind", want.String(), "pie charts need at most %d categories, %s has %d", maxPieSlices, b.chr[0], n)
	}
	return dataset.Invalid("plot kind", want.String(), "plot kind %s is not available for %s", want, rl.strategy)
}

func describeSignature(sig string) string {
	words := make([]string, len(sig))
	for i := 0; i < len(sig); i++ {
		switch sig[i] {
		case 'N':
			words[i] = dataset.Numeric.String()
		case 'C':
			words[i] = dataset.Character.String()
		default:
			words[i] = dataset.Datetime.String()
		}
	}
	return strings.Join(words, ", ")
}
