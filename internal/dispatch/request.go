package dispatch

import (
	"strings"

	"github.com/KaramelBytes/varsum/internal/aggregate"
	"github.com/KaramelBytes/varsum/internal/dataset"
)

// Purpose selects what ClassifyRequest reports.
type Purpose int

const (
	PurposePlotKind Purpose = iota
	PurposeAggregation
)

func (p Purpose) String() string {
	if p == PurposeAggregation {
		return "aggregation"
	}
	return "plot_kind"
}

// ParsePurpose decodes a purpose token.
func ParsePurpose(s string) (Purpose, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plot_kind", "plot", "plots":
		return PurposePlotKind, nil
	case "aggregation", "aggregation_applicability", "agg":
		return PurposeAggregation, nil
	default:
		return 0, dataset.Invalid("purpose", s, "unknown purpose %q (use plot_kind|aggregation)", s)
	}
}

// Answer lists the choices legal for a selection. Only the list matching
// Purpose is filled; both are empty when the selection does not resolve.
type Answer struct {
	Purpose      Purpose
	Strategy     Strategy
	PlotKinds    []PlotKind
	Aggregations []aggregate.Kind
}

// ClassifyRequest reports which plot subtypes or aggregation kinds Resolve
// would accept for sel, using the same rules Resolve applies.
func ClassifyRequest(ds *dataset.Dataset, sel []string, purpose Purpose) (*Answer, error) {
	ans := &Answer{Purpose: purpose}
	if checkSelection(sel) != nil {
		return ans, nil
	}
	types, err := dataset.ClassifyMany(ds, sel)
	if err != nil {
		return nil, err
	}
	b, sig := bind(sel, types)
	rl := table[sig]
	if rl == nil || rl.strategy == StrategyNone {
		return ans, nil
	}
	ans.Strategy = rl.strategy
	switch purpose {
	case PurposeAggregation:
		if rl.aggregates {
			ans.Aggregations = aggregate.AllKinds()
		}
	default:
		ans.PlotKinds = legalPlots(rl, ds, b)
	}
	return ans, nil
}
