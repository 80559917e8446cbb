package dispatch

import (
	"github.com/KaramelBytes/varsum/internal/dataset"
)

// Strategy identifies the analysis chosen for a selection.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyDistribution
	StrategyFrequency
	StrategyDateCount
	StrategyScatter
	StrategyCrossTab
	StrategyGroupedBar
	StrategyTimeLine
	StrategyScatter3
	StrategyMultiLevelBar
	StrategyFacetedAggregate
	StrategyColoredScatter
	StrategyGroupedTimeLine
)

var strategyNames = [...]string{
	"none",
	"numeric_distribution",
	"category_frequency",
	"date_count",
	"scatter",
	"cross_tab",
	"grouped_bar",
	"time_line",
	"scatter_3",
	"multi_level_bar",
	"faceted_aggregate",
	"colored_scatter",
	"grouped_time_line",
}

func (s Strategy) String() string {
	if int(s) < 0 || int(s) >= len(strategyNames) {
		return "unknown"
	}
	return strategyNames[s]
}

// mix counts the selected columns per semantic type.
type mix struct{ num, chr, dt int }

type rule struct {
	mix        mix
	strategy   Strategy
	plots      []PlotKind
	aggregates bool
}

// rules enumerates every supported type mix. Mixes absent here resolve to
// StrategyNone; the two explicit StrategyNone rows document pairs that are
// known and deliberately unsupported.
var rules = []rule{
	{mix: mix{num: 1}, strategy: StrategyDistribution, plots: []PlotKind{PlotHistogram, PlotBox, PlotViolin}},
	{mix: mix{chr: 1}, strategy: StrategyFrequency, plots: []PlotKind{PlotBar, PlotPie}},
	{mix: mix{dt: 1}, strategy: StrategyDateCount},
	{mix: mix{num: 2}, strategy: StrategyScatter},
	{mix: mix{chr: 2}, strategy: StrategyCrossTab},
	{mix: mix{num: 1, chr: 1}, strategy: StrategyGroupedBar, aggregates: true},
	{mix: mix{num: 1, dt: 1}, strategy: StrategyTimeLine, aggregates: true},
	{mix: mix{chr: 1, dt: 1}, strategy: StrategyNone},
	{mix: mix{dt: 2}, strategy: StrategyNone},
	{mix: mix{num: 3}, strategy: StrategyScatter3, plots: []PlotKind{Plot2D, Plot3D}},
	{mix: mix{chr: 3}, strategy: StrategyMultiLevelBar},
	{mix: mix{num: 1, chr: 2}, strategy: StrategyFacetedAggregate, aggregates: true},
	{mix: mix{num: 2, chr: 1}, strategy: StrategyColoredScatter},
	{mix: mix{num: 1, chr: 1, dt: 1}, strategy: StrategyGroupedTimeLine, aggregates: true},
}

var noRule = &rule{strategy: StrategyNone}

// table maps every ordered type signature of length 1 to 3 ("N", "CN",
// "DNC", ...) to its rule. Built once at init.
var table = compileTable()

func compileTable() map[string]*rule {
	letters := []byte{'N', 'C', 'D'}
	out := make(map[string]*rule)
	var walk func(prefix []byte)
	walk = func(prefix []byte) {
		if len(prefix) > 0 {
			out[string(prefix)] = match(mixOf(prefix))
		}
		if len(prefix) == 3 {
			return
		}
		for _, l := range letters {
			walk(append(append([]byte(nil), prefix...), l))
		}
	}
	walk(nil)
	return out
}

func mixOf(sig []byte) mix {
	var m mix
	for _, b := range sig {
		switch b {
		case 'N':
			m.num++
		case 'C':
			m.chr++
		default:
			m.dt++
		}
	}
	return m
}

func match(m mix) *rule {
	for i := range rules {
		if rules[i].mix == m {
			return &rules[i]
		}
	}
	return noRule
}

// binding holds the selected names grouped by semantic type, each group in
// selection order.
type binding struct {
	num, chr, dt []string
}

func bind(sel []string, types map[string]dataset.SemanticType) (binding, string) {
	var b binding
	sig := make([]byte, len(sel))
	for i, name := range sel {
		t := types[name]
		sig[i] = t.Letter()
		switch t {
		case dataset.Numeric:
			b.num = append(b.num, name)
		case dataset.Character:
			b.chr = append(b.chr, name)
		default:
			b.dt = append(b.dt, name)
		}
	}
	return b, string(sig)
}
