// Package aggregate computes summary tables: descriptive statistics, group-by
// aggregates, category counts and the dataset overview tables.
//
// Every table is returned as a *dataset.Dataset so callers can render, sort
// or feed it back into other operations without a separate table type.
package aggregate

import (
	"strings"

	"github.com/KaramelBytes/varsum/internal/dataset"
	"github.com/KaramelBytes/varsum/internal/stats"
)

// Kind is an aggregation function. The zero value means "not set".
type Kind int

const (
	Min Kind = iota + 1
	Mean
	Median
	Max
	Sum
)

// AllKinds lists every aggregation in display order.
func AllKinds() []Kind { return []Kind{Min, Mean, Median, Max, Sum} }

func (k Kind) String() string {
	switch k {
	case Min:
		return "min"
	case Mean:
		return "mean"
	case Median:
		return "median"
	case Max:
		return "max"
	case Sum:
		return "sum"
	default:
		return ""
	}
}

// Label is the human wording used in titles.
func (k Kind) Label() string {
	switch k {
	case Min:
		return "Minimum"
	case Mean:
		return "Average"
	case Median:
		return "Median"
	case Max:
		return "Maximum"
	case Sum:
		return "Total"
	default:
		return ""
	}
}

// ParseKind decodes an aggregation token.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "min", "minimum":
		return Min, nil
	case "mean", "avg", "average":
		return Mean, nil
	case "median":
		return Median, nil
	case "max", "maximum":
		return Max, nil
	case "sum", "total":
		return Sum, nil
	default:
		return 0, dataset.Invalid("aggregation", s, "unknown aggregation %q (use min|mean|median|max|sum)", s)
	}
}

// Apply reduces xs. Empty input yields NaN, except Sum which yields 0.
func (k Kind) Apply(xs []float64) float64 {
	switch k {
	case Min:
		lo, _ := stats.MinMax(xs)
		return lo
	case Max:
		_, hi := stats.MinMax(xs)
		return hi
	case Median:
		return stats.Median(xs)
	case Sum:
		return stats.Sum(xs)
	default:
		return stats.Mean(xs)
	}
}
