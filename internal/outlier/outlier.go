// Package outlier removes rows outside Tukey fences.
package outlier

import (
	"strings"

	"github.com/KaramelBytes/varsum/internal/dataset"
	"github.com/KaramelBytes/varsum/internal/stats"
)

// Strength selects the IQR multiplier.
type Strength int

const (
	Weak Strength = iota
	Strong
)

// Multiplier returns k for the fences Q1 - k*IQR and Q3 + k*IQR.
func (s Strength) Multiplier() float64 {
	if s == Strong {
		return 3.0
	}
	return 1.5
}

func (s Strength) String() string {
	if s == Strong {
		return "strong"
	}
	return "weak"
}

// Side selects which fence is enforced.
type Side int

const (
	Lower Side = iota
	Upper
	Both
)

func (s Side) String() string {
	switch s {
	case Lower:
		return "lower"
	case Upper:
		return "upper"
	default:
		return "both"
	}
}

// Spec is a decoded strength and side pair.
type Spec struct {
	Strength Strength
	Side     Side
}

func (s Spec) String() string { return s.Strength.String() + "_" + s.Side.String() }

// ParseSpec decodes tokens such as "strong_both". Anything that does not
// split into exactly one strength and one side is rejected.
func ParseSpec(token string) (Spec, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(token)), "_")
	if len(parts) != 2 {
		return Spec{}, dataset.Invalid("outlier spec", token, "malformed token %q (want <weak|strong>_<lower|upper|both>)", token)
	}
	var spec Spec
	switch parts[0] {
	case "weak":
		spec.Strength = Weak
	case "strong":
		spec.Strength = Strong
	default:
		return Spec{}, dataset.Invalid("outlier spec", token, "unknown strength %q", parts[0])
	}
	switch parts[1] {
	case "lower":
		spec.Side = Lower
	case "upper":
		spec.Side = Upper
	case "both":
		spec.Side = Both
	default:
		return Spec{}, dataset.Invalid("outlier spec", token, "unknown side %q", parts[1])
	}
	return spec, nil
}

// Fences returns Q1 - k*IQR and Q3 + k*IQR over the column's present values.
func Fences(ds *dataset.Dataset, column string, strength Strength) (lower, upper float64, err error) {
	c, err := ds.Column(column)
	if err != nil {
		return 0, 0, err
	}
	if dataset.Classify(c) != dataset.Numeric {
		return 0, 0, dataset.DataState(dataset.ErrTypeMismatch, column, "outlier fences need a numeric column, got %s", c.Kind())
	}
	xs := c.Floats()
	if len(xs) == 0 {
		return 0, 0, dataset.DataState(dataset.ErrAllMissing, column, "no values to compute fences from")
	}
	q1, q3 := stats.Quartiles(xs)
	k := strength.Multiplier()
	iqr := q3 - q1
	return q1 - k*iqr, q3 + k*iqr, nil
}

// Filter keeps rows strictly inside the fence(s) chosen by spec. Rows with
// a missing value in column are dropped.
func Filter(ds *dataset.Dataset, column string, spec Spec) (*dataset.Dataset, error) {
	keep, err := keepMask(ds, column, spec)
	if err != nil {
		return nil, err
	}
	return ds.Filter(keep), nil
}

// FilterAll applies spec to every column and keeps the rows that survive all
// of them. Each column's fences come from the unfiltered input.
func FilterAll(ds *dataset.Dataset, columns []string, spec Spec) (*dataset.Dataset, error) {
	keep := make([]bool, ds.NumRows())
	for i := range keep {
		keep[i] = true
	}
	for _, col := range columns {
		m, err := keepMask(ds, col, spec)
		if err != nil {
			return nil, err
		}
		for i := range keep {
			keep[i] = keep[i] && m[i]
		}
	}
	return ds.Filter(keep), nil
}

func keepMask(ds *dataset.Dataset, column string, spec Spec) ([]bool, error) {
	lo, hi, err := Fences(ds, column, spec.Strength)
	if err != nil {
		return nil, err
	}
	c, _ := ds.Column(column)
	keep := make([]bool, ds.NumRows())
	for i := range keep {
		v := c.Value(i)
		if !v.Valid {
			continue
		}
		switch spec.Side {
		case Lower:
			keep[i] = v.Num > lo
		case Upper:
			keep[i] = v.Num < hi
		default:
			keep[i] = v.Num > lo && v.Num < hi
		}
	}
	return keep, nil
}
