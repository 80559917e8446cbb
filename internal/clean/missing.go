package clean

import (
	"math"
	"strings"

	"github.com/KaramelBytes/varsum/internal/dataset"
)

// DropStrategy selects what DropMissing removes.
type DropStrategy int

const (
	// DropAnyCols removes every column holding at least one missing value.
	DropAnyCols DropStrategy = iota
	// DropAnyRows removes every row holding at least one missing value.
	DropAnyRows
	// DropEmptyCols removes columns with no values at all.
	DropEmptyCols
	// DropEmptyRows removes rows with no values at all.
	DropEmptyRows
	// DropByPercent keeps columns whose share of present values reaches a threshold.
	DropByPercent
)

func (s DropStrategy) String() string {
	switch s {
	case DropAnyCols:
		return "all_cols"
	case DropAnyRows:
		return "all_rows"
	case DropEmptyCols:
		return "cols_all_na"
	case DropEmptyRows:
		return "rows_all_na"
	case DropByPercent:
		return "percent_missing"
	default:
		return "unknown"
	}
}

// ParseDropStrategy decodes a drop strategy token.
func ParseDropStrategy(s string) (DropStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all_cols":
		return DropAnyCols, nil
	case "all_rows":
		return DropAnyRows, nil
	case "cols_all_na":
		return DropEmptyCols, nil
	case "rows_all_na":
		return DropEmptyRows, nil
	case "percent_missing":
		return DropByPercent, nil
	default:
		return 0, dataset.Invalid("drop strategy", s, "unknown strategy %q (use all_cols|all_rows|cols_all_na|rows_all_na|percent_missing)", s)
	}
}

// DropMissing removes missing data according to strategy. percentage is only
// read by DropByPercent, where it is required and must lie in [0,100].
// A result with no rows or no columns is reported as a data state error.
func DropMissing(ds *dataset.Dataset, strategy DropStrategy, percentage *float64) (*dataset.Dataset, error) {
	var out *dataset.Dataset
	switch strategy {
	case DropAnyCols, DropEmptyCols, DropByPercent:
		thresh := 0
		switch strategy {
		case DropAnyCols:
			thresh = ds.NumRows()
		case DropEmptyCols:
			thresh = 1
		case DropByPercent:
			if percentage == nil {
				return nil, dataset.Invalid("percentage", "", "percent_missing requires a percentage")
			}
			p := *percentage
			if math.IsNaN(p) || p < 0 || p > 100 {
				return nil, dataset.Invalid("percentage", "", "percentage %v outside [0,100]", p)
			}
			thresh = int(math.Round(p / 100 * float64(ds.NumRows())))
		}
		var drop []string
		for _, c := range ds.Columns() {
			if c.Len()-c.MissingCount() < thresh {
				drop = append(drop, c.Name())
			}
		}
		out = ds.Drop(drop...)
		if out.NumCols() == 0 && ds.NumCols() > 0 {
			return nil, dataset.DataState(dataset.ErrNoRows, "", "%s would remove every column", strategy)
		}
	case DropAnyRows, DropEmptyRows:
		keep := make([]bool, ds.NumRows())
		cols := ds.Columns()
		for i := range keep {
			missing := 0
			for _, c := range cols {
				if c.IsMissing(i) {
					missing++
				}
			}
			if strategy == DropAnyRows {
				keep[i] = missing == 0
			} else {
				keep[i] = missing < len(cols)
			}
		}
		out = ds.Filter(keep)
		if out.NumRows() == 0 && ds.NumRows() > 0 {
			return nil, dataset.DataState(dataset.ErrNoRows, "", "%s would remove every row", strategy)
		}
	default:
		return nil, dataset.Invalid("drop strategy", strategy.String(), "unsupported strategy")
	}
	return out, nil
}
