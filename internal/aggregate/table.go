package aggregate

import (
	"sort"

	"github.com/KaramelBytes/varsum/internal/dataset"
)

// SortBy orders a table's rows by one column. The sort is stable, so rows
// with equal values keep their current order. Missing values go last.
func SortBy(ds *dataset.Dataset, column string, desc bool) (*dataset.Dataset, error) {
	c, err := ds.Column(column)
	if err != nil {
		return nil, err
	}
	idx := make([]int, ds.NumRows())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if c.IsMissing(ia) || c.IsMissing(ib) {
			return !c.IsMissing(ia) && c.IsMissing(ib)
		}
		r := c.Compare(ia, ib)
		if desc {
			return r > 0
		}
		return r < 0
	})
	return ds.Take(idx), nil
}

// Head keeps the first n rows.
func Head(ds *dataset.Dataset, n int) *dataset.Dataset {
	if n >= ds.NumRows() || n < 0 {
		return ds
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return ds.Take(idx)
}
