package aggregate

import (
	"sort"
	"strings"

	"github.com/KaramelBytes/varsum/internal/dataset"
	"github.com/KaramelBytes/varsum/internal/stats"
)

type group struct {
	first int
	rows  []int
}

// groupRows partitions rows by the key columns, skipping rows with a missing
// key. Groups come back ordered by key tuple ascending.
func groupRows(keys []*dataset.Column, nrows int) []*group {
	index := map[string]*group{}
	var groups []*group
	parts := make([]string, len(keys))
	for i := 0; i < nrows; i++ {
		missing := false
		for k, c := range keys {
			if c.IsMissing(i) {
				missing = true
				break
			}
			parts[k] = c.Key(i)
		}
		if missing {
			continue
		}
		id := strings.Join(parts, "\x1f")
		g := index[id]
		if g == nil {
			g = &group{first: i}
			index[id] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, i)
	}
	sort.SliceStable(groups, func(a, b int) bool {
		for _, c := range keys {
			if r := c.Compare(groups[a].first, groups[b].first); r != 0 {
				return r < 0
			}
		}
		return false
	})
	return groups
}

func keyColumns(ds *dataset.Dataset, names []string) ([]*dataset.Column, error) {
	cols := make([]*dataset.Column, 0, len(names))
	for _, n := range names {
		c, err := ds.Column(n)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, nil
}

func firstRows(groups []*group) []int {
	out := make([]int, len(groups))
	for i, g := range groups {
		out[i] = g.first
	}
	return out
}

// GroupSummary groups by one or two character or datetime keys and applies
// each aggregation to value. Output columns are the keys followed by one
// column per aggregation, named after it ("mean", "sum", ...).
func GroupSummary(ds *dataset.Dataset, keys []string, value string, aggs []Kind) (*dataset.Dataset, error) {
	return summarize(ds, keys, []string{value}, aggs, func(_ string, k Kind) string { return k.String() })
}

// GroupSummaryMulti is GroupSummary over several value columns; output
// columns are named "<value>_<aggregation>".
func GroupSummaryMulti(ds *dataset.Dataset, keys []string, values []string, aggs []Kind) (*dataset.Dataset, error) {
	return summarize(ds, keys, values, aggs, func(v string, k Kind) string { return v + "_" + k.String() })
}

func summarize(ds *dataset.Dataset, keys, values []string, aggs []Kind, name func(string, Kind) string) (*dataset.Dataset, error) {
	if len(keys) < 1 || len(keys) > 2 {
		return nil, dataset.Invalid("group keys", strings.Join(keys, ","), "need one or two group keys, got %d", len(keys))
	}
	if len(aggs) == 0 {
		aggs = []Kind{Mean}
	}
	for _, k := range aggs {
		if k.String() == "" {
			return nil, dataset.Invalid("aggregation", "", "aggregation kind %d is not set", int(k))
		}
	}
	kcols, err := keyColumns(ds, keys)
	if err != nil {
		return nil, err
	}
	for _, c := range kcols {
		if dataset.Classify(c) == dataset.Numeric {
			return nil, dataset.DataState(dataset.ErrTypeMismatch, c.Name(), "group key must be character or datetime")
		}
	}
	vcols, err := keyColumns(ds, values)
	if err != nil {
		return nil, err
	}
	for _, c := range vcols {
		if dataset.Classify(c) != dataset.Numeric {
			return nil, dataset.DataState(dataset.ErrTypeMismatch, c.Name(), "aggregated column must be numeric, got %s", c.Kind())
		}
	}

	groups := groupRows(kcols, ds.NumRows())
	first := firstRows(groups)
	out := make([]*dataset.Column, 0, len(kcols)+len(vcols)*len(aggs))
	for _, c := range kcols {
		out = append(out, c.Take(first))
	}
	for _, vc := range vcols {
		per := make([][]float64, len(groups))
		for gi, g := range groups {
			for _, r := range g.rows {
				if v := vc.Value(r); v.Valid {
					per[gi] = append(per[gi], v.Num)
				}
			}
		}
		for _, k := range aggs {
			res := make([]float64, len(groups))
			for gi := range groups {
				res[gi] = k.Apply(per[gi])
			}
			out = append(out, dataset.Floats(name(vc.Name(), k), res...))
		}
	}
	return dataset.New(out...)
}

// CategoryCounts cross-tabulates one or more character columns. Columns are
// reordered by descending distinct count; rows are the observed combinations,
// most frequent first, with a count and a percentage share rounded to two
// decimals.
func CategoryCounts(ds *dataset.Dataset, columns []string) (*dataset.Dataset, error) {
	if len(columns) == 0 {
		return nil, dataset.Invalid("columns", "", "no columns to count")
	}
	kcols, err := keyColumns(ds, columns)
	if err != nil {
		return nil, err
	}
	for _, c := range kcols {
		if dataset.Classify(c) != dataset.Character {
			return nil, dataset.DataState(dataset.ErrTypeMismatch, c.Name(), "category counts need character columns, got %s", c.Kind())
		}
	}
	kcols = ByDistinctDesc(kcols)
	return countTable(kcols, ds.NumRows())
}

// ValueCounts counts each distinct value of a single column of any type,
// most frequent first.
func ValueCounts(ds *dataset.Dataset, column string) (*dataset.Dataset, error) {
	c, err := ds.Column(column)
	if err != nil {
		return nil, err
	}
	return countTable([]*dataset.Column{c}, ds.NumRows())
}

func countTable(kcols []*dataset.Column, nrows int) (*dataset.Dataset, error) {
	groups := groupRows(kcols, nrows)
	sort.SliceStable(groups, func(a, b int) bool { return len(groups[a].rows) > len(groups[b].rows) })
	total := 0
	for _, g := range groups {
		total += len(g.rows)
	}
	first := firstRows(groups)
	counts := make([]int64, len(groups))
	shares := make([]float64, len(groups))
	for i, g := range groups {
		counts[i] = int64(len(g.rows))
		shares[i] = stats.Round(float64(len(g.rows))/float64(total)*100, 2)
	}
	out := make([]*dataset.Column, 0, len(kcols)+2)
	for _, c := range kcols {
		out = append(out, c.Take(first))
	}
	out = append(out, dataset.Ints("count", counts...), dataset.Floats("proportion", shares...))
	return dataset.New(out...)
}

// ByDistinctDesc orders columns by descending distinct count, keeping the
// input order between ties.
func ByDistinctDesc(cols []*dataset.Column) []*dataset.Column {
	out := append([]*dataset.Column(nil), cols...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distinct() > out[j].Distinct() })
	return out
}
