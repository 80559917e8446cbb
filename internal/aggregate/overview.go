package aggregate

import (
	"sort"
	"strings"

	"github.com/KaramelBytes/varsum/internal/dataset"
	"github.com/KaramelBytes/varsum/internal/stats"
)

// Structure counts rows, columns and columns per semantic type.
type Structure struct {
	Rows      int `json:"rows"`
	Columns   int `json:"columns"`
	Numeric   int `json:"numeric"`
	Character int `json:"character"`
	Datetime  int `json:"datetime"`
}

// StructureOf summarises the shape of ds.
func StructureOf(ds *dataset.Dataset) Structure {
	s := Structure{Rows: ds.NumRows(), Columns: ds.NumCols()}
	for _, c := range ds.Columns() {
		switch dataset.Classify(c) {
		case dataset.Numeric:
			s.Numeric++
		case dataset.Character:
			s.Character++
		default:
			s.Datetime++
		}
	}
	return s
}

// TypeTable lists each column with its physical kind and semantic type.
func TypeTable(ds *dataset.Dataset) (*dataset.Dataset, error) {
	cols := ds.Columns()
	names, kinds, types := make([]string, len(cols)), make([]string, len(cols)), make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name()
		kinds[i] = c.Kind().String()
		types[i] = dataset.Classify(c).String()
	}
	return dataset.New(
		dataset.Strings(ColVariable, names...),
		dataset.Strings("kind", kinds...),
		dataset.Strings("type", types...),
	)
}

// MissingReport lists columns with missing values, most missing first, with
// the count and its percentage of rows.
func MissingReport(ds *dataset.Dataset) (*dataset.Dataset, error) {
	type entry struct {
		name string
		n    int
	}
	var entries []entry
	for _, c := range ds.Columns() {
		if n := c.MissingCount(); n > 0 {
			entries = append(entries, entry{c.Name(), n})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].n > entries[j].n })
	names := make([]string, len(entries))
	counts := make([]int64, len(entries))
	pcts := make([]float64, len(entries))
	for i, e := range entries {
		names[i] = e.name
		counts[i] = int64(e.n)
		pcts[i] = stats.Round(float64(e.n)/float64(ds.NumRows())*100, 2)
	}
	return dataset.New(
		dataset.Strings(ColVariable, names...),
		dataset.Ints("missing", counts...),
		dataset.Floats("percent", pcts...),
	)
}

// UniqueValues previews the distinct values of each character column in
// first-seen order. Columns with more than maxShown values are cut short
// and end in "...".
func UniqueValues(ds *dataset.Dataset, maxShown int) (*dataset.Dataset, error) {
	if maxShown < 1 {
		maxShown = 9
	}
	var names, previews []string
	var counts []int64
	for _, c := range ds.Columns() {
		if dataset.Classify(c) != dataset.Character {
			continue
		}
		seen := map[string]bool{}
		var order []string
		for i := 0; i < c.Len(); i++ {
			if c.IsMissing(i) {
				continue
			}
			k := c.Format(i)
			if !seen[k] {
				seen[k] = true
				order = append(order, k)
			}
		}
		preview := order
		if len(order) > maxShown {
			preview = append(append([]string(nil), order[:maxShown]...), "...")
		}
		names = append(names, c.Name())
		counts = append(counts, int64(len(order)))
		previews = append(previews, strings.Join(preview, ", "))
	}
	return dataset.New(
		dataset.Strings(ColVariable, names...),
		dataset.Ints("unique", counts...),
		dataset.Strings("values", previews...),
	)
}

// Correlation returns the Pearson matrix of the given numeric columns using
// pairwise complete observations. An empty list uses every numeric column.
func Correlation(ds *dataset.Dataset, columns []string) (*dataset.Dataset, error) {
	if len(columns) == 0 {
		columns = dataset.NamesOf(ds, dataset.Numeric)
	}
	cols, err := keyColumns(ds, columns)
	if err != nil {
		return nil, err
	}
	for _, c := range cols {
		if dataset.Classify(c) != dataset.Numeric {
			return nil, dataset.DataState(dataset.ErrTypeMismatch, c.Name(), "correlation needs numeric columns, got %s", c.Kind())
		}
	}
	n := len(cols)
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
		mat[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			var acc stats.PairAcc
			for r := 0; r < ds.NumRows(); r++ {
				a, b := cols[i].Value(r), cols[j].Value(r)
				if a.Valid && b.Valid {
					acc.Add(a.Num, b.Num)
				}
			}
			mat[i][j] = acc.R()
			mat[j][i] = mat[i][j]
		}
	}
	out := []*dataset.Column{dataset.Strings(ColVariable, columns...)}
	for j, c := range cols {
		col := make([]float64, n)
		for i := range col {
			col[i] = mat[i][j]
		}
		out = append(out, dataset.Floats(c.Name(), col...))
	}
	return dataset.New(out...)
}
