package ingest

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/varsum/internal/dataset"
)

// naTokens are read as missing values. Blank but non-empty cells are kept
// as text so the cleaning step can report them.
var naTokens = map[string]bool{
	"": true, "NA": true, "N/A": true, "NaN": true, "nan": true,
	"null": true, "NULL": true, "None": true,
}

func isNA(s string) bool { return naTokens[s] }

func isBlank(s string) bool { return s != "" && strings.TrimSpace(s) == "" }

// build turns a header and string records into typed columns. Short rows
// are padded with missing cells.
func build(header []string, records [][]string, nf dataset.NumberFormat) (*dataset.Dataset, error) {
	names := uniqueNames(header)
	cols := make([]*dataset.Column, len(names))
	for j, name := range names {
		raw := make([]string, len(records))
		for i, rec := range records {
			if j < len(rec) {
				raw[i] = rec[j]
			}
		}
		cols[j] = inferColumn(name, raw, nf)
	}
	return dataset.New(cols...)
}

// uniqueNames trims header cells, names blank ones by position and
// suffixes repeats so every column is addressable.
func uniqueNames(header []string) []string {
	seen := map[string]int{}
	out := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		} else {
			seen[name] = 1
		}
		out[i] = name
	}
	return out
}

// inferColumn tries bool, int, float and datetime in that order and falls
// back to text. A column with any blank cell stays text; an all-missing
// column is float.
func inferColumn(name string, raw []string, nf dataset.NumberFormat) *dataset.Column {
	present := 0
	for _, s := range raw {
		if isBlank(s) {
			return textColumn(name, raw)
		}
		if !isNA(s) {
			present++
		}
	}
	if present == 0 {
		return dataset.NewColumn(name, dataset.KindFloat, make([]dataset.Value, len(raw))...)
	}
	if vals, ok := convert(raw, func(s string) (dataset.Value, bool) {
		b, ok := dataset.ParseBool(s)
		return dataset.Bool(b), ok
	}); ok {
		return dataset.NewColumn(name, dataset.KindBool, vals...)
	}
	if vals, ok := convert(raw, func(s string) (dataset.Value, bool) {
		n, ok := dataset.ParseInt(s)
		return dataset.Num(float64(n)), ok
	}); ok {
		return dataset.NewColumn(name, dataset.KindInt, vals...)
	}
	if vals, ok := convert(raw, func(s string) (dataset.Value, bool) {
		f, ok := dataset.ParseNumber(s, nf)
		return dataset.Num(f), ok
	}); ok {
		return dataset.NewColumn(name, dataset.KindFloat, vals...)
	}
	if vals, ok := convert(raw, func(s string) (dataset.Value, bool) {
		t, ok := dataset.ParseTime(s)
		return dataset.Time(t), ok
	}); ok {
		return dataset.NewColumn(name, dataset.KindDatetime, vals...)
	}
	return textColumn(name, raw)
}

func convert(raw []string, parse func(string) (dataset.Value, bool)) ([]dataset.Value, bool) {
	out := make([]dataset.Value, len(raw))
	for i, s := range raw {
		if isNA(s) {
			continue
		}
		v, ok := parse(s)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func textColumn(name string, raw []string) *dataset.Column {
	vals := make([]dataset.Value, len(raw))
	for i, s := range raw {
		if !isNA(s) {
			vals[i] = dataset.Str(s)
		}
	}
	return dataset.NewColumn(name, dataset.KindString, vals...)
}
