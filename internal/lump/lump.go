// Package lump collapses rare category levels into a single bucket.
package lump

import (
	"sort"

	"github.com/KaramelBytes/varsum/internal/dataset"
)

const (
	DefaultKeepN      = 10
	DefaultOtherLabel = "Others"
	// Suffix is appended to the source name to form the derived column.
	Suffix = "_lump"
)

// Result describes a lumping call.
type Result struct {
	Dataset *dataset.Dataset
	// Column is the column to read: the derived one when Lumped, else the source.
	Column string
	Lumped bool
	// Kept lists the retained levels, most frequent first.
	Kept []string
}

// Level is a category value with its frequency.
type Level struct {
	Value string
	Count int
}

// Frequencies counts present values of c, most frequent first and ties by
// value ascending.
func Frequencies(c *dataset.Column) []Level {
	counts := map[string]int{}
	for i := 0; i < c.Len(); i++ {
		if !c.IsMissing(i) {
			counts[c.Key(i)]++
		}
	}
	out := make([]Level, 0, len(counts))
	for v, n := range counts {
		out = append(out, Level{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	return out
}

// Lump keeps the keepN most frequent values of column and maps every other
// cell, missing ones included, to otherLabel in a new column named
// column+Suffix. When the column has keepN distinct values or fewer the
// dataset is returned as is.
func Lump(ds *dataset.Dataset, column string, keepN int, otherLabel string) (*Result, error) {
	if keepN < 1 {
		return nil, dataset.Invalid("keep_n", "", "keep_n must be at least 1, got %d", keepN)
	}
	if otherLabel == "" {
		otherLabel = DefaultOtherLabel
	}
	c, err := ds.Column(column)
	if err != nil {
		return nil, err
	}
	if dataset.Classify(c) != dataset.Character {
		return nil, dataset.DataState(dataset.ErrTypeMismatch, column, "lumping needs a character column, got %s", c.Kind())
	}
	freq := Frequencies(c)
	if len(freq) <= keepN {
		kept := make([]string, len(freq))
		for i, l := range freq {
			kept[i] = l.Value
		}
		return &Result{Dataset: ds, Column: column, Kept: kept}, nil
	}

	keep := make(map[string]bool, keepN)
	levels := make([]string, 0, keepN+1)
	for _, l := range freq[:keepN] {
		keep[l.Value] = true
		levels = append(levels, l.Value)
	}
	kept := append([]string(nil), levels...)
	if !keep[otherLabel] {
		levels = append(levels, otherLabel)
	}
	vals := make([]dataset.Value, c.Len())
	for i := range vals {
		k := c.Key(i)
		if !c.IsMissing(i) && keep[k] {
			vals[i] = dataset.Str(k)
		} else {
			vals[i] = dataset.Str(otherLabel)
		}
	}
	derived := dataset.NewCategorical(column+Suffix, vals, levels, false)
	out, err := ds.With(derived)
	if err != nil {
		return nil, err
	}
	return &Result{Dataset: out, Column: derived.Name(), Lumped: true, Kept: kept}, nil
}
