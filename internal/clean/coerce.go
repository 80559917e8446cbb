// Package clean converts, prunes and derives columns. Every operation returns
// a new dataset and leaves its input untouched, also when it fails.
package clean

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/KaramelBytes/varsum/internal/dataset"
)

// Target is the type a column is coerced to.
type Target int

const (
	ToCharacter Target = iota
	ToInteger
	ToFloat
	ToBoolean
	ToDatetime
)

func (t Target) String() string {
	switch t {
	case ToCharacter:
		return "character"
	case ToInteger:
		return "integer"
	case ToFloat:
		return "float"
	case ToBoolean:
		return "boolean"
	case ToDatetime:
		return "datetime"
	default:
		return "unknown"
	}
}

// ParseTarget decodes a coercion target token.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "character", "string", "str":
		return ToCharacter, nil
	case "integer", "int":
		return ToInteger, nil
	case "float", "numeric":
		return ToFloat, nil
	case "boolean", "bool":
		return ToBoolean, nil
	case "datetime", "date":
		return ToDatetime, nil
	default:
		return 0, dataset.Invalid("target type", s, "unknown coercion target %q (use character|integer|float|boolean|datetime)", s)
	}
}

// CoerceResult is the outcome of a successful coercion.
type CoerceResult struct {
	Dataset *dataset.Dataset
	// EmptyColumns names the columns whose blank strings caused rows to be removed.
	EmptyColumns []string
	DroppedRows  int
}

// Coerce converts the named columns to target. Rows missing a value in any
// of those columns are removed first, then rows holding a blank string.
// Columns with no values at all are converted but do not drive row removal.
func Coerce(ds *dataset.Dataset, columns []string, target Target) (*CoerceResult, error) {
	if len(columns) == 0 {
		return nil, dataset.Invalid("columns", "", "no columns to coerce")
	}
	cols := make([]*dataset.Column, 0, len(columns))
	var active []*dataset.Column
	for _, name := range columns {
		c, err := ds.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
		if c.MissingCount() < c.Len() {
			active = append(active, c)
		}
	}
	if len(active) == 0 && ds.NumRows() > 0 {
		return nil, dataset.DataState(dataset.ErrAllMissing, "", "every selected column is entirely missing")
	}

	keep := make([]bool, ds.NumRows())
	for i := range keep {
		keep[i] = true
	}
	for _, c := range active {
		for i := range keep {
			if c.IsMissing(i) {
				keep[i] = false
			}
		}
	}
	var emptyCols []string
	for _, c := range active {
		hit := false
		for i := range keep {
			if keep[i] && c.IsEmpty(i) {
				keep[i] = false
				hit = true
			}
		}
		if hit {
			emptyCols = append(emptyCols, c.Name())
		}
	}
	kept := 0
	for _, k := range keep {
		if k {
			kept++
		}
	}
	if kept == 0 {
		return nil, dataset.DataState(dataset.ErrNoRows, "", "coercion to %s would remove every row", target)
	}

	out := ds.Filter(keep)
	for _, c := range cols {
		src, err := out.Column(c.Name())
		if err != nil {
			return nil, err
		}
		conv, err := convert(src, target)
		if err != nil {
			return nil, err
		}
		if out, err = out.With(conv); err != nil {
			return nil, err
		}
	}
	return &CoerceResult{Dataset: out, EmptyColumns: emptyCols, DroppedRows: ds.NumRows() - kept}, nil
}

func convert(c *dataset.Column, target Target) (*dataset.Column, error) {
	vals := c.Values()
	switch target {
	case ToCharacter:
		for i := range vals {
			if vals[i].Valid {
				vals[i] = dataset.Str(c.Format(i))
			}
		}
		return dataset.NewColumn(c.Name(), dataset.KindString, vals...), nil

	case ToInteger, ToFloat:
		for i, v := range vals {
			if !v.Valid {
				continue
			}
			x, err := toNumber(c, i)
			if err != nil {
				return nil, err
			}
			if target == ToInteger {
				x = math.Trunc(x)
			}
			vals[i] = dataset.Num(x)
		}
		if target == ToInteger {
			return dataset.NewColumn(c.Name(), dataset.KindInt, vals...), nil
		}
		return dataset.NewColumn(c.Name(), dataset.KindFloat, vals...), nil

	case ToBoolean:
		switch c.Kind() {
		case dataset.KindBool:
			return c, nil
		case dataset.KindInt, dataset.KindFloat:
			if n := c.Distinct(); n > 2 {
				return nil, dataset.DataState(dataset.ErrTypeMismatch, c.Name(), "numeric column has %d distinct values; boolean needs at most 2", n)
			}
			for i, v := range vals {
				if v.Valid {
					vals[i] = dataset.Bool(v.Num != 0)
				}
			}
		case dataset.KindString, dataset.KindCategory:
			for i, v := range vals {
				if !v.Valid {
					continue
				}
				b, ok := dataset.ParseBool(v.Str)
				if !ok {
					return nil, dataset.DataState(dataset.ErrTypeMismatch, c.Name(), "value %q is not one of t, true, f, false", v.Str)
				}
				vals[i] = dataset.Bool(b)
			}
		default:
			return nil, dataset.DataState(dataset.ErrTypeMismatch, c.Name(), "cannot convert %s to boolean", c.Kind())
		}
		return dataset.NewColumn(c.Name(), dataset.KindBool, vals...), nil

	case ToDatetime:
		switch c.Kind() {
		case dataset.KindDatetime:
			return c, nil
		case dataset.KindString, dataset.KindCategory:
			for i, v := range vals {
				if !v.Valid {
					continue
				}
				tm, ok := dataset.ParseTime(v.Str)
				if !ok {
					return nil, dataset.DataState(dataset.ErrTypeMismatch, c.Name(), "value %q is not a recognised date", v.Str)
				}
				vals[i] = dataset.Time(tm)
			}
			return dataset.NewColumn(c.Name(), dataset.KindDatetime, vals...), nil
		default:
			return nil, dataset.DataState(dataset.ErrTypeMismatch, c.Name(), "cannot convert %s to datetime", c.Kind())
		}
	}
	return nil, dataset.Invalid("target type", target.String(), "unsupported target")
}

func toNumber(c *dataset.Column, i int) (float64, error) {
	v := c.Value(i)
	switch c.Kind() {
	case dataset.KindInt, dataset.KindFloat:
		return v.Num, nil
	case dataset.KindBool:
		if v.Bool {
			return 1, nil
		}
		return 0, nil
	case dataset.KindString, dataset.KindCategory:
		if x, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64); err == nil {
			return x, nil
		}
		if x, ok := stripParse(v.Str); ok {
			return x, nil
		}
		return 0, dataset.DataState(dataset.ErrTypeMismatch, c.Name(), "value %q is not numeric", v.Str)
	default:
		return 0, dataset.DataState(dataset.ErrTypeMismatch, c.Name(), "cannot convert %s to a number", c.Kind())
	}
}

// stripParse drops letters and punctuation other than '.' and '-' and
// parses what is left, so "$1,200 USD" reads as 1200.
func stripParse(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r), r == '.', r == '-':
			b.WriteRune(r)
		case unicode.IsLetter(r), unicode.IsPunct(r), unicode.IsSymbol(r), unicode.IsSpace(r):
		default:
			b.WriteRune(r)
		}
	}
	x, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return x, true
}
