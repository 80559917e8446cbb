package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the physical representation of a column.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindCategory
	KindDatetime
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "boolean"
	case KindCategory:
		return "category"
	case KindDatetime:
		return "datetime"
	default:
		return "unknown"
	}
}

// Value is a single cell. The zero Value is missing.
type Value struct {
	Num   float64
	Str   string
	Time  time.Time
	Bool  bool
	Valid bool
}

// Null returns a missing cell.
func Null() Value { return Value{} }

// Num returns a numeric cell; NaN is treated as missing.
func Num(x float64) Value {
	if math.IsNaN(x) {
		return Value{}
	}
	return Value{Num: x, Valid: true}
}

// Str returns a text cell.
func Str(s string) Value { return Value{Str: s, Valid: true} }

// Time returns a datetime cell.
func Time(t time.Time) Value { return Value{Time: t, Valid: true} }

// Bool returns a boolean cell.
func Bool(b bool) Value { return Value{Bool: b, Valid: true} }

// Column is an immutable, named sequence of cells of one Kind.
type Column struct {
	name    string
	kind    Kind
	vals    []Value
	levels  []string
	ordered bool
}

// NewColumn copies vals into a new column.
func NewColumn(name string, kind Kind, vals ...Value) *Column {
	cp := make([]Value, len(vals))
	copy(cp, vals)
	if kind == KindInt {
		for i := range cp {
			cp[i].Num = math.Trunc(cp[i].Num)
		}
	}
	return &Column{name: name, kind: kind, vals: cp}
}

// NewCategorical builds a category column with an explicit level order.
// Values outside levels are kept; they sort after every declared level.
func NewCategorical(name string, vals []Value, levels []string, ordered bool) *Column {
	c := NewColumn(name, KindCategory, vals...)
	c.levels = append([]string(nil), levels...)
	c.ordered = ordered
	return c
}

// Floats builds a float column; NaN entries are missing.
func Floats(name string, xs ...float64) *Column {
	vals := make([]Value, len(xs))
	for i, x := range xs {
		vals[i] = Num(x)
	}
	return &Column{name: name, kind: KindFloat, vals: vals}
}

// Ints builds an integer column.
func Ints(name string, xs ...int64) *Column {
	vals := make([]Value, len(xs))
	for i, x := range xs {
		vals[i] = Num(float64(x))
	}
	return &Column{name: name, kind: KindInt, vals: vals}
}

// Strings builds a text column with every cell present.
func Strings(name string, ss ...string) *Column {
	vals := make([]Value, len(ss))
	for i, s := range ss {
		vals[i] = Str(s)
	}
	return &Column{name: name, kind: KindString, vals: vals}
}

// Times builds a datetime column; zero times are missing.
func Times(name string, ts ...time.Time) *Column {
	vals := make([]Value, len(ts))
	for i, t := range ts {
		if !t.IsZero() {
			vals[i] = Time(t)
		}
	}
	return &Column{name: name, kind: KindDatetime, vals: vals}
}

// Bools builds a boolean column.
func Bools(name string, bs ...bool) *Column {
	vals := make([]Value, len(bs))
	for i, b := range bs {
		vals[i] = Bool(b)
	}
	return &Column{name: name, kind: KindBool, vals: vals}
}

func (c *Column) Name() string { return c.name }
func (c *Column) Kind() Kind   { return c.kind }
func (c *Column) Len() int     { return len(c.vals) }

// Value returns the i-th cell.
func (c *Column) Value(i int) Value { return c.vals[i] }

// Values returns a copy of all cells.
func (c *Column) Values() []Value {
	cp := make([]Value, len(c.vals))
	copy(cp, c.vals)
	return cp
}

// Levels returns the declared category levels, if any.
func (c *Column) Levels() []string { return append([]string(nil), c.levels...) }

// Ordered reports whether the category levels carry a meaningful order.
func (c *Column) Ordered() bool { return c.ordered }

// IsMissing reports whether cell i has no value.
func (c *Column) IsMissing(i int) bool { return !c.vals[i].Valid }

// IsEmpty reports whether cell i is a present but blank string.
func (c *Column) IsEmpty(i int) bool {
	if c.kind != KindString && c.kind != KindCategory {
		return false
	}
	v := c.vals[i]
	return v.Valid && strings.TrimSpace(v.Str) == ""
}

// MissingCount returns the number of missing cells.
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.vals {
		if !v.Valid {
			n++
		}
	}
	return n
}

// Floats returns the present numeric values in row order.
func (c *Column) Floats() []float64 {
	out := make([]float64, 0, len(c.vals))
	for _, v := range c.vals {
		if v.Valid {
			out = append(out, v.Num)
		}
	}
	return out
}

// Key returns a comparable text form of cell i, used for grouping.
// Missing cells return "".
func (c *Column) Key(i int) string {
	v := c.vals[i]
	if !v.Valid {
		return ""
	}
	switch c.kind {
	case KindInt:
		return strconv.FormatInt(int64(v.Num), 10)
	case KindFloat:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindDatetime:
		return v.Time.Format(time.RFC3339Nano)
	default:
		return v.Str
	}
}

// Format renders cell i for display. Missing cells render as "".
func (c *Column) Format(i int) string {
	v := c.vals[i]
	if !v.Valid {
		return ""
	}
	if c.kind == KindDatetime {
		return FormatTime(v.Time)
	}
	return c.Key(i)
}

// Distinct returns the number of distinct present values.
func (c *Column) Distinct() int {
	seen := make(map[string]struct{})
	for i, v := range c.vals {
		if v.Valid {
			seen[c.Key(i)] = struct{}{}
		}
	}
	return len(seen)
}

// Compare orders cells i and j of the column. Missing cells sort last.
func (c *Column) Compare(i, j int) int {
	a, b := c.vals[i], c.vals[j]
	switch {
	case !a.Valid && !b.Valid:
		return 0
	case !a.Valid:
		return 1
	case !b.Valid:
		return -1
	}
	switch c.kind {
	case KindInt, KindFloat:
		return cmpFloat(a.Num, b.Num)
	case KindBool:
		return cmpBool(a.Bool, b.Bool)
	case KindDatetime:
		return a.Time.Compare(b.Time)
	case KindCategory:
		if len(c.levels) > 0 {
			li, lj := c.levelIndex(a.Str), c.levelIndex(b.Str)
			if li != lj {
				return li - lj
			}
		}
	}
	return strings.Compare(a.Str, b.Str)
}

func (c *Column) levelIndex(s string) int {
	for i, l := range c.levels {
		if l == s {
			return i
		}
	}
	return len(c.levels)
}

// Take returns a new column holding the cells at idx, in that order.
func (c *Column) Take(idx []int) *Column {
	vals := make([]Value, len(idx))
	for k, i := range idx {
		vals[k] = c.vals[i]
	}
	return &Column{name: c.name, kind: c.kind, vals: vals, levels: c.levels, ordered: c.ordered}
}

// Rename returns a copy of the column under a new name.
func (c *Column) Rename(name string) *Column {
	cp := *c
	cp.name = name
	return &cp
}

// FormatTime prints a timestamp, dropping the clock when it is midnight.
func FormatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
