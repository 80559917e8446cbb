// Package dataset holds the immutable column-oriented table every analysis works on.
//
// A Dataset never changes after construction. Operations that filter rows or
// add columns return a new Dataset; unchanged columns are shared between the
// two because columns are immutable too.
package dataset

import (
	"fmt"
	"strings"
)

// Dataset is an ordered set of uniquely named columns of equal length.
type Dataset struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// New assembles a dataset. Column names must be unique and non-empty and
// every column must have the same length.
func New(cols ...*Column) (*Dataset, error) {
	d := &Dataset{index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if c == nil {
			return nil, Invalid("column", "", "column %d is nil", i)
		}
		name := c.Name()
		if strings.TrimSpace(name) == "" {
			return nil, Invalid("column", name, "column %d has an empty name", i)
		}
		if _, dup := d.index[name]; dup {
			return nil, Invalid("column", name, "duplicate column name %q", name)
		}
		if i == 0 {
			d.rows = c.Len()
		} else if c.Len() != d.rows {
			return nil, Invalid("column", name, "column %q has %d rows, want %d", name, c.Len(), d.rows)
		}
		d.index[name] = i
		d.cols = append(d.cols, c)
	}
	return d, nil
}

// MustNew is like New but panics on error. Intended for fixtures.
func MustNew(cols ...*Column) *Dataset {
	d, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Dataset) NumRows() int { return d.rows }
func (d *Dataset) NumCols() int { return len(d.cols) }

// Names returns the column names in order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.cols))
	for i, c := range d.cols {
		out[i] = c.Name()
	}
	return out
}

// Columns returns the columns in order.
func (d *Dataset) Columns() []*Column { return append([]*Column(nil), d.cols...) }

// Col returns the i-th column.
func (d *Dataset) Col(i int) *Column { return d.cols[i] }

// Has reports whether a column with the given name exists.
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Column looks up a column by name.
func (d *Dataset) Column(name string) (*Column, error) {
	i, ok := d.index[name]
	if !ok {
		return nil, &ValidationError{Field: "column", Value: name, Msg: fmt.Sprintf("unknown column %q", name), Err: ErrUnknownColumn}
	}
	return d.cols[i], nil
}

// Take returns a dataset containing the rows at idx, in that order.
func (d *Dataset) Take(idx []int) *Dataset {
	cols := make([]*Column, len(d.cols))
	for i, c := range d.cols {
		cols[i] = c.Take(idx)
	}
	return &Dataset{cols: cols, index: d.index, rows: len(idx)}
}

// Filter keeps the rows whose keep flag is true.
func (d *Dataset) Filter(keep []bool) *Dataset {
	idx := make([]int, 0, d.rows)
	for i := 0; i < d.rows && i < len(keep); i++ {
		if keep[i] {
			idx = append(idx, i)
		}
	}
	return d.Take(idx)
}

// With returns a dataset where col replaces the same-named column, or is
// appended when no such column exists.
func (d *Dataset) With(col *Column) (*Dataset, error) {
	cols := d.Columns()
	if i, ok := d.index[col.Name()]; ok {
		cols[i] = col
	} else {
		cols = append(cols, col)
	}
	return New(cols...)
}

// Select returns a dataset with only the named columns, in the given order.
func (d *Dataset) Select(names ...string) (*Dataset, error) {
	cols := make([]*Column, 0, len(names))
	for _, n := range names {
		c, err := d.Column(n)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	sel, err := New(cols...)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		sel.rows = d.rows
	}
	return sel, nil
}

// Drop returns a dataset without the named columns. Unknown names are ignored.
func (d *Dataset) Drop(names ...string) *Dataset {
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}
	var cols []*Column
	for _, c := range d.cols {
		if !skip[c.Name()] {
			cols = append(cols, c)
		}
	}
	out, _ := New(cols...)
	if len(cols) == 0 {
		out.rows = d.rows
	}
	return out
}
