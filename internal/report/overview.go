package report

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/varsum/internal/aggregate"
	"github.com/KaramelBytes/varsum/internal/dataset"
)

// uniquePreview is how many distinct values the overview lists per column.
const uniquePreview = 9

// Overview is a first look at a dataset.
type Overview struct {
	Name      string
	Structure aggregate.Structure
	Types     *dataset.Dataset
	Missing   *dataset.Dataset
	Numeric   *dataset.Dataset
	Character *dataset.Dataset
	Corr      *dataset.Dataset
	Warnings  []string
}

// Inspect builds the overview tables for ds.
func Inspect(name string, ds *dataset.Dataset) (*Overview, error) {
	ov := &Overview{Name: name, Structure: aggregate.StructureOf(ds)}
	var err error
	if ov.Types, err = aggregate.TypeTable(ds); err != nil {
		return nil, fmt.Errorf("type table: %w", err)
	}
	if ov.Missing, err = aggregate.MissingReport(ds); err != nil {
		return nil, fmt.Errorf("missing report: %w", err)
	}
	if ov.Numeric, err = aggregate.Describe(ds, nil); err != nil {
		return nil, fmt.Errorf("describe: %w", err)
	}
	if ov.Character, err = aggregate.UniqueValues(ds, uniquePreview); err != nil {
		return nil, fmt.Errorf("unique values: %w", err)
	}
	if ov.Structure.Numeric > 1 {
		if ov.Corr, err = aggregate.Correlation(ds, nil); err != nil {
			return nil, fmt.Errorf("correlation: %w", err)
		}
	}
	for _, c := range ds.Columns() {
		if dataset.Classify(c) != dataset.Character {
			continue
		}
		for i := 0; i < c.Len(); i++ {
			if c.IsEmpty(i) {
				ov.Warnings = append(ov.Warnings, fmt.Sprintf("column %q contains blank values", c.Name()))
				break
			}
		}
	}
	return ov, nil
}

// Markdown renders the overview as sectioned text.
func (o *Overview) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if o.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", o.Name))
	}
	s := o.Structure
	b.WriteString(fmt.Sprintf("Rows: %d\n", s.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d (numeric %d, character %d, datetime %d)\n\n", s.Columns, s.Numeric, s.Character, s.Datetime))

	section(&b, "SCHEMA", o.Types)
	if o.Missing != nil && o.Missing.NumRows() > 0 {
		section(&b, "MISSING VALUES", o.Missing)
	} else {
		b.WriteString("[MISSING VALUES]\nnone\n\n")
	}
	section(&b, "NUMERIC SUMMARY", o.Numeric)
	section(&b, "CHARACTER VALUES", o.Character)
	section(&b, "CORRELATIONS", o.Corr)
	if len(o.Warnings) > 0 {
		b.WriteString("[WARNINGS]\n")
		for _, w := range o.Warnings {
			b.WriteString("- " + w + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func section(b *strings.Builder, title string, t *dataset.Dataset) {
	if t == nil || t.NumRows() == 0 {
		return
	}
	b.WriteString("[" + title + "]\n")
	b.WriteString(newWriter(t).RenderMarkdown())
	b.WriteString("\n\n")
}
