package clean

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/KaramelBytes/varsum/internal/dataset"
)

// Coercion converts Columns to the type named by Target.
type Coercion struct {
	Columns []string `yaml:"columns" json:"columns"`
	Target  string   `yaml:"target" json:"target"`
}

// Extraction derives calendar Parts from a datetime Column.
type Extraction struct {
	Column string   `yaml:"column" json:"column"`
	Parts  []string `yaml:"parts" json:"parts"`
}

// Plan lists the cleaning steps to run, in order: drop missing data, coerce
// columns, then extract date parts. Empty fields are skipped.
type Plan struct {
	Drop       string       `yaml:"drop" json:"drop"`
	Percentage *float64     `yaml:"percentage" json:"percentage"`
	Coercions  []Coercion   `yaml:"coercions" json:"coercions"`
	Extract    []Extraction `yaml:"extract" json:"extract"`
}

// Outcome is the result of running a Plan.
type Outcome struct {
	Dataset      *dataset.Dataset
	EmptyColumns []string
	DroppedRows  int
	Steps        []string
}

type step struct {
	name string
	run  func(*dataset.Dataset, *Outcome) (*dataset.Dataset, error)
}

// Apply decodes plan and runs its steps. Any failure aborts the whole run and
// returns the untouched input alongside the error.
func Apply(ds *dataset.Dataset, plan Plan, logger *slog.Logger) (*Outcome, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	steps, err := compile(plan)
	if err != nil {
		return &Outcome{Dataset: ds}, err
	}
	out := &Outcome{}
	cur := ds
	for _, s := range steps {
		next, err := s.run(cur, out)
		if err != nil {
			logger.Warn("cleaning step failed", "step", s.name, "error", err)
			return &Outcome{Dataset: ds}, fmt.Errorf("%s: %w", s.name, err)
		}
		logger.Debug("cleaning step applied", "step", s.name, "rows", next.NumRows(), "cols", next.NumCols())
		out.Steps = append(out.Steps, s.name)
		cur = next
	}
	out.Dataset = cur
	return out, nil
}

func compile(plan Plan) ([]step, error) {
	var steps []step
	if plan.Drop != "" {
		strategy, err := ParseDropStrategy(plan.Drop)
		if err != nil {
			return nil, err
		}
		pct := plan.Percentage
		steps = append(steps, step{
			name: "drop " + strategy.String(),
			run: func(d *dataset.Dataset, o *Outcome) (*dataset.Dataset, error) {
				next, err := DropMissing(d, strategy, pct)
				if err == nil {
					o.DroppedRows += d.NumRows() - next.NumRows()
				}
				return next, err
			},
		})
	}
	for _, c := range plan.Coercions {
		target, err := ParseTarget(c.Target)
		if err != nil {
			return nil, err
		}
		cols := append([]string(nil), c.Columns...)
		steps = append(steps, step{
			name: fmt.Sprintf("coerce %v to %s", cols, target),
			run: func(d *dataset.Dataset, o *Outcome) (*dataset.Dataset, error) {
				res, err := Coerce(d, cols, target)
				if err != nil {
					return nil, err
				}
				o.EmptyColumns = append(o.EmptyColumns, res.EmptyColumns...)
				o.DroppedRows += res.DroppedRows
				return res.Dataset, nil
			},
		})
	}
	for _, e := range plan.Extract {
		parts := make([]DatePart, 0, len(e.Parts))
		for _, p := range e.Parts {
			dp, err := ParseDatePart(p)
			if err != nil {
				return nil, err
			}
			parts = append(parts, dp)
		}
		col := e.Column
		steps = append(steps, step{
			name: "extract " + col,
			run: func(d *dataset.Dataset, _ *Outcome) (*dataset.Dataset, error) {
				return ExtractDatetimeFields(d, col, parts)
			},
		})
	}
	return steps, nil
}
