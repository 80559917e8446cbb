package aggregate

import (
	"github.com/KaramelBytes/varsum/internal/dataset"
	"github.com/KaramelBytes/varsum/internal/stats"
)

// Column names of the Describe table.
const (
	ColVariable = "variable"
	ColMinimum  = "minimum"
	ColQ25      = "Q_25"
	ColMedian   = "median"
	ColMean     = "mean"
	ColStd      = "std"
	ColQ75      = "Q_75"
	ColMaximum  = "maximum"
)

// Describe returns one row per numeric column with its minimum, quartiles,
// median, mean, sample standard deviation and maximum. An empty column list
// describes every numeric column.
func Describe(ds *dataset.Dataset, columns []string) (*dataset.Dataset, error) {
	if len(columns) == 0 {
		columns = dataset.NamesOf(ds, dataset.Numeric)
	}
	cols, err := keyColumns(ds, columns)
	if err != nil {
		return nil, err
	}
	n := len(cols)
	names := make([]string, n)
	mins, q25s, meds, means, stds, q75s, maxs := make([]float64, n), make([]float64, n), make([]float64, n),
		make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	for i, c := range cols {
		if dataset.Classify(c) != dataset.Numeric {
			return nil, dataset.DataState(dataset.ErrTypeMismatch, c.Name(), "describe needs a numeric column, got %s", c.Kind())
		}
		names[i] = c.Name()
		s := stats.Sorted(c.Floats())
		mins[i], maxs[i] = stats.MinMax(s)
		q25s[i] = stats.Quantile(s, 0.25)
		meds[i] = stats.Quantile(s, 0.5)
		q75s[i] = stats.Quantile(s, 0.75)
		means[i], stds[i] = stats.MeanStd(s)
	}
	return dataset.New(
		dataset.Strings(ColVariable, names...),
		dataset.Floats(ColMinimum, mins...),
		dataset.Floats(ColQ25, q25s...),
		dataset.Floats(ColMedian, meds...),
		dataset.Floats(ColMean, means...),
		dataset.Floats(ColStd, stds...),
		dataset.Floats(ColQ75, q75s...),
		dataset.Floats(ColMaximum, maxs...),
	)
}
