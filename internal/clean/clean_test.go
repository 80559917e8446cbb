package clean

import (
	"errors"
	"testing"
	"time"

	"github.com/KaramelBytes/varsum/internal/dataset"
	"github.com/KaramelBytes/varsum/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func salesFixture(t *testing.T) *dataset.Dataset {
	t.Helper()
	return dataset.MustNew(
		dataset.NewColumn("amount", dataset.KindString,
			dataset.Str("$1,200 USD"), dataset.Str("35.5"), dataset.Str(" "), dataset.Null(), dataset.Str("7")),
		dataset.NewColumn("flag", dataset.KindString,
			dataset.Str("T"), dataset.Str("false"), dataset.Str("true"), dataset.Str("f"), dataset.Str("F")),
		dataset.Ints("units", 1, 0, 1, 1, 0),
		dataset.Floats("score", 1, 2, 3, 4, 5),
		dataset.Times("sold", day(2024, 3, 1), day(2024, 1, 15), day(2023, 12, 31), day(2024, 7, 4), day(2024, 11, 30)),
	)
}

func TestCoerceToFloatDropsMissingAndEmptyRows(t *testing.T) {
	ds := salesFixture(t)
	res, err := Coerce(ds, []string{"amount"}, ToFloat)
	require.NoError(t, err)

	assert.Equal(t, []string{"amount"}, res.EmptyColumns)
	assert.Equal(t, 2, res.DroppedRows)
	amount, err := res.Dataset.Column("amount")
	require.NoError(t, err)
	assert.Equal(t, dataset.KindFloat, amount.Kind())
	assert.Equal(t, []float64{1200, 35.5, 7}, amount.Floats())
	assert.Equal(t, dataset.Numeric, dataset.Classify(amount))

	orig, _ := ds.Column("amount")
	assert.Equal(t, dataset.KindString, orig.Kind(), "input must not change")
	assert.Equal(t, 5, ds.NumRows())
}

func TestCoerceStripsGroupingPunctuation(t *testing.T) {
	ds := dataset.MustNew(dataset.Strings("amount", "1,200", "1,234,567", "$1,200 USD", "-3.25", "12%"))
	res, err := Coerce(ds, []string{"amount"}, ToFloat)
	require.NoError(t, err)
	amount, err := res.Dataset.Column("amount")
	require.NoError(t, err)
	assert.Equal(t, []float64{1200, 1234567, 1200, -3.25, 12}, amount.Floats())
	assert.Zero(t, res.DroppedRows)
}

func TestCoerceToIntegerTruncates(t *testing.T) {
	ds := dataset.MustNew(dataset.Floats("x", 1.9, -2.7, 3))
	res, err := Coerce(ds, []string{"x"}, ToInteger)
	require.NoError(t, err)
	x, _ := res.Dataset.Column("x")
	assert.Equal(t, dataset.KindInt, x.Kind())
	assert.Equal(t, []float64{1, -2, 3}, x.Floats())
}

func TestCoerceToBoolean(t *testing.T) {
	ds := salesFixture(t)

	res, err := Coerce(ds, []string{"flag"}, ToBoolean)
	require.NoError(t, err)
	flag, _ := res.Dataset.Column("flag")
	var got []bool
	for _, v := range flag.Values() {
		got = append(got, v.Bool)
	}
	assert.Equal(t, []bool{true, false, true, false, false}, got)

	res, err = Coerce(ds, []string{"units"}, ToBoolean)
	require.NoError(t, err)
	units, _ := res.Dataset.Column("units")
	assert.Equal(t, dataset.KindBool, units.Kind())

	_, err = Coerce(ds, []string{"score"}, ToBoolean)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dataset.ErrTypeMismatch))
	assert.True(t, errors.Is(err, dataset.ErrDataState))

	bad := dataset.MustNew(dataset.Strings("s", "true", "maybe"))
	_, err = Coerce(bad, []string{"s"}, ToBoolean)
	assert.True(t, errors.Is(err, dataset.ErrTypeMismatch))
}

func TestCoerceRefusesToRemoveEveryRow(t *testing.T) {
	ds := dataset.MustNew(
		dataset.NewColumn("a", dataset.KindString, dataset.Str(" "), dataset.Null()),
		dataset.Floats("b", 1, 2),
	)
	_, err := Coerce(ds, []string{"a"}, ToFloat)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dataset.ErrNoRows))

	allMissing := dataset.MustNew(dataset.NewColumn("a", dataset.KindFloat, dataset.Null(), dataset.Null()))
	_, err = Coerce(allMissing, []string{"a"}, ToCharacter)
	assert.True(t, errors.Is(err, dataset.ErrAllMissing))
}

func TestCoerceToCharacterAndDatetime(t *testing.T) {
	ds := dataset.MustNew(
		dataset.Floats("n", 1.5, 2),
		dataset.Strings("d", "2024-01-02", "2024/02/03"),
	)
	res, err := Coerce(ds, []string{"n"}, ToCharacter)
	require.NoError(t, err)
	n, _ := res.Dataset.Column("n")
	assert.Equal(t, dataset.Character, dataset.Classify(n))
	assert.Equal(t, "1.5", n.Format(0))

	res, err = Coerce(ds, []string{"d"}, ToDatetime)
	require.NoError(t, err)
	d, _ := res.Dataset.Column("d")
	assert.Equal(t, dataset.Datetime, dataset.Classify(d))
	assert.Equal(t, time.February, d.Value(1).Time.Month())

	_, err = Coerce(ds, []string{"n"}, ToDatetime)
	assert.True(t, errors.Is(err, dataset.ErrTypeMismatch))
}

func TestParseTokens(t *testing.T) {
	_, err := ParseTarget("complex")
	assert.True(t, errors.Is(err, dataset.ErrValidation))
	tg, err := ParseTarget("Date")
	require.NoError(t, err)
	assert.Equal(t, ToDatetime, tg)

	_, err = ParseDropStrategy("sometimes")
	assert.True(t, errors.Is(err, dataset.ErrValidation))
	_, err = ParseDatePart("fortnight")
	assert.True(t, errors.Is(err, dataset.ErrValidation))
}

func TestDropMissingStrategies(t *testing.T) {
	ds := dataset.MustNew(
		dataset.NewColumn("full", dataset.KindFloat, dataset.Num(1), dataset.Num(2), dataset.Num(3), dataset.Num(4)),
		dataset.NewColumn("half", dataset.KindFloat, dataset.Num(1), dataset.Null(), dataset.Num(3), dataset.Null()),
		dataset.NewColumn("none", dataset.KindFloat, dataset.Null(), dataset.Null(), dataset.Null(), dataset.Null()),
	)

	out, err := DropMissing(ds, DropAnyCols, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"full"}, out.Names())

	out, err = DropMissing(ds, DropEmptyCols, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"full", "half"}, out.Names())

	_, err = DropMissing(ds, DropAnyRows, nil)
	assert.True(t, errors.Is(err, dataset.ErrNoRows), "the all-missing column removes every row")

	out, err = DropMissing(ds.Drop("none"), DropAnyRows, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, out.NumRows())

	out, err = DropMissing(ds, DropEmptyRows, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, out.NumRows())

	pct := 50.0
	out, err = DropMissing(ds, DropByPercent, &pct)
	require.NoError(t, err)
	assert.Equal(t, []string{"full", "half"}, out.Names())

	pct = 75
	out, err = DropMissing(ds, DropByPercent, &pct)
	require.NoError(t, err)
	assert.Equal(t, []string{"full"}, out.Names())
}

func TestDropMissingPercentageValidation(t *testing.T) {
	ds := dataset.MustNew(dataset.Floats("a", 1))
	_, err := DropMissing(ds, DropByPercent, nil)
	assert.True(t, errors.Is(err, dataset.ErrValidation))
	for _, p := range []float64{-1, 100.5} {
		p := p
		_, err := DropMissing(ds, DropByPercent, &p)
		assert.True(t, errors.Is(err, dataset.ErrValidation), "percentage %v", p)
	}
}

func TestExtractDatetimeFieldsOrdersLevels(t *testing.T) {
	ds := salesFixture(t)
	out, err := ExtractDatetimeFields(ds, "sold", []DatePart{PartMonthName, PartQuarter, PartYear, PartWeekOfYear})
	require.NoError(t, err)
	assert.Equal(t, []string{"amount", "flag", "units", "score", "sold", "month_name", "quarter", "year", "week_of_year"}, out.Names())

	mn, _ := out.Column("month_name")
	assert.True(t, mn.Ordered())
	assert.Equal(t, "January", mn.Levels()[0])
	assert.Equal(t, "December", mn.Levels()[11])
	assert.Equal(t, "March", mn.Format(0))
	assert.Less(t, mn.Compare(1, 0), 0, "January sorts before March")

	q, _ := out.Column("quarter")
	assert.Equal(t, []string{"1", "3", "4"}, q.Levels())

	y, _ := out.Column("year")
	assert.Equal(t, []string{"2023", "2024"}, y.Levels())

	w, _ := out.Column("week_of_year")
	assert.Equal(t, "52", w.Format(2), "2023-12-31 is in ISO week 52")

	_, err = ExtractDatetimeFields(ds, "score", []DatePart{PartYear})
	assert.True(t, errors.Is(err, dataset.ErrTypeMismatch))
}

func TestEmptyValueReport(t *testing.T) {
	ds := salesFixture(t)
	rep, err := EmptyValueReport(ds, []string{"amount", "flag"})
	require.NoError(t, err)
	assert.True(t, rep.HasEmpty)
	assert.Equal(t, []string{"amount"}, rep.Columns)

	rep, err = EmptyValueReport(ds, []string{"flag"})
	require.NoError(t, err)
	assert.False(t, rep.HasEmpty)

	_, err = EmptyValueReport(ds, []string{"nope"})
	assert.Error(t, err)
}

func TestApplyIsAllOrNothing(t *testing.T) {
	ds := salesFixture(t)
	logger := testutil.NewTestLogger(t)

	out, err := Apply(ds, Plan{
		Coercions: []Coercion{{Columns: []string{"amount"}, Target: "float"}},
		Extract:   []Extraction{{Column: "sold", Parts: []string{"year"}}},
	}, logger)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Dataset.NumRows())
	assert.True(t, out.Dataset.Has("year"))
	assert.Equal(t, []string{"amount"}, out.EmptyColumns)
	assert.Len(t, out.Steps, 2)

	out, err = Apply(ds, Plan{
		Coercions: []Coercion{
			{Columns: []string{"amount"}, Target: "float"},
			{Columns: []string{"score"}, Target: "boolean"},
		},
	}, logger)
	require.Error(t, err)
	assert.Same(t, ds, out.Dataset)

	_, err = Apply(ds, Plan{Drop: "whenever"}, logger)
	assert.True(t, errors.Is(err, dataset.ErrValidation))
}
