package outlier

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/KaramelBytes/varsum/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func priceFixture() *dataset.Dataset {
	return dataset.MustNew(
		dataset.Floats("price", 0, 10, 20, 30, 40, -30, 70, 95),
		dataset.Strings("id", "a", "b", "c", "d", "e", "f", "g", "h"),
	)
}

func TestFencesPriceScenario(t *testing.T) {
	ds := dataset.MustNew(dataset.Floats("price", 0, 10, 20, 30, 40))
	lo, hi, err := Fences(ds, "price", Weak)
	require.NoError(t, err)
	assert.InDelta(t, -20, lo, 1e-9)
	assert.InDelta(t, 60, hi, 1e-9)

	lo, hi, err = Fences(ds, "price", Strong)
	require.NoError(t, err)
	assert.InDelta(t, -50, lo, 1e-9)
	assert.InDelta(t, 90, hi, 1e-9)
}

func TestStrongFencesNeverTighter(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		n := 1 + r.Intn(40)
		xs := make([]float64, n)
		for i := range xs {
			xs[i] = r.NormFloat64() * float64(1+r.Intn(100))
		}
		ds := dataset.MustNew(dataset.Floats("x", xs...))
		wl, wu, err := Fences(ds, "x", Weak)
		require.NoError(t, err)
		sl, su, err := Fences(ds, "x", Strong)
		require.NoError(t, err)
		assert.LessOrEqual(t, sl, wl)
		assert.LessOrEqual(t, wu, su)
	}
}

func TestFilterSides(t *testing.T) {
	ds := dataset.MustNew(dataset.Floats("price", 0, 10, 20, 30, 40, -30, 70, 95))
	// Q1 = 7.5, Q3 = 47.5, weak fences (-52.5, 107.5)
	out, err := Filter(ds, "price", Spec{Weak, Both})
	require.NoError(t, err)
	assert.Equal(t, 8, out.NumRows())

	tight := dataset.MustNew(dataset.Floats("v", 1, 2, 3, 4, 100, -100))
	out, err = Filter(tight, "v", Spec{Weak, Upper})
	require.NoError(t, err)
	c, _ := out.Column("v")
	assert.Equal(t, []float64{1, 2, 3, 4, -100}, c.Floats())

	out, err = Filter(tight, "v", Spec{Weak, Lower})
	require.NoError(t, err)
	c, _ = out.Column("v")
	assert.Equal(t, []float64{1, 2, 3, 4, 100}, c.Floats())

	out, err = Filter(tight, "v", Spec{Strong, Both})
	require.NoError(t, err)
	c, _ = out.Column("v")
	assert.Equal(t, []float64{1, 2, 3, 4}, c.Floats())
	assert.Equal(t, 6, tight.NumRows(), "input is untouched")
}

func TestFilterDropsMissing(t *testing.T) {
	ds := dataset.MustNew(dataset.NewColumn("v", dataset.KindFloat, dataset.Num(1), dataset.Null(), dataset.Num(2), dataset.Num(3)))
	out, err := Filter(ds, "v", Spec{Strong, Both})
	require.NoError(t, err)
	assert.Equal(t, 3, out.NumRows())
}

func TestFilterAllIntersects(t *testing.T) {
	ds := dataset.MustNew(
		dataset.Floats("a", 1, 2, 3, 4, 5, 6, 7, 1000),
		dataset.Floats("b", -1000, 2, 3, 4, 5, 6, 7, 8),
	)
	out, err := FilterAll(ds, []string{"a", "b"}, Spec{Weak, Both})
	require.NoError(t, err)
	a, _ := out.Column("a")
	assert.Equal(t, []float64{2, 3, 4, 5, 6, 7}, a.Floats())
}

func TestParseSpec(t *testing.T) {
	spec, err := ParseSpec("strong_both")
	require.NoError(t, err)
	assert.Equal(t, Spec{Strong, Both}, spec)
	assert.Equal(t, "strong_both", spec.String())

	spec, err = ParseSpec("Weak_Lower")
	require.NoError(t, err)
	assert.Equal(t, Spec{Weak, Lower}, spec)

	for _, tok := range []string{"", "strong", "strong_both_upper", "medium_both", "weak_middle", "both_strong"} {
		_, err := ParseSpec(tok)
		assert.True(t, errors.Is(err, dataset.ErrValidation), "token %q", tok)
	}
}

func TestFencesRejectsNonNumeric(t *testing.T) {
	ds := priceFixture()
	_, _, err := Fences(ds, "id", Weak)
	assert.True(t, errors.Is(err, dataset.ErrTypeMismatch))
	_, _, err = Fences(ds, "nope", Weak)
	assert.True(t, errors.Is(err, dataset.ErrUnknownColumn))
}
