package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestQuantileLinearInterpolation(t *testing.T) {
	s := []float64{1, 2, 3, 4}
	cases := []struct {
		q    float64
		want float64
	}{
		{0, 1},
		{0.25, 1.75},
		{0.5, 2.5},
		{0.75, 3.25},
		{1, 4},
	}
	for _, tc := range cases {
		if got := Quantile(s, tc.q); !almostEqual(got, tc.want) {
			t.Fatalf("Quantile(%v) = %v, want %v", tc.q, got, tc.want)
		}
	}
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestQuartilesUnsortedInput(t *testing.T) {
	q1, q3 := Quartiles([]float64{40, 0, 30, 10, 20})
	assert.InDelta(t, 10, q1, 1e-9)
	assert.InDelta(t, 30, q3, 1e-9)
}

func TestMeanStdSample(t *testing.T) {
	m, s := MeanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5, m, 1e-9)
	assert.InDelta(t, 2.138089935299395, s, 1e-9)

	m, s = MeanStd([]float64{3})
	assert.InDelta(t, 3, m, 1e-9)
	assert.True(t, math.IsNaN(s))
}

func TestMinMaxSumMedian(t *testing.T) {
	lo, hi := MinMax([]float64{3, -1, 8})
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 8.0, hi)
	assert.Equal(t, 10.0, Sum([]float64{3, -1, 8}))
	assert.Equal(t, 0.0, Sum(nil))
	assert.Equal(t, 3.0, Median([]float64{3, -1, 8}))
}

func TestPairAcc(t *testing.T) {
	var p PairAcc
	for i := 1; i <= 5; i++ {
		p.Add(float64(i), float64(2*i+1))
	}
	assert.InDelta(t, 1, p.R(), 1e-12)

	var q PairAcc
	q.Add(1, 1)
	q.Add(2, 1)
	assert.True(t, math.IsNaN(q.R()), "constant series has no correlation")
}

func TestRound(t *testing.T) {
	assert.Equal(t, 33.33, Round(100.0/3, 2))
	assert.Equal(t, 1.235, Round(1.23456, 3))
}
