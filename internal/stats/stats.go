// Package stats holds the small numeric kernels shared by the analysis packages.
package stats

import (
	"math"
	"sort"
)

// Sorted returns a sorted copy of xs.
func Sorted(xs []float64) []float64 {
	cp := make([]float64, len(xs))
	copy(cp, xs)
	sort.Float64s(cp)
	return cp
}

// Quantile returns the q-quantile of sorted values using linear
// interpolation between closest ranks.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// Quartiles returns Q1 and Q3 of xs.
func Quartiles(xs []float64) (q1, q3 float64) {
	s := Sorted(xs)
	return Quantile(s, 0.25), Quantile(s, 0.75)
}

// Median returns the median of xs, NaN when empty.
func Median(xs []float64) float64 { return Quantile(Sorted(xs), 0.5) }

// MeanStd returns the mean and sample standard deviation (n-1) using
// Welford's update. Std is NaN for fewer than two values.
func MeanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return math.NaN(), math.NaN()
	}
	var n int
	var m2 float64
	for _, x := range xs {
		n++
		delta := x - mean
		mean += delta / float64(n)
		m2 += delta * (x - mean)
	}
	if n < 2 {
		return mean, math.NaN()
	}
	return mean, math.Sqrt(m2 / float64(n-1))
}

// Mean returns the arithmetic mean, NaN when empty.
func Mean(xs []float64) float64 {
	m, _ := MeanStd(xs)
	return m
}

// Sum adds xs; an empty slice sums to 0.
func Sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

// MinMax returns the extremes of xs, NaN when empty.
func MinMax(xs []float64) (lo, hi float64) {
	if len(xs) == 0 {
		return math.NaN(), math.NaN()
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi
}

// PairAcc accumulates the sums needed for a Pearson correlation.
type PairAcc struct {
	N, SumX, SumY, SumXX, SumYY, SumXY float64
}

// Add feeds one complete observation.
func (p *PairAcc) Add(x, y float64) {
	p.N++
	p.SumX += x
	p.SumY += y
	p.SumXX += x * x
	p.SumYY += y * y
	p.SumXY += x * y
}

// R returns the Pearson coefficient, NaN when undefined.
func (p *PairAcc) R() float64 {
	if p.N < 2 {
		return math.NaN()
	}
	num := p.N*p.SumXY - p.SumX*p.SumY
	den := math.Sqrt((p.N*p.SumXX - p.SumX*p.SumX) * (p.N*p.SumYY - p.SumY*p.SumY))
	if den == 0 {
		return math.NaN()
	}
	return num / den
}

// Round rounds x to the given number of decimals.
func Round(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}
