package numeric

import (
	"math"
	"sort"

	"github.com/cockroachdb/errors"
)

// ErrEmptyInput is returned when statistics are requested over zero values.
// Callers must treat this as an error, not as a zero summary.
var ErrEmptyInput = errors.New("empty input: no values to describe")

// Summary holds descriptive statistics for one numeric series.
// Std is the population standard deviation (divide by n).
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	Std    float64
	Min    float64
	Max    float64
	P25    float64
	P75    float64
	P95    float64
}

// Describe computes descriptive statistics over values. The input slice is
// not modified.
func Describe(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, ErrEmptyInput
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	var m2 float64
	for _, v := range sorted {
		d := v - mean
		m2 += d * d
	}

	return Summary{
		Count:  len(sorted),
		Mean:   mean,
		Median: Quantile(sorted, 0.5),
		Std:    math.Sqrt(m2 / float64(len(sorted))),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P25:    Quantile(sorted, 0.25),
		P75:    Quantile(sorted, 0.75),
		P95:    Quantile(sorted, 0.95),
	}, nil
}

// Quantile returns the q-th quantile of an already sorted slice using linear
// interpolation between the two nearest ranks.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
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
