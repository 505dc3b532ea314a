package numeric

import (
	"math"
	"sort"

	"github.com/cockroachdb/errors"
)

// OutlierMethod selects how Outliers flags values.
type OutlierMethod string

const (
	// MethodZScore flags values with |v-mean|/std above the threshold.
	MethodZScore OutlierMethod = "zscore"
	// MethodIQR flags values outside [Q1-k*IQR, Q3+k*IQR] where k is the
	// threshold.
	MethodIQR OutlierMethod = "iqr"
)

// ParseOutlierMethod validates a method tag from config or flags.
func ParseOutlierMethod(s string) (OutlierMethod, error) {
	switch OutlierMethod(s) {
	case MethodZScore, MethodIQR:
		return OutlierMethod(s), nil
	}
	return "", errors.Newf("unknown outlier method %q", s)
}

// Outliers returns the indices of values flagged as outliers, in ascending
// order. An empty input or a zero-spread series flags nothing; the z-score
// path in particular never divides by a zero standard deviation.
func Outliers(values []float64, method OutlierMethod, threshold float64) []int {
	if len(values) == 0 {
		return nil
	}
	switch method {
	case MethodIQR:
		return iqrOutliers(values, threshold)
	default:
		return zscoreOutliers(values, threshold)
	}
}

func zscoreOutliers(values []float64, threshold float64) []int {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var m2 float64
	for _, v := range values {
		d := v - mean
		m2 += d * d
	}
	std := math.Sqrt(m2 / float64(len(values)))
	if std == 0 {
		return nil
	}

	var flagged []int
	for i, v := range values {
		if math.Abs(v-mean)/std > threshold {
			flagged = append(flagged, i)
		}
	}
	return flagged
}

func iqrOutliers(values []float64, factor float64) []int {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q1 := Quantile(sorted, 0.25)
	q3 := Quantile(sorted, 0.75)
	iqr := q3 - q1
	if iqr == 0 {
		return nil
	}
	lo := q1 - factor*iqr
	hi := q3 + factor*iqr

	var flagged []int
	for i, v := range values {
		if v < lo || v > hi {
			flagged = append(flagged, i)
		}
	}
	return flagged
}
