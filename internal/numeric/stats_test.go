package numeric

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestHaversineProperties(t *testing.T) {
	points := [][2]float64{
		{52.3702, 4.8952},
		{48.8566, 2.3522},
		{-33.8688, 151.2093},
		{0, 0},
		{90, 0},
	}
	for _, p := range points {
		if d := Haversine(p[0], p[1], p[0], p[1]); d != 0 {
			t.Fatalf("distance(p,p) = %v, want 0", d)
		}
	}
	for i := range points {
		for j := range points {
			ab := Haversine(points[i][0], points[i][1], points[j][0], points[j][1])
			ba := Haversine(points[j][0], points[j][1], points[i][0], points[i][1])
			if !almostEqual(ab, ba) {
				t.Fatalf("asymmetric distance: %v vs %v", ab, ba)
			}
			if ab < 0 {
				t.Fatalf("negative distance %v", ab)
			}
		}
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Amsterdam to Paris, roughly 430 km.
	d := Haversine(52.3702, 4.8952, 48.8566, 2.3522)
	if d < 420 || d < 0 || d > 440 {
		t.Fatalf("Amsterdam-Paris = %.1f km, want ~430", d)
	}
}

func TestDescribe(t *testing.T) {
	s, err := Describe([]float64{10, 12, 11, 100})
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if s.Count != 4 {
		t.Fatalf("count = %d, want 4", s.Count)
	}
	if !almostEqual(s.Mean, 33.25) {
		t.Fatalf("mean = %v, want 33.25", s.Mean)
	}
	if !almostEqual(s.Median, 11.5) {
		t.Fatalf("median = %v, want 11.5", s.Median)
	}
	// population std
	if want := math.Sqrt(5942.75 / 4); !almostEqual(s.Std, want) {
		t.Fatalf("std = %v, want %v", s.Std, want)
	}
	if s.Min != 10 || s.Max != 100 {
		t.Fatalf("min/max = %v/%v, want 10/100", s.Min, s.Max)
	}
	if !almostEqual(s.P25, 10.75) {
		t.Fatalf("p25 = %v, want 10.75", s.P25)
	}
	if !almostEqual(s.P75, 34) {
		t.Fatalf("p75 = %v, want 34", s.P75)
	}
	if !almostEqual(s.P95, 86.8) {
		t.Fatalf("p95 = %v, want 86.8", s.P95)
	}
}

func TestDescribeDoesNotMutateInput(t *testing.T) {
	in := []float64{3, 1, 2}
	if _, err := Describe(in); err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if in[0] != 3 || in[1] != 1 || in[2] != 2 {
		t.Fatalf("input mutated: %v", in)
	}
}

func TestDescribeEmpty(t *testing.T) {
	_, err := Describe(nil)
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("err = %v, want ErrEmptyInput", err)
	}
}

func TestQuantileBounds(t *testing.T) {
	sorted := []float64{1, 2, 3}
	if q := Quantile(sorted, -0.5); q != 1 {
		t.Fatalf("q<=0 = %v, want 1", q)
	}
	if q := Quantile(sorted, 1.5); q != 3 {
		t.Fatalf("q>=1 = %v, want 3", q)
	}
	if q := Quantile(nil, 0.5); q != 0 {
		t.Fatalf("empty = %v, want 0", q)
	}
}
