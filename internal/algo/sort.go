// Package algo provides the comparator-driven sort and search primitives
// used for ranking. They are written from first principles so the work done
// (comparisons, element moves) can be counted and checked against the
// expected complexity; the counters never influence the result.
package algo

type Order int

const (
	Ascending Order = iota
	Descending
)

// Metrics accumulates the work performed by a sort or search call. A nil
// *Metrics is valid and disables counting.
type Metrics struct {
	Comparisons int64
	Moves       int64
}

// Reset zeroes the counters.
func (m *Metrics) Reset() {
	if m != nil {
		m.Comparisons = 0
		m.Moves = 0
	}
}

func (m *Metrics) compared() {
	if m != nil {
		m.Comparisons++
	}
}

func (m *Metrics) moved() {
	if m != nil {
		m.Moves++
	}
}

// Small slices are finished with insertion sort inside the merge recursion.
const insertionThreshold = 12

// SortBy returns a new slice holding items ordered by key in the given
// direction, ties broken by id ascending regardless of direction so that
// repeated runs over identical input produce identical output. The input is
// not modified.
//
// The implementation is a top-down merge sort with an insertion-sort base
// case: O(n log n) comparisons in the worst case, stable.
func SortBy[T any](items []T, key func(T) float64, order Order, id func(T) string, m *Metrics) []T {
	out := make([]T, len(items))
	copy(out, items)
	if len(out) < 2 {
		return out
	}
	before := func(a, b T) bool {
		m.compared()
		ka, kb := key(a), key(b)
		if ka != kb {
			if order == Descending {
				return ka > kb
			}
			return ka < kb
		}
		return id(a) < id(b)
	}
	buf := make([]T, len(out))
	mergeSort(out, buf, before, m)
	return out
}

func mergeSort[T any](data, buf []T, before func(a, b T) bool, m *Metrics) {
	if len(data) <= insertionThreshold {
		insertionSort(data, before, m)
		return
	}
	mid := len(data) / 2
	mergeSort(data[:mid], buf[:mid], before, m)
	mergeSort(data[mid:], buf[mid:], before, m)
	merge(data, mid, buf, before, m)
}

func insertionSort[T any](data []T, before func(a, b T) bool, m *Metrics) {
	for i := 1; i < len(data); i++ {
		for j := i; j > 0 && before(data[j], data[j-1]); j-- {
			data[j], data[j-1] = data[j-1], data[j]
			m.moved()
		}
	}
}

// merge combines the sorted halves data[:mid] and data[mid:] through buf.
// The left element wins ties, which keeps the sort stable.
func merge[T any](data []T, mid int, buf []T, before func(a, b T) bool, m *Metrics) {
	copy(buf, data[:mid])
	left, right, out := 0, mid, 0
	for left < mid && right < len(data) {
		if before(data[right], buf[left]) {
			data[out] = data[right]
			right++
		} else {
			data[out] = buf[left]
			left++
		}
		m.moved()
		out++
	}
	for left < mid {
		data[out] = buf[left]
		m.moved()
		left++
		out++
	}
}
