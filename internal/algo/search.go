package algo

// Search locates the first element of sorted whose key equals target, where
// sorted must already be ordered by the same key and direction (as produced
// by SortBy). It returns (-1, false) when no element has the target key.
// O(log n) comparisons.
func Search[T any](sorted []T, key func(T) float64, order Order, target float64, m *Metrics) (int, bool) {
	lo, hi := 0, len(sorted)
	for lo < hi {
		mid := lo + (hi-lo)/2
		m.compared()
		k := key(sorted[mid])
		if keyBefore(k, target, order) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(sorted) {
		m.compared()
		if key(sorted[lo]) == target {
			return lo, true
		}
	}
	return -1, false
}

func keyBefore(a, b float64, order Order) bool {
	if order == Descending {
		return a > b
	}
	return a < b
}
