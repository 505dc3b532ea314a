package algo

import (
	"math"
	"math/rand"
	"reflect"
	"sort"
	"testing"
)

type entry struct {
	id    string
	score float64
}

func entryKey(e entry) float64 { return e.score }
func entryID(e entry) string   { return e.id }

func sortedEntries(items []entry, order Order, m *Metrics) []entry {
	return SortBy(items, entryKey, order, entryID, m)
}

func TestSortAscending(t *testing.T) {
	in := []entry{{"b", 3}, {"a", 1}, {"c", 2}}
	got := sortedEntries(in, Ascending, nil)
	want := []entry{{"a", 1}, {"c", 2}, {"b", 3}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	// input untouched
	if in[0].id != "b" {
		t.Fatalf("input mutated: %v", in)
	}
}

func TestSortDescending(t *testing.T) {
	in := []entry{{"a", 1}, {"b", 3}, {"c", 2}}
	got := sortedEntries(in, Descending, nil)
	want := []entry{{"b", 3}, {"c", 2}, {"a", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSortTiesBrokenByIDAscendingBothDirections(t *testing.T) {
	in := []entry{{"z", 5}, {"m", 5}, {"a", 5}, {"q", 1}}
	asc := sortedEntries(in, Ascending, nil)
	wantAsc := []entry{{"q", 1}, {"a", 5}, {"m", 5}, {"z", 5}}
	if !reflect.DeepEqual(asc, wantAsc) {
		t.Fatalf("ascending: got %v, want %v", asc, wantAsc)
	}
	desc := sortedEntries(in, Descending, nil)
	wantDesc := []entry{{"a", 5}, {"m", 5}, {"z", 5}, {"q", 1}}
	if !reflect.DeepEqual(desc, wantDesc) {
		t.Fatalf("descending: got %v, want %v", desc, wantDesc)
	}
}

func TestSortIdempotentAndPermutation(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	in := make([]entry, 500)
	for i := range in {
		// few distinct scores, lots of ties
		in[i] = entry{id: randomID(r), score: float64(r.Intn(20))}
	}

	once := sortedEntries(in, Descending, nil)
	twice := sortedEntries(once, Descending, nil)
	if !reflect.DeepEqual(once, twice) {
		t.Fatal("sort is not idempotent")
	}

	// permutation check against the library sort as oracle
	oracle := make([]entry, len(in))
	copy(oracle, in)
	sort.Slice(oracle, func(i, j int) bool {
		if oracle[i].score != oracle[j].score {
			return oracle[i].score > oracle[j].score
		}
		return oracle[i].id < oracle[j].id
	})
	if !reflect.DeepEqual(once, oracle) {
		t.Fatal("sort output disagrees with oracle ordering")
	}

	for i := 1; i < len(once); i++ {
		if once[i-1].score < once[i].score {
			t.Fatalf("keys not non-increasing at %d: %v %v", i, once[i-1], once[i])
		}
	}
}

func TestSortComparisonBound(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	n := 2048
	in := make([]entry, n)
	for i := range in {
		in[i] = entry{id: randomID(r), score: r.Float64()}
	}
	var m Metrics
	sortedEntries(in, Ascending, &m)
	bound := int64(2 * float64(n) * math.Log2(float64(n)))
	if m.Comparisons == 0 || m.Comparisons > bound {
		t.Fatalf("comparisons = %d, want (0, %d]", m.Comparisons, bound)
	}
	if m.Moves == 0 {
		t.Fatal("expected moves to be counted")
	}
}

func TestSortSmallInputs(t *testing.T) {
	if got := sortedEntries(nil, Ascending, nil); len(got) != 0 {
		t.Fatalf("empty: got %v", got)
	}
	got := sortedEntries([]entry{{"x", 1}}, Descending, nil)
	if len(got) != 1 || got[0].id != "x" {
		t.Fatalf("single: got %v", got)
	}
}

func TestSearch(t *testing.T) {
	in := []entry{{"a", 4}, {"b", 2}, {"c", 9}, {"d", 2}, {"e", 7}}
	sorted := sortedEntries(in, Ascending, nil)

	for i, e := range sorted {
		idx, ok := Search(sorted, entryKey, Ascending, e.score, nil)
		if !ok {
			t.Fatalf("key %v not found", e.score)
		}
		if sorted[idx].score != e.score {
			t.Fatalf("found wrong key at %d", idx)
		}
		if idx > i {
			t.Fatalf("expected first matching index <= %d, got %d", i, idx)
		}
	}

	if idx, ok := Search(sorted, entryKey, Ascending, 3, nil); ok || idx != -1 {
		t.Fatalf("absent key: got (%d, %v), want (-1, false)", idx, ok)
	}

	var m Metrics
	desc := sortedEntries(in, Descending, nil)
	idx, ok := Search(desc, entryKey, Descending, 9, &m)
	if !ok || desc[idx].score != 9 {
		t.Fatalf("descending search: got (%d, %v)", idx, ok)
	}
	if m.Comparisons == 0 {
		t.Fatal("expected search comparisons to be counted")
	}
}

func TestSearchEmpty(t *testing.T) {
	if idx, ok := Search(nil, entryKey, Ascending, 1, nil); ok || idx != -1 {
		t.Fatalf("got (%d, %v), want (-1, false)", idx, ok)
	}
}

func randomID(r *rand.Rand) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, 8)
	for i := range b {
		b[i] = letters[r.Intn(len(letters))]
	}
	return string(b)
}

func BenchmarkSortBy(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	in := make([]entry, 10000)
	for i := range in {
		in[i] = entry{id: randomID(r), score: r.Float64()}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sortedEntries(in, Ascending, nil)
	}
}

func BenchmarkSortSlice(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	in := make([]entry, 10000)
	for i := range in {
		in[i] = entry{id: randomID(r), score: r.Float64()}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cp := make([]entry, len(in))
		copy(cp, in)
		sort.Slice(cp, func(a, z int) bool {
			if cp[a].score != cp[z].score {
				return cp[a].score < cp[z].score
			}
			return cp[a].id < cp[z].id
		})
	}
}
