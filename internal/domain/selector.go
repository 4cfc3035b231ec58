package domain

import "container/heap"

// DefaultTopK is the number of recommendations returned when callers do not ask for more.
const DefaultTopK = 3

// SelectTopK returns at most k records matching equipment and muscle, highest
// intensity first. Equal scores keep their original order. The input slice is
// never modified and an empty, non-nil slice is returned when nothing matches.
//
// A bounded min-heap keeps only the current best k candidates. At catalog sizes
// of a few dozen records a full sort would do equally well.
func SelectTopK(records []ExerciseRecord, equipment EquipmentType, muscle string, k int) []ExerciseRecord {
	if k <= 0 {
		return []ExerciseRecord{}
	}

	h := make(candidateHeap, 0, k)
	for i, rec := range records {
		if !rec.Matches(equipment, muscle) {
			continue
		}
		c := candidate{record: rec, index: i}
		if h.Len() < k {
			heap.Push(&h, c)
			continue
		}
		if worse(h[0], c) {
			h[0] = c
			heap.Fix(&h, 0)
		}
	}

	out := make([]ExerciseRecord, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&h).(candidate).record.Clone()
	}
	return out
}

type candidate struct {
	record ExerciseRecord
	index  int
}

// worse orders candidates by rank: lower score first, later position first on ties.
func worse(a, b candidate) bool {
	if a.record.IntensityScore != b.record.IntensityScore {
		return a.record.IntensityScore < b.record.IntensityScore
	}
	return a.index > b.index
}

// candidateHeap keeps the weakest retained candidate at the root.
type candidateHeap []candidate

func (h candidateHeap) Len() int           { return len(h) }
func (h candidateHeap) Less(i, j int) bool { return worse(h[i], h[j]) }
func (h candidateHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap) Push(x any) { *h = append(*h, x.(candidate)) }

func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
