package contractorbuild

import (
	"math"

	"github.com/zummach/osrm/internal/queryheap"
)

// witnessSearch runs a bounded Dijkstra from u to w, ignoring node
// "ignore" (the node currently being contracted), stopping as soon as it
// either confirms a path at or below acceptedWeight (a witness, meaning
// the shortcut u->w isn't needed) or exhausts its settled-node /
// priority budget. Grounded in the teacher's dijkstraWitnessSearch, with
// the teacher's hand-rolled Fibonacci heap replaced by the package's own
// addressable queryheap.Heap — the same reuse pattern chsearch's
// bidirectional search already follows.
func (b *builder) witnessSearch(u, w, ignore int32, acceptedWeight float64, maxSettled int, pMax float64) float64 {
	if b.witnessHeap == nil {
		b.witnessHeap = queryheap.New[struct{}](len(b.out))
	}
	h := b.witnessHeap
	h.Clear()

	cost := make(map[int32]float64)
	cost[u] = 0
	h.Insert(u, 0, struct{}{})

	settled := 0
	for settled < maxSettled {
		if h.Empty() {
			return math.MaxFloat64
		}
		top := h.PeekMin()
		key := h.GetKey(top)
		if key > acceptedWeight {
			return math.MaxFloat64
		}
		if c, ok := cost[w]; ok && c <= acceptedWeight {
			return c
		}

		h.DeleteMin()
		if b.contracted[top] {
			continue
		}
		if top == w {
			return cost[top]
		}
		if key > pMax {
			if c, ok := cost[w]; ok {
				return c
			}
			return math.MaxFloat64
		}

		for _, e := range b.out[top] {
			if e.other == ignore || b.contracted[e.other] {
				continue
			}
			newCost := cost[top] + e.weight
			if existing, ok := cost[e.other]; !ok {
				cost[e.other] = newCost
				h.Insert(e.other, newCost, struct{}{})
			} else if newCost < existing && h.InHeap(e.other) {
				cost[e.other] = newCost
				h.DecreaseKey(e.other, newCost, struct{}{})
			}
		}
		settled++
	}
	return math.MaxFloat64
}
