// Package queryheap implements the thread-local addressable priority
// queue described in §4.3: a dense array indexed by node id for
// "inserted" status and payload, backing a binary min-heap ordered by
// key. Grounded in the teacher's array-backed binary heap
// (pkg/datastructure/pq_rtree.go, pkg/contractor priority_queue_test.go)
// generalized with an index map so DecreaseKey can relocate an existing
// entry instead of only supporting insert-then-extract.
package queryheap

import "errors"

var ErrNotFound = errors.New("queryheap: node not found")

// entry is one (key, node) pair living in the binary heap array.
type entry[P any] struct {
	key  float64
	node int32
}

// Heap is an addressable min-heap over int32 node ids, carrying an
// arbitrary payload P (used for parent-node tracking during CH search).
// Negative keys are allowed per §4.3, used by the many-to-many forward
// sweep to represent "distance owed" for a mid-edge source phantom.
type Heap[P any] struct {
	heap     []entry[P]
	pos      []int32 // node -> index in heap, -1 if absent
	payload  []P
	inserted []bool
	touched  []int32 // insertion log for O(touched) Clear
}

// New allocates a heap with capacity for numNodes distinct node ids, per
// the §5 resource budget ("Heap capacity equals |V|").
func New[P any](numNodes int) *Heap[P] {
	return &Heap[P]{
		pos:      makeFilled(numNodes, -1),
		payload:  make([]P, numNodes),
		inserted: make([]bool, numNodes),
	}
}

func makeFilled(n int, v int32) []int32 {
	s := make([]int32, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func (h *Heap[P]) Empty() bool { return len(h.heap) == 0 }
func (h *Heap[P]) Size() int   { return len(h.heap) }

func (h *Heap[P]) WasInserted(node int32) bool { return h.inserted[node] }

// InHeap reports whether node is currently sitting in the heap array
// (true between Insert and DeleteMin; false once extracted, even though
// WasInserted stays true until Clear). GetKey is only valid while InHeap
// holds.
func (h *Heap[P]) InHeap(node int32) bool { return h.pos[node] != -1 }

func (h *Heap[P]) GetKey(node int32) float64 {
	return h.heap[h.pos[node]].key
}

func (h *Heap[P]) GetData(node int32) P { return h.payload[node] }

// Insert adds a new node with the given key and payload. Calling Insert
// on an already-inserted node is a bug in the caller (mirrors the CH
// search's "not yet inserted" assumption) and panics in debug the way the
// teacher's bounds checks do.
func (h *Heap[P]) Insert(node int32, key float64, data P) {
	if h.inserted[node] {
		panic("queryheap: double insert")
	}
	h.inserted[node] = true
	h.payload[node] = data
	h.touched = append(h.touched, node)

	h.heap = append(h.heap, entry[P]{key: key, node: node})
	idx := len(h.heap) - 1
	h.pos[node] = int32(idx)
	h.siftUp(idx)
}

// DecreaseKey lowers node's key and updates its payload; it is a no-op
// error to call with a key that is not actually smaller, matching the
// stalling discipline upstream which only ever calls this on improvement.
func (h *Heap[P]) DecreaseKey(node int32, key float64, data P) {
	idx := h.pos[node]
	h.heap[idx].key = key
	h.payload[node] = data
	h.siftUp(int(idx))
}

// PeekMin returns the node at the top of the heap without removing it.
// Callers must check Empty() first.
func (h *Heap[P]) PeekMin() int32 { return h.heap[0].node }

func (h *Heap[P]) DeleteMin() (int32, float64) {
	top := h.heap[0]
	last := len(h.heap) - 1
	h.heap[0] = h.heap[last]
	h.pos[h.heap[0].node] = 0
	h.heap = h.heap[:last]
	h.pos[top.node] = -1
	if len(h.heap) > 0 {
		h.siftDown(0)
	}
	return top.node, top.key
}

// Clear resets only the nodes touched since the last Clear (O(touched
// nodes) per §4.3), leaving backing arrays allocated for reuse across
// requests of the same worker.
func (h *Heap[P]) Clear() {
	for _, n := range h.touched {
		h.inserted[n] = false
		h.pos[n] = -1
	}
	h.touched = h.touched[:0]
	h.heap = h.heap[:0]
}

func (h *Heap[P]) siftUp(idx int) {
	for idx != 0 {
		parent := (idx - 1) / 2
		if h.heap[parent].key <= h.heap[idx].key {
			break
		}
		h.swap(parent, idx)
		idx = parent
	}
}

func (h *Heap[P]) siftDown(idx int) {
	n := len(h.heap)
	for {
		left, right := 2*idx+1, 2*idx+2
		smallest := idx
		if left < n && h.heap[left].key < h.heap[smallest].key {
			smallest = left
		}
		if right < n && h.heap[right].key < h.heap[smallest].key {
			smallest = right
		}
		if smallest == idx {
			return
		}
		h.swap(idx, smallest)
		idx = smallest
	}
}

func (h *Heap[P]) swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]
	h.pos[h.heap[i].node] = int32(i)
	h.pos[h.heap[j].node] = int32(j)
}
