package indexing

import (
	"container/heap"
	"sort"
)

// metric measures distances from one query in a key space. D is any
// totally ordered squared distance.
type metric[K, R, D any] interface {
	keyDist(k K) D
	// regionDist never exceeds keyDist of a key inside r.
	regionDist(r R) D
	cmp(a, b D) int
	// length converts a squared distance to a plain distance.
	length(d D) float64
}

// frame is a subtree waiting in the best-first queue.
type frame[R, D any] struct {
	bound D
	seq   int
	idx   int
	r     R
}

type frameQueue[R, D any] struct {
	frames []frame[R, D]
	cmp    func(a, b D) int
}

func (q *frameQueue[R, D]) Len() int { return len(q.frames) }
func (q *frameQueue[R, D]) Less(i, j int) bool {
	if c := q.cmp(q.frames[i].bound, q.frames[j].bound); c != 0 {
		return c < 0
	}
	return q.frames[i].seq < q.frames[j].seq
}
func (q *frameQueue[R, D]) Swap(i, j int)      { q.frames[i], q.frames[j] = q.frames[j], q.frames[i] }
func (q *frameQueue[R, D]) Push(x interface{}) { q.frames = append(q.frames, x.(frame[R, D])) }
func (q *frameQueue[R, D]) Pop() interface{} {
	old := q.frames
	n := len(old)
	x := old[n-1]
	old[n-1] = frame[R, D]{}
	q.frames = old[:n-1]
	return x
}

type candidate[T, D any] struct {
	dist   D
	seq    int
	handle Handle
	item   T
}

// candidates is a max-heap: the worst kept candidate is on top, and among
// equal distances the one found last.
type candidates[T, D any] struct {
	items []candidate[T, D]
	cmp   func(a, b D) int
}

func (h *candidates[T, D]) Len() int { return len(h.items) }
func (h *candidates[T, D]) Less(i, j int) bool {
	if c := h.cmp(h.items[i].dist, h.items[j].dist); c != 0 {
		return c > 0
	}
	return h.items[i].seq > h.items[j].seq
}
func (h *candidates[T, D]) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *candidates[T, D]) Push(x interface{}) { h.items = append(h.items, x.(candidate[T, D])) }
func (h *candidates[T, D]) Pop() interface{} {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[:n-1]
	return x
}

// nearest runs a best-first branch-and-bound search. With ties set it returns
// every entry at the minimal distance, otherwise the k closest entries. The
// result is sorted by distance, then by discovery order.
func nearest[T, K, R, D any](e *engine[T, K, R], m metric[K, R, D], k int, ties bool) []Neighbour[T] {
	if len(e.where) == 0 || (!ties && k <= 0) {
		return nil
	}

	var (
		queue = &frameQueue[R, D]{cmp: m.cmp}
		kept  = &candidates[T, D]{cmp: m.cmp}
		tied  []candidate[T, D]
		seq   int
	)

	// pruned reports whether nothing at a distance of at least bound can
	// change the result.
	pruned := func(bound D) bool {
		if ties {
			return len(tied) > 0 && m.cmp(bound, tied[0].dist) > 0
		}
		return kept.Len() == k && m.cmp(bound, kept.items[0].dist) >= 0
	}

	heap.Push(queue, frame[R, D]{bound: m.regionDist(e.region), r: e.region})

	for queue.Len() > 0 {
		f := heap.Pop(queue).(frame[R, D])
		if pruned(f.bound) {
			break // everything left is at least as far
		}

		n := &e.nodes[f.idx]

		if !n.isLeaf() {
			for ci := n.mask.next(0); ci >= 0; ci = n.mask.next(ci + 1) {
				var (
					cr    = e.keys.child(f.r, ci)
					bound = m.regionDist(cr)
				)
				if pruned(bound) {
					continue
				}
				seq++
				heap.Push(queue, frame[R, D]{bound: bound, seq: seq, idx: n.block + ci, r: cr})
			}
			continue
		}

		for i := range n.bucket {
			var (
				s = &n.bucket[i]
				c = candidate[T, D]{dist: m.keyDist(s.key), handle: s.handle, item: s.item}
			)
			seq++
			c.seq = seq

			switch {
			case ties && (len(tied) == 0 || m.cmp(c.dist, tied[0].dist) < 0):
				tied = append(tied[:0], c)
			case ties:
				if m.cmp(c.dist, tied[0].dist) == 0 {
					tied = append(tied, c)
				}
			case kept.Len() < k:
				heap.Push(kept, c)
			case m.cmp(c.dist, kept.items[0].dist) < 0:
				kept.items[0] = c
				heap.Fix(kept, 0)
			}
		}
	}

	found := tied
	if !ties {
		found = kept.items
		sort.Slice(found, func(i, j int) bool {
			if c := m.cmp(found[i].dist, found[j].dist); c != 0 {
				return c < 0
			}
			return found[i].seq < found[j].seq
		})
	}

	out := make([]Neighbour[T], len(found))
	for i, c := range found {
		out[i] = Neighbour[T]{Handle: c.handle, Item: c.item, Dist: m.length(c.dist)}
	}
	return out
}
