package indexing

// selector is a range query over one key space.
type selector[K, R any] interface {
	// overlaps is false only if no key of r can match.
	overlaps(r R) bool
	// encloses is true only if every key of r matches.
	encloses(r R) bool
	matches(k K) bool
}

// within returns the items whose keys match sel.
func (e *engine[T, K, R]) within(sel selector[K, R]) []T {
	var items []T

	switch {
	case len(e.where) == 0 || !sel.overlaps(e.region):
		return items
	case sel.encloses(e.region):
		return e.AllItems()
	}
	return e.collect(0, e.region, sel, items)
}

func (e *engine[T, K, R]) collect(idx int, r R, sel selector[K, R], items []T) []T {
	n := &e.nodes[idx]

	if n.isLeaf() {
		for i := range n.bucket {
			if sel.matches(n.bucket[i].key) {
				items = append(items, n.bucket[i].item)
			}
		}
		return items
	}

	for ci := n.mask.next(0); ci >= 0; ci = n.mask.next(ci + 1) {
		cr := e.keys.child(r, ci)

		switch {
		case sel.encloses(cr):
			e.walk(n.block+ci, func(s *slot[T, K]) bool {
				items = append(items, s.item)
				return true
			})
		case sel.overlaps(cr):
			items = e.collect(n.block+ci, cr, sel, items)
		}
	}
	return items
}
