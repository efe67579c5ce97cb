package indexing

import (
	"fmt"
	"strings"

	"github.com/3worlds/uit/space"
)

// summary is the one-line description used by ShortString.
func (e *engine[T, K, R]) summary(kind string, domain space.Box) string {
	nodes, depth := e.shape(0, 0)
	return fmt.Sprintf("%s dim=%d size=%d nodes=%d depth=%d capacity=%d domain=%v",
		kind, e.dim, len(e.where), nodes, depth, e.capacity, domain)
}

// shape returns the number of reachable nodes below idx and the depth of the deepest one.
func (e *engine[T, K, R]) shape(idx, level int) (nodes, depth int) {
	nodes, depth = 1, level

	n := &e.nodes[idx]
	if n.isLeaf() {
		return
	}
	for ci := n.mask.next(0); ci >= 0; ci = n.mask.next(ci + 1) {
		cn, cd := e.shape(n.block+ci, level+1)
		nodes += cn
		depth = max(depth, cd)
	}
	return
}

// dump renders every non-empty node, one per line, indented by depth.
func (e *engine[T, K, R]) dump(kind string, domain space.Box) string {
	var b strings.Builder

	fmt.Fprintln(&b, e.summary(kind, domain))
	e.dumpNode(&b, 0, e.region, "T:", "")

	return b.String()
}

func (e *engine[T, K, R]) dumpNode(b *strings.Builder, idx int, r R, tag, indent string) {
	n := &e.nodes[idx]

	if n.isLeaf() {
		fmt.Fprintf(b, "%s%s LEAF n=%d region=%v\n", indent, tag, len(n.bucket), e.keys.bounds(r))
		for _, s := range n.bucket {
			fmt.Fprintf(b, "%s  #%d at=%v item=%v\n", indent, s.handle, e.keys.point(s.key), s.item)
		}
		return
	}

	fmt.Fprintf(b, "%s%s NODE n=%d occupied=%d region=%v\n", indent, tag, n.count, n.mask.count(), e.keys.bounds(r))
	for ci := n.mask.next(0); ci >= 0; ci = n.mask.next(ci + 1) {
		e.dumpNode(b, n.block+ci, e.keys.child(r, ci), fmt.Sprintf("%0*b:", e.dim, ci), indent+"  ")
	}
}
