package indexing

import "github.com/3worlds/uit/space"

// Handle identifies one stored entry. Handles are issued by Insert in
// increasing order and are never reused by the same tree.
type Handle uint64

// Neighbour is a nearest-neighbour result.
type Neighbour[T any] struct {
	Handle Handle
	Item   T
	Dist   float64
}

// Tree is the capability set shared by every tree of this package.
//
// Trees are not safe for concurrent mutation. Queries may run concurrently
// with each other but not with Insert, Remove, Clear, Compact or
// SetOptimisation. A failed operation leaves the tree unchanged.
type Tree[T any] interface {
	Dim() int
	Size() int
	// Domain returns the region currently indexed.
	Domain() space.Box

	Insert(item T, at space.Point) (Handle, error)
	// Remove deletes the entry of h and reports whether it was present.
	Remove(h Handle) bool
	// Item returns the entry of h and its stored position.
	Item(h Handle) (T, space.Point, bool)

	ItemsWithinBox(q space.Box) ([]T, error)
	ItemsWithinSphere(q space.Sphere) ([]T, error)

	// NearestItem returns the closest entry; ok is false for an empty tree.
	NearestItem(at space.Point) (n Neighbour[T], ok bool, err error)
	// NearestItems returns every entry at the minimal distance.
	NearestItems(at space.Point) ([]Neighbour[T], error)
	// NearestItemsK returns the k closest entries, closest first.
	NearestItemsK(at space.Point, k int) ([]Neighbour[T], error)

	AllItems() []T
	// Walk calls fn for every entry until fn returns false.
	Walk(fn func(h Handle, item T) bool) bool
	Clear()

	Root() Node[T]
	// SetOptimisation defers pruning after Remove until the next compaction.
	SetOptimisation(on bool)
	// Compact prunes every empty subtree now.
	Compact()

	String() string
	ShortString() string
}

// Node is a read-only view of a tree node for diagnostics. A view is only
// valid until the next mutation of its tree.
type Node[T any] interface {
	IsLeaf() bool
	// Len returns the number of entries in the subtree.
	Len() int
	// Items returns the entries held by a leaf.
	Items() []T
	Region() space.Box
	// Occupied returns the number of non-empty children.
	Occupied() int
	// Children returns the non-empty children in child index order.
	Children() []Node[T]
}
