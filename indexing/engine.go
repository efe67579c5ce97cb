package indexing

import (
	"math"

	"go.uber.org/zap"

	"github.com/3worlds/uit/space"
)

const leaf = -1

// keySpace is the key-dependent geometry the engine partitions with: K is a
// stored key and R the region of a node.
type keySpace[K, R any] interface {
	contains(r R, k K) bool
	// childIndex returns the child of r holding k: bit i is set for the upper half of axis i.
	childIndex(r R, k K) int
	child(r R, idx int) R
	canSplit(r R) bool
	same(a, b K) bool
	bounds(r R) space.Box
	point(k K) space.Point
}

type slot[T, K any] struct {
	handle Handle
	key    K
	item   T
}

type node[T, K any] struct {
	block  int // first of the 2^dim children, or leaf
	count  int // entries in the subtree
	mask   childMask
	bucket []slot[T, K]
}

func (n *node[T, K]) isLeaf() bool {
	return n.block == leaf
}

// engine is the partition tree shared by every variant. Nodes live in one
// arena; the children of a node are a contiguous block of 2^dim nodes and the
// root is always node 0. Regions are derived on the way down from the root
// region and never stored.
type engine[T, K, R any] struct {
	keys   keySpace[K, R]
	region R
	dim    int
	fan    int

	nodes []node[T, K]
	free  []int // released child blocks
	where map[Handle]K
	next  Handle
	trail *trail

	cfg       *Config
	log       *zap.Logger
	capacity  int
	optimise  bool
	pending   int // removals since the last compaction
	inserts   int
	saturated bool
	grafted   int // root levels added by growth above the initial domain
}

func newEngine[T, K, R any](keys keySpace[K, R], region R, dim int, cfg *Config) *engine[T, K, R] {
	cfg = cfg.OrDefault()

	return &engine[T, K, R]{
		keys:     keys,
		region:   region,
		dim:      dim,
		fan:      1 << dim,
		nodes:    []node[T, K]{{block: leaf}},
		where:    make(map[Handle]K),
		next:     1,
		trail:    newTrail(),
		cfg:      cfg,
		log:      cfg.Logger,
		capacity: cfg.LeafCapacity,
		optimise: cfg.Optimise,
	}
}

func checkTreeDim(dim int) error {
	if dim < 1 || dim > MaxDim {
		return space.Errorf(space.KindInvalidGeometry, "new tree", "dimension %d is not in [1,%d]", dim, MaxDim)
	}
	return nil
}

func (e *engine[T, K, R]) Dim() int {
	return e.dim
}

func (e *engine[T, K, R]) Size() int {
	return len(e.where)
}

// insert stores an entry under a key the caller has checked to be inside the region.
func (e *engine[T, K, R]) insert(item T, k K) Handle {
	h := e.next
	e.next++
	e.where[h] = k

	var (
		idx   = 0
		r     = e.region
		depth = 0
	)
	for {
		n := &e.nodes[idx]
		n.count++
		if n.isLeaf() {
			break
		}
		ci := e.keys.childIndex(r, k)
		n.mask.set(ci)
		idx, r, depth = n.block+ci, e.keys.child(r, ci), depth+1
	}

	n := &e.nodes[idx]
	n.bucket = append(n.bucket, slot[T, K]{handle: h, key: k, item: item})
	if len(n.bucket) > e.capacity {
		e.split(idx, r, depth)
	}

	e.inserts++
	if e.cfg.AdaptiveCapacity && e.inserts%100 == 0 {
		e.adaptCapacity()
	}

	return h
}

// split turns an over-full leaf into an internal node, splitting again any
// child that is still over-full.
func (e *engine[T, K, R]) split(idx int, r R, depth int) {
	if depth-e.grafted >= e.cfg.MaxDepth || !e.keys.canSplit(r) || e.uniform(e.nodes[idx].bucket) {
		if !e.saturated {
			e.saturated = true
			e.log.Debug("leaf cannot split",
				zap.Int("entries", len(e.nodes[idx].bucket)),
				zap.Int("depth", depth-e.grafted),
				zap.Stringer("region", e.keys.bounds(r)))
		}
		return
	}

	block := e.alloc() // may move the arena

	var (
		n      = &e.nodes[idx]
		bucket = n.bucket
		mask   = newChildMask(e.fan)
	)
	n.bucket = nil
	n.block = block
	n.mask = mask

	for _, s := range bucket {
		ci := e.keys.childIndex(r, s.key)
		c := &e.nodes[block+ci]
		c.bucket = append(c.bucket, s)
		c.count++
		mask.set(ci)
	}

	for ci := mask.next(0); ci >= 0; ci = mask.next(ci + 1) {
		if len(e.nodes[block+ci].bucket) > e.capacity {
			e.split(block+ci, e.keys.child(r, ci), depth+1)
		}
	}
}

// uniform reports whether every entry has the same key; such a bucket can never be separated.
func (e *engine[T, K, R]) uniform(bucket []slot[T, K]) bool {
	for i := 1; i < len(bucket); i++ {
		if !e.keys.same(bucket[0].key, bucket[i].key) {
			return false
		}
	}
	return true
}

func (e *engine[T, K, R]) adaptCapacity() {
	c := int(math.Round(math.Cbrt(float64(len(e.where)))))
	if c > e.capacity {
		e.log.Debug("leaf capacity raised", zap.Int("from", e.capacity), zap.Int("to", c))
		e.capacity = c
	}
}

// alloc returns the index of a block of 2^dim empty leaves.
func (e *engine[T, K, R]) alloc() int {
	if num := len(e.free); num > 0 {
		block := e.free[num-1]
		e.free = e.free[:num-1]
		return block
	}

	block := len(e.nodes)
	for i := 0; i < e.fan; i++ {
		e.nodes = append(e.nodes, node[T, K]{block: leaf})
	}
	return block
}

// release turns an empty subtree back into a leaf and returns the number of
// child blocks it freed.
func (e *engine[T, K, R]) release(idx int) (blocks int) {
	n := &e.nodes[idx]
	if n.isLeaf() {
		return 0
	}

	block := n.block
	n.block, n.mask, n.count = leaf, nil, 0

	for ci := 0; ci < e.fan; ci++ {
		blocks += e.release(block + ci)
		e.nodes[block+ci] = node[T, K]{block: leaf}
	}
	e.free = append(e.free, block)

	return blocks + 1
}

// Remove deletes the entry of h and reports whether it was present.
func (e *engine[T, K, R]) Remove(h Handle) bool {
	k, ok := e.where[h]
	if !ok {
		return false
	}

	// descend by key
	e.trail.reset()

	idx, r := 0, e.region
	for !e.nodes[idx].isLeaf() {
		ci := e.keys.childIndex(r, k)
		e.trail.push(idx, ci)
		idx, r = e.nodes[idx].block+ci, e.keys.child(r, ci)
	}

	var (
		n   = &e.nodes[idx]
		pos = -1
	)
	for i := range n.bucket {
		if n.bucket[i].handle == h {
			pos = i
			break
		}
	}
	if pos < 0 {
		e.log.Error("entry not found under its key", zap.Uint64("handle", uint64(h)))
		return false
	}

	last := len(n.bucket) - 1
	copy(n.bucket[pos:], n.bucket[pos+1:])
	n.bucket[last] = slot[T, K]{}
	n.bucket = n.bucket[:last]
	n.count--
	delete(e.where, h)

	// fix counts on the way up, remembering the highest node left with no
	// occupied child
	var (
		child    = idx
		collapse = -1
		stop     bool
	)
	for s, ok := e.trail.pop(); ok; s, ok = e.trail.pop() {
		p := &e.nodes[s.node]
		p.count--
		if e.nodes[child].count == 0 {
			p.mask.unset(s.child)
		}
		if !stop && p.mask.count() == 0 {
			collapse = s.node
		} else {
			stop = true
		}
		child = s.node
	}

	switch {
	case e.optimise:
		e.pending++
		if e.pending >= e.cfg.CompactEvery {
			e.Compact()
		}
	case collapse >= 0:
		e.release(collapse)
	}

	return true
}

// Compact prunes every subtree without entries.
func (e *engine[T, K, R]) Compact() {
	blocks := e.compact(0)
	e.pending = 0

	if blocks > 0 {
		e.log.Debug("compacted", zap.Int("blocks", blocks), zap.Int("size", len(e.where)))
	}
}

func (e *engine[T, K, R]) compact(idx int) (blocks int) {
	n := &e.nodes[idx]
	if n.isLeaf() {
		return 0
	}
	if n.mask.count() == 0 {
		return e.release(idx)
	}

	block, mask := n.block, n.mask
	for ci := 0; ci < e.fan; ci++ {
		if mask.has(ci) {
			blocks += e.compact(block + ci)
		} else {
			blocks += e.release(block + ci)
		}
	}
	return blocks
}

// SetOptimisation switches between eager pruning after each Remove and
// pruning in batches of Config.CompactEvery removals. Switching it off
// compacts the tree.
func (e *engine[T, K, R]) SetOptimisation(on bool) {
	if e.optimise && !on {
		e.Compact()
	}
	e.optimise = on
}

// graft puts the root under a new root once per step, at the child index of
// the step, and makes grown the root region. No entry is touched.
func (e *engine[T, K, R]) graft(steps []int, grown R) {
	for _, ci := range steps {
		block := e.alloc()
		old := e.nodes[0]

		mask := newChildMask(e.fan)
		if old.count > 0 {
			mask.set(ci)
		}

		e.nodes[block+ci] = old
		e.nodes[0] = node[T, K]{block: block, count: old.count, mask: mask}
	}
	e.region = grown
	e.grafted += len(steps)
}

// Clear drops every entry and restores the configured leaf capacity. The
// domain is kept.
func (e *engine[T, K, R]) Clear() {
	e.nodes = []node[T, K]{{block: leaf}}
	e.free = nil
	e.where = make(map[Handle]K)
	e.capacity = e.cfg.LeafCapacity
	e.inserts = 0
	e.pending = 0
	e.saturated = false
}

// Item returns the entry of h and the position it is stored at.
func (e *engine[T, K, R]) Item(h Handle) (item T, at space.Point, ok bool) {
	k, ok := e.where[h]
	if !ok {
		return item, nil, false
	}

	idx, r := 0, e.region
	for !e.nodes[idx].isLeaf() {
		ci := e.keys.childIndex(r, k)
		idx, r = e.nodes[idx].block+ci, e.keys.child(r, ci)
	}
	for _, s := range e.nodes[idx].bucket {
		if s.handle == h {
			return s.item, e.keys.point(s.key), true
		}
	}
	return item, nil, false
}

// walk visits the entries of the subtree in child index order until fn returns false.
func (e *engine[T, K, R]) walk(idx int, fn func(s *slot[T, K]) bool) bool {
	n := &e.nodes[idx]
	if n.isLeaf() {
		for i := range n.bucket {
			if !fn(&n.bucket[i]) {
				return false
			}
		}
		return true
	}
	for ci := n.mask.next(0); ci >= 0; ci = n.mask.next(ci + 1) {
		if !e.walk(n.block+ci, fn) {
			return false
		}
	}
	return true
}

// Walk calls fn for every entry until fn returns false.
func (e *engine[T, K, R]) Walk(fn func(h Handle, item T) bool) bool {
	return e.walk(0, func(s *slot[T, K]) bool {
		return fn(s.handle, s.item)
	})
}

func (e *engine[T, K, R]) AllItems() []T {
	items := make([]T, 0, len(e.where))
	e.walk(0, func(s *slot[T, K]) bool {
		items = append(items, s.item)
		return true
	})
	return items
}

func (e *engine[T, K, R]) Root() Node[T] {
	return &nodeView[T, K, R]{e: e, idx: 0, r: e.region}
}

type nodeView[T, K, R any] struct {
	e   *engine[T, K, R]
	idx int
	r   R
}

func (v *nodeView[T, K, R]) IsLeaf() bool {
	return v.e.nodes[v.idx].isLeaf()
}

func (v *nodeView[T, K, R]) Len() int {
	return v.e.nodes[v.idx].count
}

func (v *nodeView[T, K, R]) Items() []T {
	bucket := v.e.nodes[v.idx].bucket

	items := make([]T, len(bucket))
	for i, s := range bucket {
		items[i] = s.item
	}
	return items
}

func (v *nodeView[T, K, R]) Region() space.Box {
	return v.e.keys.bounds(v.r)
}

func (v *nodeView[T, K, R]) Occupied() int {
	n := &v.e.nodes[v.idx]
	if n.isLeaf() {
		return 0
	}
	return n.mask.count()
}

func (v *nodeView[T, K, R]) Children() []Node[T] {
	n := &v.e.nodes[v.idx]
	if n.isLeaf() {
		return nil
	}

	children := make([]Node[T], n.mask.count())
	for ci := n.mask.next(0); ci >= 0; ci = n.mask.next(ci + 1) {
		children[n.mask.rank(ci)] = &nodeView[T, K, R]{
			e:   v.e,
			idx: n.block + ci,
			r:   v.e.keys.child(v.r, ci),
		}
	}
	return children
}
