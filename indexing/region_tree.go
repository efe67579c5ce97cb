package indexing

import (
	"github.com/3worlds/uit/space"
)

// RegionTree indexes items by continuous position. It is built either over a
// fixed domain, rejecting positions outside it, or over an expanding cube
// that doubles toward positions outside it.
type RegionTree[T any] struct {
	*engine[T, space.Point, regionCell]

	keys     *regionKeys
	policy   domainPolicy[space.Point, regionCell]
	doubling *doublingRegion // nil for a fixed domain
}

var _ Tree[int] = (*RegionTree[int])(nil)

// NewBoundedRegionTree returns a tree over a fixed domain.
func NewBoundedRegionTree[T any](domain space.Box, cfg *Config) (*RegionTree[T], error) {
	if err := domain.Validate(); err != nil {
		return nil, err
	}
	if err := checkTreeDim(domain.Dim()); err != nil {
		return nil, err
	}

	keys, root := newRegionKeys(domain)

	return &RegionTree[T]{
		engine: newEngine[T, space.Point, regionCell](keys, root, domain.Dim(), cfg),
		keys:   keys,
		policy: fixedDomain[space.Point, regionCell]{keys: keys},
	}, nil
}

// NewExpandingRegionTree returns a tree whose domain starts as the bounding
// cube of domain and grows as needed.
func NewExpandingRegionTree[T any](domain space.Box, cfg *Config) (*RegionTree[T], error) {
	if err := domain.Validate(); err != nil {
		return nil, err
	}
	if err := checkTreeDim(domain.Dim()); err != nil {
		return nil, err
	}

	return newExpandingRegionTree[T](domain.Lower, domain.MaxSide(), true, cfg), nil
}

// NewExpandingRegionTreeDim returns an expanding tree whose domain is set by
// its first insert.
func NewExpandingRegionTreeDim[T any](dim int, cfg *Config) (*RegionTree[T], error) {
	if err := checkTreeDim(dim); err != nil {
		return nil, err
	}

	return newExpandingRegionTree[T](space.Origin(dim), 0, false, cfg), nil
}

func newExpandingRegionTree[T any](lower space.Point, side float64, anchored bool, cfg *Config) *RegionTree[T] {
	var (
		keys, root = newCubeKeys(lower, side)
		doubling   = &doublingRegion{keys: keys, anchored: anchored}
	)

	return &RegionTree[T]{
		engine:   newEngine[T, space.Point, regionCell](keys, root, lower.Dim(), cfg),
		keys:     keys,
		policy:   doubling,
		doubling: doubling,
	}
}

// newCubeKeys returns the open geometry of a cube whose faces lie exactly on
// the planes of scale values 0 and 1.
func newCubeKeys(lower space.Point, side float64) (*regionKeys, regionCell) {
	var (
		dim  = lower.Dim()
		keys = &regionKeys{origin: lower.Clone(), scale: make([]float64, dim), open: true}
		cell = regionCell{q: make([]float64, dim), w: 1}
	)
	for i := range keys.scale {
		keys.scale[i] = side
	}

	cell.box = space.Box{Lower: lower.Clone(), Upper: make(space.Point, dim)}
	for i := range cell.box.Upper {
		cell.box.Upper[i] = keys.plane(i, 1)
	}

	return keys, cell
}

// Domain returns the region currently indexed.
func (t *RegionTree[T]) Domain() space.Box {
	return t.keys.bounds(t.region)
}

func (t *RegionTree[T]) checkPoint(op string, p space.Point) error {
	if err := space.CheckDim(op, t.dim, p.Dim()); err != nil {
		return err
	}
	return p.Validate()
}

// Insert stores item at a position and returns its handle.
func (t *RegionTree[T]) Insert(item T, at space.Point) (Handle, error) {
	if err := t.checkPoint("insert", at); err != nil {
		return 0, err
	}
	if err := t.accommodate(at, t.policy); err != nil {
		return 0, err
	}

	h := t.insert(item, at.Clone())
	if t.doubling != nil {
		t.doubling.anchored = true
	}
	return h, nil
}

// ItemsWithinBox returns the items positioned inside q or on its border.
func (t *RegionTree[T]) ItemsWithinBox(q space.Box) ([]T, error) {
	if err := space.CheckDim("items within box", t.dim, q.Dim()); err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return t.within(boxSelector{q: q}), nil
}

// ItemsWithinSphere returns the items positioned inside q or on its surface.
func (t *RegionTree[T]) ItemsWithinSphere(q space.Sphere) ([]T, error) {
	if err := space.CheckDim("items within sphere", t.dim, q.Dim()); err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return t.within(sphereSelector{q: q}), nil
}

func (t *RegionTree[T]) NearestItem(at space.Point) (Neighbour[T], bool, error) {
	if err := t.checkPoint("nearest item", at); err != nil {
		return Neighbour[T]{}, false, err
	}

	found := nearest[T, space.Point, regionCell, float64](t.engine, pointMetric{at: at}, 1, false)
	if len(found) == 0 {
		return Neighbour[T]{}, false, nil
	}
	return found[0], true, nil
}

func (t *RegionTree[T]) NearestItems(at space.Point) ([]Neighbour[T], error) {
	if err := t.checkPoint("nearest items", at); err != nil {
		return nil, err
	}
	return nearest[T, space.Point, regionCell, float64](t.engine, pointMetric{at: at}, 0, true), nil
}

func (t *RegionTree[T]) NearestItemsK(at space.Point, k int) ([]Neighbour[T], error) {
	if err := t.checkPoint("nearest items", at); err != nil {
		return nil, err
	}
	return nearest[T, space.Point, regionCell, float64](t.engine, pointMetric{at: at}, k, false), nil
}

func (t *RegionTree[T]) String() string {
	return t.dump("RegionTree", t.Domain())
}

func (t *RegionTree[T]) ShortString() string {
	return t.summary("RegionTree", t.Domain())
}
