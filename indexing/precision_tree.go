package indexing

import (
	"github.com/3worlds/uit/space"
	"github.com/3worlds/uit/space/locator"
)

// PrecisionTree indexes items by grid cell. Positions are floored to cells of
// side precision and every entry of a cell is reported at the cell's lower
// corner. Distances are exact integer grid distances scaled by precision.
type PrecisionTree[T any] struct {
	*engine[T, locator.Locator, locator.Cell]

	keys      *locatorKeys
	policy    domainPolicy[locator.Locator, locator.Cell]
	expanding bool
}

var _ Tree[int] = (*PrecisionTree[int])(nil)

// NewLimitedPrecisionTree returns a quantized tree over a fixed domain.
func NewLimitedPrecisionTree[T any](domain space.Box, precision float64, cfg *Config) (*PrecisionTree[T], error) {
	return newPrecisionTree[T](domain, precision, false, cfg)
}

// NewExpandingLimitedPrecisionTree returns a quantized tree whose grid
// doubles as needed. Its domain starts as the whole grid covering domain.
func NewExpandingLimitedPrecisionTree[T any](domain space.Box, precision float64, cfg *Config) (*PrecisionTree[T], error) {
	return newPrecisionTree[T](domain, precision, true, cfg)
}

func newPrecisionTree[T any](domain space.Box, precision float64, expanding bool, cfg *Config) (*PrecisionTree[T], error) {
	if err := domain.Validate(); err != nil {
		return nil, err
	}
	if err := checkTreeDim(domain.Dim()); err != nil {
		return nil, err
	}

	f, err := locator.NewFactory(domain, precision)
	if err != nil {
		return nil, err
	}

	t := &PrecisionTree[T]{keys: &locatorKeys{f: f}, expanding: expanding}
	if expanding {
		f.AdoptGrid()
		t.policy = doublingGrid{keys: t.keys}
	} else {
		t.policy = fixedDomain[locator.Locator, locator.Cell]{keys: t.keys}
	}
	t.engine = newEngine[T, locator.Locator, locator.Cell](t.keys, f.Grid(), domain.Dim(), cfg)

	return t, nil
}

// Factory returns the quantizer currently in use. It is replaced when the
// grid of an expanding tree grows.
func (t *PrecisionTree[T]) Factory() *locator.Factory {
	return t.keys.f
}

func (t *PrecisionTree[T]) Precision() float64 {
	return t.keys.f.Precision()
}

// Domain returns the region accepted by Insert.
func (t *PrecisionTree[T]) Domain() space.Box {
	return t.keys.f.Domain()
}

func (t *PrecisionTree[T]) Insert(item T, at space.Point) (Handle, error) {
	var (
		l   locator.Locator
		err error
	)
	if t.expanding {
		l, err = t.keys.f.Locate(at)
	} else {
		l, err = t.keys.f.NewLocator(at)
	}
	if err != nil {
		return 0, err
	}

	if err := t.accommodate(l, t.policy); err != nil {
		return 0, err
	}
	return t.insert(item, l), nil
}

// ItemsWithinBox returns the items whose cell lies between the cells of the
// box corners, inclusive.
func (t *PrecisionTree[T]) ItemsWithinBox(q space.Box) ([]T, error) {
	if err := space.CheckDim("items within box", t.dim, q.Dim()); err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	sel := cellRange{lo: t.keys.f.LocateClamped(q.Lower), hi: t.keys.f.LocateClamped(q.Upper)}
	return t.within(sel), nil
}

// ItemsWithinSphere returns the items whose cell is within the radius, rounded
// to whole cells, of the cell of the centre. A centre beyond the representable
// grid is clamped to its edge.
func (t *PrecisionTree[T]) ItemsWithinSphere(q space.Sphere) ([]T, error) {
	if err := space.CheckDim("items within sphere", t.dim, q.Dim()); err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if t.Size() == 0 {
		return nil, nil
	}

	sel := cellSphere{c: t.keys.f.LocateClamped(q.Centre), r2: locator.Sq(uint64(t.keys.f.Cells(q.Radius)))}
	return t.within(sel), nil
}

// locate quantizes a query point, saturating coordinates beyond the
// representable grid. A nil locator with no error means the tree is empty.
func (t *PrecisionTree[T]) locate(op string, at space.Point) (locator.Locator, error) {
	if err := space.CheckDim(op, t.dim, at.Dim()); err != nil {
		return nil, err
	}
	if err := at.Validate(); err != nil {
		return nil, err
	}
	if t.Size() == 0 {
		return nil, nil
	}
	return t.keys.f.LocateClamped(at), nil
}

func (t *PrecisionTree[T]) measure(at locator.Locator) gridMetric {
	return gridMetric{at: at, precision: t.keys.f.Precision()}
}

func (t *PrecisionTree[T]) NearestItem(at space.Point) (Neighbour[T], bool, error) {
	l, err := t.locate("nearest item", at)
	if err != nil || l == nil {
		return Neighbour[T]{}, false, err
	}

	found := nearest[T, locator.Locator, locator.Cell, locator.SqDist](t.engine, t.measure(l), 1, false)
	if len(found) == 0 {
		return Neighbour[T]{}, false, nil
	}
	return found[0], true, nil
}

func (t *PrecisionTree[T]) NearestItems(at space.Point) ([]Neighbour[T], error) {
	l, err := t.locate("nearest items", at)
	if err != nil || l == nil {
		return nil, err
	}
	return nearest[T, locator.Locator, locator.Cell, locator.SqDist](t.engine, t.measure(l), 0, true), nil
}

func (t *PrecisionTree[T]) NearestItemsK(at space.Point, k int) ([]Neighbour[T], error) {
	l, err := t.locate("nearest items", at)
	if err != nil || l == nil {
		return nil, err
	}
	return nearest[T, locator.Locator, locator.Cell, locator.SqDist](t.engine, t.measure(l), k, false), nil
}

func (t *PrecisionTree[T]) String() string {
	return t.dump("PrecisionTree", t.Domain())
}

func (t *PrecisionTree[T]) ShortString() string {
	return t.summary("PrecisionTree", t.Domain())
}
