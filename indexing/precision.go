package indexing

import (
	"github.com/3worlds/uit/space"
	"github.com/3worlds/uit/space/locator"
)

// locatorKeys partitions grid cells. Regions are power-of-two cells, so every
// split is exact and a cell of side 1 is the resolution limit.
type locatorKeys struct {
	f *locator.Factory
}

func (g *locatorKeys) contains(r locator.Cell, k locator.Locator) bool  { return r.Contains(k) }
func (g *locatorKeys) childIndex(r locator.Cell, k locator.Locator) int { return r.ChildIndex(k) }
func (g *locatorKeys) child(r locator.Cell, idx int) locator.Cell       { return r.Child(idx) }
func (g *locatorKeys) canSplit(r locator.Cell) bool                     { return r.CanSplit() }
func (g *locatorKeys) same(a, b locator.Locator) bool                   { return a.Equal(b) }
func (g *locatorKeys) bounds(r locator.Cell) space.Box                  { return g.f.CellsBox(r) }
func (g *locatorKeys) point(k locator.Locator) space.Point              { return g.f.ToPoint(k) }

// cellRange matches locators in the inclusive range [lo, hi].
type cellRange struct {
	lo, hi locator.Locator
}

func (s cellRange) overlaps(r locator.Cell) bool { return r.Overlaps(s.lo, s.hi) }
func (s cellRange) encloses(r locator.Cell) bool { return r.Within(s.lo, s.hi) }
func (s cellRange) matches(k locator.Locator) bool {
	for i, x := range k {
		if x < s.lo[i] || x > s.hi[i] {
			return false
		}
	}
	return true
}

// cellSphere matches locators within an exact squared grid distance of a centre.
type cellSphere struct {
	c  locator.Locator
	r2 locator.SqDist
}

func (s cellSphere) overlaps(r locator.Cell) bool {
	return r.SquaredDistanceTo(s.c).Cmp(s.r2) <= 0
}

func (s cellSphere) encloses(r locator.Cell) bool {
	return r.SquaredDistanceToFarthest(s.c).Cmp(s.r2) <= 0
}

func (s cellSphere) matches(k locator.Locator) bool {
	return locator.SquaredDistance(s.c, k).Cmp(s.r2) <= 0
}

// gridMetric measures exact squared grid distances and reports them in
// domain units.
type gridMetric struct {
	at        locator.Locator
	precision float64
}

func (m gridMetric) keyDist(k locator.Locator) locator.SqDist {
	return locator.SquaredDistance(m.at, k)
}

func (m gridMetric) regionDist(r locator.Cell) locator.SqDist { return r.SquaredDistanceTo(m.at) }
func (m gridMetric) cmp(a, b locator.SqDist) int              { return a.Cmp(b) }
func (m gridMetric) length(d locator.SqDist) float64          { return d.Sqrt() * m.precision }

// doublingGrid grows a quantized tree by doubling its grid toward the key.
type doublingGrid struct {
	keys *locatorKeys
}

func (d doublingGrid) admit(_ locator.Cell, k locator.Locator) ([]int, locator.Cell, func(), error) {
	f, steps, err := d.keys.f.Expand(k)
	if err != nil {
		return nil, locator.Cell{}, nil, err
	}
	return steps, f.Grid(), func() { d.keys.f = f }, nil
}
