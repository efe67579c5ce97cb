package indexing

import (
	"math"

	"github.com/3worlds/uit/space"
)

// regionCell is the region of a node of a continuous tree. Split planes sit
// on a dyadic scale: along axis i the plane of scale value q is at
// origin[i] + scale[i]*q. A cell covers [q, q+w] on that scale while its box
// keeps the exact faces inherited from the root, so every key routed into a
// cell lies inside its box.
type regionCell struct {
	box space.Box
	q   []float64
	w   float64
}

// regionKeys partitions continuous points. An open key space excludes the
// upper faces of the root, so a key on one of them makes the root grow
// instead of landing on a face that becomes an inner split plane.
type regionKeys struct {
	origin space.Point
	scale  []float64
	open   bool
}

func newRegionKeys(domain space.Box) (*regionKeys, regionCell) {
	var (
		dim   = domain.Dim()
		scale = make([]float64, dim)
	)
	for i := range scale {
		scale[i] = domain.Side(i)
	}

	keys := &regionKeys{origin: domain.Lower.Clone(), scale: scale}
	return keys, regionCell{
		box: space.Box{Lower: domain.Lower.Clone(), Upper: domain.Upper.Clone()},
		q:   make([]float64, dim),
		w:   1,
	}
}

// plane returns the coordinate of scale value q along an axis.
func (g *regionKeys) plane(axis int, q float64) float64 {
	return g.origin[axis] + g.scale[axis]*q
}

func (g *regionKeys) contains(r regionCell, k space.Point) bool {
	if !g.open {
		return r.box.Contains(k)
	}
	for i, x := range k {
		lo, hi := r.box.Lower[i], r.box.Upper[i]
		if x < lo || x > hi || (x == hi && lo != hi) {
			return false
		}
	}
	return true
}

func (g *regionKeys) childIndex(r regionCell, k space.Point) int {
	var (
		half = r.w / 2
		idx  int
	)
	for i, x := range k {
		if x >= g.plane(i, r.q[i]+half) {
			idx |= 1 << i
		}
	}
	return idx
}

func (g *regionKeys) child(r regionCell, idx int) regionCell {
	c := regionCell{
		box: space.Box{Lower: r.box.Lower.Clone(), Upper: r.box.Upper.Clone()},
		q:   make([]float64, len(r.q)),
		w:   r.w / 2,
	}
	for i := range c.q {
		mid := g.plane(i, r.q[i]+c.w)
		if idx&(1<<i) != 0 {
			c.box.Lower[i] = mid
			c.q[i] = r.q[i] + c.w
		} else {
			c.box.Upper[i] = mid
			c.q[i] = r.q[i]
		}
	}
	return c
}

// canSplit is false once the scale can no longer halve the cell exactly or
// no axis has room left between its faces.
func (g *regionKeys) canSplit(r regionCell) bool {
	half := r.w / 2
	if half == 0 {
		return false
	}

	var room bool
	for i, q := range r.q {
		if q+half == q || (q+half)-half != q {
			return false
		}
		if mid := g.plane(i, q+half); r.box.Lower[i] < mid && mid < r.box.Upper[i] {
			room = true
		}
	}
	return room
}

func (g *regionKeys) same(a, b space.Point) bool {
	return a.Equal(b)
}

func (g *regionKeys) bounds(r regionCell) space.Box {
	return space.Box{Lower: r.box.Lower.Clone(), Upper: r.box.Upper.Clone()}
}

func (g *regionKeys) point(k space.Point) space.Point {
	return k.Clone()
}

func (g *regionKeys) degenerate() bool {
	for _, s := range g.scale {
		if s != 0 {
			return false
		}
	}
	return true
}

// parent returns the cell twice as large that holds r as child idx, grown
// downward along the axes where k is below r. It needs r's faces to lie on
// the planes of its own scale values, and fails if the scale would lose
// exactness.
func (g *regionKeys) parent(r regionCell, k space.Point) (p regionCell, idx int, ok bool) {
	p = regionCell{
		box: space.Box{Lower: r.box.Lower.Clone(), Upper: r.box.Upper.Clone()},
		q:   make([]float64, len(r.q)),
		w:   2 * r.w,
	}
	if math.IsInf(p.w, 0) {
		return p, 0, false
	}

	for i, x := range k {
		if x < r.box.Lower[i] {
			q := r.q[i] - r.w
			if q+r.w != r.q[i] {
				return p, 0, false
			}
			p.q[i] = q
			p.box.Lower[i] = g.plane(i, q)
			idx |= 1 << i
		} else {
			top := r.q[i] + p.w
			if top-p.w != r.q[i] {
				return p, 0, false
			}
			p.q[i] = r.q[i]
			p.box.Upper[i] = g.plane(i, top)
		}
	}
	return p, idx, true
}

// boxSelector matches keys inside a closed box.
type boxSelector struct {
	q space.Box
}

func (s boxSelector) overlaps(r regionCell) bool { return s.q.Overlaps(r.box) }
func (s boxSelector) encloses(r regionCell) bool { return s.q.ContainsBox(r.box) }
func (s boxSelector) matches(k space.Point) bool { return s.q.Contains(k) }

// sphereSelector matches keys inside a closed sphere.
type sphereSelector struct {
	q space.Sphere
}

func (s sphereSelector) overlaps(r regionCell) bool { return s.q.Overlaps(r.box) }
func (s sphereSelector) encloses(r regionCell) bool { return s.q.ContainsBox(r.box) }
func (s sphereSelector) matches(k space.Point) bool { return s.q.Contains(k) }

// pointMetric measures squared Euclidean distances from a point.
type pointMetric struct {
	at space.Point
}

func (m pointMetric) keyDist(k space.Point) float64 { return space.SquaredDistance(m.at, k) }
func (m pointMetric) regionDist(r regionCell) float64 {
	return space.SquaredDistanceToClosestEdge(m.at, r.box)
}
func (m pointMetric) length(d float64) float64 { return math.Sqrt(d) }
func (m pointMetric) cmp(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
