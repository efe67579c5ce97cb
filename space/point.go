package space

import "math"

// Point is an ordered sequence of coordinates. Points are treated as
// immutable values: no function of this package modifies a Point it was
// given, and every derived Point is freshly allocated.
type Point []float64

// NewPoint copies the coordinates into a new Point and checks they are finite.
func NewPoint(coords ...float64) (Point, error) {
	p := make(Point, len(coords))
	copy(p, coords)

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Origin returns the zero Point of the given dimension.
func Origin(dim int) Point {
	return make(Point, dim)
}

// Validate reports an invalid geometry error for an empty or non-finite point.
func (p Point) Validate() error {
	if len(p) == 0 {
		return Errorf(KindInvalidGeometry, "point", "zero dimension")
	}
	for i, x := range p {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Errorf(KindInvalidGeometry, "point", "coordinate %d is %v", i, x)
		}
	}
	return nil
}

func (p Point) Dim() int {
	return len(p)
}

func (p Point) Coord(axis int) float64 {
	return p[axis]
}

// Equal reports whether both points have the same dimension and coordinates.
func (p Point) Equal(q Point) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Add returns p+q. It panics if the dimensions differ.
func (p Point) Add(q Point) Point {
	mustSameDim(len(p), len(q))

	r := make(Point, len(p))
	for i := range p {
		r[i] = p[i] + q[i]
	}
	return r
}

// Sub returns p-q. It panics if the dimensions differ.
func (p Point) Sub(q Point) Point {
	mustSameDim(len(p), len(q))

	r := make(Point, len(p))
	for i := range p {
		r[i] = p[i] - q[i]
	}
	return r
}

// Scale returns s*p.
func (p Point) Scale(s float64) Point {
	r := make(Point, len(p))
	for i := range p {
		r[i] = p[i] * s
	}
	return r
}

// AddScalar adds s to every coordinate.
func (p Point) AddScalar(s float64) Point {
	r := make(Point, len(p))
	for i := range p {
		r[i] = p[i] + s
	}
	return r
}

// AddAxis returns a copy of p with delta added to one coordinate.
func (p Point) AddAxis(delta float64, axis int) Point {
	r := p.Clone()
	r[axis] += delta
	return r
}

func (p Point) Clone() Point {
	r := make(Point, len(p))
	copy(r, p)
	return r
}

func (p Point) String() string {
	return FormatPoint(p)
}

func mustSameDim(a, b int) {
	if a != b {
		panic(Errorf(KindDimensionMismatch, "", "%d != %d", a, b))
	}
}
