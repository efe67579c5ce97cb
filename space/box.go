package space

import "math"

// Box is a closed axis-aligned box: Lower[i] <= x[i] <= Upper[i] on every axis.
type Box struct {
	Lower Point
	Upper Point
}

// NewBox validates the corners and returns a Box owning copies of them.
func NewBox(lower, upper Point) (Box, error) {
	b := Box{Lower: lower.Clone(), Upper: upper.Clone()}

	if err := b.Validate(); err != nil {
		return Box{}, err
	}
	return b, nil
}

// BoundingBox returns the smallest box enclosing both points.
func BoundingBox(a, b Point) (Box, error) {
	if err := CheckDim("bounding box", len(a), len(b)); err != nil {
		return Box{}, err
	}

	var (
		lo = make(Point, len(a))
		hi = make(Point, len(a))
	)
	for i := range a {
		lo[i], hi[i] = math.Min(a[i], b[i]), math.Max(a[i], b[i])
	}

	return NewBox(lo, hi)
}

// BoundingCube returns the smallest cube enclosing both points and sharing
// the lower corner of their bounding box.
func BoundingCube(a, b Point) (Box, error) {
	box, err := BoundingBox(a, b)
	if err != nil {
		return Box{}, err
	}
	return box.Cube(), nil
}

// SphereBounds returns the smallest box enclosing the sphere.
func SphereBounds(s Sphere) Box {
	return Box{
		Lower: s.Centre.AddScalar(-s.Radius),
		Upper: s.Centre.AddScalar(s.Radius),
	}
}

// Validate checks dimensions, finiteness and corner ordering.
func (b Box) Validate() error {
	if err := CheckDim("box", len(b.Lower), len(b.Upper)); err != nil {
		return err
	}
	if err := b.Lower.Validate(); err != nil {
		return Wrap(KindInvalidGeometry, "box", err, "lower corner")
	}
	if err := b.Upper.Validate(); err != nil {
		return Wrap(KindInvalidGeometry, "box", err, "upper corner")
	}
	for i := range b.Lower {
		if b.Lower[i] > b.Upper[i] {
			return Errorf(KindInvalidGeometry, "box", "lower > upper on axis %d", i)
		}
	}
	return nil
}

func (b Box) Dim() int {
	return len(b.Lower)
}

// Contains reports whether p lies inside b or on its border.
func (b Box) Contains(p Point) bool {
	if len(p) != len(b.Lower) {
		return false
	}
	for i, x := range p {
		if x < b.Lower[i] || x > b.Upper[i] {
			return false
		}
	}
	return true
}

// ContainsBox reports whether o lies entirely inside b.
func (b Box) ContainsBox(o Box) bool {
	if len(o.Lower) != len(b.Lower) {
		return false
	}
	for i := range b.Lower {
		if o.Lower[i] < b.Lower[i] || o.Upper[i] > b.Upper[i] {
			return false
		}
	}
	return true
}

// ContainsSphere reports whether s lies entirely inside b.
func (b Box) ContainsSphere(s Sphere) bool {
	return b.ContainsBox(SphereBounds(s))
}

// Overlaps reports whether the closed boxes share at least one point.
func (b Box) Overlaps(o Box) bool {
	if len(o.Lower) != len(b.Lower) {
		return false
	}
	for i := range b.Lower {
		if o.Upper[i] < b.Lower[i] || o.Lower[i] > b.Upper[i] {
			return false
		}
	}
	return true
}

// IsPointOnBorder reports whether p is inside b and touches one of its faces.
func (b Box) IsPointOnBorder(p Point) bool {
	if !b.Contains(p) {
		return false
	}
	for i, x := range p {
		if x == b.Lower[i] || x == b.Upper[i] {
			return true
		}
	}
	return false
}

func (b Box) Centre() Point {
	c := make(Point, len(b.Lower))
	for i := range c {
		c[i] = b.Lower[i] + (b.Upper[i]-b.Lower[i])/2
	}
	return c
}

func (b Box) Side(axis int) float64 {
	return b.Upper[axis] - b.Lower[axis]
}

// MaxSide returns the longest side length.
func (b Box) MaxSide() float64 {
	var side float64
	for i := range b.Lower {
		side = math.Max(side, b.Side(i))
	}
	return side
}

// Volume returns the product of the side lengths.
func (b Box) Volume() float64 {
	v := 1.0
	for i := range b.Lower {
		v *= b.Side(i)
	}
	return v
}

func (b Box) IsCube() bool {
	for i := 1; i < len(b.Lower); i++ {
		if b.Side(i) != b.Side(0) {
			return false
		}
	}
	return true
}

// Cube returns the cube with the lower corner of b and side b.MaxSide().
func (b Box) Cube() Box {
	side := b.MaxSide()
	return Box{
		Lower: b.Lower.Clone(),
		Upper: b.Lower.AddScalar(side),
	}
}

func (b Box) Equal(o Box) bool {
	return b.Lower.Equal(o.Lower) && b.Upper.Equal(o.Upper)
}

func (b Box) String() string {
	return FormatBox(b)
}
