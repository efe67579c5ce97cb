package space

import "math"

// Sphere is a closed ball: every x with |x-Centre| <= Radius.
type Sphere struct {
	Centre Point
	Radius float64
}

// Relation is how a box lies relative to a sphere.
type Relation uint8

const (
	Outside Relation = iota
	Straddles
	Inside
)

func (r Relation) String() string {
	switch r {
	case Outside:
		return "outside"
	case Inside:
		return "inside"
	}
	return "straddles"
}

func NewSphere(centre Point, radius float64) (Sphere, error) {
	s := Sphere{Centre: centre.Clone(), Radius: radius}

	if err := s.Validate(); err != nil {
		return Sphere{}, err
	}
	return s, nil
}

func (s Sphere) Validate() error {
	if err := s.Centre.Validate(); err != nil {
		return Wrap(KindInvalidGeometry, "sphere", err, "centre")
	}
	if math.IsNaN(s.Radius) || math.IsInf(s.Radius, 0) || s.Radius < 0 {
		return Errorf(KindInvalidGeometry, "sphere", "radius %v", s.Radius)
	}
	return nil
}

func (s Sphere) Dim() int {
	return len(s.Centre)
}

// Contains reports whether p is inside the sphere or on its surface.
func (s Sphere) Contains(p Point) bool {
	if len(p) != len(s.Centre) {
		return false
	}
	return s.reaches(func(i int) float64 { return math.Abs(p[i] - s.Centre[i]) })
}

// ContainsBox reports whether every point of b is inside the sphere.
func (s Sphere) ContainsBox(b Box) bool {
	if b.Dim() != len(s.Centre) {
		return false
	}
	return s.reaches(func(i int) float64 {
		return math.Max(math.Abs(s.Centre[i]-b.Lower[i]), math.Abs(s.Centre[i]-b.Upper[i]))
	})
}

// Overlaps reports whether the sphere and b share at least one point.
func (s Sphere) Overlaps(b Box) bool {
	if b.Dim() != len(s.Centre) {
		return false
	}
	return s.reaches(func(i int) float64 {
		switch x := s.Centre[i]; {
		case x < b.Lower[i]:
			return b.Lower[i] - x
		case x > b.Upper[i]:
			return x - b.Upper[i]
		}
		return 0
	})
}

// reaches reports whether the vector with non-negative components d(i) is no
// longer than the radius. The components and the radius are scaled by the
// same power of two first, which is exact and keeps the squares from
// underflowing or overflowing.
func (s Sphere) reaches(d func(i int) float64) bool {
	var longest float64
	for i := range s.Centre {
		longest = math.Max(longest, d(i))
	}
	switch {
	case longest == 0:
		return true
	case longest > s.Radius:
		return false
	}

	_, exp := math.Frexp(s.Radius)

	var sum float64
	for i := range s.Centre {
		sum = accumulate(sum, math.Ldexp(d(i), -exp))
	}
	r := math.Ldexp(s.Radius, -exp)
	return sum <= r*r
}

// OverlapsSphere reports whether the two spheres share at least one point.
func (s Sphere) OverlapsSphere(o Sphere) bool {
	if len(o.Centre) != len(s.Centre) {
		return false
	}
	return Distance(s.Centre, o.Centre) <= s.Radius+o.Radius
}

// Classify tells whether b is fully inside, fully outside or straddling the sphere.
func (s Sphere) Classify(b Box) Relation {
	switch {
	case !s.Overlaps(b):
		return Outside
	case s.ContainsBox(b):
		return Inside
	}
	return Straddles
}

// InSphere reports whether b lies entirely inside s.
func InSphere(b Box, s Sphere) bool {
	return s.Classify(b) == Inside
}

// OutSphere reports whether b lies entirely outside s.
func OutSphere(b Box, s Sphere) bool {
	return s.Classify(b) == Outside
}

func (s Sphere) Equal(o Sphere) bool {
	return s.Radius == o.Radius && s.Centre.Equal(o.Centre)
}

func (s Sphere) String() string {
	return FormatSphere(s)
}
