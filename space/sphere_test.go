package space

import (
	"errors"
	"math"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
)

func TestNewSphere_Invalid(t *testing.T) {
	t.Parallel()

	_, err := NewSphere(Point{0, 0}, -1)
	assert.True(t, errors.Is(err, ErrInvalidGeometry))

	_, err = NewSphere(Point{0, math.NaN()}, 1)
	assert.True(t, errors.Is(err, ErrInvalidGeometry))

	_, err = NewSphere(Point{0, 0}, math.Inf(1))
	assert.True(t, errors.Is(err, ErrInvalidGeometry))

	s, err := NewSphere(Point{0, 0}, 0)
	assert.NoError(t, err)
	assert.True(t, s.Contains(Point{0, 0}))
	assert.False(t, s.Contains(Point{0, 1e-300}))
}

func TestSphere_ExtremeScales(t *testing.T) {
	t.Parallel()

	for _, tcase := range []*struct {
		Name   string
		Sphere Sphere
		Point  Point
		Box    Box
		Exp    bool // Contains(Point)
		ExpBox Relation
	}{
		{
			"zero radius", Sphere{Point{0, 0}, 0}, Point{0, 1e-300},
			Box{Point{0, 1e-300}, Point{1, 1}}, false, Outside,
		},
		{
			"zero radius centre", Sphere{Point{0, 0}, 0}, Point{0, 0},
			Box{Point{0, 0}, Point{0, 0}}, true, Inside,
		},
		{
			"tiny", Sphere{Point{0, 0}, 1e-300}, Point{0, 1e-300},
			Box{Point{0, 0}, Point{1e-300, 1e-300}}, true, Straddles,
		},
		{
			"tiny outside", Sphere{Point{0, 0}, 1e-300}, Point{1e-300, 1e-300},
			Box{Point{2e-300, 0}, Point{3e-300, 1}}, false, Outside,
		},
		{
			"huge", Sphere{Point{0, 0}, 1e200}, Point{1e200, 0},
			Box{Point{-1e199, -1e199}, Point{1e199, 1e199}}, true, Inside,
		},
		{
			"huge outside", Sphere{Point{0, 0}, 1e200}, Point{1e200, 1e200},
			Box{Point{-1e200, -1e200}, Point{1e200, 1e200}}, false, Straddles,
		},
	} {
		tcase := tcase

		t.Run(tcase.Name, func(t *testing.T) {
			assert.Equal(t, tcase.Exp, tcase.Sphere.Contains(tcase.Point))
			assert.Equal(t, tcase.ExpBox, tcase.Sphere.Classify(tcase.Box))
		})
	}
}

func TestSphere_Classify(t *testing.T) {
	t.Parallel()

	s := Sphere{Centre: Point{0, 0}, Radius: 5}

	for _, tcase := range []*struct {
		Name string
		Box  Box
		Exp  Relation
	}{
		{"inside", Box{Point{-1, -1}, Point{1, 1}}, Inside},
		{"corner-on-surface", Box{Point{0, 0}, Point{3, 4}}, Inside},
		{"straddles", Box{Point{3, 3}, Point{6, 6}}, Straddles},
		{"edge-touch", Box{Point{5, -1}, Point{6, 1}}, Straddles},
		{"corner-miss", Box{Point{4, 4}, Point{6, 6}}, Outside},
		{"far", Box{Point{10, 10}, Point{11, 11}}, Outside},
		{"enclosing", Box{Point{-10, -10}, Point{10, 10}}, Straddles},
	} {
		tcase := tcase

		t.Run(tcase.Name, func(t *testing.T) {
			assert.Equal(t, tcase.Exp, s.Classify(tcase.Box))
			assert.Equal(t, tcase.Exp == Inside, InSphere(tcase.Box, s))
			assert.Equal(t, tcase.Exp == Outside, OutSphere(tcase.Box, s))
			assert.Equal(t, tcase.Exp != Outside, s.Overlaps(tcase.Box))
		})
	}
}

// Overlaps must agree with sampling: any sampled point of the box that lies
// in the sphere proves an overlap.
func TestSphere_OverlapsSampled(t *testing.T) {
	t.Parallel()

	faker := gofakeit.New(11)

	for i := 0; i < 500; i++ {
		var (
			s = Sphere{
				Centre: Point{faker.Float64Range(-5, 5), faker.Float64Range(-5, 5)},
				Radius: faker.Float64Range(0, 3),
			}
			lo = Point{faker.Float64Range(-5, 5), faker.Float64Range(-5, 5)}
			b  = Box{Lower: lo, Upper: lo.Add(Point{faker.Float64Range(0, 3), faker.Float64Range(0, 3)})}
		)

		for j := 0; j < 20; j++ {
			p := Point{
				faker.Float64Range(b.Lower[0], b.Upper[0]),
				faker.Float64Range(b.Lower[1], b.Upper[1]),
			}
			if s.Contains(p) {
				assert.True(t, s.Overlaps(b), "sphere %v box %v point %v", s, b, p)
			}
			if s.ContainsBox(b) {
				assert.True(t, s.Contains(p))
			}
		}
	}
}

func TestSphere_OverlapsSphere(t *testing.T) {
	t.Parallel()

	a := Sphere{Centre: Point{0, 0, 0}, Radius: 1}

	assert.True(t, a.OverlapsSphere(Sphere{Centre: Point{2, 0, 0}, Radius: 1}))
	assert.False(t, a.OverlapsSphere(Sphere{Centre: Point{2, 0, 0.1}, Radius: 1}))
	assert.False(t, a.OverlapsSphere(Sphere{Centre: Point{0, 0}, Radius: 1}))
}
