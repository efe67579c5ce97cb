package locator

import (
	"math"

	"github.com/3worlds/uit/space"
)

const (
	// MaxBits bounds the grid side to 2^MaxBits cells per axis.
	MaxBits = 60
	// coordinates handed out by Locate stay within ±limit
	limit = int64(1) << 61
)

// Factory quantizes points of a domain onto an integer grid whose cells have
// side Precision. Cell 0 starts at the lower corner of the construction
// domain. The grid is a power-of-two cube covering the domain; Expand doubles it.
type Factory struct {
	origin    space.Point
	precision float64
	domain    space.Box
	grid      Cell
	bits      uint
}

// NewFactory builds a factory for the domain with the given cell size.
func NewFactory(domain space.Box, precision float64) (*Factory, error) {
	if err := domain.Validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(precision) || math.IsInf(precision, 0) || precision <= 0 {
		return nil, space.Errorf(space.KindInvalidGeometry, "locator factory", "precision %v", precision)
	}

	cells := math.Floor(domain.MaxSide() / precision)
	if math.IsInf(cells, 0) || cells >= 1<<MaxBits {
		return nil, space.Errorf(space.KindInvalidGeometry, "locator factory",
			"precision %v is too fine for a domain of side %v", precision, domain.MaxSide())
	}

	// smallest power of two strictly greater than the last cell index
	var nbits uint
	for float64(uint64(1)<<nbits) <= cells {
		nbits++
	}

	return &Factory{
		origin:    domain.Lower.Clone(),
		precision: precision,
		domain:    copyBox(domain),
		grid:      Cell{Lo: make(Locator, domain.Dim()), Side: 1 << nbits},
		bits:      nbits,
	}, nil
}

// copyBox copies a box so the factory never aliases caller memory.
func copyBox(b space.Box) space.Box {
	return space.Box{Lower: b.Lower.Clone(), Upper: b.Upper.Clone()}
}

func (f *Factory) Dim() int {
	return len(f.origin)
}

func (f *Factory) Precision() float64 {
	return f.precision
}

// Domain returns the box accepted by NewLocator.
func (f *Factory) Domain() space.Box {
	return copyBox(f.domain)
}

// Grid returns the cell covering the whole grid.
func (f *Factory) Grid() Cell {
	return Cell{Lo: f.grid.Lo.Clone(), Side: f.grid.Side}
}

// Bits returns log2 of the grid side.
func (f *Factory) Bits() uint {
	return f.bits
}

// NewLocator quantizes a point of the domain.
func (f *Factory) NewLocator(p space.Point) (Locator, error) {
	if err := space.CheckDim("new locator", f.Dim(), len(p)); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !f.domain.Contains(p) {
		return nil, space.Errorf(space.KindDomainViolation, "new locator", "%v is outside %v", p, f.domain)
	}

	return f.locate(p), nil
}

// Locate quantizes any finite point, inside the domain or not. It fails with
// a domain violation only when the cell index would leave the representable range.
func (f *Factory) Locate(p space.Point) (Locator, error) {
	if err := space.CheckDim("locate", f.Dim(), len(p)); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	for i, x := range p {
		if c := math.Floor((x - f.origin[i]) / f.precision); c <= -float64(limit) || c >= float64(limit) {
			return nil, space.Errorf(space.KindDomainViolation, "locate", "coordinate %d of %v is out of range", i, p)
		}
	}

	return f.locate(p), nil
}

// LocateClamped quantizes p, saturating cell indexes at the representable
// range. Saturation never changes which grid cells fall inside a query box.
func (f *Factory) LocateClamped(p space.Point) Locator {
	l := make(Locator, len(p))
	for i, x := range p {
		c := math.Floor((x - f.origin[i]) / f.precision)
		switch {
		case c <= -float64(limit):
			l[i] = -limit
		case c >= float64(limit):
			l[i] = limit
		default:
			l[i] = int64(c)
		}
	}
	return l
}

func (f *Factory) locate(p space.Point) Locator {
	l := make(Locator, len(p))
	for i, x := range p {
		l[i] = int64(math.Floor((x - f.origin[i]) / f.precision))
	}
	return l
}

// ToPoint returns the lower corner of the cell of l.
func (f *Factory) ToPoint(l Locator) space.Point {
	p := make(space.Point, len(l))
	for i, x := range l {
		p[i] = f.origin[i] + float64(x)*f.precision
	}
	return p
}

// CellBox returns the continuous box covered by the cell of l.
func (f *Factory) CellBox(l Locator) space.Box {
	lower := f.ToPoint(l)
	return space.Box{Lower: lower, Upper: lower.AddScalar(f.precision)}
}

// CellsBox returns the continuous box covered by a grid cell.
func (f *Factory) CellsBox(c Cell) space.Box {
	lower := f.ToPoint(c.Lo)
	return space.Box{Lower: lower, Upper: f.ToPoint(c.Lo.AddScalar(c.Side))}
}

// Cells converts a distance to a whole number of cells, rounding to nearest
// and saturating at the representable range.
func (f *Factory) Cells(d float64) int64 {
	c := math.Round(d / f.precision)
	if c >= float64(limit) {
		return limit
	}
	return int64(c)
}

// Expand returns a copy of the factory whose grid has been doubled as many
// times as needed to contain l, together with the child index the old grid
// takes inside the new one at each step. Bit i of a step is set when the grid
// grew downward along axis i. The receiver is not modified.
func (f *Factory) Expand(l Locator) (*Factory, []int, error) {
	if err := space.CheckDim("expand", f.Dim(), len(l)); err != nil {
		return nil, nil, err
	}

	var (
		grid  = f.Grid()
		nbits = f.bits
		steps []int
	)

	for !grid.Contains(l) {
		if nbits >= MaxBits {
			return nil, nil, space.Errorf(space.KindDomainViolation, "expand",
				"%v is beyond the largest grid of %d bits", l, MaxBits)
		}

		var idx int
		for i, x := range l {
			if x < grid.Lo[i] {
				idx |= 1 << i
			}
		}

		grid = grid.Parent(idx)
		nbits++
		steps = append(steps, idx)
	}

	g := &Factory{
		origin:    f.origin,
		precision: f.precision,
		grid:      grid,
		bits:      nbits,
	}
	g.domain = g.CellsBox(grid)
	if len(steps) == 0 {
		g.domain = copyBox(f.domain)
	}

	return g, steps, nil
}

// AdoptGrid makes the accepted domain the whole grid.
func (f *Factory) AdoptGrid() {
	f.domain = f.CellsBox(f.grid)
}
