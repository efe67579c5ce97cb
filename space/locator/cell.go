package locator

// Cell is a cube of grid points: Lo[i] <= x[i] < Lo[i]+Side on every axis.
// Side is a power of two, so a cell bisects into 2^dim equal child cells.
type Cell struct {
	Lo   Locator
	Side int64
}

func (c Cell) Dim() int {
	return len(c.Lo)
}

// Contains reports whether l is a grid point of c.
func (c Cell) Contains(l Locator) bool {
	if len(l) != len(c.Lo) {
		return false
	}
	for i, x := range l {
		if x < c.Lo[i] || x-c.Lo[i] >= c.Side {
			return false
		}
	}
	return true
}

// CanSplit reports whether c has more than one grid point per axis.
func (c Cell) CanSplit() bool {
	return c.Side > 1
}

// ChildIndex returns the index of the child holding l: bit i is set when l
// lies in the upper half along axis i.
func (c Cell) ChildIndex(l Locator) int {
	var (
		half = c.Side / 2
		idx  int
	)
	for i, x := range l {
		if x-c.Lo[i] >= half {
			idx |= 1 << i
		}
	}
	return idx
}

// Child returns the child cell of the given index.
func (c Cell) Child(idx int) Cell {
	var (
		half = c.Side / 2
		lo   = c.Lo.Clone()
	)
	for i := range lo {
		if idx&(1<<i) != 0 {
			lo[i] += half
		}
	}
	return Cell{Lo: lo, Side: half}
}

// Parent returns the cell twice as large that holds c as child idx.
func (c Cell) Parent(idx int) Cell {
	lo := c.Lo.Clone()
	for i := range lo {
		if idx&(1<<i) != 0 {
			lo[i] -= c.Side
		}
	}
	return Cell{Lo: lo, Side: c.Side * 2}
}

// Hi returns the last grid point of c.
func (c Cell) Hi() Locator {
	return c.Lo.AddScalar(c.Side - 1)
}

// Overlaps reports whether c shares a grid point with the inclusive range [lo, hi].
func (c Cell) Overlaps(lo, hi Locator) bool {
	for i := range c.Lo {
		if hi[i] < c.Lo[i] || lo[i] > c.Lo[i]+c.Side-1 {
			return false
		}
	}
	return true
}

// Within reports whether every grid point of c lies in the inclusive range [lo, hi].
func (c Cell) Within(lo, hi Locator) bool {
	for i := range c.Lo {
		if c.Lo[i] < lo[i] || c.Lo[i]+c.Side-1 > hi[i] {
			return false
		}
	}
	return true
}

// SquaredDistanceTo returns the exact squared distance from q to the closest
// grid point of c. It is zero when c contains q.
func (c Cell) SquaredDistanceTo(q Locator) SqDist {
	var sum SqDist
	for i, x := range q {
		var (
			lo = c.Lo[i]
			hi = lo + c.Side - 1
		)
		switch {
		case x < lo:
			sum = sum.Add(Sq(uint64(lo - x)))
		case x > hi:
			sum = sum.Add(Sq(uint64(x - hi)))
		}
	}
	return sum
}

// SquaredDistanceToFarthest returns the exact squared distance from q to the
// farthest grid point of c.
func (c Cell) SquaredDistanceToFarthest(q Locator) SqDist {
	var sum SqDist
	for i, x := range q {
		var (
			lo = c.Lo[i]
			hi = lo + c.Side - 1
		)
		sum = sum.Add(Sq(max(Distance1D(x, lo), Distance1D(x, hi))))
	}
	return sum
}
