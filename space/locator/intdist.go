package locator

import (
	"math"
	"math/bits"
)

// SqDist is an exact squared distance between grid points, held as a 128-bit
// unsigned integer. Grid coordinates stay within ±2^61, so per-axis
// differences fit in 62 bits and up to sixteen squared terms fit in 128.
type SqDist struct {
	Hi, Lo uint64
}

var MaxSqDist = SqDist{Hi: math.MaxUint64, Lo: math.MaxUint64}

// Sq returns d*d.
func Sq(d uint64) SqDist {
	hi, lo := bits.Mul64(d, d)
	return SqDist{Hi: hi, Lo: lo}
}

func (d SqDist) Add(o SqDist) SqDist {
	lo, carry := bits.Add64(d.Lo, o.Lo, 0)
	hi, _ := bits.Add64(d.Hi, o.Hi, carry)
	return SqDist{Hi: hi, Lo: lo}
}

// Cmp returns -1, 0 or +1.
func (d SqDist) Cmp(o SqDist) int {
	switch {
	case d.Hi < o.Hi:
		return -1
	case d.Hi > o.Hi:
		return 1
	case d.Lo < o.Lo:
		return -1
	case d.Lo > o.Lo:
		return 1
	}
	return 0
}

func (d SqDist) IsZero() bool {
	return d.Hi == 0 && d.Lo == 0
}

// Float64 converts d with ordinary float rounding.
func (d SqDist) Float64() float64 {
	return float64(d.Hi)*(1<<64) + float64(d.Lo)
}

// Sqrt returns the distance whose square is d.
func (d SqDist) Sqrt() float64 {
	return math.Sqrt(d.Float64())
}

// Distance1D returns |a-b|.
func Distance1D(a, b int64) uint64 {
	if a > b {
		return uint64(a - b)
	}
	return uint64(b - a)
}

func SquaredDistance2(x1, y1, x2, y2 int64) SqDist {
	return Sq(Distance1D(x1, x2)).Add(Sq(Distance1D(y1, y2)))
}

func SquaredDistance3(x1, y1, z1, x2, y2, z2 int64) SqDist {
	return Sq(Distance1D(x1, x2)).Add(Sq(Distance1D(y1, y2))).Add(Sq(Distance1D(z1, z2)))
}

// SquaredDistance returns the exact squared distance. It panics if the
// dimensions differ.
func SquaredDistance(a, b Locator) SqDist {
	if len(a) != len(b) {
		panic("locator: dimension mismatch")
	}

	var sum SqDist
	for i := range a {
		sum = sum.Add(Sq(Distance1D(a[i], b[i])))
	}
	return sum
}

// Distance is the square root of SquaredDistance, in grid units.
func Distance(a, b Locator) float64 {
	return SquaredDistance(a, b).Sqrt()
}
