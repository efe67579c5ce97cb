package space

import (
	"math"
	"runtime"

	"golang.org/x/sys/cpu"
)

// fused selects math.FMA accumulation for the N-axis kernels. All of them
// accumulate the same way so that box bounds never exceed point distances.
var fused bool

func init() {
	// arm64 always has fused multiply-add; on amd64 it depends on the CPU.
	fused = cpu.X86.HasFMA || runtime.GOARCH == "arm64"
}

// KernelDesc describes the N-axis distance implementation in use (for logging).
func KernelDesc() string {
	if fused {
		return "Go+FMA"
	}
	return "Go"
}

func accumulate(sum, d float64) float64 {
	if fused {
		return math.FMA(d, d, sum)
	}
	return sum + d*d
}

func Sqr(x float64) float64 {
	return x * x
}

// Distance1D is |a-b|.
func Distance1D(a, b float64) float64 {
	return math.Abs(a - b)
}

func SquaredDistance2(x1, y1, x2, y2 float64) float64 {
	return Sqr(x1-x2) + Sqr(y1-y2)
}

func SquaredDistance3(x1, y1, z1, x2, y2, z2 float64) float64 {
	return Sqr(x1-x2) + Sqr(y1-y2) + Sqr(z1-z2)
}

func Distance2(x1, y1, x2, y2 float64) float64 {
	return math.Sqrt(SquaredDistance2(x1, y1, x2, y2))
}

func Distance3(x1, y1, z1, x2, y2, z2 float64) float64 {
	return math.Sqrt(SquaredDistance3(x1, y1, z1, x2, y2, z2))
}

// SumOfSquares returns the sum of the squared values.
func SumOfSquares(xs ...float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x * x
	}
	return sum
}

// SquaredDistance returns the squared Euclidean distance. It panics if the
// dimensions differ.
func SquaredDistance(p, q Point) float64 {
	mustSameDim(len(p), len(q))

	var sum float64
	for i := range p {
		sum = accumulate(sum, p[i]-q[i])
	}
	return sum
}

// Distance returns the Euclidean distance. It panics if the dimensions differ.
func Distance(p, q Point) float64 {
	return math.Sqrt(SquaredDistance(p, q))
}

// SquaredDistanceToClosestEdge returns the squared distance from p to the
// closest point of b, which is zero when b contains p. This is a lower bound
// of the distance from p to anything stored inside b.
func SquaredDistanceToClosestEdge(p Point, b Box) float64 {
	mustSameDim(len(p), b.Dim())

	var sum float64
	for i, x := range p {
		var d float64
		switch {
		case x < b.Lower[i]:
			d = b.Lower[i] - x
		case x > b.Upper[i]:
			d = x - b.Upper[i]
		}
		sum = accumulate(sum, d)
	}
	return sum
}

// DistanceToClosestEdge is the square root of SquaredDistanceToClosestEdge.
func DistanceToClosestEdge(p Point, b Box) float64 {
	return math.Sqrt(SquaredDistanceToClosestEdge(p, b))
}

// SquaredDistanceToFarthestCorner returns the squared distance from p to the
// farthest point of b.
func SquaredDistanceToFarthestCorner(p Point, b Box) float64 {
	mustSameDim(len(p), b.Dim())

	var sum float64
	for i, x := range p {
		sum = accumulate(sum, math.Max(math.Abs(x-b.Lower[i]), math.Abs(x-b.Upper[i])))
	}
	return sum
}
