package locator

import (
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3worlds/uit/space"
)

func TestSqDist_Small(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(5), Distance1D(-2, 3))
	assert.Equal(t, uint64(5), Distance1D(3, -2))
	assert.Equal(t, SqDist{Lo: 25}, SquaredDistance2(0, 0, 3, 4))
	assert.Equal(t, SqDist{Lo: 9}, SquaredDistance3(1, 2, 2, 2, 4, 4))
	assert.Equal(t, SqDist{Lo: 9}, SquaredDistance(Locator{1, 2, 2}, Locator{2, 4, 4}))
	assert.Equal(t, 3.0, Distance(Locator{1, 2, 2}, Locator{2, 4, 4}))
	assert.True(t, SqDist{}.IsZero())
	assert.Equal(t, 1, MaxSqDist.Cmp(SqDist{Hi: 1}))

	assert.Panics(t, func() { SquaredDistance(Locator{1}, Locator{1, 2}) })
}

// Exact against math/big for coordinates near the representable limit.
func TestSqDist_Exact(t *testing.T) {
	t.Parallel()

	faker := gofakeit.New(9)

	for i := 0; i < 500; i++ {
		var (
			dim  = faker.IntRange(1, 16)
			a    = make(Locator, dim)
			b    = make(Locator, dim)
			want = new(big.Int)
		)
		for j := range a {
			a[j] = faker.Int64()%limit
			b[j] = faker.Int64()%limit

			d := new(big.Int).Sub(big.NewInt(a[j]), big.NewInt(b[j]))
			want.Add(want, d.Mul(d, d))
		}

		var (
			got = SquaredDistance(a, b)
			hi  = new(big.Int).Lsh(new(big.Int).SetUint64(got.Hi), 64)
		)
		hi.Add(hi, new(big.Int).SetUint64(got.Lo))

		require.Equal(t, 0, want.Cmp(hi), fmt.Sprintf("%v %v", a, b))
	}
}

func TestSqDist_Cmp(t *testing.T) {
	t.Parallel()

	for _, tcase := range []*struct {
		A, B SqDist
		Exp  int
	}{
		{SqDist{0, 1}, SqDist{0, 2}, -1},
		{SqDist{1, 0}, SqDist{0, math.MaxUint64}, 1},
		{SqDist{3, 3}, SqDist{3, 3}, 0},
	} {
		assert.Equal(t, tcase.Exp, tcase.A.Cmp(tcase.B))
		assert.Equal(t, -tcase.Exp, tcase.B.Cmp(tcase.A))
	}

	assert.Equal(t, SqDist{Hi: 1, Lo: 0}, SqDist{Lo: math.MaxUint64}.Add(SqDist{Lo: 1}))
	assert.Equal(t, math.Pow(2, 64), SqDist{Hi: 1}.Float64())
	assert.Equal(t, math.Pow(2, 32), SqDist{Hi: 1}.Sqrt())
}

func TestCell(t *testing.T) {
	t.Parallel()

	c := Cell{Lo: Locator{0, 8}, Side: 8}

	assert.True(t, c.Contains(Locator{0, 8}))
	assert.True(t, c.Contains(Locator{7, 15}))
	assert.False(t, c.Contains(Locator{8, 8}))
	assert.False(t, c.Contains(Locator{0, 7}))
	assert.False(t, c.Contains(Locator{0}))
	assert.True(t, c.CanSplit())
	assert.False(t, Cell{Lo: Locator{0}, Side: 1}.CanSplit())
	assert.Equal(t, Locator{7, 15}, c.Hi())

	// children partition the cell
	for i := 0; i < 4; i++ {
		child := c.Child(i)
		assert.Equal(t, int64(4), child.Side)
		assert.Equal(t, i, c.ChildIndex(child.Lo))
		assert.Equal(t, i, c.ChildIndex(child.Hi()))
		assert.Equal(t, c, child.Parent(i))
	}
	assert.Equal(t, Cell{Lo: Locator{4, 12}, Side: 4}, c.Child(3))

	assert.True(t, c.Overlaps(Locator{7, 0}, Locator{100, 8}))
	assert.False(t, c.Overlaps(Locator{8, 0}, Locator{100, 8}))
	assert.True(t, c.Within(Locator{0, 8}, Locator{7, 15}))
	assert.False(t, c.Within(Locator{0, 9}, Locator{7, 15}))

	assert.Equal(t, SqDist{}, c.SquaredDistanceTo(Locator{3, 9}))
	assert.Equal(t, SqDist{Lo: 4 + 9}, c.SquaredDistanceTo(Locator{-2, 18}))
	assert.Equal(t, SqDist{Lo: 7*7 + 7*7}, c.SquaredDistanceToFarthest(Locator{0, 8}))
}

func TestLocator(t *testing.T) {
	t.Parallel()

	l := Locator{1, -2, 3}

	assert.Equal(t, Locator{2, 0, 6}, l.Add(Locator{1, 2, 3}))
	assert.Equal(t, Locator{0, -3, 2}, l.AddScalar(-1))
	assert.Equal(t, Locator{1, 8, 3}, l.AddAxis(10, 1))
	assert.Equal(t, Locator{1, -2, 3}, l)
	assert.Equal(t, 3, l.Dim())
	assert.Panics(t, func() { l.Add(Locator{1}) })

	assert.Equal(t, "[1,-2,3]", l.String())

	p, err := Parse(l.String())
	require.NoError(t, err)
	assert.True(t, l.Equal(p))

	_, err = Parse("[1,2.5]")
	assert.ErrorIs(t, err, space.ErrParse)
	_, err = Parse("1,2")
	assert.ErrorIs(t, err, space.ErrParse)
}
