package indexing

import (
	"fmt"
	"math"
	"sort"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3worlds/uit/space"
)

// model is a linear-scan index holding the same entries as a tree under test.
// Quantized positions are compared as grid coordinates, so grid must match
// the tree precision and the tree domain must start at the origin.
type model struct {
	grid  float64 // 0 for continuous positions
	pos   map[Handle]space.Point
	items map[Handle]int
}

func newModel(grid float64) *model {
	return &model{grid: grid, pos: map[Handle]space.Point{}, items: map[Handle]int{}}
}

func (m *model) key(p space.Point) space.Point {
	if m.grid == 0 {
		return p
	}
	k := make(space.Point, len(p))
	for i, x := range p {
		k[i] = math.Floor(x / m.grid)
	}
	return k
}

func (m *model) length(sq float64) float64 {
	if m.grid == 0 {
		return math.Sqrt(sq)
	}
	return math.Sqrt(sq) * m.grid
}

func (m *model) insert(h Handle, item int, at space.Point) {
	m.pos[h] = m.key(at)
	m.items[h] = item
}

func (m *model) remove(h Handle) {
	delete(m.pos, h)
	delete(m.items, h)
}

func (m *model) withinBox(q space.Box) []int {
	kq := space.Box{Lower: m.key(q.Lower), Upper: m.key(q.Upper)}

	found := []int{}
	for h, p := range m.pos {
		if kq.Contains(p) {
			found = append(found, m.items[h])
		}
	}
	return found
}

func (m *model) withinSphere(q space.Sphere) []int {
	kq := space.Sphere{Centre: m.key(q.Centre), Radius: q.Radius}
	if m.grid != 0 {
		kq.Radius = math.Round(q.Radius / m.grid)
	}

	found := []int{}
	for h, p := range m.pos {
		if kq.Contains(p) {
			found = append(found, m.items[h])
		}
	}
	return found
}

// sqDists returns the squared distance of every entry, ascending.
func (m *model) sqDists(at space.Point) (sq []float64, nearest []int) {
	ka := m.key(at)

	best := math.Inf(1)
	for h, p := range m.pos {
		d := space.SquaredDistance(ka, p)
		sq = append(sq, d)

		switch {
		case d < best:
			best, nearest = d, []int{m.items[h]}
		case d == best:
			nearest = append(nearest, m.items[h])
		}
	}
	sort.Float64s(sq)

	return sq, nearest
}

type variant struct {
	Name      string
	Grid      float64
	Lo, Hi    float64 // range of inserted coordinates
	Expanding bool
	New       func(dim int, cfg *Config) (Tree[int], error)
}

func cube(dim int, lo, hi float64) space.Box {
	b := space.Box{Lower: make(space.Point, dim), Upper: make(space.Point, dim)}
	for i := 0; i < dim; i++ {
		b.Lower[i], b.Upper[i] = lo, hi
	}
	return b
}

func variants() []*variant {
	return []*variant{
		{
			Name: "bounded", Lo: 0, Hi: 100,
			New: func(dim int, cfg *Config) (Tree[int], error) {
				return NewBoundedRegionTree[int](cube(dim, 0, 100), cfg)
			},
		},
		{
			Name: "expanding", Lo: -300, Hi: 300, Expanding: true,
			New: func(dim int, cfg *Config) (Tree[int], error) {
				return NewExpandingRegionTree[int](cube(dim, 0, 10), cfg)
			},
		},
		{
			Name: "expanding-dim", Lo: -300, Hi: 300, Expanding: true,
			New: func(dim int, cfg *Config) (Tree[int], error) {
				return NewExpandingRegionTreeDim[int](dim, cfg)
			},
		},
		{
			Name: "limited", Grid: 0.5, Lo: 0, Hi: 100,
			New: func(dim int, cfg *Config) (Tree[int], error) {
				return NewLimitedPrecisionTree[int](cube(dim, 0, 100), 0.5, cfg)
			},
		},
		{
			Name: "expanding-limited", Grid: 0.5, Lo: -300, Hi: 300, Expanding: true,
			New: func(dim int, cfg *Config) (Tree[int], error) {
				return NewExpandingLimitedPrecisionTree[int](cube(dim, 0, 10), 0.5, cfg)
			},
		},
	}
}

// randomPoint draws coordinates on a quarter-unit lattice so that duplicate
// positions and distance ties are common.
func randomPoint(faker *gofakeit.Faker, dim int, lo, hi float64) space.Point {
	p := make(space.Point, dim)
	for i := range p {
		p[i] = float64(faker.Number(int(lo*4), int(hi*4))) / 4
	}
	return p
}

// checkNode verifies the subtree counts, regions and leaf sizes of a node
// view and returns its entry count. A leaf may only hold more than capacity
// entries when they all share one key.
func checkNode(t *testing.T, n Node[int], capacity int, keys map[int]space.Point) int {
	t.Helper()

	if n.IsLeaf() {
		items := n.Items()
		require.Equal(t, len(items), n.Len())
		if len(items) > capacity {
			for _, item := range items[1:] {
				require.Equal(t, keys[items[0]], keys[item], "leaf of %d entries at %v", len(items), n.Region())
			}
		}
		return n.Len()
	}

	var (
		children = n.Children()
		sum      int
	)
	require.Len(t, children, n.Occupied())
	for _, c := range children {
		require.True(t, n.Region().ContainsBox(c.Region()), "%v outside %v", c.Region(), n.Region())
		require.Positive(t, c.Len())
		sum += checkNode(t, c, capacity, keys)
	}
	require.Equal(t, n.Len(), sum)
	return sum
}

func checkQueries(t *testing.T, faker *gofakeit.Faker, v *variant, dim int, tree Tree[int], m *model) {
	t.Helper()

	require.Equal(t, len(m.pos), tree.Size())

	var (
		all  = []int{}
		keys = make(map[int]space.Point, len(m.items))
	)
	for h, item := range m.items {
		all = append(all, item)
		keys[item] = m.pos[h]
	}
	require.Equal(t, tree.Size(), checkNode(t, tree.Root(), leafCapacity, keys))

	assert.ElementsMatch(t, all, tree.AllItems())

	span := v.Hi - v.Lo
	for i := 0; i < 40; i++ {
		var (
			lo  = randomPoint(faker, dim, v.Lo-span/10, v.Hi)
			ext = randomPoint(faker, dim, 0, span/3)
			box = space.Box{Lower: lo, Upper: lo.Add(ext)}
		)
		got, err := tree.ItemsWithinBox(box)
		require.NoError(t, err)
		assert.ElementsMatch(t, m.withinBox(box), got, "box %v", box)

		sphere := space.Sphere{Centre: randomPoint(faker, dim, v.Lo, v.Hi), Radius: faker.Float64Range(0, span/4)}
		got, err = tree.ItemsWithinSphere(sphere)
		require.NoError(t, err)
		assert.ElementsMatch(t, m.withinSphere(sphere), got, "sphere %v", sphere)

		at := randomPoint(faker, dim, v.Lo-span/10, v.Hi+span/10)
		sq, ties := m.sqDists(at)

		nn, ok, err := tree.NearestItem(at)
		require.NoError(t, err)
		require.Equal(t, len(sq) > 0, ok)
		if ok {
			assert.InDelta(t, m.length(sq[0]), nn.Dist, 1e-9)
			assert.Contains(t, ties, nn.Item)
		}

		tied, err := tree.NearestItems(at)
		require.NoError(t, err)
		tiedItems := make([]int, len(tied))
		for j, n := range tied {
			tiedItems[j] = n.Item
		}
		if diff := cmp.Diff(ties, tiedItems, cmpopts.SortSlices(func(a, b int) bool { return a < b }), cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("ties at %v (-want +got):\n%s", at, diff)
		}

		k := faker.Number(1, 12)
		kn, err := tree.NearestItemsK(at, k)
		require.NoError(t, err)
		require.Len(t, kn, min(k, len(sq)))
		for j, n := range kn {
			assert.InDelta(t, m.length(sq[j]), n.Dist, 1e-9)
			if j > 0 {
				assert.LessOrEqual(t, kn[j-1].Dist, n.Dist)
			}
		}
	}
}

const leafCapacity = 4

func TestTree_MatchesLinearScan(t *testing.T) {
	t.Parallel()

	for _, tcase := range variants() {
		for dim := 1; dim <= 4; dim++ {
			for _, optimise := range []bool{false, true} {
				var (
					tcase    = tcase
					dim      = dim
					optimise = optimise
					name     = fmt.Sprintf("%s/dim=%d/optimise=%v", tcase.Name, dim, optimise)
				)

				t.Run(name, func(t *testing.T) {
					t.Parallel()

					var (
						faker = gofakeit.New(int64(dim*10 + len(tcase.Name)))
						cfg   = &Config{LeafCapacity: leafCapacity, CompactEvery: 16, Optimise: optimise}
						m     = newModel(tcase.Grid)
					)

					tree, err := tcase.New(dim, cfg)
					require.NoError(t, err)

					checkQueries(t, faker, tcase, dim, tree, m)

					handles := make([]Handle, 0, 500)
					for i := 0; i < 500; i++ {
						at := randomPoint(faker, dim, tcase.Lo, tcase.Hi)

						h, err := tree.Insert(i, at)
						require.NoError(t, err)

						m.insert(h, i, at)
						handles = append(handles, h)
					}

					checkQueries(t, faker, tcase, dim, tree, m)

					faker.ShuffleAnySlice(handles)
					for _, h := range handles[:350] {
						require.True(t, tree.Remove(h))
						require.False(t, tree.Remove(h))
						m.remove(h)
					}

					checkQueries(t, faker, tcase, dim, tree, m)

					tree.SetOptimisation(false)
					checkQueries(t, faker, tcase, dim, tree, m)

					for _, h := range handles[350:] {
						require.True(t, tree.Remove(h))
						m.remove(h)
					}

					tree.Compact()
					checkQueries(t, faker, tcase, dim, tree, m)
					assert.True(t, tree.Root().IsLeaf())
				})
			}
		}
	}
}
