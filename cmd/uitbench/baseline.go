package main

import (
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/3worlds/uit/space"
)

// rtreego rejects empty rectangles, so points and query boxes are padded by tol
// and the candidates filtered exactly afterwards.
const tol = 1e-9

type baselineEntry struct {
	id   int
	at   space.Point
	rect rtreego.Rect
}

func (e *baselineEntry) Bounds() rtreego.Rect {
	return e.rect
}

// baseline answers the same queries as a tree with an R-tree and linear filtering.
type baseline struct {
	rt *rtreego.Rtree
}

func newBaseline(dim int, points []space.Point) *baseline {
	rt := rtreego.NewTree(dim, 25, 50)
	for i, p := range points {
		rt.Insert(&baselineEntry{id: i, at: p, rect: rtreego.Point(p).ToRect(tol)})
	}
	return &baseline{rt: rt}
}

func (b *baseline) search(q space.Box, match func(p space.Point) bool) ([]int, error) {
	var (
		lower   = make(rtreego.Point, q.Dim())
		lengths = make([]float64, q.Dim())
	)
	for i := range lower {
		lower[i] = q.Lower[i] - tol
		lengths[i] = q.Side(i) + 2*tol
	}

	rect, err := rtreego.NewRect(lower, lengths)
	if err != nil {
		return nil, err
	}

	ids := []int{}
	for _, s := range b.rt.SearchIntersect(rect) {
		if e := s.(*baselineEntry); match(e.at) {
			ids = append(ids, e.id)
		}
	}
	sort.Ints(ids)

	return ids, nil
}

func (b *baseline) withinBox(q space.Box) ([]int, error) {
	return b.search(q, q.Contains)
}

func (b *baseline) withinSphere(q space.Sphere) ([]int, error) {
	return b.search(space.SphereBounds(q), q.Contains)
}

// nearest returns the distances to the k closest entries, ascending.
func (b *baseline) nearest(at space.Point, k int) []float64 {
	var dists []float64
	for _, s := range b.rt.NearestNeighbors(k, rtreego.Point(at)) {
		if s == nil {
			continue
		}
		dists = append(dists, space.Distance(at, s.(*baselineEntry).at))
	}
	sort.Float64s(dists)

	return dists
}
