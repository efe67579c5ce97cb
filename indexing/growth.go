package indexing

import (
	"math"

	"go.uber.org/zap"

	"github.com/3worlds/uit/space"
)

// maxGrowth bounds the doublings of a single insert; float64 runs out of
// exponent long before.
const maxGrowth = 2100

// domainPolicy decides how a tree makes room for a key outside its root region.
type domainPolicy[K, R any] interface {
	// admit returns the child index the old root takes at each doubling and
	// the final root region. It changes nothing itself: commit, when not
	// nil, applies the key-space side of the change and is only called once
	// the whole growth is known to succeed.
	admit(root R, k K) (steps []int, grown R, commit func(), err error)
}

// fixedDomain rejects every key outside the domain.
type fixedDomain[K, R any] struct {
	keys keySpace[K, R]
}

func (d fixedDomain[K, R]) admit(root R, k K) ([]int, R, func(), error) {
	return nil, root, nil, space.Errorf(space.KindDomainViolation, "insert",
		"%v is outside %v", d.keys.point(k), d.keys.bounds(root))
}

// accommodate grows the root region to hold k, or fails leaving the tree as it was.
func (e *engine[T, K, R]) accommodate(k K, pol domainPolicy[K, R]) error {
	if e.keys.contains(e.region, k) {
		return nil
	}

	steps, grown, commit, err := pol.admit(e.region, k)
	if err != nil {
		return err
	}
	if commit != nil {
		commit()
	}
	e.graft(steps, grown)

	e.log.Debug("domain expanded",
		zap.Int("doublings", len(steps)),
		zap.Stringer("domain", e.keys.bounds(grown)))

	return nil
}

// doublingRegion grows a continuous tree by doubling its cube toward the key.
type doublingRegion struct {
	keys *regionKeys
	// anchored is false until the first insert of a tree built without a domain
	anchored bool
}

func (d *doublingRegion) admit(root regionCell, k space.Point) ([]int, regionCell, func(), error) {
	if d.keys.degenerate() {
		// a zero-extent root cannot have split, so its geometry may change
		return d.reanchor(root, k)
	}

	var (
		r     = root
		steps []int
	)
	for !d.keys.contains(r, k) {
		p, idx, ok := d.keys.parent(r, k)
		if !ok || len(steps) == maxGrowth {
			return nil, root, nil, space.Errorf(space.KindDomainViolation, "insert",
				"domain %v cannot grow to hold %v", root.box, k)
		}
		r, steps = p, append(steps, idx)
	}
	return steps, r, nil, nil
}

// reanchor replaces a zero-extent domain: by the key itself for a tree that
// was never anchored, otherwise by a cube with a power-of-two side holding
// the old point and k strictly below its upper faces.
func (d *doublingRegion) reanchor(root regionCell, k space.Point) ([]int, regionCell, func(), error) {
	var (
		lower = k.Clone()
		side  float64
	)

	if d.anchored {
		var (
			hi   = make(space.Point, len(k))
			span float64
		)
		for i, x := range k {
			lower[i], hi[i] = math.Min(x, root.box.Lower[i]), math.Max(x, root.box.Lower[i])
			span = math.Max(span, hi[i]-lower[i])
		}

		_, exp := math.Frexp(span)
		side = math.Ldexp(1, exp)
		for i := 0; i < len(k) && !math.IsInf(side, 0); i++ {
			if lower[i]+side <= hi[i] {
				side *= 2
				i = -1 // recheck every axis
			}
		}
		if math.IsInf(side, 0) {
			return nil, root, nil, space.Errorf(space.KindDomainViolation, "insert",
				"no finite domain holds %v and %v", root.box.Lower, k)
		}
	}

	keys, cell := newCubeKeys(lower, side)
	return nil, cell, func() {
		d.keys.origin, d.keys.scale = keys.origin, keys.scale
		d.anchored = true
	}, nil
}
