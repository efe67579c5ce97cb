package indexing

// step is one internal node on a descent and the child slot taken from it.
type step struct {
	node  int
	child int
}

// trail records a descent from the root so that a removal can fix subtree
// counts and prune on the way back up without another descent.
type trail struct {
	steps []step
}

func newTrail() *trail {
	return &trail{
		steps: make([]step, 0, 21),
	}
}

func (tr *trail) reset() {
	tr.steps = tr.steps[:0]
}

func (tr *trail) push(node, child int) {
	tr.steps = append(tr.steps, step{node: node, child: child})
}

// pop removes and returns the deepest step; ok is false on an empty trail.
func (tr *trail) pop() (s step, ok bool) {
	num := len(tr.steps)
	if num == 0 {
		return
	}
	s = tr.steps[num-1]
	tr.steps = tr.steps[:num-1]
	return s, true
}
