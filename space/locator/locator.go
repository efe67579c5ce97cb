package locator

import (
	"strconv"
	"strings"

	"github.com/3worlds/uit/space"
)

// Locator is a point of the integer grid of a Factory. It only has meaning
// relative to the Factory that produced it.
type Locator []int64

func (l Locator) Dim() int {
	return len(l)
}

func (l Locator) Equal(o Locator) bool {
	if len(l) != len(o) {
		return false
	}
	for i := range l {
		if l[i] != o[i] {
			return false
		}
	}
	return true
}

func (l Locator) Clone() Locator {
	r := make(Locator, len(l))
	copy(r, l)
	return r
}

// Add returns l+o. It panics if the dimensions differ.
func (l Locator) Add(o Locator) Locator {
	if len(l) != len(o) {
		panic(space.CheckDim("locator add", len(l), len(o)))
	}

	r := make(Locator, len(l))
	for i := range l {
		r[i] = l[i] + o[i]
	}
	return r
}

// AddScalar adds delta on every axis.
func (l Locator) AddScalar(delta int64) Locator {
	r := make(Locator, len(l))
	for i := range l {
		r[i] = l[i] + delta
	}
	return r
}

// AddAxis returns a copy of l moved by delta along one axis.
func (l Locator) AddAxis(delta int64, axis int) Locator {
	r := l.Clone()
	r[axis] += delta
	return r
}

func (l Locator) String() string {
	var buf strings.Builder

	buf.WriteByte('[')
	for i, x := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.FormatInt(x, 10))
	}
	buf.WriteByte(']')

	return buf.String()
}

// Parse reads the form produced by Locator.String.
func Parse(s string) (Locator, error) {
	elems, err := space.SplitList(s)
	if err != nil {
		return nil, err
	}

	l := make(Locator, len(elems))
	for i, elem := range elems {
		if l[i], err = strconv.ParseInt(elem, 10, 64); err != nil {
			return nil, space.Wrap(space.KindParse, "locator", err, "coordinate %d", i)
		}
	}

	return l, nil
}
