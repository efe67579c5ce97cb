// Package space is the geometry kernel of the indexing trees: N-dimensional
// points, closed axis-aligned boxes and spheres, the distance functions and
// bounds used for pruning, and a canonical text form for each value type.
//
// It also defines the error taxonomy shared by the whole module. Every error
// returned by this module is an *Error and can be tested with errors.Is
// against ErrDimensionMismatch, ErrDomainViolation, ErrInvalidGeometry or
// ErrParse.
package space
