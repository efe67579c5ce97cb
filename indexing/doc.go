// Package indexing provides in-memory spatial trees that store items at
// points of an N-dimensional space and answer range and nearest-neighbour
// queries.
//
// Every tree recursively bisects its domain along all axes at once, so an
// internal node of a d-dimensional tree has 2^d children. Four variants share
// one partition engine:
//
//	NewBoundedRegionTree              continuous positions, fixed domain
//	NewExpandingRegionTree            continuous positions, growing domain
//	NewLimitedPrecisionTree           grid cells, fixed domain
//	NewExpandingLimitedPrecisionTree  grid cells, growing grid
//
// Inserting outside a fixed domain fails with space.ErrDomainViolation. An
// expanding tree instead doubles its root region toward the new position,
// keeping every existing entry in place.
//
// Insert returns a Handle that identifies the entry for Remove and Item.
package indexing
