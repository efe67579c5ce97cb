// Package locator quantizes points onto a fixed-precision integer grid and
// provides exact integer distance arithmetic over grid points.
package locator
