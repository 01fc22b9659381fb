package core

import "fmt"

// Stable boundary strategy tags, used for configuration round-trips.
const (
	TagBounded  = "BOUNDED"
	TagWrapped  = "WRAPPED"
	TagMirrored = "MIRRORED"
	TagGrowable = "GROWABLE"
)

// Boundary decides how a requested coordinate maps onto the grid. Resolve
// returns the canonical in-storage coordinate, or ok=false when the strategy
// declares the request invalid. A strategy never resolves a coordinate that
// Contains rejects, with the single exception of Growable, which materializes
// new cells on demand.
type Boundary interface {
	Tag() string
	Contains(g *Grid, row, col int) bool
	Resolve(g *Grid, row, col int) (int, int, bool)
}

// BoundaryFor resolves a stable tag to its strategy, failing fast on an
// unrecognized tag.
func BoundaryFor(tag string) (Boundary, error) {
	switch tag {
	case TagBounded:
		return Bounded{}, nil
	case TagWrapped:
		return Wrapped{}, nil
	case TagMirrored:
		return Mirrored{}, nil
	case TagGrowable:
		return Growable{}, nil
	}
	return nil, fmt.Errorf("core: %q: %w", tag, ErrUnknownBoundary)
}

// Bounded rejects every coordinate outside the stored extent.
type Bounded struct{}

// Tag returns the stable strategy tag.
func (Bounded) Tag() string { return TagBounded }

// Contains reports whether the coordinate lies inside the stored extent.
func (Bounded) Contains(g *Grid, row, col int) bool { return g.InBounds(row, col) }

// Resolve returns the coordinate unchanged, or ok=false outside the extent.
func (Bounded) Resolve(g *Grid, row, col int) (int, int, bool) {
	if !g.InBounds(row, col) {
		return 0, 0, false
	}
	return row, col, true
}

// Wrapped joins opposite edges into a torus.
type Wrapped struct{}

// Tag returns the stable strategy tag.
func (Wrapped) Tag() string { return TagWrapped }

// Contains always reports true: every coordinate has a toroidal image.
func (Wrapped) Contains(*Grid, int, int) bool { return true }

// Resolve applies modulo arithmetic, handling negative remainders.
func (Wrapped) Resolve(g *Grid, row, col int) (int, int, bool) {
	return wrapCoord(row, g.rowMin, g.rows), wrapCoord(col, g.colMin, g.cols), true
}

// Mirrored reflects out-of-range coordinates back across the nearest edge
// using true geometric reflection: the coordinate is folded into a period of
// twice the extent, so -1 maps to the first cell, rows to the last, rows+1 to
// the second-to-last, and reflecting twice past the same edge is the identity
// for offsets smaller than the extent.
type Mirrored struct{}

// Tag returns the stable strategy tag.
func (Mirrored) Tag() string { return TagMirrored }

// Contains always reports true: every coordinate has a reflection.
func (Mirrored) Contains(*Grid, int, int) bool { return true }

// Resolve folds the coordinate back into the stored extent.
func (Mirrored) Resolve(g *Grid, row, col int) (int, int, bool) {
	return reflectCoord(row, g.rowMin, g.rows), reflectCoord(col, g.colMin, g.cols), true
}

// Growable expands the grid to cover any requested coordinate, filling new
// cells with the grid's default state. Expansion happens synchronously inside
// Resolve; the grid never shrinks.
type Growable struct{}

// Tag returns the stable strategy tag.
func (Growable) Tag() string { return TagGrowable }

// Contains always reports true: any coordinate can be materialized.
func (Growable) Contains(*Grid, int, int) bool { return true }

// Resolve materializes the coordinate if needed and returns it unchanged.
func (Growable) Resolve(g *Grid, row, col int) (int, int, bool) {
	if !g.InBounds(row, col) {
		g.Expand(row, row, col, col)
	}
	return row, col, true
}

func wrapCoord(i, origin, n int) int {
	return origin + ((i-origin)%n+n)%n
}

func reflectCoord(i, origin, n int) int {
	if n == 1 {
		return origin
	}
	period := 2 * n
	m := ((i-origin)%period + period) % period
	if m >= n {
		m = period - 1 - m
	}
	return origin + m
}
