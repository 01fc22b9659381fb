package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Stable neighborhood strategy tags.
const (
	TagNeigh4         = "NEIGH_4"
	TagNeigh8         = "NEIGH_8"
	TagNeighExtPrefix = "NEIGH_EXT_"
	TagNeighComposite = "NEIGH_COMPOSITE"
)

// Neighborhood enumerates candidate (row,col) offsets around a center cell.
// Offsets are raw: validity and coordinate transformation are always deferred
// to the boundary strategy. The returned order is stable and deterministic
// since some rules use first-match semantics.
type Neighborhood interface {
	Tag() string
	Offsets() [][2]int
}

// NeighborhoodFor resolves a stable tag to its strategy. Parameterized
// strategies encode their configuration in the tag: the radius for extended
// neighborhoods ("NEIGH_EXT_3") and the "+"-joined sub-strategy tags for
// composites ("NEIGH_COMPOSITE_NEIGH_4+NEIGH_EXT_2").
func NeighborhoodFor(tag string) (Neighborhood, error) {
	switch tag {
	case TagNeigh4:
		return VonNeumann{}, nil
	case TagNeigh8:
		return Moore{}, nil
	case TagNeighComposite:
		return NewComposite(), nil
	}
	if rest, ok := strings.CutPrefix(tag, TagNeighExtPrefix); ok {
		k, err := strconv.Atoi(rest)
		if err == nil && k >= 1 {
			return Extended{Radius: k}, nil
		}
	}
	if rest, ok := strings.CutPrefix(tag, TagNeighComposite+"_"); ok {
		subs := strings.Split(rest, "+")
		parts := make([]Neighborhood, 0, len(subs))
		for _, sub := range subs {
			n, err := NeighborhoodFor(sub)
			if err != nil {
				return nil, err
			}
			parts = append(parts, n)
		}
		return NewComposite(parts...), nil
	}
	return nil, fmt.Errorf("core: %q: %w", tag, ErrUnknownNeighborhood)
}

var vonNeumannOffsets = [][2]int{{-1, 0}, {0, 1}, {1, 0}, {0, -1}}

var mooreOffsets = [][2]int{
	{-1, 0}, {-1, 1}, {0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1},
}

// VonNeumann enumerates the four orthogonal neighbors in N, E, S, W order.
type VonNeumann struct{}

// Tag returns the stable strategy tag.
func (VonNeumann) Tag() string { return TagNeigh4 }

// Offsets returns the orthogonal offsets.
func (VonNeumann) Offsets() [][2]int { return vonNeumannOffsets }

// Moore enumerates the eight surrounding cells, clockwise from north.
type Moore struct{}

// Tag returns the stable strategy tag.
func (Moore) Tag() string { return TagNeigh8 }

// Offsets returns the eight surrounding offsets.
func (Moore) Offsets() [][2]int { return mooreOffsets }

// Extended enumerates every offset within Chebyshev distance Radius of the
// center, excluding the center, in row-major order. Radius 1 covers the same
// cells as Moore but keeps its own tag and ordering.
type Extended struct {
	Radius int
}

// Tag encodes the radius, e.g. "NEIGH_EXT_2".
func (e Extended) Tag() string { return TagNeighExtPrefix + strconv.Itoa(e.Radius) }

// Offsets returns the offsets within the Chebyshev radius.
func (e Extended) Offsets() [][2]int {
	k := e.Radius
	if k < 1 {
		k = 1
	}
	out := make([][2]int, 0, (2*k+1)*(2*k+1)-1)
	for dr := -k; dr <= k; dr++ {
		for dc := -k; dc <= k; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			out = append(out, [2]int{dr, dc})
		}
	}
	return out
}

// Composite is the set union of its sub-strategies, preserving first-seen
// offset order and dropping duplicates.
type Composite struct {
	parts []Neighborhood
}

// NewComposite builds a composite neighborhood from the given strategies.
// Nested composites are flattened into their leaves, so the encoded tag stays
// a flat "+"-joined list and parses back unambiguously.
func NewComposite(parts ...Neighborhood) Composite {
	flat := make([]Neighborhood, 0, len(parts))
	for _, p := range parts {
		if c, ok := p.(Composite); ok {
			flat = append(flat, c.parts...)
			continue
		}
		flat = append(flat, p)
	}
	return Composite{parts: flat}
}

// Tag encodes the sub-strategy tags, e.g. "NEIGH_COMPOSITE_NEIGH_4+NEIGH_EXT_2".
// An empty composite keeps the bare tag.
func (c Composite) Tag() string {
	if len(c.parts) == 0 {
		return TagNeighComposite
	}
	tags := make([]string, len(c.parts))
	for i, p := range c.parts {
		tags[i] = p.Tag()
	}
	return TagNeighComposite + "_" + strings.Join(tags, "+")
}

// Offsets returns the deduplicated union of the sub-strategy offsets.
func (c Composite) Offsets() [][2]int {
	seen := make(map[[2]int]bool)
	var out [][2]int
	for _, p := range c.parts {
		for _, d := range p.Offsets() {
			if seen[d] {
				continue
			}
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}
