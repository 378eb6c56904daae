package reach

import (
	"github.com/samber/lo"

	"github.com/domino14/reachgen/bitboard"
	"github.com/domino14/reachgen/piece"
	"github.com/domino14/reachgen/placement"
)

// Result is the outcome of one search. Reachable and Landed are indexed by
// orientation and hold bounding-box corners.
type Result[B bitboard.Bitboard[B]] struct {
	Shape     piece.Shape
	Reachable [4]B
	Landed    [4]B
	// Steps counts intra-orientation propagations, for benchmarking.
	Steps int
}

func (r Result[B]) IsEmpty() bool {
	return lo.EveryBy(r.Reachable[:], func(b B) bool { return b.IsEmpty() })
}

// Count is the number of landed positions over all four orientations.
func (r Result[B]) Count() int {
	return lo.SumBy(r.Landed[:], func(b B) int { return b.Count() })
}

// LandedBoards returns the landed sets, merged into canonical orientations
// when minimize is set.
func (r Result[B]) LandedBoards(minimize bool) [4]B {
	if minimize {
		return Canonicalize(r.Shape, r.Landed)
	}
	return r.Landed
}

// Placements lists the landed positions ordered by orientation, then column,
// then row. With minimize set, positions that cover the same cells are
// reported once, in the canonical orientation.
func (r Result[B]) Placements(minimize bool) []placement.Placement {
	landed := r.LandedBoards(minimize)
	var out []placement.Placement
	for _, o := range piece.Orientations {
		for x, y := range landed[o].Cells() {
			out = append(out, placement.New(r.Shape, o, x, y))
		}
	}
	return out
}
