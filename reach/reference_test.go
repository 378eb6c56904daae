package reach

import (
	"github.com/domino14/reachgen/bitboard"
	"github.com/domino14/reachgen/board"
	"github.com/domino14/reachgen/kicks"
	"github.com/domino14/reachgen/piece"
	"github.com/domino14/reachgen/placement"
)

// bfs is a cell-at-a-time search used to check the bitboard engine. It walks
// individual placements with explicit moves.
type bfs[B bitboard.Bitboard[B]] struct {
	field B
	rs    kicks.RotationSystem
}

func (r bfs[B]) rotate(p placement.Placement, rot piece.Rotation) (placement.Placement, bool) {
	n := p.Piece.Orientation.Rotate(rot)
	for _, k := range kicks.CornerKicks(r.rs, p.Piece, rot) {
		q := placement.New(p.Piece.Shape, n, p.X+k.X, p.Y+k.Y)
		if q.Within(r.field.Height()) && board.Fits(r.field, q) {
			return q, true
		}
	}
	return p, false
}

func (r bfs[B]) ok(p placement.Placement) bool {
	return p.Within(r.field.Height()) && board.Fits(r.field, p)
}

func (r bfs[B]) seeds(spawn placement.Placement) []placement.Placement {
	out := []placement.Placement{spawn}
	if spawn.Piece.Shape == piece.O {
		return out
	}
	for _, rot := range piece.Rotations {
		cur := spawn
		for range 2 {
			next, ok := r.rotate(cur, rot)
			if !ok {
				break
			}
			out = append(out, next)
			cur = next
		}
	}
	return out
}

func (r bfs[B]) soft(spawn placement.Placement) map[placement.Placement]bool {
	seen := map[placement.Placement]bool{}
	queue := r.seeds(spawn)
	for _, s := range queue {
		seen[s] = true
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		next := []placement.Placement{
			{Piece: p.Piece, X: p.X - 1, Y: p.Y},
			{Piece: p.Piece, X: p.X + 1, Y: p.Y},
			{Piece: p.Piece, X: p.X, Y: p.Y - 1},
		}
		if p.Piece.Shape != piece.O {
			for _, rot := range piece.Rotations {
				if q, ok := r.rotate(p, rot); ok {
					next = append(next, q)
				}
			}
		}
		for _, q := range next {
			if !seen[q] && r.ok(q) {
				seen[q] = true
				queue = append(queue, q)
			}
		}
	}
	return seen
}

func (r bfs[B]) hard(spawn placement.Placement) map[placement.Placement]bool {
	seen := map[placement.Placement]bool{}
	for _, s := range r.seeds(spawn) {
		for _, dir := range []int{-1, 1} {
			for q := s; r.ok(q); q.X += dir {
				for d := q; r.ok(d); d.Y-- {
					seen[d] = true
				}
			}
		}
	}
	return seen
}

// landed filters reach down to positions that cannot move down.
func (r bfs[B]) landed(reach map[placement.Placement]bool) map[placement.Placement]bool {
	out := map[placement.Placement]bool{}
	for p := range reach {
		if !r.ok(placement.Placement{Piece: p.Piece, X: p.X, Y: p.Y - 1}) {
			out[p] = true
		}
	}
	return out
}

// asSet turns per-orientation boards into placements. O results are
// collapsed onto the spawn orientation, matching what the reference walks.
func asSet[B bitboard.Bitboard[B]](shape piece.Shape, boards [4]B, spawnO piece.Orientation) map[placement.Placement]bool {
	out := map[placement.Placement]bool{}
	for _, o := range piece.Orientations {
		if shape == piece.O && o != spawnO {
			continue
		}
		for x, y := range boards[o].Cells() {
			out[placement.New(shape, o, x, y)] = true
		}
	}
	return out
}
