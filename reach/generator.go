package reach

import (
	"github.com/rs/zerolog/log"

	"github.com/domino14/reachgen/bitboard"
	"github.com/domino14/reachgen/board"
	"github.com/domino14/reachgen/kicks"
	"github.com/domino14/reachgen/piece"
	"github.com/domino14/reachgen/placement"
)

// Generator searches boards of type B. It is immutable after construction
// and safe to share between goroutines.
type Generator[B bitboard.Bitboard[B]] struct {
	rs   kicks.RotationSystem
	mode Mode
	// corner-frame kicks by shape, source orientation and rotation index.
	kicks [piece.NumShapes][piece.NumOrientations][2][]piece.Offset
}

func NewGenerator[B bitboard.Bitboard[B]](rs kicks.RotationSystem, mode Mode) *Generator[B] {
	g := &Generator[B]{rs: rs, mode: mode}
	for _, s := range piece.Shapes {
		for _, o := range piece.Orientations {
			for _, r := range piece.Rotations {
				g.kicks[s][o][r.Index()] = kicks.CornerKicks(rs, piece.Piece{Shape: s, Orientation: o}, r)
			}
		}
	}
	return g
}

func (g *Generator[B]) Mode() Mode {
	return g.mode
}

func (g *Generator[B]) RotationSystem() kicks.RotationSystem {
	return g.rs
}

// Search finds every reachable and landed position of spawn's piece on
// field. An off-board or colliding spawn gives an empty result.
func (g *Generator[B]) Search(field B, spawn placement.Placement) Result[B] {
	res := Result[B]{Shape: spawn.Piece.Shape}
	if !g.validSpawn(field, spawn) {
		return res
	}
	free := CompileFreeSpace(spawn.Piece.Shape, field.Not())
	res.Reachable, res.Steps = g.search(free, spawn, nil)
	for _, o := range piece.Orientations {
		res.Landed[o] = ExtractLanded(res.Reachable[o], free[o])
	}
	return res
}

// CanReach reports whether target's piece can be moved to target's corner,
// in target's orientation or any orientation with the same footprint. The
// search stops as soon as the answer is known.
func (g *Generator[B]) CanReach(field B, spawn, target placement.Placement) bool {
	if target.Piece.Shape != spawn.Piece.Shape || !g.validSpawn(field, spawn) {
		return false
	}
	if !target.Within(field.Height()) || !board.Fits(field, target) {
		return false
	}
	want, _ := target.Piece.Canonical()
	hit := func(reach *[4]B) bool {
		for _, o := range piece.Orientations {
			c, _ := piece.Piece{Shape: target.Piece.Shape, Orientation: o}.Canonical()
			if c == want && reach[o].Get(target.X, target.Y) {
				return true
			}
		}
		return false
	}
	free := CompileFreeSpace(spawn.Piece.Shape, field.Not())
	reach, _ := g.search(free, spawn, hit)
	return hit(&reach)
}

func (g *Generator[B]) validSpawn(field B, spawn placement.Placement) bool {
	if !spawn.Within(field.Height()) {
		log.Debug().Str("spawn", spawn.ShortDescription()).Msg("spawn-off-board")
		return false
	}
	if !board.Fits(field, spawn) {
		log.Debug().Str("spawn", spawn.ShortDescription()).Msg("spawn-collides")
		return false
	}
	return true
}

// search runs the orientation scheduler. stop, if non-nil, is checked after
// every update and ends the search early when it returns true.
func (g *Generator[B]) search(free [4]B, spawn placement.Placement, stop func(*[4]B) bool) ([4]B, int) {
	var reach [4]B
	shape := spawn.Piece.Shape
	so := spawn.Piece.Orientation
	reach[so] = reach[so].Set(spawn.X, spawn.Y)

	if shape == piece.O {
		// Rotating an O never changes its footprint, so one orientation
		// does all the work.
		if g.mode == HardDrop {
			reach[so] = Fall(lateral(reach[so], free[so]), free[so])
		} else {
			reach[so] = PropagateMoves(reach[so], free[so])
		}
		for _, o := range piece.Orientations {
			reach[o] = reach[so]
		}
		return reach, 1
	}

	dirty := g.seed(&reach, free, shape, so)
	if stop != nil && stop(&reach) {
		return reach, 0
	}

	if g.mode == HardDrop {
		for _, o := range piece.Orientations {
			if !reach[o].IsEmpty() {
				reach[o] = Fall(lateral(reach[o], free[o]), free[o])
			}
		}
		return reach, 1
	}

	steps := 0
	for dirty != 0 {
		for i := range piece.NumOrientations {
			o := piece.Orientation((int(so) + i) % piece.NumOrientations)
			if dirty&(1<<o) == 0 {
				continue
			}
			dirty &^= 1 << o
			reach[o] = PropagateMoves(reach[o], free[o])
			steps++
			for _, r := range piece.Rotations {
				n := o.Rotate(r)
				delta := PropagateRotation(reach[o], free[n], g.kicks[shape][o][r.Index()]).AndNot(reach[n])
				if !delta.IsEmpty() {
					reach[n] = reach[n].Or(delta)
					dirty |= 1 << n
				}
			}
			if stop != nil && stop(&reach) {
				return reach, steps
			}
		}
	}
	return reach, steps
}

// seed applies one and two in-place rotations in each direction at the spawn
// and returns the orientations that gained corners.
func (g *Generator[B]) seed(reach *[4]B, free [4]B, shape piece.Shape, so piece.Orientation) uint8 {
	dirty := uint8(1) << so
	for _, r := range piece.Rotations {
		cur, o := reach[so], so
		for range 2 {
			n := o.Rotate(r)
			delta := PropagateRotation(cur, free[n], g.kicks[shape][o][r.Index()])
			if delta.IsEmpty() {
				break
			}
			reach[n] = reach[n].Or(delta)
			dirty |= 1 << n
			cur, o = delta, n
		}
	}
	return dirty
}
