// Package kicks defines rotation systems: for each piece and turning
// direction, the ordered list of translations tried when the plain rotation
// collides.
package kicks

import (
	"fmt"
	"iter"
	"slices"

	"github.com/domino14/reachgen/piece"
)

// RotationSystem yields kick translations in the rotation-centre frame, in
// priority order. Every sequence is finite.
type RotationSystem interface {
	Name() string
	Kicks(p piece.Piece, r piece.Rotation) iter.Seq[piece.Offset]
}

var zeroKick = []piece.Offset{{}}

// Table is a rotation system backed by explicit lists. Entries left nil fall
// back to the single zero kick.
type Table struct {
	name  string
	kicks [piece.NumShapes][piece.NumOrientations][2][]piece.Offset
}

func (t *Table) Name() string {
	return t.name
}

func (t *Table) Kicks(p piece.Piece, r piece.Rotation) iter.Seq[piece.Offset] {
	ks := t.kicks[p.Shape][p.Orientation][r.Index()]
	if ks == nil {
		ks = zeroKick
	}
	return slices.Values(ks)
}

func (t *Table) set(s piece.Shape, o piece.Orientation, r piece.Rotation, ks []piece.Offset) {
	t.kicks[s][o][r.Index()] = ks
}

// NoKicks only ever tries the plain rotation.
func NoKicks() *Table {
	return &Table{name: "none"}
}

// Offset tables for the Super Rotation System. The kick for a turn from
// orientation a to b is offsets[a][i] - offsets[b][i].
var (
	jlstzOffsets = [piece.NumOrientations][]piece.Offset{
		piece.North: {{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}},
		piece.East:  {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
		piece.South: {{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}},
		piece.West:  {{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
	}
	iOffsets = [piece.NumOrientations][]piece.Offset{
		piece.North: {{0, 0}, {-1, 0}, {2, 0}, {-1, 0}, {2, 0}},
		piece.East:  {{-1, 0}, {0, 0}, {0, 0}, {0, 1}, {0, -2}},
		piece.South: {{-1, 1}, {1, 1}, {-2, 1}, {1, 0}, {-2, 0}},
		piece.West:  {{0, 1}, {0, 1}, {0, 1}, {0, -1}, {0, 2}},
	}
	oOffsets = [piece.NumOrientations][]piece.Offset{
		piece.North: {{0, 0}},
		piece.East:  {{0, -1}},
		piece.South: {{-1, -1}},
		piece.West:  {{-1, 0}},
	}
)

func offsetsFor(s piece.Shape) [piece.NumOrientations][]piece.Offset {
	switch s {
	case piece.I:
		return iOffsets
	case piece.O:
		return oOffsets
	}
	return jlstzOffsets
}

// SRS returns the guideline Super Rotation System.
func SRS() *Table {
	t := &Table{name: "srs"}
	for _, s := range piece.Shapes {
		offs := offsetsFor(s)
		for _, o := range piece.Orientations {
			for _, r := range piece.Rotations {
				from, to := offs[o], offs[o.Rotate(r)]
				ks := make([]piece.Offset, len(from))
				for i := range from {
					ks[i] = from[i].Sub(to[i])
				}
				t.set(s, o, r, ks)
			}
		}
	}
	return t
}

// CornerKicks re-expresses the kicks for p turning in direction r in the
// bounding-box corner frame the search engine uses: a piece whose corner is
// at c before the turn has its corner at c+k after it.
func CornerKicks(rs RotationSystem, p piece.Piece, r piece.Rotation) []piece.Offset {
	minFrom := p.Bounds().Min
	minTo := piece.Piece{Shape: p.Shape, Orientation: p.Orientation.Rotate(r)}.Bounds().Min
	var out []piece.Offset
	for k := range rs.Kicks(p, r) {
		out = append(out, k.Add(minTo).Sub(minFrom))
	}
	return out
}

// Named resolves a rotation system by name: "srs", "none", or a path to a
// YAML kick table.
func Named(name string) (RotationSystem, error) {
	switch name {
	case "", "srs":
		return SRS(), nil
	case "none":
		return NoKicks(), nil
	}
	t, err := LoadFile(name)
	if err != nil {
		return nil, fmt.Errorf("loading kick table %v: %w", name, err)
	}
	return t, nil
}
