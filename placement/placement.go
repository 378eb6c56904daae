// Package placement describes where a piece sits on the board.
package placement

import (
	"fmt"

	"github.com/domino14/reachgen/bitboard"
	"github.com/domino14/reachgen/piece"
)

// Placement is a piece plus the bottom-left corner of its bounding box. The
// corner is the reference point the search engine works in; the rotation
// centre and top-right corner are derived from it.
type Placement struct {
	Piece piece.Piece
	X, Y  int
}

func New(s piece.Shape, o piece.Orientation, x, y int) Placement {
	return Placement{Piece: piece.Piece{Shape: s, Orientation: o}, X: x, Y: y}
}

// FromCenter converts a rotation-centre coordinate into a placement.
func FromCenter(p piece.Piece, cx, cy int) Placement {
	lo := p.Bounds().Min
	return Placement{Piece: p, X: cx + lo.X, Y: cy + lo.Y}
}

func (p Placement) Center() (int, int) {
	lo := p.Piece.Bounds().Min
	return p.X - lo.X, p.Y - lo.Y
}

// FromTopRight converts a top-right bounding-box coordinate into a placement.
func FromTopRight(p piece.Piece, rx, ry int) Placement {
	box := p.Bounds()
	return Placement{Piece: p, X: rx - box.Width + 1, Y: ry - box.Height + 1}
}

func (p Placement) TopRight() (int, int) {
	box := p.Piece.Bounds()
	return p.X + box.Width - 1, p.Y + box.Height - 1
}

// Cells returns the absolute board cells the piece covers.
func (p Placement) Cells() [4]piece.Offset {
	var out [4]piece.Offset
	corner := piece.Offset{X: p.X, Y: p.Y}
	for i, b := range p.Piece.Blocks() {
		out[i] = corner.Add(b)
	}
	return out
}

// Canonical returns the placement covering the same cells in the piece's
// canonical orientation. The corner does not move.
func (p Placement) Canonical() Placement {
	c, _ := p.Piece.Canonical()
	return Placement{Piece: c, X: p.X, Y: p.Y}
}

// Within reports whether every cell lies on a board of the given height.
func (p Placement) Within(height int) bool {
	box := p.Piece.Bounds()
	return p.X >= 0 && p.Y >= 0 && p.X+box.Width <= bitboard.Width && p.Y+box.Height <= height
}

func (p Placement) String() string {
	cx, cy := p.Center()
	return fmt.Sprintf("<placement %v corner: (%d, %d) center: (%d, %d)>",
		p.Piece, p.X, p.Y, cx, cy)
}

// ShortDescription is the compact form used in listings, e.g. "TE 3,0".
func (p Placement) ShortDescription() string {
	return fmt.Sprintf("%v%v %d,%d", p.Piece.Shape, p.Piece.Orientation.Letter(), p.X, p.Y)
}
