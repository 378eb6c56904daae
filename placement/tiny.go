package placement

import "github.com/domino14/reachgen/piece"

// Tiny is a 16-bit representation of a placement, used wherever many results
// are stored at once (the result cache, the worker wire format).
type Tiny uint16

// Schema:
// 3 bits for shape
// 2 bits for orientation
// 4 bits for corner x
// 7 bits for corner y
//
// 15   11    7    3
//  xxxx xxxx xxxx xxxx
//  SSSO OXXX XYYY YYYY

const (
	YBitMask      = 0b00000000_01111111
	XBitMask      = 0b00000111_10000000
	OrientBitMask = 0b00011000_00000000
	ShapeBitMask  = 0b11100000_00000000

	xShift      = 7
	orientShift = 11
	shapeShift  = 13
	maxTinyX    = 15
	maxTinyY    = 127
)

// InvalidTiny decodes to no shape at all.
const InvalidTiny Tiny = 0xFFFF

// Pack encodes p. Placements with a corner outside [0, 15] x [0, 127] do not
// fit and yield InvalidTiny.
func (p Placement) Pack() Tiny {
	if p.X < 0 || p.X > maxTinyX || p.Y < 0 || p.Y > maxTinyY {
		return InvalidTiny
	}
	return Tiny(uint16(p.Piece.Shape)<<shapeShift |
		uint16(p.Piece.Orientation)<<orientShift |
		uint16(p.X)<<xShift |
		uint16(p.Y))
}

func (t Tiny) Unpack() Placement {
	return Placement{
		Piece: piece.Piece{
			Shape:       piece.Shape(t & ShapeBitMask >> shapeShift),
			Orientation: piece.Orientation(t & OrientBitMask >> orientShift),
		},
		X: int(t & XBitMask >> xShift),
		Y: int(t & YBitMask),
	}
}

// Valid reports whether t decodes to a real shape.
func (t Tiny) Valid() bool {
	return int(t>>shapeShift) < piece.NumShapes
}
