// Package piece holds the seven tetromino shapes, their four orientations,
// and the block-offset tables every other package draws cells from.
package piece

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrUnknownShape       = errors.New("unknown shape")
	ErrUnknownOrientation = errors.New("unknown orientation")
)

type Shape uint8

const (
	T Shape = iota
	I
	O
	L
	J
	S
	Z
)

const NumShapes = 7

// Shapes lists every shape in index order.
var Shapes = [NumShapes]Shape{T, I, O, L, J, S, Z}

const shapeLetters = "TIOLJSZ"

func (s Shape) String() string {
	if int(s) >= NumShapes {
		return "?"
	}
	return shapeLetters[s : s+1]
}

// ParseShape accepts a single shape letter, case-insensitive.
func ParseShape(s string) (Shape, error) {
	if len(s) == 1 {
		if i := strings.IndexByte(shapeLetters, strings.ToUpper(s)[0]); i >= 0 {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownShape)
}

type Orientation uint8

const (
	North Orientation = iota
	East
	South
	West
)

const NumOrientations = 4

var Orientations = [NumOrientations]Orientation{North, East, South, West}

var orientationNames = [NumOrientations]string{"North", "East", "South", "West"}

func (o Orientation) String() string {
	if int(o) >= NumOrientations {
		return "?"
	}
	return orientationNames[o]
}

// Letter is the one-character form used in compact output.
func (o Orientation) Letter() string {
	return o.String()[:1]
}

// Rotate returns the orientation reached by turning once in direction r.
func (o Orientation) Rotate(r Rotation) Orientation {
	return Orientation((int(o) + int(r) + NumOrientations) % NumOrientations)
}

// ParseOrientation accepts N/E/S/W, the full names, the guideline 0/R/2/L
// names, and "spawn".
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(s) {
	case "n", "north", "0", "spawn":
		return North, nil
	case "e", "east", "r":
		return East, nil
	case "s", "south", "2":
		return South, nil
	case "w", "west", "l":
		return West, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownOrientation)
}

type Rotation int8

const (
	CW  Rotation = 1
	CCW Rotation = -1
)

// Rotations lists both turning directions, clockwise first.
var Rotations = [2]Rotation{CW, CCW}

func (r Rotation) String() string {
	if r == CW {
		return "cw"
	}
	return "ccw"
}

// Index maps CW to 0 and CCW to 1, for table lookups.
func (r Rotation) Index() int {
	if r == CW {
		return 0
	}
	return 1
}

type Offset struct {
	X, Y int
}

func (o Offset) Add(p Offset) Offset { return Offset{o.X + p.X, o.Y + p.Y} }
func (o Offset) Sub(p Offset) Offset { return Offset{o.X - p.X, o.Y - p.Y} }
func (o Offset) Neg() Offset         { return Offset{-o.X, -o.Y} }

func (o Offset) String() string {
	return fmt.Sprintf("(%d, %d)", o.X, o.Y)
}

// Box is a bounding box in the centre frame.
type Box struct {
	Width, Height int
	Min, Max      Offset
}

type Piece struct {
	Shape       Shape
	Orientation Orientation
}

func (p Piece) String() string {
	return p.Shape.String() + " " + p.Orientation.String()
}

// Cells returns the four occupied offsets relative to the rotation centre.
func (p Piece) Cells() [4]Offset {
	return cells[p.Shape][p.Orientation]
}

// Blocks returns the cells shifted so the bounding box starts at (0, 0).
func (p Piece) Blocks() [4]Offset {
	return blocks[p.Shape][p.Orientation]
}

func (p Piece) Bounds() Box {
	return bounds[p.Shape][p.Orientation]
}

// Canonical returns the lowest orientation with the same footprint as p,
// together with the shift to add to a centre coordinate of p to get the
// centre coordinate of the same cells in the canonical orientation.
func (p Piece) Canonical() (Piece, Offset) {
	c := canonical[p.Shape][p.Orientation]
	from, to := p.Bounds().Min, Piece{p.Shape, c}.Bounds().Min
	return Piece{p.Shape, c}, from.Sub(to)
}

// North cells in the centre frame. The remaining orientations are derived by
// turning clockwise, (x, y) -> (y, -x).
var north = [NumShapes][4]Offset{
	T: {{-1, 0}, {0, 0}, {1, 0}, {0, 1}},
	I: {{-1, 0}, {0, 0}, {1, 0}, {2, 0}},
	O: {{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	L: {{-1, 0}, {0, 0}, {1, 0}, {1, 1}},
	J: {{-1, 0}, {0, 0}, {1, 0}, {-1, 1}},
	S: {{-1, 0}, {0, 0}, {0, 1}, {1, 1}},
	Z: {{-1, 1}, {0, 1}, {0, 0}, {1, 0}},
}

var (
	cells     [NumShapes][NumOrientations][4]Offset
	blocks    [NumShapes][NumOrientations][4]Offset
	bounds    [NumShapes][NumOrientations]Box
	canonical [NumShapes][NumOrientations]Orientation
)

func turnCW(c Offset) Offset {
	return Offset{c.Y, -c.X}
}

func init() {
	for s := range NumShapes {
		cur := north[s]
		for o := range NumOrientations {
			cells[s][o] = cur
			lo, hi := cur[0], cur[0]
			for _, c := range cur[1:] {
				lo.X, lo.Y = min(lo.X, c.X), min(lo.Y, c.Y)
				hi.X, hi.Y = max(hi.X, c.X), max(hi.Y, c.Y)
			}
			bounds[s][o] = Box{Width: hi.X - lo.X + 1, Height: hi.Y - lo.Y + 1, Min: lo, Max: hi}
			for i, c := range cur {
				blocks[s][o][i] = c.Sub(lo)
			}
			for i := range cur {
				cur[i] = turnCW(cur[i])
			}
		}
		for o := range NumOrientations {
			canonical[s][o] = Orientation(o)
			for lower := range o {
				if sameFootprint(blocks[s][lower], blocks[s][o]) {
					canonical[s][o] = Orientation(lower)
					break
				}
			}
		}
	}
}

func sameFootprint(a, b [4]Offset) bool {
	key := func(o Offset) int { return o.Y*8 + o.X }
	ka := []int{key(a[0]), key(a[1]), key(a[2]), key(a[3])}
	kb := []int{key(b[0]), key(b[1]), key(b[2]), key(b[3])}
	slices.Sort(ka)
	slices.Sort(kb)
	return slices.Equal(ka, kb)
}
