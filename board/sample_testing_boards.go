package board

// This file contains some sample boards, used for testing and as fixtures in
// the shell.

// Sample is a text representation of a board.
type Sample string

const (
	// Blank is an empty board.
	Blank Sample = ``

	// Well has columns 0-3 and 5-9 filled to height 4, leaving a one-wide
	// well at x=4.
	Well Sample = `
####.#####
####.#####
####.#####
####.#####
`

	// Overhang has a roof on row 3 over columns 0-3. Pieces can only get
	// under it by sliding in sideways from the open bottom right.
	Overhang Sample = `
####......
..........
..........
..........
`

	// TSlot is a T-spin double setup. The overhang at (2, 2) stops a T from
	// dropping straight into the slot around x=3; it has to rotate in.
	TSlot Sample = `
###.......
##...#####
###.######
`

	// Cave is a hollow in the lower left reachable only through a
	// one-wide gap in its roof.
	Cave Sample = `
#.########
#.........
#.........
#........#
`

	// Ragged is an uneven stack used in the benchmarks.
	Ragged Sample = `
.........#
#.......##
##..#..###
###.##.###
####.#####
.#########
`
)

var Samples = map[string]Sample{
	"blank":    Blank,
	"well":     Well,
	"overhang": Overhang,
	"tslot":    TSlot,
	"cave":     Cave,
	"ragged":   Ragged,
}
