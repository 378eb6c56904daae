// Package board builds and edits occupancy boards: parsing the text form,
// placing pieces, clearing filled rows, and adding garbage.
package board

import (
	"errors"
	"fmt"
	"strings"

	"lukechampine.com/frand"

	"github.com/domino14/reachgen/bitboard"
	"github.com/domino14/reachgen/placement"
)

type ParseErrorKind uint8

const (
	InvalidCharacter ParseErrorKind = iota
	MismatchedWidth
	ExceedsCapacity
)

var (
	ErrInvalidCharacter = errors.New("invalid board character")
	ErrMismatchedWidth  = errors.New("row width does not match board width")
)

func (k ParseErrorKind) String() string {
	switch k {
	case InvalidCharacter:
		return "invalid character"
	case MismatchedWidth:
		return "mismatched width"
	case ExceedsCapacity:
		return "exceeds capacity"
	}
	return "unknown"
}

// ParseError locates a problem in board text. Line and Col are 1-based and
// refer to the input as written.
type ParseError struct {
	Kind ParseErrorKind
	Line int
	Col  int
	Char rune
}

func (e *ParseError) Error() string {
	if e.Kind == InvalidCharacter {
		return fmt.Sprintf("line %d col %d: %v %q", e.Line, e.Col, e.Kind, e.Char)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Kind)
}

func (e *ParseError) Unwrap() error {
	switch e.Kind {
	case InvalidCharacter:
		return ErrInvalidCharacter
	case MismatchedWidth:
		return ErrMismatchedWidth
	}
	return bitboard.ErrExceedsCapacity
}

func occupiedChar(ch rune) (bool, bool) {
	switch ch {
	case '#', 'X', 'x', '@':
		return true, true
	case '.', '_':
		return false, true
	}
	return false, false
}

type textRow struct {
	line  int
	cells string
}

// rowsOf strips blank lines and the optional | borders.
func rowsOf(text string) []textRow {
	var rows []textRow
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimPrefix(line, "|")
		line = strings.TrimSuffix(line, "|")
		rows = append(rows, textRow{line: i + 1, cells: line})
	}
	return rows
}

// Parse reads a board from text. Rows are listed top to bottom, so the last
// row is row 0.
func Parse[B bitboard.Bitboard[B]](text string) (B, error) {
	var b B
	rows := rowsOf(text)
	for i, r := range rows {
		y := len(rows) - 1 - i
		var err error
		b, err = setRow(b, y, r)
		if err != nil {
			var zero B
			return zero, err
		}
	}
	return b, nil
}

func setRow[B bitboard.Bitboard[B]](b B, y int, r textRow) (B, error) {
	cells := []rune(r.cells)
	if len(cells) != bitboard.Width {
		return b, &ParseError{Kind: MismatchedWidth, Line: r.line}
	}
	for x, ch := range cells {
		occ, ok := occupiedChar(ch)
		if !ok {
			return b, &ParseError{Kind: InvalidCharacter, Line: r.line, Col: x + 1, Char: ch}
		}
		if !occ {
			continue
		}
		if y >= b.Height() {
			return b, &ParseError{Kind: ExceedsCapacity, Line: r.line, Col: x + 1}
		}
		b = b.Set(x, y)
	}
	return b, nil
}

// SetRow replaces row y with the given ten cells.
func SetRow[B bitboard.Bitboard[B]](b B, y int, cells string) (B, error) {
	if y < 0 || y >= b.Height() {
		return b, &ParseError{Kind: ExceedsCapacity, Line: 1}
	}
	cleared := b.AndNot(bitboard.Rows[B](y, y+1))
	out, err := setRow(cleared, y, textRow{line: 1, cells: strings.Trim(cells, "|")})
	if err != nil {
		return b, err
	}
	return out, nil
}

// Place adds the cells of p to b. It returns false, leaving b untouched, if
// any cell is off the board or already occupied.
func Place[B bitboard.Bitboard[B]](b B, p placement.Placement) (B, bool) {
	out := b
	for _, c := range p.Cells() {
		if c.X < 0 || c.X >= bitboard.Width || c.Y < 0 || c.Y >= b.Height() || b.Get(c.X, c.Y) {
			return b, false
		}
		out = out.Set(c.X, c.Y)
	}
	return out, true
}

// Fits reports whether p could be placed on b.
func Fits[B bitboard.Bitboard[B]](b B, p placement.Placement) bool {
	_, ok := Place(b, p)
	return ok
}

// FilledLines returns the rows with every column occupied.
func FilledLines[B bitboard.Bitboard[B]](b B) bitboard.Lines {
	var lines bitboard.Lines
	// A row is full when it survives an AND across all columns; fold the
	// columns onto column 0 with shifts.
	acc := b
	for x := 1; x < bitboard.Width; x++ {
		acc = acc.And(b.Shift(-x, 0))
	}
	for x, y := range acc.Cells() {
		if x == 0 {
			lines = lines.Set(y)
		}
	}
	return lines
}

// ClearLines removes every filled row and drops the rows above it.
func ClearLines[B bitboard.Bitboard[B]](b B) (B, bitboard.Lines) {
	lines := FilledLines(b)
	if lines.IsEmpty() {
		return b, lines
	}
	var out B
	dst := 0
	for y := 0; y < b.Height(); y++ {
		if lines.Has(y) {
			continue
		}
		row := b.And(bitboard.Rows[B](y, y+1))
		if !row.IsEmpty() {
			out = out.Or(row.Shift(0, dst-y))
		}
		dst++
	}
	return out, lines
}

// AddGarbage pushes the stack up by n rows and fills the new bottom rows,
// leaving one random hole in each. It reports whether any occupied cell was
// pushed off the top.
func AddGarbage[B bitboard.Bitboard[B]](b B, n int, rng *frand.RNG) (B, bool) {
	n = max(0, min(n, b.Height()))
	out := b.Shift(0, n)
	toppedOut := out.Count() != b.Count()
	for y := 0; y < n; y++ {
		hole := rng.Intn(bitboard.Width)
		for x := 0; x < bitboard.Width; x++ {
			if x != hole {
				out = out.Set(x, y)
			}
		}
	}
	return out, toppedOut
}

// Random builds a board with up to rows garbage rows where each cell is
// occupied with the given probability. Filled rows are cleared.
func Random[B bitboard.Bitboard[B]](rows int, density float64, rng *frand.RNG) B {
	var b B
	rows = min(rows, b.Height())
	for y := 0; y < rows; y++ {
		for x := 0; x < bitboard.Width; x++ {
			if rng.Float64() < density {
				b = b.Set(x, y)
			}
		}
	}
	b, _ = ClearLines(b)
	return b
}

// StackHeight is one more than the highest occupied row, or 0 for an empty
// board.
func StackHeight[B bitboard.Bitboard[B]](b B) int {
	h := 0
	for _, y := range b.Cells() {
		h = max(h, y+1)
	}
	return h
}
