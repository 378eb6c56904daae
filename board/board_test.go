package board

import (
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"

	"github.com/domino14/reachgen/bitboard"
	"github.com/domino14/reachgen/piece"
	"github.com/domino14/reachgen/placement"
)

type B = bitboard.Board[uint32]

func seeded(b byte) *frand.RNG {
	seed := make([]byte, 32)
	seed[0] = b
	return frand.NewCustom(seed, 1024, 12)
}

func TestParse(t *testing.T) {
	is := is.New(t)
	b, err := Parse[B](string(Well))
	is.NoErr(err)
	is.Equal(b.Count(), 36)
	is.True(!b.Get(4, 0))
	is.True(b.Get(3, 3))
	is.True(!b.Get(3, 4))

	b, err = Parse[B]("|X.x@_....#|\n\n|.........#|\n")
	is.NoErr(err)
	is.True(b.Get(0, 1))
	is.True(b.Get(2, 1))
	is.True(b.Get(3, 1))
	is.True(b.Get(9, 0))
	is.Equal(b.Count(), 5)

	b, err = Parse[B](string(Blank))
	is.NoErr(err)
	is.True(b.IsEmpty())
}

func TestParseErrors(t *testing.T) {
	is := is.New(t)
	testcases := []struct {
		text string
		kind ParseErrorKind
		line int
		col  int
		want error
	}{
		{"####.#####\n###?.#####\n", InvalidCharacter, 2, 4, ErrInvalidCharacter},
		{"\n####.####\n", MismatchedWidth, 2, 0, ErrMismatchedWidth},
		{"#.........\n" + "..........\n", ExceedsCapacity, 0, 0, bitboard.ErrExceedsCapacity},
	}
	for i, tc := range testcases {
		var err error
		if i == 2 {
			_, err = Parse[bitboard.Board[uint8]](tc.text + string(Well) + string(Well))
		} else {
			_, err = Parse[B](tc.text)
		}
		var pe *ParseError
		is.True(errors.As(err, &pe))
		is.Equal(pe.Kind, tc.kind)
		is.True(errors.Is(err, tc.want))
		if tc.line > 0 {
			is.Equal(pe.Line, tc.line)
		}
		if tc.col > 0 {
			is.Equal(pe.Col, tc.col)
		}
	}
}

func TestTextRoundTrip(t *testing.T) {
	is := is.New(t)
	b, err := Parse[B](string(Ragged))
	is.NoErr(err)
	b2, err := Parse[B](ToText(b, 6))
	is.NoErr(err)
	is.Equal(b, b2)
}

func TestSetRow(t *testing.T) {
	is := is.New(t)
	b, err := Parse[B](string(Well))
	is.NoErr(err)
	b, err = SetRow(b, 0, "..........")
	is.NoErr(err)
	is.Equal(b.Count(), 27)
	b, err = SetRow(b, 5, "|#........#|")
	is.NoErr(err)
	is.True(b.Get(9, 5))
	_, err = SetRow(b, 40, "..........")
	is.True(errors.Is(err, bitboard.ErrExceedsCapacity))
	_, err = SetRow(b, 0, "...")
	is.True(errors.Is(err, ErrMismatchedWidth))
}

func TestPlace(t *testing.T) {
	is := is.New(t)
	var b B
	b, ok := Place(b, placement.New(piece.O, piece.North, 0, 0))
	is.True(ok)
	is.Equal(b.Count(), 4)

	_, ok = Place(b, placement.New(piece.O, piece.North, 1, 0))
	is.True(!ok)
	_, ok = Place(b, placement.New(piece.O, piece.North, -1, -1))
	is.True(!ok)
	_, ok = Place(b, placement.New(piece.I, piece.North, 7, 0))
	is.True(!ok)
	_, ok = Place(b, placement.New(piece.I, piece.East, 0, 29))
	is.True(!ok)
	is.True(Fits(b, placement.New(piece.I, piece.East, 9, 0)))
}

// Five O pieces side by side clear two lines.
func TestClearLines(t *testing.T) {
	is := is.New(t)
	var b B
	var ok bool
	for x := 0; x <= 8; x += 2 {
		b, ok = Place(b, placement.New(piece.O, piece.North, x, 0))
		is.True(ok)
	}
	is.Equal(FilledLines(b).Rows(), []int{0, 1})
	b, lines := ClearLines(b)
	is.Equal(lines.Count(), 2)
	is.True(b.IsEmpty())
}

func TestClearLinesDropsRowsAbove(t *testing.T) {
	is := is.New(t)
	b, err := Parse[B](`
#.........
##########
..#.......
##########
`)
	is.NoErr(err)
	out, lines := ClearLines(b)
	is.Equal(lines.Rows(), []int{0, 2})
	is.Equal(out.Count(), 2)
	is.True(out.Get(2, 0))
	is.True(out.Get(0, 1))
}

func TestAddGarbage(t *testing.T) {
	is := is.New(t)
	b, err := Parse[B](string(Well))
	is.NoErr(err)
	out, toppedOut := AddGarbage(b, 3, seeded(1))
	is.True(!toppedOut)
	is.Equal(out.Count(), b.Count()+27)
	for y := 0; y < 3; y++ {
		holes := 0
		for x := 0; x < bitboard.Width; x++ {
			if !out.Get(x, y) {
				holes++
			}
		}
		is.Equal(holes, 1)
	}
	is.True(!out.Get(4, 3))
	is.True(FilledLines(out).IsEmpty())

	full := bitboard.Rows[B](28, 32)
	_, toppedOut = AddGarbage(full, 1, seeded(2))
	is.True(toppedOut)
}

func TestRandom(t *testing.T) {
	is := is.New(t)
	b := Random[B](10, 0.5, seeded(3))
	is.True(StackHeight(b) <= 10)
	is.True(FilledLines(b).IsEmpty())
	is.Equal(StackHeight(Random[B](10, 0, seeded(4))), 0)
}

func TestToDisplayText(t *testing.T) {
	is := is.New(t)
	b, err := Parse[B]("#.........\n")
	is.NoErr(err)
	txt := ToDisplayText(b, 2, placement.New(piece.O, piece.North, 2, 0))
	is.Equal(txt, "\n   0 1 2 3 4 5 6 7 8 9 \n"+
		"   --------------------\n"+
		" 1|. . [][]. . . . . . |\n"+
		" 0|##. [][]. . . . . . |\n"+
		"   --------------------\n")
}

func TestToDisplayTextTall(t *testing.T) {
	is := is.New(t)
	var b bitboard.Tall
	b = b.Set(9, 100)
	lines := strings.Split(ToDisplayText(b, 0), "\n")
	is.Equal(lines[1], "    0 1 2 3 4 5 6 7 8 9 ")
	is.Equal(lines[2], "    --------------------")
	// Stack height 101 plus four rows of headroom.
	is.Equal(lines[3], "104|. . . . . . . . . . |")
	is.Equal(lines[7], "100|. . . . . . . . . ##|")
	is.Equal(lines[len(lines)-3], "  0|. . . . . . . . . . |")
}
