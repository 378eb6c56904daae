package kicks

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/reachgen/piece"
)

func collect(rs RotationSystem, s piece.Shape, o piece.Orientation, r piece.Rotation) []piece.Offset {
	return slices.Collect(rs.Kicks(piece.Piece{Shape: s, Orientation: o}, r))
}

func TestSRSKicks(t *testing.T) {
	assert.Equal(t,
		[]piece.Offset{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
		collect(SRS(), piece.T, piece.North, piece.CW))
	assert.Equal(t,
		[]piece.Offset{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
		collect(SRS(), piece.T, piece.East, piece.CCW))
	assert.Equal(t,
		[]piece.Offset{{1, 0}, {-1, 0}, {2, 0}, {-1, -1}, {2, 2}},
		collect(SRS(), piece.I, piece.North, piece.CW))
	assert.Equal(t,
		[]piece.Offset{{0, 1}},
		collect(SRS(), piece.O, piece.North, piece.CW))
}

// SRS kicks for opposite turns are negations of each other.
func TestSRSSymmetry(t *testing.T) {
	is := is.New(t)
	rs := SRS()
	for _, s := range piece.Shapes {
		for _, o := range piece.Orientations {
			fwd := collect(rs, s, o, piece.CW)
			back := collect(rs, s, o.Rotate(piece.CW), piece.CCW)
			is.Equal(len(fwd), len(back))
			for i := range fwd {
				is.Equal(fwd[i], back[i].Neg())
			}
		}
	}
}

func TestNoKicks(t *testing.T) {
	is := is.New(t)
	rs := NoKicks()
	is.Equal(rs.Name(), "none")
	for _, s := range piece.Shapes {
		is.Equal(collect(rs, s, piece.West, piece.CW), []piece.Offset{{}})
	}
}

func TestCornerKicks(t *testing.T) {
	is := is.New(t)
	p := piece.Piece{Shape: piece.T, Orientation: piece.East}
	ck := CornerKicks(SRS(), p, piece.CCW)
	is.Equal(len(ck), 5)
	is.Equal(ck[0], piece.Offset{X: -1, Y: 1})
	is.Equal(ck[1], piece.Offset{X: 0, Y: 1})

	// The O piece never moves its corner under SRS.
	for _, o := range piece.Orientations {
		for _, r := range piece.Rotations {
			ck := CornerKicks(SRS(), piece.Piece{Shape: piece.O, Orientation: o}, r)
			is.Equal(ck, []piece.Offset{{}})
		}
	}
}

func TestLoadYAML(t *testing.T) {
	is := is.New(t)
	rs, err := LoadFile("testdata/mini.yaml")
	is.NoErr(err)
	is.Equal(rs.Name(), "mini")
	is.Equal(collect(rs, piece.Z, piece.North, piece.CW), []piece.Offset{{0, 0}, {-1, 0}})
	is.Equal(collect(rs, piece.T, piece.East, piece.CCW), []piece.Offset{{0, 0}, {1, 0}})
	is.Equal(collect(rs, piece.I, piece.North, piece.CW), []piece.Offset{{1, 0}, {0, 0}})
	// Unlisted transitions keep the zero kick.
	is.Equal(collect(rs, piece.T, piece.South, piece.CW), []piece.Offset{{}})
	is.Equal(collect(rs, piece.O, piece.North, piece.CW), []piece.Offset{{}})
}

func TestLoadYAMLErrors(t *testing.T) {
	is := is.New(t)
	testcases := []struct {
		doc  string
		want error
	}{
		{"name: x\nkicks:\n  T:\n    N->E: [[1, 0]]\n", ErrMissingZeroKick},
		{"name: x\nkicks:\n  T:\n    N->S: [[0, 0]]\n", ErrBadTransition},
		{"name: x\nkicks:\n  T:\n    NE: [[0, 0]]\n", ErrBadTransition},
		{"name: x\nkicks:\n  Q:\n    N->E: [[0, 0]]\n", piece.ErrUnknownShape},
		{"name: x\nkicks:\n  T:\n    N->U: [[0, 0]]\n", piece.ErrUnknownOrientation},
		{"name: x\nkicks:\n  T:\n    N->E: [[0, 0, 1]]\n", ErrBadKick},
		{"kicks: {}\n", ErrNoName},
		{"name: srs\nkicks: {}\n", ErrReservedName},
		{"name: None\nkicks: {}\n", ErrReservedName},
		{"name: x\nkicks:\n  JLSTZ:\n    N->E: [[0, 0]]\n  T:\n    N->E: [[0, 0], [1, 0]]\n", ErrDuplicateKicks},
		{"name: x\nkicks:\n  T:\n    N->E: [[0, 0]]\n    N -> E: [[0, 0]]\n", ErrDuplicateKicks},
	}
	for _, tc := range testcases {
		_, err := LoadYAML(strings.NewReader(tc.doc))
		is.True(errors.Is(err, tc.want))
	}
	_, err := LoadYAML(strings.NewReader("name: x\nbogus: 1\n"))
	is.True(err != nil)

	// One shape under two keys is fine as long as the transitions differ.
	rs, err := LoadYAML(strings.NewReader(
		"name: x\nkicks:\n  JLSZ:\n    N->E: [[0, 0], [-1, 0]]\n  T:\n    N->E: [[0, 0], [1, 0]]\n    E->N: [[0, 0]]\n"))
	is.NoErr(err)
	is.Equal(collect(rs, piece.T, piece.North, piece.CW), []piece.Offset{{}, {X: 1}})
	is.Equal(collect(rs, piece.L, piece.North, piece.CW), []piece.Offset{{}, {X: -1}})
}

func TestNamed(t *testing.T) {
	is := is.New(t)
	rs, err := Named("srs")
	is.NoErr(err)
	is.Equal(rs.Name(), "srs")
	rs, err = Named("none")
	is.NoErr(err)
	is.Equal(rs.Name(), "none")
	rs, err = Named("testdata/mini.yaml")
	is.NoErr(err)
	is.Equal(rs.Name(), "mini")
	_, err = Named("testdata/missing.yaml")
	is.True(err != nil)
}
