package kicks

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/domino14/reachgen/piece"
)

var (
	ErrMissingZeroKick = errors.New("kick list does not contain the zero kick")
	ErrBadTransition   = errors.New("transition is not a single quarter turn")
	ErrNoName          = errors.New("kick table has no name")
	ErrBadKick         = errors.New("kick is not an [x, y] pair")
	ErrReservedName    = errors.New("kick table name is reserved for a built-in table")
	ErrDuplicateKicks  = errors.New("transition is listed more than once for a shape")
)

// builtinNames are the names Named resolves without reading a file.
var builtinNames = []string{"srs", "none"}

type transitionKey struct {
	shape piece.Shape
	from  piece.Orientation
	r     piece.Rotation
}

// tableFile is the on-disk layout of a custom kick table:
//
//	name: mini
//	kicks:
//	  JLSTZ:
//	    N->E: [[0, 0], [-1, 0]]
//	    E->N: [[0, 0], [1, 0]]
//	  I:
//	    N->E: [[0, 0]]
//
// A key under kicks lists one or more shape letters. A shape may list each
// transition only once across all keys. Transitions that are not listed keep
// the zero kick.
type tableFile struct {
	Name  string                        `yaml:"name"`
	Kicks map[string]map[string][][]int `yaml:"kicks"`
}

// LoadYAML reads a custom kick table.
func LoadYAML(r io.Reader) (*Table, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var tf tableFile
	if err := dec.Decode(&tf); err != nil {
		return nil, err
	}
	if tf.Name == "" {
		return nil, ErrNoName
	}
	if slices.Contains(builtinNames, strings.ToLower(tf.Name)) {
		return nil, fmt.Errorf("%q: %w", tf.Name, ErrReservedName)
	}
	t := &Table{name: tf.Name}
	seen := map[transitionKey]string{}
	for shapes, transitions := range tf.Kicks {
		for _, letter := range shapes {
			s, err := piece.ParseShape(string(letter))
			if err != nil {
				return nil, err
			}
			for tr, list := range transitions {
				from, r, err := parseTransition(tr)
				if err != nil {
					return nil, err
				}
				tk := transitionKey{s, from, r}
				if prev, ok := seen[tk]; ok {
					return nil, fmt.Errorf("%v %v under %q and %q: %w", s, tr, prev, shapes, ErrDuplicateKicks)
				}
				seen[tk] = shapes
				ks := make([]piece.Offset, len(list))
				for i, k := range list {
					if len(k) != 2 {
						return nil, fmt.Errorf("%v %v: kick %v: %w", s, tr, k, ErrBadKick)
					}
					ks[i] = piece.Offset{X: k[0], Y: k[1]}
				}
				if !slices.Contains(ks, piece.Offset{}) {
					return nil, fmt.Errorf("%v %v: %w", s, tr, ErrMissingZeroKick)
				}
				t.set(s, from, r, ks)
			}
		}
	}
	return t, nil
}

func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadYAML(f)
}

// parseTransition reads "N->E" style keys.
func parseTransition(s string) (piece.Orientation, piece.Rotation, error) {
	a, b, ok := strings.Cut(s, "->")
	if !ok {
		return 0, 0, fmt.Errorf("%q: %w", s, ErrBadTransition)
	}
	from, err := piece.ParseOrientation(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, err
	}
	to, err := piece.ParseOrientation(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, err
	}
	for _, r := range piece.Rotations {
		if from.Rotate(r) == to {
			return from, r, nil
		}
	}
	return 0, 0, fmt.Errorf("%q: %w", s, ErrBadTransition)
}
