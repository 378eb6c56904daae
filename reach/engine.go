package reach

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/reachgen/bitboard"
	"github.com/domino14/reachgen/kicks"
	"github.com/domino14/reachgen/placement"
)

var ErrUnknownBackend = errors.New("unknown backend")

// Field is the board type callers hand to an Engine: the widest backend, so
// that every backend can be fed. Each backend converts it to its own
// encoding and refuses fields that do not fit.
type Field = bitboard.Tall

type Backend string

const (
	BackendU8        Backend = "u8"
	BackendU16       Backend = "u16"
	BackendU32       Backend = "u32"
	BackendU64       Backend = "u64"
	BackendTall      Backend = "tall"
	BackendPacked256 Backend = "packed256"
)

var Backends = []Backend{BackendU8, BackendU16, BackendU32, BackendU64, BackendTall, BackendPacked256}

// Engine runs searches on one backend chosen at construction.
type Engine struct {
	backend Backend
	height  int
	rs      kicks.RotationSystem
	mode    Mode

	generate func(Field, placement.Placement, bool) ([]placement.Placement, error)
	canReach func(Field, placement.Placement, placement.Placement) (bool, error)
}

func bind[B bitboard.Bitboard[B]](e *Engine) {
	g := NewGenerator[B](e.rs, e.mode)
	var zero B
	e.height = zero.Height()
	e.generate = func(f Field, spawn placement.Placement, minimize bool) ([]placement.Placement, error) {
		b, err := bitboard.Convert[B](f)
		if err != nil {
			return nil, err
		}
		return g.Search(b, spawn).Placements(minimize), nil
	}
	e.canReach = func(f Field, spawn, target placement.Placement) (bool, error) {
		b, err := bitboard.Convert[B](f)
		if err != nil {
			return false, err
		}
		return g.CanReach(b, spawn, target), nil
	}
}

func NewEngine(backend Backend, rs kicks.RotationSystem, mode Mode) (*Engine, error) {
	e := &Engine{backend: backend, rs: rs, mode: mode}
	switch backend {
	case BackendU8:
		bind[bitboard.Board[uint8]](e)
	case BackendU16:
		bind[bitboard.Board[uint16]](e)
	case BackendU32:
		bind[bitboard.Board[uint32]](e)
	case BackendU64:
		bind[bitboard.Board[uint64]](e)
	case BackendTall:
		bind[bitboard.Tall](e)
	case BackendPacked256:
		bind[bitboard.Packed256](e)
	default:
		return nil, fmt.Errorf("%q: %w", backend, ErrUnknownBackend)
	}
	return e, nil
}

func (e *Engine) Backend() Backend {
	return e.backend
}

// Height is the row capacity of the backend.
func (e *Engine) Height() int {
	return e.height
}

func (e *Engine) Mode() Mode {
	return e.mode
}

func (e *Engine) RotationSystem() kicks.RotationSystem {
	return e.rs
}

// Generate returns every landed placement of spawn's piece on field. It
// fails only when field has occupied cells above the backend's capacity.
func (e *Engine) Generate(field Field, spawn placement.Placement, minimize bool) ([]placement.Placement, error) {
	ts := time.Now()
	plms, err := e.generate(field, spawn, minimize)
	if err != nil {
		return nil, fmt.Errorf("backend %v: %w", e.backend, err)
	}
	log.Debug().
		Str("backend", string(e.backend)).
		Str("spawn", spawn.ShortDescription()).
		Int("placements", len(plms)).
		Dur("elapsed", time.Since(ts)).
		Msg("generated")
	return plms, nil
}

func (e *Engine) CanReach(field Field, spawn, target placement.Placement) (bool, error) {
	ok, err := e.canReach(field, spawn, target)
	if err != nil {
		return false, fmt.Errorf("backend %v: %w", e.backend, err)
	}
	return ok, nil
}
