package reach

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownMode = errors.New("unknown drop mode")

// Mode selects how a piece may move after it spawns.
type Mode uint8

const (
	// SoftDrop allows any interleaving of lateral moves, rotations and
	// single-row drops.
	SoftDrop Mode = iota
	// HardDrop allows rotating in place at the spawn, sliding sideways at
	// the spawn row, and then dropping straight down.
	HardDrop
)

func (m Mode) String() string {
	if m == HardDrop {
		return "hard"
	}
	return "soft"
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "soft", "softdrop", "soft-drop":
		return SoftDrop, nil
	case "hard", "harddrop", "hard-drop":
		return HardDrop, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownMode)
}
