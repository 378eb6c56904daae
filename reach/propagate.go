// Package reach computes every position a falling piece can get to on a
// board, and which of those positions it can lock in.
//
// All positions are expressed as the bottom-left corner of the piece's
// bounding box. One bitboard per orientation holds a set of corners, so a
// whole family of positions is advanced with a handful of shifts and masks.
package reach

import (
	"github.com/domino14/reachgen/bitboard"
	"github.com/domino14/reachgen/piece"
)

// CompileFreeSpace returns, per orientation, the corners at which every cell
// of the piece lands on a free cell of rawFree. Corners whose piece would
// stick out past an edge are never free.
func CompileFreeSpace[B bitboard.Bitboard[B]](shape piece.Shape, rawFree B) [4]B {
	var out [4]B
	for _, o := range piece.Orientations {
		if shape == piece.O && o != piece.North {
			out[o] = out[piece.North]
			continue
		}
		acc := bitboard.Full[B]()
		for _, b := range (piece.Piece{Shape: shape, Orientation: o}).Blocks() {
			acc = acc.And(rawFree.Shift(-b.X, -b.Y))
		}
		out[o] = acc
	}
	return out
}

// fill is an occluded fill in direction (dx, dy): every cell of gen is
// extended through consecutive cells of pro. limit bounds the run length.
func fill[B bitboard.Bitboard[B]](gen, pro B, dx, dy, limit int) B {
	for k := 1; k < limit; k <<= 1 {
		gen = gen.Or(pro.And(gen.Shift(dx*k, dy*k)))
		pro = pro.And(pro.Shift(dx*k, dy*k))
	}
	return gen
}

func lateral[B bitboard.Bitboard[B]](reach, free B) B {
	return fill(reach, free, 1, 0, bitboard.Width).Or(fill(reach, free, -1, 0, bitboard.Width))
}

// Fall extends every seed straight down through free space.
func Fall[B bitboard.Bitboard[B]](seeds, free B) B {
	return fill(seeds, free, 0, -1, seeds.Height())
}

// PropagateMoves returns the smallest superset of reach, inside free, that
// is closed under moving one column left, one column right, or one row down.
// reach must be a subset of free.
func PropagateMoves[B bitboard.Bitboard[B]](reach, free B) B {
	for {
		next := Fall(lateral(reach, free), free)
		if next == reach {
			return reach
		}
		reach = next
	}
}

// PropagateRotation rotates every corner in src into the destination
// orientation. Kicks are tried in order; a source corner stops at the first
// kick that lands in destFree. The kicks must already be in the corner frame.
func PropagateRotation[B bitboard.Bitboard[B]](src, destFree B, kicks []piece.Offset) B {
	var delta B
	if src.IsEmpty() {
		return delta
	}
	cand := src
	for _, k := range kicks {
		landed := cand.Shift(k.X, k.Y).And(destFree)
		delta = delta.Or(landed)
		cand = cand.AndNot(landed.Shift(-k.X, -k.Y))
		if cand.IsEmpty() {
			break
		}
	}
	return delta
}

// ExtractLanded keeps the reachable corners that cannot move down one more
// row. Row 0 always counts as landed.
func ExtractLanded[B bitboard.Bitboard[B]](reach, free B) B {
	return reach.AndNot(free.Shift(0, 1))
}

// Canonicalize merges orientations with identical footprints into the lowest
// such orientation. Identical footprints share the same corner, so the boards
// are merged without a shift. Non-canonical slots come back empty.
func Canonicalize[B bitboard.Bitboard[B]](shape piece.Shape, landed [4]B) [4]B {
	var out [4]B
	for _, o := range piece.Orientations {
		c, _ := piece.Piece{Shape: shape, Orientation: o}.Canonical()
		out[c.Orientation] = out[c.Orientation].Or(landed[o])
	}
	return out
}
