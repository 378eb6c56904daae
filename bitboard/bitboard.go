// Package bitboard contains the column-array board encodings the reachability
// engine runs on. A board is one integer per column, one bit per row, with row
// 0 at the bottom. Several backends with different height capacities share
// the Bitboard capability set, so the engine is written once.
package bitboard

import (
	"errors"
	"fmt"
	"iter"
	"math/bits"
)

// Width is the number of columns on every board.
const Width = 10

var ErrExceedsCapacity = errors.New("cell exceeds board height capacity")

// Bitboard is the set of operations the engine needs from a board encoding.
// B is the implementing type itself; every operation returns a new value.
type Bitboard[B any] interface {
	comparable
	// Shift moves every cell by (dx, dy). Cells moved past an edge vanish.
	Shift(dx, dy int) B
	And(o B) B
	Or(o B) B
	AndNot(o B) B
	// Not complements every valid cell.
	Not() B
	IsEmpty() bool
	Count() int
	Get(x, y int) bool
	Set(x, y int) B
	Height() int
	// Cells yields the (x, y) coordinates of every set cell, column by column.
	Cells() iter.Seq2[int, int]
}

// Word is a column type for the scalar backend.
type Word interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Board is the scalar backend: one T-sized word per column. Board[uint8] holds
// 8 rows, Board[uint64] holds 64.
type Board[T Word] [Width]T

func checkShift(dx, dy, height int) {
	if dx < -Width || dx > Width || dy < -height || dy > height {
		panic(fmt.Sprintf("bitboard: shift (%d, %d) out of range for height %d", dx, dy, height))
	}
}

func (b Board[T]) Height() int {
	return bits.Len64(uint64(^T(0)))
}

func (b Board[T]) Shift(dx, dy int) Board[T] {
	checkShift(dx, dy, b.Height())
	var out Board[T]
	for x := 0; x < Width; x++ {
		sx := x - dx
		if sx < 0 || sx >= Width {
			continue
		}
		c := b[sx]
		if dy > 0 {
			c <<= uint(dy)
		} else if dy < 0 {
			c >>= uint(-dy)
		}
		out[x] = c
	}
	return out
}

func (b Board[T]) And(o Board[T]) Board[T] {
	for x := range b {
		b[x] &= o[x]
	}
	return b
}

func (b Board[T]) Or(o Board[T]) Board[T] {
	for x := range b {
		b[x] |= o[x]
	}
	return b
}

func (b Board[T]) AndNot(o Board[T]) Board[T] {
	for x := range b {
		b[x] &^= o[x]
	}
	return b
}

func (b Board[T]) Not() Board[T] {
	for x := range b {
		b[x] = ^b[x]
	}
	return b
}

func (b Board[T]) IsEmpty() bool {
	return b == Board[T]{}
}

func (b Board[T]) Count() int {
	n := 0
	for _, c := range b {
		n += bits.OnesCount64(uint64(c))
	}
	return n
}

func (b Board[T]) Get(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= b.Height() {
		return false
	}
	return b[x]>>uint(y)&1 != 0
}

func (b Board[T]) Set(x, y int) Board[T] {
	if x < 0 || x >= Width || y < 0 || y >= b.Height() {
		panic(fmt.Sprintf("bitboard: set (%d, %d) off board", x, y))
	}
	b[x] |= T(1) << uint(y)
	return b
}

func (b Board[T]) Cells() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for x, c := range b {
			w := uint64(c)
			for w != 0 {
				if !yield(x, bits.TrailingZeros64(w)) {
					return
				}
				w &= w - 1
			}
		}
	}
}

// Convert copies every set cell of src into a fresh D.
func Convert[D Bitboard[D], S Bitboard[S]](src S) (D, error) {
	var dst D
	h := dst.Height()
	for x, y := range src.Cells() {
		if y >= h {
			var zero D
			return zero, fmt.Errorf("row %d on a %d-row board: %w", y, h, ErrExceedsCapacity)
		}
		dst = dst.Set(x, y)
	}
	return dst, nil
}

// Full returns a B with every valid cell set.
func Full[B Bitboard[B]]() B {
	var b B
	return b.Not()
}

// Rows returns a B with every cell in rows [lo, hi) set.
func Rows[B Bitboard[B]](lo, hi int) B {
	var b B
	if hi > b.Height() {
		hi = b.Height()
	}
	for y := max(lo, 0); y < hi; y++ {
		for x := 0; x < Width; x++ {
			b = b.Set(x, y)
		}
	}
	return b
}
