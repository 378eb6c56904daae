package bitboard

import (
	"fmt"
	"iter"
	"math/bits"
)

// PackedHeight is the row capacity of a Packed256 board.
const PackedHeight = 24

// Packed256 keeps the whole board in one 256-bit lane. Column x occupies bits
// [24x, 24x+24) with row y at bit 24x+y. Bits 240..255 are padding and stay
// zero. A horizontal shift is a lane shift by 24 bits per column; a vertical
// shift is a lane shift by dy followed by a row mask so that bits never spill
// from one column into its neighbour.
type Packed256 struct {
	W [4]uint64
}

var (
	packedValid    [4]uint64
	packedRowsUp   [PackedHeight + 1][4]uint64
	packedRowsDown [PackedHeight + 1][4]uint64
)

func init() {
	packedValid = packedRowMask(0, PackedHeight)
	for d := 0; d <= PackedHeight; d++ {
		packedRowsUp[d] = packedRowMask(d, PackedHeight)
		packedRowsDown[d] = packedRowMask(0, PackedHeight-d)
	}
}

// packedRowMask sets rows [lo, hi) in every column.
func packedRowMask(lo, hi int) [4]uint64 {
	var m [4]uint64
	for x := 0; x < Width; x++ {
		for y := lo; y < hi; y++ {
			bit := x*PackedHeight + y
			m[bit>>6] |= 1 << uint(bit&63)
		}
	}
	return m
}

func shl256(w [4]uint64, n uint) [4]uint64 {
	var out [4]uint64
	if n >= 256 {
		return out
	}
	q, r := int(n>>6), n&63
	for i := 3; i >= q; i-- {
		v := w[i-q] << r
		if r != 0 && i-q-1 >= 0 {
			v |= w[i-q-1] >> (64 - r)
		}
		out[i] = v
	}
	return out
}

func shr256(w [4]uint64, n uint) [4]uint64 {
	var out [4]uint64
	if n >= 256 {
		return out
	}
	q, r := int(n>>6), n&63
	for i := 0; i+q < 4; i++ {
		v := w[i+q] >> r
		if r != 0 && i+q+1 < 4 {
			v |= w[i+q+1] << (64 - r)
		}
		out[i] = v
	}
	return out
}

func and256(a, b [4]uint64) [4]uint64 {
	return [4]uint64{a[0] & b[0], a[1] & b[1], a[2] & b[2], a[3] & b[3]}
}

func (b Packed256) Height() int {
	return PackedHeight
}

func (b Packed256) Shift(dx, dy int) Packed256 {
	checkShift(dx, dy, PackedHeight)
	w := b.W
	switch {
	case dx > 0:
		w = and256(shl256(w, uint(dx*PackedHeight)), packedValid)
	case dx < 0:
		w = shr256(w, uint(-dx*PackedHeight))
	}
	switch {
	case dy > 0:
		w = and256(shl256(w, uint(dy)), packedRowsUp[dy])
	case dy < 0:
		w = and256(shr256(w, uint(-dy)), packedRowsDown[-dy])
	}
	return Packed256{W: w}
}

func (b Packed256) And(o Packed256) Packed256 {
	return Packed256{W: and256(b.W, o.W)}
}

func (b Packed256) Or(o Packed256) Packed256 {
	for i := range b.W {
		b.W[i] |= o.W[i]
	}
	return b
}

func (b Packed256) AndNot(o Packed256) Packed256 {
	for i := range b.W {
		b.W[i] &^= o.W[i]
	}
	return b
}

func (b Packed256) Not() Packed256 {
	for i := range b.W {
		b.W[i] = ^b.W[i] & packedValid[i]
	}
	return b
}

func (b Packed256) IsEmpty() bool {
	return b.W == [4]uint64{}
}

func (b Packed256) Count() int {
	n := 0
	for _, w := range b.W {
		n += bits.OnesCount64(w)
	}
	return n
}

func (b Packed256) Get(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= PackedHeight {
		return false
	}
	bit := x*PackedHeight + y
	return b.W[bit>>6]>>uint(bit&63)&1 != 0
}

func (b Packed256) Set(x, y int) Packed256 {
	if x < 0 || x >= Width || y < 0 || y >= PackedHeight {
		panic(fmt.Sprintf("bitboard: set (%d, %d) off packed board", x, y))
	}
	bit := x*PackedHeight + y
	b.W[bit>>6] |= 1 << uint(bit&63)
	return b
}

func (b Packed256) Cells() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for i, w := range b.W {
			for w != 0 {
				bit := i*64 + bits.TrailingZeros64(w)
				if !yield(bit/PackedHeight, bit%PackedHeight) {
					return
				}
				w &= w - 1
			}
		}
	}
}
