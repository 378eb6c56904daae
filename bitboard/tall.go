package bitboard

import (
	"fmt"
	"iter"
	"math/bits"
)

// TallHeight is the row capacity of a Tall board.
const TallHeight = 128

// Tall stacks two 64-bit words per column: [0] holds rows 0..63 and [1] holds
// rows 64..127. Vertical shifts carry between the halves, so a search over a
// Tall board sees one continuous column.
type Tall [Width][2]uint64

func shl128(lo, hi uint64, n uint) (uint64, uint64) {
	switch {
	case n == 0:
		return lo, hi
	case n >= 128:
		return 0, 0
	case n >= 64:
		return 0, lo << (n - 64)
	}
	return lo << n, hi<<n | lo>>(64-n)
}

func shr128(lo, hi uint64, n uint) (uint64, uint64) {
	switch {
	case n == 0:
		return lo, hi
	case n >= 128:
		return 0, 0
	case n >= 64:
		return hi >> (n - 64), 0
	}
	return lo>>n | hi<<(64-n), hi >> n
}

func (b Tall) Height() int {
	return TallHeight
}

func (b Tall) Shift(dx, dy int) Tall {
	checkShift(dx, dy, TallHeight)
	var out Tall
	for x := 0; x < Width; x++ {
		sx := x - dx
		if sx < 0 || sx >= Width {
			continue
		}
		lo, hi := b[sx][0], b[sx][1]
		if dy > 0 {
			lo, hi = shl128(lo, hi, uint(dy))
		} else if dy < 0 {
			lo, hi = shr128(lo, hi, uint(-dy))
		}
		out[x] = [2]uint64{lo, hi}
	}
	return out
}

func (b Tall) And(o Tall) Tall {
	for x := range b {
		b[x][0] &= o[x][0]
		b[x][1] &= o[x][1]
	}
	return b
}

func (b Tall) Or(o Tall) Tall {
	for x := range b {
		b[x][0] |= o[x][0]
		b[x][1] |= o[x][1]
	}
	return b
}

func (b Tall) AndNot(o Tall) Tall {
	for x := range b {
		b[x][0] &^= o[x][0]
		b[x][1] &^= o[x][1]
	}
	return b
}

func (b Tall) Not() Tall {
	for x := range b {
		b[x][0] = ^b[x][0]
		b[x][1] = ^b[x][1]
	}
	return b
}

func (b Tall) IsEmpty() bool {
	return b == Tall{}
}

func (b Tall) Count() int {
	n := 0
	for _, c := range b {
		n += bits.OnesCount64(c[0]) + bits.OnesCount64(c[1])
	}
	return n
}

func (b Tall) Get(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= TallHeight {
		return false
	}
	return b[x][y>>6]>>uint(y&63)&1 != 0
}

func (b Tall) Set(x, y int) Tall {
	if x < 0 || x >= Width || y < 0 || y >= TallHeight {
		panic(fmt.Sprintf("bitboard: set (%d, %d) off tall board", x, y))
	}
	b[x][y>>6] |= 1 << uint(y&63)
	return b
}

func (b Tall) Cells() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for x, c := range b {
			for half, w := range c {
				for w != 0 {
					if !yield(x, half*64+bits.TrailingZeros64(w)) {
						return
					}
					w &= w - 1
				}
			}
		}
	}
}
