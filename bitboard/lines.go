package bitboard

import "math/bits"

// Lines is a set of row indices, up to 128 rows.
type Lines [2]uint64

func (l Lines) Set(y int) Lines {
	l[y>>6] |= 1 << uint(y&63)
	return l
}

func (l Lines) Has(y int) bool {
	if y < 0 || y >= 128 {
		return false
	}
	return l[y>>6]>>uint(y&63)&1 != 0
}

func (l Lines) Count() int {
	return bits.OnesCount64(l[0]) + bits.OnesCount64(l[1])
}

func (l Lines) IsEmpty() bool {
	return l == Lines{}
}

// Rows lists the set rows bottom to top.
func (l Lines) Rows() []int {
	rows := make([]int, 0, l.Count())
	for half, w := range l {
		for w != 0 {
			rows = append(rows, half*64+bits.TrailingZeros64(w))
			w &= w - 1
		}
	}
	return rows
}
