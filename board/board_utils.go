package board

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/domino14/reachgen/bitboard"
	"github.com/domino14/reachgen/piece"
	"github.com/domino14/reachgen/placement"
)

// ToDisplayText renders the bottom rows of b, framed, with row numbers on the
// left. Cells covered by any overlay placement are drawn as []. rows <= 0
// means the stack height plus a little headroom.
func ToDisplayText[B bitboard.Bitboard[B]](b B, rows int, overlay ...placement.Placement) string {
	if rows <= 0 {
		rows = min(b.Height(), max(StackHeight(b)+4, 8))
	}
	rows = min(rows, b.Height())
	marked := map[piece.Offset]bool{}
	for _, p := range overlay {
		for _, c := range p.Cells() {
			marked[c] = true
		}
	}

	// Row numbers take two columns, three on boards taller than 100 rows.
	numWidth := max(2, len(strconv.Itoa(rows-1)))
	pad := strings.Repeat(" ", numWidth+1)

	var sb strings.Builder
	sb.WriteString("\n" + pad)
	for x := 0; x < bitboard.Width; x++ {
		fmt.Fprintf(&sb, "%d ", x)
	}
	sb.WriteString("\n")
	sb.WriteString(pad + strings.Repeat("-", bitboard.Width*2) + "\n")
	for y := rows - 1; y >= 0; y-- {
		fmt.Fprintf(&sb, "%*d|", numWidth, y)
		for x := 0; x < bitboard.Width; x++ {
			switch {
			case marked[piece.Offset{X: x, Y: y}]:
				sb.WriteString("[]")
			case b.Get(x, y):
				sb.WriteString("##")
			default:
				sb.WriteString(". ")
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(pad + strings.Repeat("-", bitboard.Width*2) + "\n")
	return sb.String()
}

// ToText is the inverse of Parse for the bottom rows of b.
func ToText[B bitboard.Bitboard[B]](b B, rows int) string {
	var sb strings.Builder
	for y := rows - 1; y >= 0; y-- {
		for x := 0; x < bitboard.Width; x++ {
			if b.Get(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
