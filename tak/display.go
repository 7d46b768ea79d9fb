package tak

import (
	"fmt"
	"strings"
)

// ToDisplayText renders the board with rank 1 at the bottom. Each square shows
// its stack bottom to top: w/b flats, W/B walls, C/D white/black capstones.
func (p *Position) ToDisplayText() string {
	width := 1
	for _, st := range p.stacks {
		width = max(width, len(st))
	}
	var sb strings.Builder
	for row := p.size - 1; row >= 0; row-- {
		fmt.Fprintf(&sb, "%d ", row+1)
		for col := 0; col < p.size; col++ {
			st := p.stacks[NewSquare(col, row, p.size)]
			cell := "."
			if len(st) > 0 {
				b := make([]byte, len(st))
				for i, pc := range st {
					b[i] = pc.letter()
				}
				cell = string(b)
			}
			fmt.Fprintf(&sb, " %-*s", width, cell)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  ")
	for col := 0; col < p.size; col++ {
		fmt.Fprintf(&sb, " %-*c", width, 'a'+col)
	}
	sb.WriteByte('\n')
	ws, wc := p.Reserves(White)
	bs, bc := p.Reserves(Black)
	fmt.Fprintf(&sb, "ply %d, %s to move. reserves: white %d/%d black %d/%d\n",
		p.plies, p.toMove, ws, wc, bs, bc)
	return sb.String()
}

func (p *Position) String() string {
	return p.ToDisplayText()
}
