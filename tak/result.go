package tak

// GameResult is the outcome of a finished game.
type GameResult uint8

const (
	WhiteWin GameResult = iota
	BlackWin
	Draw
)

func (r GameResult) String() string {
	switch r {
	case WhiteWin:
		return "white-win"
	case BlackWin:
		return "black-win"
	}
	return "draw"
}

// Winner returns the winning color, or false for a draw.
func (r GameResult) Winner() (Color, bool) {
	switch r {
	case WhiteWin:
		return White, true
	case BlackWin:
		return Black, true
	}
	return 0, false
}

// WonBy returns true if c won the game.
func (r GameResult) WonBy(c Color) bool {
	w, ok := r.Winner()
	return ok && w == c
}

func winFor(c Color) GameResult {
	if c == White {
		return WhiteWin
	}
	return BlackWin
}

// GameResult returns the result if the game is over. A road wins over
// everything else; if one move completes roads for both players, the player
// who moved wins. Otherwise the game ends on flat count once the board is
// full or either player has placed all their pieces.
func (p *Position) GameResult() (GameResult, bool) {
	var roadBits [2]uint64
	full := true
	for i, st := range p.stacks {
		if len(st) == 0 {
			full = false
			continue
		}
		if top := st[len(st)-1]; top.IsRoad() {
			roadBits[top.Color()] |= 1 << uint(i)
		}
	}
	whiteRoad := hasRoad(roadBits[White], p.size)
	blackRoad := hasRoad(roadBits[Black], p.size)
	switch {
	case whiteRoad && blackRoad:
		return winFor(p.toMove.Opponent()), true
	case whiteRoad:
		return WhiteWin, true
	case blackRoad:
		return BlackWin, true
	}
	if full || p.stones[White]+p.caps[White] == 0 || p.stones[Black]+p.caps[Black] == 0 {
		white, black := p.FlatCount()
		switch {
		case white > black:
			return WhiteWin, true
		case black > white:
			return BlackWin, true
		}
		return Draw, true
	}
	return 0, false
}

// FlatCount counts the flat stones on top of each stack.
func (p *Position) FlatCount() (white, black int) {
	for _, st := range p.stacks {
		if len(st) == 0 {
			continue
		}
		switch st[len(st)-1] {
		case WhiteFlat:
			white++
		case BlackFlat:
			black++
		}
	}
	return white, black
}

type boardMasks struct {
	full, firstRow, lastRow, firstCol, lastCol uint64
}

var masksBySize [MaxSize + 1]boardMasks

func init() {
	for size := 3; size <= MaxSize; size++ {
		var m boardMasks
		for row := 0; row < size; row++ {
			for col := 0; col < size; col++ {
				bit := uint64(1) << uint(row*size+col)
				m.full |= bit
				if row == 0 {
					m.firstRow |= bit
				}
				if row == size-1 {
					m.lastRow |= bit
				}
				if col == 0 {
					m.firstCol |= bit
				}
				if col == size-1 {
					m.lastCol |= bit
				}
			}
		}
		masksBySize[size] = m
	}
}

func neighbors(b uint64, size int, m boardMasks) uint64 {
	return (b<<uint(size) |
		b>>uint(size) |
		(b&^m.lastCol)<<1 |
		(b&^m.firstCol)>>1) & m.full
}

// flood grows seed through bits until it stops changing.
func flood(seed, bits uint64, size int, m boardMasks) uint64 {
	for {
		next := seed | (neighbors(seed, size, m) & bits)
		if next == seed {
			return seed
		}
		seed = next
	}
}

func hasRoad(bits uint64, size int) bool {
	m := masksBySize[size]
	if bits&m.firstRow != 0 && bits&m.lastRow != 0 {
		if flood(bits&m.firstRow, bits, size, m)&m.lastRow != 0 {
			return true
		}
	}
	if bits&m.firstCol != 0 && bits&m.lastCol != 0 {
		if flood(bits&m.firstCol, bits, size, m)&m.lastCol != 0 {
			return true
		}
	}
	return false
}
