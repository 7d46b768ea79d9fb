package tak

// moveScore is a cheap static guess at how forcing a move is. It only orders
// the search; it never decides a result.
func (p *Position) moveScore(m Move) int {
	c := p.toMove
	if m.Type == MoveTypePlace {
		own, opp := p.adjacentRoadPieces(m.Square, c)
		center := p.centrality(m.Square)
		switch m.Role {
		case Flat:
			return 20 + 8*own + 2*opp + center
		case Cap:
			return 16 + 6*own + 6*opp + center
		default:
			return 4 + 6*opp + own
		}
	}

	score := 10 + 2*int(m.NumDrops)
	sq := m.Square
	for i := 0; i < int(m.NumDrops); i++ {
		sq, _ = sq.step(m.Dir, p.size)
		t := p.top(sq)
		if t != NoPiece && t.Color() != c {
			// Covering an opponent stone.
			score += 4
			if t.Role() == Wall {
				score += 8
			}
		}
	}
	st := p.stacks[m.Square]
	if left := len(st) - m.Carried(); left > 0 && st[left-1].Color() != c {
		// Uncovers an opponent stone at the origin.
		score -= 3
	}
	return score
}

func (p *Position) adjacentRoadPieces(sq Square, c Color) (own, opp int) {
	for _, d := range allDirections {
		n, ok := sq.step(d, p.size)
		if !ok {
			continue
		}
		t := p.top(n)
		if !t.IsRoad() {
			continue
		}
		if t.Color() == c {
			own++
		} else {
			opp++
		}
	}
	return own, opp
}

// centrality is highest in the middle of the board and 0 in the corners.
func (p *Position) centrality(sq Square) int {
	col, row := sq.Col(p.size), sq.Row(p.size)
	return min(col, p.size-1-col) + min(row, p.size-1-row)
}
