package tak

import (
	"cmp"
	"slices"
)

// GenerateMoves returns every legal move for the side to move: placements by
// square then role, then spreads by square, direction, carry and drops.
// It does not check whether the game is over.
func (p *Position) GenerateMoves() []Move {
	moves := make([]Move, 0, 3*len(p.stacks))
	c := p.toMove
	for i, st := range p.stacks {
		if len(st) != 0 {
			continue
		}
		sq := Square(i)
		if p.plies < 2 {
			moves = append(moves, NewPlacement(sq, Flat))
			continue
		}
		if p.stones[c] > 0 {
			moves = append(moves, NewPlacement(sq, Flat), NewPlacement(sq, Wall))
		}
		if p.caps[c] > 0 {
			moves = append(moves, NewPlacement(sq, Cap))
		}
	}
	if p.plies < 2 {
		return moves
	}
	for i, st := range p.stacks {
		if len(st) == 0 || st[len(st)-1].Color() != c {
			continue
		}
		for _, d := range allDirections {
			moves = p.appendSpreads(moves, Square(i), d)
		}
	}
	return moves
}

func (p *Position) appendSpreads(moves []Move, sq Square, d Direction) []Move {
	st := p.stacks[sq]
	moving := st[len(st)-1]
	maxCarry := min(p.size, len(st))

	// run is the number of squares we can freely drop onto in this direction.
	run := 0
	flattenAtEnd := false
	cur := sq
	for {
		next, ok := cur.step(d, p.size)
		if !ok {
			break
		}
		t := p.top(next)
		if t == NoPiece || t.Role() == Flat {
			run++
			cur = next
			continue
		}
		if t.Role() == Wall && moving.Role() == Cap {
			flattenAtEnd = true
		}
		break
	}
	if run == 0 && !flattenAtEnd {
		return moves
	}

	buf := make([]uint8, 0, MaxSize)
	for carry := 1; carry <= maxCarry; carry++ {
		forEachComposition(buf, carry, run, false, func(drops []uint8) {
			moves = append(moves, NewSpread(sq, d, drops))
		})
		if flattenAtEnd && carry-1 >= run {
			// Every free square gets at least one stone and the capstone
			// lands alone on the wall.
			forEachComposition(buf, carry-1, run, true, func(drops []uint8) {
				m := NewSpread(sq, d, drops)
				m.Drops[m.NumDrops] = 1
				m.NumDrops++
				moves = append(moves, m)
			})
		}
	}
	return moves
}

// forEachComposition calls emit with every sequence of positive integers
// summing to remaining with at most maxParts entries (exactly maxParts if
// exact is set).
func forEachComposition(prefix []uint8, remaining, maxParts int, exact bool, emit func([]uint8)) {
	if remaining == 0 {
		if !exact || maxParts == 0 {
			emit(prefix)
		}
		return
	}
	if maxParts == 0 {
		return
	}
	for d := 1; d <= remaining; d++ {
		forEachComposition(append(prefix, uint8(d)), remaining-d, maxParts-1, exact, emit)
	}
}

// ScoredMove is a move with its ordering score.
type ScoredMove struct {
	Move
	Score int
}

// GenerateSortedMoves returns the legal moves ordered by a cheap heuristic,
// most promising first. Equal scores keep generation order.
func (p *Position) GenerateSortedMoves() []ScoredMove {
	moves := p.GenerateMoves()
	scored := make([]ScoredMove, len(moves))
	for i, m := range moves {
		scored[i] = ScoredMove{Move: m, Score: p.moveScore(m)}
	}
	slices.SortStableFunc(scored, func(a, b ScoredMove) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return scored
}

// SortedMoves is GenerateSortedMoves without the scores.
func (p *Position) SortedMoves() []Move {
	scored := p.GenerateSortedMoves()
	moves := make([]Move, len(scored))
	for i := range scored {
		moves[i] = scored[i].Move
	}
	return moves
}
