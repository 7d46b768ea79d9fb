package tak

import (
	"fmt"
)

// reserves is the number of (stones, capstones) each player starts with.
var reserves = map[int][2]int{
	3: {10, 0},
	4: {15, 0},
	5: {21, 1},
	6: {30, 1},
	7: {40, 2},
	8: {50, 2},
}

// SupportedSize returns true if games of this board size can be played.
func SupportedSize(size int) bool {
	_, ok := reserves[size]
	return ok
}

// Position is a Tak game state. It is mutated in place by DoMove and restored
// by UndoMove; it is not safe for concurrent use. Use Copy to hand a position
// to another goroutine.
type Position struct {
	size   int
	stacks [][]Piece // bottom to top
	toMove Color
	plies  int
	stones [2]int
	caps   [2]int

	hash    uint64
	zobrist *Zobrist
}

// ReverseMove is the token returned by DoMove. Passing it to UndoMove restores
// the position exactly.
type ReverseMove struct {
	move      Move
	plies     int
	flattened bool
	hash      uint64
}

func (r ReverseMove) Move() Move {
	return r.move
}

func NewPosition(size int) (*Position, error) {
	res, ok := reserves[size]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSize, size)
	}
	p := &Position{
		size:    size,
		stacks:  make([][]Piece, size*size),
		stones:  [2]int{res[0], res[0]},
		caps:    [2]int{res[1], res[1]},
		zobrist: defaultZobrist,
	}
	p.hash = p.zobrist.Hash(p)
	return p, nil
}

// NewPositionFromPTN plays the given PTN moves from the start position.
func NewPositionFromPTN(size int, moves ...string) (*Position, error) {
	p, err := NewPosition(size)
	if err != nil {
		return nil, err
	}
	for i, s := range moves {
		m, err := ParsePTN(size, s)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		if err := p.PlayMove(m); err != nil {
			return nil, fmt.Errorf("move %d (%s): %w", i+1, s, err)
		}
	}
	return p, nil
}

// NewPositionFromServerNotation plays a playtak.com game record, leaving off
// the last pliesToUndo moves.
func NewPositionFromServerNotation(size int, notation string, pliesToUndo int) (*Position, error) {
	moves, err := ParseServerNotation(size, notation)
	if err != nil {
		return nil, err
	}
	if pliesToUndo < 0 || pliesToUndo > len(moves) {
		return nil, fmt.Errorf("cannot undo %d plies of a %d ply game", pliesToUndo, len(moves))
	}
	p, err := NewPosition(size)
	if err != nil {
		return nil, err
	}
	for i, m := range moves[:len(moves)-pliesToUndo] {
		if err := p.PlayMove(m); err != nil {
			return nil, fmt.Errorf("ply %d (%s): %w", i+1, m.PTN(size), err)
		}
	}
	return p, nil
}

func (p *Position) Size() int {
	return p.size
}

func (p *Position) SideToMove() Color {
	return p.toMove
}

func (p *Position) Plies() int {
	return p.plies
}

func (p *Position) Hash() uint64 {
	return p.hash
}

// Reserves returns the stones and capstones a player has left to place.
func (p *Position) Reserves(c Color) (stones, caps int) {
	return p.stones[c], p.caps[c]
}

// Stack returns the stack on a square, bottom to top. The caller must not
// modify it.
func (p *Position) Stack(sq Square) []Piece {
	return p.stacks[sq]
}

func (p *Position) top(sq Square) Piece {
	st := p.stacks[sq]
	if len(st) == 0 {
		return NoPiece
	}
	return st[len(st)-1]
}

// Copy returns a deep copy of the position.
func (p *Position) Copy() *Position {
	cp := *p
	cp.stacks = make([][]Piece, len(p.stacks))
	for i, st := range p.stacks {
		if len(st) > 0 {
			cp.stacks[i] = append([]Piece(nil), st...)
		}
	}
	return &cp
}

// PlayMove checks that a move is legal before doing it. It should be used for
// moves coming from outside the engine.
func (p *Position) PlayMove(m Move) error {
	if _, over := p.GameResult(); over {
		return fmt.Errorf("%w: game is already over", ErrIllegalMove)
	}
	for _, legal := range p.GenerateMoves() {
		if legal == m {
			p.DoMove(m)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrIllegalMove, m.PTN(p.size))
}

// DoMove applies a legal move. It panics if the move cannot be applied.
func (p *Position) DoMove(m Move) ReverseMove {
	rm := ReverseMove{move: m, plies: p.plies, hash: p.hash}
	switch m.Type {
	case MoveTypePlace:
		p.place(m)
	case MoveTypeSpread:
		rm.flattened = p.spread(m)
	}
	p.hash ^= p.zobrist.turnKey(p.toMove, p.plies)
	p.plies++
	p.toMove = p.toMove.Opponent()
	p.hash ^= p.zobrist.turnKey(p.toMove, p.plies)
	return rm
}

func (p *Position) place(m Move) {
	if len(p.stacks[m.Square]) != 0 {
		panic(fmt.Errorf("%w: %s is occupied", ErrIllegalMove, m.Square.PTN(p.size)))
	}
	c := p.toMove
	if p.plies < 2 {
		if m.Role != Flat {
			panic(fmt.Errorf("%w: only flats may be placed on the first turn", ErrIllegalMove))
		}
		c = c.Opponent()
	}
	if m.Role == Cap {
		if p.caps[c] == 0 {
			panic(fmt.Errorf("%w: %s has no capstones left", ErrIllegalMove, c))
		}
		p.caps[c]--
	} else {
		if p.stones[c] == 0 {
			panic(fmt.Errorf("%w: %s has no stones left", ErrIllegalMove, c))
		}
		p.stones[c]--
	}
	p.stacks[m.Square] = append(p.stacks[m.Square], NewPiece(m.Role, c))
	p.hash ^= p.zobrist.stackKey(m.Square, p.stacks[m.Square])
}

func (p *Position) spread(m Move) (flattened bool) {
	src := p.stacks[m.Square]
	n := m.Carried()
	if n == 0 || n > len(src) || n > p.size || src[len(src)-1].Color() != p.toMove {
		panic(fmt.Errorf("%w: cannot spread from %s", ErrIllegalMove, m.Square.PTN(p.size)))
	}
	var hand [MaxSize]Piece
	copy(hand[:], src[len(src)-n:])

	p.hash ^= p.zobrist.stackKey(m.Square, src)
	p.stacks[m.Square] = src[:len(src)-n]
	p.hash ^= p.zobrist.stackKey(m.Square, p.stacks[m.Square])

	sq := m.Square
	taken := 0
	for i := 0; i < int(m.NumDrops); i++ {
		var ok bool
		if sq, ok = sq.step(m.Dir, p.size); !ok {
			panic(fmt.Errorf("%w: spread leaves the board", ErrIllegalMove))
		}
		drop := int(m.Drops[i])
		dst := p.stacks[sq]
		p.hash ^= p.zobrist.stackKey(sq, dst)
		if len(dst) > 0 {
			switch dst[len(dst)-1].Role() {
			case Cap:
				panic(fmt.Errorf("%w: cannot spread onto a capstone", ErrIllegalMove))
			case Wall:
				if i != int(m.NumDrops)-1 || drop != 1 || hand[taken].Role() != Cap {
					panic(fmt.Errorf("%w: cannot spread onto a wall", ErrIllegalMove))
				}
				dst[len(dst)-1] = dst[len(dst)-1].flatten()
				flattened = true
			}
		}
		dst = append(dst, hand[taken:taken+drop]...)
		p.stacks[sq] = dst
		p.hash ^= p.zobrist.stackKey(sq, dst)
		taken += drop
	}
	return flattened
}

// UndoMove reverts the most recent DoMove. The token must come from that
// call; anything else is a programming error and panics.
func (p *Position) UndoMove(rm ReverseMove) {
	if rm.plies != p.plies-1 {
		panic(fmt.Sprintf("undo of ply %d at ply %d", rm.plies, p.plies))
	}
	p.plies--
	p.toMove = p.toMove.Opponent()
	m := rm.move
	switch m.Type {
	case MoveTypePlace:
		st := p.stacks[m.Square]
		pc := st[len(st)-1]
		p.stacks[m.Square] = st[:len(st)-1]
		if pc.Role() == Cap {
			p.caps[pc.Color()]++
		} else {
			p.stones[pc.Color()]++
		}
	case MoveTypeSpread:
		var squares [MaxSize]Square
		sq := m.Square
		for i := 0; i < int(m.NumDrops); i++ {
			sq, _ = sq.step(m.Dir, p.size)
			squares[i] = sq
		}
		var hand [MaxSize]Piece
		taken := m.Carried()
		for i := int(m.NumDrops) - 1; i >= 0; i-- {
			drop := int(m.Drops[i])
			dst := p.stacks[squares[i]]
			taken -= drop
			copy(hand[taken:taken+drop], dst[len(dst)-drop:])
			dst = dst[:len(dst)-drop]
			if rm.flattened && i == int(m.NumDrops)-1 {
				dst[len(dst)-1] = NewPiece(Wall, dst[len(dst)-1].Color())
			}
			p.stacks[squares[i]] = dst
		}
		p.stacks[m.Square] = append(p.stacks[m.Square], hand[:m.Carried()]...)
	}
	p.hash = rm.hash
}
