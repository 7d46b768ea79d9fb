package tak

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxSize is the largest supported board.
const MaxSize = 8

type MoveType uint8

const (
	MoveTypePlace MoveType = iota
	MoveTypeSpread
)

// Move is either a placement or a spread. It is comparable with ==.
type Move struct {
	Type   MoveType
	Square Square
	// Role is the placed stone's role. Unused for spreads.
	Role Role
	// Dir, Drops and NumDrops describe a spread. Drops[i] is the number of
	// stones left on the (i+1)th square away from Square.
	Dir      Direction
	NumDrops uint8
	Drops    [MaxSize]uint8
}

func NewPlacement(sq Square, r Role) Move {
	return Move{Type: MoveTypePlace, Square: sq, Role: r}
}

func NewSpread(sq Square, d Direction, drops []uint8) Move {
	m := Move{Type: MoveTypeSpread, Square: sq, Dir: d, NumDrops: uint8(len(drops))}
	copy(m.Drops[:], drops)
	return m
}

// Carried returns the number of stones picked up by a spread.
func (m Move) Carried() int {
	n := 0
	for i := 0; i < int(m.NumDrops); i++ {
		n += int(m.Drops[i])
	}
	return n
}

// PTN formats the move in Portable Tak Notation. The carry count is omitted
// when it is 1, and the drop counts are omitted when everything is dropped
// on the first square.
func (m Move) PTN(size int) string {
	var sb strings.Builder
	if m.Type == MoveTypePlace {
		switch m.Role {
		case Wall:
			sb.WriteByte('S')
		case Cap:
			sb.WriteByte('C')
		}
		sb.WriteString(m.Square.PTN(size))
		return sb.String()
	}
	carried := m.Carried()
	if carried != 1 {
		sb.WriteString(strconv.Itoa(carried))
	}
	sb.WriteString(m.Square.PTN(size))
	sb.WriteByte(m.Dir.symbol())
	if m.NumDrops > 1 {
		for i := 0; i < int(m.NumDrops); i++ {
			sb.WriteByte('0' + m.Drops[i])
		}
	}
	return sb.String()
}

// ParsePTN parses a single PTN move for a board of the given size. Trailing
// annotations (', ", !, ?, *) are ignored. Only syntax and board bounds are
// checked; legality in a position is checked by Position.PlayMove.
func ParsePTN(size int, s string) (Move, error) {
	orig := s
	s = strings.TrimRight(strings.TrimSpace(s), `'"!?*`)
	if s == "" {
		return Move{}, fmt.Errorf("%w: empty move", ErrBadNotation)
	}
	switch s[0] {
	case 'F', 'S', 'C':
		role := map[byte]Role{'F': Flat, 'S': Wall, 'C': Cap}[s[0]]
		sq, err := parseSquare(s[1:], size)
		if err != nil {
			return Move{}, fmt.Errorf("parsing %q: %w", orig, err)
		}
		return NewPlacement(sq, role), nil
	}

	carried := 1
	explicitCount := false
	if s[0] >= '0' && s[0] <= '9' {
		carried = int(s[0] - '0')
		explicitCount = true
		s = s[1:]
	}
	if len(s) < 2 {
		return Move{}, fmt.Errorf("%w: %q", ErrBadNotation, orig)
	}
	sq, err := parseSquare(s[:2], size)
	if err != nil {
		return Move{}, fmt.Errorf("parsing %q: %w", orig, err)
	}
	s = s[2:]
	if s == "" {
		if explicitCount {
			return Move{}, fmt.Errorf("%w: count without direction in %q", ErrBadNotation, orig)
		}
		return NewPlacement(sq, Flat), nil
	}
	dir, ok := directionFromSymbol(s[0])
	if !ok {
		return Move{}, fmt.Errorf("%w: bad direction in %q", ErrBadNotation, orig)
	}
	if carried < 1 || carried > size {
		return Move{}, fmt.Errorf("%w: cannot carry %d stones on size %d", ErrBadNotation, carried, size)
	}
	s = s[1:]
	var drops []uint8
	if s == "" {
		drops = []uint8{uint8(carried)}
	} else {
		total := 0
		for i := 0; i < len(s); i++ {
			if s[i] < '1' || s[i] > '9' {
				return Move{}, fmt.Errorf("%w: bad drop count in %q", ErrBadNotation, orig)
			}
			drops = append(drops, s[i]-'0')
			total += int(s[i] - '0')
		}
		if total != carried {
			return Move{}, fmt.Errorf("%w: drops in %q do not add up to %d", ErrBadNotation, orig, carried)
		}
	}
	if len(drops) >= size {
		return Move{}, fmt.Errorf("%w: spread %q leaves the board", ErrBadNotation, orig)
	}
	// Make sure the spread stays on the board.
	cur := sq
	for range drops {
		if cur, ok = cur.step(dir, size); !ok {
			return Move{}, fmt.Errorf("%w: spread %q leaves the board", ErrBadNotation, orig)
		}
	}
	return NewSpread(sq, dir, drops), nil
}

// MovesToPTN formats a sequence of moves.
func MovesToPTN(size int, moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.PTN(size)
	}
	return out
}
