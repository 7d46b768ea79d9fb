package tak

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseServerMove parses a move in playtak.com server notation, e.g.
// "P A1", "P C3 W", "P D4 C" or "M A1 A3 1 2".
func ParseServerMove(size int, s string) (Move, error) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return Move{}, fmt.Errorf("%w: server move %q", ErrBadNotation, s)
	}
	switch fields[0] {
	case "P":
		sq, err := parseSquare(fields[1], size)
		if err != nil {
			return Move{}, err
		}
		role := Flat
		if len(fields) > 2 {
			switch fields[2] {
			case "W":
				role = Wall
			case "C":
				role = Cap
			default:
				return Move{}, fmt.Errorf("%w: bad piece type in %q", ErrBadNotation, s)
			}
		}
		return NewPlacement(sq, role), nil
	case "M":
		if len(fields) < 4 {
			return Move{}, fmt.Errorf("%w: server move %q", ErrBadNotation, s)
		}
		start, err := parseSquare(fields[1], size)
		if err != nil {
			return Move{}, err
		}
		end, err := parseSquare(fields[2], size)
		if err != nil {
			return Move{}, err
		}
		dir, dist, err := directionBetween(start, end, size)
		if err != nil {
			return Move{}, fmt.Errorf("server move %q: %w", s, err)
		}
		drops := make([]uint8, 0, len(fields)-3)
		total := 0
		for _, f := range fields[3:] {
			n, err := strconv.Atoi(f)
			if err != nil || n < 1 || n > size {
				return Move{}, fmt.Errorf("%w: bad drop count in %q", ErrBadNotation, s)
			}
			drops = append(drops, uint8(n))
			total += n
		}
		if len(drops) != dist {
			return Move{}, fmt.Errorf("%w: %d drops over a distance of %d in %q",
				ErrBadNotation, len(drops), dist, s)
		}
		if total > size {
			return Move{}, fmt.Errorf("%w: cannot carry %d stones on size %d", ErrBadNotation, total, size)
		}
		return NewSpread(start, dir, drops), nil
	}
	return Move{}, fmt.Errorf("%w: server move %q", ErrBadNotation, s)
}

func directionBetween(start, end Square, size int) (Direction, int, error) {
	dc := end.Col(size) - start.Col(size)
	dr := end.Row(size) - start.Row(size)
	switch {
	case dc == 0 && dr > 0:
		return North, dr, nil
	case dc == 0 && dr < 0:
		return South, -dr, nil
	case dr == 0 && dc > 0:
		return East, dc, nil
	case dr == 0 && dc < 0:
		return West, -dc, nil
	}
	return 0, 0, fmt.Errorf("%w: squares are not in a straight line", ErrBadNotation)
}

// ParseServerNotation parses a comma-separated list of server moves, as
// stored in the playtak games database.
func ParseServerNotation(size int, notation string) ([]Move, error) {
	var moves []Move
	for _, tok := range strings.Split(notation, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		m, err := ParseServerMove(size, tok)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// ServerNotation formats the move for playtak.com, the inverse of
// ParseServerMove.
func (m Move) ServerNotation(size int) string {
	sq := strings.ToUpper(m.Square.PTN(size))
	if m.Type == MoveTypePlace {
		switch m.Role {
		case Wall:
			return "P " + sq + " W"
		case Cap:
			return "P " + sq + " C"
		}
		return "P " + sq
	}
	end := m.Square
	for i := 0; i < int(m.NumDrops); i++ {
		end, _ = end.step(m.Dir, size)
	}
	var sb strings.Builder
	sb.WriteString("M " + sq + " " + strings.ToUpper(end.PTN(size)))
	for i := 0; i < int(m.NumDrops); i++ {
		sb.WriteString(" " + strconv.Itoa(int(m.Drops[i])))
	}
	return sb.String()
}
