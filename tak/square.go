package tak

import "fmt"

// Square is a board index: row*size + col. Row 0 is rank 1, col 0 is file a.
type Square uint8

func NewSquare(col, row, size int) Square {
	return Square(row*size + col)
}

func (s Square) Col(size int) int {
	return int(s) % size
}

func (s Square) Row(size int) int {
	return int(s) / size
}

// PTN returns the square name, e.g. "c3".
func (s Square) PTN(size int) string {
	return fmt.Sprintf("%c%d", 'a'+s.Col(size), s.Row(size)+1)
}

// parseSquare accepts "c3" or "C3".
func parseSquare(s string, size int) (Square, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("%w: bad square %q", ErrBadNotation, s)
	}
	file := s[0]
	if file >= 'A' && file <= 'Z' {
		file += 'a' - 'A'
	}
	col := int(file) - 'a'
	row := int(s[1]) - '1'
	if col < 0 || col >= size || row < 0 || row >= size {
		return 0, fmt.Errorf("%w: square %q off a %dx%d board", ErrBadNotation, s, size, size)
	}
	return NewSquare(col, row, size), nil
}

// Direction of a spread.
type Direction uint8

const (
	North Direction = iota // towards higher ranks, "+"
	South                  // "-"
	West                   // "<"
	East                   // ">"
)

var allDirections = [4]Direction{North, South, West, East}

func (d Direction) symbol() byte {
	return "+-<>"[d]
}

func directionFromSymbol(b byte) (Direction, bool) {
	switch b {
	case '+':
		return North, true
	case '-':
		return South, true
	case '<':
		return West, true
	case '>':
		return East, true
	}
	return 0, false
}

// step returns the neighboring square in direction d, if on the board.
func (s Square) step(d Direction, size int) (Square, bool) {
	col, row := s.Col(size), s.Row(size)
	switch d {
	case North:
		row++
	case South:
		row--
	case West:
		col--
	case East:
		col++
	}
	if col < 0 || col >= size || row < 0 || row >= size {
		return 0, false
	}
	return NewSquare(col, row, size), true
}
