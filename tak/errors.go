package tak

import "errors"

var (
	ErrBadNotation     = errors.New("bad move notation")
	ErrIllegalMove     = errors.New("illegal move")
	ErrUnsupportedSize = errors.New("unsupported board size")
)
