package tak

// Color is a player color. White always moves first.
type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opponent() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Role is the kind of stone.
type Role uint8

const (
	Flat Role = iota
	Wall
	Cap
)

func (r Role) String() string {
	switch r {
	case Wall:
		return "wall"
	case Cap:
		return "cap"
	}
	return "flat"
}

// Piece is a colored stone. The zero value means "no piece".
type Piece uint8

const (
	NoPiece Piece = iota
	WhiteFlat
	BlackFlat
	WhiteWall
	BlackWall
	WhiteCap
	BlackCap
)

// NewPiece returns the piece with the given role and color.
func NewPiece(r Role, c Color) Piece {
	return Piece(uint8(r)*2+uint8(c)) + 1
}

func (p Piece) Color() Color {
	return Color((p - 1) & 1)
}

func (p Piece) Role() Role {
	return Role((p - 1) >> 1)
}

// IsRoad returns true if the piece counts towards a road.
func (p Piece) IsRoad() bool {
	return p != NoPiece && p.Role() != Wall
}

func (p Piece) flatten() Piece {
	return NewPiece(Flat, p.Color())
}

func (p Piece) letter() byte {
	return "-wbWBCD"[p]
}
