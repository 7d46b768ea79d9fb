package tak

import (
	"errors"
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

var midgame5s = []string{
	"a1", "a5", "b5", "Cc3", "c5", "d5", "Cd4", "c4", "e5", "1c4+1", "1d4+1",
	"c4", "1d5<1", "1d5>1", "d5", "e4", "2c5>11", "1d5<1", "2e5<11", "2d5>2",
}

func TestUnsupportedSize(t *testing.T) {
	is := is.New(t)
	_, err := NewPosition(2)
	is.True(errors.Is(err, ErrUnsupportedSize))
	_, err = NewPosition(9)
	is.True(errors.Is(err, ErrUnsupportedSize))
	p, err := NewPosition(6)
	is.NoErr(err)
	stones, caps := p.Reserves(Black)
	is.Equal(stones, 30)
	is.Equal(caps, 1)
}

func TestOpeningMoves(t *testing.T) {
	is := is.New(t)
	p, err := NewPosition(3)
	is.NoErr(err)
	moves := p.GenerateMoves()
	is.Equal(len(moves), 9)
	for _, m := range moves {
		is.Equal(m.Type, MoveTypePlace)
		is.Equal(m.Role, Flat)
	}

	p, err = NewPositionFromPTN(3, "a1", "c3")
	is.NoErr(err)
	// The first two stones belong to the opponent of whoever placed them.
	is.Equal(p.Stack(NewSquare(0, 0, 3)), []Piece{BlackFlat})
	is.Equal(p.Stack(NewSquare(2, 2, 3)), []Piece{WhiteFlat})
	// 7 empty squares with a flat or a wall each (no capstones on 3x3), plus
	// c3- and c3<.
	moves = p.GenerateMoves()
	is.Equal(len(moves), 16)
	ptns := MovesToPTN(3, moves)
	is.True(contains(ptns, "c3-"))
	is.True(contains(ptns, "c3<"))
	is.True(!contains(ptns, "a1+"))
}

func TestNoWallsOnFirstTurn(t *testing.T) {
	is := is.New(t)
	_, err := NewPositionFromPTN(5, "Sa1")
	is.True(errors.Is(err, ErrIllegalMove))
}

func TestRoadWin(t *testing.T) {
	is := is.New(t)
	p, err := NewPositionFromPTN(3, "c3", "a1", "a2", "c2")
	is.NoErr(err)
	_, over := p.GameResult()
	is.True(!over)

	m, err := ParsePTN(3, "a3")
	is.NoErr(err)
	rm := p.DoMove(m)
	res, over := p.GameResult()
	is.True(over)
	is.Equal(res, WhiteWin)
	is.True(res.WonBy(White))
	p.UndoMove(rm)
	_, over = p.GameResult()
	is.True(!over)
}

func TestFlatWinOnFullBoard(t *testing.T) {
	is := is.New(t)
	p, err := NewPositionFromPTN(3, "b1", "a1", "c1", "a2", "b2", "c2", "a3", "b3")
	is.NoErr(err)
	_, over := p.GameResult()
	is.True(!over)
	is.NoErr(p.playPTN("c3"))
	res, over := p.GameResult()
	is.True(over)
	is.Equal(res, WhiteWin)
	white, black := p.FlatCount()
	is.Equal(white, 5)
	is.Equal(black, 4)
}

func TestCapstoneFlattensWall(t *testing.T) {
	is := is.New(t)
	p, err := NewPositionFromPTN(5, "a1", "e5", "Cc3", "Sd3")
	is.NoErr(err)
	d3 := NewSquare(3, 2, 5)

	m, err := ParsePTN(5, "c3>")
	is.NoErr(err)
	is.True(contains(MovesToPTN(5, p.GenerateMoves()), "c3>"))
	rm := p.DoMove(m)
	is.Equal(p.Stack(d3), []Piece{BlackFlat, WhiteCap})
	p.UndoMove(rm)
	is.Equal(p.Stack(d3), []Piece{BlackWall})

	// A flat cannot move onto a wall.
	p, err = NewPositionFromPTN(5, "a1", "e5", "c3", "Sd3")
	is.NoErr(err)
	err = p.playPTN("c3>")
	is.True(errors.Is(err, ErrIllegalMove))
}

func TestDoUndoRestoresPosition(t *testing.T) {
	is := is.New(t)
	p, err := NewPosition(5)
	is.NoErr(err)
	for _, s := range midgame5s {
		before := p.ToDisplayText()
		hash := p.Hash()
		is.Equal(hash, p.zobrist.Hash(p))

		for _, m := range p.GenerateMoves() {
			rm := p.DoMove(m)
			is.Equal(p.Hash(), p.zobrist.Hash(p)) // incremental hash
			p.UndoMove(rm)
			is.Equal(p.Hash(), hash)
			is.Equal(p.ToDisplayText(), before)
		}
		is.NoErr(p.playPTN(s))
	}
}

func TestCopyIsIndependent(t *testing.T) {
	is := is.New(t)
	p, err := NewPositionFromPTN(5, midgame5s...)
	is.NoErr(err)
	cp := p.Copy()
	is.NoErr(cp.playPTN(cp.GenerateMoves()[0].PTN(5)))
	is.Equal(p.Plies(), len(midgame5s))
	is.Equal(cp.Plies(), len(midgame5s)+1)
	is.True(p.ToDisplayText() != cp.ToDisplayText())
}

func TestSortedMovesArePermutation(t *testing.T) {
	is := is.New(t)
	p, err := NewPositionFromPTN(5, midgame5s...)
	is.NoErr(err)
	moves := p.GenerateMoves()
	sorted := p.GenerateSortedMoves()
	is.Equal(len(sorted), len(moves))
	seen := map[Move]bool{}
	for _, m := range moves {
		seen[m] = true
	}
	for i, sm := range sorted {
		is.True(seen[sm.Move])
		if i > 0 {
			is.True(sorted[i-1].Score >= sm.Score)
		}
	}
}

func (p *Position) playPTN(s string) error {
	m, err := ParsePTN(p.size, s)
	if err != nil {
		return err
	}
	return p.PlayMove(m)
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
