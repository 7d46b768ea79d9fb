// Package tinue finds forced wins ("tinue") in Tak positions. It provides a
// bounded alpha-beta search over game-theoretic values, a detector for unique
// winning moves, and an enumerator of complete forced-win trees.
package tinue

import (
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/tinue/tak"
)

// DefaultTTableFraction is the default share of system memory given to one
// solver's transposition table.
const DefaultTTableFraction = 0.05

// Solver searches a single position. The position is mutated during a search
// and restored before every method returns; a Solver must not be shared
// between goroutines.
type Solver struct {
	pos *tak.Position

	// moveOrderingOptim sorts moves by a cheap heuristic so that likely
	// wins are searched first. Results never depend on it.
	moveOrderingOptim bool
	// skipWallsOptim drops our own wall placements for the last two plies
	// of an enumerated tinue. A flat on the same square is almost always at
	// least as good, but this can miss a win that needs to fill the board.
	skipWallsOptim          bool
	transpositionTableOptim bool
	ttableFraction          float64

	ttable      *TranspositionTable
	ttableStale bool
	nodes  atomic.Uint64
}

// NewSolver returns a solver for pos. The solver owns pos for the duration of
// every search.
func NewSolver(pos *tak.Position) *Solver {
	return &Solver{
		pos:               pos,
		moveOrderingOptim: true,
		ttableFraction:    DefaultTTableFraction,
	}
}

func (s *Solver) Position() *tak.Position {
	return s.pos
}

func (s *Solver) SetMoveOrdering(b bool) {
	s.moveOrderingOptim = b
}

func (s *Solver) SetSkipWallsOptim(b bool) {
	s.skipWallsOptim = b
}

// SetTranspositionTableOptim turns the transposition table on or off. The
// table is allocated lazily on the first search.
func (s *Solver) SetTranspositionTableOptim(b bool) {
	s.transpositionTableOptim = b
}

func (s *Solver) SetTranspositionTableFraction(f float64) {
	s.ttableFraction = f
}

// Nodes returns the number of positions visited so far.
func (s *Solver) Nodes() uint64 {
	return s.nodes.Load()
}

func (s *Solver) TranspositionTable() *TranspositionTable {
	return s.ttable
}

// SetTranspositionTable makes the solver use tt, which may have been used by
// another solver before. It turns the table on and clears it before the first
// search. tt must not be used by two solvers at once.
func (s *Solver) SetTranspositionTable(tt *TranspositionTable) {
	s.ttable = tt
	s.ttableStale = true
	s.transpositionTableOptim = true
}

func (s *Solver) ensureTable() {
	if !s.transpositionTableOptim {
		return
	}
	if s.ttable == nil {
		s.ttable = &TranspositionTable{}
		s.ttableStale = true
	}
	if s.ttableStale {
		s.ttable.Reset(s.ttableFraction)
		s.ttableStale = false
	}
}

// orderedMoves returns the moves for the side to move, best first if move
// ordering is on.
func (s *Solver) orderedMoves() []tak.Move {
	if s.moveOrderingOptim {
		return s.pos.SortedMoves()
	}
	return s.pos.GenerateMoves()
}

// enumerationMoves applies the wall filter on top of orderedMoves.
func (s *Solver) enumerationMoves(depth int, myTurn bool) []tak.Move {
	moves := s.orderedMoves()
	if s.skipWallsOptim && myTurn && depth <= 2 {
		moves = lo.Filter(moves, func(m tak.Move, _ int) bool {
			return m.Type != tak.MoveTypePlace || m.Role != tak.Wall
		})
	}
	return moves
}

// terminalValue evaluates a finished or horizon position for the side to
// move.
func (s *Solver) terminalValue(result tak.GameResult, over bool) NodeValue {
	if !over {
		return Unknown
	}
	winner, decisive := result.Winner()
	switch {
	case !decisive:
		return Unknown
	case winner == s.pos.SideToMove():
		return WinInPly(0)
	}
	return LossInPly(0)
}

func (s *Solver) logProgress(depth int, msg string) {
	log.Debug().Int("depth", depth).
		Uint64("nodes", s.nodes.Load()).
		Int("ply", s.pos.Plies()).
		Msg(msg)
}
