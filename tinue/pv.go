package tinue

import (
	"errors"
	"fmt"
	"strings"

	"github.com/domino14/tinue/tak"
)

var ErrPVTooLong = errors.New("principal variation did not end within the searched depth")

// PVLine is a line of best play.
type PVLine struct {
	Moves []string
	value NodeValue
}

func (pvLine PVLine) Value() NodeValue {
	return pvLine.value
}

// Convert the principal variation line to a string.
func (pvLine PVLine) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PV; val %s\n", pvLine.value)
	for i, m := range pvLine.Moves {
		fmt.Fprintf(&sb, "%d: %s\n", i+1, m)
	}
	return sb.String()
}

func (pvLine PVLine) NLBString() string {
	// no line breaks
	var sb strings.Builder
	fmt.Fprintf(&sb, "PV; val %s; ", pvLine.value)
	for i, m := range pvLine.Moves {
		fmt.Fprintf(&sb, "%d: %s; ", i+1, m)
	}
	return sb.String()
}

// BestMove searches every move to depth plies with a full window and returns
// the first one with the highest value.
func (s *Solver) BestMove(depth int) (tak.Move, NodeValue) {
	s.ensureTable()
	var best tak.Move
	bestValue := MinValue
	for i, m := range s.orderedMoves() {
		rm := s.pos.DoMove(m)
		v := s.alphaBeta(depth-1, MinValue, MaxValue).PropagateUp()
		s.pos.UndoMove(rm)
		if i == 0 || v > bestValue {
			best, bestValue = m, v
		}
	}
	return best, bestValue
}

// PrincipalVariation plays best moves for both sides on a copy of the
// position until the game ends, starting with depth plies and one fewer each
// move. For a position with a forced win certified at depth d, the line is
// exactly d moves long. The solver's own position is not touched.
func (s *Solver) PrincipalVariation(depth int) (PVLine, error) {
	sub := &Solver{
		pos:                     s.pos.Copy(),
		moveOrderingOptim:       s.moveOrderingOptim,
		transpositionTableOptim: s.transpositionTableOptim,
		ttableFraction:          s.ttableFraction,
		ttable:                  s.ttable,
		ttableStale:             s.ttableStale,
	}
	sub.ensureTable()
	defer s.nodes.Add(sub.nodes.Load())

	var moves []string
	rootValue := Unknown
	for ply := 0; ; ply++ {
		if _, over := sub.pos.GameResult(); over {
			break
		}
		if depth <= 0 {
			return PVLine{Moves: moves, value: rootValue}, fmt.Errorf("%w: %s", ErrPVTooLong, strings.Join(moves, " "))
		}
		m, v := sub.BestMove(depth)
		if ply == 0 {
			rootValue = v
		}
		moves = append(moves, m.PTN(sub.pos.Size()))
		sub.pos.DoMove(m)
		depth--
	}
	return PVLine{Moves: moves, value: rootValue}, nil
}
