package tinue

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tinue/tak"
	"github.com/domino14/tinue/tinuetree"
)

type branch int

const (
	// branchSkip: the move neither wins nor refutes anything.
	branchSkip branch = iota
	// branchTinue: the move keeps me on a forced win.
	branchTinue
	// branchEscape: an opponent reply that escapes the forced win.
	branchEscape
)

// WinInN enumerates the forced wins for me within depth plies. On my turn it
// returns every move that wins by force (or just the first one if
// stopAtFirst); on the opponent's turn it returns every reply, each with my
// winning continuations, or nothing at all if any reply escapes. Replies
// that hand me the game are left out. The result is in move-ordering order.
func (s *Solver) WinInN(depth int, me tak.Color, stopAtFirst bool) []*tinuetree.TinueMove {
	s.nodes.Add(1)
	myTurn := s.pos.SideToMove() == me
	var found []*tinuetree.TinueMove
	for _, m := range s.enumerationMoves(depth, myTurn) {
		node, b := s.tryBranch(m, depth, me, myTurn, stopAtFirst)
		switch b {
		case branchEscape:
			return nil
		case branchTinue:
			if myTurn && stopAtFirst {
				return []*tinuetree.TinueMove{node}
			}
			found = append(found, node)
		}
	}
	return found
}

func (s *Solver) tryBranch(m tak.Move, depth int, me tak.Color, myTurn, stopAtFirst bool) (*tinuetree.TinueMove, branch) {
	text := m.PTN(s.pos.Size())
	rm := s.pos.DoMove(m)
	defer s.pos.UndoMove(rm)

	if result, over := s.pos.GameResult(); over {
		won := result.WonBy(me)
		switch {
		case myTurn && won:
			return &tinuetree.TinueMove{Move: text}, branchTinue
		case myTurn:
			return nil, branchSkip
		case won:
			// The opponent gave the game away. That never shows a tinue.
			return nil, branchSkip
		}
		return nil, branchEscape
	}

	if depth <= 1 {
		if myTurn {
			return nil, branchSkip
		}
		// The game goes on past the horizon.
		return nil, branchEscape
	}

	next := s.deepenWinInN(depth-1, me, stopAtFirst)
	if len(next) == 0 {
		if myTurn {
			return nil, branchSkip
		}
		return nil, branchEscape
	}
	return &tinuetree.TinueMove{Move: text, Next: next}, branchTinue
}

// deepenWinInN finds the shallowest forced win of at most maxDepth plies, so
// that lines where both sides waste moves are never enumerated.
func (s *Solver) deepenWinInN(maxDepth int, me tak.Color, stopAtFirst bool) []*tinuetree.TinueMove {
	for depth := 1; depth <= maxDepth; depth++ {
		if found := s.WinInN(depth, me, stopAtFirst); len(found) > 0 {
			return found
		}
	}
	return nil
}

// TinueSearch looks for forced wins for me at odd depths 1, 3, 5, ... up to
// maxDepth and returns the forest found at the shallowest depth, or nil if
// there is none. With stopAtFirst only one winning move is kept at each of my
// turns.
func (s *Solver) TinueSearch(ctx context.Context, maxDepth int, me tak.Color, stopAtFirst bool) (*Result[[]*tinuetree.TinueMove], error) {
	res, err := deepen(ctx, 1, 2, maxDepth, func(depth int) ([]*tinuetree.TinueMove, deepenStatus) {
		found := s.WinInN(depth, me, stopAtFirst)
		s.logProgress(depth, "tinue-depth-searched")
		if len(found) > 0 {
			return found, deepenFound
		}
		return nil, keepDeepening
	})
	if err != nil {
		return nil, err
	}
	if res != nil {
		log.Debug().Int("depth", res.Depth).Int("root-moves", len(res.Result)).Msg("found-tinue")
	}
	return res, nil
}
