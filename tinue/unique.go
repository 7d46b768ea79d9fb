package tinue

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tinue/tak"
)

type UniqueResult int

const (
	// NotFound: no move wins by force within the depth.
	NotFound UniqueResult = iota
	// Found: exactly one move wins by force.
	Found
	// AmbiguousMultiple: more than one move wins by force.
	AmbiguousMultiple
)

func (u UniqueResult) String() string {
	switch u {
	case Found:
		return "found"
	case AmbiguousMultiple:
		return "multiple"
	}
	return "not-found"
}

// FindUniqueTinueForDepth checks every move of the side to move for a forced
// win within depth plies. The move is nil unless the result is Found. It
// stops as soon as a second winning move shows up.
func (s *Solver) FindUniqueTinueForDepth(depth int) (UniqueResult, *tak.Move) {
	s.ensureTable()
	var winner *tak.Move
	for _, m := range s.orderedMoves() {
		if s.certifiesWin(m, depth) {
			if winner != nil {
				return AmbiguousMultiple, nil
			}
			winner = &m
		}
	}
	if winner == nil {
		return NotFound, nil
	}
	return Found, winner
}

// certifiesWin returns true if, after m, the opponent loses within depth-1
// plies whatever they do.
func (s *Solver) certifiesWin(m tak.Move, depth int) bool {
	rm := s.pos.DoMove(m)
	defer s.pos.UndoMove(rm)
	// The window only separates "the opponent is lost within depth-1 plies"
	// from everything else.
	v := s.alphaBeta(depth-1, WinInPly(0).PropagateDown(), WinInPly(depth+1).PropagateDown())
	return v.IsLoss()
}

// FindUniqueTinue searches odd depths 1, 3, 5, ... up to maxDepth for a unique
// winning move. It returns nil if no move wins, or if more than one move wins
// at the shallowest depth that has a win. A win for the side to move always
// takes an odd number of plies, so even depths add nothing.
func (s *Solver) FindUniqueTinue(ctx context.Context, maxDepth int) (*Result[tak.Move], error) {
	return deepen(ctx, 1, 2, maxDepth, func(depth int) (tak.Move, deepenStatus) {
		res, m := s.FindUniqueTinueForDepth(depth)
		s.logProgress(depth, "unique-tinue-depth-searched")
		switch res {
		case Found:
			log.Debug().Int("depth", depth).Str("move", m.PTN(s.pos.Size())).Msg("found-unique-tinue")
			return *m, deepenFound
		case AmbiguousMultiple:
			return tak.Move{}, deepenAbort
		}
		return tak.Move{}, keepDeepening
	})
}
