package tinue

// AlphaBeta returns the value of the position for the side to move, searched
// to depth plies, within the window [alpha, beta]. It fails soft: a value
// outside the window is a bound on the true value. The position is unchanged
// when it returns.
func (s *Solver) AlphaBeta(depth int, alpha, beta NodeValue) NodeValue {
	s.ensureTable()
	return s.alphaBeta(depth, alpha, beta)
}

func (s *Solver) alphaBeta(depth int, α, β NodeValue) NodeValue {
	s.nodes.Add(1)
	result, over := s.pos.GameResult()
	if depth == 0 || over {
		return s.terminalValue(result, over)
	}

	αOrig := α
	var key uint64
	if s.transpositionTableOptim {
		key = s.pos.Hash()
		if entry, ok := s.ttable.lookup(key); ok && int(entry.depth) == depth {
			switch entry.flag {
			case TTExact:
				return entry.value
			case TTLower:
				if entry.value >= β {
					return entry.value
				}
			case TTUpper:
				if entry.value <= α {
					return entry.value
				}
			}
		}
	}

	value := MinValue
	for _, m := range s.orderedMoves() {
		rm := s.pos.DoMove(m)
		child := s.alphaBeta(depth-1, β.PropagateDown(), α.PropagateDown())
		s.pos.UndoMove(rm)

		value = max(value, child.PropagateUp())
		α = max(α, value)
		if α >= β {
			break
		}
	}

	if s.transpositionTableOptim {
		entry := TableEntry{value: value, depth: uint8(depth)}
		switch {
		case value <= αOrig:
			entry.flag = TTUpper
		case value >= β:
			entry.flag = TTLower
		default:
			entry.flag = TTExact
		}
		s.ttable.store(key, entry)
	}
	return value
}
