package tinuetree

// MoveListNode is a node of a singly linked list of moves.
type MoveListNode struct {
	Move string
	Next *MoveListNode
}

// ToSlice flattens the list starting at n.
func (n *MoveListNode) ToSlice() []string {
	var moves []string
	for cur := n; cur != nil; cur = cur.Next {
		moves = append(moves, cur.Move)
	}
	return moves
}

// LongestSequence follows the deepest continuation at every step and returns
// the line's length and the line itself. When several continuations are
// equally deep, the first one is followed.
func LongestSequence(t *TinueMove) (int, *MoveListNode) {
	bestLen := 0
	var best *MoveListNode
	for _, n := range t.Next {
		l, line := LongestSequence(n)
		if l > bestLen {
			bestLen, best = l, line
		}
	}
	return bestLen + 1, &MoveListNode{Move: t.Move, Next: best}
}

// LongestLine is LongestSequence flattened to a slice.
func LongestLine(t *TinueMove) []string {
	_, line := LongestSequence(t)
	return line.ToSlice()
}
