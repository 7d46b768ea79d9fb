// Package tinuetree turns enumerated forced-win trees into presentable forms:
// grouped move options, the longest representative line, and JSON or YAML.
package tinuetree

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// TinueMove is a move on a forced-win path with every continuation that
// keeps the line winning. A move without continuations ends the game.
type TinueMove struct {
	Move string       `json:"move" yaml:"move"`
	Next []*TinueMove `json:"next,omitempty" yaml:"next,omitempty"`
}

// IsTerminal returns true if the move wins the game on the spot.
func (t *TinueMove) IsTerminal() bool {
	return len(t.Next) == 0
}

// Depth returns the number of plies of the longest line through t.
func (t *TinueMove) Depth() int {
	d := 0
	for _, n := range t.Next {
		d = max(d, n.Depth())
	}
	return d + 1
}

// TinueMoveOptions groups sibling moves that share the same continuations.
type TinueMoveOptions struct {
	Moves     []string           `json:"moves" yaml:"moves"`
	Solutions []TinueMoveOptions `json:"solutions,omitempty" yaml:"solutions,omitempty"`
}

// ToOptions converts a forest into grouped options. Consecutive siblings are
// merged into one group when their grouped continuations are equal; groups
// keep the order in which they first appear.
func ToOptions(moves []*TinueMove) []TinueMoveOptions {
	var options []TinueMoveOptions
	var keys []string
	for _, m := range moves {
		solutions := ToOptions(m.Next)
		key := canonicalKey(solutions)
		if n := len(options); n > 0 && keys[n-1] == key {
			options[n-1].Moves = append(options[n-1].Moves, m.Move)
			continue
		}
		options = append(options, TinueMoveOptions{
			Moves:     []string{m.Move},
			Solutions: solutions,
		})
		keys = append(keys, key)
	}
	return options
}

// EqualOptions compares two option lists without regard to the order of the
// groups, or of the moves within a group.
func EqualOptions(a, b []TinueMoveOptions) bool {
	return canonicalKey(a) == canonicalKey(b)
}

// canonicalKey serializes an option list into a string that does not depend
// on group or move order.
func canonicalKey(opts []TinueMoveOptions) string {
	if len(opts) == 0 {
		return ""
	}
	parts := lo.Map(opts, func(o TinueMoveOptions, _ int) string {
		moves := slices.Clone(o.Moves)
		slices.Sort(moves)
		return strings.Join(moves, ",") + "(" + canonicalKey(o.Solutions) + ")"
	})
	slices.Sort(parts)
	return strings.Join(parts, ";")
}
