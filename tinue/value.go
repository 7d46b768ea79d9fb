package tinue

import "fmt"

// mateScore bounds the number of plies a value can describe.
const mateScore = 1 << 20

// NodeValue is the game-theoretic value of a position from the point of view
// of the side to move: a win in n plies, a loss in n plies, or unknown within
// the searched horizon. Values are encoded so that the natural integer order
// is the preference order: a faster win beats a slower one, any win beats
// Unknown, Unknown beats any loss, and a slower loss beats a faster one.
type NodeValue int32

const (
	Unknown NodeValue = 0
	// MaxValue is an immediate win.
	MaxValue NodeValue = mateScore
	// MinValue is an immediate loss.
	MinValue NodeValue = -mateScore
)

func WinInPly(n int) NodeValue {
	if n < 0 || n >= mateScore {
		panic(fmt.Sprintf("ply count %d out of range", n))
	}
	return NodeValue(mateScore - n)
}

func LossInPly(n int) NodeValue {
	if n < 0 || n >= mateScore {
		panic(fmt.Sprintf("ply count %d out of range", n))
	}
	return NodeValue(-mateScore + n)
}

func (v NodeValue) IsWin() bool {
	return v > 0
}

func (v NodeValue) IsLoss() bool {
	return v < 0
}

func (v NodeValue) IsUnknown() bool {
	return v == Unknown
}

// Plies returns n for WinInPly(n) and LossInPly(n), and 0 for Unknown.
func (v NodeValue) Plies() int {
	switch {
	case v > 0:
		return mateScore - int(v)
	case v < 0:
		return int(v) + mateScore
	}
	return 0
}

// PropagateUp converts the value of a child position into the value of its
// parent, where the other player is to move.
func (v NodeValue) PropagateUp() NodeValue {
	switch {
	case v.IsWin():
		return LossInPly(v.Plies() + 1)
	case v.IsLoss():
		return WinInPly(v.Plies() + 1)
	}
	return Unknown
}

// PropagateDown converts a bound at a parent into the matching bound for a
// child position. A zero ply count stays at zero.
func (v NodeValue) PropagateDown() NodeValue {
	switch {
	case v.IsWin():
		return LossInPly(max(v.Plies()-1, 0))
	case v.IsLoss():
		return WinInPly(max(v.Plies()-1, 0))
	}
	return Unknown
}

func (v NodeValue) String() string {
	switch {
	case v.IsWin():
		return fmt.Sprintf("WinInPly(%d)", v.Plies())
	case v.IsLoss():
		return fmt.Sprintf("LossInPly(%d)", v.Plies())
	}
	return "Unknown"
}
