package tinuetree

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func leaf(m string) *TinueMove {
	return &TinueMove{Move: m}
}

func node(m string, next ...*TinueMove) *TinueMove {
	return &TinueMove{Move: m, Next: next}
}

func TestGroupingConsecutiveOnly(t *testing.T) {
	is := is.New(t)
	forest := []*TinueMove{
		node("a1", leaf("e5")),
		node("b1", leaf("e5")),
		node("c1", leaf("e4")),
		node("d1", leaf("e5")),
	}
	opts := ToOptions(forest)
	is.Equal(len(opts), 3)
	is.Equal(opts[0].Moves, []string{"a1", "b1"})
	is.Equal(opts[0].Solutions, []TinueMoveOptions{{Moves: []string{"e5"}}})
	is.Equal(opts[1].Moves, []string{"c1"})
	is.Equal(opts[2].Moves, []string{"d1"})
}

func TestGroupingTerminalMoves(t *testing.T) {
	is := is.New(t)
	opts := ToOptions([]*TinueMove{leaf("a5"), leaf("Ca5"), leaf("2b4<")})
	is.Equal(len(opts), 1)
	is.Equal(opts[0].Moves, []string{"a5", "Ca5", "2b4<"})
	is.Equal(len(opts[0].Solutions), 0)
}

func TestGroupingIgnoresContinuationOrder(t *testing.T) {
	is := is.New(t)
	forest := []*TinueMove{
		node("a1", node("b2", leaf("c3")), node("d4", leaf("e5"))),
		node("a2", node("d4", leaf("e5")), node("b2", leaf("c3"))),
	}
	opts := ToOptions(forest)
	is.Equal(len(opts), 1)
	is.Equal(opts[0].Moves, []string{"a1", "a2"})
	// The first occurrence's solutions are kept.
	is.Equal(opts[0].Solutions[0].Moves, []string{"b2"})
	is.Equal(opts[0].Solutions[1].Moves, []string{"d4"})
}

func TestEqualOptions(t *testing.T) {
	is := is.New(t)
	a := []TinueMoveOptions{
		{Moves: []string{"a1", "b1"}, Solutions: []TinueMoveOptions{{Moves: []string{"c1"}}}},
		{Moves: []string{"d1"}},
	}
	b := []TinueMoveOptions{
		{Moves: []string{"d1"}},
		{Moves: []string{"b1", "a1"}, Solutions: []TinueMoveOptions{{Moves: []string{"c1"}}}},
	}
	is.True(EqualOptions(a, b))
	b[1].Solutions[0].Moves = []string{"c2"}
	is.True(!EqualOptions(a, b))
	is.True(EqualOptions(nil, []TinueMoveOptions{}))
}

func TestOptionsJSON(t *testing.T) {
	is := is.New(t)
	forest := []*TinueMove{
		node("a1", leaf("e5")),
		node("b1", leaf("e5")),
	}
	bts, err := json.Marshal(ToOptions(forest))
	is.NoErr(err)
	is.Equal(string(bts), `[{"moves":["a1","b1"],"solutions":[{"moves":["e5"]}]}]`)
}

func TestMarshalKeepsSpreadSymbols(t *testing.T) {
	is := is.New(t)
	bts, err := Marshal(LongestLine(node("2c5>11", node("1d5<1", leaf("2e5<11")))), FormatJSON)
	is.NoErr(err)
	is.Equal(string(bts), `["2c5>11","1d5<1","2e5<11"]`)

	var buf bytes.Buffer
	is.NoErr(Encode(&buf, []string{"a1"}, FormatJSON))
	is.Equal(buf.String(), "[\"a1\"]\n")
}

func TestEncodeYAML(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	err := Encode(&buf, ToOptions([]*TinueMove{node("a1", leaf("e5"))}), FormatYAML)
	is.NoErr(err)
	out := buf.String()
	is.True(strings.Contains(out, "moves:"))
	is.True(strings.Contains(out, "solutions:"))
	is.True(strings.Contains(out, "e5"))

	_, err = ParseFormat("xml")
	is.True(err != nil)
	f, err := ParseFormat("")
	is.NoErr(err)
	is.Equal(f, FormatJSON)
}

func TestLongestSequence(t *testing.T) {
	is := is.New(t)
	tree := node("a1",
		node("b1", leaf("c1")),
		node("b2", node("c2", leaf("d2"))),
		node("b3", node("c3", leaf("d3"))),
	)
	n, line := LongestSequence(tree)
	is.Equal(n, 4)
	is.Equal(tree.Depth(), 4)
	// Ties go to the first continuation.
	is.Equal(line.ToSlice(), []string{"a1", "b2", "c2", "d2"})
	is.Equal(len(LongestLine(tree)), tree.Depth())

	n, line = LongestSequence(leaf("a5"))
	is.Equal(n, 1)
	is.Equal(line.ToSlice(), []string{"a5"})
}
