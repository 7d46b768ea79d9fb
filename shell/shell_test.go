package shell

import (
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/tinue/config"
)

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"tinue -depth 5",
			&shellcmd{"tinue", nil, CmdOptions{"depth": {"5"}}},
			nil},
		{"play 2c5>11",
			&shellcmd{"play", []string{"2c5>11"}, CmdOptions{}},
			nil},
		{`server "P A1,P E5 W" -undo 1 -size 5`,
			&shellcmd{"server",
				[]string{"P A1,P E5 W"},
				CmdOptions{"undo": {"1"}, "size": {"5"}}},
			nil,
		},
		{"ptn a1 1c4-1 -size",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func newTestController() *ShellController {
	return &ShellController{config: config.DefaultConfig()}
}

func run(t *testing.T, sc *ShellController, line string) string {
	t.Helper()
	resp, err := sc.handle(line)
	if err != nil {
		t.Fatalf("%s: %v", line, err)
	}
	return resp.message
}

const tinuePTN = "ptn -size 5 a1 a5 b5 Cc3 c5 d5 Cd4 c4 e5 1c4+1 1d4+1 c4 1d5<1 1d5>1 d5 e4 2c5>11 1d5<1 2e5<11 2d5>2"

func TestNoPosition(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	for _, line := range []string{"show", "play a1", "undo", "moves", "tinue", "eval 1"} {
		_, err := sc.handle(line)
		is.Equal(err, errNoPosition)
	}
	_, err := sc.handle("frobnicate")
	is.True(err != nil)
}

func TestPlayAndUndo(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	run(t, sc, "new 5")
	is.Equal(sc.pos.Size(), 5)
	run(t, sc, "play a1 e5 c3")
	is.Equal(sc.pos.Plies(), 3)
	is.True(strings.Contains(run(t, sc, "show"), "Moves: a1 e5 c3"))

	_, err := sc.handle("play c3")
	is.True(err != nil)
	is.Equal(sc.pos.Plies(), 3)

	run(t, sc, "undo 2")
	is.Equal(sc.pos.Plies(), 1)
	_, err = sc.handle("undo 2")
	is.True(err != nil)
}

func TestServerCommand(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	run(t, sc, `server "P A1,P E5,P C3,P C4 C,M C3 D3 1" -size 5 -undo 1`)
	is.Equal(sc.pos.Plies(), 4)
	is.Equal(len(sc.moves), 4)
	run(t, sc, "play c3>")
	is.Equal(sc.pos.Plies(), 5)
}

func TestMovesCommand(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	run(t, sc, "new 3")
	out := run(t, sc, "moves -n 3")
	is.True(strings.HasPrefix(out, "9 legal moves\n"))
	is.Equal(strings.Count(out, "\n"), 4)
}

func TestTinueCommand(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	run(t, sc, tinuePTN)

	out := run(t, sc, "tinue -depth 3")
	is.True(strings.HasPrefix(out, "Tinue in 3 plies"))
	is.True(strings.Contains(out, `["2c5>11"`))

	out = run(t, sc, "tinue -depth 3 -mode multi -format yaml")
	is.True(strings.Contains(out, "- moves:"))
	is.True(strings.Contains(out, "2c5>11"))

	out = run(t, sc, "eval 3")
	is.True(strings.HasPrefix(out, "white to move: WinInPly("))

	out = run(t, sc, "pv 3")
	is.True(strings.Contains(out, "1: 2c5>11"))

	_, err := sc.handle("tinue -mode sideways")
	is.True(err != nil)
}

func TestNoTinue(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	run(t, sc, "ptn -size 5 a1 e5 c3 c2")
	out := run(t, sc, "tinue -depth 3")
	is.True(strings.HasPrefix(out, "No tinue within 3 plies"))
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	is.True(strings.HasPrefix(run(t, sc, "help"), "Usage:"))
	is.True(strings.HasPrefix(run(t, sc, "help tinue"), "tinue [-depth d]"))
	_, err := sc.handle("help nonsense")
	is.True(err != nil)
}

func TestAutocomplete(t *testing.T) {
	is := is.New(t)
	sc := newTestController()
	c := NewShellCompleter(sc)

	matches, n := c.Do([]rune("tin"), 3)
	is.Equal(n, 3)
	is.Equal(matches, [][]rune{[]rune("ue")})

	line := []rune("tinue -mode m")
	matches, _ = c.Do(line, len(line))
	is.Equal(matches, [][]rune{[]rune("ulti")})

	run(t, sc, "new 3")
	line = []rune("play b")
	matches, n = c.Do(line, len(line))
	is.Equal(n, 1)
	is.Equal(len(matches), 3)
}
