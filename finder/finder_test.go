package finder

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/tinue/config"
	"github.com/domino14/tinue/gamesdb"
	"github.com/domino14/tinue/tak"
	"github.com/domino14/tinue/tinue"
	"github.com/domino14/tinue/tinuetree"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

// A 5x5 position where white to move has a 3-ply tinue starting with 2c5>11.
var tinueMoves = []string{"a1", "a5", "b5", "Cc3", "c5", "d5", "Cd4", "c4", "e5", "1c4+1", "1d4+1", "c4",
	"1d5<1", "1d5>1", "d5", "e4", "2c5>11", "1d5<1", "2e5<11", "2d5>2"}

// tinueGame builds a finished game record out of the tinue position and its
// principal variation. It returns the record and the number of plies in the
// variation.
func tinueGame(t *testing.T) (gamesdb.Game, int) {
	t.Helper()
	is := is.New(t)
	pos, err := tak.NewPositionFromPTN(5, tinueMoves...)
	is.NoErr(err)
	pv, err := tinue.NewSolver(pos).PrincipalVariation(3)
	is.NoErr(err)

	var notation []string
	for _, s := range append(append([]string{}, tinueMoves...), pv.Moves...) {
		m, err := tak.ParsePTN(5, s)
		is.NoErr(err)
		notation = append(notation, m.ServerNotation(5))
	}
	return gamesdb.Game{ID: 8123, Notation: strings.Join(notation, ","), Result: "R-0", Size: 5}, len(pv.Moves)
}

func TestHandleGameModes(t *testing.T) {
	game, undo := tinueGame(t)
	for _, tc := range []struct {
		mode   Mode
		prefix string
	}{
		{ModeFirst, `["2c5>11"`},
		{ModeMulti, `[{"moves":["2c5>11"]`},
		{ModeUnique, `["2c5>11"`},
	} {
		t.Run(string(tc.mode), func(t *testing.T) {
			is := is.New(t)
			opts := Options{PliesToUndo: undo, MaxDepth: 3, Mode: tc.mode, Format: tinuetree.FormatJSON}
			out, err := HandleGame(context.Background(), game, opts)
			is.NoErr(err)
			is.Equal(out.GameID, int64(8123))
			is.Equal(out.Depth, 3)
			is.Equal(out.PliesToUndo, undo)
			is.True(out.Stored())
			is.True(strings.HasPrefix(out.Tinue, tc.prefix))
			is.True(out.Nodes > 0)
		})
	}
}

func TestHandleGameYAML(t *testing.T) {
	is := is.New(t)
	game, undo := tinueGame(t)
	opts := Options{PliesToUndo: undo, MaxDepth: 3, Mode: ModeFirst, Format: tinuetree.FormatYAML}
	out, err := HandleGame(context.Background(), game, opts)
	is.NoErr(err)
	is.True(strings.HasPrefix(out.Tinue, "- 2c5>11\n"))
}

func TestHandleGameWithoutTinue(t *testing.T) {
	is := is.New(t)
	game := gamesdb.Game{ID: 1, Notation: "P A1,P E5,P C3,P C2", Result: "R-0", Size: 5}
	out, err := HandleGame(context.Background(), game, Options{MaxDepth: 3})
	is.NoErr(err)
	is.Equal(out.Depth, 0)
	is.Equal(out.Tinue, "")
	is.True(!out.Stored())
}

func TestHandleGameErrors(t *testing.T) {
	is := is.New(t)
	_, err := HandleGame(context.Background(), gamesdb.Game{ID: 2, Notation: "P Z9", Size: 5}, Options{MaxDepth: 3})
	is.True(errors.Is(err, tak.ErrBadNotation))

	_, err = HandleGame(context.Background(), gamesdb.Game{ID: 3, Notation: "P A1", Size: 5},
		Options{MaxDepth: 3, PliesToUndo: 4})
	is.True(err != nil)

	pos, err := tak.NewPosition(5)
	is.NoErr(err)
	_, _, _, err = Solve(context.Background(), pos, Options{MaxDepth: 1, Mode: "sideways"})
	is.True(err != nil)
}

type memorySink struct {
	mu     sync.Mutex
	stored []*Outcome
	err    error
	closed bool
}

func (m *memorySink) Store(ctx context.Context, out *Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.stored = append(m.stored, out)
	return nil
}

func (m *memorySink) Close() error {
	m.closed = true
	return nil
}

func TestRun(t *testing.T) {
	is := is.New(t)
	game, undo := tinueGame(t)
	is.Equal(undo, 3)
	games := []gamesdb.Game{
		game,
		{ID: 2, Notation: "P Z9", Result: "R-0", Size: 5},
		// Nothing to find three plies before the end.
		{ID: 3, Notation: "P A1,P E5,P C3,P C2,P D2,P D3,P B2", Result: "0-R", Size: 5},
	}
	sink := &memorySink{}
	opts := Options{PliesToUndo: undo, MaxDepth: 3, Mode: ModeFirst}
	batch, err := Run(context.Background(), games, opts, 2, sink)
	is.NoErr(err)
	is.Equal(batch.TotalGames, 3)
	is.Equal(batch.SuccessfulGames, 2)
	is.Equal(batch.FailedGames, 1)
	is.Equal(batch.TinuesFound, 1)
	is.Equal(batch.DepthCounts[3], 1)
	is.Equal(len(sink.stored), 1)
	is.Equal(sink.stored[0].GameID, game.ID)
	is.True(strings.Contains(batch.String(), "tinues: 1"))
}

func TestRunWithTranspositionTables(t *testing.T) {
	is := is.New(t)
	game, undo := tinueGame(t)
	second := game
	second.ID = 8124
	games := []gamesdb.Game{game, second, game, second}
	sink := &memorySink{}
	opts := Options{PliesToUndo: undo, MaxDepth: 3, Mode: ModeUnique, TTable: true, TTableFraction: 0.0001}
	batch, err := Run(context.Background(), games, opts, 2, sink)
	is.NoErr(err)
	is.Equal(batch.SuccessfulGames, 4)
	is.Equal(batch.TinuesFound, 4)
	for _, out := range sink.stored {
		is.True(strings.HasPrefix(out.Tinue, `["2c5>11"`))
	}
}

func TestSolveUsesGivenTable(t *testing.T) {
	is := is.New(t)
	tt := &tinue.TranspositionTable{}
	opts := Options{MaxDepth: 3, Mode: ModeUnique, TTable: true, TTableFraction: 0.0001, Table: tt}
	for range 2 {
		pos, err := tak.NewPositionFromPTN(5, tinueMoves...)
		is.NoErr(err)
		depth, payload, _, err := Solve(context.Background(), pos, opts)
		is.NoErr(err)
		is.Equal(depth, 3)
		is.Equal(payload.([]string)[0], "2c5>11")
		created, lookups, _, _ := tt.Stats()
		is.True(created > 0)
		is.True(lookups > 0)
	}
}

func TestOptionsValidate(t *testing.T) {
	is := is.New(t)
	is.NoErr(Options{MaxDepth: 3}.Validate())
	is.NoErr(Options{MaxDepth: 5, Mode: ModeMulti, TTableFraction: 0.1}.Validate())
	is.NoErr(Options{MaxDepth: config.MaxSearchDepth}.Validate())
	for name, opts := range map[string]Options{
		"even depth":     {MaxDepth: 4},
		"zero depth":     {MaxDepth: 0},
		"too deep":       {MaxDepth: config.MaxSearchDepth + 2},
		"unknown mode":   {MaxDepth: 3, Mode: "all"},
		"negative undo":  {MaxDepth: 3, PliesToUndo: -1},
		"ttable too big": {MaxDepth: 3, TTableFraction: 0.9},
	} {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			is.True(opts.Validate() != nil)
		})
	}
}

func TestRunSinkError(t *testing.T) {
	is := is.New(t)
	game, undo := tinueGame(t)
	sinkErr := errors.New("disk full")
	sink := &memorySink{err: sinkErr}
	_, err := Run(context.Background(), []gamesdb.Game{game}, Options{PliesToUndo: undo, MaxDepth: 3}, 1, sink)
	is.True(errors.Is(err, sinkErr))
}

func TestRunCanceled(t *testing.T) {
	is := is.New(t)
	game, undo := tinueGame(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, []gamesdb.Game{game}, Options{PliesToUndo: undo, MaxDepth: 3}, 1, nil)
	is.True(errors.Is(err, context.Canceled))
}

func TestMultiSink(t *testing.T) {
	is := is.New(t)
	a, b := &memorySink{}, &memorySink{}
	ms := MultiSink{a, b}
	is.NoErr(ms.Store(context.Background(), &Outcome{GameID: 5, Depth: 3}))
	is.NoErr(ms.Close())
	is.Equal(len(a.stored), 1)
	is.Equal(len(b.stored), 1)
	is.True(a.closed && b.closed)
}

func TestSQLSink(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	db, err := gamesdb.Open(ctx, t.TempDir()+"/tinues.db")
	is.NoErr(err)
	defer db.Close()
	sink, err := NewSQLSink(ctx, db)
	is.NoErr(err)
	is.NoErr(sink.Store(ctx, &Outcome{GameID: 9, Size: 6, PliesToUndo: 3, Depth: 3, Tinue: `["a1"]`}))
	tinues, err := db.Tinues(ctx, 9)
	is.NoErr(err)
	is.Equal(len(tinues), 1)
	is.Equal(tinues[0].Tinue, `["a1"]`)
}

func TestOptionsFromConfig(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	opts, err := OptionsFromConfig(cfg)
	is.NoErr(err)
	is.Equal(opts.Mode, ModeFirst)
	is.Equal(opts.MaxDepth, 3)
	is.Equal(opts.PliesToUndo, 3)
	is.Equal(opts.Format, tinuetree.FormatJSON)

	cfg.Set(config.ConfigUnique, true)
	opts, err = OptionsFromConfig(cfg)
	is.NoErr(err)
	is.Equal(opts.Mode, ModeUnique)

	cfg.Set(config.ConfigMultiTinue, true)
	opts, err = OptionsFromConfig(cfg)
	is.NoErr(err)
	is.Equal(opts.Mode, ModeMulti)

	cfg.Set(config.ConfigOutputFormat, "xml")
	_, err = OptionsFromConfig(cfg)
	is.True(err != nil)
}
