// Package finder looks for tinues near the end of recorded games.
package finder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tinue/config"
	"github.com/domino14/tinue/gamesdb"
	"github.com/domino14/tinue/tak"
	"github.com/domino14/tinue/tinue"
	"github.com/domino14/tinue/tinuetree"
)

type Mode string

const (
	// ModeFirst stops at the first winning move on each of our turns and
	// reports the longest line of the resulting tree.
	ModeFirst Mode = "first"
	// ModeMulti enumerates every tinue and reports grouped options.
	ModeMulti Mode = "multi"
	// ModeUnique looks for a single winning move and reports its principal
	// variation.
	ModeUnique Mode = "unique"
)

type Options struct {
	PliesToUndo    int
	MaxDepth       int
	Mode           Mode
	SkipWalls      bool
	TTable         bool
	TTableFraction float64
	Format         tinuetree.Format
	// Table, if set, is the transposition table to search with. It is
	// cleared before use so one table can serve many games in turn.
	Table *tinue.TranspositionTable
}

// Validate checks options that did not come from a validated config.
func (o Options) Validate() error {
	var errs []error
	if o.MaxDepth < 1 || o.MaxDepth%2 == 0 || o.MaxDepth > config.MaxSearchDepth {
		errs = append(errs, fmt.Errorf("max depth must be an odd number from 1 to %d, got %d",
			config.MaxSearchDepth, o.MaxDepth))
	}
	switch o.Mode {
	case ModeFirst, ModeMulti, ModeUnique, "":
	default:
		errs = append(errs, fmt.Errorf("unknown mode %q", o.Mode))
	}
	if o.PliesToUndo < 0 {
		errs = append(errs, fmt.Errorf("plies to undo must not be negative, got %d", o.PliesToUndo))
	}
	if o.TTableFraction < 0 || o.TTableFraction > 0.5 {
		errs = append(errs, fmt.Errorf("ttable memory fraction must be in [0, 0.5], got %v", o.TTableFraction))
	}
	return errors.Join(errs...)
}

// OptionsFromConfig reads search options from a validated config.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	format, err := tinuetree.ParseFormat(cfg.GetString(config.ConfigOutputFormat))
	if err != nil {
		return Options{}, err
	}
	opts := Options{
		PliesToUndo:    cfg.GetInt(config.ConfigPliesToUndo),
		MaxDepth:       cfg.GetInt(config.ConfigMaxDepth),
		Mode:           ModeFirst,
		SkipWalls:      cfg.GetBool(config.ConfigSkipWalls),
		TTable:         cfg.GetBool(config.ConfigTTable),
		TTableFraction: cfg.GetFloat64(config.ConfigTTableMemoryFraction),
		Format:         format,
	}
	switch {
	case cfg.GetBool(config.ConfigMultiTinue):
		opts.Mode = ModeMulti
	case cfg.GetBool(config.ConfigUnique):
		opts.Mode = ModeUnique
	}
	return opts, nil
}

// Outcome is the analysis of one game.
type Outcome struct {
	GameID      int64         `json:"id"`
	Size        int           `json:"size"`
	Result      string        `json:"result"`
	MaxDepth    int           `json:"maxDepth"`
	Depth       int           `json:"depth"`
	PliesToUndo int           `json:"movesToUndo"`
	Elapsed     time.Duration `json:"-"`
	TimeMs      int64         `json:"timeMs"`
	Nodes       uint64        `json:"nodes"`
	// Tinue is the encoded line or options, empty if there is none.
	Tinue string `json:"tinue"`
}

// Worth storing: a tinue was found and it is longer than a single move.
func (o *Outcome) Stored() bool {
	return o.Depth > 1
}

// Solve searches pos for the side to move according to opts. It returns the
// certified depth (0 if nothing was found) and the value to encode: a line of
// moves, or grouped options in ModeMulti.
func Solve(ctx context.Context, pos *tak.Position, opts Options) (int, any, uint64, error) {
	s := tinue.NewSolver(pos)
	s.SetSkipWallsOptim(opts.SkipWalls)
	s.SetTranspositionTableOptim(opts.TTable)
	if opts.TTableFraction > 0 {
		s.SetTranspositionTableFraction(opts.TTableFraction)
	}
	if opts.TTable && opts.Table != nil {
		s.SetTranspositionTable(opts.Table)
	}
	me := pos.SideToMove()

	switch opts.Mode {
	case ModeUnique:
		res, err := s.FindUniqueTinue(ctx, opts.MaxDepth)
		if err != nil || res == nil {
			return 0, nil, s.Nodes(), err
		}
		pv, err := s.PrincipalVariation(res.Depth)
		if err != nil {
			return 0, nil, s.Nodes(), err
		}
		log.Debug().Str("pv", pv.NLBString()).Msg("unique-tinue")
		return res.Depth, pv.Moves, s.Nodes(), nil

	case ModeMulti:
		res, err := s.TinueSearch(ctx, opts.MaxDepth, me, false)
		if err != nil || res == nil {
			return 0, nil, s.Nodes(), err
		}
		return res.Depth, tinuetree.ToOptions(res.Result), s.Nodes(), nil

	case ModeFirst, "":
		res, err := s.TinueSearch(ctx, opts.MaxDepth, me, true)
		if err != nil || res == nil {
			return 0, nil, s.Nodes(), err
		}
		return res.Depth, tinuetree.LongestLine(res.Result[0]), s.Nodes(), nil
	}
	return 0, nil, 0, fmt.Errorf("unknown mode %q", opts.Mode)
}

// HandleGame rebuilds a game without its last opts.PliesToUndo plies and
// looks for a tinue for the player to move.
func HandleGame(ctx context.Context, g gamesdb.Game, opts Options) (*Outcome, error) {
	pos, err := tak.NewPositionFromServerNotation(g.Size, g.Notation, opts.PliesToUndo)
	if err != nil {
		return nil, fmt.Errorf("game %d: %w", g.ID, err)
	}
	start := time.Now()
	depth, payload, nodes, err := Solve(ctx, pos, opts)
	if err != nil {
		return nil, fmt.Errorf("game %d: %w", g.ID, err)
	}
	out := &Outcome{
		GameID:      g.ID,
		Size:        g.Size,
		Result:      g.Result,
		MaxDepth:    opts.MaxDepth,
		Depth:       depth,
		PliesToUndo: opts.PliesToUndo,
		Elapsed:     time.Since(start),
		Nodes:       nodes,
	}
	out.TimeMs = out.Elapsed.Milliseconds()
	if payload != nil {
		bts, err := tinuetree.Marshal(payload, opts.Format)
		if err != nil {
			return nil, err
		}
		out.Tinue = string(bts)
	}

	evt := log.Info().
		Int64("id", out.GameID).
		Int("size", out.Size).
		Str("result", out.Result).
		Int("max-depth", out.MaxDepth).
		Int("depth", out.Depth).
		Int("moves-to-undo", out.PliesToUndo).
		Int64("time-ms", out.TimeMs).
		Uint64("nodes", out.Nodes)
	if out.Tinue != "" && json.Valid([]byte(out.Tinue)) {
		evt = evt.RawJSON("tinue", []byte(out.Tinue))
	} else {
		evt = evt.Str("tinue", out.Tinue)
	}
	evt.Msg("game-analyzed")
	return out, nil
}
