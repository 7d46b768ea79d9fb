package finder

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/domino14/tinue/gamesdb"
	"github.com/domino14/tinue/tinue"
)

// GameResult is the result of analyzing one game of a batch.
type GameResult struct {
	Game    gamesdb.Game
	Outcome *Outcome
	Err     error
}

// BatchResult aggregates the results of a batch.
type BatchResult struct {
	Games           []*GameResult
	TotalGames      int
	SuccessfulGames int
	FailedGames     int
	TinuesFound     int
	// DepthCounts counts stored tinues by depth.
	DepthCounts map[int]int
	timesMs     []float64
}

func NewBatchResult() *BatchResult {
	return &BatchResult{DepthCounts: make(map[int]int)}
}

// AddGameResult adds a game result to the batch and updates the totals.
func (b *BatchResult) AddGameResult(r *GameResult) {
	b.Games = append(b.Games, r)
	b.TotalGames++
	if r.Err != nil || r.Outcome == nil {
		b.FailedGames++
		return
	}
	b.SuccessfulGames++
	b.timesMs = append(b.timesMs, float64(r.Outcome.TimeMs))
	if r.Outcome.Stored() {
		b.TinuesFound++
		b.DepthCounts[r.Outcome.Depth]++
	}
}

// TimeStats returns the mean and standard deviation of the time spent per
// successfully analyzed game, in milliseconds.
func (b *BatchResult) TimeStats() (mean, std float64) {
	if len(b.timesMs) == 0 {
		return 0, 0
	}
	if len(b.timesMs) == 1 {
		return b.timesMs[0], 0
	}
	return stat.MeanStdDev(b.timesMs, nil)
}

func (b *BatchResult) String() string {
	mean, std := b.TimeStats()
	var sb strings.Builder
	fmt.Fprintf(&sb, "games: %d, analyzed: %d, failed: %d, tinues: %d\n",
		b.TotalGames, b.SuccessfulGames, b.FailedGames, b.TinuesFound)
	depths := make([]int, 0, len(b.DepthCounts))
	for d := range b.DepthCounts {
		depths = append(depths, d)
	}
	sort.Ints(depths)
	for _, d := range depths {
		fmt.Fprintf(&sb, "  depth %d: %d\n", d, b.DepthCounts[d])
	}
	fmt.Fprintf(&sb, "time per game: %.1f ms (sd %.1f)\n", mean, std)
	return sb.String()
}

// Run analyzes games with up to threads games at a time. Games that cannot be
// parsed or searched are counted as failures and do not stop the batch; a
// sink error or a canceled context does. sink may be nil.
func Run(ctx context.Context, games []gamesdb.Game, opts Options, threads int, sink Sink) (*BatchResult, error) {
	threads = max(threads, 1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	results := make([]*GameResult, len(games))
	var mu sync.Mutex
	done := 0

	// At most threads games run at once, so each one can take a table from
	// here without blocking. Tables are allocated on first use and only
	// cleared after that.
	var tables chan *tinue.TranspositionTable
	if opts.TTable {
		tables = make(chan *tinue.TranspositionTable, threads)
		for range threads {
			tables <- &tinue.TranspositionTable{}
		}
	}

	for i, game := range games {
		g.Go(func() error {
			gameOpts := opts
			if tables != nil {
				tt := <-tables
				defer func() { tables <- tt }()
				gameOpts.Table = tt
			}
			out, err := HandleGame(gctx, game, gameOpts)
			results[i] = &GameResult{Game: game, Outcome: out, Err: err}
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Err(err).Int64("id", game.ID).Msg("game-failed")
				return nil
			}
			if out.Stored() && sink != nil {
				if err := sink.Store(gctx, out); err != nil {
					return fmt.Errorf("storing game %d: %w", game.ID, err)
				}
			}
			mu.Lock()
			done++
			if done%100 == 0 {
				log.Info().Int("done", done).Int("total", len(games)).Msg("batch-progress")
			}
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()

	batch := NewBatchResult()
	for _, r := range results {
		if r != nil {
			batch.AddGameResult(r)
		}
	}
	return batch, err
}
