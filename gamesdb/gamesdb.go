// Package gamesdb reads finished games from a playtak.com games database and
// stores the tinues found in them.
package gamesdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// Road wins, the only results that can end in a tinue.
var roadResults = []string{"R-0", "0-R"}

const createTinuesTable = `CREATE TABLE IF NOT EXISTS tinues (
	id integer primary key,
	gameid integer NOT NULL REFERENCES games(id),
	size integer,
	plies_to_undo integer,
	tinue_depth integer,
	tinue TEXT
)`

// Game is a row of the games table.
type Game struct {
	ID       int64
	Notation string
	Result   string
	Size     int
}

// Tinue is a row of the tinues table.
type Tinue struct {
	GameID      int64
	Size        int
	PliesToUndo int
	Depth       int
	Tinue       string
}

type DB struct {
	db *sql.DB
	// writes are serialized; sqlite allows one writer at a time.
	mu sync.Mutex
}

// Open opens an existing sqlite database.
func Open(ctx context.Context, path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// SQL exposes the underlying handle, mostly for setting up test fixtures.
func (d *DB) SQL() *sql.DB {
	return d.db
}

// Games returns the games of a board size won by a road, with an id of at
// least minID, in id order.
func (d *DB) Games(ctx context.Context, size int, minID int64) ([]Game, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, notation, result, size FROM games
		 WHERE (result = ? OR result = ?) AND id >= ? AND size = ?
		 ORDER BY id`,
		roadResults[0], roadResults[1], minID, size)
	if err != nil {
		return nil, fmt.Errorf("querying games: %w", err)
	}
	defer rows.Close()
	var games []Game
	for rows.Next() {
		var g Game
		if err := rows.Scan(&g.ID, &g.Notation, &g.Result, &g.Size); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// EnsureTinuesTable creates the tinues table if it does not exist.
func (d *DB) EnsureTinuesTable(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.db.ExecContext(ctx, createTinuesTable)
	return err
}

// InsertTinue stores a tinue, retrying while the database is locked by
// another writer.
func (d *DB) InsertTinue(ctx context.Context, t Tinue) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return retry.Do(
		func() error {
			_, err := d.db.ExecContext(ctx,
				`INSERT INTO tinues (gameid, size, plies_to_undo, tinue_depth, tinue)
				 VALUES (?, ?, ?, ?, ?)`,
				t.GameID, t.Size, t.PliesToUndo, t.Depth, t.Tinue)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(50*time.Millisecond),
		retry.RetryIf(isBusy),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Debug().Err(err).Uint("n", n).Int64("game-id", t.GameID).Msg("database-busy-retrying")
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

// Tinues returns the stored tinues for a game.
func (d *DB) Tinues(ctx context.Context, gameID int64) ([]Tinue, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT gameid, size, plies_to_undo, tinue_depth, tinue FROM tinues
		 WHERE gameid = ? ORDER BY id`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tinues []Tinue
	for rows.Next() {
		var t Tinue
		if err := rows.Scan(&t.GameID, &t.Size, &t.PliesToUndo, &t.Depth, &t.Tinue); err != nil {
			return nil, err
		}
		tinues = append(tinues, t)
	}
	return tinues, rows.Err()
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
