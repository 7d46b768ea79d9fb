package gamesdb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func setUpDB(t *testing.T) *DB {
	t.Helper()
	is := is.New(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "games.db")
	d, err := Open(ctx, path)
	is.NoErr(err)
	t.Cleanup(func() { d.Close() })

	_, err = d.SQL().ExecContext(ctx, `CREATE TABLE games (
		id integer primary key, notation TEXT, result TEXT, size integer)`)
	is.NoErr(err)
	rows := []Game{
		{ID: 7999, Notation: "P A1,P E5", Result: "R-0", Size: 5},
		{ID: 8000, Notation: "P A1,P E5,P C3", Result: "R-0", Size: 5},
		{ID: 8001, Notation: "P A1,P F6", Result: "0-R", Size: 6},
		{ID: 8002, Notation: "P A1,P E5,P B2", Result: "F-0", Size: 5},
		{ID: 8003, Notation: "P A1,P E5,P D4", Result: "0-R", Size: 5},
	}
	for _, g := range rows {
		_, err = d.SQL().ExecContext(ctx, `INSERT INTO games (id, notation, result, size) VALUES (?, ?, ?, ?)`,
			g.ID, g.Notation, g.Result, g.Size)
		is.NoErr(err)
	}
	return d
}

func TestGames(t *testing.T) {
	is := is.New(t)
	d := setUpDB(t)
	games, err := d.Games(context.Background(), 5, 8000)
	is.NoErr(err)
	is.Equal(len(games), 2)
	is.Equal(games[0].ID, int64(8000))
	is.Equal(games[0].Notation, "P A1,P E5,P C3")
	is.Equal(games[1].ID, int64(8003))
	is.Equal(games[1].Result, "0-R")
}

func TestInsertTinue(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	d := setUpDB(t)
	is.NoErr(d.EnsureTinuesTable(ctx))
	// Creating it twice is fine.
	is.NoErr(d.EnsureTinuesTable(ctx))

	tn := Tinue{GameID: 8000, Size: 5, PliesToUndo: 3, Depth: 3, Tinue: `["a1","b1","c1"]`}
	is.NoErr(d.InsertTinue(ctx, tn))
	tinues, err := d.Tinues(ctx, 8000)
	is.NoErr(err)
	is.Equal(tinues, []Tinue{tn})

	tinues, err = d.Tinues(ctx, 8003)
	is.NoErr(err)
	is.Equal(len(tinues), 0)
}

func TestIsBusy(t *testing.T) {
	is := is.New(t)
	is.True(isBusy(errors.New("database is locked (5) (SQLITE_BUSY)")))
	is.True(!isBusy(errors.New("no such table: tinues")))
}
