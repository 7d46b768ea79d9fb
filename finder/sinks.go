package finder

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tinue/gamesdb"
)

// Sink receives every tinue worth storing. Implementations must be safe for
// concurrent use.
type Sink interface {
	Store(ctx context.Context, out *Outcome) error
	Close() error
}

// SQLSink writes tinues to the tinues table.
type SQLSink struct {
	db *gamesdb.DB
}

func NewSQLSink(ctx context.Context, db *gamesdb.DB) (*SQLSink, error) {
	if err := db.EnsureTinuesTable(ctx); err != nil {
		return nil, err
	}
	return &SQLSink{db: db}, nil
}

func (s *SQLSink) Store(ctx context.Context, out *Outcome) error {
	return s.db.InsertTinue(ctx, gamesdb.Tinue{
		GameID:      out.GameID,
		Size:        out.Size,
		PliesToUndo: out.PliesToUndo,
		Depth:       out.Depth,
		Tinue:       out.Tinue,
	})
}

// Close does not close the database; its owner does.
func (s *SQLSink) Close() error {
	return nil
}

// NatsSink publishes every tinue as JSON on a NATS subject.
type NatsSink struct {
	nc      *nats.Conn
	subject string
}

func NewNatsSink(url, subject string) (*NatsSink, error) {
	nc, err := nats.Connect(url, nats.Name("tinuefinder"))
	if err != nil {
		return nil, err
	}
	return &NatsSink{nc: nc, subject: subject}, nil
}

func (s *NatsSink) Store(ctx context.Context, out *Outcome) error {
	data, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return retry.Do(
		func() error {
			return s.nc.Publish(s.subject, data)
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Int64("id", out.GameID).Msg("nats-publish-failed-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

func (s *NatsSink) Close() error {
	err := s.nc.Flush()
	s.nc.Close()
	return err
}

// MultiSink stores to every sink in order.
type MultiSink []Sink

func (m MultiSink) Store(ctx context.Context, out *Outcome) error {
	for _, s := range m {
		if err := s.Store(ctx, out); err != nil {
			return err
		}
	}
	return nil
}

func (m MultiSink) Close() error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
