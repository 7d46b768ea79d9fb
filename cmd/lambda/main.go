package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tinue/config"
	"github.com/domino14/tinue/finder"
	"github.com/domino14/tinue/tak"
	"github.com/domino14/tinue/tinuetree"
)

var cfg *config.Config
var nc *nats.Conn

const HardTimeLimit = 120 * time.Second

// TinueEvent asks for a tinue in one position, given either as playtak
// server notation or as a list of PTN moves.
type TinueEvent struct {
	GameID       int64    `json:"gameID"`
	Size         int      `json:"size"`
	Notation     string   `json:"notation,omitempty"`
	PTN          []string `json:"ptn,omitempty"`
	PliesToUndo  int      `json:"pliesToUndo"`
	MaxDepth     int      `json:"maxDepth"`
	Mode         string   `json:"mode"`
	ReplyChannel string   `json:"replyChannel"`
}

func (evt TinueEvent) position() (*tak.Position, error) {
	switch {
	case evt.Notation != "" && len(evt.PTN) > 0:
		return nil, errors.New("give either notation or ptn, not both")
	case evt.Notation != "":
		return tak.NewPositionFromServerNotation(evt.Size, evt.Notation, evt.PliesToUndo)
	}
	if evt.PliesToUndo < 0 || evt.PliesToUndo > len(evt.PTN) {
		return nil, errors.New("bad number of plies to undo")
	}
	return tak.NewPositionFromPTN(evt.Size, evt.PTN[:len(evt.PTN)-evt.PliesToUndo]...)
}

func HandleRequest(ctx context.Context, evt TinueEvent) (string, error) {
	logger := log.With().
		Int64("gameID", evt.GameID).
		Logger()

	pos, err := evt.position()
	if err != nil {
		return "", err
	}
	opts, err := finder.OptionsFromConfig(cfg)
	if err != nil {
		return "", err
	}
	opts.PliesToUndo = evt.PliesToUndo
	if evt.MaxDepth != 0 {
		opts.MaxDepth = evt.MaxDepth
	}
	if evt.Mode != "" {
		opts.Mode = finder.Mode(evt.Mode)
	}
	if err := opts.Validate(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, HardTimeLimit)
	defer cancel()
	start := time.Now()
	depth, payload, nodes, err := finder.Solve(ctx, pos, opts)
	if err != nil {
		return "", err
	}
	out := &finder.Outcome{
		GameID:      evt.GameID,
		Size:        evt.Size,
		MaxDepth:    opts.MaxDepth,
		Depth:       depth,
		PliesToUndo: evt.PliesToUndo,
		Elapsed:     time.Since(start),
		Nodes:       nodes,
	}
	out.TimeMs = out.Elapsed.Milliseconds()
	if payload != nil {
		bts, err := tinuetree.Marshal(payload, opts.Format)
		if err != nil {
			return "", err
		}
		out.Tinue = string(bts)
	}
	logger.Info().Int("depth", depth).Int64("time-ms", out.TimeMs).Msg("tinue-search-done")

	if evt.ReplyChannel != "" {
		data, err := json.Marshal(out)
		if err != nil {
			return "", err
		}
		logger.Info().Msg("tinue-sending-via-nats")
		err = retry.Do(
			func() error {
				// Only an acknowledgement is expected back.
				_, err := nc.Request(evt.ReplyChannel, data, 3*time.Second)
				return err
			},
			retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
				logger.Err(err).Uint("n", n).
					Msg("did-not-receive-ack-try-again")
				return retry.BackOffDelay(n, err, config)
			}),
		)
		if err != nil {
			logger.Err(err).Msg("tinue-reply-failed")
		}
	}
	logger.Info().Msg("exiting-fn")
	return out.Tinue, nil
}

func main() {
	cfg = &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("bad config")
	}
	log.Info().Msgf("Loaded config: %v", cfg.SanitizedSettings())
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("bad config")
	}
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	var err error
	nc, err = nats.Connect(cfg.GetString(config.ConfigNatsURL))
	if err != nil {
		log.Fatal().AnErr("natsConnectErr", err).Msg(":(")
	}

	lambda.Start(HandleRequest)
}
