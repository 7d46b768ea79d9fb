package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tinue/config"
	"github.com/domino14/tinue/finder"
	"github.com/domino14/tinue/gamesdb"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}
	var logger zerolog.Logger
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	log.Logger = logger
	log.Info().Interface("config", cfg.SanitizedSettings()).Msg("loaded-config")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("bad-config")
	}
	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("tinuefinder-failed")
	}
}

func run(cfg *config.Config) error {
	if cfg.GetString(config.ConfigCPUProfile) != "" {
		f, err := os.Create(cfg.GetString(config.ConfigCPUProfile))
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPath := cfg.GetString(config.ConfigDBPath)
	if dbPath == "" {
		return fmt.Errorf("no games database given; use --%s", config.ConfigDBPath)
	}
	db, err := gamesdb.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	opts, err := finder.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	var sinks finder.MultiSink
	if !cfg.GetBool(config.ConfigTest) {
		sqlSink, err := finder.NewSQLSink(ctx, db)
		if err != nil {
			return err
		}
		sinks = append(sinks, sqlSink)
	}
	if url := cfg.GetString(config.ConfigNatsURL); url != "" {
		natsSink, err := finder.NewNatsSink(url, cfg.GetString(config.ConfigNatsSubject))
		if err != nil {
			return err
		}
		sinks = append(sinks, natsSink)
	}
	defer func() {
		if err := sinks.Close(); err != nil {
			log.Err(err).Msg("closing-sinks")
		}
	}()

	games, err := db.Games(ctx, cfg.GetInt(config.ConfigBoardSize), int64(cfg.GetInt(config.ConfigStartID)))
	if err != nil {
		return err
	}
	log.Info().Int("games", len(games)).Str("mode", string(opts.Mode)).Msg("starting-batch")

	start := time.Now()
	batch, err := finder.Run(ctx, games, opts, cfg.GetInt(config.ConfigThreads), sinks)
	mean, std := batch.TimeStats()
	log.Info().
		Int("games", batch.TotalGames).
		Int("analyzed", batch.SuccessfulGames).
		Int("failed", batch.FailedGames).
		Int("tinues", batch.TinuesFound).
		Float64("mean-ms", mean).
		Float64("stdev-ms", std).
		Dur("elapsed", time.Since(start)).
		Msg("batch-done")
	fmt.Print(batch.String())
	return err
}
