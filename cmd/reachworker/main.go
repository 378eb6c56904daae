package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/reachgen/config"
	"github.com/domino14/reachgen/worker"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	wcfg := worker.NewWorkerConfig(cfg)
	log.Info().
		Str("nats-url", wcfg.NatsURL).
		Str("subject", wcfg.Subject).
		Str("backend", cfg.GetString(config.ConfigBackend)).
		Str("drop-mode", cfg.GetString(config.ConfigDropMode)).
		Str("kick-table", cfg.GetString(config.ConfigKickTable)).
		Msg("starting search worker")

	nc, err := nats.Connect(wcfg.NatsURL, nats.Name("reachgen-worker"))
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to nats")
	}
	defer nc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	w := worker.NewSearchWorker(wcfg)
	if err := w.Run(ctx, nc); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("worker failed")
	}
	log.Info().Msg("search worker stopped")
}
