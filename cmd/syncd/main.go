package main

import (
	"context"
	"fmt"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/solace-im/devicesync/internal/config"
	"github.com/solace-im/devicesync/internal/events"
	"github.com/solace-im/devicesync/internal/logger"
	"github.com/solace-im/devicesync/internal/store"
	"github.com/solace-im/devicesync/internal/syncer"
	"github.com/solace-im/devicesync/internal/transport"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

const shutdownTimeout = 5 * time.Second

func main() {
	printBuildInfo()

	log := logger.NewLogger("syncd")
	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	db, err := store.NewConnectSQLite(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error running migrations")
	}

	version := cfg.App.Version
	if version == "" {
		version = buildVersion
	}
	identity := syncer.Identity{
		DeviceID:   cfg.App.DeviceID,
		DeviceName: cfg.App.DeviceName,
		UserAgent:  cfg.App.UserAgent,
		Platform:   runtime.GOOS,
		Version:    version,
	}

	storages := store.NewSQLiteStorages(db)
	bus := events.NewBus()
	sender := transport.NewRelaySender(cfg.Transport, log)

	engine := syncer.New(cfg.Sync, identity, storages, sender, bus, syncer.UnsupportedLocator{}, nil, clockwork.NewRealClock(), log)
	server := transport.NewServer(cfg.Transport, engine.HandleEnvelope, log)

	job := syncer.NewJob(engine)
	job.Start(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Run)
	g.Go(func() error {
		<-gctx.Done()
		job.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err = g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("syncd terminated with error")
	}

	log.Info().Msg("syncd stopped")
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
