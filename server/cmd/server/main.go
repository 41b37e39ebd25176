package main

import (
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/automoto/skyships/config"
	"github.com/automoto/skyships/server/core"
	"github.com/automoto/skyships/server/loot"
	"github.com/automoto/skyships/shared/logging"
	"github.com/automoto/skyships/shared/protocol"
	"github.com/automoto/skyships/shared/voxel"
	"github.com/quasilyte/gdata"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func main() {
	configDir := flag.String("config", "", "Directory holding skyships.yaml (empty = defaults and environment only)")
	port := flag.Uint("port", 7373, "Server port")
	tickRate := flag.Int("tickrate", 20, "Server tick rate (updates per second)")
	name := flag.String("name", "Skyships Server", "Server display name")
	version := flag.String("version", "", "Required client version (empty = accept any)")
	worldMap := flag.String("world", "assets/worlds/harbor.tmx", "World TMX file")
	logLevel := flag.String("loglevel", "info", "Log level (debug, info, warn, error, trace)")
	flag.Parse()

	if err := config.Load(*configDir); err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	// Flags given on the command line win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			viper.Set("server.port", *port)
		case "tickrate":
			viper.Set("server.tickRate", *tickRate)
		case "name":
			viper.Set("server.name", *name)
		case "version":
			viper.Set("server.version", *version)
		case "world":
			viper.Set("server.worldMap", *worldMap)
		case "loglevel":
			viper.Set("logLevel", *logLevel)
		}
	})
	cfg := config.Server()

	logger := logging.Setup(cfg.LogLevel, os.Stdout)

	if err := protocol.RegisterComponents(); err != nil {
		logger.Fatal().Err(err).Msg("failed to register components")
	}

	level, err := voxel.LoadTMX(os.DirFS(filepath.Dir(cfg.WorldMap)), filepath.Base(cfg.WorldMap))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load world")
	}

	tables, err := loot.Load(cfg.LootTables)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load loot tables")
	}

	var store *core.TransformStore
	data, err := gdata.Open(gdata.Config{AppName: cfg.DataApp})
	if err != nil {
		logger.Warn().Err(err).Msg("could not initialize persistence, ship positions will not be saved")
	} else {
		store = core.NewTransformStore(data)
	}

	server, err := core.NewServer(core.Options{
		Config: cfg,
		Ship:   config.Ship(),
		Level:  level,
		Loot:   loot.NewResolver(tables, cfg.LootSeed),
		Store:  store,
		Logger: logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create server")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info().Msg("shutting down server")
		server.Stop()
		os.Exit(0)
	}()

	logger.Info().
		Str("name", cfg.Name).
		Uint("port", cfg.Port).
		Int("tick_rate", cfg.TickRate).
		Str("version", cfg.Version).
		Str("world", level.Name).
		Msg("starting skyships server")
	if err := server.Start(cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
