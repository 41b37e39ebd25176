package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/automoto/skyships/assets"
	"github.com/automoto/skyships/config"
	"github.com/automoto/skyships/network"
	"github.com/automoto/skyships/shared/logging"
	"github.com/automoto/skyships/shared/messages"
	"github.com/automoto/skyships/shared/netconfig"
	"github.com/automoto/skyships/shared/protocol"
	"github.com/automoto/skyships/shared/skyship"
	"github.com/automoto/skyships/shared/voxel"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const joinTimeout = 10 * time.Second

func main() {
	configDir := flag.String("config", "", "Directory holding skyships.yaml (empty = defaults and environment only)")
	address := flag.String("address", "localhost:7373", "Server address (host:port)")
	pilotName := flag.String("name", "pilot", "Pilot name")
	logLevel := flag.String("loglevel", "info", "Log level (debug, info, warn, error, trace)")
	flyFor := flag.Duration("fly", 0, "Dismount and leave after this long (0 = until interrupted)")
	flag.Parse()

	if err := config.Load(*configDir); err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "address":
			viper.Set("client.address", *address)
		case "name":
			viper.Set("client.pilotName", *pilotName)
		case "loglevel":
			viper.Set("logLevel", *logLevel)
		}
	})
	cfg := config.Client()

	logger := logging.Setup(cfg.LogLevel, os.Stdout)

	// Register network components for client-side deserialization
	if err := protocol.RegisterComponents(); err != nil {
		logger.Fatal().Err(err).Msg("failed to register network components")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if *flyFor > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *flyFor)
		defer cancel()
	}

	client := network.NewClient(logger)
	client.Connect(cfg.Address, cfg.Version, cfg.PilotName)
	defer client.Disconnect()

	if err := waitJoined(ctx, client); err != nil {
		logger.Fatal().Err(err).Str("address", cfg.Address).Msg("could not join server")
	}

	level, err := loadWorld(client.WorldMap(), cfg.WorldMap)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load world")
	}

	logger.Info().
		Int32("pilot", client.PilotID()).
		Str("world", level.Name).
		Int("tick_rate", client.TickRate()).
		Msg("joined game")

	p := newPilot(client, level, logger)
	p.fly(ctx)
}

// waitJoined blocks until the join handshake completes or fails.
func waitJoined(ctx context.Context, client *network.Client) error {
	ctx, cancel := context.WithTimeout(ctx, joinTimeout)
	defer cancel()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		switch client.State() {
		case network.StateJoinedGame:
			return nil
		case network.StateError:
			return client.LastError()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// loadWorld prefers the embedded copy of the server's world and falls back to
// the configured file.
func loadWorld(serverMap, fallback string) (*voxel.Level, error) {
	if serverMap != "" {
		if level, err := assets.LoadWorld(serverMap); err == nil {
			return level, nil
		}
	}
	if fallback == "" {
		return nil, errors.New("server world is not embedded and no client world is configured")
	}
	return voxel.LoadTMX(os.DirFS(filepath.Dir(fallback)), filepath.Base(fallback))
}

// pilot flies the local client: it boards the first ship it hears about and
// follows a scripted course.
type pilot struct {
	client   *network.Client
	fleet    *network.Fleet
	body     *skyship.Body
	course   *course
	logger   zerolog.Logger
	tickRate int

	boardingShip int32
	tick         int
}

func newPilot(client *network.Client, level *voxel.Level, logger zerolog.Logger) *pilot {
	body := skyship.NewBody(client.PilotID(), netconfig.OccupantPlayer, 0.6, 1.8,
		mgl64.Vec3{float64(level.Width) / 2, 1, float64(level.Depth) / 2})
	body.Local = true

	tickRate := client.TickRate()
	if tickRate <= 0 {
		tickRate = 20
	}
	return &pilot{
		client:   client,
		fleet:    network.NewFleet(level.Grid, body, client, logger),
		body:     body,
		course:   newCourse(harborLoop),
		logger:   logger.With().Str("component", "pilot").Logger(),
		tickRate: tickRate,
	}
}

func (p *pilot) fly(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(p.tickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.leave()
			return
		case <-ticker.C:
		}

		state := p.client.State()
		if state == network.StateDisconnected || state == network.StateError {
			p.logger.Warn().Err(p.client.LastError()).Stringer("state", state).Msg("connection lost")
			return
		}
		p.step()
	}
}

func (p *pilot) step() {
	p.handleEvents()

	if snap := p.client.LatestSnapshot(); snap != nil {
		states, skipped := network.DecodeSnapshot(*snap)
		if skipped > 0 {
			p.logger.Debug().Int("components", skipped).Msg("undecodable snapshot components skipped")
		}
		p.fleet.Apply(states)
	}

	p.board()

	var in skyship.Input
	if p.fleet.Piloted() != nil {
		in = p.course.Input(p.tick)
		p.tick++
	}
	p.fleet.Tick(in)
}

// board asks for a seat on the first known ship until the pilot sits in one.
func (p *pilot) board() {
	if p.body.VehicleID != 0 || p.fleet.Len() == 0 {
		p.boardingShip = 0
		return
	}
	if p.boardingShip != 0 {
		if _, ok := p.fleet.Ship(p.boardingShip); ok {
			return
		}
	}
	p.boardingShip = p.fleet.IDs()[0]
	if err := p.client.SendMessage(messages.BoardRequest{ShipID: p.boardingShip}); err != nil {
		p.logger.Warn().Err(err).Int32("ship", p.boardingShip).Msg("board request failed")
		return
	}
	p.logger.Info().Int32("ship", p.boardingShip).Msg("boarding")
}

func (p *pilot) handleEvents() {
	for _, evt := range p.client.DrainSpawnEvents() {
		p.fleet.Spawn(evt)
		p.logger.Debug().Int32("ship", evt.ShipID).Msg("ship spawned")
	}
	for _, evt := range p.client.DrainHurtEvents() {
		if ship, ok := p.fleet.Ship(evt.ShipID); ok {
			ship.ApplyHurt(evt)
		}
	}
	for _, evt := range p.client.DrainStrokeEvents() {
		p.logger.Trace().Int32("ship", evt.ShipID).Int("side", evt.Side).Msg("paddle stroke")
	}
	for _, evt := range p.client.DrainEjectedEvents() {
		for _, id := range evt.Occupants {
			if id == p.body.EntityID {
				p.logger.Info().Int32("ship", evt.ShipID).Msg("thrown off ship")
			}
			if ship, ok := p.fleet.Ship(evt.ShipID); ok {
				ship.Unseat(id)
			}
		}
	}
	for _, evt := range p.client.DrainLootEvents() {
		p.logger.Info().Int32("ship", evt.ShipID).Str("item", evt.Item).Int("count", evt.Count).Msg("loot dropped")
	}
	for _, evt := range p.client.DrainDestroyedEvents() {
		p.logger.Info().Int32("ship", evt.ShipID).Int32("killer", evt.KillerID).Msg("ship destroyed")
	}
	for _, evt := range p.client.DrainDespawnEvents() {
		p.fleet.Despawn(evt.EntityID)
	}
}

func (p *pilot) leave() {
	if p.body.VehicleID != 0 {
		if err := p.client.SendMessage(messages.DismountRequest{}); err != nil {
			p.logger.Debug().Err(err).Msg("dismount request failed")
		}
	}
	p.logger.Info().Msg("leaving")
}
