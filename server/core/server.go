package core

import (
	"errors"
	"fmt"
	"sync"

	"github.com/automoto/skyships/components"
	"github.com/automoto/skyships/config"
	"github.com/automoto/skyships/shared/messages"
	"github.com/automoto/skyships/shared/netconfig"
	"github.com/automoto/skyships/shared/skyship"
	"github.com/automoto/skyships/shared/voxel"
	"github.com/automoto/skyships/systems"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/rs/zerolog"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

const commandQueueSize = 256

// peer is the part of a network client the server talks to.
// *router.NetworkClient satisfies it.
type peer interface {
	Id() string
	SendMessage(msg any) error
}

type command struct {
	from peer
	msg  any
}

type clientConnected struct{}

type clientDisconnected struct {
	err error
}

// Options configure a Server.
type Options struct {
	Config config.ServerConfig
	Ship   config.ShipConfig
	Level  *voxel.Level
	Loot   skyship.LootResolver
	Store  *TransformStore
	Logger zerolog.Logger
}

// Server manages the game state and client connections. Router callbacks run
// on necs goroutines and only enqueue; all world mutation happens on the game
// loop goroutine.
type Server struct {
	cfg     config.ServerConfig
	shipCfg config.ShipConfig
	level   *voxel.Level
	loot    skyship.LootResolver
	store   *TransformStore
	logger  zerolog.Logger
	metrics *serverMetrics

	ecs       *ecs.ECS
	index     *systems.EntityIndex
	loop      *GameLoop
	transport *transports.WsServerTransport
	commands  chan command

	peers     map[string]peer
	pilots    map[string]donburi.Entity
	ships     map[int32]donburi.Entity
	bodies    map[int32]donburi.Entity
	doomed    []int32
	nextID    int32
	tick      uint64
	saveTicks uint64

	mu      sync.RWMutex
	players int
}

// NewServer builds the world for opts.Level and spawns its ships and
// creatures.
func NewServer(opts Options) (*Server, error) {
	if opts.Level == nil {
		return nil, errors.New("server needs a level")
	}
	if opts.Config.TickRate <= 0 {
		return nil, fmt.Errorf("invalid tick rate %d", opts.Config.TickRate)
	}

	world := donburi.NewWorld()
	s := &Server{
		cfg:      opts.Config,
		shipCfg:  opts.Ship,
		level:    opts.Level,
		loot:     opts.Loot,
		store:    opts.Store,
		logger:   opts.Logger,
		ecs:      ecs.NewECS(world),
		index:    systems.NewEntityIndex(opts.Level.Width, opts.Level.Depth),
		commands: make(chan command, commandQueueSize),
		peers:    make(map[string]peer),
		pilots:   make(map[string]donburi.Entity),
		ships:    make(map[int32]donburi.Entity),
		bodies:   make(map[int32]donburi.Entity),
	}
	if s.shipCfg.Width == 0 || s.shipCfg.Height == 0 {
		s.shipCfg.Width, s.shipCfg.Height = skyship.DefaultWidth, skyship.DefaultHeight
	}
	s.saveTicks = uint64(opts.Config.SaveEvery.Seconds() * float64(opts.Config.TickRate))

	m, err := newServerMetrics(func() int { return len(s.commands) })
	if err != nil {
		return nil, err
	}
	s.metrics = m

	// Set up the world for esync
	srvsync.UseEsync(world)

	s.ecs.AddSystem(systems.NewIndexSystem(s.index))
	s.ecs.AddSystem(systems.UpdateShips)
	s.ecs.AddSystem(systems.NewBodySystem(opts.Level.Grid))
	s.ecs.AddSystem(systems.SyncShips)
	s.ecs.AddSystem(systems.SyncBodies)

	s.loop = NewGameLoop(s, opts.Config.TickRate)
	s.spawnLevel()
	return s, nil
}

// Start begins the server on the given port
func (s *Server) Start(port uint) error {
	s.setupRouterCallbacks()

	// Start game loop
	s.loop.Start()

	// Create and start WebSocket transport
	s.transport = transports.NewWsServerTransport(port, "", nil)
	return s.transport.Start()
}

// Stop gracefully shuts down the server
func (s *Server) Stop() {
	s.loop.Stop()
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		s.enqueueWait(client, clientConnected{})
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		s.enqueueWait(client, clientDisconnected{err: err})
	})

	router.On(func(client *router.NetworkClient, msg messages.JoinRequest) {
		s.enqueueWait(client, msg)
	})
	router.On(func(client *router.NetworkClient, msg messages.BoardRequest) {
		s.enqueue(client, msg)
	})
	router.On(func(client *router.NetworkClient, msg messages.DismountRequest) {
		s.enqueue(client, msg)
	})
	router.On(func(client *router.NetworkClient, msg messages.ShipControl) {
		s.enqueue(client, msg)
	})
	router.On(func(client *router.NetworkClient, msg messages.ShipMove) {
		s.enqueue(client, msg)
	})
	router.On(func(client *router.NetworkClient, msg messages.HitRequest) {
		s.enqueue(client, msg)
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		s.logger.Warn().Err(err).Str("client", client.Id()).Msg("client error")
	})
}

// enqueue hands a client message to the game loop. Messages arriving while
// the queue is full are dropped; the next one from the same client
// supersedes them.
func (s *Server) enqueue(from peer, msg any) bool {
	select {
	case s.commands <- command{from: from, msg: msg}:
		return true
	default:
		kind := fmt.Sprintf("%T", msg)
		s.metrics.droppedMessage(kind)
		s.logger.Debug().Str("client", from.Id()).Str("message", kind).Msg("queue full, message dropped")
		return false
	}
}

// enqueueWait is enqueue for lifecycle messages that must not be lost.
func (s *Server) enqueueWait(from peer, msg any) {
	s.commands <- command{from: from, msg: msg}
}

// ProcessCommands drains the message queue. Called by the game loop at the
// start of every tick.
func (s *Server) ProcessCommands() {
	for {
		select {
		case cmd := <-s.commands:
			s.handle(cmd)
		default:
			return
		}
	}
}

func (s *Server) handle(cmd command) {
	switch msg := cmd.msg.(type) {
	case clientConnected:
		s.onConnect(cmd.from)
	case clientDisconnected:
		s.onDisconnect(cmd.from, msg.err)
	case messages.JoinRequest:
		s.onJoin(cmd.from, msg)
	case messages.BoardRequest:
		s.onBoard(cmd.from, msg)
	case messages.DismountRequest:
		s.onDismount(cmd.from)
	case messages.ShipControl:
		s.onControl(cmd.from, msg)
	case messages.ShipMove:
		s.onMove(cmd.from, msg)
	case messages.HitRequest:
		s.onHit(cmd.from, msg)
	default:
		s.logger.Warn().Str("message", fmt.Sprintf("%T", msg)).Msg("unhandled message")
	}
}

// Step runs one server tick without replicating it: messages, systems,
// deferred removals and the periodic save.
func (s *Server) Step() {
	s.ProcessCommands()
	s.ecs.Update()
	s.removeDoomed()

	s.tick++
	if s.saveTicks > 0 && s.tick%s.saveTicks == 0 {
		s.SaveShips()
	}
}

func (s *Server) onConnect(p peer) {
	s.peers[p.Id()] = p
	s.logger.Info().Str("client", p.Id()).Msg("client connected")
}

func (s *Server) onDisconnect(p peer, err error) {
	if err != nil {
		s.logger.Info().Err(err).Str("client", p.Id()).Msg("client disconnected with error")
	} else {
		s.logger.Info().Str("client", p.Id()).Msg("client disconnected")
	}
	delete(s.peers, p.Id())
	s.removePilot(p.Id())
}

func (s *Server) allocID() int32 {
	s.nextID++
	return s.nextID
}

// pilotOf returns the pilot body of a joined client.
func (s *Server) pilotOf(clientID string) (*donburi.Entry, *components.BodyData, bool) {
	entity, ok := s.pilots[clientID]
	if !ok || !s.ecs.World.Valid(entity) {
		return nil, nil, false
	}
	entry := s.ecs.World.Entry(entity)
	return entry, components.Body.Get(entry), true
}

func (s *Server) shipOf(id int32) (*donburi.Entry, *skyship.Ship, bool) {
	entity, ok := s.ships[id]
	if !ok || !s.ecs.World.Valid(entity) {
		return nil, nil, false
	}
	entry := s.ecs.World.Entry(entity)
	return entry, components.Ship.Get(entry).Ship, true
}

// controls reports whether body sits in the pilot seat of ship.
func controls(ship *skyship.Ship, body *components.BodyData) bool {
	ctrl := ship.Controller()
	return ctrl != nil && ctrl.ID() == body.EntityID
}

func (s *Server) send(p peer, msg any) {
	if err := p.SendMessage(msg); err != nil {
		s.logger.Debug().Err(err).Str("client", p.Id()).Msg("send failed")
	}
}

// broadcastEvent sends msg to every client that joined the game.
func (s *Server) broadcastEvent(msg any) {
	for clientID := range s.pilots {
		if p, ok := s.peers[clientID]; ok {
			s.send(p, msg)
		}
	}
}

// World returns the ECS world
func (s *Server) World() donburi.World {
	return s.ecs.World
}

// PlayerCount returns the number of joined players
func (s *Server) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.players
}

func (s *Server) setPlayers(n int) {
	s.mu.Lock()
	s.players = n
	s.mu.Unlock()
}

func shipSpawnEvent(ship *skyship.Ship) messages.ShipSpawnEvent {
	t := ship.Transform()
	return messages.ShipSpawnEvent{
		ShipID:     ship.ID(),
		EntityType: netconfig.EntityTypeSkyShip,
		X:          t.Pos[0],
		Y:          t.Pos[1],
		Z:          t.Pos[2],
		Yaw:        t.Yaw,
		Pitch:      t.Pitch,
		Width:      ship.Width(),
		Height:     ship.Height(),
		State:      ship.Synced().Snapshot(),
	}
}
