package network

import (
	"context"
	"fmt"
	"sync"

	"github.com/automoto/skyships/shared/messages"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/rs/zerolog"
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateJoinedGame
	StateError
)

func (s ClientState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateJoinedGame:
		return "joined"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("ClientState(%d)", int(s))
	}
}

const eventBuffer = 16

// Client manages a WebSocket connection to the game server.
// All shared fields are protected by mu (router callbacks run on necs goroutines).
type Client struct {
	mu     sync.RWMutex
	logger zerolog.Logger

	state      ClientState
	lastError  error
	networkID  esync.NetworkId
	pilotID    int32
	serverName string
	tickRate   int
	worldMap   string
	conn       *websocket.Conn

	snapshotCh chan esync.WorldSnapshot // size-1 buffered; latest wins

	spawnCh     chan messages.ShipSpawnEvent
	hurtCh      chan messages.ShipHurtEvent
	strokeCh    chan messages.PaddleStrokeEvent
	ejectedCh   chan messages.PassengersEjectedEvent
	lootCh      chan messages.LootDropEvent
	destroyedCh chan messages.ShipDestroyedEvent
	despawnCh   chan messages.DespawnEvent
}

func NewClient(logger zerolog.Logger) *Client {
	return &Client{
		logger:      logger.With().Str("component", "client").Logger(),
		state:       StateDisconnected,
		snapshotCh:  make(chan esync.WorldSnapshot, 1),
		spawnCh:     make(chan messages.ShipSpawnEvent, eventBuffer),
		hurtCh:      make(chan messages.ShipHurtEvent, eventBuffer),
		strokeCh:    make(chan messages.PaddleStrokeEvent, eventBuffer),
		ejectedCh:   make(chan messages.PassengersEjectedEvent, eventBuffer),
		lootCh:      make(chan messages.LootDropEvent, eventBuffer),
		destroyedCh: make(chan messages.ShipDestroyedEvent, eventBuffer),
		despawnCh:   make(chan messages.DespawnEvent, eventBuffer),
	}
}

// Connect dials the server in a background goroutine and initiates the join handshake.
func (c *Client) Connect(address, version, pilotName string) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		c.logger.Info().Str("address", address).Msg("connected to server")
		c.mu.Lock()
		c.state = StateConnected
		c.mu.Unlock()

		c.mu.RLock()
		conn := c.conn
		c.mu.RUnlock()
		if conn == nil {
			return
		}
		if err := c.SendMessage(messages.JoinRequest{
			Version:   version,
			PilotName: pilotName,
		}); err != nil {
			c.setError(fmt.Errorf("failed to send join request: %w", err))
		}
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinAccepted) {
		c.logger.Info().
			Uint("network_id", uint(msg.NetworkID)).
			Int32("pilot", msg.PilotID).
			Str("server", msg.ServerName).
			Int("tick_rate", msg.TickRate).
			Msg("join accepted")
		c.mu.Lock()
		c.networkID = msg.NetworkID
		c.pilotID = msg.PilotID
		c.serverName = msg.ServerName
		c.tickRate = msg.TickRate
		c.worldMap = msg.WorldMap
		c.state = StateJoinedGame
		c.mu.Unlock()
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinRejected) {
		c.logger.Warn().Str("reason", msg.Reason).Msg("join rejected")
		c.setError(fmt.Errorf("join rejected: %s", msg.Reason))
	})

	router.On(func(_ *router.NetworkClient, snapshot esync.WorldSnapshot) {
		select { // drain stale, push latest
		case <-c.snapshotCh:
		default:
		}
		c.snapshotCh <- snapshot
	})

	router.On(func(_ *router.NetworkClient, evt messages.ShipSpawnEvent) { offer(c.spawnCh, evt) })
	router.On(func(_ *router.NetworkClient, evt messages.ShipHurtEvent) { offer(c.hurtCh, evt) })
	router.On(func(_ *router.NetworkClient, evt messages.PaddleStrokeEvent) { offer(c.strokeCh, evt) })
	router.On(func(_ *router.NetworkClient, evt messages.PassengersEjectedEvent) { offer(c.ejectedCh, evt) })
	router.On(func(_ *router.NetworkClient, evt messages.LootDropEvent) { offer(c.lootCh, evt) })
	router.On(func(_ *router.NetworkClient, evt messages.ShipDestroyedEvent) { offer(c.destroyedCh, evt) })
	router.On(func(_ *router.NetworkClient, evt messages.DespawnEvent) { offer(c.despawnCh, evt) })

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		c.logger.Info().Err(err).Msg("disconnected")
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		c.logger.Warn().Err(err).Msg("network error")
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

func (c *Client) NetworkID() esync.NetworkId {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.networkID
}

// PilotID is the entity id of the client's pilot body, 0 before joining.
func (c *Client) PilotID() int32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pilotID
}

func (c *Client) WorldMap() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.worldMap
}

func (c *Client) TickRate() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tickRate
}

// LatestSnapshot returns the most recent WorldSnapshot, or nil. Non-blocking.
func (c *Client) LatestSnapshot() *esync.WorldSnapshot {
	select {
	case snap := <-c.snapshotCh:
		return &snap
	default:
		return nil
	}
}

func (c *Client) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("not connected")
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}

// DrainSpawnEvents returns all pending ship spawn events, non-blocking.
func (c *Client) DrainSpawnEvents() []messages.ShipSpawnEvent {
	return drainChan(c.spawnCh)
}

// DrainHurtEvents returns all pending hurt events, non-blocking.
func (c *Client) DrainHurtEvents() []messages.ShipHurtEvent {
	return drainChan(c.hurtCh)
}

// DrainStrokeEvents returns all pending paddle stroke events, non-blocking.
func (c *Client) DrainStrokeEvents() []messages.PaddleStrokeEvent {
	return drainChan(c.strokeCh)
}

// DrainEjectedEvents returns all pending ejection events, non-blocking.
func (c *Client) DrainEjectedEvents() []messages.PassengersEjectedEvent {
	return drainChan(c.ejectedCh)
}

// DrainLootEvents returns all pending loot drop events, non-blocking.
func (c *Client) DrainLootEvents() []messages.LootDropEvent {
	return drainChan(c.lootCh)
}

// DrainDestroyedEvents returns all pending ship destroyed events, non-blocking.
func (c *Client) DrainDestroyedEvents() []messages.ShipDestroyedEvent {
	return drainChan(c.destroyedCh)
}

// DrainDespawnEvents returns all pending despawn events, non-blocking.
func (c *Client) DrainDespawnEvents() []messages.DespawnEvent {
	return drainChan(c.despawnCh)
}

// offer queues v unless ch is full; cosmetic events may be lost.
func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
