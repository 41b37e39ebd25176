package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/automoto/skyships/components"
	"github.com/automoto/skyships/config"
	"github.com/automoto/skyships/server/loot"
	"github.com/automoto/skyships/shared/messages"
	"github.com/automoto/skyships/shared/netcomponents"
	"github.com/automoto/skyships/shared/protocol"
	"github.com/automoto/skyships/shared/skyship"
	"github.com/automoto/skyships/shared/voxel"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Component registration is global and may only happen once.
	_ = protocol.RegisterComponents()
	os.Exit(m.Run())
}

type fakePeer struct {
	id   string
	sent []any
	err  error
}

func (p *fakePeer) Id() string { return p.id }

func (p *fakePeer) SendMessage(msg any) error {
	p.sent = append(p.sent, msg)
	return p.err
}

func sentOf[T any](p *fakePeer) []T {
	var out []T
	for _, msg := range p.sent {
		if v, ok := msg.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

type memoryItems map[string][]byte

func (m memoryItems) LoadItem(key string) ([]byte, error) { return m[key], nil }

func (m memoryItems) SaveItem(key string, data []byte) error {
	m[key] = data
	return nil
}

func testLevel() *voxel.Level {
	stone, _ := voxel.BlockByName("stone")
	g := voxel.NewGrid()
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			g.SetBlock(cube.Pos{x, 0, z}, stone)
		}
	}
	return &voxel.Level{
		Name:  "test",
		Grid:  g,
		Width: 16,
		Depth: 16,
		Spawns: []voxel.Spawn{
			{Kind: "ship", Pos: mgl64.Vec3{8.5, 1, 8.5}, Yaw: 90, Index: 0},
			{Kind: "pilot", Pos: mgl64.Vec3{3, 1, 3}, Index: 1},
		},
	}
}

func testConfig() config.ServerConfig {
	return config.ServerConfig{
		Name:        "test server",
		TickRate:    20,
		Version:     "1.0",
		WorldMap:    "harbor.tmx",
		MaxPilots:   2,
		EntityDrops: true,
	}
}

func newTestServer(t *testing.T, mutate func(*Options)) *Server {
	t.Helper()
	tables, err := loot.Load(filepath.Join("..", "loot", "testdata", "tables.yaml"))
	require.NoError(t, err)

	opts := Options{
		Config: testConfig(),
		Level:  testLevel(),
		Loot:   loot.NewResolver(tables, 1),
		Store:  NewTransformStore(memoryItems{}),
		Logger: zerolog.Nop(),
	}
	if mutate != nil {
		mutate(&opts)
	}
	s, err := NewServer(opts)
	require.NoError(t, err)
	return s
}

// join connects a fake client and returns it with its pilot id.
func join(t *testing.T, s *Server, id string) (*fakePeer, int32) {
	t.Helper()
	p := &fakePeer{id: id}
	s.enqueueWait(p, clientConnected{})
	s.enqueueWait(p, messages.JoinRequest{Version: "1.0", PilotName: id})
	s.ProcessCommands()

	accepted := sentOf[messages.JoinAccepted](p)
	require.Len(t, accepted, 1)
	return p, accepted[0].PilotID
}

// onlyShip returns the single ship of the test level.
func onlyShip(t *testing.T, s *Server) *skyship.Ship {
	t.Helper()
	require.Len(t, s.ships, 1)
	for id := range s.ships {
		_, ship, ok := s.shipOf(id)
		require.True(t, ok)
		return ship
	}
	return nil
}

func TestNewServerSpawnsLevel(t *testing.T) {
	s := newTestServer(t, nil)

	ship := onlyShip(t, s)
	assert.Equal(t, mgl64.Vec3{8.5, 1, 8.5}, ship.Position())
	assert.Equal(t, 90.0, ship.Rotation().Yaw)
	assert.Equal(t, skyship.DefaultWidth, ship.Width())
	assert.Equal(t, 0, s.PlayerCount())
}

func TestNewServerValidatesOptions(t *testing.T) {
	_, err := NewServer(Options{Config: testConfig()})
	assert.Error(t, err)

	cfg := testConfig()
	cfg.TickRate = 0
	_, err = NewServer(Options{Config: cfg, Level: testLevel()})
	assert.Error(t, err)
}

func TestSpawnUsesSavedTransform(t *testing.T) {
	items := memoryItems{"ship-0": []byte(`{"x":2.5,"y":3,"z":4.5,"yaw":-45,"pitch":0}`)}
	s := newTestServer(t, func(o *Options) { o.Store = NewTransformStore(items) })

	ship := onlyShip(t, s)
	assert.Equal(t, mgl64.Vec3{2.5, 3, 4.5}, ship.Position())
	assert.Equal(t, -45.0, ship.Rotation().Yaw)
}

func TestSpawnCreatures(t *testing.T) {
	s := newTestServer(t, func(o *Options) {
		o.Level.Spawns = append(o.Level.Spawns, voxel.Spawn{Kind: "creature", Pos: mgl64.Vec3{12, 1, 12}, Index: 2})
	})

	assert.Len(t, s.bodies, 1)
	assert.Len(t, s.index.EntitiesWithin(cube.Box(11, 0, 11, 13, 2, 13)), 1)
}

func TestJoinCreatesPilot(t *testing.T) {
	s := newTestServer(t, nil)
	p, pilotID := join(t, s, "client-1")

	accepted := sentOf[messages.JoinAccepted](p)[0]
	assert.Equal(t, "test server", accepted.ServerName)
	assert.Equal(t, 20, accepted.TickRate)
	assert.Equal(t, "harbor.tmx", accepted.WorldMap)
	assert.NotZero(t, pilotID)

	spawns := sentOf[messages.ShipSpawnEvent](p)
	require.Len(t, spawns, 1)
	assert.Equal(t, onlyShip(t, s).ID(), spawns[0].ShipID)
	assert.Equal(t, 1, spawns[0].State.HurtDir)

	_, body, ok := s.pilotOf("client-1")
	require.True(t, ok)
	assert.Equal(t, pilotID, body.EntityID)
	assert.Equal(t, mgl64.Vec3{3, 1, 3}, body.Pos)
	assert.Equal(t, 1, s.PlayerCount())
}

func TestJoinRejections(t *testing.T) {
	t.Run("version mismatch", func(t *testing.T) {
		s := newTestServer(t, nil)
		p := &fakePeer{id: "old"}
		s.enqueueWait(p, messages.JoinRequest{Version: "0.9"})
		s.ProcessCommands()

		rejected := sentOf[messages.JoinRejected](p)
		require.Len(t, rejected, 1)
		assert.Contains(t, rejected[0].Reason, "version mismatch")
		assert.Equal(t, 0, s.PlayerCount())
	})

	t.Run("server full", func(t *testing.T) {
		s := newTestServer(t, func(o *Options) { o.Config.MaxPilots = 1 })
		join(t, s, "first")

		p := &fakePeer{id: "second"}
		s.enqueueWait(p, messages.JoinRequest{Version: "1.0"})
		s.ProcessCommands()

		rejected := sentOf[messages.JoinRejected](p)
		require.Len(t, rejected, 1)
		assert.Equal(t, "server full", rejected[0].Reason)
		assert.Equal(t, 1, s.PlayerCount())
	})

	t.Run("any version when unset", func(t *testing.T) {
		s := newTestServer(t, func(o *Options) { o.Config.Version = "" })
		p := &fakePeer{id: "dev"}
		s.enqueueWait(p, messages.JoinRequest{Version: "snapshot"})
		s.ProcessCommands()

		assert.Len(t, sentOf[messages.JoinAccepted](p), 1)
	})
}

func TestBoardAndControl(t *testing.T) {
	s := newTestServer(t, nil)
	p, pilotID := join(t, s, "pilot")
	ship := onlyShip(t, s)

	s.enqueue(p, messages.BoardRequest{ShipID: ship.ID()})
	s.ProcessCommands()

	_, body, _ := s.pilotOf("pilot")
	assert.Equal(t, ship.ID(), body.VehicleID)
	require.NotNil(t, ship.Controller())
	assert.Equal(t, pilotID, ship.Controller().ID())

	s.enqueue(p, messages.ShipControl{Sequence: 1, ShipID: ship.ID(), PaddleLeft: true, Vertical: 1})
	s.Step()

	sy := ship.Synced()
	assert.True(t, sy.PaddleLeft())
	assert.False(t, sy.PaddleRight())
	assert.Equal(t, 1, sy.Vertical())

	entry, _, _ := s.shipOf(ship.ID())
	state := netcomponents.NetShipState.Get(entry)
	assert.True(t, state.PaddleLeft)
	assert.Equal(t, []int32{pilotID}, netcomponents.NetPassengers.Get(entry).Seats)

	// A stale sequence is ignored.
	s.enqueue(p, messages.ShipControl{Sequence: 1, ShipID: ship.ID(), PaddleRight: true})
	s.ProcessCommands()
	assert.False(t, sy.PaddleRight())
}

func TestControlFromPassengerIgnored(t *testing.T) {
	s := newTestServer(t, nil)
	driver, _ := join(t, s, "driver")
	rider, _ := join(t, s, "rider")
	ship := onlyShip(t, s)

	s.enqueue(driver, messages.BoardRequest{ShipID: ship.ID()})
	s.enqueue(rider, messages.BoardRequest{ShipID: ship.ID()})
	s.enqueue(rider, messages.ShipControl{Sequence: 1, ShipID: ship.ID(), PaddleRight: true})
	s.enqueue(rider, messages.ShipMove{ShipID: ship.ID(), X: 1, Y: 1, Z: 1})
	s.ProcessCommands()

	assert.Len(t, ship.Passengers(), 2)
	assert.False(t, ship.Synced().PaddleRight())
	assert.Equal(t, mgl64.Vec3{8.5, 1, 8.5}, ship.Position())
}

func TestMoveFromController(t *testing.T) {
	s := newTestServer(t, nil)
	p, _ := join(t, s, "pilot")
	ship := onlyShip(t, s)

	s.enqueue(p, messages.BoardRequest{ShipID: ship.ID()})
	s.enqueue(p, messages.ShipMove{ShipID: ship.ID(), X: 9, Y: 1.2, Z: 8, Yaw: 120, Pitch: 0})
	s.ProcessCommands()

	assert.Equal(t, mgl64.Vec3{9, 1.2, 8}, ship.Position())
	assert.Equal(t, 120.0, ship.Rotation().Yaw)
}

func TestSneakingBoardPasses(t *testing.T) {
	s := newTestServer(t, nil)
	p, _ := join(t, s, "pilot")
	ship := onlyShip(t, s)

	s.enqueue(p, messages.BoardRequest{ShipID: ship.ID(), Sneaking: true})
	s.ProcessCommands()

	assert.Empty(t, ship.Passengers())
}

func TestDismount(t *testing.T) {
	s := newTestServer(t, nil)
	p, _ := join(t, s, "pilot")
	ship := onlyShip(t, s)

	s.enqueue(p, messages.BoardRequest{ShipID: ship.ID()})
	s.Step()
	s.enqueue(p, messages.DismountRequest{})
	s.ProcessCommands()

	_, body, _ := s.pilotOf("pilot")
	assert.Zero(t, body.VehicleID)
	assert.Empty(t, ship.Passengers())
	assert.GreaterOrEqual(t, body.Pos[1], ship.BoundingBox().Max()[1])
}

func TestHitsBreakShip(t *testing.T) {
	items := memoryItems{}
	s := newTestServer(t, func(o *Options) { o.Store = NewTransformStore(items) })
	p, pilotID := join(t, s, "pilot")
	ship := onlyShip(t, s)
	s.SaveShips()
	require.NotEmpty(t, items["ship-0"])

	for i := 0; i < 5; i++ {
		s.enqueue(p, messages.HitRequest{ShipID: ship.ID(), Amount: 1})
	}
	s.Step()

	hurts := sentOf[messages.ShipHurtEvent](p)
	require.Len(t, hurts, 5)
	assert.Equal(t, pilotID, hurts[0].SourceID)
	assert.Equal(t, float32(10), hurts[0].Damage)
	assert.Equal(t, -1, hurts[0].HurtDir)

	drops := sentOf[messages.LootDropEvent](p)
	require.Len(t, drops, 1)
	assert.Equal(t, "skyships:sky_ship", drops[0].Item)

	destroyed := sentOf[messages.ShipDestroyedEvent](p)
	require.Len(t, destroyed, 1)
	assert.Equal(t, pilotID, destroyed[0].KillerID)

	assert.Contains(t, sentOf[messages.DespawnEvent](p), messages.DespawnEvent{EntityID: ship.ID()})
	assert.Empty(t, s.ships)
	assert.Empty(t, items["ship-0"], "destroyed ships respawn at their level position")
	assert.Empty(t, s.index.EntitiesWithin(ship.BoundingBox()))
}

func TestHitIgnoresInvalidAmounts(t *testing.T) {
	s := newTestServer(t, nil)
	p, _ := join(t, s, "pilot")
	ship := onlyShip(t, s)

	s.enqueue(p, messages.HitRequest{ShipID: ship.ID(), Amount: 0})
	s.enqueue(p, messages.HitRequest{ShipID: ship.ID(), Amount: -3})
	s.ProcessCommands()

	assert.Empty(t, sentOf[messages.ShipHurtEvent](p))
	assert.Equal(t, float32(0), ship.Synced().Damage())
}

func TestInvulnerableShipsSurvive(t *testing.T) {
	s := newTestServer(t, func(o *Options) { o.Ship.Invulnerable = true })
	p, _ := join(t, s, "pilot")
	ship := onlyShip(t, s)

	for i := 0; i < 10; i++ {
		s.enqueue(p, messages.HitRequest{ShipID: ship.ID(), Amount: 5})
	}
	s.Step()

	assert.True(t, ship.Alive())
	assert.Len(t, s.ships, 1)
}

func TestDisconnectRemovesPilot(t *testing.T) {
	s := newTestServer(t, nil)
	p, pilotID := join(t, s, "pilot")
	watcher, _ := join(t, s, "watcher")
	ship := onlyShip(t, s)

	s.enqueue(p, messages.BoardRequest{ShipID: ship.ID()})
	s.Step()
	s.enqueueWait(p, clientDisconnected{err: errors.New("connection reset")})
	s.ProcessCommands()

	_, _, ok := s.pilotOf("pilot")
	assert.False(t, ok)
	assert.Empty(t, ship.Passengers())
	assert.Equal(t, 1, s.PlayerCount())
	assert.Contains(t, sentOf[messages.DespawnEvent](watcher), messages.DespawnEvent{EntityID: pilotID})
}

func TestQueueFullDropsMessages(t *testing.T) {
	s := newTestServer(t, nil)
	p := &fakePeer{id: "spam"}

	for i := 0; i < commandQueueSize; i++ {
		require.True(t, s.enqueue(p, messages.ShipControl{Sequence: uint32(i + 1)}))
	}
	assert.False(t, s.enqueue(p, messages.ShipControl{Sequence: commandQueueSize + 1}))

	s.ProcessCommands()
	assert.True(t, s.enqueue(p, messages.ShipControl{}))
}

func TestStepSavesPeriodically(t *testing.T) {
	items := memoryItems{}
	s := newTestServer(t, func(o *Options) {
		o.Store = NewTransformStore(items)
		o.Config.SaveEvery = time.Second
	})

	for i := 0; i < 19; i++ {
		s.Step()
	}
	assert.Empty(t, items)

	s.Step()
	require.Contains(t, items, "ship-0")

	saved, ok, err := s.store.Load(0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 8.5, saved.Pos[0], 1e-9)
	assert.Equal(t, 90.0, saved.Yaw)
}

func TestShipSettlesOnFloor(t *testing.T) {
	s := newTestServer(t, func(o *Options) {
		o.Level.Spawns[0].Pos = mgl64.Vec3{8.5, 3, 8.5}
	})
	ship := onlyShip(t, s)

	for i := 0; i < 200; i++ {
		s.Step()
	}

	assert.InDelta(t, 1.0, ship.Position()[1], 1e-6)
	entry, _, _ := s.shipOf(ship.ID())
	assert.InDelta(t, 1.0, netcomponents.NetTransform.Get(entry).Y, 1e-6)
	assert.Zero(t, components.Ship.Get(entry).SpawnIndex)
}

func TestUnknownSendersAreIgnored(t *testing.T) {
	s := newTestServer(t, nil)
	ship := onlyShip(t, s)
	stranger := &fakePeer{id: "stranger"}

	for _, msg := range []any{
		messages.BoardRequest{ShipID: ship.ID()},
		messages.DismountRequest{},
		messages.ShipControl{Sequence: 1, ShipID: ship.ID(), PaddleLeft: true},
		messages.ShipMove{ShipID: ship.ID()},
		messages.HitRequest{ShipID: ship.ID(), Amount: 100},
		messages.HitRequest{ShipID: 999, Amount: 1},
	} {
		t.Run(fmt.Sprintf("%T", msg), func(t *testing.T) {
			s.enqueue(stranger, msg)
			s.ProcessCommands()
		})
	}

	assert.Empty(t, ship.Passengers())
	assert.True(t, ship.Alive())
	assert.False(t, ship.Synced().PaddleLeft())
	assert.Empty(t, stranger.sent)
}

func TestTransformStoreRoundTrip(t *testing.T) {
	store := NewTransformStore(memoryItems{})

	_, ok, err := store.Load(3)
	require.NoError(t, err)
	assert.False(t, ok)

	want := skyship.Transform{Pos: mgl64.Vec3{1, 2, 3}, Yaw: 45, Pitch: -10}
	require.NoError(t, store.Save(3, want))
	got, ok, err := store.Load(3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	require.NoError(t, store.Forget(3))
	_, ok, err = store.Load(3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTransformStoreRejectsGarbage(t *testing.T) {
	store := NewTransformStore(memoryItems{"ship-1": []byte("{")})

	_, _, err := store.Load(1)
	assert.Error(t, err)

	var none *TransformStore
	_, ok, err := none.Load(1)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, none.Save(1, skyship.Transform{}))
}

func TestLoopStopRightAfterStartSaves(t *testing.T) {
	items := memoryItems{}
	s := newTestServer(t, func(o *Options) { o.Store = NewTransformStore(items) })

	s.loop.Start()
	s.loop.Stop()

	assert.Contains(t, items, "ship-0", "the final save ran before Stop returned")
	select {
	case <-s.loop.done:
	default:
		t.Fatal("loop goroutine still running")
	}
}

func TestLoopStopIsIdempotent(t *testing.T) {
	s := newTestServer(t, nil)

	s.loop.Stop()
	s.loop.Start()
	s.loop.Start()
	s.loop.Stop()
	s.loop.Stop()
	s.loop.Start()

	_, open := <-s.loop.done
	assert.False(t, open)
	assert.False(t, s.loop.running, "a stopped loop does not start again")
}
