package core

import (
	"sync"
	"time"

	"github.com/leap-fish/necs/esync/srvsync"
)

type GameLoop struct {
	server   *Server
	tickRate int
	mu       sync.Mutex
	started  bool
	running  bool
	stopChan chan struct{}
	done     chan struct{}
}

func NewGameLoop(server *Server, tickRate int) *GameLoop {
	return &GameLoop{
		server:   server,
		tickRate: tickRate,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the loop in its own goroutine. A loop starts at most once.
func (g *GameLoop) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.started {
		return
	}
	g.started, g.running = true, true
	go g.run()
}

func (g *GameLoop) run() {
	defer close(g.done)
	ticker := time.NewTicker(time.Second / time.Duration(g.tickRate))
	defer ticker.Stop()

	logger := g.server.logger
	logger.Info().Int("tick_rate", g.tickRate).Msg("game loop started")

	for {
		select {
		case <-g.stopChan:
			g.server.SaveShips()
			logger.Info().Msg("game loop stopped")
			return
		case <-ticker.C:
			g.tick()
		}
	}
}

// Stop ends a started loop and waits for the final save.
func (g *GameLoop) Stop() {
	g.mu.Lock()
	if !g.running {
		g.mu.Unlock()
		return
	}
	g.running = false
	close(g.stopChan)
	g.mu.Unlock()
	<-g.done
}

func (g *GameLoop) tick() {
	start := time.Now()
	g.server.Step()

	if err := srvsync.DoSync(); err != nil {
		g.server.logger.Error().Err(err).Msg("sync error")
	}
	g.server.metrics.tick(time.Since(start))
}
