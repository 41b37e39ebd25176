package core

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/automoto/skyships/server/core"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// serverMetrics are reported through the global OTel meter provider, a no-op
// unless the host installs one.
type serverMetrics struct {
	ticks            metric.Int64Counter
	tickDuration     metric.Float64Histogram
	shipsDestroyed   metric.Int64Counter
	passengersThrown metric.Int64Counter
	dropped          metric.Int64Counter
	queueSize        metric.Int64ObservableGauge
}

func newServerMetrics(queueLen func() int) (*serverMetrics, error) {
	m := meter()
	sm := &serverMetrics{}

	var err error
	sm.ticks, err = m.Int64Counter(
		"server.ticks",
		metric.WithDescription("Total game loop ticks"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick counter: %w", err)
	}

	sm.tickDuration, err = m.Float64Histogram(
		"server.tick.duration",
		metric.WithDescription("Time spent simulating one tick"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick duration histogram: %w", err)
	}

	sm.shipsDestroyed, err = m.Int64Counter(
		"ships.destroyed",
		metric.WithDescription("Ships broken by damage"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating destroyed counter: %w", err)
	}

	sm.passengersThrown, err = m.Int64Counter(
		"ships.passengers.ejected",
		metric.WithDescription("Passengers thrown off submerged ships"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ejected counter: %w", err)
	}

	sm.dropped, err = m.Int64Counter(
		"server.messages.dropped",
		metric.WithDescription("Client messages dropped due to full queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}

	sm.queueSize, err = m.Int64ObservableGauge(
		"server.queue.size",
		metric.WithDescription("Current number of queued client messages"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating queue size gauge: %w", err)
	}
	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(sm.queueSize, int64(queueLen()))
			return nil
		},
		sm.queueSize,
	)
	if err != nil {
		return nil, fmt.Errorf("registering queue callback: %w", err)
	}

	return sm, nil
}

func (sm *serverMetrics) tick(d time.Duration) {
	ctx := context.Background()
	sm.ticks.Add(ctx, 1)
	sm.tickDuration.Record(ctx, float64(d.Microseconds())/1000)
}

func (sm *serverMetrics) shipDestroyed(killed bool) {
	sm.shipsDestroyed.Add(context.Background(), 1,
		metric.WithAttributes(attribute.Bool("killed", killed)))
}

func (sm *serverMetrics) ejected(n int) {
	sm.passengersThrown.Add(context.Background(), int64(n))
}

func (sm *serverMetrics) droppedMessage(kind string) {
	sm.dropped.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("message", kind)))
}
