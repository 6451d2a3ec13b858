package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/turtle"
	"github.com/aretw0/turtle/internal/config"
	httpAdapter "github.com/aretw0/turtle/pkg/adapters/http"
	"github.com/aretw0/turtle/pkg/adapters/raster"
	"github.com/aretw0/turtle/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// engine bundles a world with the adapters the commands share.
type engine struct {
	world    *turtle.World
	canvas   *raster.Canvas
	metrics  *observability.Metrics
	gatherer *prometheus.Registry
	streams  *httpAdapter.StreamManager
}

type engineOptions struct {
	debug        bool
	streams      bool
	stopWhenIdle bool
}

// createEngine initializes a world rendering into a raster canvas, with
// metrics and event streams wired according to cfg.
func createEngine(cfg config.Config, logger *slog.Logger, opts engineOptions) (*engine, error) {
	e := &engine{
		canvas: raster.NewCanvas(cfg.Canvas.Width, cfg.Canvas.Height,
			raster.WithBackground(cfg.Background()),
			raster.WithLogger(logger),
		),
	}

	worldOpts := []turtle.Option{
		turtle.WithLogger(logger),
		turtle.WithTessellator(raster.NewTessellator()),
		turtle.WithSurface(e.canvas),
		turtle.WithFPS(cfg.FPS),
		turtle.WithInboxCapacity(cfg.InboxCapacity),
		turtle.WithStopWhenIdle(opts.stopWhenIdle),
	}

	if opts.debug {
		worldOpts = append(worldOpts, turtle.WithLifecycleHooks(observability.LoggingHooks(logger)))
	}

	if cfg.Metrics.Enabled {
		e.gatherer = prometheus.NewRegistry()
		m, err := observability.NewMetrics(e.gatherer)
		if err != nil {
			return nil, fmt.Errorf("error registering metrics: %w", err)
		}
		e.metrics = m
		worldOpts = append(worldOpts,
			turtle.WithLifecycleHooks(m.Hooks()),
			turtle.WithFrameObserver(m.ObserveFrame),
		)
	}

	if opts.streams {
		e.streams = httpAdapter.NewStreamManager(logger)
		worldOpts = append(worldOpts, turtle.WithLifecycleHooks(e.streams.Hooks()))
	}

	e.world = turtle.New(worldOpts...)

	if e.metrics != nil {
		if err := e.metrics.WatchInbox(e.world.Inbox().Len); err != nil {
			return nil, fmt.Errorf("error registering inbox gauge: %w", err)
		}
	}
	return e, nil
}

func (e *engine) Close() error {
	return e.canvas.Close()
}
