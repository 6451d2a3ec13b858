package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/aretw0/turtle"
	"github.com/aretw0/turtle/internal/config"
	httpAdapter "github.com/aretw0/turtle/pkg/adapters/http"
	redisAdapter "github.com/aretw0/turtle/pkg/adapters/redis"
	"github.com/aretw0/turtle/pkg/adapters/script"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
)

const (
	shutdownTimeout  = 5 * time.Second
	snapshotInterval = time.Second
	leaseTTL         = 30 * time.Second
)

// ServeOptions configures the Serve command.
type ServeOptions struct {
	ConfigPath string
	Addr       string   // overrides http.addr
	RedisAddr  string   // enables the Redis source when set
	Scripts    []string // submitted once the frame loop is running
	Debug      bool
	// Ready is called with the bound address once the listener is open.
	Ready func(addr string)
}

// Serve runs the frame loop in real time behind the HTTP API until ctx is
// done, optionally consuming commands from Redis.
func Serve(ctx context.Context, opts ServeOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Addr != "" {
		cfg.HTTP.Addr = opts.Addr
	}
	if opts.RedisAddr != "" {
		cfg.Redis.Enabled = true
		cfg.Redis.Addr = opts.RedisAddr
	}
	logger := createLogger(cfg, opts.Debug, true)

	eng, err := createEngine(cfg, logger, engineOptions{debug: opts.Debug, streams: true})
	if err != nil {
		return err
	}
	defer eng.Close()

	srvOpts := []httpAdapter.Option{
		httpAdapter.WithLogger(logger),
		httpAdapter.WithImage(eng.canvas),
		httpAdapter.WithStreams(eng.streams),
		httpAdapter.WithVersion(turtle.Version),
	}
	if eng.gatherer != nil {
		srvOpts = append(srvOpts, httpAdapter.WithMetricsHandler(promhttp.HandlerFor(eng.gatherer, promhttp.HandlerOpts{})))
	}
	api := httpAdapter.NewServer(eng.world.Inbox(), eng.world.Runner(), srvOpts...)

	ln, err := net.Listen("tcp", cfg.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("error listening on %s: %w", cfg.HTTP.Addr, err)
	}
	srv := &http.Server{
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	spawn := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				errs <- err
			}
		}()
	}

	spawn(func() error { return eng.world.Run(ctx) })

	if cfg.Redis.Enabled {
		client := goredis.NewClient(&goredis.Options{Addr: cfg.Redis.Addr})
		defer client.Close()
		spawn(func() error { return runRedis(ctx, client, eng, cfg.Redis, logger) })
	}

	if len(opts.Scripts) > 0 {
		spawn(func() error {
			submitScripts(ctx, eng, opts.Scripts, logger)
			return nil
		})
	}

	go func() {
		logger.Info("HTTP server listening", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()
	if opts.Ready != nil {
		opts.Ready(ln.Addr().String())
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errs:
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
		_ = srv.Close()
	}
	cancel()
	wg.Wait()
	logger.Info("server stopped", "frames", eng.world.Snapshot().Frame)
	return runErr
}

// runRedis consumes the command queue and periodically publishes the latest
// snapshot next to it.
func runRedis(ctx context.Context, client *goredis.Client, eng *engine, cfg config.RedisConfig, logger *slog.Logger) error {
	srcOpts := []redisAdapter.Option{
		redisAdapter.WithPrefix(cfg.Prefix),
		redisAdapter.WithLogger(logger),
	}
	if cfg.Exclusive {
		srcOpts = append(srcOpts, redisAdapter.WithExclusive(leaseTTL))
	}
	src := redisAdapter.NewSource(client, eng.world.Inbox(), srcOpts...)
	pub := redisAdapter.NewPublisher(client, cfg.Prefix)

	go func() {
		ticker := time.NewTicker(snapshotInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := pub.PublishSnapshot(ctx, eng.world.Snapshot(), 10*snapshotInterval); err != nil && ctx.Err() == nil {
					logger.Warn("failed to publish snapshot", "err", err)
				}
			}
		}
	}()

	return src.Run(ctx)
}

func submitScripts(ctx context.Context, eng *engine, paths []string, logger *slog.Logger) {
	for _, path := range paths {
		doc, err := script.Load(path)
		if err != nil {
			logger.Error("failed to load script", "path", path, "err", err)
			continue
		}
		ids, err := script.Submit(ctx, eng.world.Inbox(), doc)
		if err != nil {
			if ctx.Err() == nil {
				logger.Error("failed to submit script", "path", path, "err", err)
			}
			return
		}
		logger.Info("script submitted", "path", path, "turtles", len(ids))
	}
}
