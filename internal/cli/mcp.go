package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aretw0/turtle"
	mcpAdapter "github.com/aretw0/turtle/pkg/adapters/mcp"
)

// MCPOptions configures the MCP command.
type MCPOptions struct {
	ConfigPath string
	Transport  string // stdio or sse; overrides mcp.transport
	Addr       string // overrides mcp.addr
	Debug      bool
}

// ServeMCP runs the frame loop behind an MCP server. The stdio transport
// returns when Stdin closes; SSE returns when ctx is done.
func ServeMCP(ctx context.Context, opts MCPOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Transport != "" {
		cfg.MCP.Transport = opts.Transport
	}
	if opts.Addr != "" {
		cfg.MCP.Addr = opts.Addr
	}
	logger := createLogger(cfg, opts.Debug, true)

	eng, err := createEngine(cfg, logger, engineOptions{debug: opts.Debug})
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := eng.world.Run(ctx); err != nil {
			logger.Error("frame loop failed", "err", err)
		}
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	srv := mcpAdapter.NewServer(eng.world.Inbox(), eng.world.Runner(), turtle.Version, mcpAdapter.WithLogger(logger))
	switch cfg.MCP.Transport {
	case "sse":
		return srv.ServeSSE(ctx, cfg.MCP.Addr, baseURL(cfg.MCP.Addr))
	case "stdio":
		return srv.ServeStdio()
	}
	return fmt.Errorf("unknown mcp transport %q", cfg.MCP.Transport)
}

func baseURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
