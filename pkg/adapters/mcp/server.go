// Package mcp exposes the engine as a Model Context Protocol server so
// that agents can create turtles and draw with them.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/turtle/internal/logging"
	"github.com/aretw0/turtle/pkg/adapters/script"
	"github.com/aretw0/turtle/pkg/domain"
	"github.com/aretw0/turtle/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SnapshotURI is the resource holding the latest drawable state.
const SnapshotURI = "turtle://snapshot"

// TurtleResponse identifies turtles touched by a tool call.
type TurtleResponse struct {
	IDs    []string `json:"ids" jsonschema_description:"Identities of the affected turtles"`
	Queued int      `json:"queued" jsonschema_description:"Number of commands queued"`
}

// CreateArgs are the arguments of create_turtle.
type CreateArgs struct {
	Commands string `json:"commands,omitempty"`
}

// SubmitArgs are the arguments of submit_commands.
type SubmitArgs struct {
	ID       string `json:"id"`
	Commands string `json:"commands"`
}

// IDArgs are the arguments of tools addressing one turtle.
type IDArgs struct {
	ID string `json:"id,omitempty"`
}

// ScriptArgs are the arguments of run_script.
type ScriptArgs struct {
	Script string `json:"script"`
}

// Server wraps the engine's hand-off and snapshot and exposes them as MCP tools.
type Server struct {
	sub       ports.Submitter
	snaps     ports.SnapshotSource
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(sub ports.Submitter, snaps ports.SnapshotSource, version string, opts ...Option) *Server {
	s := &Server{
		sub:       sub,
		snaps:     snaps,
		mcpServer: server.NewMCPServer("turtle-mcp", version),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const opsHelp = "YAML or JSON list of ops, e.g. [{forward: 100}, {right: 90}, pen_up, {circle: 50}]"

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("create_turtle",
		mcp.WithDescription("Create a turtle at the origin facing right, optionally queueing commands for it."),
		mcp.WithString("commands", mcp.Description(opsHelp)),
		mcp.WithOutputSchema[TurtleResponse](),
	), mcp.NewStructuredToolHandler(s.HandleCreate))

	s.mcpServer.AddTool(mcp.NewTool("remove_turtle",
		mcp.WithDescription("Remove a turtle and its drawing."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Turtle id, e.g. 0v1")),
		mcp.WithOutputSchema[TurtleResponse](),
	), mcp.NewStructuredToolHandler(s.HandleRemove))

	s.mcpServer.AddTool(mcp.NewTool("submit_commands",
		mcp.WithDescription("Queue commands for a turtle. They start animating on the next frame."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Turtle id, e.g. 0v1")),
		mcp.WithString("commands", mcp.Required(), mcp.Description(opsHelp)),
		mcp.WithOutputSchema[TurtleResponse](),
	), mcp.NewStructuredToolHandler(s.HandleSubmit))

	s.mcpServer.AddTool(mcp.NewTool("run_script",
		mcp.WithDescription("Create one turtle per entry of a script document and queue its commands."),
		mcp.WithString("script", mcp.Required(), mcp.Description("Document of the form {turtles: [{name, commands}]}")),
		mcp.WithOutputSchema[TurtleResponse](),
	), mcp.NewStructuredToolHandler(s.HandleScript))

	s.mcpServer.AddTool(mcp.NewTool("get_drawing",
		mcp.WithDescription("Get the state and drawn primitives of one turtle, or of every turtle when id is omitted."),
		mcp.WithString("id", mcp.Description("Turtle id (optional)")),
	), s.HandleGetDrawing)
}

// HandleCreate implements create_turtle.
func (s *Server) HandleCreate(ctx context.Context, _ mcp.CallToolRequest, args CreateArgs) (TurtleResponse, error) {
	plan, err := compile(args.Commands)
	if err != nil {
		return TurtleResponse{}, err
	}
	id, err := s.sub.RequestCreate(ctx)
	if err != nil {
		return TurtleResponse{}, fmt.Errorf("create failed: %w", err)
	}
	resp := TurtleResponse{IDs: []string{id.String()}}
	if plan != nil {
		if err := s.sub.Submit(ctx, id, plan); err != nil {
			return resp, fmt.Errorf("submit failed: %w", err)
		}
		resp.Queued = plan.Len()
	}
	return resp, nil
}

// HandleRemove implements remove_turtle.
func (s *Server) HandleRemove(ctx context.Context, _ mcp.CallToolRequest, args IDArgs) (TurtleResponse, error) {
	id, err := domain.ParseTurtleID(args.ID)
	if err != nil {
		return TurtleResponse{}, err
	}
	if err := s.sub.RequestRemove(ctx, id); err != nil {
		return TurtleResponse{}, fmt.Errorf("remove failed: %w", err)
	}
	return TurtleResponse{IDs: []string{id.String()}}, nil
}

// HandleSubmit implements submit_commands.
func (s *Server) HandleSubmit(ctx context.Context, _ mcp.CallToolRequest, args SubmitArgs) (TurtleResponse, error) {
	id, err := domain.ParseTurtleID(args.ID)
	if err != nil {
		return TurtleResponse{}, err
	}
	plan, err := compile(args.Commands)
	if err != nil {
		return TurtleResponse{}, err
	}
	if plan == nil {
		return TurtleResponse{IDs: []string{id.String()}}, nil
	}
	if _, found := s.snaps.Snapshot().Turtle(id); !found {
		s.logger.Debug("submitting to a turtle absent from the latest snapshot", domain.KeyTurtleID, id.String())
	}
	if err := s.sub.Submit(ctx, id, plan); err != nil {
		return TurtleResponse{}, fmt.Errorf("submit failed: %w", err)
	}
	return TurtleResponse{IDs: []string{id.String()}, Queued: plan.Len()}, nil
}

// HandleScript implements run_script.
func (s *Server) HandleScript(ctx context.Context, _ mcp.CallToolRequest, args ScriptArgs) (TurtleResponse, error) {
	doc, err := script.Parse([]byte(args.Script))
	if err != nil {
		return TurtleResponse{}, err
	}
	ids, err := script.Submit(ctx, s.sub, doc)
	resp := TurtleResponse{IDs: make([]string, len(ids))}
	for i, id := range ids {
		resp.IDs[i] = id.String()
	}
	return resp, err
}

// HandleGetDrawing implements get_drawing.
func (s *Server) HandleGetDrawing(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := s.snaps.Snapshot()
	var payload any = snap
	if ref := request.GetString("id", ""); ref != "" {
		id, err := domain.ParseTurtleID(ref)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		t, found := snap.Turtle(id)
		if !found {
			return mcp.NewToolResultError(fmt.Sprintf("turtle %s not found", id)), nil
		}
		payload = t
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(SnapshotURI, "Latest drawing snapshot",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.snaps.Snapshot())
		if err != nil {
			return nil, fmt.Errorf("failed to encode snapshot: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      SnapshotURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

func compile(raw string) (*domain.Plan, error) {
	if raw == "" {
		return nil, nil
	}
	ops, err := script.ParseOps([]byte(raw))
	if err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return nil, nil
	}
	return script.Turtle{Commands: ops}.Compile()
}
