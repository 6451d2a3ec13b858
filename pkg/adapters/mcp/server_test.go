package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	turtlemcp "github.com/aretw0/turtle/pkg/adapters/mcp"
	"github.com/aretw0/turtle/pkg/domain"
	"github.com/aretw0/turtle/pkg/registry"
	"github.com/aretw0/turtle/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *turtlemcp.Server {
	t.Helper()
	reg := registry.New()
	r := runner.NewRunner(reg, runner.WithFPS(240))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return turtlemcp.NewServer(reg.Inbox(), r, "test")
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func drawing(t *testing.T, s *turtlemcp.Server, id string) (domain.TurtleSnapshot, bool) {
	t.Helper()
	res, err := s.HandleGetDrawing(context.Background(), callRequest(map[string]any{"id": id}))
	require.NoError(t, err)
	if res.IsError {
		return domain.TurtleSnapshot{}, false
	}
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	var snap domain.TurtleSnapshot
	require.NoError(t, json.Unmarshal([]byte(text.Text), &snap))
	return snap, true
}

func TestServer_DrawAndInspect(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	created, err := s.HandleCreate(ctx, mcp.CallToolRequest{}, turtlemcp.CreateArgs{
		Commands: `[{speed: 100000}, {forward: 40}]`,
	})
	require.NoError(t, err)
	require.Len(t, created.IDs, 1)
	assert.Equal(t, 2, created.Queued)
	id := created.IDs[0]

	sub, err := s.HandleSubmit(ctx, mcp.CallToolRequest{}, turtlemcp.SubmitArgs{
		ID:       id,
		Commands: `[{"right": 90}, {"forward": 10}]`,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, sub.Queued)

	var snap domain.TurtleSnapshot
	require.Eventually(t, func() bool {
		s, ok := drawing(t, s, id)
		snap = s
		return ok && s.Status == "done" && s.Pending == 0
	}, 5*time.Second, 10*time.Millisecond)

	assert.InDelta(t, 40, snap.State.Position.X, 1e-9)
	assert.InDelta(t, 10, snap.State.Position.Y, 1e-9)

	_, err = s.HandleRemove(ctx, mcp.CallToolRequest{}, turtlemcp.IDArgs{ID: id})
	require.NoError(t, err)
	_, err = s.HandleRemove(ctx, mcp.CallToolRequest{}, turtlemcp.IDArgs{ID: id})
	assert.ErrorIs(t, err, domain.ErrTurtleNotFound)
}

func TestServer_Script(t *testing.T) {
	s := newServer(t)
	resp, err := s.HandleScript(context.Background(), mcp.CallToolRequest{}, turtlemcp.ScriptArgs{
		Script: "turtles: [{name: a, commands: [pen_up]}, {name: b}]",
	})
	require.NoError(t, err)
	assert.Len(t, resp.IDs, 2)
}

func TestServer_Errors(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	_, err := s.HandleCreate(ctx, mcp.CallToolRequest{}, turtlemcp.CreateArgs{Commands: `[jump]`})
	assert.Error(t, err)

	_, err = s.HandleSubmit(ctx, mcp.CallToolRequest{}, turtlemcp.SubmitArgs{ID: "nope", Commands: "[pen_up]"})
	assert.Error(t, err)

	res, err := s.HandleGetDrawing(ctx, callRequest(map[string]any{"id": "42v9"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
