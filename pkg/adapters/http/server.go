// Package http exposes the engine over a small REST API built on chi:
// turtles are created, fed with script ops and inspected through JSON
// endpoints, engine events stream over SSE, and the rendered frame is
// available as PNG.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/turtle/internal/logging"
	"github.com/aretw0/turtle/pkg/adapters/script"
	"github.com/aretw0/turtle/pkg/domain"
	"github.com/aretw0/turtle/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// PNGEncoder renders the current frame as PNG.
type PNGEncoder interface {
	EncodePNG(w io.Writer) error
}

// Server holds the collaborators behind the routes.
type Server struct {
	sub     ports.Submitter
	snaps   ports.SnapshotSource
	image   PNGEncoder
	metrics http.Handler
	streams *StreamManager
	version string
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithImage serves GET /frame.png from enc.
func WithImage(enc PNGEncoder) Option {
	return func(s *Server) {
		s.image = enc
	}
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithStreams shares a StreamManager whose hooks are wired to the engine.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.streams = sm
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewServer creates a Server.
func NewServer(sub ports.Submitter, snaps ports.SnapshotSource, opts ...Option) *Server {
	s := &Server{
		sub:     sub,
		snaps:   snaps,
		version: "dev",
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.streams == nil {
		s.streams = NewStreamManager(s.logger)
	}
	return s
}

// Streams returns the event stream manager.
func (s *Server) Streams() *StreamManager { return s.streams }

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/snapshot", s.GetSnapshot)
	r.Get("/events", s.SubscribeEvents)
	r.Post("/scripts", s.PostScript)
	r.Route("/turtles", func(r chi.Router) {
		r.Get("/", s.ListTurtles)
		r.Post("/", s.CreateTurtle)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetTurtle)
			r.Delete("/", s.RemoveTurtle)
			r.Post("/commands", s.PostCommands)
		})
	})
	if s.image != nil {
		r.Get("/frame.png", s.GetFrame)
	}
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TurtleSummary is the list view of a turtle.
type TurtleSummary struct {
	ID       string       `json:"id"`
	Status   string       `json:"status"`
	Pending  int          `json:"pending"`
	Position domain.Point `json:"position"`
	Heading  domain.Angle `json:"heading"`
}

// CreateResponse is returned when turtles are created.
type CreateResponse struct {
	IDs []string `json:"ids"`
}

type commandsRequest struct {
	Commands []any `json:"commands"`
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "turtle",
		"version": s.version,
		"frame":   s.snaps.Snapshot().Frame,
	})
}

// GetSnapshot handles GET /snapshot.
func (s *Server) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.snaps.Snapshot())
}

// ListTurtles handles GET /turtles.
func (s *Server) ListTurtles(w http.ResponseWriter, r *http.Request) {
	snap := s.snaps.Snapshot()
	out := make([]TurtleSummary, 0, len(snap.Turtles))
	for _, t := range snap.Turtles {
		out = append(out, TurtleSummary{
			ID:       t.ID.String(),
			Status:   t.Status,
			Pending:  t.Pending,
			Position: t.State.Position,
			Heading:  t.State.Heading,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// GetTurtle handles GET /turtles/{id}. The view lags submissions by at
// least one frame.
func (s *Server) GetTurtle(w http.ResponseWriter, r *http.Request) {
	id, ok := s.turtleID(w, r)
	if !ok {
		return
	}
	t, found := s.snaps.Snapshot().Turtle(id)
	if !found {
		http.Error(w, fmt.Sprintf("turtle %s not found", id), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// CreateTurtle handles POST /turtles. An optional body
// {"commands": [...]} is queued for the new turtle.
func (s *Server) CreateTurtle(w http.ResponseWriter, r *http.Request) {
	var body commandsRequest
	if err := decodeOptional(r, &body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("CreateTurtle: invalid request body", "err", err)
		return
	}
	plan, err := compile(body.Commands)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := s.sub.RequestCreate(r.Context())
	if err != nil {
		s.fail(w, "CreateTurtle", err)
		return
	}
	if plan != nil {
		if err := s.sub.Submit(r.Context(), id, plan); err != nil {
			s.fail(w, "CreateTurtle", err)
			return
		}
	}
	writeJSON(w, http.StatusCreated, CreateResponse{IDs: []string{id.String()}})
}

// RemoveTurtle handles DELETE /turtles/{id}.
func (s *Server) RemoveTurtle(w http.ResponseWriter, r *http.Request) {
	id, ok := s.turtleID(w, r)
	if !ok {
		return
	}
	if err := s.sub.RequestRemove(r.Context(), id); err != nil {
		s.fail(w, "RemoveTurtle", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PostCommands handles POST /turtles/{id}/commands. With ?wait=false the
// batch is rejected with 429 when the inbox is full instead of waiting.
func (s *Server) PostCommands(w http.ResponseWriter, r *http.Request) {
	id, ok := s.turtleID(w, r)
	if !ok {
		return
	}
	var body commandsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("PostCommands: invalid request body", "err", err)
		return
	}
	plan, err := compile(body.Commands)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if plan == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if r.URL.Query().Get("wait") == "false" {
		err = s.sub.TrySubmit(id, plan)
	} else {
		err = s.sub.Submit(r.Context(), id, plan)
	}
	if err != nil {
		s.fail(w, "PostCommands", err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]int{"queued": plan.Len()})
}

// PostScript handles POST /scripts with a full script document.
func (s *Server) PostScript(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	doc, err := script.Parse(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ids, err := script.Submit(r.Context(), s.sub, doc)
	if err != nil {
		if errors.Is(err, script.ErrUnknownOp) || errors.Is(err, script.ErrInvalidOp) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.fail(w, "PostScript", err)
		return
	}
	resp := CreateResponse{IDs: make([]string, len(ids))}
	for i, id := range ids {
		resp.IDs[i] = id.String()
	}
	writeJSON(w, http.StatusCreated, resp)
}

// GetFrame handles GET /frame.png.
func (s *Server) GetFrame(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	if err := s.image.EncodePNG(w); err != nil {
		s.logger.Error("GetFrame: encode failed", "err", err)
	}
}

// SubscribeEvents handles GET /events (SSE). ?turtle= narrows the stream to
// one turtle and ?types= to a comma separated list of event types.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	topic := allTurtles
	if ref := r.URL.Query().Get("turtle"); ref != "" {
		id, err := domain.ParseTurtleID(ref)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		topic = id.String()
	}
	var types map[domain.EventType]bool
	if raw := r.URL.Query().Get("types"); raw != "" {
		types = make(map[domain.EventType]bool)
		for _, t := range strings.Split(raw, ",") {
			types[domain.EventType(strings.TrimSpace(t))] = true
		}
	}

	ch, cancel := s.streams.Subscribe(topic)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected", "topic", topic)
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if types != nil && !types[ev.typ] {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.typ, ev.data)
			flusher.Flush()
		}
	}
}

func (s *Server) turtleID(w http.ResponseWriter, r *http.Request) (domain.TurtleID, bool) {
	id, err := domain.ParseTurtleID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return domain.NilTurtle, false
	}
	return id, true
}

// fail maps engine errors to status codes.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrTurtleNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrCapacityExceeded):
		status = http.StatusTooManyRequests
	case errors.Is(err, domain.ErrInboxClosed):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err)
	}
	http.Error(w, err.Error(), status)
}

func compile(ops []any) (*domain.Plan, error) {
	if len(ops) == 0 {
		return nil, nil
	}
	return script.Turtle{Commands: ops}.Compile()
}

func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
