package http

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/turtle/pkg/domain"
)

// allTurtles is the topic that receives every event.
const allTurtles = "*"

type streamEvent struct {
	typ  domain.EventType
	data []byte
}

// StreamManager fans engine events out to SSE subscribers. Topics are
// turtle ids; the "*" topic receives everything.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan streamEvent]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan streamEvent]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a buffered channel for topic. The returned function
// unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(topic string) (<-chan streamEvent, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan streamEvent, 64)
	if _, ok := sm.subscribers[topic]; !ok {
		sm.subscribers[topic] = make(map[chan streamEvent]struct{})
	}
	sm.subscribers[topic][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[topic]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, topic)
			}
		}
	}
}

// Subscribers returns the number of open subscriptions.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	n := 0
	for _, subs := range sm.subscribers {
		n += len(subs)
	}
	return n
}

// Broadcast sends ev to the turtle's topic and to "*". It never blocks:
// slow subscribers lose events.
func (sm *StreamManager) Broadcast(turtle domain.TurtleID, typ domain.EventType, ev any) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if len(sm.subscribers) == 0 {
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		sm.logger.Error("failed to encode event", "type", string(typ), "err", err)
		return
	}
	msg := streamEvent{typ: typ, data: data}
	for _, topic := range []string{turtle.String(), allTurtles} {
		for ch := range sm.subscribers[topic] {
			select {
			case ch <- msg:
			default:
				sm.logger.Warn("SSE: client buffer full, dropping event", domain.KeyTurtleID, turtle.String())
			}
		}
	}
}

// Hooks returns lifecycle hooks that publish to the stream. Per-command
// events are not streamed.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurtleCreated: func(e *domain.TurtleEvent) { sm.Broadcast(e.Turtle, e.Type, e) },
		OnTurtleRemoved: func(e *domain.TurtleEvent) { sm.Broadcast(e.Turtle, e.Type, e) },
		OnFillComplete:  func(e *domain.FillEvent) { sm.Broadcast(e.Turtle, e.Type, e) },
		OnBatchDrained:  func(e *domain.BatchEvent) { sm.Broadcast(e.Turtle, e.Type, e) },
		OnBatchDropped:  func(e *domain.BatchEvent) { sm.Broadcast(e.Turtle, e.Type, e) },
	}
}
