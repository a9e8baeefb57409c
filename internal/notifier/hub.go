package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/port"
)

const (
	EventWorkflowStarted   = "workflow_started"
	EventWorkflowCompleted = "workflow_completed"
	EventAssetCreated      = "asset_created"
	EventAssetUpdated      = "asset_updated"
	EventAssetDeleted      = "asset_deleted"
)

// Envelope is the wire form of every event pushed to clients.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Subscriber is one connected real-time client.
type Subscriber interface {
	Send(msg []byte) error
	// Ready reports whether the connection is open for writes.
	Ready() bool
}

// Hub fans events out to every connected subscriber.
type Hub struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]Subscriber
}

// compile-time check: *Hub must satisfy port.Notifier
var _ port.Notifier = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]Subscriber)}
}

// Subscribe registers s and returns the handle to pass to Unsubscribe.
func (h *Hub) Subscribe(s Subscriber) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	h.subs[h.nextID] = s
	return h.nextID
}

// Unsubscribe is idempotent.
func (h *Hub) Unsubscribe(handle uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, handle)
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Broadcast encodes the event and delivers it to every ready subscriber.
func (h *Hub) Broadcast(ctx context.Context, eventType string, data any) error {
	msg, err := Encode(eventType, data)
	if err != nil {
		return err
	}
	h.Deliver(ctx, msg)
	return nil
}

// Deliver pushes an already encoded event. A subscriber whose Send fails is dropped.
func (h *Hub) Deliver(ctx context.Context, msg []byte) {
	h.mu.RLock()
	snapshot := make(map[uint64]Subscriber, len(h.subs))
	for id, s := range h.subs {
		snapshot[id] = s
	}
	h.mu.RUnlock()

	for id, s := range snapshot {
		if !s.Ready() {
			continue
		}
		if err := s.Send(msg); err != nil {
			logger.Warnf(ctx, "dropping subscriber %d after failed send: %v", id, err)
			h.Unsubscribe(id)
		}
	}
}

func Encode(eventType string, data any) ([]byte, error) {
	msg, err := json.Marshal(Envelope{Type: eventType, Data: data})
	if err != nil {
		return nil, fmt.Errorf("marshal %q event: %w", eventType, err)
	}
	return msg, nil
}
