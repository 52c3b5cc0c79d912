// Package events publishes domain events to Redis pub/sub or Kafka.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Type names a domain event.
type Type string

const (
	UserRegistered  Type = "user_registered"
	PostCreated     Type = "post_created"
	PostUpdated     Type = "post_updated"
	PostSoftDeleted Type = "post_soft_deleted"
	PostHardDeleted Type = "post_hard_deleted"
	CommentCreated  Type = "comment_created"
	CommentUpdated  Type = "comment_updated"
	CommentDeleted  Type = "comment_deleted"
)

// Event is the wire format shared by every sink.
type Event struct {
	Type       Type      `json:"type"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New stamps an event with the current UTC time.
func New(t Type, payload any) Event {
	return Event{Type: t, Payload: payload, OccurredAt: time.Now().UTC()}
}

func (e Event) encode() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events to a sink.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Name() string
	Close() error
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Name() string                         { return "none" }
func (Noop) Close() error                         { return nil }
