package events

import (
	"context"
	"time"
)

// Event types published by the blogger and sync jobs.
const (
	TypeBlogPublished   = "BLOG_PUBLISHED"
	TypeBlogJobFailed   = "BLOG_JOB_FAILED"
	TypeBlogCleanup     = "BLOG_CLEANUP"
	TypeBlogRejected    = "BLOG_REJECTED"
	TypeSyncCompleted   = "SYNC_COMPLETED"
	TypeSyncFailed      = "SYNC_FAILED"
	TypePublishNoDraft  = "BLOG_PUBLISH_SKIPPED"
	TypeSchedulerFailed = "SCHEDULER_JOB_FAILED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "BLOG_PUBLISHED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	if data == nil {
		data = map[string]interface{}{}
	}
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Notifier delivers events to the owner. Implementations must not fail the
// caller; delivery problems are logged and swallowed.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, event Event)

func (f NotifierFunc) Notify(ctx context.Context, event Event) { f(ctx, event) }

// Multi fans an event out to every non-nil notifier.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, event Event) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, event)
		}
	}
}
