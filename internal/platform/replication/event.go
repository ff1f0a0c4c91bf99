// Package replication propagates committed entity state from the Frontend to
// the Backend. Business logic depends only on the EventPublisher port.
package replication

import "context"

// Kind identifies what happened to which entity type.
type Kind string

const (
	KindBookUpserted Kind = "book.upserted"
	KindBookDeleted  Kind = "book.deleted"
	KindUserUpserted Kind = "user.upserted"
)

// Path is the peer endpoint that ingests events of kind k.
func (k Kind) Path() string {
	switch k {
	case KindBookUpserted:
		return "/books/update"
	case KindBookDeleted:
		return "/books/delete"
	case KindUserUpserted:
		return "/users/update"
	default:
		return ""
	}
}

// Event is one replication message. Payload is the JSON wire representation
// of the entity after the committed change.
type Event struct {
	Kind     Kind
	EntityID string
	Payload  any
}

// DeletePayload is the body of a KindBookDeleted event.
type DeletePayload struct {
	ID string `json:"id"`
}

// EventPublisher emits events after a successful commit. Publish must not
// block the caller and never reports delivery failures.
type EventPublisher interface {
	Publish(ctx context.Context, ev Event)
}

// NopPublisher discards every event. It is used when no peer is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}
