// Package domain defines transactional outbox events. Use cases write events in
// the same transaction as the change they describe; the worker delivers them.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/assetvault/internal/errors"
)

// EventStatus represents the delivery status of an outbox event.
type EventStatus string

const (
	EventStatusPending   EventStatus = "pending"
	EventStatusProcessed EventStatus = "processed"
	EventStatusFailed    EventStatus = "failed"
)

// Event is a pending side effect recorded in the outbox table.
type Event struct {
	ID          uuid.UUID
	EventType   string
	Payload     string
	Status      EventStatus
	Retries     int
	LastError   *string
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ErrUnknownEventType indicates no handler is registered for an event type.
var ErrUnknownEventType = errors.Wrap(errors.ErrInvalidInput, "unknown outbox event type")

// NewEvent builds a pending event with payload encoded as JSON.
func NewEvent(eventType string, payload any) (*Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal event payload")
	}

	now := time.Now().UTC()
	return &Event{
		ID:        uuid.Must(uuid.NewV7()),
		EventType: eventType,
		Payload:   string(body),
		Status:    EventStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// DecodePayload unmarshals the JSON payload into v.
func (e *Event) DecodePayload(v any) error {
	if err := json.Unmarshal([]byte(e.Payload), v); err != nil {
		return errors.Wrapf(err, "failed to decode %s payload", e.EventType)
	}
	return nil
}

// MarkProcessed flags the event as delivered at now.
func (e *Event) MarkProcessed(now time.Time) {
	e.Status = EventStatusProcessed
	e.ProcessedAt = &now
	e.LastError = nil
}

// MarkFailedAttempt records a delivery failure. Once retries reach maxRetries,
// or when the failure is permanent, the event is parked as failed.
func (e *Event) MarkFailedAttempt(cause error, maxRetries int, permanent bool) {
	e.Retries++
	msg := cause.Error()
	e.LastError = &msg
	if permanent || e.Retries >= maxRetries {
		e.Status = EventStatusFailed
	}
}
