package domain

import (
	"github.com/google/uuid"
)

// EventTaskAssigned is the outbox event type written when a task needs the
// attention of a user: a new or reassigned handler, or the creator once the
// task awaits confirmation.
const EventTaskAssigned = "task.assigned"

// AwaitingConfirmationNote replaces the description in the notification sent
// to the creator when a task awaits confirmation.
const AwaitingConfirmationNote = "Task is awaiting confirmation"

// TaskAssignedEvent is the outbox payload of EventTaskAssigned.
type TaskAssignedEvent struct {
	TaskID      uuid.UUID `json:"task_id"`
	CompanyID   uuid.UUID `json:"company_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	RecipientID uuid.UUID `json:"recipient_id"`
	ActorID     uuid.UUID `json:"actor_id"`
}
