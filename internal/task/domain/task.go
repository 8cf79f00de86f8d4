// Package domain defines tasks: work items assigned to a handler inside a
// company, optionally about one asset.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the workflow state of a task.
type Status string

const (
	StatusToDo                 Status = "To Do"
	StatusInProgress           Status = "In Progress"
	StatusAwaitingConfirmation Status = "Awaiting Confirmation"
	StatusDone                 Status = "Done"
)

// Statuses lists every supported status.
var Statuses = []Status{StatusToDo, StatusInProgress, StatusAwaitingConfirmation, StatusDone}

// Contact is the subset of a user shown next to a task.
type Contact struct {
	ID    uuid.UUID
	Name  string
	Email string
	Phone *string
}

// Task is a unit of work. CreatedBy and Handler are filled on reads.
type Task struct {
	ID          uuid.UUID
	CompanyID   uuid.UUID
	Title       string
	Description string
	Status      Status
	HandlerID   uuid.UUID
	CreatedByID uuid.UUID
	AssetID     *uuid.UUID
	DueDate     *time.Time
	Files       []string
	Handler     *Contact
	CreatedBy   *Contact
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListFilter narrows a company's task listing. Zero fields match everything.
type ListFilter struct {
	Status    *Status
	HandlerID *uuid.UUID
}
