// Package dto provides data transfer objects for task HTTP requests and responses.
package dto

import (
	"errors"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/allisson/assetvault/internal/task/domain"
	"github.com/allisson/assetvault/internal/task/usecase"
	customValidation "github.com/allisson/assetvault/internal/validation"
)

// dueDateLayouts are tried in order. A bare date means midnight UTC.
var dueDateLayouts = []string{time.RFC3339, "2006-01-02"}

var dueDateRule = validation.By(func(value any) error {
	s, _ := value.(*string)
	if s == nil {
		return nil
	}
	if _, ok := parseDueDate(*s); !ok {
		return errors.New("must be an RFC 3339 timestamp or a YYYY-MM-DD date")
	}
	return nil
})

// CreateTaskRequest contains the parameters for creating a task.
// Status and file rules are enforced by the use case.
type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	HandlerID   string   `json:"handler_id"`
	CreatedByID string   `json:"created_by_id"`
	AssetID     *string  `json:"asset_id"`
	DueDate     *string  `json:"due_date"`
	Files       []string `json:"files"`
	Status      string   `json:"status"`
}

// Validate checks required fields and identifier formats.
func (r *CreateTaskRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.HandlerID, validation.Required, customValidation.UUID),
		validation.Field(&r.CreatedByID, validation.Required, customValidation.UUID),
		validation.Field(&r.AssetID, validation.NilOrNotEmpty, customValidation.UUID),
		validation.Field(&r.DueDate, dueDateRule),
	)
}

// ToInput converts the request to a use case input. Call Validate first.
func (r *CreateTaskRequest) ToInput() usecase.CreateTaskInput {
	return usecase.CreateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		HandlerID:   uuid.MustParse(r.HandlerID),
		CreatedByID: uuid.MustParse(r.CreatedByID),
		AssetID:     parseOptionalUUID(r.AssetID),
		DueDate:     parseOptionalDueDate(r.DueDate),
		Files:       r.Files,
		Status:      domain.Status(r.Status),
	}
}

// UpdateTaskRequest contains the fields to change. Absent fields are kept.
type UpdateTaskRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	HandlerID   *string   `json:"handler_id"`
	AssetID     *string   `json:"asset_id"`
	DueDate     *string   `json:"due_date"`
	Files       *[]string `json:"files"`
	Status      *string   `json:"status"`
}

// Validate checks identifier and date formats.
func (r *UpdateTaskRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.HandlerID, validation.NilOrNotEmpty, customValidation.UUID),
		validation.Field(&r.AssetID, validation.NilOrNotEmpty, customValidation.UUID),
		validation.Field(&r.DueDate, dueDateRule),
	)
}

// ToInput converts the request to a use case input. Call Validate first.
func (r *UpdateTaskRequest) ToInput() usecase.UpdateTaskInput {
	input := usecase.UpdateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		HandlerID:   parseOptionalUUID(r.HandlerID),
		AssetID:     parseOptionalUUID(r.AssetID),
		DueDate:     parseOptionalDueDate(r.DueDate),
		Files:       r.Files,
	}
	if r.Status != nil {
		status := domain.Status(*r.Status)
		input.Status = &status
	}
	return input
}

func parseOptionalUUID(s *string) *uuid.UUID {
	if s == nil {
		return nil
	}
	id := uuid.MustParse(*s)
	return &id
}

func parseOptionalDueDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, _ := parseDueDate(*s)
	return &t
}

func parseDueDate(s string) (time.Time, bool) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
