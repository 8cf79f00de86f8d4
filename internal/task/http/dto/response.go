package dto

import (
	"time"

	"github.com/allisson/assetvault/internal/task/domain"
)

// ContactResponse is a user shown next to a task.
type ContactResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

// TaskResponse represents a task in API responses.
type TaskResponse struct {
	ID          string           `json:"id"`
	CompanyID   string           `json:"company_id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      string           `json:"status"`
	HandlerID   string           `json:"handler_id"`
	CreatedByID string           `json:"created_by_id"`
	AssetID     *string          `json:"asset_id"`
	DueDate     *time.Time       `json:"due_date"`
	Files       []string         `json:"files"`
	Handler     *ContactResponse `json:"handler"`
	CreatedBy   *ContactResponse `json:"created_by"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ListTasksResponse represents a paginated list of tasks.
type ListTasksResponse struct {
	Data []TaskResponse `json:"data"`
}

// MapTaskToResponse converts a domain task to an API response.
func MapTaskToResponse(task *domain.Task) TaskResponse {
	response := TaskResponse{
		ID:          task.ID.String(),
		CompanyID:   task.CompanyID.String(),
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		HandlerID:   task.HandlerID.String(),
		CreatedByID: task.CreatedByID.String(),
		DueDate:     task.DueDate,
		Files:       task.Files,
		Handler:     mapContact(task.Handler),
		CreatedBy:   mapContact(task.CreatedBy),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if response.Files == nil {
		response.Files = []string{}
	}
	if task.AssetID != nil {
		id := task.AssetID.String()
		response.AssetID = &id
	}
	return response
}

// MapTasksToListResponse converts a slice of domain tasks to a list response.
func MapTasksToListResponse(tasks []*domain.Task) ListTasksResponse {
	data := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		data = append(data, MapTaskToResponse(task))
	}
	return ListTasksResponse{Data: data}
}

func mapContact(contact *domain.Contact) *ContactResponse {
	if contact == nil {
		return nil
	}
	return &ContactResponse{
		ID:    contact.ID.String(),
		Name:  contact.Name,
		Email: contact.Email,
		Phone: contact.Phone,
	}
}
