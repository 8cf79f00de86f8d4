// Package http provides HTTP handlers for the task workflow.
package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/assetvault/internal/httputil"
	"github.com/allisson/assetvault/internal/task/domain"
	"github.com/allisson/assetvault/internal/task/http/dto"
	taskUseCase "github.com/allisson/assetvault/internal/task/usecase"
	customValidation "github.com/allisson/assetvault/internal/validation"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	taskUseCase taskUseCase.TaskUseCase
	logger      *slog.Logger
}

// NewTaskHandler creates a new task handler with required dependencies.
func NewTaskHandler(taskUseCase taskUseCase.TaskUseCase, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		taskUseCase: taskUseCase,
		logger:      logger,
	}
}

// RegisterRoutes mounts the task routes on the versioned API group.
func (h *TaskHandler) RegisterRoutes(v1 *gin.RouterGroup) {
	tasks := v1.Group("/tasks")
	{
		tasks.POST("", h.CreateHandler)
		tasks.GET("/:id", h.GetHandler)
		tasks.PUT("/:id", h.UpdateHandler)
	}
	v1.GET("/companies/:companyId/tasks", h.ListByCompanyHandler)
}

// CreateHandler creates a task and notifies its handler.
// POST /v1/tasks
// Returns 201 Created.
func (h *TaskHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateTaskRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	task, err := h.taskUseCase.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapTaskToResponse(task))
}

// GetHandler returns a task.
// GET /v1/tasks/:id
func (h *TaskHandler) GetHandler(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTaskToResponse(task))
}

// ListByCompanyHandler lists the tasks of a company.
// GET /v1/companies/:companyId/tasks?status=Done&handler_id=...&offset=0&limit=50
func (h *TaskHandler) ListByCompanyHandler(c *gin.Context) {
	companyID, ok := h.parseID(c, "companyId")
	if !ok {
		return
	}

	page, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var filter domain.ListFilter
	if status, ok := c.GetQuery("status"); ok && status != "" {
		s := domain.Status(status)
		filter.Status = &s
	}
	if raw, ok := c.GetQuery("handler_id"); ok && raw != "" {
		handlerID, err := uuid.Parse(raw)
		if err != nil {
			httputil.HandleBadRequestGin(c, errors.New("invalid handler_id parameter: must be a valid UUID"), h.logger)
			return
		}
		filter.HandlerID = &handlerID
	}

	tasks, err := h.taskUseCase.ListByCompany(c.Request.Context(), companyID, filter, page.Offset, page.Limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTasksToListResponse(tasks))
}

// UpdateHandler applies a partial update.
// PUT /v1/tasks/:id
// Returns 200 OK with the updated task.
func (h *TaskHandler) UpdateHandler(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	task, err := h.taskUseCase.Update(c.Request.Context(), id, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTaskToResponse(task))
}

func (h *TaskHandler) parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid %s parameter: must be a valid UUID", param), h.logger)
		return uuid.Nil, false
	}
	return id, true
}
