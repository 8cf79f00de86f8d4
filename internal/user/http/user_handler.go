// Package http provides HTTP handlers for user-related operations.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/assetvault/internal/httputil"
	"github.com/allisson/assetvault/internal/user/http/dto"
	"github.com/allisson/assetvault/internal/user/usecase"
)

var errInvalidCompanyID = errors.New("invalid companyId parameter: must be a valid UUID")

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userUseCase usecase.UseCase
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userUseCase usecase.UseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

// RegisterRoutes mounts the user routes on the versioned API group.
func (h *UserHandler) RegisterRoutes(v1 *gin.RouterGroup) {
	v1.GET("/companies/:companyId/users", h.ListByCompanyHandler)
}

// ListByCompanyHandler lists the users of a company ordered by name, for
// picking responsible users and task handlers.
// GET /v1/companies/:companyId/users?offset=0&limit=50
func (h *UserHandler) ListByCompanyHandler(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("companyId"))
	if err != nil {
		httputil.HandleBadRequestGin(c, errInvalidCompanyID, h.logger)
		return
	}

	page, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	users, err := h.userUseCase.ListByCompany(c.Request.Context(), companyID, page.Offset, page.Limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToListUsersResponse(users))
}
