// Package http provides HTTP handlers for asset management. Passwords are only
// returned by the single asset endpoint; listings and write responses omit them.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/assetvault/internal/asset/http/dto"
	assetUseCase "github.com/allisson/assetvault/internal/asset/usecase"
	"github.com/allisson/assetvault/internal/httputil"
	customValidation "github.com/allisson/assetvault/internal/validation"
)

// AssetHandler handles HTTP requests for asset operations.
type AssetHandler struct {
	assetUseCase assetUseCase.AssetUseCase
	logger       *slog.Logger
}

// NewAssetHandler creates a new asset handler with required dependencies.
func NewAssetHandler(assetUseCase assetUseCase.AssetUseCase, logger *slog.Logger) *AssetHandler {
	return &AssetHandler{
		assetUseCase: assetUseCase,
		logger:       logger,
	}
}

// RegisterRoutes mounts the asset routes on the versioned API group.
func (h *AssetHandler) RegisterRoutes(v1 *gin.RouterGroup) {
	assets := v1.Group("/assets")
	{
		assets.POST("", h.CreateHandler)
		assets.GET("/:id", h.GetHandler)
		assets.PUT("/:id", h.UpdateHandler)
		assets.DELETE("/:id", h.DeleteHandler)
	}
	v1.GET("/companies/:companyId/assets", h.ListByCompanyHandler)
}

// CreateHandler creates an asset and encrypts its password.
// POST /v1/assets
// Returns 201 Created with the asset summary.
func (h *AssetHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateAssetRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	asset, err := h.assetUseCase.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapAssetToResponse(asset))
}

// GetHandler returns an asset with its password.
// GET /v1/assets/:id
// An unreadable password is returned as the placeholder text with 200 OK.
func (h *AssetHandler) GetHandler(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	details, err := h.assetUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDetailsToResponse(details))
}

// ListByCompanyHandler lists asset summaries of a company.
// GET /v1/companies/:companyId/assets?offset=0&limit=50
func (h *AssetHandler) ListByCompanyHandler(c *gin.Context) {
	companyID, ok := h.parseID(c, "companyId")
	if !ok {
		return
	}

	page, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	assets, err := h.assetUseCase.ListByCompany(c.Request.Context(), companyID, page.Offset, page.Limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAssetsToListResponse(assets))
}

// UpdateHandler applies a partial update.
// PUT /v1/assets/:id
// Returns 200 OK with the updated asset summary.
func (h *AssetHandler) UpdateHandler(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateAssetRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	asset, err := h.assetUseCase.Update(c.Request.Context(), id, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAssetToResponse(asset))
}

// DeleteHandler removes an asset.
// DELETE /v1/assets/:id
// Returns 204 No Content.
func (h *AssetHandler) DeleteHandler(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.assetUseCase.Delete(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

func (h *AssetHandler) parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid %s parameter: must be a valid UUID", param), h.logger)
		return uuid.Nil, false
	}
	return id, true
}
