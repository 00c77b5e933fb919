package handler

import (
	"context"
	"net/http"
	"strings"

	"buildings-api/internal/models"

	"github.com/gin-gonic/gin"
)

// ArchitectService interface for dependency injection
type ArchitectService interface {
	Get(ctx context.Context, key string) (models.Architect, error)
	Search(ctx context.Context, q string, limit int) ([]models.Architect, error)
	Buildings(ctx context.Context, key string, page, limit int) (models.SearchResult, error)
}

// ArchitectHandler handles architect requests
type ArchitectHandler struct {
	service ArchitectService
	limits  Limits
}

// NewArchitectHandler creates a new architect handler
func NewArchitectHandler(svc ArchitectService, limits Limits) *ArchitectHandler {
	return &ArchitectHandler{service: svc, limits: limits}
}

// Search handles GET /api/architects
//
//	@Summary	Search architects by name
//	@Tags		architects
//	@Produce	json
//	@Param		q		query	string	true	"name fragment"
//	@Param		limit	query	int		false	"maximum results"
//	@Success	200		{array}	models.Architect
//	@Failure	400		{object}	errorResponse
//	@Router		/api/architects [get]
func (h *ArchitectHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		badRequest(c, "missing required query parameter 'q'")
		return
	}

	_, limit, err := paging(c, h.limits)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	architects, err := h.service.Search(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, architects)
}

// Get handles GET /api/architects/:idOrSlug
//
//	@Summary	Get an architect by id or slug
//	@Tags		architects
//	@Produce	json
//	@Param		idOrSlug	path		string	true	"architect id or slug"
//	@Success	200			{object}	models.Architect
//	@Failure	404			{object}	errorResponse
//	@Router		/api/architects/{idOrSlug} [get]
func (h *ArchitectHandler) Get(c *gin.Context) {
	architect, err := h.service.Get(c.Request.Context(), c.Param("idOrSlug"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, architect)
}

// Buildings handles GET /api/architects/:idOrSlug/buildings
//
//	@Summary	Buildings credited to an architect
//	@Tags		architects
//	@Produce	json
//	@Param		idOrSlug	path		string	true	"architect id or slug"
//	@Param		page		query		int		false	"page number"	default(1)
//	@Param		limit		query		int		false	"page size"
//	@Success	200			{object}	models.SearchResult
//	@Failure	404			{object}	errorResponse
//	@Router		/api/architects/{idOrSlug}/buildings [get]
func (h *ArchitectHandler) Buildings(c *gin.Context) {
	page, limit, err := paging(c, h.limits)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.service.Buildings(c.Request.Context(), c.Param("idOrSlug"), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
