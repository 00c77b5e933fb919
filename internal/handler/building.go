package handler

import (
	"context"
	"net/http"

	"buildings-api/internal/middleware"
	"buildings-api/internal/models"
	"buildings-api/internal/service"

	"github.com/gin-gonic/gin"
)

// BuildingService interface for dependency injection
type BuildingService interface {
	List(ctx context.Context, page, limit int) models.SearchResult
	Get(ctx context.Context, key string) (models.Building, error)
	Search(ctx context.Context, q models.SearchQuery, sess service.SessionContext) models.SearchResult
	Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) []models.Building
	LikeBuilding(ctx context.Context, id int64) (int, error)
	LikePhoto(ctx context.Context, id int64) (int, error)
	Suggestions(ctx context.Context, q string) []string
	PopularSearches(ctx context.Context, limit int) ([]models.PopularSearch, error)
}

// BuildingHandler handles building requests
type BuildingHandler struct {
	service BuildingService
	limits  Limits
}

// NewBuildingHandler creates a new building handler
func NewBuildingHandler(svc BuildingService, limits Limits) *BuildingHandler {
	return &BuildingHandler{service: svc, limits: limits}
}

type likeResponse struct {
	Likes int `json:"likes"`
}

// List handles GET /api/buildings
//
//	@Summary	List buildings
//	@Tags		buildings
//	@Produce	json
//	@Param		page	query		int	false	"page number"	default(1)
//	@Param		limit	query		int	false	"page size"
//	@Success	200		{object}	models.SearchResult
//	@Failure	400		{object}	errorResponse
//	@Router		/api/buildings [get]
func (h *BuildingHandler) List(c *gin.Context) {
	page, limit, err := paging(c, h.limits)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, h.service.List(c.Request.Context(), page, limit))
}

// Get handles GET /api/buildings/:idOrSlug
//
//	@Summary	Get a building by id or slug
//	@Tags		buildings
//	@Produce	json
//	@Param		idOrSlug	path		string	true	"building id or slug"
//	@Success	200			{object}	models.Building
//	@Failure	404			{object}	errorResponse
//	@Router		/api/buildings/{idOrSlug} [get]
func (h *BuildingHandler) Get(c *gin.Context) {
	building, err := h.service.Get(c.Request.Context(), c.Param("idOrSlug"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, building)
}

// Search handles GET /api/search
//
//	@Summary	Search buildings
//	@Tags		search
//	@Produce	json
//	@Param		q				query		string		false	"free text"
//	@Param		architects		query		[]string	false	"architect ids or slugs"
//	@Param		buildingTypes	query		[]string	false	"building types"
//	@Param		prefectures		query		[]string	false	"prefectures"
//	@Param		areas			query		[]string	false	"areas"
//	@Param		hasPhotos		query		bool		false	"only buildings with photos"
//	@Param		hasVideos		query		bool		false	"only buildings with videos"
//	@Param		lat				query		number		false	"current latitude"
//	@Param		lng				query		number		false	"current longitude"
//	@Param		radius			query		number		false	"radius in km"
//	@Param		page			query		int			false	"page number"	default(1)
//	@Param		limit			query		int			false	"page size"
//	@Param		language		query		string		false	"ja or en"	Enums(ja, en)
//	@Success	200				{object}	models.SearchResult
//	@Failure	400				{object}	errorResponse
//	@Router		/api/search [get]
func (h *BuildingHandler) Search(c *gin.Context) {
	q, err := h.searchQuery(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var sess service.SessionContext
	if s := middleware.SessionFrom(c); s != nil {
		sess = s
	}

	c.JSON(http.StatusOK, h.service.Search(c.Request.Context(), q, sess))
}

func (h *BuildingHandler) searchQuery(c *gin.Context) (models.SearchQuery, error) {
	page, limit, err := paging(c, h.limits)
	if err != nil {
		return models.SearchQuery{}, err
	}
	lang, err := language(c)
	if err != nil {
		return models.SearchQuery{}, err
	}
	location, err := coordinates(c, "lat", "lng")
	if err != nil {
		return models.SearchQuery{}, err
	}
	radius, err := floatQuery(c, "radius")
	if err != nil {
		return models.SearchQuery{}, err
	}
	if radius != nil && *radius <= 0 {
		return models.SearchQuery{}, errRadius
	}
	hasPhotos, err := boolQuery(c, "hasPhotos")
	if err != nil {
		return models.SearchQuery{}, err
	}
	hasVideos, err := boolQuery(c, "hasVideos")
	if err != nil {
		return models.SearchQuery{}, err
	}

	return models.SearchQuery{
		Filters: models.SearchFilters{
			Query:           c.Query("q"),
			Architects:      listQuery(c, "architects"),
			BuildingTypes:   listQuery(c, "buildingTypes"),
			Prefectures:     listQuery(c, "prefectures"),
			Areas:           listQuery(c, "areas"),
			HasPhotos:       hasPhotos,
			HasVideos:       hasVideos,
			CurrentLocation: location,
			Radius:          radius,
		},
		Page:     page,
		Limit:    limit,
		Language: lang,
	}, nil
}

// Nearby handles GET /api/nearby
//
//	@Summary	Buildings near a point
//	@Tags		search
//	@Produce	json
//	@Param		lat		query	number	true	"latitude"
//	@Param		lng		query	number	true	"longitude"
//	@Param		radius	query	number	false	"radius in km"
//	@Param		limit	query	int		false	"maximum results"
//	@Success	200		{array}	models.Building
//	@Failure	400		{object}	errorResponse
//	@Router		/api/nearby [get]
func (h *BuildingHandler) Nearby(c *gin.Context) {
	location, err := coordinates(c, "lat", "lng")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if location == nil {
		badRequest(c, "missing required query parameters 'lat' and 'lng'")
		return
	}

	radius, err := floatQuery(c, "radius")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	radiusKm := 0.0
	if radius != nil {
		if *radius <= 0 {
			badRequest(c, errRadius.Error())
			return
		}
		radiusKm = *radius
	}

	_, limit, err := paging(c, h.limits)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, h.service.Nearby(c.Request.Context(), location.Lat, location.Lng, radiusKm, limit))
}

// LikeBuilding handles POST /api/buildings/:idOrSlug/like
//
//	@Summary	Like a building
//	@Tags		buildings
//	@Produce	json
//	@Param		idOrSlug	path		int	true	"building id"
//	@Success	200			{object}	likeResponse
//	@Failure	404			{object}	errorResponse
//	@Router		/api/buildings/{idOrSlug}/like [post]
func (h *BuildingHandler) LikeBuilding(c *gin.Context) {
	id, err := idParam(c, "idOrSlug")
	if err != nil {
		badRequest(c, "invalid building id")
		return
	}

	likes, err := h.service.LikeBuilding(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, likeResponse{Likes: likes})
}

// LikePhoto handles POST /api/photos/:id/like
//
//	@Summary	Like a photo
//	@Tags		buildings
//	@Produce	json
//	@Param		id	path		int	true	"photo id"
//	@Success	200	{object}	likeResponse
//	@Failure	404	{object}	errorResponse
//	@Router		/api/photos/{id}/like [post]
func (h *BuildingHandler) LikePhoto(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		badRequest(c, "invalid photo id")
		return
	}

	likes, err := h.service.LikePhoto(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, likeResponse{Likes: likes})
}

// Suggestions handles GET /api/suggestions
//
//	@Summary	Search term suggestions
//	@Tags		search
//	@Produce	json
//	@Param		q	query	string	false	"partial term"
//	@Success	200	{array}	string
//	@Router		/api/suggestions [get]
func (h *BuildingHandler) Suggestions(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Suggestions(c.Request.Context(), c.Query("q")))
}

// PopularSearches handles GET /api/popular-searches
//
//	@Summary	Most frequent recent searches
//	@Tags		search
//	@Produce	json
//	@Param		limit	query	int	false	"maximum results"
//	@Success	200		{array}	models.PopularSearch
//	@Router		/api/popular-searches [get]
func (h *BuildingHandler) PopularSearches(c *gin.Context) {
	limit, err := intQuery(c, "limit", 0)
	if err != nil || limit < 0 || limit > h.limits.MaxLimit {
		badRequest(c, "invalid limit")
		return
	}

	popular, err := h.service.PopularSearches(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, popular)
}
