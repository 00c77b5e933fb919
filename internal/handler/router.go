package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the API routes on r.
func RegisterRoutes(r gin.IRouter, buildings *BuildingHandler, architects *ArchitectHandler) {
	r.GET("/health", Health)

	api := r.Group("/api")
	api.GET("/buildings", buildings.List)
	api.GET("/buildings/:idOrSlug", buildings.Get)
	api.POST("/buildings/:idOrSlug/like", buildings.LikeBuilding)
	api.POST("/photos/:id/like", buildings.LikePhoto)
	api.GET("/search", buildings.Search)
	api.GET("/nearby", buildings.Nearby)
	api.GET("/suggestions", buildings.Suggestions)
	api.GET("/popular-searches", buildings.PopularSearches)

	api.GET("/architects", architects.Search)
	api.GET("/architects/:idOrSlug", architects.Get)
	api.GET("/architects/:idOrSlug/buildings", architects.Buildings)
}

// Health handles GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
