package handler

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"buildings-api/internal/models"
	"buildings-api/internal/normalize"

	"github.com/gin-gonic/gin"
)

var errRadius = errors.New("radius must be greater than 0")

// Limits bounds the paging parameters a request may ask for.
type Limits struct {
	DefaultLimit int
	MaxLimit     int
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeError maps AppError to its status; anything else is a 500.
func writeError(c *gin.Context, err error) {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		status := appErr.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		message := appErr.Message
		if status >= http.StatusInternalServerError {
			message = "internal server error"
		}
		c.JSON(status, errorResponse{Error: message, Code: appErr.Code})
		return
	}
	c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: message})
}

// paging reads page and limit. Missing values default to page 1 and the default limit.
func paging(c *gin.Context, limits Limits) (int, int, error) {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	if page < 1 {
		return 0, 0, fmt.Errorf("page must be at least 1")
	}

	limit, err := intQuery(c, "limit", limits.DefaultLimit)
	if err != nil {
		return 0, 0, err
	}
	if limit < 1 || limit > limits.MaxLimit {
		return 0, 0, fmt.Errorf("limit must be between 1 and %d", limits.MaxLimit)
	}

	return page, limit, nil
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format", key)
	}
	return v, nil
}

func floatQuery(c *gin.Context, key string) (*float64, error) {
	s := c.Query(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("invalid %s format", key)
	}
	return &v, nil
}

func boolQuery(c *gin.Context, key string) (bool, error) {
	s := c.Query(key)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s format", key)
	}
	return v, nil
}

// listQuery accepts both repeated parameters and comma-separated values.
func listQuery(c *gin.Context, key string) []string {
	var out []string
	for _, v := range c.QueryArray(key) {
		out = append(out, normalize.SplitString(v, normalize.DelimComma)...)
	}
	return out
}

// coordinates reads lat and lng. Both or neither must be present.
func coordinates(c *gin.Context, latKey, lngKey string) (*models.Coordinates, error) {
	lat, err := floatQuery(c, latKey)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude format")
	}
	lng, err := floatQuery(c, lngKey)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude format")
	}

	switch {
	case lat == nil && lng == nil:
		return nil, nil
	case lat == nil || lng == nil:
		return nil, fmt.Errorf("'%s' and '%s' must be given together", latKey, lngKey)
	case *lat < -90 || *lat > 90:
		return nil, fmt.Errorf("latitude must be between -90 and 90")
	case *lng < -180 || *lng > 180:
		return nil, fmt.Errorf("longitude must be between -180 and 180")
	}
	return &models.Coordinates{Lat: *lat, Lng: *lng}, nil
}

func language(c *gin.Context) (models.Language, error) {
	s := strings.TrimSpace(c.Query("language"))
	switch strings.ToLower(s) {
	case "", string(models.LanguageJa), string(models.LanguageEn):
		return models.ParseLanguage(s), nil
	default:
		return "", fmt.Errorf("language must be 'ja' or 'en'")
	}
}

func idParam(c *gin.Context, key string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return id, nil
}
