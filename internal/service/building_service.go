package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"buildings-api/internal/models"
	"buildings-api/internal/normalize"
	"buildings-api/internal/search"

	"github.com/rs/zerolog"
)

// Search types recorded in the search history.
const (
	SearchTypeText     = "text"
	SearchTypeLocation = "location"
	SearchTypeFilter   = "filter"
)

// BuildingRepository interface for dependency injection
type BuildingRepository interface {
	GetBuildingByID(ctx context.Context, id int64) (models.RawJoinRow, error)
	GetBuildingBySlug(ctx context.Context, slug string) (models.RawJoinRow, error)
	BuildingPhotos(ctx context.Context, buildingID int64) ([]models.Photo, error)
	IncrementBuildingLikes(ctx context.Context, buildingID int64) (int, error)
	IncrementPhotoLikes(ctx context.Context, photoID int64) (int, error)
	SuggestTerms(ctx context.Context, q string, limit int) ([]string, error)
	RecordSearch(ctx context.Context, entry models.SearchHistoryEntry) error
	PopularSearches(ctx context.Context, since time.Time, limit int) ([]models.PopularSearch, error)
}

// Searcher runs search cascades. Implemented by search.Orchestrator.
type Searcher interface {
	Search(ctx context.Context, q models.SearchQuery) search.Outcome
	List(ctx context.Context, page, limit int) search.Outcome
	Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) search.Outcome
	Run(ctx context.Context, q models.SearchQuery, chain []search.Kind) search.Outcome
}

// SessionContext identifies the visitor behind a search and throttles duplicate history entries.
type SessionContext interface {
	SessionID() string
	CanSearch(query, searchType string) bool
}

// Options are the paging and window settings of BuildingService.
type Options struct {
	DefaultLimit        int
	MaxLimit            int
	SuggestionLimit     int
	NearbyDefaultRadius float64
	PopularSearchWindow time.Duration
}

// BuildingService is the access facade for building reads, searches and likes.
type BuildingService struct {
	repo       BuildingRepository
	searcher   Searcher
	normalizer *normalize.Normalizer
	opts       Options
	logger     zerolog.Logger
	now        func() time.Time
}

// NewBuildingService creates a new building service
func NewBuildingService(repo BuildingRepository, searcher Searcher, normalizer *normalize.Normalizer, opts Options, logger zerolog.Logger) *BuildingService {
	return &BuildingService{
		repo:       repo,
		searcher:   searcher,
		normalizer: normalizer,
		opts:       opts,
		logger:     logger,
		now:        time.Now,
	}
}

// List returns one page of all buildings.
func (s *BuildingService) List(ctx context.Context, page, limit int) models.SearchResult {
	page, limit = s.opts.paging(page, limit)
	return s.searcher.List(ctx, page, limit).Result
}

// Get looks a building up by numeric id, or by slug when key is not a number. A numeric key that
// matches no id is retried as a slug.
func (s *BuildingService) Get(ctx context.Context, key string) (models.Building, error) {
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return s.GetBySlug(ctx, key)
	}
	row, err := s.repo.GetBuildingByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		row, err = s.repo.GetBuildingBySlug(ctx, key)
	}
	return s.building(ctx, key, row, err)
}

// GetByID returns a 404 AppError when the building does not exist.
func (s *BuildingService) GetByID(ctx context.Context, id int64) (models.Building, error) {
	row, err := s.repo.GetBuildingByID(ctx, id)
	return s.building(ctx, strconv.FormatInt(id, 10), row, err)
}

// GetBySlug returns a 404 AppError when no building carries the slug.
func (s *BuildingService) GetBySlug(ctx context.Context, slug string) (models.Building, error) {
	row, err := s.repo.GetBuildingBySlug(ctx, slug)
	return s.building(ctx, slug, row, err)
}

// building treats a row with invalid coordinates like a missing one, as listings skip it too.
func (s *BuildingService) building(ctx context.Context, key string, row models.RawJoinRow, err error) (models.Building, error) {
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Building{}, models.NewNotFoundError(models.ErrCodeBuildingNotFound, key)
		}
		return models.Building{}, models.NewUpstreamError("failed to fetch building", err)
	}

	b, err := s.normalizer.FromRawJoin(ctx, row)
	if err != nil {
		s.logger.Warn().Err(err).Int64("building_id", row.ID).Msg("building has invalid coordinates")
		return models.Building{}, models.NewNotFoundError(models.ErrCodeBuildingNotFound, key)
	}

	photos, err := s.repo.BuildingPhotos(ctx, b.ID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("building_id", b.ID).Msg("failed to load photos")
	} else if len(photos) > 0 {
		b.Photos = photos
	}

	return b, nil
}

// Search runs the strategy cascade for q and records the search in the history when the session allows it.
// sess may be nil.
func (s *BuildingService) Search(ctx context.Context, q models.SearchQuery, sess SessionContext) models.SearchResult {
	q.Page, q.Limit = s.opts.paging(q.Page, q.Limit)
	outcome := s.searcher.Search(ctx, q)

	s.logger.Debug().
		Str("strategy", string(outcome.Strategy)).
		Int("failures", len(outcome.Failures)).
		Int("total", outcome.Result.Total).
		Msg("search completed")

	s.recordSearch(ctx, q.Filters, sess)
	return outcome.Result
}

func (s *BuildingService) recordSearch(ctx context.Context, filters models.SearchFilters, sess SessionContext) {
	query := filters.TrimmedQuery()
	if sess == nil || query == "" {
		return
	}

	searchType := searchTypeOf(filters)
	if !sess.CanSearch(query, searchType) {
		return
	}

	entry := models.SearchHistoryEntry{
		Query:      query,
		SearchType: searchType,
		Filters:    filters,
		SessionID:  sess.SessionID(),
	}
	if err := s.repo.RecordSearch(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("failed to record search history")
	}
}

func searchTypeOf(f models.SearchFilters) string {
	switch {
	case f.CurrentLocation != nil:
		return SearchTypeLocation
	case len(f.Architects) > 0 || len(f.BuildingTypes) > 0 || len(f.Prefectures) > 0 || len(f.Areas) > 0 || f.HasPhotos || f.HasVideos:
		return SearchTypeFilter
	default:
		return SearchTypeText
	}
}

// Nearby returns buildings around a point, nearest first. A non-positive radius uses the configured default.
func (s *BuildingService) Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) []models.Building {
	if radiusKm <= 0 {
		radiusKm = s.opts.NearbyDefaultRadius
	}
	_, limit = s.opts.paging(1, limit)
	return s.searcher.Nearby(ctx, lat, lng, radiusKm, limit).Result.Buildings
}

// LikeBuilding increments a building's like counter and returns the new count.
func (s *BuildingService) LikeBuilding(ctx context.Context, id int64) (int, error) {
	likes, err := s.repo.IncrementBuildingLikes(ctx, id)
	return likeResult(likes, err, models.ErrCodeBuildingNotFound, id)
}

// LikePhoto increments a photo's like counter and returns the new count.
func (s *BuildingService) LikePhoto(ctx context.Context, id int64) (int, error) {
	likes, err := s.repo.IncrementPhotoLikes(ctx, id)
	return likeResult(likes, err, models.ErrCodePhotoNotFound, id)
}

func likeResult(likes int, err error, code string, id int64) (int, error) {
	if err == nil {
		return likes, nil
	}
	if errors.Is(err, models.ErrNotFound) {
		return 0, models.NewNotFoundError(code, strconv.FormatInt(id, 10))
	}
	return 0, models.NewUpstreamError("failed to update likes", err)
}

// Suggestions returns search terms containing q. Failures yield an empty list.
func (s *BuildingService) Suggestions(ctx context.Context, q string) []string {
	q = strings.TrimSpace(q)
	if q == "" {
		return []string{}
	}

	terms, err := s.repo.SuggestTerms(ctx, q, s.opts.SuggestionLimit)
	if err != nil {
		s.logger.Warn().Err(err).Str("query", q).Msg("suggestion lookup failed")
		return []string{}
	}
	if terms == nil {
		return []string{}
	}
	return terms
}

// PopularSearches returns the most frequent queries within the configured window.
func (s *BuildingService) PopularSearches(ctx context.Context, limit int) ([]models.PopularSearch, error) {
	if limit < 1 {
		limit = s.opts.SuggestionLimit
	}
	since := s.now().Add(-s.opts.PopularSearchWindow)

	popular, err := s.repo.PopularSearches(ctx, since, limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load popular searches: %w", err)
	}
	if popular == nil {
		return []models.PopularSearch{}, nil
	}
	return popular, nil
}

// paging clamps page to at least 1 and limit to [1, MaxLimit], substituting DefaultLimit for unset limits.
func (o Options) paging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = o.DefaultLimit
	}
	if o.MaxLimit > 0 && limit > o.MaxLimit {
		limit = o.MaxLimit
	}
	return page, limit
}
