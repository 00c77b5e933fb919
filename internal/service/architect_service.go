package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"buildings-api/internal/models"
	"buildings-api/internal/search"
)

// ArchitectRepository interface for dependency injection
type ArchitectRepository interface {
	GetArchitectByID(ctx context.Context, id int64) (models.Architect, error)
	GetArchitectBySlug(ctx context.Context, slug string) (models.Architect, error)
	SearchArchitects(ctx context.Context, q string, limit int) ([]models.Architect, error)
}

// ArchitectService looks up architect groups and the buildings credited to them.
type ArchitectService struct {
	repo     ArchitectRepository
	searcher Searcher
	opts     Options
}

// NewArchitectService creates a new architect service
func NewArchitectService(repo ArchitectRepository, searcher Searcher, opts Options) *ArchitectService {
	return &ArchitectService{repo: repo, searcher: searcher, opts: opts}
}

// Get looks an architect up by numeric id, or by slug when key is not a number.
func (s *ArchitectService) Get(ctx context.Context, key string) (models.Architect, error) {
	var (
		a   models.Architect
		err error
	)
	if id, perr := strconv.ParseInt(key, 10, 64); perr == nil {
		a, err = s.repo.GetArchitectByID(ctx, id)
		if errors.Is(err, models.ErrNotFound) {
			a, err = s.repo.GetArchitectBySlug(ctx, key)
		}
	} else {
		a, err = s.repo.GetArchitectBySlug(ctx, key)
	}
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Architect{}, models.NewNotFoundError(models.ErrCodeArchitectNotFound, key)
		}
		return models.Architect{}, models.NewUpstreamError("failed to fetch architect", err)
	}
	return a, nil
}

// Search matches architect names against q.
func (s *ArchitectService) Search(ctx context.Context, q string, limit int) ([]models.Architect, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("service: query cannot be empty")
	}
	if limit < 1 {
		limit = s.opts.DefaultLimit
	}

	architects, err := s.repo.SearchArchitects(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to search architects: %w", err)
	}
	if architects == nil {
		return []models.Architect{}, nil
	}
	return architects, nil
}

// Buildings returns one page of the buildings credited to the architect group named by key.
func (s *ArchitectService) Buildings(ctx context.Context, key string, page, limit int) (models.SearchResult, error) {
	a, err := s.Get(ctx, key)
	if err != nil {
		return models.SearchResult{}, err
	}

	page, limit = s.opts.paging(page, limit)
	q := models.SearchQuery{
		Filters:  models.SearchFilters{Architects: []string{strconv.FormatInt(a.ArchitectID, 10)}},
		Page:     page,
		Limit:    limit,
		Language: models.LanguageJa,
	}
	return s.searcher.Run(ctx, q, search.Chain(search.KindView)).Result, nil
}
