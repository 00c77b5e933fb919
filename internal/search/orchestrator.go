package search

import (
	"context"
	"fmt"
	"sort"

	"buildings-api/internal/geo"
	"buildings-api/internal/models"
	"buildings-api/internal/normalize"

	"github.com/rs/zerolog"
)

// Store is the storage collaborator every strategy queries. Each call returns one page of rows and the
// total number of matches.
type Store interface {
	NearbyBuildings(ctx context.Context, lat, lng, radiusKm float64, limit, offset int) ([]models.RawJoinRow, int, error)
	FullTextSearch(ctx context.Context, q models.SearchQuery) ([]models.ViewRow, int, error)
	ViewSearch(ctx context.Context, q models.SearchQuery) ([]models.ViewRow, int, error)
	LegacySearch(ctx context.Context, q models.SearchQuery, withGeo bool) ([]models.LegacyRow, int, error)
	ListBuildings(ctx context.Context, limit, offset int) ([]models.RawJoinRow, int, error)
}

// Recorder receives strategy outcomes. Implemented by metrics.Collector.
type Recorder interface {
	RecordStrategyAttempt(strategy string)
	RecordStrategyFailure(strategy string)
}

// Failure is one demotion in a cascade.
type Failure struct {
	Strategy Kind
	Err      error
}

// Outcome is what a cascade produced: the result, the strategy that produced it (KindNone when every
// strategy failed) and the failures that led there.
type Outcome struct {
	Result   models.SearchResult
	Strategy Kind
	Failures []Failure
}

// Orchestrator runs strategy chains against the store.
type Orchestrator struct {
	store           Store
	normalizer      *normalize.Normalizer
	recorder        Recorder
	logger          zerolog.Logger
	defaultRadiusKm float64
}

// NewOrchestrator creates an orchestrator. recorder may be nil.
func NewOrchestrator(store Store, normalizer *normalize.Normalizer, recorder Recorder, logger zerolog.Logger, defaultRadiusKm float64) *Orchestrator {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Orchestrator{
		store:           store,
		normalizer:      normalizer,
		recorder:        recorder,
		logger:          logger,
		defaultRadiusKm: defaultRadiusKm,
	}
}

// Search selects the primary strategy for q and cascades through its fallback chain.
func (o *Orchestrator) Search(ctx context.Context, q models.SearchQuery) Outcome {
	return o.Run(ctx, q, Chain(Select(q.Filters)))
}

// List pages through every building.
func (o *Orchestrator) List(ctx context.Context, page, limit int) Outcome {
	q := models.SearchQuery{Page: page, Limit: limit, Language: models.LanguageJa}
	return o.Run(ctx, q, Chain(KindList))
}

// Nearby returns buildings within radiusKm of a point, nearest first.
func (o *Orchestrator) Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) Outcome {
	q := models.SearchQuery{
		Filters: models.SearchFilters{
			CurrentLocation: &models.Coordinates{Lat: lat, Lng: lng},
			Radius:          &radiusKm,
		},
		Page:     1,
		Limit:    limit,
		Language: models.LanguageJa,
	}
	return o.Run(ctx, q, Chain(KindSpatial))
}

// Run tries each strategy in order. Errors demote to the next strategy and are never returned;
// when the chain is exhausted the outcome carries an empty result.
func (o *Orchestrator) Run(ctx context.Context, q models.SearchQuery, chain []Kind) Outcome {
	var failures []Failure
	for _, kind := range chain {
		o.recorder.RecordStrategyAttempt(string(kind))

		result, err := o.execute(ctx, kind, q)
		if err != nil {
			o.recorder.RecordStrategyFailure(string(kind))
			o.logger.Warn().Err(err).Str("strategy", string(kind)).Msg("search strategy failed, falling back")
			failures = append(failures, Failure{Strategy: kind, Err: err})
			continue
		}

		return Outcome{
			Result:   applyDistance(result, q.Filters),
			Strategy: kind,
			Failures: failures,
		}
	}

	o.logger.Error().Int("attempts", len(chain)).Msg("all search strategies failed, returning empty result")
	return Outcome{Result: models.EmptyResult(), Strategy: KindNone, Failures: failures}
}

func (o *Orchestrator) execute(ctx context.Context, kind Kind, q models.SearchQuery) (models.SearchResult, error) {
	switch kind {
	case KindSpatial:
		loc := q.Filters.CurrentLocation
		if loc == nil {
			return models.SearchResult{}, fmt.Errorf("search: spatial strategy requires a current location")
		}
		radius := o.defaultRadiusKm
		if q.Filters.Radius != nil {
			radius = *q.Filters.Radius
		}
		rows, total, err := o.store.NearbyBuildings(ctx, loc.Lat, loc.Lng, radius, q.Limit, q.Offset())
		if err != nil {
			return models.SearchResult{}, err
		}
		return o.result(normalize.All(ctx, o.normalizer, rows), total), nil

	case KindFullText:
		rows, total, err := o.store.FullTextSearch(ctx, q)
		if err != nil {
			return models.SearchResult{}, err
		}
		return o.result(normalize.All(ctx, o.normalizer, rows), total), nil

	case KindView:
		rows, total, err := o.store.ViewSearch(ctx, q)
		if err != nil {
			return models.SearchResult{}, err
		}
		return o.result(normalize.All(ctx, o.normalizer, rows), total), nil

	case KindLegacy, KindLegacyNoGeo:
		rows, total, err := o.store.LegacySearch(ctx, q, kind == KindLegacy)
		if err != nil {
			return models.SearchResult{}, err
		}
		return o.result(normalize.All(ctx, o.normalizer, rows), total), nil

	case KindList:
		rows, total, err := o.store.ListBuildings(ctx, q.Limit, q.Offset())
		if err != nil {
			return models.SearchResult{}, err
		}
		return o.result(normalize.All(ctx, o.normalizer, rows), total), nil

	default:
		return models.SearchResult{}, fmt.Errorf("search: unknown strategy %q", kind)
	}
}

func (o *Orchestrator) result(buildings []models.Building, total int) models.SearchResult {
	return models.SearchResult{Buildings: buildings, Total: total}
}

// applyDistance computes distances only when the strategy did not already return them. With a radius,
// rows farther away are dropped and the total becomes the filtered count; without one, rows are sorted
// nearest first and the strategy's total is kept.
func applyDistance(result models.SearchResult, filters models.SearchFilters) models.SearchResult {
	loc := filters.CurrentLocation
	if loc == nil || len(result.Buildings) == 0 || carriesDistance(result.Buildings) {
		return result
	}

	buildings := make([]models.Building, len(result.Buildings))
	copy(buildings, result.Buildings)
	for i := range buildings {
		d := geo.DistanceKm(loc.Lat, loc.Lng, buildings[i].Lat, buildings[i].Lng)
		buildings[i].Distance = &d
	}

	if filters.Radius != nil {
		filtered := make([]models.Building, 0, len(buildings))
		for _, b := range buildings {
			if *b.Distance <= *filters.Radius {
				filtered = append(filtered, b)
			}
		}
		return models.SearchResult{Buildings: filtered, Total: len(filtered)}
	}

	sort.SliceStable(buildings, func(i, j int) bool {
		return *buildings[i].Distance < *buildings[j].Distance
	})
	return models.SearchResult{Buildings: buildings, Total: result.Total}
}

func carriesDistance(buildings []models.Building) bool {
	for _, b := range buildings {
		if b.Distance == nil {
			return false
		}
	}
	return true
}

type nopRecorder struct{}

func (nopRecorder) RecordStrategyAttempt(string) {}
func (nopRecorder) RecordStrategyFailure(string) {}
