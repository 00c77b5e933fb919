// Package normalize converts the upstream building row shapes into the canonical models.Building.
package normalize

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"buildings-api/internal/models"

	"github.com/rs/zerolog"
)

// ErrInvalidGeometry marks a row whose coordinates are missing or not finite numbers.
// Callers skip the row and keep the rest of the batch.
var ErrInvalidGeometry = errors.New("invalid geometry")

// ArchitectResolver returns the ordered architects credited on a building.
type ArchitectResolver interface {
	Resolve(ctx context.Context, buildingID int64) ([]models.Architect, error)
}

// SkipObserver is notified whenever a row is dropped from a batch.
type SkipObserver interface {
	RecordNormalizationSkip(shape string)
}

// Normalizer turns upstream rows into canonical buildings.
type Normalizer struct {
	resolver ArchitectResolver
	observer SkipObserver
	logger   zerolog.Logger
	now      func() time.Time
}

// New creates a normalizer. resolver is only used for raw-join rows; observer may be nil.
func New(resolver ArchitectResolver, observer SkipObserver, logger zerolog.Logger) *Normalizer {
	return &Normalizer{
		resolver: resolver,
		observer: observer,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock returns a copy of n that uses now for defaulted years and timestamps.
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	c := *n
	c.now = now
	return &c
}

// Normalize dispatches on the row shape.
func (n *Normalizer) Normalize(ctx context.Context, row models.Row) (models.Building, error) {
	switch r := row.(type) {
	case models.RawJoinRow:
		return n.FromRawJoin(ctx, r)
	case *models.RawJoinRow:
		return n.FromRawJoin(ctx, *r)
	case models.ViewRow:
		return n.FromView(r), nil
	case *models.ViewRow:
		return n.FromView(*r), nil
	case models.LegacyRow:
		return n.FromLegacy(r), nil
	case *models.LegacyRow:
		return n.FromLegacy(*r), nil
	default:
		return models.Building{}, fmt.Errorf("normalize: unsupported row type %T", row)
	}
}

// All normalizes rows in order, dropping the ones that fail. The returned slice is never nil.
func All[R models.Row](ctx context.Context, n *Normalizer, rows []R) []models.Building {
	buildings := make([]models.Building, 0, len(rows))
	for _, row := range rows {
		b, err := n.Normalize(ctx, row)
		if err != nil {
			n.logger.Warn().Err(err).Str("shape", string(row.Shape())).Msg("skipping building row")
			if n.observer != nil {
				n.observer.RecordNormalizationSkip(string(row.Shape()))
			}
			continue
		}
		buildings = append(buildings, b)
	}
	return buildings
}

// FromRawJoin validates coordinates strictly and resolves architects through the link tables.
func (n *Normalizer) FromRawJoin(ctx context.Context, row models.RawJoinRow) (models.Building, error) {
	lat, err := parseCoordinate(row.Lat)
	if err != nil {
		return models.Building{}, fmt.Errorf("normalize: building %d lat: %w", row.ID, err)
	}
	lng, err := parseCoordinate(row.Lng)
	if err != nil {
		return models.Building{}, fmt.Errorf("normalize: building %d lng: %w", row.ID, err)
	}

	b := n.fromColumns(row.BuildingColumns)
	b.Slug = deref(row.Slug)
	b.Lat = lat
	b.Lng = lng
	b.Distance = row.Distance

	if n.resolver != nil {
		architects, err := n.resolver.Resolve(ctx, row.ID)
		if err != nil {
			n.logger.Warn().Err(err).Int64("building_id", row.ID).Msg("architect resolution failed")
		} else if architects != nil {
			b.Architects = architects
		}
	}

	return b, nil
}

// FromView zips the view's parallel architect columns. Coordinates pass through unchecked.
func (n *Normalizer) FromView(row models.ViewRow) models.Building {
	ja := row.Title
	b := models.Building{
		ID:                  row.ID,
		UID:                 deref(row.UID),
		Slug:                deref(row.Slug),
		Title:               ja,
		TitleEn:             fallback(row.TitleEn, ja),
		ThumbnailURL:        deref(row.ThumbnailURL),
		YoutubeURL:          deref(row.YoutubeURL),
		Location:            deref(row.Location),
		LocationEn:          fallback(row.LocationEn, deref(row.Location)),
		Prefectures:         deref(row.Prefectures),
		PrefecturesEn:       fallback(row.PrefecturesEn, deref(row.Prefectures)),
		Areas:               deref(row.Areas),
		AreasEn:             fallback(row.AreasEn, deref(row.Areas)),
		BuildingTypes:       SplitList(row.BuildingTypes, DelimSlash),
		BuildingTypesEn:     splitWithFallback(row.BuildingTypesEn, row.BuildingTypes, DelimSlash),
		ParentBuildingTypes: []string{},
		Structures:          []string{},
		ParentStructures:    []string{},
		CompletionYears:     n.now().Year(),
		Architects:          viewArchitects(row),
		Photos:              []models.Photo{},
		Likes:               derefInt(row.Likes),
		CreatedAt:           n.timestamp(row.CreatedAt),
		UpdatedAt:           n.timestamp(row.UpdatedAt),
	}
	if row.CompletionYears != nil {
		b.CompletionYears = *row.CompletionYears
	}
	if row.Lat != nil {
		b.Lat = *row.Lat
	}
	if row.Lng != nil {
		b.Lng = *row.Lng
	}
	return b
}

// FromLegacy tolerates unusable coordinates by defaulting them to 0 and synthesizes a slug when none is stored.
func (n *Normalizer) FromLegacy(row models.LegacyRow) models.Building {
	b := n.fromColumns(row.BuildingColumns)
	b.Slug = legacySlug(row.BuildingColumns)
	if lat, err := parseCoordinate(row.Lat); err == nil {
		b.Lat = lat
	}
	if lng, err := parseCoordinate(row.Lng); err == nil {
		b.Lng = lng
	}

	if len(row.Architects) > 0 {
		architects := make([]models.Architect, 0, len(row.Architects))
		for _, a := range row.Architects {
			architects = append(architects, models.Architect{
				ArchitectID: a.ArchitectID,
				ArchitectJa: a.NameJa,
				ArchitectEn: fallback(a.NameEn, a.NameJa),
				Slug:        deref(a.Slug),
				Websites:    []models.Website{},
				OrderIndex:  a.OrderIndex,
			})
		}
		SortArchitects(architects)
		b.Architects = architects
		return b
	}

	for i, name := range SplitList(row.ArchitectNames, DelimSlash) {
		b.Architects = append(b.Architects, models.Architect{
			ArchitectJa: name,
			ArchitectEn: name,
			Websites:    []models.Website{},
			OrderIndex:  i,
		})
	}
	return b
}

// SortArchitects orders by OrderIndex ascending. Equal indices keep their incoming order.
func SortArchitects(architects []models.Architect) {
	sort.SliceStable(architects, func(i, j int) bool {
		return architects[i].OrderIndex < architects[j].OrderIndex
	})
}

func (n *Normalizer) fromColumns(c models.BuildingColumns) models.Building {
	location := deref(c.Location)
	prefectures := deref(c.Prefectures)
	areas := deref(c.Areas)

	return models.Building{
		ID:                  c.ID,
		UID:                 deref(c.UID),
		Title:               c.Title,
		TitleEn:             fallback(c.TitleEn, c.Title),
		ThumbnailURL:        deref(c.ThumbnailURL),
		YoutubeURL:          deref(c.YoutubeURL),
		Location:            location,
		LocationEn:          fallback(c.LocationEn, location),
		Prefectures:         prefectures,
		PrefecturesEn:       fallback(c.PrefecturesEn, prefectures),
		Areas:               areas,
		AreasEn:             fallback(c.AreasEn, areas),
		BuildingTypes:       SplitList(c.BuildingTypes, DelimSlash),
		BuildingTypesEn:     splitWithFallback(c.BuildingTypesEn, c.BuildingTypes, DelimSlash),
		ParentBuildingTypes: SplitList(c.ParentBuildingTypes, DelimSlash),
		Structures:          SplitList(c.Structures, DelimComma),
		ParentStructures:    SplitList(c.ParentStructures, DelimComma),
		CompletionYears:     n.completionYear(c.CompletionYears),
		Architects:          []models.Architect{},
		Photos:              []models.Photo{},
		Likes:               derefInt(c.Likes),
		CreatedAt:           n.timestamp(c.CreatedAt),
		UpdatedAt:           n.timestamp(c.UpdatedAt),
	}
}

func viewArchitects(row models.ViewRow) []models.Architect {
	names := splitPositional(row.ArchitectNamesJa, DelimComma)
	namesEn := splitPositional(row.ArchitectNamesEn, DelimComma)
	ids := splitPositional(row.ArchitectIDs, DelimComma)
	slugs := splitPositional(row.ArchitectSlugs, DelimComma)
	orders := splitPositional(row.ArchitectOrderIndices, DelimComma)
	useOrder := len(orders) > 0 && len(orders) == len(names)

	architects := make([]models.Architect, 0, len(names))
	for i, name := range names {
		if name == "" {
			continue
		}
		a := models.Architect{
			ArchitectJa: name,
			ArchitectEn: name,
			Websites:    []models.Website{},
			OrderIndex:  i,
		}
		if en := at(namesEn, i); en != "" {
			a.ArchitectEn = en
		}
		if id, err := strconv.ParseInt(at(ids, i), 10, 64); err == nil {
			a.ArchitectID = id
		}
		a.Slug = at(slugs, i)
		if useOrder {
			if idx, err := strconv.Atoi(orders[i]); err == nil {
				a.OrderIndex = idx
			}
		}
		architects = append(architects, a)
	}

	if useOrder {
		SortArchitects(architects)
	}
	return architects
}

func legacySlug(c models.BuildingColumns) string {
	if s := strings.TrimSpace(deref(c.Slug)); s != "" {
		return s
	}
	if uid := strings.TrimSpace(deref(c.UID)); uid != "" {
		return uid
	}
	return strconv.FormatInt(c.ID, 10)
}

func parseCoordinate(s *string) (float64, error) {
	if s == nil {
		return 0, fmt.Errorf("%w: missing coordinate", ErrInvalidGeometry)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: non-numeric coordinate %q", ErrInvalidGeometry, *s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: non-finite coordinate %q", ErrInvalidGeometry, *s)
	}
	return v, nil
}

// completionYear reads the leading digits ("1995", "1995年") and falls back to the current year.
func (n *Normalizer) completionYear(s *string) int {
	if s == nil {
		return n.now().Year()
	}
	digits := strings.TrimSpace(*s)
	end := 0
	for end < len(digits) && digits[end] >= '0' && digits[end] <= '9' {
		end++
	}
	year, err := strconv.Atoi(digits[:end])
	if err != nil {
		return n.now().Year()
	}
	return year
}

func (n *Normalizer) timestamp(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return n.now().UTC()
	}
	return *t
}

func splitWithFallback(en, ja *string, sep string) []string {
	if parts := SplitList(en, sep); len(parts) > 0 {
		return parts
	}
	return SplitList(ja, sep)
}

func fallback(en *string, ja string) string {
	if en == nil || strings.TrimSpace(*en) == "" {
		return ja
	}
	return *en
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

func at(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}
