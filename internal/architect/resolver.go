// Package architect resolves the ordered architect list of a building across both schema generations:
// the legacy building_architects link table expanded group by group, and the composition tables joined in one query.
package architect

import (
	"context"
	"fmt"
	"strings"

	"buildings-api/internal/models"
	"buildings-api/internal/normalize"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// maxGroupFetches bounds the concurrent group expansions of one building.
const maxGroupFetches = 4

// Generation selects which schema generation a Resolver reads first.
type Generation string

const (
	GenerationComposition Generation = "composition"
	GenerationLegacy      Generation = "legacy"
)

// ParseGeneration maps a config value to a Generation, defaulting to the composition tables.
func ParseGeneration(s string) Generation {
	if strings.EqualFold(strings.TrimSpace(s), string(GenerationLegacy)) {
		return GenerationLegacy
	}
	return GenerationComposition
}

// Store is the storage the resolver reads from.
type Store interface {
	// ArchitectLinks returns the legacy link rows of a building ordered by architect_order.
	ArchitectLinks(ctx context.Context, buildingID int64) ([]models.ArchitectLink, error)
	// ArchitectMembers expands one architect group into its individuals.
	ArchitectMembers(ctx context.Context, architectID int64) ([]models.ArchitectMember, error)
	// BuildingArchitectMembers joins building -> architect order -> compositions -> individuals in one query.
	BuildingArchitectMembers(ctx context.Context, buildingID int64) ([]models.ArchitectMember, error)
}

// Resolver implements normalize.ArchitectResolver.
type Resolver struct {
	store      Store
	generation Generation
	logger     zerolog.Logger
}

// NewResolver creates a resolver reading the given generation first.
func NewResolver(store Store, generation Generation, logger zerolog.Logger) *Resolver {
	return &Resolver{store: store, generation: generation, logger: logger}
}

var _ normalize.ArchitectResolver = (*Resolver)(nil)

// Resolve returns the building's architects ordered by order_index ascending; ties keep fetch order.
// With the composition generation selected, buildings that have no composition rows yet, or whose
// composition query fails, are read through the legacy link table.
func (r *Resolver) Resolve(ctx context.Context, buildingID int64) ([]models.Architect, error) {
	if r.generation == GenerationLegacy {
		return r.resolveLegacy(ctx, buildingID)
	}

	architects, err := r.resolveComposition(ctx, buildingID)
	if err != nil {
		r.logger.Warn().Err(err).Int64("building_id", buildingID).Msg("composition lookup failed, reading legacy link table")
		return r.resolveLegacy(ctx, buildingID)
	}
	if len(architects) == 0 {
		return r.resolveLegacy(ctx, buildingID)
	}
	return architects, nil
}

func (r *Resolver) resolveComposition(ctx context.Context, buildingID int64) ([]models.Architect, error) {
	members, err := r.store.BuildingArchitectMembers(ctx, buildingID)
	if err != nil {
		return nil, fmt.Errorf("architect: failed to load compositions for building %d: %w", buildingID, err)
	}

	seen := make(map[int64]struct{}, len(members))
	architects := make([]models.Architect, 0, len(members))
	for _, m := range members {
		if _, dup := seen[m.IndividualArchitectID]; dup {
			continue
		}
		seen[m.IndividualArchitectID] = struct{}{}
		architects = append(architects, fromMember(m))
	}

	normalize.SortArchitects(architects)
	return architects, nil
}

func (r *Resolver) resolveLegacy(ctx context.Context, buildingID int64) ([]models.Architect, error) {
	links, err := r.store.ArchitectLinks(ctx, buildingID)
	if err != nil {
		return nil, fmt.Errorf("architect: failed to load links for building %d: %w", buildingID, err)
	}

	// groups are independent; a failed group contributes nothing, a cancelled request aborts them all
	groups := make([][]models.Architect, len(links))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxGroupFetches)
	for i, link := range links {
		i, link := i, link
		g.Go(func() error {
			members, err := r.store.ArchitectMembers(gctx, link.ArchitectID)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				r.logger.Warn().Err(err).
					Int64("building_id", buildingID).
					Int64("architect_id", link.ArchitectID).
					Msg("skipping architect group")
				return nil
			}
			groups[i] = expandGroup(link, members)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("architect: expanding groups of building %d: %w", buildingID, err)
	}

	architects := make([]models.Architect, 0, len(links))
	for _, group := range groups {
		architects = append(architects, group...)
	}

	normalize.SortArchitects(architects)
	return architects, nil
}

// expandGroup uses the composition rows when present; otherwise the group's own name, which older rows
// store as a full-width-space separated list, stands in.
func expandGroup(link models.ArchitectLink, members []models.ArchitectMember) []models.Architect {
	if len(members) > 0 {
		out := make([]models.Architect, 0, len(members))
		for _, m := range members {
			out = append(out, fromMember(m))
		}
		return out
	}

	names := normalize.SplitString(link.NameJa, normalize.DelimFullWidthSpace)
	var namesEn []string
	if link.NameEn != nil {
		namesEn = normalize.SplitString(*link.NameEn, normalize.DelimFullWidthSpace)
	}
	slug := ""
	if link.Slug != nil {
		slug = *link.Slug
	}

	out := make([]models.Architect, 0, len(names))
	for i, name := range names {
		en := name
		if len(namesEn) == len(names) {
			en = namesEn[i]
		}
		out = append(out, models.Architect{
			ArchitectID: link.ArchitectID,
			ArchitectJa: name,
			ArchitectEn: en,
			Slug:        slug,
			Websites:    []models.Website{},
			OrderIndex:  link.ArchitectOrder,
		})
	}
	return out
}

func fromMember(m models.ArchitectMember) models.Architect {
	individual := m.IndividualArchitectID
	en := m.NameJa
	if m.NameEn != nil && strings.TrimSpace(*m.NameEn) != "" {
		en = *m.NameEn
	}
	slug := ""
	if m.Slug != nil {
		slug = *m.Slug
	}
	return models.Architect{
		ArchitectID:           m.ArchitectID,
		IndividualArchitectID: &individual,
		ArchitectJa:           m.NameJa,
		ArchitectEn:           en,
		Slug:                  slug,
		Websites:              []models.Website{},
		OrderIndex:            m.OrderIndex,
	}
}
