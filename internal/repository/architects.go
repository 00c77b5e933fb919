package repository

import (
	"context"
	"errors"
	"fmt"

	"buildings-api/internal/models"

	"github.com/jackc/pgx/v5"
)

// ArchitectLinks returns the legacy building_architects rows of a building joined with their group.
func (r *Repository) ArchitectLinks(ctx context.Context, buildingID int64) ([]models.ArchitectLink, error) {
	sql := `
		SELECT ba.building_id, ba.architect_id, ba.architect_order, a.architect_name_ja, a.architect_name_en, a.slug
		FROM building_architects ba
		JOIN architects_table a ON a.architect_id = ba.architect_id
		WHERE ba.building_id = $1
		ORDER BY ba.architect_order`

	rows, err := r.db.Query(ctx, sql, buildingID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query architect links: %w", err)
	}
	links, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ArchitectLink, error) {
		var l models.ArchitectLink
		err := row.Scan(&l.BuildingID, &l.ArchitectID, &l.ArchitectOrder, &l.NameJa, &l.NameEn, &l.Slug)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("repository: failed to scan architect links: %w", err)
	}
	return links, nil
}

// ArchitectMembers expands an architect group through architect_compositions.
func (r *Repository) ArchitectMembers(ctx context.Context, architectID int64) ([]models.ArchitectMember, error) {
	sql := `
		SELECT ac.architect_id, ia.individual_architect_id, ia.name_ja, ia.name_en, ia.slug, ac.order_index
		FROM architect_compositions ac
		JOIN individual_architects ia ON ia.individual_architect_id = ac.individual_architect_id
		WHERE ac.architect_id = $1
		ORDER BY ac.order_index`

	rows, err := r.db.Query(ctx, sql, architectID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query architect compositions: %w", err)
	}
	return collectMembers(rows)
}

// BuildingArchitectMembers resolves every individual of a building in one join over the composition tables.
// OrderIndex is the building-level order; rows within a group follow the composition order.
func (r *Repository) BuildingArchitectMembers(ctx context.Context, buildingID int64) ([]models.ArchitectMember, error) {
	sql := `
		SELECT bo.architect_id, ia.individual_architect_id, ia.name_ja, ia.name_en, ia.slug, bo.order_index
		FROM building_architect_order bo
		JOIN architect_compositions ac ON ac.architect_id = bo.architect_id
		JOIN individual_architects ia ON ia.individual_architect_id = ac.individual_architect_id
		WHERE bo.building_id = $1
		ORDER BY bo.order_index, ac.order_index`

	rows, err := r.db.Query(ctx, sql, buildingID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query building compositions: %w", err)
	}
	return collectMembers(rows)
}

func collectMembers(rows pgx.Rows) ([]models.ArchitectMember, error) {
	members, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ArchitectMember, error) {
		var m models.ArchitectMember
		err := row.Scan(&m.ArchitectID, &m.IndividualArchitectID, &m.NameJa, &m.NameEn, &m.Slug, &m.OrderIndex)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("repository: failed to scan architect members: %w", err)
	}
	return members, nil
}

const architectColumns = `a.architect_id, a.architect_name_ja, coalesce(a.architect_name_en, ''), coalesce(a.slug, '')`

func scanArchitect(row pgx.Row) (models.Architect, error) {
	a := models.Architect{Websites: []models.Website{}}
	err := row.Scan(&a.ArchitectID, &a.ArchitectJa, &a.ArchitectEn, &a.Slug)
	if a.ArchitectEn == "" {
		a.ArchitectEn = a.ArchitectJa
	}
	return a, err
}

// GetArchitectByID returns models.ErrNotFound when the group does not exist.
func (r *Repository) GetArchitectByID(ctx context.Context, id int64) (models.Architect, error) {
	return r.getArchitect(ctx, `SELECT `+architectColumns+` FROM architects_table a WHERE a.architect_id = $1`, id)
}

// GetArchitectBySlug returns models.ErrNotFound when no group has the slug.
func (r *Repository) GetArchitectBySlug(ctx context.Context, slug string) (models.Architect, error) {
	return r.getArchitect(ctx, `SELECT `+architectColumns+` FROM architects_table a WHERE a.slug = $1`, slug)
}

func (r *Repository) getArchitect(ctx context.Context, sql string, key any) (models.Architect, error) {
	a, err := scanArchitect(r.db.QueryRow(ctx, sql, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Architect{}, fmt.Errorf("repository: architect %v: %w", key, models.ErrNotFound)
		}
		return models.Architect{}, fmt.Errorf("repository: failed to fetch architect: %w", err)
	}
	return a, nil
}

// SearchArchitects matches architect groups by Japanese or English name.
func (r *Repository) SearchArchitects(ctx context.Context, q string, limit int) ([]models.Architect, error) {
	sql := `SELECT ` + architectColumns + `
		FROM architects_table a
		WHERE a.architect_name_ja ILIKE $1 OR a.architect_name_en ILIKE $1
		ORDER BY a.architect_name_ja
		LIMIT $2`

	rows, err := r.db.Query(ctx, sql, likePattern(q), limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute architect search: %w", err)
	}
	architects, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Architect, error) {
		return scanArchitect(row)
	})
	if err != nil {
		return nil, fmt.Errorf("repository: failed to scan architects: %w", err)
	}
	return architects, nil
}
