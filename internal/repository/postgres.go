package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"buildings-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the building storage on PostgreSQL/PostGIS.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const buildingColumns = `
	b.building_id,
	b.uid,
	b.slug,
	b.title,
	b.title_en,
	b.thumbnail_url,
	b.youtube_url,
	b.location,
	b.location_en,
	b.prefectures,
	b.prefectures_en,
	b.areas,
	b.areas_en,
	b.building_types,
	b.building_types_en,
	b.parent_building_types,
	b.structures,
	b.parent_structures,
	b.lat::text,
	b.lng::text,
	b.completion_years,
	b.likes,
	b.created_at,
	b.updated_at`

const viewColumns = `
	v.building_id,
	v.uid,
	v.slug,
	v.title,
	v.title_en,
	v.thumbnail_url,
	v.youtube_url,
	v.location,
	v.location_en,
	v.prefectures,
	v.prefectures_en,
	v.areas,
	v.areas_en,
	v.building_types,
	v.building_types_en,
	v.lat,
	v.lng,
	v.completion_years,
	v.likes,
	v.architect_names_ja,
	v.architect_names_en,
	v.architect_ids,
	v.architect_slugs,
	v.architect_order_indices,
	v.created_at,
	v.updated_at`

const legacyArchitectsJoin = `
	LEFT JOIN LATERAL (
		SELECT
			json_agg(json_build_object(
				'architect_id', a.architect_id,
				'architect_name_ja', a.architect_name_ja,
				'architect_name_en', a.architect_name_en,
				'slug', a.slug,
				'order_index', ba.architect_order
			) ORDER BY ba.architect_order) AS architects,
			string_agg(a.architect_name_ja, ' / ' ORDER BY ba.architect_order) AS architect_names
		FROM building_architects ba
		JOIN architects_table a ON a.architect_id = ba.architect_id
		WHERE ba.building_id = b.building_id
	) la ON true`

func buildingDest(c *models.BuildingColumns) []any {
	return []any{
		&c.ID,
		&c.UID,
		&c.Slug,
		&c.Title,
		&c.TitleEn,
		&c.ThumbnailURL,
		&c.YoutubeURL,
		&c.Location,
		&c.LocationEn,
		&c.Prefectures,
		&c.PrefecturesEn,
		&c.Areas,
		&c.AreasEn,
		&c.BuildingTypes,
		&c.BuildingTypesEn,
		&c.ParentBuildingTypes,
		&c.Structures,
		&c.ParentStructures,
		&c.Lat,
		&c.Lng,
		&c.CompletionYears,
		&c.Likes,
		&c.CreatedAt,
		&c.UpdatedAt,
	}
}

func viewDest(v *models.ViewRow) []any {
	return []any{
		&v.ID,
		&v.UID,
		&v.Slug,
		&v.Title,
		&v.TitleEn,
		&v.ThumbnailURL,
		&v.YoutubeURL,
		&v.Location,
		&v.LocationEn,
		&v.Prefectures,
		&v.PrefecturesEn,
		&v.Areas,
		&v.AreasEn,
		&v.BuildingTypes,
		&v.BuildingTypesEn,
		&v.Lat,
		&v.Lng,
		&v.CompletionYears,
		&v.Likes,
		&v.ArchitectNamesJa,
		&v.ArchitectNamesEn,
		&v.ArchitectIDs,
		&v.ArchitectSlugs,
		&v.ArchitectOrderIndices,
		&v.CreatedAt,
		&v.UpdatedAt,
	}
}

// ListBuildings returns one page of buildings, newest first.
func (r *Repository) ListBuildings(ctx context.Context, limit, offset int) ([]models.RawJoinRow, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM buildings_table_2`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repository: failed to count buildings: %w", err)
	}

	sql := `SELECT ` + buildingColumns + `
		FROM buildings_table_2 b
		ORDER BY b.building_id DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, sql, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("repository: failed to execute list query: %w", err)
	}
	result, err := collectRawRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// GetBuildingByID returns models.ErrNotFound when no row matches.
func (r *Repository) GetBuildingByID(ctx context.Context, id int64) (models.RawJoinRow, error) {
	sql := `SELECT ` + buildingColumns + ` FROM buildings_table_2 b WHERE b.building_id = $1`
	return r.getBuilding(ctx, sql, id)
}

// GetBuildingBySlug returns the oldest building with the slug; slugs are not unique in imported data.
func (r *Repository) GetBuildingBySlug(ctx context.Context, slug string) (models.RawJoinRow, error) {
	sql := `SELECT ` + buildingColumns + ` FROM buildings_table_2 b WHERE b.slug = $1 ORDER BY b.building_id LIMIT 1`
	return r.getBuilding(ctx, sql, slug)
}

func (r *Repository) getBuilding(ctx context.Context, sql string, key any) (models.RawJoinRow, error) {
	var row models.RawJoinRow
	err := r.db.QueryRow(ctx, sql, key).Scan(buildingDest(&row.BuildingColumns)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return row, fmt.Errorf("repository: building %v: %w", key, models.ErrNotFound)
		}
		return row, fmt.Errorf("repository: failed to fetch building: %w", err)
	}
	return row, nil
}

// NearbyBuildings calls the nearby_buildings function; rows come back nearest first with their distance.
func (r *Repository) NearbyBuildings(ctx context.Context, lat, lng, radiusKm float64, limit, offset int) ([]models.RawJoinRow, int, error) {
	sql := `SELECT ` + buildingColumns + `, n.distance, n.total
		FROM nearby_buildings($1, $2, $3, $4, $5) n
		JOIN buildings_table_2 b ON b.building_id = n.building_id
		ORDER BY n.distance, b.building_id`

	rows, err := r.db.Query(ctx, sql, lat, lng, radiusKm, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("repository: failed to execute spatial query: %w", err)
	}
	defer rows.Close()

	var result []models.RawJoinRow
	var total int64
	for rows.Next() {
		var row models.RawJoinRow
		var distance float64
		dest := append(buildingDest(&row.BuildingColumns), &distance, &total)
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, fmt.Errorf("repository: failed to scan building: %w", err)
		}
		row.Distance = &distance
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return result, int(total), nil
}

// FullTextSearch matches the query against the view's text search vector, best match first.
func (r *Repository) FullTextSearch(ctx context.Context, q models.SearchQuery) ([]models.ViewRow, int, error) {
	var w whereClause
	tsq := w.arg(q.Filters.TrimmedQuery())
	w.add("v.search_tsv @@ plainto_tsquery('simple', " + tsq + ")")
	viewFilters(&w, q.Filters, false, q.Language)
	return r.queryView(ctx, &w, fullTextOrder(tsq, q.Language), q.Limit, q.Offset())
}

// ViewSearch filters the denormalized view; the query, when present, is a substring match against the
// names in the requested language.
func (r *Repository) ViewSearch(ctx context.Context, q models.SearchQuery) ([]models.ViewRow, int, error) {
	var w whereClause
	pattern := viewFilters(&w, q.Filters, true, q.Language)
	return r.queryView(ctx, &w, viewOrder(pattern, q.Language), q.Limit, q.Offset())
}

func (r *Repository) queryView(ctx context.Context, w *whereClause, order string, limit, offset int) ([]models.ViewRow, int, error) {
	var total int
	countSQL := `SELECT count(*) FROM buildings_with_architects v ` + w.String()
	if err := r.db.QueryRow(ctx, countSQL, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repository: failed to count view rows: %w", err)
	}

	sql := fmt.Sprintf(`SELECT %s FROM buildings_with_architects v %s ORDER BY %s LIMIT %s OFFSET %s`,
		viewColumns, w.String(), order, w.arg(limit), w.arg(offset))

	rows, err := r.db.Query(ctx, sql, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("repository: failed to execute view query: %w", err)
	}
	defer rows.Close()

	var result []models.ViewRow
	for rows.Next() {
		var row models.ViewRow
		if err := rows.Scan(viewDest(&row)...); err != nil {
			return nil, 0, fmt.Errorf("repository: failed to scan view row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return result, total, nil
}

// LegacySearch queries buildings_table_2 through the legacy link tables.
func (r *Repository) LegacySearch(ctx context.Context, q models.SearchQuery, withGeo bool) ([]models.LegacyRow, int, error) {
	var w whereClause
	legacyFilters(&w, q.Filters, withGeo)
	from := `FROM buildings_table_2 b ` + legacyArchitectsJoin + ` ` + w.String()

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) `+from, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repository: failed to count legacy rows: %w", err)
	}

	sql := fmt.Sprintf(`SELECT %s, la.architects, la.architect_names %s ORDER BY b.building_id DESC LIMIT %s OFFSET %s`,
		buildingColumns, from, w.arg(q.Limit), w.arg(q.Offset()))

	rows, err := r.db.Query(ctx, sql, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("repository: failed to execute legacy query: %w", err)
	}
	defer rows.Close()

	var result []models.LegacyRow
	for rows.Next() {
		var row models.LegacyRow
		dest := append(buildingDest(&row.BuildingColumns), &row.Architects, &row.ArchitectNames)
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, fmt.Errorf("repository: failed to scan legacy row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return result, total, nil
}

func collectRawRows(rows pgx.Rows) ([]models.RawJoinRow, error) {
	defer rows.Close()

	var result []models.RawJoinRow
	for rows.Next() {
		var row models.RawJoinRow
		if err := rows.Scan(buildingDest(&row.BuildingColumns)...); err != nil {
			return nil, fmt.Errorf("repository: failed to scan building: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}
	return result, nil
}

// IncrementBuildingLikes calls increment_building_likes and returns the new count.
func (r *Repository) IncrementBuildingLikes(ctx context.Context, buildingID int64) (int, error) {
	return r.increment(ctx, `SELECT increment_building_likes($1)`, buildingID)
}

// IncrementPhotoLikes calls increment_photo_likes and returns the new count.
func (r *Repository) IncrementPhotoLikes(ctx context.Context, photoID int64) (int, error) {
	return r.increment(ctx, `SELECT increment_photo_likes($1)`, photoID)
}

func (r *Repository) increment(ctx context.Context, sql string, id int64) (int, error) {
	var likes *int
	if err := r.db.QueryRow(ctx, sql, id).Scan(&likes); err != nil {
		return 0, fmt.Errorf("repository: failed to increment likes: %w", err)
	}
	if likes == nil {
		return 0, fmt.Errorf("repository: id %d: %w", id, models.ErrNotFound)
	}
	return *likes, nil
}

// SuggestTerms returns building titles and architect names containing q; prefix matches sort first.
func (r *Repository) SuggestTerms(ctx context.Context, q string, limit int) ([]string, error) {
	sql := `
		SELECT term FROM (
			SELECT title AS term FROM buildings_table_2 WHERE title ILIKE $1
			UNION SELECT title_en FROM buildings_table_2 WHERE title_en ILIKE $1
			UNION SELECT name_ja FROM individual_architects WHERE name_ja ILIKE $1
			UNION SELECT name_en FROM individual_architects WHERE name_en ILIKE $1
		) s
		WHERE term IS NOT NULL AND term <> ''
		ORDER BY position(lower($2) IN lower(term)), length(term), term
		LIMIT $3`

	rows, err := r.db.Query(ctx, sql, likePattern(q), q, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute suggestion query: %w", err)
	}
	terms, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("repository: failed to scan suggestions: %w", err)
	}
	return terms, nil
}

// RecordSearch appends one entry to global_search_history.
func (r *Repository) RecordSearch(ctx context.Context, entry models.SearchHistoryEntry) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO global_search_history (query, search_type, filters, session_id) VALUES ($1, $2, $3, $4)`,
		entry.Query, entry.SearchType, entry.Filters, entry.SessionID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to record search: %w", err)
	}
	return nil
}

// PopularSearches returns the most recorded queries since the given time.
func (r *Repository) PopularSearches(ctx context.Context, since time.Time, limit int) ([]models.PopularSearch, error) {
	sql := `
		SELECT query, count(*)::int AS count
		FROM global_search_history
		WHERE searched_at >= $1
		GROUP BY query
		ORDER BY count DESC, query
		LIMIT $2`

	rows, err := r.db.Query(ctx, sql, since, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute popular search query: %w", err)
	}
	popular, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.PopularSearch, error) {
		var p models.PopularSearch
		err := row.Scan(&p.Query, &p.Count)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("repository: failed to scan popular searches: %w", err)
	}
	return popular, nil
}

// BuildingPhotos returns the photos of a building, most liked first.
func (r *Repository) BuildingPhotos(ctx context.Context, buildingID int64) ([]models.Photo, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, building_id, url, likes FROM photos WHERE building_id = $1 ORDER BY likes DESC, id`,
		buildingID,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query photos: %w", err)
	}
	photos, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Photo, error) {
		var p models.Photo
		err := row.Scan(&p.ID, &p.BuildingID, &p.URL, &p.Likes)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("repository: failed to scan photos: %w", err)
	}
	return photos, nil
}
