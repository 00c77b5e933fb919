package repository

import (
	"fmt"
	"strings"

	"buildings-api/internal/geo"
	"buildings-api/internal/models"
)

// whereClause accumulates AND-ed conditions and their positional arguments.
type whereClause struct {
	conds []string
	args  []any
}

// arg appends v and returns its placeholder.
func (w *whereClause) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *whereClause) add(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *whereClause) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}

// likePattern wraps s in % after escaping LIKE wildcards.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// textColumns are the view expressions holding the names shown in one language.
type textColumns struct {
	title, location, architects string
}

// columnsFor picks the columns matched for lang. English falls back to the Japanese text
// where no translation is stored, the same way buildings are rendered.
func columnsFor(lang models.Language) textColumns {
	if lang == models.LanguageEn {
		return textColumns{
			title:      "coalesce(nullif(v.title_en, ''), v.title)",
			location:   "coalesce(nullif(v.location_en, ''), v.location)",
			architects: "coalesce(nullif(v.architect_names_en, ''), v.architect_names_ja)",
		}
	}
	return textColumns{title: "v.title", location: "v.location", architects: "v.architect_names_ja"}
}

// viewFilters builds the structured filter conditions shared by the full-text and view strategies.
// It returns the placeholder of the substring pattern, or "" when the query is not matched here.
func viewFilters(w *whereClause, f models.SearchFilters, matchQuery bool, lang models.Language) string {
	var pattern string
	if q := f.TrimmedQuery(); matchQuery && q != "" {
		pattern = w.arg(likePattern(q))
		c := columnsFor(lang)
		w.add(fmt.Sprintf("(%[2]s ILIKE %[1]s OR %[3]s ILIKE %[1]s OR %[4]s ILIKE %[1]s)", pattern, c.title, c.location, c.architects))
	}
	if architects := nonEmpty(f.Architects); len(architects) > 0 {
		p := w.arg(architects)
		w.add(fmt.Sprintf("(string_to_array(v.architect_ids, ',') && %[1]s::text[] OR string_to_array(v.architect_slugs, ',') && %[1]s::text[])", p))
	}
	if types := nonEmpty(f.BuildingTypes); len(types) > 0 {
		p := w.arg(types)
		w.add(fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(%s::text[]) t WHERE v.building_types ILIKE '%%' || t || '%%' OR v.building_types_en ILIKE '%%' || t || '%%')", p))
	}
	if prefs := nonEmpty(f.Prefectures); len(prefs) > 0 {
		p := w.arg(prefs)
		w.add(fmt.Sprintf("(v.prefectures = ANY(%[1]s) OR v.prefectures_en = ANY(%[1]s))", p))
	}
	if areas := nonEmpty(f.Areas); len(areas) > 0 {
		p := w.arg(areas)
		w.add(fmt.Sprintf("(v.areas = ANY(%[1]s) OR v.areas_en = ANY(%[1]s))", p))
	}
	if f.HasPhotos {
		w.add("v.has_photos")
	}
	if f.HasVideos {
		w.add("coalesce(v.youtube_url, '') <> ''")
	}
	return pattern
}

// viewOrder puts title matches in lang first, then architect name matches.
func viewOrder(pattern string, lang models.Language) string {
	if pattern == "" {
		return "v.building_id DESC"
	}
	c := columnsFor(lang)
	return fmt.Sprintf("CASE WHEN %[2]s ILIKE %[1]s THEN 0 WHEN %[3]s ILIKE %[1]s THEN 1 ELSE 2 END, v.building_id DESC",
		pattern, c.title, c.architects)
}

// fullTextOrder ranks buildings whose title in lang matches the tsquery above the rest, then by ts_rank.
func fullTextOrder(tsquery string, lang models.Language) string {
	c := columnsFor(lang)
	return fmt.Sprintf("(to_tsvector('simple', coalesce(%[2]s, '')) @@ plainto_tsquery('simple', %[1]s)) DESC, "+
		"ts_rank(v.search_tsv, plainto_tsquery('simple', %[1]s)) DESC, v.building_id DESC", tsquery, c.title)
}

// legacyFilters mirrors viewFilters against buildings_table_2 and the legacy link tables.
// With withGeo set and a radius given, rows outside the radius' bounding box are excluded.
func legacyFilters(w *whereClause, f models.SearchFilters, withGeo bool) {
	if q := f.TrimmedQuery(); q != "" {
		p := w.arg(likePattern(q))
		w.add(fmt.Sprintf("(b.title ILIKE %[1]s OR b.title_en ILIKE %[1]s OR b.location ILIKE %[1]s OR la.architect_names ILIKE %[1]s)", p))
	}
	if architects := nonEmpty(f.Architects); len(architects) > 0 {
		p := w.arg(architects)
		w.add(fmt.Sprintf(`EXISTS (SELECT 1 FROM building_architects ba JOIN architects_table a ON a.architect_id = ba.architect_id
			WHERE ba.building_id = b.building_id AND (a.architect_id::text = ANY(%[1]s) OR a.slug = ANY(%[1]s)))`, p))
	}
	if types := nonEmpty(f.BuildingTypes); len(types) > 0 {
		p := w.arg(types)
		w.add(fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(%s::text[]) t WHERE b.building_types ILIKE '%%' || t || '%%' OR b.building_types_en ILIKE '%%' || t || '%%')", p))
	}
	if prefs := nonEmpty(f.Prefectures); len(prefs) > 0 {
		p := w.arg(prefs)
		w.add(fmt.Sprintf("(b.prefectures = ANY(%[1]s) OR b.prefectures_en = ANY(%[1]s))", p))
	}
	if areas := nonEmpty(f.Areas); len(areas) > 0 {
		p := w.arg(areas)
		w.add(fmt.Sprintf("(b.areas = ANY(%[1]s) OR b.areas_en = ANY(%[1]s))", p))
	}
	if f.HasPhotos {
		w.add("EXISTS (SELECT 1 FROM photos p WHERE p.building_id = b.building_id)")
	}
	if f.HasVideos {
		w.add("coalesce(b.youtube_url, '') <> ''")
	}
	if withGeo && f.CurrentLocation != nil && f.Radius != nil {
		minLat, maxLat, minLng, maxLng := geo.BoundingBox(f.CurrentLocation.Lat, f.CurrentLocation.Lng, *f.Radius)
		w.add(fmt.Sprintf("b.lat BETWEEN %s AND %s", w.arg(minLat), w.arg(maxLat)))
		w.add(fmt.Sprintf("b.lng BETWEEN %s AND %s", w.arg(minLng), w.arg(maxLng)))
	}
}
