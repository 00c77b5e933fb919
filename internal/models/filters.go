package models

import "strings"

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SearchFilters holds every user-supplied search constraint.
type SearchFilters struct {
	Query           string       `json:"query"`
	Architects      []string     `json:"architects"`
	BuildingTypes   []string     `json:"buildingTypes"`
	Prefectures     []string     `json:"prefectures"`
	Areas           []string     `json:"areas"`
	HasPhotos       bool         `json:"hasPhotos"`
	HasVideos       bool         `json:"hasVideos"`
	CurrentLocation *Coordinates `json:"currentLocation,omitempty"`
	Radius          *float64     `json:"radius,omitempty"`
}

// TrimmedQuery returns the free-text query without surrounding whitespace.
func (f SearchFilters) TrimmedQuery() string {
	return strings.TrimSpace(f.Query)
}

// Language selects which localized columns a search matches first.
type Language string

const (
	LanguageJa Language = "ja"
	LanguageEn Language = "en"
)

// ParseLanguage maps a request parameter to a Language, defaulting to Japanese.
func ParseLanguage(s string) Language {
	if strings.EqualFold(s, string(LanguageEn)) {
		return LanguageEn
	}
	return LanguageJa
}

// SearchQuery is a search request as seen by the storage layer.
type SearchQuery struct {
	Filters  SearchFilters
	Page     int
	Limit    int
	Language Language
}

// Offset returns the zero-based row offset of the requested page.
func (q SearchQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}
