// Package search picks a search strategy for a request and cascades through fallbacks when one fails.
package search

import "buildings-api/internal/models"

// Kind identifies a search strategy.
type Kind string

const (
	KindSpatial     Kind = "spatial"
	KindFullText    Kind = "fulltext"
	KindView        Kind = "view"
	KindLegacy      Kind = "legacy"
	KindLegacyNoGeo Kind = "legacy_no_geo"
	KindList        Kind = "list"
	KindNone        Kind = "none"
)

// Select returns the primary strategy for the filters. A current location always wins,
// then a non-blank query, then plain filter browsing.
func Select(filters models.SearchFilters) Kind {
	switch {
	case filters.CurrentLocation != nil:
		return KindSpatial
	case filters.TrimmedQuery() != "":
		return KindFullText
	default:
		return KindView
	}
}

// Chain returns the strategies tried, in order, for a primary kind.
func Chain(primary Kind) []Kind {
	switch primary {
	case KindFullText:
		return []Kind{KindFullText, KindView, KindLegacy, KindLegacyNoGeo}
	case KindList:
		return []Kind{KindList, KindView}
	default:
		return []Kind{primary, KindLegacy, KindLegacyNoGeo}
	}
}
