package models

// PopularSearch is a query and how often it was recorded in the history window.
type PopularSearch struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// SearchHistoryEntry is one recorded search event.
type SearchHistoryEntry struct {
	Query      string
	SearchType string
	Filters    SearchFilters
	SessionID  string
}
