package models

import "time"

// Building is the canonical building entity every list and search operation returns, whichever upstream shape produced it.
type Building struct {
	ID                  int64       `json:"id"`
	UID                 string      `json:"uid"`
	Slug                string      `json:"slug"`
	Title               string      `json:"title"`
	TitleEn             string      `json:"titleEn"`
	ThumbnailURL        string      `json:"thumbnailUrl"`
	YoutubeURL          string      `json:"youtubeUrl"`
	Location            string      `json:"location"`
	LocationEn          string      `json:"locationEn"`
	Prefectures         string      `json:"prefectures"`
	PrefecturesEn       string      `json:"prefecturesEn"`
	Areas               string      `json:"areas"`
	AreasEn             string      `json:"areasEn"`
	BuildingTypes       []string    `json:"buildingTypes"`
	BuildingTypesEn     []string    `json:"buildingTypesEn"`
	ParentBuildingTypes []string    `json:"parentBuildingTypes"`
	Structures          []string    `json:"structures"`
	ParentStructures    []string    `json:"parentStructures"`
	Lat                 float64     `json:"lat"`
	Lng                 float64     `json:"lng"`
	Distance            *float64    `json:"distance,omitempty"`
	CompletionYears     int         `json:"completionYears"`
	Architects          []Architect `json:"architects"`
	Photos              []Photo     `json:"photos"`
	Likes               int         `json:"likes"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// Photo is a building photo. Only single-building lookups attach them.
type Photo struct {
	ID         int64  `json:"id"`
	BuildingID int64  `json:"building_id"`
	URL        string `json:"url"`
	Likes      int    `json:"likes"`
}

// SearchResult is one page of buildings plus the count the producing strategy reported.
type SearchResult struct {
	Buildings []Building `json:"buildings"`
	Total     int        `json:"total"`
}

// EmptyResult returns a result with a non-nil, empty building list.
func EmptyResult() SearchResult {
	return SearchResult{Buildings: []Building{}, Total: 0}
}
