package models

import "time"

// Shape names one of the upstream row layouts a canonical Building can be built from.
type Shape string

const (
	ShapeRawJoin Shape = "raw_join"
	ShapeView    Shape = "view"
	ShapeLegacy  Shape = "legacy"
)

// Row is implemented by every upstream building row shape.
type Row interface {
	Shape() Shape
}

// BuildingColumns are the buildings_table_2 columns shared by the raw-join and legacy shapes.
// Coordinates are kept as text because legacy imports stored them that way.
type BuildingColumns struct {
	ID                  int64
	UID                 *string
	Slug                *string
	Title               string
	TitleEn             *string
	ThumbnailURL        *string
	YoutubeURL          *string
	Location            *string
	LocationEn          *string
	Prefectures         *string
	PrefecturesEn       *string
	Areas               *string
	AreasEn             *string
	BuildingTypes       *string
	BuildingTypesEn     *string
	ParentBuildingTypes *string
	Structures          *string
	ParentStructures    *string
	Lat                 *string
	Lng                 *string
	CompletionYears     *string
	Likes               *int
	CreatedAt           *time.Time
	UpdatedAt           *time.Time
}

// RawJoinRow is a buildings_table_2 row. Architects are resolved per building through the link tables.
// Distance is set only when the row came back from the nearby_buildings RPC.
type RawJoinRow struct {
	BuildingColumns
	Distance *float64
}

func (RawJoinRow) Shape() Shape { return ShapeRawJoin }

// ViewRow is a buildings_with_architects row: architect data arrives as parallel comma-joined strings.
type ViewRow struct {
	ID                    int64
	UID                   *string
	Slug                  *string
	Title                 string
	TitleEn               *string
	ThumbnailURL          *string
	YoutubeURL            *string
	Location              *string
	LocationEn            *string
	Prefectures           *string
	PrefecturesEn         *string
	Areas                 *string
	AreasEn               *string
	BuildingTypes         *string
	BuildingTypesEn       *string
	Lat                   *float64
	Lng                   *float64
	CompletionYears       *int
	Likes                 *int
	ArchitectNamesJa      *string
	ArchitectNamesEn      *string
	ArchitectIDs          *string
	ArchitectSlugs        *string
	ArchitectOrderIndices *string
	CreatedAt             *time.Time
	UpdatedAt             *time.Time
}

func (ViewRow) Shape() Shape { return ShapeView }

// LegacyArchitect is one element of the structured architects list a legacy row may carry.
type LegacyArchitect struct {
	ArchitectID int64   `json:"architect_id"`
	NameJa      string  `json:"architect_name_ja"`
	NameEn      *string `json:"architect_name_en"`
	Slug        *string `json:"slug"`
	OrderIndex  int     `json:"order_index"`
}

// LegacyRow is the flattened projection the legacy search returns: either a structured architects list
// or a single slash-delimited architect name string.
type LegacyRow struct {
	BuildingColumns
	Architects     []LegacyArchitect
	ArchitectNames *string
}

func (LegacyRow) Shape() Shape { return ShapeLegacy }
