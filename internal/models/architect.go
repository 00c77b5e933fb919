package models

// Architect is one credited architect of a building. ArchitectID names the group, IndividualArchitectID the person
// when the group has been expanded through the composition table.
type Architect struct {
	ArchitectID           int64     `json:"architect_id"`
	IndividualArchitectID *int64    `json:"individual_architect_id,omitempty"`
	ArchitectJa           string    `json:"architectJa"`
	ArchitectEn           string    `json:"architectEn"`
	Slug                  string    `json:"slug"`
	Websites              []Website `json:"websites"`
	OrderIndex            int       `json:"order_index"`
}

// Website is an architect link. Always empty at this layer.
type Website struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// ArchitectLink is a row of the legacy building_architects link table joined with its architect group.
type ArchitectLink struct {
	BuildingID     int64
	ArchitectID    int64
	ArchitectOrder int
	NameJa         string
	NameEn         *string
	Slug           *string
}

// ArchitectMember is one individual reached through the architect_compositions table.
type ArchitectMember struct {
	ArchitectID           int64
	IndividualArchitectID int64
	NameJa                string
	NameEn                *string
	Slug                  *string
	OrderIndex            int
}
