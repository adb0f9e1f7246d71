package models

import "time"

// EntityType identifies one of the four bookable inventory categories.
type EntityType string

const (
	TypeStay       EntityType = "stay"
	TypeExperience EntityType = "experience"
	TypeTransport  EntityType = "transport"
	TypePackage    EntityType = "package"

	// TypeAll selects every category.
	TypeAll EntityType = "all"
)

// Categories is the fixed iteration order for unified search results:
// all stays precede all experiences, and so on.
var Categories = []EntityType{TypeStay, TypeExperience, TypeTransport, TypePackage}

// SearchParams is the shared filter applied across categories.
// StartDate/EndDate are carried for callers that track a travel window but no
// category filters on them — the search sources hold no availability
// calendar; availability is decided at booking time.
type SearchParams struct {
	Location  string
	Guests    int
	Type      EntityType
	StartDate *time.Time
	EndDate   *time.Time
}

// HasFilter reports whether the params constrain the result set at all.
// Searches with no filter are refused upstream to avoid full-table fetches.
func (p SearchParams) HasFilter() bool {
	return p.Location != "" || p.Guests > 0
}

// SearchResult is the normalized projection every category maps into.
// Rating and ReviewCount are zero for sources that carry no reviews.
type SearchResult struct {
	ID          string
	Type        EntityType
	Title       string
	Location    string
	Price       float64
	PriceUnit   string
	Images      []string
	Rating      float64
	ReviewCount int
}
