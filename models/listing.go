package models

// ScrapedListing is a result card lifted from a portal's search results page.
// Request-scoped, never persisted; the URL is the identity used for
// cross-portal deduplication.
type ScrapedListing struct {
	Source       string `json:"source"`
	Title        string `json:"title"`
	PriceText    string `json:"price_text"`
	LocationText string `json:"location_text"`
	URL          string `json:"url"`
	ImageURL     string `json:"image_url,omitempty"`
}

type LinkCategory string

const (
	LinkCategoryPortal        LinkCategory = "portal"
	LinkCategoryAgencyNetwork LinkCategory = "agency_network"
	LinkCategoryInternational LinkCategory = "international"
)

// PortalLink is a deterministically built deep link into an external portal's
// search results. Purely derived, never persisted.
type PortalLink struct {
	Portal   string       `json:"portal"`
	Title    string       `json:"title"`
	URL      string       `json:"url"`
	Icon     string       `json:"icon"`
	Category LinkCategory `json:"category"`
}
