package domain

import "time"

// ListingImage is the persisted shape of one uploaded photo. The ephemeral
// preview URL of a draft image is deliberately not part of it.
type ListingImage struct {
	StorageKey string
	OwnerID    string
	RemoteURL  string
}

// Listing is a published vehicle ad. The image set is fixed at creation
// time; there is no edit flow.
type Listing struct {
	ID          string
	OwnerID     string
	OwnerName   string
	Name        string
	Model       string
	Year        string
	Mileage     string
	Price       string
	City        string
	Phone       string
	Description string
	Images      []ListingImage
	CreatedAt   time.Time
}

// DraftImage is an uploaded-but-not-yet-submitted photo held in the owner's
// draft workspace.
type DraftImage struct {
	StorageKey string
	OwnerID    string
	PreviewURL string
	RemoteURL  string
}

// Filter for browsing listings.
type Filter struct {
	Search  string // matches against the listing name
	OwnerID string
}
