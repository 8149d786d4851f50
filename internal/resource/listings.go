package resource

import "context"

// Listing statuses.
const (
	ListingDraft    = "draft"
	ListingActive   = "active"
	ListingInactive = "inactive"
)

// Listing is a property offered for booking.
type Listing struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	Address       string  `json:"address"`
	City          string  `json:"city"`
	PricePerNight float64 `json:"pricePerNight"`
	Currency      string  `json:"currency"`
	Bedrooms      int     `json:"bedrooms"`
	HostID        string  `json:"hostId"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"createdAt,omitempty"`
}

func (l Listing) EntityID() string { return l.ID }

// ListingInput is the writable subset of a listing.
type ListingInput struct {
	Title         string  `json:"title,omitempty"`
	Description   string  `json:"description,omitempty"`
	Address       string  `json:"address,omitempty"`
	City          string  `json:"city,omitempty"`
	PricePerNight float64 `json:"pricePerNight,omitempty"`
	Currency      string  `json:"currency,omitempty"`
	Bedrooms      int     `json:"bedrooms,omitempty"`
	HostID        string  `json:"hostId,omitempty"`
}

// Listings is the listings module.
type Listings struct {
	*Module[Listing]
}

// NewListings creates the listings module.
func NewListings(d Deps) *Listings {
	return &Listings{newModule[Listing]("listings", "/v1/listings", d)}
}

// Create creates a listing.
func (l *Listings) Create(ctx context.Context, in ListingInput) (Listing, error) {
	return l.create(ctx, in)
}

// Update patches a listing.
func (l *Listings) Update(ctx context.Context, id string, in ListingInput) (Listing, error) {
	return l.update(ctx, id, in)
}

// Delete deletes a listing.
func (l *Listings) Delete(ctx context.Context, id string) error {
	return l.remove(ctx, id)
}

// SetStatus moves a listing to status.
func (l *Listings) SetStatus(ctx context.Context, id, status string) (Listing, error) {
	return l.setStatus(ctx, id, status)
}
