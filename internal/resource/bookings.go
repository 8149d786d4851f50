package resource

import "context"

// Booking statuses.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// Booking is a guest's reservation of a listing.
type Booking struct {
	ID          string  `json:"id"`
	ListingID   string  `json:"listingId"`
	GuestID     string  `json:"guestId"`
	GuestName   string  `json:"guestName,omitempty"`
	CheckIn     string  `json:"checkIn"`
	CheckOut    string  `json:"checkOut"`
	Guests      int     `json:"guests"`
	TotalAmount float64 `json:"totalAmount"`
	Currency    string  `json:"currency"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt,omitempty"`
}

func (b Booking) EntityID() string { return b.ID }

// BookingInput is the writable subset of a booking.
type BookingInput struct {
	ListingID string `json:"listingId,omitempty"`
	GuestID   string `json:"guestId,omitempty"`
	CheckIn   string `json:"checkIn,omitempty"`
	CheckOut  string `json:"checkOut,omitempty"`
	Guests    int    `json:"guests,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// Bookings is the bookings module.
type Bookings struct {
	*Module[Booking]
}

// NewBookings creates the bookings module.
func NewBookings(d Deps) *Bookings {
	return &Bookings{newModule[Booking]("bookings", "/v1/bookings", d)}
}

// Create creates a booking.
func (b *Bookings) Create(ctx context.Context, in BookingInput) (Booking, error) {
	return b.create(ctx, in)
}

// Update patches a booking.
func (b *Bookings) Update(ctx context.Context, id string, in BookingInput) (Booking, error) {
	return b.update(ctx, id, in)
}

// Delete deletes a booking.
func (b *Bookings) Delete(ctx context.Context, id string) error {
	return b.remove(ctx, id)
}

// SetStatus moves a booking to status.
func (b *Bookings) SetStatus(ctx context.Context, id, status string) (Booking, error) {
	return b.setStatus(ctx, id, status)
}
