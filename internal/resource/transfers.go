package resource

import "context"

// Transfer statuses.
const (
	TransferPending   = "pending"
	TransferScheduled = "scheduled"
	TransferCompleted = "completed"
	TransferCancelled = "cancelled"
)

// Transfer is a ground transfer arranged for a guest.
type Transfer struct {
	ID          string  `json:"id"`
	BookingID   string  `json:"bookingId,omitempty"`
	Pickup      string  `json:"pickup"`
	Dropoff     string  `json:"dropoff"`
	ScheduledAt string  `json:"scheduledAt"`
	Passengers  int     `json:"passengers"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Status      string  `json:"status"`
}

func (t Transfer) EntityID() string { return t.ID }

// TransferInput is the writable subset of a transfer.
type TransferInput struct {
	BookingID   string `json:"bookingId,omitempty"`
	Pickup      string `json:"pickup"`
	Dropoff     string `json:"dropoff"`
	ScheduledAt string `json:"scheduledAt"`
	Passengers  int    `json:"passengers,omitempty"`
}

// Transfers is the transfers module. Transfers are never edited or deleted,
// only created and moved between statuses.
type Transfers struct {
	*Module[Transfer]
}

// NewTransfers creates the transfers module.
func NewTransfers(d Deps) *Transfers {
	return &Transfers{newModule[Transfer]("transfers", "/v1/transfers", d)}
}

// Create creates a transfer.
func (t *Transfers) Create(ctx context.Context, in TransferInput) (Transfer, error) {
	return t.create(ctx, in)
}

// SetStatus moves a transfer to status.
func (t *Transfers) SetStatus(ctx context.Context, id, status string) (Transfer, error) {
	return t.setStatus(ctx, id, status)
}
