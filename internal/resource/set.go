package resource

// Set bundles every resource module.
type Set struct {
	Listings  *Listings
	Bookings  *Bookings
	Users     *Users
	Transfers *Transfers
	AuditLogs *AuditLogs
	Wallet    *Wallet
}

// NewSet creates all modules over the same client and policy.
func NewSet(d Deps) *Set {
	return &Set{
		Listings:  NewListings(d),
		Bookings:  NewBookings(d),
		Users:     NewUsers(d),
		Transfers: NewTransfers(d),
		AuditLogs: NewAuditLogs(d),
		Wallet:    NewWallet(d),
	}
}

// Close retires every module's cache.
func (s *Set) Close() {
	s.Listings.Close()
	s.Bookings.Close()
	s.Users.Close()
	s.Transfers.Close()
	s.AuditLogs.Close()
	s.Wallet.Close()
}
