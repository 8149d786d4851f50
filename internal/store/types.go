package store

// Tokens is the persisted bearer session.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	Subject      string
	ExpiresAt    int64 // unix ms, 0 when unknown
}
