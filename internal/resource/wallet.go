package resource

import (
	"context"
	"fmt"

	"github.com/matheus3301/padesk/internal/wire"
)

const walletPath = "/v1/wallet"

// WalletTransaction is one movement of funds.
type WalletTransaction struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"` // credit or debit
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description,omitempty"`
	Reference   string  `json:"reference,omitempty"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
}

func (w WalletTransaction) EntityID() string { return w.ID }

// WalletBalance is the wallet's current position.
type WalletBalance struct {
	Balance   float64 `json:"balance"`
	Available float64 `json:"available"`
	Pending   float64 `json:"pending"`
	Currency  string  `json:"currency"`
	UpdatedAt string  `json:"updatedAt,omitempty"`
}

// WalletMovement funds or withdraws from the wallet.
type WalletMovement struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Wallet lists transactions and moves funds. Balance is a single read and is
// not degraded: a denied balance is an error worth showing.
type Wallet struct {
	*Module[WalletTransaction]
}

// NewWallet creates the wallet module.
func NewWallet(d Deps) *Wallet {
	return &Wallet{newModule[WalletTransaction]("wallet-transactions", walletPath+"/transactions", d)}
}

// Balance fetches the current balance.
func (w *Wallet) Balance(ctx context.Context) (WalletBalance, error) {
	body, err := w.client.Get(ctx, walletPath+"/balance", nil)
	if err != nil {
		return WalletBalance{}, err
	}
	b, err := wire.Object[WalletBalance](body)
	if err != nil {
		return WalletBalance{}, fmt.Errorf("decode wallet balance: %w", err)
	}
	return b, nil
}

// Fund credits the wallet.
func (w *Wallet) Fund(ctx context.Context, in WalletMovement) (WalletTransaction, error) {
	return w.move(ctx, "/fund", in)
}

// Withdraw debits the wallet.
func (w *Wallet) Withdraw(ctx context.Context, in WalletMovement) (WalletTransaction, error) {
	return w.move(ctx, "/withdraw", in)
}

func (w *Wallet) move(ctx context.Context, suffix string, in WalletMovement) (WalletTransaction, error) {
	if in.Amount <= 0 {
		return WalletTransaction{}, fmt.Errorf("amount must be positive, got %v", in.Amount)
	}
	body, err := w.client.Post(ctx, walletPath+suffix, in)
	if err != nil {
		return WalletTransaction{}, err
	}
	return decodeEntity[WalletTransaction]("wallet transaction", body)
}
