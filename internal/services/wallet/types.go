package wallet

import (
	"loyalty/internal/models"

	"github.com/shopspring/decimal"
)

// Config holds configuration for wallet operations
type Config struct {
	DefaultCurrency string
	ListLimit       int
}

// CreditRequest adds coins after an external payment was confirmed.
// PaymentRef is the confirmation id and doubles as the idempotency key.
type CreditRequest struct {
	UserID     uint
	Coins      int64
	Amount     decimal.Decimal
	PaymentRef string
	Reason     string
	// Source defaults to SourceWallet.
	Source models.EntrySource
}

// DebitRequest removes coins. An empty Reference makes the call
// non-idempotent.
type DebitRequest struct {
	UserID    uint
	Coins     int64
	Reference string
	Reason    string
	Source    models.EntrySource
}

type Balance struct {
	UserID   uint   `json:"user_id"`
	Balance  int64  `json:"balance"`
	Currency string `json:"currency"`
}
