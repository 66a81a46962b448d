package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wallet holds the coin balance of one user. Balance is only ever changed
// through the conditional updates in the wallet repository.
type Wallet struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance   int64     `gorm:"not null;default:0;check:chk_wallets_balance,balance >= 0" json:"balance"`
	Currency  string    `gorm:"size:8;not null;default:'COIN'" json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	// Ensure balance starts at 0
	w.Balance = 0
	return nil
}

// WalletTxStatus is always success once a row is visible: the entry and its
// balance change commit in the same transaction.
type WalletTxStatus string

const WalletTxSuccess WalletTxStatus = "success"

// EntrySource names the operation that wrote an entry. References are only
// replayed within the same source.
type EntrySource string

const (
	SourceWallet   EntrySource = "wallet"
	SourcePayment  EntrySource = "payment"
	SourceReversal EntrySource = "reversal"
)

type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// WalletTransaction is an append-only balance event. PaymentRef is the
// idempotency key: a reference resolves to at most one row.
type WalletTransaction struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	WalletID       uint            `gorm:"index;not null" json:"wallet_id"`
	UserID         uint            `gorm:"index;not null" json:"user_id"`
	PaymentRef     string          `gorm:"size:128;uniqueIndex;not null" json:"payment_ref"`
	CoinAmount     int64           `gorm:"not null" json:"coin_amount"`
	MonetaryAmount decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"monetary_amount"`
	Currency       string          `gorm:"size:8" json:"currency"`
	Direction      Direction       `gorm:"size:8;not null" json:"direction"`
	Source         EntrySource     `gorm:"size:16;not null;default:'wallet'" json:"source"`
	Status         WalletTxStatus  `gorm:"size:16;not null;default:'success'" json:"status"`
	Reason         string          `json:"reason,omitempty"`
	BalanceAfter   int64           `json:"balance_after"`
	CreatedAt      time.Time       `gorm:"index" json:"created_at"`
}
