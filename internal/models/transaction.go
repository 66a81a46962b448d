package models

import (
	"time"
)

type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction is the merchant-facing ledger entry for a coin payment. Rows
// are never updated after a terminal status; a refund is a new credit row
// pointing at the original through ReversalOfID.
type Transaction struct {
	ID             uint              `gorm:"primarykey" json:"id"`
	Reference      string            `gorm:"size:128;uniqueIndex;not null" json:"reference"`
	UserID         uint              `gorm:"index;not null" json:"user_id"`
	MerchantID     uint              `gorm:"index;not null" json:"merchant_id"`
	CouponID       *uint             `gorm:"index" json:"coupon_id,omitempty"`
	RedemptionID   *uint             `json:"redemption_id,omitempty"`
	CoinAmount     int64             `gorm:"not null" json:"coin_amount"`
	BillAmount     int64             `gorm:"not null" json:"bill_amount"`
	DiscountAmount int64             `gorm:"not null;default:0" json:"discount_amount"`
	Type           TransactionType   `gorm:"size:8;not null" json:"type"`
	Status         TransactionStatus `gorm:"size:16;not null;default:'pending'" json:"status"`
	ReversalOfID   *uint             `gorm:"uniqueIndex" json:"reversal_of_id,omitempty"`
	Description    string            `json:"description,omitempty"`
	CreatedAt      time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}
