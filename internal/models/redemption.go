package models

import "time"

type RedemptionStatus string

const (
	RedemptionPending   RedemptionStatus = "pending"
	RedemptionCompleted RedemptionStatus = "completed"
	RedemptionCancelled RedemptionStatus = "cancelled"
)

// IsTerminal reports whether the status can no longer change.
func (s RedemptionStatus) IsTerminal() bool {
	return s == RedemptionCompleted || s == RedemptionCancelled
}

// CouponRedemption records one validated use of a coupon. Status moves from
// pending to exactly one terminal status.
type CouponRedemption struct {
	ID             uint             `gorm:"primarykey" json:"id"`
	IdempotencyKey string           `gorm:"size:128;uniqueIndex;not null" json:"idempotency_key"`
	UserID         uint             `gorm:"index;not null" json:"user_id"`
	CouponID       uint             `gorm:"index;not null" json:"coupon_id"`
	PurchaseAmount int64            `gorm:"not null" json:"purchase_amount"`
	DiscountAmount int64            `gorm:"not null" json:"discount_amount"`
	Status         RedemptionStatus `gorm:"size:16;index;not null;default:'pending'" json:"status"`
	RedeemedAt     time.Time        `gorm:"not null" json:"redeemed_at"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty"`
	CancelledAt    *time.Time       `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}
