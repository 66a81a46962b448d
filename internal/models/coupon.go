package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a merchant-owned discount definition. CurrentRedemptions only
// grows, through the guarded increment in the coupon repository.
type Coupon struct {
	ID                 uint            `gorm:"primarykey" json:"id"`
	Code               string          `gorm:"size:64;uniqueIndex;not null" json:"code"`
	MerchantID         uint            `gorm:"index;not null" json:"merchant_id"`
	Category           string          `gorm:"size:64;index" json:"category,omitempty"`
	Title              string          `json:"title"`
	Description        string          `json:"description,omitempty"`
	DiscountType       DiscountType    `gorm:"size:16;not null" json:"discount_type"`
	DiscountValue      decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"discount_value"`
	MaxDiscountAmount  *int64          `json:"max_discount_amount,omitempty"`
	MinPurchaseAmount  *int64          `json:"min_purchase_amount,omitempty"`
	MaxPurchaseAmount  *int64          `json:"max_purchase_amount,omitempty"`
	StartDate          time.Time       `gorm:"index;not null" json:"start_date"`
	EndDate            time.Time       `gorm:"index;not null" json:"end_date"`
	MaxRedemptions     *int64          `json:"max_redemptions,omitempty"`
	CurrentRedemptions int64           `gorm:"not null;default:0" json:"current_redemptions"`
	IsActive           bool            `gorm:"not null" json:"is_active"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// RemainingRedemptions returns -1 when the coupon is uncapped.
func (c *Coupon) RemainingRedemptions() int64 {
	if c.MaxRedemptions == nil {
		return -1
	}
	if left := *c.MaxRedemptions - c.CurrentRedemptions; left > 0 {
		return left
	}
	return 0
}
