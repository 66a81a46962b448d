package redemption

import (
	"time"

	apperrors "loyalty/internal/errors"
	"loyalty/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CheckEligibility applies the redemption rules in a fixed order: validity
// window, minimum purchase, maximum purchase, active flag, then the cap as
// seen at read time. Both ends of the window are inclusive.
func CheckEligibility(c *models.Coupon, purchaseAmount int64, at time.Time) error {
	if at.Before(c.StartDate) || at.After(c.EndDate) {
		return apperrors.ErrCouponNotValidNow
	}
	if c.MinPurchaseAmount != nil && purchaseAmount < *c.MinPurchaseAmount {
		return apperrors.ErrBelowMinimum.WithMessage(
			"purchase amount %d is below the coupon minimum of %d", purchaseAmount, *c.MinPurchaseAmount)
	}
	if c.MaxPurchaseAmount != nil && purchaseAmount > *c.MaxPurchaseAmount {
		return apperrors.ErrAboveMaximum.WithMessage(
			"purchase amount %d is above the coupon maximum of %d", purchaseAmount, *c.MaxPurchaseAmount)
	}
	if !c.IsActive {
		return apperrors.ErrCouponInactive
	}
	if c.MaxRedemptions != nil && c.CurrentRedemptions >= *c.MaxRedemptions {
		return apperrors.ErrRedemptionCapReached
	}
	return nil
}

// ComputeDiscount returns the discount in whole coins. Percentages round
// down and are clamped to MaxDiscountAmount; no discount exceeds the
// purchase amount.
func ComputeDiscount(c *models.Coupon, purchaseAmount int64) int64 {
	if purchaseAmount <= 0 {
		return 0
	}

	var discount int64
	switch c.DiscountType {
	case models.DiscountPercentage:
		discount = decimal.NewFromInt(purchaseAmount).
			Mul(c.DiscountValue).
			Div(hundred).
			Floor().
			IntPart()
		if c.MaxDiscountAmount != nil && discount > *c.MaxDiscountAmount {
			discount = *c.MaxDiscountAmount
		}
	case models.DiscountFixed:
		discount = c.DiscountValue.Floor().IntPart()
	}

	if discount > purchaseAmount {
		discount = purchaseAmount
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}
