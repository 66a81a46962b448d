package validation

import (
	"loyalty/internal/models"

	"github.com/shopspring/decimal"
)

// Coupon validates a coupon definition before it is stored. It checks shape
// only; eligibility rules belong to the redemption engine.
func (v *Validator) Coupon(c *models.Coupon) {
	v.Code("code", c.Code)
	v.Required("merchant_id", c.MerchantID)
	v.Required("title", c.Title)
	v.MaxLength("title", c.Title, MaxTitleLength)
	v.MaxLength("category", c.Category, MaxCategoryLength)
	v.MaxLength("description", c.Description, MaxDescriptionLength)

	v.Check(c.DiscountType == models.DiscountPercentage || c.DiscountType == models.DiscountFixed,
		"discount_type", "must be either percentage or fixed")
	v.Check(c.DiscountValue.IsPositive(), "discount_value", "must be greater than zero")
	if c.DiscountType == models.DiscountPercentage {
		v.Check(c.DiscountValue.LessThanOrEqual(decimal.NewFromInt(MaxPercentage)),
			"discount_value", "must not exceed 100 percent")
	}

	v.NonNegative("max_discount_amount", c.MaxDiscountAmount)
	v.NonNegative("min_purchase_amount", c.MinPurchaseAmount)
	v.NonNegative("max_purchase_amount", c.MaxPurchaseAmount)
	if c.MinPurchaseAmount != nil && c.MaxPurchaseAmount != nil {
		v.Check(*c.MinPurchaseAmount <= *c.MaxPurchaseAmount,
			"max_purchase_amount", "must not be below min_purchase_amount")
	}

	v.Check(!c.StartDate.IsZero(), "start_date", "must be set")
	v.Check(c.EndDate.After(c.StartDate), "end_date", "must be after start_date")

	if c.MaxRedemptions != nil {
		v.Check(*c.MaxRedemptions >= 1, "max_redemptions", "must be at least 1")
	}
}
