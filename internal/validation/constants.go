package validation

const (
	// Coupon code
	MinCodeLength = 3
	MaxCodeLength = 64

	// String lengths
	MaxTitleLength       = 120
	MaxCategoryLength    = 64
	MaxDescriptionLength = 500

	MaxPercentage = 100
)
