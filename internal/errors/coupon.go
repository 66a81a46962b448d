package errors

var (
	ErrCouponNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "COUPON_NOT_FOUND",
		Message: "coupon not found",
	}
	ErrCouponCodeTaken = &DomainError{
		Kind:    KindAlreadyExists,
		Code:    "COUPON_CODE_TAKEN",
		Message: "coupon code already exists",
	}
	ErrCouponNotValidNow = &DomainError{
		Kind:    KindNotValidNow,
		Code:    "COUPON_NOT_VALID_NOW",
		Message: "coupon is not valid at this time",
	}
	ErrBelowMinimum = &DomainError{
		Kind:    KindBelowMinimum,
		Code:    "BELOW_MINIMUM_PURCHASE",
		Message: "purchase amount is below the coupon minimum",
	}
	ErrAboveMaximum = &DomainError{
		Kind:    KindAboveMaximum,
		Code:    "ABOVE_MAXIMUM_PURCHASE",
		Message: "purchase amount is above the coupon maximum",
	}
	ErrCouponInactive = &DomainError{
		Kind:    KindInactive,
		Code:    "COUPON_INACTIVE",
		Message: "coupon is not active",
	}
	ErrRedemptionCapReached = &DomainError{
		Kind:    KindRedemptionCapReached,
		Code:    "REDEMPTION_CAP_REACHED",
		Message: "coupon redemption limit reached",
	}
	ErrRedemptionNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "REDEMPTION_NOT_FOUND",
		Message: "redemption not found",
	}
	ErrInvalidRedemptionStatus = &DomainError{
		Kind:    KindInvalidInput,
		Code:    "INVALID_REDEMPTION_STATUS",
		Message: "redemption status must be completed or cancelled",
	}
	ErrRedemptionFinalized = &DomainError{
		Kind:    KindConflict,
		Code:    "REDEMPTION_FINALIZED",
		Message: "redemption already reached a terminal status",
	}
	ErrInvalidCoupon = &DomainError{
		Kind:    KindInvalidInput,
		Code:    "INVALID_COUPON",
		Message: "invalid coupon definition",
	}
)
