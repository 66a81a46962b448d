package payment

import (
	"context"

	"loyalty/internal/models"
	"loyalty/internal/repositories"
	"loyalty/internal/services/redemption"
	"loyalty/internal/services/wallet"
)

// Service defines the payment service interface
type Service interface {
	// Pay moves coins from a user to a merchant, optionally applying one of
	// the merchant's coupons. Everything commits in one store transaction.
	Pay(ctx context.Context, req PayRequest) (*models.Transaction, error)

	// Reverse refunds a completed payment with a new credit record. The
	// original record is left untouched.
	Reverse(ctx context.Context, transactionID, actorMerchantID uint) (*models.Transaction, error)

	GetPayment(ctx context.Context, id uint) (*models.Transaction, error)
	ListUserPayments(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error)
	ListMerchantPayments(ctx context.Context, merchantID uint, limit, offset int) ([]models.Transaction, int64, error)
}

// Dependencies required by the payment service
type WalletService interface {
	CreditWith(ctx context.Context, store repositories.Store, req wallet.CreditRequest) (*models.WalletTransaction, error)
	DebitWith(ctx context.Context, store repositories.Store, req wallet.DebitRequest) (*models.WalletTransaction, error)
}

type RedemptionService interface {
	RedeemWith(ctx context.Context, store repositories.Store, req redemption.RedeemRequest) (*models.CouponRedemption, error)
	UpdateRedemptionStatusWith(ctx context.Context, store repositories.Store, redemptionID uint, status models.RedemptionStatus, actorMerchantID uint) (*models.CouponRedemption, error)
}

type PayRequest struct {
	UserID      uint
	MerchantID  uint
	BillAmount  int64
	CouponID    *uint
	Description string
	// IdempotencyKey makes retries safe. When empty a fresh key is used.
	IdempotencyKey string
}
