// Command admin_seed loads a demo coupon and a funded wallet so a fresh
// environment can be exercised end to end. Running it twice is a no-op.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"loyalty/internal/config"
	apperrors "loyalty/internal/errors"
	"loyalty/internal/repositories"
	"loyalty/internal/services/coupon"
	"loyalty/internal/services/wallet"

	"github.com/shopspring/decimal"
)

func main() {
	config.LoadEnv()
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	userID := uint(config.GetIntEnv("SEED_USER_ID", 1))
	merchantID := uint(config.GetIntEnv("SEED_MERCHANT_ID", 1))
	coins := int64(config.GetIntEnv("SEED_COINS", 1000))
	code := config.GetEnv("SEED_COUPON_CODE", "WELCOME10")

	db, err := repositories.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repositories.Close(db)

	if err := repositories.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	store := repositories.NewStore(db)
	wallets := wallet.NewService(store, wallet.Config{DefaultCurrency: cfg.Wallet.DefaultCurrency}, nil)
	coupons := coupon.NewService(store.Coupons(), nil, coupon.Config{}, nil)

	entry, err := wallets.Credit(ctx, wallet.CreditRequest{
		UserID:     userID,
		Coins:      coins,
		Amount:     decimal.NewFromInt(coins).Div(decimal.NewFromInt(100)),
		PaymentRef: "seed-initial-credit",
		Reason:     "seed",
	})
	if err != nil {
		log.Fatalf("Failed to credit wallet: %v", err)
	}
	log.Printf("✅ Wallet for user %d holds %d coins", userID, entry.BalanceAfter)

	maxDiscount := int64(500)
	now := time.Now().UTC()
	c, err := coupons.CreateCoupon(ctx, coupon.CreateCouponInput{
		MerchantID:        merchantID,
		Code:              code,
		Category:          "welcome",
		Title:             "10% off your first purchase",
		DiscountType:      "percentage",
		DiscountValue:     decimal.NewFromInt(10),
		MaxDiscountAmount: &maxDiscount,
		StartDate:         now,
		EndDate:           now.AddDate(0, 3, 0),
	})
	switch {
	case errors.Is(err, apperrors.ErrCouponCodeTaken):
		log.Printf("Coupon %s already exists", code)
	case err != nil:
		log.Fatalf("Failed to create coupon: %v", err)
	default:
		log.Printf("✅ Coupon %s created with id %d", c.Code, c.ID)
	}
}
