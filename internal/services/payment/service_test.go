package payment

import (
	"context"
	"testing"
	"time"

	apperrors "loyalty/internal/errors"
	"loyalty/internal/models"
	"loyalty/internal/repositories"
	"loyalty/internal/repositories/repotest"
	"loyalty/internal/services/redemption"
	"loyalty/internal/services/wallet"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userID     uint = 1
	merchantID uint = 50
)

type fixture struct {
	store   repositories.Store
	wallets wallet.Service
	svc     Service
}

func newFixture(t *testing.T, startingCoins int64) *fixture {
	t.Helper()
	store := repositories.NewStore(repotest.Open(t))
	wallets := wallet.NewService(store, wallet.Config{}, nil)
	redemptions := redemption.NewService(store, redemption.Config{}, nil)

	if startingCoins > 0 {
		_, err := wallets.Credit(context.Background(), wallet.CreditRequest{UserID: userID, Coins: startingCoins, PaymentRef: "top-up"})
		require.NoError(t, err)
	}
	return &fixture{store: store, wallets: wallets, svc: NewService(store, wallets, redemptions)}
}

func (f *fixture) coupon(t *testing.T, owner uint, maxRedemptions *int64) *models.Coupon {
	t.Helper()
	now := time.Now().UTC()
	c := &models.Coupon{
		Code:           "PAY" + now.Format("150405.000000000"),
		MerchantID:     owner,
		Title:          "10 percent off",
		DiscountType:   models.DiscountPercentage,
		DiscountValue:  decimal.NewFromInt(10),
		StartDate:      now.Add(-time.Hour),
		EndDate:        now.Add(time.Hour),
		MaxRedemptions: maxRedemptions,
		IsActive:       true,
	}
	require.NoError(t, f.store.Coupons().Create(context.Background(), c))
	return c
}

func (f *fixture) balance(t *testing.T) int64 {
	t.Helper()
	b, err := f.wallets.GetBalance(context.Background(), userID)
	require.NoError(t, err)
	return b.Balance
}

func TestPay_WithoutCoupon(t *testing.T) {
	f := newFixture(t, 1000)

	txn, err := f.svc.Pay(context.Background(), PayRequest{UserID: userID, MerchantID: merchantID, BillAmount: 400})
	require.NoError(t, err)

	assert.Equal(t, int64(400), txn.CoinAmount)
	assert.Equal(t, int64(0), txn.DiscountAmount)
	assert.Equal(t, models.TransactionCompleted, txn.Status)
	assert.Nil(t, txn.RedemptionID)
	assert.Equal(t, int64(600), f.balance(t))
}

func TestPay_WithCouponCompletesRedemption(t *testing.T) {
	f := newFixture(t, 1000)
	c := f.coupon(t, merchantID, nil)
	ctx := context.Background()

	txn, err := f.svc.Pay(ctx, PayRequest{UserID: userID, MerchantID: merchantID, BillAmount: 500, CouponID: &c.ID})
	require.NoError(t, err)

	assert.Equal(t, int64(50), txn.DiscountAmount)
	assert.Equal(t, int64(450), txn.CoinAmount)
	assert.Equal(t, int64(550), f.balance(t))

	require.NotNil(t, txn.RedemptionID)
	r, err := f.store.Redemptions().GetByID(ctx, *txn.RedemptionID)
	require.NoError(t, err)
	assert.Equal(t, models.RedemptionCompleted, r.Status)
}

func TestPay_InsufficientBalanceRollsBackRedemption(t *testing.T) {
	f := newFixture(t, 100)
	c := f.coupon(t, merchantID, ptr(1))
	ctx := context.Background()

	_, err := f.svc.Pay(ctx, PayRequest{UserID: userID, MerchantID: merchantID, BillAmount: 500, CouponID: &c.ID})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)

	got, err := f.store.Coupons().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.CurrentRedemptions)

	redemptions, err := f.store.Redemptions().ListByCoupon(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, redemptions)
	assert.Equal(t, int64(100), f.balance(t))
}

func TestPay_ForeignCoupon(t *testing.T) {
	f := newFixture(t, 1000)
	c := f.coupon(t, merchantID+1, nil)

	_, err := f.svc.Pay(context.Background(), PayRequest{UserID: userID, MerchantID: merchantID, BillAmount: 100, CouponID: &c.ID})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, int64(1000), f.balance(t))
}

func TestPay_Idempotent(t *testing.T) {
	f := newFixture(t, 1000)
	ctx := context.Background()
	req := PayRequest{UserID: userID, MerchantID: merchantID, BillAmount: 300, IdempotencyKey: "order-7"}

	first, err := f.svc.Pay(ctx, req)
	require.NoError(t, err)
	second, err := f.svc.Pay(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(700), f.balance(t))

	req.BillAmount = 301
	_, err = f.svc.Pay(ctx, req)
	assert.ErrorIs(t, err, apperrors.ErrReferenceConflict)
}

func TestPay_DirectDebitCannotUsePaymentReference(t *testing.T) {
	f := newFixture(t, 1000)
	ctx := context.Background()

	_, err := f.wallets.Debit(ctx, wallet.DebitRequest{UserID: userID, Coins: 100, Reference: wallet.PaymentRefPrefix + "K"})
	assert.ErrorIs(t, err, apperrors.ErrReservedReference)
	_, err = f.wallets.Credit(ctx, wallet.CreditRequest{UserID: userID, Coins: 100, PaymentRef: wallet.ReversalRefPrefix + "K"})
	assert.ErrorIs(t, err, apperrors.ErrReservedReference)
	assert.Equal(t, int64(1000), f.balance(t))

	txn, err := f.svc.Pay(ctx, PayRequest{UserID: userID, MerchantID: merchantID, BillAmount: 100, IdempotencyKey: "K"})
	require.NoError(t, err)
	assert.Equal(t, int64(100), txn.CoinAmount)
	assert.Equal(t, int64(900), f.balance(t))

	entries, err := f.wallets.ListTransactions(ctx, userID, 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.SourcePayment, entries[0].Source)
	assert.Equal(t, txn.Reference, entries[0].PaymentRef)
}

func TestPay_DoesNotAdoptWalletEntryWithSameReference(t *testing.T) {
	f := newFixture(t, 1000)
	ctx := context.Background()

	// An entry written outside the payment flow under the payment's reference.
	_, err := f.wallets.DebitWith(ctx, f.store, wallet.DebitRequest{UserID: userID, Coins: 100, Reference: wallet.PaymentRefPrefix + "K"})
	require.NoError(t, err)
	require.Equal(t, int64(900), f.balance(t))

	_, err = f.svc.Pay(ctx, PayRequest{UserID: userID, MerchantID: merchantID, BillAmount: 100, IdempotencyKey: "K"})
	assert.ErrorIs(t, err, apperrors.ErrReferenceConflict)
	assert.Equal(t, int64(900), f.balance(t))

	_, err = f.store.Transactions().GetByReference(ctx, wallet.PaymentRefPrefix+"K")
	assert.ErrorIs(t, err, apperrors.ErrTransactionNotFound)
}

func TestPay_InvalidAmount(t *testing.T) {
	f := newFixture(t, 0)
	_, err := f.svc.Pay(context.Background(), PayRequest{UserID: userID, MerchantID: merchantID, BillAmount: 0})
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
}

func TestReverse(t *testing.T) {
	f := newFixture(t, 1000)
	ctx := context.Background()

	txn, err := f.svc.Pay(ctx, PayRequest{UserID: userID, MerchantID: merchantID, BillAmount: 250})
	require.NoError(t, err)
	assert.Equal(t, int64(750), f.balance(t))

	_, err = f.svc.Reverse(ctx, txn.ID, merchantID+1)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	reversal, err := f.svc.Reverse(ctx, txn.ID, merchantID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionTypeCredit, reversal.Type)
	require.NotNil(t, reversal.ReversalOfID)
	assert.Equal(t, txn.ID, *reversal.ReversalOfID)
	assert.Equal(t, int64(1000), f.balance(t))

	again, err := f.svc.Reverse(ctx, txn.ID, merchantID)
	require.NoError(t, err)
	assert.Equal(t, reversal.ID, again.ID)
	assert.Equal(t, int64(1000), f.balance(t))

	_, err = f.svc.Reverse(ctx, reversal.ID, merchantID)
	assert.ErrorIs(t, err, apperrors.ErrTransactionNotReversible)

	original, err := f.svc.GetPayment(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionCompleted, original.Status)

	list, total, err := f.svc.ListMerchantPayments(ctx, merchantID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	mine, err := f.svc.ListUserPayments(ctx, userID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func ptr(v int64) *int64 { return &v }
