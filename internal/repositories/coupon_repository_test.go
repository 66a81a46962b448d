package repositories_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "loyalty/internal/errors"
	"loyalty/internal/models"
	"loyalty/internal/repositories"
	"loyalty/internal/repositories/repotest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCoupon(code string, merchantID uint, maxRedemptions *int64) *models.Coupon {
	now := time.Now().UTC()
	return &models.Coupon{
		Code:           code,
		MerchantID:     merchantID,
		Category:       "food",
		Title:          code,
		DiscountType:   models.DiscountFixed,
		DiscountValue:  decimal.NewFromInt(100),
		StartDate:      now.Add(-time.Hour),
		EndDate:        now.Add(time.Hour),
		MaxRedemptions: maxRedemptions,
		IsActive:       true,
	}
}

func int64Ptr(v int64) *int64 { return &v }

func TestCouponRepository_UniqueCode(t *testing.T) {
	repo := repositories.NewCouponRepository(repotest.Open(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newCoupon("SAVE10", 1, nil)))
	err := repo.Create(ctx, newCoupon("SAVE10", 2, nil))
	assert.ErrorIs(t, err, apperrors.ErrCouponCodeTaken)

	got, err := repo.GetByCode(ctx, "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, uint(1), got.MerchantID)
	assert.True(t, got.DiscountValue.Equal(decimal.NewFromInt(100)))

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrCouponNotFound)
}

func TestCouponRepository_Listings(t *testing.T) {
	repo := repositories.NewCouponRepository(repotest.Open(t))
	ctx := context.Background()

	expired := newCoupon("OLD", 1, nil)
	expired.StartDate = time.Now().UTC().Add(-48 * time.Hour)
	expired.EndDate = time.Now().UTC().Add(-24 * time.Hour)
	require.NoError(t, repo.Create(ctx, expired))

	live := newCoupon("LIVE", 1, nil)
	require.NoError(t, repo.Create(ctx, live))

	other := newCoupon("OTHER", 2, nil)
	other.Category = "travel"
	require.NoError(t, repo.Create(ctx, other))
	require.NoError(t, repo.SetActive(ctx, other.ID, false))

	byMerchant, err := repo.ListByMerchant(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, byMerchant, 2)

	byCategory, err := repo.ListByCategory(ctx, "travel")
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.False(t, byCategory[0].IsActive)

	active, err := repo.ListActive(ctx, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "LIVE", active[0].Code)

	assert.ErrorIs(t, repo.SetActive(ctx, 999, true), apperrors.ErrCouponNotFound)
}

func TestCouponRepository_IncrementStopsAtCap(t *testing.T) {
	repo := repositories.NewCouponRepository(repotest.Open(t))
	ctx := context.Background()

	coupon := newCoupon("CAP2", 1, int64Ptr(2))
	require.NoError(t, repo.Create(ctx, coupon))

	require.NoError(t, repo.IncrementRedemptions(ctx, coupon.ID))
	require.NoError(t, repo.IncrementRedemptions(ctx, coupon.ID))
	assert.ErrorIs(t, repo.IncrementRedemptions(ctx, coupon.ID), apperrors.ErrRedemptionCapReached)
	assert.ErrorIs(t, repo.IncrementRedemptions(ctx, 999), apperrors.ErrCouponNotFound)

	got, err := repo.GetByID(ctx, coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.CurrentRedemptions)
	assert.Equal(t, int64(0), got.RemainingRedemptions())
}

func TestCouponRepository_ConcurrentIncrements(t *testing.T) {
	repo := repositories.NewCouponRepository(repotest.Open(t))
	ctx := context.Background()

	coupon := newCoupon("RACE", 1, int64Ptr(5))
	require.NoError(t, repo.Create(ctx, coupon))

	var (
		wg sync.WaitGroup
		ok int64
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.IncrementRedemptions(ctx, coupon.ID); err == nil {
				atomic.AddInt64(&ok, 1)
			}
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), ok)
	assert.Equal(t, int64(5), got.CurrentRedemptions)
}

func TestCouponRepository_UncappedIncrement(t *testing.T) {
	repo := repositories.NewCouponRepository(repotest.Open(t))
	ctx := context.Background()

	coupon := newCoupon("FREE", 1, nil)
	require.NoError(t, repo.Create(ctx, coupon))
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.IncrementRedemptions(ctx, coupon.ID), fmt.Sprintf("increment %d", i))
	}

	got, err := repo.GetByID(ctx, coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.CurrentRedemptions)
	assert.Equal(t, int64(-1), got.RemainingRedemptions())
}
