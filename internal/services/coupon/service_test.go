package coupon

import (
	"context"
	"strconv"
	"testing"
	"time"

	apperrors "loyalty/internal/errors"
	"loyalty/internal/models"
	"loyalty/internal/repositories"
	"loyalty/internal/repositories/repotest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *MockCache) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

var fixedNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func input(code string) CreateCouponInput {
	return CreateCouponInput{
		MerchantID:    1,
		Code:          code,
		Category:      "food",
		Title:         "Lunch deal",
		DiscountType:  "percentage",
		DiscountValue: decimal.NewFromInt(15),
		StartDate:     fixedNow.Add(-time.Hour),
		EndDate:       fixedNow.Add(time.Hour),
	}
}

func newTestService(t *testing.T) Service {
	t.Helper()
	repo := repositories.NewCouponRepository(repotest.Open(t))
	return NewService(repo, nil, Config{Now: func() time.Time { return fixedNow }}, nil)
}

func TestCouponService_CreateNormalizesCode(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateCoupon(ctx, input("  lunch-15 "))
	require.NoError(t, err)
	assert.Equal(t, "LUNCH-15", c.Code)
	assert.True(t, c.IsActive)
	assert.Equal(t, models.DiscountPercentage, c.DiscountType)

	byCode, err := svc.GetCouponByCode(ctx, "lunch-15")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byCode.ID)

	_, err = svc.CreateCoupon(ctx, input("LUNCH-15"))
	assert.ErrorIs(t, err, apperrors.ErrCouponCodeTaken)
}

func TestCouponService_CreateRejectsInvalid(t *testing.T) {
	svc := newTestService(t)

	in := input("BAD")
	in.DiscountValue = decimal.NewFromInt(120)
	_, err := svc.CreateCoupon(context.Background(), in)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCoupon)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
}

func TestCouponService_CreateInactive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	inactive := false
	in := input("DORMANT")
	in.Active = &inactive
	c, err := svc.CreateCoupon(ctx, in)
	require.NoError(t, err)

	got, err := svc.GetCoupon(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestCouponService_SetActiveOwnerOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateCoupon(ctx, input("OWNED"))
	require.NoError(t, err)

	_, err = svc.SetActive(ctx, c.ID, 2, false)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	updated, err := svc.SetActive(ctx, c.ID, 1, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = svc.SetActive(ctx, 999, 1, false)
	assert.ErrorIs(t, err, apperrors.ErrCouponNotFound)

	byMerchant, err := svc.ListByMerchant(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byMerchant, 1)
	assert.False(t, byMerchant[0].IsActive)

	byCategory, err := svc.ListByCategory(ctx, "food")
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)
}

func TestCouponService_ReadThroughCache(t *testing.T) {
	repo := repositories.NewCouponRepository(repotest.Open(t))
	c := new(MockCache)
	svc := NewService(repo, c, Config{CacheTTL: time.Minute, Now: func() time.Time { return fixedNow }}, nil)
	ctx := context.Background()

	created, err := svc.CreateCoupon(ctx, input("CACHED"))
	require.NoError(t, err)

	key := "coupon:id:" + uintString(created.ID)
	c.On("Get", mock.Anything, key, mock.Anything).Return(false, nil).Once()
	c.On("SetWithTTL", mock.Anything, key, mock.AnythingOfType("*models.Coupon"), time.Minute).Return(nil).Once()

	got, err := svc.GetCoupon(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "CACHED", got.Code)

	c.On("Delete", mock.Anything, []string{key, "coupon:code:CACHED"}).Return(nil).Once()
	_, err = svc.SetActive(ctx, created.ID, 1, false)
	require.NoError(t, err)

	c.AssertExpectations(t)
}

func TestCouponService_CacheHitSkipsStore(t *testing.T) {
	repo := repositories.NewCouponRepository(repotest.Open(t))
	c := new(MockCache)
	svc := NewService(repo, c, Config{}, nil)

	c.On("Get", mock.Anything, "coupon:code:GHOST", mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*models.Coupon)
			dest.ID = 77
			dest.Code = "GHOST"
		}).
		Return(true, nil).Once()

	got, err := svc.GetCouponByCode(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, uint(77), got.ID)
	c.AssertExpectations(t)
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
