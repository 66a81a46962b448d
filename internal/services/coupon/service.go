// Package coupon is the coupon catalog: merchant-owned coupon definitions
// looked up by id, code, merchant, category or validity window.
package coupon

import (
	"context"
	"log"
	"strings"
	"time"

	apperrors "loyalty/internal/errors"
	"loyalty/internal/metrics"
	"loyalty/internal/models"
	"loyalty/internal/repositories"
	"loyalty/internal/repositories/cache"
	cachekeys "loyalty/internal/utils/cache"
	"loyalty/internal/validation"

	"github.com/shopspring/decimal"
)

type Service interface {
	CreateCoupon(ctx context.Context, input CreateCouponInput) (*models.Coupon, error)
	GetCoupon(ctx context.Context, id uint) (*models.Coupon, error)
	GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error)
	ListByMerchant(ctx context.Context, merchantID uint) ([]models.Coupon, error)
	ListByCategory(ctx context.Context, category string) ([]models.Coupon, error)
	ListActive(ctx context.Context) ([]models.Coupon, error)
	// SetActive toggles a coupon. Only the owning merchant may do this.
	SetActive(ctx context.Context, couponID, actorMerchantID uint, active bool) (*models.Coupon, error)
}

type CreateCouponInput struct {
	MerchantID        uint            `json:"-"`
	Code              string          `json:"code"`
	Category          string          `json:"category"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	DiscountType      string          `json:"discount_type"`
	DiscountValue     decimal.Decimal `json:"discount_value"`
	MaxDiscountAmount *int64          `json:"max_discount_amount"`
	MinPurchaseAmount *int64          `json:"min_purchase_amount"`
	MaxPurchaseAmount *int64          `json:"max_purchase_amount"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           time.Time       `json:"end_date"`
	MaxRedemptions    *int64          `json:"max_redemptions"`
	// Active defaults to true.
	Active *bool `json:"is_active"`
}

type Config struct {
	CacheTTL time.Duration
	Now      func() time.Time
}

const DefaultCacheTTL = 5 * time.Minute

type service struct {
	coupons repositories.CouponRepository
	cache   cache.Cache
	config  Config
	metrics metrics.Collector
}

func NewService(coupons repositories.CouponRepository, c cache.Cache, config Config, collector metrics.Collector) Service {
	if coupons == nil {
		panic("coupon repository is required")
	}
	if c == nil {
		c = cache.NoopCache{}
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = DefaultCacheTTL
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if collector == nil {
		collector = metrics.NoopCollector{}
	}
	return &service{coupons: coupons, cache: c, config: config, metrics: collector}
}

func (s *service) CreateCoupon(ctx context.Context, input CreateCouponInput) (*models.Coupon, error) {
	active := true
	if input.Active != nil {
		active = *input.Active
	}

	c := &models.Coupon{
		Code:              normalizeCode(input.Code),
		MerchantID:        input.MerchantID,
		Category:          strings.TrimSpace(input.Category),
		Title:             strings.TrimSpace(input.Title),
		Description:       input.Description,
		DiscountType:      models.DiscountType(strings.ToLower(input.DiscountType)),
		DiscountValue:     input.DiscountValue,
		MaxDiscountAmount: input.MaxDiscountAmount,
		MinPurchaseAmount: input.MinPurchaseAmount,
		MaxPurchaseAmount: input.MaxPurchaseAmount,
		StartDate:         input.StartDate.UTC(),
		EndDate:           input.EndDate.UTC(),
		MaxRedemptions:    input.MaxRedemptions,
		IsActive:          active,
	}

	v := validation.New()
	v.Coupon(c)
	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := s.coupons.Create(ctx, c); err != nil {
		return nil, err
	}
	log.Printf("Merchant %d created coupon %s (id %d)", c.MerchantID, c.Code, c.ID)
	return c, nil
}

func (s *service) GetCoupon(ctx context.Context, id uint) (*models.Coupon, error) {
	return s.cached(ctx, cachekeys.CouponByID(id), func() (*models.Coupon, error) {
		return s.coupons.GetByID(ctx, id)
	})
}

func (s *service) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	code = normalizeCode(code)
	return s.cached(ctx, cachekeys.CouponByCode(code), func() (*models.Coupon, error) {
		return s.coupons.GetByCode(ctx, code)
	})
}

// cached reads through the cache. Cache errors are logged and treated as a
// miss; the store stays the source of truth.
func (s *service) cached(ctx context.Context, key string, load func() (*models.Coupon, error)) (*models.Coupon, error) {
	var c models.Coupon
	found, err := s.cache.Get(ctx, key, &c)
	if err != nil {
		log.Printf("Cache read failed for %s: %v", key, err)
	}
	if found {
		s.metrics.RecordCacheHit(string(cachekeys.EntityCoupon))
		return &c, nil
	}
	s.metrics.RecordCacheMiss(string(cachekeys.EntityCoupon))

	loaded, err := load()
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetWithTTL(ctx, key, loaded, s.config.CacheTTL); err != nil {
		log.Printf("Cache write failed for %s: %v", key, err)
	}
	return loaded, nil
}

func (s *service) ListByMerchant(ctx context.Context, merchantID uint) ([]models.Coupon, error) {
	return s.coupons.ListByMerchant(ctx, merchantID)
}

func (s *service) ListByCategory(ctx context.Context, category string) ([]models.Coupon, error) {
	return s.coupons.ListByCategory(ctx, strings.TrimSpace(category))
}

func (s *service) ListActive(ctx context.Context) ([]models.Coupon, error) {
	return s.coupons.ListActive(ctx, s.config.Now().UTC())
}

func (s *service) SetActive(ctx context.Context, couponID, actorMerchantID uint, active bool) (*models.Coupon, error) {
	c, err := s.coupons.GetByID(ctx, couponID)
	if err != nil {
		return nil, err
	}
	if c.MerchantID != actorMerchantID {
		return nil, apperrors.ErrUnauthorized
	}

	if err := s.coupons.SetActive(ctx, couponID, active); err != nil {
		return nil, err
	}
	c.IsActive = active

	if err := s.cache.Delete(ctx, cachekeys.CouponByID(c.ID), cachekeys.CouponByCode(c.Code)); err != nil {
		log.Printf("Cache invalidation failed for coupon %d: %v", c.ID, err)
	}
	return c, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
