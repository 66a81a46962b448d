// Package stats derives per-user and per-merchant summaries from the ledger.
// It only reads and may trail in-flight writes by up to the cache TTL.
package stats

import (
	"context"
	"log"
	"time"

	"loyalty/internal/metrics"
	"loyalty/internal/models"
	"loyalty/internal/repositories"
	"loyalty/internal/repositories/cache"
	cachekeys "loyalty/internal/utils/cache"
)

type Service interface {
	GetRedemptionStats(ctx context.Context, userID uint) (*UserStats, error)
	GetMerchantStats(ctx context.Context, merchantID uint) (*MerchantStats, error)
}

// Summary totals completed redemptions.
type Summary struct {
	Count         int64 `json:"count"`
	TotalAmount   int64 `json:"total_amount"`
	TotalDiscount int64 `json:"total_discount"`
}

type UserStats struct {
	UserID      uint                         `json:"user_id"`
	Completed   Summary                      `json:"completed"`
	ByStatus    []repositories.StatusBucket  `json:"by_status"`
	Payments    []repositories.PaymentBucket `json:"payments"`
	WalletFlows []repositories.FlowBucket    `json:"wallet_flows"`
	GeneratedAt time.Time                    `json:"generated_at"`
}

type MerchantStats struct {
	MerchantID  uint                         `json:"merchant_id"`
	Coupons     repositories.CouponCounts    `json:"coupons"`
	Completed   Summary                      `json:"completed"`
	ByStatus    []repositories.StatusBucket  `json:"by_status"`
	Payments    []repositories.PaymentBucket `json:"payments"`
	GeneratedAt time.Time                    `json:"generated_at"`
}

type Config struct {
	CacheTTL time.Duration
	Now      func() time.Time
}

const DefaultCacheTTL = 30 * time.Second

type service struct {
	reader  repositories.StatsReader
	cache   cache.Cache
	config  Config
	metrics metrics.Collector
}

func NewService(reader repositories.StatsReader, c cache.Cache, config Config, collector metrics.Collector) Service {
	if reader == nil {
		panic("stats reader is required")
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
	return &service{reader: reader, cache: c, config: config, metrics: collector}
}

func (s *service) GetRedemptionStats(ctx context.Context, userID uint) (*UserStats, error) {
	key := cachekeys.UserStats(userID)
	var out UserStats
	if s.fromCache(ctx, key, &out) {
		return &out, nil
	}

	byStatus, err := s.reader.RedemptionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	payments, err := s.reader.PaymentsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	flows, err := s.reader.WalletFlows(ctx, userID)
	if err != nil {
		return nil, err
	}

	out = UserStats{
		UserID:      userID,
		Completed:   completed(byStatus),
		ByStatus:    byStatus,
		Payments:    payments,
		WalletFlows: flows,
		GeneratedAt: s.config.Now().UTC(),
	}
	s.toCache(ctx, key, &out)
	return &out, nil
}

func (s *service) GetMerchantStats(ctx context.Context, merchantID uint) (*MerchantStats, error) {
	key := cachekeys.MerchantStats(merchantID)
	var out MerchantStats
	if s.fromCache(ctx, key, &out) {
		return &out, nil
	}

	now := s.config.Now().UTC()
	counts, err := s.reader.CouponCounts(ctx, merchantID, now)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.reader.RedemptionsByMerchant(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	payments, err := s.reader.PaymentsByMerchant(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	out = MerchantStats{
		MerchantID:  merchantID,
		Coupons:     *counts,
		Completed:   completed(byStatus),
		ByStatus:    byStatus,
		Payments:    payments,
		GeneratedAt: now,
	}
	s.toCache(ctx, key, &out)
	return &out, nil
}

func completed(buckets []repositories.StatusBucket) Summary {
	for _, b := range buckets {
		if b.Status == string(models.RedemptionCompleted) {
			return Summary{Count: b.Count, TotalAmount: b.TotalPurchase, TotalDiscount: b.TotalDiscount}
		}
	}
	return Summary{}
}

func (s *service) fromCache(ctx context.Context, key string, dest interface{}) bool {
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		log.Printf("Cache read failed for %s: %v", key, err)
	}
	if found {
		s.metrics.RecordCacheHit(string(cachekeys.EntityStats))
		return true
	}
	s.metrics.RecordCacheMiss(string(cachekeys.EntityStats))
	return false
}

func (s *service) toCache(ctx context.Context, key string, value interface{}) {
	if err := s.cache.SetWithTTL(ctx, key, value, s.config.CacheTTL); err != nil {
		log.Printf("Cache write failed for %s: %v", key, err)
	}
}
