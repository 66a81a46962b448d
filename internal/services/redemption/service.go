// Package redemption validates coupon use, computes discounts and drives the
// redemption lifecycle pending -> completed | cancelled.
package redemption

import (
	"context"
	"errors"
	"log"
	"time"

	apperrors "loyalty/internal/errors"
	"loyalty/internal/metrics"
	"loyalty/internal/models"
	"loyalty/internal/repositories"

	"github.com/google/uuid"
)

type Service interface {
	Redeem(ctx context.Context, req RedeemRequest) (*models.CouponRedemption, error)
	// RedeemWith runs the redemption against a caller-owned unit of work.
	RedeemWith(ctx context.Context, store repositories.Store, req RedeemRequest) (*models.CouponRedemption, error)

	// UpdateRedemptionStatus finalizes a pending redemption. Only the
	// merchant owning the coupon may call it. Repeating the status a
	// redemption already has returns it unchanged.
	UpdateRedemptionStatus(ctx context.Context, redemptionID uint, status models.RedemptionStatus, actorMerchantID uint) (*models.CouponRedemption, error)
	UpdateRedemptionStatusWith(ctx context.Context, store repositories.Store, redemptionID uint, status models.RedemptionStatus, actorMerchantID uint) (*models.CouponRedemption, error)

	GetRedemption(ctx context.Context, id uint) (*models.CouponRedemption, error)
	ListUserRedemptions(ctx context.Context, userID uint) ([]models.CouponRedemption, error)
	ListCouponRedemptions(ctx context.Context, couponID, actorMerchantID uint) ([]models.CouponRedemption, error)
}

type RedeemRequest struct {
	UserID         uint
	CouponID       uint
	PurchaseAmount int64
	// IdempotencyKey identifies the attempt. A retry with the same key
	// returns the original redemption without consuming another slot.
	IdempotencyKey string
}

type Config struct {
	Now func() time.Time
}

type service struct {
	store   repositories.Store
	config  Config
	metrics metrics.Collector
}

func NewService(store repositories.Store, config Config, collector metrics.Collector) Service {
	if store == nil {
		panic("store is required")
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if collector == nil {
		collector = metrics.NoopCollector{}
	}
	return &service{store: store, config: config, metrics: collector}
}

func (s *service) Redeem(ctx context.Context, req RedeemRequest) (*models.CouponRedemption, error) {
	return s.RedeemWith(ctx, s.store, req)
}

func (s *service) RedeemWith(ctx context.Context, store repositories.Store, req RedeemRequest) (r *models.CouponRedemption, err error) {
	defer s.observe("redeem", time.Now(), &err)

	if req.PurchaseAmount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	key := req.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	} else if existing, err := s.replay(ctx, store, key, req); err != nil || existing != nil {
		return existing, err
	}

	// Always read the coupon from the store; cached copies may be stale.
	c, err := store.Coupons().GetByID(ctx, req.CouponID)
	if err != nil {
		return nil, err
	}

	now := s.config.Now().UTC()
	if err := CheckEligibility(c, req.PurchaseAmount, now); err != nil {
		return nil, err
	}

	r = &models.CouponRedemption{
		IdempotencyKey: key,
		UserID:         req.UserID,
		CouponID:       c.ID,
		PurchaseAmount: req.PurchaseAmount,
		DiscountAmount: ComputeDiscount(c, req.PurchaseAmount),
		Status:         models.RedemptionPending,
		RedeemedAt:     now,
	}

	// The guarded increment re-checks the cap at write time. The slot and
	// the record commit together or not at all.
	err = store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		if err := tx.Coupons().IncrementRedemptions(ctx, c.ID); err != nil {
			return err
		}
		return tx.Redemptions().Create(ctx, r)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateReference) {
			return s.replay(ctx, store, key, req)
		}
		return nil, err
	}

	s.metrics.RecordDiscount(r.DiscountAmount)
	return r, nil
}

func (s *service) replay(ctx context.Context, store repositories.Store, key string, req RedeemRequest) (*models.CouponRedemption, error) {
	existing, err := store.Redemptions().GetByIdempotencyKey(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrRedemptionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if existing.UserID != req.UserID || existing.CouponID != req.CouponID || existing.PurchaseAmount != req.PurchaseAmount {
		return nil, apperrors.ErrReferenceConflict
	}
	return existing, nil
}

func (s *service) UpdateRedemptionStatus(ctx context.Context, redemptionID uint, status models.RedemptionStatus, actorMerchantID uint) (*models.CouponRedemption, error) {
	return s.UpdateRedemptionStatusWith(ctx, s.store, redemptionID, status, actorMerchantID)
}

func (s *service) UpdateRedemptionStatusWith(ctx context.Context, store repositories.Store, redemptionID uint, status models.RedemptionStatus, actorMerchantID uint) (r *models.CouponRedemption, err error) {
	defer s.observe("redemption_status", time.Now(), &err)

	if !status.IsTerminal() {
		return nil, apperrors.ErrInvalidRedemptionStatus
	}

	r, err = store.Redemptions().GetByID(ctx, redemptionID)
	if err != nil {
		return nil, err
	}
	c, err := store.Coupons().GetByID(ctx, r.CouponID)
	if err != nil {
		return nil, err
	}
	if c.MerchantID != actorMerchantID {
		return nil, apperrors.ErrUnauthorized
	}

	if r.Status.IsTerminal() {
		return finalized(r, status)
	}

	now := s.config.Now().UTC()
	if err := store.Redemptions().Transition(ctx, r.ID, status, now); err != nil {
		if !errors.Is(err, apperrors.ErrRedemptionFinalized) {
			return nil, err
		}
		// Lost a race with another finalizer.
		current, getErr := store.Redemptions().GetByID(ctx, r.ID)
		if getErr != nil {
			return nil, getErr
		}
		return finalized(current, status)
	}

	r.Status = status
	switch status {
	case models.RedemptionCompleted:
		r.CompletedAt = &now
	case models.RedemptionCancelled:
		r.CancelledAt = &now
		// The slot stays consumed; the counter never goes down.
		log.Printf("Redemption %d of coupon %d cancelled by merchant %d", r.ID, c.ID, actorMerchantID)
	}
	return r, nil
}

// finalized resolves a request against an already terminal redemption.
func finalized(r *models.CouponRedemption, requested models.RedemptionStatus) (*models.CouponRedemption, error) {
	if r.Status == requested {
		return r, nil
	}
	return nil, apperrors.ErrRedemptionFinalized
}

func (s *service) GetRedemption(ctx context.Context, id uint) (*models.CouponRedemption, error) {
	return s.store.Redemptions().GetByID(ctx, id)
}

func (s *service) ListUserRedemptions(ctx context.Context, userID uint) ([]models.CouponRedemption, error) {
	return s.store.Redemptions().ListByUser(ctx, userID)
}

func (s *service) ListCouponRedemptions(ctx context.Context, couponID, actorMerchantID uint) ([]models.CouponRedemption, error) {
	c, err := s.store.Coupons().GetByID(ctx, couponID)
	if err != nil {
		return nil, err
	}
	if c.MerchantID != actorMerchantID {
		return nil, apperrors.ErrUnauthorized
	}
	return s.store.Redemptions().ListByCoupon(ctx, couponID)
}

func (s *service) observe(operation string, start time.Time, err *error) {
	s.metrics.RecordOperationDuration(operation, time.Since(start))
	if *err != nil {
		s.metrics.RecordOperationResult(operation, apperrors.CodeOf(*err))
		if apperrors.Retryable(*err) {
			log.Printf("Redemption %s failed: %v", operation, *err)
		}
		return
	}
	s.metrics.RecordOperationResult(operation, "ok")
}
