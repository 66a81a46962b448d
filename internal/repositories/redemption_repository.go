package repositories

import (
	"context"
	"time"

	apperrors "loyalty/internal/errors"
	"loyalty/internal/models"

	"gorm.io/gorm"
)

type RedemptionRepository interface {
	Create(ctx context.Context, redemption *models.CouponRedemption) error
	GetByID(ctx context.Context, id uint) (*models.CouponRedemption, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*models.CouponRedemption, error)
	// Transition moves a pending redemption to a terminal status. It fails
	// with ErrRedemptionFinalized if the row already left pending.
	Transition(ctx context.Context, id uint, to models.RedemptionStatus, at time.Time) error
	ListByUser(ctx context.Context, userID uint) ([]models.CouponRedemption, error)
	ListByCoupon(ctx context.Context, couponID uint) ([]models.CouponRedemption, error)
}

type redemptionRepository struct {
	db *gorm.DB
}

func NewRedemptionRepository(db *gorm.DB) RedemptionRepository {
	return &redemptionRepository{db: db}
}

func (r *redemptionRepository) Create(ctx context.Context, redemption *models.CouponRedemption) error {
	if err := r.db.WithContext(ctx).Create(redemption).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicateReference
		}
		return apperrors.StoreFailure("create redemption", err)
	}
	return nil
}

func (r *redemptionRepository) GetByID(ctx context.Context, id uint) (*models.CouponRedemption, error) {
	var redemption models.CouponRedemption
	if err := r.db.WithContext(ctx).First(&redemption, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrRedemptionNotFound
		}
		return nil, apperrors.StoreFailure("get redemption", err)
	}
	return &redemption, nil
}

func (r *redemptionRepository) GetByIdempotencyKey(ctx context.Context, key string) (*models.CouponRedemption, error) {
	var redemption models.CouponRedemption
	if err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&redemption).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrRedemptionNotFound
		}
		return nil, apperrors.StoreFailure("get redemption", err)
	}
	return &redemption, nil
}

func (r *redemptionRepository) Transition(ctx context.Context, id uint, to models.RedemptionStatus, at time.Time) error {
	updates := map[string]interface{}{"status": to}
	switch to {
	case models.RedemptionCompleted:
		updates["completed_at"] = at
	case models.RedemptionCancelled:
		updates["cancelled_at"] = at
	default:
		return apperrors.ErrInvalidRedemptionStatus
	}

	res := r.db.WithContext(ctx).Model(&models.CouponRedemption{}).
		Where("id = ? AND status = ?", id, models.RedemptionPending).
		Updates(updates)
	if res.Error != nil {
		return apperrors.StoreFailure("update redemption status", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return apperrors.ErrRedemptionFinalized
	}
	return nil
}

func (r *redemptionRepository) ListByUser(ctx context.Context, userID uint) ([]models.CouponRedemption, error) {
	var out []models.CouponRedemption
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("redeemed_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, apperrors.StoreFailure("list user redemptions", err)
	}
	return out, nil
}

func (r *redemptionRepository) ListByCoupon(ctx context.Context, couponID uint) ([]models.CouponRedemption, error) {
	var out []models.CouponRedemption
	if err := r.db.WithContext(ctx).Where("coupon_id = ?", couponID).Order("redeemed_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, apperrors.StoreFailure("list coupon redemptions", err)
	}
	return out, nil
}
