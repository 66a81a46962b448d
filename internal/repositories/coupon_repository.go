package repositories

import (
	"context"
	"time"

	apperrors "loyalty/internal/errors"
	"loyalty/internal/models"

	"gorm.io/gorm"
)

// CouponRepository stores coupon definitions and their redemption counters.
type CouponRepository interface {
	Create(ctx context.Context, coupon *models.Coupon) error
	GetByID(ctx context.Context, id uint) (*models.Coupon, error)
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	ListByMerchant(ctx context.Context, merchantID uint) ([]models.Coupon, error)
	ListByCategory(ctx context.Context, category string) ([]models.Coupon, error)
	ListActive(ctx context.Context, at time.Time) ([]models.Coupon, error)
	SetActive(ctx context.Context, id uint, active bool) error

	// IncrementRedemptions adds one to the counter only while it is below the
	// cap, evaluated by the database at write time.
	IncrementRedemptions(ctx context.Context, id uint) error
}

type couponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	if err := r.db.WithContext(ctx).Create(coupon).Error; err != nil {
		if isDuplicate(err) {
			return apperrors.ErrCouponCodeTaken
		}
		return apperrors.StoreFailure("create coupon", err)
	}
	return nil
}

func (r *couponRepository) GetByID(ctx context.Context, id uint) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrCouponNotFound
		}
		return nil, apperrors.StoreFailure("get coupon", err)
	}
	return &coupon, nil
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&coupon).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrCouponNotFound
		}
		return nil, apperrors.StoreFailure("get coupon by code", err)
	}
	return &coupon, nil
}

func (r *couponRepository) ListByMerchant(ctx context.Context, merchantID uint) ([]models.Coupon, error) {
	return r.list(ctx, "list merchant coupons", "merchant_id = ?", merchantID)
}

func (r *couponRepository) ListByCategory(ctx context.Context, category string) ([]models.Coupon, error) {
	return r.list(ctx, "list category coupons", "category = ?", category)
}

func (r *couponRepository) ListActive(ctx context.Context, at time.Time) ([]models.Coupon, error) {
	return r.list(ctx, "list active coupons",
		"is_active = ? AND start_date <= ? AND end_date >= ?", true, at, at)
}

func (r *couponRepository) list(ctx context.Context, op string, query string, args ...interface{}) ([]models.Coupon, error) {
	var coupons []models.Coupon
	if err := r.db.WithContext(ctx).Where(query, args...).Order("id ASC").Find(&coupons).Error; err != nil {
		return nil, apperrors.StoreFailure(op, err)
	}
	return coupons, nil
}

func (r *couponRepository) SetActive(ctx context.Context, id uint, active bool) error {
	res := r.db.WithContext(ctx).Model(&models.Coupon{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return apperrors.StoreFailure("update coupon", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrCouponNotFound
	}
	return nil
}

func (r *couponRepository) IncrementRedemptions(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Coupon{}).
		Where("id = ? AND (max_redemptions IS NULL OR current_redemptions < max_redemptions)", id).
		Update("current_redemptions", gorm.Expr("current_redemptions + 1"))
	if res.Error != nil {
		return apperrors.StoreFailure("increment coupon redemptions", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Coupon{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return apperrors.StoreFailure("increment coupon redemptions", err)
		}
		if count == 0 {
			return apperrors.ErrCouponNotFound
		}
		return apperrors.ErrRedemptionCapReached
	}
	return nil
}
