package repositories

import (
	"context"
	"time"

	apperrors "loyalty/internal/errors"

	"github.com/jmoiron/sqlx"
)

// StatusBucket aggregates coupon redemptions sharing one status.
type StatusBucket struct {
	Status        string `db:"status" json:"status"`
	Count         int64  `db:"count" json:"count"`
	TotalPurchase int64  `db:"total_purchase" json:"total_purchase"`
	TotalDiscount int64  `db:"total_discount" json:"total_discount"`
}

// PaymentBucket aggregates merchant transactions by type and status.
type PaymentBucket struct {
	Type          string `db:"type" json:"type"`
	Status        string `db:"status" json:"status"`
	Count         int64  `db:"count" json:"count"`
	TotalCoins    int64  `db:"total_coins" json:"total_coins"`
	TotalBill     int64  `db:"total_bill" json:"total_bill"`
	TotalDiscount int64  `db:"total_discount" json:"total_discount"`
}

// FlowBucket aggregates wallet transactions by direction and status.
type FlowBucket struct {
	Direction  string `db:"direction" json:"direction"`
	Status     string `db:"status" json:"status"`
	Count      int64  `db:"count" json:"count"`
	TotalCoins int64  `db:"total_coins" json:"total_coins"`
}

type CouponCounts struct {
	Total int64 `db:"total" json:"total"`
	Live  int64 `db:"live" json:"live"`
}

// StatsReader is the read-only aggregation path. It runs plain SQL through
// sqlx and takes no locks, so results may trail in-flight writes.
type StatsReader interface {
	RedemptionsByUser(ctx context.Context, userID uint) ([]StatusBucket, error)
	RedemptionsByMerchant(ctx context.Context, merchantID uint) ([]StatusBucket, error)
	CouponCounts(ctx context.Context, merchantID uint, at time.Time) (*CouponCounts, error)
	PaymentsByUser(ctx context.Context, userID uint) ([]PaymentBucket, error)
	PaymentsByMerchant(ctx context.Context, merchantID uint) ([]PaymentBucket, error)
	WalletFlows(ctx context.Context, userID uint) ([]FlowBucket, error)
}

type statsReader struct {
	db *sqlx.DB
}

func NewStatsReader(db *sqlx.DB) StatsReader {
	if db == nil {
		panic("db is required")
	}
	return &statsReader{db: db}
}

func (r *statsReader) RedemptionsByUser(ctx context.Context, userID uint) ([]StatusBucket, error) {
	query := r.db.Rebind(`
		SELECT status,
			COUNT(*) AS count,
			CAST(COALESCE(SUM(purchase_amount), 0) AS BIGINT) AS total_purchase,
			CAST(COALESCE(SUM(discount_amount), 0) AS BIGINT) AS total_discount
		FROM coupon_redemptions
		WHERE user_id = ?
		GROUP BY status
		ORDER BY status
	`)

	var out []StatusBucket
	if err := r.db.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, apperrors.StoreFailure("user redemption stats", err)
	}
	return out, nil
}

func (r *statsReader) RedemptionsByMerchant(ctx context.Context, merchantID uint) ([]StatusBucket, error) {
	query := r.db.Rebind(`
		SELECT cr.status AS status,
			COUNT(*) AS count,
			CAST(COALESCE(SUM(cr.purchase_amount), 0) AS BIGINT) AS total_purchase,
			CAST(COALESCE(SUM(cr.discount_amount), 0) AS BIGINT) AS total_discount
		FROM coupon_redemptions cr
		JOIN coupons c ON c.id = cr.coupon_id
		WHERE c.merchant_id = ?
		GROUP BY cr.status
		ORDER BY cr.status
	`)

	var out []StatusBucket
	if err := r.db.SelectContext(ctx, &out, query, merchantID); err != nil {
		return nil, apperrors.StoreFailure("merchant redemption stats", err)
	}
	return out, nil
}

func (r *statsReader) CouponCounts(ctx context.Context, merchantID uint, at time.Time) (*CouponCounts, error) {
	query := r.db.Rebind(`
		SELECT COUNT(*) AS total,
			CAST(COALESCE(SUM(CASE WHEN is_active = ? AND start_date <= ? AND end_date >= ? THEN 1 ELSE 0 END), 0) AS BIGINT) AS live
		FROM coupons
		WHERE merchant_id = ?
	`)

	var out CouponCounts
	if err := r.db.GetContext(ctx, &out, query, true, at, at, merchantID); err != nil {
		return nil, apperrors.StoreFailure("merchant coupon counts", err)
	}
	return &out, nil
}

func (r *statsReader) PaymentsByUser(ctx context.Context, userID uint) ([]PaymentBucket, error) {
	return r.payments(ctx, "user_id", userID)
}

func (r *statsReader) PaymentsByMerchant(ctx context.Context, merchantID uint) ([]PaymentBucket, error) {
	return r.payments(ctx, "merchant_id", merchantID)
}

// payments is only called with a fixed owner column.
func (r *statsReader) payments(ctx context.Context, ownerColumn string, ownerID uint) ([]PaymentBucket, error) {
	query := r.db.Rebind(`
		SELECT type, status,
			COUNT(*) AS count,
			CAST(COALESCE(SUM(coin_amount), 0) AS BIGINT) AS total_coins,
			CAST(COALESCE(SUM(bill_amount), 0) AS BIGINT) AS total_bill,
			CAST(COALESCE(SUM(discount_amount), 0) AS BIGINT) AS total_discount
		FROM transactions
		WHERE ` + ownerColumn + ` = ?
		GROUP BY type, status
		ORDER BY type, status
	`)

	var out []PaymentBucket
	if err := r.db.SelectContext(ctx, &out, query, ownerID); err != nil {
		return nil, apperrors.StoreFailure("payment stats", err)
	}
	return out, nil
}

func (r *statsReader) WalletFlows(ctx context.Context, userID uint) ([]FlowBucket, error) {
	query := r.db.Rebind(`
		SELECT direction, status,
			COUNT(*) AS count,
			CAST(COALESCE(SUM(coin_amount), 0) AS BIGINT) AS total_coins
		FROM wallet_transactions
		WHERE user_id = ?
		GROUP BY direction, status
		ORDER BY direction, status
	`)

	var out []FlowBucket
	if err := r.db.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, apperrors.StoreFailure("wallet flow stats", err)
	}
	return out, nil
}
