package repositories

import (
	"context"

	apperrors "loyalty/internal/errors"
	"loyalty/internal/models"

	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicateReference
		}
		return apperrors.StoreFailure("create transaction", err)
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.WithContext(ctx).First(&tx, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.StoreFailure("get transaction", err)
	}
	return &tx, nil
}

func (r *transactionRepository) GetByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&tx).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.StoreFailure("get transaction by reference", err)
	}
	return &tx, nil
}

func (r *transactionRepository) GetReversalOf(ctx context.Context, originalID uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.WithContext(ctx).Where("reversal_of_id = ?", originalID).First(&tx).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.StoreFailure("get reversal", err)
	}
	return &tx, nil
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error) {
	var txs []models.Transaction
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&txs).Error; err != nil {
		return nil, apperrors.StoreFailure("list user transactions", err)
	}
	return txs, nil
}

func (r *transactionRepository) ListByMerchant(ctx context.Context, merchantID uint, limit, offset int) ([]models.Transaction, int64, error) {
	var (
		txs   []models.Transaction
		total int64
	)
	base := r.db.WithContext(ctx).Model(&models.Transaction{}).Where("merchant_id = ?", merchantID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, apperrors.StoreFailure("count merchant transactions", err)
	}

	q := r.db.WithContext(ctx).Where("merchant_id = ?", merchantID).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&txs).Error; err != nil {
		return nil, 0, apperrors.StoreFailure("list merchant transactions", err)
	}
	return txs, total, nil
}
