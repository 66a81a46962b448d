package repositories

import (
	"context"

	apperrors "loyalty/internal/errors"
	"loyalty/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{
		db: db,
	}
}

func (r *walletRepository) Create(ctx context.Context, wallet *models.Wallet) error {
	if err := r.db.WithContext(ctx).Create(wallet).Error; err != nil {
		if isDuplicate(err) {
			return apperrors.ErrWalletExists
		}
		return apperrors.StoreFailure("create wallet", err)
	}
	return nil
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, apperrors.StoreFailure("get wallet", err)
	}
	return &wallet, nil
}

func (r *walletRepository) Ensure(ctx context.Context, userID uint, currency string) (*models.Wallet, error) {
	wallet := &models.Wallet{UserID: userID, Currency: currency}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(wallet).Error
	if err != nil {
		return nil, apperrors.StoreFailure("ensure wallet", err)
	}
	return r.GetByUserID(ctx, userID)
}

func (r *walletRepository) ApplyCredit(ctx context.Context, entry *models.WalletTransaction) (*models.Wallet, error) {
	if entry.CoinAmount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	var wallet models.Wallet
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Wallet{}).
			Where("user_id = ?", entry.UserID).
			Update("balance", gorm.Expr("balance + ?", entry.CoinAmount))
		if res.Error != nil {
			return apperrors.StoreFailure("credit wallet", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrWalletNotFound
		}
		return r.appendEntry(tx, entry, models.DirectionCredit, &wallet)
	})
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *walletRepository) ApplyDebit(ctx context.Context, entry *models.WalletTransaction) (*models.Wallet, error) {
	if entry.CoinAmount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	var wallet models.Wallet
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Wallet{}).
			Where("user_id = ? AND balance >= ?", entry.UserID, entry.CoinAmount).
			Update("balance", gorm.Expr("balance - ?", entry.CoinAmount))
		if res.Error != nil {
			return apperrors.StoreFailure("debit wallet", res.Error)
		}
		if res.RowsAffected == 0 {
			// The guard failed; find out which part of it.
			var count int64
			if err := tx.Model(&models.Wallet{}).Where("user_id = ?", entry.UserID).Count(&count).Error; err != nil {
				return apperrors.StoreFailure("debit wallet", err)
			}
			if count == 0 {
				return apperrors.ErrWalletNotFound
			}
			return apperrors.ErrInsufficientBalance
		}
		return r.appendEntry(tx, entry, models.DirectionDebit, &wallet)
	})
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// appendEntry records the balance event after the wallet row was updated in
// the same transaction. A duplicate reference rolls the update back.
func (r *walletRepository) appendEntry(tx *gorm.DB, entry *models.WalletTransaction, dir models.Direction, wallet *models.Wallet) error {
	if err := tx.Where("user_id = ?", entry.UserID).First(wallet).Error; err != nil {
		return apperrors.StoreFailure("reload wallet", err)
	}

	entry.WalletID = wallet.ID
	entry.Direction = dir
	entry.Status = models.WalletTxSuccess
	entry.BalanceAfter = wallet.Balance
	if entry.Currency == "" {
		entry.Currency = wallet.Currency
	}

	if err := tx.Create(entry).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicateReference
		}
		return apperrors.StoreFailure("record wallet transaction", err)
	}
	return nil
}

func (r *walletRepository) FindTransactionByReference(ctx context.Context, paymentRef string) (*models.WalletTransaction, error) {
	var entry models.WalletTransaction
	if err := r.db.WithContext(ctx).Where("payment_ref = ?", paymentRef).First(&entry).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.StoreFailure("find wallet transaction", err)
	}
	return &entry, nil
}

func (r *walletRepository) ListTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.WalletTransaction, error) {
	var entries []models.WalletTransaction
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, apperrors.StoreFailure("list wallet transactions", err)
	}
	return entries, nil
}
