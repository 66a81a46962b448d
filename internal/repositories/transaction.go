package repositories

import (
	"context"

	"loyalty/internal/models"
)

// TransactionRepository stores merchant payments and their reversals.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	GetByReference(ctx context.Context, reference string) (*models.Transaction, error)
	// GetReversalOf returns the transaction that reverses originalID.
	GetReversalOf(ctx context.Context, originalID uint) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error)
	ListByMerchant(ctx context.Context, merchantID uint, limit, offset int) ([]models.Transaction, int64, error)
}
