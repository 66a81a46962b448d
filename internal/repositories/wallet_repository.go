package repositories

import (
	"context"

	"loyalty/internal/models"
)

// WalletRepository defines the interface for wallet-related database operations.
//
// ApplyCredit and ApplyDebit are the only code paths that change a balance.
// Each writes the balance change and its WalletTransaction in one database
// transaction; the debit is a single conditional UPDATE guarded by
// balance >= amount.
type WalletRepository interface {
	Create(ctx context.Context, wallet *models.Wallet) error
	GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error)
	// Ensure returns the user's wallet, creating an empty one if needed.
	Ensure(ctx context.Context, userID uint, currency string) (*models.Wallet, error)

	ApplyCredit(ctx context.Context, entry *models.WalletTransaction) (*models.Wallet, error)
	ApplyDebit(ctx context.Context, entry *models.WalletTransaction) (*models.Wallet, error)

	FindTransactionByReference(ctx context.Context, paymentRef string) (*models.WalletTransaction, error)
	ListTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.WalletTransaction, error)
}
