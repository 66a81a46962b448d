package wallet

import (
	"context"

	"loyalty/internal/models"
	"loyalty/internal/repositories"
)

// Service defines the main wallet service interface
type Service interface {
	// Wallet management
	CreateWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	GetBalance(ctx context.Context, userID uint) (*Balance, error)

	// Balance operations
	Credit(ctx context.Context, req CreditRequest) (*models.WalletTransaction, error)
	Debit(ctx context.Context, req DebitRequest) (*models.WalletTransaction, error)

	// CreditWith and DebitWith run against a caller-owned unit of work, so a
	// balance change can commit together with other ledger records.
	CreditWith(ctx context.Context, store repositories.Store, req CreditRequest) (*models.WalletTransaction, error)
	DebitWith(ctx context.Context, store repositories.Store, req DebitRequest) (*models.WalletTransaction, error)

	ListTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.WalletTransaction, error)
}
