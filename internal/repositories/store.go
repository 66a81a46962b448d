package repositories

import (
	"context"
	"errors"

	apperrors "loyalty/internal/errors"

	"gorm.io/gorm"
)

// ErrDuplicateReference is returned when an idempotency key or reference
// column already holds the value being inserted. Services treat it as a
// replay signal, never as a user-facing error.
var ErrDuplicateReference = errors.New("duplicate reference")

// Store groups the ledger repositories behind one unit of work. Repositories
// obtained from the Store passed to ExecuteInTransaction share its database
// transaction.
type Store interface {
	Wallets() WalletRepository
	Coupons() CouponRepository
	Redemptions() RedemptionRepository
	Transactions() TransactionRepository

	ExecuteInTransaction(ctx context.Context, fn func(Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	if db == nil {
		panic("db is required")
	}
	return &gormStore{db: db}
}

func (s *gormStore) Wallets() WalletRepository {
	return &walletRepository{db: s.db}
}

func (s *gormStore) Coupons() CouponRepository {
	return &couponRepository{db: s.db}
}

func (s *gormStore) Redemptions() RedemptionRepository {
	return &redemptionRepository{db: s.db}
}

func (s *gormStore) Transactions() TransactionRepository {
	return &transactionRepository{db: s.db}
}

// ExecuteInTransaction runs fn in a database transaction. Calls nest through
// savepoints, so a repository primitive that opens its own transaction can
// run inside a wider one.
func (s *gormStore) ExecuteInTransaction(ctx context.Context, fn func(Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateReference) {
			return err
		}
		return apperrors.StoreFailure("transaction", err)
	}
	return nil
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
