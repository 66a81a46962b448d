package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	apperrors "loyalty/internal/errors"
	"loyalty/internal/models"
	"loyalty/internal/repositories"
	"loyalty/internal/repositories/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedWallet(t *testing.T, repo repositories.WalletRepository, userID uint, balance int64) {
	t.Helper()
	ctx := context.Background()
	_, err := repo.Ensure(ctx, userID, "COIN")
	require.NoError(t, err)
	if balance > 0 {
		_, err = repo.ApplyCredit(ctx, &models.WalletTransaction{
			UserID:     userID,
			PaymentRef: fmt.Sprintf("seed-%d", userID),
			CoinAmount: balance,
		})
		require.NoError(t, err)
	}
}

func TestWalletRepository_CreateTwice(t *testing.T) {
	repo := repositories.NewWalletRepository(repotest.Open(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Wallet{UserID: 1, Currency: "COIN"}))
	err := repo.Create(ctx, &models.Wallet{UserID: 1, Currency: "COIN"})
	assert.ErrorIs(t, err, apperrors.ErrWalletExists)
}

func TestWalletRepository_EnsureIsIdempotent(t *testing.T) {
	repo := repositories.NewWalletRepository(repotest.Open(t))
	ctx := context.Background()

	first, err := repo.Ensure(ctx, 7, "COIN")
	require.NoError(t, err)
	second, err := repo.Ensure(ctx, 7, "COIN")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(0), second.Balance)
}

func TestWalletRepository_DebitGuard(t *testing.T) {
	repo := repositories.NewWalletRepository(repotest.Open(t))
	ctx := context.Background()
	seedWallet(t, repo, 1, 500)

	wallet, err := repo.ApplyDebit(ctx, &models.WalletTransaction{UserID: 1, PaymentRef: "order-1", CoinAmount: 500})
	require.NoError(t, err)
	assert.Equal(t, int64(0), wallet.Balance)

	_, err = repo.ApplyDebit(ctx, &models.WalletTransaction{UserID: 1, PaymentRef: "order-2", CoinAmount: 1})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)

	current, err := repo.GetByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), current.Balance)

	_, err = repo.FindTransactionByReference(ctx, "order-2")
	assert.ErrorIs(t, err, apperrors.ErrTransactionNotFound)
}

func TestWalletRepository_DebitMissingWallet(t *testing.T) {
	repo := repositories.NewWalletRepository(repotest.Open(t))

	_, err := repo.ApplyDebit(context.Background(), &models.WalletTransaction{UserID: 99, PaymentRef: "x", CoinAmount: 1})
	assert.ErrorIs(t, err, apperrors.ErrWalletNotFound)
}

func TestWalletRepository_DuplicateReferenceRollsBack(t *testing.T) {
	repo := repositories.NewWalletRepository(repotest.Open(t))
	ctx := context.Background()
	seedWallet(t, repo, 1, 100)

	_, err := repo.ApplyCredit(ctx, &models.WalletTransaction{UserID: 1, PaymentRef: "seed-1", CoinAmount: 50})
	assert.True(t, errors.Is(err, repositories.ErrDuplicateReference))

	wallet, err := repo.GetByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), wallet.Balance)
}

func TestWalletRepository_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	repo := repositories.NewWalletRepository(repotest.Open(t))
	ctx := context.Background()
	seedWallet(t, repo, 1, 1000)

	const workers = 25
	var (
		wg        sync.WaitGroup
		succeeded int64
		debited   int64
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.ApplyDebit(ctx, &models.WalletTransaction{
				UserID:     1,
				PaymentRef: fmt.Sprintf("order-%d", i),
				CoinAmount: 70,
			})
			if err == nil {
				atomic.AddInt64(&succeeded, 1)
				atomic.AddInt64(&debited, 70)
				return
			}
			assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)
		}(i)
	}
	wg.Wait()

	wallet, err := repo.GetByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(14), succeeded)
	assert.Equal(t, int64(1000)-debited, wallet.Balance)
	assert.GreaterOrEqual(t, wallet.Balance, int64(0))
}

func TestWalletRepository_ListTransactionsNewestFirst(t *testing.T) {
	repo := repositories.NewWalletRepository(repotest.Open(t))
	ctx := context.Background()
	seedWallet(t, repo, 1, 100)

	_, err := repo.ApplyDebit(ctx, &models.WalletTransaction{UserID: 1, PaymentRef: "d-1", CoinAmount: 10})
	require.NoError(t, err)
	_, err = repo.ApplyDebit(ctx, &models.WalletTransaction{UserID: 1, PaymentRef: "d-2", CoinAmount: 20})
	require.NoError(t, err)

	entries, err := repo.ListTransactions(ctx, 1, 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "d-2", entries[0].PaymentRef)
	assert.Equal(t, int64(70), entries[0].BalanceAfter)
	assert.Equal(t, models.DirectionDebit, entries[0].Direction)
	assert.Equal(t, "seed-1", entries[2].PaymentRef)

	page, err := repo.ListTransactions(ctx, 1, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "d-1", page[0].PaymentRef)
}
