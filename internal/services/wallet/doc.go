/*
Package wallet manages coin balances.

The service is the only writer of wallet balances. Every balance change goes
through the conditional updates of repositories.WalletRepository and is
recorded as a WalletTransaction in the same database transaction.

Usage:

	svc := wallet.NewService(store, wallet.Config{}, metrics.NewPrometheusCollector())

	// Top up after an external payment was confirmed
	entry, err := svc.Credit(ctx, wallet.CreditRequest{UserID: 1, Coins: 500, PaymentRef: "pi_123"})

	// Spend coins
	entry, err = svc.Debit(ctx, wallet.DebitRequest{UserID: 1, Coins: 200, Reference: "order-1"})

Idempotency:

Credit requires a payment reference and Debit accepts one. A reference that
was already applied returns the original WalletTransaction without touching
the balance again. Reusing a reference for a different user, direction or
amount fails with ErrReferenceConflict.

Error Handling:

All failures are *errors.DomainError values from internal/errors:
- ErrInvalidAmount: non-positive coin amount
- ErrInsufficientBalance: debit larger than the balance, balance unchanged
- ErrWalletNotFound / ErrWalletExists
- StoreFailure kind: the store failed, nothing was applied and the call may
  be retried with the same reference
*/
package wallet
