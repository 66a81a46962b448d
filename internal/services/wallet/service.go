package wallet

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	apperrors "loyalty/internal/errors"
	"loyalty/internal/metrics"
	"loyalty/internal/models"
	"loyalty/internal/repositories"

	"github.com/google/uuid"
)

type service struct {
	store   repositories.Store
	config  Config
	metrics metrics.Collector
}

// NewService creates a new wallet service
func NewService(store repositories.Store, config Config, collector metrics.Collector) Service {
	if store == nil {
		panic("store is required")
	}

	if config.DefaultCurrency == "" {
		config.DefaultCurrency = DefaultCurrency
	}
	if config.ListLimit <= 0 {
		config.ListLimit = DefaultListLimit
	}

	// Metrics is optional, create no-op collector if nil
	if collector == nil {
		collector = metrics.NoopCollector{}
	}

	return &service{
		store:   store,
		config:  config,
		metrics: collector,
	}
}

func (s *service) CreateWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	wallet := &models.Wallet{
		UserID:   userID,
		Currency: s.config.DefaultCurrency,
	}
	if err := s.store.Wallets().Create(ctx, wallet); err != nil {
		return nil, err
	}
	log.Printf("Created wallet %d for user %d", wallet.ID, userID)
	return wallet, nil
}

func (s *service) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	return s.store.Wallets().GetByUserID(ctx, userID)
}

func (s *service) GetBalance(ctx context.Context, userID uint) (*Balance, error) {
	wallet, err := s.store.Wallets().GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Balance{UserID: userID, Balance: wallet.Balance, Currency: wallet.Currency}, nil
}

func (s *service) Credit(ctx context.Context, req CreditRequest) (*models.WalletTransaction, error) {
	if reserved(req.PaymentRef) {
		return nil, apperrors.ErrReservedReference
	}
	req.Source = models.SourceWallet
	return s.CreditWith(ctx, s.store, req)
}

func (s *service) Debit(ctx context.Context, req DebitRequest) (*models.WalletTransaction, error) {
	if reserved(req.Reference) {
		return nil, apperrors.ErrReservedReference
	}
	req.Source = models.SourceWallet
	return s.DebitWith(ctx, s.store, req)
}

func reserved(ref string) bool {
	return strings.HasPrefix(ref, PaymentRefPrefix) || strings.HasPrefix(ref, ReversalRefPrefix)
}

func sourceOrDefault(src models.EntrySource) models.EntrySource {
	if src == "" {
		return models.SourceWallet
	}
	return src
}

func (s *service) CreditWith(ctx context.Context, store repositories.Store, req CreditRequest) (entry *models.WalletTransaction, err error) {
	defer s.observe("credit", time.Now(), &err)

	if req.Coins <= 0 || req.Amount.IsNegative() {
		return nil, apperrors.ErrInvalidAmount
	}
	if req.PaymentRef == "" {
		return nil, apperrors.ErrMissingReference
	}
	req.Source = sourceOrDefault(req.Source)

	if existing, err := s.replay(ctx, store, req.PaymentRef, req.UserID, models.DirectionCredit, req.Source, req.Coins); err != nil || existing != nil {
		return existing, err
	}

	// The wallet is created lazily on the first credit.
	if _, err := store.Wallets().Ensure(ctx, req.UserID, s.config.DefaultCurrency); err != nil {
		return nil, err
	}

	entry = &models.WalletTransaction{
		UserID:         req.UserID,
		PaymentRef:     req.PaymentRef,
		CoinAmount:     req.Coins,
		MonetaryAmount: req.Amount,
		Source:         req.Source,
		Reason:         req.Reason,
	}
	if _, err := store.Wallets().ApplyCredit(ctx, entry); err != nil {
		if errors.Is(err, repositories.ErrDuplicateReference) {
			// A concurrent call with the same reference won.
			return s.replay(ctx, store, req.PaymentRef, req.UserID, models.DirectionCredit, req.Source, req.Coins)
		}
		return nil, err
	}

	s.metrics.RecordCoins(string(models.DirectionCredit), req.Coins)
	return entry, nil
}

func (s *service) DebitWith(ctx context.Context, store repositories.Store, req DebitRequest) (entry *models.WalletTransaction, err error) {
	defer s.observe("debit", time.Now(), &err)

	if req.Coins <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	req.Source = sourceOrDefault(req.Source)

	ref := req.Reference
	if ref == "" {
		ref = uuid.NewString()
	} else if existing, err := s.replay(ctx, store, ref, req.UserID, models.DirectionDebit, req.Source, req.Coins); err != nil || existing != nil {
		return existing, err
	}

	entry = &models.WalletTransaction{
		UserID:     req.UserID,
		PaymentRef: ref,
		CoinAmount: req.Coins,
		Source:     req.Source,
		Reason:     req.Reason,
	}
	if _, err := store.Wallets().ApplyDebit(ctx, entry); err != nil {
		if errors.Is(err, repositories.ErrDuplicateReference) {
			return s.replay(ctx, store, ref, req.UserID, models.DirectionDebit, req.Source, req.Coins)
		}
		return nil, err
	}

	s.metrics.RecordCoins(string(models.DirectionDebit), req.Coins)
	return entry, nil
}

// replay returns the entry already recorded under ref, or nil if there is
// none. An entry that does not match the request is a conflict.
func (s *service) replay(ctx context.Context, store repositories.Store, ref string, userID uint, dir models.Direction, src models.EntrySource, coins int64) (*models.WalletTransaction, error) {
	existing, err := store.Wallets().FindTransactionByReference(ctx, ref)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if existing.UserID != userID || existing.Direction != dir || existing.Source != src || existing.CoinAmount != coins {
		return nil, apperrors.ErrReferenceConflict
	}
	return existing, nil
}

func (s *service) ListTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.WalletTransaction, error) {
	if limit <= 0 {
		limit = s.config.ListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.Wallets().ListTransactions(ctx, userID, limit, offset)
}

func (s *service) observe(operation string, start time.Time, err *error) {
	s.metrics.RecordOperationDuration(operation, time.Since(start))
	if *err != nil {
		s.metrics.RecordOperationResult(operation, apperrors.CodeOf(*err))
		if apperrors.Retryable(*err) {
			log.Printf("Wallet %s failed: %v", operation, *err)
		}
		return
	}
	s.metrics.RecordOperationResult(operation, "ok")
}
