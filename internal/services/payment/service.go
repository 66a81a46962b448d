package payment

import (
	"context"
	"errors"
	"fmt"
	"log"

	apperrors "loyalty/internal/errors"
	"loyalty/internal/models"
	"loyalty/internal/repositories"
	"loyalty/internal/services/redemption"
	"loyalty/internal/services/wallet"

	"github.com/google/uuid"
)

type service struct {
	store       repositories.Store
	wallets     WalletService
	redemptions RedemptionService
}

// NewService creates a new payment service
func NewService(store repositories.Store, wallets WalletService, redemptions RedemptionService) Service {
	if store == nil {
		panic("store is required")
	}
	if wallets == nil {
		panic("wallet service is required")
	}
	if redemptions == nil {
		panic("redemption service is required")
	}
	return &service{
		store:       store,
		wallets:     wallets,
		redemptions: redemptions,
	}
}

func (s *service) Pay(ctx context.Context, req PayRequest) (*models.Transaction, error) {
	if req.BillAmount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	key := req.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	} else if existing, err := s.replayPayment(ctx, wallet.PaymentRefPrefix+key, req); err != nil || existing != nil {
		return existing, err
	}
	reference := wallet.PaymentRefPrefix + key

	var txn *models.Transaction
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		var (
			discount int64
			redeemed *models.CouponRedemption
		)

		if req.CouponID != nil {
			c, err := tx.Coupons().GetByID(ctx, *req.CouponID)
			if err != nil {
				return err
			}
			if c.MerchantID != req.MerchantID {
				return apperrors.ErrUnauthorized.WithMessage("coupon %s is not issued by this merchant", c.Code)
			}
			redeemed, err = s.redemptions.RedeemWith(ctx, tx, redemption.RedeemRequest{
				UserID:         req.UserID,
				CouponID:       c.ID,
				PurchaseAmount: req.BillAmount,
				IdempotencyKey: reference,
			})
			if err != nil {
				return err
			}
			discount = redeemed.DiscountAmount
		}

		coins := req.BillAmount - discount
		if coins > 0 {
			if _, err := s.wallets.DebitWith(ctx, tx, wallet.DebitRequest{
				UserID:    req.UserID,
				Coins:     coins,
				Reference: reference,
				Reason:    fmt.Sprintf("payment to merchant %d", req.MerchantID),
				Source:    models.SourcePayment,
			}); err != nil {
				return err
			}
		}

		txn = &models.Transaction{
			Reference:      reference,
			UserID:         req.UserID,
			MerchantID:     req.MerchantID,
			CouponID:       req.CouponID,
			CoinAmount:     coins,
			BillAmount:     req.BillAmount,
			DiscountAmount: discount,
			Type:           models.TransactionTypeDebit,
			Status:         models.TransactionCompleted,
			Description:    req.Description,
		}
		if redeemed != nil {
			txn.RedemptionID = &redeemed.ID
		}
		if err := tx.Transactions().Create(ctx, txn); err != nil {
			return err
		}

		if redeemed != nil {
			if _, err := s.redemptions.UpdateRedemptionStatusWith(ctx, tx, redeemed.ID, models.RedemptionCompleted, req.MerchantID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateReference) {
			return s.replayPayment(ctx, reference, req)
		}
		return nil, err
	}

	log.Printf("User %d paid merchant %d: bill %d, discount %d, coins %d",
		txn.UserID, txn.MerchantID, txn.BillAmount, txn.DiscountAmount, txn.CoinAmount)
	return txn, nil
}

func (s *service) replayPayment(ctx context.Context, reference string, req PayRequest) (*models.Transaction, error) {
	existing, err := s.store.Transactions().GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if existing.UserID != req.UserID || existing.MerchantID != req.MerchantID || existing.BillAmount != req.BillAmount {
		return nil, apperrors.ErrReferenceConflict
	}
	return existing, nil
}

func (s *service) Reverse(ctx context.Context, transactionID, actorMerchantID uint) (*models.Transaction, error) {
	original, err := s.store.Transactions().GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if original.MerchantID != actorMerchantID {
		return nil, apperrors.ErrUnauthorized
	}
	if original.Type != models.TransactionTypeDebit || original.Status != models.TransactionCompleted || original.ReversalOfID != nil {
		return nil, apperrors.ErrTransactionNotReversible
	}

	if existing, err := s.store.Transactions().GetReversalOf(ctx, original.ID); err == nil {
		return existing, nil
	} else if !errors.Is(err, apperrors.ErrTransactionNotFound) {
		return nil, err
	}

	reference := wallet.ReversalRefPrefix + original.Reference
	var reversal *models.Transaction
	err = s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		if original.CoinAmount > 0 {
			if _, err := s.wallets.CreditWith(ctx, tx, wallet.CreditRequest{
				UserID:     original.UserID,
				Coins:      original.CoinAmount,
				PaymentRef: reference,
				Reason:     fmt.Sprintf("reversal of payment %d", original.ID),
				Source:     models.SourceReversal,
			}); err != nil {
				return err
			}
		}

		reversal = &models.Transaction{
			Reference:      reference,
			UserID:         original.UserID,
			MerchantID:     original.MerchantID,
			CouponID:       original.CouponID,
			RedemptionID:   original.RedemptionID,
			CoinAmount:     original.CoinAmount,
			BillAmount:     original.BillAmount,
			DiscountAmount: original.DiscountAmount,
			Type:           models.TransactionTypeCredit,
			Status:         models.TransactionCompleted,
			ReversalOfID:   &original.ID,
			Description:    fmt.Sprintf("reversal of payment %d", original.ID),
		}
		return tx.Transactions().Create(ctx, reversal)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateReference) {
			return s.store.Transactions().GetReversalOf(ctx, original.ID)
		}
		return nil, err
	}

	log.Printf("Merchant %d reversed payment %d (%d coins)", actorMerchantID, original.ID, original.CoinAmount)
	return reversal, nil
}

func (s *service) GetPayment(ctx context.Context, id uint) (*models.Transaction, error) {
	return s.store.Transactions().GetByID(ctx, id)
}

func (s *service) ListUserPayments(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error) {
	return s.store.Transactions().ListByUser(ctx, userID, limit, offset)
}

func (s *service) ListMerchantPayments(ctx context.Context, merchantID uint, limit, offset int) ([]models.Transaction, int64, error) {
	return s.store.Transactions().ListByMerchant(ctx, merchantID, limit, offset)
}
