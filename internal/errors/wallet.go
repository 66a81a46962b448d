package errors

var (
	ErrInsufficientBalance = &DomainError{
		Kind:    KindInsufficientBalance,
		Code:    "INSUFFICIENT_BALANCE",
		Message: "insufficient wallet balance",
	}
	ErrInvalidAmount = &DomainError{
		Kind:    KindInvalidAmount,
		Code:    "INVALID_AMOUNT",
		Message: "invalid amount",
	}
	ErrWalletNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "WALLET_NOT_FOUND",
		Message: "wallet not found",
	}
	ErrWalletExists = &DomainError{
		Kind:    KindAlreadyExists,
		Code:    "WALLET_EXISTS",
		Message: "wallet already exists",
	}
	ErrTransactionNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "TRANSACTION_NOT_FOUND",
		Message: "transaction not found",
	}
	ErrReservedReference = &DomainError{
		Kind:    KindInvalidInput,
		Code:    "RESERVED_REFERENCE",
		Message: "reference prefix is reserved for payments and reversals",
	}
	ErrTransactionNotReversible = &DomainError{
		Kind:    KindConflict,
		Code:    "TRANSACTION_NOT_REVERSIBLE",
		Message: "only completed debit payments can be reversed",
	}
)
