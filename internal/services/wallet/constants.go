package wallet

// Default configuration values
const (
	DefaultCurrency  = "COIN"
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Reference prefixes owned by the payment flow. Direct Credit and Debit
// calls may not use them.
const (
	PaymentRefPrefix  = "pay:"
	ReversalRefPrefix = "reversal:"
)
