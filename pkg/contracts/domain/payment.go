package domain

import "github.com/shopspring/decimal"

// PaymentInstruction is a single credit transfer derived at export time.
type PaymentInstruction struct {
	Name      string          `json:"name"`
	IBAN      string          `json:"iban"`
	BIC       string          `json:"bic,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference"`
}

// CreditorInfo identifies the club account the transfers are initiated from.
// In pain.001 terms the club is the debtor of every transfer.
type CreditorInfo struct {
	Name string `json:"name" yaml:"name"`
	IBAN string `json:"iban" yaml:"iban"`
	BIC  string `json:"bic,omitempty" yaml:"bic"`
}
