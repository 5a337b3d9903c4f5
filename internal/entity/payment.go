package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type IntentStatus string

const (
	IntentRequiresPaymentMethod IntentStatus = "requires_payment_method"
	IntentRequiresConfirmation  IntentStatus = "requires_confirmation"
	IntentProcessing            IntentStatus = "processing"
	IntentSucceeded             IntentStatus = "succeeded"
	IntentCanceled              IntentStatus = "canceled"
	IntentFailed                IntentStatus = "failed"
)

// MinimumChargeMinorUnits is the smallest amount the gateway will accept,
// i.e. 0.50 of the currency's major unit.
const MinimumChargeMinorUnits int64 = 50

var ErrInvalidAmount = errors.New("invalid amount")

// PaymentIntent mirrors the gateway-side record. Only the gateway mutates
// it; this side reads and forwards. ClientSecret must never be logged.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Amount       int64 // minor units
	Currency     string
	Status       IntentStatus
	Created      time.Time
	ReceiptEmail string
	Metadata     map[string]string
}

func (pi *PaymentIntent) Validate() error {
	if pi.Amount < MinimumChargeMinorUnits || pi.Currency == "" {
		return ErrInvalidAmount
	}
	return nil
}

type PaymentResult struct {
	Success         bool
	PaymentIntentID string
	Amount          decimal.Decimal // major units
	Currency        string
	Timestamp       time.Time
}

type Refund struct {
	ID     string
	Amount int64 // minor units
	Status string
}

// MinorUnits converts a major-unit amount to integer minor units,
// rounding to the nearest cent.
func MinorUnits(major decimal.Decimal) int64 {
	return major.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
