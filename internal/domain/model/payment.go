package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentKind classifies a recorded payment event.
type PaymentKind string

const (
	PaymentKindDeposit     PaymentKind = "deposit"
	PaymentKindInstallment PaymentKind = "installment"
	PaymentKindFinal       PaymentKind = "final"
)

func (k PaymentKind) Valid() bool {
	switch k {
	case PaymentKindDeposit, PaymentKindInstallment, PaymentKindFinal:
		return true
	}
	return false
}

// PaymentRecord is one tracked payment event against a request.
// Capture happens outside the platform; only the fact is recorded here.
type PaymentRecord struct {
	ID         int64
	RequestID  uuid.UUID
	Amount     float64
	Kind       PaymentKind
	RecordedBy int64
	RecordedAt time.Time
}
