package model

import (
	"time"

	"github.com/google/uuid"
)

// QuoteStatus describes the state of a single priced proposal.
type QuoteStatus string

const (
	QuoteStatusPending  QuoteStatus = "pending"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusExpired  QuoteStatus = "expired"
	QuoteStatusRejected QuoteStatus = "rejected"
)

// Price is an amount in a named currency.
type Price struct {
	Amount   float64
	Currency string
}

// QuoteLineItem is one element of a quote breakdown.
type QuoteLineItem struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Quote is a priced proposal from staff to the customer. Quotes are
// appended to a request and never removed; only their status changes.
type Quote struct {
	ID                    uuid.UUID
	RequestID             uuid.UUID
	Price                 Price
	Description           string
	Breakdown             []QuoteLineItem
	EstimatedDeliveryDays int
	RevisionsIncluded     int
	ValidUntil            time.Time
	Status                QuoteStatus
	CreatedBy             int64
	CreatedAt             time.Time
}
