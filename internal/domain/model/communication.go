package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EntryType classifies a communication log record.
type EntryType string

const (
	EntryTypeNote         EntryType = "note"
	EntryTypeEmail        EntryType = "email"
	EntryTypeCall         EntryType = "call"
	EntryTypeMeeting      EntryType = "meeting"
	EntryTypeStatusChange EntryType = "status_change"
	EntryTypeQuote        EntryType = "quote"
	EntryTypePayment      EntryType = "payment"
)

// InternalNotePlaceholder replaces internal content for callers without
// the view_internal_notes permission.
const InternalNotePlaceholder = "Internal note"

// SystemParticipant marks entries produced by the service itself.
const SystemParticipant int64 = 0

// CommunicationEntry is one immutable audit record tied to a request.
type CommunicationEntry struct {
	ID          int64
	Type        EntryType
	Participant int64
	Content     string
	IsInternal  bool
	CreatedAt   time.Time
}

// Redacted returns a copy safe for callers who may not read internal
// notes. The IsInternal flag is down-reported as false so that hidden
// structure is not signalled.
func (e CommunicationEntry) Redacted() CommunicationEntry {
	if !e.IsInternal {
		return e
	}
	e.Content = InternalNotePlaceholder
	e.IsInternal = false
	return e
}

// CommunicationLog is an insert-only ordered sequence of entries.
// There is deliberately no way to update or remove an entry.
type CommunicationLog struct {
	entries []CommunicationEntry
}

// Append adds an entry to the end of the log.
func (l *CommunicationLog) Append(e CommunicationEntry) {
	l.entries = append(l.entries, e)
}

// Entries returns a copy of the log in insertion order.
func (l *CommunicationLog) Entries() []CommunicationEntry {
	out := make([]CommunicationEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *CommunicationLog) Len() int {
	return len(l.entries)
}

// NewStatusChangeEntry records a lifecycle transition, visible to the customer.
func NewStatusChangeEntry(participant int64, from, to RequestStatus) CommunicationEntry {
	return CommunicationEntry{
		Type:        EntryTypeStatusChange,
		Participant: participant,
		Content:     fmt.Sprintf("Status changed from %s to %s", from, to),
		IsInternal:  false,
	}
}

// NewQuoteIssuedEntry records that staff issued a quote.
func NewQuoteIssuedEntry(participant int64, price Price) CommunicationEntry {
	return CommunicationEntry{
		Type:        EntryTypeQuote,
		Participant: participant,
		Content:     fmt.Sprintf("Quote issued for %.2f %s", price.Amount, price.Currency),
		IsInternal:  false,
	}
}

// NewQuoteAcceptedEntry records a customer accepting a quote.
func NewQuoteAcceptedEntry(participant int64, quoteID uuid.UUID) CommunicationEntry {
	return CommunicationEntry{
		Type:        EntryTypeQuote,
		Participant: participant,
		Content:     fmt.Sprintf("Quote %s accepted by customer", quoteID),
		IsInternal:  false,
	}
}

// NewQuoteExpiredEntry records a quote passing its validity window.
func NewQuoteExpiredEntry(quoteID uuid.UUID) CommunicationEntry {
	return CommunicationEntry{
		Type:        EntryTypeQuote,
		Participant: SystemParticipant,
		Content:     fmt.Sprintf("Quote %s expired", quoteID),
		IsInternal:  false,
	}
}

// NewPaymentEntry records a payment tracking event.
func NewPaymentEntry(participant int64, amount float64, kind PaymentKind) CommunicationEntry {
	return CommunicationEntry{
		Type:        EntryTypePayment,
		Participant: participant,
		Content:     fmt.Sprintf("Recorded %s payment of %.2f", kind, amount),
		IsInternal:  false,
	}
}
