package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestStatus describes the lifecycle stage of a design request.
type RequestStatus string

const (
	StatusPending      RequestStatus = "pending"
	StatusConsultation RequestStatus = "consultation"
	StatusQuoted       RequestStatus = "quoted"
	StatusInProgress   RequestStatus = "in_progress"
	StatusCompleted    RequestStatus = "completed"
	StatusCancelled    RequestStatus = "cancelled"
)

// Valid reports whether the status is a known member of the enumeration.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConsultation, StatusQuoted, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further lifecycle work is expected.
func (s RequestStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ProjectType classifies the commissioned piece.
type ProjectType string

const (
	ProjectTypeRing     ProjectType = "ring"
	ProjectTypeNecklace ProjectType = "necklace"
	ProjectTypeBracelet ProjectType = "bracelet"
	ProjectTypeEarrings ProjectType = "earrings"
	ProjectTypePendant  ProjectType = "pendant"
	ProjectTypeBrooch   ProjectType = "brooch"
	ProjectTypeOther    ProjectType = "other"
)

func (p ProjectType) Valid() bool {
	switch p {
	case ProjectTypeRing, ProjectTypeNecklace, ProjectTypeBracelet, ProjectTypeEarrings, ProjectTypePendant, ProjectTypeBrooch, ProjectTypeOther:
		return true
	}
	return false
}

// Priority orders requests in the back office queue.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Complexity is the workshop's estimate of craftsmanship effort.
type Complexity string

const (
	ComplexitySimple      Complexity = "simple"
	ComplexityModerate    Complexity = "moderate"
	ComplexityComplex     Complexity = "complex"
	ComplexityMasterpiece Complexity = "masterpiece"
)

func (c Complexity) Valid() bool {
	switch c {
	case ComplexitySimple, ComplexityModerate, ComplexityComplex, ComplexityMasterpiece:
		return true
	}
	return false
}

// CustomerInfo is the contact block captured at submission time.
// It is a snapshot, not an account reference.
type CustomerInfo struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// FullName concatenates the customer's first and last name.
func (c CustomerInfo) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// BudgetRange is an optional customer budget. When both bounds are
// present Minimum must not exceed Maximum.
type BudgetRange struct {
	Minimum *float64
	Maximum *float64
}

// Timeframe carries the customer's scheduling expectations.
type Timeframe struct {
	RequiredBy *time.Time
	Urgency    string
}

// PaymentInfo tracks payment progress flags. TotalPaid only grows.
type PaymentInfo struct {
	DepositPaid      bool
	FinalPaymentPaid bool
	TotalPaid        float64
}

// DesignRequest is the aggregate root of the bespoke commission workflow.
type DesignRequest struct {
	ID                   uuid.UUID
	OwnerID              int64
	ProjectTitle         string
	ProjectDescription   string
	ProjectType          ProjectType
	Priority             Priority
	Complexity           Complexity
	Status               RequestStatus
	Customer             CustomerInfo
	Budget               BudgetRange
	Quotes               []Quote
	Milestones           []Milestone
	Log                  CommunicationLog
	DesignerAssigned     *int64
	ProjectManager       *int64
	Payment              PaymentInfo
	Timeframe            Timeframe
	ActualCompletionDate *time.Time
	Tags                 []string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ProjectNumber derives the human-readable project token from the
// request identifier: the last 8 hex characters, uppercased.
func (r *DesignRequest) ProjectNumber() string {
	hex := strings.ReplaceAll(r.ID.String(), "-", "")
	return "CD-" + strings.ToUpper(hex[len(hex)-8:])
}

// AcceptedQuote returns the accepted quote, if any.
func (r *DesignRequest) AcceptedQuote() *Quote {
	for i := range r.Quotes {
		if r.Quotes[i].Status == QuoteStatusAccepted {
			return &r.Quotes[i]
		}
	}
	return nil
}

// CurrentQuote resolves the quote the customer should be looking at:
// the accepted quote, else the oldest pending one.
func (r *DesignRequest) CurrentQuote() *Quote {
	if q := r.AcceptedQuote(); q != nil {
		return q
	}
	for i := range r.Quotes {
		if r.Quotes[i].Status == QuoteStatusPending {
			return &r.Quotes[i]
		}
	}
	return nil
}

// CompletedMilestones counts milestones already done.
func (r *DesignRequest) CompletedMilestones() int {
	var n int
	for _, m := range r.Milestones {
		if m.Status == MilestoneStatusCompleted {
			n++
		}
	}
	return n
}
