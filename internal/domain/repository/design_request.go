package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gildedline/atelier/internal/domain/model"
)

// ListFilter narrows and paginates request listings. Nil pointer fields
// are ignored. OwnerID scopes non-privileged callers to their own records.
type ListFilter struct {
	OwnerID          *int64
	Status           *model.RequestStatus
	ProjectType      *model.ProjectType
	Priority         *model.Priority
	DesignerAssigned *int64
	Search           string
	Page             int
	Limit            int
}

// UpdatePatch is a partial staff update of a design request. Nil fields
// stay untouched. Milestones, when non-nil, replace the whole checklist.
type UpdatePatch struct {
	ProjectTitle       *string
	ProjectDescription *string
	ProjectType        *model.ProjectType
	Priority           *model.Priority
	Complexity         *model.Complexity
	Status             *model.RequestStatus
	DesignerAssigned   *int64
	ProjectManager     *int64
	RequiredBy         *time.Time
	Urgency            *string
	Tags               []string
	Milestones         []model.Milestone
}

// DesignRequestRepository describes persistence operations with design
// requests. Mutations that pair a write with its audit entry run inside
// a single transaction; partial application never survives an error.
type DesignRequestRepository interface {
	Create(ctx context.Context, req *model.DesignRequest) (*model.DesignRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.DesignRequest, error)
	List(ctx context.Context, f ListFilter) ([]model.DesignRequest, int, error)

	// Update applies the patch. A status change additionally appends a
	// customer-visible status entry attributed to actor, and a change to
	// completed stamps the actual completion date.
	Update(ctx context.Context, id uuid.UUID, patch UpdatePatch, actor int64) (*model.DesignRequest, error)

	// AddQuote appends a pending quote, logs the quoted amount, and
	// advances a pending/consultation request to quoted.
	AddQuote(ctx context.Context, requestID uuid.UUID, quote model.Quote) (*model.Quote, error)

	// AcceptQuote marks the quote accepted unless another quote on the
	// same request already is. Re-accepting the same quote is a no-op
	// that still logs.
	AcceptQuote(ctx context.Context, requestID, quoteID uuid.UUID, actor int64) (*model.Quote, error)

	AppendEntry(ctx context.Context, requestID uuid.UUID, entry model.CommunicationEntry) (*model.CommunicationEntry, error)

	// RecordPayment inserts a payment row and bumps the monotonic
	// payment counters in one transaction.
	RecordPayment(ctx context.Context, requestID uuid.UUID, payment model.PaymentRecord) (*model.PaymentRecord, error)

	// ExpireDueQuotes marks pending quotes past their validity window as
	// expired and returns them, at most limit at a time.
	ExpireDueQuotes(ctx context.Context, now time.Time, limit int) ([]model.Quote, error)
}
