package dto

import (
	"time"

	"github.com/gildedline/atelier/internal/domain/model"
)

// CustomerInfoPayload is the contact block captured at submission.
type CustomerInfoPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// BudgetPayload is the optional customer budget range.
type BudgetPayload struct {
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`
}

// TimeframePayload carries scheduling expectations.
type TimeframePayload struct {
	RequiredBy *time.Time `json:"requiredBy,omitempty"`
	Urgency    string     `json:"urgency,omitempty"`
}

// PricePayload is an amount in a named currency.
type PricePayload struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency,omitempty"`
}

// CreateDesignRequest is the customer submission payload.
type CreateDesignRequest struct {
	ProjectTitle       string              `json:"projectTitle"`
	ProjectDescription string              `json:"projectDescription"`
	ProjectType        string              `json:"projectType"`
	Complexity         string              `json:"complexity,omitempty"`
	CustomerInfo       CustomerInfoPayload `json:"customerInfo"`
	Budget             BudgetPayload       `json:"budget"`
	Timeframe          TimeframePayload    `json:"timeframe"`
	Tags               []string            `json:"tags,omitempty"`
}

// MilestonePayload is one checklist item in a PATCH replacement list.
type MilestonePayload struct {
	Name        string     `json:"name"`
	Status      string     `json:"status,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// UpdateDesignRequest is the staff partial-update payload. Nil fields
// stay untouched; milestones replace the whole checklist.
type UpdateDesignRequest struct {
	ProjectTitle       *string            `json:"projectTitle,omitempty"`
	ProjectDescription *string            `json:"projectDescription,omitempty"`
	ProjectType        *string            `json:"projectType,omitempty"`
	Priority           *string            `json:"priority,omitempty"`
	Complexity         *string            `json:"complexity,omitempty"`
	Status             *string            `json:"status,omitempty"`
	DesignerAssigned   *int64             `json:"designerAssigned,omitempty"`
	ProjectManager     *int64             `json:"projectManager,omitempty"`
	RequiredBy         *time.Time         `json:"requiredBy,omitempty"`
	Urgency            *string            `json:"urgency,omitempty"`
	Tags               []string           `json:"tags,omitempty"`
	Milestones         []MilestonePayload `json:"milestones,omitempty"`
}

// QuoteRequest is the staff quote payload.
type QuoteRequest struct {
	Price                 PricePayload          `json:"price"`
	Description           string                `json:"description"`
	Breakdown             []model.QuoteLineItem `json:"breakdown,omitempty"`
	EstimatedDeliveryDays int                   `json:"estimatedDeliveryDays,omitempty"`
	RevisionsIncluded     int                   `json:"revisionsIncluded,omitempty"`
	ValidityDays          int                   `json:"validityDays,omitempty"`
}

// AcceptQuoteRequest selects a quote on the ledger.
type AcceptQuoteRequest struct {
	QuoteID string `json:"quoteId"`
}

// NoteRequest appends a communication entry.
type NoteRequest struct {
	Content    string `json:"content"`
	IsInternal bool   `json:"isInternal,omitempty"`
}

// PaymentRequest records a payment tracking event.
type PaymentRequest struct {
	Amount float64 `json:"amount"`
	Kind   string  `json:"kind,omitempty"`
}

// QuoteResponse is a quote on the ledger.
type QuoteResponse struct {
	ID                    string                `json:"id"`
	Price                 PricePayload          `json:"price"`
	Description           string                `json:"description"`
	Breakdown             []model.QuoteLineItem `json:"breakdown,omitempty"`
	EstimatedDeliveryDays int                   `json:"estimatedDeliveryDays"`
	RevisionsIncluded     int                   `json:"revisionsIncluded"`
	ValidUntil            time.Time             `json:"validUntil"`
	Status                string                `json:"status"`
	CreatedBy             int64                 `json:"createdBy"`
	CreatedAt             time.Time             `json:"createdAt"`
}

// EntryResponse is one communication log record, already redacted for
// the caller when required.
type EntryResponse struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Participant int64     `json:"participant"`
	Content     string    `json:"content"`
	IsInternal  bool      `json:"isInternal"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MilestoneResponse is one checklist item.
type MilestoneResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// PaymentInfoResponse tracks aggregate payment progress.
type PaymentInfoResponse struct {
	DepositPaid      bool    `json:"depositPaid"`
	FinalPaymentPaid bool    `json:"finalPaymentPaid"`
	TotalPaid        float64 `json:"totalPaid"`
}

// PaymentResponse is one recorded payment event.
type PaymentResponse struct {
	ID         int64     `json:"id"`
	RequestID  string    `json:"requestId"`
	Amount     float64   `json:"amount"`
	Kind       string    `json:"kind"`
	RecordedBy int64     `json:"recordedBy"`
	RecordedAt time.Time `json:"recordedAt"`
}

// PermissionsResponse describes what the caller may do with the entity.
type PermissionsResponse struct {
	CanManage            bool `json:"canManage"`
	CanViewInternalNotes bool `json:"canViewInternalNotes"`
	CanRecordPayments    bool `json:"canRecordPayments"`
}

// DesignResponse is the full entity augmented with derived fields.
type DesignResponse struct {
	ID                   string               `json:"id"`
	ProjectNumber        string               `json:"projectNumber"`
	UserID               int64                `json:"userId"`
	ProjectTitle         string               `json:"projectTitle"`
	ProjectDescription   string               `json:"projectDescription"`
	ProjectType          string               `json:"projectType"`
	Priority             string               `json:"priority"`
	Complexity           string               `json:"complexity"`
	Status               string               `json:"status"`
	CustomerInfo         CustomerInfoPayload  `json:"customerInfo"`
	CustomerName         string               `json:"customerName"`
	Budget               BudgetPayload        `json:"budget"`
	Timeframe            TimeframePayload     `json:"timeframe"`
	Quotes               []QuoteResponse      `json:"quotes"`
	CurrentQuote         *QuoteResponse       `json:"currentQuote,omitempty"`
	Milestones           []MilestoneResponse  `json:"milestones"`
	ProgressPercentage   int                  `json:"progressPercentage"`
	CommunicationLog     []EntryResponse      `json:"communicationLog,omitempty"`
	DesignerAssigned     *int64               `json:"designerAssigned,omitempty"`
	ProjectManager       *int64               `json:"projectManager,omitempty"`
	Payment              PaymentInfoResponse  `json:"payment"`
	Tags                 []string             `json:"tags,omitempty"`
	DaysOpen             int                  `json:"daysOpen"`
	IsOverdue            bool                 `json:"isOverdue"`
	ActualCompletionDate *time.Time           `json:"actualCompletionDate,omitempty"`
	Permissions          *PermissionsResponse `json:"permissions,omitempty"`
	CreatedAt            time.Time            `json:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt"`
}

// Pagination is the listing meta block.
type Pagination struct {
	CurrentPage     int  `json:"currentPage"`
	TotalPages      int  `json:"totalPages"`
	TotalRequests   int  `json:"totalRequests"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// ListResponse is the paginated listing payload with a filter echo.
type ListResponse struct {
	Requests   []DesignResponse  `json:"requests"`
	Pagination Pagination        `json:"pagination"`
	Filters    map[string]string `json:"filters"`
}

// NewQuoteResponse converts a ledger quote.
func NewQuoteResponse(q model.Quote) QuoteResponse {
	return QuoteResponse{
		ID:                    q.ID.String(),
		Price:                 PricePayload{Amount: q.Price.Amount, Currency: q.Price.Currency},
		Description:           q.Description,
		Breakdown:             q.Breakdown,
		EstimatedDeliveryDays: q.EstimatedDeliveryDays,
		RevisionsIncluded:     q.RevisionsIncluded,
		ValidUntil:            q.ValidUntil,
		Status:                string(q.Status),
		CreatedBy:             q.CreatedBy,
		CreatedAt:             q.CreatedAt,
	}
}

// NewPaymentResponse converts a recorded payment.
func NewPaymentResponse(p model.PaymentRecord) PaymentResponse {
	return PaymentResponse{
		ID:         p.ID,
		RequestID:  p.RequestID.String(),
		Amount:     p.Amount,
		Kind:       string(p.Kind),
		RecordedBy: p.RecordedBy,
		RecordedAt: p.RecordedAt,
	}
}

// NewEntryResponse converts a communication entry. The caller decides
// redaction before conversion.
func NewEntryResponse(e model.CommunicationEntry) EntryResponse {
	return EntryResponse{
		ID:          e.ID,
		Type:        string(e.Type),
		Participant: e.Participant,
		Content:     e.Content,
		IsInternal:  e.IsInternal,
		CreatedAt:   e.CreatedAt,
	}
}

// NewDesignResponse converts the aggregate plus its derived fields.
// Internal log entries are redacted unless canViewInternal is set.
func NewDesignResponse(req *model.DesignRequest, derived model.DerivedFields, canViewInternal bool) DesignResponse {
	resp := DesignResponse{
		ID:                 req.ID.String(),
		ProjectNumber:      derived.ProjectNumber,
		UserID:             req.OwnerID,
		ProjectTitle:       req.ProjectTitle,
		ProjectDescription: req.ProjectDescription,
		ProjectType:        string(req.ProjectType),
		Priority:           string(req.Priority),
		Complexity:         string(req.Complexity),
		Status:             string(req.Status),
		CustomerInfo: CustomerInfoPayload{
			FirstName: req.Customer.FirstName,
			LastName:  req.Customer.LastName,
			Email:     req.Customer.Email,
			Phone:     req.Customer.Phone,
		},
		CustomerName:       derived.CustomerName,
		Budget:             BudgetPayload{Minimum: req.Budget.Minimum, Maximum: req.Budget.Maximum},
		Timeframe:          TimeframePayload{RequiredBy: req.Timeframe.RequiredBy, Urgency: req.Timeframe.Urgency},
		Quotes:             make([]QuoteResponse, 0, len(req.Quotes)),
		Milestones:         make([]MilestoneResponse, 0, len(req.Milestones)),
		ProgressPercentage: derived.ProgressPercentage,
		DesignerAssigned:   req.DesignerAssigned,
		ProjectManager:     req.ProjectManager,
		Payment: PaymentInfoResponse{
			DepositPaid:      req.Payment.DepositPaid,
			FinalPaymentPaid: req.Payment.FinalPaymentPaid,
			TotalPaid:        req.Payment.TotalPaid,
		},
		Tags:                 req.Tags,
		DaysOpen:             derived.DaysOpen,
		IsOverdue:            derived.IsOverdue,
		ActualCompletionDate: req.ActualCompletionDate,
		CreatedAt:            req.CreatedAt,
		UpdatedAt:            req.UpdatedAt,
	}

	for _, q := range req.Quotes {
		resp.Quotes = append(resp.Quotes, NewQuoteResponse(q))
	}
	if derived.CurrentQuote != nil {
		current := NewQuoteResponse(*derived.CurrentQuote)
		resp.CurrentQuote = &current
	}
	for _, m := range req.Milestones {
		resp.Milestones = append(resp.Milestones, MilestoneResponse{
			ID:          m.ID,
			Name:        m.Name,
			Status:      string(m.Status),
			CompletedAt: m.CompletedAt,
		})
	}
	for _, e := range req.Log.Entries() {
		if !canViewInternal {
			e = e.Redacted()
		}
		resp.CommunicationLog = append(resp.CommunicationLog, NewEntryResponse(e))
	}

	return resp
}

// NewPagination computes the listing meta block.
func NewPagination(page, limit, total int) Pagination {
	if limit <= 0 {
		limit = 1
	}
	totalPages := (total + limit - 1) / limit
	return Pagination{
		CurrentPage:     page,
		TotalPages:      totalPages,
		TotalRequests:   total,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1 && total > 0,
	}
}
