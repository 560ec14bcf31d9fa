package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/gildedline/atelier/internal/domain/errors"
	"github.com/gildedline/atelier/internal/domain/model"
	"github.com/gildedline/atelier/internal/domain/permission"
	"github.com/gildedline/atelier/internal/domain/repository"
)

// DefaultQuoteValidityDays is applied when staff issue a quote without
// an explicit validity window.
const DefaultQuoteValidityDays = 30

// MaxListLimit caps page sizes on listings.
const MaxListLimit = 100

// CreateDesignInput carries the customer submission payload.
type CreateDesignInput struct {
	ProjectTitle       string
	ProjectDescription string
	ProjectType        model.ProjectType
	Complexity         model.Complexity
	Customer           model.CustomerInfo
	Budget             model.BudgetRange
	Timeframe          model.Timeframe
	Tags               []string
}

// QuoteInput carries a staff quote payload.
type QuoteInput struct {
	Price                 model.Price
	Description           string
	Breakdown             []model.QuoteLineItem
	EstimatedDeliveryDays int
	RevisionsIncluded     int
	ValidityDays          int
}

// DesignUseCase orchestrates the custom design request lifecycle.
type DesignUseCase struct {
	requests repository.DesignRequestRepository
	now      func() time.Time
}

// NewDesignUseCase constructs DesignUseCase.
func NewDesignUseCase(requests repository.DesignRequestRepository) *DesignUseCase {
	return &DesignUseCase{requests: requests, now: time.Now}
}

// Create validates the submission and persists a new pending request
// owned by the caller.
func (u *DesignUseCase) Create(ctx context.Context, caller model.Identity, in CreateDesignInput) (*model.DesignRequest, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	req := &model.DesignRequest{
		ID:                 uuid.New(),
		OwnerID:            caller.UserID,
		ProjectTitle:       in.ProjectTitle,
		ProjectDescription: in.ProjectDescription,
		ProjectType:        in.ProjectType,
		Priority:           PriorityFromUrgency(in.Timeframe.Urgency),
		Complexity:         in.Complexity,
		Status:             model.StatusPending,
		Customer:           in.Customer,
		Budget:             in.Budget,
		Timeframe:          in.Timeframe,
		Tags:               in.Tags,
	}
	if req.Complexity == "" {
		req.Complexity = model.ComplexityModerate
	}

	return u.requests.Create(ctx, req)
}

// Get fetches a request for the caller. Staff with view permission may
// read any request; customers only their own.
func (u *DesignUseCase) Get(ctx context.Context, caller model.Identity, id uuid.UUID) (*model.DesignRequest, permission.Set, error) {
	perms := permission.ForRole(caller.Role)

	req, err := u.requests.GetByID(ctx, id)
	if err != nil {
		return nil, perms, err
	}

	if !perms.Has(permission.ViewCustomDesigns) && req.OwnerID != caller.UserID {
		return nil, perms, domainErrors.ErrAccessDenied
	}

	return req, perms, nil
}

// List returns a filtered page of requests. Non-privileged callers are
// scoped to their own records regardless of requested filters.
func (u *DesignUseCase) List(ctx context.Context, caller model.Identity, f repository.ListFilter) ([]model.DesignRequest, int, error) {
	perms := permission.ForRole(caller.Role)
	if !perms.Has(permission.ViewCustomDesigns) {
		owner := caller.UserID
		f.OwnerID = &owner
	}

	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 10
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}

	return u.requests.List(ctx, f)
}

// Update applies a staff patch. A status change is audited atomically
// with the write; a transition to completed stamps the completion date.
func (u *DesignUseCase) Update(ctx context.Context, caller model.Identity, id uuid.UUID, patch repository.UpdatePatch) (*model.DesignRequest, error) {
	if !permission.ForRole(caller.Role).Has(permission.ManageCustomDesigns) {
		return nil, domainErrors.ErrInsufficientPermissions
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	return u.requests.Update(ctx, id, patch, caller.UserID)
}

// AddQuote appends a pending quote to the request ledger. Issuing a
// quote against a pending or consultation request advances it to quoted.
func (u *DesignUseCase) AddQuote(ctx context.Context, caller model.Identity, requestID uuid.UUID, in QuoteInput) (*model.Quote, error) {
	if !permission.ForRole(caller.Role).Has(permission.ManageCustomDesigns) {
		return nil, domainErrors.ErrInsufficientPermissions
	}
	if err := validateQuote(in); err != nil {
		return nil, err
	}

	validityDays := in.ValidityDays
	if validityDays <= 0 {
		validityDays = DefaultQuoteValidityDays
	}
	currency := in.Price.Currency
	if currency == "" {
		currency = "USD"
	}

	quote := model.Quote{
		ID:                    uuid.New(),
		RequestID:             requestID,
		Price:                 model.Price{Amount: in.Price.Amount, Currency: currency},
		Description:           in.Description,
		Breakdown:             in.Breakdown,
		EstimatedDeliveryDays: in.EstimatedDeliveryDays,
		RevisionsIncluded:     in.RevisionsIncluded,
		ValidUntil:            u.now().AddDate(0, 0, validityDays),
		Status:                model.QuoteStatusPending,
		CreatedBy:             caller.UserID,
	}

	return u.requests.AddQuote(ctx, requestID, quote)
}

// AcceptQuote marks a quote accepted on behalf of the owning customer.
// Only the request owner may accept; staff confirm progress separately.
func (u *DesignUseCase) AcceptQuote(ctx context.Context, caller model.Identity, requestID uuid.UUID, rawQuoteID string) (*model.Quote, error) {
	if rawQuoteID == "" {
		return nil, &domainErrors.ValidationError{Code: domainErrors.CodeMissingQuoteID, Fields: []domainErrors.FieldError{{Field: "quoteId", Message: "required"}}}
	}

	req, err := u.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.OwnerID != caller.UserID {
		return nil, domainErrors.ErrAccessDenied
	}

	quoteID, err := uuid.Parse(rawQuoteID)
	if err != nil {
		return nil, domainErrors.ErrNotFound
	}

	return u.requests.AcceptQuote(ctx, requestID, quoteID, caller.UserID)
}

// AddNote appends a communication entry authored by the caller.
// Internal notes require staff view permission.
func (u *DesignUseCase) AddNote(ctx context.Context, caller model.Identity, requestID uuid.UUID, content string, internal bool) (*model.CommunicationEntry, error) {
	perms := permission.ForRole(caller.Role)
	if internal && !perms.Has(permission.ViewInternalNotes) {
		return nil, domainErrors.ErrInsufficientPermissions
	}

	req, err := u.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !perms.Has(permission.ViewCustomDesigns) && req.OwnerID != caller.UserID {
		return nil, domainErrors.ErrAccessDenied
	}
	if content == "" {
		return nil, domainErrors.NewValidation(domainErrors.CodeValidationError, "content", "required")
	}

	entry := model.CommunicationEntry{
		Type:        model.EntryTypeNote,
		Participant: caller.UserID,
		Content:     content,
		IsInternal:  internal,
	}
	return u.requests.AppendEntry(ctx, requestID, entry)
}

// RecordPayment tracks an externally captured payment against the
// request. TotalPaid only ever grows.
func (u *DesignUseCase) RecordPayment(ctx context.Context, caller model.Identity, requestID uuid.UUID, amount float64, kind model.PaymentKind) (*model.PaymentRecord, error) {
	if !permission.ForRole(caller.Role).Has(permission.RecordPayments) {
		return nil, domainErrors.ErrInsufficientPermissions
	}
	if amount <= 0 {
		return nil, domainErrors.NewValidation(domainErrors.CodeInvalidPaymentAmount, "amount", "must be positive")
	}
	if kind == "" {
		kind = model.PaymentKindInstallment
	}
	if !kind.Valid() {
		return nil, domainErrors.NewValidation(domainErrors.CodeValidationError, "kind", "unknown payment kind")
	}

	payment := model.PaymentRecord{
		RequestID:  requestID,
		Amount:     amount,
		Kind:       kind,
		RecordedBy: caller.UserID,
	}
	return u.requests.RecordPayment(ctx, requestID, payment)
}

// ExpireDueQuotes sweeps pending quotes past their validity window.
func (u *DesignUseCase) ExpireDueQuotes(ctx context.Context, limit int) ([]model.Quote, error) {
	return u.requests.ExpireDueQuotes(ctx, u.now(), limit)
}
