package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/gildedline/atelier/internal/domain/errors"
	"github.com/gildedline/atelier/internal/domain/model"
	"github.com/gildedline/atelier/internal/domain/permission"
	"github.com/gildedline/atelier/internal/domain/repository"
)

var (
	customer = model.Identity{UserID: 1, Role: model.RoleCustomer}
	stranger = model.Identity{UserID: 2, Role: model.RoleCustomer}
	designer = model.Identity{UserID: 10, Role: model.RoleDesigner}
	manager  = model.Identity{UserID: 11, Role: model.RoleManager}
	support  = model.Identity{UserID: 12, Role: model.RoleSupport}
)

// stubDesignRepository mirrors the storage contract in memory.
type stubDesignRepository struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*model.DesignRequest
	listFn   func(context.Context, repository.ListFilter) ([]model.DesignRequest, int, error)
}

func newStubDesignRepository() *stubDesignRepository {
	return &stubDesignRepository{requests: make(map[uuid.UUID]*model.DesignRequest)}
}

func (s *stubDesignRepository) Create(ctx context.Context, req *model.DesignRequest) (*model.DesignRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now
	s.requests[req.ID] = req
	return req, nil
}

func (s *stubDesignRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.DesignRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req, ok := s.requests[id]; ok {
		return req, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *stubDesignRepository) List(ctx context.Context, f repository.ListFilter) ([]model.DesignRequest, int, error) {
	if s.listFn != nil {
		return s.listFn(ctx, f)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.DesignRequest
	for _, req := range s.requests {
		if f.OwnerID != nil && req.OwnerID != *f.OwnerID {
			continue
		}
		out = append(out, *req)
	}
	return out, len(out), nil
}

func (s *stubDesignRepository) Update(ctx context.Context, id uuid.UUID, patch repository.UpdatePatch, actor int64) (*model.DesignRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if patch.Status != nil && *patch.Status != req.Status {
		req.Log.Append(model.NewStatusChangeEntry(actor, req.Status, *patch.Status))
		req.Status = *patch.Status
		if req.Status == model.StatusCompleted {
			now := time.Now()
			req.ActualCompletionDate = &now
		}
	}
	req.UpdatedAt = time.Now()
	return req, nil
}

func (s *stubDesignRepository) AddQuote(ctx context.Context, requestID uuid.UUID, quote model.Quote) (*model.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	quote.CreatedAt = time.Now()
	req.Quotes = append(req.Quotes, quote)
	req.Log.Append(model.NewQuoteIssuedEntry(quote.CreatedBy, quote.Price))
	if req.Status == model.StatusPending || req.Status == model.StatusConsultation {
		req.Status = model.StatusQuoted
	}
	return &req.Quotes[len(req.Quotes)-1], nil
}

func (s *stubDesignRepository) AcceptQuote(ctx context.Context, requestID, quoteID uuid.UUID, actor int64) (*model.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	var target *model.Quote
	for i := range req.Quotes {
		if req.Quotes[i].ID == quoteID {
			target = &req.Quotes[i]
			break
		}
	}
	if target == nil {
		return nil, domainErrors.ErrNotFound
	}
	if accepted := req.AcceptedQuote(); accepted != nil && accepted.ID != quoteID {
		return nil, domainErrors.ErrQuoteAlreadyAccepted
	}
	target.Status = model.QuoteStatusAccepted
	req.Log.Append(model.NewQuoteAcceptedEntry(actor, quoteID))
	return target, nil
}

func (s *stubDesignRepository) AppendEntry(ctx context.Context, requestID uuid.UUID, entry model.CommunicationEntry) (*model.CommunicationEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	entry.CreatedAt = time.Now()
	req.Log.Append(entry)
	entries := req.Log.Entries()
	return &entries[len(entries)-1], nil
}

func (s *stubDesignRepository) RecordPayment(ctx context.Context, requestID uuid.UUID, payment model.PaymentRecord) (*model.PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	payment.RecordedAt = time.Now()
	req.Payment.TotalPaid += payment.Amount
	req.Log.Append(model.NewPaymentEntry(payment.RecordedBy, payment.Amount, payment.Kind))
	return &payment, nil
}

func (s *stubDesignRepository) ExpireDueQuotes(ctx context.Context, now time.Time, limit int) ([]model.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expired []model.Quote
	for _, req := range s.requests {
		for i := range req.Quotes {
			if len(expired) >= limit {
				return expired, nil
			}
			q := &req.Quotes[i]
			if q.Status == model.QuoteStatusPending && q.ValidUntil.Before(now) {
				q.Status = model.QuoteStatusExpired
				req.Log.Append(model.NewQuoteExpiredEntry(q.ID))
				expired = append(expired, *q)
			}
		}
	}
	return expired, nil
}

var _ repository.DesignRequestRepository = (*stubDesignRepository)(nil)

func newDesignUseCase(repo repository.DesignRequestRepository, clock time.Time) *DesignUseCase {
	uc := NewDesignUseCase(repo)
	uc.now = func() time.Time { return clock }
	return uc
}

func seedRequest(t *testing.T, uc *DesignUseCase, owner model.Identity) *model.DesignRequest {
	t.Helper()
	req, err := uc.Create(context.Background(), owner, validInput())
	if err != nil {
		t.Fatalf("seed request: %v", err)
	}
	return req
}

func TestDesignCreateDefaults(t *testing.T) {
	uc := newDesignUseCase(newStubDesignRepository(), derivedClock)

	in := validInput()
	in.Timeframe.Urgency = "rush"
	req, err := uc.Create(context.Background(), customer, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if req.Status != model.StatusPending {
		t.Fatalf("new request must be pending, got %s", req.Status)
	}
	if req.OwnerID != customer.UserID {
		t.Fatalf("owner must be the caller, got %d", req.OwnerID)
	}
	if req.Priority != model.PriorityHigh {
		t.Fatalf("rush urgency must map to high priority, got %s", req.Priority)
	}
	if req.Complexity != model.ComplexityModerate {
		t.Fatalf("complexity must default to moderate, got %s", req.Complexity)
	}
	if req.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
}

func TestDesignCreateRejectsInvalid(t *testing.T) {
	uc := newDesignUseCase(newStubDesignRepository(), derivedClock)
	in := validInput()
	in.Customer.Email = "not-an-email"
	if _, err := uc.Create(context.Background(), customer, in); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDesignGetOwnership(t *testing.T) {
	uc := newDesignUseCase(newStubDesignRepository(), derivedClock)
	req := seedRequest(t, uc, customer)

	if _, _, err := uc.Get(context.Background(), customer, req.ID); err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
	if _, _, err := uc.Get(context.Background(), stranger, req.ID); !errors.Is(err, domainErrors.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied for other customer, got %v", err)
	}
	if _, perms, err := uc.Get(context.Background(), support, req.ID); err != nil || !perms.Has(permission.ViewInternalNotes) {
		t.Fatalf("support must read any request with internal visibility, err=%v", err)
	}
	if _, _, err := uc.Get(context.Background(), customer, uuid.New()); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDesignListScopesCustomers(t *testing.T) {
	var captured repository.ListFilter
	repo := newStubDesignRepository()
	repo.listFn = func(ctx context.Context, f repository.ListFilter) ([]model.DesignRequest, int, error) {
		captured = f
		return nil, 0, nil
	}
	uc := newDesignUseCase(repo, derivedClock)

	other := int64(99)
	if _, _, err := uc.List(context.Background(), customer, repository.ListFilter{OwnerID: &other, Limit: 500}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if captured.OwnerID == nil || *captured.OwnerID != customer.UserID {
		t.Fatal("customer listing must be forced to own records")
	}
	if captured.Limit != MaxListLimit {
		t.Fatalf("limit must be capped at %d, got %d", MaxListLimit, captured.Limit)
	}
	if captured.Page != 1 {
		t.Fatalf("page must default to 1, got %d", captured.Page)
	}

	if _, _, err := uc.List(context.Background(), manager, repository.ListFilter{}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if captured.OwnerID != nil {
		t.Fatal("staff listing must not be owner scoped")
	}
	if captured.Limit != 10 {
		t.Fatalf("limit must default to 10, got %d", captured.Limit)
	}
}

func TestDesignUpdatePermissions(t *testing.T) {
	uc := newDesignUseCase(newStubDesignRepository(), derivedClock)
	req := seedRequest(t, uc, customer)

	status := model.StatusConsultation
	patch := repository.UpdatePatch{Status: &status}

	if _, err := uc.Update(context.Background(), customer, req.ID, patch); !errors.Is(err, domainErrors.ErrInsufficientPermissions) {
		t.Fatalf("customer must not update, got %v", err)
	}
	if _, err := uc.Update(context.Background(), support, req.ID, patch); !errors.Is(err, domainErrors.ErrInsufficientPermissions) {
		t.Fatalf("support must not update, got %v", err)
	}

	updated, err := uc.Update(context.Background(), designer, req.ID, patch)
	if err != nil {
		t.Fatalf("designer update failed: %v", err)
	}
	if updated.Status != model.StatusConsultation {
		t.Fatalf("status not applied, got %s", updated.Status)
	}
	if updated.Log.Len() != 1 {
		t.Fatalf("status change must be logged, got %d entries", updated.Log.Len())
	}
}

func TestDesignUpdateCompletionDate(t *testing.T) {
	uc := newDesignUseCase(newStubDesignRepository(), derivedClock)
	req := seedRequest(t, uc, customer)

	status := model.StatusCompleted
	updated, err := uc.Update(context.Background(), manager, req.ID, repository.UpdatePatch{Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ActualCompletionDate == nil {
		t.Fatal("completion must stamp actual completion date")
	}
}

func TestDesignAddQuote(t *testing.T) {
	uc := newDesignUseCase(newStubDesignRepository(), derivedClock)
	req := seedRequest(t, uc, customer)

	in := QuoteInput{Price: model.Price{Amount: 2500}, Description: "Initial estimate"}

	if _, err := uc.AddQuote(context.Background(), customer, req.ID, in); !errors.Is(err, domainErrors.ErrInsufficientPermissions) {
		t.Fatalf("customer must not quote, got %v", err)
	}

	quote, err := uc.AddQuote(context.Background(), designer, req.ID, in)
	if err != nil {
		t.Fatalf("add quote: %v", err)
	}
	if quote.Status != model.QuoteStatusPending {
		t.Fatalf("new quote must be pending, got %s", quote.Status)
	}
	if quote.Price.Currency != "USD" {
		t.Fatalf("currency must default to USD, got %s", quote.Price.Currency)
	}
	want := derivedClock.AddDate(0, 0, DefaultQuoteValidityDays)
	if !quote.ValidUntil.Equal(want) {
		t.Fatalf("validity must default to %d days: got %v want %v", DefaultQuoteValidityDays, quote.ValidUntil, want)
	}
	if quote.CreatedBy != designer.UserID {
		t.Fatalf("quote author mismatch: %d", quote.CreatedBy)
	}

	stored, _, err := uc.Get(context.Background(), designer, req.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != model.StatusQuoted {
		t.Fatalf("quoting a pending request must advance it to quoted, got %s", stored.Status)
	}
}

func TestDesignAddQuoteValidation(t *testing.T) {
	uc := newDesignUseCase(newStubDesignRepository(), derivedClock)
	req := seedRequest(t, uc, customer)

	_, err := uc.AddQuote(context.Background(), designer, req.ID, QuoteInput{})
	assertValidationCode(t, err, domainErrors.CodeMissingQuoteInfo)
}

func TestDesignAcceptQuote(t *testing.T) {
	uc := newDesignUseCase(newStubDesignRepository(), derivedClock)
	req := seedRequest(t, uc, customer)
	first, err := uc.AddQuote(context.Background(), designer, req.ID, QuoteInput{Price: model.Price{Amount: 2500}, Description: "Initial estimate"})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	second, err := uc.AddQuote(context.Background(), designer, req.ID, QuoteInput{Price: model.Price{Amount: 2100}, Description: "Revised estimate"})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}

	if _, err := uc.AcceptQuote(context.Background(), customer, req.ID, ""); err == nil {
		t.Fatal("expected validation error for missing quote id")
	}
	if _, err := uc.AcceptQuote(context.Background(), stranger, req.ID, first.ID.String()); !errors.Is(err, domainErrors.ErrAccessDenied) {
		t.Fatalf("only owner may accept, got %v", err)
	}
	if _, err := uc.AcceptQuote(context.Background(), customer, req.ID, "not-a-uuid"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("malformed quote id must read as not found, got %v", err)
	}

	accepted, err := uc.AcceptQuote(context.Background(), customer, req.ID, first.ID.String())
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != model.QuoteStatusAccepted {
		t.Fatalf("expected accepted status, got %s", accepted.Status)
	}

	if _, err := uc.AcceptQuote(context.Background(), customer, req.ID, second.ID.String()); !errors.Is(err, domainErrors.ErrQuoteAlreadyAccepted) {
		t.Fatalf("second acceptance must conflict, got %v", err)
	}
	// re-accepting the same quote is not an error
	if _, err := uc.AcceptQuote(context.Background(), customer, req.ID, first.ID.String()); err != nil {
		t.Fatalf("re-accept of same quote: %v", err)
	}
}

func TestDesignAddNote(t *testing.T) {
	uc := newDesignUseCase(newStubDesignRepository(), derivedClock)
	req := seedRequest(t, uc, customer)

	if _, err := uc.AddNote(context.Background(), customer, req.ID, "Can we use rose gold?", false); err != nil {
		t.Fatalf("owner note: %v", err)
	}
	if _, err := uc.AddNote(context.Background(), customer, req.ID, "secret", true); !errors.Is(err, domainErrors.ErrInsufficientPermissions) {
		t.Fatalf("customer must not write internal notes, got %v", err)
	}
	if _, err := uc.AddNote(context.Background(), stranger, req.ID, "hello", false); !errors.Is(err, domainErrors.ErrAccessDenied) {
		t.Fatalf("stranger must not write notes, got %v", err)
	}
	entry, err := uc.AddNote(context.Background(), support, req.ID, "Customer prefers matte finish", true)
	if err != nil {
		t.Fatalf("support internal note: %v", err)
	}
	if !entry.IsInternal {
		t.Fatal("internal flag lost")
	}
	if _, err := uc.AddNote(context.Background(), support, req.ID, "", false); err == nil {
		t.Fatal("expected validation error for empty content")
	}
}

func TestDesignRecordPayment(t *testing.T) {
	uc := newDesignUseCase(newStubDesignRepository(), derivedClock)
	req := seedRequest(t, uc, customer)

	if _, err := uc.RecordPayment(context.Background(), designer, req.ID, 500, model.PaymentKindDeposit); !errors.Is(err, domainErrors.ErrInsufficientPermissions) {
		t.Fatalf("designer must not record payments, got %v", err)
	}
	_, err := uc.RecordPayment(context.Background(), manager, req.ID, -5, model.PaymentKindDeposit)
	assertValidationCode(t, err, domainErrors.CodeInvalidPaymentAmount)

	payment, err := uc.RecordPayment(context.Background(), manager, req.ID, 500, "")
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	if payment.Kind != model.PaymentKindInstallment {
		t.Fatalf("kind must default to installment, got %s", payment.Kind)
	}

	if _, err := uc.RecordPayment(context.Background(), manager, req.ID, 500, "barter"); err == nil {
		t.Fatal("expected validation error for unknown kind")
	}
}

func TestDesignExpireDueQuotes(t *testing.T) {
	uc := newDesignUseCase(newStubDesignRepository(), derivedClock)
	req := seedRequest(t, uc, customer)
	if _, err := uc.AddQuote(context.Background(), designer, req.ID, QuoteInput{Price: model.Price{Amount: 900}, Description: "Short offer", ValidityDays: 5}); err != nil {
		t.Fatalf("quote: %v", err)
	}

	// advance the clock past the validity window
	uc.now = func() time.Time { return derivedClock.AddDate(0, 0, 6) }

	expired, err := uc.ExpireDueQuotes(context.Background(), 10)
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if len(expired) != 1 {
		t.Fatalf("expected one expired quote, got %d", len(expired))
	}
	if expired[0].Status != model.QuoteStatusExpired {
		t.Fatalf("expected expired status, got %s", expired[0].Status)
	}
}
