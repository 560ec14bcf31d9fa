package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gildedline/atelier/internal/domain/model"
	"github.com/gildedline/atelier/internal/domain/permission"
	"github.com/gildedline/atelier/internal/domain/repository"
	"github.com/gildedline/atelier/internal/usecase"
)

// DesignFacadeStub provides controllable behaviour for design endpoints.
type DesignFacadeStub struct {
	CreateFn  func(context.Context, model.Identity, usecase.CreateDesignInput) (*model.DesignRequest, error)
	ByIDFn    func(context.Context, model.Identity, uuid.UUID) (*model.DesignRequest, permission.Set, error)
	ListFn    func(context.Context, model.Identity, repository.ListFilter) ([]model.DesignRequest, int, error)
	UpdateFn  func(context.Context, model.Identity, uuid.UUID, repository.UpdatePatch) (*model.DesignRequest, error)
	QuoteFn   func(context.Context, model.Identity, uuid.UUID, usecase.QuoteInput) (*model.Quote, error)
	AcceptFn  func(context.Context, model.Identity, uuid.UUID, string) (*model.Quote, error)
	NoteFn    func(context.Context, model.Identity, uuid.UUID, string, bool) (*model.CommunicationEntry, error)
	PaymentFn func(context.Context, model.Identity, uuid.UUID, float64, model.PaymentKind) (*model.PaymentRecord, error)
}

func defaultRequest(id uuid.UUID, owner int64) *model.DesignRequest {
	return &model.DesignRequest{
		ID:           id,
		OwnerID:      owner,
		ProjectTitle: "Custom Ring",
		ProjectType:  model.ProjectTypeRing,
		Priority:     model.PriorityMedium,
		Status:       model.StatusPending,
		Customer:     model.CustomerInfo{FirstName: "Ana", LastName: "Lee", Email: "ana@example.com"},
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// CreateDesign delegates to override or returns a fresh pending request.
func (s DesignFacadeStub) CreateDesign(ctx context.Context, caller model.Identity, in usecase.CreateDesignInput) (*model.DesignRequest, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, caller, in)
	}
	return defaultRequest(uuid.New(), caller.UserID), nil
}

// DesignByID delegates to override or returns a request owned by the caller.
func (s DesignFacadeStub) DesignByID(ctx context.Context, caller model.Identity, id uuid.UUID) (*model.DesignRequest, permission.Set, error) {
	if s.ByIDFn != nil {
		return s.ByIDFn(ctx, caller, id)
	}
	return defaultRequest(id, caller.UserID), permission.ForRole(caller.Role), nil
}

// ListDesigns delegates to override or returns one request.
func (s DesignFacadeStub) ListDesigns(ctx context.Context, caller model.Identity, f repository.ListFilter) ([]model.DesignRequest, int, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, caller, f)
	}
	return []model.DesignRequest{*defaultRequest(uuid.New(), caller.UserID)}, 1, nil
}

// UpdateDesign delegates to override or echoes an updated request.
func (s DesignFacadeStub) UpdateDesign(ctx context.Context, caller model.Identity, id uuid.UUID, patch repository.UpdatePatch) (*model.DesignRequest, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, caller, id, patch)
	}
	return defaultRequest(id, caller.UserID), nil
}

// AddQuote delegates to override or returns a pending quote.
func (s DesignFacadeStub) AddQuote(ctx context.Context, caller model.Identity, id uuid.UUID, in usecase.QuoteInput) (*model.Quote, error) {
	if s.QuoteFn != nil {
		return s.QuoteFn(ctx, caller, id, in)
	}
	return &model.Quote{ID: uuid.New(), RequestID: id, Price: in.Price, Description: in.Description, Status: model.QuoteStatusPending}, nil
}

// AcceptQuote delegates to override or returns an accepted quote.
func (s DesignFacadeStub) AcceptQuote(ctx context.Context, caller model.Identity, id uuid.UUID, quoteID string) (*model.Quote, error) {
	if s.AcceptFn != nil {
		return s.AcceptFn(ctx, caller, id, quoteID)
	}
	return &model.Quote{ID: uuid.MustParse(quoteID), RequestID: id, Status: model.QuoteStatusAccepted}, nil
}

// AddNote delegates to override or echoes the appended entry.
func (s DesignFacadeStub) AddNote(ctx context.Context, caller model.Identity, id uuid.UUID, content string, internal bool) (*model.CommunicationEntry, error) {
	if s.NoteFn != nil {
		return s.NoteFn(ctx, caller, id, content, internal)
	}
	return &model.CommunicationEntry{ID: 1, Type: model.EntryTypeNote, Participant: caller.UserID, Content: content, IsInternal: internal, CreatedAt: time.Now()}, nil
}

// RecordPayment delegates to override or returns the recorded payment.
func (s DesignFacadeStub) RecordPayment(ctx context.Context, caller model.Identity, id uuid.UUID, amount float64, kind model.PaymentKind) (*model.PaymentRecord, error) {
	if s.PaymentFn != nil {
		return s.PaymentFn(ctx, caller, id, amount, kind)
	}
	return &model.PaymentRecord{RequestID: id, Amount: amount, Kind: kind, RecordedBy: caller.UserID, RecordedAt: time.Now()}, nil
}

// AtelierFacadeStub aggregates facade dependencies for HTTP layer tests.
type AtelierFacadeStub struct {
	AuthFacadeStub
	DesignFacadeStub
}

// WorkerFacadeStub mimics worker interactions with the application facade.
type WorkerFacadeStub struct {
	Batches  [][]model.Quote
	ExpireFn func(context.Context, int) ([]model.Quote, error)
	NotifyFn func(context.Context, model.Quote) error
	Notified []model.Quote
	mu       sync.Mutex
	calls    int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// ExpireDueQuotes returns batches from the configured queue.
func (s *WorkerFacadeStub) ExpireDueQuotes(ctx context.Context, limit int) ([]model.Quote, error) {
	if s.ExpireFn != nil {
		return s.ExpireFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.calls, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// NotifyQuoteExpired records notification requests.
func (s *WorkerFacadeStub) NotifyQuoteExpired(ctx context.Context, quote model.Quote) error {
	if s.NotifyFn != nil {
		return s.NotifyFn(ctx, quote)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Notified = append(s.Notified, quote)
	return nil
}
