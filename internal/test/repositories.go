package test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/gildedline/atelier/internal/domain/errors"
	"github.com/gildedline/atelier/internal/domain/model"
	"github.com/gildedline/atelier/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash string, role model.Role) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Login: login, PasswordHash: passwordHash, Role: role, CreatedAt: time.Now()}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// DesignRepositoryStub provides controllable behaviour for lifecycle tests.
// Unset functions fall back to a tiny in-memory map keyed by request ID.
type DesignRepositoryStub struct {
	mu       sync.Mutex
	Requests map[uuid.UUID]*model.DesignRequest

	CreateFn        func(context.Context, *model.DesignRequest) (*model.DesignRequest, error)
	GetFn           func(context.Context, uuid.UUID) (*model.DesignRequest, error)
	ListFn          func(context.Context, repository.ListFilter) ([]model.DesignRequest, int, error)
	UpdateFn        func(context.Context, uuid.UUID, repository.UpdatePatch, int64) (*model.DesignRequest, error)
	AddQuoteFn      func(context.Context, uuid.UUID, model.Quote) (*model.Quote, error)
	AcceptQuoteFn   func(context.Context, uuid.UUID, uuid.UUID, int64) (*model.Quote, error)
	AppendEntryFn   func(context.Context, uuid.UUID, model.CommunicationEntry) (*model.CommunicationEntry, error)
	RecordPaymentFn func(context.Context, uuid.UUID, model.PaymentRecord) (*model.PaymentRecord, error)
	ExpireFn        func(context.Context, time.Time, int) ([]model.Quote, error)
}

func (s *DesignRepositoryStub) store() map[uuid.UUID]*model.DesignRequest {
	if s.Requests == nil {
		s.Requests = make(map[uuid.UUID]*model.DesignRequest)
	}
	return s.Requests
}

func (s *DesignRepositoryStub) Create(ctx context.Context, req *model.DesignRequest) (*model.DesignRequest, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, req)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now
	s.store()[req.ID] = req
	return req, nil
}

func (s *DesignRepositoryStub) GetByID(ctx context.Context, id uuid.UUID) (*model.DesignRequest, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if req, ok := s.store()[id]; ok {
		return req, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *DesignRepositoryStub) List(ctx context.Context, f repository.ListFilter) ([]model.DesignRequest, int, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, f)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.DesignRequest
	for _, req := range s.store() {
		if f.OwnerID != nil && req.OwnerID != *f.OwnerID {
			continue
		}
		out = append(out, *req)
	}
	return out, len(out), nil
}

func (s *DesignRepositoryStub) Update(ctx context.Context, id uuid.UUID, patch repository.UpdatePatch, actor int64) (*model.DesignRequest, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, patch, actor)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.store()[id]
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

func (s *DesignRepositoryStub) AddQuote(ctx context.Context, requestID uuid.UUID, quote model.Quote) (*model.Quote, error) {
	if s.AddQuoteFn != nil {
		return s.AddQuoteFn(ctx, requestID, quote)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.store()[requestID]
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

func (s *DesignRepositoryStub) AcceptQuote(ctx context.Context, requestID, quoteID uuid.UUID, actor int64) (*model.Quote, error) {
	if s.AcceptQuoteFn != nil {
		return s.AcceptQuoteFn(ctx, requestID, quoteID, actor)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.store()[requestID]
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

func (s *DesignRepositoryStub) AppendEntry(ctx context.Context, requestID uuid.UUID, entry model.CommunicationEntry) (*model.CommunicationEntry, error) {
	if s.AppendEntryFn != nil {
		return s.AppendEntryFn(ctx, requestID, entry)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.store()[requestID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	entry.CreatedAt = time.Now()
	req.Log.Append(entry)
	entries := req.Log.Entries()
	return &entries[len(entries)-1], nil
}

func (s *DesignRepositoryStub) RecordPayment(ctx context.Context, requestID uuid.UUID, payment model.PaymentRecord) (*model.PaymentRecord, error) {
	if s.RecordPaymentFn != nil {
		return s.RecordPaymentFn(ctx, requestID, payment)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.store()[requestID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	payment.RecordedAt = time.Now()
	req.Payment.TotalPaid += payment.Amount
	switch payment.Kind {
	case model.PaymentKindDeposit:
		req.Payment.DepositPaid = true
	case model.PaymentKindFinal:
		req.Payment.FinalPaymentPaid = true
	}
	req.Log.Append(model.NewPaymentEntry(payment.RecordedBy, payment.Amount, payment.Kind))
	return &payment, nil
}

func (s *DesignRepositoryStub) ExpireDueQuotes(ctx context.Context, now time.Time, limit int) ([]model.Quote, error) {
	if s.ExpireFn != nil {
		return s.ExpireFn(ctx, now, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var expired []model.Quote
	for _, req := range s.store() {
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

var _ repository.UserRepository = (*UserRepositoryStub)(nil)
var _ repository.DesignRequestRepository = (*DesignRepositoryStub)(nil)
