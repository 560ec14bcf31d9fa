package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/gildedline/atelier/internal/adapter/notifier"
	"github.com/gildedline/atelier/internal/domain/model"
	"github.com/gildedline/atelier/internal/domain/permission"
	"github.com/gildedline/atelier/internal/domain/repository"
	"github.com/gildedline/atelier/internal/usecase"
)

// AtelierFacade is the single application entry point shared by the
// HTTP layer and the background worker.
type AtelierFacade struct {
	auth     *usecase.AuthUseCase
	designs  *usecase.DesignUseCase
	notifier notifier.Client
}

// NewAtelierFacade constructs the facade over the use case layer.
func NewAtelierFacade(auth *usecase.AuthUseCase, designs *usecase.DesignUseCase, notify notifier.Client) *AtelierFacade {
	return &AtelierFacade{auth: auth, designs: designs, notifier: notify}
}

func (f *AtelierFacade) Register(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password)
	return token, err
}

func (f *AtelierFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *AtelierFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *AtelierFacade) Identity(ctx context.Context, userID int64) (model.Identity, error) {
	return f.auth.Identity(ctx, userID)
}

func (f *AtelierFacade) CreateDesign(ctx context.Context, caller model.Identity, in usecase.CreateDesignInput) (*model.DesignRequest, error) {
	return f.designs.Create(ctx, caller, in)
}

func (f *AtelierFacade) DesignByID(ctx context.Context, caller model.Identity, id uuid.UUID) (*model.DesignRequest, permission.Set, error) {
	return f.designs.Get(ctx, caller, id)
}

func (f *AtelierFacade) ListDesigns(ctx context.Context, caller model.Identity, filter repository.ListFilter) ([]model.DesignRequest, int, error) {
	return f.designs.List(ctx, caller, filter)
}

func (f *AtelierFacade) UpdateDesign(ctx context.Context, caller model.Identity, id uuid.UUID, patch repository.UpdatePatch) (*model.DesignRequest, error) {
	return f.designs.Update(ctx, caller, id, patch)
}

func (f *AtelierFacade) AddQuote(ctx context.Context, caller model.Identity, id uuid.UUID, in usecase.QuoteInput) (*model.Quote, error) {
	return f.designs.AddQuote(ctx, caller, id, in)
}

func (f *AtelierFacade) AcceptQuote(ctx context.Context, caller model.Identity, id uuid.UUID, quoteID string) (*model.Quote, error) {
	return f.designs.AcceptQuote(ctx, caller, id, quoteID)
}

func (f *AtelierFacade) AddNote(ctx context.Context, caller model.Identity, id uuid.UUID, content string, internal bool) (*model.CommunicationEntry, error) {
	return f.designs.AddNote(ctx, caller, id, content, internal)
}

func (f *AtelierFacade) RecordPayment(ctx context.Context, caller model.Identity, id uuid.UUID, amount float64, kind model.PaymentKind) (*model.PaymentRecord, error) {
	return f.designs.RecordPayment(ctx, caller, id, amount, kind)
}

// ExpireDueQuotes sweeps pending quotes past their validity window.
func (f *AtelierFacade) ExpireDueQuotes(ctx context.Context, limit int) ([]model.Quote, error) {
	return f.designs.ExpireDueQuotes(ctx, limit)
}

// NotifyQuoteExpired pushes an expiry event to the notification gateway.
func (f *AtelierFacade) NotifyQuoteExpired(ctx context.Context, quote model.Quote) error {
	projectNumber := (&model.DesignRequest{ID: quote.RequestID}).ProjectNumber()
	return f.notifier.QuoteExpired(ctx, notifier.QuoteExpiredEvent{
		RequestID:     quote.RequestID.String(),
		ProjectNumber: projectNumber,
		QuoteID:       quote.ID.String(),
		Amount:        quote.Price.Amount,
		Currency:      quote.Price.Currency,
		ExpiredAt:     quote.ValidUntil,
	})
}
