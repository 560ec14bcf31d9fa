package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/gildedline/atelier/internal/domain/model"
	"github.com/gildedline/atelier/internal/domain/permission"
	"github.com/gildedline/atelier/internal/domain/repository"
	"github.com/gildedline/atelier/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, error)
	Identity(ctx context.Context, userID int64) (model.Identity, error)
}

// DesignFacade encapsulates design request operations exposed via HTTP.
type DesignFacade interface {
	CreateDesign(ctx context.Context, caller model.Identity, in usecase.CreateDesignInput) (*model.DesignRequest, error)
	DesignByID(ctx context.Context, caller model.Identity, id uuid.UUID) (*model.DesignRequest, permission.Set, error)
	ListDesigns(ctx context.Context, caller model.Identity, f repository.ListFilter) ([]model.DesignRequest, int, error)
	UpdateDesign(ctx context.Context, caller model.Identity, id uuid.UUID, patch repository.UpdatePatch) (*model.DesignRequest, error)
	AddQuote(ctx context.Context, caller model.Identity, id uuid.UUID, in usecase.QuoteInput) (*model.Quote, error)
	AcceptQuote(ctx context.Context, caller model.Identity, id uuid.UUID, quoteID string) (*model.Quote, error)
	AddNote(ctx context.Context, caller model.Identity, id uuid.UUID, content string, internal bool) (*model.CommunicationEntry, error)
	RecordPayment(ctx context.Context, caller model.Identity, id uuid.UUID, amount float64, kind model.PaymentKind) (*model.PaymentRecord, error)
}

// AtelierFacade aggregates the full set of operations used across handlers.
type AtelierFacade interface {
	AuthFacade
	DesignFacade
}
