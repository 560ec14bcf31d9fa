package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gildedline/atelier/internal/adapter/notifier"
	domainErrors "github.com/gildedline/atelier/internal/domain/errors"
	"github.com/gildedline/atelier/internal/domain/model"
	"github.com/gildedline/atelier/internal/domain/permission"
	"github.com/gildedline/atelier/internal/domain/repository"
	testhelpers "github.com/gildedline/atelier/internal/test"
	"github.com/gildedline/atelier/internal/usecase"
)

type recordingNotifier struct {
	events []notifier.QuoteExpiredEvent
	err    error
}

func (r *recordingNotifier) QuoteExpired(_ context.Context, event notifier.QuoteExpiredEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

func newFacade() (*AtelierFacade, *testhelpers.UserRepositoryStub, *testhelpers.DesignRepositoryStub, *recordingNotifier) {
	userRepo := testhelpers.NewUserRepositoryStub()
	strategy := testhelpers.StrategyStub{ParseFn: func(string) (int64, error) { return 99, nil }}
	authUC := usecase.NewAuthUseCase(userRepo, testhelpers.HasherStub{}, strategy)

	designRepo := &testhelpers.DesignRepositoryStub{}
	designUC := usecase.NewDesignUseCase(designRepo)

	notify := &recordingNotifier{}
	facade := NewAtelierFacade(authUC, designUC, notify)
	return facade, userRepo, designRepo, notify
}

func TestAtelierFacadeAuth(t *testing.T) {
	facade, users, _, _ := newFacade()
	token, err := facade.Register(context.Background(), "user", "pass")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if token != "token" {
		t.Fatalf("unexpected token %q", token)
	}

	stored, err := users.GetByLogin(context.Background(), "user")
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if stored.Role != model.RoleCustomer {
		t.Fatalf("expected customer role, got %q", stored.Role)
	}

	token, err = facade.Authenticate(context.Background(), "user", "pass")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if token != "token" {
		t.Fatalf("unexpected token %q", token)
	}

	id, err := facade.ParseToken("anything")
	if err != nil {
		t.Fatalf("parse token returned error: %v", err)
	}
	if id != 99 {
		t.Fatalf("expected id 99, got %d", id)
	}

	identity, err := facade.Identity(context.Background(), stored.ID)
	if err != nil {
		t.Fatalf("identity returned error: %v", err)
	}
	if identity.UserID != stored.ID || identity.Role != model.RoleCustomer {
		t.Fatalf("unexpected identity %+v", identity)
	}
}

func TestAtelierFacadeDesignLifecycle(t *testing.T) {
	facade, _, _, _ := newFacade()
	customer := model.Identity{UserID: 7, Role: model.RoleCustomer}
	designer := model.Identity{UserID: 10, Role: model.RoleDesigner}

	created, err := facade.CreateDesign(context.Background(), customer, usecase.CreateDesignInput{
		ProjectTitle:       "Engagement Ring",
		ProjectDescription: "Platinum solitaire with a family stone",
		ProjectType:        model.ProjectTypeRing,
		Customer:           model.CustomerInfo{FirstName: "Ana", LastName: "Lee", Email: "ana@example.com"},
	})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if created.Status != model.StatusPending {
		t.Fatalf("expected pending request, got %q", created.Status)
	}

	fetched, perms, err := facade.DesignByID(context.Background(), customer, created.ID)
	if err != nil {
		t.Fatalf("get returned error: %v", err)
	}
	if fetched.ID != created.ID {
		t.Fatalf("unexpected request %+v", fetched)
	}
	if perms.Has(permission.ManageCustomDesigns) {
		t.Fatal("customer should not manage designs")
	}

	listed, total, err := facade.ListDesigns(context.Background(), customer, repository.ListFilter{})
	if err != nil || total != 1 || len(listed) != 1 {
		t.Fatalf("unexpected listing: %v total=%d err=%v", listed, total, err)
	}

	quote, err := facade.AddQuote(context.Background(), designer, created.ID, usecase.QuoteInput{
		Price:       model.Price{Amount: 2500},
		Description: "Platinum band with pave setting",
	})
	if err != nil {
		t.Fatalf("add quote returned error: %v", err)
	}

	accepted, err := facade.AcceptQuote(context.Background(), customer, created.ID, quote.ID.String())
	if err != nil {
		t.Fatalf("accept quote returned error: %v", err)
	}
	if accepted.Status != model.QuoteStatusAccepted {
		t.Fatalf("expected accepted quote, got %q", accepted.Status)
	}

	entry, err := facade.AddNote(context.Background(), customer, created.ID, "Please use the family stone", false)
	if err != nil {
		t.Fatalf("add note returned error: %v", err)
	}
	if entry.Content != "Please use the family stone" {
		t.Fatalf("unexpected entry %+v", entry)
	}

	status := model.StatusInProgress
	updated, err := facade.UpdateDesign(context.Background(), designer, created.ID, repository.UpdatePatch{Status: &status})
	if err != nil {
		t.Fatalf("update returned error: %v", err)
	}
	if updated.Status != model.StatusInProgress {
		t.Fatalf("expected in_progress, got %q", updated.Status)
	}

	manager := model.Identity{UserID: 11, Role: model.RoleManager}
	payment, err := facade.RecordPayment(context.Background(), manager, created.ID, 500, model.PaymentKindDeposit)
	if err != nil {
		t.Fatalf("record payment returned error: %v", err)
	}
	if payment.Amount != 500 {
		t.Fatalf("unexpected payment %+v", payment)
	}
}

func TestAtelierFacadeNotifyQuoteExpired(t *testing.T) {
	facade, _, _, notify := newFacade()
	requestID := uuid.MustParse("5f3e9a1c-7b2d-4e8f-9c0a-1a2b3c4d5e6f")
	quote := model.Quote{
		ID:         uuid.New(),
		RequestID:  requestID,
		Price:      model.Price{Amount: 2500, Currency: "USD"},
		ValidUntil: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		Status:     model.QuoteStatusExpired,
	}

	if err := facade.NotifyQuoteExpired(context.Background(), quote); err != nil {
		t.Fatalf("notify returned error: %v", err)
	}
	if len(notify.events) != 1 {
		t.Fatalf("expected one event, got %d", len(notify.events))
	}
	event := notify.events[0]
	if event.ProjectNumber != "CD-3C4D5E6F" {
		t.Fatalf("unexpected project number %q", event.ProjectNumber)
	}
	if event.QuoteID != quote.ID.String() || event.Amount != 2500 {
		t.Fatalf("unexpected event %+v", event)
	}

	notify.err = errors.New("gateway down")
	if err := facade.NotifyQuoteExpired(context.Background(), quote); err == nil {
		t.Fatal("expected error from gateway")
	}
}

func TestAtelierFacadeExpireDueQuotes(t *testing.T) {
	facade, _, designs, _ := newFacade()
	requestID := uuid.New()
	designs.Requests = map[uuid.UUID]*model.DesignRequest{
		requestID: {
			ID:      requestID,
			OwnerID: 7,
			Status:  model.StatusQuoted,
			Quotes: []model.Quote{{
				ID:         uuid.New(),
				RequestID:  requestID,
				Status:     model.QuoteStatusPending,
				ValidUntil: time.Now().Add(-time.Hour),
			}},
		},
	}

	expired, err := facade.ExpireDueQuotes(context.Background(), 10)
	if err != nil {
		t.Fatalf("expire returned error: %v", err)
	}
	if len(expired) != 1 || expired[0].Status != model.QuoteStatusExpired {
		t.Fatalf("unexpected expiry result %+v", expired)
	}
}

func TestAtelierFacadeAccessControl(t *testing.T) {
	facade, _, _, _ := newFacade()
	customer := model.Identity{UserID: 7, Role: model.RoleCustomer}
	stranger := model.Identity{UserID: 8, Role: model.RoleCustomer}

	created, err := facade.CreateDesign(context.Background(), customer, usecase.CreateDesignInput{
		ProjectTitle:       "Engagement Ring",
		ProjectDescription: "Platinum solitaire with a family stone",
		ProjectType:        model.ProjectTypeRing,
		Customer:           model.CustomerInfo{FirstName: "Ana", LastName: "Lee", Email: "ana@example.com"},
	})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	if _, _, err := facade.DesignByID(context.Background(), stranger, created.ID); !errors.Is(err, domainErrors.ErrAccessDenied) {
		t.Fatalf("expected access denied, got %v", err)
	}

	if _, err := facade.AddQuote(context.Background(), customer, created.ID, usecase.QuoteInput{Price: model.Price{Amount: 100}, Description: "x"}); !errors.Is(err, domainErrors.ErrInsufficientPermissions) {
		t.Fatalf("expected insufficient permissions, got %v", err)
	}
}
