package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/gildedline/atelier/internal/domain/errors"
	"github.com/gildedline/atelier/internal/domain/model"
)

type stubUserRepository struct {
	byLogin map[string]*model.User
	byID    map[int64]*model.User
	next    int64
}

func newStubUserRepository() *stubUserRepository {
	return &stubUserRepository{
		byLogin: make(map[string]*model.User),
		byID:    make(map[int64]*model.User),
		next:    1,
	}
}

func (s *stubUserRepository) Create(ctx context.Context, login, passwordHash string, role model.Role) (*model.User, error) {
	if _, exists := s.byLogin[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	usr := &model.User{ID: s.next, Login: login, PasswordHash: passwordHash, Role: role, CreatedAt: time.Now()}
	s.next++
	s.byLogin[login] = usr
	s.byID[usr.ID] = usr
	return usr, nil
}

func (s *stubUserRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if usr, ok := s.byLogin[login]; ok {
		return usr, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *stubUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if usr, ok := s.byID[id]; ok {
		return usr, nil
	}
	return nil, domainErrors.ErrNotFound
}

type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (stubHasher) Compare(hash, password string) error {
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type stubStrategy struct{}

func (stubStrategy) IssueToken(userID int64) (string, error) { return "token", nil }
func (stubStrategy) ParseToken(token string) (int64, error)  { return 1, nil }
func (stubStrategy) Name() string                            { return "stub" }

func TestAuthRegisterSuccess(t *testing.T) {
	uc := NewAuthUseCase(newStubUserRepository(), stubHasher{}, stubStrategy{})

	usr, token, err := uc.Register(context.Background(), "ana", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected token")
	}
	if usr.Role != model.RoleCustomer {
		t.Fatalf("expected customer role for self-registration, got %s", usr.Role)
	}
}

func TestAuthRegisterEmptyCredentials(t *testing.T) {
	uc := NewAuthUseCase(newStubUserRepository(), stubHasher{}, stubStrategy{})
	if _, _, err := uc.Register(context.Background(), "  ", "pass"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := uc.Register(context.Background(), "ana", ""); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthRegisterDuplicate(t *testing.T) {
	uc := NewAuthUseCase(newStubUserRepository(), stubHasher{}, stubStrategy{})
	if _, _, err := uc.Register(context.Background(), "ana", "secret"); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if _, _, err := uc.Register(context.Background(), "ana", "secret"); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthAuthenticate(t *testing.T) {
	uc := NewAuthUseCase(newStubUserRepository(), stubHasher{}, stubStrategy{})
	if _, _, err := uc.Register(context.Background(), "ana", "secret"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, token, err := uc.Authenticate(context.Background(), "ana", "secret"); err != nil || token == "" {
		t.Fatalf("expected successful authentication, got token=%q err=%v", token, err)
	}
	if _, _, err := uc.Authenticate(context.Background(), "ana", "wrong"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := uc.Authenticate(context.Background(), "ghost", "secret"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown login, got %v", err)
	}
}

func TestAuthIdentityCarriesRole(t *testing.T) {
	repo := newStubUserRepository()
	uc := NewAuthUseCase(repo, stubHasher{}, stubStrategy{})
	usr, _, err := uc.Register(context.Background(), "ana", "secret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	// staff promotion happens out of band
	repo.byID[usr.ID].Role = model.RoleManager

	identity, err := uc.Identity(context.Background(), usr.ID)
	if err != nil {
		t.Fatalf("identity: %v", err)
	}
	if identity.Role != model.RoleManager {
		t.Fatalf("expected fresh role to be resolved, got %s", identity.Role)
	}
}

func TestAuthParseTokenEmpty(t *testing.T) {
	uc := NewAuthUseCase(newStubUserRepository(), stubHasher{}, stubStrategy{})
	if _, err := uc.ParseToken(""); err == nil {
		t.Fatal("expected error for empty token")
	}
}
