package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fleetpulse/fleet-api/internal/core/domain"
)

const testSecret = "test-secret"

// ---------------------------------------------------------------------------
// In-memory stub account repository
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	byEmail map[string]*domain.Account
	nextID  int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byEmail: make(map[string]*domain.Account)}
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	if _, ok := r.byEmail[a.Email]; ok {
		return nil, domain.NewConflict("email", "Email already in use")
	}
	r.nextID++
	clone := *a
	clone.ID = fmt.Sprintf("acc_%d", r.nextID)
	r.byEmail[clone.Email] = &clone
	out := clone
	return &out, nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	a, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *a
	return &clone, nil
}

func newAuthService(repo *stubAccountRepo) *AuthService {
	// MinCost keeps the hashing fast in tests.
	return NewAuthService(repo, testSecret, 7*24*time.Hour, 4, discardLogger)
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestAuthService_Register_Success(t *testing.T) {
	svc := newAuthService(newStubAccountRepo())

	account, token, err := svc.Register(context.Background(), "Sam", "Sam@Example.COM", "hunter22")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.ID == "" {
		t.Error("account must have an assigned id")
	}
	if account.Email != "sam@example.com" {
		t.Errorf("email = %q, want lower-cased", account.Email)
	}
	if account.PasswordHash == "hunter22" || account.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
	if token == "" {
		t.Error("register must return a token")
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc := newAuthService(newStubAccountRepo())
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "Sam", "sam@example.com", "hunter22"); err != nil {
		t.Fatal(err)
	}

	// Same email, different case: still a duplicate.
	_, _, err := svc.Register(ctx, "Sam Two", "SAM@example.com", "hunter23")
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) || conflict.Field != "email" {
		t.Errorf("expected email conflict, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestAuthService_Login_Success(t *testing.T) {
	svc := newAuthService(newStubAccountRepo())
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "Sam", "sam@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}

	account, token, err := svc.Login(ctx, "sam@example.com", "hunter22")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.ID != registered.ID {
		t.Errorf("login returned account %q, want %q", account.ID, registered.ID)
	}
	if token == "" {
		t.Fatal("login must return a token")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := newAuthService(newStubAccountRepo())
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "Sam", "sam@example.com", "hunter22"); err != nil {
		t.Fatal(err)
	}

	if _, _, err := svc.Login(ctx, "sam@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := newAuthService(newStubAccountRepo())

	// Unknown email and wrong password are indistinguishable to the caller.
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "hunter22"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Token contents
// ---------------------------------------------------------------------------

func TestAuthService_TokenCarriesIdentityAndExpiry(t *testing.T) {
	svc := newAuthService(newStubAccountRepo())

	account, token, err := svc.Register(context.Background(), "Sam", "sam@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}

	if claims["id"] != account.ID {
		t.Errorf("id claim = %v, want %q", claims["id"], account.ID)
	}
	if claims["email"] != "sam@example.com" {
		t.Errorf("email claim = %v", claims["email"])
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		t.Fatal("exp claim missing")
	}
	ttl := time.Until(time.Unix(int64(exp), 0))
	if ttl < 6*24*time.Hour || ttl > 8*24*time.Hour {
		t.Errorf("token ttl = %v, want about 7 days", ttl)
	}
}
