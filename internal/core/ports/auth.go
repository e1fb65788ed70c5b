package ports

import (
	"context"

	"github.com/fleetpulse/fleet-api/internal/core/domain"
)

// AccountRepository defines persistence for registered accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	// FindByEmail looks up an account by its lower-cased email.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
}

// AuthService implements registration and login. Both return the account and
// a signed bearer token carrying the account id and email.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.Account, string, error)
	Login(ctx context.Context, email, password string) (*domain.Account, string, error)
}
