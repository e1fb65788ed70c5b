package ports

import (
	"context"
	"time"

	"github.com/fleetpulse/fleet-api/internal/core/domain"
)

// CompanyInput carries the validated, normalized fields for creating or
// fully replacing a company record.
type CompanyInput struct {
	CompanyName        string
	EstablishedOn      time.Time
	RegistrationNumber string
	Website            string
	Address1           string
	Address2           string
	City               string
	State              string
	ZipCode            string
	PrimaryFirstName   string
	PrimaryLastName    string
	PrimaryEmail       string
	PrimaryMobile      string
}

// ListQuery carries search and pagination parameters for list endpoints.
// An empty Search matches every record of the owner.
type ListQuery struct {
	Search string
	Limit  int
	Offset int
}

// CompanyList is a page of companies plus the unpaginated total over the
// same filter.
type CompanyList struct {
	Data  []*domain.Company
	Total int64
}

// CompanyRepository defines persistence for company records. Every query is
// scoped by owner id; ownership is never checked anywhere else.
type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) (*domain.Company, error)
	FindByID(ctx context.Context, id string) (*domain.Company, error)
	// List returns a page of the owner's companies matching query, newest
	// first, plus the total count over the same filter.
	List(ctx context.Context, ownerID string, query ListQuery) ([]*domain.Company, int64, error)
	Update(ctx context.Context, company *domain.Company) (*domain.Company, error)
	Delete(ctx context.Context, id string) error

	// ExistsRegistrationNumber reports whether the owner already has a
	// company with this registration number, excluding excludeID when
	// non-empty.
	ExistsRegistrationNumber(ctx context.Context, ownerID, registrationNumber, excludeID string) (bool, error)

	FindLatest(ctx context.Context, ownerID string) (*domain.Company, error)
	Count(ctx context.Context, ownerID string) (int64, error)
	CreatedTimes(ctx context.Context, ownerID string) ([]time.Time, error)
}

// CompanyService defines the owner-scoped use cases for companies.
type CompanyService interface {
	Create(ctx context.Context, ownerID string, input CompanyInput) (*domain.Company, error)
	List(ctx context.Context, ownerID string, query ListQuery) (*CompanyList, error)
	Update(ctx context.Context, id, ownerID string, input CompanyInput) (*domain.Company, error)
	// Delete removes the record permanently and returns it.
	Delete(ctx context.Context, id, ownerID string) (*domain.Company, error)
}
