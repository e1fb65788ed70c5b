package ports

import (
	"context"
	"time"

	"github.com/fleetpulse/fleet-api/internal/core/domain"
)

// DriverInput carries the validated, normalized fields for creating or fully
// replacing a driver record.
type DriverInput struct {
	FirstName        string
	LastName         string
	Email            string
	Mobile           string
	DateOfBirth      time.Time
	LicenseNumber    string
	LicenseStartDate time.Time
	Experience       string
	Address1         string
	Address2         string
	Country          string
	City             string
	State            string
	ZipCode          string
}

// DriverList is a page of drivers plus the unpaginated total over the same
// filter.
type DriverList struct {
	Data  []*domain.Driver
	Total int64
}

// DriverRepository defines persistence for driver records, always scoped by
// owner id.
type DriverRepository interface {
	Create(ctx context.Context, driver *domain.Driver) (*domain.Driver, error)
	FindByID(ctx context.Context, id string) (*domain.Driver, error)
	List(ctx context.Context, ownerID string, query ListQuery) ([]*domain.Driver, int64, error)
	Update(ctx context.Context, driver *domain.Driver) (*domain.Driver, error)
	Delete(ctx context.Context, id string) error

	// Uniqueness probes for the two per-owner unique fields. excludeID,
	// when non-empty, leaves the record being updated out of the check.
	ExistsEmail(ctx context.Context, ownerID, email, excludeID string) (bool, error)
	ExistsLicenseNumber(ctx context.Context, ownerID, licenseNumber, excludeID string) (bool, error)

	FindLatest(ctx context.Context, ownerID string) (*domain.Driver, error)
	Count(ctx context.Context, ownerID string) (int64, error)
	CreatedTimes(ctx context.Context, ownerID string) ([]time.Time, error)
}

// DriverService defines the owner-scoped use cases for drivers.
type DriverService interface {
	Create(ctx context.Context, ownerID string, input DriverInput) (*domain.Driver, error)
	List(ctx context.Context, ownerID string, query ListQuery) (*DriverList, error)
	Update(ctx context.Context, id, ownerID string, input DriverInput) (*domain.Driver, error)
	Delete(ctx context.Context, id, ownerID string) error
}
