package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetpulse/fleet-api/internal/core/domain"
	"github.com/fleetpulse/fleet-api/internal/core/ports"
)

// DriverService mediates all driver reads and writes through the owner-id
// filter. Email and license number are each unique per owner and checked
// independently, so either can fail first.
type DriverService struct {
	repo   ports.DriverRepository
	cache  ports.StatsCache
	logger zerolog.Logger
}

func NewDriverService(repo ports.DriverRepository, cache ports.StatsCache, logger zerolog.Logger) *DriverService {
	return &DriverService{repo: repo, cache: cache, logger: logger}
}

// Create persists a new driver for the owner. Pre-checks are advisory; the
// (user_id, email) and (user_id, license_number) unique indexes are the
// authoritative guards.
func (s *DriverService) Create(ctx context.Context, ownerID string, input ports.DriverInput) (*domain.Driver, error) {
	input.Email = strings.ToLower(input.Email)

	if err := s.checkUnique(ctx, ownerID, input, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	driver := driverFromInput(input)
	driver.UserID = ownerID
	driver.CreatedAt = now
	driver.UpdatedAt = now

	created, err := s.repo.Create(ctx, driver)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", ownerID).Msg("failed to create driver")
		return nil, err
	}

	s.invalidateStats(ctx, ownerID)
	s.logger.Info().Str("driver_id", created.ID).Str("user_id", ownerID).Msg("driver created")
	return created, nil
}

// List returns the owner's drivers matching the query, newest first, plus
// the unpaginated total.
func (s *DriverService) List(ctx context.Context, ownerID string, query ports.ListQuery) (*ports.DriverList, error) {
	query = normalizeQuery(query)

	data, total, err := s.repo.List(ctx, ownerID, query)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = []*domain.Driver{}
	}
	return &ports.DriverList{Data: data, Total: total}, nil
}

// Update replaces all mutable fields, re-checking uniqueness with the record
// itself excluded. Missing and foreign-owned records both return
// ErrDriverNotFound.
func (s *DriverService) Update(ctx context.Context, id, ownerID string, input ports.DriverInput) (*domain.Driver, error) {
	existing, err := s.ownedDriver(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	input.Email = strings.ToLower(input.Email)
	if err := s.checkUnique(ctx, ownerID, input, id); err != nil {
		return nil, err
	}

	driver := driverFromInput(input)
	driver.ID = existing.ID
	driver.UserID = existing.UserID
	driver.CreatedAt = existing.CreatedAt
	driver.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, driver)
	if err != nil {
		s.logger.Error().Err(err).Str("driver_id", id).Msg("failed to update driver")
		return nil, err
	}

	s.invalidateStats(ctx, ownerID)
	return updated, nil
}

// Delete removes the driver permanently. Same not-found policy as Update.
func (s *DriverService) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := s.ownedDriver(ctx, id, ownerID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("driver_id", id).Msg("failed to delete driver")
		return err
	}

	s.invalidateStats(ctx, ownerID)
	s.logger.Info().Str("driver_id", id).Str("user_id", ownerID).Msg("driver deleted")
	return nil
}

// checkUnique probes the two per-owner unique fields one at a time, so the
// first duplicate found names the conflicting field.
func (s *DriverService) checkUnique(ctx context.Context, ownerID string, input ports.DriverInput, excludeID string) error {
	taken, err := s.repo.ExistsEmail(ctx, ownerID, input.Email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return domain.NewConflict("email", "Email already in use")
	}

	taken, err = s.repo.ExistsLicenseNumber(ctx, ownerID, input.LicenseNumber, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return domain.NewConflict("licenseNumber", "License number already in use")
	}
	return nil
}

func (s *DriverService) ownedDriver(ctx context.Context, id, ownerID string) (*domain.Driver, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != ownerID {
		return nil, domain.ErrDriverNotFound
	}
	return existing, nil
}

func (s *DriverService) invalidateStats(ctx context.Context, ownerID string) {
	if err := s.cache.Invalidate(ctx, ownerID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", ownerID).Msg("stats cache invalidation failed")
	}
}

func driverFromInput(input ports.DriverInput) *domain.Driver {
	return &domain.Driver{
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		Email:            input.Email,
		Mobile:           input.Mobile,
		DateOfBirth:      input.DateOfBirth,
		LicenseNumber:    input.LicenseNumber,
		LicenseStartDate: input.LicenseStartDate,
		Experience:       input.Experience,
		Address1:         input.Address1,
		Address2:         input.Address2,
		Country:          input.Country,
		City:             input.City,
		State:            input.State,
		ZipCode:          input.ZipCode,
	}
}
