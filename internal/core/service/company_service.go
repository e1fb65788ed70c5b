package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetpulse/fleet-api/internal/core/domain"
	"github.com/fleetpulse/fleet-api/internal/core/ports"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// CompanyService mediates all company reads and writes through the owner-id
// filter and enforces per-owner uniqueness of the registration number.
type CompanyService struct {
	repo   ports.CompanyRepository
	cache  ports.StatsCache
	logger zerolog.Logger
}

func NewCompanyService(repo ports.CompanyRepository, cache ports.StatsCache, logger zerolog.Logger) *CompanyService {
	return &CompanyService{repo: repo, cache: cache, logger: logger}
}

// Create persists a new company for the owner. The duplicate pre-check is
// advisory; the (user_id, registration_number) unique index is the
// authoritative guard against concurrent creates.
func (s *CompanyService) Create(ctx context.Context, ownerID string, input ports.CompanyInput) (*domain.Company, error) {
	taken, err := s.repo.ExistsRegistrationNumber(ctx, ownerID, input.RegistrationNumber, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.NewConflict("registrationNumber", "Registration number already in use")
	}

	now := time.Now().UTC()
	company := companyFromInput(input)
	company.UserID = ownerID
	company.CreatedAt = now
	company.UpdatedAt = now

	created, err := s.repo.Create(ctx, company)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", ownerID).Msg("failed to create company")
		return nil, err
	}

	s.invalidateStats(ctx, ownerID)
	s.logger.Info().Str("company_id", created.ID).Str("user_id", ownerID).Msg("company created")
	return created, nil
}

// List returns the owner's companies matching the query, newest first, plus
// the unpaginated total.
func (s *CompanyService) List(ctx context.Context, ownerID string, query ports.ListQuery) (*ports.CompanyList, error) {
	query = normalizeQuery(query)

	data, total, err := s.repo.List(ctx, ownerID, query)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = []*domain.Company{}
	}
	return &ports.CompanyList{Data: data, Total: total}, nil
}

// Update replaces all mutable fields. A missing record and a record owned by
// someone else are indistinguishable: both return ErrCompanyNotFound.
func (s *CompanyService) Update(ctx context.Context, id, ownerID string, input ports.CompanyInput) (*domain.Company, error) {
	existing, err := s.ownedCompany(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.ExistsRegistrationNumber(ctx, ownerID, input.RegistrationNumber, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.NewConflict("registrationNumber", "Registration number already in use")
	}

	company := companyFromInput(input)
	company.ID = existing.ID
	company.UserID = existing.UserID
	company.CreatedAt = existing.CreatedAt
	company.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, company)
	if err != nil {
		s.logger.Error().Err(err).Str("company_id", id).Msg("failed to update company")
		return nil, err
	}

	s.invalidateStats(ctx, ownerID)
	return updated, nil
}

// Delete removes the company permanently and returns the deleted record.
// Same not-found policy as Update.
func (s *CompanyService) Delete(ctx context.Context, id, ownerID string) (*domain.Company, error) {
	existing, err := s.ownedCompany(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("company_id", id).Msg("failed to delete company")
		return nil, err
	}

	s.invalidateStats(ctx, ownerID)
	s.logger.Info().Str("company_id", id).Str("user_id", ownerID).Msg("company deleted")
	return existing, nil
}

// ownedCompany fetches the record and collapses "does not exist" and "owned
// by another account" into the same error, so existence never leaks across
// owners.
func (s *CompanyService) ownedCompany(ctx context.Context, id, ownerID string) (*domain.Company, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != ownerID {
		return nil, domain.ErrCompanyNotFound
	}
	return existing, nil
}

func (s *CompanyService) invalidateStats(ctx context.Context, ownerID string) {
	if err := s.cache.Invalidate(ctx, ownerID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", ownerID).Msg("stats cache invalidation failed")
	}
}

func companyFromInput(input ports.CompanyInput) *domain.Company {
	return &domain.Company{
		CompanyName:        input.CompanyName,
		EstablishedOn:      input.EstablishedOn,
		RegistrationNumber: input.RegistrationNumber,
		Website:            input.Website,
		Address1:           input.Address1,
		Address2:           input.Address2,
		City:               input.City,
		State:              input.State,
		ZipCode:            input.ZipCode,
		PrimaryFirstName:   input.PrimaryFirstName,
		PrimaryLastName:    input.PrimaryLastName,
		PrimaryEmail:       input.PrimaryEmail,
		PrimaryMobile:      input.PrimaryMobile,
	}
}

func normalizeQuery(query ports.ListQuery) ports.ListQuery {
	if query.Limit <= 0 {
		query.Limit = defaultListLimit
	}
	if query.Limit > maxListLimit {
		query.Limit = maxListLimit
	}
	if query.Offset < 0 {
		query.Offset = 0
	}
	return query
}
