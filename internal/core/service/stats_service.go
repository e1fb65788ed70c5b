package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetpulse/fleet-api/internal/core/domain"
	"github.com/fleetpulse/fleet-api/internal/core/ports"
	"github.com/fleetpulse/fleet-api/internal/core/stats"
)

// StatsService composes the company and driver repositories with the
// time-bucketing engine to answer the aggregate-statistics endpoint. A
// per-owner snapshot cache sits in front of the computation; cache failures
// degrade to a recompute, never to a request failure.
type StatsService struct {
	companies ports.CompanyRepository
	drivers   ports.DriverRepository
	cache     ports.StatsCache
	now       func() time.Time
	logger    zerolog.Logger
}

func NewStatsService(companies ports.CompanyRepository, drivers ports.DriverRepository, cache ports.StatsCache, logger zerolog.Logger) *StatsService {
	return &StatsService{
		companies: companies,
		drivers:   drivers,
		cache:     cache,
		now:       time.Now,
		logger:    logger,
	}
}

// Get returns the owner's statistics snapshot, serving a cached copy when
// one is fresh.
func (s *StatsService) Get(ctx context.Context, ownerID string) (*ports.StatsSnapshot, error) {
	if cached, err := s.cache.Get(ctx, ownerID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", ownerID).Msg("stats cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	snapshot, err := s.compute(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, ownerID, snapshot); err != nil {
		s.logger.Warn().Err(err).Str("user_id", ownerID).Msg("stats cache write failed")
	}
	return snapshot, nil
}

func (s *StatsService) compute(ctx context.Context, ownerID string) (*ports.StatsSnapshot, error) {
	latestCompany, err := s.companies.FindLatest(ctx, ownerID)
	if err != nil && !errors.Is(err, domain.ErrCompanyNotFound) {
		return nil, err
	}

	latestDriver, err := s.drivers.FindLatest(ctx, ownerID)
	if err != nil && !errors.Is(err, domain.ErrDriverNotFound) {
		return nil, err
	}

	totalCompanies, err := s.companies.Count(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	totalDrivers, err := s.drivers.Count(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	companyTimes, err := s.companies.CreatedTimes(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	driverTimes, err := s.drivers.CreatedTimes(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &ports.StatsSnapshot{
		RecentActivity: ports.RecentActivity{
			LatestCompany: latestCompany,
			LatestDriver:  latestDriver,
		},
		TotalCompanies: totalCompanies,
		TotalDrivers:   totalDrivers,
		Companies:      stats.Collect(companyTimes, now),
		Drivers:        stats.Collect(driverTimes, now),
	}, nil
}
