package ports

import (
	"context"

	"github.com/fleetpulse/fleet-api/internal/core/domain"
	"github.com/fleetpulse/fleet-api/internal/core/stats"
)

// RecentActivity holds the newest record of each kind, nil when the owner
// has none.
type RecentActivity struct {
	LatestCompany *domain.Company `json:"latestCompany"`
	LatestDriver  *domain.Driver  `json:"latestDriver"`
}

// StatsSnapshot is the derived, non-persisted statistics view for one owner,
// recomputed from the current company and driver sets.
type StatsSnapshot struct {
	RecentActivity RecentActivity `json:"recentActivity"`
	TotalCompanies int64          `json:"totalCompanies"`
	TotalDrivers   int64          `json:"totalDrivers"`
	Companies      stats.Buckets  `json:"companies"`
	Drivers        stats.Buckets  `json:"drivers"`
}

// StatsService answers the aggregate-statistics endpoint.
type StatsService interface {
	Get(ctx context.Context, ownerID string) (*StatsSnapshot, error)
}

// StatsCache caches snapshots per owner. Get returns (nil, nil) on a miss;
// cache failures must never fail the request.
type StatsCache interface {
	Get(ctx context.Context, ownerID string) (*StatsSnapshot, error)
	Set(ctx context.Context, ownerID string, snapshot *StatsSnapshot) error
	Invalidate(ctx context.Context, ownerID string) error
}
