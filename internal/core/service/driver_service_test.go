package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fleetpulse/fleet-api/internal/core/domain"
	"github.com/fleetpulse/fleet-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub driver repository
// ---------------------------------------------------------------------------

type stubDriverRepo struct {
	byID   map[string]*domain.Driver
	nextID int
}

func newStubDriverRepo() *stubDriverRepo {
	return &stubDriverRepo{byID: make(map[string]*domain.Driver)}
}

func (r *stubDriverRepo) Create(_ context.Context, d *domain.Driver) (*domain.Driver, error) {
	r.nextID++
	clone := *d
	clone.ID = fmt.Sprintf("driver_%d", r.nextID)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubDriverRepo) FindByID(_ context.Context, id string) (*domain.Driver, error) {
	d, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrDriverNotFound
	}
	clone := *d
	return &clone, nil
}

func (r *stubDriverRepo) List(_ context.Context, ownerID string, q ports.ListQuery) ([]*domain.Driver, int64, error) {
	var matched []*domain.Driver
	for _, d := range r.byID {
		if d.UserID != ownerID {
			continue
		}
		if q.Search != "" && !driverMatches(d, q.Search) {
			continue
		}
		clone := *d
		matched = append(matched, &clone)
	}
	total := int64(len(matched))
	if q.Offset >= len(matched) {
		return nil, total, nil
	}
	end := q.Offset + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[q.Offset:end], total, nil
}

func driverMatches(d *domain.Driver, search string) bool {
	s := strings.ToLower(search)
	for _, f := range []string{d.FirstName, d.LastName, d.Email, d.Mobile, d.City, d.State} {
		if strings.Contains(strings.ToLower(f), s) {
			return true
		}
	}
	return false
}

func (r *stubDriverRepo) Update(_ context.Context, d *domain.Driver) (*domain.Driver, error) {
	if _, ok := r.byID[d.ID]; !ok {
		return nil, domain.ErrDriverNotFound
	}
	clone := *d
	r.byID[d.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubDriverRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrDriverNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubDriverRepo) ExistsEmail(_ context.Context, ownerID, email, excludeID string) (bool, error) {
	for _, d := range r.byID {
		if d.ID != excludeID && d.UserID == ownerID && d.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubDriverRepo) ExistsLicenseNumber(_ context.Context, ownerID, licenseNumber, excludeID string) (bool, error) {
	for _, d := range r.byID {
		if d.ID != excludeID && d.UserID == ownerID && d.LicenseNumber == licenseNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubDriverRepo) FindLatest(_ context.Context, ownerID string) (*domain.Driver, error) {
	var latest *domain.Driver
	for _, d := range r.byID {
		if d.UserID != ownerID {
			continue
		}
		if latest == nil || d.CreatedAt.After(latest.CreatedAt) {
			latest = d
		}
	}
	if latest == nil {
		return nil, domain.ErrDriverNotFound
	}
	clone := *latest
	return &clone, nil
}

func (r *stubDriverRepo) Count(_ context.Context, ownerID string) (int64, error) {
	var n int64
	for _, d := range r.byID {
		if d.UserID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *stubDriverRepo) CreatedTimes(_ context.Context, ownerID string) ([]time.Time, error) {
	var times []time.Time
	for _, d := range r.byID {
		if d.UserID == ownerID {
			times = append(times, d.CreatedAt)
		}
	}
	return times, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func driverInput(email, licenseNumber string) ports.DriverInput {
	return ports.DriverInput{
		FirstName:        "Maya",
		LastName:         "Reed",
		Email:            email,
		Mobile:           "5125550101",
		DateOfBirth:      time.Date(1990, time.May, 4, 0, 0, 0, 0, time.UTC),
		LicenseNumber:    licenseNumber,
		LicenseStartDate: time.Date(2010, time.June, 1, 0, 0, 0, 0, time.UTC),
		Experience:       "8",
		Address1:         "22 Dock Road",
		Country:          "US",
		City:             "Austin",
		State:            "TX",
		ZipCode:          "78702",
	}
}

func newDriverService(repo *stubDriverRepo) *DriverService {
	return NewDriverService(repo, newStubStatsCache(), discardLogger)
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestDriverService_Create_AttachesOwner(t *testing.T) {
	svc := newDriverService(newStubDriverRepo())

	created, err := svc.Create(context.Background(), "owner_a", driverInput("maya@example.com", "LIC1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.UserID != "owner_a" {
		t.Errorf("owner = %q, want owner_a", created.UserID)
	}
	if created.ID == "" {
		t.Error("created driver must have an assigned id")
	}
}

func TestDriverService_Create_NormalizesEmail(t *testing.T) {
	svc := newDriverService(newStubDriverRepo())

	created, err := svc.Create(context.Background(), "owner_a", driverInput("Maya@Example.COM", "LIC1"))
	if err != nil {
		t.Fatal(err)
	}
	if created.Email != "maya@example.com" {
		t.Errorf("email = %q, want lower-cased", created.Email)
	}
}

func TestDriverService_Create_DuplicateEmailFailsFirst(t *testing.T) {
	svc := newDriverService(newStubDriverRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "owner_a", driverInput("maya@example.com", "LIC1")); err != nil {
		t.Fatal(err)
	}

	// Email and license number both collide; the email check runs first.
	_, err := svc.Create(ctx, "owner_a", driverInput("maya@example.com", "LIC1"))
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Field != "email" {
		t.Errorf("conflict field = %q, want email", conflict.Field)
	}
}

func TestDriverService_Create_DuplicateLicenseNumber(t *testing.T) {
	svc := newDriverService(newStubDriverRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "owner_a", driverInput("maya@example.com", "LIC1")); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Create(ctx, "owner_a", driverInput("other@example.com", "LIC1"))
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) || conflict.Field != "licenseNumber" {
		t.Errorf("expected licenseNumber conflict, got %v", err)
	}

	// Both fields are per-owner scopes: another owner may reuse them.
	if _, err := svc.Create(ctx, "owner_b", driverInput("maya@example.com", "LIC1")); err != nil {
		t.Errorf("owner_b create failed: %v", err)
	}
}

func TestDriverService_Update_ForeignOwnerLooksLikeMissing(t *testing.T) {
	svc := newDriverService(newStubDriverRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, "owner_a", driverInput("maya@example.com", "LIC1"))
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Update(ctx, created.ID, "owner_b", driverInput("new@example.com", "LIC2"))
	if !errors.Is(err, domain.ErrDriverNotFound) {
		t.Errorf("expected ErrDriverNotFound, got %v", err)
	}
}

func TestDriverService_Update_ExcludesSelfFromUniqueness(t *testing.T) {
	svc := newDriverService(newStubDriverRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, "owner_a", driverInput("maya@example.com", "LIC1"))
	if err != nil {
		t.Fatal(err)
	}

	in := driverInput("maya@example.com", "LIC1")
	in.City = "Waco"
	updated, err := svc.Update(ctx, created.ID, "owner_a", in)
	if err != nil {
		t.Fatalf("update reusing own unique fields failed: %v", err)
	}
	if updated.City != "Waco" {
		t.Errorf("city = %q, want Waco", updated.City)
	}
}

func TestDriverService_Delete_RemovesRecord(t *testing.T) {
	repo := newStubDriverRepo()
	svc := newDriverService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, "owner_a", driverInput("maya@example.com", "LIC1"))
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(ctx, created.ID, "owner_a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.byID) != 0 {
		t.Error("record must be removed permanently")
	}

	if err := svc.Delete(ctx, created.ID, "owner_a"); !errors.Is(err, domain.ErrDriverNotFound) {
		t.Errorf("second delete should be ErrDriverNotFound, got %v", err)
	}
}
