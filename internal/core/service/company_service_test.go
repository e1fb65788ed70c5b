package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetpulse/fleet-api/internal/core/domain"
	"github.com/fleetpulse/fleet-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Shared stubs
// ---------------------------------------------------------------------------

type stubStatsCache struct {
	snapshots     map[string]*ports.StatsSnapshot
	invalidations []string
	getErr        error
}

func newStubStatsCache() *stubStatsCache {
	return &stubStatsCache{snapshots: make(map[string]*ports.StatsSnapshot)}
}

func (c *stubStatsCache) Get(_ context.Context, ownerID string) (*ports.StatsSnapshot, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.snapshots[ownerID], nil
}

func (c *stubStatsCache) Set(_ context.Context, ownerID string, snapshot *ports.StatsSnapshot) error {
	c.snapshots[ownerID] = snapshot
	return nil
}

func (c *stubStatsCache) Invalidate(_ context.Context, ownerID string) error {
	delete(c.snapshots, ownerID)
	c.invalidations = append(c.invalidations, ownerID)
	return nil
}

// ---------------------------------------------------------------------------
// In-memory stub company repository
// ---------------------------------------------------------------------------

type stubCompanyRepo struct {
	byID    map[string]*domain.Company
	nextID  int
	listErr error
}

func newStubCompanyRepo() *stubCompanyRepo {
	return &stubCompanyRepo{byID: make(map[string]*domain.Company)}
}

func (r *stubCompanyRepo) Create(_ context.Context, c *domain.Company) (*domain.Company, error) {
	r.nextID++
	clone := *c
	clone.ID = fmt.Sprintf("company_%d", r.nextID)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCompanyRepo) FindByID(_ context.Context, id string) (*domain.Company, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCompanyNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCompanyRepo) List(_ context.Context, ownerID string, q ports.ListQuery) ([]*domain.Company, int64, error) {
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	var matched []*domain.Company
	for _, c := range r.byID {
		if c.UserID != ownerID {
			continue
		}
		if q.Search != "" && !companyMatches(c, q.Search) {
			continue
		}
		clone := *c
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
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

func companyMatches(c *domain.Company, search string) bool {
	s := strings.ToLower(search)
	for _, f := range []string{c.CompanyName, c.City, c.State, c.PrimaryEmail, c.PrimaryMobile, c.RegistrationNumber} {
		if strings.Contains(strings.ToLower(f), s) {
			return true
		}
	}
	return false
}

func (r *stubCompanyRepo) Update(_ context.Context, c *domain.Company) (*domain.Company, error) {
	if _, ok := r.byID[c.ID]; !ok {
		return nil, domain.ErrCompanyNotFound
	}
	clone := *c
	r.byID[c.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCompanyRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrCompanyNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubCompanyRepo) ExistsRegistrationNumber(_ context.Context, ownerID, registrationNumber, excludeID string) (bool, error) {
	for _, c := range r.byID {
		if c.ID == excludeID {
			continue
		}
		if c.UserID == ownerID && c.RegistrationNumber == registrationNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubCompanyRepo) FindLatest(_ context.Context, ownerID string) (*domain.Company, error) {
	var latest *domain.Company
	for _, c := range r.byID {
		if c.UserID != ownerID {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, domain.ErrCompanyNotFound
	}
	clone := *latest
	return &clone, nil
}

func (r *stubCompanyRepo) Count(_ context.Context, ownerID string) (int64, error) {
	var n int64
	for _, c := range r.byID {
		if c.UserID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *stubCompanyRepo) CreatedTimes(_ context.Context, ownerID string) ([]time.Time, error) {
	var times []time.Time
	for _, c := range r.byID {
		if c.UserID == ownerID {
			times = append(times, c.CreatedAt)
		}
	}
	return times, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func companyInput(registrationNumber string) ports.CompanyInput {
	return ports.CompanyInput{
		CompanyName:        "Acme Logistics",
		EstablishedOn:      time.Date(2015, time.March, 10, 0, 0, 0, 0, time.UTC),
		RegistrationNumber: registrationNumber,
		Website:            "https://acme.example.com",
		Address1:           "1 Fleet Street",
		City:               "Austin",
		State:              "TX",
		ZipCode:            "78701",
		PrimaryFirstName:   "Ana",
		PrimaryLastName:    "Lopez",
		PrimaryEmail:       "ana@acme.example.com",
		PrimaryMobile:      "5125550100",
	}
}

func newCompanyService(repo *stubCompanyRepo) (*CompanyService, *stubStatsCache) {
	cache := newStubStatsCache()
	return NewCompanyService(repo, cache, discardLogger), cache
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestCompanyService_Create_RoundTrip(t *testing.T) {
	svc, cache := newCompanyService(newStubCompanyRepo())

	input := companyInput("REG1")
	created, err := svc.Create(context.Background(), "owner_a", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created.ID == "" {
		t.Error("created company must have an assigned id")
	}
	if created.UserID != "owner_a" {
		t.Errorf("owner = %q, want owner_a", created.UserID)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("timestamps must be set")
	}

	// Round-trip identity: every input field survives unchanged.
	got := ports.CompanyInput{
		CompanyName:        created.CompanyName,
		EstablishedOn:      created.EstablishedOn,
		RegistrationNumber: created.RegistrationNumber,
		Website:            created.Website,
		Address1:           created.Address1,
		Address2:           created.Address2,
		City:               created.City,
		State:              created.State,
		ZipCode:            created.ZipCode,
		PrimaryFirstName:   created.PrimaryFirstName,
		PrimaryLastName:    created.PrimaryLastName,
		PrimaryEmail:       created.PrimaryEmail,
		PrimaryMobile:      created.PrimaryMobile,
	}
	if !reflect.DeepEqual(got, input) {
		t.Errorf("round-trip mismatch:\n got  %+v\n want %+v", got, input)
	}

	if len(cache.invalidations) != 1 || cache.invalidations[0] != "owner_a" {
		t.Errorf("expected one stats invalidation for owner_a, got %v", cache.invalidations)
	}
}

func TestCompanyService_Create_DuplicateRegistrationNumber(t *testing.T) {
	svc, _ := newCompanyService(newStubCompanyRepo())

	if _, err := svc.Create(context.Background(), "owner_a", companyInput("REG1")); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := svc.Create(context.Background(), "owner_a", companyInput("REG1"))
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Field != "registrationNumber" {
		t.Errorf("conflict field = %q, want registrationNumber", conflict.Field)
	}

	// The same registration number is free for a different owner.
	if _, err := svc.Create(context.Background(), "owner_b", companyInput("REG1")); err != nil {
		t.Errorf("owner_b create with same registration number failed: %v", err)
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestCompanyService_List_ScopedToOwner(t *testing.T) {
	repo := newStubCompanyRepo()
	svc, _ := newCompanyService(repo)

	ctx := context.Background()
	if _, err := svc.Create(ctx, "owner_a", companyInput("REG-A")); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, "owner_b", companyInput("REG-B")); err != nil {
		t.Fatal(err)
	}

	list, err := svc.List(ctx, "owner_a", ports.ListQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.Total != 1 || len(list.Data) != 1 {
		t.Fatalf("expected 1 company for owner_a, got total=%d len=%d", list.Total, len(list.Data))
	}
	if list.Data[0].UserID != "owner_a" {
		t.Errorf("leaked record owned by %q", list.Data[0].UserID)
	}
}

func TestCompanyService_List_SearchAndPagination(t *testing.T) {
	repo := newStubCompanyRepo()
	svc, _ := newCompanyService(repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		in := companyInput(fmt.Sprintf("REG%d", i))
		in.City = "Dallas"
		if _, err := svc.Create(ctx, "owner_a", in); err != nil {
			t.Fatal(err)
		}
	}
	other := companyInput("REG9")
	other.City = "Houston"
	if _, err := svc.Create(ctx, "owner_a", other); err != nil {
		t.Fatal(err)
	}

	// Case-insensitive substring search.
	list, err := svc.List(ctx, "owner_a", ports.ListQuery{Search: "dal"})
	if err != nil {
		t.Fatal(err)
	}
	if list.Total != 3 {
		t.Errorf("search total = %d, want 3", list.Total)
	}

	// Pagination keeps the unpaginated total.
	page, err := svc.List(ctx, "owner_a", ports.ListQuery{Search: "dal", Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Data) != 2 || page.Total != 3 {
		t.Errorf("page len=%d total=%d, want 2/3", len(page.Data), page.Total)
	}
}

func TestCompanyService_List_Idempotent(t *testing.T) {
	repo := newStubCompanyRepo()
	svc, _ := newCompanyService(repo)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := svc.Create(ctx, "owner_a", companyInput(fmt.Sprintf("REG%d", i))); err != nil {
			t.Fatal(err)
		}
	}

	q := ports.ListQuery{Limit: 3}
	first, err := svc.List(ctx, "owner_a", q)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.List(ctx, "owner_a", q)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical queries with no intervening mutation must return identical results")
	}
}

// ---------------------------------------------------------------------------
// Update / Delete ownership
// ---------------------------------------------------------------------------

func TestCompanyService_Update_ForeignOwnerLooksLikeMissing(t *testing.T) {
	svc, _ := newCompanyService(newStubCompanyRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, "owner_a", companyInput("REG1"))
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Update(ctx, created.ID, "owner_b", companyInput("REG2"))
	if !errors.Is(err, domain.ErrCompanyNotFound) {
		t.Errorf("expected ErrCompanyNotFound for foreign owner, got %v", err)
	}

	_, err = svc.Update(ctx, "missing", "owner_a", companyInput("REG2"))
	if !errors.Is(err, domain.ErrCompanyNotFound) {
		t.Errorf("expected ErrCompanyNotFound for missing id, got %v", err)
	}
}

func TestCompanyService_Update_KeepsOwnRegistrationNumber(t *testing.T) {
	svc, _ := newCompanyService(newStubCompanyRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, "owner_a", companyInput("REG1"))
	if err != nil {
		t.Fatal(err)
	}

	// Re-submitting the record's own registration number is not a conflict.
	in := companyInput("REG1")
	in.City = "El Paso"
	updated, err := svc.Update(ctx, created.ID, "owner_a", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.City != "El Paso" {
		t.Errorf("city = %q, want El Paso", updated.City)
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Error("update must preserve the creation timestamp")
	}
}

func TestCompanyService_Update_ConflictWithSiblingRecord(t *testing.T) {
	svc, _ := newCompanyService(newStubCompanyRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "owner_a", companyInput("REG1")); err != nil {
		t.Fatal(err)
	}
	second, err := svc.Create(ctx, "owner_a", companyInput("REG2"))
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Update(ctx, second.ID, "owner_a", companyInput("REG1"))
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) || conflict.Field != "registrationNumber" {
		t.Errorf("expected registrationNumber conflict, got %v", err)
	}
}

func TestCompanyService_Delete_ReturnsDeletedRecord(t *testing.T) {
	repo := newStubCompanyRepo()
	svc, cache := newCompanyService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, "owner_a", companyInput("REG1"))
	if err != nil {
		t.Fatal(err)
	}

	deleted, err := svc.Delete(ctx, created.ID, "owner_a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted.ID != created.ID {
		t.Errorf("deleted id = %q, want %q", deleted.ID, created.ID)
	}
	if len(repo.byID) != 0 {
		t.Error("record must be removed permanently")
	}
	if len(cache.invalidations) != 2 {
		t.Errorf("expected invalidation on create and delete, got %d", len(cache.invalidations))
	}
}

func TestCompanyService_Delete_ForeignOwnerLooksLikeMissing(t *testing.T) {
	repo := newStubCompanyRepo()
	svc, _ := newCompanyService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, "owner_a", companyInput("REG1"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Delete(ctx, created.ID, "owner_b"); !errors.Is(err, domain.ErrCompanyNotFound) {
		t.Errorf("expected ErrCompanyNotFound, got %v", err)
	}
	if len(repo.byID) != 1 {
		t.Error("record must survive a foreign delete attempt")
	}
}
