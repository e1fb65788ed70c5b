package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fleetpulse/fleet-api/internal/core/domain"
	"github.com/fleetpulse/fleet-api/internal/core/ports"
)

const collectionCompanies = "companies"

// companySearchFields is the fixed set of text fields the list endpoint
// matches search terms against.
var companySearchFields = []string{
	"company_name", "city", "state", "primary_email", "primary_mobile", "registration_number",
}

type CompanyRepository struct {
	col *mongo.Collection
}

func NewCompanyRepository(db *mongo.Database) *CompanyRepository {
	return &CompanyRepository{col: db.Collection(collectionCompanies)}
}

type companyDoc struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	UserID             string             `bson:"user_id"`
	CompanyName        string             `bson:"company_name"`
	EstablishedOn      time.Time          `bson:"established_on"`
	RegistrationNumber string             `bson:"registration_number"`
	Website            string             `bson:"website"`
	Address1           string             `bson:"address1"`
	Address2           string             `bson:"address2,omitempty"`
	City               string             `bson:"city"`
	State              string             `bson:"state"`
	ZipCode            string             `bson:"zip_code"`
	PrimaryFirstName   string             `bson:"primary_first_name"`
	PrimaryLastName    string             `bson:"primary_last_name"`
	PrimaryEmail       string             `bson:"primary_email"`
	PrimaryMobile      string             `bson:"primary_mobile"`
	CreatedAt          time.Time          `bson:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at"`
}

func companyToDoc(c *domain.Company) (companyDoc, error) {
	doc := companyDoc{
		UserID:             c.UserID,
		CompanyName:        c.CompanyName,
		EstablishedOn:      c.EstablishedOn,
		RegistrationNumber: c.RegistrationNumber,
		Website:            c.Website,
		Address1:           c.Address1,
		Address2:           c.Address2,
		City:               c.City,
		State:              c.State,
		ZipCode:            c.ZipCode,
		PrimaryFirstName:   c.PrimaryFirstName,
		PrimaryLastName:    c.PrimaryLastName,
		PrimaryEmail:       c.PrimaryEmail,
		PrimaryMobile:      c.PrimaryMobile,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
	if c.ID != "" {
		oid, err := primitive.ObjectIDFromHex(c.ID)
		if err != nil {
			return doc, domain.ErrCompanyNotFound
		}
		doc.ID = oid
	}
	return doc, nil
}

func (d companyDoc) toDomain() *domain.Company {
	return &domain.Company{
		ID:                 d.ID.Hex(),
		UserID:             d.UserID,
		CompanyName:        d.CompanyName,
		EstablishedOn:      d.EstablishedOn,
		RegistrationNumber: d.RegistrationNumber,
		Website:            d.Website,
		Address1:           d.Address1,
		Address2:           d.Address2,
		City:               d.City,
		State:              d.State,
		ZipCode:            d.ZipCode,
		PrimaryFirstName:   d.PrimaryFirstName,
		PrimaryLastName:    d.PrimaryLastName,
		PrimaryEmail:       d.PrimaryEmail,
		PrimaryMobile:      d.PrimaryMobile,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

func (r *CompanyRepository) Create(ctx context.Context, company *domain.Company) (*domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := companyToDoc(company)
	if err != nil {
		return nil, err
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateKeyConflict(err, companyConflictFields)
		}
		return nil, fmt.Errorf("insert company: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *CompanyRepository) FindByID(ctx context.Context, id string) (*domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCompanyNotFound
	}

	var doc companyDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("find company: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns a page of the owner's companies matching the query, newest
// first, plus the total count over the same filter.
func (r *CompanyRepository) List(ctx context.Context, ownerID string, query ports.ListQuery) ([]*domain.Company, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := searchFilter(ownerID, query.Search, companySearchFields)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count companies: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(query.Offset)).
		SetLimit(int64(query.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list companies: %w", err)
	}
	defer cur.Close(ctx)

	var companies []*domain.Company
	for cur.Next(ctx) {
		var doc companyDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode company: %w", err)
		}
		companies = append(companies, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate companies: %w", err)
	}
	return companies, total, nil
}

func (r *CompanyRepository) Update(ctx context.Context, company *domain.Company) (*domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := companyToDoc(company)
	if err != nil {
		return nil, err
	}

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateKeyConflict(err, companyConflictFields)
		}
		return nil, fmt.Errorf("update company: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrCompanyNotFound
	}
	return doc.toDomain(), nil
}

func (r *CompanyRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrCompanyNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}

func (r *CompanyRepository) ExistsRegistrationNumber(ctx context.Context, ownerID, registrationNumber, excludeID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": ownerID, "registration_number": registrationNumber}
	if excludeID != "" {
		oid, err := primitive.ObjectIDFromHex(excludeID)
		if err != nil {
			return false, domain.ErrCompanyNotFound
		}
		filter["_id"] = bson.M{"$ne": oid}
	}

	n, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("check registration number: %w", err)
	}
	return n > 0, nil
}

func (r *CompanyRepository) FindLatest(ctx context.Context, ownerID string) (*domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var doc companyDoc
	if err := r.col.FindOne(ctx, bson.M{"user_id": ownerID}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("find latest company: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CompanyRepository) Count(ctx context.Context, ownerID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"user_id": ownerID})
	if err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return n, nil
}

func (r *CompanyRepository) CreatedTimes(ctx context.Context, ownerID string) ([]time.Time, error) {
	return createdTimes(ctx, r.col, ownerID)
}

var companyConflictFields = map[string]conflictField{
	"registration_number": {"registrationNumber", "Registration number already in use"},
}

// EnsureIndexes creates the listing index and the per-owner unique
// registration-number index.
func (r *CompanyRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "registration_number", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("user_registration_number_unique"),
		},
	})
	return err
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

// searchFilter builds the owner-scoped filter, adding a case-insensitive
// substring match over fields when search is non-empty.
func searchFilter(ownerID, search string, fields []string) bson.M {
	filter := bson.M{"user_id": ownerID}
	if search == "" {
		return filter
	}

	pattern := regexp.QuoteMeta(search)
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: primitive.Regex{Pattern: pattern, Options: "i"}})
	}
	filter["$or"] = or
	return filter
}

// createdTimes fetches only the creation timestamps of the owner's records.
func createdTimes(ctx context.Context, col *mongo.Collection, ownerID string) ([]time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"created_at": 1})
	cur, err := col.Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch created times: %w", err)
	}
	defer cur.Close(ctx)

	var times []time.Time
	for cur.Next(ctx) {
		var doc struct {
			CreatedAt time.Time `bson:"created_at"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode created time: %w", err)
		}
		times = append(times, doc.CreatedAt)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate created times: %w", err)
	}
	return times, nil
}

type conflictField struct {
	path    string
	message string
}

// duplicateKeyConflict maps a Mongo duplicate-key error to the ConflictError
// of the index that fired, so a lost check-then-act race surfaces exactly
// like the advisory pre-check.
func duplicateKeyConflict(err error, fields map[string]conflictField) error {
	msg := err.Error()
	for indexField, cf := range fields {
		if strings.Contains(msg, indexField) {
			return domain.NewConflict(cf.path, cf.message)
		}
	}
	return err
}
