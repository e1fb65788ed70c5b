package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fleetpulse/fleet-api/internal/core/domain"
	"github.com/fleetpulse/fleet-api/internal/core/ports"
)

const collectionDrivers = "drivers"

var driverSearchFields = []string{
	"first_name", "last_name", "email", "mobile", "city", "state",
}

type DriverRepository struct {
	col *mongo.Collection
}

func NewDriverRepository(db *mongo.Database) *DriverRepository {
	return &DriverRepository{col: db.Collection(collectionDrivers)}
}

type driverDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	UserID           string             `bson:"user_id"`
	FirstName        string             `bson:"first_name"`
	LastName         string             `bson:"last_name"`
	Email            string             `bson:"email"`
	Mobile           string             `bson:"mobile"`
	DateOfBirth      time.Time          `bson:"date_of_birth"`
	LicenseNumber    string             `bson:"license_number"`
	LicenseStartDate time.Time          `bson:"license_start_date"`
	Experience       string             `bson:"experience"`
	Address1         string             `bson:"address1"`
	Address2         string             `bson:"address2,omitempty"`
	Country          string             `bson:"country"`
	City             string             `bson:"city"`
	State            string             `bson:"state"`
	ZipCode          string             `bson:"zip_code"`
	CreatedAt        time.Time          `bson:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at"`
}

func driverToDoc(d *domain.Driver) (driverDoc, error) {
	doc := driverDoc{
		UserID:           d.UserID,
		FirstName:        d.FirstName,
		LastName:         d.LastName,
		Email:            d.Email,
		Mobile:           d.Mobile,
		DateOfBirth:      d.DateOfBirth,
		LicenseNumber:    d.LicenseNumber,
		LicenseStartDate: d.LicenseStartDate,
		Experience:       d.Experience,
		Address1:         d.Address1,
		Address2:         d.Address2,
		Country:          d.Country,
		City:             d.City,
		State:            d.State,
		ZipCode:          d.ZipCode,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	if d.ID != "" {
		oid, err := primitive.ObjectIDFromHex(d.ID)
		if err != nil {
			return doc, domain.ErrDriverNotFound
		}
		doc.ID = oid
	}
	return doc, nil
}

func (d driverDoc) toDomain() *domain.Driver {
	return &domain.Driver{
		ID:               d.ID.Hex(),
		UserID:           d.UserID,
		FirstName:        d.FirstName,
		LastName:         d.LastName,
		Email:            d.Email,
		Mobile:           d.Mobile,
		DateOfBirth:      d.DateOfBirth,
		LicenseNumber:    d.LicenseNumber,
		LicenseStartDate: d.LicenseStartDate,
		Experience:       d.Experience,
		Address1:         d.Address1,
		Address2:         d.Address2,
		Country:          d.Country,
		City:             d.City,
		State:            d.State,
		ZipCode:          d.ZipCode,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) (*domain.Driver, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := driverToDoc(driver)
	if err != nil {
		return nil, err
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateKeyConflict(err, driverConflictFields)
		}
		return nil, fmt.Errorf("insert driver: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *DriverRepository) FindByID(ctx context.Context, id string) (*domain.Driver, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrDriverNotFound
	}

	var doc driverDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDriverNotFound
		}
		return nil, fmt.Errorf("find driver: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *DriverRepository) List(ctx context.Context, ownerID string, query ports.ListQuery) ([]*domain.Driver, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := searchFilter(ownerID, query.Search, driverSearchFields)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count drivers: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(query.Offset)).
		SetLimit(int64(query.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list drivers: %w", err)
	}
	defer cur.Close(ctx)

	var drivers []*domain.Driver
	for cur.Next(ctx) {
		var doc driverDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode driver: %w", err)
		}
		drivers = append(drivers, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate drivers: %w", err)
	}
	return drivers, total, nil
}

func (r *DriverRepository) Update(ctx context.Context, driver *domain.Driver) (*domain.Driver, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := driverToDoc(driver)
	if err != nil {
		return nil, err
	}

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateKeyConflict(err, driverConflictFields)
		}
		return nil, fmt.Errorf("update driver: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrDriverNotFound
	}
	return doc.toDomain(), nil
}

func (r *DriverRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrDriverNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete driver: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrDriverNotFound
	}
	return nil
}

func (r *DriverRepository) ExistsEmail(ctx context.Context, ownerID, email, excludeID string) (bool, error) {
	return r.exists(ctx, ownerID, "email", email, excludeID)
}

func (r *DriverRepository) ExistsLicenseNumber(ctx context.Context, ownerID, licenseNumber, excludeID string) (bool, error) {
	return r.exists(ctx, ownerID, "license_number", licenseNumber, excludeID)
}

func (r *DriverRepository) exists(ctx context.Context, ownerID, field, value, excludeID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": ownerID, field: value}
	if excludeID != "" {
		oid, err := primitive.ObjectIDFromHex(excludeID)
		if err != nil {
			return false, domain.ErrDriverNotFound
		}
		filter["_id"] = bson.M{"$ne": oid}
	}

	n, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("check %s: %w", field, err)
	}
	return n > 0, nil
}

func (r *DriverRepository) FindLatest(ctx context.Context, ownerID string) (*domain.Driver, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var doc driverDoc
	if err := r.col.FindOne(ctx, bson.M{"user_id": ownerID}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDriverNotFound
		}
		return nil, fmt.Errorf("find latest driver: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *DriverRepository) Count(ctx context.Context, ownerID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"user_id": ownerID})
	if err != nil {
		return 0, fmt.Errorf("count drivers: %w", err)
	}
	return n, nil
}

func (r *DriverRepository) CreatedTimes(ctx context.Context, ownerID string) ([]time.Time, error) {
	return createdTimes(ctx, r.col, ownerID)
}

var driverConflictFields = map[string]conflictField{
	"license_number": {"licenseNumber", "License number already in use"},
	"email":          {"email", "Email already in use"},
}

// EnsureIndexes creates the listing index and the two per-owner unique
// indexes.
func (r *DriverRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("user_email_unique"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "license_number", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("user_license_number_unique"),
		},
	})
	return err
}
