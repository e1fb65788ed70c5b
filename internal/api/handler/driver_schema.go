package handler

import (
	"github.com/fleetpulse/fleet-api/internal/core/domain"
	"github.com/fleetpulse/fleet-api/internal/core/ports"
)

// --- Request / Response types ---

type driverRequest struct {
	FirstName        string `json:"firstName"        validate:"required,min=2,max=20"`
	LastName         string `json:"lastName"         validate:"required,min=2,max=20"`
	Email            string `json:"email"            validate:"required,email,min=5,max=20"`
	Mobile           string `json:"mobile"           validate:"required,len=10,numeric"`
	DateOfBirth      string `json:"dateOfBirth"      validate:"required"`
	LicenseNumber    string `json:"licenseNumber"    validate:"required,min=2,max=20"`
	LicenseStartDate string `json:"licenseStartDate" validate:"required"`
	Experience       string `json:"experience"       validate:"required"`
	Address1         string `json:"address1"         validate:"required,min=2,max=50"`
	Address2         string `json:"address2"`
	Country          string `json:"country"          validate:"required,min=2,max=20"`
	City             string `json:"city"             validate:"required,min=2,max=20"`
	State            string `json:"state"            validate:"required,min=2,max=20"`
	ZipCode          string `json:"zipCode"          validate:"required"`
}

// toInput parses both date fields, collecting every failure so the caller
// sees them in a single response.
func (req *driverRequest) toInput() (ports.DriverInput, error) {
	var fields []FieldError

	dateOfBirth, ferr := parseDate("dateOfBirth", req.DateOfBirth)
	if ferr != nil {
		fields = append(fields, *ferr)
	}
	licenseStart, ferr := parseDate("licenseStartDate", req.LicenseStartDate)
	if ferr != nil {
		fields = append(fields, *ferr)
	}
	if len(fields) > 0 {
		return ports.DriverInput{}, &ValidationError{Fields: fields}
	}

	return ports.DriverInput{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Mobile:           req.Mobile,
		DateOfBirth:      dateOfBirth,
		LicenseNumber:    req.LicenseNumber,
		LicenseStartDate: licenseStart,
		Experience:       req.Experience,
		Address1:         req.Address1,
		Address2:         req.Address2,
		Country:          req.Country,
		City:             req.City,
		State:            req.State,
		ZipCode:          req.ZipCode,
	}, nil
}

type driverListResponse struct {
	Data  []*domain.Driver `json:"data"`
	Total int64            `json:"total"`
}

type driverDeleteResponse struct {
	Message string `json:"message"`
}
