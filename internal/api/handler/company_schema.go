package handler

import (
	"github.com/fleetpulse/fleet-api/internal/core/domain"
	"github.com/fleetpulse/fleet-api/internal/core/ports"
)

// defaultWebsite is stored when the optional website field is left empty.
const defaultWebsite = "https://example.com"

// --- Request / Response types ---

type companyRequest struct {
	CompanyName        string `json:"companyName"        validate:"required"`
	EstablishedOn      string `json:"establishedOn"      validate:"required"`
	RegistrationNumber string `json:"registrationNumber" validate:"required"`
	Website            string `json:"website"            validate:"omitempty,url"`
	Address1           string `json:"address1"           validate:"required"`
	Address2           string `json:"address2"`
	City               string `json:"city"               validate:"required"`
	State              string `json:"state"              validate:"required"`
	ZipCode            string `json:"zipCode"            validate:"required"`
	PrimaryFirstName   string `json:"primaryFirstName"   validate:"required"`
	PrimaryLastName    string `json:"primaryLastName"    validate:"required"`
	PrimaryEmail       string `json:"primaryEmail"       validate:"required,email"`
	PrimaryMobile      string `json:"primaryMobile"      validate:"required"`
}

// toInput normalizes the validated request into a service input, parsing the
// date field and applying the website placeholder.
func (req *companyRequest) toInput() (ports.CompanyInput, error) {
	established, ferr := parseDate("establishedOn", req.EstablishedOn)
	if ferr != nil {
		return ports.CompanyInput{}, &ValidationError{Fields: []FieldError{*ferr}}
	}

	website := req.Website
	if website == "" {
		website = defaultWebsite
	}

	return ports.CompanyInput{
		CompanyName:        req.CompanyName,
		EstablishedOn:      established,
		RegistrationNumber: req.RegistrationNumber,
		Website:            website,
		Address1:           req.Address1,
		Address2:           req.Address2,
		City:               req.City,
		State:              req.State,
		ZipCode:            req.ZipCode,
		PrimaryFirstName:   req.PrimaryFirstName,
		PrimaryLastName:    req.PrimaryLastName,
		PrimaryEmail:       req.PrimaryEmail,
		PrimaryMobile:      req.PrimaryMobile,
	}, nil
}

type companyListResponse struct {
	Data  []*domain.Company `json:"data"`
	Total int64             `json:"total"`
}

type companyDeleteResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Deleted *domain.Company `json:"deleted"`
}
