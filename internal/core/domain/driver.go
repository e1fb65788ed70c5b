package domain

import "time"

// Driver is an owner-scoped driver record. Email and LicenseNumber are each
// unique within the owning account.
type Driver struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Email            string    `json:"email"`
	Mobile           string    `json:"mobile"`
	DateOfBirth      time.Time `json:"dateOfBirth"`
	LicenseNumber    string    `json:"licenseNumber"`
	LicenseStartDate time.Time `json:"licenseStartDate"`
	Experience       string    `json:"experience"`
	Address1         string    `json:"address1"`
	Address2         string    `json:"address2,omitempty"`
	Country          string    `json:"country"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	ZipCode          string    `json:"zipCode"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
