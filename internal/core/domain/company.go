package domain

import "time"

// Company is an owner-scoped fleet operator record. RegistrationNumber is
// unique within the owning account.
type Company struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	CompanyName        string    `json:"companyName"`
	EstablishedOn      time.Time `json:"establishedOn"`
	RegistrationNumber string    `json:"registrationNumber"`
	Website            string    `json:"website"`
	Address1           string    `json:"address1"`
	Address2           string    `json:"address2,omitempty"`
	City               string    `json:"city"`
	State              string    `json:"state"`
	ZipCode            string    `json:"zipCode"`
	PrimaryFirstName   string    `json:"primaryFirstName"`
	PrimaryLastName    string    `json:"primaryLastName"`
	PrimaryEmail       string    `json:"primaryEmail"`
	PrimaryMobile      string    `json:"primaryMobile"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
