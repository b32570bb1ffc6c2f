package domain

import "time"

// Address is embedded in both Customer and Order. Orders keep their own
// copy so a later change to the customer's address never rewrites history.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
}

type Customer struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Address          Address   `json:"address"`
	Phone            string    `json:"phone,omitempty"`
	RegistrationDate time.Time `json:"registrationDate"`
}
