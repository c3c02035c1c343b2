package domain

import (
	"errors"
	"strings"
)

// DefaultCountry prefills the shipping form's country field.
const DefaultCountry = "United States"

// ShippingInfo is the delivery address captured at the shipping step. It is
// stored verbatim; field-level validation beyond presence is a UI concern.
type ShippingInfo struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
	Country  string `json:"country"`
}

// Validate ensures all fields are present.
func (s ShippingInfo) Validate() error {
	fields := map[string]string{
		"full_name": s.FullName,
		"email":     s.Email,
		"phone":     s.Phone,
		"address":   s.Address,
		"city":      s.City,
		"state":     s.State,
		"zip_code":  s.ZipCode,
		"country":   s.Country,
	}
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			return errors.New(name + " is required")
		}
	}
	return nil
}
