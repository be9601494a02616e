package valueobject

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultCountry is used when the address does not specify one
const DefaultCountry = "India"

var pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)

// ShippingAddress is a value object holding the delivery address captured
// on an order. Fields are exported for persistence embedding; use
// NewShippingAddress to construct a validated instance.
type ShippingAddress struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Country      string `json:"country"`
}

// NewShippingAddress creates a validated shipping address.
// AddressLine2 is optional; country defaults to India.
func NewShippingAddress(fullName, phone, line1, line2, city, state, pincode, country string) (ShippingAddress, error) {
	addr := ShippingAddress{
		FullName:     strings.TrimSpace(fullName),
		Phone:        strings.TrimSpace(phone),
		AddressLine1: strings.TrimSpace(line1),
		AddressLine2: strings.TrimSpace(line2),
		City:         strings.TrimSpace(city),
		State:        strings.TrimSpace(state),
		Pincode:      strings.TrimSpace(pincode),
		Country:      strings.TrimSpace(country),
	}
	if addr.Country == "" {
		addr.Country = DefaultCountry
	}
	if err := addr.Validate(); err != nil {
		return ShippingAddress{}, err
	}
	return addr, nil
}

// Validate checks the required address fields
func (a ShippingAddress) Validate() error {
	if a.FullName == "" {
		return fmt.Errorf("recipient name is required")
	}
	if len(a.FullName) > 100 {
		return fmt.Errorf("recipient name cannot exceed 100 characters")
	}
	if a.Phone == "" {
		return fmt.Errorf("phone number is required")
	}
	if a.AddressLine1 == "" {
		return fmt.Errorf("address line 1 is required")
	}
	if a.City == "" {
		return fmt.Errorf("city is required")
	}
	if a.State == "" {
		return fmt.Errorf("state is required")
	}
	if !pincodePattern.MatchString(a.Pincode) {
		return fmt.Errorf("pincode must be a 6-digit code")
	}
	return nil
}

// IsZero returns true if no field has been set
func (a ShippingAddress) IsZero() bool {
	return a == ShippingAddress{}
}
