package intake

import "strings"

// Address is the billing address attached to a checkout transaction. All
// fields except AddressLine2 and StateCode are required when an address is
// present at all.
type Address struct {
	FirstName     string
	LastName      string
	StreetAddress string
	AddressLine2  string
	City          string
	StateCode     string
	Zip           string
	CountryCode   string
}

// NewAddressFromAttributes builds an Address from a flat form payload, so a
// single request body can populate both the transaction and its nested
// address.
func NewAddressFromAttributes(attrs map[string]string) *Address {
	return &Address{
		FirstName:     attrs["first_name"],
		LastName:      attrs["last_name"],
		StreetAddress: attrs["street_address"],
		AddressLine2:  attrs["address_line_2"],
		City:          attrs["city"],
		StateCode:     attrs["state_code"],
		Zip:           attrs["zip"],
		CountryCode:   attrs["country_code"],
	}
}

// Validate checks required address fields and returns one message per missing
// field, in declaration order.
func (a *Address) Validate() *FieldErrors {
	errs := NewFieldErrors()
	required := []struct {
		field string
		value string
	}{
		{"first_name", a.FirstName},
		{"last_name", a.LastName},
		{"street_address", a.StreetAddress},
		{"city", a.City},
		{"zip", a.Zip},
		{"country_code", a.CountryCode},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs.Add(r.field, r.field+" can't be blank")
		}
	}
	return errs
}
