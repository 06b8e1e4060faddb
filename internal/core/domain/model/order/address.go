package order

import (
	"errors"
	"strings"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/errs"
)

// Address is the delivery destination, including its geocoded point.
type Address struct {
	fullAddress string
	city        string
	state       string
	postalCode  string
	location    kernel.GeoPoint
}

func NewAddress(fullAddress, city, state, postalCode string, location kernel.GeoPoint) (Address, error) {
	a := Address{
		fullAddress: strings.TrimSpace(fullAddress),
		city:        strings.TrimSpace(city),
		state:       strings.TrimSpace(state),
		postalCode:  strings.TrimSpace(postalCode),
		location:    location,
	}
	var fullErr error
	if a.fullAddress == "" {
		fullErr = errs.NewValueIsRequiredError("full address")
	}
	if err := errors.Join(fullErr, location.Validate()); err != nil {
		return Address{}, err
	}
	return a, nil
}

func (a Address) FullAddress() string { return a.fullAddress }
func (a Address) City() string { return a.city }
func (a Address) State() string { return a.state }
func (a Address) PostalCode() string { return a.postalCode }
func (a Address) Location() kernel.GeoPoint { return a.location }

func (a Address) Validate() error {
	if a.fullAddress == "" {
		return errs.NewValueIsRequiredError("full address")
	}
	return a.location.Validate()
}
