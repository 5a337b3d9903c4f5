package checkout

import (
	"regexp"
	"strings"

	domain "github.com/rogerzombo-blip/DonFood/internal/entity"
)

// ValidationError is a client-side field check failure. It never reaches
// the network and never advances the state machine.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Shape check only: local@domain.tld, no whitespace. Deliverability is
// the mail provider's problem.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateCustomerDetails checks fields in a fixed order and reports the
// first failure only. Delivery mode adds the address requirements.
func ValidateCustomerDetails(cd domain.CustomerDetails, mode domain.FulfillmentMode) error {
	if len(strings.TrimSpace(cd.Name)) < 2 {
		return &ValidationError{"Please enter your name"}
	}
	if !emailRe.MatchString(cd.Email) {
		return &ValidationError{"Please enter a valid email"}
	}
	if len(cd.Phone) < 10 {
		return &ValidationError{"Please enter a valid phone number"}
	}
	if mode == domain.ModeDelivery {
		if len(strings.TrimSpace(cd.Address)) < 5 {
			return &ValidationError{"Please enter your delivery address"}
		}
		if len(strings.TrimSpace(cd.City)) < 2 {
			return &ValidationError{"Please enter your city"}
		}
		if len(strings.TrimSpace(cd.ZipCode)) < 5 {
			return &ValidationError{"Please enter your ZIP code"}
		}
	}
	return nil
}
