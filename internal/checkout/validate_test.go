package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/rogerzombo-blip/DonFood/internal/entity"
)

func validDelivery() domain.CustomerDetails {
	return domain.CustomerDetails{
		Name:    "Maria Silva",
		Email:   "maria@example.com",
		Phone:   "5551234567",
		Address: "Rua das Flores 123",
		City:    "Lisboa",
		ZipCode: "10001",
	}
}

func TestValidateCustomerDetails(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.CustomerDetails)
		mode    domain.FulfillmentMode
		wantErr string
	}{
		{"valid delivery", func(*domain.CustomerDetails) {}, domain.ModeDelivery, ""},
		{"empty name", func(cd *domain.CustomerDetails) { cd.Name = "" }, domain.ModeDelivery, "Please enter your name"},
		{"whitespace name", func(cd *domain.CustomerDetails) { cd.Name = "  a  " }, domain.ModeDelivery, "Please enter your name"},
		{"email missing at", func(cd *domain.CustomerDetails) { cd.Email = "maria.example.com" }, domain.ModeDelivery, "Please enter a valid email"},
		{"email missing tld", func(cd *domain.CustomerDetails) { cd.Email = "maria@example" }, domain.ModeDelivery, "Please enter a valid email"},
		{"short phone", func(cd *domain.CustomerDetails) { cd.Phone = "555123" }, domain.ModeDelivery, "Please enter a valid phone number"},
		{"short address", func(cd *domain.CustomerDetails) { cd.Address = "Rua" }, domain.ModeDelivery, "Please enter your delivery address"},
		{"short city", func(cd *domain.CustomerDetails) { cd.City = "L" }, domain.ModeDelivery, "Please enter your city"},
		{"short zip", func(cd *domain.CustomerDetails) { cd.ZipCode = "123" }, domain.ModeDelivery, "Please enter your ZIP code"},
		{"pickup skips address checks", func(cd *domain.CustomerDetails) {
			cd.Address, cd.City, cd.ZipCode = "", "", ""
		}, domain.ModePickup, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cd := validDelivery()
			tt.mutate(&cd)

			err := ValidateCustomerDetails(cd, tt.mode)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantErr, vErr.Message)
		})
	}
}

func TestValidateCustomerDetails_FirstFailureWins(t *testing.T) {
	// everything is wrong; only the name message comes back
	err := ValidateCustomerDetails(domain.CustomerDetails{}, domain.ModeDelivery)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Please enter your name", vErr.Message)
}
