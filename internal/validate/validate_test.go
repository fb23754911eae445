package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essence/storefront/internal/domain"
)

func TestStructReportsMissingAddressFields(t *testing.T) {
	err := Struct(domain.ShippingAddress{FullName: "Ana", Email: "ana@example.com"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "zip_code is required")
	assert.Contains(t, err.Error(), "street is required")
}

func TestStructRejectsBadEmail(t *testing.T) {
	addr := domain.ShippingAddress{
		FullName: "Ana", Email: "not-an-email", Phone: "555", Street: "1 Main",
		City: "Austin", State: "TX", ZipCode: "73301", Country: "US",
	}
	err := Struct(addr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email must be a valid email")
}

func TestStructAcceptsCompleteAddress(t *testing.T) {
	addr := domain.ShippingAddress{
		FullName: "Ana", Email: "ana@example.com", Phone: "555", Street: "1 Main",
		City: "Austin", State: "TX", ZipCode: "73301", Country: "US",
	}
	assert.NoError(t, Struct(addr))
}
