package checkout

import (
	"testing"

	"telvia/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeVAT(t *testing.T) {
	tests := []struct {
		price int64
		vat   int64
	}{
		{1200, 180},
		{2500, 375},
		{999, 150},  // 149.85 rounds up
		{1210, 182}, // 181.5 rounds half away from zero
		{1, 0},      // 0.15 rounds down
		{0, 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.vat, ComputeVAT(tc.price), "price %d", tc.price)
		assert.Equal(t, tc.price+tc.vat, ComputeTotal(tc.price), "price %d", tc.price)
	}
}

func TestHostedPBXBackendIDs(t *testing.T) {
	tests := []struct {
		slug      string
		backendID int
	}{
		{"bronze", 9132},
		{"silver", 9133},
		{"gold", 9134},
		{"platinum", 9135},
	}
	for _, tc := range tests {
		pkg, err := LookupPackage(models.ServiceHostedPBX, tc.slug)
		require.NoError(t, err, tc.slug)
		assert.Equal(t, tc.backendID, pkg.BackendID, tc.slug)
	}

	bronze, err := LookupPackage(models.ServiceHostedPBX, "bronze")
	require.NoError(t, err)
	assert.Equal(t, int64(1200), bronze.Price)
	assert.Equal(t, int64(180), ComputeVAT(bronze.Price))
	assert.Equal(t, int64(1380), ComputeTotal(bronze.Price))
}

func TestCatalogLookups(t *testing.T) {
	for _, service := range models.KnownServiceTypes {
		plans, err := Catalog(service)
		require.NoError(t, err, service)
		assert.NotEmpty(t, plans, service)
		for _, p := range plans {
			assert.Equal(t, service, p.Service)
			assert.Positive(t, p.Price)
			assert.Positive(t, p.BackendID)
		}
	}

	_, err := Catalog(models.ServiceType("fax"))
	assert.Error(t, err)

	_, err = LookupPackage(models.ServiceHostedPBX, "diamond")
	assert.Error(t, err)
}
