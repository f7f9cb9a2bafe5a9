package features_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/drivee/bidprice-service/internal/features"
)

func TestDetectTaxiType(t *testing.T) {
	assert.Equal(t, features.TaxiEconomy, features.DetectTaxiType("Daewoo", "Matiz"))
	assert.Equal(t, features.TaxiEconomy, features.DetectTaxiType("Renault", "Logan"))
	assert.Equal(t, features.TaxiBusiness, features.DetectTaxiType("Toyota", "Camry"))
	assert.Equal(t, features.TaxiBusiness, features.DetectTaxiType("Volkswagen", "Passat"))
	assert.Equal(t, features.TaxiComfort, features.DetectTaxiType("Volkswagen", "Polo"))
}
