package order

import (
	"testing"

	"velora/config"
	"velora/models"

	"github.com/stretchr/testify/assert"
)

func shippingService() *Service {
	return NewService(nil, nil, nil, config.Shipping{
		FlatFee:            30000,
		FreeShippingCities: []string{"Hồ Chí Minh", "Ho Chi Minh", "HCM"},
	}, false)
}

func TestShippingFeeFreeCities(t *testing.T) {
	svc := shippingService()

	free := []string{
		"Hồ Chí Minh",
		"Ho Chi Minh",
		"HCM",
		"Thành phố Hồ Chí Minh",
		"Ho Chi Minh City",
	}
	for _, city := range free {
		assert.Equal(t, 0.0, svc.ShippingFee(models.Address{City: city}), "city %q", city)
	}
}

func TestShippingFeeFlatElsewhere(t *testing.T) {
	svc := shippingService()

	paid := []string{
		"Hà Nội",
		"Đà Nẵng",
		"hcm", // match is case-sensitive
		"",
	}
	for _, city := range paid {
		assert.Equal(t, 30000.0, svc.ShippingFee(models.Address{City: city}), "city %q", city)
	}
}
