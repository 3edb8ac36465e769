package service

import (
	"testing"

	"go-retail-pos/internal/cart"
	"go-retail-pos/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivePrices(t *testing.T) {
	t.Parallel()

	prices := derivePrices([]string{"pcs", "box"}, 1000, decimal.NewFromInt(20))

	require.Len(t, prices, 2)
	assert.Equal(t, cart.UnitPrice{Unit: "pcs", Price: 1200}, prices[0])
	assert.Equal(t, cart.UnitPrice{Unit: "box", Price: 1200}, prices[1])
}

func TestDerivePricesRoundsToWholeMinorUnits(t *testing.T) {
	t.Parallel()

	// 333 * 1.125 = 374.625 -> 375
	prices := derivePrices([]string{"pcs"}, 333, decimal.NewFromFloat(12.5))

	require.Len(t, prices, 1)
	assert.Equal(t, int64(375), prices[0].Price)
}

func TestDerivePricesZeroMarkupKeepsCost(t *testing.T) {
	t.Parallel()

	prices := derivePrices([]string{"pcs"}, 1000, decimal.Zero)

	require.Len(t, prices, 1)
	assert.Equal(t, int64(1000), prices[0].Price)
}

func validProduct() *model.Product {
	return &model.Product{
		Name:  "Rice 5kg",
		SKU:   "RICE-5",
		Units: model.StringList{"pcs", "box"},
		ManualPrices: model.UnitPriceList{
			{Unit: "pcs", Price: 1500},
			{Unit: "box", Price: 16000},
		},
	}
}

func TestValidateUnitPricingAccepts(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validateUnitPricing(validProduct()))
}

func TestValidateUnitPricingRejectsDuplicateUnit(t *testing.T) {
	t.Parallel()
	product := validProduct()
	product.Units = model.StringList{"pcs", "pcs"}
	assert.Error(t, validateUnitPricing(product))
}

func TestValidateUnitPricingRejectsUndeclaredPriceUnit(t *testing.T) {
	t.Parallel()
	product := validProduct()
	product.ManualPrices = model.UnitPriceList{{Unit: "crate", Price: 100}}
	assert.Error(t, validateUnitPricing(product))
}

func TestValidateUnitPricingRejectsDuplicatePriceEntry(t *testing.T) {
	t.Parallel()
	product := validProduct()
	product.ManualPrices = model.UnitPriceList{
		{Unit: "pcs", Price: 1500},
		{Unit: "pcs", Price: 1600},
	}
	assert.Error(t, validateUnitPricing(product))
}

func TestValidateUnitPricingRequiresPrimaryAlignment(t *testing.T) {
	t.Parallel()
	product := validProduct()
	product.ManualPrices = model.UnitPriceList{
		{Unit: "box", Price: 16000},
		{Unit: "pcs", Price: 1500},
	}
	assert.Error(t, validateUnitPricing(product))
}
