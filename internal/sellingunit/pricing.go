package sellingunit

import (
	"math"

	"github.com/mmynk/batchpricer/internal/calculator"
	"github.com/mmynk/batchpricer/internal/models"
)

// BatchOf converts a recipe to the calculator's batch figures.
func BatchOf(recipe *models.Recipe) calculator.Batch {
	return calculator.Batch{
		TotalCost:  recipe.TotalCost,
		BatchYield: recipe.BatchYield,
		Servings:   recipe.Servings,
	}
}

// WithPricing derives cost, suggested price, margin and units per batch for
// every selling unit of the recipe, in the recipe's order.
// A unit's PriceOverride, when set, is used as the price as-is.
func WithPricing(recipe *models.Recipe, markup float64) []models.SellingUnitWithPricing {
	batch := BatchOf(recipe)

	priced := make([]models.SellingUnitWithPricing, len(recipe.SellingUnits))
	for i, unit := range recipe.SellingUnits {
		priced[i] = price(batch, unit, markup)
	}
	return priced
}

// PriceUnit prices a single unit, which need not belong to the recipe yet.
func PriceUnit(recipe *models.Recipe, unit models.SellingUnit, markup float64) models.SellingUnitWithPricing {
	return price(BatchOf(recipe), unit, markup)
}

func price(batch calculator.Batch, unit models.SellingUnit, markup float64) models.SellingUnitWithPricing {
	cost := calculator.SellingUnitCost(batch, unit.Quantity)

	suggested := calculator.SuggestedPrice(cost, markup)
	if unit.PriceOverride != nil {
		suggested = *unit.PriceOverride
	}

	return models.SellingUnitWithPricing{
		SellingUnit:    unit,
		Cost:           cost,
		SuggestedPrice: suggested,
		ProfitMargin:   calculator.ProfitMargin(cost, suggested),
		UnitsPerBatch:  calculator.UnitsPerBatch(batch, unit.Quantity),
	}
}

// Finite reports whether every derived figure is a real number. Very large
// costs or markups, or very small quantities, overflow to ±Inf or NaN.
func Finite(p models.SellingUnitWithPricing) bool {
	for _, v := range []float64{p.Cost, p.SuggestedPrice, p.ProfitMargin, p.UnitsPerBatch} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}
