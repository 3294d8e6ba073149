package sellingunit

import (
	"math"

	"github.com/mmynk/batchpricer/internal/models"
)

// BatchesRequired returns the exact, possibly fractional, number of batches an
// order of orderQuantity selling units of unitQuantity each consumes.
func BatchesRequired(recipe *models.Recipe, unitQuantity float64, orderQuantity int) float64 {
	return (unitQuantity * float64(orderQuantity)) / BatchOf(recipe).YieldBasis()
}

// BatchesNeeded returns how many whole batches must be produced to fill an order
// of orderQuantity selling units of unitQuantity each. Partial batches round up.
// Results beyond the int range saturate at math.MaxInt.
func BatchesNeeded(recipe *models.Recipe, unitQuantity float64, orderQuantity int) int {
	required := math.Ceil(BatchesRequired(recipe, unitQuantity, orderQuantity))
	if !(required < float64(math.MaxInt)) {
		return math.MaxInt
	}
	return int(required)
}
