package sellingunit

import "github.com/mmynk/batchpricer/internal/models"

// markDefault makes units[idx] the only default unit. An idx outside the slice
// clears every default.
func markDefault(units []models.SellingUnit, idx int) {
	for i := range units {
		units[i].IsDefault = i == idx
	}
}

// defaultIndex returns the index of the first default unit, or -1.
func defaultIndex(units []models.SellingUnit) int {
	for i := range units {
		if units[i].IsDefault {
			return i
		}
	}
	return -1
}

// ensureDefault marks the first unit as default when units exist but none is.
func ensureDefault(units []models.SellingUnit) {
	if len(units) > 0 && defaultIndex(units) < 0 {
		markDefault(units, 0)
	}
}

func cloneUnits(units []models.SellingUnit) []models.SellingUnit {
	out := make([]models.SellingUnit, len(units))
	copy(out, units)
	return out
}
