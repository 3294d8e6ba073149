package sellingunit

import (
	"strings"

	"github.com/mmynk/batchpricer/internal/models"
)

// unitCategory classifies a batch unit for preset generation.
type unitCategory int

const (
	categoryGeneric unitCategory = iota
	categoryWeightLarge
	categoryWeightSmall
	categoryCount
	categoryFraction
)

type preset struct {
	name     string
	quantity float64
}

// categorize maps a normalized batch unit to its category.
func categorize(unit string) unitCategory {
	switch unit {
	case "lb", "kg":
		return categoryWeightLarge
	case "oz", "g":
		return categoryWeightSmall
	case "piece", "unit", "cookie", "cupcake":
		return categoryCount
	case "slice":
		return categoryFraction
	default:
		return categoryGeneric
	}
}

// presetsFor returns the preset portions for a normalized batch unit.
func presetsFor(unit string) []preset {
	switch categorize(unit) {
	case categoryWeightLarge:
		label := "Pound"
		if unit == "kg" {
			label = "Kilo"
		}
		return []preset{
			{name: "Quarter " + label, quantity: 0.25},
			{name: "Half " + label, quantity: 0.5},
			{name: "Full " + label, quantity: 1},
		}
	case categoryWeightSmall:
		if unit == "g" {
			return []preset{
				{name: "100 g", quantity: 100},
				{name: "250 g", quantity: 250},
				{name: "500 g", quantity: 500},
			}
		}
		return []preset{
			{name: "4 oz", quantity: 4},
			{name: "8 oz", quantity: 8},
			{name: "16 oz", quantity: 16},
		}
	case categoryCount:
		return []preset{
			{name: "Single", quantity: 1},
			{name: "Half Dozen", quantity: 6},
			{name: "Dozen", quantity: 12},
		}
	case categoryFraction:
		// quarter and half of an 8-slice whole
		return []preset{
			{name: "Single Slice", quantity: 1},
			{name: "Quarter", quantity: 2},
			{name: "Half", quantity: 4},
		}
	default:
		return []preset{
			{name: "Quarter", quantity: 0.25},
			{name: "Half", quantity: 0.5},
			{name: "Full", quantity: 1},
		}
	}
}

func normalizeUnit(batchUnit string) string {
	return strings.ToLower(strings.TrimSpace(batchUnit))
}

// DefaultSellingUnits builds the preset selling units for a batch unit.
// Each unit gets a fresh ID from ids, and the first preset is the default.
// Unknown units fall back to Quarter/Half/Full portions.
func DefaultSellingUnits(ids IDGenerator, batchUnit string) []models.SellingUnit {
	unit := normalizeUnit(batchUnit)
	presets := presetsFor(unit)

	units := make([]models.SellingUnit, len(presets))
	for i, p := range presets {
		units[i] = models.SellingUnit{
			ID:        ids.NewID(),
			Name:      p.name,
			Quantity:  p.quantity,
			Unit:      unit,
			IsDefault: i == 0,
		}
	}
	return units
}
