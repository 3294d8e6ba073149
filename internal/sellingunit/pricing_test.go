package sellingunit

import (
	"math"
	"testing"

	"github.com/mmynk/batchpricer/internal/calculator"
	"github.com/mmynk/batchpricer/internal/models"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestWithPricing(t *testing.T) {
	t.Run("quarter pound of fudge", func(t *testing.T) {
		recipe := &models.Recipe{
			TotalCost:    15.0,
			BatchYield:   3,
			SellingUnits: []models.SellingUnit{{ID: "q", Name: "Quarter Pound", Quantity: 0.25}},
		}

		priced := WithPricing(recipe, calculator.MarkupStandard)
		if len(priced) != 1 {
			t.Fatalf("expected 1 priced unit, got %d", len(priced))
		}
		p := priced[0]
		nearlyEqual(t, "cost", p.Cost, 1.25)
		nearlyEqual(t, "suggestedPrice", p.SuggestedPrice, 3.125)
		nearlyEqual(t, "unitsPerBatch", p.UnitsPerBatch, 12)
		nearlyEqual(t, "profitMargin", p.ProfitMargin, 60)
		if p.ID != "q" || p.Name != "Quarter Pound" {
			t.Errorf("unit fields not carried over: %+v", p.SellingUnit)
		}
	})

	t.Run("half dozen cookies", func(t *testing.T) {
		recipe := &models.Recipe{
			TotalCost:    6.0,
			BatchYield:   24,
			SellingUnits: []models.SellingUnit{{ID: "hd", Name: "Half Dozen", Quantity: 6}},
		}

		p := WithPricing(recipe, calculator.MarkupStandard)[0]
		nearlyEqual(t, "cost", p.Cost, 1.5)
		nearlyEqual(t, "suggestedPrice", p.SuggestedPrice, 3.75)
		nearlyEqual(t, "unitsPerBatch", p.UnitsPerBatch, 4)
	})

	t.Run("price override wins for every markup", func(t *testing.T) {
		override := 5.0
		recipe := &models.Recipe{
			TotalCost:  15.0,
			BatchYield: 3,
			SellingUnits: []models.SellingUnit{
				{ID: "q", Quantity: 0.25, PriceOverride: &override},
			},
		}

		for _, s := range calculator.Strategies() {
			p := WithPricing(recipe, s.Multiplier)[0]
			if p.SuggestedPrice != override {
				t.Errorf("%s: suggestedPrice = %v, want %v", s.Name, p.SuggestedPrice, override)
			}
			nearlyEqual(t, s.Name+" profitMargin", p.ProfitMargin, 75)
		}
	})

	t.Run("zero override clamps margin", func(t *testing.T) {
		free := 0.0
		recipe := &models.Recipe{
			TotalCost:    15.0,
			BatchYield:   3,
			SellingUnits: []models.SellingUnit{{ID: "sample", Quantity: 0.1, PriceOverride: &free}},
		}

		p := WithPricing(recipe, calculator.MarkupLuxury)[0]
		if p.SuggestedPrice != 0 || p.ProfitMargin != 0 {
			t.Errorf("got price %v margin %v, want 0 and 0", p.SuggestedPrice, p.ProfitMargin)
		}
	})

	t.Run("servings fallback", func(t *testing.T) {
		recipe := &models.Recipe{
			TotalCost:    20.0,
			Servings:     10,
			SellingUnits: []models.SellingUnit{{ID: "s", Quantity: 2}},
		}

		p := WithPricing(recipe, calculator.MarkupValue)[0]
		nearlyEqual(t, "cost", p.Cost, 4)
		nearlyEqual(t, "suggestedPrice", p.SuggestedPrice, 8)
		nearlyEqual(t, "unitsPerBatch", p.UnitsPerBatch, 5)
	})

	t.Run("order is preserved", func(t *testing.T) {
		recipe := fudgeRecipe()
		recipe.SellingUnits[0], recipe.SellingUnits[2] = recipe.SellingUnits[2], recipe.SellingUnits[0]

		priced := WithPricing(recipe, calculator.MarkupStandard)
		for i, p := range priced {
			if p.ID != recipe.SellingUnits[i].ID {
				t.Errorf("priced[%d].ID = %q, want %q", i, p.ID, recipe.SellingUnits[i].ID)
			}
		}
	})

	t.Run("no units", func(t *testing.T) {
		priced := WithPricing(&models.Recipe{TotalCost: 5, BatchYield: 1}, calculator.MarkupStandard)
		if priced == nil || len(priced) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", priced)
		}
	})
}

func TestFinite(t *testing.T) {
	tests := []struct {
		name   string
		recipe *models.Recipe
		unit   models.SellingUnit
		markup float64
		want   bool
	}{
		{"ordinary", &models.Recipe{TotalCost: 15, BatchYield: 3}, models.SellingUnit{Quantity: 0.25}, calculator.MarkupStandard, true},
		{"price overflows", &models.Recipe{TotalCost: 1e308, BatchYield: 1}, models.SellingUnit{Quantity: 1}, calculator.MarkupStandard, false},
		{"cost overflows", &models.Recipe{TotalCost: 10, BatchYield: 1e-308}, models.SellingUnit{Quantity: 1}, calculator.MarkupStandard, false},
		{"tiny quantity", &models.Recipe{TotalCost: 10, BatchYield: 3}, models.SellingUnit{Quantity: 1e-320}, calculator.MarkupStandard, false},
		{"override keeps it finite", &models.Recipe{TotalCost: 1e308, BatchYield: 1}, models.SellingUnit{Quantity: 1, PriceOverride: ptr(1e300)}, calculator.MarkupStandard, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PriceUnit(tt.recipe, tt.unit, tt.markup)
			if got := Finite(p); got != tt.want {
				t.Errorf("Finite(%+v) = %v, want %v", p, got, tt.want)
			}
		})
	}
}
