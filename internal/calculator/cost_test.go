package calculator

import (
	"math"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestCostPerBaseUnit(t *testing.T) {
	tests := []struct {
		name  string
		batch Batch
		want  float64
	}{
		{
			name:  "batch yield set",
			batch: Batch{TotalCost: 15.0, BatchYield: 3, Servings: 10},
			want:  5.0,
		},
		{
			name:  "batch yield unset falls back to servings",
			batch: Batch{TotalCost: 12.0, Servings: 8},
			want:  1.5,
		},
		{
			name:  "zero servings treated as one",
			batch: Batch{TotalCost: 12.0, Servings: 0},
			want:  12.0,
		},
		{
			name:  "negative servings treated as one",
			batch: Batch{TotalCost: 12.0, Servings: -4},
			want:  12.0,
		},
		{
			name:  "fractional yield",
			batch: Batch{TotalCost: 10.0, BatchYield: 2.5},
			want:  4.0,
		},
		{
			name:  "zero cost",
			batch: Batch{TotalCost: 0, BatchYield: 24},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nearlyEqual(t, "CostPerBaseUnit", CostPerBaseUnit(tt.batch), tt.want)
		})
	}
}

func TestSellingUnitCost(t *testing.T) {
	fudge := Batch{TotalCost: 15.0, BatchYield: 3}

	nearlyEqual(t, "quarter pound", SellingUnitCost(fudge, 0.25), 1.25)
	nearlyEqual(t, "half pound", SellingUnitCost(fudge, 0.5), 2.5)
	nearlyEqual(t, "whole batch", SellingUnitCost(fudge, 3), 15.0)
	nearlyEqual(t, "zero quantity", SellingUnitCost(fudge, 0), 0)
}

func TestSuggestedPrice(t *testing.T) {
	nearlyEqual(t, "standard", SuggestedPrice(1.25, MarkupStandard), 3.125)
	nearlyEqual(t, "value", SuggestedPrice(1.5, MarkupValue), 3.0)
	nearlyEqual(t, "premium", SuggestedPrice(2.0, MarkupPremium), 6.0)
	nearlyEqual(t, "luxury", SuggestedPrice(2.0, MarkupLuxury), 7.0)
}

func TestProfitMargin(t *testing.T) {
	tests := []struct {
		name  string
		cost  float64
		price float64
		want  float64
	}{
		{name: "standard markup", cost: 1.25, price: 3.125, want: 60},
		{name: "break even", cost: 2, price: 2, want: 0},
		{name: "loss", cost: 4, price: 2, want: -100},
		{name: "zero price is clamped", cost: 5, price: 0, want: 0},
		{name: "zero price and cost", cost: 0, price: 0, want: 0},
		{name: "free to make", cost: 0, price: 3, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProfitMargin(tt.cost, tt.price)
			if math.IsNaN(got) || math.IsInf(got, 0) {
				t.Fatalf("ProfitMargin(%v, %v) = %v, want finite", tt.cost, tt.price, got)
			}
			nearlyEqual(t, "ProfitMargin", got, tt.want)
		})
	}
}

func TestUnitsPerBatch(t *testing.T) {
	nearlyEqual(t, "quarter pounds in 3 lb", UnitsPerBatch(Batch{BatchYield: 3}, 0.25), 12)
	nearlyEqual(t, "half dozens in 24 cookies", UnitsPerBatch(Batch{BatchYield: 24}, 6), 4)
	nearlyEqual(t, "servings fallback", UnitsPerBatch(Batch{Servings: 10}, 4), 2.5)
	nearlyEqual(t, "no yield information", UnitsPerBatch(Batch{}, 0.5), 2)
}

func TestStrategies(t *testing.T) {
	got := Strategies()
	want := []Strategy{
		{Name: "value", Multiplier: 2.0},
		{Name: "standard", Multiplier: 2.5},
		{Name: "premium", Multiplier: 3.0},
		{Name: "luxury", Multiplier: 3.5},
	}
	if len(got) != len(want) {
		t.Fatalf("Strategies() returned %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Strategies()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	got[0].Multiplier = 99
	if Strategies()[0].Multiplier != MarkupValue {
		t.Error("Strategies() must return a copy")
	}

	if DefaultStrategy.Multiplier != MarkupStandard {
		t.Errorf("DefaultStrategy = %+v, want standard", DefaultStrategy)
	}
}

func TestStrategyByName(t *testing.T) {
	s, ok := StrategyByName("  Premium ")
	if !ok || s.Multiplier != MarkupPremium {
		t.Errorf("StrategyByName(Premium) = %+v, %v", s, ok)
	}

	if _, ok := StrategyByName("bargain"); ok {
		t.Error("expected unknown strategy to be rejected")
	}
}
