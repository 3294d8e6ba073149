package sellingunit

import (
	"math"
	"testing"

	"github.com/mmynk/batchpricer/internal/models"
)

func TestBatchesNeeded(t *testing.T) {
	tests := []struct {
		name          string
		recipe        *models.Recipe
		unitQuantity  float64
		orderQuantity int
		want          int
	}{
		{
			name:          "exact fit",
			recipe:        &models.Recipe{BatchYield: 3},
			unitQuantity:  0.25,
			orderQuantity: 12,
			want:          1,
		},
		{
			name:          "one over rounds up",
			recipe:        &models.Recipe{BatchYield: 3},
			unitQuantity:  0.25,
			orderQuantity: 13,
			want:          2,
		},
		{
			name:          "dozens of cookies",
			recipe:        &models.Recipe{BatchYield: 24},
			unitQuantity:  12,
			orderQuantity: 5,
			want:          3,
		},
		{
			name:          "servings fallback",
			recipe:        &models.Recipe{Servings: 8},
			unitQuantity:  1,
			orderQuantity: 9,
			want:          2,
		},
		{
			name:          "no yield information",
			recipe:        &models.Recipe{},
			unitQuantity:  0.5,
			orderQuantity: 3,
			want:          2,
		},
		{
			name:          "empty order",
			recipe:        &models.Recipe{BatchYield: 3},
			unitQuantity:  1,
			orderQuantity: 0,
			want:          0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BatchesNeeded(tt.recipe, tt.unitQuantity, tt.orderQuantity)
			if got != tt.want {
				t.Errorf("BatchesNeeded() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBatchesNeededIsCeiling(t *testing.T) {
	recipe := &models.Recipe{BatchYield: 2.75}
	for _, q := range []float64{0.1, 0.25, 0.33, 1, 2.75, 3} {
		for n := 0; n < 50; n++ {
			exact := q * float64(n) / recipe.BatchYield
			got := BatchesNeeded(recipe, q, n)
			if float64(got) < exact || float64(got)-exact >= 1 {
				t.Fatalf("BatchesNeeded(q=%v, n=%d) = %d, exact %v", q, n, got, exact)
			}
			if float64(got) != math.Ceil(exact) {
				t.Fatalf("BatchesNeeded(q=%v, n=%d) = %d, want %v", q, n, got, math.Ceil(exact))
			}
		}
	}
}

func TestBatchesNeededSaturates(t *testing.T) {
	recipe := &models.Recipe{BatchYield: 1e-300}

	got := BatchesNeeded(recipe, 1e300, math.MaxInt32)
	if got != math.MaxInt {
		t.Errorf("BatchesNeeded = %d, want math.MaxInt", got)
	}
	if got < 0 {
		t.Error("result must never wrap negative")
	}
	if r := BatchesRequired(recipe, 1e300, math.MaxInt32); !math.IsInf(r, 1) {
		t.Errorf("BatchesRequired = %v, want +Inf", r)
	}
}
