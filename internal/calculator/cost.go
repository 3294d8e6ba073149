package calculator

// Batch holds the recipe figures the cost calculation depends on.
type Batch struct {
	TotalCost  float64
	BatchYield float64 // 0 means "use Servings as the yield basis"
	Servings   int
}

// YieldBasis returns the quantity one batch produces: the batch yield when set,
// otherwise the servings count, never less than 1.
func (b Batch) YieldBasis() float64 {
	if b.BatchYield != 0 {
		return b.BatchYield
	}
	if b.Servings > 0 {
		return float64(b.Servings)
	}
	return 1
}

// CostPerBaseUnit returns the production cost of one base unit of the batch.
// Based on: total_cost / batch_yield, falling back to total_cost / max(servings, 1).
func CostPerBaseUnit(b Batch) float64 {
	return b.TotalCost / b.YieldBasis()
}

// SellingUnitCost returns the cost of a (possibly fractional) quantity of base units.
func SellingUnitCost(b Batch, quantity float64) float64 {
	return CostPerBaseUnit(b) * quantity
}

// SuggestedPrice applies a markup multiplier to a cost.
func SuggestedPrice(cost, markup float64) float64 {
	return cost * markup
}

// ProfitMargin returns the margin of price over cost as a percentage of price.
// A zero price yields a zero margin.
func ProfitMargin(cost, price float64) float64 {
	if price == 0 {
		return 0
	}
	return ((price - cost) / price) * 100
}

// UnitsPerBatch returns how many units of the given quantity one batch could produce.
// The result is a continuous ratio and may be fractional.
func UnitsPerBatch(b Batch, quantity float64) float64 {
	return b.YieldBasis() / quantity
}
