package models

// Recipe is a product whose batch cost is split into sellable portions.
type Recipe struct {
	// ID is the unique identifier for the recipe.
	ID string

	// Name is the display name of the recipe (e.g., "Chocolate Fudge").
	Name string

	// TotalCost is the aggregate production cost of one batch.
	TotalCost float64

	// BatchYield is the quantity one batch produces, expressed in BatchUnit.
	// Zero means the yield is unset and Servings is used instead.
	BatchYield float64

	// CreatedBy is the ID of the operator who created the recipe, empty when
	// the server runs without authentication.
	CreatedBy string

	// BatchUnit is the unit label for BatchYield (e.g., "lb", "cookie").
	BatchUnit string

	// Servings is the fallback yield when BatchYield is unset.
	Servings int

	// SellingUnits are the portions this recipe can be sold as, in display order.
	SellingUnits []SellingUnit

	// CreatedAt is the Unix timestamp when the recipe was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change to the recipe.
	UpdatedAt int64
}

// SellingUnit is a named, priceable fraction of a batch.
type SellingUnit struct {
	ID       string
	Name     string
	Quantity float64 // in the recipe's BatchUnit
	Unit     string

	// PriceOverride is a fixed price that replaces the markup-based suggestion.
	PriceOverride *float64

	IsDefault bool
}

// SellingUnitWithPricing is a SellingUnit with values derived from its recipe.
// It is a projection and is never persisted.
type SellingUnitWithPricing struct {
	SellingUnit

	Cost           float64
	SuggestedPrice float64
	ProfitMargin   float64 // percentage of price, 0 when the price is 0
	UnitsPerBatch  float64 // yield / quantity; may be fractional
}

// SellingUnitUpdate lists the fields of a SellingUnit to change.
// Nil fields are left untouched.
type SellingUnitUpdate struct {
	Name     *string
	Quantity *float64
	Unit     *string

	// PriceOverride sets a new override. ClearPriceOverride removes it and wins
	// over PriceOverride when both are set.
	PriceOverride      *float64
	ClearPriceOverride bool

	IsDefault *bool
}

// Apply returns a copy of unit with the update merged in.
func (u SellingUnitUpdate) Apply(unit SellingUnit) SellingUnit {
	if u.Name != nil {
		unit.Name = *u.Name
	}
	if u.Quantity != nil {
		unit.Quantity = *u.Quantity
	}
	if u.Unit != nil {
		unit.Unit = *u.Unit
	}
	if u.PriceOverride != nil {
		price := *u.PriceOverride
		unit.PriceOverride = &price
	}
	if u.ClearPriceOverride {
		unit.PriceOverride = nil
	}
	if u.IsDefault != nil {
		unit.IsDefault = *u.IsDefault
	}
	return unit
}

// RecipePatch lists the recipe fields to persist in one update.
// Nil fields are left untouched. A non-nil SellingUnits replaces the whole list.
type RecipePatch struct {
	Name         *string
	TotalCost    *float64
	Servings     *int
	BatchYield   *float64
	BatchUnit    *string
	SellingUnits *[]SellingUnit
}

// FindSellingUnit returns the index of the unit with the given ID, or -1.
func (r *Recipe) FindSellingUnit(unitID string) int {
	for i := range r.SellingUnits {
		if r.SellingUnits[i].ID == unitID {
			return i
		}
	}
	return -1
}
