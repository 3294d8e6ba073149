// Package models defines the core domain models for batch pricing.
//
// # Models
//
//   - Recipe: a product with its batch production cost and yield
//   - SellingUnit: a named, priceable portion of a batch (e.g. "Half Dozen")
//   - SellingUnitWithPricing: a SellingUnit with its derived cost and price
//   - User: an operator account allowed to manage recipes through the API
//
// # Design Principles
//
// 1. **Derived values are never stored**: SellingUnitWithPricing is recomputed on every
// read from the recipe's current cost, yield and units.
// 2. **Yield in one unit**: a recipe's BatchYield and every SellingUnit.Quantity share the
// recipe's BatchUnit. A zero BatchYield means Servings is the yield basis.
// 3. **At most one default**: exactly zero or one SellingUnit per recipe has IsDefault set.
// 4. **Avoid circular references**: units belong to a recipe by containment, not by pointer.
package models
