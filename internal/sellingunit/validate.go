package sellingunit

import (
	"strings"

	"github.com/mmynk/batchpricer/internal/models"
)

// Validation messages reported by Validate.
const (
	ErrNameRequired     = "name is required"
	ErrQuantityPositive = "quantity must be greater than zero"
	ErrExceedsBatch     = "quantity cannot exceed the whole batch"
	ErrNegativePrice    = "price override cannot be negative"
)

// ValidationResult lists every rule a selling unit breaks.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Validate checks a selling unit against the batch yield, when known.
// All rules are checked; it never mutates anything.
// Add and update operations do not call it: callers validate user input first.
func Validate(unit models.SellingUnit, batchYield *float64) ValidationResult {
	var errs []string

	if strings.TrimSpace(unit.Name) == "" {
		errs = append(errs, ErrNameRequired)
	}
	if !(unit.Quantity > 0) {
		errs = append(errs, ErrQuantityPositive)
	}
	if batchYield != nil && unit.Quantity > *batchYield {
		errs = append(errs, ErrExceedsBatch)
	}
	if unit.PriceOverride != nil && *unit.PriceOverride < 0 {
		errs = append(errs, ErrNegativePrice)
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// YieldOf returns the recipe's batch yield for validation, or nil when unset.
func YieldOf(recipe *models.Recipe) *float64 {
	if recipe.BatchYield == 0 {
		return nil
	}
	y := recipe.BatchYield
	return &y
}
