package service

import (
	"github.com/mmynk/batchpricer/internal/calculator"
	"github.com/mmynk/batchpricer/internal/models"
)

// Service and procedure names. Procedures are served at these paths.
const (
	RecipeServiceName      = "batchpricer.v1.RecipeService"
	SellingUnitServiceName = "batchpricer.v1.SellingUnitService"
	AuthServiceName        = "batchpricer.v1.AuthService"

	CreateRecipeProcedure = "/" + RecipeServiceName + "/CreateRecipe"
	GetRecipeProcedure    = "/" + RecipeServiceName + "/GetRecipe"
	ListRecipesProcedure  = "/" + RecipeServiceName + "/ListRecipes"
	UpdateRecipeProcedure = "/" + RecipeServiceName + "/UpdateRecipe"
	DeleteRecipeProcedure = "/" + RecipeServiceName + "/DeleteRecipe"

	GetSellingUnitsWithPricingProcedure = "/" + SellingUnitServiceName + "/GetSellingUnitsWithPricing"
	AddSellingUnitProcedure             = "/" + SellingUnitServiceName + "/AddSellingUnit"
	UpdateSellingUnitProcedure          = "/" + SellingUnitServiceName + "/UpdateSellingUnit"
	RemoveSellingUnitProcedure          = "/" + SellingUnitServiceName + "/RemoveSellingUnit"
	SetBatchYieldProcedure              = "/" + SellingUnitServiceName + "/SetBatchYield"
	InitializeBatchSizesProcedure       = "/" + SellingUnitServiceName + "/InitializeBatchSizes"
	CalculateBatchesNeededProcedure     = "/" + SellingUnitServiceName + "/CalculateBatchesNeeded"
	PreviewDefaultSellingUnitsProcedure = "/" + SellingUnitServiceName + "/PreviewDefaultSellingUnits"
	ValidateSellingUnitProcedure        = "/" + SellingUnitServiceName + "/ValidateSellingUnit"
	ListPricingStrategiesProcedure      = "/" + SellingUnitServiceName + "/ListPricingStrategies"

	RegisterProcedure = "/" + AuthServiceName + "/Register"
	LoginProcedure    = "/" + AuthServiceName + "/Login"
)

// SellingUnit is the wire form of models.SellingUnit.
type SellingUnit struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Quantity      float64  `json:"quantity"`
	Unit          string   `json:"unit"`
	PriceOverride *float64 `json:"priceOverride,omitempty"`
	IsDefault     bool     `json:"isDefault"`
}

// PricedSellingUnit is the wire form of models.SellingUnitWithPricing.
type PricedSellingUnit struct {
	SellingUnit
	Cost           float64 `json:"cost"`
	SuggestedPrice float64 `json:"suggestedPrice"`
	ProfitMargin   float64 `json:"profitMargin"`
	UnitsPerBatch  float64 `json:"unitsPerBatch"`
}

// Recipe is the wire form of models.Recipe.
type Recipe struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	TotalCost    float64       `json:"totalCost"`
	BatchYield   float64       `json:"batchYield"`
	BatchUnit    string        `json:"batchUnit"`
	Servings     int           `json:"servings"`
	SellingUnits []SellingUnit `json:"sellingUnits"`
	CreatedBy    string        `json:"createdBy,omitempty"`
	CreatedAt    int64         `json:"createdAt"`
	UpdatedAt    int64         `json:"updatedAt"`
}

// Pricing selects the markup applied to suggested prices. An explicit Markup
// wins over Strategy; with neither, the server default applies.
type Pricing struct {
	Strategy string  `json:"strategy,omitempty"`
	Markup   float64 `json:"markup,omitempty"`
}

type PricingStrategy struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
}

type CreateRecipeRequest struct {
	Name       string  `json:"name"`
	TotalCost  float64 `json:"totalCost"`
	Servings   int     `json:"servings"`
	BatchYield float64 `json:"batchYield"`
	BatchUnit  string  `json:"batchUnit"`
}

type CreateRecipeResponse struct {
	Recipe Recipe `json:"recipe"`
}

type GetRecipeRequest struct {
	RecipeID string `json:"recipeId"`
	Pricing
}

type GetRecipeResponse struct {
	Recipe      Recipe              `json:"recipe"`
	PricedUnits []PricedSellingUnit `json:"pricedUnits"`
	Markup      float64             `json:"markup"`
}

type ListRecipesRequest struct{}

type ListRecipesResponse struct {
	Recipes []Recipe `json:"recipes"`
}

type UpdateRecipeRequest struct {
	RecipeID  string   `json:"recipeId"`
	Name      *string  `json:"name,omitempty"`
	TotalCost *float64 `json:"totalCost,omitempty"`
	Servings  *int     `json:"servings,omitempty"`
}

type UpdateRecipeResponse struct {
	Recipe Recipe `json:"recipe"`
}

type DeleteRecipeRequest struct {
	RecipeID string `json:"recipeId"`
}

type DeleteRecipeResponse struct{}

type GetSellingUnitsWithPricingRequest struct {
	RecipeID string `json:"recipeId"`
	Pricing
}

type GetSellingUnitsWithPricingResponse struct {
	Units  []PricedSellingUnit `json:"units"`
	Markup float64             `json:"markup"`
}

// SellingUnitInput carries the user-supplied fields of a new selling unit.
type SellingUnitInput struct {
	Name          string   `json:"name"`
	Quantity      float64  `json:"quantity"`
	Unit          string   `json:"unit"`
	PriceOverride *float64 `json:"priceOverride,omitempty"`
	IsDefault     bool     `json:"isDefault"`
}

type AddSellingUnitRequest struct {
	RecipeID string           `json:"recipeId"`
	Unit     SellingUnitInput `json:"unit"`
}

type AddSellingUnitResponse struct {
	Unit SellingUnit `json:"unit"`
}

type UpdateSellingUnitRequest struct {
	RecipeID           string   `json:"recipeId"`
	UnitID             string   `json:"unitId"`
	Name               *string  `json:"name,omitempty"`
	Quantity           *float64 `json:"quantity,omitempty"`
	Unit               *string  `json:"unit,omitempty"`
	PriceOverride      *float64 `json:"priceOverride,omitempty"`
	ClearPriceOverride bool     `json:"clearPriceOverride,omitempty"`
	IsDefault          *bool    `json:"isDefault,omitempty"`
}

type UpdateSellingUnitResponse struct {
	Unit SellingUnit `json:"unit"`
}

type RemoveSellingUnitRequest struct {
	RecipeID string `json:"recipeId"`
	UnitID   string `json:"unitId"`
}

type RemoveSellingUnitResponse struct{}

type SetBatchYieldRequest struct {
	RecipeID   string  `json:"recipeId"`
	BatchYield float64 `json:"batchYield"`
	BatchUnit  string  `json:"batchUnit"`
}

type SetBatchYieldResponse struct {
	Recipe Recipe `json:"recipe"`
}

// InitializeBatchSizesRequest replaces a recipe's selling units with presets.
// ConfirmReplace must be set when the recipe already has units.
type InitializeBatchSizesRequest struct {
	RecipeID       string  `json:"recipeId"`
	BatchYield     float64 `json:"batchYield"`
	BatchUnit      string  `json:"batchUnit"`
	ConfirmReplace bool    `json:"confirmReplace,omitempty"`
}

type InitializeBatchSizesResponse struct {
	Recipe Recipe `json:"recipe"`
}

// CalculateBatchesNeededRequest sizes production for an order. The selling-unit
// quantity comes from UnitID when set, otherwise from Quantity.
type CalculateBatchesNeededRequest struct {
	RecipeID      string  `json:"recipeId"`
	UnitID        string  `json:"unitId,omitempty"`
	Quantity      float64 `json:"quantity,omitempty"`
	OrderQuantity int     `json:"orderQuantity"`
}

type CalculateBatchesNeededResponse struct {
	Batches int `json:"batches"`
}

type PreviewDefaultSellingUnitsRequest struct {
	BatchUnit string `json:"batchUnit"`
}

type PreviewDefaultSellingUnitsResponse struct {
	Units []SellingUnit `json:"units"`
}

// ValidateSellingUnitRequest checks a unit against the yield of RecipeID when
// set, otherwise against BatchYield when set.
type ValidateSellingUnitRequest struct {
	RecipeID   string           `json:"recipeId,omitempty"`
	BatchYield *float64         `json:"batchYield,omitempty"`
	Unit       SellingUnitInput `json:"unit"`
}

type ValidateSellingUnitResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

type ListPricingStrategiesRequest struct{}

type ListPricingStrategiesResponse struct {
	Strategies []PricingStrategy `json:"strategies"`
	Default    string            `json:"default"`
}

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by Register and Login.
type AuthResponse struct {
	User      User   `json:"user"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

func toSellingUnit(u models.SellingUnit) SellingUnit {
	return SellingUnit{
		ID:            u.ID,
		Name:          u.Name,
		Quantity:      u.Quantity,
		Unit:          u.Unit,
		PriceOverride: u.PriceOverride,
		IsDefault:     u.IsDefault,
	}
}

func toSellingUnits(units []models.SellingUnit) []SellingUnit {
	out := make([]SellingUnit, len(units))
	for i, u := range units {
		out[i] = toSellingUnit(u)
	}
	return out
}

func toPricedUnits(priced []models.SellingUnitWithPricing) []PricedSellingUnit {
	out := make([]PricedSellingUnit, len(priced))
	for i, p := range priced {
		out[i] = PricedSellingUnit{
			SellingUnit:    toSellingUnit(p.SellingUnit),
			Cost:           p.Cost,
			SuggestedPrice: p.SuggestedPrice,
			ProfitMargin:   p.ProfitMargin,
			UnitsPerBatch:  p.UnitsPerBatch,
		}
	}
	return out
}

func toRecipe(r *models.Recipe) Recipe {
	return Recipe{
		ID:           r.ID,
		Name:         r.Name,
		TotalCost:    r.TotalCost,
		BatchYield:   r.BatchYield,
		BatchUnit:    r.BatchUnit,
		Servings:     r.Servings,
		SellingUnits: toSellingUnits(r.SellingUnits),
		CreatedBy:    r.CreatedBy,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toStrategies(strategies []calculator.Strategy) []PricingStrategy {
	out := make([]PricingStrategy, len(strategies))
	for i, s := range strategies {
		out[i] = PricingStrategy{Name: s.Name, Multiplier: s.Multiplier}
	}
	return out
}

func (in SellingUnitInput) model() models.SellingUnit {
	return models.SellingUnit{
		Name:          in.Name,
		Quantity:      in.Quantity,
		Unit:          in.Unit,
		PriceOverride: in.PriceOverride,
		IsDefault:     in.IsDefault,
	}
}

func (r *UpdateSellingUnitRequest) update() models.SellingUnitUpdate {
	return models.SellingUnitUpdate{
		Name:               r.Name,
		Quantity:           r.Quantity,
		Unit:               r.Unit,
		PriceOverride:      r.PriceOverride,
		ClearPriceOverride: r.ClearPriceOverride,
		IsDefault:          r.IsDefault,
	}
}
