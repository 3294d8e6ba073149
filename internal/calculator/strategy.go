package calculator

import "strings"

// Markup multipliers for the fixed pricing strategies.
const (
	MarkupValue    = 2.0
	MarkupStandard = 2.5
	MarkupPremium  = 3.0
	MarkupLuxury   = 3.5
)

// Strategy is a named markup multiplier callers can present as a pricing choice.
type Strategy struct {
	Name       string
	Multiplier float64
}

var strategies = []Strategy{
	{Name: "value", Multiplier: MarkupValue},
	{Name: "standard", Multiplier: MarkupStandard},
	{Name: "premium", Multiplier: MarkupPremium},
	{Name: "luxury", Multiplier: MarkupLuxury},
}

// DefaultStrategy is the strategy applied when the caller does not pick one.
var DefaultStrategy = strategies[1]

// Strategies returns the pricing strategies ordered from cheapest to most expensive.
// The returned slice is a copy.
func Strategies() []Strategy {
	out := make([]Strategy, len(strategies))
	copy(out, strategies)
	return out
}

// StrategyByName looks up a strategy by case-insensitive name.
func StrategyByName(name string) (Strategy, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range strategies {
		if s.Name == name {
			return s, true
		}
	}
	return Strategy{}, false
}
