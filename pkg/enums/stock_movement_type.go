package enums

import "fmt"

// StockMovementType classifies journal rows written alongside stock mutations.
type StockMovementType string

const (
	StockMovementOrderReserve      StockMovementType = "order_reserve"
	StockMovementOrderReturn       StockMovementType = "order_return"
	StockMovementIngredientConsume StockMovementType = "ingredient_consume"
	StockMovementProductionRestock StockMovementType = "production_restock"
	StockMovementAdjustment        StockMovementType = "adjustment"
)

var validStockMovementTypes = []StockMovementType{
	StockMovementOrderReserve,
	StockMovementOrderReturn,
	StockMovementIngredientConsume,
	StockMovementProductionRestock,
	StockMovementAdjustment,
}

// IsValid reports whether the value matches the canonical stock movement enum.
func (t StockMovementType) IsValid() bool {
	for _, candidate := range validStockMovementTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseStockMovementType converts raw input into StockMovementType.
func ParseStockMovementType(value string) (StockMovementType, error) {
	for _, candidate := range validStockMovementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock movement type %q", value)
}
