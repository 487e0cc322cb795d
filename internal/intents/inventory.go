package intents

import (
	"context"
	"fmt"
	"strings"

	"github.com/verdeflow/verde-assistant-service/types"
)

// RegisterStockPurchase is the executor behind the register_stock_purchase
// intent.
func RegisterStockPurchase(ctx context.Context, deps *Dependencies, ownerID string, params map[string]interface{}) (*types.ExecutionResult, error) {
	quantity := paramFloat(params, "quantity")
	if quantity <= 0 {
		quantity = 1
	}
	date := paramString(params, "date")
	if date == "" {
		date = deps.now().Format("2006-01-02")
	}
	return recordStockPurchase(ctx, deps, ownerID, paramString(params, "product_name"), quantity, paramFloat(params, "unit_cost"), date)
}

// recordStockPurchase ensures the product exists, inserts the movement, and
// bumps the cached quantity. The quantity update is phase two of the write:
// a failure there is logged upstream but never unwinds the movement row.
func recordStockPurchase(ctx context.Context, deps *Dependencies, ownerID, productName string, quantity, unitCost float64, date string) (*types.ExecutionResult, error) {
	productName = strings.TrimSpace(productName)
	if productName == "" {
		return nil, types.InvalidParams([]string{"product_name"})
	}

	product, err := ensureProduct(ctx, deps, ownerID, productName)
	if err != nil {
		return nil, types.NewError(types.ErrExecution, "failed to resolve product: %v", err)
	}

	movement := types.StockMovement{
		ID:        deps.newID(),
		OwnerID:   ownerID,
		ProductID: product.ID,
		Quantity:  quantity,
		Kind:      "purchase",
		UnitCost:  unitCost,
		Date:      date,
	}
	if err := deps.Store.Insert(ctx, "stock_movements", &movement, nil); err != nil {
		return nil, types.NewError(types.ErrExecution, "failed to record stock movement: %v", err)
	}

	// Best effort: the movement row is the source of truth.
	_ = deps.Store.Update(ctx, "products", product.ID, map[string]interface{}{
		"quantity": product.Quantity + quantity,
	})

	return &types.ExecutionResult{
		ID:      movement.ID,
		Message: fmt.Sprintf("Compra de %g x %q registrada no estoque.", quantity, product.Name),
		Data:    movement,
	}, nil
}

func ensureProduct(ctx context.Context, deps *Dependencies, ownerID, name string) (*types.Product, error) {
	var found []types.Product
	if err := deps.Store.Find(ctx, "products", map[string]string{"name": "ilike." + name}, &found); err != nil {
		return nil, err
	}
	if len(found) > 0 {
		return &found[0], nil
	}
	product := types.Product{ID: deps.newID(), OwnerID: ownerID, Name: name}
	if err := deps.Store.Insert(ctx, "products", &product, nil); err != nil {
		return nil, err
	}
	return &product, nil
}
