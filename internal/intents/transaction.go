package intents

import (
	"context"
	"fmt"

	"github.com/verdeflow/verde-assistant-service/classifier"
	"github.com/verdeflow/verde-assistant-service/types"
)

// RecordTransaction is the executor behind the record_transaction intent.
// The description is run through the text classifier: an inventory match
// routes the amount into a stock purchase, an expense match pre-fills the
// ledger category.
func RecordTransaction(ctx context.Context, deps *Dependencies, ownerID string, params map[string]interface{}) (*types.ExecutionResult, error) {
	description := paramString(params, "description")
	amount := paramFloat(params, "amount")
	txType := paramString(params, "type")
	if txType == "" {
		txType = "expense"
	}
	date := paramString(params, "date")
	if date == "" {
		date = deps.now().Format("2006-01-02")
	}

	classification := classifier.ClassifyText(description)
	if classification != nil && classification.Kind == types.ClassInventory {
		return recordStockPurchase(ctx, deps, ownerID, classification.ProductName, 1, amount, date)
	}

	tx := types.Transaction{
		ID:          deps.newID(),
		OwnerID:     ownerID,
		Description: description,
		Amount:      amount,
		Type:        txType,
		Date:        date,
	}
	if classification != nil {
		category, err := ensureCategory(ctx, deps, ownerID, classification.CategoryName, classification.ParentCategoryName)
		if err == nil {
			tx.CategoryID = category.ID
			tx.CategoryName = category.Name
		}
	}

	if err := deps.Store.Insert(ctx, "transactions", &tx, nil); err != nil {
		return nil, types.NewError(types.ErrExecution, "failed to record transaction: %v", err)
	}

	msg := fmt.Sprintf("Lançamento de R$ %.2f registrado.", amount)
	if tx.CategoryName != "" {
		msg = fmt.Sprintf("Lançamento de R$ %.2f registrado em %q.", amount, tx.CategoryName)
	}
	return &types.ExecutionResult{ID: tx.ID, Message: msg, Data: tx}, nil
}

// ensureCategory finds a ledger category by name, creating it (and its
// parent) when absent.
func ensureCategory(ctx context.Context, deps *Dependencies, ownerID, name, parentName string) (*types.Category, error) {
	var found []types.Category
	if err := deps.Store.Find(ctx, "categories", map[string]string{"name": "eq." + name}, &found); err != nil {
		return nil, err
	}
	if len(found) > 0 {
		return &found[0], nil
	}

	parentID := ""
	if parentName != "" {
		var parents []types.Category
		if err := deps.Store.Find(ctx, "categories", map[string]string{"name": "eq." + parentName}, &parents); err == nil {
			if len(parents) > 0 {
				parentID = parents[0].ID
			} else {
				parent := types.Category{ID: deps.newID(), OwnerID: ownerID, Name: parentName}
				if err := deps.Store.Insert(ctx, "categories", &parent, nil); err == nil {
					parentID = parent.ID
				}
			}
		}
	}

	category := types.Category{ID: deps.newID(), OwnerID: ownerID, Name: name, ParentID: parentID}
	if err := deps.Store.Insert(ctx, "categories", &category, nil); err != nil {
		return nil, err
	}
	return &category, nil
}
