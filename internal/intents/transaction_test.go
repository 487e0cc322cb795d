package intents

import (
	"context"
	"testing"

	"github.com/verdeflow/verde-assistant-service/types"
)

func TestRecordTransaction_ClassifiedExpense(t *testing.T) {
	store := newMemStore()
	deps := testDeps(store)

	result, err := RecordTransaction(context.Background(), deps, "user-1", map[string]interface{}{
		"description": "comprei gasolina para a roçadeira",
		"amount":      float64(80),
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	tx := result.Data.(types.Transaction)
	if tx.CategoryName != "Combustível Máquinas" {
		t.Errorf("expected classified category, got %q", tx.CategoryName)
	}
	if tx.Type != "expense" {
		t.Errorf("expected default type expense, got %q", tx.Type)
	}
	if tx.Date != "2026-09-01" {
		t.Errorf("expected default date from clock, got %q", tx.Date)
	}
	// Category and its parent were created on the fly.
	if store.insertCount["categories"] != 2 {
		t.Errorf("expected category + parent inserts, got %d", store.insertCount["categories"])
	}
}

func TestRecordTransaction_UnclassifiedKeepsNoCategory(t *testing.T) {
	store := newMemStore()
	deps := testDeps(store)

	result, err := RecordTransaction(context.Background(), deps, "user-1", map[string]interface{}{
		"description": "almoço da equipe",
		"amount":      float64(45.5),
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	tx := result.Data.(types.Transaction)
	if tx.CategoryID != "" || tx.CategoryName != "" {
		t.Errorf("unclassified transaction should have no category, got %q/%q", tx.CategoryID, tx.CategoryName)
	}
}

func TestRecordTransaction_InventoryPurchaseRoutesToStock(t *testing.T) {
	store := newMemStore()
	deps := testDeps(store)

	_, err := RecordTransaction(context.Background(), deps, "user-1", map[string]interface{}{
		"description": "preciso de fertilizante para o jardim",
		"amount":      float64(120),
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if store.insertCount["transactions"] != 0 {
		t.Error("inventory purchases must not create a plain transaction")
	}
	if store.insertCount["stock_movements"] != 1 {
		t.Errorf("expected 1 stock movement, got %d", store.insertCount["stock_movements"])
	}
	if store.insertCount["products"] != 1 {
		t.Errorf("expected the product to be created, got %d inserts", store.insertCount["products"])
	}
}

func TestRecordTransaction_ReusesExistingCategory(t *testing.T) {
	store := newMemStore()
	store.seed("categories", types.Category{ID: "cat-9", OwnerID: "user-1", Name: "Combustível Máquinas"})
	deps := testDeps(store)

	result, err := RecordTransaction(context.Background(), deps, "user-1", map[string]interface{}{
		"description": "gasolina da roçadeira",
		"amount":      float64(60),
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	tx := result.Data.(types.Transaction)
	if tx.CategoryID != "cat-9" {
		t.Errorf("expected existing category to be reused, got %q", tx.CategoryID)
	}
	if store.insertCount["categories"] != 0 {
		t.Errorf("no category should be created, got %d", store.insertCount["categories"])
	}
}

func TestRegisterStockPurchase_UpdatesQuantity(t *testing.T) {
	store := newMemStore()
	store.seed("products", types.Product{ID: "prod-1", OwnerID: "user-1", Name: "Adubo NPK", Quantity: 3})
	deps := testDeps(store)

	_, err := RegisterStockPurchase(context.Background(), deps, "user-1", map[string]interface{}{
		"product_name": "adubo npk",
		"quantity":     float64(5),
		"unit_cost":    float64(35),
	})
	if err != nil {
		t.Fatalf("purchase failed: %v", err)
	}

	var products []types.Product
	if err := store.Find(context.Background(), "products", nil, &products); err != nil {
		t.Fatal(err)
	}
	if products[0].Quantity != 8 {
		t.Errorf("expected quantity 8 after purchase, got %g", products[0].Quantity)
	}
	if store.insertCount["stock_movements"] != 1 {
		t.Errorf("expected 1 movement, got %d", store.insertCount["stock_movements"])
	}
}

func TestCreateClient_ExistingNameIsLookup(t *testing.T) {
	store := newMemStore()
	store.seed("clients", types.Client{ID: "client-1", OwnerID: "user-1", Name: "Dona Marta"})
	deps := testDeps(store)

	result, err := CreateClient(context.Background(), deps, "user-1", map[string]interface{}{
		"name": "dona marta",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !result.Existed || result.ID != "client-1" {
		t.Errorf("expected existing client to be returned, got %+v", result)
	}
	if store.insertCount["clients"] != 0 {
		t.Error("existing client must not be re-inserted")
	}
}
