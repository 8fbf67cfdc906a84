package handlers_integrated_test_suite

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"

	handler "github.com/rogerio-castellano/product-catalog/internal/http/handlers"
)

func TestMain(m *testing.M) {
	ok, err := setupTestRepos()
	if err != nil {
		fmt.Println("❌ Could not connect to database:", err)
		os.Exit(1)
	}
	if !ok {
		fmt.Println("POSTGRESQL_CONNECTION not set, skipping integrated suite")
		os.Exit(0)
	}
	code := m.Run()
	database.Close()
	os.Exit(code)
}

func TestListProducts_AfterStartupReturnsSeed(t *testing.T) {
	resetProducts()
	r := newRouter()

	products, code := listProducts(r)
	if code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", code)
	}
	want := []handler.ProductResponse{
		{Id: 1, Name: "Laptop", Price: 1200.00},
		{Id: 2, Name: "Smartphone", Price: 800.00},
		{Id: 3, Name: "Tablet", Price: 400.00},
	}
	if len(products) != len(want) {
		t.Fatalf("expected %d products, got %d", len(want), len(products))
	}
	for i := range want {
		if products[i] != want[i] {
			t.Errorf("expected %+v, got %+v", want[i], products[i])
		}
	}
}

func TestEnsureSchema_Twice(t *testing.T) {
	resetProducts()

	if err := productRepo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("second EnsureSchema failed: %v", err)
	}
	if got := countProducts(); got != 3 {
		t.Errorf("expected 3 rows, got %d", got)
	}
}

func TestCreateProduct_PersistsWithNewID(t *testing.T) {
	resetProducts()
	r := newRouter()

	body, _ := json.Marshal(handler.ProductRequest{Name: "Monitor", Price: 199.95})
	w := createProduct(r, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	var resp handler.ProductResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.Id <= 3 {
		t.Errorf("expected a fresh id, got %d", resp.Id)
	}
	if resp.Price != 199.95 {
		t.Errorf("expected price 199.95, got %v", resp.Price)
	}
	if got := countProducts(); got != 4 {
		t.Errorf("expected 4 rows, got %d", got)
	}
}

func TestCreateProduct_MissingNameLeavesCount(t *testing.T) {
	resetProducts()
	r := newRouter()

	w := createProduct(r, []byte(`{"price": 5}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if got := countProducts(); got != 3 {
		t.Errorf("expected 3 rows, got %d", got)
	}
}

func TestCreateProduct_PriceOverflowIsRejected(t *testing.T) {
	resetProducts()
	r := newRouter()

	w := createProduct(r, []byte(`{"name": "Yacht", "price": 1e30}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if got := countProducts(); got != 3 {
		t.Errorf("expected 3 rows, got %d", got)
	}
}
