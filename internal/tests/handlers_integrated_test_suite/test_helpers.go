package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/config"
	"github.com/rogerio-castellano/product-catalog/internal/db"
	api "github.com/rogerio-castellano/product-catalog/internal/http"
	handler "github.com/rogerio-castellano/product-catalog/internal/http/handlers"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
)

var (
	productRepo *repo.PostgresProductRepository
	database    *sql.DB
	connString  string
)

// setupTestRepos connects to POSTGRESQL_CONNECTION. It reports false when the
// variable is unset so the suite can be skipped.
func setupTestRepos() (bool, error) {
	connString = os.Getenv("POSTGRESQL_CONNECTION")
	if connString == "" {
		return false, nil
	}

	var err error
	database, err = db.Open(connString)
	if err != nil {
		return false, err
	}
	if err := db.Ping(context.Background(), database); err != nil {
		return false, err
	}

	productRepo = repo.NewPostgresProductRepository(database)
	return true, nil
}

func newRouter() http.Handler {
	server := handler.NewServer(productRepo, config.AppConfig{ConnectionString: connString}, nil)
	return api.NewRouter(server, api.Options{ServiceName: "integration"})
}

func resetProducts() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := database.ExecContext(ctx, "DROP TABLE IF EXISTS products")
	if err != nil {
		fmt.Println(fmt.Errorf("failed to drop products table: %w", err))
	}
	if err := productRepo.EnsureSchema(ctx); err != nil {
		fmt.Println(fmt.Errorf("failed to ensure schema: %w", err))
	}
}

func countProducts() int {
	var count int
	if err := database.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		fmt.Println(fmt.Errorf("count failed: %w", err))
	}
	return count
}

func createProduct(r http.Handler, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func listProducts(r http.Handler) ([]handler.ProductResponse, int) {
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var products []handler.ProductResponse
	_ = json.NewDecoder(w.Body).Decode(&products)
	return products, w.Code
}
