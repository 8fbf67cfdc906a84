package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	api "github.com/rogerio-castellano/product-catalog/internal/http"
	handler "github.com/rogerio-castellano/product-catalog/internal/http/handlers"
	"github.com/rogerio-castellano/product-catalog/internal/config"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
)

const testConnectionString = "Host=localhost;Database=catalog;Username=workshop;Password=workshop"

// newSeededRouter returns a router over a freshly seeded in-memory repository.
func newSeededRouter() (http.Handler, *repo.InMemoryProductRepository) {
	productRepo := repo.NewInMemoryProductRepository()
	if err := productRepo.EnsureSchema(context.Background()); err != nil {
		panic(err)
	}
	return newRouter(productRepo, config.AppConfig{ConnectionString: testConnectionString}), productRepo
}

func newRouter(productRepo repo.ProductRepository, app config.AppConfig) http.Handler {
	server := handler.NewServer(productRepo, app, nil)
	return api.NewRouter(server, api.Options{ServiceName: "test"})
}

func createProduct(r http.Handler, p handler.ProductRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(p)
	return postProducts(r, body)
}

func postProducts(r http.Handler, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getProducts(r http.Handler) ([]handler.ProductResponse, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var products []handler.ProductResponse
	_ = json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&products)
	return products, w
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
