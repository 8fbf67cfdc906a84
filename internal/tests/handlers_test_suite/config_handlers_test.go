package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/rogerio-castellano/product-catalog/internal/config"
	handler "github.com/rogerio-castellano/product-catalog/internal/http/handlers"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
)

func TestGetConfigHandler_EchoesConnectionString(t *testing.T) {
	r, _ := newSeededRouter()

	w := get(r, "/config")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var resp handler.ConfigResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.ConnectionString != testConnectionString {
		t.Errorf("expected %q, got %q", testConnectionString, resp.ConnectionString)
	}
}

func TestGetConfigHandler_DefaultPlaceholder(t *testing.T) {
	t.Setenv("POSTGRESQL_CONNECTION", "")
	t.Chdir(t.TempDir())

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("error loading config: %v", err)
	}
	r := newRouter(repo.NewInMemoryProductRepository(), cfg.App())

	w := get(r, "/config")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	expected := `{"connectionString":"DefaultConnectionString"}`
	if w.Body.String() != expected {
		t.Errorf("expected %s, got %s", expected, w.Body.String())
	}
}
