package repo

import (
	"context"
	"strings"
	"sync"

	"github.com/rogerio-castellano/product-catalog/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
	nextID   int
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
		nextID:   1,
	}
}

// Create adds a new product to the repository.
func (r *InMemoryProductRepository) Create(_ context.Context, product models.Product) (models.Product, error) {
	if strings.TrimSpace(product.Name) == "" {
		return models.Product{}, ErrConstraintViolation
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = r.nextID
	r.nextID++
	r.products = append(r.products, product)
	return product, nil
}

// GetAll retrieves all products from the repository.
func (r *InMemoryProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]models.Product, len(r.products))
	copy(products, r.products)
	return products, nil
}

// GetByID retrieves a product by its ID.
func (r *InMemoryProductRepository) GetByID(_ context.Context, id int) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// EnsureSchema seeds the repository when it is empty.
func (r *InMemoryProductRepository) EnsureSchema(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.products) > 0 {
		return nil
	}
	for _, p := range models.SeedProducts() {
		p.ID = r.nextID
		r.nextID++
		r.products = append(r.products, p)
	}
	return nil
}
