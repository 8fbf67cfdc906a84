package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/product-catalog/internal/models"
)

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	Create(ctx context.Context, product models.Product) (models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int) (models.Product, error)
	// EnsureSchema creates the products table and seeds it when empty. Safe to call repeatedly.
	EnsureSchema(ctx context.Context) error
}

var (
	// ErrProductNotFound is returned when a product is not found in the repository.
	ErrProductNotFound = errors.New("product not found")
	// ErrStorageUnavailable is returned when the backing store cannot be reached or fails.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrConstraintViolation is returned when the store rejects a value.
	ErrConstraintViolation = errors.New("constraint violation")
)
