package repo

import (
	"context"
	"fmt"

	"github.com/rogerio-castellano/product-catalog/internal/models"
)

// UnavailableProductRepository stands in when no database connection could be opened.
// Every operation fails with ErrStorageUnavailable wrapping the original cause.
type UnavailableProductRepository struct {
	cause error
}

func NewUnavailableProductRepository(cause error) *UnavailableProductRepository {
	return &UnavailableProductRepository{cause: cause}
}

func (r *UnavailableProductRepository) err() error {
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, r.cause)
}

func (r *UnavailableProductRepository) Create(context.Context, models.Product) (models.Product, error) {
	return models.Product{}, r.err()
}

func (r *UnavailableProductRepository) GetAll(context.Context) ([]models.Product, error) {
	return nil, r.err()
}

func (r *UnavailableProductRepository) GetByID(context.Context, int) (models.Product, error) {
	return models.Product{}, r.err()
}

func (r *UnavailableProductRepository) EnsureSchema(context.Context) error {
	return r.err()
}
