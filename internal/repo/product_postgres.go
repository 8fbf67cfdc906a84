package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rogerio-castellano/product-catalog/internal/models"
)

const queryTimeout = 3 * time.Second

// schemaLockKey serializes EnsureSchema across service instances sharing a database.
const schemaLockKey = 727100

const createProductsTable = `CREATE TABLE IF NOT EXISTS products (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	price NUMERIC(18,2) NOT NULL DEFAULT 0
)`

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func (r *PostgresProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	query := `INSERT INTO products (name, price) VALUES ($1, $2) RETURNING id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if err := r.db.QueryRowContext(ctx, query, p.Name, p.Price).Scan(&p.ID); err != nil {
		return models.Product{}, classify(err)
	}
	return p, nil
}

func (r *PostgresProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	query := `SELECT id, name, price FROM products ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, classify(err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return products, nil
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id int) (models.Product, error) {
	query := `SELECT id, name, price FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p models.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, classify(err)
	}
	return p, nil
}

func (r *PostgresProductRepository) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, schemaLockKey); err != nil {
		return classify(err)
	}
	if _, err := tx.ExecContext(ctx, createProductsTable); err != nil {
		return classify(err)
	}

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return classify(err)
	}
	if count == 0 {
		for _, p := range models.SeedProducts() {
			if _, err := tx.ExecContext(ctx, `INSERT INTO products (name, price) VALUES ($1, $2)`, p.Name, p.Price); err != nil {
				return classify(err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return classify(err)
	}
	return nil
}

// classify maps driver errors onto the repository error taxonomy.
// SQLSTATE classes 22 (data exception) and 23 (integrity constraint) are caused by
// the stored values; everything else means the store could not do its job.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 {
		switch pgErr.Code[:2] {
		case "22", "23":
			return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
		}
	}
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}
