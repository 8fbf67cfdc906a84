package repo

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PostgresProductRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresProductRepository(db), mock
}

func TestPostgresProductRepository_Create(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products (name, price) VALUES ($1, $2) RETURNING id")).
		WithArgs("Monitor", 250.5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))

	p, err := r.Create(context.Background(), models.Product{Name: "Monitor", Price: 250.5})
	require.NoError(t, err)
	assert.Equal(t, models.Product{ID: 4, Name: "Monitor", Price: 250.5}, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProductRepository_Create_ConstraintViolation(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products")).
		WithArgs("Monitor", 1e20).
		WillReturnError(&pgconn.PgError{Code: "22003", Message: "numeric field overflow"})

	_, err := r.Create(context.Background(), models.Product{Name: "Monitor", Price: 1e20})
	assert.ErrorIs(t, err, ErrConstraintViolation)
	assert.NotErrorIs(t, err, ErrStorageUnavailable)
}

func TestPostgresProductRepository_Create_StorageUnavailable(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products")).
		WillReturnError(errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"))

	_, err := r.Create(context.Background(), models.Product{Name: "Monitor", Price: 10})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestPostgresProductRepository_GetAll(t *testing.T) {
	r, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "name", "price"}).
		AddRow(1, "Laptop", 1200.00).
		AddRow(2, "Smartphone", 800.00).
		AddRow(3, "Tablet", 400.00)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, price FROM products ORDER BY id")).
		WillReturnRows(rows)

	products, err := r.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Smartphone", products[1].Name)
	assert.Equal(t, 400.00, products[2].Price)
}

func TestPostgresProductRepository_GetAll_Empty(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, price FROM products ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price"}))

	products, err := r.GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestPostgresProductRepository_GetAll_StorageUnavailable(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, price FROM products")).
		WillReturnError(&pgconn.PgError{Code: "57P01", Message: "terminating connection due to administrator command"})

	_, err := r.GetAll(context.Background())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestPostgresProductRepository_GetByID(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, price FROM products WHERE id = $1")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price"}).AddRow(2, "Smartphone", 800.00))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, price FROM products WHERE id = $1")).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price"}))

	p, err := r.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Smartphone", p.Name)

	_, err = r.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func expectSchemaPrelude(mock sqlmock.Sqlmock, count int) {
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).
		WithArgs(schemaLockKey).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS products")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
}

func TestPostgresProductRepository_EnsureSchema_SeedsEmptyTable(t *testing.T) {
	r, mock := newMockRepo(t)

	expectSchemaPrelude(mock, 0)
	for _, p := range models.SeedProducts() {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products (name, price) VALUES ($1, $2)")).
			WithArgs(p.Name, p.Price).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, r.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProductRepository_EnsureSchema_SkipsSeedWhenPopulated(t *testing.T) {
	r, mock := newMockRepo(t)

	expectSchemaPrelude(mock, 3)
	mock.ExpectCommit()

	require.NoError(t, r.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProductRepository_EnsureSchema_RollsBackOnFailure(t *testing.T) {
	r, mock := newMockRepo(t)

	expectSchemaPrelude(mock, 0)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products")).
		WillReturnError(errors.New("connection reset by peer"))
	mock.ExpectRollback()

	err := r.EnsureSchema(context.Background())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}
