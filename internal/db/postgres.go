package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open prepares a connection pool for connString. It does not dial the server,
// but a connection string pgx cannot parse is rejected here.
func Open(connString string) (*sql.DB, error) {
	// sql.Open defers parsing to the first connect.
	if _, err := pgx.ParseConfig(connString); err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}

	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// Ping checks that the database answers within five seconds.
func Ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	return nil
}
