// Package pgtest starts a disposable PostgreSQL for integration suites.
package pgtest

import (
	"context"
	"log/slog"
	"time"

	postgres_adapter "mealorder/internal/adapters/out/postgres"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// Start runs postgres:15-alpine, connects through the given driver and
// migrates the schema. The caller terminates the container.
func Start(ctx context.Context, driver string) (*postgres.PostgresContainer, *gorm.DB, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, nil, err
	}

	db, err := postgres_adapter.Open(postgres_adapter.Options{DSN: dsn, Driver: driver, MaxOpenConns: 10}, slog.Default())
	if err != nil {
		return container, nil, err
	}

	if err = postgres_adapter.Migrate(db); err != nil {
		return container, nil, err
	}
	return container, db, nil
}

// Truncate empties every table.
func Truncate(db *gorm.DB) error {
	return db.Exec(`TRUNCATE TABLE
		order_items, orders, meals, delivery_zone_prefixes, delivery_zones,
		order_number_counters, outbox_messages CASCADE`).Error
}
