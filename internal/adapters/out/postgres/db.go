package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mealorder/internal/adapters/out/postgres/counterrepo"
	"mealorder/internal/adapters/out/postgres/mealrepo"
	"mealorder/internal/adapters/out/postgres/orderrepo"
	"mealorder/internal/adapters/out/postgres/outboxrepo"
	"mealorder/internal/adapters/out/postgres/zonerepo"
	"mealorder/internal/pkg/errs"

	_ "github.com/lib/pq" // registers the "postgres" database/sql driver
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported values of the driver setting.
const (
	DriverPgx = "pgx"
	DriverPq  = "postgres"
)

type Options struct {
	DSN             string
	Driver          string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowThreshold   time.Duration
}

// Open connects through pgx by default; Driver "postgres" goes through lib/pq.
func Open(opts Options, log *slog.Logger) (*gorm.DB, error) {
	dialectorConfig := gorm_postgres.Config{DSN: opts.DSN}
	switch opts.Driver {
	case "", DriverPgx:
	case DriverPq:
		dialectorConfig.DriverName = DriverPq
	default:
		return nil, errs.NewValueIsInvalidError("driver " + opts.Driver)
	}

	db, err := gorm.Open(gorm_postgres.New(dialectorConfig), &gorm.Config{
		Logger: logger.New(slogWriter{log: log}, logger.Config{
			SlowThreshold:             opts.SlowThreshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, errs.Wrap(err, "open database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errs.Wrap(err, "get sql.DB")
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	return db, nil
}

// Models lists every table owned by the adapter, parents first.
func Models() []any {
	return []any{
		&mealrepo.MealDTO{},
		&zonerepo.ZoneDTO{},
		&zonerepo.ZonePrefixDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&counterrepo.CounterDTO{},
		&outboxrepo.OutboxDTO{},
	}
}

func Migrate(db *gorm.DB) error {
	return errs.Wrap(db.AutoMigrate(Models()...), "migrate")
}

// slogWriter sends GORM's slow query and error lines to slog.
type slogWriter struct {
	log *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.log.Log(context.Background(), slog.LevelWarn, fmt.Sprintf(format, args...), "component", "gorm")
}
