package cmd

import (
	"context"
	"log/slog"
	"testing"

	"mealorder/internal/adapters/out/kafka"
	"mealorder/internal/adapters/out/notifier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Business: BusinessConfig{
			TimeZone:              "America/Vancouver",
			OrderNumberPrefix:     "FB",
			SequenceWidth:         3,
			FreeDeliveryThreshold: "75.00",
			NotifierBuffer:        8,
		},
		Jobs: JobsConfig{
			OutboxRelaySchedule:   "0 0 0 1 1 *",
			LowStockSweepSchedule: "0 0 0 1 1 *",
			RelayBatchSize:        10,
		},
	}
}

func TestNewCompositionRoot(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	publisher := kafka.NewLogPublisher(logger)
	n := notifier.NewLowStockNotifier(publisher, 8, logger)

	t.Run("should build every use case", func(t *testing.T) {
		root, err := NewCompositionRoot(testConfig(), nil, publisher, n, logger)
		require.NoError(t, err)

		handlers, err := root.HTTPHandlers()

		require.NoError(t, err)
		assert.NotNil(t, handlers.CreateOrder)
		assert.NotNil(t, handlers.CancelOrder)
		assert.NotNil(t, handlers.RecordPaymentStatus)
		assert.NotNil(t, handlers.AdjustInventory)
		assert.NotNil(t, handlers.CheckServiceability)
		assert.NotNil(t, handlers.GetOrder)

		manager := root.JobManager()
		require.NoError(t, manager.StartAll())
		manager.StopAll()
	})

	t.Run("should reject an unknown time zone", func(t *testing.T) {
		cfg := testConfig()
		cfg.Business.TimeZone = "Nowhere/Town"

		_, err := NewCompositionRoot(cfg, nil, publisher, n, logger)

		require.Error(t, err)
	})

	t.Run("should reject a zero sequence width", func(t *testing.T) {
		cfg := testConfig()
		cfg.Business.SequenceWidth = 0

		_, err := NewCompositionRoot(cfg, nil, publisher, n, logger)

		require.Error(t, err)
	})

	t.Run("should reject a malformed free delivery threshold", func(t *testing.T) {
		cfg := testConfig()
		cfg.Business.FreeDeliveryThreshold = "lots"

		_, err := NewCompositionRoot(cfg, nil, publisher, n, logger)

		require.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("should build a json logger", func(t *testing.T) {
		logger, sync, err := NewLogger(LogConfig{Level: "debug", Format: "json"}, "mealorder")

		require.NoError(t, err)
		assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
		_ = sync()
	})

	t.Run("should reject an unknown level", func(t *testing.T) {
		_, _, err := NewLogger(LogConfig{Level: "loud"}, "mealorder")

		require.Error(t, err)
	})

	t.Run("should reject an unknown format", func(t *testing.T) {
		_, _, err := NewLogger(LogConfig{Level: "info", Format: "xml"}, "mealorder")

		require.Error(t, err)
	})
}

func TestSetupTracing(t *testing.T) {
	t.Run("should be a no-op without an endpoint", func(t *testing.T) {
		shutdown, err := SetupTracing(t.Context(), "", "mealorder", slog.New(slog.DiscardHandler))

		require.NoError(t, err)
		require.NoError(t, shutdown(t.Context()))
	})
}
