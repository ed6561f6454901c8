package testutil

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("loaded table", slog.String("table", "orders"))
		logger.Error("load failed", slog.Int("code", 500))

		records := handler.GetRecords()
		require.Len(t, records, 2)
		assert.Equal(t, slog.LevelError, records[1].Level)
		assert.Equal(t, int64(500), records[1].Attrs["code"])
		assert.True(t, handler.ContainsMessage("loaded"))
		assert.Len(t, handler.FindByMessage("load"), 2)
	})

	t.Run("derived loggers share the buffer", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With("component", "loader").Info("loaded", slog.String("table", "orders"))
		logger.WithGroup("stats").With("run", "r1").Info("built", slog.Int("rows", 3))

		records := handler.GetRecords()
		require.Len(t, records, 2)
		assert.Equal(t, "loader", records[0].Attrs["component"])
		assert.Equal(t, "r1", records[1].Attrs["stats.run"])
		assert.Equal(t, int64(3), records[1].Attrs["stats.rows"])
		_, leaked := records[1].Attrs["component"]
		assert.False(t, leaked)
	})

	t.Run("assertion helpers", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("pipeline completed", slog.String("component", "pipeline"))
		logger.Warn("duplicate keys", slog.Int("count", 3))

		AssertLogContains(t, handler, slog.LevelInfo, "completed")
		AssertLogAttr(t, handler, "component", "pipeline")
		AssertNoErrors(t, handler)
	})

	t.Run("concurrent logging", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				logger.Info("concurrent log", slog.Int("goroutine", n))
			}(i)
		}
		wg.Wait()

		assert.Len(t, handler.GetRecords(), 10)
	})
}
