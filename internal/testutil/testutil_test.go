package testutil

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedRunIDGenerator_ReturnsSameID(t *testing.T) {
	gen := NewFixedRunIDGenerator("test-run-123")

	assert.Equal(t, "test-run-123", gen.Generate())
	assert.Equal(t, "test-run-123", gen.Generate())
	assert.Equal(t, "test-run-123", gen.Generate())
}

func TestFixedRunIDGenerator_EmptyIDDefault(t *testing.T) {
	gen := NewFixedRunIDGenerator("")
	assert.Equal(t, DefaultRunID, gen.Generate())
}

func TestFixedRunIDGenerator_ThreadSafe(t *testing.T) {
	gen := NewFixedRunIDGenerator("thread-safe-id")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, "thread-safe-id", gen.Generate())
			}
		}()
	}
	wg.Wait()
}

func TestCaptureLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := CaptureLogger(&buf, slog.LevelWarn)

	logger.Info("search starting")
	logger.Warn("line derived more than once", "count", 2)

	assert.NotContains(t, buf.String(), "search starting")
	assert.Contains(t, buf.String(), "line derived more than once")
	assert.Contains(t, buf.String(), "count=2")
}

func TestQuietLogger_Discards(t *testing.T) {
	assert.NotPanics(t, func() {
		QuietLogger().Error("search failed", "run_id", "test-run-default")
	})
}
