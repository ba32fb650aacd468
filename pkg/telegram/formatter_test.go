package telegram

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatRunSummaryCompleted(t *testing.T) {
	msg := FormatRunSummary(RunSummary{
		StartedAt:       time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		Duration:        90 * time.Second,
		ForumsProcessed: 3,
		PostsAnalyzed:   42,
	})

	assert.Contains(t, msg, "2026-08-01T10:00:00Z")
	assert.Contains(t, msg, "Duration: 1m30s")
	assert.Contains(t, msg, "Forums processed: 3")
	assert.Contains(t, msg, "Posts analyzed: 42")
	assert.Contains(t, msg, "Status: completed")
	assert.NotContains(t, msg, "Posts failed")
}

func TestFormatRunSummaryFailed(t *testing.T) {
	msg := FormatRunSummary(RunSummary{
		StartedAt:     time.Now(),
		PostsAnalyzed: 1,
		PostsFailed:   2,
		Err:           errors.New("database gone"),
	})

	assert.Contains(t, msg, "Posts failed: 2")
	assert.Contains(t, msg, "Status: failed (database gone)")
}
