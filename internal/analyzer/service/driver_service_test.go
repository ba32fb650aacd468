package service

import (
	"context"
	"testing"
	"time"

	"forum-sentiment-analyzer/internal/analyzer/config"
	"forum-sentiment-analyzer/internal/analyzer/dto"
	"forum-sentiment-analyzer/internal/analyzer/repository"
	"forum-sentiment-analyzer/internal/entity"
	"forum-sentiment-analyzer/pkg/common"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDriverForTest(t *testing.T, db *gorm.DB, redisClient *goredis.Client, stub *stubAnalyzer) DriverService {
	t.Helper()
	return NewDriverService(
		&config.Config{},
		newTestLogger(t),
		redisClient,
		repository.NewForumRepository(db),
		repository.NewRunRepository(db),
		newService(t, db, stub),
		nil,
	)
}

func enableForum(t *testing.T, db *gorm.DB, forumID int64) {
	t.Helper()
	cfg := entity.ForumSentiment{ForumID: forumID, Enabled: true, TimeModified: time.Now()}
	require.NoError(t, db.Create(&cfg).Error)
}

func TestRunOnceRecordsCompletedRun(t *testing.T) {
	db := newTestDB(t)
	mr := miniredis.RunT(t)
	redisClient := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	seedForum(t, db, 1, map[int64]string{1: "good great joy"})
	enableForum(t, db, 1)

	stub := &stubAnalyzer{results: map[string]*dto.SentimentResult{
		"good great joy": {Sentiment: 0.8, Keywords: []dto.ExtractedTerm{}, Concepts: []dto.ExtractedTerm{}},
	}}

	driver := newDriverForTest(t, db, redisClient, stub)
	driver.RunOnce(ctx)

	var runs []entity.AnalysisRun
	require.NoError(t, db.Find(&runs).Error)
	require.Len(t, runs, 1)
	assert.Equal(t, entity.RunStatusCompleted, runs[0].Status)
	assert.Equal(t, 1, runs[0].ForumsProcessed)
	assert.Equal(t, 1, runs[0].PostsAnalyzed)
	assert.Zero(t, runs[0].PostsFailed)
	assert.True(t, runs[0].CompletedAt.Valid)

	// Lock released after the run.
	assert.False(t, mr.Exists(common.AnalyzerRunLockKey))
}

func TestRunOnceRecordsSkippedRunWhenLockHeld(t *testing.T) {
	db := newTestDB(t)
	mr := miniredis.RunT(t)
	redisClient := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	seedForum(t, db, 1, map[int64]string{1: "good great joy"})
	enableForum(t, db, 1)
	require.NoError(t, mr.Set(common.AnalyzerRunLockKey, "other-instance"))

	stub := &stubAnalyzer{}
	driver := newDriverForTest(t, db, redisClient, stub)
	driver.RunOnce(ctx)

	// Run history shows the skipped activation; nothing was analyzed and the
	// foreign lock is left in place.
	var runs []entity.AnalysisRun
	require.NoError(t, db.Find(&runs).Error)
	require.Len(t, runs, 1)
	assert.Equal(t, entity.RunStatusSkipped, runs[0].Status)
	assert.True(t, runs[0].CompletedAt.Valid)
	assert.Empty(t, stub.calls)
	assert.True(t, mr.Exists(common.AnalyzerRunLockKey))
}

func TestRunOnceContinuesPastFailingPosts(t *testing.T) {
	db := newTestDB(t)
	mr := miniredis.RunT(t)
	redisClient := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	seedForum(t, db, 1, map[int64]string{
		1: "good great joy",
		2: "broken post",
	})
	enableForum(t, db, 1)

	stub := &stubAnalyzer{
		results: map[string]*dto.SentimentResult{
			"good great joy": {Sentiment: 0.8, Keywords: []dto.ExtractedTerm{}, Concepts: []dto.ExtractedTerm{}},
		},
		failOn: "broken post",
	}

	driver := newDriverForTest(t, db, redisClient, stub)
	driver.RunOnce(ctx)

	var runs []entity.AnalysisRun
	require.NoError(t, db.Find(&runs).Error)
	require.Len(t, runs, 1)
	assert.Equal(t, entity.RunStatusCompleted, runs[0].Status)
	assert.Equal(t, 1, runs[0].PostsAnalyzed)
	assert.Equal(t, 1, runs[0].PostsFailed)
}
