package repository

import (
	"testing"

	"forum-sentiment-analyzer/internal/entity"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.Forum{},
		&entity.ForumDiscussion{},
		&entity.ForumPost{},
		&entity.ForumSentiment{},
		&entity.PostSentiment{},
		&entity.ForumSentimentSummary{},
		&entity.Keyword{},
		&entity.KeywordForum{},
		&entity.KeywordPost{},
		&entity.Concept{},
		&entity.ConceptForum{},
		&entity.ConceptPost{},
		&entity.AnalysisRun{},
	))

	return db
}
