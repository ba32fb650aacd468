package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"forum-sentiment-analyzer/internal/analyzer/dto"
	"forum-sentiment-analyzer/internal/analyzer/repository"
	"forum-sentiment-analyzer/internal/entity"
	"forum-sentiment-analyzer/pkg/logger"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a file-backed database in WAL mode. AnalyzeForum inserts
// rows while the post cursor is still open on another pool connection, which
// needs a shared on-disk database with non-blocking readers.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "analyzer.db") +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
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

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return log
}

// stubAnalyzer returns canned results keyed on a substring of the analyzed
// text and records every text it was asked about.
type stubAnalyzer struct {
	results map[string]*dto.SentimentResult
	failOn  string
	calls   []string
}

func (s *stubAnalyzer) AnalyzeSentiment(ctx context.Context, text string) (*dto.SentimentResult, error) {
	s.calls = append(s.calls, text)
	if s.failOn != "" && strings.Contains(text, s.failOn) {
		return nil, errors.New("analysis service unavailable")
	}
	for key, result := range s.results {
		if strings.Contains(text, key) {
			return result, nil
		}
	}
	return &dto.SentimentResult{Keywords: []dto.ExtractedTerm{}, Concepts: []dto.ExtractedTerm{}}, nil
}

func newService(t *testing.T, db *gorm.DB, analyzer repository.SentimentAnalyzerRepository) AnalyzerService {
	t.Helper()
	return NewAnalyzerService(
		newTestLogger(t),
		analyzer,
		repository.NewPostRepository(db),
		repository.NewKeywordRepository(db),
		repository.NewConceptRepository(db),
		repository.NewSummaryRepository(db, 1000),
	)
}

func seedForum(t *testing.T, db *gorm.DB, forumID int64, posts map[int64]string) {
	t.Helper()

	forum := entity.Forum{ID: forumID, CourseID: 1, Name: "Forum", Type: "general"}
	require.NoError(t, db.Create(&forum).Error)
	discussion := entity.ForumDiscussion{ID: forumID * 100, ForumID: forumID}
	require.NoError(t, db.Create(&discussion).Error)

	for postID, message := range posts {
		post := entity.ForumPost{
			ID:           postID,
			DiscussionID: discussion.ID,
			Subject:      "Re: topic",
			Message:      message,
			Created:      time.Now(),
		}
		require.NoError(t, db.Create(&post).Error)
	}
}

func TestAnalyzeForumEndToEnd(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedForum(t, db, 1, map[int64]string{
		1: "good great joy",
		2: "bad sad fear",
	})

	stub := &stubAnalyzer{results: map[string]*dto.SentimentResult{
		"good great joy": {
			Sentiment: 0.8,
			Emotion:   dto.EmotionScores{Joy: 0.9, Sadness: 0.1},
			Keywords:  []dto.ExtractedTerm{{Text: "Joy", Relevance: 0.9}},
			Concepts:  []dto.ExtractedTerm{{Text: "Happiness", Relevance: 0.8}},
		},
		"bad sad fear": {
			Sentiment: -0.6,
			Emotion:   dto.EmotionScores{Sadness: 0.8, Fear: 0.7},
			Keywords:  []dto.ExtractedTerm{{Text: "Fear", Relevance: 0.9}},
			Concepts:  []dto.ExtractedTerm{},
		},
	}}

	svc := newService(t, db, stub)
	stats, err := svc.AnalyzeForum(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.PostsAnalyzed)
	assert.Zero(t, stats.PostsFailed)

	var records []entity.PostSentiment
	require.NoError(t, db.Order("post_id").Find(&records).Error)
	require.Len(t, records, 2)
	assert.Equal(t, 0.8, records[0].Sentiment)
	assert.Equal(t, -0.6, records[1].Sentiment)

	var summary entity.ForumSentimentSummary
	require.NoError(t, db.Where("forum_id = ?", 1).First(&summary).Error)
	assert.InDelta(t, 0.1, summary.Sentiment, 1e-9)
	assert.InDelta(t, 0.45, summary.Sadness, 1e-9)

	var keyword entity.Keyword
	require.NoError(t, db.Where("keyword = ?", "joy").First(&keyword).Error)
	assert.Equal(t, int64(1), keyword.Count)

	var concept entity.Concept
	require.NoError(t, db.Where("concept = ?", "happiness").First(&concept).Error)
	assert.Equal(t, int64(1), concept.Count)
}

func TestAnalyzeForumSkipsAlreadyAnalyzed(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedForum(t, db, 1, map[int64]string{1: "good great joy"})

	stub := &stubAnalyzer{results: map[string]*dto.SentimentResult{
		"good great joy": {Sentiment: 0.8, Keywords: []dto.ExtractedTerm{}, Concepts: []dto.ExtractedTerm{}},
	}}
	svc := newService(t, db, stub)

	_, err := svc.AnalyzeForum(ctx, 1)
	require.NoError(t, err)
	require.Len(t, stub.calls, 1)

	// A second pass finds nothing to analyze and calls the service not at all.
	stats, err := svc.AnalyzeForum(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, stats.PostsAnalyzed)
	assert.Len(t, stub.calls, 1)

	var count int64
	require.NoError(t, db.Model(&entity.PostSentiment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAnalyzeForumFailedPostStaysUnanalyzed(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedForum(t, db, 1, map[int64]string{
		1: "good great joy",
		2: "broken post",
	})

	stub := &stubAnalyzer{
		results: map[string]*dto.SentimentResult{
			"good great joy": {Sentiment: 0.8, Keywords: []dto.ExtractedTerm{}, Concepts: []dto.ExtractedTerm{}},
		},
		failOn: "broken post",
	}
	svc := newService(t, db, stub)

	stats, err := svc.AnalyzeForum(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.PostsAnalyzed)
	assert.Equal(t, 1, stats.PostsFailed)

	// Only the successful post has a record; the failed one is retried later.
	var count int64
	require.NoError(t, db.Model(&entity.PostSentiment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	stub.failOn = ""
	stub.results["broken post"] = &dto.SentimentResult{Sentiment: 0.2, Keywords: []dto.ExtractedTerm{}, Concepts: []dto.ExtractedTerm{}}
	stats, err = svc.AnalyzeForum(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.PostsAnalyzed)

	require.NoError(t, db.Model(&entity.PostSentiment{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestAnalyzeForumStripsHTML(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedForum(t, db, 1, map[int64]string{
		1: "<p>hello <b>world</b> &amp; friends</p>",
	})

	stub := &stubAnalyzer{results: map[string]*dto.SentimentResult{}}
	svc := newService(t, db, stub)

	_, err := svc.AnalyzeForum(ctx, 1)
	require.NoError(t, err)

	require.Len(t, stub.calls, 1)
	assert.NotContains(t, stub.calls[0], "<p>")
	assert.NotContains(t, stub.calls[0], "<b>")
	assert.Contains(t, stub.calls[0], "hello world & friends")
	assert.Contains(t, stub.calls[0], "Re: topic")
}
