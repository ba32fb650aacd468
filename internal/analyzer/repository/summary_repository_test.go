package repository

import (
	"context"
	"testing"
	"time"

	"forum-sentiment-analyzer/internal/analyzer/dto"
	"forum-sentiment-analyzer/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func termList(texts ...string) []dto.ExtractedTerm {
	terms := make([]dto.ExtractedTerm, 0, len(texts))
	for _, text := range texts {
		terms = append(terms, dto.ExtractedTerm{Text: text, Relevance: 0.9})
	}
	return terms
}

func TestRecomputeAveragesAllRecords(t *testing.T) {
	db := newTestDB(t)
	repo := NewSummaryRepository(db, 1000)
	ctx := context.Background()

	records := []entity.PostSentiment{
		{ForumID: 1, PostID: 1, Sentiment: 0.8, Joy: 0.9, Sadness: 0.1, TimePosted: time.Now()},
		{ForumID: 1, PostID: 2, Sentiment: -0.6, Joy: 0.1, Sadness: 0.7, TimePosted: time.Now()},
		{ForumID: 2, PostID: 3, Sentiment: 0.5, TimePosted: time.Now()},
	}
	for i := range records {
		require.NoError(t, db.Create(&records[i]).Error)
	}

	updated, err := repo.Recompute(ctx, 1)
	require.NoError(t, err)
	assert.True(t, updated)

	summary, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, summary.Sentiment, 1e-9)
	assert.InDelta(t, 0.5, summary.Joy, 1e-9)
	assert.InDelta(t, 0.4, summary.Sadness, 1e-9)
}

func TestRecomputeNoOpWhenNoRecords(t *testing.T) {
	db := newTestDB(t)
	repo := NewSummaryRepository(db, 1000)
	ctx := context.Background()

	updated, err := repo.Recompute(ctx, 42)
	require.NoError(t, err)
	assert.False(t, updated)

	_, err = repo.Get(ctx, 42)
	assert.Error(t, err)
}

func TestRecomputePagesThroughLargeHistories(t *testing.T) {
	db := newTestDB(t)
	// Page size of 2 forces several pages for 5 records.
	repo := NewSummaryRepository(db, 2)
	ctx := context.Background()

	scores := []float64{0.1, 0.2, 0.3, 0.4, 0.5}
	for i, score := range scores {
		rec := entity.PostSentiment{ForumID: 1, PostID: int64(i + 1), Sentiment: score, TimePosted: time.Now()}
		require.NoError(t, db.Create(&rec).Error)
	}

	updated, err := repo.Recompute(ctx, 1)
	require.NoError(t, err)
	assert.True(t, updated)

	summary, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, summary.Sentiment, 1e-9)
}

func TestRecomputeReplacesPreviousSummary(t *testing.T) {
	db := newTestDB(t)
	repo := NewSummaryRepository(db, 1000)
	ctx := context.Background()

	require.NoError(t, db.Create(&entity.PostSentiment{ForumID: 1, PostID: 1, Sentiment: 1.0, TimePosted: time.Now()}).Error)
	_, err := repo.Recompute(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, db.Create(&entity.PostSentiment{ForumID: 1, PostID: 2, Sentiment: 0.0, TimePosted: time.Now()}).Error)
	_, err = repo.Recompute(ctx, 1)
	require.NoError(t, err)

	summary, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, summary.Sentiment, 1e-9)

	// Still a single summary row per forum.
	var count int64
	require.NoError(t, db.Model(&entity.ForumSentimentSummary{}).Where("forum_id = ?", 1).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestTopTermsOrdering(t *testing.T) {
	db := newTestDB(t)
	summaryRepo := NewSummaryRepository(db, 1000)
	keywordRepo := NewKeywordRepository(db)
	ctx := context.Background()

	for postID := int64(1); postID <= 3; postID++ {
		require.NoError(t, keywordRepo.InsertTerms(ctx, 1, postID, termList("alpha")))
	}
	require.NoError(t, keywordRepo.InsertTerms(ctx, 1, 4, termList("beta")))

	terms, err := summaryRepo.TopTerms(ctx, KeywordKind, 1, 10)
	require.NoError(t, err)
	require.Len(t, terms, 2)
	assert.Equal(t, "alpha", terms[0].Text)
	assert.Equal(t, int64(3), terms[0].Count)
	assert.Equal(t, "beta", terms[1].Text)
	assert.Equal(t, int64(1), terms[1].Count)

	limited, err := summaryRepo.TopTerms(ctx, KeywordKind, 1, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "alpha", limited[0].Text)
}
