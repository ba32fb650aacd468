package repository

import (
	"context"
	"time"

	"forum-sentiment-analyzer/internal/analyzer/dto"
	"forum-sentiment-analyzer/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SummaryRepository maintains and serves the per-forum rolling averages.
type SummaryRepository interface {
	Recompute(ctx context.Context, forumID int64) (bool, error)
	Get(ctx context.Context, forumID int64) (*entity.ForumSentimentSummary, error)
	ListEnabled(ctx context.Context) ([]dto.ForumSummaryResponse, error)
	TopTerms(ctx context.Context, kind FrequencyKind, forumID int64, limit int) ([]dto.TermCountResponse, error)
}

// NewSummaryRepository creates a new instance of SummaryRepository.
func NewSummaryRepository(db *gorm.DB, pageSize int) SummaryRepository {
	if pageSize <= 0 {
		pageSize = 1000
	}
	return &summaryRepository{db: db, pageSize: pageSize}
}

type summaryRepository struct {
	db       *gorm.DB
	pageSize int
}

// Recompute reads all sentiment records for the forum in bounded pages and
// writes the arithmetic mean of each field into the summary row. Returns
// false without touching the summary when the forum has no records, so a
// partially persisted batch can never corrupt the averages.
func (r *summaryRepository) Recompute(ctx context.Context, forumID int64) (bool, error) {
	var (
		count                                         int64
		sentiment, sadness, joy, fear, anger, disgust float64
		offset                                        int
	)

	for {
		var page []entity.PostSentiment
		err := r.db.WithContext(ctx).
			Where("forum_id = ?", forumID).
			Order("id").
			Limit(r.pageSize).
			Offset(offset).
			Find(&page).Error
		if err != nil {
			return false, err
		}
		if len(page) == 0 {
			break
		}

		for _, rec := range page {
			sentiment += rec.Sentiment
			sadness += rec.Sadness
			joy += rec.Joy
			fear += rec.Fear
			anger += rec.Anger
			disgust += rec.Disgust
		}
		count += int64(len(page))
		offset += len(page)

		if len(page) < r.pageSize {
			break
		}
	}

	if count == 0 {
		return false, nil
	}

	n := float64(count)
	summary := entity.ForumSentimentSummary{
		ForumID:      forumID,
		Sentiment:    sentiment / n,
		Sadness:      sadness / n,
		Joy:          joy / n,
		Fear:         fear / n,
		Anger:        anger / n,
		Disgust:      disgust / n,
		TimeModified: time.Now(),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "forum_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"sentiment", "sadness", "joy", "fear", "anger", "disgust", "time_modified",
		}),
	}).Create(&summary).Error
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *summaryRepository) Get(ctx context.Context, forumID int64) (*entity.ForumSentimentSummary, error) {
	var summary entity.ForumSentimentSummary
	err := r.db.WithContext(ctx).Where("forum_id = ?", forumID).First(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// ListEnabled returns summaries for every enabled forum, including forums
// that have not been aggregated yet (zero scores).
func (r *summaryRepository) ListEnabled(ctx context.Context) ([]dto.ForumSummaryResponse, error) {
	var out []dto.ForumSummaryResponse
	query := `
	SELECT fs.forum_id, f.name,
	       COALESCE(s.sentiment, 0) AS sentiment,
	       COALESCE(s.sadness, 0) AS sadness,
	       COALESCE(s.joy, 0) AS joy,
	       COALESCE(s.fear, 0) AS fear,
	       COALESCE(s.anger, 0) AS anger,
	       COALESCE(s.disgust, 0) AS disgust,
	       COALESCE(s.time_modified, fs.time_modified) AS time_modified
	FROM forum_sentiments AS fs
	JOIN forums AS f ON f.id = fs.forum_id
	LEFT JOIN forum_sentiment_summaries AS s ON s.forum_id = fs.forum_id
	WHERE fs.enabled = ?
	ORDER BY fs.forum_id`

	err := r.db.WithContext(ctx).Raw(query, true).Scan(&out).Error
	return out, err
}

// TopTerms returns the most frequent keywords or concepts for a forum.
func (r *summaryRepository) TopTerms(ctx context.Context, kind FrequencyKind, forumID int64, limit int) ([]dto.TermCountResponse, error) {
	var out []dto.TermCountResponse
	query := `
	SELECT e.` + kind.EntityColumn + ` AS text, j.count
	FROM ` + kind.ForumJoinTable + ` AS j
	JOIN ` + kind.EntityTable + ` AS e ON e.id = j.` + kind.IDColumn + `
	WHERE j.forum_id = ?
	ORDER BY j.count DESC, text
	LIMIT ?`

	err := r.db.WithContext(ctx).Raw(query, forumID, limit).Scan(&out).Error
	return out, err
}
