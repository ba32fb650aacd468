package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"forum-sentiment-analyzer/internal/analyzer/repository"
	"forum-sentiment-analyzer/internal/entity"
	"forum-sentiment-analyzer/pkg/logger"

	"github.com/microcosm-cc/bluemonday"
)

// ForumStats summarizes one forum's analysis pass.
type ForumStats struct {
	PostsAnalyzed int
	PostsFailed   int
}

// AnalyzerService orchestrates sentiment analysis for a single forum: it
// finds unanalyzed posts, submits them to the analysis service and persists
// per-post results plus the recomputed forum averages.
type AnalyzerService interface {
	AnalyzeForum(ctx context.Context, forumID int64) (ForumStats, error)
}

// NewAnalyzerService creates a new AnalyzerService.
func NewAnalyzerService(
	log *logger.Logger,
	analyzerRepo repository.SentimentAnalyzerRepository,
	postRepo repository.PostRepository,
	keywordRepo repository.FrequencyRepository,
	conceptRepo repository.FrequencyRepository,
	summaryRepo repository.SummaryRepository,
) AnalyzerService {
	return &analyzerService{
		logger:       log,
		analyzerRepo: analyzerRepo,
		postRepo:     postRepo,
		keywordRepo:  keywordRepo,
		conceptRepo:  conceptRepo,
		summaryRepo:  summaryRepo,
		sanitizer:    bluemonday.StrictPolicy(),
	}
}

type analyzerService struct {
	logger       *logger.Logger
	analyzerRepo repository.SentimentAnalyzerRepository
	postRepo     repository.PostRepository
	keywordRepo  repository.FrequencyRepository
	conceptRepo  repository.FrequencyRepository
	summaryRepo  repository.SummaryRepository
	sanitizer    *bluemonday.Policy
}

// AnalyzeForum processes every unanalyzed post in the forum sequentially. A
// failed analysis call skips the post, leaving it unanalyzed for the next
// run; storage failures abort the forum. The forum averages are recomputed
// only when the cursor yielded at least one post.
func (s *analyzerService) AnalyzeForum(ctx context.Context, forumID int64) (ForumStats, error) {
	var stats ForumStats

	posts, err := s.postRepo.UnanalyzedPosts(ctx, forumID)
	if err != nil {
		return stats, fmt.Errorf("failed to query unanalyzed posts: %w", err)
	}
	defer posts.Close()

	for posts.Next() {
		post := posts.Post()

		result, err := s.analyzerRepo.AnalyzeSentiment(ctx, s.postText(post))
		if err != nil {
			stats.PostsFailed++
			s.logger.Error("Failed to analyze post, will retry next run",
				logger.Int64Field("post_id", post.ID),
				logger.Int64Field("forum_id", forumID),
				logger.ErrorField(err))
			continue
		}

		record := &entity.PostSentiment{
			ForumID:    forumID,
			PostID:     post.ID,
			Sentiment:  result.Sentiment,
			Sadness:    result.Emotion.Sadness,
			Joy:        result.Emotion.Joy,
			Fear:       result.Emotion.Fear,
			Anger:      result.Emotion.Anger,
			Disgust:    result.Emotion.Disgust,
			TimePosted: post.Created,
		}
		if err := s.postRepo.CreateSentiment(ctx, record); err != nil {
			return stats, fmt.Errorf("failed to store sentiment for post %d: %w", post.ID, err)
		}

		if err := s.keywordRepo.InsertTerms(ctx, forumID, post.ID, result.Keywords); err != nil {
			return stats, err
		}
		if err := s.conceptRepo.InsertTerms(ctx, forumID, post.ID, result.Concepts); err != nil {
			return stats, err
		}

		stats.PostsAnalyzed++
	}
	if err := posts.Err(); err != nil {
		return stats, fmt.Errorf("failed to iterate unanalyzed posts: %w", err)
	}

	if posts.Seen() {
		if _, err := s.summaryRepo.Recompute(ctx, forumID); err != nil {
			return stats, fmt.Errorf("failed to recompute forum summary: %w", err)
		}
	}

	return stats, nil
}

// postText concatenates the post subject and body with HTML stripped, the
// text that is actually submitted for analysis.
func (s *analyzerService) postText(post repository.UnanalyzedPost) string {
	subject := html.UnescapeString(s.sanitizer.Sanitize(post.Subject))
	message := html.UnescapeString(s.sanitizer.Sanitize(post.Message))
	return strings.TrimSpace(subject + " " + message)
}
