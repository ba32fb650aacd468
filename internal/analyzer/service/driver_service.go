package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"forum-sentiment-analyzer/internal/analyzer/config"
	"forum-sentiment-analyzer/internal/analyzer/repository"
	"forum-sentiment-analyzer/internal/entity"
	"forum-sentiment-analyzer/pkg/common"
	"forum-sentiment-analyzer/pkg/logger"
	"forum-sentiment-analyzer/pkg/telegram"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// DriverService runs the scheduled analysis over all enabled forums.
type DriverService interface {
	Start(ctx context.Context)
	RunOnce(ctx context.Context)
}

// NewDriverService creates a new DriverService.
func NewDriverService(
	cfg *config.Config,
	log *logger.Logger,
	redisClient *redis.Client,
	forumRepo repository.ForumRepository,
	runRepo repository.RunRepository,
	analyzer AnalyzerService,
	notifier telegram.Notifier,
) DriverService {
	return &driverService{
		cfg:         cfg,
		logger:      log,
		redisClient: redisClient,
		forumRepo:   forumRepo,
		runRepo:     runRepo,
		analyzer:    analyzer,
		notifier:    notifier,
		cronParser:  cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

type driverService struct {
	cfg         *config.Config
	logger      *logger.Logger
	redisClient *redis.Client
	forumRepo   repository.ForumRepository
	runRepo     repository.RunRepository
	analyzer    AnalyzerService
	notifier    telegram.Notifier
	cronParser  cron.Parser
}

// Start blocks, running the analysis on the configured cron schedule until
// the context is cancelled.
func (s *driverService) Start(ctx context.Context) {
	schedule, err := s.cronParser.Parse(s.cfg.Analyzer.Schedule)
	if err != nil {
		s.logger.Error("Invalid analyzer schedule, driver not started",
			logger.StringField("schedule", s.cfg.Analyzer.Schedule),
			logger.ErrorField(err))
		return
	}

	s.logger.Info("Analyzer driver started", logger.StringField("schedule", s.cfg.Analyzer.Schedule))

	for {
		next := schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Analyzer driver stopping")
			return
		case <-timer.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single analysis pass over all enabled forums. Overlap
// with another instance is prevented by a Redis lease; a held lock skips the
// run entirely.
func (s *driverService) RunOnce(ctx context.Context) {
	lockTTL := common.AnalyzerRunLockTTL
	if s.cfg.Analyzer.RunLockTTL != "" {
		if ttl, err := time.ParseDuration(s.cfg.Analyzer.RunLockTTL); err == nil {
			lockTTL = ttl
		}
	}

	acquired, err := s.redisClient.SetNX(ctx, common.AnalyzerRunLockKey, time.Now().Format(time.RFC3339), lockTTL).Result()
	if err != nil {
		s.logger.Error("Failed to acquire run lock", logger.ErrorField(err))
		return
	}
	if !acquired {
		s.logger.Warn("Previous analysis run still holds the lock, skipping this run")
		now := time.Now()
		skipped := &entity.AnalysisRun{
			Status:      entity.RunStatusSkipped,
			StartedAt:   now,
			CompletedAt: sql.NullTime{Time: now, Valid: true},
		}
		if err := s.runRepo.Create(ctx, skipped); err != nil {
			s.logger.Error("Failed to record skipped run", logger.ErrorField(err))
		}
		return
	}
	defer func() {
		if err := s.redisClient.Del(context.WithoutCancel(ctx), common.AnalyzerRunLockKey).Err(); err != nil {
			s.logger.Error("Failed to release run lock", logger.ErrorField(err))
		}
	}()

	started := time.Now()
	run := &entity.AnalysisRun{
		Status:    entity.RunStatusRunning,
		StartedAt: started,
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		s.logger.Error("Failed to create run record", logger.ErrorField(err))
		return
	}

	s.logger.Info("Getting forums to perform sentiment analysis on")

	perForum := map[string]int{}
	var runErr error

	forums, err := s.forumRepo.EnabledForums(ctx, nil)
	if err != nil {
		runErr = err
	} else {
		defer forums.Close()
		for forums.Next() {
			forum := forums.Forum()
			s.logger.Info("Analyzing forum",
				logger.Int64Field("forum_id", forum.ForumID),
				logger.StringField("name", forum.Name))

			stats, err := s.analyzer.AnalyzeForum(ctx, forum.ForumID)
			run.PostsAnalyzed += stats.PostsAnalyzed
			run.PostsFailed += stats.PostsFailed
			if err != nil {
				// One broken forum must not abort the whole run.
				s.logger.Error("Failed to analyze forum, continuing with next",
					logger.Int64Field("forum_id", forum.ForumID),
					logger.ErrorField(err))
				continue
			}
			run.ForumsProcessed++
			perForum[strconv.FormatInt(forum.ForumID, 10)] = stats.PostsAnalyzed
		}
		runErr = forums.Err()
	}

	run.CompletedAt = sql.NullTime{Time: time.Now(), Valid: true}
	if runErr != nil {
		run.Status = entity.RunStatusFailed
		run.ErrorMessage = sql.NullString{String: runErr.Error(), Valid: true}
	} else {
		run.Status = entity.RunStatusCompleted
	}
	if detail, err := json.Marshal(perForum); err == nil {
		run.Detail = detail
	}
	if err := s.runRepo.Update(ctx, run); err != nil {
		s.logger.Error("Failed to update run record", logger.ErrorField(err))
	}

	s.logger.Info("Analysis run finished",
		logger.StringField("status", run.Status),
		logger.IntField("forums_processed", run.ForumsProcessed),
		logger.IntField("posts_analyzed", run.PostsAnalyzed),
		logger.IntField("posts_failed", run.PostsFailed))

	if s.notifier != nil {
		msg := telegram.FormatRunSummary(telegram.RunSummary{
			StartedAt:       started,
			Duration:        time.Since(started),
			ForumsProcessed: run.ForumsProcessed,
			PostsAnalyzed:   run.PostsAnalyzed,
			PostsFailed:     run.PostsFailed,
			Err:             runErr,
		})
		if err := s.notifier.SendMessage(msg); err != nil {
			s.logger.Error("Failed to send run notification", logger.ErrorField(err))
		}
	}
}
