package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"forum-sentiment-analyzer/internal/analyzer/dto"
	"forum-sentiment-analyzer/internal/analyzer/repository"
	"forum-sentiment-analyzer/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

const defaultTermLimit = 10

// ReportHandler serves forum sentiment reports over HTTP.
type ReportHandler struct {
	summaryRepo repository.SummaryRepository
	runRepo     repository.RunRepository
	logger      *logger.Logger
	cache       *cache.Cache
}

// NewReportCache creates the response cache shared between the report and
// settings handlers, so settings writes can invalidate cached reports.
func NewReportCache() *cache.Cache {
	return cache.New(5*time.Minute, 10*time.Minute)
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(summaryRepo repository.SummaryRepository, runRepo repository.RunRepository, reportCache *cache.Cache, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		summaryRepo: summaryRepo,
		runRepo:     runRepo,
		logger:      log,
		cache:       reportCache,
	}
}

// RegisterRoutes registers the report routes to the Echo group.
func (h *ReportHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/forums", h.ListForums)
	g.GET("/forums/:id/summary", h.GetForumSummary)
	g.GET("/forums/:id/keywords", h.GetForumKeywords)
	g.GET("/forums/:id/concepts", h.GetForumConcepts)
	g.GET("/runs", h.ListRuns)
}

// ListForums returns every enabled forum with its current averages.
func (h *ReportHandler) ListForums(c echo.Context) error {
	const key = "forums"
	if cached, ok := h.cache.Get(key); ok {
		return c.JSON(http.StatusOK, cached)
	}

	forums, err := h.summaryRepo.ListEnabled(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list forum summaries", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list forums"})
	}

	h.cache.SetDefault(key, forums)
	return c.JSON(http.StatusOK, forums)
}

// GetForumSummary returns the rolling averages for one forum.
func (h *ReportHandler) GetForumSummary(c echo.Context) error {
	forumID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid forum ID"})
	}

	key := fmt.Sprintf("summary:%d", forumID)
	if cached, ok := h.cache.Get(key); ok {
		return c.JSON(http.StatusOK, cached)
	}

	summary, err := h.summaryRepo.Get(c.Request().Context(), forumID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "No summary for forum"})
	}
	if err != nil {
		h.logger.Error("Failed to get forum summary", logger.Int64Field("forum_id", forumID), logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to get summary"})
	}

	resp := dto.ForumSummaryResponse{
		ForumID:      summary.ForumID,
		Sentiment:    summary.Sentiment,
		Sadness:      summary.Sadness,
		Joy:          summary.Joy,
		Fear:         summary.Fear,
		Anger:        summary.Anger,
		Disgust:      summary.Disgust,
		TimeModified: summary.TimeModified,
	}
	h.cache.SetDefault(key, resp)
	return c.JSON(http.StatusOK, resp)
}

// GetForumKeywords returns the most frequent keywords for a forum.
func (h *ReportHandler) GetForumKeywords(c echo.Context) error {
	return h.getForumTerms(c, repository.KeywordKind)
}

// GetForumConcepts returns the most frequent concepts for a forum.
func (h *ReportHandler) GetForumConcepts(c echo.Context) error {
	return h.getForumTerms(c, repository.ConceptKind)
}

func (h *ReportHandler) getForumTerms(c echo.Context, kind repository.FrequencyKind) error {
	forumID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid forum ID"})
	}

	limit := defaultTermLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid limit"})
		}
		limit = parsed
	}

	key := fmt.Sprintf("terms:%s:%d:%d", kind.EntityTable, forumID, limit)
	if cached, ok := h.cache.Get(key); ok {
		return c.JSON(http.StatusOK, cached)
	}

	terms, err := h.summaryRepo.TopTerms(c.Request().Context(), kind, forumID, limit)
	if err != nil {
		h.logger.Error("Failed to get forum terms", logger.Int64Field("forum_id", forumID), logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to get terms"})
	}

	h.cache.SetDefault(key, terms)
	return c.JSON(http.StatusOK, terms)
}

// ListRuns returns recent analysis run history.
func (h *ReportHandler) ListRuns(c echo.Context) error {
	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid limit"})
		}
		limit = parsed
	}

	runs, err := h.runRepo.ListRecent(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list runs", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list runs"})
	}
	return c.JSON(http.StatusOK, runs)
}
