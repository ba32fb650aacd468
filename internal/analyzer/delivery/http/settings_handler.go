package http

import (
	"net/http"
	"strconv"

	"forum-sentiment-analyzer/internal/analyzer/dto"
	"forum-sentiment-analyzer/internal/analyzer/repository"
	"forum-sentiment-analyzer/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"
)

// SettingsHandler manages the per-forum analysis feature toggle.
type SettingsHandler struct {
	forumRepo repository.ForumRepository
	logger    *logger.Logger
	cache     *cache.Cache
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(forumRepo repository.ForumRepository, reportCache *cache.Cache, log *logger.Logger) *SettingsHandler {
	return &SettingsHandler{forumRepo: forumRepo, logger: log, cache: reportCache}
}

// RegisterRoutes registers the settings routes to the Echo group.
func (h *SettingsHandler) RegisterRoutes(g *echo.Group) {
	g.PUT("/forums/:id/sentiment", h.ToggleSentiment)
	g.DELETE("/forums/:id/sentiment", h.DeleteForumData)
}

// ToggleSentiment enables or disables analysis for a forum, upserting its
// configuration row.
func (h *SettingsHandler) ToggleSentiment(c echo.Context) error {
	forumID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid forum ID"})
	}

	var req dto.ToggleSentimentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request payload"})
	}

	if err := h.forumRepo.SetEnabled(c.Request().Context(), forumID, req.Enabled); err != nil {
		h.logger.Error("Failed to toggle forum sentiment", logger.Int64Field("forum_id", forumID), logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to update forum settings"})
	}
	h.cache.Flush()

	return c.JSON(http.StatusOK, echo.Map{"forum_id": forumID, "enabled": req.Enabled})
}

// DeleteForumData removes the forum's configuration and every derived row.
func (h *SettingsHandler) DeleteForumData(c echo.Context) error {
	forumID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid forum ID"})
	}

	if err := h.forumRepo.DeleteForumData(c.Request().Context(), forumID); err != nil {
		h.logger.Error("Failed to delete forum data", logger.Int64Field("forum_id", forumID), logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to delete forum data"})
	}
	h.cache.Flush()

	return c.NoContent(http.StatusNoContent)
}
