package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/karthikc1125/GroqTales/internal/errors"
	"github.com/karthikc1125/GroqTales/internal/metrics"
	"github.com/karthikc1125/GroqTales/internal/util"
)

const (
	defaultFeedLimit = 10
	maxFeedLimit     = 100
)

// GetFeed serves the feed: personalized when the caller is identified and
// has enough interaction history, trending otherwise. Malformed page/limit
// values fall back to defaults - a feed request is never rejected for bad
// pagination input.
// GET /api/v1/feed
func (h *Handlers) GetFeed(c *gin.Context) {
	page := util.ParsePage(c.Query("page"))
	limit := util.ParseLimit(c.Query("limit"), defaultFeedLimit, maxFeedLimit)
	userID, _ := util.GetUserIDFromContext(c)

	start := time.Now()
	result, err := h.feed.GetFeed(c.Request.Context(), userID, page, limit)
	if err != nil {
		// Trending already was the last line of defense; there is no
		// further degradation path
		util.RespondWithAPIError(c, apierrors.ServiceUnavailable("feed"))
		return
	}
	metrics.Get().FeedGenerationTime.WithLabelValues(string(result.Mode)).Observe(time.Since(start).Seconds())

	c.JSON(http.StatusOK, gin.H{
		"items": result.Items,
		"meta": gin.H{
			"page":  result.Page,
			"limit": result.Limit,
			"mode":  result.Mode,
		},
	})
}

// GetTrendingFeed serves the globally popular feed regardless of caller
// identity.
// GET /api/v1/feed/trending
func (h *Handlers) GetTrendingFeed(c *gin.Context) {
	page := util.ParsePage(c.Query("page"))
	limit := util.ParseLimit(c.Query("limit"), defaultFeedLimit, maxFeedLimit)

	result, err := h.feed.GetTrending(c.Request.Context(), page, limit)
	if err != nil {
		util.RespondWithAPIError(c, apierrors.ServiceUnavailable("feed"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": result.Items,
		"meta": gin.H{
			"page":  result.Page,
			"limit": result.Limit,
			"mode":  result.Mode,
		},
	})
}
