package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/karthikc1125/GroqTales/internal/errors"
	"github.com/karthikc1125/GroqTales/internal/models"
	"github.com/karthikc1125/GroqTales/internal/util"
)

// recordInteractionRequest is the POST /interactions payload. Duration is
// a pointer so a missing value is distinguishable from zero.
type recordInteractionRequest struct {
	StoryID  string   `json:"storyId"`
	Type     string   `json:"type"`
	Duration *float64 `json:"duration,omitempty"`
}

// RecordInteraction appends one interaction fact for the authenticated
// caller. Not idempotent by design: repeated calls accumulate weight.
// POST /api/v1/interactions
func (h *Handlers) RecordInteraction(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		util.RespondUnauthorized(c)
		return
	}

	var req recordInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "invalid request body")
		return
	}

	_, err := h.recorder.Record(c.Request.Context(), userID, req.StoryID, models.InteractionType(req.Type), req.Duration)
	if err != nil {
		var apiErr *apierrors.APIError
		if errors.As(err, &apiErr) {
			util.RespondWithAPIError(c, apiErr)
			return
		}
		util.RespondInternalError(c, "failed to record interaction")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true})
}
