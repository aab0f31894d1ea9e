package interactions

import (
	"context"

	apierrors "github.com/karthikc1125/GroqTales/internal/errors"
	"github.com/karthikc1125/GroqTales/internal/logger"
	"github.com/karthikc1125/GroqTales/internal/metrics"
	"github.com/karthikc1125/GroqTales/internal/models"
	"github.com/karthikc1125/GroqTales/internal/repository"
	"go.uber.org/zap"
)

// Recorder validates and appends interaction facts. Recording is
// deliberately not idempotent: every accepted call appends one more fact,
// so repeated views accumulate weight.
type Recorder struct {
	interactions repository.InteractionRepository
}

// NewRecorder creates a recorder over the given interaction store
func NewRecorder(interactions repository.InteractionRepository) *Recorder {
	return &Recorder{interactions: interactions}
}

// Record appends one immutable interaction fact for userID on storyID.
// duration is required (non-nil, non-negative) for TIME_SPENT and ignored
// for every other type. Invalid input is rejected at this boundary and
// nothing is persisted.
func (r *Recorder) Record(ctx context.Context, userID, storyID string, kind models.InteractionType, duration *float64) (*models.UserInteraction, error) {
	if userID == "" {
		metrics.Get().InteractionsRejectedTotal.WithLabelValues("unauthenticated").Inc()
		return nil, apierrors.Unauthorized("user not authenticated")
	}
	if storyID == "" {
		metrics.Get().InteractionsRejectedTotal.WithLabelValues("missing_story_id").Inc()
		return nil, apierrors.ValidationError("storyId", "storyId is required")
	}
	if !kind.Valid() {
		metrics.Get().InteractionsRejectedTotal.WithLabelValues("invalid_type").Inc()
		return nil, apierrors.ValidationError("type", "type must be one of VIEW, LIKE, BOOKMARK, SHARE, TIME_SPENT")
	}

	weight := 1.0
	if kind == models.InteractionTimeSpent {
		if duration == nil || *duration < 0 {
			metrics.Get().InteractionsRejectedTotal.WithLabelValues("invalid_duration").Inc()
			return nil, apierrors.ValidationError("duration", "TIME_SPENT requires a non-negative duration")
		}
		weight = *duration
	}

	interaction := &models.UserInteraction{
		UserID:  userID,
		StoryID: storyID,
		Type:    kind,
		Weight:  weight,
	}

	if err := r.interactions.Append(ctx, interaction); err != nil {
		logger.Log.Error("Failed to append interaction",
			logger.WithUserID(userID),
			logger.WithStoryID(storyID),
			zap.String("type", string(kind)),
			zap.Error(err))
		return nil, apierrors.InternalError("failed to record interaction")
	}

	metrics.Get().InteractionsRecordedTotal.WithLabelValues(string(kind)).Inc()
	return interaction, nil
}
