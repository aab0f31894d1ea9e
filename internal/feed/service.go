package feed

import (
	"context"
	"errors"
	"time"

	"github.com/karthikc1125/GroqTales/internal/logger"
	"github.com/karthikc1125/GroqTales/internal/metrics"
	"github.com/karthikc1125/GroqTales/internal/models"
	"github.com/karthikc1125/GroqTales/internal/repository"
	"go.uber.org/zap"
)

// candidatePoolSize bounds how many tag-matched stories the scorer sees
const candidatePoolSize = 100

// Mode reports which path produced a feed page
type Mode string

const (
	ModePersonalized Mode = "personalized"
	ModeTrending     Mode = "trending"
)

// FeedPage is the final paginated feed result
type FeedPage struct {
	Items []models.Story `json:"items"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Mode  Mode           `json:"mode"`
}

// Service orchestrates feed generation: affinity aggregation, candidate
// retrieval and scoring for known users, trending fallback for everyone
// else. Each request is stateless; nothing here is shared mutable state.
type Service struct {
	stories      repository.StoryRepository
	interactions repository.InteractionRepository

	// trendingTimeout is a stricter deadline for the fallback query,
	// since trending is also the last line of defense on failures.
	trendingTimeout time.Duration

	// now is injectable so scoring stays deterministic under test
	now func() time.Time
}

// NewService creates a feed service. Repositories are injected at
// construction so outage and cold-start paths are mockable.
func NewService(stories repository.StoryRepository, interactions repository.InteractionRepository, trendingTimeout time.Duration) *Service {
	if trendingTimeout <= 0 {
		trendingTimeout = 2 * time.Second
	}
	return &Service{
		stories:         stories,
		interactions:    interactions,
		trendingTimeout: trendingTimeout,
		now:             time.Now,
	}
}

// GetFeed returns one page of the feed for userID (empty for anonymous).
//
// Personalization requires a user ID, a non-cold-start affinity
// aggregation and a successful candidate retrieval; any of those failing
// routes to trending instead - personalization failure is never a
// user-facing failure. Only a failure of the trending query itself is
// returned as an error.
func (s *Service) GetFeed(ctx context.Context, userID string, page, limit int) (*FeedPage, error) {
	if result := s.personalized(ctx, userID, page, limit); result != nil {
		return result, nil
	}
	return s.GetTrending(ctx, page, limit)
}

// GetTrending returns one page of the globally popular feed. An empty
// result set is valid, not an error.
func (s *Service) GetTrending(ctx context.Context, page, limit int) (*FeedPage, error) {
	tctx, cancel := context.WithTimeout(ctx, s.trendingTimeout)
	defer cancel()

	skip := (page - 1) * limit
	items, err := s.stories.FindTrending(tctx, skip, limit)
	if err != nil {
		logger.Log.Error("Trending feed query failed",
			zap.Int("page", page),
			zap.Int("limit", limit),
			zap.Error(err))
		return nil, err
	}
	if items == nil {
		items = []models.Story{}
	}

	metrics.Get().FeedRequestsTotal.WithLabelValues(string(ModeTrending)).Inc()
	return &FeedPage{Items: items, Page: page, Limit: limit, Mode: ModeTrending}, nil
}

// personalized attempts the personalized path. A nil return means
// "route to trending" - cold start, anonymous caller, or a store failure
// we recover from locally.
func (s *Service) personalized(ctx context.Context, userID string, page, limit int) *FeedPage {
	if userID == "" {
		return nil
	}

	topics, err := s.topTagsForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrColdStart) {
			logger.Log.Debug("Cold start, falling back to trending",
				logger.WithUserID(userID))
			metrics.Get().FeedFallbacksTotal.WithLabelValues("cold_start").Inc()
		} else {
			logger.Log.Warn("Affinity aggregation failed, falling back to trending",
				logger.WithUserID(userID),
				zap.Error(err))
			metrics.Get().FeedFallbacksTotal.WithLabelValues("affinity_error").Inc()
		}
		return nil
	}

	candidates, err := s.stories.FindByTags(ctx, topics, candidatePoolSize)
	if err != nil {
		logger.Log.Warn("Candidate retrieval failed, falling back to trending",
			logger.WithUserID(userID),
			zap.Strings("topics", topics),
			zap.Error(err))
		metrics.Get().FeedFallbacksTotal.WithLabelValues("retrieval_error").Inc()
		return nil
	}

	ranked := ScoreCandidates(candidates, topics, s.now())
	items := make([]models.Story, 0, len(ranked))
	for _, candidate := range ranked {
		items = append(items, candidate.Story)
	}

	metrics.Get().FeedRequestsTotal.WithLabelValues(string(ModePersonalized)).Inc()
	return &FeedPage{
		Items: paginate(items, page, limit),
		Page:  page,
		Limit: limit,
		Mode:  ModePersonalized,
	}
}

// paginate is a pure slice: skip = (page-1)*limit, preserving relative
// order, clamped to the list bounds.
func paginate(items []models.Story, page, limit int) []models.Story {
	skip := (page - 1) * limit
	if skip >= len(items) {
		return []models.Story{}
	}
	end := skip + limit
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}
