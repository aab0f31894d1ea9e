package feed

import (
	"context"
	"errors"
	"sort"

	"github.com/karthikc1125/GroqTales/internal/models"
)

const (
	// lookbackCount caps how much interaction history feeds the affinity
	// computation. The map is rebuilt from raw facts on every request,
	// so this bound is what keeps recomputation cheap.
	lookbackCount = 50

	// minInteractions is the cold-start threshold: users with fewer
	// recorded facts get the trending feed instead.
	minInteractions = 5

	// topTagCount is how many top-weighted tags drive candidate retrieval
	topTagCount = 5
)

// ErrColdStart signals that a user has insufficient interaction history to
// personalize. It is a routing signal, not a failure - callers fall back
// to the trending feed and never surface it.
var ErrColdStart = errors.New("insufficient interaction history for personalization")

// topTagsForUser derives the user's top topics from their recent
// interaction history. Facts referencing missing or unpublished stories
// are skipped, not errors. Returns ErrColdStart when there is not enough
// signal (too few facts, or nothing left after filtering).
func (s *Service) topTagsForUser(ctx context.Context, userID string) ([]string, error) {
	interactions, err := s.interactions.FindRecentByUser(ctx, userID, lookbackCount)
	if err != nil {
		return nil, err
	}
	if len(interactions) < minInteractions {
		return nil, ErrColdStart
	}

	// Prefetch every referenced story in one batch
	idSet := make(map[string]bool, len(interactions))
	ids := make([]string, 0, len(interactions))
	for _, in := range interactions {
		if !idSet[in.StoryID] {
			idSet[in.StoryID] = true
			ids = append(ids, in.StoryID)
		}
	}

	stories, err := s.stories.GetStories(ctx, ids)
	if err != nil {
		return nil, err
	}
	storyByID := make(map[string]models.Story, len(stories))
	for _, story := range stories {
		storyByID[story.ID] = story
	}

	affinity := BuildAffinityMap(interactions, storyByID)

	topTags := TopTags(affinity, topTagCount)
	if len(topTags) == 0 {
		return nil, ErrColdStart
	}
	return topTags, nil
}

// BuildAffinityMap collapses interaction facts into a weighted
// topic-affinity map, attributing each fact's weight to every tag of its
// referenced story. Facts whose story is absent from storyByID or not
// publicly visible contribute nothing.
//
// The map is ephemeral and per-request by design: there is no cache and
// no staleness to reason about, at the cost of recomputation.
func BuildAffinityMap(interactions []models.UserInteraction, storyByID map[string]models.Story) map[string]float64 {
	affinity := make(map[string]float64)
	for _, in := range interactions {
		story, ok := storyByID[in.StoryID]
		if !ok || !story.IsPublic() {
			continue
		}
		seen := make(map[string]bool, len(story.Tags))
		for _, tag := range story.Tags {
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			affinity[tag] += in.Weight
		}
	}
	return affinity
}

// TopTags returns the n highest-weighted tags, descending by weight with
// ties broken by lexicographic tag order so results are deterministic.
func TopTags(affinity map[string]float64, n int) []string {
	tags := make([]string, 0, len(affinity))
	for tag := range affinity {
		tags = append(tags, tag)
	}

	sort.Slice(tags, func(i, j int) bool {
		if affinity[tags[i]] != affinity[tags[j]] {
			return affinity[tags[i]] > affinity[tags[j]]
		}
		return tags[i] < tags[j]
	})

	if len(tags) > n {
		tags = tags[:n]
	}
	return tags
}
