package feed

import (
	"context"
	"testing"
	"time"

	"github.com/karthikc1125/GroqTales/internal/models"
	"github.com/karthikc1125/GroqTales/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func view(userID, storyID string, weight float64, createdAt time.Time) models.UserInteraction {
	return models.UserInteraction{
		UserID:    userID,
		StoryID:   storyID,
		Type:      models.InteractionView,
		Weight:    weight,
		CreatedAt: createdAt,
	}
}

func TestBuildAffinityMapSumsWeightsPerTag(t *testing.T) {
	stories := map[string]models.Story{
		"s1": mintedStory("s1", []string{"fantasy", "magic"}, 0, scoreNow),
		"s2": mintedStory("s2", []string{"fantasy"}, 0, scoreNow),
	}
	interactions := []models.UserInteraction{
		view("u1", "s1", 1, scoreNow),
		view("u1", "s2", 1, scoreNow),
		view("u1", "s2", 42, scoreNow), // TIME_SPENT-style weight
	}

	affinity := BuildAffinityMap(interactions, stories)

	assert.InDelta(t, 44.0, affinity["fantasy"], 1e-9)
	assert.InDelta(t, 1.0, affinity["magic"], 1e-9)
	assert.Len(t, affinity, 2)
}

func TestBuildAffinityMapSkipsMissingAndUnpublished(t *testing.T) {
	draft := mintedStory("draft", []string{"noir"}, 0, scoreNow)
	draft.Status = models.StoryStatusDraft
	stories := map[string]models.Story{
		"draft":  draft,
		"minted": mintedStory("minted", []string{"thriller"}, 0, scoreNow),
	}
	interactions := []models.UserInteraction{
		view("u1", "gone", 1, scoreNow),
		view("u1", "draft", 1, scoreNow),
		view("u1", "minted", 1, scoreNow),
	}

	affinity := BuildAffinityMap(interactions, stories)

	assert.Len(t, affinity, 1)
	assert.InDelta(t, 1.0, affinity["thriller"], 1e-9)
}

func TestBuildAffinityMapDedupesTagsWithinStory(t *testing.T) {
	stories := map[string]models.Story{
		"s1": mintedStory("s1", []string{"epic", "epic", ""}, 0, scoreNow),
	}
	interactions := []models.UserInteraction{view("u1", "s1", 3, scoreNow)}

	affinity := BuildAffinityMap(interactions, stories)

	assert.Len(t, affinity, 1)
	assert.InDelta(t, 3.0, affinity["epic"], 1e-9)
}

func TestTopTagsOrderingAndTruncation(t *testing.T) {
	affinity := map[string]float64{
		"magic":   10,
		"dragon":  10,
		"quantum": 25,
		"noir":    1,
		"epic":    5,
		"space":   3,
	}

	top := TopTags(affinity, 5)

	// Weight descending, lexicographic within equal weight
	assert.Equal(t, []string{"quantum", "dragon", "magic", "epic", "space"}, top)
}

func TestTopTagsDeterministic(t *testing.T) {
	affinity := map[string]float64{"a": 1, "b": 1, "c": 1, "d": 1}
	first := TopTags(affinity, 3)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, TopTags(affinity, 3))
	}
}

func TestTopTagsForUserColdStartBoundary(t *testing.T) {
	ctx := context.Background()
	stories := repository.NewMockStoryRepository()
	interactionRepo := repository.NewMockInteractionRepository()
	stories.AddStory(mintedStory("s1", []string{"fantasy"}, 0, scoreNow))

	svc := NewService(stories, interactionRepo, time.Second)

	// 4 facts: below threshold
	for i := 0; i < 4; i++ {
		require.NoError(t, interactionRepo.Append(ctx, &models.UserInteraction{
			UserID: "u1", StoryID: "s1", Type: models.InteractionView, Weight: 1,
		}))
	}
	_, err := svc.topTagsForUser(ctx, "u1")
	assert.ErrorIs(t, err, ErrColdStart)

	// 5th fact crosses it
	require.NoError(t, interactionRepo.Append(ctx, &models.UserInteraction{
		UserID: "u1", StoryID: "s1", Type: models.InteractionView, Weight: 1,
	}))
	tags, err := svc.topTagsForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"fantasy"}, tags)
}

func TestTopTagsForUserColdStartWhenNothingSurvivesFiltering(t *testing.T) {
	ctx := context.Background()
	stories := repository.NewMockStoryRepository()
	interactionRepo := repository.NewMockInteractionRepository()

	// Enough facts, but every referenced story is gone
	for i := 0; i < 6; i++ {
		require.NoError(t, interactionRepo.Append(ctx, &models.UserInteraction{
			UserID: "u1", StoryID: "deleted", Type: models.InteractionLike, Weight: 1,
		}))
	}

	svc := NewService(stories, interactionRepo, time.Second)
	_, err := svc.topTagsForUser(ctx, "u1")
	assert.ErrorIs(t, err, ErrColdStart)
}
