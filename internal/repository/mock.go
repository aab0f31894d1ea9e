package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/karthikc1125/GroqTales/internal/models"
)

// MockStoryRepository is an in-memory StoryRepository for testing.
// Behavior can be overridden per method; by default it serves from Stories
// with the same semantics as the gorm implementation.
type MockStoryRepository struct {
	mu      sync.Mutex
	Stories []models.Story

	FindByTagsFunc   func(ctx context.Context, tags []string, limit int) ([]models.Story, error)
	FindTrendingFunc func(ctx context.Context, skip, limit int) ([]models.Story, error)

	// Forced errors for outage simulation
	FindByTagsErr   error
	FindTrendingErr error
}

// NewMockStoryRepository creates an empty in-memory story repository
func NewMockStoryRepository() *MockStoryRepository {
	return &MockStoryRepository{}
}

// AddStory inserts a story into the in-memory set
func (m *MockStoryRepository) AddStory(story models.Story) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stories = append(m.Stories, story)
}

func (m *MockStoryRepository) GetStory(ctx context.Context, storyID string) (*models.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Stories {
		if m.Stories[i].ID == storyID {
			story := m.Stories[i]
			return &story, nil
		}
	}
	return nil, ErrStoryNotFound
}

func (m *MockStoryRepository) GetStories(ctx context.Context, storyIDs []string) ([]models.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	wanted := make(map[string]bool, len(storyIDs))
	for _, id := range storyIDs {
		wanted[id] = true
	}

	result := make([]models.Story, 0, len(storyIDs))
	for _, story := range m.Stories {
		if wanted[story.ID] {
			result = append(result, story)
		}
	}
	return result, nil
}

func (m *MockStoryRepository) FindByTags(ctx context.Context, tags []string, limit int) ([]models.Story, error) {
	if m.FindByTagsFunc != nil {
		return m.FindByTagsFunc(ctx, tags, limit)
	}
	if m.FindByTagsErr != nil {
		return nil, m.FindByTagsErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tagSet := make(map[string]bool, len(tags))
	for _, t := range tags {
		tagSet[t] = true
	}

	result := make([]models.Story, 0)
	for _, story := range m.Stories {
		if !story.IsPublic() {
			continue
		}
		for _, t := range story.Tags {
			if tagSet[t] {
				result = append(result, story)
				break
			}
		}
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (m *MockStoryRepository) FindTrending(ctx context.Context, skip, limit int) ([]models.Story, error) {
	if m.FindTrendingFunc != nil {
		return m.FindTrendingFunc(ctx, skip, limit)
	}
	if m.FindTrendingErr != nil {
		return nil, m.FindTrendingErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	minted := make([]models.Story, 0, len(m.Stories))
	for _, story := range m.Stories {
		if story.IsPublic() {
			minted = append(minted, story)
		}
	}

	sort.SliceStable(minted, func(i, j int) bool {
		if minted[i].LikesCount != minted[j].LikesCount {
			return minted[i].LikesCount > minted[j].LikesCount
		}
		return minted[i].ViewsCount > minted[j].ViewsCount
	})

	if skip >= len(minted) {
		return []models.Story{}, nil
	}
	end := skip + limit
	if end > len(minted) {
		end = len(minted)
	}
	return minted[skip:end], nil
}

// MockInteractionRepository is an in-memory InteractionRepository for testing
type MockInteractionRepository struct {
	mu           sync.Mutex
	Interactions []models.UserInteraction

	AppendErr     error
	FindRecentErr error
}

// NewMockInteractionRepository creates an empty in-memory interaction repository
func NewMockInteractionRepository() *MockInteractionRepository {
	return &MockInteractionRepository{}
}

func (m *MockInteractionRepository) Append(ctx context.Context, interaction *models.UserInteraction) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Interactions = append(m.Interactions, *interaction)
	return nil
}

func (m *MockInteractionRepository) FindRecentByUser(ctx context.Context, userID string, limit int) ([]models.UserInteraction, error) {
	if m.FindRecentErr != nil {
		return nil, m.FindRecentErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	matching := make([]models.UserInteraction, 0)
	for _, in := range m.Interactions {
		if in.UserID == userID {
			matching = append(matching, in)
		}
	}

	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].CreatedAt.After(matching[j].CreatedAt)
	})

	if len(matching) > limit {
		matching = matching[:limit]
	}
	return matching, nil
}

// Count returns the number of stored interactions
func (m *MockInteractionRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Interactions)
}
