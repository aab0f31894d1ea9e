package repository

import (
	"context"
	"errors"

	"github.com/karthikc1125/GroqTales/internal/models"
	"gorm.io/gorm"
)

var (
	ErrStoryNotFound = errors.New("story not found")
	ErrInvalidInput  = errors.New("invalid input")
)

// StoryRepository handles read access to rankable stories. Stories are
// written by the publishing/minting pipeline, not by this service.
type StoryRepository interface {
	// GetStory gets a single minted-or-not story by ID
	GetStory(ctx context.Context, storyID string) (*models.Story, error)

	// GetStories batch-fetches stories by ID. Missing IDs are simply
	// absent from the result, not errors.
	GetStories(ctx context.Context, storyIDs []string) ([]models.Story, error)

	// FindByTags returns up to limit minted stories whose tag array
	// shares at least one tag with tags. No ordering contract - ordering
	// is the scorer's job.
	FindByTags(ctx context.Context, tags []string, limit int) ([]models.Story, error)

	// FindTrending returns minted stories ordered by likes_count DESC,
	// views_count DESC with skip/limit applied. An empty result is valid.
	FindTrending(ctx context.Context, skip, limit int) ([]models.Story, error)
}

// storyRepository implements StoryRepository over gorm
type storyRepository struct {
	db *gorm.DB
}

// NewStoryRepository creates a new story repository
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) GetStory(ctx context.Context, storyID string) (*models.Story, error) {
	var story models.Story
	err := r.db.WithContext(ctx).Where("id = ?", storyID).First(&story).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &story, nil
}

func (r *storyRepository) GetStories(ctx context.Context, storyIDs []string) ([]models.Story, error) {
	if len(storyIDs) == 0 {
		return []models.Story{}, nil
	}

	var stories []models.Story
	err := r.db.WithContext(ctx).
		Where("id IN ?", storyIDs).
		Find(&stories).Error
	return stories, err
}

func (r *storyRepository) FindByTags(ctx context.Context, tags []string, limit int) ([]models.Story, error) {
	if len(tags) == 0 {
		return []models.Story{}, nil
	}

	var stories []models.Story
	err := r.db.WithContext(ctx).
		Where("status = ? AND tags && ?::text[]", models.StoryStatusMinted, models.StringArray(tags)).
		Limit(limit).
		Find(&stories).Error
	return stories, err
}

func (r *storyRepository) FindTrending(ctx context.Context, skip, limit int) ([]models.Story, error) {
	var stories []models.Story
	err := r.db.WithContext(ctx).
		Where("status = ?", models.StoryStatusMinted).
		Order("likes_count DESC, views_count DESC").
		Offset(skip).
		Limit(limit).
		Find(&stories).Error
	return stories, err
}
