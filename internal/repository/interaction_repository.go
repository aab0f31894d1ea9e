package repository

import (
	"context"

	"github.com/karthikc1125/GroqTales/internal/models"
	"gorm.io/gorm"
)

// InteractionRepository handles the append-only interaction log. There is
// deliberately no update or delete: facts accumulate, and retention is an
// external concern.
type InteractionRepository interface {
	// Append persists one immutable interaction fact
	Append(ctx context.Context, interaction *models.UserInteraction) error

	// FindRecentByUser returns the newest limit interactions for a user,
	// ordered by created_at DESC.
	FindRecentByUser(ctx context.Context, userID string, limit int) ([]models.UserInteraction, error)
}

// interactionRepository implements InteractionRepository over gorm
type interactionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository creates a new interaction repository
func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

func (r *interactionRepository) Append(ctx context.Context, interaction *models.UserInteraction) error {
	if interaction == nil {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Create(interaction).Error
}

func (r *interactionRepository) FindRecentByUser(ctx context.Context, userID string, limit int) ([]models.UserInteraction, error) {
	var interactions []models.UserInteraction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&interactions).Error
	return interactions, err
}
