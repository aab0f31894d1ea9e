package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/karthikc1125/GroqTales/internal/logger"
	"github.com/karthikc1125/GroqTales/internal/models"
	"github.com/karthikc1125/GroqTales/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// genreTags mirrors the platform's story taxonomy so seeded feeds look
// like real content
var genreTags = map[string][]string{
	"Sci-Fi":  {"quantum", "space", "cyberpunk", "ai", "starship", "exploration"},
	"Fantasy": {"magic", "dragon", "epic", "adventure", "realm"},
	"Mystery": {"thriller", "detective", "noir", "crime"},
	"Horror":  {"haunted", "occult", "survival"},
	"Romance": {"love", "drama", "slice-of-life"},
}

// Seeder populates the development database with realistic stories and
// interaction histories
type Seeder struct {
	db           *gorm.DB
	interactions repository.InteractionRepository
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:           db,
		interactions: repository.NewInteractionRepository(db),
	}
}

// SeedDev seeds the development database: storyCount minted stories plus
// a handful of draft/failed ones that must never surface in feeds, and
// userCount users with enough interaction history to personalize.
func (s *Seeder) SeedDev(ctx context.Context, storyCount, userCount int) error {
	logger.Log.Info("Seeding stories...", zap.Int("count", storyCount))
	stories, err := s.seedStories(storyCount)
	if err != nil {
		return fmt.Errorf("failed to seed stories: %w", err)
	}

	logger.Log.Info("Seeding interaction histories...", zap.Int("users", userCount))
	if err := s.seedInteractions(ctx, stories, userCount); err != nil {
		return fmt.Errorf("failed to seed interactions: %w", err)
	}

	logger.Log.Info("Seeding complete")
	return nil
}

func (s *Seeder) seedStories(count int) ([]models.Story, error) {
	genres := make([]string, 0, len(genreTags))
	for g := range genreTags {
		genres = append(genres, g)
	}

	stories := make([]models.Story, 0, count)
	for i := 0; i < count; i++ {
		genre := genres[rand.Intn(len(genres))]
		pool := genreTags[genre]
		tagCount := 1 + rand.Intn(3)
		tagSet := make(map[string]bool, tagCount)
		for len(tagSet) < tagCount {
			tagSet[pool[rand.Intn(len(pool))]] = true
		}
		tags := make([]string, 0, tagCount)
		for t := range tagSet {
			tags = append(tags, t)
		}

		status := models.StoryStatusMinted
		// A few drafts and failures, so feed queries are exercised
		// against non-public rows too
		switch rand.Intn(10) {
		case 0:
			status = models.StoryStatusDraft
		case 1:
			status = models.StoryStatusFailed
		}

		story := models.Story{
			Title:        gofakeit.BookTitle(),
			Content:      gofakeit.Paragraph(4, 6, 12, "\n\n"),
			AuthorName:   gofakeit.Name(),
			AuthorWallet: fmt.Sprintf("0x%x", gofakeit.Uint64()),
			Genre:        genre,
			Tags:         tags,
			CoverImage:   gofakeit.ImageURL(800, 600),
			Status:       status,
			LikesCount:   rand.Intn(600),
			ViewsCount:   rand.Intn(8000),
			CreatedAt:    gofakeit.DateRange(time.Now().AddDate(0, -6, 0), time.Now()),
		}
		if status == models.StoryStatusMinted {
			story.IpfsHash = gofakeit.LetterN(46)
			story.NftTxHash = fmt.Sprintf("0x%x", gofakeit.Uint64())
		}

		if err := s.db.Create(&story).Error; err != nil {
			return nil, err
		}
		stories = append(stories, story)
	}
	return stories, nil
}

func (s *Seeder) seedInteractions(ctx context.Context, stories []models.Story, userCount int) error {
	if len(stories) == 0 {
		return nil
	}

	kinds := []models.InteractionType{
		models.InteractionView,
		models.InteractionLike,
		models.InteractionBookmark,
		models.InteractionShare,
	}

	for u := 0; u < userCount; u++ {
		userID := gofakeit.UUID()
		// 6-30 facts per user: comfortably past the cold-start threshold
		factCount := 6 + rand.Intn(25)
		for f := 0; f < factCount; f++ {
			story := stories[rand.Intn(len(stories))]
			kind := kinds[rand.Intn(len(kinds))]
			weight := 1.0
			if rand.Intn(5) == 0 {
				kind = models.InteractionTimeSpent
				weight = float64(rand.Intn(300))
			}

			interaction := &models.UserInteraction{
				UserID:  userID,
				StoryID: story.ID,
				Type:    kind,
				Weight:  weight,
			}
			if err := s.interactions.Append(ctx, interaction); err != nil {
				return err
			}
		}
	}
	return nil
}
