package models

import (
	"database/sql/driver"
	"strings"
	"time"
)

// StringArray is a custom type for PostgreSQL text[] that implements Scanner and Valuer
type StringArray []string

// Scan implements the sql.Scanner interface for reading from database
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}

	// PostgreSQL returns text[] as a string like "{value1,value2,value3}"
	str, ok := value.(string)
	if !ok {
		// Try []byte
		if bytes, ok := value.([]byte); ok {
			str = string(bytes)
		} else {
			*a = nil
			return nil
		}
	}

	// Remove the curly braces
	str = strings.TrimPrefix(str, "{")
	str = strings.TrimSuffix(str, "}")

	if str == "" {
		*a = []string{}
		return nil
	}

	// Split by comma (simple case - doesn't handle quoted values with commas)
	*a = strings.Split(str, ",")
	return nil
}

// Value implements the driver.Valuer interface for writing to database
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	if len(a) == 0 {
		return "{}", nil
	}
	return "{" + strings.Join(a, ",") + "}", nil
}

// StoryStatus tracks a story through the publishing/minting pipeline.
// Only minted stories are publicly visible and eligible for feed ranking.
type StoryStatus string

const (
	StoryStatusDraft      StoryStatus = "draft"
	StoryStatusPublishing StoryStatus = "publishing"
	StoryStatusMinted     StoryStatus = "minted"
	StoryStatusFailed     StoryStatus = "failed"
)

// Story represents a piece of rankable content. Stories are created and
// updated by the publishing/minting pipeline; this service only reads them.
type Story struct {
	ID           string      `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Title        string      `gorm:"not null" json:"title"`
	Content      string      `gorm:"type:text" json:"content"`
	AuthorName   string      `json:"author_name"`
	AuthorWallet string      `gorm:"index" json:"author_wallet"`
	Genre        string      `json:"genre"`
	Tags         StringArray `gorm:"type:text[]" json:"tags"`
	CoverImage   string      `json:"cover_image,omitempty"`

	// On-chain publishing data (written by the external minting service)
	IpfsHash   string `json:"ipfs_hash,omitempty"`
	NftTxHash  string `json:"nft_tx_hash,omitempty"`
	NftTokenID string `json:"nft_token_id,omitempty"`

	Status StoryStatus `gorm:"default:draft;index" json:"status"`

	// Engagement counters (maintained by like/view write paths elsewhere)
	LikesCount    int `gorm:"default:0" json:"likes_count"`
	ViewsCount    int `gorm:"default:0" json:"views_count"`
	CommentsCount int `gorm:"default:0" json:"comments_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPublic reports whether the story participates in feeds.
func (s *Story) IsPublic() bool {
	return s.Status == StoryStatusMinted
}

// InteractionType is the closed set of recordable user actions.
type InteractionType string

const (
	InteractionView      InteractionType = "VIEW"
	InteractionLike      InteractionType = "LIKE"
	InteractionBookmark  InteractionType = "BOOKMARK"
	InteractionShare     InteractionType = "SHARE"
	InteractionTimeSpent InteractionType = "TIME_SPENT"
)

// Valid reports whether t is one of the known interaction types.
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionView, InteractionLike, InteractionBookmark, InteractionShare, InteractionTimeSpent:
		return true
	}
	return false
}

// UserInteraction is an immutable record of a single user action on a story.
// Rows are append-only: nothing in this service updates or deletes them.
// Weight is 1 for every type except TIME_SPENT, where it holds the
// caller-supplied duration.
type UserInteraction struct {
	ID      string          `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID  string          `gorm:"not null;index:idx_interactions_user_created" json:"user_id"`
	StoryID string          `gorm:"not null;type:uuid;index" json:"story_id"`
	Type    InteractionType `gorm:"not null" json:"type"`
	Weight  float64         `gorm:"not null;default:1" json:"weight"`

	CreatedAt time.Time `gorm:"index:idx_interactions_user_created,sort:desc" json:"created_at"`
}
