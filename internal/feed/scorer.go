package feed

import (
	"sort"
	"time"

	"github.com/karthikc1125/GroqTales/internal/models"
)

// Scoring weights. These were chosen empirically in production - keep them
// stable so ranking behavior stays comparable across releases.
const (
	tagMatchWeight   = 20.0
	recencyWeight    = 0.5
	popularityWeight = 1.0

	// Recency contribution decays linearly and floors at zero once a
	// story is recencyWindowDays old. It never goes negative and never
	// exceeds recencyWindowDays * recencyWeight.
	recencyWindowDays = 100.0
)

// RankedCandidate pairs a story with its computed relevance score.
// Ephemeral, per request; never persisted.
type RankedCandidate struct {
	Story models.Story `json:"story"`
	Score float64      `json:"score"`
}

// ScoreCandidates assigns each candidate a composite relevance score from
// tag match, recency and popularity, and returns candidates sorted by
// score descending. Ties break by created_at descending (newer first),
// then by ID ascending, so identical inputs always produce identical
// output ordering.
//
// Pure function: no I/O, no mutation of candidates, now is passed in.
func ScoreCandidates(candidates []models.Story, topics []string, now time.Time) []RankedCandidate {
	topicSet := make(map[string]bool, len(topics))
	for _, t := range topics {
		topicSet[t] = true
	}

	ranked := make([]RankedCandidate, 0, len(candidates))
	for _, story := range candidates {
		ranked = append(ranked, RankedCandidate{
			Story: story,
			Score: scoreStory(story, topicSet, now),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if !ranked[i].Story.CreatedAt.Equal(ranked[j].Story.CreatedAt) {
			return ranked[i].Story.CreatedAt.After(ranked[j].Story.CreatedAt)
		}
		return ranked[i].Story.ID < ranked[j].Story.ID
	})

	return ranked
}

// scoreStory computes the composite score for a single story
func scoreStory(story models.Story, topicSet map[string]bool, now time.Time) float64 {
	matchCount := 0
	seen := make(map[string]bool, len(story.Tags))
	for _, tag := range story.Tags {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		if topicSet[tag] {
			matchCount++
		}
	}
	tagScore := float64(matchCount) * tagMatchWeight

	ageDays := now.Sub(story.CreatedAt).Hours() / 24
	recency := recencyWindowDays - ageDays
	if recency < 0 {
		recency = 0
	}
	recencyScore := recency * recencyWeight

	popularityScore := float64(story.LikesCount) * popularityWeight

	return tagScore + recencyScore + popularityScore
}
