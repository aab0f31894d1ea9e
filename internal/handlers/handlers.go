package handlers

import (
	"github.com/karthikc1125/GroqTales/internal/feed"
	"github.com/karthikc1125/GroqTales/internal/interactions"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	feed     *feed.Service
	recorder *interactions.Recorder
}

// NewHandlers creates a new handlers instance
func NewHandlers(feedService *feed.Service, recorder *interactions.Recorder) *Handlers {
	return &Handlers{
		feed:     feedService,
		recorder: recorder,
	}
}
