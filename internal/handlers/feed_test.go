package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/karthikc1125/GroqTales/internal/auth"
	"github.com/karthikc1125/GroqTales/internal/feed"
	"github.com/karthikc1125/GroqTales/internal/interactions"
	"github.com/karthikc1125/GroqTales/internal/logger"
	"github.com/karthikc1125/GroqTales/internal/models"
	"github.com/karthikc1125/GroqTales/internal/repository"
	"github.com/stretchr/testify/suite"
)

const testJWTSecret = "test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := logger.Initialize("error", filepath.Join(os.TempDir(), "handlers_test.log")); err != nil {
		panic(err)
	}
	code := m.Run()
	_ = logger.Close()
	os.Exit(code)
}

type FeedHandlersTestSuite struct {
	suite.Suite
	router          *gin.Engine
	stories         *repository.MockStoryRepository
	interactionRepo *repository.MockInteractionRepository
}

func (s *FeedHandlersTestSuite) SetupTest() {
	s.stories = repository.NewMockStoryRepository()
	s.interactionRepo = repository.NewMockInteractionRepository()

	feedService := feed.NewService(s.stories, s.interactionRepo, time.Second)
	recorder := interactions.NewRecorder(s.interactionRepo)
	h := NewHandlers(feedService, recorder)
	authMiddleware := auth.NewMiddleware([]byte(testJWTSecret))

	s.router = gin.New()
	api := s.router.Group("/api/v1")
	api.GET("/feed", authMiddleware.OptionalAuth(), h.GetFeed)
	api.GET("/feed/trending", h.GetTrendingFeed)
	api.POST("/interactions", authMiddleware.RequireAuth(), h.RecordInteraction)
}

func (s *FeedHandlersTestSuite) signToken(userID string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	s.Require().NoError(err)
	return signed
}

func (s *FeedHandlersTestSuite) get(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *FeedHandlersTestSuite) post(path, token string, body any) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	s.Require().NoError(err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type feedResponse struct {
	Items []models.Story `json:"items"`
	Meta  struct {
		Page  int    `json:"page"`
		Limit int    `json:"limit"`
		Mode  string `json:"mode"`
	} `json:"meta"`
}

func (s *FeedHandlersTestSuite) decodeFeed(w *httptest.ResponseRecorder) feedResponse {
	var resp feedResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *FeedHandlersTestSuite) addMintedStory(id string, tags []string, likes int) {
	s.stories.AddStory(models.Story{
		ID:         id,
		Title:      "story " + id,
		Tags:       tags,
		Status:     models.StoryStatusMinted,
		LikesCount: likes,
		CreatedAt:  time.Now().AddDate(0, 0, -1),
	})
}

func (s *FeedHandlersTestSuite) addHistory(userID, storyID string, count int) {
	for i := 0; i < count; i++ {
		s.Require().NoError(s.interactionRepo.Append(context.Background(), &models.UserInteraction{
			UserID:    userID,
			StoryID:   storyID,
			Type:      models.InteractionView,
			Weight:    1,
			CreatedAt: time.Now(),
		}))
	}
}

func (s *FeedHandlersTestSuite) TestAnonymousFeedIsTrending() {
	s.addMintedStory("s1", nil, 10)

	w := s.get("/api/v1/feed", "")

	s.Equal(http.StatusOK, w.Code)
	resp := s.decodeFeed(w)
	s.Equal("trending", resp.Meta.Mode)
	s.Len(resp.Items, 1)
}

func (s *FeedHandlersTestSuite) TestAuthenticatedFeedPersonalizes() {
	s.addMintedStory("s1", []string{"fantasy"}, 10)
	s.addHistory("u1", "s1", 5)

	w := s.get("/api/v1/feed", s.signToken("u1"))

	s.Equal(http.StatusOK, w.Code)
	resp := s.decodeFeed(w)
	s.Equal("personalized", resp.Meta.Mode)
}

func (s *FeedHandlersTestSuite) TestGarbageTokenDegradesToAnonymous() {
	s.addMintedStory("s1", nil, 10)

	w := s.get("/api/v1/feed", "not-a-jwt")

	s.Equal(http.StatusOK, w.Code)
	s.Equal("trending", s.decodeFeed(w).Meta.Mode)
}

func (s *FeedHandlersTestSuite) TestMalformedPaginationFallsBackToDefaults() {
	s.addMintedStory("s1", nil, 10)

	w := s.get("/api/v1/feed?page=banana&limit=banana", "")

	s.Equal(http.StatusOK, w.Code)
	resp := s.decodeFeed(w)
	s.Equal(1, resp.Meta.Page)
	s.Equal(10, resp.Meta.Limit)
}

func (s *FeedHandlersTestSuite) TestPaginationIsClamped() {
	s.addMintedStory("s1", nil, 10)

	w := s.get("/api/v1/feed?page=0&limit=1000", "")

	s.Equal(http.StatusOK, w.Code)
	resp := s.decodeFeed(w)
	s.Equal(1, resp.Meta.Page)
	s.Equal(100, resp.Meta.Limit)
}

func (s *FeedHandlersTestSuite) TestPersonalizationOutageDegradesToTrending() {
	s.addMintedStory("s1", []string{"fantasy"}, 10)
	s.addHistory("u1", "s1", 5)
	s.stories.FindByTagsErr = errors.New("connection refused")

	w := s.get("/api/v1/feed", s.signToken("u1"))

	s.Equal(http.StatusOK, w.Code)
	s.Equal("trending", s.decodeFeed(w).Meta.Mode)
}

func (s *FeedHandlersTestSuite) TestTrendingOutageIs503() {
	s.stories.FindTrendingErr = errors.New("connection refused")

	w := s.get("/api/v1/feed", "")

	s.Equal(http.StatusServiceUnavailable, w.Code)
	var resp map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("SERVICE_UNAVAILABLE", resp["code"])
}

func (s *FeedHandlersTestSuite) TestTrendingEndpointIgnoresIdentity() {
	s.addMintedStory("s1", []string{"fantasy"}, 10)
	s.addHistory("u1", "s1", 5)

	w := s.get("/api/v1/feed/trending", s.signToken("u1"))

	s.Equal(http.StatusOK, w.Code)
	s.Equal("trending", s.decodeFeed(w).Meta.Mode)
}

func (s *FeedHandlersTestSuite) TestEmptyTrendingFeedIsOK() {
	w := s.get("/api/v1/feed/trending", "")

	s.Equal(http.StatusOK, w.Code)
	resp := s.decodeFeed(w)
	s.NotNil(resp.Items)
	s.Empty(resp.Items)
}

func (s *FeedHandlersTestSuite) TestRecordInteractionRequiresAuth() {
	w := s.post("/api/v1/interactions", "", gin.H{"storyId": "s1", "type": "VIEW"})

	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal(0, s.interactionRepo.Count())
}

func (s *FeedHandlersTestSuite) TestRecordInteractionCreatesFact() {
	w := s.post("/api/v1/interactions", s.signToken("u1"), gin.H{"storyId": "s1", "type": "LIKE"})

	s.Equal(http.StatusCreated, w.Code)
	s.JSONEq(`{"ok": true}`, w.Body.String())
	s.Equal(1, s.interactionRepo.Count())
}

func (s *FeedHandlersTestSuite) TestRecordInteractionAccumulates() {
	token := s.signToken("u1")
	for i := 0; i < 4; i++ {
		w := s.post("/api/v1/interactions", token, gin.H{"storyId": "s1", "type": "VIEW"})
		s.Equal(http.StatusCreated, w.Code)
	}
	s.Equal(4, s.interactionRepo.Count())
}

func (s *FeedHandlersTestSuite) TestRecordInteractionRejectsUnknownType() {
	w := s.post("/api/v1/interactions", s.signToken("u1"), gin.H{"storyId": "s1", "type": "CLAP"})

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	var resp map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("VALIDATION_ERROR", resp["code"])
	s.Equal("type", resp["field"])
	s.Equal(0, s.interactionRepo.Count())
}

func (s *FeedHandlersTestSuite) TestRecordTimeSpentRequiresDuration() {
	w := s.post("/api/v1/interactions", s.signToken("u1"), gin.H{"storyId": "s1", "type": "TIME_SPENT"})

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	var resp map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("duration", resp["field"])
	s.Equal(0, s.interactionRepo.Count())
}

func (s *FeedHandlersTestSuite) TestRecordTimeSpentRejectsNegativeDuration() {
	w := s.post("/api/v1/interactions", s.signToken("u1"), gin.H{
		"storyId":  "s1",
		"type":     "TIME_SPENT",
		"duration": -1,
	})

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal(0, s.interactionRepo.Count())
}

func (s *FeedHandlersTestSuite) TestRecordTimeSpentStoresDurationAsWeight() {
	w := s.post("/api/v1/interactions", s.signToken("u1"), gin.H{
		"storyId":  "s1",
		"type":     "TIME_SPENT",
		"duration": 42.5,
	})

	s.Equal(http.StatusCreated, w.Code)
	s.Require().Equal(1, s.interactionRepo.Count())
	s.Equal(42.5, s.interactionRepo.Interactions[0].Weight)
}

func (s *FeedHandlersTestSuite) TestRecordInteractionRejectsMalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/interactions", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.signToken("u1"))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(0, s.interactionRepo.Count())
}

func (s *FeedHandlersTestSuite) TestFeedPageTwo() {
	for i := 0; i < 15; i++ {
		s.addMintedStory(fmt.Sprintf("s%02d", i), nil, 100-i)
	}

	w := s.get("/api/v1/feed/trending?page=2&limit=10", "")

	s.Equal(http.StatusOK, w.Code)
	resp := s.decodeFeed(w)
	s.Len(resp.Items, 5)
	s.Equal("s10", resp.Items[0].ID)
}

func TestFeedHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(FeedHandlersTestSuite))
}
