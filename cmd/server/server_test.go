package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddebettencourt/social-activity-matcher/internal/cache"
	"github.com/ddebettencourt/social-activity-matcher/internal/catalog"
	"github.com/ddebettencourt/social-activity-matcher/internal/database"
	"github.com/ddebettencourt/social-activity-matcher/internal/monitoring"
	"github.com/ddebettencourt/social-activity-matcher/internal/quiz"
	"github.com/ddebettencourt/social-activity-matcher/internal/ratelimit"
	"github.com/ddebettencourt/social-activity-matcher/internal/resilience"
	"github.com/ddebettencourt/social-activity-matcher/internal/simulation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestApp(t *testing.T) (*app, *gin.Engine) {
	t.Helper()

	db, err := database.NewDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	metrics := monitoring.NewMetrics()
	redisClient, err := ratelimit.NewRedisClient("", "", 0)
	require.NoError(t, err)
	limiter := ratelimit.NewRateLimiter(redisClient, ratelimit.Config{
		IPLimitPerMin:   10000,
		UserLimitPerDay: 10000,
		BurstMultiplier: 2,
	}, metrics)

	a := &app{
		repo:        database.NewRepository(db),
		db:          db,
		activities:  catalog.DefaultActivities(),
		cache:       cache.NewCache(time.Minute),
		metrics:     metrics,
		logger:      monitoring.NewLogger(),
		limiter:     limiter,
		degradation: resilience.NewDegradationManager(resilience.DefaultDegradationConfig()),
		sessions:    make(map[string]*quiz.Session),
	}
	return a, a.router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthEndpoint(t *testing.T) {
	_, router := newTestApp(t)

	w := doJSON(t, router, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Greater(t, body["activities"], float64(1))
}

func TestCreateUserIsIdempotent(t *testing.T) {
	_, router := newTestApp(t)

	first := doJSON(t, router, http.MethodPost, "/api/v1/users", gin.H{"username": "frodo"})
	require.Equal(t, http.StatusOK, first.Code)
	firstBody := decodeBody(t, first)
	require.NotEmpty(t, firstBody["id"])

	second := doJSON(t, router, http.MethodPost, "/api/v1/users", gin.H{"username": "frodo"})
	require.Equal(t, http.StatusOK, second.Code)
	secondBody := decodeBody(t, second)

	assert.Equal(t, firstBody["id"], secondBody["id"])
	assert.Equal(t, "frodo", secondBody["username"])
}

func TestCreateUserRequiresUsername(t *testing.T) {
	_, router := newTestApp(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/users", gin.H{"username": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserResultsNotFoundWithoutQuiz(t *testing.T) {
	_, router := newTestApp(t)

	doJSON(t, router, http.MethodPost, "/api/v1/users", gin.H{"username": "sam"})
	w := doJSON(t, router, http.MethodGet, "/api/v1/users/sam/results", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuizMatchupAndChoiceFlow(t *testing.T) {
	_, router := newTestApp(t)

	start := doJSON(t, router, http.MethodPost, "/api/v1/quiz/start", gin.H{"username": "merry"})
	require.Equal(t, http.StatusOK, start.Code)
	sessionID := decodeBody(t, start)["sessionId"].(string)
	require.NotEmpty(t, sessionID)

	matchupResp := doJSON(t, router, http.MethodGet, "/api/v1/quiz/"+sessionID+"/matchup", nil)
	require.Equal(t, http.StatusOK, matchupResp.Code)
	matchupBody := decodeBody(t, matchupResp)
	require.Equal(t, false, matchupBody["complete"])

	matchup := matchupBody["matchup"].(map[string]interface{})
	activityA := matchup["activityA"].(map[string]interface{})
	activityB := matchup["activityB"].(map[string]interface{})
	assert.NotEqual(t, activityA["id"], activityB["id"])

	winnerID := int(activityA["id"].(float64))
	choice := doJSON(t, router, http.MethodPost, "/api/v1/quiz/"+sessionID+"/choice", gin.H{
		"winnerId": winnerID,
		"strength": "strong",
	})
	require.Equal(t, http.StatusOK, choice.Code)
	choiceBody := decodeBody(t, choice)
	assert.Equal(t, float64(1), choiceBody["matchups"])
	assert.Equal(t, false, choiceBody["complete"])
}

func TestQuizChoiceWithoutMatchup(t *testing.T) {
	_, router := newTestApp(t)

	start := doJSON(t, router, http.MethodPost, "/api/v1/quiz/start", gin.H{"username": "pippin"})
	sessionID := decodeBody(t, start)["sessionId"].(string)

	w := doJSON(t, router, http.MethodPost, "/api/v1/quiz/"+sessionID+"/choice", gin.H{
		"winnerId": 1,
		"strength": "strong",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuizUnknownSession(t *testing.T) {
	_, router := newTestApp(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/quiz/nope/matchup", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuizResultsIncludeProfileAndDrivers(t *testing.T) {
	_, router := newTestApp(t)

	start := doJSON(t, router, http.MethodPost, "/api/v1/quiz/start", gin.H{"username": "gimli"})
	sessionID := decodeBody(t, start)["sessionId"].(string)

	for i := 0; i < 5; i++ {
		matchupResp := doJSON(t, router, http.MethodGet, "/api/v1/quiz/"+sessionID+"/matchup", nil)
		require.Equal(t, http.StatusOK, matchupResp.Code)
		matchup := decodeBody(t, matchupResp)["matchup"].(map[string]interface{})
		winnerID := int(matchup["activityA"].(map[string]interface{})["id"].(float64))

		choice := doJSON(t, router, http.MethodPost, "/api/v1/quiz/"+sessionID+"/choice", gin.H{
			"winnerId": winnerID,
			"strength": "strong",
		})
		require.Equal(t, http.StatusOK, choice.Code)
	}

	results := doJSON(t, router, http.MethodGet, "/api/v1/quiz/"+sessionID+"/results", nil)
	require.Equal(t, http.StatusOK, results.Code)
	body := decodeBody(t, results)

	assert.Equal(t, float64(5), body["matchups"])
	assert.Contains(t, body, "profile")
	assert.Contains(t, body, "drivers")
	assert.Contains(t, body, "tagScores")
	assert.Contains(t, body, "strength")
}

func TestPredictFallsBackWithoutClassifier(t *testing.T) {
	_, router := newTestApp(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/predict", gin.H{
		"eventDescription": "board game night with close friends",
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "geometric", body["strategy"])

	score := body["score"].(float64)
	assert.GreaterOrEqual(t, score, 0.5)
	assert.LessOrEqual(t, score, 10.0)
	assert.Contains(t, body, "geometric")
	assert.Contains(t, body, "external")
	assert.Contains(t, body, "hybrid")
}

func TestPredictRequiresDescription(t *testing.T) {
	_, router := newTestApp(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/predict", gin.H{"eventDescription": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPredictUnknownUserIsNotFound(t *testing.T) {
	_, router := newTestApp(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/predict", gin.H{
		"eventDescription": "karaoke night",
		"username":         "stranger",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPredictResponsesAreCached(t *testing.T) {
	a, router := newTestApp(t)

	payload := gin.H{"eventDescription": "sunset picnic in the park"}
	first := doJSON(t, router, http.MethodPost, "/api/v1/predict", payload)
	require.Equal(t, http.StatusOK, first.Code)
	second := doJSON(t, router, http.MethodPost, "/api/v1/predict", payload)
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, int64(1), atomic.LoadInt64(&a.metrics.CacheHits))
	assert.Equal(t, int64(1), atomic.LoadInt64(&a.metrics.PredictionsServed))
}

func TestPopulationPredictionWithoutUsers(t *testing.T) {
	_, router := newTestApp(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/predict/population?description=trivia+night", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(0), body["userCount"])
}

func TestPopulationPredictionWithQualifiedUser(t *testing.T) {
	a, router := newTestApp(t)

	user, err := a.repo.GetOrCreateUser("legolas")
	require.NoError(t, err)

	activities := catalog.DefaultActivities()
	for i := range activities {
		activities[i].Elo = 1100 + float64(i*20)
	}
	_, err = a.repo.SaveQuizResults(user.ID, database.QuizSnapshot{
		Activities:    activities,
		TotalMatchups: 30,
		StrengthScore: 0.8,
		Confidence:    "high",
	})
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodGet, "/api/v1/predict/population?description=trivia+night", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, float64(1), body["userCount"])

	predictions := body["predictions"].([]interface{})
	first := predictions[0].(map[string]interface{})
	assert.Equal(t, "legolas", first["username"])
}

func TestSeededProfilesQualifyForPopulationPredictions(t *testing.T) {
	a, router := newTestApp(t)

	require.NoError(t, seedSimulatedProfiles(a.repo, a.activities))

	w := doJSON(t, router, http.MethodGet, "/api/v1/predict/population?description=trivia+night", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, float64(len(simulation.Personas)), body["userCount"])

	usernames := make(map[string]bool)
	for _, raw := range body["predictions"].([]interface{}) {
		p := raw.(map[string]interface{})
		usernames[p["username"].(string)] = true
	}
	assert.True(t, usernames["HighEnergyHarry"])
	assert.True(t, usernames["QuietBookwormBella"])
}

func TestPopulationPredictionRejectsBadMinMatchups(t *testing.T) {
	_, router := newTestApp(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/predict/population?description=picnic&minMatchups=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompletedQuizPersistsSnapshot(t *testing.T) {
	_, router := newTestApp(t)

	start := doJSON(t, router, http.MethodPost, "/api/v1/quiz/start", gin.H{"username": "aragorn"})
	sessionID := decodeBody(t, start)["sessionId"].(string)

	complete := false
	for i := 0; i < 121 && !complete; i++ {
		matchupResp := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/quiz/%s/matchup", sessionID), nil)
		require.Equal(t, http.StatusOK, matchupResp.Code)
		matchupBody := decodeBody(t, matchupResp)
		if matchupBody["complete"] == true {
			complete = true
			break
		}
		matchup := matchupBody["matchup"].(map[string]interface{})
		winnerID := int(matchup["activityA"].(map[string]interface{})["id"].(float64))

		choice := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/quiz/%s/choice", sessionID), gin.H{
			"winnerId": winnerID,
			"strength": "strong",
		})
		require.Equal(t, http.StatusOK, choice.Code)
		complete = decodeBody(t, choice)["complete"] == true
	}
	require.True(t, complete)

	results := doJSON(t, router, http.MethodGet, "/api/v1/users/aragorn/results", nil)
	require.Equal(t, http.StatusOK, results.Code)
	body := decodeBody(t, results)
	assert.Greater(t, body["total_matchups"], float64(0))
}
