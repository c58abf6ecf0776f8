package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ddebettencourt/social-activity-matcher/internal/analysis"
	"github.com/ddebettencourt/social-activity-matcher/internal/cache"
	"github.com/ddebettencourt/social-activity-matcher/internal/catalog"
	"github.com/ddebettencourt/social-activity-matcher/internal/classifier"
	"github.com/ddebettencourt/social-activity-matcher/internal/database"
	"github.com/ddebettencourt/social-activity-matcher/internal/errors"
	"github.com/ddebettencourt/social-activity-matcher/internal/monitoring"
	"github.com/ddebettencourt/social-activity-matcher/internal/prediction"
	"github.com/ddebettencourt/social-activity-matcher/internal/quiz"
	"github.com/ddebettencourt/social-activity-matcher/internal/ratelimit"
	"github.com/ddebettencourt/social-activity-matcher/internal/resilience"
	"github.com/ddebettencourt/social-activity-matcher/internal/simulation"
	"github.com/ddebettencourt/social-activity-matcher/internal/types"
)

const predictPath = "/api/v1/predict"

// simulatedQuizMatchups is how deep each seeded persona's simulated quiz
// runs.
const simulatedQuizMatchups = 80

// app holds the wired services behind the HTTP surface. Quiz sessions live
// in memory for their lifetime; completed runs are persisted as snapshots.
type app struct {
	repo        *database.Repository
	db          *database.DB
	activities  []types.Activity
	classifier  *classifier.Client
	cache       *cache.Cache
	metrics     *monitoring.Metrics
	logger      *monitoring.Logger
	limiter     *ratelimit.RateLimiter
	degradation *resilience.DegradationManager

	mu       sync.RWMutex
	sessions map[string]*quiz.Session
}

func (a *app) session(id string) (*quiz.Session, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.sessions[id]
	return s, ok
}

func (a *app) addSession(s *quiz.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sessions[s.ID()] = s
}

// classifyEvent turns a free-text description into a structured event. When
// the classifier is not configured, unavailable, or fails, it falls back to
// a neutral event so the geometric strategy can still answer.
func (a *app) classifyEvent(ctx context.Context, description string, activities []types.Activity) (*types.CustomEvent, string) {
	if a.classifier != nil && a.degradation.IsServiceAvailable("anthropic") {
		start := time.Now()
		event, err := a.classifier.Classify(ctx, description, activities)
		duration := time.Since(start)
		a.metrics.IncrementAnthropicCalls()
		if err == nil {
			a.degradation.RecordRequest("anthropic", true)
			a.logger.ExternalAPILogger("Anthropic", "POST", "api.anthropic.com", http.StatusOK, duration, true)
			return event, "hybrid"
		}
		a.degradation.RecordError("anthropic", err)
		a.logger.ExternalAPILogger("Anthropic", "POST", "api.anthropic.com", http.StatusInternalServerError, duration, false)
		slog.Warn("Event classification failed, using geometric fallback", "error", err)
	}

	fallback := classifier.Validate(classifier.RawAnalysis{Title: description})
	return &fallback, "geometric"
}

// profileActivities resolves the rated collection a prediction should run
// against: the user's latest snapshot when a username is given, the unrated
// default catalog otherwise.
func (a *app) profileActivities(username string) ([]types.Activity, string, *errors.AppError) {
	if username == "" {
		return a.activities, "", nil
	}
	user, err := a.repo.GetOrCreateUser(username)
	if err != nil {
		return nil, "", errors.ToAppError(err)
	}
	result, err := a.repo.GetLatestQuizResults(user.ID)
	if err != nil {
		if err == database.ErrNoQuizResults {
			return nil, "", errors.NewNotFoundError("quiz results for user", username)
		}
		return nil, "", errors.ToAppError(err)
	}
	return result.Snapshot.Activities, user.ID, nil
}

func (a *app) router() *gin.Engine {
	r := gin.New()

	r.Use(monitoring.MonitoringMiddleware(a.metrics, a.logger))
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	corsConfig := cors.DefaultConfig()
	if origins := getEnvOrDefault("CORS_ORIGINS", ""); origins != "" {
		corsConfig.AllowOrigins = strings.Split(origins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "X-Username")
	r.Use(cors.New(corsConfig))

	r.Use(a.limiter.IPRateLimitMiddleware())

	// Named profiles arrive via header; the daily prediction quota keys
	// off this identity.
	r.Use(func(c *gin.Context) {
		if username := c.GetHeader("X-Username"); username != "" {
			c.Set("user_id", username)
		}
		c.Next()
	})
	r.Use(a.limiter.UserRateLimitMiddleware(predictPath))

	r.Use(a.cache.Middleware(a.metrics, predictPath))

	r.GET("/health", func(c *gin.Context) {
		services := a.degradation.GetAllServiceHealth()
		status := "healthy"
		httpStatus := http.StatusOK
		for _, svc := range services {
			if svc.Level == resilience.LevelEmergency {
				status = "degraded"
				httpStatus = http.StatusServiceUnavailable
				break
			}
		}
		c.JSON(httpStatus, gin.H{
			"status":     status,
			"services":   services,
			"activities": len(a.activities),
			"sessions":   a.sessionCount(),
		})
	})

	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, a.metrics.GetStats())
	})

	r.GET("/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, a.cache.Stats())
	})

	r.GET("/pools/database", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"pool":  "database",
			"stats": a.db.GetPoolStats(),
		})
	})

	r.GET("/pools/classifier", func(c *gin.Context) {
		if a.classifier == nil {
			c.JSON(http.StatusOK, gin.H{"pool": "classifier", "configured": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"pool":  "classifier",
			"stats": a.classifier.PoolStats(),
		})
	})

	r.GET("/ratelimit/status", a.limiter.HandleRateLimitStatus())

	admin := r.Group("/admin")
	admin.GET("/ratelimits", a.limiter.HandleAdminRateLimits())
	admin.GET("/ratelimits/metrics", a.limiter.HandleAdminRateLimitMetrics())
	admin.POST("/ratelimits/reset", a.limiter.HandleAdminResetRateLimit())
	admin.POST("/ratelimits/invalidate/user", a.limiter.HandleAdminInvalidateUser())
	admin.POST("/ratelimits/invalidate/ip", a.limiter.HandleAdminInvalidateIP())

	api := r.Group("/api/v1")

	api.POST("/users", func(c *gin.Context) {
		var req struct {
			Username string `json:"username"`
		}
		if err := c.BindJSON(&req); err != nil {
			respondError(c, errors.NewValidationError("invalid request body"))
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" {
			respondError(c, errors.NewValidationError("username cannot be empty"))
			return
		}

		user, err := a.repo.GetOrCreateUser(req.Username)
		if err != nil {
			respondError(c, errors.ToAppError(err))
			return
		}
		c.JSON(http.StatusOK, user)
	})

	api.GET("/users/:username/results", func(c *gin.Context) {
		username := c.Param("username")
		user, err := a.repo.GetOrCreateUser(username)
		if err != nil {
			respondError(c, errors.ToAppError(err))
			return
		}
		result, err := a.repo.GetLatestQuizResults(user.ID)
		if err != nil {
			if err == database.ErrNoQuizResults {
				respondError(c, errors.NewNotFoundError("quiz results for user", username))
				return
			}
			respondError(c, errors.ToAppError(err))
			return
		}
		c.JSON(http.StatusOK, result)
	})

	api.POST("/quiz/start", func(c *gin.Context) {
		var req struct {
			Username string `json:"username"`
		}
		if c.Request.ContentLength > 0 {
			if err := c.BindJSON(&req); err != nil {
				respondError(c, errors.NewValidationError("invalid request body"))
				return
			}
		}

		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		session, err := quiz.NewSession(strings.TrimSpace(req.Username), a.activities, rng)
		if err != nil {
			respondError(c, errors.ToAppError(err))
			return
		}
		a.addSession(session)

		a.logger.QuizLogger("quiz_started", session.ID(), session.Username(), 0, 0)
		c.JSON(http.StatusOK, gin.H{
			"sessionId":     session.ID(),
			"username":      session.Username(),
			"activityCount": len(a.activities),
		})
	})

	api.GET("/quiz/:id/matchup", func(c *gin.Context) {
		session, ok := a.session(c.Param("id"))
		if !ok {
			respondError(c, errors.NewNotFoundError("quiz session", c.Param("id")))
			return
		}

		matchup, err := session.NextMatchup()
		if err != nil {
			if err == quiz.ErrSessionComplete {
				c.JSON(http.StatusOK, gin.H{
					"complete": true,
					"matchups": session.Matchups(),
					"strength": session.Strength(),
				})
				return
			}
			respondError(c, errors.ToAppError(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"complete": false, "matchup": matchup})
	})

	api.POST("/quiz/:id/choice", func(c *gin.Context) {
		session, ok := a.session(c.Param("id"))
		if !ok {
			respondError(c, errors.NewNotFoundError("quiz session", c.Param("id")))
			return
		}

		var choice quiz.Choice
		if err := c.BindJSON(&choice); err != nil {
			respondError(c, errors.NewValidationError("invalid request body"))
			return
		}

		complete, err := session.SubmitChoice(choice)
		if err != nil {
			switch err {
			case quiz.ErrSessionComplete:
				respondError(c, errors.NewValidationError("quiz session is already complete"))
			case quiz.ErrNoPendingMatchup:
				respondError(c, errors.NewValidationError("no matchup pending, request one first"))
			case quiz.ErrUnknownChoice:
				respondError(c, errors.NewValidationError("chosen activity is not part of the pending matchup"))
			default:
				respondError(c, errors.ToAppError(err))
			}
			return
		}

		if complete {
			a.persistQuizResult(session)
		}

		c.JSON(http.StatusOK, gin.H{
			"complete": complete,
			"matchups": session.Matchups(),
			"strength": session.Strength(),
		})
	})

	api.GET("/quiz/:id/results", func(c *gin.Context) {
		session, ok := a.session(c.Param("id"))
		if !ok {
			respondError(c, errors.NewNotFoundError("quiz session", c.Param("id")))
			return
		}

		activities := session.Activities()
		c.JSON(http.StatusOK, gin.H{
			"profile":   analysis.GenerateProfileSummary(session.Username(), activities, session.Matchups()),
			"drivers":   analysis.PreferenceDrivers(activities),
			"tagScores": analysis.TagScores(activities),
			"strength":  session.Strength(),
			"matchups":  session.Matchups(),
			"complete":  session.Complete(),
		})
	})

	api.POST("/predict", func(c *gin.Context) {
		var req struct {
			EventDescription string `json:"eventDescription"`
			Username         string `json:"username"`
		}
		if err := c.BindJSON(&req); err != nil {
			respondError(c, errors.NewValidationError("invalid request body"))
			return
		}
		req.EventDescription = strings.TrimSpace(req.EventDescription)
		if req.EventDescription == "" {
			respondError(c, errors.NewValidationError("eventDescription cannot be empty"))
			return
		}

		activities, userID, appErr := a.profileActivities(strings.TrimSpace(req.Username))
		if appErr != nil {
			respondError(c, appErr)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		start := time.Now()
		event, strategy := a.classifyEvent(ctx, req.EventDescription, activities)

		geometric := prediction.PredictGeometric(event.Dimensions, activities, event.TagNames())
		external := prediction.PredictExternal(event.SimilarActivities, activities)
		hybrid := prediction.PredictHybrid(event.SimilarActivities, event.Tags, activities)

		score := hybrid.Score
		if strategy == "geometric" {
			score = geometric.EnjoymentScore
		}

		a.metrics.IncrementPredictionsServed()
		a.logger.PredictionLogger(event.Title, strategy, score, time.Since(start), false)
		if err := a.repo.LogPrediction(userID, event.Title, strategy, score); err != nil {
			slog.Error("Failed to log prediction", "error", err, "event", event.Title)
		}

		c.JSON(http.StatusOK, gin.H{
			"event":     event,
			"strategy":  strategy,
			"score":     score,
			"geometric": geometric,
			"external":  external,
			"hybrid":    hybrid,
		})
	})

	api.GET("/predict/population", func(c *gin.Context) {
		description := strings.TrimSpace(c.Query("description"))
		if description == "" {
			respondError(c, errors.NewValidationError("description query parameter is required"))
			return
		}

		minMatchups := prediction.MinMatchupsForPopulation
		if raw := c.Query("minMatchups"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				respondError(c, errors.NewValidationError("minMatchups must be a positive integer"))
				return
			}
			minMatchups = parsed
		}

		qualified, err := a.repo.GetQualifiedUsers(minMatchups)
		if err != nil {
			respondError(c, errors.ToAppError(err))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		event, strategy := a.classifyEvent(ctx, description, a.activities)

		users := make([]prediction.UserProfile, len(qualified))
		for i, q := range qualified {
			users[i] = prediction.UserProfile{
				Username:      q.Username,
				Activities:    q.Snapshot.Activities,
				TotalMatchups: q.TotalMatchups,
			}
		}
		predictions := prediction.PredictForPopulation(event, users)

		a.metrics.IncrementPredictionsServed()
		c.JSON(http.StatusOK, gin.H{
			"event":       event,
			"strategy":    strategy,
			"userCount":   len(predictions),
			"predictions": predictions,
		})
	})

	return r
}

func (a *app) sessionCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.sessions)
}

// persistQuizResult saves a completed session snapshot for its named
// profile. Anonymous sessions stay in memory only.
func (a *app) persistQuizResult(session *quiz.Session) {
	a.metrics.IncrementQuizCompletions()
	current := session.Strength()
	a.logger.QuizLogger("quiz_completed", session.ID(), session.Username(), session.Matchups(), current.Score)

	if session.Username() == "" {
		return
	}

	user, err := a.repo.GetOrCreateUser(session.Username())
	if err != nil {
		slog.Error("Failed to resolve user for quiz snapshot", "error", err, "username", session.Username())
		return
	}
	snapshot := database.QuizSnapshot{
		Activities:    session.Activities(),
		TotalMatchups: session.Matchups(),
		StrengthScore: current.Score,
		Confidence:    string(current.Confidence),
	}
	if _, err := a.repo.SaveQuizResults(user.ID, snapshot); err != nil {
		slog.Error("Failed to save quiz snapshot", "error", err, "username", session.Username())
	}
}

// seedSimulatedProfiles persists a quiz snapshot for every simulation
// persona so population predictions have data before any real user has
// finished a quiz.
func seedSimulatedProfiles(repo *database.Repository, activities []types.Activity) error {
	rng := rand.New(rand.NewSource(1))
	profiles := simulation.GenerateProfiles(activities, simulatedQuizMatchups, rng)
	for username, rated := range profiles {
		user, err := repo.GetOrCreateUser(username)
		if err != nil {
			return fmt.Errorf("failed to create persona %s: %w", username, err)
		}
		snapshot := database.QuizSnapshot{
			Activities:    rated,
			TotalMatchups: simulatedQuizMatchups,
			StrengthScore: 0,
			Confidence:    "low",
		}
		if _, err := repo.SaveQuizResults(user.ID, snapshot); err != nil {
			return fmt.Errorf("failed to save snapshot for persona %s: %w", username, err)
		}
	}
	slog.Info("Seeded simulated profiles", "personas", len(profiles), "matchups", simulatedQuizMatchups)
	return nil
}

func respondError(c *gin.Context, appErr *errors.AppError) {
	errors.LogError(c, appErr)
	c.JSON(appErr.HTTPStatus, appErr)
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	port := getEnvOrDefault("PORT", "8080")
	dataDir := getEnvOrDefault("DATA_DIR", "./data")

	db, err := database.NewDB(dataDir)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	repo := database.NewRepository(db)

	activities := catalog.DefaultActivities()
	if csvPath := getEnvOrDefault("ACTIVITIES_CSV", ""); csvPath != "" {
		loaded, err := catalog.LoadFile(csvPath)
		if err != nil {
			slog.Error("Failed to load activity catalog", "error", err, "path", csvPath)
			os.Exit(1)
		}
		activities = loaded
		slog.Info("Loaded activity catalog", "path", csvPath, "activities", len(activities))
	}

	if getEnvOrDefault("SEED_SIMULATED_PROFILES", "") == "true" {
		if err := seedSimulatedProfiles(repo, activities); err != nil {
			slog.Error("Failed to seed simulated profiles", "error", err)
			os.Exit(1)
		}
	}

	var classifierClient *classifier.Client
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		classifierClient = classifier.NewClient(apiKey)
		defer classifierClient.Close()
	} else {
		slog.Warn("ANTHROPIC_API_KEY not set, event classification disabled")
	}

	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()
	appCache := cache.NewCache(15 * time.Minute)

	redisURL := getEnvOrDefault("REDIS_URL", "")
	redisClient, err := ratelimit.NewRedisClient(redisURL, os.Getenv("REDIS_PASSWORD"), 0)
	if err != nil {
		slog.Warn("Redis unavailable, rate limiting falls back to in-memory", "error", err)
	}

	rateLimitConfig := ratelimit.Config{
		IPLimitPerMin:   getEnvOrDefaultInt("IP_RATE_LIMIT_PER_MIN", 60),
		UserLimitPerDay: getEnvOrDefaultInt("USER_RATE_LIMIT_PER_DAY", 50),
		BurstMultiplier: 2,
	}
	limiter := ratelimit.NewRateLimiter(redisClient, rateLimitConfig, appMetrics)

	degradation := resilience.NewDegradationManager(resilience.DefaultDegradationConfig())
	degradation.RegisterService("database", func(ctx context.Context) error {
		return db.PingContext(ctx)
	})
	if redisClient != nil && redisClient.IsEnabled() {
		degradation.RegisterService("redis", func(ctx context.Context) error {
			return redisClient.HealthCheck(ctx)
		})
	}
	if classifierClient != nil {
		// Availability is driven by observed request outcomes; there is
		// no cheap liveness check for the classifier API.
		degradation.RegisterService("anthropic", func(ctx context.Context) error {
			return nil
		})
	}

	healthCtx, stopHealthChecks := context.WithCancel(context.Background())
	defer stopHealthChecks()
	go degradation.StartHealthChecks(healthCtx)

	application := &app{
		repo:        repo,
		db:          db,
		activities:  activities,
		classifier:  classifierClient,
		cache:       appCache,
		metrics:     appMetrics,
		logger:      appLogger,
		limiter:     limiter,
		degradation: degradation,
		sessions:    make(map[string]*quiz.Session),
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: application.router(),
	}

	go func() {
		slog.Info("Starting server", "port", port, "activities", len(activities))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stopHealthChecks()
	degradation.GracefulShutdown()
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			slog.Error("Failed to close redis client", "error", err)
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}
