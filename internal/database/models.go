package database

import (
	"time"

	"github.com/google/uuid"

	"github.com/ddebettencourt/social-activity-matcher/internal/types"
)

// User represents a registered quiz taker
type User struct {
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// QuizSnapshot is the JSON payload stored with a completed quiz: the full
// rated collection plus the stopping state it finished with.
type QuizSnapshot struct {
	Activities    []types.Activity `json:"activities"`
	TotalMatchups int              `json:"totalMatchups"`
	StrengthScore float64          `json:"strengthScore"`
	Confidence    string           `json:"confidence"`
}

// QuizResult is a persisted quiz run
type QuizResult struct {
	ID            string       `json:"id" db:"id"`
	UserID        string       `json:"user_id" db:"user_id"`
	Snapshot      QuizSnapshot `json:"snapshot"`
	TotalMatchups int          `json:"total_matchups" db:"total_matchups"`
	StrengthScore float64      `json:"strength_score" db:"strength_score"`
	Confidence    string       `json:"confidence" db:"confidence"`
	CompletedAt   time.Time    `json:"completed_at" db:"completed_at"`
}

// QualifiedUser is a user whose latest quiz has enough matchups to be
// included in population-wide predictions.
type QualifiedUser struct {
	Username      string       `json:"username"`
	Snapshot      QuizSnapshot `json:"snapshot"`
	TotalMatchups int          `json:"total_matchups"`
}

// PredictionLogEntry records a served custom-event prediction
type PredictionLogEntry struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id,omitempty" db:"user_id"`
	EventTitle string    `json:"event_title" db:"event_title"`
	Strategy   string    `json:"strategy" db:"strategy"`
	Score      float64   `json:"score" db:"score"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// NewUser creates a new user with generated ID
func NewUser(username string) *User {
	return &User{
		ID:        uuid.New().String(),
		Username:  username,
		CreatedAt: time.Now(),
	}
}

// NewPredictionLogEntry creates a new prediction log entry
func NewPredictionLogEntry(userID, eventTitle, strategy string, score float64) *PredictionLogEntry {
	return &PredictionLogEntry{
		ID:         uuid.New().String(),
		UserID:     userID,
		EventTitle: eventTitle,
		Strategy:   strategy,
		Score:      score,
		CreatedAt:  time.Now(),
	}
}
