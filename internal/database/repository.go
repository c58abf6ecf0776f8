package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository handles database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// ErrNoQuizResults is returned when a user has never completed a quiz.
var ErrNoQuizResults = fmt.Errorf("no quiz results found")

// GetOrCreateUser gets an existing user by username or creates a new one
func (r *Repository) GetOrCreateUser(username string) (*User, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}

	stmt, err := r.db.GetPreparedStatement("get_user_by_username")
	if err != nil {
		return nil, err
	}

	var user User
	err = stmt.QueryRow(username).Scan(&user.ID, &user.Username, &user.CreatedAt)
	if err == nil {
		return &user, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	user = *NewUser(username)
	insert, err := r.db.GetPreparedStatement("insert_user")
	if err != nil {
		return nil, err
	}

	if _, err := insert.Exec(user.ID, user.Username, user.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// SaveQuizResults persists a completed quiz for a user
func (r *Repository) SaveQuizResults(userID string, snapshot QuizSnapshot) (*QuizResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	result := &QuizResult{
		ID:            uuid.New().String(),
		UserID:        userID,
		Snapshot:      snapshot,
		TotalMatchups: snapshot.TotalMatchups,
		StrengthScore: snapshot.StrengthScore,
		Confidence:    snapshot.Confidence,
		CompletedAt:   time.Now(),
	}

	stmt, err := r.db.GetPreparedStatement("insert_quiz_result")
	if err != nil {
		return nil, err
	}

	_, err = stmt.Exec(result.ID, result.UserID, string(payload),
		result.TotalMatchups, result.StrengthScore, result.Confidence, result.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save quiz results: %w", err)
	}

	return result, nil
}

// GetLatestQuizResults returns the most recent quiz result for a user,
// or ErrNoQuizResults when none exist.
func (r *Repository) GetLatestQuizResults(userID string) (*QuizResult, error) {
	stmt, err := r.db.GetPreparedStatement("get_latest_quiz_result")
	if err != nil {
		return nil, err
	}

	var result QuizResult
	var payload string
	err = stmt.QueryRow(userID).Scan(&result.ID, &result.UserID, &payload,
		&result.TotalMatchups, &result.StrengthScore, &result.Confidence, &result.CompletedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNoQuizResults
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query quiz results: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), &result.Snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	return &result, nil
}

// GetQualifiedUsers returns every user whose latest quiz result has at
// least minMatchups matchups, with the decoded collection snapshot.
func (r *Repository) GetQualifiedUsers(minMatchups int) ([]QualifiedUser, error) {
	stmt, err := r.db.GetPreparedStatement("get_qualified_users")
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query(minMatchups)
	if err != nil {
		return nil, fmt.Errorf("failed to query qualified users: %w", err)
	}
	defer rows.Close()

	var users []QualifiedUser
	for rows.Next() {
		var u QualifiedUser
		var payload string
		if err := rows.Scan(&u.Username, &payload, &u.TotalMatchups); err != nil {
			return nil, fmt.Errorf("failed to scan qualified user: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &u.Snapshot); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot for %s: %w", u.Username, err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate qualified users: %w", err)
	}

	return users, nil
}

// LogPrediction records a served prediction for later analysis
func (r *Repository) LogPrediction(userID, eventTitle, strategy string, score float64) error {
	entry := NewPredictionLogEntry(userID, eventTitle, strategy, score)

	stmt, err := r.db.GetPreparedStatement("insert_prediction_log")
	if err != nil {
		return err
	}

	var uid interface{}
	if entry.UserID != "" {
		uid = entry.UserID
	}

	if _, err := stmt.Exec(entry.ID, uid, entry.EventTitle, entry.Strategy, entry.Score, entry.CreatedAt); err != nil {
		return fmt.Errorf("failed to log prediction: %w", err)
	}

	return nil
}
