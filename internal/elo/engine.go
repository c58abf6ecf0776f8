package elo

import (
	"errors"
	"math"

	"github.com/ddebettencourt/social-activity-matcher/internal/types"
)

// ErrActivityNotFound is returned when a choice references an activity id
// that is not present in the collection.
var ErrActivityNotFound = errors.New("elo: activity not found in collection")

// Config holds the tunable parameters of the rating engine.
type Config struct {
	InitialRating float64

	// K-factors applied to the direct matchup update, by preference strength.
	StrongK   float64
	SomewhatK float64
	TieK      float64

	// Neighbor propagation parameters.
	DimensionalK        float64
	TagK                float64
	SimilarityThreshold float64
	// Accumulated propagation deltas at or below this magnitude are dropped.
	MinPropagationDelta float64
}

// DefaultConfig returns the engine parameters the quiz runs with.
func DefaultConfig() Config {
	return Config{
		InitialRating:       1200,
		StrongK:             48,
		SomewhatK:           24,
		TieK:                16,
		DimensionalK:        12,
		TagK:                8,
		SimilarityThreshold: 0.65,
		MinPropagationDelta: 0.01,
	}
}

// Engine applies matchup outcomes to a rated activity collection.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine with the given configuration.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// ExpectedScore returns the probability that a rating of eloA beats eloB.
func ExpectedScore(eloA, eloB float64) float64 {
	return 1 / (1 + math.Pow(10, (eloB-eloA)/400))
}

// KFactor returns the direct-update K for a preference strength. Unknown
// strengths fall back to the somewhat K.
func (e *Engine) KFactor(strength types.PreferenceStrength) float64 {
	switch strength {
	case types.PreferenceStrong:
		return e.cfg.StrongK
	case types.PreferenceTie:
		return e.cfg.TieK
	default:
		return e.cfg.SomewhatK
	}
}

// updateRating applies one side of a direct update and rounds to a whole
// rating point.
func updateRating(elo, expected, actual, k float64) float64 {
	return math.Round(elo + k*(actual-expected))
}

// ApplyChoice resolves one matchup and returns a new collection with the
// direct rating updates and neighbor propagation applied. The input slice is
// never mutated. For a tie, winnerID and loserID are just the two
// participants; both receive the tie outcome and no propagation runs.
//
// If either id is missing from the collection the input is returned as-is
// together with ErrActivityNotFound.
func (e *Engine) ApplyChoice(activities []types.Activity, winnerID, loserID int, strength types.PreferenceStrength) ([]types.Activity, error) {
	if types.FindActivity(activities, winnerID) == nil || types.FindActivity(activities, loserID) == nil {
		return activities, ErrActivityNotFound
	}

	updated := types.CloneActivities(activities)
	winner := types.FindActivity(updated, winnerID)
	loser := types.FindActivity(updated, loserID)

	outcome := 1.0
	if strength == types.PreferenceTie {
		outcome = 0.5
	}

	k := e.KFactor(strength)
	expectedWinner := ExpectedScore(winner.Elo, loser.Elo)
	winner.Elo = updateRating(winner.Elo, expectedWinner, outcome, k)
	loser.Elo = updateRating(loser.Elo, 1-expectedWinner, 1-outcome, k)

	winner.EloUpdateCount++
	loser.EloUpdateCount++
	winner.Matchups++
	loser.Matchups++

	if outcome != 0.5 {
		winner.Wins++
		winner.ChosenCount++
		e.propagate(updated, winner, loser)
	}

	return updated, nil
}
