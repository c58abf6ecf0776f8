// Package quiz orchestrates one adaptive rating session: pick a matchup,
// predict its outcome, apply the user's choice, and stop once predictions
// are reliably right or the hard cap is reached.
package quiz

import (
	"errors"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/ddebettencourt/social-activity-matcher/internal/elo"
	"github.com/ddebettencourt/social-activity-matcher/internal/selector"
	"github.com/ddebettencourt/social-activity-matcher/internal/strength"
	"github.com/ddebettencourt/social-activity-matcher/internal/types"
)

var (
	// ErrSessionComplete is returned once a session has stopped accepting
	// choices.
	ErrSessionComplete = errors.New("quiz session is complete")

	// ErrNoPendingMatchup is returned when a choice arrives without a
	// matchup having been served first.
	ErrNoPendingMatchup = errors.New("no matchup pending for this session")

	// ErrUnknownChoice is returned when the chosen activity is not part of
	// the pending matchup.
	ErrUnknownChoice = errors.New("chosen activity is not part of the pending matchup")

	// ErrTooFewActivities is returned when the collection cannot produce a
	// matchup.
	ErrTooFewActivities = errors.New("not enough activities to run a quiz")
)

// Choice is the user's answer to a pending matchup. WinnerID is ignored
// when Strength is the tie value.
type Choice struct {
	WinnerID int                      `json:"winnerId"`
	Strength types.PreferenceStrength `json:"strength"`
}

// Matchup is a served pair along with its sequence number.
type Matchup struct {
	Number int            `json:"number"`
	A      types.Activity `json:"activityA"`
	B      types.Activity `json:"activityB"`
}

// Session is one user's adaptive quiz run. All methods are safe for
// concurrent use.
type Session struct {
	mu sync.Mutex

	id       string
	username string

	activities []types.Activity
	engine     *elo.Engine
	selector   *selector.Selector

	predictions []strength.Prediction
	pending     *Matchup
	matchups    int
	complete    bool
}

// NewSession starts a session over a copy of the given collection.
func NewSession(username string, activities []types.Activity, rng *rand.Rand) (*Session, error) {
	if len(activities) < 2 {
		return nil, ErrTooFewActivities
	}
	return &Session{
		id:         uuid.New().String(),
		username:   username,
		activities: types.CloneActivities(activities),
		engine:     elo.NewEngine(elo.DefaultConfig()),
		selector:   selector.New(rng),
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Username returns the profile name the session belongs to.
func (s *Session) Username() string { return s.username }

// NextMatchup serves the next pair to compare, recording the engine's
// prediction for it. Calling it again before a choice is submitted returns
// the same pending matchup.
func (s *Session) NextMatchup() (*Matchup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.complete {
		return nil, ErrSessionComplete
	}
	if s.pending != nil {
		pending := *s.pending
		return &pending, nil
	}

	pair := s.selector.Next(s.activities)
	if pair == nil {
		return nil, ErrTooFewActivities
	}

	number := s.matchups + 1
	prediction := strength.MakePrediction(&pair.A, &pair.B, s.activities, number)
	s.predictions = append(s.predictions, prediction)
	s.pending = &Matchup{Number: number, A: pair.A, B: pair.B}

	pending := *s.pending
	return &pending, nil
}

// SubmitChoice applies the user's answer to the pending matchup. Decisive
// choices update ratings with propagation and resolve the recorded
// prediction; ties apply the reduced tie update and leave the prediction
// unresolved. The returned true means the session just completed.
func (s *Session) SubmitChoice(choice Choice) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.complete {
		return false, ErrSessionComplete
	}
	if s.pending == nil {
		return false, ErrNoPendingMatchup
	}

	winnerID, loserID := choice.WinnerID, 0
	switch {
	case choice.Strength == types.PreferenceTie:
		winnerID, loserID = s.pending.A.ID, s.pending.B.ID
	case choice.WinnerID == s.pending.A.ID:
		loserID = s.pending.B.ID
	case choice.WinnerID == s.pending.B.ID:
		loserID = s.pending.A.ID
	default:
		return false, ErrUnknownChoice
	}

	updated, err := s.engine.ApplyChoice(s.activities, winnerID, loserID, choice.Strength)
	if err != nil {
		return false, err
	}
	s.activities = updated

	if choice.Strength != types.PreferenceTie {
		last := len(s.predictions) - 1
		s.predictions[last] = strength.Resolve(s.predictions[last], winnerID)
	}

	s.matchups++
	s.pending = nil

	current := strength.Calculate(s.predictions, s.matchups)
	if current.IsReady || s.matchups >= strength.MaxMatchups {
		s.complete = true
	}
	return s.complete, nil
}

// Complete reports whether the session has stopped.
func (s *Session) Complete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.complete
}

// Matchups returns how many choices have been submitted.
func (s *Session) Matchups() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matchups
}

// Strength returns the current algorithm strength reading.
func (s *Session) Strength() strength.Strength {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strength.Calculate(s.predictions, s.matchups)
}

// Activities returns a copy of the session's current rated collection.
func (s *Session) Activities() []types.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.CloneActivities(s.activities)
}

// Predictions returns a copy of the recorded prediction history.
func (s *Session) Predictions() []strength.Prediction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]strength.Prediction, len(s.predictions))
	copy(out, s.predictions)
	return out
}
