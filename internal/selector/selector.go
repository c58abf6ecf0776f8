// Package selector picks which two activities face off next. It favors
// activities whose ratings have seen the fewest updates so coverage stays
// even, while avoiding pairs the user has just seen.
package selector

import (
	"math/rand"
	"sort"

	"github.com/ddebettencourt/social-activity-matcher/internal/types"
)

const (
	// RecentHistorySize is how many recently shown activity ids are kept to
	// avoid immediate repeats.
	RecentHistorySize = 20

	// subPoolSize caps the slice of least-updated activities a pair is drawn
	// from.
	subPoolSize = 15
)

// Matchup is a selected pair in display order.
type Matchup struct {
	A types.Activity
	B types.Activity
}

// Selector chooses matchup pairs. The randomness source is injected so
// selection is reproducible in tests and simulations.
type Selector struct {
	rng     *rand.Rand
	history []int
}

// New creates a selector drawing randomness from rng.
func New(rng *rand.Rand) *Selector {
	return &Selector{rng: rng}
}

// History returns the ids of recently shown activities, oldest first.
func (s *Selector) History() []int {
	return append([]int(nil), s.history...)
}

// Next selects the next pair from the collection, or nil when no two
// activities with distinct ids exist. The chosen ids are recorded in the
// recent history.
func (s *Selector) Next(activities []types.Activity) *Matchup {
	if len(activities) < 2 {
		return nil
	}

	candidates := make([]types.Activity, 0, len(activities))
	for _, act := range activities {
		if !s.recentlyShown(act.ID) {
			candidates = append(candidates, act)
		}
	}
	if len(candidates) < 2 {
		// Too few fresh activities; ignore recency for this selection.
		candidates = append(candidates[:0:0], activities...)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].EloUpdateCount < candidates[j].EloUpdateCount
	})

	size := subPoolSize
	if len(candidates) < size {
		size = len(candidates)
	}
	pool := append([]types.Activity(nil), candidates[:size]...)
	s.shuffle(pool)

	a := pool[0]
	var b *types.Activity
	for i := 1; i < len(pool); i++ {
		if pool[i].ID != a.ID {
			b = &pool[i]
			break
		}
	}

	if b == nil {
		// Every pool entry shares a's id; widen to the full collection.
		broader := make([]types.Activity, 0, len(activities))
		for _, act := range activities {
			if act.ID != a.ID {
				broader = append(broader, act)
			}
		}
		if len(broader) == 0 {
			return nil
		}
		s.shuffle(broader)
		b = &broader[0]
	}

	pair := &Matchup{A: a, B: *b}
	if s.rng.Float64() < 0.5 {
		pair.A, pair.B = pair.B, pair.A
	}

	s.remember(pair.A.ID)
	s.remember(pair.B.ID)
	return pair
}

func (s *Selector) recentlyShown(id int) bool {
	for _, h := range s.history {
		if h == id {
			return true
		}
	}
	return false
}

func (s *Selector) remember(id int) {
	s.history = append(s.history, id)
	if len(s.history) > RecentHistorySize {
		s.history = s.history[len(s.history)-RecentHistorySize:]
	}
}

// shuffle is an in-place Fisher-Yates shuffle.
func (s *Selector) shuffle(activities []types.Activity) {
	for i := len(activities) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		activities[i], activities[j] = activities[j], activities[i]
	}
}
