package simulation

import (
	"math"
	"math/rand"

	"github.com/ddebettencourt/social-activity-matcher/internal/catalog"
	"github.com/ddebettencourt/social-activity-matcher/internal/elo"
	"github.com/ddebettencourt/social-activity-matcher/internal/types"
)

// DefaultMatchups is how many choices a simulated quiz run makes. The count
// is high enough to spread ratings well apart.
const DefaultMatchups = 80

// PreferenceScore measures how well an activity matches a persona's ideal
// point: 1 for a perfect match, 0 for the farthest possible activity.
func PreferenceScore(prefs types.EventDimensions, activity *types.Activity) float64 {
	prefVals := prefs.Values()
	actVals := activity.Dimensions()
	totalDiff := 0.0
	for i := 0; i < types.DimensionCount; i++ {
		totalDiff += math.Abs(prefVals[i] - actVals[i])
	}
	avgDiff := totalDiff / types.DimensionCount
	return 1 - avgDiff/types.DimensionSpan
}

// SimulateQuiz plays a persona through the given number of random matchups
// and returns the rated collection. Each side's preference score is scaled
// by a random factor in [0.5, 1.5) so choices stay personality-driven but
// noisy. All choices are strong preferences processed through the full
// rating engine, propagation included.
func SimulateQuiz(persona Persona, activities []types.Activity, matchups int, rng *rand.Rand) []types.Activity {
	collection := types.CloneActivities(activities)
	for i := range collection {
		collection[i].Elo = catalog.StartingElo
		collection[i].EloUpdateCount = 0
		collection[i].Matchups = 0
		collection[i].Wins = 0
		collection[i].ChosenCount = 0
	}

	engine := elo.NewEngine(elo.DefaultConfig())
	for i := 0; i < matchups; i++ {
		if len(collection) < 2 {
			break
		}
		ai := rng.Intn(len(collection))
		bi := rng.Intn(len(collection) - 1)
		if bi >= ai {
			bi++
		}
		a, b := &collection[ai], &collection[bi]

		prefA := PreferenceScore(persona.Preferences, a) * (0.5 + rng.Float64())
		prefB := PreferenceScore(persona.Preferences, b) * (0.5 + rng.Float64())

		winnerID, loserID := a.ID, b.ID
		if prefB > prefA {
			winnerID, loserID = b.ID, a.ID
		}

		updated, err := engine.ApplyChoice(collection, winnerID, loserID, types.PreferenceStrong)
		if err != nil {
			continue
		}
		collection = updated
	}
	return collection
}

// GenerateProfiles runs every persona through a simulated quiz over the
// same base collection.
func GenerateProfiles(activities []types.Activity, matchups int, rng *rand.Rand) map[string][]types.Activity {
	profiles := make(map[string][]types.Activity, len(Personas))
	for _, persona := range Personas {
		profiles[persona.Username] = SimulateQuiz(persona, activities, matchups, rng)
	}
	return profiles
}
