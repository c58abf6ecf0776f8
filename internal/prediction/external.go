package prediction

import (
	"fmt"
	"math"

	"github.com/ddebettencourt/social-activity-matcher/internal/types"
)

// MatchedActivity is a supplied similarity judgment joined with the user's
// rating for that activity.
type MatchedActivity struct {
	Title       string  `json:"title"`
	Elo         float64 `json:"elo"`
	Similarity  float64 `json:"similarity"`
	Explanation string  `json:"explanation"`
}

// ExternalPrediction is the result of the similarity-driven strategy.
type ExternalPrediction struct {
	EnjoymentScore       float64           `json:"enjoymentScore"`
	Explanation          string            `json:"explanation"`
	TopSimilarActivities []MatchedActivity `json:"topSimilarActivities"`
	EstimatedElo         float64           `json:"estimatedElo"`
	Percentile           float64           `json:"percentile"`
}

// matchByTitle joins similarity judgments to the user's activities by exact
// title. Judgments naming unknown activities are dropped.
func matchByTitle(similar []types.SimilarActivity, activities []types.Activity) []MatchedActivity {
	matched := make([]MatchedActivity, 0, len(similar))
	for _, s := range similar {
		if activity := types.FindActivityByTitle(activities, s.Title); activity != nil {
			matched = append(matched, MatchedActivity{
				Title:       activity.Title,
				Elo:         activity.Elo,
				Similarity:  s.Similarity,
				Explanation: s.Explanation,
			})
		}
	}
	return matched
}

// PredictExternal estimates enjoyment from externally supplied similarity
// judgments, weighting each matched activity's rating by its similarity.
func PredictExternal(similar []types.SimilarActivity, activities []types.Activity) ExternalPrediction {
	if len(activities) == 0 {
		return ExternalPrediction{
			EnjoymentScore:       neutralScore,
			Explanation:          "No profile data available for prediction",
			TopSimilarActivities: []MatchedActivity{},
			EstimatedElo:         defaultElo,
			Percentile:           0.5,
		}
	}
	if len(similar) == 0 {
		return ExternalPrediction{
			EnjoymentScore:       neutralScore,
			Explanation:          "Could not find similar activities",
			TopSimilarActivities: []MatchedActivity{},
			EstimatedElo:         defaultElo,
			Percentile:           0.5,
		}
	}

	matched := matchByTitle(similar, activities)
	if len(matched) == 0 {
		return ExternalPrediction{
			EnjoymentScore:       neutralScore,
			Explanation:          "No matching activities found in user profile",
			TopSimilarActivities: []MatchedActivity{},
			EstimatedElo:         defaultElo,
			Percentile:           0.5,
		}
	}

	weightedEloSum := 0.0
	totalWeight := 0.0
	for _, m := range matched {
		weightedEloSum += m.Elo * m.Similarity
		totalWeight += m.Similarity
	}
	estimatedElo := defaultElo
	if totalWeight > 0 {
		estimatedElo = weightedEloSum / totalWeight
	}

	score, _, percentile := scoreFromElo(estimatedElo, activities)

	top := matched
	if len(top) > 5 {
		top = top[:5]
	}

	return ExternalPrediction{
		EnjoymentScore: math.Round(score*10) / 10,
		Explanation: fmt.Sprintf("Similarity-based prediction: Would rank %dth percentile (estimated ELO: %d)",
			int(math.Round(percentile*100)), int(math.Round(estimatedElo))),
		TopSimilarActivities: top,
		EstimatedElo:         estimatedElo,
		Percentile:           percentile,
	}
}
