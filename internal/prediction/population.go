package prediction

import (
	"sort"

	"github.com/ddebettencourt/social-activity-matcher/internal/types"
)

// MinMatchupsForPopulation is the quiz depth a user needs before their
// ratings are trusted for population-wide predictions.
const MinMatchupsForPopulation = 10

// UserProfile is one user's rated collection as stored after a quiz.
type UserProfile struct {
	Username      string
	Activities    []types.Activity
	TotalMatchups int
}

// UserPrediction is one user's hybrid prediction for an event.
type UserPrediction struct {
	Username       string          `json:"username"`
	EnjoymentScore float64         `json:"enjoymentScore"`
	Explanation    string          `json:"explanation"`
	Insights       Insights        `json:"insights"`
	Breakdown      HybridBreakdown `json:"hybridBreakdown"`
}

// PredictForPopulation runs the hybrid strategy for every qualified user
// and returns the predictions sorted best match first.
func PredictForPopulation(event *types.CustomEvent, users []UserProfile) []UserPrediction {
	predictions := make([]UserPrediction, 0, len(users))
	for _, user := range users {
		if user.TotalMatchups < MinMatchupsForPopulation {
			continue
		}
		hybrid := PredictHybrid(event.SimilarActivities, event.Tags, user.Activities)
		predictions = append(predictions, UserPrediction{
			Username:       user.Username,
			EnjoymentScore: hybrid.Score,
			Explanation:    hybrid.Explanation,
			Insights:       hybrid.Insights,
			Breakdown:      hybrid.Breakdown,
		})
	}
	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].EnjoymentScore > predictions[j].EnjoymentScore
	})
	return predictions
}
