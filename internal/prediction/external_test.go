package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddebettencourt/social-activity-matcher/internal/types"
)

func ratedCollection() []types.Activity {
	return []types.Activity{
		{ID: 1, Title: "Dance Party", Tags: []string{"music"}, Elo: 1400},
		{ID: 2, Title: "Concert", Tags: []string{"music"}, Elo: 1300},
		{ID: 3, Title: "Museum Tour", Tags: []string{"culture"}, Elo: 1200},
		{ID: 4, Title: "Library Visit", Tags: []string{"solo"}, Elo: 1100},
		{ID: 5, Title: "Quiet Reading", Tags: []string{"solo"}, Elo: 1000},
	}
}

func TestPredictExternal(t *testing.T) {
	similar := []types.SimilarActivity{
		{Title: "Dance Party", Similarity: 1.0, Explanation: "same vibe"},
		{Title: "Quiet Reading", Similarity: 0.5, Explanation: "shares quiet moments"},
	}

	result := PredictExternal(similar, ratedCollection())

	// Weighted ELO: (1400*1.0 + 1000*0.5) / 1.5 = 1266.7, ranking third of
	// five, so percentile 0.6 and score 0.5 + 0.6*9 = 5.9.
	assert.InDelta(t, 5.9, result.EnjoymentScore, 1e-9)
	assert.InDelta(t, 1266.67, result.EstimatedElo, 0.01)
	assert.InDelta(t, 0.6, result.Percentile, 1e-9)
	require.Len(t, result.TopSimilarActivities, 2)
	assert.Equal(t, "Dance Party", result.TopSimilarActivities[0].Title)
}

func TestPredictExternalDropsUnknownTitles(t *testing.T) {
	similar := []types.SimilarActivity{
		{Title: "Dance Party", Similarity: 1.0},
		{Title: "Skydiving", Similarity: 0.9},
	}

	result := PredictExternal(similar, ratedCollection())
	require.Len(t, result.TopSimilarActivities, 1, "judgments naming unknown activities are dropped")
	assert.Equal(t, "Dance Party", result.TopSimilarActivities[0].Title)
}

func TestPredictExternalNoMatches(t *testing.T) {
	similar := []types.SimilarActivity{{Title: "Skydiving", Similarity: 0.9}}

	result := PredictExternal(similar, ratedCollection())
	assert.Equal(t, 5.0, result.EnjoymentScore)
	assert.Equal(t, "No matching activities found in user profile", result.Explanation)
	assert.Empty(t, result.TopSimilarActivities)
}

func TestPredictExternalDegenerateInputs(t *testing.T) {
	empty := PredictExternal(nil, ratedCollection())
	assert.Equal(t, 5.0, empty.EnjoymentScore)
	assert.Equal(t, "Could not find similar activities", empty.Explanation)

	noProfile := PredictExternal([]types.SimilarActivity{{Title: "Dance Party", Similarity: 1}}, nil)
	assert.Equal(t, 5.0, noProfile.EnjoymentScore)
	assert.Equal(t, "No profile data available for prediction", noProfile.Explanation)
}
