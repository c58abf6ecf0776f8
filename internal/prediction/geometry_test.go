package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddebettencourt/social-activity-matcher/internal/types"
)

func uniformDims(v float64) types.EventDimensions {
	return types.EventDimensions{
		SocialIntensity: v,
		Structure:       v,
		Novelty:         v,
		Formality:       v,
		EnergyLevel:     v,
		ScaleImmersion:  v,
	}
}

func uniformActivity(id int, title string, v, elo float64, tags ...string) types.Activity {
	return types.Activity{
		ID:                   id,
		Title:                title,
		SocialIntensity:      v,
		StructureSpontaneity: v,
		FamiliarityNovelty:   v,
		FormalityGradient:    v,
		EnergyLevel:          v,
		ScaleImmersion:       v,
		Tags:                 tags,
		Elo:                  elo,
	}
}

func TestEventSimilarityIdentical(t *testing.T) {
	activity := uniformActivity(1, "Dance Party", 9, 1400, "music")
	sim := EventSimilarity(uniformDims(9), &activity, []string{"music"})
	assert.InDelta(t, 1.0, sim, 1e-9, "identical dimensions and tags score full similarity")
}

func TestEventSimilarityNoTags(t *testing.T) {
	activity := uniformActivity(1, "Dance Party", 9, 1400)
	sim := EventSimilarity(uniformDims(9), &activity, []string{"music"})
	assert.InDelta(t, dimensionWeight, sim, 1e-9, "tag term drops to zero when the activity carries no tags")
}

func TestEventSimilarityOpposite(t *testing.T) {
	activity := uniformActivity(1, "Quiet Reading", 1, 1000, "solo")
	sim := EventSimilarity(uniformDims(10), &activity, []string{"music"})
	assert.GreaterOrEqual(t, sim, 0.0)
	assert.Less(t, sim, 0.05)
}

func TestEventSimilarityNormalizedTagOverlap(t *testing.T) {
	activity := uniformActivity(1, "Wine Tasting", 5, 1200, "Food & Drink")
	sim := EventSimilarity(uniformDims(5), &activity, []string{"food & drink"})
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func TestPredictGeometric(t *testing.T) {
	activities := []types.Activity{
		uniformActivity(1, "Dance Party", 9, 1400, "music"),
		uniformActivity(2, "Concert", 8, 1300, "music"),
		uniformActivity(3, "Museum Tour", 5, 1200, "culture"),
		uniformActivity(4, "Library Visit", 2, 1100, "solo"),
		uniformActivity(5, "Quiet Reading", 1, 1000, "solo"),
	}

	result := PredictGeometric(uniformDims(9), activities, []string{"music"})

	require.NotEmpty(t, result.TopSimilarActivities)
	assert.Equal(t, "Dance Party", result.TopSimilarActivities[0].Title)
	assert.GreaterOrEqual(t, result.EnjoymentScore, 7.0, "event matching the favorite activity scores high")
	assert.LessOrEqual(t, result.EnjoymentScore, 9.5)
	assert.Greater(t, result.Breakdown.EstimatedElo, 1300.0)
	assert.Equal(t, 5, result.Breakdown.TotalRanked)
}

func TestPredictGeometricEmptyCollection(t *testing.T) {
	result := PredictGeometric(uniformDims(5), nil, []string{"music"})

	assert.Equal(t, 5.0, result.EnjoymentScore)
	assert.Equal(t, "No profile data available for prediction", result.Explanation)
	assert.Empty(t, result.TopSimilarActivities)
	assert.Equal(t, defaultElo, result.Breakdown.EstimatedElo)
	assert.Equal(t, 0.5, result.Breakdown.Percentile)
}

func TestPredictGeometricScoreBounds(t *testing.T) {
	activities := []types.Activity{
		uniformActivity(1, "A", 1, 800),
		uniformActivity(2, "B", 10, 1600),
		uniformActivity(3, "C", 5, 1200),
	}
	for v := 1.0; v <= 10; v++ {
		result := PredictGeometric(uniformDims(v), activities, nil)
		assert.GreaterOrEqual(t, result.EnjoymentScore, 0.5)
		assert.LessOrEqual(t, result.EnjoymentScore, 9.5)
	}
}
