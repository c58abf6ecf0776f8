package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddebettencourt/social-activity-matcher/internal/types"
)

func profileActivities() []types.Activity {
	return []types.Activity{
		{ID: 1, Title: "Dance Party", Tags: []string{"music", "nightlife"}, SocialIntensity: 9, EnergyLevel: 9, Elo: 1400},
		{ID: 2, Title: "Club Night", Tags: []string{"music", "nightlife"}, SocialIntensity: 9, EnergyLevel: 8, Elo: 1350},
		{ID: 3, Title: "Concert", Tags: []string{"music"}, SocialIntensity: 8, EnergyLevel: 9, Elo: 1300},
		{ID: 4, Title: "Quiet Reading", Tags: []string{"solo"}, SocialIntensity: 1, EnergyLevel: 1, Elo: 1050},
		{ID: 5, Title: "Library Visit", Tags: []string{"solo"}, SocialIntensity: 1, EnergyLevel: 2, Elo: 1100},
		{ID: 6, Title: "Museum Tour", Tags: []string{"culture"}, SocialIntensity: 3, EnergyLevel: 3, Elo: 1200},
	}
}

func TestGenerateProfileSummaryStats(t *testing.T) {
	summary := GenerateProfileSummary("tester", profileActivities(), 42)

	assert.Equal(t, "tester", summary.Username)
	assert.Equal(t, 42, summary.TotalMatchups)
	assert.InDelta(t, 1233.3, summary.OverallStats.MeanElo, 0.1)
	assert.InDelta(t, 1250.0, summary.OverallStats.MedianElo, 0.1)
	assert.Equal(t, 1050.0, summary.OverallStats.MinElo)
	assert.Equal(t, 1400.0, summary.OverallStats.MaxElo)
	assert.Equal(t, 1100.0, summary.OverallStats.Q1)
	assert.Equal(t, 1350.0, summary.OverallStats.Q3)
}

func TestGenerateProfileSummaryRanking(t *testing.T) {
	summary := GenerateProfileSummary("tester", profileActivities(), 42)

	require.Len(t, summary.AllActivities, 6)
	assert.Equal(t, "Dance Party", summary.AllActivities[0].Title)
	assert.Equal(t, 1, summary.AllActivities[0].Rank)
	assert.InDelta(t, 1.0, summary.AllActivities[0].Percentile, 1e-9)
	assert.Equal(t, "Quiet Reading", summary.AllActivities[5].Title)
	assert.InDelta(t, 1.0/6.0, summary.AllActivities[5].Percentile, 1e-9)
}

func TestGenerateProfileSummaryTagAnalysis(t *testing.T) {
	summary := GenerateProfileSummary("tester", profileActivities(), 42)

	// Only "music" reaches three activities; the others are too sparse.
	require.Len(t, summary.TagAnalysis, 1)
	music := summary.TagAnalysis[0]
	assert.Equal(t, "music", music.Tag)
	assert.Equal(t, 3, music.ActivityCount)
	assert.Greater(t, music.ZScore, 0.0, "well rated cluster sits above the mean")
	assert.Equal(t, []string{"Dance Party", "Club Night", "Concert"}, music.TopActivities)
	assert.NotEqual(t, SignificanceNone, music.Significance)
}

func TestGenerateProfileSummaryDimensions(t *testing.T) {
	summary := GenerateProfileSummary("tester", profileActivities(), 42)

	require.Contains(t, summary.Dimensions, "socialIntensity")
	social := summary.Dimensions["socialIntensity"]
	assert.GreaterOrEqual(t, social.Score, 7.0, "high ratings concentrate on social activities")
	assert.Equal(t, "Large Groups", social.Preference)

	energy := summary.Dimensions["energyLevel"]
	assert.Equal(t, "High Energy", energy.Preference)
}

func TestGenerateProfileSummaryEmptyCollection(t *testing.T) {
	summary := GenerateProfileSummary("newbie", nil, 0)

	assert.Equal(t, "newbie", summary.Username)
	assert.Zero(t, summary.TotalMatchups)
	assert.Equal(t, "No quiz data", summary.CompletionDate)
	assert.Empty(t, summary.AllActivities)
	assert.Empty(t, summary.TagAnalysis)
	require.Len(t, summary.Dimensions, types.DimensionCount)
	for name, pref := range summary.Dimensions {
		assert.Equal(t, "Unknown", pref.Preference, name)
	}
}

func TestAnalyzeTagNormalizesVariants(t *testing.T) {
	activities := []types.Activity{
		{ID: 1, Title: "Wine Tasting", Tags: []string{"Food & Drink"}, Elo: 1300},
		{ID: 2, Title: "Brewery Tour", Tags: []string{"food & drink"}, Elo: 1280},
		{ID: 3, Title: "Cooking Class", Tags: []string{"food-&-drink"}, Elo: 1260},
		{ID: 4, Title: "Quiet Reading", Tags: []string{"solo"}, Elo: 1000},
		{ID: 5, Title: "Library Visit", Tags: []string{"solo"}, Elo: 1020},
	}

	ta := analyzeTag("Food & Drink", activities)
	require.NotNil(t, ta)
	assert.Equal(t, 3, ta.ActivityCount, "spelling variants collapse to one tag")
}
