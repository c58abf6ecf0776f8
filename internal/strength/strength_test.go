package strength

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddebettencourt/social-activity-matcher/internal/types"
)

func sampleActivities() []types.Activity {
	return []types.Activity{
		{ID: 1, Title: "Dance Party", SocialIntensity: 9, StructureSpontaneity: 3, FamiliarityNovelty: 7, FormalityGradient: 2, EnergyLevel: 9, ScaleImmersion: 7, Elo: 1300},
		{ID: 2, Title: "Quiet Reading", SocialIntensity: 1, StructureSpontaneity: 8, FamiliarityNovelty: 3, FormalityGradient: 5, EnergyLevel: 1, ScaleImmersion: 8, Elo: 1100},
		{ID: 3, Title: "Board Games", SocialIntensity: 5, StructureSpontaneity: 7, FamiliarityNovelty: 4, FormalityGradient: 3, EnergyLevel: 4, ScaleImmersion: 5, Elo: 1200},
	}
}

func TestMakePrediction(t *testing.T) {
	acts := sampleActivities()
	p := MakePrediction(&acts[0], &acts[1], acts, 7)

	assert.Equal(t, 7, p.MatchupNumber)
	assert.Equal(t, 1, p.PredictedWinnerID, "higher rating should be the predicted winner")
	assert.False(t, p.Resolved)
	assert.Equal(t, 1300.0, p.EloA)
	assert.Equal(t, 1100.0, p.EloB)
	assert.Equal(t, 200.0, p.EloRange)
	assert.InDelta(t, 1.0, p.ConfidenceLevel, 1e-9, "widest gap in the collection maps to full confidence")
	assert.InDelta(t, 8.0, p.DimensionalDifferences["socialIntensity"], 1e-9)
	assert.InDelta(t, 5.0, p.DimensionalDifferences["structureSpontaneity"], 1e-9)
	assert.Len(t, p.DimensionalDifferences, types.DimensionCount)
}

func TestMakePredictionZeroRange(t *testing.T) {
	acts := []types.Activity{
		{ID: 1, Elo: 1200},
		{ID: 2, Elo: 1200},
	}
	p := MakePrediction(&acts[0], &acts[1], acts, 1)

	assert.Equal(t, 2, p.PredictedWinnerID, "equal ratings tip toward the second activity")
	assert.Zero(t, p.ConfidenceLevel)
	assert.Zero(t, p.EloRange)
}

func TestResolve(t *testing.T) {
	p := Prediction{MatchupNumber: 3, PredictedWinnerID: 1}

	correct := Resolve(p, 1)
	require.True(t, correct.Resolved)
	assert.True(t, correct.WasCorrect)
	assert.Equal(t, 1, correct.ActualWinnerID)

	wrong := Resolve(p, 2)
	require.True(t, wrong.Resolved)
	assert.False(t, wrong.WasCorrect)
}

func resolvedPrediction(n int, correct bool, confidence float64) Prediction {
	p := Prediction{
		MatchupNumber:          n,
		PredictedWinnerID:      1,
		ConfidenceLevel:        confidence,
		DimensionalDifferences: map[string]float64{},
	}
	actual := 1
	if !correct {
		actual = 2
	}
	return Resolve(p, actual)
}

func TestCalculateBelowMinimumMatchups(t *testing.T) {
	history := make([]Prediction, 0, 5)
	for i := 0; i < 5; i++ {
		history = append(history, resolvedPrediction(i+1, true, 0.9))
	}

	for matchup := 0; matchup < MinMatchups; matchup++ {
		s := Calculate(history, matchup)
		assert.Zero(t, s.Score)
		assert.Equal(t, ConfidenceLow, s.Confidence)
		assert.False(t, s.IsReady)
	}
}

func TestCalculateNoResolvedPredictions(t *testing.T) {
	history := []Prediction{{MatchupNumber: 1, PredictedWinnerID: 1}}
	s := Calculate(history, 10)

	assert.Zero(t, s.Score)
	assert.False(t, s.IsReady)
}

func TestCalculatePerfectHistory(t *testing.T) {
	history := make([]Prediction, 0, 25)
	for i := 0; i < 25; i++ {
		history = append(history, resolvedPrediction(i+1, true, 0.8))
	}

	s := Calculate(history, 26)
	assert.InDelta(t, 1.0, s.Score, 1e-9)
	assert.Equal(t, ConfidenceHigh, s.Confidence)
	assert.True(t, s.IsReady)
}

func TestCalculateMixedHistory(t *testing.T) {
	// Equal confidence so the score reduces to plain accuracy over the
	// ten-entry window: 6 of 10 correct.
	history := make([]Prediction, 0, 10)
	for i := 0; i < 10; i++ {
		history = append(history, resolvedPrediction(i+1, i%5 != 0 && i%4 != 0, 0.5))
	}

	s := Calculate(history, 12)
	assert.Greater(t, s.Score, 0.0)
	assert.Less(t, s.Score, 1.0)
	assert.False(t, s.IsReady, "only 10 resolved predictions, readiness needs 20")
}

func TestCalculateUsesRecentWindowOnly(t *testing.T) {
	// 20 early misses followed by 10 recent hits: the window only sees hits.
	history := make([]Prediction, 0, 30)
	for i := 0; i < 20; i++ {
		history = append(history, resolvedPrediction(i+1, false, 0.5))
	}
	for i := 20; i < 30; i++ {
		history = append(history, resolvedPrediction(i+1, true, 0.5))
	}

	s := Calculate(history, 31)
	assert.InDelta(t, 1.0, s.Score, 1e-9)
	assert.True(t, s.IsReady)
}

func TestCalculateDimensionalBoostCapped(t *testing.T) {
	// All predictions correct with a dominant dimension; the weight
	// multiplier must stay within [0.8, 1.2], so the score remains exactly 1.
	history := make([]Prediction, 0, 20)
	for i := 0; i < 20; i++ {
		p := Prediction{
			MatchupNumber:     i + 1,
			PredictedWinnerID: 1,
			ConfidenceLevel:   0.6,
			DimensionalDifferences: map[string]float64{
				"energyLevel": 8,
			},
		}
		history = append(history, Resolve(p, 1))
	}

	s := Calculate(history, 25)
	assert.InDelta(t, 1.0, s.Score, 1e-9)
	assert.True(t, s.IsReady)
}

func TestCompletionThresholdDecay(t *testing.T) {
	tests := []struct {
		name    string
		matchup int
		want    float64
	}{
		{"at start", 0, 0.85},
		{"before decay", 30, 0.85},
		{"mid decay", 50, 0.80},
		{"end of decay", 70, 0.75},
		{"past decay", 200, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CompletionThreshold(tt.matchup), 1e-9)
		})
	}
}

func TestCompletionThresholdBounds(t *testing.T) {
	for m := 0; m <= 300; m++ {
		th := CompletionThreshold(m)
		assert.GreaterOrEqual(t, th, 0.75)
		assert.LessOrEqual(t, th, 0.85)
	}
}
