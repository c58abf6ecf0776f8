package elo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddebettencourt/social-activity-matcher/internal/types"
)

func twoActivities(eloA, eloB float64) []types.Activity {
	return []types.Activity{
		{ID: 1, Title: "Park Picnic", SocialIntensity: 5, StructureSpontaneity: 7, FamiliarityNovelty: 3, FormalityGradient: 1, EnergyLevel: 3, ScaleImmersion: 3, Elo: eloA},
		{ID: 2, Title: "Museum Visit", SocialIntensity: 3, StructureSpontaneity: 3, FamiliarityNovelty: 6, FormalityGradient: 4, EnergyLevel: 3, ScaleImmersion: 4, Elo: eloB},
	}
}

func TestExpectedScore(t *testing.T) {
	tests := []struct {
		name     string
		eloA     float64
		eloB     float64
		expected float64
	}{
		{
			name:     "equal ratings",
			eloA:     1200,
			eloB:     1200,
			expected: 0.5,
		},
		{
			name:     "400 point favorite",
			eloA:     1600,
			eloB:     1200,
			expected: 0.9090909090909091,
		},
		{
			name:     "400 point underdog",
			eloA:     1200,
			eloB:     1600,
			expected: 0.09090909090909091,
		},
		{
			name:     "200 point favorite",
			eloA:     1300,
			eloB:     1100,
			expected: 0.7597469266479578,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ExpectedScore(tt.eloA, tt.eloB), 1e-12)
		})
	}
}

func TestKFactorByStrength(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	assert.Equal(t, 48.0, engine.KFactor(types.PreferenceStrong))
	assert.Equal(t, 24.0, engine.KFactor(types.PreferenceSomewhat))
	assert.Equal(t, 16.0, engine.KFactor(types.PreferenceTie))
	assert.Equal(t, 24.0, engine.KFactor(types.PreferenceStrength("unknown")))
}

func TestApplyChoiceDirectUpdate(t *testing.T) {
	tests := []struct {
		name       string
		eloWinner  float64
		eloLoser   float64
		strength   types.PreferenceStrength
		wantWinner float64
		wantLoser  float64
	}{
		{
			name:       "strong win between equals",
			eloWinner:  1200,
			eloLoser:   1200,
			strength:   types.PreferenceStrong,
			wantWinner: 1224,
			wantLoser:  1176,
		},
		{
			name:       "somewhat win between equals",
			eloWinner:  1200,
			eloLoser:   1200,
			strength:   types.PreferenceSomewhat,
			wantWinner: 1212,
			wantLoser:  1188,
		},
		{
			name:       "tie pulls ratings toward each other",
			eloWinner:  1300,
			eloLoser:   1100,
			strength:   types.PreferenceTie,
			wantWinner: 1296,
			wantLoser:  1104,
		},
	}

	engine := NewEngine(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			activities := twoActivities(tt.eloWinner, tt.eloLoser)
			updated, err := engine.ApplyChoice(activities, 1, 2, tt.strength)
			require.NoError(t, err)

			assert.Equal(t, tt.wantWinner, types.FindActivity(updated, 1).Elo)
			assert.Equal(t, tt.wantLoser, types.FindActivity(updated, 2).Elo)
		})
	}
}

func TestApplyChoiceTieConservesRatingSum(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	activities := twoActivities(1300, 1100)

	updated, err := engine.ApplyChoice(activities, 1, 2, types.PreferenceTie)
	require.NoError(t, err)

	before := activities[0].Elo + activities[1].Elo
	after := updated[0].Elo + updated[1].Elo
	assert.InDelta(t, before, after, 1.0, "tie should conserve the rating sum up to rounding")
}

func TestApplyChoiceCounters(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	activities := twoActivities(1200, 1200)

	updated, err := engine.ApplyChoice(activities, 1, 2, types.PreferenceStrong)
	require.NoError(t, err)

	winner := types.FindActivity(updated, 1)
	loser := types.FindActivity(updated, 2)
	assert.Equal(t, 1, winner.Matchups)
	assert.Equal(t, 1, loser.Matchups)
	assert.Equal(t, 1, winner.Wins)
	assert.Equal(t, 1, winner.ChosenCount)
	assert.Equal(t, 0, loser.Wins)
	assert.Equal(t, 0, loser.ChosenCount)
	assert.Equal(t, 1.0, winner.EloUpdateCount)
	assert.Equal(t, 1.0, loser.EloUpdateCount)
}

func TestApplyChoiceTieCounters(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	activities := twoActivities(1200, 1200)

	updated, err := engine.ApplyChoice(activities, 1, 2, types.PreferenceTie)
	require.NoError(t, err)

	for _, act := range updated {
		assert.Equal(t, 1, act.Matchups)
		assert.Equal(t, 0, act.Wins)
		assert.Equal(t, 0, act.ChosenCount)
	}
}

func TestApplyChoiceDoesNotMutateInput(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	activities := twoActivities(1200, 1200)

	_, err := engine.ApplyChoice(activities, 1, 2, types.PreferenceStrong)
	require.NoError(t, err)

	assert.Equal(t, 1200.0, activities[0].Elo)
	assert.Equal(t, 1200.0, activities[1].Elo)
	assert.Equal(t, 0, activities[0].Matchups)
}

func TestApplyChoiceUnknownActivity(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	activities := twoActivities(1200, 1200)

	updated, err := engine.ApplyChoice(activities, 1, 99, types.PreferenceStrong)
	assert.ErrorIs(t, err, ErrActivityNotFound)
	assert.Equal(t, activities, updated, "collection should be returned unchanged")

	_, err = engine.ApplyChoice(activities, 99, 2, types.PreferenceSomewhat)
	assert.ErrorIs(t, err, ErrActivityNotFound)
}
