package classifier

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddebettencourt/social-activity-matcher/internal/types"
)

func TestValidateClampsDimensions(t *testing.T) {
	event := Validate(RawAnalysis{
		Title: "Test Event",
		Dimensions: map[string]float64{
			"socialIntensity": 15,
			"structure":       -3,
			"novelty":         7,
			"energyLevel":     0.2,
		},
	})

	assert.Equal(t, 10.0, event.Dimensions.SocialIntensity)
	assert.Equal(t, 1.0, event.Dimensions.Structure)
	assert.Equal(t, 7.0, event.Dimensions.Novelty)
	assert.Equal(t, 1.0, event.Dimensions.EnergyLevel)
	assert.Equal(t, 5.0, event.Dimensions.Formality, "missing dimension defaults to the middle")
	assert.Equal(t, 5.0, event.Dimensions.ScaleImmersion)
}

func TestValidateFiltersTags(t *testing.T) {
	event := Validate(RawAnalysis{
		Title: "Test Event",
		Tags: []RawTag{
			{Name: "social", Importance: 5},
			{Name: "made-up-tag", Importance: 4},
			{Name: "nightlife", Importance: 0},
			{Name: "dance", Importance: 6},
			{Name: "live-music", Importance: 3},
		},
	})

	require.Len(t, event.Tags, 2)
	assert.Equal(t, types.WeightedTag{Name: "social", Importance: 5}, event.Tags[0])
	assert.Equal(t, types.WeightedTag{Name: "live-music", Importance: 3}, event.Tags[1])
}

func TestValidateTagFallback(t *testing.T) {
	event := Validate(RawAnalysis{
		Title: "Test Event",
		Tags:  []RawTag{{Name: "not-a-real-tag", Importance: 3}},
	})

	assert.Equal(t, []types.WeightedTag{
		{Name: "social", Importance: 4},
		{Name: "group-friendly", Importance: 3},
	}, event.Tags)
}

func TestValidateSimilarActivities(t *testing.T) {
	similar := []types.SimilarActivity{
		{Title: "Dance Party", Similarity: 0.9, Explanation: "same energy"},
		{Title: "", Similarity: 0.8, Explanation: "missing title"},
		{Title: "Concert", Similarity: 1.5, Explanation: "similarity out of range"},
		{Title: "Museum Tour", Similarity: 0.4, Explanation: ""},
		{Title: "Club Night", Similarity: 0.85, Explanation: "late night crowd"},
		{Title: "Karaoke", Similarity: 0.7, Explanation: "group singing"},
		{Title: "Board Games", Similarity: 0.5, Explanation: "indoor social"},
		{Title: "Trivia Night", Similarity: 0.45, Explanation: "pub setting"},
		{Title: "Escape Room", Similarity: 0.4, Explanation: "team activity"},
	}

	event := Validate(RawAnalysis{Title: "Test Event", SimilarActivities: similar})

	require.Len(t, event.SimilarActivities, 5, "invalid entries dropped, rest capped at five")
	assert.Equal(t, "Dance Party", event.SimilarActivities[0].Title)
	assert.Equal(t, "Club Night", event.SimilarActivities[1].Title)
}

func TestRawTagUnmarshalBothFormats(t *testing.T) {
	var fromObject RawTag
	require.NoError(t, json.Unmarshal([]byte(`{"name":"social","importance":5}`), &fromObject))
	assert.Equal(t, RawTag{Name: "social", Importance: 5}, fromObject)

	var fromString RawTag
	require.NoError(t, json.Unmarshal([]byte(`"nightlife"`), &fromString))
	assert.Equal(t, RawTag{Name: "nightlife", Importance: 3}, fromString, "legacy string tags get default importance")
}

func TestInVocabulary(t *testing.T) {
	assert.True(t, InVocabulary("food-&-drink"))
	assert.True(t, InVocabulary("wine"))
	assert.False(t, InVocabulary("Food & Drink"), "vocabulary matching is exact")
	assert.False(t, InVocabulary("nonexistent"))
}
