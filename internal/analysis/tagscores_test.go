package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddebettencourt/social-activity-matcher/internal/types"
)

func TestTagScoresSkipsSingleMemberTags(t *testing.T) {
	scores := TagScores(profileActivities())

	tags := make([]string, len(scores))
	for i, s := range scores {
		tags[i] = s.Tag
	}
	assert.Contains(t, tags, "music")
	assert.Contains(t, tags, "nightlife")
	assert.Contains(t, tags, "solo")
	assert.NotContains(t, tags, "culture", "one member is not a cluster")
}

func TestTagScoresUsesCollectionSpread(t *testing.T) {
	scores := TagScores(profileActivities())
	require.Len(t, scores, 3)

	// Collection stddev is ~128.0; a two-member tag's standard error is
	// ~90.5 and a three-member tag's ~73.9.
	assert.Equal(t, "music", scores[0].Tag)
	assert.InDelta(t, 1.58, scores[0].ZScore, 0.005)
	assert.Equal(t, "nightlife", scores[1].Tag)
	assert.InDelta(t, 1.56, scores[1].ZScore, 0.005)
	assert.Equal(t, "solo", scores[2].Tag)
	assert.InDelta(t, -1.75, scores[2].ZScore, 0.005)
}

func TestTagScoresSortedBestFirst(t *testing.T) {
	scores := TagScores(profileActivities())
	require.GreaterOrEqual(t, len(scores), 3)

	for i := 1; i < len(scores); i++ {
		assert.GreaterOrEqual(t, scores[i-1].ZScore, scores[i].ZScore)
	}
	assert.Greater(t, scores[0].ZScore, 0.0)
	assert.Less(t, scores[len(scores)-1].ZScore, 0.0)
}

func TestTagScoresUniformTagGroup(t *testing.T) {
	activities := []types.Activity{
		{ID: 1, Title: "A", Tags: []string{"same"}, Elo: 1300},
		{ID: 2, Title: "B", Tags: []string{"same"}, Elo: 1300},
		{ID: 3, Title: "C", Tags: []string{"other", "filler"}, Elo: 1100},
		{ID: 4, Title: "D", Tags: []string{"other", "filler"}, Elo: 1150},
	}

	scores := TagScores(activities)
	var same *TagScore
	for i := range scores {
		if scores[i].Tag == "same" {
			same = &scores[i]
		}
	}
	require.NotNil(t, same)

	// A cluster with no internal spread still stands out against the
	// collection's spread.
	assert.InDelta(t, 1.39, same.ZScore, 0.005)
	assert.Equal(t, 2, same.ActivityCount)
	assert.Equal(t, 1300.0, same.MeanElo)
}

func TestTagScoresEmptyCollection(t *testing.T) {
	assert.Empty(t, TagScores(nil))
}

func TestWorstTagScoresMostDislikedFirst(t *testing.T) {
	activities := []types.Activity{
		{ID: 1, Title: "A", Tags: []string{"hot"}, Elo: 1400},
		{ID: 2, Title: "B", Tags: []string{"hot"}, Elo: 1380},
		{ID: 3, Title: "C", Tags: []string{"meh", "low"}, Elo: 1150},
		{ID: 4, Title: "D", Tags: []string{"meh"}, Elo: 1180},
		{ID: 5, Title: "E", Tags: []string{"low"}, Elo: 1000},
	}

	worst := WorstTagScores(activities)
	require.Len(t, worst, 2)
	assert.Equal(t, "low", worst[0].Tag)
	assert.Equal(t, "meh", worst[1].Tag)
	assert.Less(t, worst[0].ZScore, worst[1].ZScore)

	for _, score := range worst {
		assert.Less(t, score.ZScore, 0.0)
	}
}
