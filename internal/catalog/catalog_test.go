package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCSV = `Activity,Subtitle,Social Intensity,Structure,Novelty,Formality,Energy Level,Scale & Immersion,Tag1,Tag2
Dance Party,Loud and late,9,3,7,2,9,7,nightlife,music
Quiet Reading,Just you and a book,1,8,3,5,1,8,solo
Board Games,Table full of friends,5,7,4,3,4,5`

func TestParseCSV(t *testing.T) {
	activities, err := ParseCSV(validCSV)
	require.NoError(t, err)
	require.Len(t, activities, 3)

	first := activities[0]
	assert.Equal(t, 5001, first.ID)
	assert.Equal(t, "Dance Party", first.Title)
	assert.Equal(t, "Loud and late", first.Subtitle)
	assert.Equal(t, 9.0, first.SocialIntensity)
	assert.Equal(t, 7.0, first.ScaleImmersion)
	assert.Equal(t, []string{"nightlife", "music"}, first.Tags)
	assert.Equal(t, float64(StartingElo), first.Elo)
	assert.Zero(t, first.EloUpdateCount)

	assert.Equal(t, []string{"solo"}, activities[1].Tags)
	assert.Empty(t, activities[2].Tags)
}

func TestParseCSVSkipsInvalidRows(t *testing.T) {
	csv := `Activity,Subtitle,Social Intensity,Structure,Novelty,Formality,Energy Level,Scale & Immersion
Good Row,ok,5,5,5,5,5,5
,missing title,5,5,5,5,5,5
Bad Score,oops,11,5,5,5,5,5
Not A Number,oops,x,5,5,5,5,5`

	activities, err := ParseCSV(csv)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "Good Row", activities[0].Title)
}

func TestParseCSVDefaultsMissingDimensions(t *testing.T) {
	csv := `Activity,Subtitle,Social Intensity,Structure,Novelty,Formality,Energy Level,Scale & Immersion
Sparse Row,only two dims,8,3,,,,`

	activities, err := ParseCSV(csv)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, 8.0, activities[0].SocialIntensity)
	assert.Equal(t, 3.0, activities[0].StructureSpontaneity)
	assert.Equal(t, 5.0, activities[0].FamiliarityNovelty)
	assert.Equal(t, 5.0, activities[0].ScaleImmersion)
}

func TestParseCSVHeaderMismatch(t *testing.T) {
	csv := `Name,Subtitle,Social Intensity,Structure,Novelty,Formality,Energy Level,Scale & Immersion
Dance Party,fun,9,3,7,2,9,7`

	_, err := ParseCSV(csv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header mismatch")
}

func TestParseCSVHeaderCaseInsensitive(t *testing.T) {
	csv := `activity,subtitle,social intensity,structure,novelty,formality,energy level,scale & immersion
Dance Party,fun,9,3,7,2,9,7`

	activities, err := ParseCSV(csv)
	require.NoError(t, err)
	assert.Len(t, activities, 1)
}

func TestParseCSVTooShort(t *testing.T) {
	_, err := ParseCSV("Activity,Subtitle,Social Intensity,Structure,Novelty,Formality,Energy Level,Scale & Immersion")
	assert.Error(t, err)
}

func TestDefaultActivities(t *testing.T) {
	defaults := DefaultActivities()
	require.Len(t, defaults, 5)
	seen := make(map[int]bool)
	for _, a := range defaults {
		assert.False(t, seen[a.ID], "ids must be unique")
		seen[a.ID] = true
		assert.Equal(t, float64(StartingElo), a.Elo)
		assert.NotEmpty(t, a.Title)
		assert.NotEmpty(t, a.Tags)
	}
}
