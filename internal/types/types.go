package types

import (
	"regexp"
	"strings"
)

// PreferenceStrength expresses how decisively a user chose one activity
// over the other in a matchup.
type PreferenceStrength string

const (
	PreferenceStrong   PreferenceStrength = "strong"
	PreferenceSomewhat PreferenceStrength = "somewhat"
	PreferenceTie      PreferenceStrength = "tie"
)

// DimensionCount is the number of preference dimensions every activity carries.
const DimensionCount = 6

// DimensionSpan is the widest possible gap on a single 1-10 dimension.
const DimensionSpan = 9.0

// DimensionMeta describes one preference dimension for display and analysis.
type DimensionMeta struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Low   string `json:"low"`
	High  string `json:"high"`
}

// DimensionsMeta lists the six dimensions in canonical order. The Key values
// match the Activity JSON field names; analysis output is keyed by them.
var DimensionsMeta = [DimensionCount]DimensionMeta{
	{Key: "socialIntensity", Label: "Social Intensity", Low: "Low Key", High: "High Buzz"},
	{Key: "structureSpontaneity", Label: "Structure", Low: "Structured", High: "Spontaneous"},
	{Key: "familiarityNovelty", Label: "Novelty", Low: "Familiar", High: "Novel"},
	{Key: "formalityGradient", Label: "Formality", Low: "Casual", High: "Formal"},
	{Key: "energyLevel", Label: "Energy Level", Low: "Low Energy", High: "High Energy"},
	{Key: "scaleImmersion", Label: "Scale & Immersion", Low: "Intimate/Brief", High: "Massive/Immersive"},
}

// Activity is one entry in a user's rated activity collection.
type Activity struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`

	SocialIntensity      float64 `json:"socialIntensity"`
	StructureSpontaneity float64 `json:"structureSpontaneity"`
	FamiliarityNovelty   float64 `json:"familiarityNovelty"`
	FormalityGradient    float64 `json:"formalityGradient"`
	EnergyLevel          float64 `json:"energyLevel"`
	ScaleImmersion       float64 `json:"scaleImmersion"`

	Tags []string `json:"tags"`

	Elo            float64 `json:"elo"`
	EloUpdateCount float64 `json:"eloUpdateCount"`
	Matchups       int     `json:"matchups"`
	Wins           int     `json:"wins"`
	ChosenCount    int     `json:"chosenCount"`
}

// Dimensions returns the six dimension values in canonical order.
func (a *Activity) Dimensions() [DimensionCount]float64 {
	return [DimensionCount]float64{
		a.SocialIntensity,
		a.StructureSpontaneity,
		a.FamiliarityNovelty,
		a.FormalityGradient,
		a.EnergyLevel,
		a.ScaleImmersion,
	}
}

// HasTag reports whether the activity carries the tag, compared in
// normalized form.
func (a *Activity) HasTag(tag string) bool {
	want := NormalizeTag(tag)
	for _, t := range a.Tags {
		if NormalizeTag(t) == want {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the activity.
func (a Activity) Clone() Activity {
	out := a
	out.Tags = append([]string(nil), a.Tags...)
	return out
}

// CloneActivities deep-copies a collection so callers can mutate the result
// without touching the input.
func CloneActivities(activities []Activity) []Activity {
	out := make([]Activity, len(activities))
	for i, a := range activities {
		out[i] = a.Clone()
	}
	return out
}

// FindActivity returns a pointer into the slice for the given id, or nil.
func FindActivity(activities []Activity, id int) *Activity {
	for i := range activities {
		if activities[i].ID == id {
			return &activities[i]
		}
	}
	return nil
}

// FindActivityByTitle returns a pointer into the slice for the given exact
// title, or nil.
func FindActivityByTitle(activities []Activity, title string) *Activity {
	for i := range activities {
		if activities[i].Title == title {
			return &activities[i]
		}
	}
	return nil
}

var tagSpaces = regexp.MustCompile(`\s+`)

// NormalizeTag canonicalizes a tag for comparison: trimmed, lowercased,
// with runs of whitespace collapsed to single hyphens. Ampersands pass
// through unchanged ("food-&-drink" stays as written).
func NormalizeTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	return tagSpaces.ReplaceAllString(tag, "-")
}

// WeightedTag is a classified event tag with its importance on a 1-5 scale.
type WeightedTag struct {
	Name       string `json:"name"`
	Importance int    `json:"importance"`
}

// SimilarActivity is one entry of a classifier-supplied similarity list,
// referencing an activity in the user's collection by exact title.
type SimilarActivity struct {
	Title       string  `json:"title"`
	Similarity  float64 `json:"similarity"`
	Explanation string  `json:"explanation"`
}

// EventDimensions holds the six 1-10 dimension values of a classified
// custom event, keyed by the event-side names.
type EventDimensions struct {
	SocialIntensity float64 `json:"socialIntensity"`
	Structure       float64 `json:"structure"`
	Novelty         float64 `json:"novelty"`
	Formality       float64 `json:"formality"`
	EnergyLevel     float64 `json:"energyLevel"`
	ScaleImmersion  float64 `json:"scaleImmersion"`
}

// Values returns the event dimensions in the same canonical order an
// activity's Dimensions() uses, so the two can be compared index by index.
func (d EventDimensions) Values() [DimensionCount]float64 {
	return [DimensionCount]float64{
		d.SocialIntensity,
		d.Structure,
		d.Novelty,
		d.Formality,
		d.EnergyLevel,
		d.ScaleImmersion,
	}
}

// CustomEvent is a classified description of a novel event, ready for
// enjoyment prediction against a rated activity collection.
type CustomEvent struct {
	Title             string            `json:"title"`
	Subtitle          string            `json:"subtitle,omitempty"`
	Dimensions        EventDimensions   `json:"dimensions"`
	Tags              []WeightedTag     `json:"tags"`
	SimilarActivities []SimilarActivity `json:"similarActivities,omitempty"`
}

// TagNames returns the event's tag names in declared order.
func (e *CustomEvent) TagNames() []string {
	names := make([]string, len(e.Tags))
	for i, t := range e.Tags {
		names[i] = t.Name
	}
	return names
}
