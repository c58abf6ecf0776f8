// Package classifier turns a free-text event description into a structured
// CustomEvent by calling an external language model, then validating its
// answer against the controlled tag vocabulary and dimension ranges. The
// validation layer is pure and usable without any network access.
package classifier

import (
	"encoding/json"

	"github.com/ddebettencourt/social-activity-matcher/internal/types"
)

const maxSimilarActivities = 5

// RawTag accepts both the current {name, importance} tag shape and the
// legacy bare-string shape.
type RawTag struct {
	Name       string
	Importance int
}

// UnmarshalJSON lets a RawTag decode from either a JSON string or an
// object. Legacy string tags get the default importance of 3.
func (t *RawTag) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t.Name = s
		t.Importance = 3
		return nil
	}
	var obj struct {
		Name       string  `json:"name"`
		Importance float64 `json:"importance"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	t.Name = obj.Name
	t.Importance = int(obj.Importance)
	return nil
}

// RawAnalysis is the classifier's answer before validation.
type RawAnalysis struct {
	Title             string                  `json:"title"`
	Subtitle          string                  `json:"subtitle"`
	Dimensions        map[string]float64      `json:"dimensions"`
	Tags              []RawTag                `json:"tags"`
	SimilarActivities []types.SimilarActivity `json:"similarActivities"`
}

func clampDimension(v float64, ok bool) float64 {
	if !ok {
		return 5
	}
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

// Validate normalizes a raw classifier answer into a CustomEvent:
// dimensions clamped to [1,10] with 5 for anything missing, tags filtered
// to the vocabulary with importance in 1-5, similar activities checked for
// shape and capped at five. An answer with no usable tags falls back to a
// generic social pair so downstream tag statistics always have input.
func Validate(raw RawAnalysis) types.CustomEvent {
	dims := func(key string) float64 {
		v, ok := raw.Dimensions[key]
		return clampDimension(v, ok)
	}

	tags := make([]types.WeightedTag, 0, len(raw.Tags))
	for _, tag := range raw.Tags {
		if tag.Name == "" || !InVocabulary(tag.Name) {
			continue
		}
		if tag.Importance < 1 || tag.Importance > 5 {
			continue
		}
		tags = append(tags, types.WeightedTag{Name: tag.Name, Importance: tag.Importance})
	}
	if len(tags) == 0 {
		tags = []types.WeightedTag{
			{Name: "social", Importance: 4},
			{Name: "group-friendly", Importance: 3},
		}
	}

	similar := make([]types.SimilarActivity, 0, len(raw.SimilarActivities))
	for _, s := range raw.SimilarActivities {
		if s.Title == "" || s.Explanation == "" {
			continue
		}
		if s.Similarity < 0 || s.Similarity > 1 {
			continue
		}
		similar = append(similar, s)
		if len(similar) == maxSimilarActivities {
			break
		}
	}

	return types.CustomEvent{
		Title:    raw.Title,
		Subtitle: raw.Subtitle,
		Dimensions: types.EventDimensions{
			SocialIntensity: dims("socialIntensity"),
			Structure:       dims("structure"),
			Novelty:         dims("novelty"),
			Formality:       dims("formality"),
			EnergyLevel:     dims("energyLevel"),
			ScaleImmersion:  dims("scaleImmersion"),
		},
		Tags:              tags,
		SimilarActivities: similar,
	}
}
