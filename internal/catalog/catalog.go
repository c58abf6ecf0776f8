// Package catalog loads the activity collection a quiz starts from, either
// from a CSV file or from the built-in defaults.
package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ddebettencourt/social-activity-matcher/internal/types"
)

// csvIDBase offsets CSV-sourced activity ids away from the defaults.
const csvIDBase = 5000

// StartingElo is the rating every activity begins with.
const StartingElo = 1200

var fixedHeaders = []string{
	"Activity", "Subtitle",
	"Social Intensity", "Structure", "Novelty", "Formality", "Energy Level", "Scale & Immersion",
}

// ParseCSV reads an activity catalog. The first eight columns are fixed
// (title, subtitle, six dimension scores); any surplus columns become tags.
// Rows with an invalid dimension score or a missing title are skipped, and
// blank dimension cells default to 5.
func ParseCSV(csvText string) ([]types.Activity, error) {
	reader := csv.NewReader(strings.NewReader(strings.TrimSpace(csvText)))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("catalog CSV needs a header row and at least one activity")
	}

	header := records[0]
	for i, expected := range fixedHeaders {
		if i >= len(header) || !strings.EqualFold(strings.TrimSpace(header[i]), expected) {
			got := ""
			if i < len(header) {
				got = header[i]
			}
			return nil, fmt.Errorf("catalog CSV header mismatch at column %d: expected %q, got %q", i+1, expected, got)
		}
	}

	activities := make([]types.Activity, 0, len(records)-1)
	for line, record := range records[1:] {
		activity, ok := parseRow(record, csvIDBase+line+1)
		if !ok {
			continue
		}
		activities = append(activities, activity)
	}
	if len(activities) == 0 {
		return nil, fmt.Errorf("catalog CSV contained no valid activities")
	}
	return activities, nil
}

func parseRow(record []string, id int) (types.Activity, bool) {
	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	activity := types.Activity{
		ID:       id,
		Title:    field(0),
		Subtitle: field(1),
		Elo:      StartingElo,
		Tags:     []string{},
	}
	if activity.Title == "" {
		return types.Activity{}, false
	}

	dims := [types.DimensionCount]float64{}
	for d := 0; d < types.DimensionCount; d++ {
		raw := field(2 + d)
		if raw == "" {
			dims[d] = 5
			continue
		}
		score, err := strconv.Atoi(raw)
		if err != nil || score < 1 || score > 10 {
			return types.Activity{}, false
		}
		dims[d] = float64(score)
	}
	activity.SocialIntensity = dims[0]
	activity.StructureSpontaneity = dims[1]
	activity.FamiliarityNovelty = dims[2]
	activity.FormalityGradient = dims[3]
	activity.EnergyLevel = dims[4]
	activity.ScaleImmersion = dims[5]

	for i := len(fixedHeaders); i < len(record); i++ {
		if tag := strings.TrimSpace(record[i]); tag != "" {
			activity.Tags = append(activity.Tags, tag)
		}
	}
	return activity, true
}

// LoadFile reads and parses a catalog CSV from disk.
func LoadFile(path string) ([]types.Activity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return ParseCSV(string(data))
}

// DefaultActivities is the small built-in collection used when no catalog
// file is configured.
func DefaultActivities() []types.Activity {
	return []types.Activity{
		{ID: 101, Title: "Chill Movie Night", Subtitle: "Classic films, comfy couch.", SocialIntensity: 3, StructureSpontaneity: 4, FamiliarityNovelty: 2, FormalityGradient: 1, EnergyLevel: 2, ScaleImmersion: 2, Tags: []string{"Indoor", "Relaxing", "Evening"}, Elo: StartingElo},
		{ID: 102, Title: "Park Picnic", Subtitle: "Sunshine and sandwiches.", SocialIntensity: 5, StructureSpontaneity: 7, FamiliarityNovelty: 3, FormalityGradient: 1, EnergyLevel: 3, ScaleImmersion: 3, Tags: []string{"Outdoor", "Daytime", "Casual", "Food"}, Elo: StartingElo},
		{ID: 103, Title: "Coffee Shop Chat", Subtitle: "Caffeine and conversation.", SocialIntensity: 4, StructureSpontaneity: 8, FamiliarityNovelty: 3, FormalityGradient: 2, EnergyLevel: 2, ScaleImmersion: 2, Tags: []string{"Indoor", "Casual", "Conversation"}, Elo: StartingElo},
		{ID: 104, Title: "Museum Visit", Subtitle: "Art & Culture.", SocialIntensity: 3, StructureSpontaneity: 3, FamiliarityNovelty: 6, FormalityGradient: 4, EnergyLevel: 3, ScaleImmersion: 4, Tags: []string{"Indoor", "Cultural", "Educational", "Quiet"}, Elo: StartingElo},
		{ID: 105, Title: "High Energy Dance Party", Subtitle: "Loud music, lots of people.", SocialIntensity: 9, StructureSpontaneity: 8, FamiliarityNovelty: 5, FormalityGradient: 2, EnergyLevel: 9, ScaleImmersion: 7, Tags: []string{"Nightlife", "Energetic", "Social", "Music"}, Elo: StartingElo},
	}
}
