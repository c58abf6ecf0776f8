// Package simulation seeds the system with synthetic users: named personas
// with fixed dimension preferences whose simulated quiz runs produce
// realistic, distinct rating profiles.
package simulation

import "github.com/ddebettencourt/social-activity-matcher/internal/types"

// Persona is a synthetic user with an ideal point in dimension space.
type Persona struct {
	Username    string
	Preferences types.EventDimensions
	Description string
}

// Personas is the fixed set of synthetic users.
var Personas = []Persona{
	{
		Username: "HighEnergyHarry",
		Preferences: types.EventDimensions{
			SocialIntensity: 9, Structure: 4, Novelty: 8, Formality: 2, EnergyLevel: 10, ScaleImmersion: 7,
		},
		Description: "Loves high-energy, active, social activities with lots of people",
	},
	{
		Username: "QuietBookwormBella",
		Preferences: types.EventDimensions{
			SocialIntensity: 2, Structure: 8, Novelty: 3, Formality: 6, EnergyLevel: 2, ScaleImmersion: 9,
		},
		Description: "Prefers calm, structured, intimate activities with deep focus",
	},
	{
		Username: "AdventurousAlex",
		Preferences: types.EventDimensions{
			SocialIntensity: 6, Structure: 3, Novelty: 10, Formality: 2, EnergyLevel: 8, ScaleImmersion: 8,
		},
		Description: "Seeks novel, spontaneous adventures and unique experiences",
	},
	{
		Username: "FormalFiona",
		Preferences: types.EventDimensions{
			SocialIntensity: 7, Structure: 9, Novelty: 4, Formality: 9, EnergyLevel: 4, ScaleImmersion: 6,
		},
		Description: "Enjoys elegant, well-organized, sophisticated social events",
	},
	{
		Username: "CasualChris",
		Preferences: types.EventDimensions{
			SocialIntensity: 8, Structure: 2, Novelty: 5, Formality: 1, EnergyLevel: 6, ScaleImmersion: 4,
		},
		Description: "Loves relaxed, informal hangouts with friends",
	},
	{
		Username: "CreativeCarla",
		Preferences: types.EventDimensions{
			SocialIntensity: 5, Structure: 4, Novelty: 9, Formality: 3, EnergyLevel: 6, ScaleImmersion: 8,
		},
		Description: "Passionate about artistic, creative, and unique experiences",
	},
	{
		Username: "RoutineRobert",
		Preferences: types.EventDimensions{
			SocialIntensity: 4, Structure: 9, Novelty: 2, Formality: 7, EnergyLevel: 3, ScaleImmersion: 5,
		},
		Description: "Prefers familiar, well-planned activities with clear structure",
	},
	{
		Username: "PartyPaulina",
		Preferences: types.EventDimensions{
			SocialIntensity: 10, Structure: 3, Novelty: 7, Formality: 2, EnergyLevel: 9, ScaleImmersion: 6,
		},
		Description: "The life of the party: loves crowds, energy, and social chaos",
	},
	{
		Username: "IntellectualIan",
		Preferences: types.EventDimensions{
			SocialIntensity: 3, Structure: 7, Novelty: 6, Formality: 8, EnergyLevel: 2, ScaleImmersion: 9,
		},
		Description: "Enjoys thoughtful, educational activities with meaningful discussion",
	},
	{
		Username: "FlexibleFreya",
		Preferences: types.EventDimensions{
			SocialIntensity: 5, Structure: 5, Novelty: 5, Formality: 5, EnergyLevel: 5, ScaleImmersion: 5,
		},
		Description: "Open to all types of activities: the perfect middle ground",
	},
}

// FindPersona returns the persona with the given username, or nil.
func FindPersona(username string) *Persona {
	for i := range Personas {
		if Personas[i].Username == username {
			return &Personas[i]
		}
	}
	return nil
}
