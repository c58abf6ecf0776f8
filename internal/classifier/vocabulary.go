package classifier

// Vocabulary is the controlled tag list the classifier may draw from. Tags
// outside this list are discarded during validation so downstream tag
// statistics stay comparable across events.
var Vocabulary = []string{
	"acupuncture-therapy", "active", "adult-only", "adventure", "after-work", "alcohol-focused",
	"animal-interaction", "artistic", "arts-&-culture", "adrenaline-rush", "athletic", "atmospheric",
	"author-access", "balance", "beach-day", "beginner-friendly", "budget-friendly", "caffeine",
	"carnival", "casual", "challenge", "charitable", "charity", "chaotic", "chill-vibe", "colorful",
	"communal", "community", "competition", "conversation-focused", "conversation-starter", "cozy",
	"creative", "creative-expression", "crowded/busy", "cult-films", "cultural", "cultural-immersion",
	"culinary-adventure", "culinary-challenge", "cute", "daily-life", "dance", "dangerous", "daring",
	"day-trip", "digital", "disconnected", "discussion-based", "diverse-options", "diy/homemade",
	"dizzy", "dress-up", "driving", "early-riser", "easy-going", "educational", "endurance",
	"entertainment-focused", "evening-experience", "exclusive", "experimental", "family-friendly",
	"feel-good", "festival", "festival-experience", "fire", "flash-mob", "flexible", "foodie",
	"food-&-drink", "free-activity", "fresh", "friend-group-classic", "friend-support", "full-day-event",
	"full-immersion", "funny", "game-based", "gift-making", "global", "glowing", "golden-hour",
	"gourmet", "group-friendly", "guided-experience", "hands-on", "healthy", "height", "hidden-gem",
	"high-energy", "high-formality", "high-speed", "hip", "historic", "historical-site", "hip-hop",
	"immersive", "inclusive", "indoor-activity", "inspired-by-tv", "instagram-worthy", "intellectual",
	"intense", "interactive", "international", "intimate", "introverted", "jazz", "large-group",
	"late-night", "learning-opportunity", "limited-time", "literary", "live-music", "local-craft-beer",
	"local-exploration", "local-favorite", "local-scene", "low-energy", "low-key", "luxury-experience",
	"meditative", "memorable", "meet-new-people", "morning-activity", "movement", "muddy", "multi-day",
	"music-centered", "mystical", "natural-beauty", "nature-focused", "networking", "nightlife",
	"no-pressure", "nostalgic", "outdoor-activity", "overnight", "participatory", "party-game",
	"performance-art", "photogenic", "photography", "physical-activity", "physical-exertion",
	"plant-focused", "playful", "pop-culture", "progressive", "quirky/unique", "racing", "recurring",
	"regular-event", "relaxation", "remote/rural", "retro/nostalgic", "role-playing", "romantic",
	"rooftop", "rowdy/party", "scene", "scenic", "science", "science-based", "screen-free", "seasonal",
	"self-care", "self-guided", "sensory-experience", "shopping", "skill-building", "skill-required",
	"skill-showcase", "small-group", "sneaky", "social", "social-cause", "social-experiment",
	"solo-friendly", "sophisticated", "special-occasion", "spectator-event", "sports-related",
	"stargazing", "strategic", "stress-relief", "structured", "supportive", "sustainable", "sweet-tooth",
	"swimming", "take-home-item", "tasting", "team-building", "team-spirit", "tech-focused",
	"theatrical", "thrill-seeking", "tournament", "trading", "traditional", "trendy/popular", "trendy",
	"unique-combination", "unique-concept", "unique-experience", "upscale", "urban-art", "urban-culture",
	"urban-exploration", "urban-setting", "vertical", "visual-arts", "volunteer", "walking-tour",
	"water-activity", "waterfront", "weather-dependent", "weekend-activity", "weekend-required",
	"wellness", "wholesome", "wine",
}

var vocabularySet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Vocabulary))
	for _, tag := range Vocabulary {
		set[tag] = struct{}{}
	}
	return set
}()

// InVocabulary reports whether a tag is part of the controlled list.
func InVocabulary(tag string) bool {
	_, ok := vocabularySet[tag]
	return ok
}
