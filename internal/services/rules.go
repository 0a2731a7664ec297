package services

import (
	"github.com/shopspring/decimal"

	"github.com/anyidea-app/anyidea/internal/models"
)

// RuleBasedGenerator produces suggestions from a static catalog when the AI
// provider is unavailable or comes up short. It filters by budget ceiling,
// time ceiling, indoor/outdoor preference, and activity-type overlap, in
// catalog order, and never fails.
type RuleBasedGenerator struct{}

func NewRuleBasedGenerator() *RuleBasedGenerator {
	return &RuleBasedGenerator{}
}

type fallbackActivity struct {
	suggestion models.Suggestion
	setting    string
	tags       []string
}

var fallbackCatalog = []fallbackActivity{
	{
		suggestion: models.Suggestion{
			Title:        "Take a mindful break",
			Description:  "Step away from screens and take a few deep breaths",
			TimeRequired: 10,
			Cost:         decimal.Zero,
			Difficulty:   "easy",
			Instructions: []string{
				"Find a quiet spot",
				"Sit comfortably",
				"Take 10 deep breaths",
				"Focus on the present moment",
			},
		},
		setting: models.LocationEither,
		tags:    []string{"indoor", "productive"},
	},
	{
		suggestion: models.Suggestion{
			Title:        "Go for a brisk walk",
			Description:  "A short walk around your neighborhood to clear your head",
			TimeRequired: 30,
			Cost:         decimal.Zero,
			Difficulty:   "easy",
		},
		setting: models.LocationOutdoor,
		tags:    []string{"exercise", "outdoor"},
	},
	{
		suggestion: models.Suggestion{
			Title:           "Sketch something nearby",
			Description:     "Pick any object in view and draw it without erasing",
			TimeRequired:    25,
			Cost:            decimal.Zero,
			Difficulty:      "easy",
			MaterialsNeeded: []string{"pencil", "paper"},
		},
		setting: models.LocationEither,
		tags:    []string{"creative"},
	},
	{
		suggestion: models.Suggestion{
			Title:        "Tidy one room",
			Description:  "Reset a single room: surfaces clear, floor visible, trash out",
			TimeRequired: 20,
			Cost:         decimal.Zero,
			Difficulty:   "easy",
		},
		setting: models.LocationIndoor,
		tags:    []string{"productive", "indoor"},
	},
	{
		suggestion: models.Suggestion{
			Title:        "Cook a simple pasta dinner",
			Description:  "One pot, one pan, and a sauce built from pantry staples",
			TimeRequired: 45,
			Cost:         decimal.RequireFromString("12.50"),
			Difficulty:   "medium",
			Instructions: []string{
				"Boil salted water and start the pasta",
				"Soften garlic in olive oil",
				"Toss pasta with the sauce and reserved pasta water",
			},
			MaterialsNeeded: []string{"pasta", "olive oil", "garlic"},
		},
		setting: models.LocationIndoor,
		tags:    []string{"food", "indoor"},
	},
	{
		suggestion: models.Suggestion{
			Title:        "Watch a documentary",
			Description:  "Pick a topic you know nothing about and press play",
			TimeRequired: 60,
			Cost:         decimal.Zero,
			Difficulty:   "easy",
		},
		setting: models.LocationIndoor,
		tags:    []string{"entertainment", "learning", "indoor"},
	},
	{
		suggestion: models.Suggestion{
			Title:        "Bodyweight circuit",
			Description:  "Three rounds of squats, push-ups, and planks at your own pace",
			TimeRequired: 20,
			Cost:         decimal.Zero,
			Difficulty:   "medium",
		},
		setting: models.LocationEither,
		tags:    []string{"exercise"},
	},
	{
		suggestion: models.Suggestion{
			Title:        "Learn ten phrases in a new language",
			Description:  "Greetings, numbers, and how to order coffee",
			TimeRequired: 30,
			Cost:         decimal.Zero,
			Difficulty:   "easy",
		},
		setting: models.LocationEither,
		tags:    []string{"learning", "indoor"},
	},
	{
		suggestion: models.Suggestion{
			Title:        "Visit a local park",
			Description:  "Find the nearest green space and do a slow lap",
			TimeRequired: 60,
			Cost:         decimal.Zero,
			Difficulty:   "easy",
		},
		setting: models.LocationOutdoor,
		tags:    []string{"outdoor", "social"},
	},
	{
		suggestion: models.Suggestion{
			Title:        "Host a board game night",
			Description:  "Two games, snacks, and whoever can show up on short notice",
			TimeRequired: 90,
			Cost:         decimal.Zero,
			Difficulty:   "easy",
		},
		setting: models.LocationIndoor,
		tags:    []string{"social", "entertainment", "indoor"},
	},
	{
		suggestion: models.Suggestion{
			Title:        "Bake a batch of cookies",
			Description:  "Classic drop cookies from a single mixing bowl",
			TimeRequired: 60,
			Cost:         decimal.RequireFromString("8.00"),
			Difficulty:   "medium",
			MaterialsNeeded: []string{
				"flour", "butter", "sugar", "eggs",
			},
		},
		setting: models.LocationIndoor,
		tags:    []string{"food", "creative", "indoor"},
	},
	{
		suggestion: models.Suggestion{
			Title:        "Take a bike ride",
			Description:  "A 45-minute loop on whatever route you have not ridden lately",
			TimeRequired: 45,
			Cost:         decimal.Zero,
			Difficulty:   "medium",
			MaterialsNeeded: []string{
				"bicycle", "helmet",
			},
		},
		setting: models.LocationOutdoor,
		tags:    []string{"exercise", "outdoor"},
	},
	{
		suggestion: models.Suggestion{
			Title:        "Journal for fifteen minutes",
			Description:  "Write without stopping; grammar and spelling do not count",
			TimeRequired: 15,
			Cost:         decimal.Zero,
			Difficulty:   "easy",
		},
		setting: models.LocationEither,
		tags:    []string{"creative", "productive"},
	},
	{
		suggestion: models.Suggestion{
			Title:        "Go on a photo walk",
			Description:  "Shoot twenty photos of one color or one shape",
			TimeRequired: 40,
			Cost:         decimal.Zero,
			Difficulty:   "easy",
		},
		setting: models.LocationOutdoor,
		tags:    []string{"creative", "outdoor"},
	},
	{
		suggestion: models.Suggestion{
			Title:        "Plan your next week",
			Description:  "Lay out the week's three most important outcomes and when they happen",
			TimeRequired: 25,
			Cost:         decimal.Zero,
			Difficulty:   "easy",
		},
		setting: models.LocationEither,
		tags:    []string{"productive", "indoor"},
	},
	{
		suggestion: models.Suggestion{
			Title:        "Full-body stretching session",
			Description:  "Slow stretches from neck to ankles, holding each for 30 seconds",
			TimeRequired: 15,
			Cost:         decimal.Zero,
			Difficulty:   "easy",
		},
		setting: models.LocationEither,
		tags:    []string{"exercise", "indoor"},
	},
	{
		suggestion: models.Suggestion{
			Title:        "Call a friend you owe a call",
			Description:  "Not a text. An actual call, with no agenda",
			TimeRequired: 20,
			Cost:         decimal.Zero,
			Difficulty:   "easy",
		},
		setting: models.LocationEither,
		tags:    []string{"social"},
	},
	{
		suggestion: models.Suggestion{
			Title:        "Try a coffee shop you have never been to",
			Description:  "Order whatever the person in front of you orders",
			TimeRequired: 45,
			Cost:         decimal.RequireFromString("7.50"),
			Difficulty:   "easy",
		},
		setting: models.LocationEither,
		tags:    []string{"food", "social"},
	},
}

// Generate filters the catalog against the request and returns up to limit
// suggestions in catalog order. A nil weather snapshot skips the outdoor
// suitability check.
func (g *RuleBasedGenerator) Generate(req *models.SuggestionRequest, weather *models.WeatherSnapshot, limit int) []models.Suggestion {
	if limit <= 0 {
		limit = 3
	}

	budget := req.Budget
	duration := req.DurationMinutes()

	setting := models.LocationEither
	var wantedTags []string
	if req.Activity != nil {
		if req.Activity.Location != "" {
			setting = req.Activity.Location
		}
		wantedTags = req.Activity.ActivityTypes
	}

	suggestions := []models.Suggestion{}
	for _, entry := range fallbackCatalog {
		if entry.suggestion.Cost.GreaterThan(budget) {
			continue
		}
		if entry.suggestion.TimeRequired > duration {
			continue
		}
		if !settingMatches(setting, entry.setting) {
			continue
		}
		if len(wantedTags) > 0 && !tagsOverlap(wantedTags, entry.tags) {
			continue
		}
		if weather != nil && entry.setting == models.LocationOutdoor && !weather.SuitableForOutdoor {
			continue
		}

		s := entry.suggestion
		s.Type = models.TypeFallback
		if weather != nil && entry.setting == models.LocationOutdoor {
			suitable := weather.SuitableForOutdoor
			s.WeatherAppropriate = &suitable
		}
		suggestions = append(suggestions, s)

		if len(suggestions) == limit {
			break
		}
	}

	return suggestions
}

func settingMatches(wanted, have string) bool {
	if wanted == models.LocationEither || have == models.LocationEither {
		return true
	}
	return wanted == have
}

func tagsOverlap(wanted, have []string) bool {
	for _, w := range wanted {
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}
