package ai

import (
	"fmt"
	"strings"

	"github.com/anyidea-app/anyidea/internal/models"
)

// BuildPrompt renders the user message sent to the model. It is a pure
// function of its inputs, so identical requests yield byte-identical prompts.
func BuildPrompt(req *models.SuggestionRequest, weather *models.WeatherSnapshot) string {
	parts := []string{
		fmt.Sprintf("I have $%s budget and %d minutes available.", req.Budget.String(), req.DurationMinutes()),
		"I need 2-3 specific, actionable activity suggestions.",
	}

	if req.Activity != nil {
		if req.Activity.Location != "" {
			parts = append(parts, fmt.Sprintf("I prefer %s activities.", req.Activity.Location))
		}
		if req.Activity.EnergyLevel != "" {
			parts = append(parts, fmt.Sprintf("My energy level is %s.", req.Activity.EnergyLevel))
		}
		if len(req.Activity.ActivityTypes) > 0 {
			parts = append(parts, fmt.Sprintf("I'm interested in: %s.", strings.Join(req.Activity.ActivityTypes, ", ")))
		}
		if req.Activity.Mood != "" {
			mood := escapeXMLTags(sanitizeInput(req.Activity.Mood))
			parts = append(parts, fmt.Sprintf("My current mood/goal: %s.", mood))
		}
		if names := cleanNames(req.Activity.CustomCategories); len(names) > 0 {
			parts = append(parts,
				fmt.Sprintf("I'm also interested in these custom activity types: %s.", strings.Join(names, ", ")),
				"Please consider these custom categories when making suggestions.",
			)
		}
	}

	if req.Food != nil && req.Food.WantToCook {
		parts = append(parts, "I'm open to cooking something.")
		if len(req.Food.DietaryRestrictions) > 0 {
			parts = append(parts, fmt.Sprintf("My dietary restrictions: %s.", strings.Join(req.Food.DietaryRestrictions, ", ")))
		}
		if req.Food.SkillLevel != "" {
			parts = append(parts, fmt.Sprintf("My cooking skill level is %s.", req.Food.SkillLevel))
		}
		if req.Food.MealType != "" {
			parts = append(parts, fmt.Sprintf("I'm thinking about %s.", req.Food.MealType))
		}
	}

	if weather != nil {
		parts = append(parts, fmt.Sprintf("Current weather: %s.", weather.Current))
	}
	if _, _, ok := req.ConsentedLocation(); ok {
		parts = append(parts, "I'm open to location-based suggestions.")
	}

	parts = append(parts,
		"",
		"Please respond with ONLY a JSON object in this exact format:",
		"{",
		`  "suggestions": [`,
		"    {",
		`      "title": "Activity Title",`,
		`      "description": "Brief description",`,
		`      "time_required": 30,`,
		`      "cost": 5.0,`,
		`      "difficulty": "easy",`,
		`      "instructions": ["Step 1", "Step 2", "Step 3"],`,
		`      "materials_needed": ["item1", "item2"]`,
		"    }",
		"  ],",
		`  "reasoning": "Why these suggestions fit the user's needs"`,
		"}",
	)

	return strings.Join(parts, "\n")
}

func cleanNames(names []string) []string {
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		if n = escapeXMLTags(sanitizeInput(n)); n != "" {
			cleaned = append(cleaned, n)
		}
	}
	return cleaned
}

// sanitizeInput cleans user input to prevent basic prompt injection and enforce limits.
func sanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.Join(strings.Fields(input), " ")

	// Truncate to a reasonable length, rune-aware.
	if len([]rune(input)) > 500 {
		input = string([]rune(input)[:500])
	}

	return input
}

func escapeXMLTags(input string) string {
	replacer := strings.NewReplacer("<", "＜", ">", "＞")
	return replacer.Replace(input)
}
