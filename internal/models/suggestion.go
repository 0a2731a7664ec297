package models

import "github.com/shopspring/decimal"

// Suggestion sources reported in response metadata.
const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
	SourceMixed    = "mixed"
)

// Per-item suggestion kinds.
const (
	TypeAIGenerated   = "ai_generated"
	TypeFallback      = "fallback"
	TypeLocalBusiness = "local_business"
)

var Difficulties = []string{"easy", "medium", "hard"}

func IsValidDifficulty(d string) bool { return isOneOf(d, Difficulties) }

type Suggestion struct {
	Type               string          `json:"type"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	TimeRequired       int             `json:"time_required"`
	Cost               decimal.Decimal `json:"cost"`
	Difficulty         string          `json:"difficulty"`
	Distance           *string         `json:"distance,omitempty"`
	Address            *string         `json:"address,omitempty"`
	WeatherAppropriate *bool           `json:"weather_appropriate,omitempty"`
	AIReasoning        *string         `json:"ai_reasoning,omitempty"`
	Instructions       []string        `json:"instructions,omitempty"`
	MaterialsNeeded    []string        `json:"materials_needed,omitempty"`
	Hours              *string         `json:"hours,omitempty"`
	Rating             *float64        `json:"rating,omitempty"`
}

// AIMetadata describes the model call that produced AI-sourced suggestions.
type AIMetadata struct {
	ModelUsed      string  `json:"model_used"`
	Reasoning      string  `json:"reasoning"`
	ProcessingTime float64 `json:"processing_time"`
}
