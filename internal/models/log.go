package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SuggestionLog is one append-only record per suggestion request.
type SuggestionLog struct {
	ID               uuid.UUID       `json:"-"`
	UserID           *uuid.UUID      `json:"-"`
	SessionID        string          `json:"-"`
	RequestID        string          `json:"request_id"`
	Budget           decimal.Decimal `json:"budget"`
	TimeAvailable    int             `json:"time_available"`
	SuggestionsCount int             `json:"suggestions_count"`
	AIModelUsed      *string         `json:"ai_model_used,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// CreateLogParams captures everything persisted when a pipeline run completes.
type CreateLogParams struct {
	SessionID        string
	RequestID        string
	Budget           decimal.Decimal
	TimeAvailable    int
	LocationPref     string
	EnergyLevel      string
	ActivityTypes    []string
	CustomCategories []string
	Mood             string
	Weather          *WeatherSnapshot
	AIModelUsed      string
	AIReasoning      string
	ProcessingTime   float64
	Suggestions      []Suggestion
}
