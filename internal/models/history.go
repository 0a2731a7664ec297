package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ActivityHistory records that a session selected a suggested activity and,
// later, whether it was completed and how it was rated.
type ActivityHistory struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"-"`
	SuggestionItemID *uuid.UUID      `json:"suggestion_item_id,omitempty"`
	ActivityTitle    string          `json:"activity_title"`
	ActivityType     string          `json:"activity_type"`
	ActivityCost     decimal.Decimal `json:"activity_cost"`
	ActivityTime     int             `json:"activity_time"`
	Selected         bool            `json:"selected"`
	Completed        bool            `json:"completed"`
	Rating           *int            `json:"rating,omitempty"`
	Feedback         *string         `json:"feedback,omitempty"`
	SelectedAt       *time.Time      `json:"selected_at,omitempty"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

type SelectActivityParams struct {
	SessionID        string
	SuggestionItemID *uuid.UUID
	ActivityTitle    string
	ActivityType     string
	ActivityCost     decimal.Decimal
	ActivityTime     int
}

type CompleteActivityParams struct {
	Rating   *int
	Feedback *string
}

// PopularActivity is a global aggregate maintained by the refresh job.
type PopularActivity struct {
	ID              uuid.UUID        `json:"-"`
	ActivityTitle   string           `json:"title"`
	ActivityType    string           `json:"type"`
	Category        string           `json:"category"`
	SelectionCount  int              `json:"selection_count"`
	CompletionCount int              `json:"completion_count"`
	AverageRating   *float64         `json:"average_rating,omitempty"`
	TotalRatings    int              `json:"total_ratings"`
	BudgetMin       *decimal.Decimal `json:"popular_budget_min,omitempty"`
	BudgetMax       *decimal.Decimal `json:"popular_budget_max,omitempty"`
	TimeMin         *int             `json:"popular_time_min,omitempty"`
	TimeMax         *int             `json:"popular_time_max,omitempty"`
}

// PopularFilter narrows the popular-activities listing.
type PopularFilter struct {
	BudgetMin *decimal.Decimal
	BudgetMax *decimal.Decimal
	TimeMin   *int
	TimeMax   *int
	Limit     int
}
