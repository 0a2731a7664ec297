package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/anyidea-app/anyidea/internal/models"
)

// UserServiceInterface defines the contract for session-scoped user lookups.
type UserServiceInterface interface {
	GetOrCreate(ctx context.Context, sessionID string) (*models.User, error)
	GetBySession(ctx context.Context, sessionID string) (*models.User, error)
}

// SessionUsers is the lightweight user lookup used by sibling services.
type SessionUsers interface {
	GetOrCreate(ctx context.Context, sessionID string) (*models.User, error)
	GetBySession(ctx context.Context, sessionID string) (*models.User, error)
}

// CategoryServiceInterface defines the contract for custom category operations.
type CategoryServiceInterface interface {
	Create(ctx context.Context, params models.CreateCategoryParams) (*models.CustomCategory, error)
	List(ctx context.Context, sessionID string) ([]models.CustomCategory, error)
	Deactivate(ctx context.Context, sessionID, categoryID string) error
}

// HistoryServiceInterface defines the contract for suggestion logs and
// selected/completed activity tracking.
type HistoryServiceInterface interface {
	LogSuggestion(ctx context.Context, params models.CreateLogParams) (uuid.UUID, error)
	RecentLogs(ctx context.Context, sessionID string, limit int) ([]models.SuggestionLog, error)
	Select(ctx context.Context, params models.SelectActivityParams) (*models.ActivityHistory, error)
	Complete(ctx context.Context, sessionID string, historyID uuid.UUID, params models.CompleteActivityParams) (*models.ActivityHistory, error)
}

// PopularServiceInterface defines the contract for popularity aggregates.
type PopularServiceInterface interface {
	List(ctx context.Context, filter models.PopularFilter) ([]models.PopularActivity, error)
	Refresh(ctx context.Context) (int64, error)
}

// WeatherProvider fetches current conditions for coordinates.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error)
	IsConfigured() bool
}

// AIProvider turns a composed prompt into candidate suggestions.
type AIProvider interface {
	Suggest(ctx context.Context, prompt string) ([]models.Suggestion, *models.AIMetadata, error)
	Model() string
	IsConfigured() bool
}

// SuggestionLogger is the persistence hook the pipeline uses; satisfied by
// HistoryService.
type SuggestionLogger interface {
	LogSuggestion(ctx context.Context, params models.CreateLogParams) (uuid.UUID, error)
}

// SuggestServiceInterface defines the contract for the suggestion pipeline.
type SuggestServiceInterface interface {
	Run(ctx context.Context, sessionID string, req *models.SuggestionRequest) (*SuggestResult, error)
}
