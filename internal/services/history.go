package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/anyidea-app/anyidea/internal/models"
)

var (
	ErrHistoryNotFound = errors.New("history entry not found")
	ErrInvalidActivity = errors.New("activity title and type are required")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 50
)

type HistoryService struct {
	db    DB
	users SessionUsers
}

func NewHistoryService(db DB, users SessionUsers) *HistoryService {
	return &HistoryService{db: db, users: users}
}

// LogSuggestion appends one suggestion log with its items in a single
// transaction. Rows are never updated afterwards.
func (s *HistoryService) LogSuggestion(ctx context.Context, params models.CreateLogParams) (uuid.UUID, error) {
	user, err := s.users.GetOrCreate(ctx, params.SessionID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolving session user: %w", err)
	}

	activityTypes, err := jsonArray(params.ActivityTypes)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encoding activity types: %w", err)
	}
	customCategories, err := jsonArray(params.CustomCategories)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encoding custom categories: %w", err)
	}

	var weatherJSON []byte
	if params.Weather != nil {
		weatherJSON, err = json.Marshal(params.Weather)
		if err != nil {
			return uuid.Nil, fmt.Errorf("encoding weather snapshot: %w", err)
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var logID uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO activity_suggestion_logs
		     (user_id, session_id, request_id, budget, time_available,
		      location_preference, energy_level, activity_types, custom_categories,
		      mood, weather_data, ai_model_used, ai_reasoning, processing_time, suggestions_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING id`,
		user.ID, params.SessionID, params.RequestID, params.Budget, params.TimeAvailable,
		nullable(params.LocationPref), nullable(params.EnergyLevel), activityTypes, customCategories,
		nullable(params.Mood), weatherJSON, nullable(params.AIModelUsed), nullable(params.AIReasoning),
		params.ProcessingTime, len(params.Suggestions),
	).Scan(&logID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting suggestion log: %w", err)
	}

	for _, item := range params.Suggestions {
		instructions, err := jsonArray(item.Instructions)
		if err != nil {
			return uuid.Nil, fmt.Errorf("encoding instructions: %w", err)
		}
		materials, err := jsonArray(item.MaterialsNeeded)
		if err != nil {
			return uuid.Nil, fmt.Errorf("encoding materials: %w", err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO activity_suggestion_items
			     (suggestion_log_id, title, description, type, time_required, cost,
			      difficulty, instructions, materials_needed, address, distance,
			      rating, hours, weather_appropriate)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			logID, item.Title, item.Description, item.Type, item.TimeRequired, item.Cost,
			item.Difficulty, instructions, materials, item.Address, item.Distance,
			item.Rating, item.Hours, item.WeatherAppropriate,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("inserting suggestion item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("committing suggestion log: %w", err)
	}

	return logID, nil
}

// RecentLogs returns the session's latest suggestion requests, newest first.
func (s *HistoryService) RecentLogs(ctx context.Context, sessionID string, limit int) ([]models.SuggestionLog, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	user, err := s.users.GetBySession(ctx, sessionID)
	if errors.Is(err, ErrUserNotFound) {
		return []models.SuggestionLog{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolving session user: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT request_id, budget, time_available, suggestions_count, ai_model_used, created_at
		 FROM activity_suggestion_logs
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		user.ID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing suggestion logs: %w", err)
	}
	defer rows.Close()

	logs := []models.SuggestionLog{}
	for rows.Next() {
		l := models.SuggestionLog{SessionID: sessionID}
		if err := rows.Scan(&l.RequestID, &l.Budget, &l.TimeAvailable, &l.SuggestionsCount, &l.AIModelUsed, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning suggestion log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading suggestion logs: %w", err)
	}

	return logs, nil
}

// Select records that the session picked one of its suggestions.
func (s *HistoryService) Select(ctx context.Context, params models.SelectActivityParams) (*models.ActivityHistory, error) {
	if params.ActivityTitle == "" || params.ActivityType == "" {
		return nil, ErrInvalidActivity
	}
	if params.ActivityCost.IsNegative() || params.ActivityTime <= 0 {
		return nil, ErrInvalidActivity
	}

	user, err := s.users.GetOrCreate(ctx, params.SessionID)
	if err != nil {
		return nil, fmt.Errorf("resolving session user: %w", err)
	}

	entry := &models.ActivityHistory{
		UserID:           user.ID,
		SuggestionItemID: params.SuggestionItemID,
		ActivityTitle:    params.ActivityTitle,
		ActivityType:     params.ActivityType,
		ActivityCost:     params.ActivityCost,
		ActivityTime:     params.ActivityTime,
		Selected:         true,
	}

	err = s.db.QueryRow(ctx,
		`INSERT INTO activity_history
		     (user_id, suggestion_item_id, activity_title, activity_type,
		      activity_cost, activity_time, selected, selected_at)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE, NOW())
		 RETURNING id, selected_at, created_at`,
		user.ID, params.SuggestionItemID, params.ActivityTitle, params.ActivityType,
		params.ActivityCost, params.ActivityTime,
	).Scan(&entry.ID, &entry.SelectedAt, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("recording selection: %w", err)
	}

	return entry, nil
}

// Complete marks a selected activity finished, with an optional 1-5 rating
// and feedback.
func (s *HistoryService) Complete(ctx context.Context, sessionID string, historyID uuid.UUID, params models.CompleteActivityParams) (*models.ActivityHistory, error) {
	if params.Rating != nil && (*params.Rating < 1 || *params.Rating > 5) {
		return nil, ErrInvalidRating
	}

	user, err := s.users.GetBySession(ctx, sessionID)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrHistoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolving session user: %w", err)
	}

	entry := &models.ActivityHistory{ID: historyID, UserID: user.ID}
	err = s.db.QueryRow(ctx,
		`UPDATE activity_history
		 SET completed = TRUE, completed_at = NOW(), rating = $1, feedback = $2
		 WHERE id = $3 AND user_id = $4
		 RETURNING suggestion_item_id, activity_title, activity_type, activity_cost,
		           activity_time, selected, completed, rating, feedback,
		           selected_at, completed_at, created_at`,
		params.Rating, params.Feedback, historyID, user.ID,
	).Scan(&entry.SuggestionItemID, &entry.ActivityTitle, &entry.ActivityType, &entry.ActivityCost,
		&entry.ActivityTime, &entry.Selected, &entry.Completed, &entry.Rating, &entry.Feedback,
		&entry.SelectedAt, &entry.CompletedAt, &entry.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrHistoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("completing activity: %w", err)
	}

	return entry, nil
}

// jsonArray encodes a string slice for a JSONB column, treating nil as empty.
func jsonArray(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

// nullable maps "" to NULL for optional text columns.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
