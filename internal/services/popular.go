package services

import (
	"context"
	"fmt"

	"github.com/anyidea-app/anyidea/internal/models"
)

const (
	defaultPopularLimit = 10
	maxPopularLimit     = 50
)

// PopularService reads and maintains the global popular_activities
// aggregate. Rows come only from Refresh, never from request handlers.
type PopularService struct {
	db DB
}

func NewPopularService(db DB) *PopularService {
	return &PopularService{db: db}
}

// List returns aggregated activities that were selected at least once,
// most-selected first. Budget and time filters match any activity whose
// observed range overlaps the requested one.
func (s *PopularService) List(ctx context.Context, filter models.PopularFilter) ([]models.PopularActivity, error) {
	query := `SELECT activity_title, activity_type, category, selection_count, completion_count,
	                 average_rating, total_ratings, popular_budget_min, popular_budget_max,
	                 popular_time_min, popular_time_max
	          FROM popular_activities
	          WHERE selection_count > 0`
	args := []any{}

	if filter.BudgetMax != nil {
		args = append(args, *filter.BudgetMax)
		query += fmt.Sprintf(" AND (popular_budget_min IS NULL OR popular_budget_min <= $%d)", len(args))
	}
	if filter.BudgetMin != nil {
		args = append(args, *filter.BudgetMin)
		query += fmt.Sprintf(" AND (popular_budget_max IS NULL OR popular_budget_max >= $%d)", len(args))
	}
	if filter.TimeMax != nil {
		args = append(args, *filter.TimeMax)
		query += fmt.Sprintf(" AND (popular_time_min IS NULL OR popular_time_min <= $%d)", len(args))
	}
	if filter.TimeMin != nil {
		args = append(args, *filter.TimeMin)
		query += fmt.Sprintf(" AND (popular_time_max IS NULL OR popular_time_max >= $%d)", len(args))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPopularLimit
	}
	if limit > maxPopularLimit {
		limit = maxPopularLimit
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY selection_count DESC, average_rating DESC NULLS LAST LIMIT $%d", len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing popular activities: %w", err)
	}
	defer rows.Close()

	activities := []models.PopularActivity{}
	for rows.Next() {
		var a models.PopularActivity
		err := rows.Scan(&a.ActivityTitle, &a.ActivityType, &a.Category, &a.SelectionCount, &a.CompletionCount,
			&a.AverageRating, &a.TotalRatings, &a.BudgetMin, &a.BudgetMax, &a.TimeMin, &a.TimeMax)
		if err != nil {
			return nil, fmt.Errorf("scanning popular activity: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading popular activities: %w", err)
	}

	return activities, nil
}

// Refresh rebuilds the aggregate from activity_history. It reports the
// number of upserted rows and is safe to run concurrently with reads.
func (s *PopularService) Refresh(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`INSERT INTO popular_activities
		     (activity_title, activity_type, category, selection_count, completion_count,
		      average_rating, total_ratings, popular_budget_min, popular_budget_max,
		      popular_time_min, popular_time_max, updated_at)
		 SELECT activity_title,
		        activity_type,
		        activity_type,
		        COUNT(*) FILTER (WHERE selected),
		        COUNT(*) FILTER (WHERE completed),
		        AVG(rating) FILTER (WHERE rating IS NOT NULL),
		        COUNT(rating),
		        MIN(activity_cost),
		        MAX(activity_cost),
		        MIN(activity_time),
		        MAX(activity_time),
		        NOW()
		 FROM activity_history
		 GROUP BY activity_title, activity_type
		 ON CONFLICT (activity_title, activity_type) DO UPDATE SET
		     selection_count    = EXCLUDED.selection_count,
		     completion_count   = EXCLUDED.completion_count,
		     average_rating     = EXCLUDED.average_rating,
		     total_ratings      = EXCLUDED.total_ratings,
		     popular_budget_min = EXCLUDED.popular_budget_min,
		     popular_budget_max = EXCLUDED.popular_budget_max,
		     popular_time_min   = EXCLUDED.popular_time_min,
		     popular_time_max   = EXCLUDED.popular_time_max,
		     updated_at         = EXCLUDED.updated_at`,
	)
	if err != nil {
		return 0, fmt.Errorf("refreshing popular activities: %w", err)
	}

	return tag.RowsAffected(), nil
}
