package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/anyidea-app/anyidea/internal/models"
)

var (
	ErrInvalidCategoryName        = errors.New("category name must be between 1 and 50 characters")
	ErrInvalidCategoryDescription = errors.New("category description must be 200 characters or fewer")
	ErrCategoryExists             = errors.New("category already exists")
	ErrCategoryNotFound           = errors.New("category not found")
)

type CategoryService struct {
	db    DB
	users SessionUsers
}

func NewCategoryService(db DB, users SessionUsers) *CategoryService {
	return &CategoryService{db: db, users: users}
}

var titleCaser = cases.Title(language.English)

// DeriveCategoryID derives the public identifier from a category name:
// lowercased, spaces to underscores, "&" to "and", anything else outside
// [a-z0-9_] dropped. Returns "" when nothing survives.
func DeriveCategoryID(name string) string {
	id := strings.ToLower(strings.TrimSpace(name))
	id = strings.ReplaceAll(id, " ", "_")
	id = strings.ReplaceAll(id, "&", "and")

	var b strings.Builder
	for _, r := range id {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	id = b.String()
	if strings.Trim(id, "_") == "" {
		return ""
	}
	return id
}

func (s *CategoryService) Create(ctx context.Context, params models.CreateCategoryParams) (*models.CustomCategory, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" || len(name) > models.CategoryNameMaxLen {
		return nil, ErrInvalidCategoryName
	}
	if params.Description != nil && len(*params.Description) > models.CategoryDescriptionMaxLen {
		return nil, ErrInvalidCategoryDescription
	}

	user, err := s.users.GetOrCreate(ctx, params.SessionID)
	if err != nil {
		return nil, fmt.Errorf("resolving session user: %w", err)
	}

	categoryID := DeriveCategoryID(name)
	if categoryID == "" {
		categoryID = "custom_" + uuid.NewString()[:8]
	}

	var exists bool
	err = s.db.QueryRow(ctx,
		`SELECT EXISTS(
		     SELECT 1 FROM custom_categories
		     WHERE user_id = $1 AND category_id = $2 AND is_active = TRUE
		 )`,
		user.ID, categoryID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking category existence: %w", err)
	}
	if exists {
		return nil, ErrCategoryExists
	}

	category := &models.CustomCategory{
		UserID:      user.ID,
		CategoryID:  categoryID,
		Name:        titleCaser.String(name),
		Description: params.Description,
		Icon:        params.Icon,
		Type:        "custom",
		IsActive:    true,
	}

	err = s.db.QueryRow(ctx,
		`INSERT INTO custom_categories (user_id, name, description, icon, category_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		user.ID, category.Name, category.Description, category.Icon, categoryID,
	).Scan(&category.ID, &category.CreatedAt)

	if isUniqueViolation(err) {
		// Lost a race with a concurrent create for the same identifier.
		return nil, ErrCategoryExists
	}
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	return category, nil
}

func (s *CategoryService) List(ctx context.Context, sessionID string) ([]models.CustomCategory, error) {
	user, err := s.users.GetBySession(ctx, sessionID)
	if errors.Is(err, ErrUserNotFound) {
		return []models.CustomCategory{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolving session user: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, category_id, name, description, icon, created_at
		 FROM custom_categories
		 WHERE user_id = $1 AND is_active = TRUE
		 ORDER BY created_at ASC`,
		user.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	categories := []models.CustomCategory{}
	for rows.Next() {
		c := models.CustomCategory{UserID: user.ID, Type: "custom", IsActive: true}
		if err := rows.Scan(&c.ID, &c.CategoryID, &c.Name, &c.Description, &c.Icon, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading categories: %w", err)
	}

	return categories, nil
}

// Deactivate soft deletes a category by its public identifier.
func (s *CategoryService) Deactivate(ctx context.Context, sessionID, categoryID string) error {
	user, err := s.users.GetBySession(ctx, sessionID)
	if errors.Is(err, ErrUserNotFound) {
		return ErrCategoryNotFound
	}
	if err != nil {
		return fmt.Errorf("resolving session user: %w", err)
	}

	result, err := s.db.Exec(ctx,
		`UPDATE custom_categories
		 SET is_active = FALSE, updated_at = NOW()
		 WHERE user_id = $1 AND category_id = $2 AND is_active = TRUE`,
		user.ID, categoryID,
	)
	if err != nil {
		return fmt.Errorf("deactivating category: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
