package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/anyidea-app/anyidea/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserService struct {
	db DB
}

func NewUserService(db DB) *UserService {
	return &UserService{db: db}
}

// GetOrCreate returns the user owning a session id, creating the row the
// first time the session appears. The upsert keeps concurrent first requests
// for the same session from racing each other.
func (s *UserService) GetOrCreate(ctx context.Context, sessionID string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx,
		`INSERT INTO users (session_id)
		 VALUES ($1)
		 ON CONFLICT (session_id) DO UPDATE SET updated_at = NOW()
		 RETURNING id, session_id, allow_location_access, latitude, longitude, created_at, updated_at`,
		sessionID,
	).Scan(&user.ID, &user.SessionID, &user.AllowLocationAccess, &user.Latitude, &user.Longitude, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("getting or creating user: %w", err)
	}

	return user, nil
}

// GetBySession looks a user up without creating one.
func (s *UserService) GetBySession(ctx context.Context, sessionID string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx,
		`SELECT id, session_id, allow_location_access, latitude, longitude, created_at, updated_at
		 FROM users WHERE session_id = $1`,
		sessionID,
	).Scan(&user.ID, &user.SessionID, &user.AllowLocationAccess, &user.Latitude, &user.Longitude, &user.CreatedAt, &user.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by session: %w", err)
	}

	return user, nil
}
