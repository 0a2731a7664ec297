package models

import (
	"time"

	"github.com/google/uuid"
)

// CustomCategory is a user-defined activity category. The API identifies
// categories by the derived CategoryID, never the row id.
type CustomCategory struct {
	ID          uuid.UUID `json:"-"`
	UserID      uuid.UUID `json:"-"`
	CategoryID  string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Icon        *string   `json:"icon,omitempty"`
	Type        string    `json:"type"`
	IsActive    bool      `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateCategoryParams struct {
	SessionID   string
	Name        string
	Description *string
	Icon        *string
}

const (
	CategoryNameMaxLen        = 50
	CategoryDescriptionMaxLen = 200
)
