package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an anonymous session owner. Rows are created lazily the first time
// a session id appears and are never deleted.
type User struct {
	ID                  uuid.UUID `json:"id"`
	SessionID           string    `json:"session_id"`
	AllowLocationAccess bool      `json:"allow_location_access"`
	Latitude            *float64  `json:"latitude,omitempty"`
	Longitude           *float64  `json:"longitude,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
