package model

import "time"

// RefreshToken is the single active refresh credential of a user.
// Rotation deletes every prior row for the user before inserting the new
// one, so at most one valid token exists per user at any time.
type RefreshToken struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Token     string    `json:"-" gorm:"uniqueIndex;size:512;not null"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
}
