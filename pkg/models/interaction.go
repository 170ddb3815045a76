package models

import "time"

// Favorite marks a hadith saved by a user. Unique per (user, hadith).
type Favorite struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	HadithID  string    `json:"hadith_id" db:"hadith_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Rating is a 1-5 star rating, upserted per (user, hadith)
type Rating struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	HadithID  string    `json:"hadith_id" db:"hadith_id"`
	Stars     int       `json:"stars" db:"stars" validate:"required,min=1,max=5"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Comment on a hadith
type Comment struct {
	ID        string    `json:"id" db:"id"`
	HadithID  string    `json:"hadith_id" db:"hadith_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Username  string    `json:"username,omitempty" db:"-"` // Joined for display
	Content   string    `json:"content" db:"content" validate:"required,min=1,max=2000"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ReadEvent records that a user read a hadith on a given day.
// Unique per (user, hadith, date) so re-reads do not inflate stats.
type ReadEvent struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	HadithID  string    `json:"hadith_id" db:"hadith_id"`
	DateKey   string    `json:"date_key" db:"date_key"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateCommentRequest
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// RateRequest
type RateRequest struct {
	Stars int `json:"stars" validate:"required,min=1,max=5"`
}

// UserPresence describes one connected reader in a daily room
type UserPresence struct {
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	DateKey    string    `json:"date_key"`
	Status     string    `json:"status"` // online or away
	LastActive time.Time `json:"last_active"`
}

// MarkReadResponse returns the updated stats plus any fresh unlocks so the
// UI can celebrate in one round trip
type MarkReadResponse struct {
	Stats         *UserStats    `json:"stats"`
	NewlyUnlocked []Achievement `json:"newly_unlocked,omitempty"`
	AlreadyRead   bool          `json:"already_read"`
}
