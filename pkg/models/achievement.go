// Package models - Achievement and Gamification System
// Achievement definitions carry typed unlock criteria evaluated against a
// user's cumulative stats. A definition unlocks when ANY of its criteria is
// satisfied; the unlock row is unique per (user, achievement).
package models

import (
	"time"
)

// CriterionKind identifies which stat a threshold applies to
type CriterionKind string

const (
	CriterionHadithRead    CriterionKind = "hadith_read"
	CriterionStreakDays    CriterionKind = "streak_days"
	CriterionContributions CriterionKind = "contributions"
	CriterionFavorites     CriterionKind = "favorites"
)

// Criterion is a single numeric unlock threshold
type Criterion struct {
	Kind      CriterionKind `json:"kind" db:"kind"`
	Threshold int           `json:"threshold" db:"threshold"`
}

// Achievement represents an unlockable achievement definition
type Achievement struct {
	ID          string      `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	NameBangla  string      `json:"name_bangla" db:"name_bangla"`
	Description string      `json:"description" db:"description"`
	Icon        string      `json:"icon,omitempty" db:"icon"`
	BadgeColor  string      `json:"badge_color,omitempty" db:"badge_color"`
	Criteria    []Criterion `json:"criteria" db:"-"`
	Points      int         `json:"points" db:"points"`
	IsActive    bool        `json:"is_active" db:"is_active"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

// UserAchievement records that a user has unlocked an achievement.
// At most one row exists per (user, achievement) pair.
type UserAchievement struct {
	ID            string       `json:"id" db:"id"`
	UserID        string       `json:"user_id" db:"user_id"`
	AchievementID string       `json:"achievement_id" db:"achievement_id"`
	Achievement   *Achievement `json:"achievement,omitempty" db:"-"` // Joined
	EarnedAt      time.Time    `json:"earned_at" db:"earned_at"`
}

// AchievementProgress describes progress toward a locked achievement
type AchievementProgress struct {
	Current int `json:"current"`
	Target  int `json:"target"`
	Percent int `json:"percent"`
}

// AchievementStatus pairs a definition with the viewer's unlock state
type AchievementStatus struct {
	Achievement
	Unlocked bool                 `json:"unlocked"`
	EarnedAt *time.Time           `json:"earned_at,omitempty"`
	Progress *AchievementProgress `json:"progress,omitempty"`
}

// LevelInfo maps a level to its display title and minimum points
type LevelInfo struct {
	Level       int    `json:"level"`
	Title       string `json:"title"`
	TitleBangla string `json:"title_bangla"`
	MinPoints   int    `json:"min_points"`
}

// LevelTable is the fixed ordered level ladder. The active level is the
// highest entry whose MinPoints does not exceed the user's points.
var LevelTable = []LevelInfo{
	{Level: 1, Title: "Seeker", TitleBangla: "অনুসন্ধানী", MinPoints: 0},
	{Level: 2, Title: "Student", TitleBangla: "তালিবুল ইলম", MinPoints: 100},
	{Level: 3, Title: "Reader", TitleBangla: "পাঠক", MinPoints: 300},
	{Level: 4, Title: "Devoted", TitleBangla: "নিবেদিত", MinPoints: 700},
	{Level: 5, Title: "Scholar", TitleBangla: "আলিম", MinPoints: 1500},
	{Level: 6, Title: "Hafiz of Hadith", TitleBangla: "হাদিসের হাফিজ", MinPoints: 3000},
}
