// Package models - Hadith Content Catalog
// Core content types for the daily reading application.
// A hadith becomes visible to readers only once its status is "verified".
package models

import (
	"time"
)

// HadithStatus represents the moderation lifecycle of a hadith
type HadithStatus string

const (
	StatusPending  HadithStatus = "pending"
	StatusVerified HadithStatus = "verified"
	StatusRejected HadithStatus = "rejected"
)

// HadithGrade represents the authenticity grading
type HadithGrade string

const (
	GradeSahih HadithGrade = "sahih"
	GradeHasan HadithGrade = "hasan"
	GradeDaif  HadithGrade = "daif"
)

// Difficulty tiers for readers
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Hadith represents a single reviewed text record
type Hadith struct {
	ID             string       `json:"id" db:"id"`
	BookID         string       `json:"book_id" db:"book_id"`
	CategoryID     string       `json:"category_id" db:"category_id"`
	ArabicText     string       `json:"arabic_text" db:"arabic_text"`
	BanglaText     string       `json:"bangla_text" db:"bangla_text"`
	EnglishText    string       `json:"english_text,omitempty" db:"english_text"`
	Narrator       string       `json:"narrator" db:"narrator"`
	Grade          HadithGrade  `json:"grade" db:"grade"`
	Reference      string       `json:"reference" db:"reference"`
	Explanation    string       `json:"explanation,omitempty" db:"explanation"`
	Difficulty     string       `json:"difficulty" db:"difficulty"`
	Status         HadithStatus `json:"status" db:"status"`
	ViewCount      int          `json:"view_count" db:"view_count"`
	LikeCount      int          `json:"like_count" db:"like_count"`
	ShareCount     int          `json:"share_count" db:"share_count"`
	WeeklyScore    int          `json:"weekly_score" db:"weekly_score"`
	IsFeatured     bool         `json:"is_featured" db:"is_featured"`
	IsDailySpecial bool         `json:"is_daily_special" db:"is_daily_special"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" db:"updated_at"`
}

// Book represents a hadith collection (e.g. Bukhari, Muslim)
type Book struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	NameBangla  string `json:"name_bangla" db:"name_bangla"`
	Compiler    string `json:"compiler,omitempty" db:"compiler"`
	HadithCount int    `json:"hadith_count" db:"hadith_count"`
}

// Category represents a topical grouping
type Category struct {
	ID         string `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	NameBangla string `json:"name_bangla" db:"name_bangla"`
	Icon       string `json:"icon,omitempty" db:"icon"`
}

// HadithFilter holds optional catalog filters
type HadithFilter struct {
	BookID     string
	CategoryID string
	Difficulty string
	Grade      string
	Status     string
	Featured   *bool
}

// CreateHadithRequest is used by contribution approval and seeding
type CreateHadithRequest struct {
	BookID      string `json:"book_id" validate:"required"`
	CategoryID  string `json:"category_id" validate:"required"`
	ArabicText  string `json:"arabic_text"`
	BanglaText  string `json:"bangla_text" validate:"required"`
	EnglishText string `json:"english_text"`
	Narrator    string `json:"narrator"`
	Grade       string `json:"grade" validate:"oneof=sahih hasan daif"`
	Reference   string `json:"reference" validate:"required"`
	Explanation string `json:"explanation"`
	Difficulty  string `json:"difficulty" validate:"oneof=beginner intermediate advanced"`
}

// HadithSearchResult pairs a hadith with its full-text relevance
type HadithSearchResult struct {
	Hadith         Hadith  `json:"hadith"`
	RelevanceScore float64 `json:"relevance_score"`
}

// TrendingHadith is a lightweight ranking row
type TrendingHadith struct {
	HadithID    string `json:"hadith_id"`
	BanglaText  string `json:"bangla_text"`
	Reference   string `json:"reference"`
	WeeklyScore int    `json:"weekly_score"`
	Rank        int    `json:"rank"`
}
