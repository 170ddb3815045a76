package utils

import (
	"regexp"
	"strings"

	"amarhadis/pkg/models"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,50}$`)
	dateKeyRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ValidateUsername checks if username meets requirements
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return models.ErrInvalidInput
	}
	return nil
}

// ValidatePassword checks minimum password length
func ValidatePassword(password string) error {
	if len(password) < 8 || len(password) > 128 {
		return models.ErrInvalidInput
	}
	return nil
}

// ValidateDateKey checks YYYY-MM-DD shape and parseability
func ValidateDateKey(key string) error {
	if !dateKeyRegex.MatchString(key) {
		return models.ErrInvalidInput
	}
	if _, err := ParseDateKey(key); err != nil {
		return models.ErrInvalidInput
	}
	return nil
}

// ValidateHadithText validates the mandatory translation text
func ValidateHadithText(text string) error {
	if len(strings.TrimSpace(text)) < 10 {
		return models.ErrInvalidInput
	}
	if len(text) > 20000 {
		return models.ErrInvalidInput
	}
	return nil
}

// ValidateGrade checks the authenticity grade enum
func ValidateGrade(grade string) error {
	switch models.HadithGrade(grade) {
	case models.GradeSahih, models.GradeHasan, models.GradeDaif:
		return nil
	}
	return models.ErrInvalidInput
}

// ValidateDifficulty checks the difficulty tier enum
func ValidateDifficulty(d string) error {
	switch d {
	case models.DifficultyBeginner, models.DifficultyIntermediate, models.DifficultyAdvanced:
		return nil
	}
	return models.ErrInvalidInput
}
