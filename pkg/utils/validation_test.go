package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("reader_1"))
	assert.NoError(t, ValidateUsername("abc"))

	assert.Error(t, ValidateUsername("ab"))
	assert.Error(t, ValidateUsername("has space"))
	assert.Error(t, ValidateUsername("bad-dash"))
	assert.Error(t, ValidateUsername(strings.Repeat("x", 51)))
	assert.Error(t, ValidateUsername(""))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("longenough"))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 129)))
}

func TestValidateDateKey(t *testing.T) {
	assert.NoError(t, ValidateDateKey("2026-09-01"))

	assert.Error(t, ValidateDateKey("2026-9-1"))
	assert.Error(t, ValidateDateKey("01-09-2026"))
	// Right shape, impossible date
	assert.Error(t, ValidateDateKey("2026-13-40"))
	assert.Error(t, ValidateDateKey(""))
}

func TestValidateHadithText(t *testing.T) {
	assert.NoError(t, ValidateHadithText("নিয়তের উপর আমলের ফলাফল নির্ভরশীল"))
	assert.Error(t, ValidateHadithText("short"))
	assert.Error(t, ValidateHadithText("   \t  "))
	assert.Error(t, ValidateHadithText(strings.Repeat("x", 20001)))
}

func TestValidateGrade(t *testing.T) {
	assert.NoError(t, ValidateGrade("sahih"))
	assert.NoError(t, ValidateGrade("hasan"))
	assert.NoError(t, ValidateGrade("daif"))
	assert.Error(t, ValidateGrade("Sahih"))
	assert.Error(t, ValidateGrade("mawdu"))
}

func TestValidateDifficulty(t *testing.T) {
	assert.NoError(t, ValidateDifficulty("beginner"))
	assert.NoError(t, ValidateDifficulty("intermediate"))
	assert.NoError(t, ValidateDifficulty("advanced"))
	assert.Error(t, ValidateDifficulty("expert"))
}
