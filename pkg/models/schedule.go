package models

import "time"

// ScheduleSize is the number of hadiths surfaced per day
const ScheduleSize = 3

// DailySchedule is a date-keyed pointer to the hadiths to surface "today".
// DateKey is formatted YYYY-MM-DD; at most one row exists per date.
type DailySchedule struct {
	DateKey   string    `json:"date_key" db:"date_key"`
	HadithIDs []string  `json:"hadith_ids" db:"hadith_ids"`
	Theme     string    `json:"theme,omitempty" db:"theme"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SelectionSource tags which rung of the fallback cascade produced a
// daily selection. Useful for operators; invisible to readers.
type SelectionSource string

const (
	SourceSchedule   SelectionSource = "schedule"
	SourceVerified   SelectionSource = "verified"
	SourceUnfiltered SelectionSource = "unfiltered"
	SourceSeeded     SelectionSource = "seeded"
	SourceStatic     SelectionSource = "static"
)

// DailySelection is the resolved set of hadiths for one date.
// Items always holds between 1 and ScheduleSize entries.
type DailySelection struct {
	DateKey string          `json:"date_key"`
	Items   []Hadith        `json:"items"`
	Theme   string          `json:"theme,omitempty"`
	Source  SelectionSource `json:"source"`
}

// SetScheduleRequest upserts the schedule for a date (admin only)
type SetScheduleRequest struct {
	DateKey   string   `json:"date_key" validate:"required"`
	HadithIDs []string `json:"hadith_ids" validate:"required,len=3"`
	Theme     string   `json:"theme"`
}
