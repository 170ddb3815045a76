package models

import "time"

// ContributionStatus mirrors the hadith moderation lifecycle
type ContributionStatus string

const (
	ContributionPending  ContributionStatus = "pending"
	ContributionApproved ContributionStatus = "approved"
	ContributionRejected ContributionStatus = "rejected"
)

// Contribution is a user-submitted hadith awaiting moderation.
// Approval creates a verified Hadith and credits the contributor.
type Contribution struct {
	ID         string              `json:"id" db:"id"`
	UserID     string              `json:"user_id" db:"user_id"`
	Username   string              `json:"username,omitempty" db:"-"` // Joined
	Submission CreateHadithRequest `json:"submission" db:"-"`
	Status     ContributionStatus  `json:"status" db:"status"`
	ReviewNote string              `json:"review_note,omitempty" db:"review_note"`
	ReviewedBy string              `json:"reviewed_by,omitempty" db:"reviewed_by"`
	HadithID   string              `json:"hadith_id,omitempty" db:"hadith_id"` // Set on approval
	CreatedAt  time.Time           `json:"created_at" db:"created_at"`
	ReviewedAt *time.Time          `json:"reviewed_at,omitempty" db:"reviewed_at"`
}

// ReviewContributionRequest carries the moderator's decision note
type ReviewContributionRequest struct {
	Note string `json:"note"`
}
