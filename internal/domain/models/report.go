package models

import (
	"time"

	"github.com/google/uuid"
)

// FeedbackType is the closed set of caller feedback on a scan verdict
type FeedbackType string

const (
	FeedbackConfirmedScam FeedbackType = "confirmed_scam"
	FeedbackFalsePositive FeedbackType = "false_positive"
	FeedbackFalseNegative FeedbackType = "false_negative"
	FeedbackHelpful       FeedbackType = "helpful"
	FeedbackNotHelpful    FeedbackType = "not_helpful"
)

// ValidFeedbackType reports whether s is a member of the feedback taxonomy
func ValidFeedbackType(s string) bool {
	switch FeedbackType(s) {
	case FeedbackConfirmedScam, FeedbackFalsePositive, FeedbackFalseNegative,
		FeedbackHelpful, FeedbackNotHelpful:
		return true
	default:
		return false
	}
}

// ReportStatus tracks a report through manual review
type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportReviewed ReportStatus = "reviewed"
	ReportActioned ReportStatus = "actioned"
)

// Report is caller feedback on a scan result. Review fields are filled
// by an out-of-band moderation process, never by the submitting caller.
type Report struct {
	ID           uuid.UUID    `json:"id"`
	ScanID       uuid.UUID    `json:"scan_id"`
	APIKeyID     uuid.UUID    `json:"api_key_id"`
	FeedbackType FeedbackType `json:"feedback_type"`
	Comment      string       `json:"comment,omitempty"`
	ContactEmail string       `json:"contact_email,omitempty"`
	Status       ReportStatus `json:"status"`
	ReviewedBy   string       `json:"reviewed_by,omitempty"`
	ReviewNotes  string       `json:"review_notes,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	ReviewedAt   *time.Time   `json:"reviewed_at,omitempty"`
}
