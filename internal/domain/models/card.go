package models

import (
	"time"

	"github.com/google/uuid"
)

// ScamCard is a shareable public summary of a risky scan. At most one
// card exists per scan.
type ScamCard struct {
	ID         uuid.UUID `json:"id"`
	ScanID     uuid.UUID `json:"scan_id"`
	ShortID    string    `json:"short_id"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	RiskLevel  RiskLevel `json:"risk_level"`
	RiskScore  int       `json:"risk_score"`
	ScamType   ScamType  `json:"scam_type"`
	ViewCount  int64     `json:"view_count"`
	ShareCount int64     `json:"share_count"`
	CreatedAt  time.Time `json:"created_at"`
}
