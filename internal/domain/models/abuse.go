package models

import (
	"time"

	"github.com/google/uuid"
)

// ResponseLevel controls how much evidence detail a caller is shown
type ResponseLevel string

const (
	ResponseFull      ResponseLevel = "full"
	ResponseReduced   ResponseLevel = "reduced"
	ResponseMinimal   ResponseLevel = "minimal"
	ResponseThrottled ResponseLevel = "throttled"
)

// AbuseScore is the per-caller abuse record, maintained by an external
// periodic process. The scan pipeline only reads the response level.
type AbuseScore struct {
	APIKeyID         uuid.UUID     `json:"api_key_id"`
	Score            float64       `json:"score"`
	ScanCount        int           `json:"scan_count"`
	FlaggedRatio     float64       `json:"flagged_ratio"`
	SimilarityRatio  float64       `json:"similarity_ratio"`
	EntityReuseRatio float64       `json:"entity_reuse_ratio"`
	ResponseLevel    ResponseLevel `json:"response_level"`
	UpdatedAt        time.Time     `json:"updated_at"`
}
