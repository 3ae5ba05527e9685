package services

import (
	"context"

	"github.com/google/uuid"

	"scamscan/internal/domain/models"
	"scamscan/pkg/logger"
)

// AbuseStore reads the per-caller abuse record
type AbuseStore interface {
	GetAbuseScore(ctx context.Context, apiKeyID uuid.UUID) (*models.AbuseScore, error)
}

// AbuseService shapes scan responses according to a caller's abuse
// record. Scores themselves are maintained by a periodic job; the scan
// path only reads the current response level.
type AbuseService struct {
	store  AbuseStore
	logger *logger.Logger
}

// NewAbuseService creates a new abuse service
func NewAbuseService(store AbuseStore, log *logger.Logger) *AbuseService {
	return &AbuseService{
		store:  store,
		logger: log.WithComponent("abuse"),
	}
}

// ResponseLevel returns the caller's current response level. Callers
// with no abuse record, and lookups that fail, get full responses.
func (s *AbuseService) ResponseLevel(ctx context.Context, apiKeyID uuid.UUID) models.ResponseLevel {
	record, err := s.store.GetAbuseScore(ctx, apiKeyID)
	if err != nil {
		s.logger.Warn().Err(err).Str("api_key_id", apiKeyID.String()).Msg("abuse score lookup failed")
		return models.ResponseFull
	}
	if record == nil {
		return models.ResponseFull
	}
	return record.ResponseLevel
}

// FilterEvidence trims evidence detail to what the response level
// permits. Filtering affects only the returned result; the full
// evidence is always what gets persisted.
func FilterEvidence(evidence []models.EvidenceItem, level models.ResponseLevel) []models.EvidenceItem {
	switch level {
	case models.ResponseReduced:
		// keep the findings, hide which sources produced them
		out := make([]models.EvidenceItem, len(evidence))
		for i, e := range evidence {
			e.Source = "analysis"
			out[i] = e
		}
		return out
	case models.ResponseMinimal, models.ResponseThrottled:
		return []models.EvidenceItem{}
	default:
		return evidence
	}
}
