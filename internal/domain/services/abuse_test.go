package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"scamscan/internal/domain/models"
	"scamscan/internal/domain/services"
	"scamscan/pkg/logger"
)

type stubAbuseStore struct {
	record *models.AbuseScore
	err    error
}

func (s *stubAbuseStore) GetAbuseScore(ctx context.Context, apiKeyID uuid.UUID) (*models.AbuseScore, error) {
	return s.record, s.err
}

func TestResponseLevelDefaultsToFull(t *testing.T) {
	svc := services.NewAbuseService(&stubAbuseStore{}, logger.NewDefault())
	assert.Equal(t, models.ResponseFull, svc.ResponseLevel(context.Background(), uuid.New()))
}

func TestResponseLevelLookupFailureIsFull(t *testing.T) {
	svc := services.NewAbuseService(&stubAbuseStore{err: errors.New("db down")}, logger.NewDefault())
	assert.Equal(t, models.ResponseFull, svc.ResponseLevel(context.Background(), uuid.New()))
}

func TestResponseLevelFromRecord(t *testing.T) {
	svc := services.NewAbuseService(&stubAbuseStore{
		record: &models.AbuseScore{ResponseLevel: models.ResponseThrottled},
	}, logger.NewDefault())
	assert.Equal(t, models.ResponseThrottled, svc.ResponseLevel(context.Background(), uuid.New()))
}

func TestFilterEvidence(t *testing.T) {
	evidence := []models.EvidenceItem{
		{Source: "phishtank", Detail: "URL found in PhishTank phishing database", IsThreat: true, Confidence: 0.95},
		{Source: "pattern_analysis", Detail: "urgency pressure", IsThreat: true},
	}

	t.Run("full is unchanged", func(t *testing.T) {
		assert.Equal(t, evidence, services.FilterEvidence(evidence, models.ResponseFull))
	})

	t.Run("reduced hides sources", func(t *testing.T) {
		filtered := services.FilterEvidence(evidence, models.ResponseReduced)
		assert.Len(t, filtered, 2)
		for _, e := range filtered {
			assert.Equal(t, "analysis", e.Source)
		}
		assert.Equal(t, "URL found in PhishTank phishing database", filtered[0].Detail)
		// the original slice is untouched
		assert.Equal(t, "phishtank", evidence[0].Source)
	})

	t.Run("minimal and throttled empty the list", func(t *testing.T) {
		assert.Empty(t, services.FilterEvidence(evidence, models.ResponseMinimal))
		assert.Empty(t, services.FilterEvidence(evidence, models.ResponseThrottled))
	})
}
