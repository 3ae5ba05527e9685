package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scamscan/internal/domain/models"
	"scamscan/internal/domain/services"
)

func TestRecommendedActionsCombinesTypeAndLevel(t *testing.T) {
	actions := services.RecommendedActions(models.ScamPhishing, models.RiskCritical)

	require.Len(t, actions, 7)
	assert.Equal(t, "Do NOT click any links in this message", actions[0])
	assert.Equal(t, "We strongly recommend you do NOT engage with this message", actions[4])
}

func TestRecommendedActionsTypeWithoutTemplate(t *testing.T) {
	actions := services.RecommendedActions(models.ScamUnknown, models.RiskHigh)

	assert.Equal(t, []string{
		"Exercise extreme caution",
		"Do NOT click links or share personal information",
		"Verify through official channels before taking any action",
	}, actions)
}

func TestRecommendedActionsBenign(t *testing.T) {
	actions := services.RecommendedActions(models.ScamUnknown, models.RiskNone)

	require.Len(t, actions, 2)
	assert.Contains(t, actions[0], "No scam indicators detected")
}

func TestRecommendedActionsInsufficient(t *testing.T) {
	assert.Empty(t, services.RecommendedActions(models.ScamUnknown, models.RiskInsufficient))
}

func TestRecommendedActionsNeverDuplicate(t *testing.T) {
	for _, scamType := range models.AllScamTypes() {
		for _, level := range []models.RiskLevel{
			models.RiskCritical, models.RiskHigh, models.RiskMedium,
			models.RiskLow, models.RiskNone, models.RiskInsufficient,
		} {
			actions := services.RecommendedActions(scamType, level)
			seen := make(map[string]struct{}, len(actions))
			for _, a := range actions {
				_, dup := seen[a]
				assert.False(t, dup, "duplicate action for %s/%s: %q", scamType, level, a)
				seen[a] = struct{}{}
			}
		}
	}
}
