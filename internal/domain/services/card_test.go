package services_test

import (
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"scamscan/internal/domain/models"
	"scamscan/internal/domain/services"
)

var shortIDFormat = regexp.MustCompile(`^[a-z0-9]{8}$`)

func TestNewShortIDFormat(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := services.NewShortID()
		assert.Regexp(t, shortIDFormat, id)
		seen[id] = struct{}{}
	}
	// collisions over 100 draws from 36^8 would indicate broken randomness
	assert.Len(t, seen, 100)
}

func TestBuildCard(t *testing.T) {
	scanID := uuid.New()
	card := services.BuildCard(scanID, models.Classification{
		RiskScore:   85,
		RiskLevel:   models.RiskCritical,
		ScamType:    models.ScamUPIFraud,
		Explanation: "This message asks for a PIN to receive money, which is never required.",
	})

	assert.Equal(t, scanID, card.ScanID)
	assert.Regexp(t, shortIDFormat, card.ShortID)
	assert.Equal(t, "UPI Fraud Alert", card.Title)
	assert.Equal(t, 85, card.RiskScore)
	assert.Equal(t, models.RiskCritical, card.RiskLevel)
	assert.Equal(t,
		"CRITICAL WARNING: This message asks for a PIN to receive money, which is never required.",
		card.Summary)
}

func TestBuildCardTitleFallback(t *testing.T) {
	card := services.BuildCard(uuid.New(), models.Classification{
		RiskLevel: models.RiskMedium,
		ScamType:  models.ScamQRCode,
	})
	assert.Equal(t, "Scam Alert", card.Title)
	assert.True(t, strings.HasPrefix(card.Summary, "CAUTION: "))
}

func TestBuildCardSummaryTruncation(t *testing.T) {
	exactly200 := strings.Repeat("a", 200)
	card := services.BuildCard(uuid.New(), models.Classification{
		RiskLevel:   models.RiskHigh,
		ScamType:    models.ScamPhishing,
		Explanation: exactly200,
	})
	assert.Equal(t, "HIGH RISK: "+exactly200, card.Summary)

	over := strings.Repeat("b", 201)
	card = services.BuildCard(uuid.New(), models.Classification{
		RiskLevel:   models.RiskHigh,
		ScamType:    models.ScamPhishing,
		Explanation: over,
	})
	assert.Equal(t, "HIGH RISK: "+strings.Repeat("b", 197)+"...", card.Summary)
}

func TestBuildCardSummaryTruncatesOnRunes(t *testing.T) {
	// 201 multi-byte characters must not be split mid-rune
	nonASCII := strings.Repeat("धोखा", 50) + "ध"
	card := services.BuildCard(uuid.New(), models.Classification{
		RiskLevel:   models.RiskHigh,
		ScamType:    models.ScamUPIFraud,
		Explanation: nonASCII,
	})

	assert.True(t, utf8.ValidString(card.Summary))
	assert.Equal(t, "HIGH RISK: "+string([]rune(nonASCII)[:197])+"...", card.Summary)
}
