package services

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"scamscan/internal/domain/models"
)

const shortIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// shortIDLength keeps card URLs typeable while leaving ~2.8e12
// combinations
const shortIDLength = 8

// NewShortID generates a URL-safe identifier for a shareable card
func NewShortID() string {
	b := make([]byte, shortIDLength)
	max := big.NewInt(int64(len(shortIDAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			panic(fmt.Sprintf("short id generation: %v", err))
		}
		b[i] = shortIDAlphabet[n.Int64()]
	}
	return string(b)
}

// BuildCard assembles a shareable scam card for a flagged scan. The card
// carries only the verdict, never the scanned content.
func BuildCard(scanID uuid.UUID, c models.Classification) models.ScamCard {
	return models.ScamCard{
		ScanID:    scanID,
		ShortID:   NewShortID(),
		Title:     cardTitle(c.ScamType),
		Summary:   cardSummary(c),
		RiskLevel: c.RiskLevel,
		RiskScore: c.RiskScore,
		ScamType:  c.ScamType,
	}
}

func cardTitle(scamType models.ScamType) string {
	switch scamType {
	case models.ScamPhishing:
		return "Phishing Alert"
	case models.ScamSmishing:
		return "SMS Scam Alert"
	case models.ScamUPIFraud:
		return "UPI Fraud Alert"
	case models.ScamAdvanceFee:
		return "Advance Fee Scam Alert"
	case models.ScamLotteryPrize:
		return "Lottery/Prize Scam Alert"
	case models.ScamJob:
		return "Job Scam Alert"
	case models.ScamInvestment:
		return "Investment Scam Alert"
	case models.ScamTechSupport:
		return "Tech Support Scam Alert"
	case models.ScamImpersonation:
		return "Impersonation Alert"
	case models.ScamOTPFraud:
		return "OTP Fraud Alert"
	case models.ScamCrypto:
		return "Crypto Scam Alert"
	case models.ScamRomance:
		return "Romance Scam Alert"
	case models.ScamDelivery:
		return "Delivery Scam Alert"
	default:
		return "Scam Alert"
	}
}

func cardSummary(c models.Classification) string {
	var prefix string
	switch c.RiskLevel {
	case models.RiskCritical:
		prefix = "CRITICAL WARNING"
	case models.RiskHigh:
		prefix = "HIGH RISK"
	case models.RiskMedium:
		prefix = "CAUTION"
	default:
		prefix = "Warning"
	}

	// truncate on runes, not bytes; explanations can carry non-ASCII
	explanation := c.Explanation
	if runes := []rune(explanation); len(runes) > 200 {
		explanation = string(runes[:197]) + "..."
	}

	return fmt.Sprintf("%s: %s", prefix, explanation)
}
