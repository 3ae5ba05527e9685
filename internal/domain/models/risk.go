package models

// RiskLevel represents the severity band of a scan verdict
type RiskLevel string

const (
	RiskCritical RiskLevel = "critical"
	RiskHigh     RiskLevel = "high"
	RiskMedium   RiskLevel = "medium"
	RiskLow      RiskLevel = "low"
	RiskNone     RiskLevel = "none"

	// RiskInsufficient is a terminal level for image scans whose OCR text
	// was too thin to analyze. It is outside the score bands.
	RiskInsufficient RiskLevel = "insufficient"
)

// riskBand maps an inclusive score range to a level. The five bands are
// disjoint and jointly cover [0,100].
type riskBand struct {
	Min   int
	Max   int
	Level RiskLevel
}

var riskBands = []riskBand{
	{80, 100, RiskCritical},
	{60, 79, RiskHigh},
	{40, 59, RiskMedium},
	{20, 39, RiskLow},
	{0, 19, RiskNone},
}

// LevelForScore returns the canonical risk level for a score.
// Scores outside [0,100] are clamped before lookup.
func LevelForScore(score int) RiskLevel {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	for _, b := range riskBands {
		if score >= b.Min && score <= b.Max {
			return b.Level
		}
	}
	return RiskNone
}

// ClampScore bounds a risk score to [0,100]
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ScamType is the closed taxonomy of scam classifications
type ScamType string

const (
	ScamPhishing         ScamType = "phishing"
	ScamSmishing         ScamType = "smishing"
	ScamVishingReference ScamType = "vishing_reference"
	ScamUPIFraud         ScamType = "upi_fraud"
	ScamAdvanceFee       ScamType = "advance_fee"
	ScamLotteryPrize     ScamType = "lottery_prize"
	ScamJob              ScamType = "job_scam"
	ScamInvestment       ScamType = "investment_scam"
	ScamTechSupport      ScamType = "tech_support"
	ScamRomance          ScamType = "romance_scam"
	ScamImpersonation    ScamType = "impersonation"
	ScamQRCode           ScamType = "qr_code_scam"
	ScamOTPFraud         ScamType = "otp_fraud"
	ScamFakeApp          ScamType = "fake_app"
	ScamCrypto           ScamType = "crypto_scam"
	ScamRental           ScamType = "rental_scam"
	ScamDelivery         ScamType = "delivery_scam"
	ScamCharity          ScamType = "charity_scam"
	ScamUnknown          ScamType = "unknown"
)

// AllScamTypes lists every member of the taxonomy, in declaration order.
func AllScamTypes() []ScamType {
	return []ScamType{
		ScamPhishing, ScamSmishing, ScamVishingReference, ScamUPIFraud,
		ScamAdvanceFee, ScamLotteryPrize, ScamJob, ScamInvestment,
		ScamTechSupport, ScamRomance, ScamImpersonation, ScamQRCode,
		ScamOTPFraud, ScamFakeApp, ScamCrypto, ScamRental,
		ScamDelivery, ScamCharity, ScamUnknown,
	}
}

// ParseScamType maps a raw string to the taxonomy, defaulting to unknown
func ParseScamType(s string) ScamType {
	for _, t := range AllScamTypes() {
		if string(t) == s {
			return t
		}
	}
	return ScamUnknown
}

// ParseRiskLevel maps a raw string to a risk level; unrecognized values
// map to none so a malformed provider response can never widen a band.
func ParseRiskLevel(s string) RiskLevel {
	switch RiskLevel(s) {
	case RiskCritical, RiskHigh, RiskMedium, RiskLow, RiskNone, RiskInsufficient:
		return RiskLevel(s)
	default:
		return RiskNone
	}
}
