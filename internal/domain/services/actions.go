package services

import "scamscan/internal/domain/models"

// RecommendedActions returns the advice list for a verdict: scam-type
// specific guidance first, then the general guidance for the risk level,
// deduplicated preserving order. It is a pure function of its inputs.
func RecommendedActions(scamType models.ScamType, level models.RiskLevel) []string {
	actions := append(scamTypeActions(scamType), riskLevelActions(level)...)
	return models.DedupStrings(actions)
}

func scamTypeActions(scamType models.ScamType) []string {
	switch scamType {
	case models.ScamPhishing:
		return []string{
			"Do NOT click any links in this message",
			"Do NOT enter any personal information",
			"Report the sender as spam/phishing",
			"If it claims to be from a known company, visit their official website directly (not through any link in this message)",
		}
	case models.ScamSmishing:
		return []string{
			"Do NOT click any links in this SMS",
			"Do NOT reply to this message",
			"Block the sender",
			"Report to your carrier by forwarding to 7726 (SPAM)",
		}
	case models.ScamUPIFraud:
		return []string{
			"Do NOT accept any collect request from unknown senders",
			"Remember: you do NOT need to enter your PIN to RECEIVE money",
			"Block this UPI ID in your payment app",
			"Report to your bank's fraud helpline",
		}
	case models.ScamAdvanceFee:
		return []string{
			"Do NOT send any money upfront",
			"Legitimate services do not require advance fees",
			"Do NOT share bank or UPI details",
			"Report this to cybercrime.gov.in or your local police",
		}
	case models.ScamLotteryPrize:
		return []string{
			"You cannot win a lottery you never entered",
			"Do NOT pay any 'processing fee' or 'tax'",
			"Do NOT share personal or banking details",
			"Block and report the sender",
		}
	case models.ScamJob:
		return []string{
			"Legitimate employers NEVER ask for money to hire you",
			"Verify the company on their official website and LinkedIn",
			"Do NOT share Aadhaar, PAN, or banking details before verifying",
			"If the salary seems too good to be true, it probably is",
		}
	case models.ScamInvestment:
		return []string{
			"No legitimate investment guarantees fixed high returns",
			"Check if the entity is registered with SEBI (India) or SEC (USA)",
			"Do NOT invest based on urgency or limited-time pressure",
			"Consult a registered financial advisor before investing",
		}
	case models.ScamTechSupport:
		return []string{
			"Legitimate companies do NOT cold-call about computer problems",
			"Do NOT give remote access to your computer",
			"Do NOT share passwords or OTPs",
			"Hang up and contact the company directly through their official number",
		}
	case models.ScamImpersonation:
		return []string{
			"Verify the sender's identity through a known, separate channel",
			"Do NOT act on urgent money requests without verifying",
			"Check the actual email address / phone number (not just the display name)",
			"Contact the person/organization directly using a number you already have",
		}
	case models.ScamOTPFraud:
		return []string{
			"NEVER share OTP with anyone — no bank or service will ask for it",
			"OTPs are for YOUR use only",
			"If someone asks for your OTP, it is a scam — no exceptions",
			"Report immediately to your bank",
		}
	case models.ScamCrypto:
		return []string{
			"No legitimate crypto investment guarantees returns",
			"Do NOT send cryptocurrency to unknown wallets",
			"Verify any platform on official crypto exchange listings",
			"Be extremely wary of 'celebrity endorsements' or 'exclusive groups'",
		}
	case models.ScamVishingReference, models.ScamRomance, models.ScamQRCode,
		models.ScamFakeApp, models.ScamRental, models.ScamDelivery,
		models.ScamCharity, models.ScamUnknown:
		return nil
	default:
		return nil
	}
}

func riskLevelActions(level models.RiskLevel) []string {
	switch level {
	case models.RiskCritical:
		return []string{
			"We strongly recommend you do NOT engage with this message",
			"Block the sender immediately",
			"Report to relevant authorities",
		}
	case models.RiskHigh:
		return []string{
			"Exercise extreme caution",
			"Do NOT click links or share personal information",
			"Verify through official channels before taking any action",
		}
	case models.RiskMedium:
		return []string{
			"Proceed with caution",
			"Verify the sender and any claims independently",
			"Do NOT share personal or financial information without verification",
		}
	case models.RiskLow:
		return []string{
			"Stay alert — minor concerns noted",
			"If something feels off, trust your instincts and verify directly",
		}
	case models.RiskNone:
		return []string{
			"No scam indicators detected in our checks",
			"However, no automated system is perfect — if something feels wrong, verify directly",
		}
	case models.RiskInsufficient:
		return nil
	default:
		return nil
	}
}
