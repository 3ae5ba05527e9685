package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentType marks the origin of scanned content
type ContentType string

const (
	ContentText  ContentType = "text"
	ContentImage ContentType = "image"
)

// Channel is the medium the scanned message arrived through
type Channel string

const (
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelEmail    Channel = "email"
	ChannelSocialDM Channel = "social_dm"
	ChannelWebsite  Channel = "website"
	ChannelOther    Channel = "other"
)

// ScanCategory is the caller-declared purpose of the scan
type ScanCategory string

const (
	CategoryScamCheck   ScanCategory = "scam_check"
	CategoryJobOffer    ScanCategory = "job_offer"
	CategoryRentalLease ScanCategory = "rental_lease"
	CategoryInvestment  ScanCategory = "investment"
	CategoryContract    ScanCategory = "contract"
	CategoryAuto        ScanCategory = "auto"
)

// Scan is the persisted record of one analysis. It is immutable after
// creation; only the retention job may later null out raw content.
type Scan struct {
	ID                 uuid.UUID      `json:"id"`
	APIKeyID           uuid.UUID      `json:"api_key_id"`
	ContentType        ContentType    `json:"content_type"`
	Channel            Channel        `json:"channel,omitempty"`
	Category           ScanCategory   `json:"category"`
	Locale             string         `json:"locale"`
	RawContent         string         `json:"-"`
	ContentHash        string         `json:"content_hash"`
	RiskScore          int            `json:"risk_score"`
	RiskLevel          RiskLevel      `json:"risk_level"`
	ScamType           ScamType       `json:"scam_type"`
	Explanation        string         `json:"explanation"`
	Evidence           []EvidenceItem `json:"evidence"`
	Actions            []string       `json:"actions"`
	ChecksPerformed    []string       `json:"checks_performed"`
	ChecksNotAvailable []string       `json:"checks_not_available"`
	ConfidenceNote     string         `json:"confidence_note"`
	ProcessingTimeMS   int64          `json:"processing_time_ms"`
	ModelUsed          string         `json:"model_used"`
	ContentExpiresAt   time.Time      `json:"content_expires_at"`
	CreatedAt          time.Time      `json:"created_at"`
}

// ScanEntity is one extracted entity persisted alongside its scan
type ScanEntity struct {
	ScanID     uuid.UUID `json:"scan_id"`
	EntityType string    `json:"entity_type"` // url, phone, email, upi, crypto
	Value      string    `json:"value"`
}

// EntitiesFromSet flattens an EntitySet into persisted entity rows
func EntitiesFromSet(scanID uuid.UUID, set EntitySet) []ScanEntity {
	var out []ScanEntity
	add := func(entityType string, values []string) {
		for _, v := range values {
			out = append(out, ScanEntity{ScanID: scanID, EntityType: entityType, Value: v})
		}
	}
	add("url", set.URLs)
	add("phone", set.Phones)
	add("email", set.Emails)
	add("upi", set.UPIIDs)
	add("crypto", set.CryptoAddresses)
	return out
}

// ScamCardData is the card reference embedded in a scan result
type ScamCardData struct {
	CardID  string `json:"card_id"`
	CardURL string `json:"card_url"`
}

// ScanResult is the assembled result returned to the caller
type ScanResult struct {
	ScanID             uuid.UUID      `json:"scan_id"`
	RiskScore          int            `json:"risk_score"`
	RiskLevel          RiskLevel      `json:"risk_level"`
	ScamType           ScamType       `json:"scam_type,omitempty"`
	Explanation        string         `json:"explanation"`
	Evidence           []EvidenceItem `json:"evidence"`
	Actions            []string       `json:"actions"`
	Entities           EntitySet      `json:"entities"`
	ChecksPerformed    []string       `json:"checks_performed"`
	ChecksNotAvailable []string       `json:"checks_not_available"`
	ConfidenceNote     string         `json:"confidence_note"`
	ScamCard           *ScamCardData  `json:"scam_card,omitempty"`
	ProcessingTimeMS   int64          `json:"processing_time_ms"`
	CreatedAt          time.Time      `json:"created_at"`
}
