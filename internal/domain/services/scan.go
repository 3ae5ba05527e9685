package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"scamscan/internal/config"
	"scamscan/internal/domain/models"
	"scamscan/pkg/logger"
)

// ErrScanNotFound is returned when a scan does not exist or belongs to
// another caller
var ErrScanNotFound = errors.New("scan not found")

// Honest messaging: callers are always told exactly which checks ran
// and which the system cannot perform.
var (
	checksPerformedText = []string{
		"message_pattern_analysis",
		"entity_extraction (URLs, phones, emails, UPI, crypto)",
	}
	checksPerformedURLs = []string{
		"url_reputation (Google Safe Browsing, PhishTank, URLhaus)",
		"domain_age_verification (WHOIS)",
	}
	checksNotAvailable = []string{
		"sender_identity_verification",
		"transaction_confirmation",
		"voice_call_content_analysis",
	}
)

func confidenceNote(level models.RiskLevel) string {
	switch level {
	case models.RiskCritical:
		return "Strong scam indicators detected. However, no automated system is 100% accurate. " +
			"If unsure, verify directly with the claimed sender through official channels."
	case models.RiskHigh:
		return "Multiple warning signs detected. Exercise extreme caution. " +
			"Verify through official channels before taking any action."
	case models.RiskMedium:
		return "Some suspicious elements found. This could be a scam or legitimate but aggressive communication. " +
			"Verify independently before sharing any personal or financial information."
	case models.RiskLow:
		return "Minor concerns noted but likely legitimate. Stay alert. " +
			"No automated system is perfect — if something feels wrong, trust your instincts."
	default:
		return "No scam indicators detected in our checks. However, no automated system is perfect. " +
			"If something feels wrong, trust your instincts and verify directly."
	}
}

// ScanStore persists scans and their derived child records
type ScanStore interface {
	// CreateScan inserts the scan plus its entities and threat results
	// in a single transaction
	CreateScan(ctx context.Context, scan *models.Scan, entities []models.ScanEntity, results []models.ThreatCheckResult) error
	GetScan(ctx context.Context, scanID, apiKeyID uuid.UUID) (*models.Scan, error)
}

// CardStore persists scam cards in their own transaction scope
type CardStore interface {
	CreateCard(ctx context.Context, card *models.ScamCard) error
}

// RiskClassifier produces the risk verdict for scanned content
type RiskClassifier interface {
	Classify(ctx context.Context, text string, entities models.EntitySet, threatResults []models.ThreatCheckResult) models.Classification
}

// OCRClient turns image bytes into text
type OCRClient interface {
	Configured() bool
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// ScanRequest carries the caller-supplied fields of one scan
type ScanRequest struct {
	APIKeyID uuid.UUID
	Channel  models.Channel
	Category models.ScanCategory
	Locale   string
}

func (r *ScanRequest) applyDefaults() {
	if r.Category == "" {
		r.Category = models.CategoryScamCheck
	}
	if r.Locale == "" {
		r.Locale = "en"
	}
}

// ScanService runs the scan pipeline: extract, check, classify, derive
// actions, persist, and optionally mint a shareable card.
type ScanService struct {
	extractor  *EntityExtractor
	intel      *ThreatIntelService
	classifier RiskClassifier
	abuse      *AbuseService
	store      ScanStore
	cards      CardStore
	ocr        OCRClient
	retention  time.Duration
	cardBase   string
	logger     *logger.Logger
}

// NewScanService wires the pipeline together
func NewScanService(
	extractor *EntityExtractor,
	intel *ThreatIntelService,
	classifier RiskClassifier,
	abuse *AbuseService,
	store ScanStore,
	cards CardStore,
	ocr OCRClient,
	scanCfg config.ScanConfig,
	cardsCfg config.CardsConfig,
	log *logger.Logger,
) *ScanService {
	retention := scanCfg.RawContentRetention
	if retention == 0 {
		retention = time.Hour
	}
	return &ScanService{
		extractor:  extractor,
		intel:      intel,
		classifier: classifier,
		abuse:      abuse,
		store:      store,
		cards:      cards,
		ocr:        ocr,
		retention:  retention,
		cardBase:   strings.TrimRight(cardsCfg.BaseURL, "/"),
		logger:     log.WithComponent("scan"),
	}
}

// ScanText runs the full pipeline over text content
func (s *ScanService) ScanText(ctx context.Context, content string, contentType models.ContentType, req ScanRequest) (*models.ScanResult, error) {
	req.applyDefaults()
	start := time.Now()

	entities := s.extractor.Extract(ctx, content)

	threatResults := s.intel.CheckURLs(ctx, entities.URLs)

	classification := s.classifier.Classify(ctx, content, entities, threatResults)

	actions := RecommendedActions(classification.ScamType, classification.RiskLevel)

	checksPerformed := append([]string{}, checksPerformedText...)
	if len(entities.URLs) > 0 {
		checksPerformed = append(checksPerformed, checksPerformedURLs...)
	}
	note := confidenceNote(classification.RiskLevel)

	processingTime := time.Since(start).Milliseconds()

	scan := &models.Scan{
		ID:                 uuid.New(),
		APIKeyID:           req.APIKeyID,
		ContentType:        contentType,
		Channel:            req.Channel,
		Category:           req.Category,
		Locale:             req.Locale,
		RawContent:         content,
		ContentHash:        hashContent(content),
		RiskScore:          classification.RiskScore,
		RiskLevel:          classification.RiskLevel,
		ScamType:           classification.ScamType,
		Explanation:        classification.Explanation,
		Evidence:           classification.Evidence,
		Actions:            actions,
		ChecksPerformed:    checksPerformed,
		ChecksNotAvailable: checksNotAvailable,
		ConfidenceNote:     note,
		ProcessingTimeMS:   processingTime,
		ModelUsed:          classification.ModelUsed,
		ContentExpiresAt:   time.Now().UTC().Add(s.retention),
		CreatedAt:          time.Now().UTC(),
	}

	if err := s.store.CreateScan(ctx, scan, models.EntitiesFromSet(scan.ID, entities), threatResults); err != nil {
		return nil, fmt.Errorf("failed to persist scan: %w", err)
	}

	var cardData *models.ScamCardData
	if classification.RiskScore >= 40 {
		cardData = s.createCard(ctx, scan.ID, classification)
	}

	level := s.abuse.ResponseLevel(ctx, req.APIKeyID)

	s.logger.Info().
		Str("scan_id", scan.ID.String()).
		Int("risk_score", classification.RiskScore).
		Str("risk_level", string(classification.RiskLevel)).
		Str("scam_type", string(classification.ScamType)).
		Int64("processing_time_ms", processingTime).
		Msg("scan completed")

	return &models.ScanResult{
		ScanID:             scan.ID,
		RiskScore:          classification.RiskScore,
		RiskLevel:          classification.RiskLevel,
		ScamType:           classification.ScamType,
		Explanation:        classification.Explanation,
		Evidence:           FilterEvidence(classification.Evidence, level),
		Actions:            actions,
		Entities:           entities,
		ChecksPerformed:    checksPerformed,
		ChecksNotAvailable: checksNotAvailable,
		ConfidenceNote:     note,
		ScamCard:           cardData,
		ProcessingTimeMS:   processingTime,
		CreatedAt:          scan.CreatedAt,
	}, nil
}

// ScanImage OCRs the image and feeds the extracted text through the text
// pipeline. Images with no usable text produce a terminal
// insufficient-data scan.
func (s *ScanService) ScanImage(ctx context.Context, image []byte, req ScanRequest) (*models.ScanResult, error) {
	req.applyDefaults()

	text, err := s.ocr.ExtractText(ctx, image)
	if err != nil {
		s.logger.Warn().Err(err).Msg("ocr failed, treating image as insufficient")
		text = ""
	}

	if strings.TrimSpace(text) == "" {
		return s.persistInsufficientScan(ctx, len(image), req)
	}

	return s.ScanText(ctx, text, models.ContentImage, req)
}

func (s *ScanService) persistInsufficientScan(ctx context.Context, imageSize int, req ScanRequest) (*models.ScanResult, error) {
	scan := &models.Scan{
		ID:                 uuid.New(),
		APIKeyID:           req.APIKeyID,
		ContentType:        models.ContentImage,
		Channel:            req.Channel,
		Category:           req.Category,
		Locale:             req.Locale,
		ContentHash:        hashContent(strconv.Itoa(imageSize)),
		RiskScore:          0,
		RiskLevel:          models.RiskInsufficient,
		ScamType:           models.ScamUnknown,
		Explanation:        "We could not extract enough text from this image for a reliable assessment.",
		ChecksPerformed:    []string{"ocr_text_extraction"},
		ChecksNotAvailable: []string{"image_content_insufficient"},
		ConfidenceNote:     "Insufficient data for analysis. When in doubt, verify through official channels.",
		CreatedAt:          time.Now().UTC(),
	}

	if err := s.store.CreateScan(ctx, scan, nil, nil); err != nil {
		return nil, fmt.Errorf("failed to persist scan: %w", err)
	}

	return &models.ScanResult{
		ScanID:             scan.ID,
		RiskScore:          0,
		RiskLevel:          models.RiskInsufficient,
		Explanation:        scan.Explanation,
		Evidence:           []models.EvidenceItem{},
		Actions:            []string{},
		ChecksPerformed:    scan.ChecksPerformed,
		ChecksNotAvailable: scan.ChecksNotAvailable,
		ConfidenceNote:     scan.ConfidenceNote,
		CreatedAt:          scan.CreatedAt,
	}, nil
}

// GetScan returns a previously stored scan, scoped to its owning caller.
// Extracted entities are never replayed back; only derived risk fields
// and metadata are returned.
func (s *ScanService) GetScan(ctx context.Context, scanID, apiKeyID uuid.UUID) (*models.ScanResult, error) {
	scan, err := s.store.GetScan(ctx, scanID, apiKeyID)
	if err != nil {
		return nil, err
	}
	if scan == nil {
		return nil, ErrScanNotFound
	}

	level := s.abuse.ResponseLevel(ctx, apiKeyID)

	return &models.ScanResult{
		ScanID:             scan.ID,
		RiskScore:          scan.RiskScore,
		RiskLevel:          scan.RiskLevel,
		ScamType:           scan.ScamType,
		Explanation:        scan.Explanation,
		Evidence:           FilterEvidence(scan.Evidence, level),
		Actions:            scan.Actions,
		Entities:           models.EntitySet{},
		ChecksPerformed:    scan.ChecksPerformed,
		ChecksNotAvailable: scan.ChecksNotAvailable,
		ConfidenceNote:     scan.ConfidenceNote,
		ProcessingTimeMS:   scan.ProcessingTimeMS,
		CreatedAt:          scan.CreatedAt,
	}, nil
}

// createCard mints the shareable card in its own transaction scope.
// Failure is logged and means "no card", never a failed scan.
func (s *ScanService) createCard(ctx context.Context, scanID uuid.UUID, c models.Classification) *models.ScamCardData {
	card := BuildCard(scanID, c)

	if err := s.cards.CreateCard(ctx, &card); err != nil {
		s.logger.Error().Err(err).Str("scan_id", scanID.String()).Msg("scam card creation failed")
		return nil
	}

	return &models.ScamCardData{
		CardID:  card.ShortID,
		CardURL: fmt.Sprintf("%s/card/%s", s.cardBase, card.ShortID),
	}
}

func hashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
