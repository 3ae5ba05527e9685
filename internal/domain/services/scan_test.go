package services_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scamscan/internal/config"
	"scamscan/internal/domain/models"
	"scamscan/internal/domain/services"
	"scamscan/internal/domain/services/ai"
	"scamscan/internal/sources"
	"scamscan/pkg/logger"
)

type fakeScanStore struct {
	scans    map[uuid.UUID]*models.Scan
	entities map[uuid.UUID][]models.ScanEntity
	results  map[uuid.UUID][]models.ThreatCheckResult
	err      error
}

func newFakeScanStore() *fakeScanStore {
	return &fakeScanStore{
		scans:    make(map[uuid.UUID]*models.Scan),
		entities: make(map[uuid.UUID][]models.ScanEntity),
		results:  make(map[uuid.UUID][]models.ThreatCheckResult),
	}
}

func (s *fakeScanStore) CreateScan(ctx context.Context, scan *models.Scan, entities []models.ScanEntity, results []models.ThreatCheckResult) error {
	if s.err != nil {
		return s.err
	}
	s.scans[scan.ID] = scan
	s.entities[scan.ID] = entities
	s.results[scan.ID] = results
	return nil
}

func (s *fakeScanStore) GetScan(ctx context.Context, scanID, apiKeyID uuid.UUID) (*models.Scan, error) {
	scan, ok := s.scans[scanID]
	if !ok || scan.APIKeyID != apiKeyID {
		return nil, nil
	}
	return scan, nil
}

type fakeCardStore struct {
	cards []*models.ScamCard
	err   error
}

func (s *fakeCardStore) CreateCard(ctx context.Context, card *models.ScamCard) error {
	if s.err != nil {
		return s.err
	}
	s.cards = append(s.cards, card)
	return nil
}

type fakeOCR struct {
	text string
	err  error
}

func (o *fakeOCR) Configured() bool { return true }

func (o *fakeOCR) ExtractText(ctx context.Context, image []byte) (string, error) {
	return o.text, o.err
}

type fixedClassifier struct {
	classification models.Classification
}

func (c *fixedClassifier) Classify(ctx context.Context, text string, entities models.EntitySet, results []models.ThreatCheckResult) models.Classification {
	return c.classification
}

type scanFixture struct {
	svc   *services.ScanService
	store *fakeScanStore
	cards *fakeCardStore
}

func newScanFixture(t *testing.T, checkers []sources.URLChecker, classifier services.RiskClassifier, abuseStore services.AbuseStore, ocr services.OCRClient) *scanFixture {
	t.Helper()
	log := logger.NewDefault()

	if classifier == nil {
		// unconfigured client forces the deterministic fallback
		classifier = ai.NewClassifier(ai.NewClient(config.AnthropicConfig{}, log), log)
	}
	if abuseStore == nil {
		abuseStore = &stubAbuseStore{}
	}
	if ocr == nil {
		ocr = &fakeOCR{}
	}

	store := newFakeScanStore()
	cards := &fakeCardStore{}

	svc := services.NewScanService(
		services.NewEntityExtractor(nil, log),
		newIntelService(checkers, nil),
		classifier,
		services.NewAbuseService(abuseStore, log),
		store,
		cards,
		ocr,
		config.ScanConfig{},
		config.CardsConfig{BaseURL: "http://localhost:8080"},
		log,
	)
	return &scanFixture{svc: svc, store: store, cards: cards}
}

func threatChecker(source models.ThreatSource) *stubURLChecker {
	return &stubURLChecker{
		source: source,
		result: models.ThreatCheckResult{
			IsThreat:   true,
			ThreatType: "phishing",
			Confidence: 0.95,
			Details:    map[string]any{"summary": "URL flagged"},
		},
	}
}

func TestScanTextTwoThreatsFallback(t *testing.T) {
	fx := newScanFixture(t, []sources.URLChecker{
		threatChecker(models.SourcePhishTank),
		threatChecker(models.SourceURLhaus),
	}, nil, nil, nil)

	req := services.ScanRequest{APIKeyID: uuid.New(), Channel: models.ChannelSMS}
	result, err := fx.svc.ScanText(context.Background(), "URGENT: verify at http://evil.example.com/kyc now", models.ContentText, req)

	require.NoError(t, err)
	assert.Equal(t, 75, result.RiskScore)
	assert.Equal(t, models.RiskHigh, result.RiskLevel)
	assert.Equal(t, models.ScamUnknown, result.ScamType)
	assert.Equal(t, []string{"http://evil.example.com/kyc"}, result.Entities.URLs)

	// URL checks ran, so url reputation checks are reported
	assert.Contains(t, result.ChecksPerformed, "url_reputation (Google Safe Browsing, PhishTank, URLhaus)")
	assert.Contains(t, result.ChecksPerformed, "domain_age_verification (WHOIS)")
	assert.Equal(t, checksNotAvailableList(), result.ChecksNotAvailable)

	// score 75 crosses the card threshold
	require.NotNil(t, result.ScamCard)
	assert.Regexp(t, regexp.MustCompile(`^[a-z0-9]{8}$`), result.ScamCard.CardID)
	assert.Equal(t, "http://localhost:8080/card/"+result.ScamCard.CardID, result.ScamCard.CardURL)
	require.Len(t, fx.cards.cards, 1)

	// the persisted scan carries the raw content and full evidence
	stored := fx.store.scans[result.ScanID]
	require.NotNil(t, stored)
	assert.Equal(t, result.RiskScore, stored.RiskScore)
	assert.NotEmpty(t, stored.RawContent)
	assert.NotEmpty(t, stored.ContentHash)
	assert.False(t, stored.ContentExpiresAt.IsZero())
	assert.Len(t, fx.store.results[result.ScanID], 2)
	assert.NotEmpty(t, fx.store.entities[result.ScanID])
}

func checksNotAvailableList() []string {
	return []string{
		"sender_identity_verification",
		"transaction_confirmation",
		"voice_call_content_analysis",
	}
}

func TestScanTextBenignFallback(t *testing.T) {
	fx := newScanFixture(t, nil, nil, nil, nil)

	req := services.ScanRequest{APIKeyID: uuid.New()}
	result, err := fx.svc.ScanText(context.Background(), "See you at lunch tomorrow!", models.ContentText, req)

	require.NoError(t, err)
	assert.Equal(t, 10, result.RiskScore)
	assert.Equal(t, models.RiskNone, result.RiskLevel)
	assert.Nil(t, result.ScamCard)
	assert.Empty(t, fx.cards.cards)
	assert.True(t, result.Entities.IsEmpty())

	// no URLs means no url reputation checks are claimed
	assert.NotContains(t, result.ChecksPerformed, "url_reputation (Google Safe Browsing, PhishTank, URLhaus)")
	assert.Contains(t, result.ConfidenceNote, "No scam indicators detected")
}

func TestScanTextCardThresholdBoundary(t *testing.T) {
	for _, tt := range []struct {
		score    int
		wantCard bool
	}{
		{39, false},
		{40, true},
	} {
		classifier := &fixedClassifier{classification: models.Classification{
			RiskScore:   tt.score,
			RiskLevel:   models.LevelForScore(tt.score),
			ScamType:    models.ScamPhishing,
			Explanation: "test verdict",
			ModelUsed:   "test",
		}}
		fx := newScanFixture(t, nil, classifier, nil, nil)

		result, err := fx.svc.ScanText(context.Background(), "hello", models.ContentText, services.ScanRequest{APIKeyID: uuid.New()})
		require.NoError(t, err)

		if tt.wantCard {
			assert.NotNil(t, result.ScamCard, "score %d should create a card", tt.score)
			assert.Len(t, fx.cards.cards, 1)
		} else {
			assert.Nil(t, result.ScamCard, "score %d should not create a card", tt.score)
			assert.Empty(t, fx.cards.cards)
		}
	}
}

func TestScanTextCardFailureDoesNotFailScan(t *testing.T) {
	classifier := &fixedClassifier{classification: models.Classification{
		RiskScore: 90,
		RiskLevel: models.RiskCritical,
		ScamType:  models.ScamPhishing,
		ModelUsed: "test",
	}}
	fx := newScanFixture(t, nil, classifier, nil, nil)
	fx.cards.err = errors.New("unique violation")

	result, err := fx.svc.ScanText(context.Background(), "hello", models.ContentText, services.ScanRequest{APIKeyID: uuid.New()})

	require.NoError(t, err)
	assert.Nil(t, result.ScamCard)
	assert.Equal(t, 90, result.RiskScore)
}

func TestScanTextPersistenceFailureIsFatal(t *testing.T) {
	fx := newScanFixture(t, nil, nil, nil, nil)
	fx.store.err = errors.New("db down")

	_, err := fx.svc.ScanText(context.Background(), "hello", models.ContentText, services.ScanRequest{APIKeyID: uuid.New()})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to persist scan")
}

func TestScanTextThrottledCallerGetsNoEvidence(t *testing.T) {
	abuseStore := &stubAbuseStore{
		record: &models.AbuseScore{ResponseLevel: models.ResponseThrottled},
	}
	fx := newScanFixture(t, []sources.URLChecker{
		threatChecker(models.SourcePhishTank),
	}, nil, abuseStore, nil)

	result, err := fx.svc.ScanText(context.Background(), "click http://evil.example.com", models.ContentText, services.ScanRequest{APIKeyID: uuid.New()})

	require.NoError(t, err)
	assert.Empty(t, result.Evidence)
	// persisted evidence stays complete
	assert.NotEmpty(t, fx.store.scans[result.ScanID].Evidence)
}

func TestGetScanRoundTrip(t *testing.T) {
	fx := newScanFixture(t, []sources.URLChecker{
		threatChecker(models.SourcePhishTank),
		threatChecker(models.SourceURLhaus),
	}, nil, nil, nil)

	apiKeyID := uuid.New()
	created, err := fx.svc.ScanText(context.Background(), "verify at http://evil.example.com", models.ContentText, services.ScanRequest{APIKeyID: apiKeyID})
	require.NoError(t, err)

	fetched, err := fx.svc.GetScan(context.Background(), created.ScanID, apiKeyID)
	require.NoError(t, err)

	assert.Equal(t, created.RiskScore, fetched.RiskScore)
	assert.Equal(t, created.RiskLevel, fetched.RiskLevel)
	assert.Equal(t, created.ScamType, fetched.ScamType)
	assert.Equal(t, created.Explanation, fetched.Explanation)
	// entities are never replayed back
	assert.True(t, fetched.Entities.IsEmpty())
}

func TestGetScanWrongCallerIsNotFound(t *testing.T) {
	fx := newScanFixture(t, nil, nil, nil, nil)

	created, err := fx.svc.ScanText(context.Background(), "hello", models.ContentText, services.ScanRequest{APIKeyID: uuid.New()})
	require.NoError(t, err)

	_, err = fx.svc.GetScan(context.Background(), created.ScanID, uuid.New())
	assert.ErrorIs(t, err, services.ErrScanNotFound)
}

func TestScanImageInsufficientText(t *testing.T) {
	fx := newScanFixture(t, nil, nil, nil, &fakeOCR{text: "   \n "})

	result, err := fx.svc.ScanImage(context.Background(), []byte("pngbytes"), services.ScanRequest{APIKeyID: uuid.New()})

	require.NoError(t, err)
	assert.Equal(t, models.RiskInsufficient, result.RiskLevel)
	assert.Equal(t, 0, result.RiskScore)
	assert.Equal(t, []string{"ocr_text_extraction"}, result.ChecksPerformed)
	assert.Equal(t, []string{"image_content_insufficient"}, result.ChecksNotAvailable)
	assert.Nil(t, result.ScamCard)

	stored := fx.store.scans[result.ScanID]
	require.NotNil(t, stored)
	assert.Equal(t, models.ContentImage, stored.ContentType)
	assert.Empty(t, stored.RawContent)
}

func TestScanImageWithTextRunsPipeline(t *testing.T) {
	fx := newScanFixture(t, nil, nil, nil, &fakeOCR{text: "You won a lottery! Claim at http://prize.example.org"})

	result, err := fx.svc.ScanImage(context.Background(), []byte("pngbytes"), services.ScanRequest{APIKeyID: uuid.New()})

	require.NoError(t, err)
	assert.NotEqual(t, models.RiskInsufficient, result.RiskLevel)
	assert.Equal(t, []string{"http://prize.example.org"}, result.Entities.URLs)
	assert.Equal(t, models.ContentImage, fx.store.scans[result.ScanID].ContentType)
}

func TestScanImageOCRFailureIsInsufficient(t *testing.T) {
	fx := newScanFixture(t, nil, nil, nil, &fakeOCR{err: errors.New("vision down")})

	result, err := fx.svc.ScanImage(context.Background(), []byte("pngbytes"), services.ScanRequest{APIKeyID: uuid.New()})

	require.NoError(t, err)
	assert.Equal(t, models.RiskInsufficient, result.RiskLevel)
}
