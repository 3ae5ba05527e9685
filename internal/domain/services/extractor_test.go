package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scamscan/internal/domain/models"
	"scamscan/internal/domain/services"
	"scamscan/pkg/logger"
)

type stubEntityLLM struct {
	configured bool
	set        models.EntitySet
	err        error
	called     bool
}

func (s *stubEntityLLM) Configured() bool { return s.configured }

func (s *stubEntityLLM) ExtractEntities(ctx context.Context, text string) (models.EntitySet, error) {
	s.called = true
	return s.set, s.err
}

func TestExtractPatterns(t *testing.T) {
	extractor := services.NewEntityExtractor(nil, logger.NewDefault())

	text := "URGENT: your KYC expires today! Verify at http://sbi-verify.example.com/kyc " +
		"or call +91 98765 43210. Send fee to winner@paytm or refunds@sbi-verify.example.com. " +
		"BTC: 1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2"

	set := extractor.Extract(context.Background(), text)

	assert.Equal(t, []string{"http://sbi-verify.example.com/kyc"}, set.URLs)
	assert.Equal(t, []string{"+919876543210"}, set.Phones)
	assert.Equal(t, []string{"refunds@sbi-verify.example.com"}, set.Emails)
	assert.Equal(t, []string{"winner@paytm"}, set.UPIIDs)
	assert.Equal(t, []string{"1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2"}, set.CryptoAddresses)
}

func TestExtractRejectsInvalidPhones(t *testing.T) {
	extractor := services.NewEntityExtractor(nil, logger.NewDefault())

	// order IDs and amounts look like numbers but never validate
	set := extractor.Extract(context.Background(), "Order 1234567890123 total 99999999 paid")

	assert.Empty(t, set.Phones)
}

func TestExtractUPINotDoubleCountedAsEmail(t *testing.T) {
	extractor := services.NewEntityExtractor(nil, logger.NewDefault())

	set := extractor.Extract(context.Background(), "pay me at merchant@okicici today")

	assert.Equal(t, []string{"merchant@okicici"}, set.UPIIDs)
	assert.Empty(t, set.Emails)
}

func TestExtractCryptoAddresses(t *testing.T) {
	extractor := services.NewEntityExtractor(nil, logger.NewDefault())

	text := "send to 0x52908400098527886E0F7030069857D2E4169EE7 or TLa2f6VPqDgRE67v1736s7bJ8Ray5wYjU7"
	set := extractor.Extract(context.Background(), text)

	require.Len(t, set.CryptoAddresses, 2)
	assert.Contains(t, set.CryptoAddresses, "0x52908400098527886E0F7030069857D2E4169EE7")
	assert.Contains(t, set.CryptoAddresses, "TLa2f6VPqDgRE67v1736s7bJ8Ray5wYjU7")
}

func TestExtractMergesLLMResults(t *testing.T) {
	llm := &stubEntityLLM{
		configured: true,
		set: models.EntitySet{
			URLs:   []string{"http://evil.example.net", "http://sbi-verify.example.com/kyc"},
			Phones: []string{"+14155552671"},
		},
	}
	extractor := services.NewEntityExtractor(llm, logger.NewDefault())

	set := extractor.Extract(context.Background(), "visit http://sbi-verify.example.com/kyc now")

	assert.True(t, llm.called)
	// pattern hits come first, LLM supplements deduplicated after
	assert.Equal(t, []string{"http://sbi-verify.example.com/kyc", "http://evil.example.net"}, set.URLs)
	assert.Equal(t, []string{"+14155552671"}, set.Phones)
}

func TestExtractSurvivesLLMFailure(t *testing.T) {
	llm := &stubEntityLLM{configured: true, err: errors.New("api down")}
	extractor := services.NewEntityExtractor(llm, logger.NewDefault())

	set := extractor.Extract(context.Background(), "visit http://evil.example.com now")

	assert.Equal(t, []string{"http://evil.example.com"}, set.URLs)
}

func TestExtractSkipsUnconfiguredLLM(t *testing.T) {
	llm := &stubEntityLLM{configured: false}
	extractor := services.NewEntityExtractor(llm, logger.NewDefault())

	extractor.Extract(context.Background(), "anything")

	assert.False(t, llm.called)
}
