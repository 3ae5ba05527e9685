package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"scamscan/internal/domain/models"
	"scamscan/pkg/logger"
	"scamscan/pkg/urlutil"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// generic handle@host tokens; UPI vs email is decided by the host part
	handlePattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+`)

	btcPattern  = regexp.MustCompile(`\b(1[a-km-zA-HJ-NP-Z1-9]{25,34})\b`)
	ethPattern  = regexp.MustCompile(`\b(0x[a-fA-F0-9]{40})\b`)
	tronPattern = regexp.MustCompile(`\b(T[a-zA-Z0-9]{33})\b`)

	// loose candidates handed to the phone number library for validation
	phoneCandidatePattern = regexp.MustCompile(`\+?[0-9][0-9()\s.-]{7,17}[0-9]`)
)

// phone numbers without a country code are tried against these regions
// in order
var phoneRegions = []string{"IN", "US"}

// upiProviders is the allow-list of UPI PSP handle suffixes. A handle is
// only treated as a UPI ID when its host part is exactly one of these.
var upiProviders = map[string]struct{}{
	"upi": {}, "ybl": {}, "okhdfcbank": {}, "oksbi": {}, "okicici": {},
	"okaxis": {}, "paytm": {}, "apl": {}, "ibl": {}, "axl": {},
	"sbi": {}, "hdfcbank": {}, "icici": {}, "axisbank": {}, "kotak": {},
	"indus": {}, "federal": {}, "idbi": {}, "rbl": {}, "boi": {},
	"pnb": {}, "cnrb": {}, "citi": {}, "sc": {}, "dbs": {},
	"hsbc": {}, "jio": {}, "freecharge": {}, "gpay": {}, "phonepe": {},
	"amazon": {},
}

// entityLLM is the LLM surface the extractor needs
type entityLLM interface {
	Configured() bool
	ExtractEntities(ctx context.Context, text string) (models.EntitySet, error)
}

// EntityExtractor pulls URLs, phone numbers, emails, UPI IDs and crypto
// addresses out of message text. Regex extraction always runs and is
// authoritative; the LLM pass only supplements entities the patterns
// missed (obfuscated URLs, spelled-out numbers).
type EntityExtractor struct {
	llm    entityLLM
	logger *logger.Logger
}

// NewEntityExtractor creates an extractor. llm may be nil for pure
// pattern-based extraction.
func NewEntityExtractor(llm entityLLM, log *logger.Logger) *EntityExtractor {
	return &EntityExtractor{
		llm:    llm,
		logger: log.WithComponent("extractor"),
	}
}

// Extract returns every entity found in the text
func (e *EntityExtractor) Extract(ctx context.Context, text string) models.EntitySet {
	set := extractWithPatterns(text)

	if e.llm == nil || !e.llm.Configured() {
		return set
	}

	llmSet, err := e.llm.ExtractEntities(ctx, text)
	if err != nil {
		e.logger.Warn().Err(err).Msg("LLM entity extraction failed, using pattern results only")
		return set
	}

	return set.Merge(llmSet)
}

func extractWithPatterns(text string) models.EntitySet {
	emails, upiIDs := extractHandles(text)
	return models.EntitySet{
		URLs:            urlutil.ExtractURLs(text),
		Phones:          extractPhones(text),
		Emails:          emails,
		UPIIDs:          upiIDs,
		CryptoAddresses: extractCryptoAddresses(text),
	}
}

// extractHandles splits handle@host tokens into emails and UPI IDs. A
// token is a UPI ID when its host is exactly a known PSP suffix, and an
// email when the host carries a TLD.
func extractHandles(text string) (emails, upiIDs []string) {
	for _, m := range handlePattern.FindAllString(text, -1) {
		m = strings.TrimRight(m, ".")
		at := strings.LastIndex(m, "@")
		if at < 1 {
			continue
		}
		host := strings.ToLower(m[at+1:])
		if _, ok := upiProviders[host]; ok {
			upiIDs = append(upiIDs, m)
			continue
		}
		if emailPattern.MatchString(m) {
			emails = append(emails, m)
		}
	}
	return models.DedupStrings(emails), models.DedupStrings(upiIDs)
}

// extractPhones validates loose numeric candidates with libphonenumber
// and normalizes valid ones to E.164
func extractPhones(text string) []string {
	candidates := phoneCandidatePattern.FindAllString(text, -1)
	out := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if formatted, ok := validatePhone(candidate); ok {
			out = append(out, formatted)
		}
	}
	return models.DedupStrings(out)
}

func validatePhone(candidate string) (string, bool) {
	for _, region := range phoneRegions {
		num, err := phonenumbers.Parse(candidate, region)
		if err != nil {
			continue
		}
		if phonenumbers.IsValidNumber(num) {
			return phonenumbers.Format(num, phonenumbers.E164), true
		}
	}
	return "", false
}

func extractCryptoAddresses(text string) []string {
	var out []string
	for _, p := range []*regexp.Regexp{btcPattern, ethPattern, tronPattern} {
		out = append(out, p.FindAllString(text, -1)...)
	}
	return models.DedupStrings(out)
}
