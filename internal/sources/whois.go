package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"

	"scamscan/internal/domain/models"
	"scamscan/pkg/logger"
)

// Domain registration age thresholds. Freshly registered domains are a
// strong scam signal; most phishing domains are abandoned within weeks.
const (
	whoisVeryNewDays = 7
	whoisNewDays     = 30
)

// WHOISChecker verifies domain registration age via WHOIS lookups
type WHOISChecker struct {
	client *whois.Client
	logger *logger.Logger
}

// NewWHOISChecker creates a new WHOIS domain checker. The whois client
// has no context support, so the per-source timeout is set on the client
// itself.
func NewWHOISChecker(timeout time.Duration, log *logger.Logger) *WHOISChecker {
	if timeout == 0 {
		timeout = 3 * time.Second
	}
	client := whois.NewClient()
	client.SetTimeout(timeout)
	return &WHOISChecker{
		client: client,
		logger: log.WithComponent("whois"),
	}
}

// Source returns the source identifier
func (c *WHOISChecker) Source() models.ThreatSource {
	return models.SourceWHOIS
}

// CheckDomain looks up a domain's registration record and scores its age
func (c *WHOISChecker) CheckDomain(ctx context.Context, domain string) models.ThreatCheckResult {
	start := time.Now()
	result := models.ThreatCheckResult{Source: models.SourceWHOIS}

	type whoisOutcome struct {
		raw string
		err error
	}
	ch := make(chan whoisOutcome, 1)
	go func() {
		raw, err := c.client.Whois(domain)
		ch <- whoisOutcome{raw: raw, err: err}
	}()

	var raw string
	select {
	case <-ctx.Done():
		result.Err = ctx.Err().Error()
		result.ResponseTimeMS = time.Since(start).Milliseconds()
		return result
	case out := <-ch:
		if out.err != nil {
			result.Err = out.err.Error()
			c.logger.Warn().Err(out.err).Str("domain", domain).Msg("whois lookup failed")
			result.ResponseTimeMS = time.Since(start).Milliseconds()
			return result
		}
		raw = out.raw
	}

	parsed, err := whoisparser.Parse(raw)
	if err != nil {
		result.Err = err.Error()
		result.ResponseTimeMS = time.Since(start).Milliseconds()
		return result
	}

	if parsed.Domain == nil || parsed.Domain.CreatedDateInTime == nil {
		result.Details = map[string]any{
			"summary": fmt.Sprintf("WHOIS record for %s has no creation date", domain),
		}
		result.ResponseTimeMS = time.Since(start).Milliseconds()
		return result
	}

	created := *parsed.Domain.CreatedDateInTime
	ageDays := int(time.Since(created).Hours() / 24)

	switch {
	case ageDays < whoisVeryNewDays:
		result.IsThreat = true
		result.ThreatType = "new_domain"
		result.Confidence = 0.6
		result.Details = map[string]any{
			"summary":  fmt.Sprintf("Domain %s registered only %d day(s) ago", domain, ageDays),
			"age_days": ageDays,
		}
	case ageDays < whoisNewDays:
		result.IsThreat = true
		result.ThreatType = "new_domain"
		result.Confidence = 0.3
		result.Details = map[string]any{
			"summary":  fmt.Sprintf("Domain %s registered %d days ago", domain, ageDays),
			"age_days": ageDays,
		}
	default:
		result.Details = map[string]any{
			"summary":  fmt.Sprintf("Domain %s registered %d days ago", domain, ageDays),
			"age_days": ageDays,
		}
	}

	result.ResponseTimeMS = time.Since(start).Milliseconds()
	return result
}
