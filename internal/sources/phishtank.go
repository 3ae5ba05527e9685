package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"scamscan/internal/config"
	"scamscan/internal/domain/models"
	"scamscan/pkg/logger"
)

const defaultPhishTankURL = "https://checkurl.phishtank.com/checkurl/"

// PhishTankChecker checks URLs against the PhishTank phishing database
type PhishTankChecker struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewPhishTankChecker creates a new PhishTank checker
func NewPhishTankChecker(cfg config.SourceConfig, timeout time.Duration, log *logger.Logger) *PhishTankChecker {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultPhishTankURL
	}
	return &PhishTankChecker{
		apiKey:     cfg.APIKey,
		apiURL:     apiURL,
		httpClient: newHTTPClient(timeout),
		logger:     log.WithComponent("phishtank"),
	}
}

// Source returns the source identifier
func (c *PhishTankChecker) Source() models.ThreatSource {
	return models.SourcePhishTank
}

type phishTankResponse struct {
	Results struct {
		InDatabase bool   `json:"in_database"`
		Valid      bool   `json:"valid"`
		Verified   bool   `json:"verified"`
		PhishID    int64  `json:"phish_id"`
		URL        string `json:"url"`
	} `json:"results"`
}

// CheckURL checks a single URL
func (c *PhishTankChecker) CheckURL(ctx context.Context, checkURL string) models.ThreatCheckResult {
	start := time.Now()
	result := models.ThreatCheckResult{Source: models.SourcePhishTank}

	if c.apiKey == "" {
		result.Details = map[string]any{"summary": "PhishTank not configured"}
		return result
	}

	form := url.Values{
		"url":     {checkURL},
		"format":  {"json"},
		"app_key": {c.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		result.Err = err.Error()
		return result
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		result.Err = err.Error()
		c.logger.Warn().Err(err).Str("url", truncate(checkURL, 50)).Msg("phishtank check failed")
		result.ResponseTimeMS = time.Since(start).Milliseconds()
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		result.Err = fmt.Sprintf("phishtank API returned status %d", resp.StatusCode)
		result.ResponseTimeMS = time.Since(start).Milliseconds()
		return result
	}

	var data phishTankResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		result.Err = err.Error()
		result.ResponseTimeMS = time.Since(start).Milliseconds()
		return result
	}

	if data.Results.InDatabase && data.Results.Valid {
		result.IsThreat = true
		result.ThreatType = "phishing"
		if data.Results.Verified {
			result.Confidence = 0.95
		} else {
			result.Confidence = 0.7
		}
		result.Details = map[string]any{
			"summary":  "URL found in PhishTank phishing database",
			"verified": data.Results.Verified,
			"phish_id": data.Results.PhishID,
		}
	} else {
		result.Details = map[string]any{"summary": "URL not found in PhishTank database"}
	}

	result.ResponseTimeMS = time.Since(start).Milliseconds()
	return result
}
