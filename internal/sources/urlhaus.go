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

const defaultURLhausURL = "https://urlhaus-api.abuse.ch/v1/url/"

// URLhausChecker checks URLs against the abuse.ch URLhaus malware URL feed.
// URLhaus requires no API key.
type URLhausChecker struct {
	apiURL     string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewURLhausChecker creates a new URLhaus checker
func NewURLhausChecker(cfg config.SourceConfig, timeout time.Duration, log *logger.Logger) *URLhausChecker {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultURLhausURL
	}
	return &URLhausChecker{
		apiURL:     apiURL,
		httpClient: newHTTPClient(timeout),
		logger:     log.WithComponent("urlhaus"),
	}
}

// Source returns the source identifier
func (c *URLhausChecker) Source() models.ThreatSource {
	return models.SourceURLhaus
}

type urlhausResponse struct {
	QueryStatus string   `json:"query_status"`
	Threat      string   `json:"threat"`
	URLStatus   string   `json:"url_status"`
	Tags        []string `json:"tags"`
}

// CheckURL checks a single URL
func (c *URLhausChecker) CheckURL(ctx context.Context, checkURL string) models.ThreatCheckResult {
	start := time.Now()
	result := models.ThreatCheckResult{Source: models.SourceURLhaus}

	form := url.Values{"url": {checkURL}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		result.Err = err.Error()
		return result
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		result.Err = err.Error()
		c.logger.Warn().Err(err).Str("url", truncate(checkURL, 50)).Msg("urlhaus check failed")
		result.ResponseTimeMS = time.Since(start).Milliseconds()
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		result.Err = fmt.Sprintf("urlhaus API returned status %d", resp.StatusCode)
		result.ResponseTimeMS = time.Since(start).Milliseconds()
		return result
	}

	var data urlhausResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		result.Err = err.Error()
		result.ResponseTimeMS = time.Since(start).Milliseconds()
		return result
	}

	if data.QueryStatus == "listed" {
		threatType := data.Threat
		if threatType == "" {
			threatType = "malware_distribution"
		}
		result.IsThreat = true
		result.ThreatType = threatType
		result.Confidence = 0.9
		result.Details = map[string]any{
			"summary":    fmt.Sprintf("URL listed in URLhaus as %s", threatType),
			"url_status": data.URLStatus,
			"tags":       data.Tags,
		}
	} else {
		result.Details = map[string]any{"summary": "URL not found in URLhaus database"}
	}

	result.ResponseTimeMS = time.Since(start).Milliseconds()
	return result
}
