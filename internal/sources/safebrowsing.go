package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"scamscan/internal/config"
	"scamscan/internal/domain/models"
	"scamscan/pkg/logger"
)

const defaultSafeBrowsingURL = "https://safebrowsing.googleapis.com/v4/threatMatches:find"

// SafeBrowsingChecker checks URLs against Google Safe Browsing API v4
type SafeBrowsingChecker struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewSafeBrowsingChecker creates a new Safe Browsing checker
func NewSafeBrowsingChecker(cfg config.SourceConfig, timeout time.Duration, log *logger.Logger) *SafeBrowsingChecker {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultSafeBrowsingURL
	}
	return &SafeBrowsingChecker{
		apiKey:     cfg.APIKey,
		apiURL:     apiURL,
		httpClient: newHTTPClient(timeout),
		logger:     log.WithComponent("safebrowsing"),
	}
}

// Source returns the source identifier
func (c *SafeBrowsingChecker) Source() models.ThreatSource {
	return models.SourceGoogleSafeBrowsing
}

type safeBrowsingRequest struct {
	Client struct {
		ClientID      string `json:"clientId"`
		ClientVersion string `json:"clientVersion"`
	} `json:"client"`
	ThreatInfo struct {
		ThreatTypes      []string         `json:"threatTypes"`
		PlatformTypes    []string         `json:"platformTypes"`
		ThreatEntryTypes []string         `json:"threatEntryTypes"`
		ThreatEntries    []map[string]any `json:"threatEntries"`
	} `json:"threatInfo"`
}

type safeBrowsingResponse struct {
	Matches []struct {
		ThreatType string `json:"threatType"`
	} `json:"matches"`
}

// CheckURL checks a single URL
func (c *SafeBrowsingChecker) CheckURL(ctx context.Context, url string) models.ThreatCheckResult {
	start := time.Now()
	result := models.ThreatCheckResult{Source: models.SourceGoogleSafeBrowsing}

	if c.apiKey == "" {
		result.Details = map[string]any{"summary": "Google Safe Browsing not configured"}
		return result
	}

	var reqBody safeBrowsingRequest
	reqBody.Client.ClientID = "scamscan"
	reqBody.Client.ClientVersion = "0.1.0"
	reqBody.ThreatInfo.ThreatTypes = []string{
		"MALWARE",
		"SOCIAL_ENGINEERING",
		"UNWANTED_SOFTWARE",
		"POTENTIALLY_HARMFUL_APPLICATION",
	}
	reqBody.ThreatInfo.PlatformTypes = []string{"ANY_PLATFORM"}
	reqBody.ThreatInfo.ThreatEntryTypes = []string{"URL"}
	reqBody.ThreatInfo.ThreatEntries = []map[string]any{{"url": url}}

	var data safeBrowsingResponse
	if err := c.postJSON(ctx, c.apiURL+"?key="+c.apiKey, reqBody, &data); err != nil {
		result.Err = err.Error()
		c.logger.Warn().Err(err).Str("url", truncate(url, 50)).Msg("safe browsing check failed")
		result.ResponseTimeMS = time.Since(start).Milliseconds()
		return result
	}

	if len(data.Matches) > 0 {
		threatType := data.Matches[0].ThreatType
		if threatType == "" {
			threatType = "unknown"
		}
		result.IsThreat = true
		result.ThreatType = threatType
		result.Confidence = 0.95
		result.Details = map[string]any{
			"summary":     fmt.Sprintf("URL flagged as %s by Google Safe Browsing", threatType),
			"threat_type": threatType,
		}
	} else {
		result.Details = map[string]any{"summary": "URL not found in Google Safe Browsing database"}
	}

	result.ResponseTimeMS = time.Since(start).Milliseconds()
	return result
}

func (c *SafeBrowsingChecker) postJSON(ctx context.Context, url string, body any, dest any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("safe browsing API returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
