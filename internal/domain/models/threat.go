package models

import "fmt"

// ThreatSource identifies a threat-intelligence provider
type ThreatSource string

const (
	SourceGoogleSafeBrowsing ThreatSource = "google_safe_browsing"
	SourcePhishTank          ThreatSource = "phishtank"
	SourceURLhaus            ThreatSource = "urlhaus"
	SourceWHOIS              ThreatSource = "whois"
)

// ThreatCheckResult is the outcome of a single source check against one
// URL or domain. Err is internal-only; it marks the result as discarded
// and is never surfaced to callers as a failure.
type ThreatCheckResult struct {
	Source         ThreatSource   `json:"source"`
	IsThreat       bool           `json:"is_threat"`
	ThreatType     string         `json:"threat_type,omitempty"`
	Confidence     float64        `json:"confidence"`
	Details        map[string]any `json:"details,omitempty"`
	ResponseTimeMS int64          `json:"response_time_ms"`
	Err            string         `json:"-"`
}

// Summary returns the human-readable detail for this result
func (r ThreatCheckResult) Summary() string {
	if s, ok := r.Details["summary"].(string); ok && s != "" {
		return s
	}
	return fmt.Sprintf("Checked via %s", r.Source)
}

// EvidenceItem is one caller-visible evidence entry in a classification
type EvidenceItem struct {
	Source     string  `json:"source"`
	Detail     string  `json:"detail"`
	IsThreat   bool    `json:"is_threat"`
	Confidence float64 `json:"confidence,omitempty"`
}

// ResultsToEvidence converts threat check results to evidence items,
// skipping errored checks.
func ResultsToEvidence(results []ThreatCheckResult) []EvidenceItem {
	evidence := make([]EvidenceItem, 0, len(results))
	for _, r := range results {
		if r.Err != "" {
			continue
		}
		evidence = append(evidence, EvidenceItem{
			Source:     string(r.Source),
			Detail:     r.Summary(),
			IsThreat:   r.IsThreat,
			Confidence: r.Confidence,
		})
	}
	return evidence
}

// Classification is the risk verdict produced by the classifier
type Classification struct {
	RiskScore   int            `json:"risk_score"`
	RiskLevel   RiskLevel      `json:"risk_level"`
	ScamType    ScamType       `json:"scam_type"`
	Explanation string         `json:"explanation"`
	Evidence    []EvidenceItem `json:"evidence"`
	ModelUsed   string         `json:"model_used"`
}
