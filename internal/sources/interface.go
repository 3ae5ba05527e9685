// Package sources implements the pluggable threat-intelligence source
// checkers. Each checker reports its outcome in a ThreatCheckResult;
// transport and provider errors are recorded on the result, never
// returned, so one broken source can never fail a scan.
package sources

import (
	"context"
	"net/http"
	"time"

	"scamscan/internal/config"
	"scamscan/internal/domain/models"
	"scamscan/pkg/logger"
)

// URLChecker checks a single URL against one reputation source
type URLChecker interface {
	Source() models.ThreatSource
	CheckURL(ctx context.Context, url string) models.ThreatCheckResult
}

// DomainChecker checks a single registrable domain against one source
type DomainChecker interface {
	Source() models.ThreatSource
	CheckDomain(ctx context.Context, domain string) models.ThreatCheckResult
}

// newHTTPClient builds the shared per-source HTTP client. The per-source
// timeout also bounds each request; the caller's context enforces the
// aggregate deadline on top.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = 3 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// Registry holds the configured checkers for the aggregator to fan out to
type Registry struct {
	urlCheckers    []URLChecker
	domainCheckers []DomainChecker
}

// NewRegistry builds all enabled source checkers from configuration.
// Enabled sources without credentials are still registered; they answer
// "not configured" without a network call.
func NewRegistry(cfg config.ThreatIntelConfig, log *logger.Logger) *Registry {
	r := &Registry{}

	if cfg.SafeBrowsing.Enabled {
		r.urlCheckers = append(r.urlCheckers, NewSafeBrowsingChecker(cfg.SafeBrowsing, cfg.PerSourceTimeout, log))
	}
	if cfg.PhishTank.Enabled {
		r.urlCheckers = append(r.urlCheckers, NewPhishTankChecker(cfg.PhishTank, cfg.PerSourceTimeout, log))
	}
	if cfg.URLhaus.Enabled {
		r.urlCheckers = append(r.urlCheckers, NewURLhausChecker(cfg.URLhaus, cfg.PerSourceTimeout, log))
	}
	if cfg.WHOIS.Enabled {
		r.domainCheckers = append(r.domainCheckers, NewWHOISChecker(cfg.PerSourceTimeout, log))
	}

	return r
}

// URLCheckers returns the registered per-URL checkers
func (r *Registry) URLCheckers() []URLChecker {
	return r.urlCheckers
}

// DomainCheckers returns the registered per-domain checkers
func (r *Registry) DomainCheckers() []DomainChecker {
	return r.domainCheckers
}
