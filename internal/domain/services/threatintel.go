package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"scamscan/internal/config"
	"scamscan/internal/domain/models"
	"scamscan/internal/infrastructure/cache"
	"scamscan/internal/sources"
	"scamscan/pkg/logger"
	"scamscan/pkg/urlutil"
)

// ThreatIntelService fans a scan's URLs out to every configured
// reputation source and collects whatever answers arrive within the
// aggregate deadline. A source that errors or times out contributes
// nothing; its result is dropped, not surfaced as a scan failure.
type ThreatIntelService struct {
	urlCheckers      []sources.URLChecker
	domainCheckers   []sources.DomainChecker
	cache            *cache.RedisCache
	aggregateTimeout time.Duration
	perSourceTimeout time.Duration
	cacheTTL         time.Duration
	logger           *logger.Logger
}

// NewThreatIntelService creates the aggregator. cache may be nil to
// disable result caching.
func NewThreatIntelService(urlCheckers []sources.URLChecker, domainCheckers []sources.DomainChecker, c *cache.RedisCache, cfg config.ThreatIntelConfig, log *logger.Logger) *ThreatIntelService {
	aggregate := cfg.AggregateTimeout
	if aggregate == 0 {
		aggregate = 5 * time.Second
	}
	perSource := cfg.PerSourceTimeout
	if perSource == 0 {
		perSource = 3 * time.Second
	}
	return &ThreatIntelService{
		urlCheckers:      urlCheckers,
		domainCheckers:   domainCheckers,
		cache:            c,
		aggregateTimeout: aggregate,
		perSourceTimeout: perSource,
		cacheTTL:         cfg.CacheTTL,
		logger:           log.WithComponent("threat_intel"),
	}
}

type checkJob struct {
	run    func(ctx context.Context) models.ThreatCheckResult
	source models.ThreatSource
	target string
}

// CheckURLs runs every registered checker against every URL (and each
// URL's registrable domain) concurrently. Returns only the checks that
// completed successfully before the aggregate deadline.
func (s *ThreatIntelService) CheckURLs(ctx context.Context, urls []string) []models.ThreatCheckResult {
	if len(urls) == 0 {
		return nil
	}

	jobs := s.buildJobs(urls)
	if len(jobs) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.aggregateTimeout)
	defer cancel()

	resultCh := make(chan models.ThreatCheckResult, len(jobs))
	for _, job := range jobs {
		go func(job checkJob) {
			resultCh <- s.runJob(ctx, job)
		}(job)
	}

	results := make([]models.ThreatCheckResult, 0, len(jobs))
	for range jobs {
		select {
		case <-ctx.Done():
			s.logger.Warn().
				Int("collected", len(results)).
				Int("expected", len(jobs)).
				Msg("aggregate deadline reached before all sources answered")
			return results
		case r := <-resultCh:
			if r.Err != "" {
				s.logger.Debug().
					Str("source", string(r.Source)).
					Str("error", r.Err).
					Msg("discarding errored threat check")
				continue
			}
			results = append(results, r)
		}
	}

	return results
}

func (s *ThreatIntelService) buildJobs(urls []string) []checkJob {
	var jobs []checkJob

	for _, u := range urls {
		u := u
		for _, checker := range s.urlCheckers {
			checker := checker
			jobs = append(jobs, checkJob{
				source: checker.Source(),
				target: u,
				run: func(ctx context.Context) models.ThreatCheckResult {
					return checker.CheckURL(ctx, u)
				},
			})
		}
	}

	if len(s.domainCheckers) > 0 {
		for _, d := range registrableDomains(urls) {
			d := d
			for _, checker := range s.domainCheckers {
				checker := checker
				jobs = append(jobs, checkJob{
					source: checker.Source(),
					target: d,
					run: func(ctx context.Context) models.ThreatCheckResult {
						return checker.CheckDomain(ctx, d)
					},
				})
			}
		}
	}

	return jobs
}

// runJob executes one check under the per-source timeout, consulting the
// cache first and storing successful results back.
func (s *ThreatIntelService) runJob(ctx context.Context, job checkJob) models.ThreatCheckResult {
	cacheKey := threatCacheKey(job.source, job.target)

	if s.cache != nil {
		var cached models.ThreatCheckResult
		if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			return cached
		}
	}

	checkCtx, cancel := context.WithTimeout(ctx, s.perSourceTimeout)
	defer cancel()

	result := job.run(checkCtx)

	if s.cache != nil && result.Err == "" {
		if err := s.cache.SetJSON(ctx, cacheKey, result, s.cacheTTL); err != nil {
			s.logger.Debug().Err(err).Str("source", string(job.source)).Msg("failed to cache threat check")
		}
	}

	return result
}

// registrableDomains maps URLs to their deduplicated eTLD+1 domains
func registrableDomains(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	var domains []string
	for _, u := range urls {
		d := urlutil.RegistrableDomain(u)
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		domains = append(domains, d)
	}
	return domains
}

func threatCacheKey(source models.ThreatSource, target string) string {
	sum := sha256.Sum256([]byte(target))
	return fmt.Sprintf("%s%s:%s", cache.KeyThreatCheckPrefix, source, hex.EncodeToString(sum[:16]))
}
