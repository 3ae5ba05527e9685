package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scamscan/internal/config"
	"scamscan/internal/domain/models"
	"scamscan/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

func TestSafeBrowsingFlagsMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		w.Write([]byte(`{"matches":[{"threatType":"SOCIAL_ENGINEERING"}]}`))
	}))
	defer srv.Close()

	c := NewSafeBrowsingChecker(config.SourceConfig{APIKey: "secret", APIURL: srv.URL}, time.Second, testLogger())
	result := c.CheckURL(context.Background(), "http://evil.example.com/login")

	assert.Empty(t, result.Err)
	assert.True(t, result.IsThreat)
	assert.Equal(t, "SOCIAL_ENGINEERING", result.ThreatType)
	assert.Equal(t, 0.95, result.Confidence)
}

func TestSafeBrowsingCleanURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewSafeBrowsingChecker(config.SourceConfig{APIKey: "secret", APIURL: srv.URL}, time.Second, testLogger())
	result := c.CheckURL(context.Background(), "http://example.com")

	assert.Empty(t, result.Err)
	assert.False(t, result.IsThreat)
	assert.Equal(t, "URL not found in Google Safe Browsing database", result.Summary())
}

func TestSafeBrowsingNotConfigured(t *testing.T) {
	c := NewSafeBrowsingChecker(config.SourceConfig{}, time.Second, testLogger())
	result := c.CheckURL(context.Background(), "http://example.com")

	// no key means no network call and no error, just a no-finding result
	assert.Empty(t, result.Err)
	assert.False(t, result.IsThreat)
	assert.Equal(t, "Google Safe Browsing not configured", result.Summary())
}

func TestSafeBrowsingServerErrorIsRecorded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewSafeBrowsingChecker(config.SourceConfig{APIKey: "secret", APIURL: srv.URL}, time.Second, testLogger())
	result := c.CheckURL(context.Background(), "http://example.com")

	assert.NotEmpty(t, result.Err)
	assert.False(t, result.IsThreat)
}

func TestPhishTankVerifiedPhish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "http://phish.example.com", r.PostForm.Get("url"))
		assert.Equal(t, "json", r.PostForm.Get("format"))
		assert.Equal(t, "app-key", r.PostForm.Get("app_key"))
		w.Write([]byte(`{"results":{"in_database":true,"valid":true,"verified":true,"phish_id":12345}}`))
	}))
	defer srv.Close()

	c := NewPhishTankChecker(config.SourceConfig{APIKey: "app-key", APIURL: srv.URL}, time.Second, testLogger())
	result := c.CheckURL(context.Background(), "http://phish.example.com")

	assert.Empty(t, result.Err)
	assert.True(t, result.IsThreat)
	assert.Equal(t, "phishing", result.ThreatType)
	assert.Equal(t, 0.95, result.Confidence)
}

func TestPhishTankUnverifiedPhishLowerConfidence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":{"in_database":true,"valid":true,"verified":false,"phish_id":9}}`))
	}))
	defer srv.Close()

	c := NewPhishTankChecker(config.SourceConfig{APIKey: "app-key", APIURL: srv.URL}, time.Second, testLogger())
	result := c.CheckURL(context.Background(), "http://phish.example.com")

	assert.True(t, result.IsThreat)
	assert.Equal(t, 0.7, result.Confidence)
}

func TestPhishTankInvalidEntryIsClean(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":{"in_database":true,"valid":false}}`))
	}))
	defer srv.Close()

	c := NewPhishTankChecker(config.SourceConfig{APIKey: "app-key", APIURL: srv.URL}, time.Second, testLogger())
	result := c.CheckURL(context.Background(), "http://example.com")

	assert.Empty(t, result.Err)
	assert.False(t, result.IsThreat)
}

func TestURLhausListedURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "http://malware.example.com/payload.exe", r.PostForm.Get("url"))
		w.Write([]byte(`{"query_status":"listed","threat":"malware_download","url_status":"online","tags":["exe"]}`))
	}))
	defer srv.Close()

	c := NewURLhausChecker(config.SourceConfig{APIURL: srv.URL}, time.Second, testLogger())
	result := c.CheckURL(context.Background(), "http://malware.example.com/payload.exe")

	assert.Empty(t, result.Err)
	assert.True(t, result.IsThreat)
	assert.Equal(t, "malware_download", result.ThreatType)
	assert.Equal(t, 0.9, result.Confidence)
}

func TestURLhausNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query_status":"no_results"}`))
	}))
	defer srv.Close()

	c := NewURLhausChecker(config.SourceConfig{APIURL: srv.URL}, time.Second, testLogger())
	result := c.CheckURL(context.Background(), "http://example.com")

	assert.Empty(t, result.Err)
	assert.False(t, result.IsThreat)
}

func TestWHOISCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewWHOISChecker(time.Second, testLogger())
	result := c.CheckDomain(ctx, "example.com")

	assert.NotEmpty(t, result.Err)
	assert.False(t, result.IsThreat)
}

func TestRegistryRegistersAllURLSources(t *testing.T) {
	r := NewRegistry(config.ThreatIntelConfig{
		SafeBrowsing: config.SourceConfig{Enabled: true},
		PhishTank:    config.SourceConfig{Enabled: true},
		URLhaus:      config.SourceConfig{Enabled: true},
		WHOIS:        config.SourceConfig{Enabled: true},
	}, testLogger())

	var got []models.ThreatSource
	for _, c := range r.URLCheckers() {
		got = append(got, c.Source())
	}
	assert.ElementsMatch(t, []models.ThreatSource{
		models.SourceGoogleSafeBrowsing,
		models.SourcePhishTank,
		models.SourceURLhaus,
	}, got)

	require.Len(t, r.DomainCheckers(), 1)
	assert.Equal(t, models.SourceWHOIS, r.DomainCheckers()[0].Source())
}

func TestRegistrySkipsDisabledSources(t *testing.T) {
	r := NewRegistry(config.ThreatIntelConfig{
		SafeBrowsing: config.SourceConfig{Enabled: true},
		URLhaus:      config.SourceConfig{Enabled: false},
		PhishTank:    config.SourceConfig{Enabled: false},
	}, testLogger())

	require.Len(t, r.URLCheckers(), 1)
	assert.Equal(t, models.SourceGoogleSafeBrowsing, r.URLCheckers()[0].Source())
	assert.Empty(t, r.DomainCheckers())
}
