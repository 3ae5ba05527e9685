package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	CORS        CORSConfig        `mapstructure:"cors"`
	RateLimit   RateLimitConfig   `mapstructure:"ratelimit"`
	Logger      LoggerConfig      `mapstructure:"logger"`
	Anthropic   AnthropicConfig   `mapstructure:"anthropic"`
	OCR         OCRConfig         `mapstructure:"ocr"`
	ThreatIntel ThreatIntelConfig `mapstructure:"threat_intel"`
	Scan        ScanConfig        `mapstructure:"scan"`
	Cards       CardsConfig       `mapstructure:"cards"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	Migrate         bool          `mapstructure:"migrate"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

// AnthropicConfig holds Claude API configuration. An empty API key disables
// the LLM path entirely; classification falls back to rule-based scoring.
type AnthropicConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	APIURL    string        `mapstructure:"api_url"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type OCRConfig struct {
	GoogleVisionAPIKey string        `mapstructure:"google_vision_api_key"`
	APIURL             string        `mapstructure:"api_url"`
	Timeout            time.Duration `mapstructure:"timeout"`
}

type ThreatIntelConfig struct {
	AggregateTimeout time.Duration `mapstructure:"aggregate_timeout"`
	PerSourceTimeout time.Duration `mapstructure:"per_source_timeout"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
	SafeBrowsing     SourceConfig  `mapstructure:"safebrowsing"`
	PhishTank        SourceConfig  `mapstructure:"phishtank"`
	URLhaus          SourceConfig  `mapstructure:"urlhaus"`
	WHOIS            SourceConfig  `mapstructure:"whois"`
}

type SourceConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
	APIURL  string `mapstructure:"api_url"`
}

type ScanConfig struct {
	MaxTextLength       int           `mapstructure:"max_text_length"`
	MaxImageBytes       int64         `mapstructure:"max_image_bytes"`
	RawContentRetention time.Duration `mapstructure:"raw_content_retention"`
}

type CardsConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/scamscan")
	}

	setDefaults(v)

	// Environment variables
	v.SetEnvPrefix("SCAMSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("database.host", "SCAMSCAN_DATABASE_HOST")
	v.BindEnv("database.port", "SCAMSCAN_DATABASE_PORT")
	v.BindEnv("database.user", "SCAMSCAN_DATABASE_USER")
	v.BindEnv("database.password", "SCAMSCAN_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "SCAMSCAN_DATABASE_DBNAME")
	v.BindEnv("database.sslmode", "SCAMSCAN_DATABASE_SSLMODE")
	v.BindEnv("redis.host", "SCAMSCAN_REDIS_HOST")
	v.BindEnv("redis.port", "SCAMSCAN_REDIS_PORT")
	v.BindEnv("redis.password", "SCAMSCAN_REDIS_PASSWORD")
	v.BindEnv("anthropic.api_key", "SCAMSCAN_ANTHROPIC_API_KEY")
	v.BindEnv("ocr.google_vision_api_key", "SCAMSCAN_OCR_GOOGLE_VISION_API_KEY")
	v.BindEnv("threat_intel.safebrowsing.api_key", "SCAMSCAN_THREAT_INTEL_SAFEBROWSING_API_KEY")
	v.BindEnv("threat_intel.phishtank.api_key", "SCAMSCAN_THREAT_INTEL_PHISHTANK_API_KEY")
	v.BindEnv("app.environment", "SCAMSCAN_APP_ENVIRONMENT")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "scamscan")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "0.1.0")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "scamscan")
	v.SetDefault("database.password", "scamscan")
	v.SetDefault("database.dbname", "scamscan")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.migrate", true)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.key_prefix", "scamscan:")

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Content-Type", "X-API-Key"})
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requests_per_minute", 30)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")

	v.SetDefault("anthropic.api_url", "https://api.anthropic.com/v1/messages")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("anthropic.timeout", 30*time.Second)

	v.SetDefault("ocr.api_url", "https://vision.googleapis.com/v1/images:annotate")
	v.SetDefault("ocr.timeout", 10*time.Second)

	v.SetDefault("threat_intel.aggregate_timeout", 5*time.Second)
	v.SetDefault("threat_intel.per_source_timeout", 3*time.Second)
	v.SetDefault("threat_intel.cache_ttl", 15*time.Minute)
	v.SetDefault("threat_intel.safebrowsing.enabled", true)
	v.SetDefault("threat_intel.phishtank.enabled", true)
	v.SetDefault("threat_intel.urlhaus.enabled", true)
	v.SetDefault("threat_intel.whois.enabled", true)

	v.SetDefault("scan.max_text_length", 10000)
	v.SetDefault("scan.max_image_bytes", int64(10*1024*1024))
	v.SetDefault("scan.raw_content_retention", time.Hour)

	v.SetDefault("cards.base_url", "http://localhost:8080")
}
