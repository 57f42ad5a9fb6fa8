package config

import (
	"time"
)

// Default configuration values.
const (
	defaultServiceName      = "insights"
	defaultServiceVersion   = "1.0.0"
	defaultServicePort      = 8090
	defaultConcurrency      = 10
	defaultDBDriver         = "postgres"
	defaultDBHost           = "localhost"
	defaultDBPort           = 5432
	defaultDBUser           = "postgres"
	defaultDBName           = "insights"
	defaultDBSSLMode        = "disable"
	defaultDBMaxConns       = 25
	defaultDBMaxIdleConns   = 5
	defaultRedisTimeoutSec  = 5
	defaultCacheTTL         = 7 * 24 * time.Hour
	defaultLogLevel         = "info"
	defaultLogFormat        = "json"
	defaultEvidenceLimit    = 3
	defaultNegationWindow   = 1
	defaultSentimentTimeout = 5 * time.Second
	defaultBatchSize        = 20
	defaultRetryLimit       = 3
	defaultPollInterval     = 5 * time.Minute
	defaultCallTimeout      = 30 * time.Second
	defaultRateLimit        = 2.0
	defaultRateBurst        = 4
	defaultClaudeModel      = "claude-sonnet-4-5"
	defaultClaudeMaxTokens  = 1024
	defaultESURL            = "http://localhost:9200"
	defaultESIndex          = "review_insights"
	defaultESMaxRetries     = 3
	defaultESTimeoutSec     = 30
)

// Config holds all configuration for the insights service.
type Config struct {
	Service       ServiceConfig       `yaml:"service"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Logging       LoggingConfig       `yaml:"logging"`
	Analysis      AnalysisConfig      `yaml:"analysis"`
	Enrichment    EnrichmentConfig    `yaml:"enrichment"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Port        int    `env:"INSIGHTS_PORT"        yaml:"port"`
	Debug       bool   `env:"APP_DEBUG"            yaml:"debug"`
	Concurrency int    `env:"INSIGHTS_CONCURRENCY" yaml:"concurrency"`
}

// DatabaseConfig holds review store configuration.
// Driver selects the sqlx backend: "postgres" or "sqlite3".
type DatabaseConfig struct {
	Driver          string        `env:"DB_DRIVER"         yaml:"driver"`
	Host            string        `env:"POSTGRES_HOST"     yaml:"host"`
	Port            int           `env:"POSTGRES_PORT"     yaml:"port"`
	User            string        `env:"POSTGRES_USER"     yaml:"user"`
	Password        string        `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database        string        `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode         string        `env:"POSTGRES_SSLMODE"  yaml:"sslmode"`
	Path            string        `env:"SQLITE_PATH"       yaml:"path"`
	MaxConnections  int           `yaml:"max_connections"`
	MaxIdleConns    int           `yaml:"max_idle_connections"`
	ConnMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
}

// RedisConfig holds result cache configuration.
// An empty address disables Redis; the in-memory cache is used instead.
type RedisConfig struct {
	Address  string        `env:"REDIS_ADDRESS"  yaml:"address"`
	Password string        `env:"REDIS_PASSWORD" yaml:"password"`
	Database int           `yaml:"database"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// ElasticsearchConfig holds the optional search index sink configuration.
// Disabled unless Enabled is set; the pipeline runs fine without it.
type ElasticsearchConfig struct {
	Enabled    bool          `env:"ELASTICSEARCH_ENABLED" yaml:"enabled"`
	URL        string        `env:"ELASTICSEARCH_URL"     yaml:"url"`
	Username   string        `yaml:"username"`
	Password   string        `yaml:"password"`
	Index      string        `yaml:"index"`
	MaxRetries int           `yaml:"max_retries"`
	Timeout    time.Duration `yaml:"timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
	Output string `yaml:"output"`
}

// AnalysisConfig holds local analyzer settings.
type AnalysisConfig struct {
	// EvidenceLimit caps evidence tokens per tag.
	EvidenceLimit int `yaml:"evidence_limit"`
	// NegationWindow is how many tokens back a negation marker is searched for.
	NegationWindow int `yaml:"negation_window"`
	// SentimentServiceURL points at the holistic classifier sidecar.
	// Empty leaves the chain with the lexical scorer and the neutral floor.
	SentimentServiceURL string        `env:"SENTIMENT_SERVICE_URL" yaml:"sentiment_service_url"`
	SentimentTimeout    time.Duration `yaml:"sentiment_timeout"`
}

// EnrichmentConfig holds the remote enrichment pipeline settings.
type EnrichmentConfig struct {
	// Enabled is the kill switch. Off means every poll is a no-op.
	Enabled      bool            `env:"ENRICHMENT_ENABLED"       yaml:"enabled"`
	BatchSize    int             `env:"ENRICHMENT_BATCH_SIZE"    yaml:"batch_size"`
	RetryLimit   int             `env:"ENRICHMENT_RETRY_LIMIT"   yaml:"retry_limit"`
	PollInterval time.Duration   `env:"ENRICHMENT_POLL_INTERVAL" yaml:"poll_interval"`
	CallTimeout  time.Duration   `env:"ENRICHMENT_CALL_TIMEOUT"  yaml:"call_timeout"`
	RateLimit    float64         `yaml:"rate_limit"`
	RateBurst    int             `yaml:"rate_burst"`
	Annotator    AnnotatorConfig `yaml:"annotator"`
}

// AnnotatorConfig selects and configures the remote annotation backend.
type AnnotatorConfig struct {
	// Provider is "claude" or "http". Empty picks the first configured one.
	Provider string `env:"ANNOTATOR_PROVIDER" yaml:"provider"`
	// Claude settings. The API key comes from the standard SDK env var.
	ClaudeAPIKey    string `env:"ANTHROPIC_API_KEY" yaml:"claude_api_key"`
	ClaudeModel     string `yaml:"claude_model"`
	ClaudeMaxTokens int    `yaml:"claude_max_tokens"`
	// HTTP annotation sidecar.
	ServiceURL string `env:"ANNOTATOR_SERVICE_URL" yaml:"service_url"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return LoadFileWithDefaults[Config](path, SetDefaults)
}

// SetDefaults applies default values to the config.
func SetDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setRedisDefaults(&cfg.Redis)
	setElasticsearchDefaults(&cfg.Elasticsearch)
	setLoggingDefaults(&cfg.Logging)
	setAnalysisDefaults(&cfg.Analysis)
	setEnrichmentDefaults(&cfg.Enrichment)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.Concurrency == 0 {
		s.Concurrency = defaultConcurrency
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Driver == "" {
		d.Driver = defaultDBDriver
	}
	if d.Host == "" {
		d.Host = defaultDBHost
	}
	if d.Port == 0 {
		d.Port = defaultDBPort
	}
	if d.User == "" {
		d.User = defaultDBUser
	}
	if d.Database == "" {
		d.Database = defaultDBName
	}
	if d.SSLMode == "" {
		d.SSLMode = defaultDBSSLMode
	}
	if d.MaxConnections == 0 {
		d.MaxConnections = defaultDBMaxConns
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = defaultDBMaxIdleConns
	}
	if d.ConnMaxLifetime == 0 {
		d.ConnMaxLifetime = time.Hour
	}
}

// An empty redis address stays empty: it selects the in-memory cache.
func setRedisDefaults(r *RedisConfig) {
	if r.Timeout == 0 {
		r.Timeout = defaultRedisTimeoutSec * time.Second
	}
	if r.CacheTTL == 0 {
		r.CacheTTL = defaultCacheTTL
	}
}

func setElasticsearchDefaults(e *ElasticsearchConfig) {
	if e.URL == "" {
		e.URL = defaultESURL
	}
	if e.Index == "" {
		e.Index = defaultESIndex
	}
	if e.MaxRetries == 0 {
		e.MaxRetries = defaultESMaxRetries
	}
	if e.Timeout == 0 {
		e.Timeout = defaultESTimeoutSec * time.Second
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}

func setAnalysisDefaults(a *AnalysisConfig) {
	if a.EvidenceLimit == 0 {
		a.EvidenceLimit = defaultEvidenceLimit
	}
	if a.NegationWindow == 0 {
		a.NegationWindow = defaultNegationWindow
	}
	if a.SentimentTimeout == 0 {
		a.SentimentTimeout = defaultSentimentTimeout
	}
}

func setEnrichmentDefaults(e *EnrichmentConfig) {
	if e.BatchSize == 0 {
		e.BatchSize = defaultBatchSize
	}
	if e.RetryLimit == 0 {
		e.RetryLimit = defaultRetryLimit
	}
	if e.PollInterval == 0 {
		e.PollInterval = defaultPollInterval
	}
	if e.CallTimeout == 0 {
		e.CallTimeout = defaultCallTimeout
	}
	if e.RateLimit == 0 {
		e.RateLimit = defaultRateLimit
	}
	if e.RateBurst == 0 {
		e.RateBurst = defaultRateBurst
	}
	if e.Annotator.ClaudeModel == "" {
		e.Annotator.ClaudeModel = defaultClaudeModel
	}
	if e.Annotator.ClaudeMaxTokens == 0 {
		e.Annotator.ClaudeMaxTokens = defaultClaudeMaxTokens
	}
}
