package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Black-And-White-Club/pickem-bot/pkg/observability"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	Redis         RedisConfig         `yaml:"redis"`
	JWT           JWTConfig           `yaml:"jwt"`
	HTTP          HTTPConfig          `yaml:"http"`
	Observability ObservabilityConfig `yaml:"observability"`
	Feed          FeedConfig          `yaml:"feed"`
	League        LeagueConfig        `yaml:"league"`
	Games         []GameSeed          `yaml:"games"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration. An empty URL runs the in-process bus.
type NATSConfig struct {
	URL           string `yaml:"url"`
	ConsumerGroup string `yaml:"consumer_group"`
}

// RedisConfig holds the standings cache settings. An empty URL disables the cache.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	StandingsTTL time.Duration `yaml:"standings_ttl"`
}

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
	Issuer     string        `yaml:"issuer"`
}

// HTTPConfig holds the API listener settings.
type HTTPConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	LoginRateLimit float64  `yaml:"login_rate_limit"` // requests per second per IP
	LoginBurst     int      `yaml:"login_burst"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	MetricsAddress string  `yaml:"metrics_address"`
	Environment    string  `yaml:"environment"`
	LogLevel       string  `yaml:"log_level"`
	OTLPEndpoint   string  `yaml:"otlp_endpoint"`
	SampleRate     float64 `yaml:"sample_rate"`
}

// FeedConfig controls the live scoreboard poller.
type FeedConfig struct {
	Enabled      bool          `yaml:"enabled"`
	BaseURL      string        `yaml:"base_url"`
	SportPath    string        `yaml:"sport_path"`
	LiveInterval time.Duration `yaml:"live_interval"`
	IdleInterval time.Duration `yaml:"idle_interval"`
	AutoCreate   bool          `yaml:"auto_create"`
	Timeout      time.Duration `yaml:"timeout"`
}

// LeagueConfig describes the closed roster.
type LeagueConfig struct {
	Season            string         `yaml:"season"`
	Timezone          string         `yaml:"timezone"`
	Players           []PlayerConfig `yaml:"players"`
	AdminPasswordHash string         `yaml:"admin_password_hash"`
}

// PlayerConfig is one roster entry. PasswordHash is a bcrypt hash.
type PlayerConfig struct {
	Name         string `yaml:"name"`
	PasswordHash string `yaml:"password_hash"`
}

// GameSeed is a roster game inserted on startup when missing.
type GameSeed struct {
	ID            string    `yaml:"id"`
	ExternalID    string    `yaml:"external_id"`
	Round         string    `yaml:"round"`
	Away          string    `yaml:"away"`
	Home          string    `yaml:"home"`
	Kickoff       time.Time `yaml:"kickoff"`
	AlwaysVisible bool      `yaml:"always_visible"`
}

// DefaultPlayers is the league roster used when the config lists none.
var DefaultPlayers = []string{"Jerin", "Jijesh", "Jaison", "Jason", "Jeff", "Jogi", "Jubee", "Nelson", "Paul", "Renjith"}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("NATS_CONSUMER_GROUP"); v != "" {
		cfg.NATS.ConsumerGroup = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("JWT_DEFAULT_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.JWT.DefaultTTL = d
		}
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("OTLP_ENDPOINT"); v != "" {
		cfg.Observability.OTLPEndpoint = v
	}
	if v := os.Getenv("OTEL_SAMPLE_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Observability.SampleRate = f
		}
	}
	if v := os.Getenv("FEED_ENABLED"); v != "" {
		cfg.Feed.Enabled = v == "true"
	}
	if v := os.Getenv("FEED_AUTO_CREATE"); v != "" {
		cfg.Feed.AutoCreate = v == "true"
	}
	if v := os.Getenv("ADMIN_PASSWORD_HASH"); v != "" {
		cfg.League.AdminPasswordHash = v
	}
	if v := os.Getenv("LEAGUE_TIMEZONE"); v != "" {
		cfg.League.Timezone = v
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config

	cfg.Postgres.DSN = os.Getenv("DATABASE_URL")
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	// Optional; the in-process bus is used when unset
	cfg.NATS.URL = os.Getenv("NATS_URL")
	cfg.NATS.ConsumerGroup = os.Getenv("NATS_CONSUMER_GROUP")
	cfg.Redis.URL = os.Getenv("REDIS_URL")

	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}
	if v := os.Getenv("JWT_DEFAULT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_DEFAULT_TTL value: %v", err)
		}
		cfg.JWT.DefaultTTL = d
	}

	cfg.HTTP.Address = os.Getenv("HTTP_ADDRESS")
	cfg.HTTP.AllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	cfg.Observability.MetricsAddress = os.Getenv("METRICS_ADDRESS") // optional; empty disables the listener
	cfg.Observability.Environment = os.Getenv("ENV")
	cfg.Observability.LogLevel = os.Getenv("LOG_LEVEL")
	cfg.Observability.OTLPEndpoint = os.Getenv("OTLP_ENDPOINT") // optional; empty disables tracing
	if v := os.Getenv("OTEL_SAMPLE_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid OTEL_SAMPLE_RATE value: %v", err)
		}
		cfg.Observability.SampleRate = f
	}

	cfg.Feed.Enabled = os.Getenv("FEED_ENABLED") == "true"
	cfg.Feed.AutoCreate = os.Getenv("FEED_AUTO_CREATE") == "true"

	cfg.League.AdminPasswordHash = os.Getenv("ADMIN_PASSWORD_HASH")
	cfg.League.Timezone = os.Getenv("LEAGUE_TIMEZONE")

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.NATS.ConsumerGroup == "" {
		c.NATS.ConsumerGroup = "pickem"
	}
	if c.Redis.StandingsTTL == 0 {
		c.Redis.StandingsTTL = 5 * time.Minute
	}
	if c.JWT.DefaultTTL == 0 {
		c.JWT.DefaultTTL = 24 * time.Hour
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "pickem-bot"
	}
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.HTTP.LoginRateLimit == 0 {
		c.HTTP.LoginRateLimit = 1
	}
	if c.HTTP.LoginBurst == 0 {
		c.HTTP.LoginBurst = 5
	}
	if c.Observability.SampleRate == 0 {
		c.Observability.SampleRate = 0.1
	}
	if c.Feed.BaseURL == "" {
		c.Feed.BaseURL = "https://site.api.espn.com/apis/site/v2/sports"
	}
	if c.Feed.SportPath == "" {
		c.Feed.SportPath = "football/nfl"
	}
	if c.Feed.LiveInterval == 0 {
		c.Feed.LiveInterval = 30 * time.Second
	}
	if c.Feed.IdleInterval == 0 {
		c.Feed.IdleInterval = 60 * time.Second
	}
	if c.Feed.Timeout == 0 {
		c.Feed.Timeout = 15 * time.Second
	}
	if c.League.Timezone == "" {
		c.League.Timezone = "America/New_York"
	}
	if len(c.League.Players) == 0 {
		for _, name := range DefaultPlayers {
			c.League.Players = append(c.League.Players, PlayerConfig{Name: name})
		}
	}
}

// PlayerNames returns the roster in configured order.
func (c *Config) PlayerNames() []string {
	names := make([]string, len(c.League.Players))
	for i, p := range c.League.Players {
		names[i] = p.Name
	}
	return names
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ToObsConfig maps the observability section onto the provider config.
func ToObsConfig(appCfg *Config) observability.Config {
	return observability.Config{
		ServiceName:    "pickem-bot",
		ServiceVersion: "1.0.0", // Could inject via `ldflags`
		Environment:    appCfg.Observability.Environment,
		LogLevel:       appCfg.Observability.LogLevel,
		OTLPEndpoint:   appCfg.Observability.OTLPEndpoint,
		SampleRate:     appCfg.Observability.SampleRate,
	}
}
