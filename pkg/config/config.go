package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string          `yaml:"environment" default:"development"`
	Server      ServerConfig    `yaml:"server"`
	Logger      LoggerConfig    `yaml:"logger"`
	Refresh     RefreshConfig   `yaml:"refresh"`
	Upstream    UpstreamConfig  `yaml:"upstream"`
	Cache       CacheConfig     `yaml:"cache"`
	History     HistoryConfig   `yaml:"history"`
	Kafka       KafkaConfig     `yaml:"kafka"`
	WebSocket   WebSocketConfig `yaml:"websocket"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	SlowRequest     time.Duration `yaml:"slow_request" default:"500ms"`
	// CORSOrigins lists allowed browser origins. An explicit empty list disables CORS.
	CORSOrigins []string `yaml:"cors_origins" default:"[\"*\"]"`
	// RefreshBurst and RefreshPerSec bound POST /api/refresh per client.
	RefreshBurst  float64 `yaml:"refresh_burst" default:"3"`
	RefreshPerSec float64 `yaml:"refresh_per_sec" default:"0.2"`
}

type LoggerConfig struct {
	Level  string `yaml:"level" default:"info"`
	Format string `yaml:"format" default:"console"`
	Output string `yaml:"output" default:"stdout"`
	// CollectTopic, when set together with Kafka brokers, ships aggregated error logs.
	CollectTopic    string        `yaml:"collect_topic"`
	CollectInterval time.Duration `yaml:"collect_interval" default:"30s"`
	CollectMax      int           `yaml:"collect_max" default:"100"`
}

type RefreshConfig struct {
	// Interval must be a whole number of seconds; the scheduler has one-second resolution.
	Interval     time.Duration `yaml:"interval" default:"120s"`
	GroupTimeout time.Duration `yaml:"group_timeout" default:"6s"`
}

type UpstreamConfig struct {
	CurrencyURL         string        `yaml:"currency_url" default:"https://api.exchangerate-api.com/v4/latest/USD"`
	CurrencyTimeout     time.Duration `yaml:"currency_timeout" default:"5s"`
	CryptoURL           string        `yaml:"crypto_url" default:"https://api.coingecko.com/api/v3/coins/markets?vs_currency=usd&order=market_cap_desc&per_page=100&page=1&sparkline=false&price_change_percentage=24h"`
	CryptoTimeout       time.Duration `yaml:"crypto_timeout" default:"8s"`
	CryptoBackupURL     string        `yaml:"crypto_backup_url" default:"https://api.coinlore.net/api/tickers/"`
	CryptoBackupTimeout time.Duration `yaml:"crypto_backup_timeout" default:"5s"`
	MaxCrypto           int           `yaml:"max_crypto" default:"50"`
}

type CacheConfig struct {
	MemoryMaxSize int           `yaml:"memory_max_size" default:"1000"`
	MemoryCleanup time.Duration `yaml:"memory_cleanup" default:"1m"`
	QueryTTL      time.Duration `yaml:"query_ttl" default:"120s"`
	Redis         struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host" default:"localhost"`
		Port     int    `yaml:"port" default:"6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix" default:"findash"`
	} `yaml:"redis"`
}

type HistoryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Host        string        `yaml:"host" default:"localhost"`
	Port        int           `yaml:"port" default:"9000"`
	Database    string        `yaml:"database" default:"findash"`
	User        string        `yaml:"user" default:"default"`
	Password    string        `yaml:"password"`
	UseHTTP     bool          `yaml:"use_http"`
	DialTimeout time.Duration `yaml:"dial_timeout" default:"5s"`
	ReadTimeout time.Duration `yaml:"read_timeout" default:"10s"`
}

type KafkaConfig struct {
	Brokers      []string `yaml:"brokers"`
	EventsTopic  string   `yaml:"events_topic" default:"findash.cycles"`
	RefreshTopic string   `yaml:"refresh_topic"`
	GroupID      string   `yaml:"group_id" default:"findash"`
	Compression  string   `yaml:"compression" default:"gzip"`
	RequiredAcks int      `yaml:"required_acks" default:"1"`
	Producer     struct {
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		Linger       time.Duration `yaml:"linger" default:"1s"`
		Async        bool          `yaml:"async"`
	} `yaml:"producer"`
	Consumer struct {
		RetryMax   int           `yaml:"retry_max" default:"3"`
		BackoffMin time.Duration `yaml:"backoff_min" default:"100ms"`
		BackoffMax time.Duration `yaml:"backoff_max" default:"2s"`
	} `yaml:"consumer"`
}

type WebSocketConfig struct {
	PingInterval time.Duration `yaml:"ping_interval" default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" default:"5s"`
	SendBuffer   int           `yaml:"send_buffer" default:"8"`
}

// Enabled reports whether a Kafka cluster is configured.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

// Load reads and parses a YAML configuration file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(b) > 0 {
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logger.Level = v
	}
	if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Refresh.Interval = d
		}
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Enabled = true
		c.Cache.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.History.Enabled = true
		c.History.Host = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_REFRESH_TOPIC"); v != "" {
		c.Kafka.RefreshTopic = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Refresh.Interval <= 0 {
		return fmt.Errorf("refresh.interval must be positive")
	}
	if c.Refresh.Interval%time.Second != 0 {
		return fmt.Errorf("refresh.interval must be a whole number of seconds, got %s", c.Refresh.Interval)
	}
	if c.Cache.MemoryCleanup <= 0 {
		return fmt.Errorf("cache.memory_cleanup must be positive")
	}
	if c.Refresh.GroupTimeout <= 0 {
		return fmt.Errorf("refresh.group_timeout must be positive")
	}
	if c.Refresh.GroupTimeout >= c.Refresh.Interval {
		return fmt.Errorf("refresh.group_timeout (%s) must be shorter than refresh.interval (%s)",
			c.Refresh.GroupTimeout, c.Refresh.Interval)
	}
	if c.Upstream.CurrencyURL == "" || c.Upstream.CryptoURL == "" {
		return fmt.Errorf("upstream.currency_url and upstream.crypto_url are required")
	}
	if c.Upstream.MaxCrypto <= 0 {
		return fmt.Errorf("upstream.max_crypto must be positive")
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be 'console' or 'json', got '%s'", c.Logger.Format)
	}
	return nil
}
