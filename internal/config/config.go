package config

import (
	"fmt"
	"strings"

	"climacast.app/pkg/errors"
	"github.com/kelseyhightower/envconfig"
)

const (
	maxRedisDB            = 15
	maxPortNumber         = 65535
	maxHourlyTTLMinutes   = 1440
	maxDailyTTLMinutes    = 1440
	maxConcurrentFetches  = 64
	maxRetryAttempts      = 10
	maxBatchTimeoutSecond = 300
)

// Config represents the application configuration structure
type Config struct {
	Server   ServerConfig   `split_words:"true"`
	Database DatabaseConfig `split_words:"true"`
	Upstream UpstreamConfig `split_words:"true"`
	Forecast ForecastConfig `split_words:"true"`
	Cache    CacheConfig    `split_words:"true"`
}

type ServerConfig struct {
	Port int `envconfig:"SERVER_PORT" default:"8080"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"climacast"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type UpstreamConfig struct {
	BaseURL        string `envconfig:"UPSTREAM_BASE_URL" default:"https://api.open-meteo.com/v1/forecast"`
	TimeoutSeconds int    `envconfig:"UPSTREAM_TIMEOUT_SECONDS" default:"10"`
}

type ForecastConfig struct {
	EnableCache          bool `envconfig:"FORECAST_ENABLE_CACHE" default:"true"`
	HourlyTTLMinutes     int  `envconfig:"FORECAST_HOURLY_TTL_MINUTES" default:"60"`
	DailyTTLMinutes      int  `envconfig:"FORECAST_DAILY_TTL_MINUTES" default:"240"`
	MaxConcurrentFetches int  `envconfig:"FORECAST_MAX_CONCURRENT_FETCHES" default:"10"`
	BatchTimeoutSeconds  int  `envconfig:"FORECAST_BATCH_TIMEOUT_SECONDS" default:"30"`
	RetryMaxAttempts     int  `envconfig:"FORECAST_RETRY_MAX_ATTEMPTS" default:"3"`
	RetryBaseDelayMs     int  `envconfig:"FORECAST_RETRY_BASE_DELAY_MS" default:"500"`
}

// CacheType represents the type of cache to use
type CacheType int

const (
	CacheTypeUnknown CacheType = iota
	CacheTypeMemory
	CacheTypeRedis
)

// String returns the string representation of cache type
func (c CacheType) String() string {
	switch c {
	case CacheTypeMemory:
		return "memory"
	case CacheTypeRedis:
		return "redis"
	default:
		return "unknown"
	}
}

// IsValid checks if the cache type is valid
func (c CacheType) IsValid() bool {
	return c == CacheTypeMemory || c == CacheTypeRedis
}

// CacheTypeFromString converts string to CacheType enum
func CacheTypeFromString(s string) CacheType {
	switch s {
	case "memory":
		return CacheTypeMemory
	case "redis":
		return CacheTypeRedis
	default:
		return CacheTypeUnknown
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for envconfig
func (c *CacheType) UnmarshalText(text []byte) error {
	*c = CacheTypeFromString(string(text))
	return nil
}

// MarshalText implements encoding.TextMarshaler for envconfig
func (c CacheType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

type CacheConfig struct {
	Type  CacheType   `envconfig:"CACHE_TYPE" default:"memory"`
	Redis RedisConfig `split_words:"true"`
}

type RedisConfig struct {
	Addr         string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password     string `envconfig:"REDIS_PASSWORD" default:""`
	DB           int    `envconfig:"REDIS_DB" default:"0"`
	DialTimeout  int    `envconfig:"REDIS_DIAL_TIMEOUT" default:"5"`
	ReadTimeout  int    `envconfig:"REDIS_READ_TIMEOUT" default:"3"`
	WriteTimeout int    `envconfig:"REDIS_WRITE_TIMEOUT" default:"3"`
}

func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Upstream.Validate(); err != nil {
		return err
	}
	if err := c.Forecast.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > maxPortNumber {
		return errors.NewConfigurationError("SERVER_PORT must be between 1 and 65535", nil)
	}
	return nil
}

func (d *DatabaseConfig) Validate() error {
	if d.Host == "" {
		return errors.NewConfigurationError("DB_HOST cannot be empty", nil)
	}
	if d.Port < 1 || d.Port > maxPortNumber {
		return errors.NewConfigurationError("DB_PORT must be between 1 and 65535", nil)
	}
	if d.User == "" {
		return errors.NewConfigurationError("DB_USER cannot be empty", nil)
	}
	if d.Name == "" {
		return errors.NewConfigurationError("DB_NAME cannot be empty", nil)
	}
	return d.ValidateSSLMode()
}

func (d *DatabaseConfig) ValidateSSLMode() error {
	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	for _, mode := range validSSLModes {
		if d.SSLMode == mode {
			return nil
		}
	}
	return errors.NewConfigurationError(
		fmt.Sprintf("DB_SSL_MODE must be one of: %s", strings.Join(validSSLModes, ", ")), nil)
}

func (u *UpstreamConfig) Validate() error {
	if u.BaseURL == "" {
		return errors.NewConfigurationError("UPSTREAM_BASE_URL cannot be empty", nil)
	}
	if !strings.HasPrefix(u.BaseURL, "http://") && !strings.HasPrefix(u.BaseURL, "https://") {
		return errors.NewConfigurationError("UPSTREAM_BASE_URL must start with http:// or https://", nil)
	}
	if u.TimeoutSeconds < 1 {
		return errors.NewConfigurationError("UPSTREAM_TIMEOUT_SECONDS must be at least 1 second", nil)
	}
	return nil
}

func (f *ForecastConfig) Validate() error {
	if f.HourlyTTLMinutes < 1 || f.HourlyTTLMinutes > maxHourlyTTLMinutes {
		return errors.NewConfigurationError("FORECAST_HOURLY_TTL_MINUTES must be between 1 and 1440 minutes", nil)
	}
	if f.DailyTTLMinutes < 1 || f.DailyTTLMinutes > maxDailyTTLMinutes {
		return errors.NewConfigurationError("FORECAST_DAILY_TTL_MINUTES must be between 1 and 1440 minutes", nil)
	}
	if f.MaxConcurrentFetches < 1 || f.MaxConcurrentFetches > maxConcurrentFetches {
		return errors.NewConfigurationError("FORECAST_MAX_CONCURRENT_FETCHES must be between 1 and 64", nil)
	}
	if f.BatchTimeoutSeconds < 1 || f.BatchTimeoutSeconds > maxBatchTimeoutSecond {
		return errors.NewConfigurationError("FORECAST_BATCH_TIMEOUT_SECONDS must be between 1 and 300 seconds", nil)
	}
	if f.RetryMaxAttempts < 1 || f.RetryMaxAttempts > maxRetryAttempts {
		return errors.NewConfigurationError("FORECAST_RETRY_MAX_ATTEMPTS must be between 1 and 10", nil)
	}
	if f.RetryBaseDelayMs < 1 {
		return errors.NewConfigurationError("FORECAST_RETRY_BASE_DELAY_MS must be at least 1", nil)
	}
	return nil
}

func (c *CacheConfig) Validate() error {
	if !c.Type.IsValid() {
		return errors.NewConfigurationError("CACHE_TYPE must be one of: memory, redis", nil)
	}

	if c.Type == CacheTypeRedis {
		return c.Redis.Validate()
	}

	return nil
}

func (r *RedisConfig) Validate() error {
	if r.Addr == "" {
		return errors.NewConfigurationError("REDIS_ADDR cannot be empty when using Redis cache", nil)
	}
	if r.DB < 0 || r.DB > maxRedisDB {
		return errors.NewConfigurationError("REDIS_DB must be between 0 and 15", nil)
	}
	if r.DialTimeout < 1 {
		return errors.NewConfigurationError("REDIS_DIAL_TIMEOUT must be at least 1 second", nil)
	}
	if r.ReadTimeout < 1 {
		return errors.NewConfigurationError("REDIS_READ_TIMEOUT must be at least 1 second", nil)
	}
	if r.WriteTimeout < 1 {
		return errors.NewConfigurationError("REDIS_WRITE_TIMEOUT must be at least 1 second", nil)
	}
	return nil
}
