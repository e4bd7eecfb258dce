package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string         `mapstructure:"environment"`
	LogLevel    string         `mapstructure:"log_level"`
	Server      ServerConfig   `mapstructure:"server"`
	Redis       RedisConfig    `mapstructure:"redis"`
	EIA         EIAConfig      `mapstructure:"eia"`
	Cache       CacheConfig    `mapstructure:"cache"`
	Analysis    AnalysisConfig `mapstructure:"analysis"`
	Logging     LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// EIAConfig configures the EIA v2 API client. RequestsPerSecond and Burst
// bound the client-side rate limiter; the hosted API enforces its own hourly
// quota on top.
type EIAConfig struct {
	BaseURL           string  `mapstructure:"base_url"`
	APIKey            string  `mapstructure:"api_key"`
	Timeout           int     `mapstructure:"timeout"`
	MaxRetries        int     `mapstructure:"max_retries"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
	RowLimit          int     `mapstructure:"row_limit"`
}

type CacheConfig struct {
	SeriesTTLMinutes int `mapstructure:"series_ttl_minutes"`
}

// AnalysisConfig overrides selected scoring policy knobs; zero values fall
// back to the analysis package defaults.
type AnalysisConfig struct {
	StorageHours            float64 `mapstructure:"storage_hours"`
	CyclesPerYear           float64 `mapstructure:"cycles_per_year"`
	RoundTripEfficiency     float64 `mapstructure:"round_trip_efficiency"`
	RenewableCapacityFactor float64 `mapstructure:"renewable_capacity_factor"`
	CurtailmentRate         float64 `mapstructure:"curtailment_rate"`
}

type LoggingConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	// Set default values
	setDefaults()

	// Enable environment variable support
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Bind specific environment variables
	if err := viper.BindEnv("eia.api_key", "EIA_API_KEY"); err != nil {
		return nil, err
	}

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Normalize environment to lowercase for consistent comparison
	config.Environment = strings.ToLower(config.Environment)

	// An API key is required outside development; the hosted EIA API rejects
	// unauthenticated requests.
	if config.Environment != "development" && config.EIA.APIKey == "" {
		return nil, errors.New("EIA_API_KEY environment variable is required in non-development environments")
	}

	return &config, nil
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Redis
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// EIA API
	viper.SetDefault("eia.base_url", "https://api.eia.gov/v2")
	viper.SetDefault("eia.api_key", "")
	viper.SetDefault("eia.timeout", 30)
	viper.SetDefault("eia.max_retries", 3)
	viper.SetDefault("eia.requests_per_second", 2.0)
	viper.SetDefault("eia.burst", 4)
	viper.SetDefault("eia.row_limit", 5000)

	// Cache
	viper.SetDefault("cache.series_ttl_minutes", 60)

	// Analysis policy overrides (zero means use package defaults)
	viper.SetDefault("analysis.storage_hours", 0)
	viper.SetDefault("analysis.cycles_per_year", 0)
	viper.SetDefault("analysis.round_trip_efficiency", 0)
	viper.SetDefault("analysis.renewable_capacity_factor", 0)
	viper.SetDefault("analysis.curtailment_rate", 0)

	// Logging
	viper.SetDefault("logging.file", "")
	viper.SetDefault("logging.max_size_mb", 100)
	viper.SetDefault("logging.max_backups", 3)
	viper.SetDefault("logging.max_age_days", 28)
}
