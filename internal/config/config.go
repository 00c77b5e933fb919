package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	DBSource            string        `mapstructure:"DB_SOURCE"`
	DBConnectAttempts   int           `mapstructure:"DB_CONNECT_ATTEMPTS"`
	DBConnectInterval   time.Duration `mapstructure:"DB_CONNECT_INTERVAL"`
	ServerAddress       string        `mapstructure:"SERVER_ADDRESS"`
	LogLevel            string        `mapstructure:"LOG_LEVEL"`
	LogPretty           bool          `mapstructure:"LOG_PRETTY"`
	ArchitectSchema     string        `mapstructure:"ARCHITECT_SCHEMA"`
	SearchDefaultLimit  int           `mapstructure:"SEARCH_DEFAULT_LIMIT"`
	SearchMaxLimit      int           `mapstructure:"SEARCH_MAX_LIMIT"`
	SearchDedupWindow   time.Duration `mapstructure:"SEARCH_DEDUP_WINDOW"`
	NearbyDefaultRadius float64       `mapstructure:"NEARBY_DEFAULT_RADIUS_KM"`
	RateLimitPerMinute  int           `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	RateLimitBurst      int           `mapstructure:"RATE_LIMIT_BURST"`
	PopularSearchWindow time.Duration `mapstructure:"POPULAR_SEARCH_WINDOW"`
	SuggestionLimit     int           `mapstructure:"SUGGESTION_LIMIT"`
}

// LoadConfig reads configuration from app.env under path, overridden by environment variables.
// A missing file is not an error; DB_SOURCE must be set somewhere.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("DB_CONNECT_ATTEMPTS", 10)
	v.SetDefault("DB_CONNECT_INTERVAL", "5s")
	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("ARCHITECT_SCHEMA", "composition")
	v.SetDefault("SEARCH_DEFAULT_LIMIT", 10)
	v.SetDefault("SEARCH_MAX_LIMIT", 100)
	v.SetDefault("SEARCH_DEDUP_WINDOW", "1m")
	v.SetDefault("NEARBY_DEFAULT_RADIUS_KM", 5.0)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	v.SetDefault("RATE_LIMIT_BURST", 30)
	v.SetDefault("POPULAR_SEARCH_WINDOW", "168h")
	v.SetDefault("SUGGESTION_LIMIT", 10)
	// AutomaticEnv only applies to keys viper already knows about
	v.SetDefault("DB_SOURCE", "")

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: failed to read config file: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: failed to decode config: %w", err)
	}

	if config.DBSource == "" {
		return config, fmt.Errorf("config: DB_SOURCE is required")
	}
	if config.SearchDedupWindow <= 0 {
		return config, fmt.Errorf("config: SEARCH_DEDUP_WINDOW must be greater than 0, got %s", config.SearchDedupWindow)
	}
	if config.SearchMaxLimit < config.SearchDefaultLimit {
		config.SearchMaxLimit = config.SearchDefaultLimit
	}

	return config, nil
}
