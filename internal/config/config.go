package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName        string `mapstructure:"app_name"`
	Env            string `mapstructure:"app_env"`
	LogLevel       string `mapstructure:"log_level"`
	PublishersFile string `mapstructure:"publishers_file"`

	APIBaseURL   string `mapstructure:"api_base_url"`
	APIKey       string `mapstructure:"api_key"`
	QueryKeyword string `mapstructure:"query_keyword"`
	QuerySection string `mapstructure:"query_section"`

	ConnectTimeoutMs int64         `mapstructure:"connect_timeout_ms"`
	ReadTimeoutMs    int64         `mapstructure:"read_timeout_ms"`
	ProbeTimeoutMs   int64         `mapstructure:"connectivity_probe_timeout_ms"`
	ConnectTimeout   time.Duration `mapstructure:"-"`
	ReadTimeout      time.Duration `mapstructure:"-"`
	ProbeTimeout     time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "samvad-news-feed")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("publishers_file", "")
	v.SetDefault("api_base_url", "https://content.guardianapis.com/search")
	v.SetDefault("api_key", "test")
	v.SetDefault("query_keyword", "football")
	v.SetDefault("query_section", "football")
	v.SetDefault("connect_timeout_ms", 15000)
	v.SetDefault("read_timeout_ms", 10000)
	v.SetDefault("connectivity_probe_timeout_ms", 3000)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	if c.ConnectTimeoutMs <= 0 {
		return fmt.Errorf("invalid connect_timeout_ms (must be positive milliseconds)")
	}
	if c.ReadTimeoutMs <= 0 {
		return fmt.Errorf("invalid read_timeout_ms (must be positive milliseconds)")
	}
	if c.ProbeTimeoutMs <= 0 {
		return fmt.Errorf("invalid connectivity_probe_timeout_ms (must be positive milliseconds)")
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url is required")
	}
	c.ConnectTimeout = time.Duration(c.ConnectTimeoutMs) * time.Millisecond
	c.ReadTimeout = time.Duration(c.ReadTimeoutMs) * time.Millisecond
	c.ProbeTimeout = time.Duration(c.ProbeTimeoutMs) * time.Millisecond
	return nil
}
