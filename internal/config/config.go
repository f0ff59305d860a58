package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds process-level settings. Values come from an optional yaml file
// with PLANDY_* environment variables layered on top.
type Config struct {
	HTTPAddr        string  `mapstructure:"http_addr"`
	LogLevel        string  `mapstructure:"log_level"`
	LogPretty       bool    `mapstructure:"log_pretty"`
	Model           string  `mapstructure:"model"`
	Temperature     float64 `mapstructure:"temperature"`
	OpenAIKey       string  `mapstructure:"openai_api_key"`
	SQLitePath      string  `mapstructure:"sqlite_path"`
	DefaultTimezone string  `mapstructure:"default_timezone"`
}

// Load reads configuration from path (optional) and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", true)
	v.SetDefault("model", "gpt-4o-mini")
	v.SetDefault("temperature", 0.3)
	v.SetDefault("sqlite_path", "plandy.db")
	v.SetDefault("default_timezone", "Asia/Seoul")

	v.SetEnvPrefix("PLANDY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// the key is conventionally set without the prefix
	v.BindEnv("openai_api_key", "OPENAI_API_KEY")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("plandy")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
