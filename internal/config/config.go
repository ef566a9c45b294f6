package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config is the application-level configuration of the chat core.
type Config struct {
	LogLevel string `mapstructure:"log_level"`
	// StorePath is the persisted room store location.
	StorePath string `mapstructure:"store_path"`
	// HistoryLookback bounds the replay-dedup window around the last
	// rendered message.
	HistoryLookback time.Duration `mapstructure:"history_lookback"`
	// HistoryWindow is how many rendered messages the dedup cache keeps.
	HistoryWindow int `mapstructure:"history_window"`
	// LeaveOnClose makes closing a conference chat window leave the room.
	LeaveOnClose bool `mapstructure:"leave_on_close"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("log_level", "info")
	v.SetDefault("store_path", "conclave-rooms.yaml")
	v.SetDefault("history_lookback", "10s")
	v.SetDefault("history_window", 20)
	v.SetDefault("leave_on_close", true)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("config file not found (%s), using defaults\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
