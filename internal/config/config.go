package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds the board client configuration
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Ledger LedgerConfig `mapstructure:"ledger"`
	User   UserConfig   `mapstructure:"user"`
}

// APIConfig points the client at the engagement API
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// LedgerConfig locates the device's reaction ledger file
type LedgerConfig struct {
	Path string `mapstructure:"path"`
}

// UserConfig holds the display name used when composing
type UserConfig struct {
	Name string `mapstructure:"name"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig() (*Config, error) {
	viper.SetConfigName("board")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/bakuwaki")

	// Set defaults
	viper.SetDefault("api.base_url", "http://localhost:8080")
	viper.SetDefault("ledger.path", "./data/reactions.db")
	viper.SetDefault("user.name", "")

	// Environment variable bindings
	viper.AutomaticEnv()
	viper.BindEnv("api.base_url", "BAKUWAKI_API_URL")
	viper.BindEnv("ledger.path", "BAKUWAKI_LEDGER_PATH")
	viper.BindEnv("user.name", "BAKUWAKI_USERNAME")

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		log.Println("No config file found, using defaults and environment variables")
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
