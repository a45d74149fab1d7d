package config

import (
	"fmt"
	"log"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Mapstructure tags are used to map environment variables and config file keys.
type Config struct {
	// Server Configuration
	ServerAddress string `mapstructure:"SERVER_ADDRESS"` // e.g., ":8080"
	AppEnv        string `mapstructure:"APP_ENV"`        // "production" switches gin to release mode

	// AI Configuration
	OpenAIKey     string        `mapstructure:"OPENAI_API_KEY"`  // API key for OpenAI; empty means rule-based only
	OpenAIModel   string        `mapstructure:"OPENAI_MODEL"`    // e.g., "gpt-4o-mini"
	OpenAIBaseURL string        `mapstructure:"OPENAI_BASE_URL"` // OpenAI-compatible endpoint, optional
	AITimeout     time.Duration `mapstructure:"AI_TIMEOUT"`      // bound on one layout generation call
	AITemperature float32       `mapstructure:"AI_TEMPERATURE"`

	// Storage Configuration
	DatabasePath string `mapstructure:"DATABASE_PATH"` // SQLite file

	// Rate limiting of studio writes, per client IP
	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	HistoryLimit int `mapstructure:"HISTORY_LIMIT"` // undo steps kept, 0 = unbounded
}

func setDefaults() {
	viper.SetDefault("SERVER_ADDRESS", ":8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("OPENAI_API_KEY", "")
	viper.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	viper.SetDefault("OPENAI_BASE_URL", "")
	viper.SetDefault("AI_TIMEOUT", "20s")
	viper.SetDefault("AI_TEMPERATURE", 0.7)
	viper.SetDefault("DATABASE_PATH", "promptcraft.db")
	viper.SetDefault("RATE_LIMIT_RPS", 2)
	viper.SetDefault("RATE_LIMIT_BURST", 5)
	viper.SetDefault("HISTORY_LIMIT", 100)
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)     // Path to look for the config file in
	viper.SetConfigName("config") // Name of config file (without extension)
	viper.SetConfigType("yaml")

	setDefaults()
	viper.AutomaticEnv() // Read environment variables that match keys

	err = viper.ReadInConfig()
	if err != nil {
		// A missing file is fine, env vars and defaults still apply
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file ('config.yaml') not found in specified path, relying solely on environment variables.")
		} else {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		log.Printf("Using configuration file: %s", viper.ConfigFileUsed())
	}

	config, err = decode()
	if err != nil {
		return Config{}, err
	}

	if config.OpenAIKey == "" {
		log.Println("WARN: OPENAI_API_KEY is not set. Layouts will be generated by the rule-based parser only (fallback mode).")
	}
	return config, nil
}

func decode() (Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if config.AITimeout <= 0 {
		log.Printf("WARN: AI_TIMEOUT must be positive, using 20s")
		config.AITimeout = 20 * time.Second
	}
	return config, nil
}

// Watch re-reads the config file whenever it is written and hands the new
// values to fn. It does nothing when no config file was loaded.
func Watch(fn func(Config)) bool {
	if viper.ConfigFileUsed() == "" {
		return false
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		config, err := decode()
		if err != nil {
			log.Printf("ERROR: Ignoring config change in %s: %v", e.Name, err)
			return
		}
		log.Printf("Info: Reloaded configuration from %s", e.Name)
		fn(config)
	})
	viper.WatchConfig()
	return true
}
