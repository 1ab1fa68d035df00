package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   Server   `mapstructure:"server"`
	Logger   Logger   `mapstructure:"logger"`
	Storage  Storage  `mapstructure:"storage"`
	Database Database `mapstructure:"database"`
	Journal  Journal  `mapstructure:"journal"`
	Client   Client   `mapstructure:"client"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputFile string `mapstructure:"output_file"` // optional rotated JSON log file
}

// Storage selects where the journal slot lives.
type Storage struct {
	Driver string `mapstructure:"driver"` // memory, file, sqlite or postgres
	Path   string `mapstructure:"path"`   // directory for the file driver
	Key    string `mapstructure:"key"`
}

// Database holds the configuration for the database-backed slot.
type Database struct {
	DSN    string `mapstructure:"dsn"`
	Create bool   `mapstructure:"create"` // postgres only: create the database when missing
	Name   string `mapstructure:"name"`   // optional, must match the DSN's dbname
}

// Journal holds journal behaviour settings.
type Journal struct {
	Timezone string `mapstructure:"timezone"` // decides which calendar day is "today"
}

// Client holds the configuration for the journal API client.
type Client struct {
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	RateLimit      float64       `mapstructure:"rate_limit"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

// Location resolves the configured timezone.
func (j Journal) Location() (*time.Location, error) {
	if j.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(j.Timezone)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.path", "./data")
	v.SetDefault("storage.key", "trade-history-data")
	v.SetDefault("database.dsn", "journal.db")
	v.SetDefault("journal.timezone", "UTC")
	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.timeout", 10*time.Second)
	v.SetDefault("client.rate_limit", 10)      // requests per second
	v.SetDefault("client.rate_limit_burst", 5) // burst size
}

// LoadConfig reads configuration from file or environment variables.
// A missing config file is not an error; defaults and the environment apply.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config") // name of config file (without extension)
	v.SetConfigType("yml")

	// Allow environment variables to override config file
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}
