// Package config defines the rehabdesk runtime configuration and loads it
// from a YAML file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/iwvelando/rehabdesk/internal/server"
	"github.com/iwvelando/rehabdesk/pkg/constants"
	"github.com/iwvelando/rehabdesk/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for rehabdesk.
type Configuration struct {
	Server    server.Config   `mapstructure:"server" yaml:"server"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging,omitempty"`
	Storage   StorageConfig   `mapstructure:"storage" yaml:"storage"`
	Geocoding GeocodingConfig `mapstructure:"geocoding" yaml:"geocoding"`
	Analyzer  AnalyzerConfig  `mapstructure:"analyzer" yaml:"analyzer"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// StorageConfig selects the document store.
type StorageConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"` // memory, sqlite, postgres
	Path   string `mapstructure:"path" yaml:"path,omitempty"`
	DSN    string `mapstructure:"dsn" yaml:"dsn,omitempty"`
}

// GeocodingConfig configures the address geocoder.
type GeocodingConfig struct {
	APIKey  string        `mapstructure:"apiKey" yaml:"apiKey,omitempty"`
	BaseURL string        `mapstructure:"baseURL" yaml:"baseURL"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// AnalyzerConfig tunes the flip and BRRRR analyzers.
type AnalyzerConfig struct {
	FlipFinalStep      int `mapstructure:"flipFinalStep" yaml:"flipFinalStep"`
	MaxProjectionYears int `mapstructure:"maxProjectionYears" yaml:"maxProjectionYears"`
}

// LoadOptions locates the configuration sources.
type LoadOptions struct {
	ConfigFile string
	// Optional tolerates a missing ConfigFile.
	Optional bool
	// EnvFile is a dotenv file loaded into the environment when it exists.
	EnvFile string
}

// LoadConfiguration reads the YAML file and the environment on top of the
// defaults. Environment variables take precedence over the file.
func LoadConfiguration(opts LoadOptions) (*Configuration, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading env file %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("storage.dsn", constants.EnvPrefix+"_STORAGE_DSN", "DATABASE_URL"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("geocoding.apiKey", constants.EnvPrefix+"_GEOCODING_APIKEY", "GOOGLE_MAPS_API_KEY"); err != nil {
		return nil, err
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if !opts.Optional || !isNotExist(err) {
				return nil, fmt.Errorf("error reading config file, %w", err)
			}
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

func setDefaults(v *viper.Viper) {
	srv := server.DefaultConfig()
	v.SetDefault("server.address", srv.Address)
	v.SetDefault("server.maxBodySize", srv.MaxBodySize)
	v.SetDefault("server.readHeaderTimeout", srv.ReadHeaderTimeout)
	v.SetDefault("server.shutdownTimeout", srv.ShutdownTimeout)
	v.SetDefault("server.allowedOrigins", []string{})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")

	v.SetDefault("storage.driver", constants.StorageDriverSQLite)
	v.SetDefault("storage.path", constants.DefaultSQLitePath)
	v.SetDefault("storage.dsn", "")

	v.SetDefault("geocoding.apiKey", "")
	v.SetDefault("geocoding.baseURL", constants.DefaultGeocodeBaseURL)
	v.SetDefault("geocoding.timeout", constants.DefaultGeocodeTimeout)

	v.SetDefault("analyzer.flipFinalStep", constants.DefaultFlipFinalStep)
	v.SetDefault("analyzer.maxProjectionYears", constants.DefaultMaxProjectionYears)
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err)
}

// Validate checks enumerated settings and normalizes the server section.
func (c *Configuration) Validate() error {
	if err := validation.OneOf("logging.level", c.Logging.Level, true, "debug", "info", "warn", "warning", "error"); err != nil {
		return err
	}
	if err := validation.OneOf("logging.format", c.Logging.Format, true, "json", "console"); err != nil {
		return err
	}
	if err := validation.OneOf("storage.driver", c.Storage.Driver, false,
		constants.StorageDriverMemory, constants.StorageDriverSQLite, constants.StorageDriverPostgres); err != nil {
		return err
	}
	if c.Storage.Driver == constants.StorageDriverPostgres && c.Storage.DSN == "" {
		return errors.New("storage.dsn (or DATABASE_URL) is required for the postgres driver")
	}
	if c.Analyzer.FlipFinalStep < 0 {
		return fmt.Errorf("analyzer.flipFinalStep must not be negative, got %d", c.Analyzer.FlipFinalStep)
	}
	if c.Analyzer.MaxProjectionYears < 0 {
		return fmt.Errorf("analyzer.maxProjectionYears must not be negative, got %d", c.Analyzer.MaxProjectionYears)
	}
	if err := c.Server.Normalize(); err != nil {
		return fmt.Errorf("invalid server.maxBodySize: %w", err)
	}
	return nil
}
