// Package config defines the data structures related to configuration and
// includes functions for loading the config and building the logger.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iwvelando/mortgage-visualizer/pkg/constants"
	"github.com/iwvelando/mortgage-visualizer/pkg/datetime"
	"github.com/iwvelando/mortgage-visualizer/pkg/mortgage"
	"github.com/iwvelando/mortgage-visualizer/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Configuration holds all configuration for mortgage-visualizer.
type Configuration struct {
	Mortgage MortgageConfig `yaml:"mortgage"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
	Output   OutputConfig   `yaml:"output,omitempty"`
	Cache    CacheConfig    `yaml:"cache,omitempty"`
}

// MortgageConfig holds the loan parameters as written in a config file.
type MortgageConfig struct {
	TotalPrice     float64 `yaml:"totalPrice"`
	DownPayment    float64 `yaml:"downPayment"`
	InterestRate   float64 `yaml:"interestRate"` // percent
	TermYears      int     `yaml:"termYears"`
	Frequency      string  `yaml:"frequency"`
	LumpSumPayment float64 `yaml:"lumpSumPayment,omitempty"`
	StartDate      string  `yaml:"startDate,omitempty"` // YYYY-MM-DD, defaults to today
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format  string `yaml:"format,omitempty"` // pretty, csv
	Summary bool   `yaml:"summary,omitempty"`
}

// CacheConfig selects and sizes the schedule cache.
type CacheConfig struct {
	Backend    string      `yaml:"backend,omitempty"` // memory, redis, none
	MaxEntries int         `yaml:"maxEntries,omitempty"`
	TTLSeconds int         `yaml:"ttlSeconds,omitempty"`
	Redis      RedisConfig `yaml:"redis,omitempty"`
}

// RedisConfig holds the connection settings for the redis cache backend.
type RedisConfig struct {
	Address   string `yaml:"address,omitempty"`
	Password  string `yaml:"password,omitempty"`
	DB        int    `yaml:"db,omitempty"`
	KeyPrefix string `yaml:"keyPrefix,omitempty"`
}

// TTL returns the configured cache lifetime, falling back to the default.
func (c CacheConfig) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return constants.DefaultCacheTTLSeconds * time.Second
	}
	return time.Duration(c.TTLSeconds) * time.Second
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. An empty path yields the defaults. A .env file in the
// working directory is loaded first so that MORTGAGE_* overrides can live there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	if err := LoadDotEnv(constants.DefaultDotEnvFile); err != nil {
		return nil, err
	}

	v := newViper(true)
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file, %s", err)
		}
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r,
// e.g. an uploaded file. Environment overrides do not apply.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper(false)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}
	return decode(v)
}

// LoadDotEnv loads environment variables from path when the file exists.
// Variables that are already set are not overridden.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func newViper(env bool) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	if env {
		v.SetEnvPrefix(constants.EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	// Defaults double as the key list AutomaticEnv consults during Unmarshal.
	v.SetDefault("mortgage.totalPrice", 0.0)
	v.SetDefault("mortgage.downPayment", 0.0)
	v.SetDefault("mortgage.interestRate", constants.DefaultInterestRate)
	v.SetDefault("mortgage.termYears", constants.DefaultTermYears)
	v.SetDefault("mortgage.frequency", constants.DefaultFrequency)
	v.SetDefault("mortgage.lumpSumPayment", 0.0)
	v.SetDefault("mortgage.startDate", "")
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("output.summary", false)
	v.SetDefault("cache.backend", constants.CacheBackendMemory)
	v.SetDefault("cache.maxEntries", constants.DefaultCacheMaxEntries)
	v.SetDefault("cache.ttlSeconds", constants.DefaultCacheTTLSeconds)
	v.SetDefault("cache.redis.address", "")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.keyPrefix", "")
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// Parameters converts the mortgage section into engine parameters. An unset
// start date means today.
func (m MortgageConfig) Parameters() (mortgage.Parameters, error) {
	return m.ParametersWithFixedTime(time.Now())
}

// ParametersWithFixedTime converts the mortgage section into engine
// parameters with an injectable fixed time for testing.
func (m MortgageConfig) ParametersWithFixedTime(fixedTime time.Time) (mortgage.Parameters, error) {
	name := m.Frequency
	if name == "" {
		name = constants.DefaultFrequency
	}
	frequency, err := mortgage.ParseFrequency(name)
	if err != nil {
		return mortgage.Parameters{}, err
	}

	startDate := datetime.Truncate(fixedTime)
	if m.StartDate != "" {
		startDate, err = datetime.ParseDate(m.StartDate)
		if err != nil {
			return mortgage.Parameters{}, fmt.Errorf("%w: start date: %v", mortgage.ErrInvalidParameters, err)
		}
	}

	return mortgage.Parameters{
		TotalPrice:         m.TotalPrice,
		DownPayment:        m.DownPayment,
		AnnualInterestRate: m.InterestRate,
		TermYears:          m.TermYears,
		Frequency:          frequency,
		LumpSumPerPayment:  m.LumpSumPayment,
		StartDate:          startDate,
	}, nil
}

// FromParameters is the inverse of Parameters.
func FromParameters(params mortgage.Parameters) MortgageConfig {
	m := MortgageConfig{
		TotalPrice:     params.TotalPrice,
		DownPayment:    params.DownPayment,
		InterestRate:   params.AnnualInterestRate,
		TermYears:      params.TermYears,
		Frequency:      params.Frequency.String(),
		LumpSumPayment: params.LumpSumPerPayment,
	}
	if !params.StartDate.IsZero() {
		m.StartDate = datetime.Format(params.StartDate)
	}
	return m
}

// ValidateConfiguration returns non-fatal warnings about the configuration.
// Problems that prevent a schedule from being computed are reported by
// Parameters instead.
func (conf *Configuration) ValidateConfiguration() []string {
	return conf.ValidateConfigurationWithFixedTime(time.Now())
}

// ValidateConfigurationWithFixedTime is ValidateConfiguration with an
// injectable fixed time for testing.
func (conf *Configuration) ValidateConfigurationWithFixedTime(fixedTime time.Time) []string {
	params, err := conf.Mortgage.ParametersWithFixedTime(fixedTime)
	if err != nil {
		return nil
	}

	warnings := validation.ParameterWarnings(params)
	if conf.Mortgage.StartDate == "" {
		warnings = append(warnings, fmt.Sprintf("no start date configured, using %s", datetime.Format(params.StartDate)))
	}
	if conf.Cache.Backend == constants.CacheBackendRedis && conf.Cache.Redis.Address == "" {
		warnings = append(warnings, "redis cache selected without an address, falling back to the in-memory cache")
	}
	return warnings
}

// Export renders the configuration as YAML.
func Export(conf Configuration) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(conf); err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return buf.Bytes(), nil
}

// NewLogger creates a zap logger based on configuration and CLI override
func NewLogger(loggingConfig LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	zapLevel, err := validation.ParseLogLevel(level)
	if err != nil {
		return nil, err
	}

	// Determine output format
	format := loggingConfig.Format
	if format == "" {
		format = "json" // Default to JSON for production
	}

	// Configure encoder
	var config zap.Config
	switch format {
	case "console":
		config = zap.NewDevelopmentConfig()
	case "json":
		config = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	// Configure output file if specified
	if loggingConfig.OutputFile != "" {
		// Ensure the directory exists
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		// Test if we can create/write to the file
		file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		}
		_ = file.Close()

		config.OutputPaths = []string{loggingConfig.OutputFile}
		config.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return config.Build()
}
