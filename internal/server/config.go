package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/iwvelando/mortgage-visualizer/internal/config"
	"github.com/iwvelando/mortgage-visualizer/pkg/constants"
	"github.com/iwvelando/mortgage-visualizer/pkg/validation"
	"gopkg.in/yaml.v3"
)

// Config is the calculator server's runtime configuration, read from
// server-config.yaml. Loan parameters are not part of it; every request
// carries its own.
type Config struct {
	Address         string               `yaml:"address"`
	MaxUploadSize   string               `yaml:"maxUploadSize"` // caps schedule requests and uploaded loan configs
	Logging         config.LoggingConfig `yaml:"logging"`
	Cache           config.CacheConfig   `yaml:"cache"`
	uploadSizeBytes int64
}

// DefaultConfig serves on DefaultServerAddress with an in-memory schedule cache.
func DefaultConfig() *Config {
	return &Config{
		Address:       constants.DefaultServerAddress,
		MaxUploadSize: strconv.FormatInt(constants.DefaultMaxUploadSizeBytes, 10),
		Cache: config.CacheConfig{
			Backend:    constants.CacheBackendMemory,
			MaxEntries: constants.DefaultCacheMaxEntries,
			TTLSeconds: constants.DefaultCacheTTLSeconds,
		},
		uploadSizeBytes: constants.DefaultMaxUploadSizeBytes,
	}
}

// LoadConfig reads the server configuration at path over DefaultConfig. A
// missing file is not an error: the calculator runs on defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("invalid server config %s: %w", path, err)
	}
	return cfg, nil
}

// UploadSizeBytes is the largest request body the schedule API accepts.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

// SetUploadSizeBytes overrides the request body limit. Non-positive sizes
// are ignored.
func (c *Config) SetUploadSizeBytes(size int64) {
	if size > 0 {
		c.uploadSizeBytes = size
		c.MaxUploadSize = strconv.FormatInt(size, 10)
	}
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}
	if err := validation.ValidateLogFormat(c.Logging.Format); err != nil {
		return err
	}

	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	switch c.Cache.Backend {
	case "":
		c.Cache.Backend = constants.CacheBackendMemory
	case constants.CacheBackendMemory, constants.CacheBackendRedis, constants.CacheBackendNone:
	default:
		return fmt.Errorf("unknown schedule cache backend %q", c.Cache.Backend)
	}
	if c.Cache.MaxEntries <= 0 {
		c.Cache.MaxEntries = constants.DefaultCacheMaxEntries
	}

	size, err := ParseSize(c.MaxUploadSize)
	if err != nil {
		return err
	}
	if size <= 0 {
		size = constants.DefaultMaxUploadSizeBytes
	}
	c.uploadSizeBytes = size
	c.MaxUploadSize = strconv.FormatInt(size, 10)
	return nil
}

var sizeUnits = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
	"G":  1 << 30,
	"GB": 1 << 30,
}

// ParseSize converts a byte count such as "256K" or "2MB" into bytes. Units
// are binary and case-insensitive; an empty value means the default limit.
func ParseSize(value string) (int64, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	unit := strings.TrimLeftFunc(trimmed, unicode.IsDigit)
	digits := strings.TrimSpace(strings.TrimSuffix(trimmed, unit))
	if digits == "" {
		return 0, fmt.Errorf("invalid size: %s", value)
	}

	multiplier, ok := sizeUnits[strings.TrimSpace(unit)]
	if !ok {
		return 0, fmt.Errorf("unsupported size unit %q", strings.TrimSpace(unit))
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}
	if n > (1<<63-1)/multiplier {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return n * multiplier, nil
}
