package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/iwvelando/property-forecast/internal/config"
	"github.com/iwvelando/property-forecast/pkg/constants"
	"gopkg.in/yaml.v3"
)

// maxBodyLimit caps the configurable request body limit. Scenario documents
// are a few kilobytes; anything near this is a misconfiguration.
const maxBodyLimit int64 = 64 << 20

var bodyLimitUnits = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
}

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address     string               `yaml:"address"`
	MaxBodySize string               `yaml:"maxBodySize"`
	Logging     config.LoggingConfig `yaml:"logging"`
	// Config is the property configuration whose common section is used to
	// recalculate saved scenarios. A relative path is resolved against the
	// directory of the server config file.
	Config        string `yaml:"config"`
	bodySizeBytes int64
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error. A property config named by the file
// must exist and be a regular file.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Address:       constants.DefaultServerAddress,
		MaxBodySize:   strconv.FormatInt(constants.DefaultMaxBodySizeBytes, 10),
		bodySizeBytes: constants.DefaultMaxBodySizeBytes,
	}

	if path == "" {
		cfg.Config = constants.DefaultConfigFile
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg.Config = constants.DefaultConfigFile
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("server config %s: %w", path, err)
	}
	return cfg, nil
}

// BodySizeBytes returns the request body limit in bytes.
func (c *Config) BodySizeBytes() int64 {
	return c.bodySizeBytes
}

// SetBodySizeBytes overrides the request body limit.
func (c *Config) SetBodySizeBytes(size int64) {
	if size > 0 {
		c.bodySizeBytes = size
		c.MaxBodySize = strconv.FormatInt(size, 10)
	}
}

func (c *Config) normalize(baseDir string) error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}

	limit, err := ParseBodyLimit(c.MaxBodySize)
	if err != nil {
		return err
	}
	c.bodySizeBytes = limit

	if c.Config == "" {
		c.Config = constants.DefaultConfigFile
		return nil
	}
	if !filepath.IsAbs(c.Config) {
		c.Config = filepath.Join(baseDir, c.Config)
	}
	return checkPropertyConfig(c.Config)
}

func checkPropertyConfig(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("property config: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("property config %s is not a regular file", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("property config: %w", err)
	}
	return f.Close()
}

// ParseBodyLimit converts a request body limit such as "256K" or "2MB" into
// bytes. An empty value selects the default limit.
func ParseBodyLimit(value string) (int64, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return constants.DefaultMaxBodySizeBytes, nil
	}

	unit := strings.TrimLeft(trimmed, "0123456789")
	digits := strings.TrimSpace(strings.TrimSuffix(trimmed, unit))
	if digits == "" {
		return 0, fmt.Errorf("invalid body limit %q", value)
	}
	multiplier, ok := bodyLimitUnits[strings.TrimSpace(unit)]
	if !ok {
		return 0, fmt.Errorf("unsupported body limit unit %q", strings.TrimSpace(unit))
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid body limit %q: %w", value, err)
	}
	if n == 0 {
		return constants.DefaultMaxBodySizeBytes, nil
	}
	if n > maxBodyLimit/multiplier {
		return 0, fmt.Errorf("body limit %q exceeds %d bytes", value, maxBodyLimit)
	}
	return n * multiplier, nil
}
