// filepath: internal/config/config.go
package config

import (
	"fmt"
	"lanupload/internal/formdata"
	"lanupload/internal/shared"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Storage backends.
const (
	BackendDisk = "disk"
	BackendS3   = "s3"
)

// Config holds the application's configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Storage  StorageConfig  `toml:"storage"`
	Logging  LoggingConfig  `toml:"logging"`
	Announce AnnounceConfig `toml:"announce"`

	// Runtime computed values
	Limits            formdata.Limits `toml:"-"`
	ReadHeaderTimeout time.Duration   `toml:"-"`
	SweepInterval     time.Duration   `toml:"-"`
	SweepMaxAge       time.Duration   `toml:"-"`
}

// ServerConfig holds the HTTP listener and upload limit settings.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	MaxTotalSize      string `toml:"max_total_size"`  // whole request payload, e.g. "10GB"
	MaxFileSize       string `toml:"max_file_size"`   // the "file" field alone
	MaxMemorySize     string `toml:"max_memory_size"` // per-field in-memory buffer before spilling to disk
	ReadHeaderTimeout string `toml:"read_header_timeout"`
}

// StorageConfig selects and configures where uploads are written.
type StorageConfig struct {
	Backend       string   `toml:"backend"`
	Root          string   `toml:"root"`
	TempDir       string   `toml:"temp_dir"`
	SweepInterval string   `toml:"sweep_interval"`
	SweepMaxAge   string   `toml:"sweep_max_age"`
	S3            S3Config `toml:"s3"`
}

// S3Config holds the S3-compatible object store settings.
type S3Config struct {
	Bucket    string `toml:"bucket"`
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Prefix    string `toml:"prefix"`
}

// LoggingConfig holds the logging configuration.
type LoggingConfig struct {
	Level        string `toml:"level"`
	AuditEnabled bool   `toml:"audit_enabled"`
}

// AnnounceConfig controls the startup banner and QR code.
type AnnounceConfig struct {
	Enabled    bool   `toml:"enabled"`
	PublicHost string `toml:"public_host"`
}

// Default returns a configuration with every field set to its default.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8000,
			MaxTotalSize:      "10GB",
			MaxFileSize:       "10GB",
			MaxMemorySize:     "8MB",
			ReadHeaderTimeout: "10s",
		},
		Storage: StorageConfig{
			Backend:       BackendDisk,
			Root:          ".",
			SweepInterval: "1h",
			SweepMaxAge:   "24h",
			S3:            S3Config{Region: "us-east-1"},
		},
		Logging:  LoggingConfig{Level: "info"},
		Announce: AnnounceConfig{Enabled: true},
	}
}

// LoadConfig loads the configuration from a TOML file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	config := Default()
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig writes the configuration to a TOML file.
func SaveConfig(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrorCreateFile, err)
	}
	defer f.Close()
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrorEncodeFile, err)
	}
	return nil
}

// ParseAndValidate processes configuration strings into runtime values.
// It fills missing values with defaults and parses human-readable sizes and durations.
func (c *Config) ParseAndValidate() error {
	c.applyDefaults()

	total, err := parseSize(c.Server.MaxTotalSize)
	if err != nil {
		return fmt.Errorf("invalid max_total_size: %w", err)
	}
	file, err := parseSize(c.Server.MaxFileSize)
	if err != nil {
		return fmt.Errorf("invalid max_file_size: %w", err)
	}
	memory, err := parseSize(c.Server.MaxMemorySize)
	if err != nil {
		return fmt.Errorf("invalid max_memory_size: %w", err)
	}

	c.Limits = formdata.Limits{
		MaxTotalBytes: total,
		MaxFileBytes:  file,
		MemoryBytes:   memory,
		TempDir:       c.Storage.TempDir,
	}
	if err := c.Limits.Validate(); err != nil {
		return fmt.Errorf("invalid upload limits: %w", err)
	}

	if c.ReadHeaderTimeout, err = shared.ParseDuration(c.Server.ReadHeaderTimeout); err != nil {
		return fmt.Errorf("invalid read_header_timeout: %w", err)
	}
	if c.SweepInterval, err = shared.ParseDuration(c.Storage.SweepInterval); err != nil {
		return fmt.Errorf("invalid sweep_interval: %w", err)
	}
	if c.SweepMaxAge, err = shared.ParseDuration(c.Storage.SweepMaxAge); err != nil {
		return fmt.Errorf("invalid sweep_max_age: %w", err)
	}

	switch c.Storage.Backend {
	case BackendDisk:
		if sameDir(c.Storage.Root, c.spillDir()) {
			return fmt.Errorf("storage.temp_dir must differ from storage.root, spilled files there are swept by housekeeping")
		}
	case BackendS3:
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage backend %q requires storage.s3.bucket", BackendS3)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}

	return nil
}

// ListenAddr is the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) spillDir() string {
	if c.Storage.TempDir == "" {
		return os.TempDir()
	}
	return c.Storage.TempDir
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.MaxTotalSize == "" {
		c.Server.MaxTotalSize = d.Server.MaxTotalSize
	}
	if c.Server.MaxFileSize == "" {
		c.Server.MaxFileSize = d.Server.MaxFileSize
	}
	if c.Server.MaxMemorySize == "" {
		c.Server.MaxMemorySize = d.Server.MaxMemorySize
	}
	if c.Server.ReadHeaderTimeout == "" {
		c.Server.ReadHeaderTimeout = d.Server.ReadHeaderTimeout
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = d.Storage.Backend
	}
	c.Storage.Backend = strings.ToLower(c.Storage.Backend)
	if c.Storage.Root == "" {
		c.Storage.Root = d.Storage.Root
	}
	if c.Storage.SweepInterval == "" {
		c.Storage.SweepInterval = d.Storage.SweepInterval
	}
	if c.Storage.SweepMaxAge == "" {
		c.Storage.SweepMaxAge = d.Storage.SweepMaxAge
	}
	if c.Storage.S3.Region == "" {
		c.Storage.S3.Region = d.Storage.S3.Region
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
}

var sizeRegex = regexp.MustCompile(`(?i)^(\d+)\s*(K|M|G|T)?B?$`)

// parseSize parses a size string (e.g., "100G", "500MB") into bytes.
func parseSize(sizeStr string) (int64, error) {
	matches := sizeRegex.FindStringSubmatch(strings.TrimSpace(sizeStr))

	if len(matches) < 2 {
		return 0, fmt.Errorf("%w: %s", shared.ErrInvalidSize, sizeStr)
	}

	value, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", shared.ErrInvalidSize, matches[1])
	}

	unit := ""
	if len(matches) > 2 {
		unit = strings.ToUpper(matches[2])
	}

	switch unit {
	case "T":
		return value * (1 << 40), nil
	case "G":
		return value * (1 << 30), nil
	case "M":
		return value * (1 << 20), nil
	case "K":
		return value * (1 << 10), nil
	default:
		return value, nil
	}
}
