// Package config reads the server configuration file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/always-cache/fwserve/metrics"
	"github.com/always-cache/fwserve/nonce"
	responseheaders "github.com/always-cache/fwserve/pkg/response-headers"
	"github.com/always-cache/fwserve/policy"
	"github.com/always-cache/fwserve/resource"
	"github.com/always-cache/fwserve/store"

	"gopkg.in/yaml.v3"
)

// Store kinds.
const (
	StoreDir    = "dir"
	StoreSQLite = "sqlite"
	StoreS3     = "s3"
	StoreMemory = "memory"
)

type Config struct {
	Listen  string                 `yaml:"listen"`
	Mount   string                 `yaml:"mount"`
	Build   nonce.Snapshot         `yaml:"build"`
	Policy  policy.Config          `yaml:"policy"`
	Store   Store                  `yaml:"store"`
	Redis   Redis                  `yaml:"redis"`
	Headers responseheaders.Rules  `yaml:"headers"`
	Metrics metrics.ExporterConfig `yaml:"metrics"`
	Log     Log                    `yaml:"log"`
}

type Store struct {
	Kind string `yaml:"kind"`
	// Dir is the resource tree for the dir store.
	Dir string `yaml:"dir"`
	// SQLite is the bundle file for the sqlite store.
	SQLite string         `yaml:"sqlite"`
	S3     store.S3Config `yaml:"s3"`
}

// Redis configures the build snapshot watcher. It is disabled when Addr is empty.
type Redis struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Key      string        `yaml:"key"`
	Interval time.Duration `yaml:"interval"`
}

type Log struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// ValidationError reports an invalid configuration value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

// Default returns the configuration used for values missing from the file.
func Default() Config {
	return Config{
		Listen: ":8080",
		Mount:  resource.DefaultMount,
		Policy: policy.Config{
			LongExpire:  policy.DefaultLongExpire,
			ShortExpire: policy.DefaultShortExpire,
		},
		Store: Store{Kind: StoreDir, Dir: "."},
		Redis: Redis{Key: nonce.DefaultKey, Interval: nonce.DefaultInterval},
		Log:   Log{Level: "debug"},
	}
}

// Load reads filename on top of the defaults and validates the result.
func Load(filename string) (Config, error) {
	config := Default()
	configBytes, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	if err := yaml.Unmarshal(configBytes, &config); err != nil {
		return config, fmt.Errorf("parse %s: %w", filename, err)
	}
	return config, config.Validate()
}

func (c Config) Validate() error {
	if c.Listen == "" {
		return &ValidationError{Field: "listen", Reason: "must not be empty"}
	}
	if !strings.HasPrefix(c.Mount, "/") || strings.HasSuffix(c.Mount, "/") {
		return &ValidationError{Field: "mount", Reason: "must start with / and not end with /"}
	}
	if c.Policy.LongExpire < 0 || c.Policy.ShortExpire < 0 {
		return &ValidationError{Field: "policy", Reason: "expiry must not be negative"}
	}
	switch c.Store.Kind {
	case StoreDir:
		if c.Store.Dir == "" {
			return &ValidationError{Field: "store.dir", Reason: "required for dir store"}
		}
	case StoreSQLite:
		if c.Store.SQLite == "" {
			return &ValidationError{Field: "store.sqlite", Reason: "required for sqlite store"}
		}
	case StoreS3:
		if c.Store.S3.Bucket == "" {
			return &ValidationError{Field: "store.s3.bucket", Reason: "required for s3 store"}
		}
	case StoreMemory:
	default:
		return &ValidationError{Field: "store.kind", Reason: fmt.Sprintf("unknown store %q", c.Store.Kind)}
	}
	if c.Redis.Addr != "" && c.Redis.Interval <= 0 {
		return &ValidationError{Field: "redis.interval", Reason: "must be positive"}
	}
	if err := c.Headers.Validate(); err != nil {
		return &ValidationError{Field: "headers", Reason: err.Error()}
	}
	return nil
}

// Warnings lists settings that are valid but probably not intended.
func (c Config) Warnings() []string {
	var warnings []string
	if c.Build.Nonce == "" && c.Build.UID == "" && c.Redis.Addr == "" {
		warnings = append(warnings, "no build nonce and no redis watcher: nonced URLs are always served expired")
	}
	return warnings
}
