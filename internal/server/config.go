package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults applied to unset config fields.
const (
	defaultListen      = ":8080"
	defaultMaxUploadMB = 50
)

// Config is the server configuration, read from a YAML file.
type Config struct {
	// Listen is the address the HTTP server binds to.
	Listen string `yaml:"listen"`

	// DataDir is where uploads and generated documents are kept.
	DataDir string `yaml:"data_dir"`

	// RedisAddr enables Redis-backed generation history when set.
	// Without it history lives in memory and is lost on restart.
	RedisAddr string `yaml:"redis_addr,omitempty"`
	RedisDB   int    `yaml:"redis_db,omitempty"`

	// AuditLog is the path of the JSONL audit log. Empty disables
	// audit logging.
	AuditLog string `yaml:"audit_log,omitempty"`

	// MaxUploadMB bounds the size of a single request body.
	MaxUploadMB int64 `yaml:"max_upload_mb,omitempty"`
}

// LoadConfig reads a YAML config file and returns a validated Config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("config %s: data_dir is required", path)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.MaxUploadMB <= 0 {
		c.MaxUploadMB = defaultMaxUploadMB
	}
}
