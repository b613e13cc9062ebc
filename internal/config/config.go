package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DBPath      string `toml:"db_path"`
	ExportDir   string `toml:"export_dir"`
	LogFile     string `toml:"log_file"` // "-" logs to stderr
	LogLevel    string `toml:"log_level"`
	LogFormat   string `toml:"log_format"`
	Matcher     string `toml:"matcher"`
	MaxFileSize int64  `toml:"max_file_size"`
}

// DefaultMaxFileSize caps uploads at 10MB.
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// Dir returns the directory holding config.toml and the default database.
func Dir(home string) string {
	return filepath.Join(home, ".config", "pv")
}

// Load builds the config from defaults, ~/.config/pv/config.toml and PV_*
// environment variables, in increasing priority.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(home, filepath.Join(Dir(home), "config.toml"))
}

// LoadFrom is Load with an explicit home directory and config file path.
func LoadFrom(home, cfgPath string) (*Config, error) {
	cfg := &Config{
		DBPath:      filepath.Join(Dir(home), "pv.db"),
		ExportDir:   ".",
		LogFile:     filepath.Join(Dir(home), "pv.log"),
		LogLevel:    "info",
		LogFormat:   "text",
		Matcher:     "slug",
		MaxFileSize: DefaultMaxFileSize,
	}

	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	// expand ~ in paths
	cfg.DBPath = expandHome(cfg.DBPath, home)
	cfg.ExportDir = expandHome(cfg.ExportDir, home)
	cfg.LogFile = expandHome(cfg.LogFile, home)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"PV_DB_PATH":    &cfg.DBPath,
		"PV_EXPORT_DIR": &cfg.ExportDir,
		"PV_LOG_FILE":   &cfg.LogFile,
		"PV_LOG_LEVEL":  &cfg.LogLevel,
		"PV_LOG_FORMAT": &cfg.LogFormat,
		"PV_MATCHER":    &cfg.Matcher,
	}
	for name, dst := range strs {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("PV_MAX_FILE_SIZE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid value for PV_MAX_FILE_SIZE=%q: %w", v, err)
		}
		cfg.MaxFileSize = n
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []string

	if c.DBPath == "" {
		errs = append(errs, "db_path is required")
	}
	if c.MaxFileSize < 0 {
		errs = append(errs, "max_file_size must be non-negative")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log_level (%q) must be one of: debug, info, warn, error", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log_format (%q) must be one of: text, json", c.LogFormat))
	}
	switch strings.ToLower(c.Matcher) {
	case "slug", "always-yes", "always-no":
	default:
		errs = append(errs, fmt.Sprintf("matcher (%q) must be one of: slug, always-yes, always-no", c.Matcher))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
