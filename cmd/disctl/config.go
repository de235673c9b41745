package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"example.com/disgate/internal/common"
)

type config struct {
	Logs  common.LogConfig `yaml:"logs"`
	Enums string           `yaml:"enums"`
	Rules string           `yaml:"rules"`
	// DiagIncludeTimestamps overrides the --diag-include-timestamps default.
	DiagIncludeTimestamps *bool `yaml:"diagIncludeTimestamps"`
}

// loadConfig reads the YAML configuration at path. Relative paths inside the
// file are resolved against its directory. An empty path yields defaults.
func loadConfig(path string) (config, error) {
	var cfg config
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, err
	}
	baseDir := filepath.Dir(path)
	resolvePath := func(p string) string {
		p = strings.TrimSpace(p)
		if p == "" {
			return ""
		}
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Clean(filepath.Join(baseDir, p))
	}
	cfg.Enums = resolvePath(cfg.Enums)
	cfg.Rules = resolvePath(cfg.Rules)
	cfg.Logs.Path = resolvePath(cfg.Logs.Path)
	if cfg.Logs.Path != "" {
		if cfg.Logs.MaxSizeMB <= 0 {
			cfg.Logs.MaxSizeMB = 25
		}
		if cfg.Logs.MaxAgeDays <= 0 {
			cfg.Logs.MaxAgeDays = 7
		}
		if cfg.Logs.MaxBackups <= 0 {
			cfg.Logs.MaxBackups = 5
		}
	}
	return cfg, nil
}

// firstNonEmpty returns the flag value when set, otherwise the config value.
func firstNonEmpty(flagValue, configValue string) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	return configValue
}
