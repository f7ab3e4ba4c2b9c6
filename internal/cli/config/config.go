// Package config loads the optional boxup.yaml that overrides download
// sources and the base package list.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Packages              []string `yaml:"packages"`
	ProxyInstallerURL     string   `yaml:"proxyInstallerURL"`
	ForwarderInstallerURL string   `yaml:"forwarderInstallerURL"`
	GeositeMirrors        []string `yaml:"geositeMirrors"`
	GeoipURL              string   `yaml:"geoipURL"`
	BlocklistURL          string   `yaml:"blocklistURL"`
	BenchURL              string   `yaml:"benchURL"`
}

// Load decodes the config file. An empty path returns (nil, nil); a path
// given explicitly must exist.
func Load(path string) (*Config, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, nil
	}
	expanded, err := expandPath(trimmed)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
