// Package config loads server settings from an optional YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr     string   `yaml:"listen_addr"`
	DatabasePath   string   `yaml:"database_path"`
	Workers        int      `yaml:"workers"`
	MaxFileSize    int64    `yaml:"max_file_size"`
	IgnorePatterns []string `yaml:"ignore_patterns"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func Default() Config {
	return Config{
		ListenAddr:     ":8080",
		DatabasePath:   "codegraph.db",
		Workers:        8,
		MaxFileSize:    2 << 20,
		AllowedOrigins: []string{"http://localhost:3000"},
	}
}

// Load reads the config at path, overlaying it on the defaults. A missing
// file is not an error; the defaults are returned as is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
