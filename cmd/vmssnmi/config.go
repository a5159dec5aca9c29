package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the vmssnmi configuration file
// (~/.config/vmssnmi/config.yaml). JSON is a pointer so "not set" can be told
// apart from an explicit false.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	JSON      *bool  `yaml:"json"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "vmssnmi", "config.yaml")
}

// LoadConfig reads the config file. Returns a zero Config if the file doesn't
// exist or cannot be parsed.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// applyConfig applies config file defaults to flags the user did not set
// explicitly. CLI flags always win.
func applyConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
	if cfg.JSON != nil && !c.IsSet("json") {
		jsonOut = *cfg.JSON
	}
}
