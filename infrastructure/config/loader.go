package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Admission AdmissionConfig `yaml:"admission"`
	Audio     AudioConfig     `yaml:"audio"`
	YtDlp     YtDlpConfig     `yaml:"ytdlp"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig contains ephemeral storage settings
type StorageConfig struct {
	Root             string `yaml:"root"`
	RetentionSeconds int    `yaml:"retention_seconds"`
}

// AdmissionConfig contains pre-download admission settings
type AdmissionConfig struct {
	// MaxSourceBytes is the size ceiling for probed sources.
	// Zero disables the check.
	MaxSourceBytes int64 `yaml:"max_source_bytes"`
}

// AudioConfig contains transcode target settings
type AudioConfig struct {
	Codec   string `yaml:"codec"`
	Quality string `yaml:"quality"`
}

// YtDlpConfig contains settings for the external extraction tool
type YtDlpConfig struct {
	Path string `yaml:"path"`
}

// Default returns the configuration used when no config file exists
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Storage: StorageConfig{
			Root:             "downloads",
			RetentionSeconds: 600,
		},
		Admission: AdmissionConfig{
			MaxSourceBytes: 13 << 20, // 13 MiB
		},
		Audio: AudioConfig{
			Codec:   "mp3",
			Quality: "192",
		},
		YtDlp: YtDlpConfig{
			Path: "yt-dlp",
		},
	}
}

// Retention returns the retention window as a duration
func (c *Config) Retention() time.Duration {
	return time.Duration(c.Storage.RetentionSeconds) * time.Second
}

// Addr returns the server listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Load reads and parses the configuration from the specified YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
