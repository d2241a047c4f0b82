package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the configuration for the game
type Config struct {
	Width            int     `json:"width" yaml:"width"`
	Height           int     `json:"height" yaml:"height"`
	Margin           int     `json:"margin" yaml:"margin"`
	Unit             int     `json:"unit" yaml:"unit"`
	Speed            string  `json:"speed" yaml:"speed"`
	AliveProbability float64 `json:"alive_probability" yaml:"alive_probability"`
	Seed             int64   `json:"seed" yaml:"seed"`
	StartFile        string  `json:"start_file" yaml:"start_file"`
	MaxGenerations   int     `json:"max_generations" yaml:"max_generations"`
	MetricsAddr      string  `json:"metrics_addr" yaml:"metrics_addr"`
	LogLevel         string  `json:"log_level" yaml:"log_level"`
	Color            bool    `json:"color" yaml:"color"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Width:            60,
		Height:           40,
		Margin:           5,
		Unit:             10,
		Speed:            "Normal",
		AliveProbability: 0.2,
		LogLevel:         "info",
		Color:            true,
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, config.Validate()
}

// Validate rejects values the engine cannot work with
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return errors.Errorf("[Validate] grid size must be positive, got %dx%d", c.Width, c.Height)
	case c.Margin < 0:
		return errors.Errorf("[Validate] margin must not be negative, got %d", c.Margin)
	case c.Unit <= 0:
		return errors.Errorf("[Validate] unit must be positive, got %d", c.Unit)
	case c.AliveProbability < 0 || c.AliveProbability > 1:
		return errors.Errorf("[Validate] alive_probability must be within [0,1], got %v", c.AliveProbability)
	case c.MaxGenerations < 0:
		return errors.Errorf("[Validate] max_generations must not be negative, got %d", c.MaxGenerations)
	}
	return nil
}
