// Package config loads modeling assumptions and server settings.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/MonkeysPaw2025/BetterDeal/pkg/core/analysis"
)

// Config is the full server/CLI configuration. Assumptions come from a yaml
// file; credentials and addresses come from the environment.
type Config struct {
	RentCastAPIKey string
	RedisAddr      string
	Port           string
	Assumptions    analysis.Assumptions
}

// FromEnv reads the environment-sourced settings. Defaults: port 8080, no
// Redis (in-process cache).
func FromEnv() Config {
	cfg := Config{
		RentCastAPIKey: os.Getenv("RENTCAST_API_KEY"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		Port:           os.Getenv("PORT"),
		Assumptions:    analysis.DefaultAssumptions(),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	return cfg
}

// LoadAssumptions overlays the yaml assumptions file onto the defaults.
// A missing file is not an error; the defaults stand.
func LoadAssumptions(path string) (analysis.Assumptions, error) {
	assume := analysis.DefaultAssumptions()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return assume, nil
		}
		return assume, fmt.Errorf("read assumptions file: %w", err)
	}

	if err := yaml.Unmarshal(data, &assume); err != nil {
		return analysis.DefaultAssumptions(), fmt.Errorf("parse assumptions file %s: %w", path, err)
	}
	return assume, nil
}
