/*
config.go - Server configuration

PURPOSE:
  Loads server configuration from a YAML file with environment
  variable overrides (cleanenv). Every field has a default, so the
  server runs with no config file at all.

PRECEDENCE:
  1. Environment variables
  2. YAML file (when the path exists)
  3. env-default tags
*/
package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env            string   `yaml:"env" env:"APP_ENV" env-default:"dev"`
	DBPath         string   `yaml:"db_path" env:"DB_PATH" env-default:"planner.db"`
	ReportDays     int      `yaml:"report_days" env:"REPORT_DAYS" env-default:"7"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-default:"http://localhost:5173,http://localhost:8080"`
	HTTPServer     `yaml:"http_server"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"15s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// Load reads configuration from path. A missing file is not an error;
// environment variables and defaults still apply.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, err
			}
			return &cfg, nil
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
