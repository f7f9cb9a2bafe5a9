// Package config reads process-wide configuration from environment
// variables, with documented defaults and an optional YAML overlay for
// local development, mirroring the env-first / YAML-overlay layering used
// elsewhere in the pricing stack this engine was ported from.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/drivee/bidprice-service/internal/apierr"
)

// Config is the fully-resolved process configuration.
type Config struct {
	SecretKey                string `yaml:"secret_key"`
	AccessTokenExpireMinutes int    `yaml:"access_token_expire_minutes"`

	TestUserEmail    string `yaml:"test_user_email"`
	TestUserPassword string `yaml:"test_user_password"`
	BcryptCost       int    `yaml:"bcrypt_cost"`

	BackendAllowOrigins []string `yaml:"backend_allow_origins"`

	ModelPath            string `yaml:"model_path"`
	ScanPoints           int    `yaml:"scan_points"`
	AllowStubFallback    bool   `yaml:"allow_stub_fallback"`
	RequestTimeoutSecond int    `yaml:"request_timeout_seconds"`

	HistoryBackend      string `yaml:"history_backend"` // "file" | "postgres"
	UserHistoryPath     string `yaml:"user_history_path"`
	DriverHistoryPath   string `yaml:"driver_history_path"`
	HistoryDSN          string `yaml:"history_dsn"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	ServiceVersion string `yaml:"service_version"`
	Environment    string `yaml:"environment"`

	Port int `yaml:"port"`
}

const minScanPoints = 20

// Load reads configuration from environment variables, optionally overlaid
// by a YAML file named in PRICING_CONFIG_FILE, with documented defaults.
// Environment variables always win over the YAML overlay when both are set.
func Load() (*Config, error) {
	cfg := &Config{
		SecretKey:                "super-secret-key",
		AccessTokenExpireMinutes: 60,
		TestUserEmail:            "demo@example.com",
		TestUserPassword:         "demo",
		BcryptCost:               10,
		BackendAllowOrigins:      []string{"*"},
		ModelPath:                "model_enhanced.json",
		ScanPoints:               200,
		AllowStubFallback:        false,
		RequestTimeoutSecond:     10,
		HistoryBackend:           "file",
		UserHistoryPath:          "user_history.jsonl",
		DriverHistoryPath:        "driver_history.jsonl",
		LogLevel:                 "info",
		LogFormat:                "json",
		ServiceVersion:           "0.1.0",
		Environment:              "development",
		Port:                     8080,
	}

	if path := os.Getenv("PRICING_CONFIG_FILE"); path != "" {
		if err := overlayYAML(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := overlayEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.ScanPoints < minScanPoints {
		cfg.ScanPoints = minScanPoints
	}
	if cfg.HistoryBackend != "file" && cfg.HistoryBackend != "postgres" {
		return nil, apierr.New(apierr.KindConfig, fmt.Sprintf("invalid PRICING_HISTORY_BACKEND: %q", cfg.HistoryBackend))
	}
	if cfg.HistoryBackend == "postgres" && cfg.HistoryDSN == "" {
		return nil, apierr.New(apierr.KindConfig, "PRICING_HISTORY_DSN is required when PRICING_HISTORY_BACKEND=postgres")
	}

	return cfg, nil
}

func overlayYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apierr.Wrap(apierr.KindConfig, "failed to read config file", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return apierr.Wrap(apierr.KindConfig, "failed to parse config file", err)
	}
	return nil
}

func overlayEnv(cfg *Config) error {
	if v, ok := os.LookupEnv("SECRET_KEY"); ok {
		cfg.SecretKey = v
	}
	if v, ok := os.LookupEnv("ACCESS_TOKEN_EXPIRE_MINUTES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apierr.Wrap(apierr.KindConfig, "invalid ACCESS_TOKEN_EXPIRE_MINUTES", err)
		}
		cfg.AccessTokenExpireMinutes = n
	}
	if v, ok := os.LookupEnv("TEST_USER_EMAIL"); ok {
		cfg.TestUserEmail = v
	}
	if v, ok := os.LookupEnv("TEST_USER_PASSWORD"); ok {
		cfg.TestUserPassword = v
	}
	if v, ok := os.LookupEnv("PRICING_BCRYPT_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apierr.Wrap(apierr.KindConfig, "invalid PRICING_BCRYPT_COST", err)
		}
		cfg.BcryptCost = n
	}
	if v, ok := os.LookupEnv("BACKEND_ALLOW_ORIGINS"); ok {
		cfg.BackendAllowOrigins = splitCSV(v)
	}
	if v, ok := os.LookupEnv("PRICING_MODEL_PATH"); ok {
		cfg.ModelPath = v
	}
	if v, ok := os.LookupEnv("PRICING_SCAN_POINTS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apierr.Wrap(apierr.KindConfig, "invalid PRICING_SCAN_POINTS", err)
		}
		cfg.ScanPoints = n
	}
	if v, ok := os.LookupEnv("PRICING_ML_ALLOW_STUB_FALLBACK"); ok {
		cfg.AllowStubFallback = parseBool(v)
	}
	if v, ok := os.LookupEnv("PRICING_REQUEST_TIMEOUT_SECONDS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apierr.Wrap(apierr.KindConfig, "invalid PRICING_REQUEST_TIMEOUT_SECONDS", err)
		}
		cfg.RequestTimeoutSecond = n
	}
	if v, ok := os.LookupEnv("PRICING_HISTORY_BACKEND"); ok {
		cfg.HistoryBackend = v
	}
	if v, ok := os.LookupEnv("PRICING_USER_HISTORY_PATH"); ok {
		cfg.UserHistoryPath = v
	}
	if v, ok := os.LookupEnv("PRICING_DRIVER_HISTORY_PATH"); ok {
		cfg.DriverHistoryPath = v
	}
	if v, ok := os.LookupEnv("PRICING_HISTORY_DSN"); ok {
		cfg.HistoryDSN = v
	}
	if v, ok := os.LookupEnv("PRICING_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv("PRICING_LOG_FORMAT"); ok {
		cfg.LogFormat = v
	}
	if v, ok := os.LookupEnv("IAROS_ENV"); ok {
		cfg.Environment = v
	}
	if v, ok := os.LookupEnv("PORT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apierr.Wrap(apierr.KindConfig, "invalid PORT", err)
		}
		cfg.Port = n
	}
	return nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
