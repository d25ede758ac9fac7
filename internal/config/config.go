// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and validates the BFF configuration from struct
// defaults, an optional YAML file, and environment variables, in that
// order of precedence.
package config

import "time"

// Environment names recognized by the default-allowlist selector.
const (
	EnvProduction  = "production"
	EnvStaging     = "staging"
	EnvDevelopment = "development"
)

// Config is the complete runtime configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Services ServicesConfig `koanf:"services"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// SecurityConfig configures request admission and authentication.
type SecurityConfig struct {
	// Environment selects built-in allowlist defaults when
	// CORSOrigins is unset.
	Environment string `koanf:"environment"`

	// CORSOrigins is the exact-match origin allowlist.
	CORSOrigins []string `koanf:"cors_origins"`

	// JWTSecret signs and verifies bearer tokens.
	JWTSecret string `koanf:"jwt_secret" validate:"required"`

	// JWTIssuer, when set, is enforced during verification.
	JWTIssuer string `koanf:"jwt_issuer"`

	// TokenExpiryWarning is the advisory-header threshold.
	TokenExpiryWarning time.Duration `koanf:"token_expiry_warning"`

	// RateLimit is requests per minute per client IP. Zero disables.
	RateLimit int `koanf:"rate_limit"`
}

// ServicesConfig configures backend routing.
type ServicesConfig struct {
	// InternalAPIURL is the base URL all backend services hang off.
	InternalAPIURL string `koanf:"internal_api_url" validate:"required,url"`

	// BFFAPIURL is this process's own public URL, used by the
	// circular-reference guard.
	BFFAPIURL string `koanf:"bff_api_url"`

	// InternalAPIKey authenticates the BFF to the internal gateway.
	InternalAPIKey string `koanf:"internal_api_key"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Defaults returns the baseline configuration before file and env
// overrides.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Security: SecurityConfig{
			Environment:        EnvDevelopment,
			TokenExpiryWarning: 5 * time.Minute,
			RateLimit:          300,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// defaultOrigins returns the built-in allowlist for an environment. Used
// only when no explicit allowlist is configured.
func defaultOrigins(environment string) []string {
	const dashboardOrigin = "https://dashboard.rds-ops.example.com"

	localDev := []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	switch environment {
	case EnvProduction:
		return []string{dashboardOrigin}
	case EnvStaging:
		return append([]string{"https://staging.dashboard.rds-ops.example.com"}, localDev...)
	case EnvDevelopment:
		return append(localDev, dashboardOrigin)
	default:
		return nil
	}
}
