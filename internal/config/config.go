// Package config loads and exposes application configuration (TOML).
package config

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath     = "config.toml"
	DefaultHTTPAddr       = ":8080"
	DefaultJWTExpiresIn   = "24h"
	DefaultStorageBackend = "local"
	DefaultLocalBasePath  = "data/images"
	DefaultAllowedOrigins = "http://localhost:4200"
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log     LogConfig     `toml:"log"`
	Server  ServerConfig  `toml:"server"`
	Auth    AuthConfig    `toml:"auth"`
	CORS    CORSConfig    `toml:"cors"`
	Storage StorageConfig `toml:"storage"`
	Users   []UserConfig  `toml:"users"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the HTTP server listen address.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// AuthConfig holds JWT secret and token expiry (e.g. 24h).
type AuthConfig struct {
	JWTSecret    string `toml:"jwt_secret"`
	JWTExpiresIn string `toml:"jwt_expires_in"`
}

// ExpiresIn parses the configured token expiry, falling back to the default
// when the field is missing or malformed.
func (c AuthConfig) ExpiresIn() time.Duration {
	raw := c.JWTExpiresIn
	if raw == "" {
		raw = DefaultJWTExpiresIn
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		fallback, _ := time.ParseDuration(DefaultJWTExpiresIn)
		return fallback
	}
	return d
}

// CORSConfig holds the comma-separated list of allowed cross-origin origins.
type CORSConfig struct {
	AllowedOrigins string `toml:"allowed_origins"`
}

// Origins returns the allowed origins as a trimmed slice.
func (c CORSConfig) Origins() []string {
	raw := c.AllowedOrigins
	if raw == "" {
		raw = DefaultAllowedOrigins
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// StorageConfig selects the image storage backend and its parameters.
// Backend is "local" or "minio"; the choice is fixed at process start.
type StorageConfig struct {
	Backend      string      `toml:"backend"`
	BasePath     string      `toml:"base_path"`
	ResetOnStart bool        `toml:"reset_on_start"`
	Minio        MinioConfig `toml:"minio"`
}

// MinioConfig holds the object store endpoint, credentials, and bucket.
type MinioConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	UseSSL    bool   `toml:"use_ssl"`
}

// UserConfig is one entry of the static user list. PasswordHash is a bcrypt hash.
type UserConfig struct {
	Username     string `toml:"username"`
	PasswordHash string `toml:"password_hash"`
}

// Load reads and parses the TOML config file at path, applies default values
// for missing fields, and then applies environment overrides for secrets.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Auth: AuthConfig{
			JWTExpiresIn: DefaultJWTExpiresIn,
		},
		CORS: CORSConfig{
			AllowedOrigins: DefaultAllowedOrigins,
		},
		Storage: StorageConfig{
			Backend:  DefaultStorageBackend,
			BasePath: DefaultLocalBasePath,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv lets secret material come from the environment instead of the config file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("METERLOG_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("METERLOG_MINIO_ACCESS_KEY"); v != "" {
		cfg.Storage.Minio.AccessKey = v
	}
	if v := os.Getenv("METERLOG_MINIO_SECRET_KEY"); v != "" {
		cfg.Storage.Minio.SecretKey = v
	}
}
