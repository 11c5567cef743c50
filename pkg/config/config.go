// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

const (
	envServiceURL             = "ZKIT_SERVICE_URL"
	envAdminKey               = "ZKIT_ADMIN_KEY"
	envTenantID               = "ZKIT_TENANT_ID"
	envListenAddr             = "ZKIT_LISTEN_ADDR"
	envRequestTimeout         = "ZKIT_REQUEST_TIMEOUT"
	envLogLevel               = "ZKIT_LOG_LEVEL"
	envServerReadTimeout      = "ZKIT_SERVER_READ_TIMEOUT"
	envServerWriteTimeout     = "ZKIT_SERVER_WRITE_TIMEOUT"
	envServerIdleTimeout      = "ZKIT_SERVER_IDLE_TIMEOUT"
	envGracefulShutdown       = "ZKIT_GRACEFUL_SHUTDOWN"
	defaultListenAddr         = "127.0.0.1:8080"
	defaultRequestTimeout     = 15 * time.Second
	defaultLogLevel           = "info"
	defaultServerReadTimeout  = 30 * time.Second
	defaultServerWriteTimeout = 30 * time.Second
	defaultServerIdleTimeout  = 120 * time.Second
	defaultGracefulShutdown   = 10 * time.Second
)

// Config captures runtime settings for the admin client and the local
// signing proxy. Admin key and service URL are validated when the client is
// built, not here.
type Config struct {
	ServiceURL              string
	AdminKey                string
	TenantID                string
	ListenAddr              string
	RequestTimeout          time.Duration
	LogLevel                string
	ServerReadTimeout       time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	GracefulShutdownTimeout time.Duration
}

// Load reads configuration from environment variables and checks that the
// required values are present.
func Load() (Config, error) {
	serviceURL := strings.TrimSpace(os.Getenv(envServiceURL))
	if serviceURL == "" {
		return Config{}, errors.New("ZKIT_SERVICE_URL is required")
	}

	adminKey := strings.TrimSpace(os.Getenv(envAdminKey))
	if adminKey == "" {
		return Config{}, errors.New("ZKIT_ADMIN_KEY is required")
	}

	cfg := Config{
		ServiceURL:              serviceURL,
		AdminKey:                adminKey,
		TenantID:                strings.TrimSpace(os.Getenv(envTenantID)),
		ListenAddr:              getString(envListenAddr, defaultListenAddr),
		RequestTimeout:          getDuration(envRequestTimeout, defaultRequestTimeout),
		LogLevel:                strings.ToLower(getString(envLogLevel, defaultLogLevel)),
		ServerReadTimeout:       getDuration(envServerReadTimeout, defaultServerReadTimeout),
		ServerWriteTimeout:      getDuration(envServerWriteTimeout, defaultServerWriteTimeout),
		ServerIdleTimeout:       getDuration(envServerIdleTimeout, defaultServerIdleTimeout),
		GracefulShutdownTimeout: getDuration(envGracefulShutdown, defaultGracefulShutdown),
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
