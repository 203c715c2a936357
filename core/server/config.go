package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// ReadTimeoutSeconds bounds reading a request, zero disables it.
	ReadTimeoutSeconds int `mapstructure:"read_timeout_seconds" default:"30"`
	// WriteTimeoutSeconds bounds writing a response, zero disables it.
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" default:"60"`
	// BodyLimitMB caps request bodies (rule imports can be large).
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"8"`
}

// Address returns the listen address for the configured port.
func (c Config) Address() string {
	return ":" + c.Port
}

// FiberConfig translates the server settings into a fiber configuration.
func (c Config) FiberConfig() fiber.Config {
	cfg := fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           time.Duration(c.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:          time.Duration(c.WriteTimeoutSeconds) * time.Second,
	}
	if c.BodyLimitMB > 0 {
		cfg.BodyLimit = c.BodyLimitMB * 1024 * 1024
	}
	return cfg
}
