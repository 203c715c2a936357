package server_test

import (
	"testing"
	"time"

	"quality-admin/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Address(t *testing.T) {
	assert.Equal(t, ":8080", server.Config{Port: "8080"}.Address())
}

func TestConfig_FiberConfig(t *testing.T) {
	tests := []struct {
		name      string
		cfg       server.Config
		bodyLimit int
		read      time.Duration
	}{
		{"Defaults", server.Config{ReadTimeoutSeconds: 30, WriteTimeoutSeconds: 60, BodyLimitMB: 8}, 8 * 1024 * 1024, 30 * time.Second},
		{"NoBodyLimit", server.Config{}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := tt.cfg.FiberConfig()
			assert.True(t, fc.DisableStartupMessage)
			assert.Equal(t, tt.bodyLimit, fc.BodyLimit)
			assert.Equal(t, tt.read, fc.ReadTimeout)
		})
	}
}
