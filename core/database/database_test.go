package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConnect(t *testing.T) {
	t.Run("Invalid Connection", func(t *testing.T) {
		cfg := Config{
			Host:           "localhost",
			Port:           9999, // Unused port
			User:           "root",
			Password:       "wrongpassword",
			Name:           "seed",
			TimeoutSeconds: 1,
		}

		db, err := Connect(cfg, nil)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("Unsupported Driver", func(t *testing.T) {
		db, err := Connect(Config{Driver: "oracle"}, nil)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("SQLite With Zap Logger", func(t *testing.T) {
		db, err := Connect(Config{Driver: "sqlite", Name: ":memory:", LogLevel: "error"}, zap.NewNop())
		require.NoError(t, err)
		require.NotNil(t, db)
		assert.NoError(t, db.Exec("SELECT 1").Error)
	})
}
