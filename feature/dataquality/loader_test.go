package dataquality

import (
	"testing"

	"quality-admin/core/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoader(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"}, nil)
	require.NoError(t, err)

	feature := NewFeature(db, nil, testConfig(), zap.NewNop())
	assert.Equal(t, "dataquality", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NotNil(t, feature.Service())
	assert.NoError(t, feature.Load(fiber.New()))

	disabled := NewFeature(db, nil, Config{}, zap.NewNop())
	assert.False(t, disabled.IsEnabled())
}
