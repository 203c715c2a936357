package dataquality

import (
	"context"
	"testing"

	"quality-admin/core/database"
	"quality-admin/core/storage/mocks"
	"quality-admin/feature/dataquality/archive"
	"quality-admin/feature/dataquality/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func testConfig() Config {
	return Config{Enabled: true, SessionTTLMinutes: 30, ArchiveOnSave: true, ArchivePrefix: "snapshots"}
}

// setupService returns a service over an in-memory database with the default labels of
// organization 1 seeded. client may be nil to disable the archive.
func setupService(t *testing.T, client *mocks.Client) (*Service, *gorm.DB) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"}, nil)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(repository.Models()...))

	var snapshots *archive.Archive
	if client != nil {
		snapshots = archive.New(client, "dq", "snapshots", 0, zap.NewNop())
	}

	svc := NewService(db, snapshots, testConfig(), zap.NewNop())
	_, err = svc.EnsureLabels(context.Background(), 1)
	require.NoError(t, err)
	return svc, db
}
