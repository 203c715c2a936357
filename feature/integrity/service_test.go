package integrity

import (
	"context"
	"testing"

	"quality-admin/core/database"
	"quality-admin/core/storage"
	"quality-admin/core/storage/mocks"
	"quality-admin/feature/dataquality/repository"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testStorage = storage.Config{Bucket: "dq", Region: "us-east-1"}

func migratedDB(t *testing.T) *gorm.DB {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"}, nil)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(repository.Models()...))
	return db
}

func TestService_Schema(t *testing.T) {
	svc := NewService(nil, testStorage, "snapshots", migratedDB(t), zap.NewNop())

	report, err := svc.CheckSchema()
	require.NoError(t, err)
	assert.True(t, report.Matched)
	assert.Len(t, report.Tables, 2)
}

func TestService_Disabled(t *testing.T) {
	svc := NewService(nil, testStorage, "snapshots", nil, zap.NewNop())

	_, err := svc.CheckSchema()
	assert.ErrorIs(t, err, ErrDatabaseDisabled)

	_, err = svc.CheckArchive(context.Background())
	assert.ErrorIs(t, err, ErrStorageDisabled)

	assert.ErrorIs(t, svc.FixArchive(context.Background()), ErrStorageDisabled)
}

func TestService_Archive(t *testing.T) {
	m := new(mocks.Client)
	svc := NewService(m, testStorage, "snapshots", nil, zap.NewNop())
	ctx := context.Background()

	m.On("BucketExists", mock.Anything, "dq").Return(false, nil)
	m.On("MakeBucket", mock.Anything, "dq", minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil)
	m.On("PutObject", mock.Anything, "dq", "snapshots/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)

	report, err := svc.CheckArchive(ctx)
	require.NoError(t, err)
	assert.False(t, report.BucketExists)

	require.NoError(t, svc.FixArchive(ctx))
	m.AssertExpectations(t)
}
