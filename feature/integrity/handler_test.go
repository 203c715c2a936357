package integrity

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"quality-admin/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestApp(t *testing.T, client *mocks.Client, db *gorm.DB) *fiber.App {
	app := fiber.New()
	var svc *Service
	if client == nil {
		svc = NewService(nil, testStorage, "snapshots", db, zap.NewNop())
	} else {
		svc = NewService(client, testStorage, "snapshots", db, zap.NewNop())
	}
	NewHandler(svc).RegisterRoutes(app)
	return app
}

func getJSON(t *testing.T, app *fiber.App, url string) (int, map[string]any) {
	resp, err := app.Test(httptest.NewRequest("GET", url, nil), -1)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHandleSchemaCheck(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		app := setupTestApp(t, nil, migratedDB(t))

		status, body := getJSON(t, app, "/integrity/schema")
		assert.Equal(t, 200, status)
		assert.Equal(t, true, body["matched"])
		assert.Equal(t, "sqlite", body["driver"])
	})

	t.Run("NoDatabase", func(t *testing.T) {
		app := setupTestApp(t, nil, nil)

		status, body := getJSON(t, app, "/integrity/schema")
		assert.Equal(t, 503, status)
		assert.Equal(t, ErrDatabaseDisabled.Error(), body["error"])
	})
}

func TestHandleArchiveCheck(t *testing.T) {
	t.Run("CheckOnly", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "dq").Return(true, nil)
		m.On("ListObjects", mock.Anything, "dq", mock.Anything).Return(mocks.ObjectChannel(
			minio.ObjectInfo{Key: "snapshots/"},
			minio.ObjectInfo{Key: "snapshots/1/20260101T100000Z-a.json"},
		))
		app := setupTestApp(t, m, nil)

		status, body := getJSON(t, app, "/integrity/archive")
		assert.Equal(t, 200, status)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, float64(1), body["snapshots"])
	})

	t.Run("Fix", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "dq").Return(false, nil).Twice()
		m.On("MakeBucket", mock.Anything, "dq", mock.Anything).Return(nil).Once()
		m.On("PutObject", mock.Anything, "dq", "snapshots/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil).Once()
		m.On("BucketExists", mock.Anything, "dq").Return(true, nil)
		m.On("ListObjects", mock.Anything, "dq", mock.Anything).Return(mocks.ObjectChannel(minio.ObjectInfo{Key: "snapshots/"}))
		app := setupTestApp(t, m, nil)

		status, body := getJSON(t, app, "/integrity/archive?fix=true")
		assert.Equal(t, 200, status)
		assert.Equal(t, true, body["bucket_exists"])
		assert.Equal(t, true, body["prefix_exists"])
		assert.Equal(t, "ok", body["status"])
		m.AssertExpectations(t)
	})

	t.Run("FixFails", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "dq").Return(false, nil)
		m.On("MakeBucket", mock.Anything, "dq", mock.Anything).Return(errors.New("quota"))
		app := setupTestApp(t, m, nil)

		status, body := getJSON(t, app, "/integrity/archive?fix=true")
		assert.Equal(t, 500, status)
		assert.Equal(t, "Failed to fix archive", body["error"])
	})

	t.Run("Unreachable", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "dq").Return(false, errors.New("unreachable"))
		app := setupTestApp(t, m, nil)

		status, _ := getJSON(t, app, "/integrity/archive")
		assert.Equal(t, 500, status)
	})

	t.Run("NoStorage", func(t *testing.T) {
		app := setupTestApp(t, nil, nil)

		status, _ := getJSON(t, app, "/integrity/archive")
		assert.Equal(t, 503, status)
	})
}

func TestHandleIntegrityCheck(t *testing.T) {
	app := setupTestApp(t, nil, migratedDB(t))

	status, body := getJSON(t, app, "/integrity")
	assert.Equal(t, 200, status)

	schema := body["schema"].(map[string]any)
	assert.Equal(t, true, schema["matched"])

	archive := body["archive"].(map[string]any)
	assert.Equal(t, "skipped", archive["status"])
}
