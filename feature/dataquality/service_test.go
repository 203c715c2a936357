package dataquality

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"quality-admin/core/storage/mocks"
	"quality-admin/feature/dataquality/archive"
	"quality-admin/feature/dataquality/models"
	"quality-admin/feature/dataquality/repository"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func onePropertyRule(field string) *models.Payload {
	p := models.NewPayload()
	p.Append(models.InventoryProperties, models.WireRule{Enabled: true, Field: field, RuleType: 1, Severity: models.SeverityError})
	return p
}

func TestService_SaveArchives(t *testing.T) {
	client := new(mocks.Client)
	svc, _ := setupService(t, client)
	ctx := context.Background()

	client.On("PutObject", mock.Anything, "dq", mock.AnythingOfType("string"), mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil).Once()

	require.NoError(t, svc.SaveRules(ctx, 1, onePropertyRule("site_eui")))
	client.AssertExpectations(t)

	got, err := svc.FetchRules(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, onePropertyRule("site_eui"), got)
}

func TestService_ArchiveFailureDoesNotFailSave(t *testing.T) {
	client := new(mocks.Client)
	svc, _ := setupService(t, client)

	client.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("storage down"))

	assert.NoError(t, svc.SaveRules(context.Background(), 1, onePropertyRule("site_eui")))
}

func TestService_InvalidSaveSkipsArchive(t *testing.T) {
	client := new(mocks.Client)
	svc, _ := setupService(t, client)

	err := svc.SaveRules(context.Background(), 1, onePropertyRule(""))
	assert.ErrorIs(t, err, repository.ErrInvalidRule)
	client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_ArchiveDisabledByConfig(t *testing.T) {
	client := new(mocks.Client)
	svc, _ := setupService(t, client)
	svc.cfg.ArchiveOnSave = false

	require.NoError(t, svc.SaveRules(context.Background(), 1, onePropertyRule("site_eui")))
	client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Rollback(t *testing.T) {
	ctx := context.Background()

	t.Run("Disabled", func(t *testing.T) {
		svc, _ := setupService(t, nil)
		_, err := svc.Rollback(ctx, 1, "")
		assert.ErrorIs(t, err, ErrArchiveDisabled)
	})

	t.Run("NoSnapshots", func(t *testing.T) {
		client := new(mocks.Client)
		svc, _ := setupService(t, client)
		client.On("ListObjects", mock.Anything, "dq", mock.Anything).Return(mocks.ObjectChannel())

		_, err := svc.Rollback(ctx, 1, "")
		assert.ErrorIs(t, err, archive.ErrNoSnapshots)
	})

	t.Run("Restores", func(t *testing.T) {
		client := new(mocks.Client)
		svc, _ := setupService(t, client)
		body := `{"organization_id":1,"taken":"2026-01-01T00:00:00Z","rules":{"properties":[{"enabled":true,"field":"year_built","data_type":"year","rule_type":0,"required":false,"not_null":false,"min":1700,"max":2019,"severity":"warning","units":"","label":null}],"taxlots":[]}}`
		client.On("ListObjects", mock.Anything, "dq", mock.Anything).
			Return(mocks.ObjectChannel(minio.ObjectInfo{Key: "snapshots/1/20260101T000000Z-a.json"}))
		client.On("GetObject", mock.Anything, "dq", "snapshots/1/20260101T000000Z-a.json", mock.Anything).
			Return(io.NopCloser(strings.NewReader(body)), nil)

		snap, err := svc.Rollback(ctx, 1, "")
		require.NoError(t, err)
		assert.Equal(t, 1, snap.Rules)

		got, err := svc.FetchRules(ctx, 1)
		require.NoError(t, err)
		require.Len(t, got.Properties, 1)
		assert.Equal(t, "year_built", got.Properties[0].Field)
		assert.Equal(t, models.SeverityWarning, got.Properties[0].Severity)
	})

	t.Run("ForeignSnapshot", func(t *testing.T) {
		client := new(mocks.Client)
		svc, _ := setupService(t, client)
		client.On("GetObject", mock.Anything, "dq", "snapshots/2/x.json", mock.Anything).
			Return(io.NopCloser(strings.NewReader(`{"organization_id":2,"rules":{"properties":[],"taxlots":[]}}`)), nil)

		_, err := svc.Rollback(ctx, 1, "snapshots/2/x.json")
		assert.ErrorContains(t, err, "belongs to organization 2")
	})
}

func TestService_ColumnsAndLabels(t *testing.T) {
	svc, _ := setupService(t, nil)

	cols, err := svc.Columns(models.InventoryTaxlots)
	require.NoError(t, err)
	assert.NotEmpty(t, cols)

	labels, err := svc.Labels(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, labels, len(repository.DefaultLabels))
}

func TestService_DeleteSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("Disabled", func(t *testing.T) {
		svc, _ := setupService(t, nil)
		assert.ErrorIs(t, svc.DeleteSnapshot(ctx, 1, "snapshots/1/a.json"), ErrArchiveDisabled)
	})

	t.Run("Owned", func(t *testing.T) {
		client := new(mocks.Client)
		svc, _ := setupService(t, client)
		client.On("RemoveObject", mock.Anything, "dq", "snapshots/1/a.json", mock.Anything).Return(nil)

		require.NoError(t, svc.DeleteSnapshot(ctx, 1, "snapshots/1/a.json"))
		client.AssertExpectations(t)
	})

	t.Run("OtherOrganization", func(t *testing.T) {
		client := new(mocks.Client)
		svc, _ := setupService(t, client)

		err := svc.DeleteSnapshot(ctx, 1, "snapshots/11/a.json")
		assert.ErrorIs(t, err, archive.ErrForeignSnapshot)
		client.AssertNotCalled(t, "RemoveObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_LabelByName(t *testing.T) {
	svc, _ := setupService(t, nil)

	label, err := svc.LabelByName(context.Background(), 1, "Missing Data")
	require.NoError(t, err)
	assert.Equal(t, models.ColorOrange, label.Color)

	_, err = svc.LabelByName(context.Background(), 2, "Missing Data")
	assert.ErrorIs(t, err, repository.ErrLabelNotFound)
}
