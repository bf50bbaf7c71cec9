package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"excel-analytics/internal/dataset"
	"excel-analytics/internal/model"
	"excel-analytics/internal/platform/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func sampleDataset(t *testing.T) *model.Dataset {
	t.Helper()
	cols := []string{"City", "Sales"}
	ds, err := model.NewDataset(&dataset.Dataset{
		Columns: cols,
		Rows: []dataset.Row{
			dataset.RowFrom(cols, dataset.Text("A"), dataset.Number(10)),
			dataset.RowFrom(cols, dataset.Text("B")),
		},
	})
	require.NoError(t, err)
	return ds
}

func TestDatasetRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewDatasetRepository(newTestDB(t))

	stored := sampleDataset(t)
	require.NoError(t, repo.Create(ctx, stored))
	require.NotEmpty(t, stored.ID)

	got, err := repo.GetByID(ctx, stored.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	decoded, err := got.Decode()
	require.NoError(t, err)
	assert.Equal(t, []string{"City", "Sales"}, decoded.Columns)
	require.Len(t, decoded.Rows, 2)
	assert.Equal(t, dataset.Number(10), decoded.Rows[0].Get("Sales"))
	assert.False(t, decoded.Rows[1].Has("Sales"))
}

func TestDatasetGetMissing(t *testing.T) {
	repo := NewDatasetRepository(newTestDB(t))

	got, err := repo.GetByID(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUploadListNewestFirstAndScoped(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repos := NewRepositories(db)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	create := func(userID uint, name string, at time.Time) *model.Upload {
		ds := sampleDataset(t)
		require.NoError(t, repos.Datasets.Create(ctx, ds))
		up := &model.Upload{UserID: userID, Filename: "x-" + name, OriginalName: name, DatasetID: ds.ID, UploadedAt: at}
		require.NoError(t, repos.Uploads.Create(ctx, up))
		return up
	}
	create(1, "old.xlsx", base)
	create(1, "new.xlsx", base.Add(time.Hour))
	create(2, "other.xlsx", base.Add(2*time.Hour))

	list, err := repos.Uploads.ListByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new.xlsx", list[0].OriginalName)
	assert.Equal(t, "old.xlsx", list[1].OriginalName)
	require.NotNil(t, list[0].Dataset)
	assert.Equal(t, list[0].DatasetID, list[0].Dataset.ID)

	empty, err := repos.Uploads.ListByUserID(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUploadOwnerScopedLookups(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(newTestDB(t))

	ds := sampleDataset(t)
	require.NoError(t, repos.Datasets.Create(ctx, ds))
	up := &model.Upload{UserID: 7, Filename: "f", OriginalName: "f.xlsx", DatasetID: ds.ID, UploadedAt: time.Now()}
	require.NoError(t, repos.Uploads.Create(ctx, up))

	got, err := repos.Uploads.GetByIDAndUserID(ctx, up.ID, 8)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repos.Uploads.GetByDatasetIDAndUserID(ctx, ds.ID, 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, up.ID, got.ID)

	deleted, err := repos.Uploads.DeleteByIDAndUserID(ctx, up.ID, 8)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(newTestDB(t))

	ds := sampleDataset(t)
	boom := errors.New("boom")
	err := repos.Transaction(ctx, func(tx *Repositories) error {
		if err := tx.Datasets.Create(ctx, ds); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := repos.Datasets.GetByID(ctx, ds.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTransactionDeletesDatasetThenUpload(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(newTestDB(t))

	ds := sampleDataset(t)
	require.NoError(t, repos.Datasets.Create(ctx, ds))
	up := &model.Upload{UserID: 1, Filename: "f", OriginalName: "f.xlsx", DatasetID: ds.ID, UploadedAt: time.Now()}
	require.NoError(t, repos.Uploads.Create(ctx, up))

	err := repos.Transaction(ctx, func(tx *Repositories) error {
		if _, err := tx.Datasets.DeleteByID(ctx, ds.ID); err != nil {
			return err
		}
		_, err := tx.Uploads.DeleteByIDAndUserID(ctx, up.ID, 1)
		return err
	})
	require.NoError(t, err)

	list, err := repos.Uploads.ListByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	user := &model.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x", Role: "user"}
	require.NoError(t, repo.Create(ctx, user))
	err := repo.Create(ctx, &model.User{Name: "Dup", Email: "ana@example.com", PasswordHash: "x", Role: "user"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	byEmail, err := repo.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)

	missing, err := repo.GetByID(ctx, 12345)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
