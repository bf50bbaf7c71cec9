package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"excel-analytics/internal/access"
	"excel-analytics/internal/dataset"
	"excel-analytics/internal/model"
	"excel-analytics/internal/pkg/sheetparse"
	"excel-analytics/internal/projection"
	"excel-analytics/internal/repository"
)

type FileStore interface {
	Save(originalName string, r io.Reader) (string, error)
	Remove(storedName string) error
}

// FileCleaner releases a stored file after its upload is gone. Failures are
// logged by the caller and never undo the delete.
type FileCleaner interface {
	Cleanup(ctx context.Context, event model.FileCleanupEvent) error
}

type HistoryCache interface {
	GetHistory(ctx context.Context, userID uint) ([]model.Upload, bool, error)
	SetHistory(ctx context.Context, userID uint, uploads []model.Upload) error
	DeleteHistory(ctx context.Context, userID uint) error
	MarkDirty(ctx context.Context, userID uint) error
	IsDirty(ctx context.Context, userID uint) (bool, error)
}

type UploadService struct {
	repos        *repository.Repositories
	files        FileStore
	cleaner      FileCleaner
	historyCache HistoryCache
	log          zerolog.Logger
	now          func() time.Time
}

type UploadInput struct {
	Caller   access.Caller
	Filename string
	Data     []byte
}

type UploadResult struct {
	Upload  *model.Upload
	Dataset *dataset.Dataset
}

// HistoryItem is a ledger entry together with its parsed data.
type HistoryItem struct {
	model.Upload
	Data *dataset.Dataset `json:"data"`
}

type ProjectInput struct {
	Caller    access.Caller
	UploadID  uint
	DatasetID string
	Inline    *dataset.Dataset
	XColumn   string
	YColumn   string
	Chart     string
}

// NewUploadService wires the ledger. cleaner and historyCache may be nil: files
// are then removed through store directly and history always comes from the database.
func NewUploadService(
	repos *repository.Repositories,
	files FileStore,
	cleaner FileCleaner,
	historyCache HistoryCache,
	log zerolog.Logger,
) *UploadService {
	return &UploadService{
		repos:        repos,
		files:        files,
		cleaner:      cleaner,
		historyCache: historyCache,
		log:          log,
		now:          time.Now,
	}
}

func (s *UploadService) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	if access.Authorize(input.Caller, access.ActionUpload, input.Caller.UserID) != access.Allowed {
		return nil, ErrForbidden
	}

	originalName := strings.TrimSpace(input.Filename)
	kind, err := sheetparse.KindFromFilename(originalName)
	if err != nil {
		return nil, ErrUnsupportedFileKind
	}

	ds, err := sheetparse.Parse(input.Data, kind)
	if err != nil {
		switch {
		case errors.Is(err, sheetparse.ErrEmptyDataset):
			return nil, ErrEmptyDataset
		case errors.Is(err, sheetparse.ErrUnsupportedKind):
			return nil, ErrUnsupportedFileKind
		default:
			return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
		}
	}

	stored, err := model.NewDataset(ds)
	if err != nil {
		return nil, err
	}

	storedName, err := s.files.Save(originalName, bytes.NewReader(input.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	upload := &model.Upload{
		UserID:       input.Caller.UserID,
		Filename:     storedName,
		OriginalName: originalName,
		UploadedAt:   s.now(),
	}
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Datasets.Create(ctx, stored); err != nil {
			return err
		}
		upload.DatasetID = stored.ID
		return tx.Uploads.Create(ctx, upload)
	})
	if err != nil {
		if rmErr := s.files.Remove(storedName); rmErr != nil {
			s.log.Warn().Err(rmErr).Str("file", storedName).Msg("remove file after failed upload")
		}
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	s.invalidateHistory(ctx, upload.UserID)
	s.log.Info().
		Uint("user_id", upload.UserID).
		Uint("upload_id", upload.ID).
		Str("dataset_id", upload.DatasetID).
		Int("rows", len(ds.Rows)).
		Msg("upload recorded")

	return &UploadResult{Upload: upload, Dataset: ds}, nil
}

// SaveDataset stores ds on its own and returns the new dataset id.
func (s *UploadService) SaveDataset(ctx context.Context, ds *dataset.Dataset) (string, error) {
	if ds == nil {
		return "", ErrInvalidInput
	}
	stored, err := model.NewDataset(ds)
	if err != nil {
		return "", err
	}
	if err := s.repos.Datasets.Create(ctx, stored); err != nil {
		return "", fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return stored.ID, nil
}

func (s *UploadService) GetDataset(ctx context.Context, id string) (*dataset.Dataset, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrNotFound
	}
	stored, err := s.repos.Datasets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if stored == nil {
		return nil, ErrNotFound
	}
	return stored.Decode()
}

// ListHistory returns the caller's uploads newest first, each with its data.
func (s *UploadService) ListHistory(ctx context.Context, caller access.Caller) ([]HistoryItem, error) {
	if access.Authorize(caller, access.ActionListHistory, caller.UserID) != access.Allowed {
		return nil, ErrForbidden
	}

	uploads, err := s.loadHistory(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	items := make([]HistoryItem, 0, len(uploads))
	for _, upload := range uploads {
		item := HistoryItem{Upload: upload}
		if upload.Dataset != nil {
			data, err := upload.Dataset.Decode()
			if err != nil {
				return nil, err
			}
			item.Data = data
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *UploadService) loadHistory(ctx context.Context, userID uint) ([]model.Upload, error) {
	if s.historyCache != nil {
		dirty, err := s.historyCache.IsDirty(ctx, userID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.GetHistory(ctx, userID); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	uploads, err := s.repos.Uploads.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	if s.historyCache != nil {
		if dirty, dirtyErr := s.historyCache.IsDirty(ctx, userID); dirtyErr == nil && !dirty {
			if err := s.historyCache.SetHistory(ctx, userID, uploads); err != nil {
				s.log.Warn().Err(err).Uint("user_id", userID).Msg("cache upload history")
			}
		}
	}
	return uploads, nil
}

// ViewDataset returns the dataset behind one of the caller's uploads.
func (s *UploadService) ViewDataset(ctx context.Context, caller access.Caller, uploadID uint) (*dataset.Dataset, error) {
	if access.Authorize(caller, access.ActionViewDataset, caller.UserID) != access.Allowed {
		return nil, ErrForbidden
	}
	upload, err := s.findUpload(ctx, caller.UserID, uploadID)
	if err != nil {
		return nil, err
	}
	return s.GetDataset(ctx, upload.DatasetID)
}

// DeleteUpload removes the caller's upload and its dataset in one transaction,
// dataset first. Releasing the stored file afterwards is best effort.
func (s *UploadService) DeleteUpload(ctx context.Context, caller access.Caller, uploadID uint) error {
	if access.Authorize(caller, access.ActionDelete, caller.UserID) != access.Allowed {
		return ErrForbidden
	}
	if uploadID == 0 {
		return ErrNotFound
	}

	var deleted model.Upload
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		upload, err := tx.Uploads.GetByIDAndUserID(ctx, uploadID, caller.UserID)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrStorage, err)
		}
		if upload == nil {
			return ErrNotFound
		}
		if _, err := tx.Datasets.DeleteByID(ctx, upload.DatasetID); err != nil {
			return fmt.Errorf("%w: %w", ErrStorage, err)
		}
		ok, err := tx.Uploads.DeleteByIDAndUserID(ctx, upload.ID, caller.UserID)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrStorage, err)
		}
		if !ok {
			return ErrNotFound
		}
		deleted = *upload
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrStorage) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	s.invalidateHistory(ctx, caller.UserID)
	s.releaseFile(ctx, deleted)
	s.log.Info().Uint("user_id", caller.UserID).Uint("upload_id", deleted.ID).Msg("upload deleted")
	return nil
}

// Project derives chart series from one dataset. Exactly one of UploadID,
// DatasetID or Inline selects the data; stored data must belong to the caller.
func (s *UploadService) Project(ctx context.Context, input ProjectInput) (projection.Result, error) {
	if access.Authorize(input.Caller, access.ActionProject, input.Caller.UserID) != access.Allowed {
		return projection.Result{}, ErrForbidden
	}

	chart, err := projection.ParseChart(input.Chart)
	if err != nil {
		return projection.Result{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	sources := 0
	if input.UploadID != 0 {
		sources++
	}
	if strings.TrimSpace(input.DatasetID) != "" {
		sources++
	}
	if input.Inline != nil {
		sources++
	}
	if sources != 1 {
		return projection.Result{}, ErrInvalidInput
	}

	var ds *dataset.Dataset
	switch {
	case input.Inline != nil:
		ds = input.Inline
	case input.UploadID != 0:
		upload, err := s.findUpload(ctx, input.Caller.UserID, input.UploadID)
		if err != nil {
			return projection.Result{}, err
		}
		if ds, err = s.GetDataset(ctx, upload.DatasetID); err != nil {
			return projection.Result{}, err
		}
	default:
		upload, err := s.repos.Uploads.GetByDatasetIDAndUserID(ctx, strings.TrimSpace(input.DatasetID), input.Caller.UserID)
		if err != nil {
			return projection.Result{}, fmt.Errorf("%w: %w", ErrStorage, err)
		}
		if upload == nil {
			return projection.Result{}, ErrNotFound
		}
		if ds, err = s.GetDataset(ctx, upload.DatasetID); err != nil {
			return projection.Result{}, err
		}
	}

	return projection.Project(ds, input.XColumn, input.YColumn, chart)
}

func (s *UploadService) findUpload(ctx context.Context, userID, uploadID uint) (*model.Upload, error) {
	if uploadID == 0 {
		return nil, ErrNotFound
	}
	upload, err := s.repos.Uploads.GetByIDAndUserID(ctx, uploadID, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if upload == nil {
		return nil, ErrNotFound
	}
	return upload, nil
}

func (s *UploadService) invalidateHistory(ctx context.Context, userID uint) {
	if s.historyCache == nil {
		return
	}
	_ = s.historyCache.MarkDirty(ctx, userID)
	_ = s.historyCache.DeleteHistory(ctx, userID)
}

func (s *UploadService) releaseFile(ctx context.Context, upload model.Upload) {
	if s.cleaner != nil {
		event := model.FileCleanupEvent{
			UploadID:       upload.ID,
			UserID:         upload.UserID,
			StoredFilename: upload.Filename,
			RequestedAt:    s.now(),
		}
		err := s.cleaner.Cleanup(ctx, event)
		if err == nil {
			return
		}
		s.log.Warn().Err(err).Str("file", upload.Filename).Msg("enqueue file cleanup, removing directly")
	}
	if err := s.files.Remove(upload.Filename); err != nil {
		s.log.Warn().Err(err).Str("file", upload.Filename).Msg("remove stored file")
	}
}
