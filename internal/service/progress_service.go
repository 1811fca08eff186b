package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
	"fittrack/internal/storage"
)

var (
	ErrEntryNotFound      = errors.New("progress entry not found")
	ErrInvalidContentType = errors.New("invalid or missing image content type")
	ErrUploadURLError     = errors.New("failed to generate upload URL")
	ErrDownloadURLError   = errors.New("failed to generate download URL")
)

// PhotoUploadGrant is a presigned PUT URL plus the object key the client
// must echo back when confirming the upload.
type PhotoUploadGrant struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// PhotoView pairs photo metadata with a temporary download URL.
type PhotoView struct {
	domain.ProgressPhoto
	DownloadURL string `json:"downloadUrl"`
}

// CreateProgressEntryInput carries one body-stat measurement.
type CreateProgressEntryInput struct {
	RecordedAt time.Time
	WeightKg   *float64
	BodyFatPct *float64
	ChestCm    *float64
	WaistCm    *float64
	HipsCm     *float64
	Notes      string
}

// ProgressService manages body-stat entries and progress photos. Photos go
// through a two-step presigned flow: request an upload URL, PUT the image to
// the bucket, then confirm to persist the metadata.
type ProgressService interface {
	CreateEntry(ctx context.Context, userID string, in CreateProgressEntryInput) (*domain.ProgressEntry, error)
	ListEntries(ctx context.Context, userID string, from, to *time.Time) ([]domain.ProgressEntry, error)
	DeleteEntry(ctx context.Context, userID, entryID string) error

	RequestPhotoUploadURL(ctx context.Context, userID, contentType string) (*PhotoUploadGrant, error)
	ConfirmPhoto(ctx context.Context, userID, objectKey, contentType string, sizeBytes int64, takenAt time.Time) (*domain.ProgressPhoto, error)
	ListPhotos(ctx context.Context, userID string) ([]PhotoView, error)
}

type progressService struct {
	progressRepo repository.ProgressRepository
	fileStorage  storage.FileStorage
	now          func() time.Time
}

func NewProgressService(progressRepo repository.ProgressRepository, fileStorage storage.FileStorage) ProgressService {
	return &progressService{
		progressRepo: progressRepo,
		fileStorage:  fileStorage,
		now:          time.Now,
	}
}

func (s *progressService) CreateEntry(ctx context.Context, userID string, in CreateProgressEntryInput) (*domain.ProgressEntry, error) {
	recordedAt := in.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = s.now().UTC()
	}
	entry := &domain.ProgressEntry{
		UserID:     userID,
		RecordedAt: recordedAt,
		WeightKg:   in.WeightKg,
		BodyFatPct: in.BodyFatPct,
		ChestCm:    in.ChestCm,
		WaistCm:    in.WaistCm,
		HipsCm:     in.HipsCm,
		Notes:      in.Notes,
	}
	if err := s.progressRepo.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *progressService) ListEntries(ctx context.Context, userID string, from, to *time.Time) ([]domain.ProgressEntry, error) {
	return s.progressRepo.ListEntries(ctx, userID, from, to)
}

func (s *progressService) DeleteEntry(ctx context.Context, userID, entryID string) error {
	if err := s.progressRepo.DeleteEntry(ctx, userID, entryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEntryNotFound
		}
		return err
	}
	return nil
}

// RequestPhotoUploadURL mints a presigned PUT URL under the caller's photo
// prefix. Only image content types are accepted.
func (s *progressService) RequestPhotoUploadURL(ctx context.Context, userID, contentType string) (*PhotoUploadGrant, error) {
	if contentType == "" || !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, ErrInvalidContentType
	}

	ext := ""
	if parts := strings.Split(contentType, "/"); len(parts) == 2 {
		ext = parts[1]
	}
	objectKey := path.Join("photos", userID, fmt.Sprintf("%s.%s", uuid.NewString(), ext))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}
	return &PhotoUploadGrant{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// ConfirmPhoto persists photo metadata after the client finished its upload.
// The key must sit under the caller's own prefix.
func (s *progressService) ConfirmPhoto(ctx context.Context, userID, objectKey, contentType string, sizeBytes int64, takenAt time.Time) (*domain.ProgressPhoto, error) {
	if !strings.HasPrefix(objectKey, path.Join("photos", userID)+"/") {
		return nil, ErrValidationFailed
	}
	if takenAt.IsZero() {
		takenAt = s.now().UTC()
	}

	photo := &domain.ProgressPhoto{
		UserID:      userID,
		ObjectKey:   objectKey,
		ContentType: contentType,
		SizeBytes:   sizeBytes,
		TakenAt:     takenAt,
	}
	if err := s.progressRepo.CreatePhoto(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

func (s *progressService) ListPhotos(ctx context.Context, userID string) ([]PhotoView, error) {
	photos, err := s.progressRepo.ListPhotos(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]PhotoView, 0, len(photos))
	for _, photo := range photos {
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, photo.ObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			return nil, ErrDownloadURLError
		}
		views = append(views, PhotoView{ProgressPhoto: photo, DownloadURL: url})
	}
	return views, nil
}
