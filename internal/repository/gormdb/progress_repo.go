package gormdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

type progressRepository struct {
	db *gorm.DB
}

func (r *progressRepository) CreateEntry(ctx context.Context, entry *domain.ProgressEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("create progress entry: %w", translate(err))
	}
	return nil
}

func (r *progressRepository) ListEntries(ctx context.Context, userID string, from, to *time.Time) ([]domain.ProgressEntry, error) {
	var entries []domain.ProgressEntry
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("recorded_at DESC")
	if from != nil {
		q = q.Where("recorded_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("recorded_at <= ?", *to)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *progressRepository) DeleteEntry(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&domain.ProgressEntry{})
	if res.Error != nil {
		return fmt.Errorf("delete progress entry: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *progressRepository) CreatePhoto(ctx context.Context, photo *domain.ProgressPhoto) error {
	if photo.ID == "" {
		photo.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(photo).Error; err != nil {
		return fmt.Errorf("create progress photo: %w", translate(err))
	}
	return nil
}

func (r *progressRepository) ListPhotos(ctx context.Context, userID string) ([]domain.ProgressPhoto, error) {
	var photos []domain.ProgressPhoto
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("taken_at DESC").
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}
