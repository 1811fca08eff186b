package gormdb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fittrack/internal/domain"
)

type motivationRepository struct {
	db *gorm.DB
}

func (r *motivationRepository) CreateQuote(ctx context.Context, quote *domain.Quote) error {
	if quote.ID == "" {
		quote.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(quote).Error; err != nil {
		return fmt.Errorf("create quote: %w", translate(err))
	}
	return nil
}

func (r *motivationRepository) ListQuotes(ctx context.Context) ([]domain.Quote, error) {
	var quotes []domain.Quote
	if err := r.db.WithContext(ctx).Order("created_at").Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *motivationRepository) CreateKudos(ctx context.Context, phrase *domain.KudosPhrase) error {
	if phrase.ID == "" {
		phrase.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(phrase).Error; err != nil {
		return fmt.Errorf("create kudos phrase: %w", translate(err))
	}
	return nil
}

func (r *motivationRepository) ListKudos(ctx context.Context) ([]domain.KudosPhrase, error) {
	var phrases []domain.KudosPhrase
	if err := r.db.WithContext(ctx).Order("created_at").Find(&phrases).Error; err != nil {
		return nil, err
	}
	return phrases, nil
}
