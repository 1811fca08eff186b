package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

var ErrNoContent = errors.New("no motivational content available")

// MotivationService serves quotes and kudos phrases.
type MotivationService interface {
	// QuoteOfTheDay returns a quote that is stable for a given calendar day.
	QuoteOfTheDay(ctx context.Context) (*domain.Quote, error)
	RandomKudos(ctx context.Context) (string, error)
	AddQuote(ctx context.Context, text, author string) (*domain.Quote, error)
	AddKudos(ctx context.Context, text string) (*domain.KudosPhrase, error)
}

type motivationService struct {
	repo repository.MotivationRepository
	now  func() time.Time
}

func NewMotivationService(repo repository.MotivationRepository) MotivationService {
	return &motivationService{repo: repo, now: time.Now}
}

func (s *motivationService) QuoteOfTheDay(ctx context.Context) (*domain.Quote, error) {
	quotes, err := s.repo.ListQuotes(ctx)
	if err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, ErrNoContent
	}
	// Same quote for everyone all day; rotates at midnight UTC.
	idx := s.now().UTC().YearDay() % len(quotes)
	return &quotes[idx], nil
}

func (s *motivationService) RandomKudos(ctx context.Context) (string, error) {
	phrases, err := s.repo.ListKudos(ctx)
	if err != nil {
		return "", err
	}
	if len(phrases) == 0 {
		return "", ErrNoContent
	}
	return phrases[rand.Intn(len(phrases))].Text, nil
}

func (s *motivationService) AddQuote(ctx context.Context, text, author string) (*domain.Quote, error) {
	if text == "" {
		return nil, ErrValidationFailed
	}
	quote := &domain.Quote{Text: text, Author: author}
	if err := s.repo.CreateQuote(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

func (s *motivationService) AddKudos(ctx context.Context, text string) (*domain.KudosPhrase, error) {
	if text == "" {
		return nil, ErrValidationFailed
	}
	phrase := &domain.KudosPhrase{Text: text}
	if err := s.repo.CreateKudos(ctx, phrase); err != nil {
		return nil, err
	}
	return phrase, nil
}
