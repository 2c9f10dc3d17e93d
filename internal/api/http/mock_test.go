package http

import (
	"context"

	"github.com/shortlyhq/shortly/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockURLService struct {
	mock.Mock
}

func (s *MockURLService) ShortenURL(ctx context.Context, originalURL string) (*models.URL, bool, error) {
	args := s.Called(ctx, originalURL)
	url, _ := args.Get(0).(*models.URL)
	existing, _ := args.Get(1).(bool)
	return url, existing, args.Error(2)
}

func (s *MockURLService) RecordVisit(ctx context.Context, shortCode string, visit models.ClickEvent) (*models.URL, error) {
	args := s.Called(ctx, shortCode, visit)
	url, _ := args.Get(0).(*models.URL)
	return url, args.Error(1)
}

func (s *MockURLService) GetAnalytics(ctx context.Context, shortCode string) (*models.URL, error) {
	args := s.Called(ctx, shortCode)
	url, _ := args.Get(0).(*models.URL)
	return url, args.Error(1)
}

func (s *MockURLService) ListURLs(ctx context.Context, page, pageSize int) ([]models.URL, int64, error) {
	args := s.Called(ctx, page, pageSize)
	urls, _ := args.Get(0).([]models.URL)
	total, _ := args.Get(1).(int64)
	return urls, total, args.Error(2)
}
