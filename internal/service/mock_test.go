package service

import (
	"context"

	"github.com/shortlyhq/shortly/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockURLRepository struct {
	mock.Mock
}

func (r *MockURLRepository) Create(ctx context.Context, shortCode, originalURL string) (*models.URL, error) {
	args := r.Called(ctx, shortCode, originalURL)
	url, _ := args.Get(0).(*models.URL)
	return url, args.Error(1)
}

func (r *MockURLRepository) GetByShortCode(ctx context.Context, shortCode string) (*models.URL, error) {
	args := r.Called(ctx, shortCode)
	url, _ := args.Get(0).(*models.URL)
	return url, args.Error(1)
}

func (r *MockURLRepository) GetByOriginalURL(ctx context.Context, originalURL string) (*models.URL, error) {
	args := r.Called(ctx, originalURL)
	url, _ := args.Get(0).(*models.URL)
	return url, args.Error(1)
}

func (r *MockURLRepository) RecordClick(ctx context.Context, shortCode string, event models.ClickEvent) (*models.URL, error) {
	args := r.Called(ctx, shortCode, event)
	url, _ := args.Get(0).(*models.URL)
	return url, args.Error(1)
}

func (r *MockURLRepository) List(ctx context.Context, page, pageSize int) ([]models.URL, int64, error) {
	args := r.Called(ctx, page, pageSize)
	urls, _ := args.Get(0).([]models.URL)
	total, _ := args.Get(1).(int64)
	return urls, total, args.Error(2)
}
