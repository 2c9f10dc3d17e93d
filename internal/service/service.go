// Package service implements the URL shortening business logic on top of a
// record store and a short code generator.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shortlyhq/shortly/internal/database"
	"github.com/shortlyhq/shortly/internal/models"
	"github.com/shortlyhq/shortly/internal/shortcode"
)

// ErrMaxRetriesExceeded is returned when the maximum number of retries for
// generating a unique short code is exceeded.
var ErrMaxRetriesExceeded = errors.New("maximum retries exceeded for generating short code")

const (
	// maxRetries bounds the generate-and-insert loop in ShortenURL.
	maxRetries = 5

	// DefaultPage and DefaultPageSize apply when listing parameters are
	// missing or non-positive.
	DefaultPage     = 1
	DefaultPageSize = 20

	// maxPageSize caps a single listing page.
	maxPageSize = 100
)

// URLRepository defines the store contract required by the service.
type URLRepository interface {
	// Create inserts a new record. It returns database.ErrShortCodeExists or
	// database.ErrOriginalURLExists when a uniqueness constraint rejects the insert.
	Create(ctx context.Context, shortCode, originalURL string) (*models.URL, error)

	// GetByShortCode retrieves a record with its click history by short code.
	GetByShortCode(ctx context.Context, shortCode string) (*models.URL, error)

	// GetByOriginalURL retrieves a record by its original URL.
	GetByOriginalURL(ctx context.Context, originalURL string) (*models.URL, error)

	// RecordClick atomically appends event to the history and increments the counter.
	RecordClick(ctx context.Context, shortCode string, event models.ClickEvent) (*models.URL, error)

	// List returns one page of records ordered by creation time descending,
	// along with the total record count.
	List(ctx context.Context, page, pageSize int) ([]models.URL, int64, error)
}

// URLService provides find-or-create shortening, click recording and listing.
type URLService struct {
	repo URLRepository
	gen  shortcode.Generator
}

// NewURLService creates a URLService backed by the given repository and
// short code generator.
func NewURLService(repo URLRepository, gen shortcode.Generator) *URLService {
	return &URLService{
		repo: repo,
		gen:  gen,
	}
}

// ShortenURL returns the record for originalURL, creating one if absent.
// The second result reports whether the URL was already known.
//
// Uniqueness is delegated to the store: the service inserts optimistically and
// regenerates on a short code collision, up to maxRetries attempts. A lost race
// against a concurrent submission of the same URL surfaces as
// database.ErrOriginalURLExists, in which case the winner's record is returned.
func (s *URLService) ShortenURL(ctx context.Context, originalURL string) (*models.URL, bool, error) {
	const op = "service.URLService.ShortenURL"

	url, err := s.repo.GetByOriginalURL(ctx, originalURL)
	if err == nil {
		return url, true, nil
	}
	if !errors.Is(err, database.ErrURLNotFound) {
		return nil, false, fmt.Errorf("%s: failed to look up original url: %w", op, err)
	}

	for i := 0; i < maxRetries; i++ {
		code, err := s.gen()
		if err != nil {
			return nil, false, fmt.Errorf("%s: failed to generate short code: %w", op, err)
		}

		url, err := s.repo.Create(ctx, code, originalURL)
		if err != nil {
			if errors.Is(err, database.ErrShortCodeExists) {
				continue
			}

			if errors.Is(err, database.ErrOriginalURLExists) {
				url, err := s.repo.GetByOriginalURL(ctx, originalURL)
				if err != nil {
					return nil, false, fmt.Errorf("%s: failed to fetch concurrently created url: %w", op, err)
				}

				return url, true, nil
			}

			return nil, false, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		return url, false, nil
	}

	return nil, false, fmt.Errorf("%s: %w", op, ErrMaxRetriesExceeded)
}

// RecordVisit records a click on the URL behind shortCode and returns the
// updated record. Missing client metadata never fails the recording; a zero
// timestamp is filled with the current time.
func (s *URLService) RecordVisit(ctx context.Context, shortCode string, visit models.ClickEvent) (*models.URL, error) {
	const op = "service.URLService.RecordVisit"

	if visit.Timestamp.IsZero() {
		visit.Timestamp = time.Now().UTC()
	}

	url, err := s.repo.RecordClick(ctx, shortCode, visit)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to record visit: %w", op, err)
	}

	return url, nil
}

// GetAnalytics retrieves the record behind shortCode with its full click history.
func (s *URLService) GetAnalytics(ctx context.Context, shortCode string) (*models.URL, error) {
	const op = "service.URLService.GetAnalytics"

	url, err := s.repo.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get url analytics: %w", op, err)
	}

	return url, nil
}

// ListURLs returns one page of records, newest first, and the total count.
// Non-positive page or pageSize values are clamped to the defaults, and
// pageSize is capped at maxPageSize.
func (s *URLService) ListURLs(ctx context.Context, page, pageSize int) ([]models.URL, int64, error) {
	const op = "service.URLService.ListURLs"

	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	urls, total, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: failed to list urls: %w", op, err)
	}

	return urls, total, nil
}
