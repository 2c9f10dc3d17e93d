// Package memory implements the URL record store on in-process maps.
// It backs tests and local development without a database; the mutex gives
// it the same insert-time uniqueness guarantee as the Postgres constraints.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shortlyhq/shortly/internal/database"
	"github.com/shortlyhq/shortly/internal/models"
)

// URLRepository stores URL records keyed by short code and by original URL.
type URLRepository struct {
	mu     sync.RWMutex
	byCode map[string]*models.URL
	byURL  map[string]*models.URL
	nextID int64
	now    func() time.Time
}

func NewURLRepository() *URLRepository {
	return &URLRepository{
		byCode: make(map[string]*models.URL),
		byURL:  make(map[string]*models.URL),
		nextID: 1,
		now:    time.Now,
	}
}

// Create inserts a new record with an empty click history.
func (r *URLRepository) Create(ctx context.Context, shortCode, originalURL string) (*models.URL, error) {
	const op = "database.memory.URLRepository.Create"

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byCode[shortCode]; ok {
		return nil, fmt.Errorf("%s: %w", op, database.ErrShortCodeExists)
	}
	if _, ok := r.byURL[originalURL]; ok {
		return nil, fmt.Errorf("%s: %w", op, database.ErrOriginalURLExists)
	}

	rec := &models.URL{
		ID:          r.nextID,
		ShortCode:   shortCode,
		OriginalURL: originalURL,
		CreatedAt:   r.now().UTC(),
	}
	r.nextID++

	r.byCode[shortCode] = rec
	r.byURL[originalURL] = rec

	return clone(rec), nil
}

// GetByShortCode returns a copy of the record matching shortCode.
func (r *URLRepository) GetByShortCode(ctx context.Context, shortCode string) (*models.URL, error) {
	const op = "database.memory.URLRepository.GetByShortCode"

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byCode[shortCode]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
	}

	return clone(rec), nil
}

// GetByOriginalURL returns a copy of the record matching originalURL.
func (r *URLRepository) GetByOriginalURL(ctx context.Context, originalURL string) (*models.URL, error) {
	const op = "database.memory.URLRepository.GetByOriginalURL"

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byURL[originalURL]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
	}

	return clone(rec), nil
}

// RecordClick appends event to the history and increments the counter under
// one lock, keeping the two in step.
func (r *URLRepository) RecordClick(ctx context.Context, shortCode string, event models.ClickEvent) (*models.URL, error) {
	const op = "database.memory.URLRepository.RecordClick"

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byCode[shortCode]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
	}

	event.Timestamp = event.Timestamp.UTC()
	rec.ClickHistory = append(rec.ClickHistory, event)
	rec.Clicks++

	return clone(rec), nil
}

// List returns one page of records ordered by creation time descending,
// newest first among equal timestamps, along with the total record count.
func (r *URLRepository) List(ctx context.Context, page, pageSize int) ([]models.URL, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := make([]*models.URL, 0, len(r.byCode))
	for _, rec := range r.byCode {
		recs = append(recs, rec)
	}

	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.After(recs[j].CreatedAt)
		}
		return recs[i].ID > recs[j].ID
	})

	total := int64(len(recs))

	offset := (page - 1) * pageSize
	if offset >= len(recs) {
		return []models.URL{}, total, nil
	}

	end := offset + pageSize
	if end > len(recs) {
		end = len(recs)
	}

	urls := make([]models.URL, 0, end-offset)
	for _, rec := range recs[offset:end] {
		urls = append(urls, *clone(rec))
	}

	return urls, total, nil
}

func clone(rec *models.URL) *models.URL {
	c := *rec
	if rec.ClickHistory != nil {
		c.ClickHistory = make([]models.ClickEvent, len(rec.ClickHistory))
		copy(c.ClickHistory, rec.ClickHistory)
	}

	return &c
}
