package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shortlyhq/shortly/internal/database"
	"github.com/shortlyhq/shortly/internal/models"
)

type urlRecord struct {
	ID          int64     `db:"id"`
	ShortCode   string    `db:"short_code"`
	OriginalURL string    `db:"original_url"`
	Clicks      int64     `db:"clicks"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r *urlRecord) toURL(history []models.ClickEvent) *models.URL {
	return &models.URL{
		ID:           r.ID,
		ShortCode:    r.ShortCode,
		OriginalURL:  r.OriginalURL,
		Clicks:       r.Clicks,
		ClickHistory: history,
		CreatedAt:    r.CreatedAt,
	}
}

type clickRecord struct {
	OccurredAt time.Time      `db:"occurred_at"`
	UserAgent  sql.NullString `db:"user_agent"`
	IP         sql.NullString `db:"ip"`
	Referrer   sql.NullString `db:"referrer"`
}

func (c *clickRecord) toEvent() models.ClickEvent {
	return models.ClickEvent{
		Timestamp: c.OccurredAt,
		UserAgent: c.UserAgent.String,
		IP:        c.IP.String,
		Referrer:  c.Referrer.String,
	}
}

// URLRepository persists URL records and their click history.
// Uniqueness of short codes and original URLs is enforced by table
// constraints, so concurrent writers cannot slip past an existence check.
type URLRepository struct {
	db *sqlx.DB
}

func NewURLRepository(db *sqlx.DB) *URLRepository {
	return &URLRepository{
		db: db,
	}
}

// Create inserts a new record with an empty click history.
// It returns database.ErrShortCodeExists or database.ErrOriginalURLExists
// when the respective unique constraint rejects the insert.
func (r *URLRepository) Create(ctx context.Context, shortCode, originalURL string) (*models.URL, error) {
	const op = "database.postgres.URLRepository.Create"

	rec := new(urlRecord)
	query := `INSERT INTO urls(short_code, original_url)
		VALUES ($1, $2)
		RETURNING id, short_code, original_url, clicks, created_at`

	err := r.db.GetContext(ctx, rec, query, shortCode, originalURL)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			switch constraint {
			case constraintShortCode:
				return nil, fmt.Errorf("%s: %w", op, database.ErrShortCodeExists)
			case constraintOriginalURL:
				return nil, fmt.Errorf("%s: %w", op, database.ErrOriginalURLExists)
			}
		}

		return nil, fmt.Errorf("%s: failed to create url record: %w", op, err)
	}

	return rec.toURL(nil), nil
}

// GetByShortCode returns the record matching shortCode with its full click history.
func (r *URLRepository) GetByShortCode(ctx context.Context, shortCode string) (*models.URL, error) {
	const op = "database.postgres.URLRepository.GetByShortCode"

	rec := new(urlRecord)
	query := `SELECT id, short_code, original_url, clicks, created_at
		FROM urls
		WHERE short_code = $1`

	err := r.db.GetContext(ctx, rec, query, shortCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get url record: %w", op, err)
	}

	history, err := r.clickHistory(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get click history: %w", op, err)
	}

	return rec.toURL(history), nil
}

// GetByOriginalURL returns the record matching originalURL with its full click history.
func (r *URLRepository) GetByOriginalURL(ctx context.Context, originalURL string) (*models.URL, error) {
	const op = "database.postgres.URLRepository.GetByOriginalURL"

	rec := new(urlRecord)
	query := `SELECT id, short_code, original_url, clicks, created_at
		FROM urls
		WHERE original_url = $1`

	err := r.db.GetContext(ctx, rec, query, originalURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get url record: %w", op, err)
	}

	history, err := r.clickHistory(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get click history: %w", op, err)
	}

	return rec.toURL(history), nil
}

// RecordClick appends event to the click history and increments the counter
// in a single transaction, so the two can never drift apart.
// The returned record reflects the new count but carries no history.
func (r *URLRepository) RecordClick(ctx context.Context, shortCode string, event models.ClickEvent) (*models.URL, error) {
	const op = "database.postgres.URLRepository.RecordClick"

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	rec := new(urlRecord)
	query := `UPDATE urls
		SET clicks = clicks + 1
		WHERE short_code = $1
		RETURNING id, short_code, original_url, clicks, created_at`

	err = tx.GetContext(ctx, rec, query, shortCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to update click count: %w", op, err)
	}

	query = `INSERT INTO url_clicks(url_id, occurred_at, user_agent, ip, referrer)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''))`

	_, err = tx.ExecContext(ctx, query, rec.ID, event.Timestamp.UTC(), event.UserAgent, event.IP, event.Referrer)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to insert click event: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	return rec.toURL(nil), nil
}

// List returns one page of records ordered by creation time descending,
// along with the total record count. Histories are not loaded; the analytics
// endpoint serves them per record.
func (r *URLRepository) List(ctx context.Context, page, pageSize int) ([]models.URL, int64, error) {
	const op = "database.postgres.URLRepository.List"

	var recs []urlRecord
	query := `SELECT id, short_code, original_url, clicks, created_at
		FROM urls
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	err := r.db.SelectContext(ctx, &recs, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: failed to list url records: %w", op, err)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT count(*) FROM urls`); err != nil {
		return nil, 0, fmt.Errorf("%s: failed to count url records: %w", op, err)
	}

	urls := make([]models.URL, 0, len(recs))
	for i := range recs {
		urls = append(urls, *recs[i].toURL(nil))
	}

	return urls, total, nil
}

func (r *URLRepository) clickHistory(ctx context.Context, urlID int64) ([]models.ClickEvent, error) {
	var recs []clickRecord
	query := `SELECT occurred_at, user_agent, ip, referrer
		FROM url_clicks
		WHERE url_id = $1
		ORDER BY occurred_at, id`

	if err := r.db.SelectContext(ctx, &recs, query, urlID); err != nil {
		return nil, err
	}

	if len(recs) == 0 {
		return nil, nil
	}

	history := make([]models.ClickEvent, 0, len(recs))
	for i := range recs {
		history = append(history, recs[i].toEvent())
	}

	return history, nil
}
