// Package models defines the domain entities shared across the application layers.
package models

import "time"

// URL represents a shortened URL and its accumulated click analytics.
type URL struct {
	// ID is the storage-assigned identifier of the record.
	ID int64
	// ShortCode is the compact identifier mapping to the original URL.
	ShortCode string
	// OriginalURL is the full URL the short code resolves to. Immutable after creation.
	OriginalURL string
	// Clicks is the total number of recorded visits.
	Clicks int64
	// ClickHistory holds the recorded visits in chronological order.
	ClickHistory []ClickEvent
	// CreatedAt is the timestamp when the record was created.
	CreatedAt time.Time
}

// ClickEvent is a single recorded visit to a short link.
// All client metadata is optional; an empty string means the field was absent.
type ClickEvent struct {
	Timestamp time.Time
	UserAgent string
	IP        string
	Referrer  string
}
