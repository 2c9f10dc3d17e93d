package http

import (
	"strings"
	"time"

	"github.com/shortlyhq/shortly/internal/analytics"
	"github.com/shortlyhq/shortly/internal/models"
)

// shortenRequest is the body of a shortening request.
type shortenRequest struct {
	URL string `json:"url" validate:"required,http_url"`
}

// shortenResult is the payload returned for a shortened URL.
type shortenResult struct {
	ShortURL    string `json:"shortUrl"`
	ShortCode   string `json:"shortCode"`
	OriginalURL string `json:"originalUrl"`
	Success     bool   `json:"success"`
}

func toShortenResult(url *models.URL, baseURL string) shortenResult {
	return shortenResult{
		ShortURL:    composeShortURL(baseURL, url.ShortCode),
		ShortCode:   url.ShortCode,
		OriginalURL: url.OriginalURL,
		Success:     true,
	}
}

// composeShortURL joins the configured base URL and a short code.
func composeShortURL(baseURL, shortCode string) string {
	return strings.TrimRight(baseURL, "/") + "/" + shortCode
}

// urlResult is a single record in a listing response.
type urlResult struct {
	ID          int64     `json:"id"`
	ShortCode   string    `json:"shortCode"`
	OriginalURL string    `json:"originalUrl"`
	Clicks      int64     `json:"clicks"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toURLResult(url *models.URL) urlResult {
	return urlResult{
		ID:          url.ID,
		ShortCode:   url.ShortCode,
		OriginalURL: url.OriginalURL,
		Clicks:      url.Clicks,
		CreatedAt:   url.CreatedAt,
	}
}

// clickEventResult is a single click in an analytics response.
// Absent client metadata is omitted.
type clickEventResult struct {
	Timestamp time.Time `json:"timestamp"`
	UserAgent string    `json:"userAgent,omitempty"`
	IP        string    `json:"ip,omitempty"`
	Referrer  string    `json:"referrer,omitempty"`
}

func toClickEventResults(history []models.ClickEvent) []clickEventResult {
	res := make([]clickEventResult, 0, len(history))
	for _, e := range history {
		res = append(res, clickEventResult{
			Timestamp: e.Timestamp,
			UserAgent: e.UserAgent,
			IP:        e.IP,
			Referrer:  e.Referrer,
		})
	}

	return res
}

// analyticsResult is the payload of an analytics response: the raw record
// plus the aggregates the dashboard renders.
type analyticsResult struct {
	TotalClicks    int64                `json:"totalClicks"`
	ClickHistory   []clickEventResult   `json:"clickHistory"`
	CreatedAt      time.Time            `json:"createdAt"`
	OriginalURL    string               `json:"originalUrl"`
	ShortCode      string               `json:"shortCode"`
	ClicksPerDay   []analytics.DayCount `json:"clicksPerDay"`
	RecentClicks   []clickEventResult   `json:"recentClicks"`
	AvgDailyClicks int64                `json:"avgDailyClicks"`
}

func toAnalyticsResult(url *models.URL, now time.Time) analyticsResult {
	return analyticsResult{
		TotalClicks:    url.Clicks,
		ClickHistory:   toClickEventResults(url.ClickHistory),
		CreatedAt:      url.CreatedAt,
		OriginalURL:    url.OriginalURL,
		ShortCode:      url.ShortCode,
		ClicksPerDay:   analytics.ClicksPerDay(url.ClickHistory),
		RecentClicks:   toClickEventResults(analytics.RecentClicks(url.ClickHistory, analytics.DefaultRecentClicks)),
		AvgDailyClicks: analytics.AverageDailyClicks(url.Clicks, url.CreatedAt, now),
	}
}
