// Package analytics derives aggregate views from a materialized click history.
// All functions are pure; grouping and day arithmetic use UTC calendar dates.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/shortlyhq/shortly/internal/models"
)

// MaxDays is the number of most recent distinct dates reported by ClicksPerDay.
const MaxDays = 7

// DefaultRecentClicks is the number of events reported by the analytics API.
const DefaultRecentClicks = 10

// DayCount is the number of clicks recorded on a single UTC calendar date.
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// ClicksPerDay groups history by UTC calendar date and returns per-day counts
// for at most the MaxDays most recent distinct dates present, ascending by date.
func ClicksPerDay(history []models.ClickEvent) []DayCount {
	if len(history) == 0 {
		return nil
	}

	counts := make(map[string]int64, len(history))
	for _, e := range history {
		day := e.Timestamp.UTC().Format(time.DateOnly)
		counts[day]++
	}

	days := make([]string, 0, len(counts))
	for day := range counts {
		days = append(days, day)
	}
	// The YYYY-MM-DD layout sorts chronologically.
	sort.Strings(days)

	if len(days) > MaxDays {
		days = days[len(days)-MaxDays:]
	}

	res := make([]DayCount, 0, len(days))
	for _, day := range days {
		res = append(res, DayCount{Date: day, Count: counts[day]})
	}

	return res
}

// RecentClicks returns at most n of the latest events, most recent first.
// The history is assumed to be in chronological order.
func RecentClicks(history []models.ClickEvent, n int) []models.ClickEvent {
	if n <= 0 || len(history) == 0 {
		return nil
	}

	if len(history) > n {
		history = history[len(history)-n:]
	}

	res := make([]models.ClickEvent, len(history))
	for i, e := range history {
		res[len(history)-1-i] = e
	}

	return res
}

// AverageDailyClicks returns totalClicks divided by the age of the record in
// days (rounded up, at least one), rounded to the nearest integer.
// It returns 0 when totalClicks is 0.
func AverageDailyClicks(totalClicks int64, createdAt, now time.Time) int64 {
	if totalClicks == 0 {
		return 0
	}

	days := int64(math.Ceil(now.Sub(createdAt).Hours() / 24))
	if days < 1 {
		days = 1
	}

	return int64(math.Round(float64(totalClicks) / float64(days)))
}
