package domain

import "time"

// DailyAnalytics stores the aggregate view counters for one calendar day.
// The day is truncated to midnight and unique across the collection; the two
// maps are open-ended, keyed by article id and category name respectively.
type DailyAnalytics struct {
	Day            time.Time
	TotalViews     int
	ArticleViews   map[string]int
	CategoryViews  map[string]int
	NewSubscribers int
	NewComments    int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DayCounters carries the values written by a backfill upsert.
type DayCounters struct {
	TotalViews     int
	ArticleViews   map[string]int
	CategoryViews  map[string]int
	NewSubscribers int
	NewComments    int
}

// DailyViewPoint is one point of a chart-ready time series. Date is the ISO
// calendar date (YYYY-MM-DD); days without a stored record are absent from
// the series rather than zero-filled.
type DailyViewPoint struct {
	Date  string `json:"date"`
	Views int    `json:"views"`
}

// PeriodViews is one day of the per-period views query.
type PeriodViews struct {
	Date       string `json:"date"`
	TotalViews int    `json:"totalViews"`
}

// PeriodSummary sums a date range and carries its per-day breakdown.
type PeriodSummary struct {
	Views int              `json:"views"`
	Days  []DailyViewPoint `json:"days"`
}

// TodaySummary reports the current day's record.
type TodaySummary struct {
	Views    int `json:"views"`
	Articles int `json:"articles"`
}

// ArticleStats is the projection used for top-article listings.
type ArticleStats struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Views     int       `json:"views"`
	Category  Category  `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
	Featured  bool      `json:"featured"`
}

// CategoryStat aggregates published articles per category.
type CategoryStat struct {
	Category   string `json:"category"`
	Count      int    `json:"count"`
	TotalViews int    `json:"totalViews"`
}

// Totals holds the dashboard headline counts.
type Totals struct {
	Articles    int `json:"articles"`
	Subscribers int `json:"subscribers"`
	Comments    int `json:"comments"`
	Contacts    int `json:"contacts"`
}

// Overview is the full analytics dashboard payload.
type Overview struct {
	Today         TodaySummary     `json:"today"`
	Week          PeriodSummary    `json:"week"`
	Month         PeriodSummary    `json:"month"`
	TopArticles   []ArticleStats   `json:"topArticles"`
	CategoryStats []CategoryStat   `json:"categoryStats"`
	DailyViews    []DailyViewPoint `json:"dailyViews"`
	Totals        Totals           `json:"totals"`
}

// ViewPeriod selects the lookback window of the per-period views query.
type ViewPeriod string

const (
	ViewPeriodDaily   ViewPeriod = "daily"
	ViewPeriodWeekly  ViewPeriod = "weekly"
	ViewPeriodMonthly ViewPeriod = "monthly"
)

// LookbackDays maps the period onto its window size. Unrecognized values
// fall back to the 30-day window.
func (p ViewPeriod) LookbackDays() int {
	switch p {
	case ViewPeriodDaily:
		return 30
	case ViewPeriodWeekly:
		return 90
	case ViewPeriodMonthly:
		return 365
	default:
		return 30
	}
}

// PerformancePeriod bounds the article performance query by creation date.
type PerformancePeriod string

const (
	PerformanceWeek  PerformancePeriod = "week"
	PerformanceMonth PerformancePeriod = "month"
	PerformanceYear  PerformancePeriod = "year"
	PerformanceAll   PerformancePeriod = "all"
)

// LookbackDays returns the window size in days and whether the window is
// bounded at all.
func (p PerformancePeriod) LookbackDays() (int, bool) {
	switch p {
	case PerformanceWeek:
		return 7, true
	case PerformanceMonth:
		return 30, true
	case PerformanceYear:
		return 365, true
	default:
		return 0, false
	}
}

// StartOfDay truncates a timestamp to midnight of its local calendar date.
// That truncated date is the identity key for daily records.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the most recent Sunday.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// StartOfMonth returns midnight of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
