package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

const (
	topArticlesLimit = 10
	dailyViewsWindow = 30
	defaultPerfLimit = 20
)

// Aggregator answers the read-side analytics queries by scanning the counter
// store and the article collection. Counter-store reads are fundamental and
// fail the query; the enrichment sections (top articles, category stats,
// totals) degrade to empty values so the dashboard renders zero states
// instead of error banners.
type Aggregator struct {
	counters    domain.AnalyticsRepository
	articles    domain.ArticleRepository
	subscribers domain.SubscriberRepository
	comments    domain.CommentRepository
	contacts    domain.ContactRepository
	logger      zerolog.Logger
}

// NewAggregator constructs the aggregator.
func NewAggregator(
	counters domain.AnalyticsRepository,
	articles domain.ArticleRepository,
	subscribers domain.SubscriberRepository,
	comments domain.CommentRepository,
	contacts domain.ContactRepository,
	logger zerolog.Logger,
) *Aggregator {
	return &Aggregator{
		counters:    counters,
		articles:    articles,
		subscribers: subscribers,
		comments:    comments,
		contacts:    contacts,
		logger:      logger,
	}
}

// Overview builds the full dashboard payload for the given reference time.
// An empty store yields zeros and empty lists, not an error.
func (g *Aggregator) Overview(ctx context.Context, now time.Time) (*domain.Overview, error) {
	today := domain.StartOfDay(now)
	weekStart := domain.StartOfWeek(now)
	monthStart := domain.StartOfMonth(now)

	todayRec, err := g.counters.GetOrCreateToday(ctx)
	if err != nil {
		return nil, fmt.Errorf("load today record: %w", err)
	}

	week, err := g.rangeSummary(ctx, weekStart, today)
	if err != nil {
		return nil, fmt.Errorf("aggregate week: %w", err)
	}
	month, err := g.rangeSummary(ctx, monthStart, today)
	if err != nil {
		return nil, fmt.Errorf("aggregate month: %w", err)
	}

	overview := &domain.Overview{
		Today: domain.TodaySummary{
			Views:    todayRec.TotalViews,
			Articles: len(todayRec.ArticleViews),
		},
		Week:          week,
		Month:         month,
		TopArticles:   []domain.ArticleStats{},
		CategoryStats: []domain.CategoryStat{},
		DailyViews:    []domain.DailyViewPoint{},
	}

	if top, err := g.articles.TopByViews(ctx, topArticlesLimit, nil); err != nil {
		g.logger.Warn().Err(err).Msg("top articles query failed")
	} else if top != nil {
		overview.TopArticles = top
	}

	if stats, err := g.articles.CategoryStats(ctx); err != nil {
		g.logger.Warn().Err(err).Msg("category aggregation failed")
	} else if stats != nil {
		overview.CategoryStats = stats
	}

	if daily, err := g.dailyViews(ctx, today); err != nil {
		g.logger.Warn().Err(err).Msg("daily views query failed")
	} else {
		overview.DailyViews = daily
	}

	overview.Totals = g.totals(ctx)

	return overview, nil
}

// rangeSummary sums totalViews over [start, end] and carries the per-day
// points. The sum is computed over the range, not kept as a running total.
func (g *Aggregator) rangeSummary(ctx context.Context, start, end time.Time) (domain.PeriodSummary, error) {
	records, err := g.counters.FindByDateRange(ctx, start, end)
	if err != nil {
		return domain.PeriodSummary{}, err
	}

	summary := domain.PeriodSummary{Days: []domain.DailyViewPoint{}}
	for _, rec := range records {
		summary.Views += rec.TotalViews
		summary.Days = append(summary.Days, domain.DailyViewPoint{
			Date:  rec.Day.Format("2006-01-02"),
			Views: rec.TotalViews,
		})
	}
	return summary, nil
}

// dailyViews returns the chart series for the trailing 30 days. Days without
// a record are absent from the series, not zero-filled; callers handle gaps.
func (g *Aggregator) dailyViews(ctx context.Context, today time.Time) ([]domain.DailyViewPoint, error) {
	start := today.AddDate(0, 0, -dailyViewsWindow)
	records, err := g.counters.FindByDateRange(ctx, start, today)
	if err != nil {
		return nil, err
	}

	points := make([]domain.DailyViewPoint, 0, len(records))
	for _, rec := range records {
		points = append(points, domain.DailyViewPoint{
			Date:  rec.Day.Format("2006-01-02"),
			Views: rec.TotalViews,
		})
	}
	return points, nil
}

func (g *Aggregator) totals(ctx context.Context) domain.Totals {
	var totals domain.Totals
	var err error

	if totals.Articles, err = g.articles.CountPublished(ctx); err != nil {
		g.logger.Warn().Err(err).Msg("article count failed")
	}
	if totals.Subscribers, err = g.subscribers.CountActive(ctx); err != nil {
		g.logger.Warn().Err(err).Msg("subscriber count failed")
	}
	if totals.Comments, err = g.comments.Count(ctx); err != nil {
		g.logger.Warn().Err(err).Msg("comment count failed")
	}
	if totals.Contacts, err = g.contacts.Count(ctx); err != nil {
		g.logger.Warn().Err(err).Msg("contact count failed")
	}
	return totals
}

// ViewsForPeriod returns the per-day totals for the period's lookback window
// (30, 90 or 365 days; unrecognized periods fall back to 30), ordered by day
// ascending.
func (g *Aggregator) ViewsForPeriod(ctx context.Context, period domain.ViewPeriod, now time.Time) ([]domain.PeriodViews, error) {
	end := domain.StartOfDay(now)
	start := end.AddDate(0, 0, -period.LookbackDays())

	records, err := g.counters.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("aggregate period views: %w", err)
	}

	points := make([]domain.PeriodViews, 0, len(records))
	for _, rec := range records {
		points = append(points, domain.PeriodViews{
			Date:       rec.Day.Format("2006-01-02"),
			TotalViews: rec.TotalViews,
		})
	}
	return points, nil
}

// ArticlePerformance returns the top published articles by lifetime views,
// restricted to those created inside the period's window when it is bounded.
func (g *Aggregator) ArticlePerformance(ctx context.Context, limit int, period domain.PerformancePeriod, now time.Time) ([]domain.ArticleStats, error) {
	if limit < 1 {
		limit = defaultPerfLimit
	}

	var since *time.Time
	if days, bounded := period.LookbackDays(); bounded {
		s := domain.StartOfDay(now).AddDate(0, 0, -days)
		since = &s
	}

	stats, err := g.articles.TopByViews(ctx, limit, since)
	if err != nil {
		return nil, fmt.Errorf("article performance: %w", err)
	}
	if stats == nil {
		stats = []domain.ArticleStats{}
	}
	return stats, nil
}
