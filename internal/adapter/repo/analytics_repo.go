package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"server/internal/domain"
	"server/internal/infra"
)

// AnalyticsRepositoryPG implements domain.AnalyticsRepository using
// PostgreSQL. All counter mutations are single-statement upserts so
// concurrent recorders never lose an increment; the unique day key doubles
// as the get-or-create concurrency guard.
type AnalyticsRepositoryPG struct {
	db infra.SQLExecutor
}

// NewAnalyticsRepository constructs the repository.
func NewAnalyticsRepository(db infra.SQLExecutor) *AnalyticsRepositoryPG {
	return &AnalyticsRepositoryPG{db: db}
}

const qSelectDay = `
SELECT day, total_views, article_views, category_views, new_subscribers, new_comments, created_at, updated_at
FROM analytics_daily
WHERE day = $1;
`

// GetOrCreateToday returns today's record, creating it with zero counters
// when absent. A concurrent insert for the same day is absorbed by
// ON CONFLICT DO NOTHING and the subsequent select sees the winner's row.
func (r *AnalyticsRepositoryPG) GetOrCreateToday(ctx context.Context) (*domain.DailyAnalytics, error) {
	today := domain.StartOfDay(time.Now())

	_, err := r.db.Exec(ctx, `
INSERT INTO analytics_daily (day) VALUES ($1)
ON CONFLICT (day) DO NOTHING;
`, today)
	if err != nil {
		return nil, fmt.Errorf("ensure today record: %w", err)
	}

	return r.scanDay(r.db.QueryRow(ctx, qSelectDay, today))
}

// IncrementView adds one view for the article and category to the given
// day's record, creating the record and the map keys as needed.
func (r *AnalyticsRepositoryPG) IncrementView(ctx context.Context, day time.Time, articleID string, category domain.Category) error {
	_, err := r.db.Exec(ctx, `
INSERT INTO analytics_daily (day, total_views, article_views, category_views)
VALUES ($1, 1, jsonb_build_object($2::text, 1), jsonb_build_object($3::text, 1))
ON CONFLICT (day) DO UPDATE SET
    total_views = analytics_daily.total_views + 1,
    article_views = jsonb_set(
        analytics_daily.article_views,
        ARRAY[$2::text],
        to_jsonb(COALESCE((analytics_daily.article_views ->> $2)::int, 0) + 1)
    ),
    category_views = jsonb_set(
        analytics_daily.category_views,
        ARRAY[$3::text],
        to_jsonb(COALESCE((analytics_daily.category_views ->> $3)::int, 0) + 1)
    ),
    updated_at = now();
`, domain.StartOfDay(day), articleID, string(category))
	if err != nil {
		return fmt.Errorf("increment view counters: %w", err)
	}
	return nil
}

// IncrementSubscribers bumps the day's new-subscriber counter.
func (r *AnalyticsRepositoryPG) IncrementSubscribers(ctx context.Context, day time.Time) error {
	_, err := r.db.Exec(ctx, `
INSERT INTO analytics_daily (day, new_subscribers) VALUES ($1, 1)
ON CONFLICT (day) DO UPDATE SET
    new_subscribers = analytics_daily.new_subscribers + 1,
    updated_at = now();
`, domain.StartOfDay(day))
	if err != nil {
		return fmt.Errorf("increment subscriber counter: %w", err)
	}
	return nil
}

// IncrementComments bumps the day's new-comment counter.
func (r *AnalyticsRepositoryPG) IncrementComments(ctx context.Context, day time.Time) error {
	_, err := r.db.Exec(ctx, `
INSERT INTO analytics_daily (day, new_comments) VALUES ($1, 1)
ON CONFLICT (day) DO UPDATE SET
    new_comments = analytics_daily.new_comments + 1,
    updated_at = now();
`, domain.StartOfDay(day))
	if err != nil {
		return fmt.Errorf("increment comment counter: %w", err)
	}
	return nil
}

// FindByDateRange returns records with day in [start, end] ordered by day
// ascending.
func (r *AnalyticsRepositoryPG) FindByDateRange(ctx context.Context, start, end time.Time) ([]domain.DailyAnalytics, error) {
	rows, err := r.db.Query(ctx, `
SELECT day, total_views, article_views, category_views, new_subscribers, new_comments, created_at, updated_at
FROM analytics_daily
WHERE day BETWEEN $1 AND $2
ORDER BY day ASC;
`, domain.StartOfDay(start), domain.StartOfDay(end))
	if err != nil {
		return nil, fmt.Errorf("query date range: %w", err)
	}
	defer rows.Close()

	var records []domain.DailyAnalytics
	for rows.Next() {
		rec, err := r.scanDay(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate date range: %w", err)
	}
	return records, nil
}

// UpsertDay creates or replaces the counters for a specific day. Used by
// backfill; re-running with the same values is a no-op thanks to the unique
// day key.
func (r *AnalyticsRepositoryPG) UpsertDay(ctx context.Context, day time.Time, values domain.DayCounters) error {
	articleJSON, err := marshalCounts(values.ArticleViews)
	if err != nil {
		return err
	}
	categoryJSON, err := marshalCounts(values.CategoryViews)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
INSERT INTO analytics_daily (day, total_views, article_views, category_views, new_subscribers, new_comments)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (day) DO UPDATE SET
    total_views = EXCLUDED.total_views,
    article_views = EXCLUDED.article_views,
    category_views = EXCLUDED.category_views,
    new_subscribers = EXCLUDED.new_subscribers,
    new_comments = EXCLUDED.new_comments,
    updated_at = now();
`, domain.StartOfDay(day), values.TotalViews, articleJSON, categoryJSON, values.NewSubscribers, values.NewComments)
	if err != nil {
		return fmt.Errorf("upsert day counters: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *AnalyticsRepositoryPG) scanDay(row rowScanner) (*domain.DailyAnalytics, error) {
	var (
		rec         domain.DailyAnalytics
		articleRaw  []byte
		categoryRaw []byte
	)
	if err := row.Scan(
		&rec.Day,
		&rec.TotalViews,
		&articleRaw,
		&categoryRaw,
		&rec.NewSubscribers,
		&rec.NewComments,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan day record: %w", err)
	}
	if err := json.Unmarshal(articleRaw, &rec.ArticleViews); err != nil {
		return nil, fmt.Errorf("decode article views: %w", err)
	}
	if err := json.Unmarshal(categoryRaw, &rec.CategoryViews); err != nil {
		return nil, fmt.Errorf("decode category views: %w", err)
	}
	return &rec, nil
}

func marshalCounts(m map[string]int) ([]byte, error) {
	if m == nil {
		m = map[string]int{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode counters: %w", err)
	}
	return data, nil
}
