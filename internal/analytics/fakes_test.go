package analytics

import (
	"context"
	"sort"
	"time"

	"server/internal/domain"
)

// memCounters is an in-memory stand-in for the daily counter store.
type memCounters struct {
	today        time.Time
	records      map[string]*domain.DailyAnalytics
	upserts      int
	getOrCreates int

	incrementErr   error
	getOrCreateErr error
	findErr        error
}

func newMemCounters(today time.Time) *memCounters {
	return &memCounters{
		today:   domain.StartOfDay(today),
		records: map[string]*domain.DailyAnalytics{},
	}
}

func dayKey(day time.Time) string {
	return day.Format("2006-01-02")
}

func (m *memCounters) record(day time.Time) *domain.DailyAnalytics {
	key := dayKey(day)
	rec, ok := m.records[key]
	if !ok {
		rec = &domain.DailyAnalytics{
			Day:           domain.StartOfDay(day),
			ArticleViews:  map[string]int{},
			CategoryViews: map[string]int{},
		}
		m.records[key] = rec
	}
	return rec
}

func (m *memCounters) GetOrCreateToday(ctx context.Context) (*domain.DailyAnalytics, error) {
	if m.getOrCreateErr != nil {
		return nil, m.getOrCreateErr
	}
	m.getOrCreates++
	return m.record(m.today), nil
}

func (m *memCounters) IncrementView(ctx context.Context, day time.Time, articleID string, category domain.Category) error {
	if m.incrementErr != nil {
		return m.incrementErr
	}
	rec := m.record(day)
	rec.TotalViews++
	rec.ArticleViews[articleID]++
	rec.CategoryViews[string(category)]++
	return nil
}

func (m *memCounters) IncrementSubscribers(ctx context.Context, day time.Time) error {
	m.record(day).NewSubscribers++
	return nil
}

func (m *memCounters) IncrementComments(ctx context.Context, day time.Time) error {
	m.record(day).NewComments++
	return nil
}

func (m *memCounters) FindByDateRange(ctx context.Context, start, end time.Time) ([]domain.DailyAnalytics, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []domain.DailyAnalytics
	for _, rec := range m.records {
		if rec.Day.Before(start) || rec.Day.After(end) {
			continue
		}
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (m *memCounters) UpsertDay(ctx context.Context, day time.Time, values domain.DayCounters) error {
	m.upserts++
	rec := m.record(day)
	rec.TotalViews = values.TotalViews
	rec.ArticleViews = values.ArticleViews
	rec.CategoryViews = values.CategoryViews
	rec.NewSubscribers = values.NewSubscribers
	rec.NewComments = values.NewComments
	return nil
}

// memArticles is an in-memory article repository covering the methods the
// analytics core reaches for.
type memArticles struct {
	articles map[string]*domain.Article
	history  map[string]map[string]int

	incrementErr error
	topErr       error
}

func newMemArticles(articles ...*domain.Article) *memArticles {
	m := &memArticles{
		articles: map[string]*domain.Article{},
		history:  map[string]map[string]int{},
	}
	for _, a := range articles {
		m.articles[a.ID] = a
	}
	return m
}

func (m *memArticles) Create(ctx context.Context, article *domain.Article) error {
	m.articles[article.ID] = article
	return nil
}

func (m *memArticles) Update(ctx context.Context, article *domain.Article) (*domain.Article, error) {
	if _, ok := m.articles[article.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	m.articles[article.ID] = article
	return article, nil
}

func (m *memArticles) Delete(ctx context.Context, id string) error {
	if _, ok := m.articles[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.articles, id)
	return nil
}

func (m *memArticles) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	a, ok := m.articles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (m *memArticles) List(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, int, error) {
	var out []domain.Article
	for _, a := range m.articles {
		if filter.PublishedOnly && !a.Published {
			continue
		}
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (m *memArticles) IncrementViews(ctx context.Context, id string, day time.Time) (domain.Category, error) {
	if m.incrementErr != nil {
		return "", m.incrementErr
	}
	a, ok := m.articles[id]
	if !ok || !a.Published {
		return "", domain.ErrNotFound
	}
	a.Views++
	if m.history[id] == nil {
		m.history[id] = map[string]int{}
	}
	m.history[id][dayKey(day)]++
	return a.Category, nil
}

func (m *memArticles) ViewHistory(ctx context.Context, id string) ([]domain.ViewHistoryEntry, error) {
	var out []domain.ViewHistoryEntry
	for key, views := range m.history[id] {
		day, _ := time.Parse("2006-01-02", key)
		out = append(out, domain.ViewHistoryEntry{Day: day, Views: views})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (m *memArticles) TopByViews(ctx context.Context, limit int, createdSince *time.Time) ([]domain.ArticleStats, error) {
	if m.topErr != nil {
		return nil, m.topErr
	}
	var stats []domain.ArticleStats
	for _, a := range m.articles {
		if !a.Published {
			continue
		}
		if createdSince != nil && a.CreatedAt.Before(*createdSince) {
			continue
		}
		stats = append(stats, domain.ArticleStats{
			ID:        a.ID,
			Title:     a.Title,
			Views:     a.Views,
			Category:  a.Category,
			CreatedAt: a.CreatedAt,
			Featured:  a.Featured,
		})
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Views > stats[j].Views })
	if len(stats) > limit {
		stats = stats[:limit]
	}
	return stats, nil
}

func (m *memArticles) CategoryStats(ctx context.Context) ([]domain.CategoryStat, error) {
	byCat := map[string]*domain.CategoryStat{}
	for _, a := range m.articles {
		if !a.Published {
			continue
		}
		stat, ok := byCat[string(a.Category)]
		if !ok {
			stat = &domain.CategoryStat{Category: string(a.Category)}
			byCat[string(a.Category)] = stat
		}
		stat.Count++
		stat.TotalViews += a.Views
	}
	var out []domain.CategoryStat
	for _, stat := range byCat {
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalViews > out[j].TotalViews })
	return out, nil
}

func (m *memArticles) CountPublished(ctx context.Context) (int, error) {
	n := 0
	for _, a := range m.articles {
		if a.Published {
			n++
		}
	}
	return n, nil
}

// Count-only fakes for the remaining dashboard totals.

type memSubscribers struct{ active int }

func (m *memSubscribers) Create(ctx context.Context, sub *domain.Subscriber) error { return nil }

func (m *memSubscribers) Deactivate(ctx context.Context, email string) error { return nil }

func (m *memSubscribers) List(ctx context.Context) ([]domain.Subscriber, error) { return nil, nil }
func (m *memSubscribers) ListActive(ctx context.Context) ([]domain.Subscriber, error) {
	return nil, nil
}
func (m *memSubscribers) CountActive(ctx context.Context) (int, error) { return m.active, nil }


type memComments struct{ total int }

func (m *memComments) Create(ctx context.Context, comment *domain.Comment) error { return nil }

func (m *memComments) ListByArticle(ctx context.Context, articleID string, approvedOnly bool) ([]domain.Comment, error) {
	return nil, nil
}
func (m *memComments) List(ctx context.Context, approved *bool, page, limit int) ([]domain.Comment, int, error) {
	return nil, 0, nil
}
func (m *memComments) Approve(ctx context.Context, id string) (*domain.Comment, error) {
	return nil, domain.ErrNotFound
}
func (m *memComments) Delete(ctx context.Context, id string) error { return nil }

func (m *memComments) Count(ctx context.Context) (int, error) { return m.total, nil }

type memContacts struct{ total int }

func (m *memContacts) Create(ctx context.Context, contact *domain.Contact) error { return nil }

func (m *memContacts) List(ctx context.Context, read, replied *bool, page, limit int) ([]domain.Contact, int, error) {
	return nil, 0, nil
}
func (m *memContacts) MarkRead(ctx context.Context, id string) (*domain.Contact, error) {
	return nil, domain.ErrNotFound
}
func (m *memContacts) MarkReplied(ctx context.Context, id string) (*domain.Contact, error) {
	return nil, domain.ErrNotFound
}
func (m *memContacts) Delete(ctx context.Context, id string) error { return nil }

func (m *memContacts) Count(ctx context.Context) (int, error) { return m.total, nil }

func (m *memContacts) CountUnread(ctx context.Context) (int, error) { return 0, nil }
