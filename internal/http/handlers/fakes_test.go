package handlers

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"server/internal/analytics"
	"server/internal/domain"
	"server/internal/infra"
	"server/internal/metrics"
)

// newTestApp wires an App onto in-memory fakes. Callers mutate the fakes
// before invoking handlers.
func newTestApp(articles *fakeArticles, counters *fakeCounters) (*App, *fakeMailer) {
	cfg := &infra.Config{JWTSecret: "test-secret", UploadBaseURL: "/uploads"}
	logger := zerolog.Nop()
	m := metrics.New()
	mailer := &fakeMailer{}
	comments := &fakeComments{}
	subscribers := &fakeSubscribers{}
	contacts := &fakeContacts{}
	users := &fakeUsers{}

	return &App{
		Cfg:         cfg,
		Logger:      logger,
		Articles:    articles,
		Comments:    comments,
		Subscribers: subscribers,
		Contacts:    contacts,
		Users:       users,
		Counters:    counters,
		Recorder:    analytics.NewRecorder(articles, counters, m, logger),
		Aggregator:  analytics.NewAggregator(counters, articles, subscribers, comments, contacts, logger),
		Seeder:      analytics.NewSeeder(counters, logger),
		Mailer:      mailer,
		Metrics:     m,
	}, mailer
}

type fakeArticles struct {
	articles map[string]*domain.Article
	incErr   error
}

func newFakeArticles(articles ...*domain.Article) *fakeArticles {
	f := &fakeArticles{articles: map[string]*domain.Article{}}
	for _, a := range articles {
		f.articles[a.ID] = a
	}
	return f
}

func (f *fakeArticles) Create(ctx context.Context, article *domain.Article) error {
	article.CreatedAt = time.Now()
	article.UpdatedAt = article.CreatedAt
	f.articles[article.ID] = article
	return nil
}

func (f *fakeArticles) Update(ctx context.Context, article *domain.Article) (*domain.Article, error) {
	if _, ok := f.articles[article.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	f.articles[article.ID] = article
	return article, nil
}

func (f *fakeArticles) Delete(ctx context.Context, id string) error {
	if _, ok := f.articles[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.articles, id)
	return nil
}

func (f *fakeArticles) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	a, ok := f.articles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeArticles) List(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, int, error) {
	var out []domain.Article
	for _, a := range f.articles {
		if filter.PublishedOnly && !a.Published {
			continue
		}
		if filter.FeaturedOnly && !a.Featured {
			continue
		}
		if filter.Category != "" && a.Category != filter.Category {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (f *fakeArticles) IncrementViews(ctx context.Context, id string, day time.Time) (domain.Category, error) {
	if f.incErr != nil {
		return "", f.incErr
	}
	a, ok := f.articles[id]
	if !ok || !a.Published {
		return "", domain.ErrNotFound
	}
	a.Views++
	return a.Category, nil
}

func (f *fakeArticles) ViewHistory(ctx context.Context, id string) ([]domain.ViewHistoryEntry, error) {
	return nil, nil
}

func (f *fakeArticles) TopByViews(ctx context.Context, limit int, createdSince *time.Time) ([]domain.ArticleStats, error) {
	return nil, nil
}

func (f *fakeArticles) CategoryStats(ctx context.Context) ([]domain.CategoryStat, error) {
	return nil, nil
}

func (f *fakeArticles) CountPublished(ctx context.Context) (int, error) {
	return len(f.articles), nil
}

type fakeCounters struct {
	views       int
	comments    int
	subscribers int
	upserts     int
}

func (f *fakeCounters) GetOrCreateToday(ctx context.Context) (*domain.DailyAnalytics, error) {
	return &domain.DailyAnalytics{
		Day:           domain.StartOfDay(time.Now()),
		TotalViews:    f.views,
		ArticleViews:  map[string]int{},
		CategoryViews: map[string]int{},
	}, nil
}

func (f *fakeCounters) IncrementView(ctx context.Context, day time.Time, articleID string, category domain.Category) error {
	f.views++
	return nil
}

func (f *fakeCounters) IncrementSubscribers(ctx context.Context, day time.Time) error {
	f.subscribers++
	return nil
}

func (f *fakeCounters) IncrementComments(ctx context.Context, day time.Time) error {
	f.comments++
	return nil
}

func (f *fakeCounters) FindByDateRange(ctx context.Context, start, end time.Time) ([]domain.DailyAnalytics, error) {
	return nil, nil
}

func (f *fakeCounters) UpsertDay(ctx context.Context, day time.Time, values domain.DayCounters) error {
	f.upserts++
	return nil
}

type fakeComments struct {
	created []domain.Comment
}

func (f *fakeComments) Create(ctx context.Context, comment *domain.Comment) error {
	comment.CreatedAt = time.Now()
	f.created = append(f.created, *comment)
	return nil
}

func (f *fakeComments) ListByArticle(ctx context.Context, articleID string, approvedOnly bool) ([]domain.Comment, error) {
	return nil, nil
}

func (f *fakeComments) List(ctx context.Context, approved *bool, page, limit int) ([]domain.Comment, int, error) {
	return nil, 0, nil
}

func (f *fakeComments) Approve(ctx context.Context, id string) (*domain.Comment, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeComments) Delete(ctx context.Context, id string) error { return nil }

func (f *fakeComments) Count(ctx context.Context) (int, error) { return len(f.created), nil }

type fakeSubscribers struct {
	subs   []domain.Subscriber
	dupeOn string
}

func (f *fakeSubscribers) Create(ctx context.Context, sub *domain.Subscriber) error {
	if sub.Email == f.dupeOn {
		return domain.ErrDuplicate
	}
	sub.Active = true
	sub.CreatedAt = time.Now()
	f.subs = append(f.subs, *sub)
	return nil
}

func (f *fakeSubscribers) Deactivate(ctx context.Context, email string) error {
	for i := range f.subs {
		if f.subs[i].Email == email {
			f.subs[i].Active = false
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeSubscribers) List(ctx context.Context) ([]domain.Subscriber, error) {
	return f.subs, nil
}

func (f *fakeSubscribers) ListActive(ctx context.Context) ([]domain.Subscriber, error) {
	var active []domain.Subscriber
	for _, s := range f.subs {
		if s.Active {
			active = append(active, s)
		}
	}
	return active, nil
}

func (f *fakeSubscribers) CountActive(ctx context.Context) (int, error) {
	active, _ := f.ListActive(ctx)
	return len(active), nil
}

type fakeContacts struct {
	created []domain.Contact
}

func (f *fakeContacts) Create(ctx context.Context, contact *domain.Contact) error {
	contact.CreatedAt = time.Now()
	f.created = append(f.created, *contact)
	return nil
}

func (f *fakeContacts) List(ctx context.Context, read, replied *bool, page, limit int) ([]domain.Contact, int, error) {
	return f.created, len(f.created), nil
}

func (f *fakeContacts) MarkRead(ctx context.Context, id string) (*domain.Contact, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeContacts) MarkReplied(ctx context.Context, id string) (*domain.Contact, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeContacts) Delete(ctx context.Context, id string) error { return nil }

func (f *fakeContacts) Count(ctx context.Context) (int, error) { return len(f.created), nil }

func (f *fakeContacts) CountUnread(ctx context.Context) (int, error) { return 0, nil }

type fakeUsers struct {
	users map[string]*domain.AdminUser
}

func (f *fakeUsers) Create(ctx context.Context, user *domain.AdminUser) error {
	if f.users == nil {
		f.users = map[string]*domain.AdminUser{}
	}
	f.users[user.Username] = user
	return nil
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*domain.AdminUser, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUsers) TouchLastLogin(ctx context.Context, id string) error { return nil }

type fakeMailer struct {
	welcomes []string
	articles int
	comments int
	contacts int
}

func (m *fakeMailer) SendWelcome(ctx context.Context, to string) error {
	m.welcomes = append(m.welcomes, to)
	return nil
}

func (m *fakeMailer) SendNewArticle(ctx context.Context, recipients []string, article *domain.Article) error {
	m.articles++
	return nil
}

func (m *fakeMailer) SendNewComment(ctx context.Context, comment *domain.Comment) error {
	m.comments++
	return nil
}

func (m *fakeMailer) SendContactMessage(ctx context.Context, contact *domain.Contact) error {
	m.contacts++
	return nil
}
