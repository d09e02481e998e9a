package domain

import (
	"context"
	"time"
)

// ArticleRepository defines persistence for articles and their view history.
type ArticleRepository interface {
	Create(ctx context.Context, article *Article) error
	Update(ctx context.Context, article *Article) (*Article, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Article, error)
	List(ctx context.Context, filter ArticleFilter) ([]Article, int, error)
	// IncrementViews atomically adds one view to a published article and to
	// its history row for the given day, returning the article's category.
	// Returns ErrNotFound when the article is missing or unpublished.
	IncrementViews(ctx context.Context, id string, day time.Time) (Category, error)
	ViewHistory(ctx context.Context, id string) ([]ViewHistoryEntry, error)
	TopByViews(ctx context.Context, limit int, createdSince *time.Time) ([]ArticleStats, error)
	CategoryStats(ctx context.Context) ([]CategoryStat, error)
	CountPublished(ctx context.Context) (int, error)
}

// AnalyticsRepository is the counter store: one record per calendar day,
// mutated only through atomic increments and backfill upserts.
type AnalyticsRepository interface {
	// GetOrCreateToday returns the record for the current day, creating it
	// with zero counters when absent. Safe to call concurrently; the unique
	// day key is the concurrency guard.
	GetOrCreateToday(ctx context.Context) (*DailyAnalytics, error)
	// IncrementView adds one view for the article and category to the given
	// day's record, creating record and map keys as needed.
	IncrementView(ctx context.Context, day time.Time, articleID string, category Category) error
	IncrementSubscribers(ctx context.Context, day time.Time) error
	IncrementComments(ctx context.Context, day time.Time) error
	// FindByDateRange returns records with day in [start, end] ordered by
	// day ascending. Days without a record are simply absent.
	FindByDateRange(ctx context.Context, start, end time.Time) ([]DailyAnalytics, error)
	// UpsertDay creates or replaces the counters for one day.
	UpsertDay(ctx context.Context, day time.Time, values DayCounters) error
}

// CommentRepository defines persistence for reader comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	ListByArticle(ctx context.Context, articleID string, approvedOnly bool) ([]Comment, error)
	List(ctx context.Context, approved *bool, page, limit int) ([]Comment, int, error)
	Approve(ctx context.Context, id string) (*Comment, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// SubscriberRepository defines persistence for newsletter subscribers.
type SubscriberRepository interface {
	Create(ctx context.Context, sub *Subscriber) error
	Deactivate(ctx context.Context, email string) error
	List(ctx context.Context) ([]Subscriber, error)
	ListActive(ctx context.Context) ([]Subscriber, error)
	CountActive(ctx context.Context) (int, error)
}

// ContactRepository defines persistence for contact form messages.
type ContactRepository interface {
	Create(ctx context.Context, contact *Contact) error
	List(ctx context.Context, read, replied *bool, page, limit int) ([]Contact, int, error)
	MarkRead(ctx context.Context, id string) (*Contact, error)
	MarkReplied(ctx context.Context, id string) (*Contact, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	CountUnread(ctx context.Context) (int, error)
}

// UserRepository defines persistence for admin users.
type UserRepository interface {
	Create(ctx context.Context, user *AdminUser) error
	GetByUsername(ctx context.Context, username string) (*AdminUser, error)
	GetByID(ctx context.Context, id string) (*AdminUser, error)
	TouchLastLogin(ctx context.Context, id string) error
}
