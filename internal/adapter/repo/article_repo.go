package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/infra"
)

// ArticleRepositoryPG implements domain.ArticleRepository backed by
// PostgreSQL. The per-day view history lives in article_view_history with a
// (article_id, day) key so the lifetime counter and the history row can be
// bumped atomically in one statement.
type ArticleRepositoryPG struct {
	db infra.SQLExecutor
}

// NewArticleRepository creates a new ArticleRepositoryPG.
func NewArticleRepository(db infra.SQLExecutor) *ArticleRepositoryPG {
	return &ArticleRepositoryPG{db: db}
}

const articleColumns = `id, title, content, category, image, author, published, featured, views, tags, created_at, updated_at`

// Create inserts a new article.
func (r *ArticleRepositoryPG) Create(ctx context.Context, article *domain.Article) error {
	row := r.db.QueryRow(ctx, `
INSERT INTO articles (id, title, content, category, image, author, published, featured, tags)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING created_at, updated_at;
`,
		article.ID,
		article.Title,
		article.Content,
		string(article.Category),
		article.Image,
		article.Author,
		article.Published,
		article.Featured,
		article.Tags,
	)
	if err := row.Scan(&article.CreatedAt, &article.UpdatedAt); err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

// Update replaces the editable fields of an article and returns the stored row.
func (r *ArticleRepositoryPG) Update(ctx context.Context, article *domain.Article) (*domain.Article, error) {
	row := r.db.QueryRow(ctx, `
UPDATE articles
SET title = $2,
    content = $3,
    category = $4,
    image = $5,
    author = $6,
    published = $7,
    featured = $8,
    tags = $9,
    updated_at = now()
WHERE id = $1
RETURNING `+articleColumns+`;
`,
		article.ID,
		article.Title,
		article.Content,
		string(article.Category),
		article.Image,
		article.Author,
		article.Published,
		article.Featured,
		article.Tags,
	)
	return scanArticle(row)
}

// Delete removes an article and, via cascade, its history and comments.
func (r *ArticleRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM articles WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID fetches a single article.
func (r *ArticleRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	row := r.db.QueryRow(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1;`, id)
	return scanArticle(row)
}

// List returns a page of articles matching the filter plus the total match count.
func (r *ArticleRepositoryPG) List(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, int, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.PublishedOnly {
		conds = append(conds, "published")
	}
	if filter.Category != "" {
		conds = append(conds, "category = "+arg(string(filter.Category)))
	}
	if filter.FeaturedOnly {
		conds = append(conds, "featured")
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		p := arg("%" + s + "%")
		conds = append(conds, "(title ILIKE "+p+" OR content ILIKE "+p+")")
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countRow := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM articles `+where+`;`, args...)
	if err := countRow.Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM articles %s ORDER BY created_at DESC LIMIT %s OFFSET %s;`,
		articleColumns, where, arg(filter.PageLimit()), arg(filter.Offset()),
	)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, err
		}
		articles = append(articles, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate articles: %w", err)
	}
	return articles, total, nil
}

// IncrementViews atomically adds one view to a published article and to its
// history row for the given day. The CTE keeps the lifetime counter equal to
// the sum over the history even under concurrent calls.
func (r *ArticleRepositoryPG) IncrementViews(ctx context.Context, id string, day time.Time) (domain.Category, error) {
	row := r.db.QueryRow(ctx, `
WITH bumped AS (
    UPDATE articles
    SET views = views + 1, updated_at = now()
    WHERE id = $1 AND published
    RETURNING id, category
)
INSERT INTO article_view_history (article_id, day, views)
SELECT id, $2, 1 FROM bumped
ON CONFLICT (article_id, day) DO UPDATE SET views = article_view_history.views + 1
RETURNING (SELECT category FROM bumped);
`, id, domain.StartOfDay(day))

	var category string
	if err := row.Scan(&category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("increment article views: %w", err)
	}
	return domain.Category(category), nil
}

// ViewHistory returns the per-day history of an article ordered by day ascending.
func (r *ArticleRepositoryPG) ViewHistory(ctx context.Context, id string) ([]domain.ViewHistoryEntry, error) {
	rows, err := r.db.Query(ctx, `
SELECT day, views FROM article_view_history WHERE article_id = $1 ORDER BY day ASC;
`, id)
	if err != nil {
		return nil, fmt.Errorf("query view history: %w", err)
	}
	defer rows.Close()

	var history []domain.ViewHistoryEntry
	for rows.Next() {
		var entry domain.ViewHistoryEntry
		if err := rows.Scan(&entry.Day, &entry.Views); err != nil {
			return nil, fmt.Errorf("scan view history: %w", err)
		}
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate view history: %w", err)
	}
	return history, nil
}

// TopByViews returns the highest-viewed published articles, optionally
// restricted to those created since the given time. Ties keep storage order.
func (r *ArticleRepositoryPG) TopByViews(ctx context.Context, limit int, createdSince *time.Time) ([]domain.ArticleStats, error) {
	query := `
SELECT id, title, views, category, created_at, featured
FROM articles
WHERE published`
	args := []any{limit}
	if createdSince != nil {
		query += ` AND created_at >= $2`
		args = append(args, *createdSince)
	}
	query += `
ORDER BY views DESC
LIMIT $1;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query top articles: %w", err)
	}
	defer rows.Close()

	var stats []domain.ArticleStats
	for rows.Next() {
		var s domain.ArticleStats
		var category string
		if err := rows.Scan(&s.ID, &s.Title, &s.Views, &category, &s.CreatedAt, &s.Featured); err != nil {
			return nil, fmt.Errorf("scan top article: %w", err)
		}
		s.Category = domain.Category(category)
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top articles: %w", err)
	}
	return stats, nil
}

// CategoryStats aggregates published articles per category ordered by total
// views descending.
func (r *ArticleRepositoryPG) CategoryStats(ctx context.Context) ([]domain.CategoryStat, error) {
	rows, err := r.db.Query(ctx, `
SELECT category, COUNT(*), COALESCE(SUM(views), 0)
FROM articles
WHERE published
GROUP BY category
ORDER BY COALESCE(SUM(views), 0) DESC;
`)
	if err != nil {
		return nil, fmt.Errorf("query category stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.CategoryStat
	for rows.Next() {
		var s domain.CategoryStat
		if err := rows.Scan(&s.Category, &s.Count, &s.TotalViews); err != nil {
			return nil, fmt.Errorf("scan category stat: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category stats: %w", err)
	}
	return stats, nil
}

// CountPublished counts published articles.
func (r *ArticleRepositoryPG) CountPublished(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM articles WHERE published;`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count published articles: %w", err)
	}
	return total, nil
}

func scanArticle(row pgx.Row) (*domain.Article, error) {
	var (
		a        domain.Article
		category string
	)
	if err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Content,
		&category,
		&a.Image,
		&a.Author,
		&a.Published,
		&a.Featured,
		&a.Views,
		&a.Tags,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan article: %w", err)
	}
	a.Category = domain.Category(category)
	return &a, nil
}
