package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/infra"
)

// CommentRepositoryPG implements domain.CommentRepository backed by PostgreSQL.
type CommentRepositoryPG struct {
	db infra.SQLExecutor
}

// NewCommentRepository creates a new CommentRepositoryPG.
func NewCommentRepository(db infra.SQLExecutor) *CommentRepositoryPG {
	return &CommentRepositoryPG{db: db}
}

// Create inserts a new comment, pending approval.
func (r *CommentRepositoryPG) Create(ctx context.Context, comment *domain.Comment) error {
	row := r.db.QueryRow(ctx, `
INSERT INTO comments (id, article_id, author, email, body, ip_address, user_agent, country)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING created_at;
`,
		comment.ID,
		comment.ArticleID,
		comment.Author,
		comment.Email,
		comment.Body,
		comment.IPAddress,
		comment.UserAgent,
		comment.Country,
	)
	if err := row.Scan(&comment.CreatedAt); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// ListByArticle returns an article's comments newest first.
func (r *CommentRepositoryPG) ListByArticle(ctx context.Context, articleID string, approvedOnly bool) ([]domain.Comment, error) {
	query := `
SELECT c.id, c.article_id, a.title, c.author, c.email, c.body, c.approved, c.country, c.created_at
FROM comments c
JOIN articles a ON a.id = c.article_id
WHERE c.article_id = $1`
	if approvedOnly {
		query += ` AND c.approved`
	}
	query += `
ORDER BY c.created_at DESC;`

	rows, err := r.db.Query(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("query article comments: %w", err)
	}
	defer rows.Close()
	return collectComments(rows)
}

// List returns a page of comments across all articles, optionally filtered
// by approval state, plus the total match count.
func (r *CommentRepositoryPG) List(ctx context.Context, approved *bool, page, limit int) ([]domain.Comment, int, error) {
	where := ""
	args := []any{}
	if approved != nil {
		where = "WHERE c.approved = $1"
		args = append(args, *approved)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM comments c ` + where + `;`
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	query := fmt.Sprintf(`
SELECT c.id, c.article_id, a.title, c.author, c.email, c.body, c.approved, c.country, c.created_at
FROM comments c
JOIN articles a ON a.id = c.article_id
%s
ORDER BY c.created_at DESC
LIMIT $%d OFFSET $%d;`, where, len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	comments, err := collectComments(rows)
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// Approve marks a comment visible and returns it.
func (r *CommentRepositoryPG) Approve(ctx context.Context, id string) (*domain.Comment, error) {
	row := r.db.QueryRow(ctx, `
UPDATE comments c
SET approved = true
FROM articles a
WHERE c.id = $1 AND a.id = c.article_id
RETURNING c.id, c.article_id, a.title, c.author, c.email, c.body, c.approved, c.country, c.created_at;
`, id)

	comment, err := scanComment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment.
func (r *CommentRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count counts all comments regardless of approval state.
func (r *CommentRepositoryPG) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM comments;`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return total, nil
}

func collectComments(rows pgx.Rows) ([]domain.Comment, error) {
	var comments []domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, nil
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	if err := row.Scan(
		&c.ID,
		&c.ArticleID,
		&c.ArticleTitle,
		&c.Author,
		&c.Email,
		&c.Body,
		&c.Approved,
		&c.Country,
		&c.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan comment: %w", err)
	}
	return &c, nil
}
