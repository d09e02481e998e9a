package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"server/internal/domain"
	"server/internal/infra"
)

// SubscriberRepositoryPG implements domain.SubscriberRepository backed by PostgreSQL.
type SubscriberRepositoryPG struct {
	db infra.SQLExecutor
}

// NewSubscriberRepository creates a new SubscriberRepositoryPG.
func NewSubscriberRepository(db infra.SQLExecutor) *SubscriberRepositoryPG {
	return &SubscriberRepositoryPG{db: db}
}

// uniqueViolation is the PostgreSQL error code for duplicate keys.
const uniqueViolation = "23505"

// Create inserts a new subscriber. Returns domain.ErrDuplicate when the
// email is already registered.
func (r *SubscriberRepositoryPG) Create(ctx context.Context, sub *domain.Subscriber) error {
	row := r.db.QueryRow(ctx, `
INSERT INTO subscribers (id, email, active, source)
VALUES ($1, $2, true, $3)
RETURNING created_at;
`, sub.ID, strings.ToLower(sub.Email), sub.Source)
	if err := row.Scan(&sub.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert subscriber: %w", err)
	}
	sub.Active = true
	return nil
}

// Deactivate soft-deletes a subscription by email.
func (r *SubscriberRepositoryPG) Deactivate(ctx context.Context, email string) error {
	tag, err := r.db.Exec(ctx, `
UPDATE subscribers
SET active = false, unsubscribed_at = now()
WHERE email = $1;
`, strings.ToLower(email))
	if err != nil {
		return fmt.Errorf("deactivate subscriber: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns every subscriber newest first.
func (r *SubscriberRepositoryPG) List(ctx context.Context) ([]domain.Subscriber, error) {
	return r.list(ctx, `
SELECT id, email, active, source, unsubscribed_at, created_at
FROM subscribers
ORDER BY created_at DESC;
`)
}

// ListActive returns only active subscribers, used for notifications.
func (r *SubscriberRepositoryPG) ListActive(ctx context.Context) ([]domain.Subscriber, error) {
	return r.list(ctx, `
SELECT id, email, active, source, unsubscribed_at, created_at
FROM subscribers
WHERE active
ORDER BY created_at DESC;
`)
}

// CountActive counts active subscribers.
func (r *SubscriberRepositoryPG) CountActive(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM subscribers WHERE active;`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count subscribers: %w", err)
	}
	return total, nil
}

func (r *SubscriberRepositoryPG) list(ctx context.Context, query string) ([]domain.Subscriber, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query subscribers: %w", err)
	}
	defer rows.Close()

	var subs []domain.Subscriber
	for rows.Next() {
		var s domain.Subscriber
		if err := rows.Scan(&s.ID, &s.Email, &s.Active, &s.Source, &s.UnsubscribedAt, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscribers: %w", err)
	}
	return subs, nil
}
