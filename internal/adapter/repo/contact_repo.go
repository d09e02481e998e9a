package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/infra"
)

// ContactRepositoryPG implements domain.ContactRepository backed by PostgreSQL.
type ContactRepositoryPG struct {
	db infra.SQLExecutor
}

// NewContactRepository creates a new ContactRepositoryPG.
func NewContactRepository(db infra.SQLExecutor) *ContactRepositoryPG {
	return &ContactRepositoryPG{db: db}
}

const contactColumns = `id, name, email, subject, body, read, replied, ip_address, created_at`

// Create inserts a new contact message.
func (r *ContactRepositoryPG) Create(ctx context.Context, contact *domain.Contact) error {
	row := r.db.QueryRow(ctx, `
INSERT INTO contact_messages (id, name, email, subject, body, ip_address)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at;
`, contact.ID, contact.Name, contact.Email, contact.Subject, contact.Body, contact.IPAddress)
	if err := row.Scan(&contact.CreatedAt); err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// List returns a page of contact messages newest first, optionally filtered
// by read/replied state, plus the total match count.
func (r *ContactRepositoryPG) List(ctx context.Context, read, replied *bool, page, limit int) ([]domain.Contact, int, error) {
	where := ""
	args := []any{}
	addCond := func(cond string, v bool) {
		args = append(args, v)
		clause := fmt.Sprintf("%s = $%d", cond, len(args))
		if where == "" {
			where = "WHERE " + clause
		} else {
			where += " AND " + clause
		}
	}
	if read != nil {
		addCond("read", *read)
	}
	if replied != nil {
		addCond("replied", *replied)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM contact_messages `+where+`;`, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	query := fmt.Sprintf(`
SELECT %s FROM contact_messages %s
ORDER BY created_at DESC
LIMIT $%d OFFSET $%d;`, contactColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []domain.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		contacts = append(contacts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, total, nil
}

// MarkRead flags a message as read and returns it.
func (r *ContactRepositoryPG) MarkRead(ctx context.Context, id string) (*domain.Contact, error) {
	return r.flag(ctx, id, "read")
}

// MarkReplied flags a message as replied and returns it.
func (r *ContactRepositoryPG) MarkReplied(ctx context.Context, id string) (*domain.Contact, error) {
	return r.flag(ctx, id, "replied")
}

func (r *ContactRepositoryPG) flag(ctx context.Context, id, column string) (*domain.Contact, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`
UPDATE contact_messages
SET %s = true
WHERE id = $1
RETURNING %s;`, column, contactColumns), id)
	contact, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return contact, nil
}

// Delete removes a contact message.
func (r *ContactRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM contact_messages WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count counts all contact messages.
func (r *ContactRepositoryPG) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM contact_messages;`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return total, nil
}

// CountUnread counts unread contact messages.
func (r *ContactRepositoryPG) CountUnread(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM contact_messages WHERE NOT read;`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count unread contacts: %w", err)
	}
	return total, nil
}

func scanContact(row pgx.Row) (*domain.Contact, error) {
	var c domain.Contact
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Subject,
		&c.Body,
		&c.Read,
		&c.Replied,
		&c.IPAddress,
		&c.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan contact: %w", err)
	}
	return &c, nil
}
