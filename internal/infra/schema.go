package infra

import (
	"context"
	"fmt"
)

// schemaStatements are applied in order at startup. Every statement is
// idempotent so repeated boots are safe.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS articles (
    id uuid PRIMARY KEY,
    title text NOT NULL,
    content text NOT NULL,
    category text NOT NULL,
    image text NOT NULL DEFAULT '',
    author text NOT NULL DEFAULT 'Admin',
    published boolean NOT NULL DEFAULT true,
    featured boolean NOT NULL DEFAULT false,
    views integer NOT NULL DEFAULT 0,
    tags text[] NOT NULL DEFAULT '{}',
    created_at timestamptz NOT NULL DEFAULT now(),
    updated_at timestamptz NOT NULL DEFAULT now()
);`,
	`CREATE INDEX IF NOT EXISTS idx_articles_category_published ON articles (category, published, created_at DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_articles_views ON articles (views DESC);`,
	`CREATE TABLE IF NOT EXISTS article_view_history (
    article_id uuid NOT NULL REFERENCES articles (id) ON DELETE CASCADE,
    day date NOT NULL,
    views integer NOT NULL DEFAULT 0,
    PRIMARY KEY (article_id, day)
);`,
	`CREATE TABLE IF NOT EXISTS analytics_daily (
    day date PRIMARY KEY,
    total_views integer NOT NULL DEFAULT 0,
    article_views jsonb NOT NULL DEFAULT '{}'::jsonb,
    category_views jsonb NOT NULL DEFAULT '{}'::jsonb,
    new_subscribers integer NOT NULL DEFAULT 0,
    new_comments integer NOT NULL DEFAULT 0,
    created_at timestamptz NOT NULL DEFAULT now(),
    updated_at timestamptz NOT NULL DEFAULT now()
);`,
	`CREATE TABLE IF NOT EXISTS comments (
    id uuid PRIMARY KEY,
    article_id uuid NOT NULL REFERENCES articles (id) ON DELETE CASCADE,
    author text NOT NULL,
    email text NOT NULL,
    body text NOT NULL,
    approved boolean NOT NULL DEFAULT false,
    ip_address text NOT NULL DEFAULT '',
    user_agent text NOT NULL DEFAULT '',
    country text NOT NULL DEFAULT '',
    created_at timestamptz NOT NULL DEFAULT now()
);`,
	`CREATE INDEX IF NOT EXISTS idx_comments_article_approved ON comments (article_id, approved, created_at DESC);`,
	`CREATE TABLE IF NOT EXISTS subscribers (
    id uuid PRIMARY KEY,
    email text NOT NULL UNIQUE,
    active boolean NOT NULL DEFAULT true,
    source text NOT NULL DEFAULT 'website',
    unsubscribed_at timestamptz,
    created_at timestamptz NOT NULL DEFAULT now()
);`,
	`CREATE TABLE IF NOT EXISTS contact_messages (
    id uuid PRIMARY KEY,
    name text NOT NULL,
    email text NOT NULL,
    subject text NOT NULL DEFAULT 'No subject',
    body text NOT NULL,
    read boolean NOT NULL DEFAULT false,
    replied boolean NOT NULL DEFAULT false,
    ip_address text NOT NULL DEFAULT '',
    created_at timestamptz NOT NULL DEFAULT now()
);`,
	`CREATE TABLE IF NOT EXISTS admin_users (
    id uuid PRIMARY KEY,
    username text NOT NULL UNIQUE,
    email text NOT NULL DEFAULT '',
    password_hash text NOT NULL,
    role text NOT NULL DEFAULT 'admin',
    active boolean NOT NULL DEFAULT true,
    last_login_at timestamptz,
    created_at timestamptz NOT NULL DEFAULT now()
);`,
}

// ApplySchema creates any missing tables and indexes.
func ApplySchema(ctx context.Context, db SQLExecutor) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
