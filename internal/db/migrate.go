package db

import (
	"context"
	"database/sql"
)

const schemaMigration = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS users (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    tag text NOT NULL UNIQUE,
    username text NOT NULL,
    email text NOT NULL,
    password_hash text NOT NULL,
    phone text NOT NULL DEFAULT '',
    avatar_url text NOT NULL DEFAULT '/assets/default-avatar.png',
    bio text NOT NULL DEFAULT '',
    city text NOT NULL DEFAULT '',
    favorite_genre text NOT NULL DEFAULT '',
    social_instagram text NOT NULL DEFAULT '',
    social_soundcloud text NOT NULL DEFAULT '',
    social_spotify text NOT NULL DEFAULT '',
    role text NOT NULL DEFAULT 'user',
    points integer NOT NULL DEFAULT 0,
    events_attended integer NOT NULL DEFAULT 0,
    is_verified boolean NOT NULL DEFAULT false,
    is_pro boolean NOT NULL DEFAULT false,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    last_login timestamptz
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_unique
ON users (LOWER(email));

CREATE TABLE IF NOT EXISTS badges (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    name text NOT NULL,
    description text NOT NULL DEFAULT '',
    icon text NOT NULL DEFAULT '',
    color text NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS user_badges (
    user_id uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    badge_id uuid NOT NULL REFERENCES badges(id) ON DELETE CASCADE,
    earned_at timestamptz NOT NULL DEFAULT NOW(),
    PRIMARY KEY (user_id, badge_id)
);

CREATE TABLE IF NOT EXISTS contacts (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    name text NOT NULL,
    email text NOT NULL,
    phone text NOT NULL DEFAULT '',
    subject text NOT NULL DEFAULT '',
    message text NOT NULL,
    source text NOT NULL DEFAULT 'contact_form',
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS newsletter_subscribers (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    email text NOT NULL UNIQUE,
    name text NOT NULL DEFAULT '',
    is_active boolean NOT NULL DEFAULT true,
    subscribed_at timestamptz NOT NULL DEFAULT NOW(),
    unsubscribed_at timestamptz
);
`

// RunMigration applies the schema. Statements are idempotent so the
// migration is safe to run on every startup.
func RunMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schemaMigration)
	return err
}
