package user

import (
	"context"
	"database/sql"

	"rageventura-api/internal/db"
)

// Store runs the user and badge queries shared by the auth and
// profile layers. All access is parameterized SQL against the handle
// it is constructed with.
type Store struct {
	db *db.DB
}

func NewStore(db *db.DB) *Store {
	return &Store{db: db}
}

const userColumns = `
	id, tag, username, email, password_hash, phone, avatar_url, bio,
	city, favorite_genre, social_instagram, social_soundcloud,
	social_spotify, role, points, events_attended, is_verified,
	is_pro, created_at, last_login`

func scanUser(row *sql.Row) (*User, error) {
	var (
		u         User
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Tag, &u.Username, &u.Email, &u.PasswordHash,
		&u.Phone, &u.AvatarURL, &u.Bio, &u.City, &u.FavoriteGenre,
		&u.SocialInsta, &u.SocialSound, &u.SocialSpotify, &u.Role,
		&u.Points, &u.EventsAttended, &u.IsVerified, &u.IsPro,
		&u.CreatedAt, &lastLogin,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return &u, nil
}

// Create inserts the user and fills in the generated id and creation
// timestamp.
func (s *Store) Create(ctx context.Context, u *User) error {
	return s.db.QueryRowContext(ctx, `
		INSERT INTO users (tag, username, email, password_hash, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, u.Tag, u.Username, u.Email, u.PasswordHash, u.Phone).
		Scan(&u.ID, &u.CreatedAt)
}

func (s *Store) FindByID(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE id = $1
	`, id)
	return scanUser(row)
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE LOWER(email) = LOWER($1)
	`, email)
	return scanUser(row)
}

func (s *Store) FindByTag(ctx context.Context, tag string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE tag = $1
	`, tag)
	return scanUser(row)
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM users WHERE LOWER(email) = LOWER($1)
		)
	`, email).Scan(&exists)
	return exists, err
}

func (s *Store) TagExists(ctx context.Context, tag string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM users WHERE tag = $1
		)
	`, tag).Scan(&exists)
	return exists, err
}

func (s *Store) UpdateLastLogin(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET last_login = NOW() WHERE id = $1
	`, id)
	return err
}

func (s *Store) UpdatePassword(ctx context.Context, id, hash string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = $1 WHERE id = $2
	`, hash, id)
	return err
}

func (s *Store) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET avatar_url = $1 WHERE id = $2
	`, avatarURL, id)
	return err
}

// ProfileUpdate lists the recognized optional profile fields. A nil
// field is left untouched; anything else the client sends is rejected
// before this struct is built.
type ProfileUpdate struct {
	Username      *string
	Bio           *string
	Phone         *string
	City          *string
	FavoriteGenre *string
	SocialInsta   *string
	SocialSound   *string
	SocialSpotify *string
}

// Empty reports whether no field is set.
func (p ProfileUpdate) Empty() bool {
	return p.Username == nil && p.Bio == nil && p.Phone == nil &&
		p.City == nil && p.FavoriteGenre == nil && p.SocialInsta == nil &&
		p.SocialSound == nil && p.SocialSpotify == nil
}

// UpdateProfile applies the set fields. COALESCE keeps unset columns
// at their current value so one statement covers every combination.
func (s *Store) UpdateProfile(ctx context.Context, id string, p ProfileUpdate) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			username = COALESCE($1, username),
			bio = COALESCE($2, bio),
			phone = COALESCE($3, phone),
			city = COALESCE($4, city),
			favorite_genre = COALESCE($5, favorite_genre),
			social_instagram = COALESCE($6, social_instagram),
			social_soundcloud = COALESCE($7, social_soundcloud),
			social_spotify = COALESCE($8, social_spotify)
		WHERE id = $9
	`, p.Username, p.Bio, p.Phone, p.City, p.FavoriteGenre,
		p.SocialInsta, p.SocialSound, p.SocialSpotify, id)
	return err
}

// BadgesForUser returns the user's badges, newest first. limit <= 0
// means no limit.
func (s *Store) BadgesForUser(ctx context.Context, userID string, limit int) ([]Badge, error) {
	query := `
		SELECT b.name, b.description, b.icon, b.color, ub.earned_at
		FROM user_badges ub
		JOIN badges b ON ub.badge_id = b.id
		WHERE ub.user_id = $1
		ORDER BY ub.earned_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	badges := []Badge{}
	for rows.Next() {
		var b Badge
		if err := rows.Scan(&b.Name, &b.Description, &b.Icon, &b.Color, &b.EarnedAt); err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}
