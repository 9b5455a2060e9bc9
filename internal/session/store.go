package session

import (
	"context"
	"time"
)

// Session is proof of authentication. The token is an opaque lookup
// key; client metadata is informational only and never used for
// authorization decisions.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session's absolute expiry has elapsed.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions. Get returns (nil, nil) when no live session
// exists for the token; absence of identity is not an error.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error

	// DeleteAllForUser revokes every session the user holds.
	DeleteAllForUser(ctx context.Context, userID string) error

	// DeleteAllForUserExcept revokes every session the user holds
	// other than keepToken. Used on password change so the requesting
	// device stays signed in.
	DeleteAllForUserExcept(ctx context.Context, userID, keepToken string) error
}
