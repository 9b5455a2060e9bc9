package auth

import (
	"context"
	"regexp"
	"time"

	"go.uber.org/zap"

	"rageventura-api/internal/apperror"
	"rageventura-api/internal/session"
	"rageventura-api/internal/user"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserStore is the slice of the user store the auth service needs.
type UserStore interface {
	Create(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id string) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	TagExists(ctx context.Context, tag string) (bool, error)
	UpdateLastLogin(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, hash string) error
	BadgesForUser(ctx context.Context, userID string, limit int) ([]user.Badge, error)
}

// Client carries the informational request metadata recorded on each
// session.
type Client struct {
	IP        string
	UserAgent string
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Phone    string
}

// Service turns credentials into sessions and sessions back into
// identities.
type Service struct {
	users    UserStore
	sessions session.Store
	lifetime time.Duration
	logger   *zap.Logger
}

func NewService(users UserStore, sessions session.Store, lifetime time.Duration, logger *zap.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		lifetime: lifetime,
		logger:   logger,
	}
}

// Register validates the input, creates the user with a fresh unique
// tag, and signs them in immediately.
func (s *Service) Register(ctx context.Context, in RegisterInput, client Client) (*user.User, *session.Session, error) {
	if len(in.Username) < 3 || len(in.Username) > 50 {
		return nil, nil, apperror.Validation("username must be between 3 and 50 characters")
	}
	if !emailPattern.MatchString(in.Email) {
		return nil, nil, apperror.Validation("email is not valid")
	}
	if len(in.Password) < 8 {
		return nil, nil, apperror.Validation("password must be at least 8 characters")
	}

	taken, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, nil, apperror.Internal("could not create the account, try again", err)
	}
	if taken {
		return nil, nil, apperror.Conflict("this email is already registered")
	}

	tag, err := GenerateTag(ctx, in.Username, s.users.TagExists)
	if err != nil {
		return nil, nil, apperror.Internal("could not create the account, try again", err)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, nil, apperror.Internal("could not create the account, try again", err)
	}

	u := &user.User{
		Tag:          tag,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Phone:        in.Phone,
		Role:         user.RoleUser,
		AvatarURL:    "/assets/default-avatar.png",
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, nil, apperror.Internal("could not create the account, try again", err)
	}

	sess, err := s.issueSession(ctx, u.ID, client)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", u.ID),
		zap.String("tag", u.Tag),
	)
	return u, sess, nil
}

// Login verifies the credential pair. Unknown email and wrong password
// produce the same error so accounts cannot be enumerated.
func (s *Service) Login(ctx context.Context, email, password string, client Client) (*user.User, []user.Badge, *session.Session, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, nil, apperror.Internal("could not sign in, try again", err)
	}
	if u == nil {
		return nil, nil, nil, apperror.Auth("incorrect credentials")
	}
	if err := VerifyPassword(u.PasswordHash, password); err != nil {
		return nil, nil, nil, apperror.Auth("incorrect credentials")
	}

	if err := s.users.UpdateLastLogin(ctx, u.ID); err != nil {
		return nil, nil, nil, apperror.Internal("could not sign in, try again", err)
	}

	sess, err := s.issueSession(ctx, u.ID, client)
	if err != nil {
		return nil, nil, nil, err
	}

	badges, err := s.users.BadgesForUser(ctx, u.ID, 0)
	if err != nil {
		return nil, nil, nil, apperror.Internal("could not sign in, try again", err)
	}

	s.logger.Info("user logged in", zap.String("user_id", u.ID))
	return u, badges, sess, nil
}

// Logout revokes every session of the user behind the token. A token
// that resolves to nothing is a successful no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return apperror.Internal("could not sign out, try again", err)
	}
	if sess == nil {
		return nil
	}

	if err := s.sessions.DeleteAllForUser(ctx, sess.UserID); err != nil {
		return apperror.Internal("could not sign out, try again", err)
	}

	s.logger.Info("user logged out", zap.String("user_id", sess.UserID))
	return nil
}

// ResolveCurrentUser maps a presented token to a user id. An empty
// result means no identity; that is a normal outcome, not an error.
func (s *Service) ResolveCurrentUser(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", nil
	}
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return "", err
	}
	if sess == nil {
		return "", nil
	}
	return sess.UserID, nil
}

// Check resolves the token into the full user view plus badges.
// Both return values are nil when the token carries no identity.
func (s *Service) Check(ctx context.Context, token string) (*user.User, []user.Badge, error) {
	userID, err := s.ResolveCurrentUser(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	if userID == "" {
		return nil, nil, nil
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil || u == nil {
		return nil, nil, err
	}

	badges, err := s.users.BadgesForUser(ctx, userID, 0)
	if err != nil {
		return nil, nil, err
	}
	return u, badges, nil
}

// ChangePassword replaces the digest and revokes every other session
// the user holds, keeping only the one that made the request.
func (s *Service) ChangePassword(ctx context.Context, userID, token, current, next string) error {
	if len(next) < 8 {
		return apperror.Validation("new password must be at least 8 characters")
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return apperror.Internal("could not change the password, try again", err)
	}
	if u == nil {
		return apperror.Auth("not signed in")
	}
	if err := VerifyPassword(u.PasswordHash, current); err != nil {
		return apperror.Auth("current password is incorrect")
	}

	hash, err := HashPassword(next)
	if err != nil {
		return apperror.Internal("could not change the password, try again", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return apperror.Internal("could not change the password, try again", err)
	}

	if err := s.sessions.DeleteAllForUserExcept(ctx, userID, token); err != nil {
		return apperror.Internal("could not change the password, try again", err)
	}

	s.logger.Info("password changed", zap.String("user_id", userID))
	return nil
}

func (s *Service) issueSession(ctx context.Context, userID string, client Client) (*session.Session, error) {
	token, err := session.GenerateToken()
	if err != nil {
		return nil, apperror.Internal("could not create the session, try again", err)
	}

	now := time.Now()
	sess := session.Session{
		Token:     token,
		UserID:    userID,
		IP:        client.IP,
		UserAgent: client.UserAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(s.lifetime),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		// Session inserts are not safe to retry blindly; surface the
		// failure instead.
		return nil, apperror.Internal("could not create the session, try again", err)
	}
	return &sess, nil
}
