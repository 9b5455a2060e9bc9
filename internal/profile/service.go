package profile

import (
	"context"

	"go.uber.org/zap"

	"rageventura-api/internal/apperror"
	"rageventura-api/internal/user"
)

// Store is the slice of the user store the profile layer needs.
type Store interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
	FindByTag(ctx context.Context, tag string) (*user.User, error)
	UpdateProfile(ctx context.Context, id string, p user.ProfileUpdate) error
	UpdateAvatar(ctx context.Context, id, avatarURL string) error
	BadgesForUser(ctx context.Context, userID string, limit int) ([]user.Badge, error)
}

type Service struct {
	users  Store
	logger *zap.Logger
}

func NewService(users Store, logger *zap.Logger) *Service {
	return &Service{users: users, logger: logger}
}

// GetOwn returns the signed-in user's full profile with badges.
func (s *Service) GetOwn(ctx context.Context, userID string) (*user.User, []user.Badge, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, apperror.Internal("could not load the profile", err)
	}
	if u == nil {
		return nil, nil, apperror.Auth("not signed in")
	}

	badges, err := s.users.BadgesForUser(ctx, userID, 0)
	if err != nil {
		return nil, nil, apperror.Internal("could not load the profile", err)
	}
	return u, badges, nil
}

// GetByTag returns another member's public profile with badges.
func (s *Service) GetByTag(ctx context.Context, tag string) (*user.PublicView, []user.Badge, error) {
	u, err := s.users.FindByTag(ctx, tag)
	if err != nil {
		return nil, nil, apperror.Internal("could not load the profile", err)
	}
	if u == nil {
		return nil, nil, apperror.NotFound("user not found")
	}

	badges, err := s.users.BadgesForUser(ctx, u.ID, 0)
	if err != nil {
		return nil, nil, apperror.Internal("could not load the profile", err)
	}

	view := u.Public()
	return &view, badges, nil
}

// Update validates and applies the recognized optional fields, then
// returns the refreshed record.
func (s *Service) Update(ctx context.Context, userID string, p user.ProfileUpdate) (*user.User, error) {
	if p.Empty() {
		return nil, apperror.Validation("no fields to update")
	}
	if p.Username != nil && (len(*p.Username) < 3 || len(*p.Username) > 50) {
		return nil, apperror.Validation("username must be between 3 and 50 characters")
	}
	if p.Bio != nil && len(*p.Bio) > 500 {
		return nil, apperror.Validation("bio cannot exceed 500 characters")
	}

	if err := s.users.UpdateProfile(ctx, userID, p); err != nil {
		return nil, apperror.Internal("could not update the profile", err)
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil || u == nil {
		return nil, apperror.Internal("could not update the profile", err)
	}

	s.logger.Info("profile updated", zap.String("user_id", userID))
	return u, nil
}

// SetAvatar stores the new avatar URL and reports the previous one so
// the caller can clean up the old file.
func (s *Service) SetAvatar(ctx context.Context, userID, avatarURL string) (string, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", apperror.Internal("could not update the avatar", err)
	}
	if u == nil {
		return "", apperror.Auth("not signed in")
	}

	if err := s.users.UpdateAvatar(ctx, userID, avatarURL); err != nil {
		return "", apperror.Internal("could not update the avatar", err)
	}
	return u.AvatarURL, nil
}
