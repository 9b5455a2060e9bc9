package user

import "time"

// Roles a user can hold.
const (
	RoleUser  = "user"
	RoleDJ    = "dj"
	RoleAdmin = "admin"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleDJ || role == RoleAdmin
}

// User is the full identity record. PasswordHash never leaves the
// process: it is excluded from JSON and stripped from every view.
type User struct {
	ID             string     `json:"id"`
	Tag            string     `json:"tag"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	Phone          string     `json:"phone"`
	AvatarURL      string     `json:"avatar_url"`
	Bio            string     `json:"bio"`
	City           string     `json:"city"`
	FavoriteGenre  string     `json:"favorite_genre"`
	SocialInsta    string     `json:"social_instagram"`
	SocialSound    string     `json:"social_soundcloud"`
	SocialSpotify  string     `json:"social_spotify"`
	Role           string     `json:"role"`
	Points         int        `json:"points"`
	EventsAttended int        `json:"events_attended"`
	IsVerified     bool       `json:"is_verified"`
	IsPro          bool       `json:"is_pro"`
	CreatedAt      time.Time  `json:"created_at"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
}

// PublicView is the profile shape shown to other members: no email,
// no phone.
type PublicView struct {
	ID             string    `json:"id"`
	Tag            string    `json:"tag"`
	Username       string    `json:"username"`
	AvatarURL      string    `json:"avatar_url"`
	Bio            string    `json:"bio"`
	City           string    `json:"city"`
	FavoriteGenre  string    `json:"favorite_genre"`
	SocialInsta    string    `json:"social_instagram"`
	SocialSound    string    `json:"social_soundcloud"`
	SocialSpotify  string    `json:"social_spotify"`
	Role           string    `json:"role"`
	Points         int       `json:"points"`
	EventsAttended int       `json:"events_attended"`
	IsVerified     bool      `json:"is_verified"`
	IsPro          bool      `json:"is_pro"`
	CreatedAt      time.Time `json:"created_at"`
}

// Public strips the private fields from the record.
func (u *User) Public() PublicView {
	return PublicView{
		ID:             u.ID,
		Tag:            u.Tag,
		Username:       u.Username,
		AvatarURL:      u.AvatarURL,
		Bio:            u.Bio,
		City:           u.City,
		FavoriteGenre:  u.FavoriteGenre,
		SocialInsta:    u.SocialInsta,
		SocialSound:    u.SocialSound,
		SocialSpotify:  u.SocialSpotify,
		Role:           u.Role,
		Points:         u.Points,
		EventsAttended: u.EventsAttended,
		IsVerified:     u.IsVerified,
		IsPro:          u.IsPro,
		CreatedAt:      u.CreatedAt,
	}
}

// Badge is a community award joined through user_badges.
type Badge struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	EarnedAt    time.Time `json:"earned_at,omitempty"`
}
