package community

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"rageventura-api/internal/apperror"
	"rageventura-api/internal/db"
	"rageventura-api/internal/user"
)

const (
	minPageSize = 10
	maxPageSize = 50
)

// Member is the community listing shape: public fields plus a short
// badge strip.
type Member struct {
	ID             string       `json:"id"`
	Tag            string       `json:"tag"`
	Username       string       `json:"username"`
	AvatarURL      string       `json:"avatar_url"`
	Bio            string       `json:"bio,omitempty"`
	City           string       `json:"city,omitempty"`
	FavoriteGenre  string       `json:"favorite_genre,omitempty"`
	Role           string       `json:"role"`
	Points         int          `json:"points"`
	EventsAttended int          `json:"events_attended"`
	IsVerified     bool         `json:"is_verified"`
	IsPro          bool         `json:"is_pro"`
	CreatedAt      time.Time    `json:"created_at"`
	Badges         []user.Badge `json:"badges,omitempty"`
}

type ListParams struct {
	Page  int
	Limit int
	Order string // newest, oldest, points, events
	Role  string // optional filter: user, dj, admin
}

type Stats struct {
	TotalMembers    int `json:"total_members"`
	TotalDJs        int `json:"total_djs"`
	ProMembers      int `json:"pro_members"`
	EventsAttended  int `json:"events_attended"`
	CommunityPoints int `json:"community_points"`
	NewThisWeek     int `json:"new_this_week"`
}

type Featured struct {
	FeaturedDJs []Member `json:"featured_djs"`
	TopUsers    []Member `json:"top_users"`
	NewMembers  []Member `json:"new_members"`
}

// Service reads community views of the users table.
type Service struct {
	db     *db.DB
	logger *zap.Logger
}

func NewService(db *db.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

const memberColumns = `
	id, tag, username, avatar_url, bio, city, favorite_genre, role,
	points, events_attended, is_verified, is_pro, created_at`

func (s *Service) scanMembers(ctx context.Context, query string, args ...any) ([]Member, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []Member{}
	for rows.Next() {
		var m Member
		err := rows.Scan(
			&m.ID, &m.Tag, &m.Username, &m.AvatarURL, &m.Bio, &m.City,
			&m.FavoriteGenre, &m.Role, &m.Points, &m.EventsAttended,
			&m.IsVerified, &m.IsPro, &m.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// List pages through the community. Limit is clamped to 10..50 and the
// sort order comes from a fixed whitelist, never from raw input.
func (s *Service) List(ctx context.Context, p ListParams) ([]Member, int, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.Limit <= 0:
		p.Limit = 20
	case p.Limit < minPageSize:
		p.Limit = minPageSize
	case p.Limit > maxPageSize:
		p.Limit = maxPageSize
	}

	var order string
	switch p.Order {
	case "points":
		order = "points DESC, created_at DESC"
	case "events":
		order = "events_attended DESC, created_at DESC"
	case "oldest":
		order = "created_at ASC"
	default:
		order = "created_at DESC"
	}

	where := "TRUE"
	args := []any{}
	if user.ValidRole(p.Role) {
		where = "role = $1"
		args = append(args, p.Role)
	}

	var total int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE "+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, apperror.Internal("could not load the community", err)
	}

	offset := (p.Page - 1) * p.Limit
	limitPos := len(args) + 1
	query := "SELECT " + memberColumns + " FROM users WHERE " + where +
		" ORDER BY " + order +
		" LIMIT $" + strconv.Itoa(limitPos) + " OFFSET $" + strconv.Itoa(limitPos+1)
	args = append(args, p.Limit, offset)

	members, err := s.scanMembers(ctx, query, args...)
	if err != nil {
		return nil, 0, apperror.Internal("could not load the community", err)
	}

	if err := s.attachTopBadges(ctx, members); err != nil {
		return nil, 0, apperror.Internal("could not load the community", err)
	}
	return members, total, nil
}

// Search matches username, tag and city; prefix matches on the
// username rank first, then points.
func (s *Service) Search(ctx context.Context, query string) ([]Member, error) {
	if len(query) < 2 {
		return nil, apperror.Validation("search needs at least 2 characters")
	}

	term := "%" + query + "%"
	members, err := s.scanMembers(ctx, `
		SELECT `+memberColumns+`
		FROM users
		WHERE username ILIKE $1 OR tag ILIKE $1 OR city ILIKE $1
		ORDER BY
			CASE WHEN username ILIKE $2 THEN 1 ELSE 2 END,
			points DESC
		LIMIT 20
	`, term, query+"%")
	if err != nil {
		return nil, apperror.Internal("search failed, try again", err)
	}
	return members, nil
}

// FeaturedMembers returns verified DJs, top point holders, and the
// newest members.
func (s *Service) FeaturedMembers(ctx context.Context) (*Featured, error) {
	djs, err := s.scanMembers(ctx, `
		SELECT `+memberColumns+`
		FROM users
		WHERE role = 'dj' AND is_verified
		ORDER BY points DESC
		LIMIT 6
	`)
	if err != nil {
		return nil, apperror.Internal("could not load featured members", err)
	}

	top, err := s.scanMembers(ctx, `
		SELECT `+memberColumns+`
		FROM users
		ORDER BY points DESC
		LIMIT 10
	`)
	if err != nil {
		return nil, apperror.Internal("could not load featured members", err)
	}

	newest, err := s.scanMembers(ctx, `
		SELECT `+memberColumns+`
		FROM users
		ORDER BY created_at DESC
		LIMIT 8
	`)
	if err != nil {
		return nil, apperror.Internal("could not load featured members", err)
	}

	return &Featured{FeaturedDJs: djs, TopUsers: top, NewMembers: newest}, nil
}

// CommunityStats aggregates the headline numbers.
func (s *Service) CommunityStats(ctx context.Context) (*Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE role = 'dj'),
			COUNT(*) FILTER (WHERE is_pro),
			COALESCE(SUM(events_attended), 0),
			COALESCE(SUM(points), 0)
		FROM users
	`).Scan(&st.TotalMembers, &st.TotalDJs, &st.ProMembers, &st.EventsAttended, &st.CommunityPoints)
	if err != nil {
		return nil, apperror.Internal("could not load community stats", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM users
		WHERE created_at >= NOW() - INTERVAL '7 days'
	`).Scan(&st.NewThisWeek)
	if err != nil {
		return nil, apperror.Internal("could not load community stats", err)
	}

	return &st, nil
}

// attachTopBadges decorates each member with their three most recent
// badges.
func (s *Service) attachTopBadges(ctx context.Context, members []Member) error {
	for i := range members {
		rows, err := s.db.QueryContext(ctx, `
			SELECT b.name, b.icon, b.color
			FROM user_badges ub
			JOIN badges b ON ub.badge_id = b.id
			WHERE ub.user_id = $1
			ORDER BY ub.earned_at DESC
			LIMIT 3
		`, members[i].ID)
		if err != nil {
			return err
		}

		for rows.Next() {
			var b user.Badge
			if err := rows.Scan(&b.Name, &b.Icon, &b.Color); err != nil {
				rows.Close()
				return err
			}
			members[i].Badges = append(members[i].Badges, b)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()
	}
	return nil
}
