package contact

import (
	"context"
	"database/sql"
	"regexp"

	"go.uber.org/zap"

	"rageventura-api/internal/apperror"
	"rageventura-api/internal/db"
)

const (
	minMessageLen = 10
	maxMessageLen = 5000
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Sources recorded with each stored contact.
const (
	SourceContactForm   = "contact_form"
	SourceEventRegister = "event_register"
)

type Message struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Body    string
	Source  string
}

// Service stores contact messages and newsletter subscriptions.
type Service struct {
	db     *db.DB
	logger *zap.Logger
}

func NewService(db *db.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Submit validates and stores a contact-form message.
func (s *Service) Submit(ctx context.Context, m Message) error {
	if m.Name == "" || m.Email == "" || m.Body == "" {
		return apperror.Validation("name, email and message are required")
	}
	if !emailPattern.MatchString(m.Email) {
		return apperror.Validation("email is not valid")
	}
	if len(m.Body) < minMessageLen {
		return apperror.Validation("message is too short")
	}
	if len(m.Body) > maxMessageLen {
		return apperror.Validation("message is too long, 5000 characters maximum")
	}

	if m.Subject == "" {
		m.Subject = "General contact"
	}
	if m.Source == "" {
		m.Source = SourceContactForm
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contacts (name, email, phone, subject, message, source)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, m.Name, m.Email, m.Phone, m.Subject, m.Body, m.Source)
	if err != nil {
		return apperror.Internal("could not send the message, try again", err)
	}

	s.logger.Info("contact stored", zap.String("source", m.Source))
	return nil
}

// Subscribe adds the email to the newsletter. Repeat subscriptions are
// friendly successes; inactive rows are reactivated.
func (s *Service) Subscribe(ctx context.Context, email, name string) (string, error) {
	if email == "" {
		return "", apperror.Validation("email is required")
	}
	if !emailPattern.MatchString(email) {
		return "", apperror.Validation("email is not valid")
	}

	var (
		id     string
		active bool
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, is_active FROM newsletter_subscribers
		WHERE LOWER(email) = LOWER($1)
	`, email).Scan(&id, &active)

	switch {
	case err == sql.ErrNoRows:
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO newsletter_subscribers (email, name)
			VALUES ($1, $2)
		`, email, name)
		if err != nil {
			return "", apperror.Internal("could not subscribe, try again", err)
		}
		return "Subscribed! You'll get the latest from RageVentura.", nil

	case err != nil:
		return "", apperror.Internal("could not subscribe, try again", err)

	case active:
		return "You're already subscribed to our newsletter.", nil

	default:
		_, err = s.db.ExecContext(ctx, `
			UPDATE newsletter_subscribers
			SET is_active = true, unsubscribed_at = NULL
			WHERE id = $1
		`, id)
		if err != nil {
			return "", apperror.Internal("could not subscribe, try again", err)
		}
		return "Welcome back! Your subscription has been reactivated.", nil
	}
}

// RegisterForEvent stores an event signup as a contact and
// auto-subscribes new emails to the newsletter.
func (s *Service) RegisterForEvent(ctx context.Context, name, email, phone, event string) error {
	if name == "" || email == "" {
		return apperror.Validation("name and email are required")
	}
	if !emailPattern.MatchString(email) {
		return apperror.Validation("email is not valid")
	}
	if event == "" {
		event = "General event"
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contacts (name, email, phone, subject, message, source)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, name, email, phone, "Signup: "+event, "Interested in the event: "+event, SourceEventRegister)
	if err != nil {
		return apperror.Internal("could not register, try again", err)
	}

	var exists bool
	err = s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM newsletter_subscribers WHERE LOWER(email) = LOWER($1)
		)
	`, email).Scan(&exists)
	if err != nil {
		return apperror.Internal("could not register, try again", err)
	}
	if !exists {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO newsletter_subscribers (email, name)
			VALUES ($1, $2)
		`, email, name)
		if err != nil {
			return apperror.Internal("could not register, try again", err)
		}
	}

	s.logger.Info("event signup stored", zap.String("event", event))
	return nil
}
