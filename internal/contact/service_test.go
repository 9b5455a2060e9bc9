package contact

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rageventura-api/internal/apperror"
	"rageventura-api/internal/db"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()

	raw, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })

	return NewService(&db.DB{DB: raw}, zap.NewNop()), mock
}

func TestSubmitValidation(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name string
		msg  Message
	}{
		{"missing name", Message{Email: "a@b.co", Body: "long enough message"}},
		{"missing email", Message{Name: "Ana", Body: "long enough message"}},
		{"missing body", Message{Name: "Ana", Email: "a@b.co"}},
		{"bad email", Message{Name: "Ana", Email: "nope", Body: "long enough message"}},
		{"body too short", Message{Name: "Ana", Email: "a@b.co", Body: "short"}},
		{"body too long", Message{Name: "Ana", Email: "a@b.co", Body: strings.Repeat("x", maxMessageLen+1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Submit(context.Background(), tt.msg)
			assert.True(t, apperror.IsKind(err, apperror.KindValidation), "got %v", err)
		})
	}
}

func TestSubmitDefaultsSubjectAndSource(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectExec("INSERT INTO contacts").
		WithArgs("Ana", "ana@example.com", "", "General contact", "I would love to book you", SourceContactForm).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.Submit(context.Background(), Message{
		Name:  "Ana",
		Email: "ana@example.com",
		Body:  "I would love to book you",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscribeNewEmail(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT id, is_active FROM newsletter_subscribers").
		WithArgs("new@example.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO newsletter_subscribers").
		WithArgs("new@example.com", "Ana").
		WillReturnResult(sqlmock.NewResult(0, 1))

	msg, err := svc.Subscribe(context.Background(), "new@example.com", "Ana")
	require.NoError(t, err)
	assert.Contains(t, msg, "Subscribed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscribeAlreadyActive(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT id, is_active FROM newsletter_subscribers").
		WithArgs("fan@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_active"}).AddRow("sub-1", true))

	msg, err := svc.Subscribe(context.Background(), "fan@example.com", "")
	require.NoError(t, err)
	assert.Contains(t, msg, "already subscribed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscribeReactivates(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT id, is_active FROM newsletter_subscribers").
		WithArgs("back@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_active"}).AddRow("sub-2", false))
	mock.ExpectExec("UPDATE newsletter_subscribers").
		WithArgs("sub-2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	msg, err := svc.Subscribe(context.Background(), "back@example.com", "")
	require.NoError(t, err)
	assert.Contains(t, msg, "reactivated")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscribeValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Subscribe(context.Background(), "", "")
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = svc.Subscribe(context.Background(), "not-an-email", "")
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestRegisterForEvent(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectExec("INSERT INTO contacts").
		WithArgs("Ana", "ana@example.com", "555-0101",
			"Signup: Neon Nights", "Interested in the event: Neon Nights", SourceEventRegister).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO newsletter_subscribers").
		WithArgs("ana@example.com", "Ana").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.RegisterForEvent(context.Background(), "Ana", "ana@example.com", "555-0101", "Neon Nights")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterForEventSkipsExistingSubscriber(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectExec("INSERT INTO contacts").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := svc.RegisterForEvent(context.Background(), "Ana", "ana@example.com", "", "General event")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
