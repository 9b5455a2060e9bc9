package profile

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rageventura-api/internal/apperror"
	"rageventura-api/internal/user"
)

type fakeStore struct {
	byID    map[string]*user.User
	badges  map[string][]user.Badge
	updates []user.ProfileUpdate
}

func newFakeStore(users ...*user.User) *fakeStore {
	f := &fakeStore{
		byID:   make(map[string]*user.User),
		badges: make(map[string][]user.Badge),
	}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeStore) FindByID(_ context.Context, id string) (*user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (f *fakeStore) FindByTag(_ context.Context, tag string) (*user.User, error) {
	for _, u := range f.byID {
		if u.Tag == tag {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, id string, p user.ProfileUpdate) error {
	f.updates = append(f.updates, p)
	u, ok := f.byID[id]
	if !ok {
		return nil
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.City != nil {
		u.City = *p.City
	}
	return nil
}

func (f *fakeStore) UpdateAvatar(_ context.Context, id, avatarURL string) error {
	if u, ok := f.byID[id]; ok {
		u.AvatarURL = avatarURL
	}
	return nil
}

func (f *fakeStore) BadgesForUser(_ context.Context, userID string, _ int) ([]user.Badge, error) {
	return f.badges[userID], nil
}

func sampleUser() *user.User {
	return &user.User{
		ID:        "u-1",
		Tag:       "@raver1234",
		Username:  "raver",
		Email:     "raver@example.com",
		Phone:     "555-0101",
		AvatarURL: "/uploads/avatar_u-1_1.png",
		Role:      user.RoleUser,
	}
}

func TestGetOwn(t *testing.T) {
	store := newFakeStore(sampleUser())
	store.badges["u-1"] = []user.Badge{{Name: "Early Bird"}}
	svc := NewService(store, zap.NewNop())

	u, badges, err := svc.GetOwn(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "raver@example.com", u.Email)
	assert.Len(t, badges, 1)

	_, _, err = svc.GetOwn(context.Background(), "ghost")
	assert.True(t, apperror.IsKind(err, apperror.KindAuth))
}

func TestGetByTagHidesPrivateFields(t *testing.T) {
	store := newFakeStore(sampleUser())
	svc := NewService(store, zap.NewNop())

	view, _, err := svc.GetByTag(context.Background(), "@raver1234")
	require.NoError(t, err)
	assert.Equal(t, "raver", view.Username)

	data, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "raver@example.com")
	assert.NotContains(t, string(data), "555-0101")
}

func TestGetByTagUnknown(t *testing.T) {
	svc := NewService(newFakeStore(), zap.NewNop())

	_, _, err := svc.GetByTag(context.Background(), "@nobody0000")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestUpdate(t *testing.T) {
	store := newFakeStore(sampleUser())
	svc := NewService(store, zap.NewNop())

	bio := "DJ and producer"
	city := "Rotterdam"
	u, err := svc.Update(context.Background(), "u-1", user.ProfileUpdate{Bio: &bio, City: &city})
	require.NoError(t, err)
	assert.Equal(t, bio, u.Bio)
	assert.Equal(t, city, u.City)
	require.Len(t, store.updates, 1)
}

func TestUpdateValidation(t *testing.T) {
	store := newFakeStore(sampleUser())
	svc := NewService(store, zap.NewNop())

	shortName := "ab"
	longBio := strings.Repeat("x", 501)

	tests := []struct {
		name string
		p    user.ProfileUpdate
	}{
		{"no fields", user.ProfileUpdate{}},
		{"short username", user.ProfileUpdate{Username: &shortName}},
		{"long bio", user.ProfileUpdate{Bio: &longBio}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), "u-1", tt.p)
			assert.True(t, apperror.IsKind(err, apperror.KindValidation), "got %v", err)
		})
	}
	assert.Empty(t, store.updates, "invalid input must never reach the store")
}

func TestSetAvatarReturnsPreviousURL(t *testing.T) {
	store := newFakeStore(sampleUser())
	svc := NewService(store, zap.NewNop())

	old, err := svc.SetAvatar(context.Background(), "u-1", "/uploads/avatar_u-1_2.png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/avatar_u-1_1.png", old)
	assert.Equal(t, "/uploads/avatar_u-1_2.png", store.byID["u-1"].AvatarURL)

	_, err = svc.SetAvatar(context.Background(), "ghost", "/uploads/x.png")
	assert.True(t, apperror.IsKind(err, apperror.KindAuth))
}
