package application

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robyajo/api-conatct/internal/domain/entity"
	"github.com/robyajo/api-conatct/pkg/helpers"
)

func newAuthService() (*AuthService, *fakeUserRepo, *fakeAccessRepo) {
	users, access := newFakes()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	svc := NewAuthService(users, access, jwt, nil, logger, nil, false)
	return svc, users, access
}

func TestRegister(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "reg@example.id", "Reg", "string")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.NotEmpty(t, u.UUID)
	assert.True(t, helpers.CompareHashAndPassword(u.Password, "string"))

	_, err = svc.Register(ctx, "reg@example.id", "Other", "string")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisteredUserHasFallbackRole(t *testing.T) {
	svc, _, access := newAuthService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "plain@example.id", "Plain", "string")
	require.NoError(t, err)

	_, view, err := svc.CurrentUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "user", view.Role)
	assert.Zero(t, view.RoleID)

	n, err := access.CountUserRoles(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAuthenticate(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "login@example.id", "Login", "string")
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, "login@example.id", "string")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "login@example.id", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.id", "string")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "pair@example.id", "Pair", "string")
	require.NoError(t, err)

	resp, pair, err := svc.Login(ctx, "pair@example.id", "string")
	require.NoError(t, err)
	assert.Equal(t, "pair@example.id", resp.Email)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.RefreshTokenExpiry.After(pair.AccessTokenExpiry))

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, claims.UserID)
	assert.NotEmpty(t, claims.SessionID)
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "rot@example.id", "Rot", "string")
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "rot@example.id", "string")
	require.NoError(t, err)

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, next.AccessToken)

	old, err := svc.JWT.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	rotated, err := svc.JWT.ParseRefreshToken(next.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, old.SessionID, rotated.SessionID)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc, _, _ := newAuthService()

	_, err := svc.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRejectsDeletedUser(t *testing.T) {
	svc, users, _ := newAuthService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "del@example.id", "Del", "string")
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "del@example.id", "string")
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, u.ID))
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCurrentUserNotFound(t *testing.T) {
	svc, _, _ := newAuthService()

	_, _, err := svc.CurrentUser(context.Background(), 404)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCurrentUserWithRole(t *testing.T) {
	svc, _, access := newAuthService()
	ctx := context.Background()
	access.addRole(entity.Role{ID: 2, Name: "Admin", Slug: "admin"})

	u, err := svc.Register(ctx, "adm@example.id", "Adm", "string")
	require.NoError(t, err)
	require.NoError(t, access.AssignRole(ctx, u.ID, 2))

	got, view, err := svc.CurrentUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, "admin", view.Role)
	assert.Equal(t, int64(2), view.RoleID)
}
