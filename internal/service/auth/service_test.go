package auth

import (
	"context"
	"testing"
	"time"

	"github.com/clinassign/clinassign-backend-go/internal/domain/auth"
	"github.com/clinassign/clinassign-backend-go/internal/domain/user"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/jwt"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/validator"
	"github.com/clinassign/clinassign-backend-go/internal/repository/memory"
	"github.com/clinassign/clinassign-backend-go/internal/service/profile"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func setupAuth(t *testing.T) (auth.AuthService, jwt.Service, user.Profile) {
	t.Helper()

	repo := memory.NewProfileRepository()
	profiles := profile.NewProfileService(repo, 16, time.Minute)
	jwtService := jwt.NewJWTService(testSecret, time.Hour)

	created, err := profiles.Create(context.Background(), user.CreateProfileRequest{
		Email:    "tutor@clinassign.test",
		FullName: "Test Tutor",
		Role:     "tutor",
		Password: "password123",
	})
	require.NoError(t, err)

	return NewAuthService(repo, profiles, jwtService), jwtService, created
}

func TestLogin_Success(t *testing.T) {
	svc, jwtService, created := setupAuth(t)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{Email: "tutor@clinassign.test", Password: "password123"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Greater(t, resp.AccessTokenExpiresIn, time.Now().Unix())
	assert.Equal(t, "tutor", resp.Role)

	token, err := jwtauth.VerifyToken(jwtService.JWTAuth(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, token.Subject())
	typ, _ := token.Get("type")
	assert.Equal(t, jwt.TokenTypeAccess, typ)
}

func TestLogin_Failures(t *testing.T) {
	svc, _, _ := setupAuth(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     auth.LoginRequest
		wantErr error
	}{
		{"wrong password", auth.LoginRequest{Email: "tutor@clinassign.test", Password: "wrong-password"}, auth.ErrInvalidCredentials},
		{"unknown email", auth.LoginRequest{Email: "nobody@clinassign.test", Password: "password123"}, auth.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := svc.Login(ctx, auth.LoginRequest{})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestLogin_ProfileWithoutPassword(t *testing.T) {
	repo := memory.NewProfileRepository()
	_, err := repo.Create(context.Background(), user.Profile{ID: "p1", Email: "sso@clinassign.test", Role: user.RoleTutor})
	require.NoError(t, err)

	svc := NewAuthService(repo, profile.NewProfileService(repo, 16, time.Minute), jwt.NewJWTService(testSecret, time.Hour))
	_, err = svc.Login(context.Background(), auth.LoginRequest{Email: "sso@clinassign.test", Password: "anything"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestMe(t *testing.T) {
	svc, _, created := setupAuth(t)

	resp, err := svc.Me(context.Background(), created.Actor())
	require.NoError(t, err)
	assert.Equal(t, created.ID, resp.ID)
	assert.Equal(t, "tutor", resp.Role)

	_, err = svc.Me(context.Background(), user.Actor{ID: "ghost", Role: user.RoleTutor})
	assert.ErrorIs(t, err, user.ErrProfileNotFound)
}

func TestIssueSSEToken(t *testing.T) {
	svc, jwtService, created := setupAuth(t)

	resp, err := svc.IssueSSEToken(context.Background(), created.Actor())
	require.NoError(t, err)
	assert.Equal(t, 300, resp.ExpiresIn)

	userID, err := jwtService.ValidateSSEToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, userID)
}
