package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinassign/clinassign-backend-go/internal/domain/auth"
	"github.com/clinassign/clinassign-backend-go/internal/domain/user"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.ProfileRepository
	profiles user.ProfileResolver
	jwt.Service
}

func NewAuthService(profileRepository user.ProfileRepository, profiles user.ProfileResolver, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		ProfileRepository: profileRepository,
		profiles:          profiles,
		Service:           jwtService,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest) (auth.TokenResponse, error) {
	if err := loginReq.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	profile, err := a.ProfileRepository.GetByEmail(ctx, loginReq.Email)
	if err != nil {
		if errors.Is(err, user.ErrProfileNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get profile by email: %w", err)
	}

	// Check password
	if profile.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*profile.PasswordHash), []byte(loginReq.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	var tokenResponse auth.TokenResponse
	tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(profile.ID, profile.Email, profile.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	tokenResponse.Role = string(profile.Role)

	return tokenResponse, nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, actor user.Actor) (user.ProfileResponse, error) {
	profile, err := a.profiles.Resolve(ctx, actor.ID)
	if err != nil {
		return user.ProfileResponse{}, err
	}
	return user.NewProfileResponse(profile), nil
}

// IssueSSEToken implements auth.AuthService.
func (a *AuthServiceImpl) IssueSSEToken(ctx context.Context, actor user.Actor) (auth.SSETokenResponse, error) {
	token, expiresIn, err := a.Service.GenerateSSEToken(actor.ID)
	if err != nil {
		return auth.SSETokenResponse{}, fmt.Errorf("failed to create sse token: %w", err)
	}
	return auth.SSETokenResponse{Token: token, ExpiresIn: expiresIn}, nil
}
