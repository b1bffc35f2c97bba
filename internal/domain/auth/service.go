package auth

import (
	"context"

	"github.com/clinassign/clinassign-backend-go/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Me(ctx context.Context, actor user.Actor) (user.ProfileResponse, error)
	IssueSSEToken(ctx context.Context, actor user.Actor) (SSETokenResponse, error)
}
