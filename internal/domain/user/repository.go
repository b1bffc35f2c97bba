package user

import (
	"context"
)

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (Profile, error)
	GetByEmail(ctx context.Context, email string) (Profile, error)
	Create(ctx context.Context, profile Profile) (Profile, error)
}
