package user

import "context"

// ProfileResolver maps an authenticated subject onto its stored profile.
type ProfileResolver interface {
	Resolve(ctx context.Context, id string) (Profile, error)
}

type ProfileService interface {
	ProfileResolver
	Create(ctx context.Context, req CreateProfileRequest) (Profile, error)
}
