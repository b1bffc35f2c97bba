package user

import "errors"

var (
	ErrProfileNotFound     = errors.New("user profile not found")
	ErrProfileEmailExists  = errors.New("email already registered")
	ErrForbidden           = errors.New("insufficient permissions")
	ErrUnknownRole         = errors.New("unknown role")
	ErrInvalidPolicy       = errors.New("invalid role policy")
	ErrInvalidPasswordHash = errors.New("profile has no password set")
)
