package user

import (
	"strings"

	"github.com/clinassign/clinassign-backend-go/internal/pkg/validator"
)

// ProfileResponse represents a profile in API responses
type ProfileResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	FullName   string  `json:"full_name"`
	Role       string  `json:"role"`
	Department *string `json:"department,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func NewProfileResponse(p Profile) ProfileResponse {
	return ProfileResponse{
		ID:         p.ID,
		Email:      p.Email,
		FullName:   p.FullName,
		Role:       string(p.Role),
		Department: p.Department,
		CreatedAt:  p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:  p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// CreateProfileRequest is used by the admin CLI to seed accounts
type CreateProfileRequest struct {
	Email      string
	FullName   string
	Role       string
	Department string
	Password   string
}

func (r *CreateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}

	if validator.IsEmpty(r.FullName) {
		errs.Add("full_name", "full_name is required")
	} else if !validator.MaxLength(r.FullName, 255) {
		errs.Add("full_name", "full_name must not exceed 255 characters")
	}

	if !Role(strings.ToLower(r.Role)).IsValid() {
		errs.Add("role", "role must be one of student, tutor, nursing_head, hospital_admin, principal")
	}

	if len(r.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters long")
	} else if len(r.Password) > 72 {
		errs.Add("password", "password must not exceed 72 characters")
	}

	return errs.Err()
}
