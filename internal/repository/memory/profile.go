package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/clinassign/clinassign-backend-go/internal/domain/user"
)

type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]user.Profile
	byEmail  map[string]string
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{
		profiles: make(map[string]user.Profile),
		byEmail:  make(map[string]string),
	}
}

// GetByID implements user.ProfileRepository.
func (r *ProfileRepository) GetByID(_ context.Context, id string) (user.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[id]
	if !ok {
		return user.Profile{}, user.ErrProfileNotFound
	}
	return p, nil
}

// GetByEmail implements user.ProfileRepository.
func (r *ProfileRepository) GetByEmail(_ context.Context, email string) (user.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return user.Profile{}, user.ErrProfileNotFound
	}
	return r.profiles[id], nil
}

// Create implements user.ProfileRepository.
func (r *ProfileRepository) Create(_ context.Context, p user.Profile) (user.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(p.Email)
	if _, ok := r.byEmail[email]; ok {
		return user.Profile{}, user.ErrProfileEmailExists
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.profiles[p.ID] = p
	r.byEmail[email] = p.ID
	return p, nil
}
