package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/clinassign/clinassign-backend-go/internal/domain/user"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/crypto/bcrypt"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clinassign_profile_cache_hits_total",
		Help: "Profile lookups served from the cache.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clinassign_profile_cache_misses_total",
		Help: "Profile lookups that went to the store.",
	})
)

type ProfileServiceImpl struct {
	user.ProfileRepository
	cache *expirable.LRU[string, user.Profile]
}

// NewProfileService wraps repo with an expiring LRU cache of at most size profiles.
// Only successful lookups are cached, so a newly created profile is visible immediately.
func NewProfileService(repo user.ProfileRepository, size int, ttl time.Duration) user.ProfileService {
	return &ProfileServiceImpl{
		ProfileRepository: repo,
		cache:             expirable.NewLRU[string, user.Profile](size, nil, ttl),
	}
}

// Resolve implements user.ProfileResolver.
func (s *ProfileServiceImpl) Resolve(ctx context.Context, id string) (user.Profile, error) {
	if p, ok := s.cache.Get(id); ok {
		cacheHits.Inc()
		return p, nil
	}
	cacheMisses.Inc()

	p, err := s.ProfileRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrProfileNotFound) {
			return user.Profile{}, err
		}
		return user.Profile{}, fmt.Errorf("failed to resolve profile: %w", err)
	}

	s.cache.Add(id, p)
	return p, nil
}

// Create implements user.ProfileService.
func (s *ProfileServiceImpl) Create(ctx context.Context, req user.CreateProfileRequest) (user.Profile, error) {
	if err := req.Validate(); err != nil {
		return user.Profile{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.Profile{}, fmt.Errorf("failed to hash password: %w", err)
	}
	hashed := string(hash)

	id, err := uuid.NewV7()
	if err != nil {
		return user.Profile{}, fmt.Errorf("failed to generate profile id: %w", err)
	}

	p := user.Profile{
		ID:           id.String(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         user.Role(strings.ToLower(req.Role)),
		PasswordHash: &hashed,
	}
	if dept := strings.TrimSpace(req.Department); dept != "" {
		p.Department = &dept
	}

	created, err := s.ProfileRepository.Create(ctx, p)
	if err != nil {
		if errors.Is(err, user.ErrProfileEmailExists) {
			return user.Profile{}, err
		}
		return user.Profile{}, fmt.Errorf("failed to create profile: %w", err)
	}
	return created, nil
}
