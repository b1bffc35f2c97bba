package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clinassign/clinassign-backend-go/internal/domain/user"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/jwt"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/ratelimit"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver map[string]user.Profile

func (s stubResolver) Resolve(_ context.Context, id string) (user.Profile, error) {
	p, ok := s[id]
	if !ok {
		return user.Profile{}, user.ErrProfileNotFound
	}
	return p, nil
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis: connection refused")
}

// actorEcho writes the resolved actor's role as the body.
func actorEcho(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Write([]byte(actor.Role))
}

func TestAuthRequired(t *testing.T) {
	jwtService := jwt.NewJWTService("middleware-test-secret", time.Hour)
	profiles := stubResolver{
		"u-1": {ID: "u-1", Email: "tutor@clinassign.test", Role: user.RoleTutor},
	}
	handler := jwtauth.Verifier(jwtService.JWTAuth())(AuthRequired(profiles)(http.HandlerFunc(actorEcho)))

	access, _, err := jwtService.GenerateAccessToken("u-1", "tutor@clinassign.test", user.RolePrincipal)
	require.NoError(t, err)
	unknown, _, err := jwtService.GenerateAccessToken("u-2", "ghost@clinassign.test", user.RoleTutor)
	require.NoError(t, err)
	sseToken, _, err := jwtService.GenerateSSEToken("u-1")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "valid token resolves role from profile", header: "Bearer " + access, wantStatus: http.StatusOK, wantBody: "tutor"},
		{name: "no header", wantStatus: http.StatusUnauthorized},
		{name: "malformed token", header: "Bearer abc.def.ghi", wantStatus: http.StatusUnauthorized},
		{name: "sse token rejected", header: "Bearer " + sseToken, wantStatus: http.StatusUnauthorized},
		{name: "unknown profile", header: "Bearer " + unknown, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestRequireOperation(t *testing.T) {
	policy := user.DefaultPolicy()
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	serve := func(op user.Operation, actor *user.Actor) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if actor != nil {
			req = req.WithContext(WithActor(req.Context(), *actor))
		}
		rec := httptest.NewRecorder()
		RequireOperation(policy, op)(ok).ServeHTTP(rec, req)
		return rec
	}

	for _, role := range user.AllRoles {
		for _, op := range []user.Operation{user.OperationWrite, user.OperationDelete, user.OperationReport} {
			rec := serve(op, &user.Actor{ID: "a", Role: role})
			if policy.IsAuthorized(role, op) {
				assert.Equal(t, http.StatusNoContent, rec.Code, "%s %s", role, op)
			} else {
				assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", role, op)
				assert.Contains(t, rec.Body.String(), "Insufficient permissions")
			}
		}
	}

	rec := serve(user.OperationWrite, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimit(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	t.Run("per client ip", func(t *testing.T) {
		handler := RateLimit(ratelimit.NewTokenBucket(1, 1), "login")(ok)

		first := httptest.NewRequest(http.MethodPost, "/", nil)
		first.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, first)
		assert.Equal(t, http.StatusOK, rec.Code)

		again := httptest.NewRequest(http.MethodPost, "/", nil)
		again.RemoteAddr = "10.0.0.1:5001"
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, again)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)

		other := httptest.NewRequest(http.MethodPost, "/", nil)
		other.RemoteAddr = "10.0.0.2:5000"
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, other)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("fails open", func(t *testing.T) {
		handler := RateLimit(brokenLimiter{}, "login")(ok)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
