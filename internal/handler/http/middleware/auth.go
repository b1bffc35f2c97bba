package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/clinassign/clinassign-backend-go/internal/domain/auth"
	"github.com/clinassign/clinassign-backend-go/internal/domain/user"
	"github.com/clinassign/clinassign-backend-go/internal/handler/http/response"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type actorKey struct{}

// WithActor stores the authenticated actor on ctx.
func WithActor(ctx context.Context, actor user.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored by AuthRequired.
func ActorFromContext(ctx context.Context) (user.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(user.Actor)
	return actor, ok
}

// AuthRequired accepts only verified access tokens and resolves the token subject to a
// profile. The role comes from the profile, never from the token claims.
// Must run after jwtauth.Verifier.
func AuthRequired(profiles user.ProfileResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				if errors.Is(err, jwtauth.ErrNoTokenFound) {
					response.HandleError(w, auth.ErrMissingToken)
					return
				}
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			userID, _ := claims["user_id"].(string)
			if userID == "" {
				userID = token.Subject()
			}
			if userID == "" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			profile, err := profiles.Resolve(r.Context(), userID)
			if err != nil {
				response.HandleError(w, err)
				return
			}

			ctx := WithActor(r.Context(), profile.Actor())
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}
