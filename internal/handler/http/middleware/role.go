package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/clinassign/clinassign-backend-go/internal/domain/auth"
	"github.com/clinassign/clinassign-backend-go/internal/domain/user"
	"github.com/clinassign/clinassign-backend-go/internal/handler/http/response"
)

// RequireOperation rejects actors whose role may not perform op under policy.
func RequireOperation(policy user.Policy, op user.Operation) func(http.Handler) http.Handler {
	allowed := policy.Roles(op)
	names := make([]string, len(allowed))
	for i, r := range allowed {
		names[i] = string(r)
	}
	required := strings.Join(names, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrMissingToken)
				return
			}

			if !policy.IsAuthorized(actor.Role, op) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: %s requires one of [%s], but user role is '%s'", op, required, actor.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
