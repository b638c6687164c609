package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"finexa/internal/domain/linking"
	"finexa/internal/shared/session"
)

// UserResolver turns a session cookie into the signed-in user.
type UserResolver interface {
	LoggedInUser(ctx context.Context, sess session.Context) (*linking.User, error)
}

type contextKey string

const userKey contextKey = "user"

// Auth resolves the session cookie and stores the user in the request
// context. Requests with no usable session get 401.
func Auth(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := resolver.LoggedInUser(r.Context(), session.New(w, r))
			if err != nil || user == nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "Authentication required"})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *linking.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFrom returns the authenticated user stored by Auth, or nil.
func UserFrom(ctx context.Context) *linking.User {
	user, _ := ctx.Value(userKey).(*linking.User)
	return user
}
