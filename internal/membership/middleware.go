// internal/membership/middleware.go
package membership

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey struct{}

// SessionFrom extracts the authenticated session stored by Authenticator.
func SessionFrom(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(ctxKey{}).(Session)
	return sess, ok
}

// Authenticator validates the bearer token on each request and stores the
// resulting session in the request context. Requests without a valid token
// are rejected.
func Authenticator(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			parts := strings.SplitN(auth, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			sess, err := ParseToken(parts[1], secret)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
