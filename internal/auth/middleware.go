package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
	unauthorizedMessage = "Unauthorized"
	invalidTokenMessage = "Invalid token"
)

// Middleware verifies the bearer token and puts the caller on the request
// context. A nil verifier disables authentication (local development).
func Middleware(verifier *JWTVerifier) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get(authorizationHeader)
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				http.Error(w, unauthorizedMessage, http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, bearerPrefix)

			user, err := verifier.VerifyToken(tokenString)
			if err != nil {
				http.Error(w, invalidTokenMessage, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(UserContextKey).(*User)
	return user, ok
}
