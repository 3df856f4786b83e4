package transport

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/rentkaro/rentcore/cmd/config"
	"github.com/rentkaro/rentcore/constant"
	redisrepo "github.com/rentkaro/rentcore/repository/redis"
	"github.com/rentkaro/rentcore/utils/errors"
)

// Claims are the bearer-token claims this core consumes. Token issuance
// lives in the external auth service; this middleware only validates.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token against the JWT secret and
// the Redis session store, then embeds the actor's id and role into the
// request context.
func AuthMiddleware(cfg *config.Config, redisRepo redisrepo.Repository) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Public paths
			path := r.URL.Path
			if isPublicPath(path) {
				next.ServeHTTP(w, r)
				return
			}

			// Check Authorization header
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
				return
			}
			tokenString := strings.TrimPrefix(auth, "Bearer ")

			userID, role, err := validateToken(r.Context(), cfg, redisRepo, tokenString)
			if err != nil {
				writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
				return
			}

			ctx := context.WithValue(r.Context(), constant.UserIDKey, userID)
			ctx = context.WithValue(ctx, constant.RoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validateToken(ctx context.Context, cfg *config.Config, redisRepo redisrepo.Repository, tokenString string) (uint64, constant.Role, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.Auth.JWTSecret), nil
	})
	if err != nil {
		return 0, "", err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, "", errors.SetCustomError(constant.ErrUnauthorize)
	}
	if claims.ID == "" {
		return 0, "", errors.SetCustomError(constant.ErrUnauthorize)
	}

	// The session key is written by the external auth service on login;
	// a missing or mismatched session means the token was revoked.
	sessionUserID, err := redisRepo.GetSession(ctx, claims.ID)
	if err != nil {
		return 0, "", err
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, "", err
	}
	if sessionUserID != userID {
		return 0, "", errors.SetCustomError(constant.ErrUnauthorize)
	}

	role := constant.Role(claims.Role)
	switch role {
	case constant.RoleCustomer, constant.RoleVendor, constant.RoleAdmin:
	default:
		return 0, "", errors.SetCustomError(constant.ErrUnauthorize)
	}

	return userID, role, nil
}

// isPublicPath defines which endpoints are public (no auth required)
func isPublicPath(path string) bool {
	if strings.HasPrefix(path, "/swagger/") || strings.HasPrefix(path, "/internal/") {
		return true
	}
	if strings.HasPrefix(path, "/variants/") && strings.HasSuffix(path, "/availability") {
		return true
	}

	return false
}
