package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/verdeflow/verde-assistant-service/internal/supabase"
	"github.com/verdeflow/verde-assistant-service/types"
	"github.com/verdeflow/verde-assistant-service/utils"
)

type contextKey string

const (
	userContextKey  contextKey = "auth.user"
	tokenContextKey contextKey = "auth.token"

	sessionCookieName = "sb-access-token"
	userCacheTTL      = 5 * time.Minute
)

// Authenticator resolves the caller identity on every request: bearer token
// first, session cookie as fallback. Lookups go to the identity provider,
// short-circuited by Redis when a cache is configured.
type Authenticator struct {
	Supabase *supabase.Client
	Redis    *redis.Client // nil disables caching
	Gate     *utils.LogGate
}

// RequireUser rejects unauthenticated requests with 401 and otherwise
// passes the resolved user (and their token) down via the request context.
func (a *Authenticator) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.Supabase == nil {
			utils.WriteError(w, types.NewError(types.ErrMissingConfiguration, "missing_supabase_env"))
			return
		}

		token := extractToken(r)
		if token == "" {
			utils.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "not_authenticated"})
			return
		}

		user, err := a.lookupUser(r.Context(), token)
		if err != nil {
			if a.Gate != nil {
				a.Gate.Printf("auth-backend", "AUTH ERROR: identity provider unreachable: %v", err)
			} else {
				log.Printf("AUTH ERROR: identity provider unreachable: %v", err)
			}
			utils.WriteError(w, types.NewError(types.ErrExecution, "auth lookup failed"))
			return
		}
		if user == nil {
			utils.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "not_authenticated"})
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = context.WithValue(ctx, tokenContextKey, token)
		next(w, r.WithContext(ctx))
	}
}

// lookupUser checks the cache, then the identity provider, caching hits.
func (a *Authenticator) lookupUser(ctx context.Context, token string) (*supabase.User, error) {
	cacheKey := ""
	if a.Redis != nil {
		sum := sha256.Sum256([]byte(token))
		cacheKey = "auth:user:" + hex.EncodeToString(sum[:16])
		if id, err := a.Redis.Get(ctx, cacheKey).Result(); err == nil && id != "" {
			return &supabase.User{ID: id}, nil
		}
	}

	user, err := a.Supabase.GetUser(ctx, token)
	if err != nil || user == nil {
		return user, err
	}

	if a.Redis != nil {
		if err := a.Redis.Set(ctx, cacheKey, user.ID, userCacheTTL).Err(); err != nil {
			log.Printf("auth cache write failed: %v", err)
		}
	}
	return user, nil
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// UserFrom returns the authenticated user stored by RequireUser.
func UserFrom(r *http.Request) *supabase.User {
	user, _ := r.Context().Value(userContextKey).(*supabase.User)
	return user
}

// TokenFrom returns the caller's access token, used to scope backend calls
// so row-level security applies to the caller, not the service.
func TokenFrom(r *http.Request) string {
	token, _ := r.Context().Value(tokenContextKey).(string)
	return token
}
