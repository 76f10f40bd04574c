package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nudriin/antrian-rest-api/internal/config"
	"github.com/nudriin/antrian-rest-api/internal/models"
	"github.com/nudriin/antrian-rest-api/internal/utils"
)

type ctxKey string

const ctxUser ctxKey = "user"

// UserFrom returns the caller identity resolved by WithAuth, or nil when the
// request is unauthenticated.
func UserFrom(ctx context.Context) *models.User {
	u, _ := ctx.Value(ctxUser).(*models.User)
	return u
}

// WithAuth resolves the bearer credential (Authorization header or session
// cookie) into a typed identity. It never rejects; RequireAuth and
// RequireRoles decide per route.
func WithAuth(log zerolog.Logger, cfg config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tok string
			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				tok = strings.TrimPrefix(h, "Bearer ")
			} else if c, err := r.Cookie("session"); err == nil {
				tok = c.Value
			}

			if tok == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := utils.ParseJWT(cfg.JWTSecret, tok)
			if err != nil {
				log.Debug().Err(err).Msg("invalid token")
				next.ServeHTTP(w, r)
				return
			}

			u := &models.User{
				ID:    claims.UserID,
				Email: claims.Email,
				Name:  claims.Name,
				Role:  claims.Role,
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUser, u)))
		})
	}
}
