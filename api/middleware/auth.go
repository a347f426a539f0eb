package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/carlothq/carlot-backend/api/responses"
	pkgAuth "github.com/carlothq/carlot-backend/pkg/auth"
	pkgerrors "github.com/carlothq/carlot-backend/pkg/errors"
	"github.com/carlothq/carlot-backend/pkg/logger"
)

type tokenParser interface {
	Parse(token string) (*pkgAuth.Claims, error)
}

type sessionValidator interface {
	Validate(ctx context.Context, tokenID string) (string, error)
}

// Auth validates a bearer token and seeds the request context with the
// caller's identity. The token must map to a live server-side session, so a
// revoked session stops working before the JWT expires.
func Auth(tokens tokenParser, sessions sessionValidator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := tokens.Parse(token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if sessions != nil {
				if _, err := sessions.Validate(r.Context(), claims.ID); err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
			}

			ctx := WithIdentity(r.Context(), claims.UserID, claims.Role, claims.ID)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    claims.UserID.String(),
					"actor_role": string(claims.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
