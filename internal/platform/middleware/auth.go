package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"authgate/internal/auth/models"
	dErrors "authgate/pkg/domain-errors"
	"authgate/pkg/platform/httputil"
	"authgate/pkg/requestcontext"
)

// TokenValidator resolves a presented bearer token to an identity.
type TokenValidator interface {
	Validate(ctx context.Context, tokenString string) (models.Identity, error)
}

// BearerToken extracts the token from an Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	return strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
}

// RequireAuth rejects requests without a valid access token and stores the
// resolved identity in the request context. The validator already
// collapses every failure cause into a single unauthorized error, so no
// detail about why a token was rejected reaches the response.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, ok := BearerToken(r)
			if !ok || tokenString == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			ident, err := validator.Validate(ctx, tokenString)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithIdentity(ctx, ident)))
		})
	}
}

// RequireRole checks a resolved identity against an allowed role set. It
// is a plain function composed by handlers after RequireAuth rather than
// another middleware layer.
func RequireRole(allowed []string, ident models.Identity) error {
	for _, role := range allowed {
		if ident.Role == role {
			return nil
		}
	}
	return dErrors.New(dErrors.CodeForbidden, "insufficient permissions")
}
