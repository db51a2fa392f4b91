package middlew

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"fx-transactions/internal/custom_err"
	"fx-transactions/internal/models"
	"fx-transactions/internal/service"
	"fx-transactions/pkg/response"
)

// RequireAuth admits requests carrying "Authorization: Bearer <token>" whose
// token the access service accepts. Everything else gets 401.
func RequireAuth(access service.Access) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := GetLogger(r.Context())

			tokenString, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				log.Warn("authorization token missing")
				response.WriteJSONError(w, log, http.StatusUnauthorized,
					map[string]string{custom_err.FieldMessage: custom_err.TokenMissingMessage})
				return
			}

			claims, err := access.ValidateToken(tokenString)
			if err != nil {
				if !errors.Is(err, custom_err.ErrUnauthorized) {
					log.Error("failed to validate token", slog.String("error", err.Error()))
				} else {
					log.Warn("token rejected", slog.String("error", err.Error()))
				}
				response.WriteJSONError(w, log, http.StatusUnauthorized,
					map[string]string{custom_err.FieldMessage: custom_err.TokenRejectedMessage})
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			if claims.Subject != "" {
				ctx = context.WithValue(ctx, loggerKey, log.With(slog.String("subject", claims.Subject)))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims returns the claims of the admitted token, or nil outside RequireAuth.
func GetClaims(ctx context.Context) *models.AccessClaims {
	claims, _ := ctx.Value(claimsKey).(*models.AccessClaims)
	return claims
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
