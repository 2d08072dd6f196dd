package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pulseautomarket/desking-backend/api/responses"
	pkgauth "github.com/pulseautomarket/desking-backend/pkg/auth"
	"github.com/pulseautomarket/desking-backend/pkg/config"
	pkgerrors "github.com/pulseautomarket/desking-backend/pkg/errors"
	"github.com/pulseautomarket/desking-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the claims.
// Every authenticated route is scoped to the dealer carried in the token.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
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

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if claims.DealerID == uuid.Nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing dealer scope"))
				return
			}
			if !claims.Role.CanManageDeals() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role not permitted"))
				return
			}

			ctx := WithUserID(r.Context(), claims.UserID.String())
			ctx = WithRole(ctx, string(claims.Role))
			ctx = WithDealerID(ctx, claims.DealerID.String())

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    claims.UserID.String(),
					"actor_role": string(claims.Role),
					"dealer_id":  claims.DealerID.String(),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireApprover gates status and pricing overrides behind desk-manager roles.
func RequireApprover(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, err := roleFromRequest(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if !role.CanApproveDeals() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "approver role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
