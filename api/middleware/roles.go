package middleware

import (
	"net/http"

	"github.com/pulseautomarket/desking-backend/pkg/enums"
	pkgerrors "github.com/pulseautomarket/desking-backend/pkg/errors"
)

func roleFromRequest(r *http.Request) (enums.StaffRole, error) {
	raw := RoleFromContext(r.Context())
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing role")
	}
	role, err := enums.ParseStaffRole(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "unknown role")
	}
	return role, nil
}
