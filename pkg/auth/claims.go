package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pulseautomarket/desking-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	DealerID uuid.UUID
	Role     enums.StaffRole
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to dealership staff.
type AccessTokenClaims struct {
	UserID   uuid.UUID       `json:"user_id"`
	DealerID uuid.UUID       `json:"dealer_id"`
	Role     enums.StaffRole `json:"role"`
	jwt.RegisteredClaims
}
