package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/turnos/internal/httperr"
)

const (
	ContextUserID     = "userID"
	ContextBusinessID = "businessID"
	ContextUserRole   = "userRole"
	ContextTokenID    = "tokenID"
	ContextTokenExp   = "tokenExp"
)

// Claims is the owner access token payload.
type Claims struct {
	BusinessID uint   `json:"businessId"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// Denylist reports signed-out token ids.
type Denylist interface {
	Revoked(ctx context.Context, jti string) (bool, error)
}

func ParseToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func AuthMiddleware(secret string, deny Denylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Abort(c, http.StatusUnauthorized, "missing_authorization_header", "Falta el encabezado Authorization.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_authorization_header", "Encabezado Authorization inválido.")
			return
		}

		claims, err := ParseToken(secret, parts[1])
		if err != nil {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token", "Sesión inválida o vencida.")
			return
		}

		userID, err := claims.GetSubject()
		if err != nil || userID == "" || claims.BusinessID == 0 {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token_payload", "Sesión inválida.")
			return
		}
		uid, err := strconv.ParseUint(userID, 10, 64)
		if err != nil || uid == 0 {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token_payload", "Sesión inválida.")
			return
		}

		if deny != nil && claims.ID != "" {
			revoked, err := deny.Revoked(c.Request.Context(), claims.ID)
			if err == nil && revoked {
				httperr.Abort(c, http.StatusUnauthorized, "token_revoked", "La sesión fue cerrada.")
				return
			}
		}

		var exp time.Time
		if claims.ExpiresAt != nil {
			exp = claims.ExpiresAt.Time
		}

		c.Set(ContextUserID, uint(uid))
		c.Set(ContextBusinessID, claims.BusinessID)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextTokenID, claims.ID)
		c.Set(ContextTokenExp, exp)

		c.Next()
	}
}
