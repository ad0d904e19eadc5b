package middleware

import (
	"errors"
	"strings"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context keys set by the auth middleware
const (
	ClaimsKey = "user"
	UserIDKey = "userID"
)

// JWTAuth checks for a valid bearer JWT signed with secret and stores the caller's claims
// and ObjectID in the context.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return ErrorJSON(c, models.NewUnauthorizedError("Missing Authorization header"))
			}

			// Expecting "Bearer <token>"
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return ErrorJSON(c, models.NewUnauthorizedError("Invalid Authorization header format"))
			}

			claims := &models.JwtCustomClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(secret), nil
			})
			if err != nil {
				if errors.Is(err, jwt.ErrSignatureInvalid) {
					return ErrorJSON(c, models.NewUnauthorizedError("Invalid token signature"))
				}
				return ErrorJSON(c, models.NewUnauthorizedError("Invalid token"))
			}
			if !token.Valid {
				return ErrorJSON(c, models.NewUnauthorizedError("Invalid token"))
			}

			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				return ErrorJSON(c, models.NewUnauthorizedError("Invalid token subject"))
			}

			c.Set(ClaimsKey, claims)
			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}

// CurrentUserID returns the caller resolved by JWTAuth. ok is false on unauthenticated routes.
func CurrentUserID(c echo.Context) (primitive.ObjectID, bool) {
	id, ok := c.Get(UserIDKey).(primitive.ObjectID)
	return id, ok
}

// CurrentClaims returns the parsed token claims
func CurrentClaims(c echo.Context) (*models.JwtCustomClaims, bool) {
	claims, ok := c.Get(ClaimsKey).(*models.JwtCustomClaims)
	return claims, ok
}
