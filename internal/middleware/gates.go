package middleware

import (
	"errors"
	"strings"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CurrentUserKey holds the caller's user document once a gate has loaded it
const CurrentUserKey = "currentUser"

// loadCaller fetches the authenticated caller, reusing a copy an earlier gate already loaded
func loadCaller(c echo.Context, users repositories.UserRepository) (*models.User, error) {
	if u, ok := c.Get(CurrentUserKey).(*models.User); ok {
		return u, nil
	}
	id, ok := CurrentUserID(c)
	if !ok {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	user, err := users.GetUserByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewUnauthorizedError("Account no longer exists")
		}
		log.Error().Err(err).Str("op", "load_caller").Str("id", id.Hex()).Msg("store operation failed")
		return nil, models.NewStoreError("load_caller", id.Hex(), err)
	}
	c.Set(CurrentUserKey, user)
	return user, nil
}

// CurrentUser returns the caller document loaded by AdminRequired or BanGate
func CurrentUser(c echo.Context) (*models.User, bool) {
	u, ok := c.Get(CurrentUserKey).(*models.User)
	return u, ok
}

// AdminRequired lets through callers flagged isAdmin or whose email is listed in adminEmails.
// Must run after JWTAuth.
func AdminRequired(users repositories.UserRepository, adminEmails []string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		allowed[strings.ToLower(strings.TrimSpace(e))] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := loadCaller(c, users)
			if err != nil {
				return ErrorJSON(c, err)
			}
			if !user.IsAdmin && !allowed[strings.ToLower(user.Email)] {
				log.Warn().Str("user_id", user.ID.Hex()).Str("path", c.Path()).Msg("non-admin hit admin route")
				return ErrorJSON(c, models.NewForbiddenError("Admin access required"))
			}
			return next(c)
		}
	}
}

// BanGate rejects content-mutating requests from banned callers before any handler runs.
// Must run after JWTAuth.
func BanGate(users repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := loadCaller(c, users)
			if err != nil {
				return ErrorJSON(c, err)
			}
			if user.IsBanned {
				return ErrorJSON(c, models.NewForbiddenError("Your account is banned"))
			}
			return next(c)
		}
	}
}
